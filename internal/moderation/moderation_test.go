package moderation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/pepetopia/topi/internal/config"
)

func TestFloodTrackerUnderLimit(t *testing.T) {
	tr := NewFloodTracker(5, 10*time.Second)
	for i := 0; i < 5; i++ {
		assert.False(t, tr.Record(1), "message %d should be under the limit", i+1)
	}
}

func TestFloodTrackerOverLimit(t *testing.T) {
	tr := NewFloodTracker(5, 10*time.Second)
	for i := 0; i < 5; i++ {
		tr.Record(1)
	}
	assert.True(t, tr.Record(1))
}

func TestFloodTrackerWindowSlides(t *testing.T) {
	now := time.Unix(1000, 0)
	tr := NewFloodTracker(5, 10*time.Second)
	tr.now = func() time.Time { return now }

	for i := 0; i < 5; i++ {
		assert.False(t, tr.Record(1))
	}
	// Outside the window the old timestamps expire.
	now = now.Add(11 * time.Second)
	assert.False(t, tr.Record(1))
}

func TestFloodTrackerPerUser(t *testing.T) {
	tr := NewFloodTracker(2, 10*time.Second)
	tr.Record(1)
	tr.Record(1)
	// A different user has an independent window.
	assert.False(t, tr.Record(2))
	assert.True(t, tr.Record(1))
}

func TestBlockedTerm(t *testing.T) {
	blacklist := config.DefaultPolicy().Blacklist

	term, found := BlockedTerm("This is a SCAM project", blacklist)
	assert.True(t, found)
	assert.Equal(t, "scam", term)

	_, found = BlockedTerm("gm everyone, great day to build", blacklist)
	assert.False(t, found)
}

func TestLinkAllowed(t *testing.T) {
	whitelist := config.DefaultPolicy().WhitelistDomains

	assert.True(t, LinkAllowed("read this https://x.com/pepetopia/status/1", whitelist))
	assert.True(t, LinkAllowed("join https://T.ME/pepetopia", whitelist))
	assert.False(t, LinkAllowed("claim at https://free-mint.xyz/airdrop", whitelist))
}

func TestGuardsOrderAndOutcomes(t *testing.T) {
	policy := config.DefaultPolicy()
	flood := NewFloodTracker(policy.FloodLimit, time.Duration(policy.FloodWindowSeconds)*time.Second)
	guards := Guards(policy, flood)

	// Clean message from a quiet user passes everything.
	result := guards.CheckSafe("hello frens", map[string]any{
		ExtraUserID:  int64(1),
		ExtraHasLink: false,
	})
	assert.True(t, result.Passed)

	// Unauthorized link.
	result = guards.CheckSafe("visit https://evil.example.com now", map[string]any{
		ExtraUserID:  int64(2),
		ExtraHasLink: true,
	})
	assert.False(t, result.Passed)
	assert.Equal(t, "link_whitelist", result.GuardName)

	// Blacklisted term.
	result = guards.CheckSafe("dm me for passive income", map[string]any{
		ExtraUserID:  int64(3),
		ExtraHasLink: false,
	})
	assert.False(t, result.Passed)
	assert.Equal(t, "blacklist", result.GuardName)
}

func TestGuardsFloodFiresFirst(t *testing.T) {
	policy := config.DefaultPolicy()
	policy.FloodLimit = 1
	flood := NewFloodTracker(policy.FloodLimit, time.Duration(policy.FloodWindowSeconds)*time.Second)
	guards := Guards(policy, flood)

	extra := map[string]any{ExtraUserID: int64(9), ExtraHasLink: false}
	assert.True(t, guards.CheckSafe("first", extra).Passed)

	// Second message floods; even a blacklisted text reports flood_control
	// because it runs first.
	result := guards.CheckSafe("total scam", extra)
	assert.False(t, result.Passed)
	assert.Equal(t, "flood_control", result.GuardName)
}

func TestGuardsWhitelistedLinkPasses(t *testing.T) {
	policy := config.DefaultPolicy()
	flood := NewFloodTracker(policy.FloodLimit, time.Duration(policy.FloodWindowSeconds)*time.Second)
	guards := Guards(policy, flood)

	result := guards.CheckSafe("chart: https://dexscreener.com/solana/abc", map[string]any{
		ExtraUserID:  int64(4),
		ExtraHasLink: true,
	})
	assert.True(t, result.Passed)
}

func TestSwitchesDefaults(t *testing.T) {
	s := NewSwitches()
	assert.False(t, s.Lockdown())
	assert.True(t, s.Autopilot())
}

func TestSwitchesToggle(t *testing.T) {
	s := NewSwitches()
	s.SetLockdown(true)
	s.SetAutopilot(false)
	assert.True(t, s.Lockdown())
	assert.False(t, s.Autopilot())
	s.SetLockdown(false)
	s.SetAutopilot(true)
	assert.False(t, s.Lockdown())
	assert.True(t, s.Autopilot())
}
