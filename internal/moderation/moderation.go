// Package moderation implements the community bot's per-message checks:
// flood control, link whitelisting and blacklist filtering. Each check is an
// independent, stateless predicate over static thresholds; only the flood
// window carries in-memory state.
package moderation

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/pepetopia/topi/internal/config"
	"github.com/pepetopia/topi/internal/guard"
)

// FloodTracker keeps a sliding per-user timestamp window.
type FloodTracker struct {
	limit  int
	window time.Duration
	now    func() time.Time

	mu  sync.Mutex
	log map[int64][]time.Time
}

// NewFloodTracker creates a tracker allowing limit messages per window.
func NewFloodTracker(limit int, window time.Duration) *FloodTracker {
	return &FloodTracker{
		limit:  limit,
		window: window,
		now:    time.Now,
		log:    make(map[int64][]time.Time),
	}
}

// Record registers one message from the user and reports whether the user
// is now over the rate limit.
func (t *FloodTracker) Record(userID int64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	cutoff := now.Add(-t.window)

	recent := t.log[userID][:0]
	for _, ts := range t.log[userID] {
		if ts.After(cutoff) {
			recent = append(recent, ts)
		}
	}
	recent = append(recent, now)
	t.log[userID] = recent

	return len(recent) > t.limit
}

// BlockedTerm returns the first blacklist term found in the text.
func BlockedTerm(text string, blacklist []string) (string, bool) {
	lower := strings.ToLower(text)
	for _, term := range blacklist {
		if strings.Contains(lower, term) {
			return term, true
		}
	}
	return "", false
}

// LinkAllowed reports whether a message containing a link only references
// whitelisted domains.
func LinkAllowed(text string, whitelist []string) bool {
	lower := strings.ToLower(text)
	for _, domain := range whitelist {
		if strings.Contains(lower, domain) {
			return true
		}
	}
	return false
}

// Extra keys the moderation guards read from guard.Context.
const (
	ExtraUserID  = "user_id"
	ExtraHasLink = "has_link"
)

// Guards builds the moderation guard set in pipeline order: flood control,
// link whitelist, blacklist. Admin immunity is the caller's job; admins
// never reach this set.
func Guards(policy config.Policy, flood *FloodTracker) *guard.Set {
	set := guard.NewSet()

	set.Add("flood_control", func(ctx *guard.Context) *guard.Result {
		userID, _ := ctx.Extra[ExtraUserID].(int64)
		if userID != 0 && flood.Record(userID) {
			return &guard.Result{Passed: false, Reason: "message rate limit exceeded"}
		}
		return &guard.Result{Passed: true}
	})

	set.Add("link_whitelist", func(ctx *guard.Context) *guard.Result {
		hasLink, _ := ctx.Extra[ExtraHasLink].(bool)
		if hasLink && !LinkAllowed(ctx.Text, policy.WhitelistDomains) {
			return &guard.Result{Passed: false, Reason: "unauthorized link"}
		}
		return &guard.Result{Passed: true}
	})

	set.Add("blacklist", func(ctx *guard.Context) *guard.Result {
		if term, found := BlockedTerm(ctx.Text, policy.Blacklist); found {
			return &guard.Result{Passed: false, Reason: fmt.Sprintf("blocked term %q", term)}
		}
		return &guard.Result{Passed: true}
	})

	return set
}

// Switches holds the admin-toggled chat modes. Lockdown mirrors the applied
// chat permissions; autopilot gates AI chat replies.
type Switches struct {
	mu        sync.RWMutex
	lockdown  bool
	autopilot bool
}

// NewSwitches returns switches with autopilot enabled.
func NewSwitches() *Switches {
	return &Switches{autopilot: true}
}

func (s *Switches) SetLockdown(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lockdown = on
}

func (s *Switches) Lockdown() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lockdown
}

func (s *Switches) SetAutopilot(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.autopilot = on
}

func (s *Switches) Autopilot() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.autopilot
}
