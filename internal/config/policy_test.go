package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy()
	assert.Equal(t, 5, p.FloodLimit)
	assert.Equal(t, 10, p.FloodWindowSeconds)
	assert.Equal(t, 10, p.MuteMinutes)
	assert.Contains(t, p.Blacklist, "scam")
	assert.Contains(t, p.WhitelistDomains, "pepetopia.com")
}

func TestLoadPolicyEmptyPathReturnsDefaults(t *testing.T) {
	p, err := LoadPolicy("")
	require.NoError(t, err)
	assert.Equal(t, DefaultPolicy(), p)
}

func TestLoadPolicyMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"flood_limit: 3\nblacklist:\n  - spamword\n"), 0o644))

	p, err := LoadPolicy(path)
	require.NoError(t, err)
	assert.Equal(t, 3, p.FloodLimit)
	assert.Equal(t, []string{"spamword"}, p.Blacklist)
	// Unset fields keep their defaults.
	assert.Equal(t, 10, p.FloodWindowSeconds)
	assert.Equal(t, DefaultPolicy().WhitelistDomains, p.WhitelistDomains)
}

func TestLoadPolicyMissingFile(t *testing.T) {
	_, err := LoadPolicy(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadPolicyInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("flood_limit: [not an int"), 0o644))
	_, err := LoadPolicy(path)
	assert.Error(t, err)
}
