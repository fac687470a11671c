package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Policy holds the moderation thresholds and word lists for the community
// bot. All fields have working defaults; a YAML file only overrides what it
// sets.
type Policy struct {
	// Blacklist terms trigger message deletion (lowercase substrings).
	Blacklist []string `yaml:"blacklist"`
	// WhitelistDomains are the only domains allowed in posted links.
	WhitelistDomains []string `yaml:"whitelist_domains"`
	// FloodLimit is the max messages per user within FloodWindowSeconds.
	FloodLimit         int `yaml:"flood_limit"`
	FloodWindowSeconds int `yaml:"flood_window_seconds"`
	// MuteMinutes is the penalty duration for flooding.
	MuteMinutes int `yaml:"mute_minutes"`
}

// DefaultPolicy returns the built-in moderation policy.
func DefaultPolicy() Policy {
	return Policy{
		Blacklist: []string{
			"scam", "rug", "fake", "honey", "drainer",
			"free mint", "airdrop", "whitelist",
			"dm me", "send funds", "make money",
			"passive income", "giveaway", "doubler",
		},
		WhitelistDomains: []string{
			"pepetopia.com", "x.com", "twitter.com",
			"t.me", "telegram.me", "coingecko.com", "dexscreener.com",
		},
		FloodLimit:         5,
		FloodWindowSeconds: 10,
		MuteMinutes:        10,
	}
}

// LoadPolicy reads a YAML policy file and merges it over the defaults.
// An empty path returns the defaults unchanged.
func LoadPolicy(path string) (Policy, error) {
	p := DefaultPolicy()
	if path == "" {
		return p, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("read policy file: %w", err)
	}
	var override Policy
	if err := yaml.Unmarshal(data, &override); err != nil {
		return p, fmt.Errorf("parse policy file: %w", err)
	}
	if len(override.Blacklist) > 0 {
		p.Blacklist = override.Blacklist
	}
	if len(override.WhitelistDomains) > 0 {
		p.WhitelistDomains = override.WhitelistDomains
	}
	if override.FloodLimit > 0 {
		p.FloodLimit = override.FloodLimit
	}
	if override.FloodWindowSeconds > 0 {
		p.FloodWindowSeconds = override.FloodWindowSeconds
	}
	if override.MuteMinutes > 0 {
		p.MuteMinutes = override.MuteMinutes
	}
	return p, nil
}
