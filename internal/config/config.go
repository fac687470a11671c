// Package config loads service configuration from environment variables,
// with an optional .env file fallback for local development. Secrets are
// never written to disk by this package and Summary() masks them for logs.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all configuration for the three bot services. Each service
// validates only the fields it needs, so one populated Config can drive any
// subcommand.
type Config struct {
	// TelegramToken authenticates against the Telegram Bot API.
	TelegramToken string
	// GeminiAPIKey authenticates against the Gemini API.
	GeminiAPIKey string

	// OperatorChatID is the only chat the reply service answers.
	OperatorChatID int64

	// TradingSymbol is the ticker pair for /price (e.g. "PEPETOPIA/USDT").
	TradingSymbol string

	// GitHubToken and GitHubRepo ("owner/name") configure the digest source.
	GitHubToken string
	GitHubRepo  string
	// DigestChatID is the channel the digest service posts to.
	DigestChatID int64
	// DigestTime is the daily post time in "15:04" form, local time.
	DigestTime string

	// RedisAddr/RedisPassword/RedisDB configure the state store.
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// PolicyFile is an optional YAML moderation policy path.
	PolicyFile string

	// Debug enables verbose logging.
	Debug bool
}

// FromEnv loads configuration from the environment. A .env file in the
// working directory is read first; existing environment variables win.
func FromEnv() *Config {
	loadDotEnv()

	return &Config{
		TelegramToken:  getEnv("TELEGRAM_BOT_TOKEN", ""),
		GeminiAPIKey:   getEnv("GEMINI_API_KEY", ""),
		OperatorChatID: toInt64(getEnv("OPERATOR_CHAT_ID", "0")),
		TradingSymbol:  getEnv("TRADING_SYMBOL", "PEPETOPIA/USDT"),
		GitHubToken:    getEnv("GITHUB_TOKEN", ""),
		GitHubRepo:     getEnv("GITHUB_REPO", ""),
		DigestChatID:   toInt64(getEnv("DIGEST_CHAT_ID", "0")),
		DigestTime:     getEnv("DIGEST_TIME", "17:00"),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		RedisDB:        int(toInt64(getEnv("REDIS_DB", "0"))),
		PolicyFile:     getEnv("MODERATION_POLICY_FILE", ""),
		Debug:          toBool(getEnv("DEBUG", "false")),
	}
}

// ValidateReply checks the fields the reply service requires.
func (c *Config) ValidateReply() error {
	if err := c.requireCore(); err != nil {
		return err
	}
	if c.OperatorChatID == 0 {
		return fmt.Errorf("OPERATOR_CHAT_ID is not configured")
	}
	return nil
}

// ValidateCommunity checks the fields the community service requires.
func (c *Config) ValidateCommunity() error {
	return c.requireCore()
}

// ValidateDigest checks the fields the digest service requires.
func (c *Config) ValidateDigest() error {
	if err := c.requireCore(); err != nil {
		return err
	}
	if c.GitHubRepo == "" || !strings.Contains(c.GitHubRepo, "/") {
		return fmt.Errorf("GITHUB_REPO must be set in owner/name form")
	}
	if c.DigestChatID == 0 {
		return fmt.Errorf("DIGEST_CHAT_ID is not configured")
	}
	if _, _, err := ParseClock(c.DigestTime); err != nil {
		return fmt.Errorf("DIGEST_TIME: %w", err)
	}
	return nil
}

func (c *Config) requireCore() error {
	if c.TelegramToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN is not configured")
	}
	if c.GeminiAPIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is not configured")
	}
	return nil
}

// RepoOwnerName splits GitHubRepo into its owner and name parts.
func (c *Config) RepoOwnerName() (owner, name string) {
	parts := strings.SplitN(c.GitHubRepo, "/", 2)
	if len(parts) != 2 {
		return c.GitHubRepo, ""
	}
	return parts[0], parts[1]
}

// ParseClock parses a "15:04" string into hour and minute.
func ParseClock(s string) (hour, minute int, err error) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid clock value %q, want HH:MM", s)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid hour in %q", s)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid minute in %q", s)
	}
	return hour, minute, nil
}

// Summary returns a human-readable configuration summary with sensitive
// values masked.
func (c *Config) Summary() string {
	return fmt.Sprintf(
		"Telegram: %s | Gemini: %s | Repo: %s | Redis: %s | Debug: %v",
		maskToken(c.TelegramToken),
		maskToken(c.GeminiAPIKey),
		defaultStr(c.GitHubRepo, "-"),
		c.RedisAddr,
		c.Debug,
	)
}

func maskToken(tok string) string {
	if tok == "" {
		return "unset"
	}
	if len(tok) <= 8 {
		return "***"
	}
	return tok[:6] + "..."
}

// --- internal helpers ---

func getEnv(key, fallback string) string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	return strings.TrimSpace(val)
}

func toBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "1" || s == "yes" || s == "on"
}

func toInt64(s string) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func defaultStr(s, d string) string {
	if s == "" {
		return d
	}
	return s
}

// loadDotEnv attempts to load a .env file from the current directory.
// It silently ignores errors (file not found, parse errors).
func loadDotEnv() {
	data, err := os.ReadFile(".env")
	if err != nil {
		return
	}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		val := strings.TrimSpace(parts[1])
		// Don't override existing env vars
		if os.Getenv(key) == "" {
			os.Setenv(key, val)
		}
	}
}
