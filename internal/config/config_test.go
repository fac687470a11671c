package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseConfig() *Config {
	return &Config{
		TelegramToken:  "123456:ABC-secret-token",
		GeminiAPIKey:   "AIzaSySecretKey123",
		OperatorChatID: 42,
		GitHubRepo:     "pepetopia/core",
		DigestChatID:   -100,
		DigestTime:     "17:00",
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "tok")
	t.Setenv("GEMINI_API_KEY", "key")
	t.Setenv("OPERATOR_CHAT_ID", "123")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("DEBUG", "true")
	t.Setenv("DIGEST_TIME", "")
	t.Setenv("REDIS_ADDR", "")

	cfg := FromEnv()
	assert.Equal(t, "tok", cfg.TelegramToken)
	assert.Equal(t, "key", cfg.GeminiAPIKey)
	assert.Equal(t, int64(123), cfg.OperatorChatID)
	assert.Equal(t, 2, cfg.RedisDB)
	assert.True(t, cfg.Debug)
	// Defaults apply where nothing is set.
	assert.Equal(t, "17:00", cfg.DigestTime)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
}

func TestValidateReply(t *testing.T) {
	cfg := baseConfig()
	require.NoError(t, cfg.ValidateReply())

	cfg.OperatorChatID = 0
	assert.Error(t, cfg.ValidateReply())

	cfg = baseConfig()
	cfg.TelegramToken = ""
	assert.Error(t, cfg.ValidateReply())
}

func TestValidateCommunity(t *testing.T) {
	cfg := baseConfig()
	require.NoError(t, cfg.ValidateCommunity())

	cfg.GeminiAPIKey = ""
	assert.Error(t, cfg.ValidateCommunity())
}

func TestValidateDigest(t *testing.T) {
	cfg := baseConfig()
	require.NoError(t, cfg.ValidateDigest())

	cfg.GitHubRepo = "not-owner-name-form"
	assert.Error(t, cfg.ValidateDigest())

	cfg = baseConfig()
	cfg.DigestChatID = 0
	assert.Error(t, cfg.ValidateDigest())

	cfg = baseConfig()
	cfg.DigestTime = "25:00"
	assert.Error(t, cfg.ValidateDigest())
}

func TestRepoOwnerName(t *testing.T) {
	cfg := &Config{GitHubRepo: "pepetopia/core"}
	owner, name := cfg.RepoOwnerName()
	assert.Equal(t, "pepetopia", owner)
	assert.Equal(t, "core", name)
}

func TestParseClock(t *testing.T) {
	h, m, err := ParseClock("17:30")
	require.NoError(t, err)
	assert.Equal(t, 17, h)
	assert.Equal(t, 30, m)

	h, m, err = ParseClock("0:05")
	require.NoError(t, err)
	assert.Equal(t, 0, h)
	assert.Equal(t, 5, m)

	for _, bad := range []string{"", "17", "24:00", "12:60", "ab:cd", "-1:00"} {
		_, _, err := ParseClock(bad)
		assert.Error(t, err, "ParseClock(%q)", bad)
	}
}

func TestSummaryMasksSecrets(t *testing.T) {
	cfg := baseConfig()
	summary := cfg.Summary()
	assert.NotContains(t, summary, cfg.TelegramToken)
	assert.NotContains(t, summary, cfg.GeminiAPIKey)
	assert.Contains(t, summary, "123456...")
}

func TestMaskToken(t *testing.T) {
	assert.Equal(t, "unset", maskToken(""))
	assert.Equal(t, "***", maskToken("short"))
	assert.Equal(t, "abcdef...", maskToken("abcdefghijklmnop"))
}
