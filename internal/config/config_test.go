package config

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse(map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, StoreMemory, cfg.Store)
	assert.Equal(t, 5*time.Second, cfg.StoreTimeout)
	assert.Equal(t, 30*time.Second, cfg.LockTTL)
	assert.Equal(t, "canvass:", cfg.RedisPrefix)
	assert.Equal(t, 4096, cfg.MaxInputSize)
	assert.Equal(t, CampaignsDir, cfg.Campaigns)
	assert.NoError(t, cfg.Validate())
}

func TestParse_Overrides(t *testing.T) {
	cfg, err := Parse(map[string]string{
		"CANVASS_STORE":                    "redis",
		"CANVASS_REDIS_DB":                 "3",
		"CANVASS_SESSION_TTL":              "24h",
		"CANVASS_ENCRYPTION_FALLBACK_KEYS": "a,b",
		"CANVASS_PII_PATTERNS":             `\d{11};[a-z]+@x\.com`,
		"CANVASS_REDACT_PII":               "true",
	})
	require.NoError(t, err)

	assert.Equal(t, StoreRedis, cfg.Store)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, []string{"a", "b"}, cfg.EncryptionFallbackKeys)
	assert.Equal(t, []string{`\d{11}`, `[a-z]+@x\.com`}, cfg.PIIPatterns)
	assert.True(t, cfg.RedactPII)
}

func TestParse_BadValue(t *testing.T) {
	_, err := Parse(map[string]string{"CANVASS_STORE_TIMEOUT": "soon"})
	assert.Error(t, err)
}

func TestValidate_AggregatesErrors(t *testing.T) {
	cfg, err := Parse(map[string]string{
		"CANVASS_STORE":              "postgres",
		"CANVASS_LOG_FORMAT":         "xml",
		"CANVASS_ENCRYPTION_KEY":     "c2hvcnQ=",
		"CANVASS_TWILIO_ACCOUNT_SID": "AC123",
	})
	require.NoError(t, err)

	err = cfg.Validate()
	require.Error(t, err)
	msg := err.Error()
	for _, want := range []string{"DATABASE_DSN", "LOG_FORMAT", "ENCRYPTION_KEY", "TWILIO_AUTH_TOKEN"} {
		assert.True(t, strings.Contains(msg, want), "missing %s in %q", want, msg)
	}
}

func TestValidate_SQLCampaignsNeedSQLStore(t *testing.T) {
	cfg, err := Parse(map[string]string{"CANVASS_CAMPAIGNS": "sql", "CANVASS_DATABASE_DSN": "x"})
	require.NoError(t, err)
	assert.Error(t, cfg.Validate())

	cfg.Store = StoreSQLite
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, "sqlite", cfg.SQLDriver())
}

func TestDecodeKey(t *testing.T) {
	key := make([]byte, 32)
	got, err := DecodeKey(base64.StdEncoding.EncodeToString(key))
	require.NoError(t, err)
	assert.Len(t, got, 32)

	_, err = DecodeKey("!!!")
	assert.Error(t, err)
}

func TestLoad_DotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("CANVASS_LOCALE=pt-BR\n"), 0644))
	t.Setenv("CANVASS_ADDR", ":9090")
	// godotenv never overrides variables already set; register cleanup for the one it adds.
	t.Setenv("CANVASS_LOCALE", "")
	require.NoError(t, os.Unsetenv("CANVASS_LOCALE"))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "pt-BR", cfg.Locale)
	assert.Equal(t, ":9090", cfg.Addr)
}
