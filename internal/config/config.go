// Package config loads process settings from the environment.
package config

import (
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Prefix is prepended to every variable name.
const Prefix = "CANVASS_"

// Session store backends.
const (
	StoreMemory   = "memory"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
	StoreFile     = "file"
)

// Campaign sources.
const (
	CampaignsDir = "dir"
	CampaignsSQL = "sql"
)

var (
	storeBackends   = []string{StoreMemory, StoreRedis, StorePostgres, StoreSQLite, StoreFile}
	campaignSources = []string{CampaignsDir, CampaignsSQL}
	logFormats      = []string{"text", "json"}
)

// Config holds every setting of the canvass binaries.
type Config struct {
	Addr      string `env:"ADDR"       envDefault:":8080"`
	LogLevel  string `env:"LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
	Locale    string `env:"LOCALE"     envDefault:"en"`

	Store        string        `env:"STORE"         envDefault:"memory"`
	DatabaseDSN  string        `env:"DATABASE_DSN"`
	SessionsDir  string        `env:"SESSIONS_DIR"  envDefault:".canvass/sessions"`
	StoreTimeout time.Duration `env:"STORE_TIMEOUT" envDefault:"5s"`
	LockTTL      time.Duration `env:"LOCK_TTL"      envDefault:"30s"`

	RedisAddr     string        `env:"REDIS_ADDR"     envDefault:"localhost:6379"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB"       envDefault:"0"`
	RedisPrefix   string        `env:"REDIS_PREFIX"   envDefault:"canvass:"`
	SessionTTL    time.Duration `env:"SESSION_TTL"    envDefault:"0s"`

	Campaigns       string `env:"CAMPAIGNS"        envDefault:"dir"`
	CampaignsDir    string `env:"CAMPAIGNS_DIR"    envDefault:"campaigns"`
	DefaultCampaign string `env:"DEFAULT_CAMPAIGN"`

	// EncryptionKey is a base64 AES-256 key; empty disables encryption at rest.
	EncryptionKey          string   `env:"ENCRYPTION_KEY"`
	EncryptionFallbackKeys []string `env:"ENCRYPTION_FALLBACK_KEYS" envSeparator:","`
	RedactPII              bool     `env:"REDACT_PII"`
	PIIPatterns            []string `env:"PII_PATTERNS" envSeparator:";"`

	TwilioAccountSID string `env:"TWILIO_ACCOUNT_SID"`
	TwilioAuthToken  string `env:"TWILIO_AUTH_TOKEN"`
	TwilioFrom       string `env:"TWILIO_FROM"`

	WhatsAppVerifyToken string `env:"WHATSAPP_VERIFY_TOKEN"`

	MaxInputSize int `env:"MAX_INPUT_SIZE" envDefault:"4096"`
}

// Load reads an optional .env file, then the environment.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil {
		slog.Debug("No .env file loaded", "err", err)
	}
	return Parse(nil)
}

// Parse reads the configuration from environ, or from the process environment
// when environ is nil.
func Parse(environ map[string]string) (*Config, error) {
	var cfg Config
	opts := env.Options{Prefix: Prefix}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error

	if !slices.Contains(storeBackends, c.Store) {
		errs = append(errs, fmt.Errorf("%sSTORE: unknown backend %q (want one of %s)", Prefix, c.Store, strings.Join(storeBackends, ", ")))
	}
	if c.usesSQL() && c.DatabaseDSN == "" {
		errs = append(errs, fmt.Errorf("%sDATABASE_DSN: required by the %s store or sql campaigns", Prefix, c.sqlDriverLabel()))
	}
	if !slices.Contains(campaignSources, c.Campaigns) {
		errs = append(errs, fmt.Errorf("%sCAMPAIGNS: unknown source %q (want dir or sql)", Prefix, c.Campaigns))
	}
	if c.Campaigns == CampaignsSQL && c.Store != StorePostgres && c.Store != StoreSQLite {
		errs = append(errs, fmt.Errorf("%sCAMPAIGNS=sql needs a postgres or sqlite store", Prefix))
	}
	if c.Campaigns == CampaignsDir && c.CampaignsDir == "" {
		errs = append(errs, fmt.Errorf("%sCAMPAIGNS_DIR: required", Prefix))
	}
	if !slices.Contains(logFormats, c.LogFormat) {
		errs = append(errs, fmt.Errorf("%sLOG_FORMAT: unknown format %q", Prefix, c.LogFormat))
	}
	if c.StoreTimeout <= 0 {
		errs = append(errs, fmt.Errorf("%sSTORE_TIMEOUT: must be positive", Prefix))
	}
	if c.LockTTL <= 0 {
		errs = append(errs, fmt.Errorf("%sLOCK_TTL: must be positive", Prefix))
	}
	if c.MaxInputSize <= 0 {
		errs = append(errs, fmt.Errorf("%sMAX_INPUT_SIZE: must be positive", Prefix))
	}
	if c.EncryptionKey != "" {
		if _, err := DecodeKey(c.EncryptionKey); err != nil {
			errs = append(errs, fmt.Errorf("%sENCRYPTION_KEY: %w", Prefix, err))
		}
	}
	for i, k := range c.EncryptionFallbackKeys {
		if _, err := DecodeKey(k); err != nil {
			errs = append(errs, fmt.Errorf("%sENCRYPTION_FALLBACK_KEYS[%d]: %w", Prefix, i, err))
		}
	}
	if (c.TwilioAccountSID == "") != (c.TwilioAuthToken == "") {
		errs = append(errs, fmt.Errorf("%sTWILIO_ACCOUNT_SID and %sTWILIO_AUTH_TOKEN must be set together", Prefix, Prefix))
	}
	if c.TwilioEnabled() && c.TwilioFrom == "" {
		errs = append(errs, fmt.Errorf("%sTWILIO_FROM: required when Twilio is enabled", Prefix))
	}

	return errors.Join(errs...)
}

// TwilioEnabled reports whether outbound delivery through Twilio is configured.
func (c *Config) TwilioEnabled() bool {
	return c.TwilioAccountSID != "" && c.TwilioAuthToken != ""
}

// SQLDriver returns the database/sql driver name of the configured store, or "".
func (c *Config) SQLDriver() string {
	switch c.Store {
	case StorePostgres:
		return "pgx"
	case StoreSQLite:
		return "sqlite"
	}
	return ""
}

func (c *Config) usesSQL() bool {
	return c.SQLDriver() != "" || c.Campaigns == CampaignsSQL
}

func (c *Config) sqlDriverLabel() string {
	if c.Store == StorePostgres || c.Store == StoreSQLite {
		return c.Store
	}
	return "configured"
}

// DecodeKey parses a base64 AES-256 key.
func DecodeKey(s string) ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("invalid base64: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("key must decode to 32 bytes, got %d", len(key))
	}
	return key, nil
}
