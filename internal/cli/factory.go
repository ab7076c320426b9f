// Package cli wires configuration into engines, stores and transports for the
// canvass command.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/aretw0/canvass"
	"github.com/aretw0/canvass/internal/config"
	"github.com/aretw0/canvass/pkg/adapters/file"
	"github.com/aretw0/canvass/pkg/adapters/memory"
	"github.com/aretw0/canvass/pkg/adapters/redis"
	"github.com/aretw0/canvass/pkg/adapters/sqlstore"
	"github.com/aretw0/canvass/pkg/observability"
	"github.com/aretw0/canvass/pkg/persistence/middleware"
	"github.com/aretw0/canvass/pkg/ports"
	"github.com/aretw0/canvass/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// App is a fully wired engine plus the resources it owns.
type App struct {
	Engine    *canvass.Engine
	Campaigns ports.CampaignStore
	// Sessions is the store as the engine sees it, middleware included.
	Sessions ports.SessionStore
	Counter  ports.CompletionCounter
	Registry *prometheus.Registry
	Metrics  *observability.Metrics

	closers []func() error
}

// Close releases connections in reverse order of creation.
func (a *App) Close() error {
	err := closeAll(a.closers)
	a.closers = nil
	return err
}

func closeAll(closers []func() error) error {
	var errs []error
	for i := len(closers) - 1; i >= 0; i-- {
		errs = append(errs, closers[i]())
	}
	return errors.Join(errs...)
}

// Backends are the stores selected by the configuration.
type Backends struct {
	Sessions  ports.SessionStore
	Campaigns ports.CampaignStore
	Counter   ports.CompletionCounter
	Locker    ports.DistributedLocker

	closers []func() error
}

// Close releases the backend connections.
func (b *Backends) Close() error {
	err := closeAll(b.closers)
	b.closers = nil
	return err
}

// Manager wraps the session store with the same locking the engine applies, so
// administrative reads and deletes never interleave with a live conversation.
func (b *Backends) Manager(cfg *config.Config, logger *slog.Logger) *session.Manager {
	opts := []session.Option{
		session.WithLockTTL(cfg.LockTTL),
		session.WithLockTimeout(cfg.StoreTimeout),
		session.WithLogger(logger),
	}
	if b.Locker != nil {
		opts = append(opts, session.WithLocker(b.Locker))
	}
	return session.NewManager(b.Sessions, opts...)
}

// OpenBackends connects the configured session store and campaign source.
// Session middleware (PII masking, encryption) is already applied.
func OpenBackends(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Backends, error) {
	b := &Backends{}
	var sqlStore *sqlstore.Store

	switch cfg.Store {
	case config.StoreMemory:
		b.Sessions = memory.NewStore()
		b.Counter = memory.NewCounter()

	case config.StoreFile:
		b.Sessions = file.New(cfg.SessionsDir)
		b.Counter = memory.NewCounter()
		logger.Warn("file store keeps completion counts in memory only", "dir", cfg.SessionsDir)

	case config.StoreRedis:
		client := redis.NewClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		store := redis.NewFromClient(client, redis.WithPrefix(cfg.RedisPrefix), redis.WithTTL(cfg.SessionTTL))
		if err := store.Ping(ctx); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("connect redis %s: %w", cfg.RedisAddr, err)
		}
		b.Sessions = store
		b.Counter = redis.NewCounter(client, cfg.RedisPrefix)
		b.Locker = redis.NewLocker(client, cfg.RedisPrefix)
		b.closers = append(b.closers, client.Close)

	case config.StorePostgres, config.StoreSQLite:
		store, err := sqlstore.Open(ctx, cfg.SQLDriver(), cfg.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("open %s store: %w", cfg.Store, err)
		}
		sqlStore = store
		b.Sessions = store
		b.Counter = store
		b.closers = append(b.closers, store.Close)

	default:
		return nil, fmt.Errorf("unknown store %q", cfg.Store)
	}

	switch cfg.Campaigns {
	case config.CampaignsSQL:
		if sqlStore == nil {
			_ = b.Close()
			return nil, errors.New("sql campaigns need a postgres or sqlite store")
		}
		b.Campaigns = sqlStore
	default:
		dir, err := filepath.Abs(cfg.CampaignsDir)
		if err != nil {
			_ = b.Close()
			return nil, fmt.Errorf("invalid campaigns dir: %w", err)
		}
		campaigns, err := file.NewCampaigns(dir)
		if err != nil {
			_ = b.Close()
			return nil, fmt.Errorf("load campaigns: %w", err)
		}
		b.Campaigns = campaigns
	}

	mws, err := sessionMiddleware(cfg)
	if err != nil {
		_ = b.Close()
		return nil, err
	}
	b.Sessions = middleware.Chain(b.Sessions, mws...)
	return b, nil
}

// sessionMiddleware masks before it encrypts, so PII never reaches the
// ciphertext either.
func sessionMiddleware(cfg *config.Config) ([]middleware.Middleware, error) {
	var mws []middleware.Middleware

	if cfg.RedactPII {
		patterns := cfg.PIIPatterns
		if len(patterns) == 0 {
			patterns = middleware.DefaultPIIPatterns
		}
		pii, err := middleware.NewPIIMiddleware(patterns)
		if err != nil {
			return nil, fmt.Errorf("%sPII_PATTERNS: %w", config.Prefix, err)
		}
		mws = append(mws, pii)
	}

	if cfg.EncryptionKey != "" {
		active, err := config.DecodeKey(cfg.EncryptionKey)
		if err != nil {
			return nil, fmt.Errorf("%sENCRYPTION_KEY: %w", config.Prefix, err)
		}
		enc := middleware.EncryptionConfig{ActiveKey: active, AllowPlaintext: true}
		for i, raw := range cfg.EncryptionFallbackKeys {
			key, err := config.DecodeKey(raw)
			if err != nil {
				return nil, fmt.Errorf("%sENCRYPTION_FALLBACK_KEYS[%d]: %w", config.Prefix, i, err)
			}
			enc.FallbackKeys = append(enc.FallbackKeys, key)
		}
		mws = append(mws, middleware.NewEncryptionMiddleware(enc))
	}
	return mws, nil
}

// Build wires an engine from the configuration with metrics and logging hooks.
func Build(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	backends, err := OpenBackends(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewMetrics(registry)

	opts := []canvass.Option{
		canvass.WithCampaignStore(backends.Campaigns),
		canvass.WithSessionStore(backends.Sessions),
		canvass.WithCounter(backends.Counter),
		canvass.WithLogger(logger),
		canvass.WithLocale(cfg.Locale),
		canvass.WithStoreTimeout(cfg.StoreTimeout),
		canvass.WithLockTTL(cfg.LockTTL),
		canvass.WithLifecycleHooks(observability.Combine(metrics.Hooks(), observability.LoggingHooks(logger))),
	}
	if backends.Locker != nil {
		opts = append(opts, canvass.WithLocker(backends.Locker))
	}

	name := ""
	if cfg.Campaigns == config.CampaignsDir {
		name = cfg.CampaignsDir
	}
	engine, err := canvass.New(name, opts...)
	if err != nil {
		_ = backends.Close()
		return nil, fmt.Errorf("error initializing engine: %w", err)
	}

	return &App{
		Engine:    engine,
		Campaigns: backends.Campaigns,
		Sessions:  backends.Sessions,
		Counter:   backends.Counter,
		Registry:  registry,
		Metrics:   metrics,
		closers:   backends.closers,
	}, nil
}
