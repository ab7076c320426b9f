package canvass

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/aretw0/canvass/internal/logging"
	"github.com/aretw0/canvass/internal/runtime"
	"github.com/aretw0/canvass/pkg/adapters/file"
	"github.com/aretw0/canvass/pkg/adapters/memory"
	"github.com/aretw0/canvass/pkg/domain"
	"github.com/aretw0/canvass/pkg/ports"
	"github.com/aretw0/canvass/pkg/registry"
	"github.com/aretw0/canvass/pkg/session"
)

// Engine is the high-level entry point of the library.
// It wraps the internal runtime and wires default adapters.
type Engine struct {
	runtime    *runtime.Engine
	campaigns  ports.CampaignStore
	sessions   *session.Manager
	store      ports.SessionStore
	locker     ports.DistributedLocker
	counter    ports.CompletionCounter
	validators *registry.Registry
	hooks      domain.LifecycleHooks
	logger     *slog.Logger
	locale     string
	timeout    time.Duration
	lockTTL    time.Duration
	Name       string
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithCampaignStore injects a campaign store, bypassing the campaign directory.
func WithCampaignStore(s ports.CampaignStore) Option {
	return func(e *Engine) {
		e.campaigns = s
	}
}

// WithSessionStore sets where sessions are persisted (default: in memory).
func WithSessionStore(s ports.SessionStore) Option {
	return func(e *Engine) {
		e.store = s
	}
}

// WithLocker serializes sessions across replicas.
func WithLocker(l ports.DistributedLocker) Option {
	return func(e *Engine) {
		e.locker = l
	}
}

// WithLockTTL sets the expiry of distributed session locks.
func WithLockTTL(ttl time.Duration) Option {
	return func(e *Engine) {
		e.lockTTL = ttl
	}
}

// WithCounter enables completion counting ("{count}" in completion messages).
func WithCounter(c ports.CompletionCounter) Option {
	return func(e *Engine) {
		e.counter = c
	}
}

// WithValidators sets the registry of free-text validators.
func WithValidators(r *registry.Registry) Option {
	return func(e *Engine) {
		e.validators = r
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithLocale selects a built-in locale by name ("en", "pt-BR").
func WithLocale(name string) Option {
	return func(e *Engine) {
		e.locale = name
	}
}

// WithStoreTimeout bounds each store call made while processing a message.
func WithStoreTimeout(d time.Duration) Option {
	return func(e *Engine) {
		e.timeout = d
	}
}

// New initializes an Engine. By default campaigns are read from the YAML/JSON
// files in campaignsDir and sessions are kept in memory. With WithCampaignStore,
// campaignsDir may be empty.
func New(campaignsDir string, opts ...Option) (*Engine, error) {
	eng := &Engine{locale: runtime.DefaultLocale}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.campaigns == nil {
		if campaignsDir == "" {
			return nil, fmt.Errorf("campaignsDir is required when no campaign store is provided")
		}
		absPath, err := filepath.Abs(campaignsDir)
		if err != nil {
			return nil, fmt.Errorf("invalid path: %w", err)
		}
		campaigns, err := file.NewCampaigns(absPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load campaigns: %w", err)
		}
		eng.campaigns = campaigns
		eng.Name = filepath.Base(absPath)
	} else if campaignsDir != "" {
		eng.Name = filepath.Base(campaignsDir)
	}

	locale, ok := runtime.LookupLocale(eng.locale)
	if !ok {
		return nil, fmt.Errorf("unknown locale %q (available: %v)", eng.locale, runtime.LocaleNames())
	}

	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}
	if eng.Name != "" {
		eng.logger = eng.logger.With("campaigns", eng.Name)
	}
	if eng.store == nil {
		eng.store = memory.NewStore()
	}

	lockTimeout := eng.timeout
	if lockTimeout <= 0 {
		lockTimeout = runtime.DefaultStoreTimeout
	}
	managerOpts := []session.Option{
		session.WithLogger(eng.logger),
		session.WithLockTTL(eng.lockTTL),
		session.WithLockTimeout(lockTimeout),
	}
	if eng.locker != nil {
		managerOpts = append(managerOpts, session.WithLocker(eng.locker))
	}
	eng.sessions = session.NewManager(eng.store, managerOpts...)

	eng.runtime = runtime.NewEngine(eng.campaigns, eng.sessions,
		runtime.WithLogger(eng.logger),
		runtime.WithLifecycleHooks(eng.hooks),
		runtime.WithLocale(locale),
		runtime.WithValidators(eng.validators),
		runtime.WithCounter(eng.counter),
		runtime.WithStoreTimeout(eng.timeout),
	)
	return eng, nil
}

// Process handles one inbound message and returns the reply to send back.
// The reply is always user-safe; the error wraps a domain sentinel for logging.
func (e *Engine) Process(ctx context.Context, userID, campaignID, message string) (domain.Reply, error) {
	return e.runtime.Process(ctx, userID, campaignID, message)
}

// InspectFlow loads and validates a campaign's flow.
func (e *Engine) InspectFlow(ctx context.Context, campaignID string) (*domain.Flow, error) {
	return e.runtime.InspectFlow(ctx, campaignID)
}

// Campaigns returns the campaign store.
func (e *Engine) Campaigns() ports.CampaignStore {
	return e.campaigns
}

// Sessions returns the session manager.
func (e *Engine) Sessions() *session.Manager {
	return e.sessions
}

// StartKeywords lists the words that (re)start a flow in the engine locale.
func (e *Engine) StartKeywords() []string {
	return e.runtime.Locale().StartKeywords
}
