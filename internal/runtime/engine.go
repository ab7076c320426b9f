package runtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aretw0/canvass/internal/logging"
	"github.com/aretw0/canvass/pkg/domain"
	"github.com/aretw0/canvass/pkg/ports"
	"github.com/aretw0/canvass/pkg/registry"
	"github.com/aretw0/canvass/pkg/schema"
	"github.com/aretw0/canvass/pkg/session"
)

// DefaultStoreTimeout bounds every store call made while processing a message.
const DefaultStoreTimeout = 5 * time.Second

// Engine turns one inbound message into one reply, advancing the sender's
// session through the campaign flow.
type Engine struct {
	campaigns    ports.CampaignStore
	sessions     *session.Manager
	counter      ports.CompletionCounter
	validators   *registry.Registry
	answers      *AnswerValidator
	locale       Locale
	hooks        domain.LifecycleHooks
	logger       *slog.Logger
	storeTimeout time.Duration
	now          func() time.Time
}

// Option configures the Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability callbacks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLocale sets the messages and start keywords.
func WithLocale(locale Locale) Option {
	return func(e *Engine) {
		e.locale = locale
	}
}

// WithValidators sets the registry resolving free-text validator tags.
func WithValidators(validators *registry.Registry) Option {
	return func(e *Engine) {
		if validators != nil {
			e.validators = validators
		}
	}
}

// WithCounter enables the "{count}" placeholder in completion messages.
func WithCounter(counter ports.CompletionCounter) Option {
	return func(e *Engine) {
		e.counter = counter
	}
}

// WithStoreTimeout bounds each store call.
func WithStoreTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.storeTimeout = d
		}
	}
}

// WithClock overrides the time source used for session timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// NewEngine creates an engine over the given campaign store and session manager.
func NewEngine(campaigns ports.CampaignStore, sessions *session.Manager, opts ...Option) *Engine {
	defaultLocale, _ := LookupLocale(DefaultLocale)
	e := &Engine{
		campaigns:    campaigns,
		sessions:     sessions,
		validators:   registry.Default(),
		locale:       defaultLocale,
		logger:       logging.NewNop(),
		storeTimeout: DefaultStoreTimeout,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.answers = NewAnswerValidator(e.validators, e.locale.Messages)
	return e
}

// Locale returns the engine locale.
func (e *Engine) Locale() Locale {
	return e.locale
}

// Process handles one inbound message from userID for campaignID.
//
// The returned reply is always safe to show to the user. The error, when set,
// wraps one of the domain sentinels and is meant for logs and metrics.
func (e *Engine) Process(ctx context.Context, userID, campaignID, raw string) (reply domain.Reply, err error) {
	start := e.now()
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("recovered panic while processing message",
				"campaign", campaignID,
				"user", userID,
				"panic", r,
			)
			reply = domain.TextReply(e.locale.Messages.GenericFailure)
			err = fmt.Errorf("recovered panic: %v", r)
		}
		e.emitProcessed(ctx, userID, campaignID, start, err)
	}()

	text := strings.TrimSpace(raw)
	restart := e.locale.IsStartKeyword(text)

	var record *domain.CampaignRecord
	if code, ok := e.locale.ParseStartCommand(text); ok {
		record, err = e.campaignByCode(ctx, code)
		if errors.Is(err, domain.ErrCampaignNotFound) {
			return domain.TextReply(e.locale.Messages.InvalidCode), fmt.Errorf("%w: %s", domain.ErrInvalidCode, code)
		}
		if err != nil {
			return e.storeFailure(err)
		}
		campaignID = record.ID
		restart = true
	} else {
		record, err = e.campaign(ctx, campaignID)
		if errors.Is(err, domain.ErrCampaignNotFound) {
			return domain.TextReply(e.locale.Messages.FlowUnavailable), fmt.Errorf("%w: %w", domain.ErrInvalidFlow, err)
		}
		if err != nil {
			return e.storeFailure(err)
		}
	}

	flow, err := e.load(record)
	if err != nil {
		e.logger.Warn("campaign flow unavailable", "campaign", campaignID, "err", err)
		return domain.TextReply(e.locale.Messages.FlowUnavailable), err
	}

	key := domain.SessionKey{UserID: userID, CampaignID: flow.CampaignID}
	ran := false
	lockErr := e.sessions.WithLock(ctx, key, func(ctx context.Context) error {
		ran = true
		reply, err = e.advance(ctx, key, flow, text, restart)
		return nil
	})
	if !ran && lockErr != nil {
		return e.storeFailure(lockErr)
	}
	return reply, err
}

// InspectFlow loads and validates a campaign without touching any session.
func (e *Engine) InspectFlow(ctx context.Context, campaignID string) (*domain.Flow, error) {
	record, err := e.campaign(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	return e.load(record)
}

func (e *Engine) load(record *domain.CampaignRecord) (*domain.Flow, error) {
	return schema.Load(record,
		schema.WithValidators(e.validators),
		schema.WithDefaultOutro(e.locale.Messages.Outro),
	)
}

// advance runs the read-modify-write part of Process. The caller holds the session lock.
func (e *Engine) advance(ctx context.Context, key domain.SessionKey, flow *domain.Flow, text string, restart bool) (domain.Reply, error) {
	sess, err := e.loadSession(ctx, key)
	if err != nil {
		return e.storeFailure(err)
	}

	if sess.CurrentQuestionID == nil || restart {
		if !restart && sess.Completed() && flow.BlockRepeat {
			return domain.TextReply(e.locale.Messages.AlreadyParticipated), nil
		}
		return e.begin(ctx, key, flow, sess)
	}

	current, ok := CurrentQuestion(flow, sess)
	if !ok {
		e.logger.Error("current question not found",
			"campaign", key.CampaignID,
			"user", key.UserID,
			"question", sess.Current(),
		)
		return domain.TextReply(e.locale.Messages.InternalError),
			fmt.Errorf("%w: %q in campaign %s", domain.ErrQuestionNotFound, sess.Current(), key.CampaignID)
	}

	result := e.answers.Validate(current, text)
	if !result.Accepted {
		e.emitAnswer(ctx, e.hooks.OnAnswerRejected, domain.EventAnswerRejected, key, current)
		retry := RenderQuestion(current)
		retry.Text = result.RejectionMessage
		return retry, fmt.Errorf("%w: question %s", domain.ErrValidationRejected, current.ID)
	}
	e.emitAnswer(ctx, e.hooks.OnAnswerAccepted, domain.EventAnswerAccepted, key, current)

	if !endsByOption(current, result) {
		sess.Answers[current.ID] = result.NormalizedAnswer
		sess.SetCurrent(current.ID)
		if err := e.saveSession(ctx, key, sess); err != nil {
			return e.storeFailure(err)
		}
		e.logger.Debug("answer recorded",
			"campaign", key.CampaignID,
			"question", current.ID,
			"len", len(result.NormalizedAnswer),
		)
	}

	next := Resolve(flow, current, result)
	if !next.Complete() {
		sess.SetCurrent(next.Question.ID)
		if err := e.saveSession(ctx, key, sess); err != nil {
			return e.storeFailure(err)
		}
		out := RenderQuestion(next.Question)
		out.Text = joinParts(result.ConfirmationText, out.Text)
		return out, nil
	}

	sess.Complete(e.now())
	if err := e.saveSession(ctx, key, sess); err != nil {
		return e.storeFailure(err)
	}
	count, counted := e.count(ctx, key.CampaignID)
	e.emitFlow(ctx, e.hooks.OnFlowComplete, domain.EventFlowComplete, key, next.Terminal.ID, count)

	msg := fillCount(CompletionMessage(flow, next, e.locale.Messages.Outro), count, counted)
	return domain.Reply{
		Text:       joinParts(result.ConfirmationText, msg),
		Hint:       domain.HintPlainText,
		QuestionID: next.Terminal.ID,
		Completed:  true,
	}, nil
}

// begin resets the session to the first question.
func (e *Engine) begin(ctx context.Context, key domain.SessionKey, flow *domain.Flow, sess *domain.Session) (domain.Reply, error) {
	first := flow.First()
	if first == nil {
		return domain.TextReply(e.locale.Messages.FlowUnavailable),
			fmt.Errorf("%w: campaign %s has no questions", domain.ErrInvalidFlow, key.CampaignID)
	}

	sess.Reset()
	sess.SetCurrent(first.ID)
	if err := e.saveSession(ctx, key, sess); err != nil {
		return e.storeFailure(err)
	}
	e.emitFlow(ctx, e.hooks.OnFlowStart, domain.EventFlowStart, key, first.ID, 0)
	return RenderQuestion(first), nil
}

func (e *Engine) storeFailure(err error) (domain.Reply, error) {
	e.logger.Error("store unavailable", "err", err)
	if errors.Is(err, domain.ErrStoreUnavailable) {
		return domain.TextReply(e.locale.Messages.StoreUnavailable), err
	}
	return domain.TextReply(e.locale.Messages.StoreUnavailable), fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
}

func (e *Engine) campaign(ctx context.Context, id string) (*domain.CampaignRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, e.storeTimeout)
	defer cancel()
	return e.campaigns.LoadCampaign(ctx, id)
}

func (e *Engine) campaignByCode(ctx context.Context, code string) (*domain.CampaignRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, e.storeTimeout)
	defer cancel()
	return e.campaigns.LoadCampaignByCode(ctx, code)
}

func (e *Engine) loadSession(ctx context.Context, key domain.SessionKey) (*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, e.storeTimeout)
	defer cancel()
	sess, err := e.sessions.Store().Load(ctx, key)
	if errors.Is(err, domain.ErrSessionNotFound) {
		return domain.NewSession(), nil
	}
	if err != nil {
		return nil, err
	}
	if sess.Answers == nil {
		sess.Answers = make(map[string]string)
	}
	return sess, nil
}

func (e *Engine) saveSession(ctx context.Context, key domain.SessionKey, sess *domain.Session) error {
	ctx, cancel := context.WithTimeout(ctx, e.storeTimeout)
	defer cancel()
	sess.UpdatedAt = e.now()
	return e.sessions.Store().Save(ctx, key, sess)
}

// count increments the completion counter. A failing counter only drops the placeholder.
func (e *Engine) count(ctx context.Context, campaignID string) (int64, bool) {
	if e.counter == nil {
		return 0, false
	}
	ctx, cancel := context.WithTimeout(ctx, e.storeTimeout)
	defer cancel()
	n, err := e.counter.Increment(ctx, campaignID)
	if err != nil {
		e.logger.Warn("completion counter failed", "campaign", campaignID, "err", err)
		return 0, false
	}
	return n, true
}

func (e *Engine) base(t domain.EventType, key domain.SessionKey) domain.EventBase {
	return domain.EventBase{
		Timestamp:  e.now(),
		Type:       t,
		CampaignID: key.CampaignID,
		UserID:     key.UserID,
	}
}

func (e *Engine) emitAnswer(ctx context.Context, hook func(context.Context, *domain.AnswerEvent), t domain.EventType, key domain.SessionKey, q *domain.Question) {
	if hook == nil {
		return
	}
	hook(ctx, &domain.AnswerEvent{EventBase: e.base(t, key), QuestionID: q.ID, Kind: q.Kind})
}

func (e *Engine) emitFlow(ctx context.Context, hook func(context.Context, *domain.FlowEvent), t domain.EventType, key domain.SessionKey, questionID string, count int64) {
	if hook == nil {
		return
	}
	hook(ctx, &domain.FlowEvent{EventBase: e.base(t, key), QuestionID: questionID, Count: count})
}

func (e *Engine) emitProcessed(ctx context.Context, userID, campaignID string, start time.Time, err error) {
	if e.hooks.OnProcessed == nil {
		return
	}
	e.hooks.OnProcessed(ctx, &domain.ProcessEvent{
		EventBase: e.base(domain.EventProcessed, domain.SessionKey{UserID: userID, CampaignID: campaignID}),
		Duration:  e.now().Sub(start),
		Err:       err,
	})
}
