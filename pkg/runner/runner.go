package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/canvass/pkg/domain"
	"github.com/aretw0/canvass/pkg/ports"
)

// DefaultUserID identifies the local participant when none is configured.
const DefaultUserID = "local"

// Runner handles the conversation loop between an IOHandler and a processor.
type Runner struct {
	// Processor answers every line. Required.
	Processor ports.MessageProcessor

	// Handler is the strategy for IO. If nil, a TextHandler on stdin/stdout is used.
	Handler IOHandler

	// Logger is used for internal debug logging.
	// If nil, a no-op logger is used.
	Logger *slog.Logger

	UserID     string
	CampaignID string

	// Opening is sent on the user's behalf before the first read, so the
	// conversation opens with the first question (e.g. a start keyword).
	Opening string

	// StopOnComplete ends Run after the reply that completes the flow.
	StopOnComplete bool

	// MaxInputSize bounds each line; zero uses the environment or default limit.
	MaxInputSize int
}

// NewRunner creates a Runner with the given options.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		UserID: DefaultUserID,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run loops until the input is exhausted, ctx is cancelled or, with
// StopOnComplete, the flow completes. End of input and cancellation are not errors.
func (r *Runner) Run(ctx context.Context) error {
	if r.Processor == nil {
		return errors.New("runner: no processor configured")
	}
	handler := r.resolveHandler()
	logger := r.resolveLogger()

	if r.Opening != "" {
		done, err := r.turn(ctx, handler, logger, r.Opening)
		if err != nil || done {
			return err
		}
	}

	for {
		line, err := handler.Input(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) || ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("input error: %w", err)
		}

		limit := r.MaxInputSize
		if limit <= 0 {
			limit = MaxInputSize()
		}
		clean, err := SanitizeInputLimit(line, limit)
		if err != nil {
			logger.Debug("input rejected", "err", err)
			if err := handler.Output(ctx, domain.TextReply(fmt.Sprintf("Error: %v. Please try again.", err))); err != nil {
				return fmt.Errorf("output error: %w", err)
			}
			continue
		}

		done, err := r.turn(ctx, handler, logger, clean)
		if err != nil || done {
			return err
		}
	}
}

// turn processes one message and writes its reply.
func (r *Runner) turn(ctx context.Context, handler IOHandler, logger *slog.Logger, message string) (bool, error) {
	reply, err := r.Processor.Process(ctx, r.UserID, r.CampaignID, message)
	if err != nil {
		logger.Debug("message not accepted", "user", r.UserID, "campaign", r.CampaignID, "err", err)
	}
	if err := handler.Output(ctx, reply); err != nil {
		return false, fmt.Errorf("output error: %w", err)
	}
	return reply.Completed && r.StopOnComplete, nil
}

func (r *Runner) resolveHandler() IOHandler {
	if r.Handler == nil {
		r.Handler = NewTextHandler(nil, nil)
	}
	return r.Handler
}

func (r *Runner) resolveLogger() *slog.Logger {
	if r.Logger == nil {
		r.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return r.Logger
}
