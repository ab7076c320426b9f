package runner

import (
	"log/slog"

	"github.com/aretw0/canvass/pkg/ports"
)

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithProcessor sets the processor every line is sent to.
func WithProcessor(p ports.MessageProcessor) Option {
	return func(r *Runner) {
		r.Processor = p
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.Logger = logger
	}
}

// WithInputHandler configures a custom IOHandler.
func WithInputHandler(handler IOHandler) Option {
	return func(r *Runner) {
		r.Handler = handler
	}
}

// WithUser sets the participant id sessions are keyed by.
func WithUser(id string) Option {
	return func(r *Runner) {
		if id != "" {
			r.UserID = id
		}
	}
}

// WithCampaign sets the campaign messages are addressed to.
func WithCampaign(id string) Option {
	return func(r *Runner) {
		r.CampaignID = id
	}
}

// WithOpening sends message before the first read.
func WithOpening(message string) Option {
	return func(r *Runner) {
		r.Opening = message
	}
}

// WithStopOnComplete ends the run once the flow completes.
func WithStopOnComplete(stop bool) Option {
	return func(r *Runner) {
		r.StopOnComplete = stop
	}
}

// WithMaxInputSize bounds each input line in bytes.
func WithMaxInputSize(n int) Option {
	return func(r *Runner) {
		r.MaxInputSize = n
	}
}
