package cli

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/aretw0/canvass"
	"github.com/aretw0/canvass/internal/presentation/tui"
	"github.com/aretw0/canvass/pkg/ports"
	"github.com/aretw0/canvass/pkg/runner"
)

// ChatOptions configures a local conversation.
type ChatOptions struct {
	Campaign string
	User     string
	// Opening is sent before the first read; empty waits for the user.
	Opening string
	JSON    bool
	// MaxInputSize bounds each line in bytes.
	MaxInputSize int

	In  io.Reader
	Out io.Writer
}

// RunChat talks to processor from the terminal (or a JSON-lines pipe) until
// the input ends, the flow completes, or ctx is cancelled.
func RunChat(ctx context.Context, processor ports.MessageProcessor, opts ChatOptions, logger *slog.Logger) error {
	in, out := opts.In, opts.Out
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}

	var handler runner.IOHandler
	if opts.JSON {
		handler = runner.NewJSONHandler(in, out)
	} else {
		var textOpts []runner.TextHandlerOption
		if tui.IsTerminal(out) {
			tui.PrintBanner(out, "canvass "+strings.TrimSpace(canvass.Version)+" · "+opts.Campaign)
			if render, err := tui.NewRenderer(); err == nil {
				textOpts = append(textOpts, runner.WithTextHandlerRenderer(render))
			} else {
				logger.Debug("markdown rendering disabled", "err", err)
			}
		}
		handler = runner.NewTextHandler(in, out, textOpts...)
	}

	r := runner.NewRunner(
		runner.WithProcessor(processor),
		runner.WithInputHandler(handler),
		runner.WithLogger(logger),
		runner.WithUser(opts.User),
		runner.WithCampaign(opts.Campaign),
		runner.WithOpening(opts.Opening),
		runner.WithStopOnComplete(true),
		runner.WithMaxInputSize(opts.MaxInputSize),
	)
	return r.Run(ctx)
}
