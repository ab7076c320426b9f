package runner

import (
	"context"

	"github.com/aretw0/canvass/pkg/domain"
)

// IOHandler defines how the runner talks to the person on the other side.
// It allows switching between Text (terminal) and JSON (structured) modes.
type IOHandler interface {
	// Output presents one reply.
	Output(ctx context.Context, reply domain.Reply) error

	// Input blocks until the next line is available or ctx is done.
	// It returns io.EOF when the source is exhausted.
	Input(ctx context.Context) (string, error)
}

// ContentRenderer transforms reply text before it is written, e.g. markdown to ANSI.
type ContentRenderer func(string) (string, error)
