package ports

import (
	"context"

	"github.com/aretw0/canvass/pkg/domain"
)

// MessageProcessor is the interface transport adapters (HTTP, MCP, terminal) drive.
// Process always returns a reply safe to show the user; the error is for logs only.
type MessageProcessor interface {
	Process(ctx context.Context, userID, campaignID, message string) (domain.Reply, error)
}

// ReplySender delivers a reply to a user over an outbound channel.
type ReplySender interface {
	Send(ctx context.Context, to string, reply domain.Reply) error
}
