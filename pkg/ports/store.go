package ports

import (
	"context"

	"github.com/aretw0/canvass/pkg/domain"
)

// SessionStore defines the interface for persisting per-(user, campaign) progress.
// Save is an upsert: the last write for a key wins.
type SessionStore interface {
	// Save persists the session for the given key.
	Save(ctx context.Context, key domain.SessionKey, session *domain.Session) error

	// Load retrieves the session for the given key.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	Load(ctx context.Context, key domain.SessionKey) (*domain.Session, error)

	// Delete removes the session for the given key. Deleting a missing session is not an error.
	Delete(ctx context.Context, key domain.SessionKey) error

	// List returns the keys of all stored sessions.
	List(ctx context.Context) ([]domain.SessionKey, error)
}

// CompletionCounter counts completed flows per campaign (e.g. petition signatures).
type CompletionCounter interface {
	// Increment atomically adds one completion and returns the new total.
	Increment(ctx context.Context, campaignID string) (int64, error)

	// Count returns the current total without changing it.
	Count(ctx context.Context, campaignID string) (int64, error)
}
