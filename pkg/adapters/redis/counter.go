package redis

import (
	"context"
	"errors"
	"fmt"

	backend "github.com/redis/go-redis/v9"
)

// Counter implements ports.CompletionCounter with INCR, so totals are shared
// by every replica.
type Counter struct {
	client *backend.Client
	prefix string
}

// NewCounter creates a counter storing totals under prefix + "count:<campaign>".
func NewCounter(client *backend.Client, prefix string) *Counter {
	return &Counter{client: client, prefix: prefix}
}

func (c *Counter) key(campaignID string) string {
	return c.prefix + "count:" + campaignID
}

// Increment adds one completion and returns the new total.
func (c *Counter) Increment(ctx context.Context, campaignID string) (int64, error) {
	n, err := c.client.Incr(ctx, c.key(campaignID)).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to increment counter: %w", err)
	}
	return n, nil
}

// Count returns the campaign total; zero when nothing was counted yet.
func (c *Counter) Count(ctx context.Context, campaignID string) (int64, error) {
	n, err := c.client.Get(ctx, c.key(campaignID)).Int64()
	if errors.Is(err, backend.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read counter: %w", err)
	}
	return n, nil
}
