package memory

import (
	"context"
	"sync"
)

// Counter implements ports.CompletionCounter in memory.
type Counter struct {
	mu     sync.Mutex
	counts map[string]int64
}

// NewCounter creates an empty counter.
func NewCounter() *Counter {
	return &Counter{counts: make(map[string]int64)}
}

// Increment adds one completion to the campaign and returns the new total.
func (c *Counter) Increment(ctx context.Context, campaignID string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts[campaignID]++
	return c.counts[campaignID], nil
}

// Count returns the campaign total.
func (c *Counter) Count(ctx context.Context, campaignID string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts[campaignID], nil
}
