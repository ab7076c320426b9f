package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/aretw0/canvass/pkg/domain"
)

// Campaigns implements ports.CampaignStore over records held in memory.
type Campaigns struct {
	mu      sync.RWMutex
	records map[string]*domain.CampaignRecord
	order   []string // registration order; later records win channel lookups
}

// NewCampaigns creates a store holding the given records.
func NewCampaigns(records ...*domain.CampaignRecord) *Campaigns {
	c := &Campaigns{records: make(map[string]*domain.CampaignRecord)}
	for _, r := range records {
		_ = c.Put(r)
	}
	return c
}

// Put adds or replaces a record.
func (c *Campaigns) Put(record *domain.CampaignRecord) error {
	if record == nil || record.ID == "" {
		return fmt.Errorf("campaign record missing id")
	}
	copied := *record

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.records[record.ID]; !exists {
		c.order = append(c.order, record.ID)
	}
	c.records[record.ID] = &copied
	return nil
}

// LoadCampaign retrieves a campaign by id.
func (c *Campaigns) LoadCampaign(ctx context.Context, id string) (*domain.CampaignRecord, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	record, ok := c.records[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrCampaignNotFound, id)
	}
	copied := *record
	return &copied, nil
}

// LoadCampaignByCode resolves a join code, case-insensitively.
func (c *Campaigns) LoadCampaignByCode(ctx context.Context, code string) (*domain.CampaignRecord, error) {
	return c.find(func(r *domain.CampaignRecord) bool {
		return r.Code != "" && strings.EqualFold(r.Code, code)
	}, "code "+code)
}

// LoadCampaignByChannel resolves the most recently registered campaign bound to channel.
func (c *Campaigns) LoadCampaignByChannel(ctx context.Context, channel string) (*domain.CampaignRecord, error) {
	return c.find(func(r *domain.CampaignRecord) bool {
		return r.Channel != "" && r.Channel == channel
	}, "channel "+channel)
}

// ListCampaigns returns the records in registration order.
func (c *Campaigns) ListCampaigns(ctx context.Context) ([]*domain.CampaignRecord, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]*domain.CampaignRecord, 0, len(c.order))
	for _, id := range c.order {
		copied := *c.records[id]
		out = append(out, &copied)
	}
	return out, nil
}

func (c *Campaigns) find(match func(*domain.CampaignRecord) bool, what string) (*domain.CampaignRecord, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for i := len(c.order) - 1; i >= 0; i-- {
		record := c.records[c.order[i]]
		if match(record) {
			copied := *record
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrCampaignNotFound, what)
}
