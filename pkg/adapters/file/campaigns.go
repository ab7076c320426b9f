package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/canvass/pkg/domain"
	"github.com/aretw0/canvass/pkg/schema"
)

var campaignExts = map[string]bool{".yaml": true, ".yml": true, ".json": true}

type entry struct {
	record  *domain.CampaignRecord
	modTime time.Time
}

// Campaigns implements ports.CampaignStore over a directory of campaign files
// (YAML or JSON, one campaign per file). Files are read by Reload.
type Campaigns struct {
	dir string

	mu      sync.RWMutex
	entries map[string]entry
}

// NewCampaigns reads every campaign file in dir.
func NewCampaigns(dir string) (*Campaigns, error) {
	c := &Campaigns{dir: dir}
	if err := c.Reload(); err != nil {
		return nil, err
	}
	return c, nil
}

// Dir returns the campaign directory.
func (c *Campaigns) Dir() string {
	return c.dir
}

// Reload rereads the directory. A file that fails to parse aborts the reload
// and keeps the previous records.
func (c *Campaigns) Reload() error {
	files, err := os.ReadDir(c.dir)
	if err != nil {
		return fmt.Errorf("failed to read campaign directory: %w", err)
	}

	entries := make(map[string]entry, len(files))
	for _, f := range files {
		if f.IsDir() || !campaignExts[strings.ToLower(filepath.Ext(f.Name()))] {
			continue
		}
		path := filepath.Join(c.dir, f.Name())
		record, err := schema.ParseFile(path)
		if err != nil {
			return err
		}
		if prev, dup := entries[record.ID]; dup {
			return fmt.Errorf("%s: campaign id %q already defined (code %q)", path, record.ID, prev.record.Code)
		}
		info, err := f.Info()
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		entries[record.ID] = entry{record: record, modTime: info.ModTime()}
	}

	c.mu.Lock()
	c.entries = entries
	c.mu.Unlock()
	return nil
}

// LoadCampaign retrieves a campaign by id.
func (c *Campaigns) LoadCampaign(ctx context.Context, id string) (*domain.CampaignRecord, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrCampaignNotFound, id)
	}
	copied := *e.record
	return &copied, nil
}

// LoadCampaignByCode resolves a join code, case-insensitively.
func (c *Campaigns) LoadCampaignByCode(ctx context.Context, code string) (*domain.CampaignRecord, error) {
	return c.newest(func(r *domain.CampaignRecord) bool {
		return r.Code != "" && strings.EqualFold(r.Code, code)
	}, "code "+code)
}

// LoadCampaignByChannel resolves the most recently modified campaign bound to channel.
func (c *Campaigns) LoadCampaignByChannel(ctx context.Context, channel string) (*domain.CampaignRecord, error) {
	return c.newest(func(r *domain.CampaignRecord) bool {
		return r.Channel != "" && r.Channel == channel
	}, "channel "+channel)
}

// ListCampaigns returns every record, ordered by id.
func (c *Campaigns) ListCampaigns(ctx context.Context) ([]*domain.CampaignRecord, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]*domain.CampaignRecord, 0, len(c.entries))
	for _, e := range c.entries {
		copied := *e.record
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (c *Campaigns) newest(match func(*domain.CampaignRecord) bool, what string) (*domain.CampaignRecord, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var best *entry
	for id := range c.entries {
		e := c.entries[id]
		if !match(e.record) {
			continue
		}
		if best == nil || e.modTime.After(best.modTime) ||
			(e.modTime.Equal(best.modTime) && e.record.ID > best.record.ID) {
			best = &e
		}
	}
	if best == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrCampaignNotFound, what)
	}
	copied := *best.record
	return &copied, nil
}
