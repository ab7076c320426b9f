package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/canvass/pkg/domain"
)

// PutCampaign inserts or replaces a campaign. The first insert stamps the
// creation time used to pick the newest campaign of a channel.
func (s *Store) PutCampaign(ctx context.Context, record *domain.CampaignRecord) error {
	if record == nil || strings.TrimSpace(record.ID) == "" {
		return fmt.Errorf("campaign record missing id")
	}
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal campaign: %w", err)
	}

	_, err = s.db.ExecContext(ctx, s.rebind(`
		INSERT INTO canvass_campaigns (id, code, channel, record, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			code    = excluded.code,
			channel = excluded.channel,
			record  = excluded.record`),
		record.ID, nullable(strings.ToUpper(strings.TrimSpace(record.Code))), nullable(record.Channel),
		string(data), toMillis(s.now()),
	)
	if err != nil {
		return fmt.Errorf("failed to save campaign: %w", err)
	}
	return nil
}

// DeleteCampaign removes a campaign.
func (s *Store) DeleteCampaign(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, s.rebind(`DELETE FROM canvass_campaigns WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("failed to delete campaign: %w", err)
	}
	return nil
}

// LoadCampaign retrieves a campaign by id.
func (s *Store) LoadCampaign(ctx context.Context, id string) (*domain.CampaignRecord, error) {
	return s.queryCampaign(ctx, "id "+id, `SELECT record FROM canvass_campaigns WHERE id = ?`, id)
}

// LoadCampaignByCode resolves a join code. Codes are stored upper-cased.
func (s *Store) LoadCampaignByCode(ctx context.Context, code string) (*domain.CampaignRecord, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	return s.queryCampaign(ctx, "code "+code,
		`SELECT record FROM canvass_campaigns WHERE code = ? ORDER BY created_at DESC, id DESC LIMIT 1`, code)
}

// LoadCampaignByChannel resolves the newest campaign bound to channel.
func (s *Store) LoadCampaignByChannel(ctx context.Context, channel string) (*domain.CampaignRecord, error) {
	return s.queryCampaign(ctx, "channel "+channel,
		`SELECT record FROM canvass_campaigns WHERE channel = ? ORDER BY created_at DESC, id DESC LIMIT 1`, channel)
}

// ListCampaigns returns every campaign ordered by id.
func (s *Store) ListCampaigns(ctx context.Context) ([]*domain.CampaignRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT record FROM canvass_campaigns ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list campaigns: %w", err)
	}
	defer rows.Close()

	var out []*domain.CampaignRecord
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan campaign: %w", err)
		}
		record, err := decodeRecord(data)
		if err != nil {
			return nil, err
		}
		out = append(out, record)
	}
	return out, rows.Err()
}

func (s *Store) queryCampaign(ctx context.Context, what, query string, arg string) (*domain.CampaignRecord, error) {
	var data string
	err := s.db.QueryRowContext(ctx, s.rebind(query), arg).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrCampaignNotFound, what)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load campaign: %w", err)
	}
	return decodeRecord(data)
}

func decodeRecord(data string) (*domain.CampaignRecord, error) {
	var record domain.CampaignRecord
	if err := json.Unmarshal([]byte(data), &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal campaign: %w", err)
	}
	return &record, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
