package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Increment adds one completion and returns the new total in a single statement.
func (s *Store) Increment(ctx context.Context, campaignID string) (int64, error) {
	var total int64
	err := s.db.QueryRowContext(ctx, s.rebind(`
		INSERT INTO canvass_counters (campaign_id, total) VALUES (?, 1)
		ON CONFLICT (campaign_id) DO UPDATE SET total = canvass_counters.total + 1
		RETURNING total`), campaignID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to increment counter: %w", err)
	}
	return total, nil
}

// Count returns the campaign total.
func (s *Store) Count(ctx context.Context, campaignID string) (int64, error) {
	var total int64
	err := s.db.QueryRowContext(ctx, s.rebind(`SELECT total FROM canvass_counters WHERE campaign_id = ?`), campaignID).Scan(&total)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read counter: %w", err)
	}
	return total, nil
}
