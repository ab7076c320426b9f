package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aretw0/canvass/pkg/domain"
)

// Save upserts the session row of (campaign, user).
func (s *Store) Save(ctx context.Context, key domain.SessionKey, session *domain.Session) error {
	answers, err := json.Marshal(session.Answers)
	if err != nil {
		return fmt.Errorf("failed to marshal answers: %w", err)
	}

	var current sql.NullString
	if session.CurrentQuestionID != nil {
		current = sql.NullString{String: *session.CurrentQuestionID, Valid: true}
	}
	var completed sql.NullInt64
	if session.CompletedAt != nil {
		completed = sql.NullInt64{Int64: toMillis(*session.CompletedAt), Valid: true}
	}
	updated := session.UpdatedAt
	if updated.IsZero() {
		updated = s.now()
	}

	_, err = s.db.ExecContext(ctx, s.rebind(`
		INSERT INTO canvass_sessions (campaign_id, user_id, current_question_id, answers, completed_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (campaign_id, user_id) DO UPDATE SET
			current_question_id = excluded.current_question_id,
			answers             = excluded.answers,
			completed_at        = excluded.completed_at,
			updated_at          = excluded.updated_at`),
		key.CampaignID, key.UserID, current, string(answers), completed, toMillis(updated),
	)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Load reads the session row of (campaign, user).
func (s *Store) Load(ctx context.Context, key domain.SessionKey) (*domain.Session, error) {
	var (
		current   sql.NullString
		answers   string
		completed sql.NullInt64
		updated   int64
	)
	err := s.db.QueryRowContext(ctx, s.rebind(`
		SELECT current_question_id, answers, completed_at, updated_at
		FROM canvass_sessions WHERE campaign_id = ? AND user_id = ?`),
		key.CampaignID, key.UserID,
	).Scan(&current, &answers, &completed, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	session := domain.NewSession()
	if err := json.Unmarshal([]byte(answers), &session.Answers); err != nil {
		return nil, fmt.Errorf("failed to unmarshal answers: %w", err)
	}
	if session.Answers == nil {
		session.Answers = make(map[string]string)
	}
	if current.Valid {
		session.SetCurrent(current.String)
	}
	if completed.Valid {
		at := fromMillis(completed.Int64)
		session.CompletedAt = &at
	}
	session.UpdatedAt = fromMillis(updated)
	return session, nil
}

// Delete removes the session row.
func (s *Store) Delete(ctx context.Context, key domain.SessionKey) error {
	_, err := s.db.ExecContext(ctx, s.rebind(`DELETE FROM canvass_sessions WHERE campaign_id = ? AND user_id = ?`),
		key.CampaignID, key.UserID)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// List returns every session key ordered by campaign and user.
func (s *Store) List(ctx context.Context) ([]domain.SessionKey, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT campaign_id, user_id FROM canvass_sessions ORDER BY campaign_id, user_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	keys := []domain.SessionKey{}
	for rows.Next() {
		var key domain.SessionKey
		if err := rows.Scan(&key.CampaignID, &key.UserID); err != nil {
			return nil, fmt.Errorf("failed to scan session key: %w", err)
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}
