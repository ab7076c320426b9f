// Package sqlstore persists sessions, campaigns and completion counts in a
// relational database through database/sql. PostgreSQL (driver "pgx") and
// SQLite (driver "sqlite") are supported.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx"
	_ "modernc.org/sqlite"             // registers "sqlite"
)

// Supported driver names.
const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS canvass_sessions (
		campaign_id         TEXT NOT NULL,
		user_id             TEXT NOT NULL,
		current_question_id TEXT NULL,
		answers             TEXT NOT NULL,
		completed_at        BIGINT NULL,
		updated_at          BIGINT NOT NULL,
		PRIMARY KEY (campaign_id, user_id)
	)`,
	`CREATE TABLE IF NOT EXISTS canvass_campaigns (
		id         TEXT PRIMARY KEY,
		code       TEXT NULL,
		channel    TEXT NULL,
		record     TEXT NOT NULL,
		created_at BIGINT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS canvass_campaigns_code ON canvass_campaigns (code)`,
	`CREATE INDEX IF NOT EXISTS canvass_campaigns_channel ON canvass_campaigns (channel, created_at)`,
	`CREATE TABLE IF NOT EXISTS canvass_counters (
		campaign_id TEXT PRIMARY KEY,
		total       BIGINT NOT NULL
	)`,
}

// Store implements ports.SessionStore, ports.CampaignStore and
// ports.CompletionCounter over one database.
type Store struct {
	db     *sql.DB
	driver string
	now    func() time.Time
}

// Open connects to the database and creates the tables if needed.
func Open(ctx context.Context, driver, dsn string) (*Store, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("database dsn is required")
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s db: %w", driver, err)
	}
	if driver == DriverSQLite {
		// One writer at a time; avoids SQLITE_BUSY under concurrent saves.
		db.SetMaxOpenConns(1)
	}
	store, err := New(ctx, db, driver)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// New wraps an open handle and creates the tables if needed.
func New(ctx context.Context, db *sql.DB, driver string) (*Store, error) {
	if driver != DriverPostgres && driver != DriverSQLite {
		return nil, fmt.Errorf("unsupported sql driver %q", driver)
	}
	s := &Store{db: db, driver: driver, now: time.Now}
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping %s db: %w", driver, err)
	}
	if err := s.initSchema(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) initSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}

// rebind rewrites "?" placeholders to "$n" for PostgreSQL.
func (s *Store) rebind(query string) string {
	if s.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Ping checks connectivity, for health endpoints.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func fromMillis(v int64) time.Time {
	return time.UnixMilli(v).UTC()
}
