// Package sqlite implements the room-session journal on SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/vovakirdan/pairlink-server/internal/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS room_sessions (
	id        INTEGER PRIMARY KEY AUTOINCREMENT,
	room      TEXT NOT NULL,
	opened_at DATETIME NOT NULL,
	closed_at DATETIME,
	reason    TEXT
);

CREATE INDEX IF NOT EXISTS idx_room_sessions_open
	ON room_sessions(room, opened_at DESC);
`

// Store is the SQLite-backed session journal.
type Store struct {
	db *sql.DB
}

// New opens (and creates if needed) the database at path and applies
// the schema.
func New(path string) (*Store, error) {
	return NewWithSetup(path, func(db *sql.DB) error {
		_, err := db.Exec(schema)
		return err
	})
}

// NewWithSetup opens the database and runs a custom setup function,
// useful for tests that want full control over the schema.
func NewWithSetup(path string, setup func(db *sql.DB) error) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// Journal writes all come from one goroutine, but keep SQLite happy
	// with concurrent readers from the status surface.
	db.SetMaxOpenConns(1)

	if err := setup(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("setup sqlite: %w", err)
	}
	return &Store{db: db}, nil
}

// RecordOpened inserts a new open session row for the room.
func (s *Store) RecordOpened(ctx context.Context, room string, at time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO room_sessions (room, opened_at) VALUES (?, ?)`,
		room, at.UTC())
	if err != nil {
		return fmt.Errorf("record opened: %w", err)
	}
	return nil
}

// RecordClosed closes the most recent open session for the room.
func (s *Store) RecordClosed(ctx context.Context, room string, reason store.CloseReason, at time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE room_sessions SET closed_at = ?, reason = ?
		 WHERE id = (
			SELECT id FROM room_sessions
			WHERE room = ? AND closed_at IS NULL
			ORDER BY opened_at DESC, id DESC LIMIT 1
		 )`,
		at.UTC(), string(reason), room)
	if err != nil {
		return fmt.Errorf("record closed: %w", err)
	}
	return nil
}

// RecentSessions returns the newest sessions first.
func (s *Store) RecentSessions(ctx context.Context, limit int) ([]store.Session, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, room, opened_at, closed_at, reason
		 FROM room_sessions
		 ORDER BY opened_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var out []store.Session
	for rows.Next() {
		var (
			sess     store.Session
			closedAt sql.NullTime
			reason   sql.NullString
		)
		if err := rows.Scan(&sess.ID, &sess.Room, &sess.OpenedAt, &closedAt, &reason); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		if closedAt.Valid {
			t := closedAt.Time
			sess.ClosedAt = &t
		}
		if reason.Valid {
			sess.Reason = store.CloseReason(reason.String)
		}
		out = append(out, sess)
	}
	return out, rows.Err()
}

// Totals aggregates the journal.
func (s *Store) Totals(ctx context.Context) (store.Totals, error) {
	var t store.Totals
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*),
			COUNT(closed_at),
			COUNT(CASE WHEN reason = ? THEN 1 END)
		 FROM room_sessions`, string(store.ReasonTimeout)).
		Scan(&t.Opened, &t.Closed, &t.Timeouts)
	if err != nil {
		return store.Totals{}, fmt.Errorf("query totals: %w", err)
	}
	return t, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
