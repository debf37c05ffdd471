package store

import (
	"context"
	"time"
)

// CloseReason says why a room session ended.
type CloseReason string

const (
	ReasonEmptied  CloseReason = "emptied"
	ReasonTimeout  CloseReason = "timeout"
	ReasonShutdown CloseReason = "shutdown"
)

// Session is one room lifetime as recorded in the journal. Game state is
// never persisted; only lifecycle metadata for operational monitoring.
type Session struct {
	ID       int64
	Room     string
	OpenedAt time.Time
	ClosedAt *time.Time
	Reason   CloseReason
}

// Totals aggregates the journal for the status surface.
type Totals struct {
	Opened   int64
	Closed   int64
	Timeouts int64
}

// Store is the room-session journal. Implementations must be safe for
// concurrent use.
type Store interface {
	RecordOpened(ctx context.Context, room string, at time.Time) error
	RecordClosed(ctx context.Context, room string, reason CloseReason, at time.Time) error
	RecentSessions(ctx context.Context, limit int) ([]Session, error)
	Totals(ctx context.Context) (Totals, error)
	Close() error
}
