package sessions

import (
	"context"
	"time"
)

// Store defines the interface to the external session store. All session
// bookkeeping is delegated to the store; nothing is persisted locally.
type Store interface {
	// Create appends a new session record for email with the given start time
	Create(ctx context.Context, email string, start time.Time) (*SessionRecord, error)

	// LatestByEmail returns the most recent session record for email,
	// sorted by start time descending, or nil if none exists
	LatestByEmail(ctx context.Context, email string) (*SessionRecord, error)

	// UpdateLastSeen overwrites the record's session end time. Safe to call
	// repeatedly; last write wins
	UpdateLastSeen(ctx context.Context, recordID int, seen time.Time) error

	// ListByEmail returns up to limit session records for email, newest
	// first. An empty email returns records for all accessors
	ListByEmail(ctx context.Context, email string, limit int) ([]SessionRecord, error)
}
