package attendance

import (
	"context"
	"time"
)

// ClockEventRepository defines data access for the append-only clock event log.
type ClockEventRepository interface {
	// Create appends a new event and returns it with its generated fields.
	Create(ctx context.Context, event ClockEvent) (ClockEvent, error)

	// GetLastByUser returns the most recent event of a user, or nil when there is none.
	GetLastByUser(ctx context.Context, userID string) (*ClockEvent, error)

	// ListByUsersAndRange returns events of the given users with from <= timestamp < to, oldest first.
	ListByUsersAndRange(ctx context.Context, userIDs []string, from, to time.Time) ([]ClockEvent, error)

	// WithUserLock runs fn while holding an exclusive lock for userID.
	// The context passed to fn carries the surrounding transaction.
	WithUserLock(ctx context.Context, userID string, fn func(ctx context.Context) error) error
}
