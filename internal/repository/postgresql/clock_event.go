package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type clockEventRepositoryImpl struct {
	db *database.DB
}

func NewClockEventRepository(db *database.DB) attendance.ClockEventRepository {
	return &clockEventRepositoryImpl{db: db}
}

// Create implements attendance.ClockEventRepository.
func (r *clockEventRepositoryImpl) Create(ctx context.Context, event attendance.ClockEvent) (attendance.ClockEvent, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return attendance.ClockEvent{}, fmt.Errorf("failed to generate clock event id: %w", err)
	}

	query := `
		INSERT INTO clock_events (id, user_id, occurred_at, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, user_id, occurred_at, status, created_at
	`

	var created attendance.ClockEvent
	err = q.QueryRow(ctx, query, id.String(), event.UserID, event.Timestamp, string(event.Status)).Scan(
		&created.ID,
		&created.UserID,
		&created.Timestamp,
		&created.Status,
		&created.CreatedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return attendance.ClockEvent{}, attendance.DuplicatePunchError(event.Status)
		}
		return attendance.ClockEvent{}, fmt.Errorf("failed to create clock event: %w", err)
	}

	return created, nil
}

// GetLastByUser implements attendance.ClockEventRepository.
func (r *clockEventRepositoryImpl) GetLastByUser(ctx context.Context, userID string) (*attendance.ClockEvent, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, user_id, occurred_at, status, created_at
		FROM clock_events
		WHERE user_id = $1
		ORDER BY occurred_at DESC, created_at DESC
		LIMIT 1
	`

	var e attendance.ClockEvent
	err := q.QueryRow(ctx, query, userID).Scan(&e.ID, &e.UserID, &e.Timestamp, &e.Status, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get last clock event: %w", err)
	}

	return &e, nil
}

// ListByUsersAndRange implements attendance.ClockEventRepository.
func (r *clockEventRepositoryImpl) ListByUsersAndRange(ctx context.Context, userIDs []string, from, to time.Time) ([]attendance.ClockEvent, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, user_id, occurred_at, status, created_at
		FROM clock_events
		WHERE user_id = ANY($1::uuid[])
		  AND occurred_at >= $2
		  AND occurred_at < $3
		ORDER BY occurred_at ASC, created_at ASC
	`

	rows, err := q.Query(ctx, query, userIDs, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query clock events: %w", err)
	}
	defer rows.Close()

	var events []attendance.ClockEvent
	for rows.Next() {
		var e attendance.ClockEvent
		if err := rows.Scan(&e.ID, &e.UserID, &e.Timestamp, &e.Status, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan clock event: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate clock events: %w", err)
	}

	return events, nil
}

// WithUserLock implements attendance.ClockEventRepository.
// The lock is a transaction-scoped advisory lock keyed on the user id, so it
// is released on commit or rollback.
func (r *clockEventRepositoryImpl) WithUserLock(ctx context.Context, userID string, fn func(ctx context.Context) error) error {
	return WithTransaction(ctx, r.db, func(txCtx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(txCtx, `SELECT pg_advisory_xact_lock(hashtext($1))`, userID); err != nil {
			return fmt.Errorf("failed to acquire user lock: %w", err)
		}
		return fn(txCtx)
	})
}
