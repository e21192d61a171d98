package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/absence"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/pkg/workday"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type absenceRepositoryImpl struct {
	db *database.DB
}

func NewAbsenceRepository(db *database.DB) absence.AbsenceRepository {
	return &absenceRepositoryImpl{db: db}
}

const absenceColumns = `id, user_id, date, type, reason, status, approved_by, reviewed_at, created_at, updated_at`

func scanAbsence(row pgx.Row, extra ...any) (absence.Absence, error) {
	var a absence.Absence
	dest := []any{
		&a.ID,
		&a.UserID,
		&a.Date,
		&a.Type,
		&a.Reason,
		&a.Status,
		&a.ApprovedBy,
		&a.ReviewedAt,
		&a.CreatedAt,
		&a.UpdatedAt,
	}
	err := row.Scan(append(dest, extra...)...)
	return a, err
}

// GetByID implements absence.AbsenceRepository.
func (r *absenceRepositoryImpl) GetByID(ctx context.Context, id string) (absence.Absence, error) {
	q := GetQuerier(ctx, r.db)

	a, err := scanAbsence(q.QueryRow(ctx, `SELECT `+absenceColumns+` FROM absences WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return absence.Absence{}, absence.ErrAbsenceNotFound
		}
		return absence.Absence{}, fmt.Errorf("failed to get absence by id: %w", err)
	}
	return a, nil
}

// List implements absence.AbsenceRepository.
func (r *absenceRepositoryImpl) List(ctx context.Context, filter absence.AbsenceFilter) ([]absence.Absence, error) {
	if len(filter.UserIDs) == 0 {
		return nil, nil
	}

	q := GetQuerier(ctx, r.db)

	whereClauses := []string{
		"user_id = ANY($1::uuid[])",
		"date >= $2::date",
		"date <= $3::date",
	}
	args := []interface{}{filter.UserIDs, workday.Key(filter.From), workday.Key(filter.To)}

	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		whereClauses = append(whereClauses, fmt.Sprintf("status = $%d", len(args)))
	}

	query := `SELECT ` + absenceColumns + ` FROM absences WHERE ` +
		strings.Join(whereClauses, " AND ") +
		` ORDER BY date DESC, user_id ASC`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query absences: %w", err)
	}
	defer rows.Close()

	var out []absence.Absence
	for rows.Next() {
		a, err := scanAbsence(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan absence: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate absences: %w", err)
	}
	return out, nil
}

// Upsert implements absence.AbsenceRepository.
func (r *absenceRepositoryImpl) Upsert(ctx context.Context, a absence.Absence) (absence.Absence, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return absence.Absence{}, fmt.Errorf("failed to generate absence id: %w", err)
	}

	// The conditional update yields no row when the existing record is reviewed.
	query := `
		INSERT INTO absences (id, user_id, date, type, reason, status)
		VALUES ($1, $2, $3::date, $4, $5, 'pending')
		ON CONFLICT (user_id, date) DO UPDATE
		SET type = EXCLUDED.type, reason = EXCLUDED.reason, updated_at = NOW()
		WHERE absences.status = 'pending'
		RETURNING ` + absenceColumns

	stored, err := scanAbsence(q.QueryRow(ctx, query,
		id.String(), a.UserID, workday.Key(a.Date), string(a.Type), a.Reason,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return absence.Absence{}, absence.ErrAbsenceAlreadyReviewed
		}
		return absence.Absence{}, fmt.Errorf("failed to upsert absence: %w", err)
	}
	return stored, nil
}

// CreateIfAbsent implements absence.AbsenceRepository.
func (r *absenceRepositoryImpl) CreateIfAbsent(ctx context.Context, a absence.Absence) (absence.Absence, bool, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return absence.Absence{}, false, fmt.Errorf("failed to generate absence id: %w", err)
	}

	status := a.Status
	if status == "" {
		status = absence.StatusPending
	}

	// The no-op update makes RETURNING yield the existing row on conflict;
	// xmax is zero only for a freshly inserted tuple.
	query := `
		INSERT INTO absences (id, user_id, date, type, reason, status)
		VALUES ($1, $2, $3::date, $4, $5, $6)
		ON CONFLICT (user_id, date) DO UPDATE
		SET updated_at = absences.updated_at
		RETURNING ` + absenceColumns + `, (xmax = 0) AS inserted`

	var inserted bool
	stored, err := scanAbsence(q.QueryRow(ctx, query,
		id.String(), a.UserID, workday.Key(a.Date), string(a.Type), a.Reason, string(status),
	), &inserted)
	if err != nil {
		return absence.Absence{}, false, fmt.Errorf("failed to create absence: %w", err)
	}
	return stored, inserted, nil
}

// UpdateStatus implements absence.AbsenceRepository.
func (r *absenceRepositoryImpl) UpdateStatus(ctx context.Context, id string, status absence.Status, reviewerID string, reviewedAt time.Time) (absence.Absence, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE absences
		SET status = $2, approved_by = $3, reviewed_at = $4, updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
		RETURNING ` + absenceColumns

	updated, err := scanAbsence(q.QueryRow(ctx, query, id, string(status), reviewerID, reviewedAt))
	if err == nil {
		return updated, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return absence.Absence{}, fmt.Errorf("failed to update absence status: %w", err)
	}

	// Distinguish a missing record from one that was already reviewed.
	if _, getErr := r.GetByID(ctx, id); getErr != nil {
		return absence.Absence{}, getErr
	}
	return absence.Absence{}, absence.ErrAbsenceAlreadyReviewed
}
