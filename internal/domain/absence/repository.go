package absence

import (
	"context"
	"time"
)

type AbsenceFilter struct {
	UserIDs []string
	From    time.Time // inclusive date
	To      time.Time // inclusive date
	Status  *Status
}

type AbsenceRepository interface {
	GetByID(ctx context.Context, id string) (Absence, error)

	// List returns absences matching the filter, newest date first.
	List(ctx context.Context, filter AbsenceFilter) ([]Absence, error)

	// Upsert inserts a pending declaration or updates type and reason of an
	// existing pending one. Returns ErrAbsenceAlreadyReviewed when the
	// existing record is no longer pending.
	Upsert(ctx context.Context, absence Absence) (Absence, error)

	// CreateIfAbsent inserts the record unless one already exists for the
	// same user and date. The stored record is returned either way;
	// created reports whether this call wrote it.
	CreateIfAbsent(ctx context.Context, absence Absence) (stored Absence, created bool, err error)

	// UpdateStatus moves a pending record to status. Returns
	// ErrAbsenceAlreadyReviewed when the record is no longer pending.
	UpdateStatus(ctx context.Context, id string, status Status, reviewerID string, reviewedAt time.Time) (Absence, error)
}
