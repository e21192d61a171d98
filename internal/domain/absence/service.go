package absence

import (
	"context"

	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/attendance"
)

// AbsenceService covers declarations, review and reconciliation of absences
type AbsenceService interface {
	// Declare records the caller's own absence for a date, pending review
	Declare(ctx context.Context, req DeclareAbsenceRequest) (AbsenceResponse, error)

	// List returns absences visible to the caller
	List(ctx context.Context, filter ListAbsenceFilter) (ListAbsenceResponse, error)

	Approve(ctx context.Context, req ReviewAbsenceRequest) (AbsenceResponse, error)
	Reject(ctx context.Context, req ReviewAbsenceRequest) (AbsenceResponse, error)

	// PotentialAbsences lists past workdays with neither events nor an absence record
	PotentialAbsences(ctx context.Context, query attendance.RangeQuery) (PotentialAbsencesResponse, error)

	// MissingCheckouts lists days with a check-in but no check-out
	MissingCheckouts(ctx context.Context, query attendance.RangeQuery) (MissingCheckoutsResponse, error)

	// AutoMark creates pending absences for every potential absence. Idempotent.
	AutoMark(ctx context.Context, query attendance.RangeQuery) (AutoMarkResponse, error)
}
