package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/absence"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/pkg/identity"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/pkg/validator"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/pkg/workday"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Identity
	case errors.Is(err, identity.ErrUnauthenticated):
		Unauthorized(w, "Authentication required")

	// Date range errors
	case errors.Is(err, workday.ErrInvalidDate),
		errors.Is(err, workday.ErrInvalidRange),
		errors.Is(err, workday.ErrRangeTooLong):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, attendance.ErrEmptyPopulation):
		BadRequest(w, "No users in the requested population", nil)

	// Scope and permission errors
	case errors.Is(err, user.ErrManagerHasNoTeam):
		Forbidden(w, "Manager not assigned to any team")
	case errors.Is(err, user.ErrUserOutsideScope):
		Forbidden(w, "User is outside your reporting scope")
	case errors.Is(err, user.ErrInsufficientPermission):
		Forbidden(w, "Insufficient permissions")
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrAlreadyCheckedIn),
		errors.Is(err, attendance.ErrAlreadyCheckedOut),
		errors.Is(err, attendance.ErrAlreadyMarkedAbsent):
		Conflict(w, err.Error())
	case errors.Is(err, attendance.ErrClockEventNotFound):
		NotFound(w, "Clock event not found")

	// Absence domain errors
	case errors.Is(err, absence.ErrAbsenceNotFound):
		NotFound(w, "Absence not found")
	case errors.Is(err, absence.ErrAbsenceAlreadyReviewed):
		Conflict(w, "Absence already reviewed")
	case errors.Is(err, absence.ErrSelfReview):
		Forbidden(w, "You cannot review your own absence")

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
