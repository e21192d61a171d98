package attendance

import "errors"

// Attendance domain errors
var (
	// Punch errors
	ErrAlreadyCheckedIn    = errors.New("you are already checked in")
	ErrAlreadyCheckedOut   = errors.New("you are already checked out")
	ErrAlreadyMarkedAbsent = errors.New("you are already marked absent")

	// Query errors
	ErrEmptyPopulation = errors.New("no users in the requested population")

	ErrClockEventNotFound = errors.New("clock event not found")
)

// DuplicatePunchError returns the error for repeating status back to back.
func DuplicatePunchError(status EventStatus) error {
	switch status {
	case StatusCheckIn:
		return ErrAlreadyCheckedIn
	case StatusCheckOut:
		return ErrAlreadyCheckedOut
	default:
		return ErrAlreadyMarkedAbsent
	}
}
