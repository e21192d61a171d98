package absence

import "errors"

var (
	ErrAbsenceNotFound        = errors.New("absence record not found")
	ErrAbsenceAlreadyReviewed = errors.New("absence has already been approved or rejected")
	ErrSelfReview             = errors.New("you cannot review your own absence")
)
