package absence

import "time"

type Type string

const (
	TypeSick     Type = "sick"
	TypeVacation Type = "vacation"
	TypePersonal Type = "personal"
	TypeOther    Type = "other"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Absence is the reconciled record for one user on one date.
// At most one exists per (UserID, Date).
type Absence struct {
	ID         string
	UserID     string
	Date       time.Time
	Type       Type
	Reason     *string
	Status     Status
	ApprovedBy *string
	ReviewedAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// IsReviewed reports whether the record has left the pending state.
// Approved and rejected are terminal.
func (a *Absence) IsReviewed() bool {
	return a.Status != StatusPending
}
