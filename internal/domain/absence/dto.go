package absence

import (
	"time"

	"github.com/cmlabs-hris/attendance-tracker-go/internal/pkg/validator"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/pkg/workday"
)

type DeclareAbsenceRequest struct {
	Date   string  `json:"date" validate:"required,datetime=2006-01-02"`
	Type   string  `json:"type" validate:"required,oneof=sick vacation personal other"`
	Reason *string `json:"reason,omitempty" validate:"omitempty,max=500"`
}

func (r *DeclareAbsenceRequest) Validate() error {
	return validator.Struct(r)
}

type ListAbsenceFilter struct {
	StartDate string   `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string   `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	UserIDs   []string `json:"user_ids" validate:"omitempty,max=500,dive,uuid"`
	Status    string   `json:"status" validate:"omitempty,oneof=pending approved rejected"`
}

func (f *ListAbsenceFilter) Validate() error {
	return validator.Struct(f)
}

type ReviewAbsenceRequest struct {
	ID string `json:"-"`
}

func (r *ReviewAbsenceRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.ID) || !validator.IsValidUUID(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id must be a valid UUID",
		})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type AbsenceResponse struct {
	ID         string  `json:"id"`
	UserID     string  `json:"user_id"`
	Date       string  `json:"date"`
	Type       string  `json:"type"`
	Reason     *string `json:"reason"`
	Status     string  `json:"status"`
	ApprovedBy *string `json:"approved_by"`
	ReviewedAt *string `json:"reviewed_at"`
	CreatedAt  string  `json:"created_at"`
	UpdatedAt  string  `json:"updated_at"`
}

func NewAbsenceResponse(a Absence) AbsenceResponse {
	resp := AbsenceResponse{
		ID:         a.ID,
		UserID:     a.UserID,
		Date:       workday.Key(a.Date),
		Type:       string(a.Type),
		Reason:     a.Reason,
		Status:     string(a.Status),
		ApprovedBy: a.ApprovedBy,
		CreatedAt:  a.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  a.UpdatedAt.Format(time.RFC3339),
	}
	if a.ReviewedAt != nil {
		s := a.ReviewedAt.Format(time.RFC3339)
		resp.ReviewedAt = &s
	}
	return resp
}

type ListAbsenceResponse struct {
	StartDate string            `json:"start_date"`
	EndDate   string            `json:"end_date"`
	Absences  []AbsenceResponse `json:"absences"`
}

type PotentialAbsence struct {
	UserID    string   `json:"user_id"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Dates     []string `json:"dates"`
}

type PotentialAbsencesResponse struct {
	StartDate string             `json:"start_date"`
	EndDate   string             `json:"end_date"`
	Users     []PotentialAbsence `json:"users"`
	Total     int                `json:"total"`
}

type MissingCheckout struct {
	UserID    string `json:"user_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Date      string `json:"date"`
	CheckIn   string `json:"check_in"`
}

type MissingCheckoutsResponse struct {
	StartDate string            `json:"start_date"`
	EndDate   string            `json:"end_date"`
	Days      []MissingCheckout `json:"days"`
}

type AutoMarkResponse struct {
	StartDate string            `json:"start_date"`
	EndDate   string            `json:"end_date"`
	Created   int               `json:"created"`
	Skipped   int               `json:"skipped"`
	Absences  []AbsenceResponse `json:"absences"`
}
