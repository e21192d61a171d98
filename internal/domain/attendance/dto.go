package attendance

import (
	"time"

	"github.com/cmlabs-hris/attendance-tracker-go/internal/pkg/validator"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/pkg/workday"
)

// ========================================
// PUNCH DTOs
// ========================================

type PunchRequest struct {
	Status string `json:"status" validate:"required,oneof=check-in check-out absent"`
}

func (r *PunchRequest) Validate() error {
	return validator.Struct(r)
}

type ClockEventResponse struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	Date      string `json:"date"`
	Timestamp string `json:"timestamp"`
	Status    string `json:"status"`
}

func NewClockEventResponse(e ClockEvent, loc *time.Location) ClockEventResponse {
	return ClockEventResponse{
		ID:        e.ID,
		UserID:    e.UserID,
		Date:      workday.Key(workday.DateOf(e.Timestamp, loc)),
		Timestamp: e.Timestamp.In(loc).Format(time.RFC3339),
		Status:    string(e.Status),
	}
}

// ========================================
// QUERY DTOs
// ========================================

// RangeQuery selects an inclusive date range and an optional subset of users.
// Missing dates are filled in by the service from configured defaults.
type RangeQuery struct {
	StartDate string   `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string   `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	UserIDs   []string `json:"user_ids" validate:"omitempty,max=500,dive,uuid"`
}

func (q *RangeQuery) Validate() error {
	return validator.Struct(q)
}

// ========================================
// REPORT DTOs
// ========================================

type DaySummaryResponse struct {
	UserID          string  `json:"user_id"`
	Date            string  `json:"date"`
	CheckIn         *string `json:"check_in"`
	CheckOut        *string `json:"check_out"`
	HoursWorked     float64 `json:"hours_worked"`
	IsAbsent        bool    `json:"is_absent"`
	MissingCheckout bool    `json:"missing_checkout"`
	Anomaly         string  `json:"anomaly,omitempty"`
}

func NewDaySummaryResponse(s DaySummary, loc *time.Location) DaySummaryResponse {
	return DaySummaryResponse{
		UserID:          s.UserID,
		Date:            workday.Key(s.Date),
		CheckIn:         formatTimestamp(s.CheckIn, loc),
		CheckOut:        formatTimestamp(s.CheckOut, loc),
		HoursWorked:     s.HoursWorked,
		IsAbsent:        s.IsAbsent,
		MissingCheckout: s.MissingCheckout,
		Anomaly:         string(s.Anomaly),
	}
}

func formatTimestamp(t *time.Time, loc *time.Location) *string {
	if t == nil {
		return nil
	}
	s := t.In(loc).Format(time.RFC3339)
	return &s
}

type DailyReportRow struct {
	DaySummaryResponse
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type DailyReportResponse struct {
	StartDate  string           `json:"start_date"`
	EndDate    string           `json:"end_date"`
	Population int              `json:"population"`
	Days       []DailyReportRow `json:"days"`
	Anomalies  []DailyReportRow `json:"anomalies"`
}

type WeeklyReportRow struct {
	UserID            string               `json:"user_id"`
	FirstName         string               `json:"first_name"`
	LastName          string               `json:"last_name"`
	WeekStart         string               `json:"week_start"`
	WeekEnd           string               `json:"week_end"`
	TotalHours        float64              `json:"total_hours"`
	DaysWorked        int                  `json:"days_worked"`
	AverageDailyHours float64              `json:"average_daily_hours"`
	Days              []DaySummaryResponse `json:"days"`
}

type WeeklyReportResponse struct {
	StartDate  string            `json:"start_date"`
	EndDate    string            `json:"end_date"`
	Population int               `json:"population"`
	Weeks      []WeeklyReportRow `json:"weeks"`
	Anomalies  []DailyReportRow  `json:"anomalies"`
}

type MyDaysResponse struct {
	StartDate string               `json:"start_date"`
	EndDate   string               `json:"end_date"`
	Days      []DaySummaryResponse `json:"days"`
}

// ========================================
// KPI DTOs
// ========================================

type KPIResponse struct {
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	Population int    `json:"population"`
	KPISnapshot
}
