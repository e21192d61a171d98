package attendance

import (
	"time"
)

type EventStatus string

const (
	StatusCheckIn  EventStatus = "check-in"
	StatusCheckOut EventStatus = "check-out"
	StatusAbsent   EventStatus = "absent"
)

func (s EventStatus) Valid() bool {
	return s == StatusCheckIn || s == StatusCheckOut || s == StatusAbsent
}

// ClockEvent is one append-only punch. Events are never edited in place.
type ClockEvent struct {
	ID        string
	UserID    string
	Timestamp time.Time
	Status    EventStatus
	CreatedAt time.Time
}

// DayObservation is the normalized view of one user's events on one local date.
type DayObservation struct {
	UserID   string
	Date     time.Time
	CheckIn  *time.Time // earliest check-in
	CheckOut *time.Time // latest check-out
	IsAbsent bool
}

type Anomaly string

const (
	AnomalyCheckoutBeforeCheckin Anomaly = "checkout_before_checkin"
	AnomalyMissingCheckin        Anomaly = "missing_checkin"
)

type DaySummary struct {
	UserID          string
	Date            time.Time
	CheckIn         *time.Time
	CheckOut        *time.Time
	HoursWorked     float64
	IsAbsent        bool
	MissingCheckout bool
	Anomaly         Anomaly
}

type WeekSummary struct {
	UserID            string
	WeekStart         time.Time
	WeekEnd           time.Time
	TotalHours        float64
	DaysWorked        int
	AverageDailyHours float64
	Days              []DaySummary
}

type KPISnapshot struct {
	AttendanceRate       float64 `json:"attendance_rate"`
	ActiveEmployeesToday int     `json:"active_employees_today"`
	AverageCheckInTime   *string `json:"average_check_in_time"`
	PunctualityRate      float64 `json:"punctuality_rate"`
	LateArrivals         int     `json:"late_arrivals"`
	OvertimeHours        float64 `json:"overtime_hours"`
	TotalWorkdays        int     `json:"total_workdays"`
	TotalDaysWorked      int     `json:"total_days_worked"`
}
