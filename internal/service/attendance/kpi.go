package attendance

import (
	"log/slog"
	"math"
	"time"

	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/pkg/workday"
	"github.com/shopspring/decimal"
)

// KPIInput is everything ComputeKPIs reads. Events cover the requested range;
// TodayEvents cover the current local date, which may lie outside it.
type KPIInput struct {
	UserIDs     []string
	Range       workday.Range
	Events      []attendance.ClockEvent
	TodayEvents []attendance.ClockEvent
}

var hundred = decimal.NewFromInt(100)

func ComputeKPIs(in KPIInput, p Policy) attendance.KPISnapshot {
	population := make(map[string]struct{}, len(in.UserIDs))
	for _, id := range in.UserIDs {
		population[id] = struct{}{}
	}

	var events []attendance.ClockEvent
	for _, e := range in.Events {
		if _, ok := population[e.UserID]; !ok {
			continue
		}
		d := workday.DateOf(e.Timestamp, p.Location)
		if d.Before(in.Range.Start) || d.After(in.Range.End) {
			continue
		}
		events = append(events, e)
	}

	snapshot := attendance.KPISnapshot{
		TotalWorkdays: workday.CountWorkdays(in.Range.Start, in.Range.End),
	}

	// Check-in time and punctuality
	var checkIns, punctual, minutesSum int
	for _, e := range events {
		if e.Status != attendance.StatusCheckIn {
			continue
		}
		m := workday.MinuteOfDay(e.Timestamp, p.Location)
		checkIns++
		minutesSum += m
		if m <= p.PunctualityCutoff {
			punctual++
		}
	}
	if checkIns > 0 {
		avg := int(math.Round(float64(minutesSum) / float64(checkIns)))
		if avg > 24*60-1 {
			avg = 24*60 - 1
		}
		clock := workday.FormatClock(avg)
		snapshot.AverageCheckInTime = &clock
		snapshot.PunctualityRate = percent(punctual, checkIns).Round(2).InexactFloat64()
		snapshot.LateArrivals = checkIns - punctual
	}

	// Currently checked in
	snapshot.ActiveEmployeesToday = countActive(in.TodayEvents, population)

	// Overtime and days worked
	observations := NormalizeEvents(events, p.Location)
	standard := decimal.NewFromFloat(p.StandardHours)
	overtime := decimal.Zero
	for _, obs := range observations {
		if obs.IsAbsent || obs.CheckIn == nil || obs.CheckOut == nil || obs.CheckOut.Before(*obs.CheckIn) {
			continue
		}
		if h := exactHours(*obs.CheckIn, *obs.CheckOut).Round(2); h.GreaterThan(standard) {
			overtime = overtime.Add(h.Sub(standard))
		}
	}
	snapshot.OvertimeHours = overtime.Round(2).InexactFloat64()
	snapshot.TotalDaysWorked = len(observations)

	// Attendance rate
	expected := snapshot.TotalWorkdays * len(population)
	if expected > 0 {
		rate := percent(snapshot.TotalDaysWorked, expected)
		if rate.GreaterThan(hundred) {
			slog.Warn("attendance rate above 100%, clamping",
				"days_worked", snapshot.TotalDaysWorked,
				"expected_days", expected,
				"start_date", workday.Key(in.Range.Start),
				"end_date", workday.Key(in.Range.End),
			)
			rate = hundred
		}
		snapshot.AttendanceRate = rate.Round(2).InexactFloat64()
	}

	return snapshot
}

// countActive counts users whose latest event today is a check-in.
func countActive(today []attendance.ClockEvent, population map[string]struct{}) int {
	latest := make(map[string]attendance.ClockEvent)
	for _, e := range today {
		if _, ok := population[e.UserID]; !ok {
			continue
		}
		prev, seen := latest[e.UserID]
		if !seen || !e.Timestamp.Before(prev.Timestamp) {
			latest[e.UserID] = e
		}
	}

	active := 0
	for _, e := range latest {
		if e.Status == attendance.StatusCheckIn {
			active++
		}
	}
	return active
}

// TodayWindow returns [midnight, next midnight) of the current local date.
func TodayWindow(now time.Time, p Policy) (time.Time, time.Time) {
	start := p.Today(now)
	return start, start.AddDate(0, 0, 1)
}
