package attendance

import (
	"sort"
	"time"

	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/pkg/workday"
)

// NormalizeEvents collapses raw events into one observation per (user, local date).
// Within a day the earliest check-in and the latest check-out win, and any
// absent event marks the day absent. Output is ordered by user, then date.
func NormalizeEvents(events []attendance.ClockEvent, loc *time.Location) []attendance.DayObservation {
	sorted := sortedEvents(events)

	var out []attendance.DayObservation
	index := make(map[string]int)
	for _, e := range sorted {
		date := workday.DateOf(e.Timestamp, loc)
		key := e.UserID + "|" + workday.Key(date)

		i, ok := index[key]
		if !ok {
			out = append(out, attendance.DayObservation{UserID: e.UserID, Date: date})
			i = len(out) - 1
			index[key] = i
		}
		observe(&out[i], e)
	}
	return out
}

// NormalizeDay folds the events of a single user and date, in any order.
func NormalizeDay(userID string, date time.Time, events []attendance.ClockEvent) attendance.DayObservation {
	obs := attendance.DayObservation{UserID: userID, Date: date}
	for _, e := range sortedEvents(events) {
		observe(&obs, e)
	}
	return obs
}

// observe expects events in ascending timestamp order.
func observe(obs *attendance.DayObservation, e attendance.ClockEvent) {
	switch e.Status {
	case attendance.StatusAbsent:
		obs.IsAbsent = true
	case attendance.StatusCheckIn:
		if obs.CheckIn == nil {
			ts := e.Timestamp
			obs.CheckIn = &ts
		}
	case attendance.StatusCheckOut:
		ts := e.Timestamp
		obs.CheckOut = &ts
	}
}

func sortedEvents(events []attendance.ClockEvent) []attendance.ClockEvent {
	sorted := make([]attendance.ClockEvent, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].UserID != sorted[j].UserID {
			return sorted[i].UserID < sorted[j].UserID
		}
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})
	return sorted
}
