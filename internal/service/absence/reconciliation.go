package absence

import (
	"time"

	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/absence"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/pkg/workday"
)

func dayKey(userID string, date time.Time) string {
	return userID + "|" + workday.Key(date)
}

// DetectPotentialAbsences returns, per user, the workdays in rng strictly
// before today that have neither a clock event nor an absence record.
// Dates are ascending; users without gaps are omitted.
func DetectPotentialAbsences(
	userIDs []string,
	observations []attendance.DayObservation,
	absences []absence.Absence,
	rng workday.Range,
	today time.Time,
) map[string][]time.Time {
	covered := make(map[string]struct{}, len(observations)+len(absences))
	for _, obs := range observations {
		covered[dayKey(obs.UserID, obs.Date)] = struct{}{}
	}
	for _, a := range absences {
		covered[dayKey(a.UserID, a.Date)] = struct{}{}
	}

	days := workday.Workdays(rng.Start, rng.End)
	out := make(map[string][]time.Time)
	for _, userID := range userIDs {
		for _, d := range days {
			if !d.Before(today) {
				break
			}
			if _, ok := covered[dayKey(userID, d)]; ok {
				continue
			}
			out[userID] = append(out[userID], d)
		}
	}
	return out
}

// DetectMissingCheckouts returns the observations with a check-in, no
// check-out, and no absent marker.
func DetectMissingCheckouts(observations []attendance.DayObservation) []attendance.DayObservation {
	var out []attendance.DayObservation
	for _, obs := range observations {
		if obs.CheckIn != nil && obs.CheckOut == nil && !obs.IsAbsent {
			out = append(out, obs)
		}
	}
	return out
}
