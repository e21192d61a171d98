package attendance

import (
	"sort"
	"time"

	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/pkg/workday"
	"github.com/shopspring/decimal"
)

// BuildDailyReports returns one summary per (user, date) that has a check-in
// or check-out, newest date first, then by last name, first name and user id.
func BuildDailyReports(events []attendance.ClockEvent, people map[string]user.User, loc *time.Location) []attendance.DaySummary {
	observations := NormalizeEvents(events, loc)

	days := make([]attendance.DaySummary, 0, len(observations))
	for _, obs := range observations {
		if s, ok := ComputeDaySummary(obs); ok {
			days = append(days, s)
		}
	}

	sort.SliceStable(days, func(i, j int) bool {
		if !days[i].Date.Equal(days[j].Date) {
			return days[i].Date.After(days[j].Date)
		}
		return personLess(people, days[i].UserID, days[j].UserID)
	})
	return days
}

type weekKey struct {
	userID string
	week   string
}

// AggregateWeeks groups day summaries into ISO weeks per user. Weeks are
// ordered newest first, then by person; days within a week oldest first.
func AggregateWeeks(days []attendance.DaySummary, people map[string]user.User) []attendance.WeekSummary {
	buckets := make(map[weekKey]*attendance.WeekSummary)
	var order []weekKey

	for _, d := range days {
		start := workday.WeekStart(d.Date)
		k := weekKey{userID: d.UserID, week: workday.Key(start)}
		w, ok := buckets[k]
		if !ok {
			w = &attendance.WeekSummary{
				UserID:    d.UserID,
				WeekStart: start,
				WeekEnd:   workday.WeekEnd(start),
			}
			buckets[k] = w
			order = append(order, k)
		}
		w.Days = append(w.Days, d)
	}

	weeks := make([]attendance.WeekSummary, 0, len(order))
	for _, k := range order {
		w := buckets[k]
		sort.SliceStable(w.Days, func(i, j int) bool {
			return w.Days[i].Date.Before(w.Days[j].Date)
		})

		total := decimal.Zero
		for _, d := range w.Days {
			total = total.Add(decimal.NewFromFloat(d.HoursWorked))
			if d.HoursWorked > 0 {
				w.DaysWorked++
			}
		}
		total = total.Round(2)
		w.TotalHours = total.InexactFloat64()
		if w.DaysWorked > 0 {
			w.AverageDailyHours = total.Div(decimal.NewFromInt(int64(w.DaysWorked))).Round(2).InexactFloat64()
		}
		weeks = append(weeks, *w)
	}

	sort.SliceStable(weeks, func(i, j int) bool {
		if !weeks[i].WeekStart.Equal(weeks[j].WeekStart) {
			return weeks[i].WeekStart.After(weeks[j].WeekStart)
		}
		return personLess(people, weeks[i].UserID, weeks[j].UserID)
	})
	return weeks
}

// Anomalies filters the summaries that carry an anomaly.
func Anomalies(days []attendance.DaySummary) []attendance.DaySummary {
	var out []attendance.DaySummary
	for _, d := range days {
		if d.Anomaly != "" {
			out = append(out, d)
		}
	}
	return out
}

func personLess(people map[string]user.User, a, b string) bool {
	pa, pb := people[a], people[b]
	if pa.LastName != pb.LastName {
		return pa.LastName < pb.LastName
	}
	if pa.FirstName != pb.FirstName {
		return pa.FirstName < pb.FirstName
	}
	return a < b
}
