package attendance

import (
	"time"

	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/attendance"
	"github.com/shopspring/decimal"
)

var msPerHour = decimal.NewFromInt(int64(time.Hour / time.Millisecond))

// ComputeDaySummary derives the summary for one observation. An absent day
// always yields zero hours. It reports false for days that are neither absent
// nor carry a check-in or check-out.
func ComputeDaySummary(obs attendance.DayObservation) (attendance.DaySummary, bool) {
	s := attendance.DaySummary{
		UserID:   obs.UserID,
		Date:     obs.Date,
		CheckIn:  obs.CheckIn,
		CheckOut: obs.CheckOut,
		IsAbsent: obs.IsAbsent,
	}

	switch {
	case obs.IsAbsent:
		// zero hours, never a missing checkout
	case obs.CheckIn != nil && obs.CheckOut != nil:
		if obs.CheckOut.Before(*obs.CheckIn) {
			s.Anomaly = attendance.AnomalyCheckoutBeforeCheckin
		} else {
			s.HoursWorked = HoursBetween(*obs.CheckIn, *obs.CheckOut)
		}
	case obs.CheckIn != nil:
		s.MissingCheckout = true
	case obs.CheckOut != nil:
		s.Anomaly = attendance.AnomalyMissingCheckin
	default:
		return attendance.DaySummary{}, false
	}

	return s, true
}

// HoursBetween returns the span in hours rounded to two decimals.
func HoursBetween(from, to time.Time) float64 {
	return exactHours(from, to).Round(2).InexactFloat64()
}

func exactHours(from, to time.Time) decimal.Decimal {
	return decimal.NewFromInt(to.Sub(from).Milliseconds()).Div(msPerHour)
}

// Round2 rounds half away from zero to two decimals.
func Round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

func percent(part, whole int) decimal.Decimal {
	if whole == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(part) * 100).Div(decimal.NewFromInt(int64(whole)))
}
