package workday

import (
	"errors"
	"fmt"
	"time"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

var (
	ErrInvalidDate  = errors.New("date must be in YYYY-MM-DD format")
	ErrInvalidRange = errors.New("start_date must not be after end_date")
	ErrRangeTooLong = errors.New("date range exceeds the allowed maximum")
	ErrInvalidClock = errors.New("time of day must be in HH:MM format")
)

// DateOf truncates t to midnight of its calendar date in loc.
func DateOf(t time.Time, loc *time.Location) time.Time {
	lt := t.In(loc)
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, loc)
}

// Key formats the calendar date of d (in d's own location).
func Key(d time.Time) string {
	return d.Format(DateLayout)
}

// Parse reads a YYYY-MM-DD date as midnight in loc.
func Parse(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, loc)
}

// InLocation re-anchors the calendar date of d at midnight in loc.
// Dates scanned from a DATE column come back as UTC midnight.
func InLocation(d time.Time, loc *time.Location) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
}

func IsWorkday(d time.Time) bool {
	wd := d.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// WeekStart returns the Monday of d's ISO week.
func WeekStart(d time.Time) time.Time {
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

// WeekEnd returns the Sunday of d's ISO week.
func WeekEnd(d time.Time) time.Time {
	return WeekStart(d).AddDate(0, 0, 6)
}

// Dates lists every calendar date in [start, end]. Both ends must be midnights.
func Dates(start, end time.Time) []time.Time {
	var out []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		out = append(out, d)
	}
	return out
}

// Workdays lists the Monday–Friday dates in [start, end].
func Workdays(start, end time.Time) []time.Time {
	var out []time.Time
	for _, d := range Dates(start, end) {
		if IsWorkday(d) {
			out = append(out, d)
		}
	}
	return out
}

func CountWorkdays(start, end time.Time) int {
	return len(Workdays(start, end))
}

// MinuteOfDay returns hour*60+minute of t in loc.
func MinuteOfDay(t time.Time, loc *time.Location) int {
	lt := t.In(loc)
	return lt.Hour()*60 + lt.Minute()
}

// FormatClock renders minutes since midnight as HH:MM.
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ParseClock reads HH:MM into minutes since midnight.
func ParseClock(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, ErrInvalidClock
	}
	return t.Hour()*60 + t.Minute(), nil
}

// Range is an inclusive span of calendar dates in one location.
type Range struct {
	Start time.Time
	End   time.Time
}

// From is the first instant of the range.
func (r Range) From() time.Time { return r.Start }

// To is the first instant after the range.
func (r Range) To() time.Time { return r.End.AddDate(0, 0, 1) }

// Days is the number of calendar dates in the range, inclusive.
func (r Range) Days() int {
	start := time.Date(r.Start.Year(), r.Start.Month(), r.Start.Day(), 0, 0, 0, 0, time.UTC)
	end := time.Date(r.End.Year(), r.End.Month(), r.End.Day(), 0, 0, 0, 0, time.UTC)
	return int((end.Unix()-start.Unix())/86400) + 1
}

// ResolveRange fills in missing bounds and enforces ordering and length.
// A missing end defaults to today; a missing start to defaultDays before end.
func ResolveRange(startStr, endStr string, now time.Time, loc *time.Location, defaultDays, maxDays int) (Range, error) {
	end := DateOf(now, loc)
	if endStr != "" {
		d, err := Parse(endStr, loc)
		if err != nil {
			return Range{}, fmt.Errorf("%w: end_date %q", ErrInvalidDate, endStr)
		}
		end = d
	}

	start := end.AddDate(0, 0, -(defaultDays - 1))
	if startStr != "" {
		d, err := Parse(startStr, loc)
		if err != nil {
			return Range{}, fmt.Errorf("%w: start_date %q", ErrInvalidDate, startStr)
		}
		start = d
	}

	if start.After(end) {
		return Range{}, ErrInvalidRange
	}

	if maxDays > 0 && start.AddDate(0, 0, maxDays-1).Before(end) {
		return Range{}, ErrRangeTooLong
	}
	return Range{Start: start, End: end}, nil
}
