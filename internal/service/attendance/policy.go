package attendance

import (
	"time"

	"github.com/cmlabs-hris/attendance-tracker-go/internal/config"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/pkg/workday"
)

// Policy holds the organisation rules the engine evaluates against.
type Policy struct {
	Location          *time.Location
	PunctualityCutoff int // minutes since local midnight, inclusive
	StandardHours     float64
	DefaultRangeDays  int
	MaxRangeDays      int
}

func DefaultPolicy() Policy {
	return Policy{
		Location:          time.UTC,
		PunctualityCutoff: 9*60 + 30,
		StandardHours:     8,
		DefaultRangeDays:  30,
		MaxRangeDays:      366,
	}
}

func PolicyFromConfig(cfg config.AttendanceConfig) Policy {
	p := Policy{
		Location:          cfg.Location,
		PunctualityCutoff: cfg.CutoffMinutes,
		StandardHours:     cfg.StandardHours,
		DefaultRangeDays:  cfg.DefaultRangeDays,
		MaxRangeDays:      cfg.MaxRangeDays,
	}
	if p.Location == nil {
		p.Location = time.UTC
	}
	return p
}

// Today returns the current local date.
func (p Policy) Today(now time.Time) time.Time {
	return workday.DateOf(now, p.Location)
}

func (p Policy) ResolveRange(startDate, endDate string, now time.Time) (workday.Range, error) {
	return workday.ResolveRange(startDate, endDate, now, p.Location, p.DefaultRangeDays, p.MaxRangeDays)
}
