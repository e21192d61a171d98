package cron

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/absence"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/pkg/identity"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/pkg/workday"
)

const JobAutoMarkAbsences = "auto_mark_absences"

type AttendanceJobs struct {
	absenceService absence.AbsenceService
	location       *time.Location
	lookbackDays   int
	now            func() time.Time
}

func NewAttendanceJobs(absenceService absence.AbsenceService, location *time.Location, lookbackDays int) *AttendanceJobs {
	return &AttendanceJobs{
		absenceService: absenceService,
		location:       location,
		lookbackDays:   lookbackDays,
		now:            time.Now,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler, autoMarkSpec string) error {
	return scheduler.AddJob(JobAutoMarkAbsences, autoMarkSpec, j.AutoMarkAbsences)
}

// AutoMarkAbsences marks every user absent on past workdays of the lookback
// window that have neither clock events nor an absence record. Today is
// excluded since the day is not over.
func (j *AttendanceJobs) AutoMarkAbsences(ctx context.Context) error {
	today := workday.DateOf(j.now(), j.location)
	end := today.AddDate(0, 0, -1)
	start := today.AddDate(0, 0, -j.lookbackDays)

	slog.Info("Cron: Starting auto-mark absences job",
		"start_date", workday.Key(start),
		"end_date", workday.Key(end),
	)

	resp, err := j.absenceService.AutoMark(identity.WithIdentity(ctx, identity.System), attendance.RangeQuery{
		StartDate: workday.Key(start),
		EndDate:   workday.Key(end),
	})
	if errors.Is(err, attendance.ErrEmptyPopulation) {
		slog.Info("Cron: No users to reconcile")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to auto-mark absences: %w", err)
	}

	slog.Info("Cron: Auto-mark absences job completed",
		"created", resp.Created,
		"skipped", resp.Skipped,
	)
	return nil
}
