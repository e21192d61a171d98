package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/absence"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/pkg/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAbsenceService struct {
	absence.AbsenceService
	calls    []attendance.RangeQuery
	callerID identity.Identity
	err      error
}

func (f *fakeAbsenceService) AutoMark(ctx context.Context, query attendance.RangeQuery) (absence.AutoMarkResponse, error) {
	f.calls = append(f.calls, query)
	f.callerID, _ = identity.FromContext(ctx)
	if f.err != nil {
		return absence.AutoMarkResponse{}, f.err
	}
	return absence.AutoMarkResponse{StartDate: query.StartDate, EndDate: query.EndDate, Created: 3}, nil
}

func TestAttendanceJobs_AutoMarkAbsences_LookbackWindow(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*3600)
	svc := &fakeAbsenceService{}
	jobs := NewAttendanceJobs(svc, jakarta, 7)
	// 2024-01-15 01:00 in Jakarta, still the 14th in UTC
	jobs.now = func() time.Time { return time.Date(2024, 1, 14, 18, 0, 0, 0, time.UTC) }

	require.NoError(t, jobs.AutoMarkAbsences(context.Background()))

	require.Len(t, svc.calls, 1)
	assert.Equal(t, "2024-01-08", svc.calls[0].StartDate)
	assert.Equal(t, "2024-01-14", svc.calls[0].EndDate)
	assert.Empty(t, svc.calls[0].UserIDs)
	assert.Equal(t, identity.System, svc.callerID)
}

func TestAttendanceJobs_AutoMarkAbsences_EmptyPopulation(t *testing.T) {
	svc := &fakeAbsenceService{err: attendance.ErrEmptyPopulation}
	jobs := NewAttendanceJobs(svc, time.UTC, 7)

	assert.NoError(t, jobs.AutoMarkAbsences(context.Background()))
}

func TestAttendanceJobs_AutoMarkAbsences_Failure(t *testing.T) {
	boom := errors.New("database unavailable")
	svc := &fakeAbsenceService{err: boom}
	jobs := NewAttendanceJobs(svc, time.UTC, 7)

	assert.ErrorIs(t, jobs.AutoMarkAbsences(context.Background()), boom)
}

func TestScheduler_AddJob_InvalidSpec(t *testing.T) {
	s := NewScheduler(time.UTC, time.Minute)

	err := s.AddJob("broken", "every day at noon", func(ctx context.Context) error { return nil })
	assert.Error(t, err)
	assert.Empty(t, s.jobs)
}

func TestScheduler_RunOnce(t *testing.T) {
	s := NewScheduler(time.UTC, time.Minute)
	svc := &fakeAbsenceService{}
	jobs := NewAttendanceJobs(svc, time.UTC, 3)

	require.NoError(t, jobs.RegisterJobs(s, "15 0 * * *"))

	var deadline bool
	require.NoError(t, s.AddJob("probe", "@hourly", func(ctx context.Context) error {
		_, deadline = ctx.Deadline()
		return nil
	}))

	require.NoError(t, s.RunOnce(context.Background()))
	assert.Len(t, svc.calls, 1)
	assert.True(t, deadline)
}

func TestScheduler_RunOnce_ReturnsFirstError(t *testing.T) {
	s := NewScheduler(time.UTC, 0)
	boom := errors.New("boom")

	ran := 0
	require.NoError(t, s.AddJob("fails", "@daily", func(ctx context.Context) error { ran++; return boom }))
	require.NoError(t, s.AddJob("succeeds", "@daily", func(ctx context.Context) error { ran++; return nil }))

	assert.ErrorIs(t, s.RunOnce(context.Background()), boom)
	assert.Equal(t, 2, ran)
}

func TestScheduler_StartStop(t *testing.T) {
	s := NewScheduler(time.UTC, time.Minute)
	require.NoError(t, s.AddJob("noop", "@daily", func(ctx context.Context) error { return nil }))

	s.Start()
	s.Stop()
	assert.Error(t, s.ctx.Err())
}
