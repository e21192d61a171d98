package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/pkg/identity"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/pkg/sse"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/pkg/workday"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/service/scope"
)

// EventPunch is the stream event name for newly recorded clock events.
const EventPunch = "punch"

type AttendanceServiceImpl struct {
	attendance.ClockEventRepository
	scope  *scope.Resolver
	hub    *sse.Hub
	policy Policy
	now    func() time.Time
}

// NewAttendanceService wires the punch service. hub may be nil, in which
// case punches are not streamed.
func NewAttendanceService(clockEventRepo attendance.ClockEventRepository, resolver *scope.Resolver, hub *sse.Hub, policy Policy) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		ClockEventRepository: clockEventRepo,
		scope:                resolver,
		hub:                  hub,
		policy:               policy,
		now:                  time.Now,
	}
}

// Punch implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Punch(ctx context.Context, req attendance.PunchRequest) (attendance.ClockEventResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.ClockEventResponse{}, err
	}

	id, err := identity.FromContext(ctx)
	if err != nil {
		return attendance.ClockEventResponse{}, err
	}

	status := attendance.EventStatus(req.Status)
	var created attendance.ClockEvent

	// Last-status check and insert run under the per-user lock.
	err = s.ClockEventRepository.WithUserLock(ctx, id.UserID, func(txCtx context.Context) error {
		last, err := s.ClockEventRepository.GetLastByUser(txCtx, id.UserID)
		if err != nil {
			return fmt.Errorf("failed to get last clock event: %w", err)
		}
		if last != nil && last.Status == status {
			metrics.DuplicatePunchesTotal.WithLabelValues(string(status)).Inc()
			return attendance.DuplicatePunchError(status)
		}

		created, err = s.ClockEventRepository.Create(txCtx, attendance.ClockEvent{
			UserID:    id.UserID,
			Timestamp: s.now().UTC(),
			Status:    status,
		})
		if err != nil {
			return fmt.Errorf("failed to create clock event: %w", err)
		}
		return nil
	})
	if err != nil {
		return attendance.ClockEventResponse{}, err
	}

	metrics.PunchesTotal.WithLabelValues(string(status)).Inc()
	slog.Info("clock event recorded", "user_id", id.UserID, "status", status, "event_id", created.ID)

	resp := attendance.NewClockEventResponse(created, s.policy.Location)
	if s.hub != nil {
		s.hub.Publish(sse.Event{UserID: id.UserID, Event: EventPunch, Data: resp})
	}
	return resp, nil
}

// Subscribe implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Subscribe(ctx context.Context) (<-chan sse.Event, func(), error) {
	if s.hub == nil {
		return nil, nil, fmt.Errorf("punch stream is not enabled")
	}

	id, err := identity.FromContext(ctx)
	if err != nil {
		return nil, nil, err
	}

	pop, err := s.scope.Resolve(ctx, id, nil)
	if err != nil {
		return nil, nil, err
	}

	events, cleanup := s.hub.Subscribe(pop.UserIDs)
	metrics.StreamSubscribers.Inc()
	slog.Debug("punch stream opened", "user_id", id.UserID, "watched", pop.Size())

	return events, func() {
		cleanup()
		metrics.StreamSubscribers.Dec()
	}, nil
}

// GetMyDays implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetMyDays(ctx context.Context, query attendance.RangeQuery) (attendance.MyDaysResponse, error) {
	if err := query.Validate(); err != nil {
		return attendance.MyDaysResponse{}, err
	}

	id, err := identity.FromContext(ctx)
	if err != nil {
		return attendance.MyDaysResponse{}, err
	}

	rng, err := s.policy.ResolveRange(query.StartDate, query.EndDate, s.now())
	if err != nil {
		return attendance.MyDaysResponse{}, err
	}

	events, err := s.ClockEventRepository.ListByUsersAndRange(ctx, []string{id.UserID}, rng.From(), rng.To())
	if err != nil {
		return attendance.MyDaysResponse{}, fmt.Errorf("failed to list clock events: %w", err)
	}

	days := BuildDailyReports(events, nil, s.policy.Location)
	resp := attendance.MyDaysResponse{
		StartDate: workday.Key(rng.Start),
		EndDate:   workday.Key(rng.End),
		Days:      make([]attendance.DaySummaryResponse, 0, len(days)),
	}
	for _, d := range days {
		resp.Days = append(resp.Days, attendance.NewDaySummaryResponse(d, s.policy.Location))
	}
	return resp, nil
}
