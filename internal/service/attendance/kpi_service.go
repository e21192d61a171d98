package attendance

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/pkg/identity"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/pkg/workday"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/service/scope"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"
)

type KPIServiceImpl struct {
	attendance.ClockEventRepository
	scope  *scope.Resolver
	policy Policy
	now    func() time.Time
}

func NewKPIService(clockEventRepo attendance.ClockEventRepository, resolver *scope.Resolver, policy Policy) attendance.KPIService {
	return &KPIServiceImpl{
		ClockEventRepository: clockEventRepo,
		scope:                resolver,
		policy:               policy,
		now:                  time.Now,
	}
}

// GetKPIs implements attendance.KPIService.
func (s *KPIServiceImpl) GetKPIs(ctx context.Context, query attendance.RangeQuery) (attendance.KPIResponse, error) {
	timer := prometheus.NewTimer(metrics.ReportDuration.WithLabelValues("kpi"))
	defer timer.ObserveDuration()

	if err := query.Validate(); err != nil {
		return attendance.KPIResponse{}, err
	}

	id, err := identity.FromContext(ctx)
	if err != nil {
		return attendance.KPIResponse{}, err
	}

	now := s.now()
	rng, err := s.policy.ResolveRange(query.StartDate, query.EndDate, now)
	if err != nil {
		return attendance.KPIResponse{}, err
	}

	pop, err := s.scope.Resolve(ctx, id, query.UserIDs)
	if err != nil {
		return attendance.KPIResponse{}, err
	}

	var (
		rangeEvents []attendance.ClockEvent
		todayEvents []attendance.ClockEvent
	)

	g, gCtx := errgroup.WithContext(ctx)

	// 1. Events in the requested range
	g.Go(func() error {
		events, err := s.ClockEventRepository.ListByUsersAndRange(gCtx, pop.UserIDs, rng.From(), rng.To())
		if err != nil {
			return fmt.Errorf("failed to list clock events: %w", err)
		}
		rangeEvents = events
		return nil
	})

	// 2. Events today, for the currently-active count
	g.Go(func() error {
		from, to := TodayWindow(now, s.policy)
		events, err := s.ClockEventRepository.ListByUsersAndRange(gCtx, pop.UserIDs, from, to)
		if err != nil {
			return fmt.Errorf("failed to list today's clock events: %w", err)
		}
		todayEvents = events
		return nil
	})

	if err := g.Wait(); err != nil {
		return attendance.KPIResponse{}, err
	}

	snapshot := ComputeKPIs(KPIInput{
		UserIDs:     pop.UserIDs,
		Range:       rng,
		Events:      rangeEvents,
		TodayEvents: todayEvents,
	}, s.policy)

	return attendance.KPIResponse{
		StartDate:   workday.Key(rng.Start),
		EndDate:     workday.Key(rng.End),
		Population:  pop.Size(),
		KPISnapshot: snapshot,
	}, nil
}

// ExportKPIs implements attendance.KPIService.
func (s *KPIServiceImpl) ExportKPIs(ctx context.Context, query attendance.RangeQuery, w io.Writer) error {
	resp, err := s.GetKPIs(ctx, query)
	if err != nil {
		return err
	}
	return WriteKPIReport(resp, s.now().In(s.policy.Location), w)
}
