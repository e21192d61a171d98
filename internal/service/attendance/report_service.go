package attendance

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/pkg/identity"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/pkg/workday"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/service/scope"
	"github.com/prometheus/client_golang/prometheus"
)

type ReportServiceImpl struct {
	attendance.ClockEventRepository
	scope  *scope.Resolver
	policy Policy
	now    func() time.Time
}

func NewReportService(clockEventRepo attendance.ClockEventRepository, resolver *scope.Resolver, policy Policy) attendance.ReportService {
	return &ReportServiceImpl{
		ClockEventRepository: clockEventRepo,
		scope:                resolver,
		policy:               policy,
		now:                  time.Now,
	}
}

type reportInput struct {
	rng    workday.Range
	pop    scope.Population
	events []attendance.ClockEvent
}

func (s *ReportServiceImpl) load(ctx context.Context, query attendance.RangeQuery) (reportInput, error) {
	if err := query.Validate(); err != nil {
		return reportInput{}, err
	}

	id, err := identity.FromContext(ctx)
	if err != nil {
		return reportInput{}, err
	}

	rng, err := s.policy.ResolveRange(query.StartDate, query.EndDate, s.now())
	if err != nil {
		return reportInput{}, err
	}

	pop, err := s.scope.Resolve(ctx, id, query.UserIDs)
	if err != nil {
		return reportInput{}, err
	}

	events, err := s.ClockEventRepository.ListByUsersAndRange(ctx, pop.UserIDs, rng.From(), rng.To())
	if err != nil {
		return reportInput{}, fmt.Errorf("failed to list clock events: %w", err)
	}

	return reportInput{rng: rng, pop: pop, events: events}, nil
}

// DailyReport implements attendance.ReportService.
func (s *ReportServiceImpl) DailyReport(ctx context.Context, query attendance.RangeQuery) (attendance.DailyReportResponse, error) {
	timer := prometheus.NewTimer(metrics.ReportDuration.WithLabelValues("daily"))
	defer timer.ObserveDuration()

	in, err := s.load(ctx, query)
	if err != nil {
		return attendance.DailyReportResponse{}, err
	}

	days := BuildDailyReports(in.events, in.pop.People, s.policy.Location)
	anomalies := Anomalies(days)
	recordAnomalies(anomalies)

	return attendance.DailyReportResponse{
		StartDate:  workday.Key(in.rng.Start),
		EndDate:    workday.Key(in.rng.End),
		Population: in.pop.Size(),
		Days:       s.dailyRows(days, in.pop.People),
		Anomalies:  s.dailyRows(anomalies, in.pop.People),
	}, nil
}

// WeeklyReport implements attendance.ReportService.
func (s *ReportServiceImpl) WeeklyReport(ctx context.Context, query attendance.RangeQuery) (attendance.WeeklyReportResponse, error) {
	timer := prometheus.NewTimer(metrics.ReportDuration.WithLabelValues("weekly"))
	defer timer.ObserveDuration()

	in, err := s.load(ctx, query)
	if err != nil {
		return attendance.WeeklyReportResponse{}, err
	}

	days := BuildDailyReports(in.events, in.pop.People, s.policy.Location)
	anomalies := Anomalies(days)
	recordAnomalies(anomalies)

	weeks := AggregateWeeks(days, in.pop.People)
	rows := make([]attendance.WeeklyReportRow, 0, len(weeks))
	for _, w := range weeks {
		person := in.pop.People[w.UserID]
		row := attendance.WeeklyReportRow{
			UserID:            w.UserID,
			FirstName:         person.FirstName,
			LastName:          person.LastName,
			WeekStart:         workday.Key(w.WeekStart),
			WeekEnd:           workday.Key(w.WeekEnd),
			TotalHours:        w.TotalHours,
			DaysWorked:        w.DaysWorked,
			AverageDailyHours: w.AverageDailyHours,
			Days:              make([]attendance.DaySummaryResponse, 0, len(w.Days)),
		}
		for _, d := range w.Days {
			row.Days = append(row.Days, attendance.NewDaySummaryResponse(d, s.policy.Location))
		}
		rows = append(rows, row)
	}

	return attendance.WeeklyReportResponse{
		StartDate:  workday.Key(in.rng.Start),
		EndDate:    workday.Key(in.rng.End),
		Population: in.pop.Size(),
		Weeks:      rows,
		Anomalies:  s.dailyRows(anomalies, in.pop.People),
	}, nil
}

// ExportWeeklyReport implements attendance.ReportService.
func (s *ReportServiceImpl) ExportWeeklyReport(ctx context.Context, query attendance.RangeQuery, w io.Writer) error {
	report, err := s.WeeklyReport(ctx, query)
	if err != nil {
		return err
	}
	return WriteWeeklyWorkbook(report, w)
}

func (s *ReportServiceImpl) dailyRows(days []attendance.DaySummary, people map[string]user.User) []attendance.DailyReportRow {
	rows := make([]attendance.DailyReportRow, 0, len(days))
	for _, d := range days {
		person := people[d.UserID]
		rows = append(rows, attendance.DailyReportRow{
			DaySummaryResponse: attendance.NewDaySummaryResponse(d, s.policy.Location),
			FirstName:          person.FirstName,
			LastName:           person.LastName,
		})
	}
	return rows
}

func recordAnomalies(days []attendance.DaySummary) {
	for _, d := range days {
		metrics.AnomaliesTotal.WithLabelValues(string(d.Anomaly)).Inc()
	}
}
