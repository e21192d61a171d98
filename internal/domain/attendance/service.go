package attendance

import (
	"context"
	"io"

	"github.com/cmlabs-hris/attendance-tracker-go/internal/pkg/sse"
)

// AttendanceService covers an individual's own punches and history
type AttendanceService interface {
	// Punch records a check-in, check-out or absent event for the caller at the current time
	Punch(ctx context.Context, req PunchRequest) (ClockEventResponse, error)

	// GetMyDays returns the caller's day summaries, newest first
	GetMyDays(ctx context.Context, query RangeQuery) (MyDaysResponse, error)

	// Subscribe streams punches of every user in the caller's scope until cleanup is called
	Subscribe(ctx context.Context) (<-chan sse.Event, func(), error)
}

// ReportService builds daily and weekly reports for the caller's population
type ReportService interface {
	DailyReport(ctx context.Context, query RangeQuery) (DailyReportResponse, error)
	WeeklyReport(ctx context.Context, query RangeQuery) (WeeklyReportResponse, error)

	// ExportWeeklyReport writes the weekly report as an XLSX workbook
	ExportWeeklyReport(ctx context.Context, query RangeQuery, w io.Writer) error
}

// KPIService computes the KPI snapshot for the caller's population
type KPIService interface {
	GetKPIs(ctx context.Context, query RangeQuery) (KPIResponse, error)

	// ExportKPIs writes the snapshot as a one page PDF
	ExportKPIs(ctx context.Context, query RangeQuery, w io.Writer) error
}
