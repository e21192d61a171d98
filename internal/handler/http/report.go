package http

import (
	"fmt"
	"io"
	"net/http"

	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/absence"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/handler/http/response"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypePDF  = "application/pdf"
)

type ReportHandler interface {
	Daily(w http.ResponseWriter, r *http.Request)
	Weekly(w http.ResponseWriter, r *http.Request)
	ExportWeekly(w http.ResponseWriter, r *http.Request)
	MissingCheckouts(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService  attendance.ReportService
	absenceService absence.AbsenceService
}

func NewReportHandler(reportService attendance.ReportService, absenceService absence.AbsenceService) ReportHandler {
	return &reportHandlerImpl{
		reportService:  reportService,
		absenceService: absenceService,
	}
}

// Daily handles GET /reports/daily
func (h *reportHandlerImpl) Daily(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.DailyReport(r.Context(), parseRangeQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Weekly handles GET /reports/weekly
func (h *reportHandlerImpl) Weekly(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.WeeklyReport(r.Context(), parseRangeQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ExportWeekly handles GET /reports/weekly/export
func (h *reportHandlerImpl) ExportWeekly(w http.ResponseWriter, r *http.Request) {
	query := parseRangeQuery(r)
	filename := exportFilename("weekly-report", query, "xlsx")

	response.Attachment(w, contentTypeXLSX, filename, func(out io.Writer) error {
		return h.reportService.ExportWeeklyReport(r.Context(), query, out)
	})
}

// MissingCheckouts handles GET /reports/missing-checkouts
func (h *reportHandlerImpl) MissingCheckouts(w http.ResponseWriter, r *http.Request) {
	result, err := h.absenceService.MissingCheckouts(r.Context(), parseRangeQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func exportFilename(prefix string, query attendance.RangeQuery, ext string) string {
	if query.StartDate != "" && query.EndDate != "" {
		return fmt.Sprintf("%s_%s_%s.%s", prefix, query.StartDate, query.EndDate, ext)
	}
	return prefix + "." + ext
}

