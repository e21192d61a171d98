package http

import (
	"io"
	"net/http"

	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/handler/http/response"
)

type KPIHandler interface {
	Get(w http.ResponseWriter, r *http.Request)
	Export(w http.ResponseWriter, r *http.Request)
}

type kpiHandlerImpl struct {
	kpiService attendance.KPIService
}

func NewKPIHandler(kpiService attendance.KPIService) KPIHandler {
	return &kpiHandlerImpl{
		kpiService: kpiService,
	}
}

// Get handles GET /kpis
func (h *kpiHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	result, err := h.kpiService.GetKPIs(r.Context(), parseRangeQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Export handles GET /kpis/export
func (h *kpiHandlerImpl) Export(w http.ResponseWriter, r *http.Request) {
	query := parseRangeQuery(r)
	filename := exportFilename("kpi-report", query, "pdf")

	response.Attachment(w, contentTypePDF, filename, func(out io.Writer) error {
		return h.kpiService.ExportKPIs(r.Context(), query, out)
	})
}
