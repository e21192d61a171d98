package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/absence"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

type AbsenceHandler interface {
	Declare(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
	Potential(w http.ResponseWriter, r *http.Request)
	AutoMark(w http.ResponseWriter, r *http.Request)
}

type absenceHandlerImpl struct {
	absenceService absence.AbsenceService
}

func NewAbsenceHandler(absenceService absence.AbsenceService) AbsenceHandler {
	return &absenceHandlerImpl{
		absenceService: absenceService,
	}
}

// Declare handles POST /absences
func (h *absenceHandlerImpl) Declare(w http.ResponseWriter, r *http.Request) {
	var req absence.DeclareAbsenceRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Declare absence decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.absenceService.Declare(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Absence declared successfully", result)
}

// List handles GET /absences
func (h *absenceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := absence.ListAbsenceFilter{
		StartDate: q.Get("start_date"),
		EndDate:   q.Get("end_date"),
		Status:    q.Get("status"),
	}
	for _, raw := range q["user_ids"] {
		filter.UserIDs = append(filter.UserIDs, validator.SplitList(raw)...)
	}

	result, err := h.absenceService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Approve handles POST /absences/{id}/approve
func (h *absenceHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	req := absence.ReviewAbsenceRequest{ID: chi.URLParam(r, "id")}

	result, err := h.absenceService.Approve(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Absence approved successfully", result)
}

// Reject handles POST /absences/{id}/reject
func (h *absenceHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	req := absence.ReviewAbsenceRequest{ID: chi.URLParam(r, "id")}

	result, err := h.absenceService.Reject(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Absence rejected successfully", result)
}

// Potential handles GET /absences/potential
func (h *absenceHandlerImpl) Potential(w http.ResponseWriter, r *http.Request) {
	result, err := h.absenceService.PotentialAbsences(r.Context(), parseRangeQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// AutoMark handles POST /absences/auto-mark. An empty body reconciles the
// default range for the caller's whole population.
func (h *absenceHandlerImpl) AutoMark(w http.ResponseWriter, r *http.Request) {
	var query attendance.RangeQuery

	if err := json.NewDecoder(r.Body).Decode(&query); err != nil && !errors.Is(err, io.EOF) {
		slog.Error("AutoMark decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.absenceService.AutoMark(r.Context(), query)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Absences reconciled successfully", result)
}
