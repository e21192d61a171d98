package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/attendance-tracker-go/internal/handler/http/response"
)

type HealthHandler interface {
	Ready(w http.ResponseWriter, r *http.Request)
}

type healthHandlerImpl struct {
	check func(ctx context.Context) error
}

// NewHealthHandler reports readiness using check, usually the database ping.
func NewHealthHandler(check func(ctx context.Context) error) HealthHandler {
	return &healthHandlerImpl{check: check}
}

// Ready handles GET /readyz
func (h *healthHandlerImpl) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.check(ctx); err != nil {
		slog.Error("readiness check failed", "error", err)
		response.ServiceUnavailable(w, "Database unavailable")
		return
	}

	response.Success(w, map[string]string{"status": "ready"})
}
