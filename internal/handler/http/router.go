package http

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/cmlabs-hris/attendance-tracker-go/internal/config"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/httprate"
	"github.com/go-chi/jwtauth/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(
	appConfig config.AppConfig,
	JWTService jwt.Service,
	attendanceHandler AttendanceHandler,
	reportHandler ReportHandler,
	kpiHandler KPIHandler,
	absenceHandler AbsenceHandler,
	healthHandler HealthHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(appConfig.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "attendance-tracker"),
		slog.String("version", "v1.0.0"),
		slog.String("env", appConfig.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   appConfig.CORSOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  appConfig.SlogLevel(),
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Get("/readyz", healthHandler.Ready)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		if appConfig.RateLimitRPM > 0 {
			r.Use(httprate.Limit(
				appConfig.RateLimitRPM,
				time.Minute,
				httprate.WithKeyFuncs(httprate.KeyByIP),
				httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
					response.TooManyRequests(w, "Too many requests, slow down")
				}),
			))
		}

		// Requires authentication
		r.Group(func(r chi.Router) {
			// EventSource clients cannot set headers, so the stream accepts ?token=
			r.Use(jwtauth.Verify(JWTService.JWTAuth(), jwtauth.TokenFromHeader, jwtauth.TokenFromCookie, tokenFromQuery))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Route("/attendance", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionAttendancePunch)).Post("/punch", attendanceHandler.Punch)
				r.With(middleware.RequirePermission(user.PermissionAttendanceViewOwn)).Get("/me/days", attendanceHandler.GetMyDays)
				r.With(middleware.RequirePermission(user.PermissionAttendanceViewOwn)).Get("/stream", attendanceHandler.Stream)
			})

			r.Route("/reports", func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionReportsView))
				r.Get("/daily", reportHandler.Daily)
				r.Get("/weekly", reportHandler.Weekly)
				r.Get("/weekly/export", reportHandler.ExportWeekly)
				r.Get("/missing-checkouts", reportHandler.MissingCheckouts)
			})

			r.Route("/kpis", func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionKPIView))
				r.Get("/", kpiHandler.Get)
				r.Get("/export", kpiHandler.Export)
			})

			r.Route("/absences", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionAbsenceDeclare)).Post("/", absenceHandler.Declare)
				r.With(middleware.RequirePermission(user.PermissionAbsenceViewOwn)).Get("/", absenceHandler.List)

				// Manager or admin
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.With(middleware.RequirePermission(user.PermissionReportsView)).Get("/potential", absenceHandler.Potential)
					r.With(middleware.RequirePermission(user.PermissionAbsenceReconcile)).Post("/auto-mark", absenceHandler.AutoMark)
					r.With(middleware.RequirePermission(user.PermissionAbsenceReview)).Post("/{id}/approve", absenceHandler.Approve)
					r.With(middleware.RequirePermission(user.PermissionAbsenceReview)).Post("/{id}/reject", absenceHandler.Reject)
				})
			})
		})
	})
	return r
}

func tokenFromQuery(r *http.Request) string {
	return r.URL.Query().Get("token")
}
