package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/attendance-tracker-go/internal/config"
	appHTTP "github.com/cmlabs-hris/attendance-tracker-go/internal/handler/http"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/pkg/cron"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/pkg/sse"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/repository/postgresql"
	absenceService "github.com/cmlabs-hris/attendance-tracker-go/internal/service/absence"
	attendanceService "github.com/cmlabs-hris/attendance-tracker-go/internal/service/attendance"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/service/scope"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.SlogLevel(),
	})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		return fmt.Errorf("error connecting to database: %w", err)
	}
	defer db.Close()

	userRepo := postgresql.NewUserRepository(db)
	teamRepo := postgresql.NewTeamRepository(db)
	clockEventRepo := postgresql.NewClockEventRepository(db)
	absenceRepo := postgresql.NewAbsenceRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	policy := attendanceService.PolicyFromConfig(cfg.Attendance)
	resolver := scope.NewResolver(userRepo, teamRepo)

	attendanceSvc := attendanceService.NewAttendanceService(clockEventRepo, resolver, sse.NewHub(), policy)
	reportSvc := attendanceService.NewReportService(clockEventRepo, resolver, policy)
	kpiSvc := attendanceService.NewKPIService(clockEventRepo, resolver, policy)
	absenceSvc := absenceService.NewAbsenceService(absenceRepo, clockEventRepo, resolver, policy)

	router := appHTTP.NewRouter(
		cfg.App,
		JWTService,
		appHTTP.NewAttendanceHandler(attendanceSvc),
		appHTTP.NewReportHandler(reportSvc, absenceSvc),
		appHTTP.NewKPIHandler(kpiSvc),
		appHTTP.NewAbsenceHandler(absenceSvc),
		appHTTP.NewHealthHandler(db.Health),
	)

	// Scheduled jobs
	var scheduler *cron.Scheduler
	if cfg.Scheduler.Enabled {
		scheduler = cron.NewScheduler(policy.Location, 10*time.Minute)
		attendanceJobs := cron.NewAttendanceJobs(absenceSvc, policy.Location, cfg.Scheduler.LookbackDays)
		if err := attendanceJobs.RegisterJobs(scheduler, cfg.Scheduler.AutoMarkSchedule); err != nil {
			return err
		}
		scheduler.Start()
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Server running", "addr", server.Addr, "env", cfg.App.Env, "timezone", cfg.Attendance.Timezone)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		slog.Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if scheduler != nil {
		scheduler.Stop()
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("Server stopped")
	return nil
}
