package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/cmlabs-hris/attendance-tracker-go/internal/config"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/absence"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/pkg/identity"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/repository/postgresql"
	absenceService "github.com/cmlabs-hris/attendance-tracker-go/internal/service/absence"
	attendanceService "github.com/cmlabs-hris/attendance-tracker-go/internal/service/attendance"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/service/scope"
	"github.com/spf13/cobra"
)

var (
	startDate string
	endDate   string
	userIDs   []string
)

var rootCmd = &cobra.Command{
	Use:   "attendancectl",
	Short: "Operator tooling for the attendance tracker",
	Long: `Operator tooling for the attendance tracker.

Commands connect to the database configured through the same environment
variables (or .env file) as the API server and act with organisation-wide scope.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&startDate, "start", "", "First date of the range (YYYY-MM-DD)")
	rootCmd.PersistentFlags().StringVar(&endDate, "end", "", "Last date of the range (YYYY-MM-DD), defaults to today")
	rootCmd.PersistentFlags().StringSliceVar(&userIDs, "user", nil, "Restrict to these user ids (repeatable or comma separated)")
}

func rangeQuery() attendance.RangeQuery {
	return attendance.RangeQuery{
		StartDate: startDate,
		EndDate:   endDate,
		UserIDs:   userIDs,
	}
}

// services holds the wired application services for a single CLI run.
type services struct {
	db      *database.DB
	absence absence.AbsenceService
	kpi     attendance.KPIService
	report  attendance.ReportService
}

func (s *services) Close() {
	s.db.Close()
}

func openServices(ctx context.Context) (*services, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{MaxConns: 4, MinConns: 1})
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}

	userRepo := postgresql.NewUserRepository(db)
	teamRepo := postgresql.NewTeamRepository(db)
	clockEventRepo := postgresql.NewClockEventRepository(db)
	absenceRepo := postgresql.NewAbsenceRepository(db)

	policy := attendanceService.PolicyFromConfig(cfg.Attendance)
	resolver := scope.NewResolver(userRepo, teamRepo)

	return &services{
		db:      db,
		absence: absenceService.NewAbsenceService(absenceRepo, clockEventRepo, resolver, policy),
		kpi:     attendanceService.NewKPIService(clockEventRepo, resolver, policy),
		report:  attendanceService.NewReportService(clockEventRepo, resolver, policy),
	}, nil
}

// systemContext returns the command context acting as the system identity.
func systemContext(cmd *cobra.Command) context.Context {
	return identity.WithIdentity(cmd.Context(), identity.System)
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
