package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-tracker-go/internal/pkg/workday"
	"github.com/joho/godotenv"
)

type Config struct {
	Database   DatabaseConfig
	JWT        JWTConfig
	App        AppConfig
	Attendance AttendanceConfig
	Scheduler  SchedulerConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int32
	MinConns int32
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port         int
	Env          string
	LogLevel     string
	CORSOrigins  []string
	RateLimitRPM int
}

// AttendanceConfig holds the organisation policy used by reports and KPIs.
type AttendanceConfig struct {
	Timezone          string
	Location          *time.Location
	PunctualityCutoff string
	CutoffMinutes     int
	StandardHours     float64
	DefaultRangeDays  int
	MaxRangeDays      int
}

type SchedulerConfig struct {
	Enabled          bool
	AutoMarkSchedule string
	LookbackDays     int
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded, using process environment", "error", err)
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	maxConns, err := strconv.Atoi(getEnv("DB_MAX_CONNS", "25"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
	}
	minConns, err := strconv.Atoi(getEnv("DB_MIN_CONNS", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MIN_CONNS: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "attendance"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		MaxConns: int32(maxConns),
		MinConns: int32(minConns),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}
	rateLimit, err := strconv.Atoi(getEnv("RATE_LIMIT_RPM", "200"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_RPM: %w", err)
	}

	config.App = AppConfig{
		Port:         appPort,
		Env:          getEnv("APP_ENV", "development"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		CORSOrigins:  getEnvSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		RateLimitRPM: rateLimit,
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	// Attendance policy
	config.Attendance, err = loadAttendance()
	if err != nil {
		return nil, err
	}

	// Scheduler
	lookback, err := strconv.Atoi(getEnv("AUTO_MARK_LOOKBACK_DAYS", "7"))
	if err != nil {
		return nil, fmt.Errorf("invalid AUTO_MARK_LOOKBACK_DAYS: %w", err)
	}
	enabled, err := strconv.ParseBool(getEnv("SCHEDULER_ENABLED", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid SCHEDULER_ENABLED: %w", err)
	}
	config.Scheduler = SchedulerConfig{
		Enabled:          enabled,
		AutoMarkSchedule: getEnv("AUTO_MARK_ABSENCE_SCHEDULE", "15 0 * * *"),
		LookbackDays:     lookback,
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

func loadAttendance() (AttendanceConfig, error) {
	tz := getEnv("ORG_TIMEZONE", "UTC")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return AttendanceConfig{}, fmt.Errorf("invalid ORG_TIMEZONE: %w", err)
	}

	cutoff := getEnv("PUNCTUALITY_CUTOFF", "09:30")
	cutoffMinutes, err := workday.ParseClock(cutoff)
	if err != nil {
		return AttendanceConfig{}, fmt.Errorf("invalid PUNCTUALITY_CUTOFF: %w", err)
	}

	stdHours, err := strconv.ParseFloat(getEnv("STANDARD_WORKDAY_HOURS", "8"), 64)
	if err != nil {
		return AttendanceConfig{}, fmt.Errorf("invalid STANDARD_WORKDAY_HOURS: %w", err)
	}

	defaultDays, err := strconv.Atoi(getEnv("ATTENDANCE_DEFAULT_RANGE_DAYS", "30"))
	if err != nil {
		return AttendanceConfig{}, fmt.Errorf("invalid ATTENDANCE_DEFAULT_RANGE_DAYS: %w", err)
	}

	maxDays, err := strconv.Atoi(getEnv("ATTENDANCE_MAX_RANGE_DAYS", "366"))
	if err != nil {
		return AttendanceConfig{}, fmt.Errorf("invalid ATTENDANCE_MAX_RANGE_DAYS: %w", err)
	}

	return AttendanceConfig{
		Timezone:          tz,
		Location:          loc,
		PunctualityCutoff: cutoff,
		CutoffMinutes:     cutoffMinutes,
		StandardHours:     stdHours,
		DefaultRangeDays:  defaultDays,
		MaxRangeDays:      maxDays,
	}, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := time.ParseDuration(c.JWT.AccessExpiration); err != nil {
		return fmt.Errorf("invalid JWT_ACCESS_EXPIRATION_TIME: %w", err)
	}
	if c.Attendance.StandardHours <= 0 || c.Attendance.StandardHours > 24 {
		return fmt.Errorf("STANDARD_WORKDAY_HOURS must be between 0 and 24")
	}
	if c.Attendance.DefaultRangeDays < 1 {
		return fmt.Errorf("ATTENDANCE_DEFAULT_RANGE_DAYS must be positive")
	}
	if c.Attendance.MaxRangeDays < c.Attendance.DefaultRangeDays {
		return fmt.Errorf("ATTENDANCE_MAX_RANGE_DAYS must not be below ATTENDANCE_DEFAULT_RANGE_DAYS")
	}
	if c.Scheduler.LookbackDays < 1 {
		return fmt.Errorf("AUTO_MARK_LOOKBACK_DAYS must be positive")
	}
	if c.Scheduler.LookbackDays > c.Attendance.MaxRangeDays {
		return fmt.Errorf("AUTO_MARK_LOOKBACK_DAYS must not exceed ATTENDANCE_MAX_RANGE_DAYS")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// SlogLevel maps LOG_LEVEL onto a slog level, defaulting to info.
func (a AppConfig) SlogLevel() slog.Level {
	switch strings.ToLower(a.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(env string, fallback []string) []string {
	value := getEnv(env, "")
	if value == "" {
		return fallback
	}
	var result []string
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			result = append(result, v)
		}
	}
	return result
}
