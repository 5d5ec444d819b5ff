/*
Package config loads server and analysis configuration.

PURPOSE:
  One place that decides what the server listens on, where the SQLite
  file lives, and which analysis policy (statistic, frequency unit,
  weekend days, fallback interval) applies by default to every run.

PRECEDENCE (lowest to highest):
  1. Compiled-in defaults (Default)
  2. YAML config file, when one is given
  3. Environment variables with the SAMPLING_ prefix
     (e.g. SAMPLING_SERVER_PORT, SAMPLING_DATABASE_PATH)

The env layer deliberately carries no struct defaults: envconfig only
touches fields whose variables are actually set, so the YAML layer is
never clobbered by a default. Env keys are derived from the field names
only - no alternative names - because envconfig treats a tag value as an
UNPREFIXED fallback key, and a field bound to a bare "PATH" or "PORT"
would silently read the ambient shell variables.

SEE ALSO:
  - analysis/policy.go: the runtime policy these settings translate into
  - cmd/server/main.go: the only caller of Load
*/
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"github.com/tribolab/sampling-cadence/analysis"
)

// Config is the full server configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Analysis AnalysisConfig `yaml:"analysis"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig contains the HTTP server settings.
type ServerConfig struct {
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout" split_words:"true"`
	WriteTimeout    time.Duration `yaml:"write_timeout" split_words:"true"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" split_words:"true"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" split_words:"true"`
	AllowedOrigins  []string      `yaml:"allowed_origins" split_words:"true"`
}

// DatabaseConfig locates the SQLite database.
type DatabaseConfig struct {
	// Path is the SQLite file path; ":memory:" keeps everything in RAM.
	// Bound to SAMPLING_DATABASE_PATH and nothing shorter.
	Path string `yaml:"path"`
}

// AnalysisConfig holds the default analysis policy. Individual analysis
// requests may override the frequency unit and run date, nothing else.
type AnalysisConfig struct {
	Statistic            string   `yaml:"statistic"`
	Unit                 string   `yaml:"unit"`
	WindowFromYear       int      `yaml:"window_from_year" split_words:"true"`
	FallbackIntervalDays int      `yaml:"fallback_interval_days" split_words:"true"`
	MinIntervalDays      int      `yaml:"min_interval_days" split_words:"true"`
	WeekendDays          []string `yaml:"weekend_days" split_words:"true"`
}

// LoggingConfig controls the slog handler.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the compiled-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			AllowedOrigins:  []string{"*"},
		},
		Database: DatabaseConfig{Path: ":memory:"},
		Analysis: AnalysisConfig{
			Statistic:       "median",
			Unit:            string(analysis.UnitMonths),
			WindowFromYear:  analysis.DefaultFromYear,
			MinIntervalDays: 1,
			WeekendDays:     []string{"saturday", "sunday"},
		},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}
}

// Load builds the configuration from defaults, an optional YAML file,
// and SAMPLING_* environment variables, then validates the result.
func Load(configFile string) (Config, error) {
	cfg := Default()

	if configFile != "" {
		data, err := os.ReadFile(configFile)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := envconfig.Process("SAMPLING", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database path must not be empty")
	}
	if _, err := c.Policy(); err != nil {
		return err
	}
	return nil
}

// Policy translates the analysis settings into a runtime policy.
func (c Config) Policy() (analysis.Policy, error) {
	policy := analysis.DefaultPolicy()

	switch strings.ToLower(c.Analysis.Statistic) {
	case "", "median":
		policy.Statistic = analysis.StatMedian
	case "mean":
		policy.Statistic = analysis.StatMean
	default:
		return analysis.Policy{}, fmt.Errorf("unknown statistic %q (want median or mean)", c.Analysis.Statistic)
	}

	unit := analysis.FrequencyUnit(strings.ToLower(c.Analysis.Unit))
	if !unit.Valid() {
		return analysis.Policy{}, fmt.Errorf("unknown frequency unit %q (want weeks or months)", c.Analysis.Unit)
	}
	policy.Unit = unit

	if c.Analysis.FallbackIntervalDays < 0 {
		return analysis.Policy{}, fmt.Errorf("fallback interval days must not be negative")
	}
	policy.FallbackIntervalDays = c.Analysis.FallbackIntervalDays

	if c.Analysis.MinIntervalDays > 0 {
		policy.MinIntervalDays = c.Analysis.MinIntervalDays
	}

	weekend, err := parseWeekdays(c.Analysis.WeekendDays)
	if err != nil {
		return analysis.Policy{}, err
	}
	policy.Weekend = weekend

	return policy, nil
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

func parseWeekdays(names []string) ([]time.Weekday, error) {
	days := make([]time.Weekday, 0, len(names))
	for _, name := range names {
		day, ok := weekdayNames[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return nil, fmt.Errorf("unknown weekend day %q", name)
		}
		days = append(days, day)
	}
	return days, nil
}

// SlogLevel maps the configured level name onto a slog.Level.
func (c LoggingConfig) SlogLevel() slog.Level {
	switch strings.ToLower(c.Level) {
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
