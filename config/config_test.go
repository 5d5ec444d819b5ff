package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tribolab/sampling-cadence/analysis"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, ":memory:", cfg.Database.Path)
	assert.Equal(t, analysis.DefaultFromYear, cfg.Analysis.WindowFromYear)

	policy, err := cfg.Policy()
	require.NoError(t, err)
	assert.Equal(t, analysis.StatMedian, policy.Statistic)
	assert.Equal(t, analysis.UnitMonths, policy.Unit)
	assert.Equal(t, []time.Weekday{time.Saturday, time.Sunday}, policy.Weekend)
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	// GIVEN a config file changing the port, the unit and the weekend
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
server:
  port: 9090
database:
  path: data/samples.db
analysis:
  unit: weeks
  weekend_days: [friday, saturday]
  fallback_interval_days: 60
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	// WHEN loading
	cfg, err := Load(path)
	require.NoError(t, err)

	// THEN file values win over defaults
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "data/samples.db", cfg.Database.Path)

	policy, err := cfg.Policy()
	require.NoError(t, err)
	assert.Equal(t, analysis.UnitWeeks, policy.Unit)
	assert.Equal(t, []time.Weekday{time.Friday, time.Saturday}, policy.Weekend)
	assert.Equal(t, 60, policy.FallbackIntervalDays)

	// AND untouched settings keep their defaults
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 9090\n"), 0o644))

	t.Setenv("SAMPLING_SERVER_PORT", "7070")
	t.Setenv("SAMPLING_DATABASE_PATH", "env.db")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "env.db", cfg.Database.Path)
}

func TestLoad_IgnoresAmbientShellVariables(t *testing.T) {
	// GIVEN common unprefixed host variables ($PATH is always set; PaaS
	// hosts also inject PORT and friends)
	t.Setenv("PATH", "/usr/local/bin:/usr/bin:/bin")
	t.Setenv("PORT", "3000")
	t.Setenv("UNIT", "weeks")
	t.Setenv("LEVEL", "debug")

	// WHEN loading without any SAMPLING_* overrides
	cfg, err := Load("")
	require.NoError(t, err)

	// THEN only the prefixed names bind: nothing leaks in from the shell
	assert.Equal(t, ":memory:", cfg.Database.Path)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "months", cfg.Analysis.Unit)
	assert.Equal(t, "info", cfg.Logging.Level)

	// AND a YAML database path survives the same environment
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("database:\n  path: data/samples.db\n"), 0o644))
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, "data/samples.db", cfg.Database.Path)
}

func TestLoad_RejectsInvalidSettings(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad port", "server:\n  port: -1\n"},
		{"bad unit", "analysis:\n  unit: fortnights\n"},
		{"bad statistic", "analysis:\n  statistic: mode\n"},
		{"bad weekend day", "analysis:\n  weekend_days: [caturday]\n"},
		{"negative fallback", "analysis:\n  fallback_interval_days: -5\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tc.body), 0o644))

			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}
