package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "config.yaml", `
planner:
  days: 5
  use_calendar: true
calendar:
  closed_dates: ["2026-01-06"]
  close_weekends: true
store:
  backend: sqlite
  path: plans.db
metrics:
  mode: prometheus
  prom_addr: ":9090"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 5, cfg.Planner.Days)
	require.True(t, cfg.Planner.UseCalendar)
	require.Equal(t, 7, cfg.Planner.SearchFactor, "default should fill in")
	require.Equal(t, []string{"2026-01-06"}, cfg.Calendar.ClosedDates)
	require.True(t, cfg.Calendar.CloseWeekends)
	require.Equal(t, "sqlite", cfg.Store.Backend)
	require.Equal(t, "prometheus", cfg.Metrics.Mode)
	require.Equal(t, ":9090", cfg.Metrics.PromAddr)
}

func TestLoadJSONDefaults(t *testing.T) {
	path := writeFile(t, "config.json", `{}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 7, cfg.Planner.Days)
	require.Equal(t, "memory", cfg.Store.Backend)
	require.Equal(t, "nop", cfg.Metrics.Mode)
}

func TestLoadEnvOverride(t *testing.T) {
	path := writeFile(t, "config.yaml", "planner:\n  days: 5\n")
	t.Setenv("LP_PLANNER__DAYS", "9")
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 9, cfg.Planner.Days)
}

func TestLoadRejectsUnsupportedFormat(t *testing.T) {
	path := writeFile(t, "config.toml", "days = 5")
	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadRejectsBadClosedDate(t *testing.T) {
	path := writeFile(t, "config.yaml", "calendar:\n  closed_dates: [\"06/01/2026\"]\n")
	_, err := Load(path)
	require.Error(t, err)
}
