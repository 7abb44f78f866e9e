package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Empty(t, cfg.ProxyBase)
	assert.Empty(t, cfg.PlanningHost)
	assert.Equal(t, time.Hour, cfg.ManualCooldown)
	assert.Equal(t, 24*time.Hour, cfg.AutoRefreshInterval)
	assert.Equal(t, "@hourly", cfg.AutoScanSchedule)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
}

func TestLoad_ReadsEnvironment(t *testing.T) {
	t.Setenv("EDTCAL_PROXY_BASE", "https://proxy.example/relay")
	t.Setenv("EDTCAL_PLANNING_HOST", "planning.univ.example")
	t.Setenv("EDTCAL_PLANNING_PATH_PREFIX", "/jsp")
	t.Setenv("EDTCAL_MANUAL_COOLDOWN_MIN", "30")
	t.Setenv("EDTCAL_AUTO_REFRESH_HOURS", "6")
	t.Setenv("EDTCAL_AUTO_SCAN_SCHEDULE", "@every 30m")
	t.Setenv("EDTCAL_HTTP_TIMEOUT_MS", "5000")

	cfg := Load()

	assert.Equal(t, "https://proxy.example/relay", cfg.ProxyBase)
	assert.Equal(t, "planning.univ.example", cfg.PlanningHost)
	assert.Equal(t, "/jsp", cfg.PlanningPathPrefix)
	assert.Equal(t, 30*time.Minute, cfg.ManualCooldown)
	assert.Equal(t, 6*time.Hour, cfg.AutoRefreshInterval)
	assert.Equal(t, "@every 30m", cfg.AutoScanSchedule)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
}

func TestLoad_IgnoresInvalidNumbers(t *testing.T) {
	t.Setenv("EDTCAL_MANUAL_COOLDOWN_MIN", "soon")
	t.Setenv("EDTCAL_AUTO_REFRESH_HOURS", "-2")

	cfg := Load()

	assert.Equal(t, time.Hour, cfg.ManualCooldown)
	assert.Equal(t, 24*time.Hour, cfg.AutoRefreshInterval)
}
