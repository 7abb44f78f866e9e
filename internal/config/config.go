package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all tunables for the sync layer. Everything is read from
// EDTCAL_* environment variables with defaults, so the binary runs with
// zero configuration.
type Config struct {
	// ProxyBase is the CORS/relay proxy used for the institutional
	// planning host. Empty means no proxy is configured; fetching a
	// planning URL then fails with a configuration error before any
	// network call.
	ProxyBase string

	// PlanningHost and PlanningPathPrefix designate the institutional
	// planning system whose URLs must be rewritten through the proxy.
	// Empty PlanningHost disables rewriting entirely.
	PlanningHost       string
	PlanningPathPrefix string

	// ManualCooldown is the minimum delay between two manual refreshes
	// of the same calendar.
	ManualCooldown time.Duration

	// AutoRefreshInterval is how stale a remote calendar may get before
	// the periodic scan refreshes it.
	AutoRefreshInterval time.Duration

	// AutoScanSchedule is the cron expression driving the periodic
	// due-calendar scan.
	AutoScanSchedule string

	// HTTPTimeout bounds a single ICS fetch.
	HTTPTimeout time.Duration
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		ProxyBase:           "",
		PlanningHost:        "",
		PlanningPathPrefix:  "/",
		ManualCooldown:      time.Hour,
		AutoRefreshInterval: 24 * time.Hour,
		AutoScanSchedule:    "@hourly",
		HTTPTimeout:         30 * time.Second,
	}
}

// Load reads configuration from environment variables, falling back to
// defaults for any unset value.
func Load() Config {
	cfg := Default()

	if v := os.Getenv("EDTCAL_PROXY_BASE"); v != "" {
		cfg.ProxyBase = v
	}
	if v := os.Getenv("EDTCAL_PLANNING_HOST"); v != "" {
		cfg.PlanningHost = v
	}
	if v := os.Getenv("EDTCAL_PLANNING_PATH_PREFIX"); v != "" {
		cfg.PlanningPathPrefix = v
	}
	if v := os.Getenv("EDTCAL_MANUAL_COOLDOWN_MIN"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.ManualCooldown = time.Duration(n) * time.Minute
		}
	}
	if v := os.Getenv("EDTCAL_AUTO_REFRESH_HOURS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.AutoRefreshInterval = time.Duration(n) * time.Hour
		}
	}
	if v := os.Getenv("EDTCAL_AUTO_SCAN_SCHEDULE"); v != "" {
		cfg.AutoScanSchedule = v
	}
	if v := os.Getenv("EDTCAL_HTTP_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.HTTPTimeout = time.Duration(n) * time.Millisecond
		}
	}

	return cfg
}
