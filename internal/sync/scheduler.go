package sync

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// AutoRefresher runs the periodic due-calendar scan: once eagerly at
// startup, then on the configured cron schedule. The coordinator's
// in-flight guard keeps a scan from racing a manual refresh on the same
// calendar.
type AutoRefresher struct {
	coord    *Coordinator
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewAutoRefresher creates an AutoRefresher with the given cron schedule
// (e.g. "@hourly").
func NewAutoRefresher(coord *Coordinator, schedule string, logger *slog.Logger) *AutoRefresher {
	if logger == nil {
		logger = slog.Default()
	}
	return &AutoRefresher{
		coord:    coord,
		schedule: schedule,
		cron:     cron.New(),
		logger:   logger,
	}
}

// Start registers the scan and starts the ticker. The eager startup scan
// runs in the background so Start returns immediately.
func (a *AutoRefresher) Start(ctx context.Context) error {
	_, err := a.cron.AddFunc(a.schedule, func() {
		a.scan(ctx)
	})
	if err != nil {
		return err
	}

	go a.scan(ctx)
	a.cron.Start()
	return nil
}

// Stop halts the ticker. Refreshes already in flight run to completion.
func (a *AutoRefresher) Stop() {
	a.cron.Stop()
}

func (a *AutoRefresher) scan(ctx context.Context) {
	if err := a.coord.RefreshDue(ctx); err != nil {
		a.logger.Warn("auto-refresh scan failed", "error", err)
	}
}
