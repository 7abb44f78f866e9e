package sync

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	gosync "sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rvergnes/edtcal/internal/config"
	"github.com/rvergnes/edtcal/internal/domain"
	"github.com/rvergnes/edtcal/internal/ics"
	"github.com/rvergnes/edtcal/internal/repository"
)

// maxConcurrentRefreshes bounds the due-scan fan-out.
const maxConcurrentRefreshes = 4

// Coordinator drives remote calendar synchronization: manual and
// automatic refreshes, the per-calendar in-flight guard, the manual
// cooldown, and recording of sync outcomes on the calendar's remote
// state. Refresh failures are recorded, not returned: background callers
// have nobody to hand an error to.
type Coordinator struct {
	cfg       config.Config
	calendars repository.CalendarRepo
	parser    *Parser
	client    *http.Client
	logger    *slog.Logger
	now       func() time.Time

	mu       gosync.Mutex
	inFlight map[string]bool
}

// NewCoordinator creates a Coordinator. parser may be shared with other
// consumers; the coordinator does not close it.
func NewCoordinator(cfg config.Config, calendars repository.CalendarRepo, parser *Parser, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{
		cfg:       cfg,
		calendars: calendars,
		parser:    parser,
		client:    &http.Client{Timeout: cfg.HTTPTimeout},
		logger:    logger,
		now:       time.Now,
		inFlight:  make(map[string]bool),
	}
}

// TimeRemaining returns how much of the cooldown window is left after
// lastEvent at the given instant. Zero or negative means elapsed; a nil
// lastEvent never blocks.
func TimeRemaining(lastEvent *time.Time, cooldown time.Duration, now time.Time) time.Duration {
	if lastEvent == nil {
		return 0
	}
	return cooldown - now.Sub(*lastEvent)
}

// Refresh re-fetches one remote calendar. Skips silently when the
// calendar has no remote source, a refresh is already in flight, or a
// manual refresh lands inside the cooldown window; a skip is a no-op,
// never an error. Fetch and parse failures are recorded on the
// calendar's remote state, not returned; the returned error covers
// only storage-level failures.
func (c *Coordinator) Refresh(ctx context.Context, calendarID string, manual bool) error {
	cal, err := c.calendars.Get(ctx, calendarID)
	if err != nil {
		return err
	}
	if cal.Remote == nil {
		return nil
	}

	if !c.acquire(calendarID) {
		return nil
	}
	defer c.release(calendarID)

	now := c.now()
	if manual && TimeRemaining(cal.Remote.LastManualRefreshAt, c.cfg.ManualCooldown, now) > 0 {
		return nil
	}

	// Mark the attempt before fetching so cooldown and staleness state
	// survive a crash mid-refresh.
	cal = cal.Clone()
	cal.Remote.LastAttemptAt = &now
	if manual {
		cal.Remote.LastManualRefreshAt = &now
	}
	if err := c.calendars.Upsert(ctx, cal); err != nil {
		return fmt.Errorf("marking refresh attempt: %w", err)
	}

	res, err := c.FetchAndParse(ctx, cal.Remote.SourceURL)
	if err != nil {
		c.logger.Warn("refresh failed", "calendar", calendarID, "error", err)
		return c.recordFailure(ctx, calendarID, err)
	}

	done := c.now()
	cal = cal.Clone()
	cal.Remote.LastSyncedAt = &done
	cal.Remote.LastAttemptAt = &done
	cal.Remote.LastError = ""
	cal.Remote.LastWarning = warningSummary(res.Diagnostics)
	cal.Events = res.Events
	if err := c.calendars.Upsert(ctx, cal); err != nil {
		return fmt.Errorf("storing refreshed calendar: %w", err)
	}

	c.logger.Info("refresh complete", "calendar", calendarID,
		"events", len(res.Events), "parser_errors", res.Diagnostics.ParserErrors)
	return nil
}

// RefreshDue scans all remote calendars and refreshes, concurrently,
// every one whose last attempt is older than the auto-refresh interval.
// A calendar that was never attempted nor synced is always due. Each
// refresh runs to completion on its own: a storage error on one
// calendar does not cancel the others, it only surfaces from Wait.
func (c *Coordinator) RefreshDue(ctx context.Context) error {
	calendars, err := c.calendars.List(ctx)
	if err != nil {
		return err
	}

	now := c.now()
	var g errgroup.Group
	g.SetLimit(maxConcurrentRefreshes)

	for _, cal := range calendars {
		if cal.Remote == nil || !c.isDue(cal.Remote, now) {
			continue
		}
		id := cal.ID
		g.Go(func() error {
			return c.Refresh(ctx, id, false)
		})
	}
	return g.Wait()
}

// FetchAndParse fetches a source URL and parses the body. Unlike
// Refresh, every failure propagates: the import path has a synchronous
// caller awaiting the result.
func (c *Coordinator) FetchAndParse(ctx context.Context, sourceURL string) (*ics.Result, error) {
	fetchURL, err := BuildFetchURL(c.cfg, sourceURL)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fetchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	// Bypass any intermediate cache: a refresh must see the live feed.
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := c.client.Do(req)
	if err != nil {
		if isConnectionError(err) {
			return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
		}
		return nil, fmt.Errorf("fetching feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPStatusError{Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading feed body: %w", err)
	}

	res, err := c.parser.Parse(ctx, string(body))
	if err != nil {
		return nil, err
	}
	if res.Fatal() {
		msg := ErrParseFatal.Error()
		if len(res.Diagnostics.ParserErrorMessages) > 0 {
			msg = res.Diagnostics.ParserErrorMessages[0]
		}
		return nil, fmt.Errorf("%w: %s", ErrParseFatal, msg)
	}
	return res, nil
}

// recordFailure stores the failure on the calendar's remote state,
// leaving the previous event set untouched. Any stale warning is
// cleared: the error supersedes it.
func (c *Coordinator) recordFailure(ctx context.Context, calendarID string, cause error) error {
	cal, err := c.calendars.Get(ctx, calendarID)
	if err != nil {
		return err
	}
	cal = cal.Clone()
	cal.Remote.LastError = failureMessage(cause)
	cal.Remote.LastWarning = ""
	if err := c.calendars.Upsert(ctx, cal); err != nil {
		return fmt.Errorf("recording refresh failure: %w", err)
	}
	return nil
}

func (c *Coordinator) isDue(r *domain.RemoteState, now time.Time) bool {
	last := r.LastAttemptAt
	if last == nil {
		last = r.LastSyncedAt
	}
	if last == nil {
		return true
	}
	return now.Sub(*last) >= c.cfg.AutoRefreshInterval
}

func (c *Coordinator) acquire(calendarID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inFlight[calendarID] {
		return false
	}
	c.inFlight[calendarID] = true
	return true
}

func (c *Coordinator) release(calendarID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.inFlight, calendarID)
}

// failureMessage keeps HTTP status errors terse ("HTTP 503") and passes
// everything else through.
func failureMessage(err error) string {
	var statusErr *HTTPStatusError
	if errors.As(err, &statusErr) {
		return statusErr.Error()
	}
	return err.Error()
}

// warningSummary turns non-fatal diagnostics into a surfaced warning
// string. A clean run returns "", clearing any stale warning.
func warningSummary(d ics.Diagnostics) string {
	if d.ParserErrors == 0 && d.SkippedEventsWithoutUID == 0 {
		return ""
	}
	return fmt.Sprintf("feed imported with %d parser error(s), %d event(s) without UID skipped",
		d.ParserErrors, d.SkippedEventsWithoutUID)
}

// isConnectionError distinguishes connectivity failures from other
// transport errors.
func isConnectionError(err error) bool {
	var netErr *net.OpError
	if errors.As(err, &netErr) {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Timeout() || errors.As(urlErr.Err, &netErr)
	}
	return false
}
