// Package filter narrows an enriched event list by source scope, date
// range, time-of-day window and weekday. Stages only ever intersect: an
// event survives when it passes every configured stage.
package filter

import (
	"strconv"
	"strings"
	"time"

	"github.com/rvergnes/edtcal/internal/domain"
)

// Apply runs the full pipeline using the scope carried by the filter
// state itself.
func Apply(events []domain.EnrichedEvent, state domain.FilterState, mainCalendarID string) []domain.EnrichedEvent {
	return ApplyWithScope(events, state, mainCalendarID, state.Source)
}

// ApplyWithScope runs the pipeline with an explicit source scope, letting
// call sites override stage 1 only (a courses view always wants "all"
// regardless of the shared filter state). Stages 2-4 always come from
// state.
func ApplyWithScope(events []domain.EnrichedEvent, state domain.FilterState, mainCalendarID string, scope domain.SourceScope) []domain.EnrichedEvent {
	out := make([]domain.EnrichedEvent, 0, len(events))
	for _, e := range events {
		if !matchScope(&e, scope, mainCalendarID) {
			continue
		}
		if !matchDateRange(&e, state.DateStart, state.DateEnd) {
			continue
		}
		if !matchTimeWindow(&e, state.StartTime, state.EndTime) {
			continue
		}
		if !matchDays(&e, state.Days) {
			continue
		}
		out = append(out, e)
	}
	return out
}

func matchScope(e *domain.EnrichedEvent, scope domain.SourceScope, mainCalendarID string) bool {
	switch scope {
	case domain.ScopeService:
		return e.StatsIncluded
	case domain.ScopeMain:
		return mainCalendarID != "" && e.CalendarID == mainCalendarID
	case domain.ScopeVisible:
		return e.Visible
	default:
		return true
	}
}

// matchDateRange compares the event's local YYYY-MM-DD date key against
// the bounds, both inclusive. Once either bound is set, events without a
// parseable start are excluded.
func matchDateRange(e *domain.EnrichedEvent, dateStart, dateEnd string) bool {
	if dateStart == "" && dateEnd == "" {
		return true
	}
	key := e.LocalDateKey()
	if key == "" {
		return false
	}
	if dateStart != "" && key < dateStart {
		return false
	}
	if dateEnd != "" && key > dateEnd {
		return false
	}
	return true
}

// matchTimeWindow is an overlap test, not containment: the event's local
// start/end time-of-day interval must intersect [startTime, endTime]. A
// single bound acts as an open-ended threshold. Bounds are parsed to
// minutes since midnight, so "9:00" and "09:00" mean the same thing; a
// malformed bound is treated as unset. Events missing either parsed
// instant are excluded once any bound is set.
func matchTimeWindow(e *domain.EnrichedEvent, startTime, endTime string) bool {
	start, hasStart := parseMinutes(startTime)
	end, hasEnd := parseMinutes(endTime)
	if !hasStart && !hasEnd {
		return true
	}
	if e.StartAt == nil || e.EndAt == nil {
		return false
	}
	evStart := minutesOfDay(e.StartAt.Local())
	evEnd := minutesOfDay(e.EndAt.Local())

	if hasStart && evEnd < start {
		return false
	}
	if hasEnd && evStart > end {
		return false
	}
	return true
}

// parseMinutes converts an H:MM or HH:MM string to minutes since
// midnight.
func parseMinutes(v string) (int, bool) {
	h, m, ok := strings.Cut(v, ":")
	if !ok {
		return 0, false
	}
	hour, err := strconv.Atoi(h)
	if err != nil || hour < 0 || hour > 23 {
		return 0, false
	}
	minute, err := strconv.Atoi(m)
	if err != nil || minute < 0 || minute > 59 {
		return 0, false
	}
	return hour*60 + minute, true
}

func minutesOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// matchDays checks ISO weekday membership, 1=Monday..7=Sunday. An empty
// allowlist keeps everything.
func matchDays(e *domain.EnrichedEvent, days []int) bool {
	if len(days) == 0 {
		return true
	}
	if e.StartAt == nil {
		return false
	}
	wd := int(e.StartAt.Local().Weekday())
	if wd == 0 {
		wd = 7
	}
	for _, d := range days {
		if d == wd {
			return true
		}
	}
	return false
}
