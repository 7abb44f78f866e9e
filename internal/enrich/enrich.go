// Package enrich merges raw per-calendar events with calendar context and
// the user's normalization rules into display-ready records, then flags
// duplicated mutualized sessions. Everything here is a pure function of
// its inputs: the same calendars and rules always produce the same output.
package enrich

import (
	"strings"

	"github.com/rvergnes/edtcal/internal/domain"
	"github.com/rvergnes/edtcal/internal/ics"
)

// PlaceholderTeacher stands in when an event names no teacher, so every
// event carries at least one teacher label downstream.
const PlaceholderTeacher = "—"

// Derive runs the full derivation: enrichment over all calendars in
// order, then duplicate flagging.
func Derive(calendars []*domain.Calendar, rules domain.Rules) []domain.EnrichedEvent {
	events := Enrich(calendars, rules)
	FlagDuplicates(events)
	return events
}

// Enrich produces one EnrichedEvent per (calendar, event) pair, in
// calendar order then event order. Ordering is insertion order, not
// chronological.
func Enrich(calendars []*domain.Calendar, rules domain.Rules) []domain.EnrichedEvent {
	var out []domain.EnrichedEvent
	for _, cal := range calendars {
		for _, ev := range cal.Events {
			out = append(out, enrichOne(cal, ev, rules))
		}
	}
	return out
}

func enrichOne(cal *domain.Calendar, ev domain.NormalizedEvent, rules domain.Rules) domain.EnrichedEvent {
	e := domain.EnrichedEvent{NormalizedEvent: ev}

	e.StartAt = ics.ParseDateTime(ev.StartISO)
	e.EndAt = ics.ParseDateTime(ev.EndISO)
	e.Hours = effectiveHours(ev, e)

	teachers := ev.Teachers
	if len(teachers) == 0 {
		teachers = []string{PlaceholderTeacher}
	}
	e.Teachers = rules.Teachers.ApplyList(teachers)
	e.Promos = rules.Promos.ApplyList(ev.Promos)
	e.Subject = rules.Subjects.Apply(ev.Subject)

	e.Color = cal.Color
	e.StatsIncluded = cal.IncludeInStats
	e.CalendarName = cal.Name
	e.CalendarID = cal.ID
	e.Visible = cal.Visible

	e.ExtractedTeacher = strings.Join(e.Teachers, ", ")
	e.Promo = strings.Join(e.Promos, ", ")

	return e
}

// effectiveHours prefers the parser-supplied duration, falls back to the
// parsed interval, and defaults to 0 when neither is usable.
func effectiveHours(ev domain.NormalizedEvent, e domain.EnrichedEvent) float64 {
	if ev.DurationHours > 0 {
		return ev.DurationHours
	}
	if e.StartAt != nil && e.EndAt != nil && e.EndAt.After(*e.StartAt) {
		return e.EndAt.Sub(*e.StartAt).Hours()
	}
	return 0
}
