package domain

import "time"

// RawEvent is a calendar event exactly as extracted from an ICS feed,
// before any field derivation. Immutable once produced.
type RawEvent struct {
	UID         string
	Summary     string
	Description string
	Location    string
	Start       string
	End         string
}

// NormalizedEvent is a RawEvent plus the fields the parser derives from
// the summary and description. Treated as read-only by the pipeline.
type NormalizedEvent struct {
	RawEvent

	Subject            string
	Type               string
	StartISO           string
	EndISO             string
	DurationHours      float64
	Teachers           []string
	Promos             []string
	CleanedDescription string
}

// EnrichedEvent is the display-ready record: a NormalizedEvent merged with
// its owning calendar's context and the current normalization rules.
// It is a pure derived view, recomputed whenever calendars or rules change.
type EnrichedEvent struct {
	NormalizedEvent

	// Parsed instants; nil when the ISO string is unparseable.
	StartAt *time.Time
	EndAt   *time.Time

	// Effective duration in hours (parser value, or end-start, or 0).
	Hours float64

	// Calendar context.
	Color         string
	StatsIncluded bool
	CalendarName  string
	CalendarID    string
	Visible       bool

	// Normalized, comma-joined convenience scalars.
	ExtractedTeacher string
	Promo            string

	// Set by the deduplication stage; never true for events from
	// calendars excluded from stats.
	Duplicate bool
}

// LocalDateKey returns the event's start date as YYYY-MM-DD in local time,
// or "" when the start instant is unknown.
func (e *EnrichedEvent) LocalDateKey() string {
	if e.StartAt == nil {
		return ""
	}
	return e.StartAt.Local().Format("2006-01-02")
}
