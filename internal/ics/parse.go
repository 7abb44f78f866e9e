package ics

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/rvergnes/edtcal/internal/domain"
)

// Diagnostics reports what happened during one parse run. Callers decide
// severity from it: a run with errors but zero events is fatal, a run
// with errors and some events is a warning.
type Diagnostics struct {
	CalendarsParsed         int
	ParserErrors            int
	SkippedEventsWithoutUID int
	ParserErrorMessages     []string
}

// Result is the outcome of parsing one ICS payload.
type Result struct {
	Events      []domain.NormalizedEvent
	Diagnostics Diagnostics
}

// Fatal reports whether the run produced nothing usable.
func (r *Result) Fatal() bool {
	return r.Diagnostics.ParserErrors > 0 && len(r.Events) == 0
}

// sessionTypeToken finds a CM/TD/TP marker anywhere in the summary.
var sessionTypeToken = regexp.MustCompile(`(?i)\b(CM|TD|TP)\b`)

// promoLine matches group designators as they appear in university feeds:
// "L1", "M2 INFO", "BUT3", "G2", "GR 1", "... GROUPE A".
var promoLine = regexp.MustCompile(`(?i)^(?:[LM][1-3]\b|BUT[1-3]\b|G\d\b|GR\s?\d\b)|\bGROUPE\b`)

// teacherLine matches "SURNAME Firstname" shaped lines.
var teacherLine = regexp.MustCompile(`^\p{Lu}[\p{Lu}'’.-]+(?:\s+\p{Lu}[\p{Lu}'’.-]+)*\s+\p{Lu}\p{Ll}`)

// exportStamp matches the trailer ADE appends to every description.
var exportStamp = regexp.MustCompile(`(?i)^\(expor`)

// Parse reads one ICS payload and returns normalized events plus
// diagnostics. It never fails outright: structural errors are counted and
// surfaced through Diagnostics so callers can distinguish a fatal run
// (errors, no events) from a degraded one (errors, some events).
func Parse(text string) *Result {
	res := &Result{}

	cal, err := ical.ParseCalendar(strings.NewReader(text))
	if err != nil {
		res.Diagnostics.ParserErrors++
		res.Diagnostics.ParserErrorMessages = append(res.Diagnostics.ParserErrorMessages, err.Error())
		return res
	}
	res.Diagnostics.CalendarsParsed = 1

	for _, ve := range cal.Events() {
		events, err := parseVEvent(ve)
		if err != nil {
			if strings.Contains(err.Error(), "missing UID") {
				res.Diagnostics.SkippedEventsWithoutUID++
				continue
			}
			res.Diagnostics.ParserErrors++
			res.Diagnostics.ParserErrorMessages = append(res.Diagnostics.ParserErrorMessages, err.Error())
			continue
		}
		res.Events = append(res.Events, events...)
	}

	return res
}

// parseVEvent converts one VEVENT into normalized events. Recurring
// events expand into one event per occurrence.
func parseVEvent(ve *ical.VEvent) ([]domain.NormalizedEvent, error) {
	uidProp := ve.GetProperty(ical.ComponentPropertyUniqueId)
	if uidProp == nil || uidProp.Value == "" {
		return nil, fmt.Errorf("missing UID")
	}

	raw := domain.RawEvent{UID: uidProp.Value}
	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		raw.Summary = unescapeText(p.Value)
	}
	if p := ve.GetProperty(ical.ComponentPropertyDescription); p != nil {
		raw.Description = unescapeText(p.Value)
	}
	if p := ve.GetProperty(ical.ComponentPropertyLocation); p != nil {
		raw.Location = unescapeText(p.Value)
	}
	if p := ve.GetProperty(ical.ComponentPropertyDtStart); p != nil {
		raw.Start = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertyDtEnd); p != nil {
		raw.End = p.Value
	}

	start := ParseDateTime(raw.Start)
	end := ParseDateTime(raw.End)
	if start == nil {
		return nil, fmt.Errorf("event %s: unparseable DTSTART %q", raw.UID, raw.Start)
	}

	base := normalize(raw, start, end)

	var rawRRule string
	if p := ve.GetProperty(ical.ComponentPropertyRrule); p != nil {
		rawRRule = p.Value
	}
	if rawRRule == "" {
		return []domain.NormalizedEvent{base}, nil
	}
	return expandRecurring(base, *start, end, rawRRule)
}

// normalize fills the derived fields on top of a RawEvent.
func normalize(raw domain.RawEvent, start, end *time.Time) domain.NormalizedEvent {
	ev := domain.NormalizedEvent{RawEvent: raw}

	ev.StartISO = formatISO(start, raw.Start)
	ev.EndISO = formatISO(end, raw.End)
	if start != nil && end != nil && end.After(*start) {
		ev.DurationHours = end.Sub(*start).Hours()
	}

	if m := sessionTypeToken.FindString(raw.Summary); m != "" {
		ev.Type = strings.ToUpper(m)
	}
	ev.Subject = extractSubject(raw.Summary, ev.Type)

	teachers, promos, cleaned := splitDescription(raw.Description)
	ev.Teachers = teachers
	ev.Promos = promos
	ev.CleanedDescription = cleaned

	return ev
}

// extractSubject strips the session-type marker from the summary and
// falls back to the full summary when nothing remains.
func extractSubject(summary, sessionType string) string {
	s := summary
	if sessionType != "" {
		s = sessionTypeToken.ReplaceAllString(s, "")
	}
	s = strings.Trim(s, " -–:\t")
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return strings.TrimSpace(summary)
	}
	return s
}

// splitDescription classifies description lines into teachers, promos and
// leftover text. Export stamps and blank lines are dropped.
func splitDescription(desc string) (teachers, promos []string, cleaned string) {
	var rest []string
	for _, line := range strings.Split(desc, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || exportStamp.MatchString(line) {
			continue
		}
		switch {
		case promoLine.MatchString(line):
			promos = append(promos, line)
		case teacherLine.MatchString(line):
			teachers = append(teachers, line)
		default:
			rest = append(rest, line)
		}
	}
	return teachers, promos, strings.Join(rest, "\n")
}

// unescapeText undoes ICS text escaping (\n, \, \; \,).
func unescapeText(v string) string {
	r := strings.NewReplacer(`\n`, "\n", `\N`, "\n", `\,`, ",", `\;`, ";", `\\`, `\`)
	return r.Replace(v)
}

func formatISO(t *time.Time, fallback string) string {
	if t == nil {
		return fallback
	}
	return t.Format(time.RFC3339)
}
