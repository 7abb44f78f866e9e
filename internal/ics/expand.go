package ics

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/rvergnes/edtcal/internal/domain"
)

// maxOccurrencesPerEvent caps recurrence expansion so a malformed RRULE
// cannot blow up a refresh.
const maxOccurrencesPerEvent = 400

// expandHorizon bounds how far past DTSTART occurrences are generated.
const expandHorizon = 365 * 24 * time.Hour

// expandRecurring turns one recurring event into concrete per-occurrence
// events. Every occurrence keeps the base UID and duration; start/end are
// shifted to the occurrence instant.
func expandRecurring(base domain.NormalizedEvent, start time.Time, end *time.Time, rawRRule string) ([]domain.NormalizedEvent, error) {
	r, err := rrule.StrToRRule(rawRRule)
	if err != nil {
		return nil, fmt.Errorf("event %s: invalid RRULE %q: %w", base.UID, rawRRule, err)
	}
	r.DTStart(start)

	var duration time.Duration
	if end != nil && end.After(start) {
		duration = end.Sub(start)
	}

	occurrences := r.Between(start, start.Add(expandHorizon), true)
	if len(occurrences) > maxOccurrencesPerEvent {
		occurrences = occurrences[:maxOccurrencesPerEvent]
	}
	if len(occurrences) == 0 {
		return []domain.NormalizedEvent{base}, nil
	}

	out := make([]domain.NormalizedEvent, 0, len(occurrences))
	for _, occStart := range occurrences {
		ev := base
		ev.StartISO = occStart.Format(time.RFC3339)
		if duration > 0 {
			ev.EndISO = occStart.Add(duration).Format(time.RFC3339)
		}
		out = append(out, ev)
	}
	return out, nil
}
