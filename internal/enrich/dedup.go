package enrich

import (
	"strings"

	"github.com/rvergnes/edtcal/internal/domain"
)

// FlagDuplicates marks repeated mutualized sessions in place. Events from
// calendars excluded from stats are never flagged. Among stats-included
// events sharing a fingerprint, the first in pipeline order stays
// unflagged and every later occurrence is marked duplicate, so hour
// totals count each physical session once while listings still show
// every row. The scratch set is local to one call; repeated calls are
// independent.
func FlagDuplicates(events []domain.EnrichedEvent) {
	seen := make(map[string]bool, len(events))
	for i := range events {
		e := &events[i]
		if !e.StatsIncluded {
			e.Duplicate = false
			continue
		}
		fp := Fingerprint(e)
		if seen[fp] {
			e.Duplicate = true
			continue
		}
		seen[fp] = true
		e.Duplicate = false
	}
}

// Fingerprint identifies one physical session for stats purposes. Two
// events with the same slot, subject, type and teacher are the same
// session delivered to several calendars. Location is deliberately not
// part of the key.
func Fingerprint(e *domain.EnrichedEvent) string {
	return strings.Join([]string{
		e.StartISO,
		e.EndISO,
		e.Subject,
		e.Type,
		e.ExtractedTeacher,
	}, "|")
}
