// Package ordinal numbers recurring session occurrences (CM1, CM2, TD1…)
// deterministically. Numbering depends only on the input set, never on
// its order: events are sorted internally by a total order before
// counters run, and mutualized duplicates share a number through their
// occurrence key.
package ordinal

import (
	"sort"
	"strings"
	"time"

	"github.com/rvergnes/edtcal/internal/domain"
)

// noGroup is the series group key for TD/TP events carrying no promo.
const noGroup = "_sans_groupe"

// Classify maps a free-form type string to a session type by
// case-insensitive substring match, CM before TD before TP. Anything
// else is unordered.
func Classify(typ string) (domain.SessionType, bool) {
	t := strings.ToUpper(typ)
	switch {
	case strings.Contains(t, "CM"):
		return domain.SessionCM, true
	case strings.Contains(t, "TD"):
		return domain.SessionTD, true
	case strings.Contains(t, "TP"):
		return domain.SessionTP, true
	default:
		return "", false
	}
}

// Assign computes the ordinal for every event, aligned with the input
// slice by index. Unclassified events get nil. Shuffling the input
// changes nothing: each event keeps its ordinal (matched by occurrence
// key) because the sort below is total.
func Assign(events []domain.EnrichedEvent) []*domain.SessionOrdinal {
	out := make([]*domain.SessionOrdinal, len(events))

	order := make([]int, len(events))
	for i := range order {
		order[i] = i
	}
	canonicalOrder(events, order)

	// Per-invocation scratch state only; repeated calls are independent.
	counters := make(map[string]int)
	assigned := make(map[string]int) // seriesKey|occurrenceKey -> ordinal

	for _, idx := range order {
		e := &events[idx]
		sessionType, ok := Classify(e.Type)
		if !ok {
			continue
		}

		series := seriesKey(e, sessionType)
		occ := series + "||" + occurrenceKey(e)

		n, seen := assigned[occ]
		if !seen {
			counters[series]++
			n = counters[series]
			assigned[occ] = n
		}
		out[idx] = &domain.SessionOrdinal{Type: sessionType, Ordinal: n}
	}

	return out
}

// canonicalOrder sorts indexes by the deterministic tie-break chain:
// 1. Start instant (unknown first)
// 2. End instant (unknown first)
// 3. Normalized subject
// 4. Normalized type
// 5. Group key
// 6. Teacher key
// 7. UID
func canonicalOrder(events []domain.EnrichedEvent, order []int) {
	sort.SliceStable(order, func(x, y int) bool {
		a, b := &events[order[x]], &events[order[y]]

		if c := compareInstant(a.StartAt, b.StartAt); c != 0 {
			return c < 0
		}
		if c := compareInstant(a.EndAt, b.EndAt); c != 0 {
			return c < 0
		}
		if sa, sb := normalizeKey(a.Subject), normalizeKey(b.Subject); sa != sb {
			return sa < sb
		}
		if ta, tb := normalizeKey(a.Type), normalizeKey(b.Type); ta != tb {
			return ta < tb
		}
		if ga, gb := groupKey(a), groupKey(b); ga != gb {
			return ga < gb
		}
		if ka, kb := teacherKey(a), teacherKey(b); ka != kb {
			return ka < kb
		}
		return a.UID < b.UID
	})
}

// compareInstant orders instants with unknown (nil) first.
func compareInstant(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	case a.Before(*b):
		return -1
	case a.After(*b):
		return 1
	default:
		return 0
	}
}

// seriesKey identifies the recurring slot an event belongs to. Lectures
// number across the whole cohort; TD/TP number per student group, so two
// groups taking "the same" slot count independently.
func seriesKey(e *domain.EnrichedEvent, t domain.SessionType) string {
	key := normalizeKey(e.Subject) + "|" + string(t)
	if t == domain.SessionCM {
		return key
	}
	return key + "|" + groupKey(e)
}

// groupKey is the sorted, deduplicated, normalized union of the event's
// promo tokens.
func groupKey(e *domain.EnrichedEvent) string {
	if len(e.Promos) == 0 {
		return noGroup
	}
	seen := make(map[string]bool, len(e.Promos))
	tokens := make([]string, 0, len(e.Promos))
	for _, p := range e.Promos {
		n := normalizeKey(p)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		tokens = append(tokens, n)
	}
	if len(tokens) == 0 {
		return noGroup
	}
	sort.Strings(tokens)
	return strings.Join(tokens, "+")
}

// occurrenceKey identifies one physical session instance, shared by
// duplicated rows from mutualized calendars.
func occurrenceKey(e *domain.EnrichedEvent) string {
	return strings.Join([]string{
		e.StartISO,
		e.EndISO,
		teacherKey(e),
		normalizeKey(e.Location),
		normalizeKey(e.Summary),
	}, "|")
}

func teacherKey(e *domain.EnrichedEvent) string {
	return normalizeKey(e.ExtractedTeacher)
}

// normalizeKey lowercases and collapses whitespace so cosmetic
// differences never split a series.
func normalizeKey(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
