package filter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rvergnes/edtcal/internal/domain"
)

type eventSpec struct {
	calendarID    string
	statsIncluded bool
	visible       bool
	start, end    time.Time
	noTimes       bool
}

func makeEvent(spec eventSpec) domain.EnrichedEvent {
	e := domain.EnrichedEvent{
		CalendarID:    spec.calendarID,
		StatsIncluded: spec.statsIncluded,
		Visible:       spec.visible,
	}
	if !spec.noTimes {
		start, end := spec.start, spec.end
		e.StartAt = &start
		e.EndAt = &end
	}
	return e
}

func localEvent(day int, startHour, endHour int) domain.EnrichedEvent {
	return makeEvent(eventSpec{
		calendarID:    "cal-1",
		statsIncluded: true,
		visible:       true,
		start:         time.Date(2024, time.January, day, startHour, 0, 0, 0, time.Local),
		end:           time.Date(2024, time.January, day, endHour, 0, 0, 0, time.Local),
	})
}

func TestApply_EmptyStateKeepsEverythingInScope(t *testing.T) {
	events := []domain.EnrichedEvent{localEvent(15, 9, 11), localEvent(16, 14, 16)}

	got := Apply(events, domain.FilterState{Source: domain.ScopeAll}, "")

	assert.Len(t, got, 2)
}

func TestApply_ScopeService(t *testing.T) {
	in := makeEvent(eventSpec{statsIncluded: true, visible: true})
	out := makeEvent(eventSpec{statsIncluded: false, visible: true})

	got := Apply([]domain.EnrichedEvent{in, out}, domain.FilterState{Source: domain.ScopeService}, "")

	require.Len(t, got, 1)
	assert.True(t, got[0].StatsIncluded)
}

func TestApply_ScopeMain(t *testing.T) {
	a := makeEvent(eventSpec{calendarID: "cal-a", visible: true})
	b := makeEvent(eventSpec{calendarID: "cal-b", visible: true})
	state := domain.FilterState{Source: domain.ScopeMain}

	got := Apply([]domain.EnrichedEvent{a, b}, state, "cal-b")
	require.Len(t, got, 1)
	assert.Equal(t, "cal-b", got[0].CalendarID)

	// No main calendar designated: nothing matches.
	assert.Empty(t, Apply([]domain.EnrichedEvent{a, b}, state, ""))
}

func TestApply_ScopeVisible(t *testing.T) {
	shown := makeEvent(eventSpec{visible: true})
	hidden := makeEvent(eventSpec{visible: false})

	got := Apply([]domain.EnrichedEvent{shown, hidden}, domain.FilterState{Source: domain.ScopeVisible}, "")

	require.Len(t, got, 1)
	assert.True(t, got[0].Visible)
}

func TestApplyWithScope_OverridesStateSource(t *testing.T) {
	hidden := makeEvent(eventSpec{visible: false})
	state := domain.FilterState{Source: domain.ScopeVisible}

	got := ApplyWithScope([]domain.EnrichedEvent{hidden}, state, "", domain.ScopeAll)

	assert.Len(t, got, 1)
}

func TestApply_DateRangeInclusive(t *testing.T) {
	events := []domain.EnrichedEvent{
		localEvent(14, 9, 11),
		localEvent(15, 9, 11),
		localEvent(16, 9, 11),
		localEvent(17, 9, 11),
	}
	state := domain.FilterState{
		Source:    domain.ScopeAll,
		DateStart: "2024-01-15",
		DateEnd:   "2024-01-16",
	}

	got := Apply(events, state, "")

	require.Len(t, got, 2)
	assert.Equal(t, "2024-01-15", got[0].LocalDateKey())
	assert.Equal(t, "2024-01-16", got[1].LocalDateKey())
}

func TestApply_DateRangeExcludesUnparseable(t *testing.T) {
	broken := makeEvent(eventSpec{calendarID: "cal-1", visible: true, noTimes: true})
	state := domain.FilterState{Source: domain.ScopeAll, DateStart: "2024-01-01"}

	assert.Empty(t, Apply([]domain.EnrichedEvent{broken}, state, ""))

	// Without bounds the same event passes.
	assert.Len(t, Apply([]domain.EnrichedEvent{broken}, domain.FilterState{Source: domain.ScopeAll}, ""), 1)
}

func TestApply_TimeWindowOverlap(t *testing.T) {
	// 09:00-11:00 event overlaps a 10:00-10:30 window even though it is
	// not contained in it.
	event := localEvent(15, 9, 11)
	state := domain.FilterState{Source: domain.ScopeAll, StartTime: "10:00", EndTime: "10:30"}

	assert.Len(t, Apply([]domain.EnrichedEvent{event}, state, ""), 1)
}

func TestApply_TimeWindowDisjoint(t *testing.T) {
	event := localEvent(15, 9, 11)

	before := domain.FilterState{Source: domain.ScopeAll, StartTime: "11:30", EndTime: "12:00"}
	after := domain.FilterState{Source: domain.ScopeAll, StartTime: "07:00", EndTime: "08:30"}

	assert.Empty(t, Apply([]domain.EnrichedEvent{event}, before, ""))
	assert.Empty(t, Apply([]domain.EnrichedEvent{event}, after, ""))
}

func TestApply_TimeWindowSingleBound(t *testing.T) {
	morning := localEvent(15, 9, 11)
	afternoon := localEvent(15, 14, 16)

	onlyAfter := domain.FilterState{Source: domain.ScopeAll, StartTime: "12:00"}
	got := Apply([]domain.EnrichedEvent{morning, afternoon}, onlyAfter, "")
	require.Len(t, got, 1)
	assert.Equal(t, 14, got[0].StartAt.Local().Hour())

	onlyBefore := domain.FilterState{Source: domain.ScopeAll, EndTime: "12:00"}
	got = Apply([]domain.EnrichedEvent{morning, afternoon}, onlyBefore, "")
	require.Len(t, got, 1)
	assert.Equal(t, 9, got[0].StartAt.Local().Hour())
}

func TestApply_TimeWindowUnpaddedBounds(t *testing.T) {
	// "9:00" and "09:00" must select the same events; the comparison is
	// on minutes, not on the raw strings.
	event := localEvent(15, 9, 11)

	padded := domain.FilterState{Source: domain.ScopeAll, StartTime: "09:00"}
	unpadded := domain.FilterState{Source: domain.ScopeAll, StartTime: "9:00"}

	assert.Len(t, Apply([]domain.EnrichedEvent{event}, padded, ""), 1)
	assert.Len(t, Apply([]domain.EnrichedEvent{event}, unpadded, ""), 1)

	cutoff := domain.FilterState{Source: domain.ScopeAll, EndTime: "8:30"}
	assert.Empty(t, Apply([]domain.EnrichedEvent{event}, cutoff, ""))
}

func TestApply_TimeWindowMalformedBoundIgnored(t *testing.T) {
	event := localEvent(15, 9, 11)
	state := domain.FilterState{Source: domain.ScopeAll, StartTime: "noon"}

	assert.Len(t, Apply([]domain.EnrichedEvent{event}, state, ""), 1)
}

func TestApply_Days(t *testing.T) {
	monday := localEvent(15, 9, 11)   // 2024-01-15 is a Monday
	sunday := localEvent(21, 9, 11)   // 2024-01-21 is a Sunday
	thursday := localEvent(18, 9, 11) // 2024-01-18 is a Thursday
	events := []domain.EnrichedEvent{monday, sunday, thursday}

	got := Apply(events, domain.FilterState{Source: domain.ScopeAll, Days: []int{1, 7}}, "")
	require.Len(t, got, 2)
	assert.Equal(t, time.Monday, got[0].StartAt.Local().Weekday())
	assert.Equal(t, time.Sunday, got[1].StartAt.Local().Weekday())
}

func TestApply_StagesIntersect(t *testing.T) {
	match := localEvent(15, 9, 11)
	wrongDay := localEvent(16, 9, 11)
	wrongHour := localEvent(15, 14, 16)
	hidden := makeEvent(eventSpec{
		visible: false,
		start:   time.Date(2024, time.January, 15, 9, 0, 0, 0, time.Local),
		end:     time.Date(2024, time.January, 15, 11, 0, 0, 0, time.Local),
	})
	state := domain.FilterState{
		Source:    domain.ScopeVisible,
		DateStart: "2024-01-15",
		DateEnd:   "2024-01-15",
		StartTime: "08:00",
		EndTime:   "12:00",
		Days:      []int{1},
	}

	got := Apply([]domain.EnrichedEvent{match, wrongDay, wrongHour, hidden}, state, "")

	require.Len(t, got, 1)
	assert.Equal(t, "2024-01-15", got[0].LocalDateKey())
	assert.Equal(t, 9, got[0].StartAt.Local().Hour())
}
