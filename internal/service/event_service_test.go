package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rvergnes/edtcal/internal/domain"
	"github.com/rvergnes/edtcal/internal/testutil"
)

func seedMutualizedPair(t *testing.T, h *harness) {
	t.Helper()
	ctx := context.Background()

	session := func() domain.NormalizedEvent {
		return testutil.NewTestEvent("Algo",
			testutil.WithType("TD"),
			testutil.WithTeachers("DOE J"),
			testutil.WithTimes("2024-01-15T09:00:00+01:00", "2024-01-15T11:00:00+01:00"))
	}
	a := testutil.NewTestCalendar("L1 Info", testutil.WithEvents(
		session(),
		testutil.NewTestEvent("Réseaux",
			testutil.WithTimes("2024-01-16T14:00:00+01:00", "2024-01-16T16:00:00+01:00")),
	))
	b := testutil.NewTestCalendar("L2 Info", testutil.WithEvents(session()))
	require.NoError(t, h.calendarRepo.Upsert(ctx, a))
	require.NoError(t, h.calendarRepo.Upsert(ctx, b))
}

func TestEventService_EventsAppliesRules(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	seedMutualizedPair(t, h)
	require.NoError(t, h.rules.AddRename(ctx, domain.CategoryTeachers, "DOE J", "Jane Doe"))

	events, err := h.events.Events(ctx, domain.FilterState{Source: domain.ScopeAll})

	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, "Jane Doe", events[0].ExtractedTeacher)
}

func TestEventService_DuplicateFlagging(t *testing.T) {
	h := newHarness(t)
	seedMutualizedPair(t, h)

	events, err := h.events.Events(context.Background(), domain.FilterState{Source: domain.ScopeAll})

	require.NoError(t, err)
	require.Len(t, events, 3)
	var dups int
	for _, e := range events {
		if e.Duplicate {
			dups++
		}
	}
	assert.Equal(t, 1, dups, "the mutualized session is flagged exactly once")
}

func TestEventService_DateFilter(t *testing.T) {
	h := newHarness(t)
	seedMutualizedPair(t, h)

	events, err := h.events.Events(context.Background(), domain.FilterState{
		Source:    domain.ScopeAll,
		DateStart: "2024-01-16",
		DateEnd:   "2024-01-16",
	})

	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Réseaux", events[0].Subject)
}

func TestEventService_StatsCountEachSessionOnce(t *testing.T) {
	h := newHarness(t)
	seedMutualizedPair(t, h)

	stats, err := h.events.Stats(context.Background(), domain.FilterState{})

	require.NoError(t, err)
	require.Len(t, stats.Rows, 2)

	assert.Equal(t, "Algo", stats.Rows[0].Subject)
	assert.Equal(t, "TD", stats.Rows[0].Type)
	assert.Equal(t, 1, stats.Rows[0].Sessions)
	assert.Equal(t, 2.0, stats.Rows[0].Hours)

	assert.Equal(t, "Réseaux", stats.Rows[1].Subject)
	assert.Equal(t, 1, stats.Rows[1].Sessions)

	assert.Equal(t, 4.0, stats.TotalHours)
}

func TestEventService_StatsIgnoreExcludedCalendars(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	cal := testutil.NewTestCalendar("Perso",
		testutil.WithIncludeInStats(false),
		testutil.WithEvents(testutil.NewTestEvent("Sport")))
	require.NoError(t, h.calendarRepo.Upsert(ctx, cal))

	stats, err := h.events.Stats(ctx, domain.FilterState{})

	require.NoError(t, err)
	assert.Empty(t, stats.Rows)
	assert.Zero(t, stats.TotalHours)
}

func TestEventService_MainScope(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	seedMutualizedPair(t, h)

	calendars, err := h.calendarRepo.List(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, calendars)
	require.NoError(t, h.calendars.SetMain(ctx, calendars[0].ID))

	events, err := h.events.Events(ctx, domain.FilterState{Source: domain.ScopeMain})

	require.NoError(t, err)
	require.Len(t, events, 2)
	for _, e := range events {
		assert.Equal(t, calendars[0].ID, e.CalendarID)
	}
}

func TestEventService_OrdinalsAlignWithEvents(t *testing.T) {
	h := newHarness(t)
	seedMutualizedPair(t, h)

	events, err := h.events.Events(context.Background(), domain.FilterState{Source: domain.ScopeAll})
	require.NoError(t, err)

	ordinals := h.events.Ordinals(events)

	require.Len(t, ordinals, len(events))
	for i, o := range ordinals {
		require.NotNil(t, o, "event %d (%s)", i, events[i].Subject)
	}
}
