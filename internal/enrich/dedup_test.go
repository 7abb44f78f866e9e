package enrich

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rvergnes/edtcal/internal/domain"
	"github.com/rvergnes/edtcal/internal/testutil"
)

func mutualizedSession() domain.NormalizedEvent {
	return testutil.NewTestEvent("Algo",
		testutil.WithType("TD"),
		testutil.WithTeachers("Jane Doe"),
		testutil.WithTimes("2024-01-15T09:00:00+01:00", "2024-01-15T11:00:00+01:00"),
	)
}

func TestFlagDuplicates_FirstSeenWins(t *testing.T) {
	a := testutil.NewTestCalendar("A", testutil.WithEvents(mutualizedSession()))
	b := testutil.NewTestCalendar("B", testutil.WithEvents(mutualizedSession()))

	events := Derive([]*domain.Calendar{a, b}, domain.NewRules())

	require.Len(t, events, 2)
	assert.False(t, events[0].Duplicate)
	assert.True(t, events[1].Duplicate)
}

func TestFlagDuplicates_StatsExcludedNeverFlagged(t *testing.T) {
	a := testutil.NewTestCalendar("A",
		testutil.WithIncludeInStats(false),
		testutil.WithEvents(mutualizedSession()))
	b := testutil.NewTestCalendar("B", testutil.WithEvents(mutualizedSession()))
	c := testutil.NewTestCalendar("C", testutil.WithEvents(mutualizedSession()))

	events := Derive([]*domain.Calendar{a, b, c}, domain.NewRules())

	require.Len(t, events, 3)
	// The excluded calendar's copy neither gets flagged nor claims the
	// fingerprint for the others.
	assert.False(t, events[0].Duplicate)
	assert.False(t, events[1].Duplicate)
	assert.True(t, events[2].Duplicate)
}

func TestFlagDuplicates_DifferentLocationStillDuplicate(t *testing.T) {
	a := testutil.NewTestCalendar("A", testutil.WithEvents(
		testutil.NewTestEvent("Algo", testutil.WithType("TD"), testutil.WithLocation("B101")),
	))
	b := testutil.NewTestCalendar("B", testutil.WithEvents(
		testutil.NewTestEvent("Algo", testutil.WithType("TD"), testutil.WithLocation("C202")),
	))

	events := Derive([]*domain.Calendar{a, b}, domain.NewRules())

	require.Len(t, events, 2)
	assert.True(t, events[1].Duplicate)
}

func TestFlagDuplicates_DifferentTeacherNotDuplicate(t *testing.T) {
	a := testutil.NewTestCalendar("A", testutil.WithEvents(
		testutil.NewTestEvent("Algo", testutil.WithTeachers("Jane Doe")),
	))
	b := testutil.NewTestCalendar("B", testutil.WithEvents(
		testutil.NewTestEvent("Algo", testutil.WithTeachers("Bob Smith")),
	))

	events := Derive([]*domain.Calendar{a, b}, domain.NewRules())

	require.Len(t, events, 2)
	assert.False(t, events[0].Duplicate)
	assert.False(t, events[1].Duplicate)
}

func TestFlagDuplicates_RenameMergesFingerprints(t *testing.T) {
	// Two raw teacher spellings that the rules map to the same person
	// must collapse into one fingerprint.
	rules := domain.NewRules().WithRename(domain.CategoryTeachers, "DOE J", "Jane Doe")

	a := testutil.NewTestCalendar("A", testutil.WithEvents(
		testutil.NewTestEvent("Algo", testutil.WithTeachers("DOE J")),
	))
	b := testutil.NewTestCalendar("B", testutil.WithEvents(
		testutil.NewTestEvent("Algo", testutil.WithTeachers("Jane Doe")),
	))

	events := Derive([]*domain.Calendar{a, b}, rules)

	require.Len(t, events, 2)
	assert.False(t, events[0].Duplicate)
	assert.True(t, events[1].Duplicate)
}

func TestFlagDuplicates_RepeatedCallsAreIndependent(t *testing.T) {
	a := testutil.NewTestCalendar("A", testutil.WithEvents(mutualizedSession()))
	b := testutil.NewTestCalendar("B", testutil.WithEvents(mutualizedSession()))

	events := Enrich([]*domain.Calendar{a, b}, domain.NewRules())
	FlagDuplicates(events)
	FlagDuplicates(events)

	assert.False(t, events[0].Duplicate)
	assert.True(t, events[1].Duplicate)
}
