package ics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDateTime_CompactLocal(t *testing.T) {
	got := ParseDateTime("20240115T090000")

	require.NotNil(t, got)
	want := time.Date(2024, time.January, 15, 9, 0, 0, 0, time.Local)
	assert.True(t, got.Equal(want), "got %v, want %v", got, want)
}

func TestParseDateTime_CompactUTC(t *testing.T) {
	got := ParseDateTime("20240115T090000Z")

	require.NotNil(t, got)
	want := time.Date(2024, time.January, 15, 9, 0, 0, 0, time.UTC)
	assert.True(t, got.Equal(want), "got %v, want %v", got, want)
}

func TestParseDateTime_DateOnlyDefaultsToMidnight(t *testing.T) {
	got := ParseDateTime("20240115")

	require.NotNil(t, got)
	want := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.Local)
	assert.True(t, got.Equal(want))
}

func TestParseDateTime_AlreadyISO(t *testing.T) {
	got := ParseDateTime("2024-01-15T09:00:00+01:00")

	require.NotNil(t, got)
	want := time.Date(2024, time.January, 15, 9, 0, 0, 0, time.FixedZone("", 3600))
	assert.True(t, got.Equal(want))
}

func TestParseDateTime_SeparatedCompactForm(t *testing.T) {
	// Dashes and colons are stripped before the compact match.
	got := ParseDateTime("20240115T09:00:00Z")

	require.NotNil(t, got)
	want := time.Date(2024, time.January, 15, 9, 0, 0, 0, time.UTC)
	assert.True(t, got.Equal(want))
}

func TestParseDateTime_Unparseable(t *testing.T) {
	assert.Nil(t, ParseDateTime("not a date"))
	assert.Nil(t, ParseDateTime(""))
	assert.Nil(t, ParseDateTime("2024011"))
}
