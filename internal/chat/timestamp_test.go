package chat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveTimestampMonthFirstBySecondField(t *testing.T) {
	// 31 cannot be a month, so the order must be month/day
	ts, ok := ResolveTimestamp("12/31/23", "10:05:33")
	require.True(t, ok)
	assert.Equal(t, time.Date(2023, time.December, 31, 10, 5, 33, 0, time.UTC), ts)
}

func TestResolveTimestampDayFirstByFirstField(t *testing.T) {
	ts, ok := ResolveTimestamp("31/12/2023", "22:15")
	require.True(t, ok)
	assert.Equal(t, time.Date(2023, time.December, 31, 22, 15, 0, 0, time.UTC), ts)
}

func TestResolveTimestampAmbiguousDefaultsDayFirst(t *testing.T) {
	ts, ok := ResolveTimestamp("01/02/2024", "08:00")
	require.True(t, ok)
	assert.Equal(t, time.February, ts.Month())
	assert.Equal(t, 1, ts.Day())
}

func TestResolveTimestampISODate(t *testing.T) {
	ts, ok := ResolveTimestamp("2024-03-05", "14:30:00")
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, time.March, 5, 14, 30, 0, 0, time.UTC), ts)
}

func TestResolveTimestampTwoDigitYearPivot(t *testing.T) {
	cases := []struct {
		date string
		year int
	}{
		{"1/1/99", 1999},
		{"1/1/51", 1951},
		{"1/1/50", 2050},
		{"1/1/05", 2005},
		{"1/1/23", 2023},
	}
	for _, tc := range cases {
		ts, ok := ResolveTimestamp(tc.date, "12:00")
		require.True(t, ok, tc.date)
		assert.Equal(t, tc.year, ts.Year(), tc.date)
	}
}

func TestResolveTimestampTwelveHourClock(t *testing.T) {
	ts, ok := ResolveTimestamp("1/1/2024", "12:00 AM")
	require.True(t, ok)
	assert.Equal(t, 0, ts.Hour())

	ts, ok = ResolveTimestamp("1/1/2024", "12:30 PM")
	require.True(t, ok)
	assert.Equal(t, 12, ts.Hour())
	assert.Equal(t, 30, ts.Minute())

	ts, ok = ResolveTimestamp("1/1/2024", "1:05 pm")
	require.True(t, ok)
	assert.Equal(t, 13, ts.Hour())
}

func TestResolveTimestampBadClockDegradesToMidnight(t *testing.T) {
	ts, ok := ResolveTimestamp("15/6/2024", "whenever")
	require.True(t, ok)
	assert.Equal(t, 0, ts.Hour())
	assert.Equal(t, 0, ts.Minute())
	assert.Equal(t, 15, ts.Day())
}

func TestResolveTimestampBadDateFails(t *testing.T) {
	_, ok := ResolveTimestamp("banana", "10:00")
	assert.False(t, ok)

	_, ok = ResolveTimestamp("12/31", "10:00")
	assert.False(t, ok)
}
