package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-01-10")
	require.NoError(t, err)
	assert.Equal(t, NewDate(2024, time.January, 10), d)
	assert.Equal(t, "2024-01-10", d.String())

	_, err = ParseDate("10/01/2024")
	assert.Error(t, err)
}

func TestDate_AddDaysCrossesMonthAndYear(t *testing.T) {
	d := NewDate(2023, time.December, 31)
	assert.Equal(t, NewDate(2024, time.January, 30), d.AddDays(30))
	assert.Equal(t, NewDate(2023, time.December, 1), d.AddDays(-30))
	assert.Equal(t, NewDate(2024, time.March, 1), NewDate(2024, time.February, 28).AddDays(2))
}

func TestDate_Ordering(t *testing.T) {
	a := NewDate(2024, time.January, 1)
	b := NewDate(2024, time.January, 2)

	assert.True(t, a.Before(b))
	assert.False(t, b.Before(a))
	assert.True(t, b.After(a))
	assert.False(t, a.Before(a))
}

func TestDateOf_UsesLocalCalendarDay(t *testing.T) {
	loc := time.FixedZone("UTC-3", -3*60*60)
	ts := time.Date(2024, time.March, 1, 23, 30, 0, 0, loc)

	assert.Equal(t, NewDate(2024, time.March, 1), DateOf(ts))
	assert.Equal(t, NewDate(2024, time.March, 2), DateOf(ts.UTC()))
}

func TestDate_TextRoundTripAsMapKey(t *testing.T) {
	var d Date
	require.NoError(t, d.UnmarshalText([]byte("2024-05-30")))

	series := TimeSeries{NewDate(2024, time.May, 30): {Close: 1}}
	_, ok := series[d]
	assert.True(t, ok)
}
