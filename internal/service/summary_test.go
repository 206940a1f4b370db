package service

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeovahfialho/portfolio/internal/domain"
)

func day(y int, m time.Month, d int) domain.Date {
	return domain.NewDate(y, m, d)
}

func bar(close, high, low float64) domain.DailyRecord {
	return domain.DailyRecord{
		Open:             close,
		High:             high,
		Low:              low,
		Close:            close,
		AdjustedClose:    close,
		SplitCoefficient: 1,
	}
}

func TestLatestClose(t *testing.T) {
	series := domain.TimeSeries{
		day(2024, time.January, 2):  bar(10, 11, 9),
		day(2024, time.January, 10): bar(30, 31, 29),
		day(2024, time.January, 5):  bar(20, 21, 19),
	}

	price, err := LatestClose(series)
	require.NoError(t, err)
	assert.Equal(t, 30.0, price)
}

func TestLatestClose_Empty(t *testing.T) {
	_, err := LatestClose(domain.TimeSeries{})
	assert.True(t, errors.Is(err, domain.ErrEmptyResult))

	_, err = LatestClose(nil)
	assert.True(t, errors.Is(err, domain.ErrEmptyResult))
}

func TestSummarize_AllTimeScenario(t *testing.T) {
	series := domain.TimeSeries{
		day(2024, time.January, 1):  bar(100, 110, 90),
		day(2024, time.January, 10): bar(120, 125, 95),
	}

	got, err := Summarize(series, domain.AllTime, day(2026, time.October, 19))
	require.NoError(t, err)
	assert.Equal(t, domain.EquitySummary{
		LatestPrice:   120,
		EarliestPrice: 100,
		MaxPrice:      125,
		MinPrice:      90,
	}, got)
}

func TestFilterPeriod_Boundaries(t *testing.T) {
	today := day(2024, time.March, 31)

	tests := []struct {
		name   string
		period domain.TimePeriod
		date   domain.Date
		kept   bool
	}{
		{"month today", domain.Month, today, true},
		{"month 30 days back", domain.Month, today.AddDays(-30), true},
		{"month 31 days back", domain.Month, today.AddDays(-31), false},
		{"year 365 days back", domain.Year, today.AddDays(-365), true},
		{"year 366 days back", domain.Year, today.AddDays(-366), false},
		{"all time far back", domain.AllTime, day(1999, time.November, 1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			series := domain.TimeSeries{tt.date: bar(1, 1, 1)}
			filtered := FilterPeriod(series, tt.period, today)
			_, ok := filtered[tt.date]
			assert.Equal(t, tt.kept, ok)
		})
	}
}

func TestFilterPeriod_RetentionRule(t *testing.T) {
	today := day(2024, time.June, 15)
	series := domain.TimeSeries{}
	for i := 0; i < 400; i++ {
		series[today.AddDays(-i)] = bar(float64(i), float64(i)+1, float64(i)-1)
	}

	for _, period := range []domain.TimePeriod{domain.Month, domain.Year} {
		window, _ := period.Window()
		filtered := FilterPeriod(series, period, today)

		for date := range series {
			_, kept := filtered[date]
			inWindow := !date.AddDays(window).Before(today)
			assert.Equal(t, inWindow, kept, "period %s date %s", period, date)
		}
	}

	assert.Len(t, FilterPeriod(series, domain.AllTime, today), len(series))
}

func TestSummarize_Month(t *testing.T) {
	today := day(2024, time.March, 31)
	series := domain.TimeSeries{
		today.AddDays(-31): bar(50, 500, 1),
		today.AddDays(-30): bar(60, 65, 55),
		today.AddDays(-10): bar(70, 80, 58),
		today.AddDays(-1):  bar(75, 76, 70),
	}

	got, err := Summarize(series, domain.Month, today)
	require.NoError(t, err)
	assert.Equal(t, 75.0, got.LatestPrice)
	assert.Equal(t, 60.0, got.EarliestPrice)
	assert.Equal(t, 80.0, got.MaxPrice)
	assert.Equal(t, 55.0, got.MinPrice)
}

func TestSummarize_BoundsHold(t *testing.T) {
	today := day(2024, time.June, 15)
	series := domain.TimeSeries{}
	for i := 0; i < 120; i++ {
		c := 100 + math.Sin(float64(i))*20
		series[today.AddDays(-i*3)] = bar(c, c+float64(i%7), c-float64(i%5))
	}

	filtered := FilterPeriod(series, domain.Year, today)
	got, err := Summarize(series, domain.Year, today)
	require.NoError(t, err)

	latest, earliest := today.AddDays(-1000), today
	for date, rec := range filtered {
		assert.LessOrEqual(t, got.MinPrice, rec.Low)
		assert.GreaterOrEqual(t, got.MaxPrice, rec.High)
		if date.After(latest) {
			latest = date
		}
		if date.Before(earliest) {
			earliest = date
		}
	}
	assert.Equal(t, filtered[latest].Close, got.LatestPrice)
	assert.Equal(t, filtered[earliest].Close, got.EarliestPrice)

	again, err := Summarize(series, domain.Year, today)
	require.NoError(t, err)
	assert.Equal(t, got, again)
}

func TestSummarize_EmptyAfterFilter(t *testing.T) {
	today := day(2024, time.March, 31)
	series := domain.TimeSeries{
		today.AddDays(-40): bar(10, 11, 9),
	}

	got, err := Summarize(series, domain.Month, today)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrEmptyResult))
	assert.Equal(t, domain.EquitySummary{}, got)

	_, err = Summarize(domain.TimeSeries{}, domain.AllTime, today)
	assert.True(t, errors.Is(err, domain.ErrEmptyResult))
}

func TestSummarize_NaNIsNonOrderable(t *testing.T) {
	today := day(2024, time.March, 31)

	tests := []struct {
		name   string
		series domain.TimeSeries
	}{
		{
			name: "nan high",
			series: domain.TimeSeries{
				today.AddDays(-2): bar(10, 11, 9),
				today.AddDays(-1): bar(10, math.NaN(), 9),
			},
		},
		{
			name: "nan low",
			series: domain.TimeSeries{
				today.AddDays(-2): bar(10, 11, math.NaN()),
				today.AddDays(-1): bar(10, 11, 9),
			},
		},
		{
			name: "single nan high",
			series: domain.TimeSeries{
				today: bar(10, math.NaN(), 9),
			},
		},
		{
			name: "nan latest close",
			series: domain.TimeSeries{
				today: bar(math.NaN(), 11, 9),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Summarize(tt.series, domain.AllTime, today)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrNonOrderable), "got %v", err)
		})
	}
}

func TestCompareFloat(t *testing.T) {
	c, err := compareFloat(2, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, c)

	c, err = compareFloat(1, 2)
	require.NoError(t, err)
	assert.Equal(t, -1, c)

	c, err = compareFloat(1, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, c)

	_, err = compareFloat(math.NaN(), 1)
	assert.True(t, errors.Is(err, domain.ErrNonOrderable))
}
