package service

import (
	"fmt"
	"math"

	"github.com/jeovahfialho/portfolio/internal/domain"
)

// LatestClose returns the close of the most recent trading day in series.
func LatestClose(series domain.TimeSeries) (float64, error) {
	date, ok := latestDate(series)
	if !ok {
		return 0, fmt.Errorf("%w: série vazia", domain.ErrEmptyResult)
	}

	price := series[date].Close
	if math.IsNaN(price) {
		return 0, fmt.Errorf("%w: fechamento de %s", domain.ErrNonOrderable, date)
	}

	return price, nil
}

// FilterPeriod keeps the entries whose date plus the period window is on or
// after today. AllTime returns every entry.
func FilterPeriod(series domain.TimeSeries, period domain.TimePeriod, today domain.Date) domain.TimeSeries {
	window, bounded := period.Window()

	filtered := make(domain.TimeSeries, len(series))
	for date, record := range series {
		if bounded && date.AddDays(window).Before(today) {
			continue
		}
		filtered[date] = record
	}

	return filtered
}

// Summarize filters series by period, anchored at today, and reduces what is
// left. It is a pure function of its arguments.
func Summarize(series domain.TimeSeries, period domain.TimePeriod, today domain.Date) (domain.EquitySummary, error) {
	filtered := FilterPeriod(series, period, today)

	latest, ok := latestDate(filtered)
	if !ok {
		return domain.EquitySummary{}, fmt.Errorf("%w: nenhum pregão no período %s até %s", domain.ErrEmptyResult, period, today)
	}
	earliest, _ := earliestDate(filtered)

	maxHigh, err := reduce(filtered, "high", func(r domain.DailyRecord) float64 { return r.High }, 1)
	if err != nil {
		return domain.EquitySummary{}, err
	}

	minLow, err := reduce(filtered, "low", func(r domain.DailyRecord) float64 { return r.Low }, -1)
	if err != nil {
		return domain.EquitySummary{}, err
	}

	summary := domain.EquitySummary{
		LatestPrice:   filtered[latest].Close,
		EarliestPrice: filtered[earliest].Close,
		MaxPrice:      maxHigh,
		MinPrice:      minLow,
	}

	if math.IsNaN(summary.LatestPrice) {
		return domain.EquitySummary{}, fmt.Errorf("%w: fechamento de %s", domain.ErrNonOrderable, latest)
	}
	if math.IsNaN(summary.EarliestPrice) {
		return domain.EquitySummary{}, fmt.Errorf("%w: fechamento de %s", domain.ErrNonOrderable, earliest)
	}

	return summary, nil
}

func latestDate(series domain.TimeSeries) (domain.Date, bool) {
	var best domain.Date
	found := false
	for date := range series {
		if !found || date.After(best) {
			best = date
			found = true
		}
	}
	return best, found
}

func earliestDate(series domain.TimeSeries) (domain.Date, bool) {
	var best domain.Date
	found := false
	for date := range series {
		if !found || date.Before(best) {
			best = date
			found = true
		}
	}
	return best, found
}

// reduce returns the extreme of value over series: the maximum when sign is
// 1, the minimum when sign is -1. A NaN anywhere aborts with ErrNonOrderable.
func reduce(series domain.TimeSeries, field string, value func(domain.DailyRecord) float64, sign int) (float64, error) {
	var best float64
	found := false

	for date, record := range series {
		v := value(record)
		if !found {
			if math.IsNaN(v) {
				return 0, fmt.Errorf("%w: %s de %s", domain.ErrNonOrderable, field, date)
			}
			best = v
			found = true
			continue
		}

		c, err := compareFloat(v, best)
		if err != nil {
			return 0, fmt.Errorf("%w: %s de %s", err, field, date)
		}
		if c == sign {
			best = v
		}
	}

	if !found {
		return 0, fmt.Errorf("%w: nenhum valor de %s", domain.ErrEmptyResult, field)
	}

	return best, nil
}

// compareFloat orders a and b, failing instead of guessing when either is NaN.
func compareFloat(a, b float64) (int, error) {
	switch {
	case a > b:
		return 1, nil
	case a < b:
		return -1, nil
	case a == b:
		return 0, nil
	default:
		return 0, domain.ErrNonOrderable
	}
}
