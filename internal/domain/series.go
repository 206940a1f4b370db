package domain

import (
	"fmt"
	"strings"
	"time"
)

type DailyRecord struct {
	Open             float64 `json:"open" yaml:"open"`
	High             float64 `json:"high" yaml:"high"`
	Low              float64 `json:"low" yaml:"low"`
	Close            float64 `json:"close" yaml:"close"`
	AdjustedClose    float64 `json:"adjusted_close" yaml:"adjusted_close"`
	Volume           float64 `json:"volume" yaml:"volume"`
	DividendAmount   float64 `json:"dividend_amount" yaml:"dividend_amount"`
	SplitCoefficient float64 `json:"split_coefficient" yaml:"split_coefficient"`
}

// TimeSeries maps a trading day to its record. A missing date means the
// market was closed or no data exists; it is not an error.
type TimeSeries map[Date]DailyRecord

type OutputSize int

const (
	Compact OutputSize = iota
	Full
)

func (s OutputSize) String() string {
	if s == Full {
		return "full"
	}
	return "compact"
}

type TimePeriod int

const (
	Month TimePeriod = iota
	Year
	AllTime
)

func ParseTimePeriod(s string) (TimePeriod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "month":
		return Month, nil
	case "year":
		return Year, nil
	case "all", "all-time", "alltime":
		return AllTime, nil
	default:
		return 0, fmt.Errorf("%w: %q (use month, year ou all)", ErrInvalidPeriod, s)
	}
}

// Window returns the look-back in days and false for AllTime, which has none.
func (p TimePeriod) Window() (int, bool) {
	switch p {
	case Month:
		return 30, true
	case Year:
		return 365, true
	default:
		return 0, false
	}
}

func (p TimePeriod) String() string {
	switch p {
	case Month:
		return "month"
	case Year:
		return "year"
	default:
		return "all"
	}
}

type EquitySummary struct {
	LatestPrice   float64 `json:"latest_price" yaml:"latest_price"`
	EarliestPrice float64 `json:"earliest_price" yaml:"earliest_price"`
	MaxPrice      float64 `json:"max_price" yaml:"max_price"`
	MinPrice      float64 `json:"min_price" yaml:"min_price"`
}

// Lookup is one served query, kept for auditing. It never carries price data.
type Lookup struct {
	Symbol    string    `json:"symbol" db:"symbol"`
	Operation string    `json:"operation" db:"operation"`
	Period    string    `json:"period,omitempty" db:"period"`
	Status    string    `json:"status" db:"status"`
	Duration  float64   `json:"duration_seconds" db:"duration_seconds"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
