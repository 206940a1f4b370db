package quotes

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"

	"github.com/jeovahfialho/portfolio/internal/domain"
)

// dailyResponse is the TIME_SERIES_DAILY_ADJUSTED envelope. On throttling or
// an unknown symbol the API still answers 200, with one of the message fields
// set and no series.
type dailyResponse struct {
	MetaData     json.RawMessage   `json:"Meta Data"`
	TimeSeries   map[string]rawDay `json:"Time Series (Daily)"`
	ErrorMessage string            `json:"Error Message"`
	Note         string            `json:"Note"`
	Information  string            `json:"Information"`
}

// Every numeric field is sent as a JSON string, e.g. "6. volume": "12345".
type rawDay struct {
	Open             numeric `json:"1. open"`
	High             numeric `json:"2. high"`
	Low              numeric `json:"3. low"`
	Close            numeric `json:"4. close"`
	AdjustedClose    numeric `json:"5. adjusted close"`
	Volume           numeric `json:"6. volume"`
	DividendAmount   numeric `json:"7. dividend amount"`
	SplitCoefficient numeric `json:"8. split coefficient"`
}

// numeric holds the literal text of a number that may arrive quoted or bare.
type numeric struct {
	text string
	set  bool
}

func (n *numeric) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
	}
	n.text = strings.TrimSpace(s)
	n.set = true
	return nil
}

// ParseDailySeries decodes an upstream body into a TimeSeries. A single bad
// date key or numeric field fails the whole series.
func ParseDailySeries(body []byte) (domain.TimeSeries, error) {
	var resp dailyResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: JSON inválido: %v", domain.ErrParse, err)
	}

	if resp.TimeSeries == nil {
		if msg := resp.upstreamMessage(); msg != "" {
			return nil, fmt.Errorf("%w: campo \"Time Series (Daily)\" ausente: %s", domain.ErrParse, msg)
		}
		return nil, fmt.Errorf("%w: campo \"Time Series (Daily)\" ausente", domain.ErrParse)
	}

	keys := make([]string, 0, len(resp.TimeSeries))
	for k := range resp.TimeSeries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	series := make(domain.TimeSeries, len(keys))
	for _, k := range keys {
		date, err := domain.ParseDate(k)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrParse, err)
		}

		record, err := resp.TimeSeries[k].record()
		if err != nil {
			return nil, fmt.Errorf("%w: registro %s: %v", domain.ErrParse, k, err)
		}

		series[date] = record
	}

	return series, nil
}

func (r dailyResponse) upstreamMessage() string {
	switch {
	case r.ErrorMessage != "":
		return r.ErrorMessage
	case r.Note != "":
		return r.Note
	default:
		return r.Information
	}
}

type field struct {
	name  string
	value numeric
	dest  *float64
}

func (d rawDay) record() (domain.DailyRecord, error) {
	var rec domain.DailyRecord

	fields := []field{
		{"1. open", d.Open, &rec.Open},
		{"2. high", d.High, &rec.High},
		{"3. low", d.Low, &rec.Low},
		{"4. close", d.Close, &rec.Close},
		{"5. adjusted close", d.AdjustedClose, &rec.AdjustedClose},
		{"6. volume", d.Volume, &rec.Volume},
		{"7. dividend amount", d.DividendAmount, &rec.DividendAmount},
		{"8. split coefficient", d.SplitCoefficient, &rec.SplitCoefficient},
	}

	for _, f := range fields {
		v, err := parseNumber(f.name, f.value)
		if err != nil {
			return domain.DailyRecord{}, err
		}
		*f.dest = v
	}

	return rec, nil
}

func parseNumber(name string, n numeric) (float64, error) {
	if !n.set || n.text == "" {
		return 0, fmt.Errorf("campo %q ausente", name)
	}

	d, err := decimal.NewFromString(n.text)
	if err != nil {
		return 0, fmt.Errorf("campo %q: valor %q não numérico", name, n.text)
	}

	f, _ := d.Float64()
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, fmt.Errorf("campo %q: valor %q fora do intervalo", name, n.text)
	}
	return f, nil
}

func isStatus(err error) bool {
	var se *domain.StatusError
	return errors.As(err, &se)
}

func isParse(err error) bool {
	return errors.Is(err, domain.ErrParse)
}
