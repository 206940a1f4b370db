package api

import (
	"time"

	"github.com/jeovahfialho/portfolio/internal/domain"
	"github.com/shopspring/decimal"
)

type SummaryRequest struct {
	Period string `query:"period" validate:"omitempty,oneof=month year all all-time"`
}

type LookupsRequest struct {
	Limit int `query:"limit" validate:"omitempty,min=1,max=1000"`
}

type LatestPriceResponse struct {
	Symbol         string          `json:"symbol"`
	Price          decimal.Decimal `json:"price"`
	ProcessingTime string          `json:"processing_time,omitempty"`
}

type SummaryResponse struct {
	Symbol         string          `json:"symbol"`
	Period         string          `json:"period"`
	LatestPrice    decimal.Decimal `json:"latest_price"`
	EarliestPrice  decimal.Decimal `json:"earliest_price"`
	MaxPrice       decimal.Decimal `json:"max_price"`
	MinPrice       decimal.Decimal `json:"min_price"`
	ProcessingTime string          `json:"processing_time,omitempty"`
}

func newSummaryResponse(symbol domain.Symbol, period domain.TimePeriod, s domain.EquitySummary) SummaryResponse {
	return SummaryResponse{
		Symbol:        symbol.String(),
		Period:        period.String(),
		LatestPrice:   decimal.NewFromFloat(s.LatestPrice),
		EarliestPrice: decimal.NewFromFloat(s.EarliestPrice),
		MaxPrice:      decimal.NewFromFloat(s.MaxPrice),
		MinPrice:      decimal.NewFromFloat(s.MinPrice),
	}
}

type LookupsResponse struct {
	Data  []domain.Lookup `json:"data"`
	Count int             `json:"count"`
}

type HealthResponse struct {
	Status    string                   `json:"status"`
	Version   string                   `json:"version"`
	Timestamp time.Time                `json:"timestamp"`
	Services  map[string]ServiceHealth `json:"services,omitempty"`
}

type ServiceHealth struct {
	Status  string `json:"status"`
	Latency string `json:"latency,omitempty"`
	Error   string `json:"error,omitempty"`
}

type ErrorResponse struct {
	Error     string    `json:"error"`
	Code      int       `json:"code"`
	RequestID string    `json:"request_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
