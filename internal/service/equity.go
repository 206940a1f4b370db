package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jeovahfialho/portfolio/internal/domain"
	"github.com/jeovahfialho/portfolio/pkg/logger"
	"github.com/jeovahfialho/portfolio/pkg/metrics"
	"go.uber.org/zap"
)

const (
	OperationLatestPrice = "latest_price"
	OperationSummary     = "summary"
)

type SeriesFetcher interface {
	FetchDailySeries(ctx context.Context, symbol domain.Symbol, size domain.OutputSize) (domain.TimeSeries, error)
}

// LookupRecorder keeps an audit trail of served queries.
type LookupRecorder interface {
	RecordLookup(ctx context.Context, lookup domain.Lookup) error
}

// NoopRecorder is used when no database is configured.
type NoopRecorder struct{}

func (NoopRecorder) RecordLookup(context.Context, domain.Lookup) error { return nil }

type EquityService struct {
	fetcher  SeriesFetcher
	recorder LookupRecorder
	now      func() time.Time
}

type Option func(*EquityService)

// WithClock replaces time.Now as the source of "today".
func WithClock(now func() time.Time) Option {
	return func(s *EquityService) {
		s.now = now
	}
}

func NewEquityService(fetcher SeriesFetcher, recorder LookupRecorder, opts ...Option) *EquityService {
	if recorder == nil {
		recorder = NoopRecorder{}
	}

	s := &EquityService{
		fetcher:  fetcher,
		recorder: recorder,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LatestPrice fetches the compact series and returns the most recent close.
func (s *EquityService) LatestPrice(ctx context.Context, symbol domain.Symbol) (float64, error) {
	timer := metrics.NewTimer()

	price, err := s.latestPrice(ctx, symbol)

	s.finish(ctx, domain.Lookup{
		Symbol:    symbol.String(),
		Operation: OperationLatestPrice,
	}, timer, err)

	return price, err
}

func (s *EquityService) latestPrice(ctx context.Context, symbol domain.Symbol) (float64, error) {
	series, err := s.fetcher.FetchDailySeries(ctx, symbol, domain.Compact)
	if err != nil {
		return 0, fmt.Errorf("erro ao buscar série de %s: %w", symbol, err)
	}

	price, err := LatestClose(series)
	if err != nil {
		return 0, fmt.Errorf("erro ao calcular último preço de %s: %w", symbol, err)
	}

	return price, nil
}

// Summary fetches the full series and summarizes it over period, anchored at
// the local calendar date at call time.
func (s *EquityService) Summary(ctx context.Context, symbol domain.Symbol, period domain.TimePeriod) (domain.EquitySummary, error) {
	timer := metrics.NewTimer()

	summary, err := s.summary(ctx, symbol, period)

	s.finish(ctx, domain.Lookup{
		Symbol:    symbol.String(),
		Operation: OperationSummary,
		Period:    period.String(),
	}, timer, err)

	return summary, err
}

func (s *EquityService) summary(ctx context.Context, symbol domain.Symbol, period domain.TimePeriod) (domain.EquitySummary, error) {
	series, err := s.fetcher.FetchDailySeries(ctx, symbol, domain.Full)
	if err != nil {
		return domain.EquitySummary{}, fmt.Errorf("erro ao buscar série de %s: %w", symbol, err)
	}

	today := domain.DateOf(s.now())

	summary, err := Summarize(series, period, today)
	if err != nil {
		return domain.EquitySummary{}, fmt.Errorf("erro ao resumir %s: %w", symbol, err)
	}

	return summary, nil
}

func (s *EquityService) finish(ctx context.Context, lookup domain.Lookup, timer *metrics.Timer, err error) {
	elapsed := timer.Elapsed()

	lookup.Status = Status(err)
	lookup.Duration = elapsed.Seconds()

	metrics.RecordAggregation(lookup.Operation, lookup.Status, elapsed.Seconds())

	log := logger.WithContext(ctx).With(
		zap.String("symbol", lookup.Symbol),
		zap.String("operation", lookup.Operation),
		zap.String("status", lookup.Status),
		zap.Duration("elapsed", elapsed))
	if lookup.Period != "" {
		log = log.With(zap.String("period", lookup.Period))
	}

	if err != nil {
		log.Warn("consulta falhou", zap.Error(err))
	} else {
		log.Info("consulta concluída")
	}

	recErr := s.recorder.RecordLookup(ctx, lookup)
	metrics.RecordLookupWrite(recErr)
	if recErr != nil {
		log.Error("erro ao registrar consulta", zap.Error(recErr))
	}
}

// Status classifies err into the label used by metrics and the lookup log.
func Status(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, domain.ErrEmptyResult):
		return "empty_result"
	case errors.Is(err, domain.ErrNonOrderable):
		return "non_orderable"
	case errors.Is(err, domain.ErrParse):
		return "parse_error"
	case errors.Is(err, domain.ErrTransport):
		return "transport_error"
	case errors.Is(err, domain.ErrInvalidSymbol), errors.Is(err, domain.ErrInvalidPeriod):
		return "invalid_input"
	case errors.Is(err, domain.ErrConfiguration):
		return "configuration_error"
	default:
		return "error"
	}
}
