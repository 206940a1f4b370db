package quotes

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jeovahfialho/portfolio/internal/domain"
	"github.com/jeovahfialho/portfolio/pkg/logger"
	"github.com/jeovahfialho/portfolio/pkg/metrics"
	"go.uber.org/zap"
)

const (
	DefaultBaseURL = "https://www.alphavantage.co"

	dailyAdjustedFunction = "TIME_SERIES_DAILY_ADJUSTED"
	maxErrorBody          = 512
)

type Options struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

// Client fetches daily adjusted time series from Alpha Vantage. It holds the
// API key and HTTP client given at construction and never re-reads them.
type Client struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
}

func NewClient(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, fmt.Errorf("%w: chave da API não informada", domain.ErrConfiguration)
	}

	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: URL base inválida %q", domain.ErrConfiguration, baseURL)
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/query"

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = NewHTTPClient(0)
	}

	return &Client{
		apiKey:     opts.APIKey,
		endpoint:   u.String(),
		httpClient: httpClient,
	}, nil
}

// NewHTTPClient returns the client shared by every fetch. A zero timeout keeps
// net/http's default of no timeout.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
	}
}

// FetchDailySeries issues exactly one GET for symbol. Any non-2xx status is a
// *domain.StatusError; nothing is retried.
func (c *Client) FetchDailySeries(ctx context.Context, symbol domain.Symbol, size domain.OutputSize) (domain.TimeSeries, error) {
	if symbol.IsZero() {
		return nil, fmt.Errorf("%w: símbolo vazio", domain.ErrInvalidSymbol)
	}

	timer := metrics.NewTimer()
	defer timer.ObserveDuration(metrics.UpstreamDuration.WithLabelValues(size.String()))

	series, err := c.fetch(ctx, symbol, size)
	if err != nil {
		metrics.RecordUpstreamRequest(size.String(), outcome(err))
		logger.WithContext(ctx).Warn("erro ao buscar série diária",
			zap.String("symbol", symbol.String()),
			zap.String("output_size", size.String()),
			zap.Error(err))
		return nil, err
	}

	metrics.RecordUpstreamRequest(size.String(), "success")
	metrics.SeriesPoints.Observe(float64(len(series)))
	logger.WithContext(ctx).Debug("série diária recebida",
		zap.String("symbol", symbol.String()),
		zap.String("output_size", size.String()),
		zap.Int("records", len(series)),
		zap.Duration("elapsed", timer.Elapsed()))

	return series, nil
}

func (c *Client) fetch(ctx context.Context, symbol domain.Symbol, size domain.OutputSize) (domain.TimeSeries, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.requestURL(symbol, size), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: erro ao criar request: %w", domain.ErrTransport, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// url.Error would echo the query string, API key included.
		return nil, fmt.Errorf("%w: erro ao consultar %s: %w", domain.ErrTransport, symbol, unwrapURLError(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &domain.StatusError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(snippet)),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: erro ao ler resposta: %w", domain.ErrTransport, err)
	}

	return ParseDailySeries(body)
}

func (c *Client) requestURL(symbol domain.Symbol, size domain.OutputSize) string {
	q := url.Values{}
	q.Set("function", dailyAdjustedFunction)
	q.Set("symbol", symbol.String())
	q.Set("apikey", c.apiKey)
	q.Set("outputsize", size.String())
	return c.endpoint + "?" + q.Encode()
}

func unwrapURLError(err error) error {
	if ue, ok := err.(*url.Error); ok {
		return ue.Err
	}
	return err
}

func outcome(err error) string {
	switch {
	case isStatus(err):
		return "status_error"
	case isParse(err):
		return "parse_error"
	default:
		return "transport_error"
	}
}
