package quotes

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeovahfialho/portfolio/internal/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(Options{
		APIKey:     "test-key",
		BaseURL:    srv.URL,
		HTTPClient: srv.Client(),
	})
	require.NoError(t, err)
	return client
}

func mustSymbol(t *testing.T, s string) domain.Symbol {
	t.Helper()
	sym, err := domain.NewSymbol(s)
	require.NoError(t, err)
	return sym
}

func TestNewClient_Validation(t *testing.T) {
	_, err := NewClient(Options{})
	assert.True(t, errors.Is(err, domain.ErrConfiguration))

	_, err = NewClient(Options{APIKey: "k", BaseURL: "not a url"})
	assert.True(t, errors.Is(err, domain.ErrConfiguration))

	c, err := NewClient(Options{APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL+"/query", c.endpoint)
	assert.NotNil(t, c.httpClient)
}

func TestFetchDailySeries_RequestShape(t *testing.T) {
	tests := []struct {
		size domain.OutputSize
		want string
	}{
		{domain.Compact, "compact"},
		{domain.Full, "full"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			calls := 0
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				calls++
				assert.Equal(t, http.MethodGet, r.Method)
				assert.Equal(t, "/query", r.URL.Path)

				q := r.URL.Query()
				assert.Equal(t, "TIME_SERIES_DAILY_ADJUSTED", q.Get("function"))
				assert.Equal(t, "ibm", q.Get("symbol"))
				assert.Equal(t, "test-key", q.Get("apikey"))
				assert.Equal(t, tt.want, q.Get("outputsize"))

				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(sampleBody))
			})

			series, err := client.FetchDailySeries(context.Background(), mustSymbol(t, "ibm"), tt.size)
			require.NoError(t, err)
			assert.Len(t, series, 2)
			assert.Equal(t, 1, calls)
		})
	}
}

func TestFetchDailySeries_StatusErrorNotRetried(t *testing.T) {
	calls := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "upstream down", http.StatusServiceUnavailable)
	})

	series, err := client.FetchDailySeries(context.Background(), mustSymbol(t, "IBM"), domain.Full)
	require.Error(t, err)
	assert.Nil(t, series)
	assert.Equal(t, 1, calls)
	assert.True(t, errors.Is(err, domain.ErrTransport))

	var se *domain.StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusServiceUnavailable, se.StatusCode)
	assert.Contains(t, se.Body, "upstream down")
}

func TestFetchDailySeries_ParseErrorSurfaced(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"Information": "The demo API key is for demo purposes only."}`))
	})

	_, err := client.FetchDailySeries(context.Background(), mustSymbol(t, "IBM"), domain.Compact)
	assert.True(t, errors.Is(err, domain.ErrParse))
	assert.False(t, errors.Is(err, domain.ErrTransport))
	assert.Contains(t, err.Error(), "demo purposes")
}

func TestFetchDailySeries_NetworkFailureHidesAPIKey(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	client, err := NewClient(Options{APIKey: "super-secret", BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = client.FetchDailySeries(context.Background(), mustSymbol(t, "IBM"), domain.Compact)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrTransport))
	assert.NotContains(t, err.Error(), "super-secret")
}

func TestFetchDailySeries_ContextCancelled(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.FetchDailySeries(ctx, mustSymbol(t, "IBM"), domain.Compact)
	assert.True(t, errors.Is(err, domain.ErrTransport))
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestFetchDailySeries_ZeroSymbol(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})

	_, err := client.FetchDailySeries(context.Background(), domain.Symbol{}, domain.Compact)
	assert.True(t, errors.Is(err, domain.ErrInvalidSymbol))
}
