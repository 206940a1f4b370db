package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	UpstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "upstream_requests_total",
		Help: "Total number of time series requests sent to the quotes API",
	}, []string{"output_size", "outcome"})

	UpstreamDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "upstream_request_duration_seconds",
		Help:    "Duration of time series requests, including body parsing",
		Buckets: prometheus.DefBuckets,
	}, []string{"output_size"})

	SeriesPoints = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "upstream_series_points",
		Help:    "Number of daily records in each parsed time series",
		Buckets: prometheus.ExponentialBuckets(10, 4, 6),
	})

	AggregationRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "aggregation_requests_total",
		Help: "Total number of latest-price and summary requests",
	}, []string{"operation", "status"})

	AggregationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "aggregation_duration_seconds",
		Help:    "End to end duration of latest-price and summary requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	LookupWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lookup_log_writes_total",
		Help: "Total number of lookup log writes",
	}, []string{"status"})
)

func RecordUpstreamRequest(outputSize, outcome string) {
	UpstreamRequests.WithLabelValues(outputSize, outcome).Inc()
}

func RecordAggregation(operation, status string, duration float64) {
	AggregationRequests.WithLabelValues(operation, status).Inc()
	AggregationDuration.WithLabelValues(operation).Observe(duration)
}

func RecordLookupWrite(err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	LookupWrites.WithLabelValues(status).Inc()
}

type Timer struct {
	start time.Time
}

func NewTimer() *Timer {
	return &Timer{
		start: time.Now(),
	}
}

func (t *Timer) ObserveDuration(observer prometheus.Observer) {
	observer.Observe(time.Since(t.start).Seconds())
}

func (t *Timer) Elapsed() time.Duration {
	return time.Since(t.start)
}
