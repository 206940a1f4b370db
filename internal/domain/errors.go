package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration indicates required process configuration is missing or invalid.
	ErrConfiguration = errors.New("configuration error")

	// ErrTransport covers network failures and non-2xx upstream responses.
	ErrTransport = errors.New("upstream transport error")

	// ErrParse indicates the upstream body could not be turned into a TimeSeries.
	ErrParse = errors.New("upstream parse error")

	// ErrEmptyResult is returned when no data points remain to aggregate.
	ErrEmptyResult = errors.New("no data in range")

	// ErrNonOrderable is returned when a price cannot be compared (NaN).
	ErrNonOrderable = errors.New("non-orderable value")

	ErrInvalidSymbol = errors.New("invalid symbol")
	ErrInvalidPeriod = errors.New("invalid time period")
)

// StatusError is returned when the upstream answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("upstream status %d", e.StatusCode)
	}
	return fmt.Sprintf("upstream status %d: %s", e.StatusCode, e.Body)
}

func (e *StatusError) Unwrap() error {
	return ErrTransport
}
