package bittrex

import (
	"errors"
	"fmt"
)

var (
	// ErrNetwork marks a transport-level failure. Safe to retry for reads only.
	ErrNetwork = errors.New("network failure")
	// ErrSchema marks a response missing the expected shape. Not retryable;
	// usually means the API contract changed underneath us.
	ErrSchema = errors.New("unexpected response schema")
	// ErrUnknownMarket is returned when the exchange reports no such pair.
	ErrUnknownMarket = errors.New("unknown market")
)

// OrderRejectedError means the exchange explicitly declined the order.
// No financial side effect occurred; not placing it again is safe.
type OrderRejectedError struct {
	Side    Side
	Market  string
	Message string
}

func (e *OrderRejectedError) Error() string {
	return fmt.Sprintf("%s order for %s rejected by exchange: %s", e.Side, e.Market, e.Message)
}

// OrderUncertainError means the order's fate is unknown: the request may or
// may not have executed. Never retried automatically; the operator must
// reconcile exposure by hand.
type OrderUncertainError struct {
	Side     Side
	Market   string
	Quantity float64
	Cause    error
}

func (e *OrderUncertainError) Error() string {
	return fmt.Sprintf("%s order for %.8f %s outcome unknown: %v", e.Side, e.Quantity, e.Market, e.Cause)
}

func (e *OrderUncertainError) Unwrap() error { return e.Cause }
