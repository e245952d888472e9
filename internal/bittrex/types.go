// Package bittrex implements the exchange gateway: public market data reads
// and HMAC-signed order placement against the Bittrex HTTP API.
package bittrex

import "encoding/json"

// Side enumerates order directions accepted by the trade endpoint.
type Side string

const (
	// Buy enters a long position.
	Buy Side = "buy"
	// Sell liquidates a position.
	Sell Side = "sell"
)

// Market is one exchange-listed pair quoted in the reference currency.
// Immutable for the duration of a run once loaded from the market listing.
type Market struct {
	FullName string
	Ticker   string
	PairName string
}

// OrderResult is the exchange's acknowledgment of an accepted order.
type OrderResult struct {
	ID       string
	Side     Side
	Market   string
	Quantity float64
}

// envelope is the common Bittrex response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Result  json.RawMessage `json:"result"`
}

type marketEntry struct {
	MarketName         string `json:"MarketName"`
	MarketCurrency     string `json:"MarketCurrency"`
	MarketCurrencyLong string `json:"MarketCurrencyLong"`
}

type tickerResult struct {
	Last float64 `json:"Last"`
}

type orderResultPayload struct {
	OrderID string `json:"OrderId"`
	UUID    string `json:"uuid"`
}
