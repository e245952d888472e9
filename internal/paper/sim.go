// Package paper provides an offline exchange simulator so the full pipeline
// can run without credentials or network access.
package paper

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ryanlpeterman/pump-and-dump-bot/internal/bittrex"
)

const epsilon = 1e-9

// Fill records one simulated execution.
type Fill struct {
	OrderID  string       `json:"order_id"`
	Market   string       `json:"market"`
	Side     bittrex.Side `json:"side"`
	Quantity float64      `json:"quantity"`
	Price    float64      `json:"price"`
	Ts       time.Time    `json:"ts"`
}

// FillRecorder captures simulated fills for later inspection.
type FillRecorder interface {
	Record(Fill)
}

// SimExchange satisfies the strategy gateway with a scripted price path
// (the last value repeats) and an always-available order book. It tracks
// virtual cash, the open position, and realized PnL like a tiny account.
type SimExchange struct {
	mu       sync.Mutex
	prices   []float64
	i        int
	cash     float64
	position float64
	avgCost  float64
	realized float64
	fills    []Fill
	recorder FillRecorder
	log      zerolog.Logger
}

// Snapshot is a read-only view of the simulated account.
type Snapshot struct {
	Cash        float64
	Position    float64
	RealizedPnL float64
}

// NewSimExchange scripts the price path and seeds the account with cash.
func NewSimExchange(prices []float64, startingCash float64, recorder FillRecorder, log zerolog.Logger) *SimExchange {
	return &SimExchange{
		prices:   append([]float64(nil), prices...),
		cash:     startingCash,
		recorder: recorder,
		log:      log,
	}
}

// LastPrice advances through the scripted path.
func (s *SimExchange) LastPrice(ctx context.Context, pair string) (float64, error) {
	if ctx.Err() != nil {
		return 0, ctx.Err()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.prices) == 0 {
		return 0, errors.New("no scripted prices")
	}
	price := s.prices[s.i]
	if s.i < len(s.prices)-1 {
		s.i++
	}
	return price, nil
}

// PlaceOrder fills immediately at the current scripted price.
func (s *SimExchange) PlaceOrder(ctx context.Context, side bittrex.Side, pair string, quantity float64) (*bittrex.OrderResult, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if quantity <= 0 {
		return nil, &bittrex.OrderRejectedError{Side: side, Market: pair, Message: "QUANTITY_NOT_PROVIDED"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	price := s.prices[s.i]
	notional := quantity * price

	switch side {
	case bittrex.Buy:
		if notional > s.cash+epsilon {
			return nil, &bittrex.OrderRejectedError{Side: side, Market: pair, Message: "INSUFFICIENT_FUNDS"}
		}
		newQty := s.position + quantity
		s.avgCost = ((s.avgCost * s.position) + notional) / newQty
		s.position = newQty
		s.cash -= notional
	case bittrex.Sell:
		if s.position+epsilon < quantity {
			return nil, &bittrex.OrderRejectedError{Side: side, Market: pair, Message: "INSUFFICIENT_FUNDS"}
		}
		s.realized += (price - s.avgCost) * quantity
		s.position -= quantity
		s.cash += notional
	default:
		return nil, &bittrex.OrderRejectedError{Side: side, Market: pair, Message: "INVALID_ORDER_TYPE"}
	}

	fill := Fill{
		OrderID:  uuid.NewString(),
		Market:   pair,
		Side:     side,
		Quantity: quantity,
		Price:    price,
		Ts:       time.Now().UTC(),
	}
	s.fills = append(s.fills, fill)
	if s.recorder != nil {
		s.recorder.Record(fill)
	}
	s.log.Info().
		Str("market", pair).
		Str("side", string(side)).
		Float64("quantity", quantity).
		Float64("price", price).
		Msg("simulated fill")

	return &bittrex.OrderResult{ID: fill.OrderID, Side: side, Market: pair, Quantity: quantity}, nil
}

// Fills returns a copy of the recorded fills.
func (s *SimExchange) Fills() []Fill {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Fill, len(s.fills))
	copy(out, s.fills)
	return out
}

// Snapshot reports the account state.
func (s *SimExchange) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{Cash: s.cash, Position: s.position, RealizedPnL: s.realized}
}
