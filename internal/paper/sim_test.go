package paper

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/ryanlpeterman/pump-and-dump-bot/internal/bittrex"
)

func TestSimExchangePriceScript(t *testing.T) {
	sim := NewSimExchange([]float64{100, 110, 121}, 1000, nil, zerolog.Nop())

	for _, expected := range []float64{100, 110, 121, 121} {
		price, err := sim.LastPrice(context.Background(), "BTC-LTC")
		if err != nil {
			t.Fatalf("LastPrice returned error: %v", err)
		}
		if price != expected {
			t.Fatalf("expected %v, got %v", expected, price)
		}
	}
}

func TestSimExchangeBuySellPnL(t *testing.T) {
	sim := NewSimExchange([]float64{100, 120}, 1000, nil, zerolog.Nop())

	if _, err := sim.PlaceOrder(context.Background(), bittrex.Buy, "BTC-LTC", 5); err != nil {
		t.Fatalf("buy returned error: %v", err)
	}
	// advance the script so the sell fills at 120
	if _, err := sim.LastPrice(context.Background(), "BTC-LTC"); err != nil {
		t.Fatalf("LastPrice returned error: %v", err)
	}
	if _, err := sim.PlaceOrder(context.Background(), bittrex.Sell, "BTC-LTC", 5); err != nil {
		t.Fatalf("sell returned error: %v", err)
	}

	snap := sim.Snapshot()
	if snap.Position != 0 {
		t.Fatalf("expected flat position, got %v", snap.Position)
	}
	if snap.RealizedPnL != 100 {
		t.Fatalf("expected realized pnl 100, got %v", snap.RealizedPnL)
	}
	if snap.Cash != 1100 {
		t.Fatalf("expected cash 1100, got %v", snap.Cash)
	}
	if fills := sim.Fills(); len(fills) != 2 || fills[0].Side != bittrex.Buy || fills[1].Side != bittrex.Sell {
		t.Fatalf("unexpected fills: %+v", fills)
	}
}

func TestSimExchangeRejectsOverdraft(t *testing.T) {
	sim := NewSimExchange([]float64{100}, 50, nil, zerolog.Nop())

	_, err := sim.PlaceOrder(context.Background(), bittrex.Buy, "BTC-LTC", 1)
	var rejected *bittrex.OrderRejectedError
	if !errors.As(err, &rejected) {
		t.Fatalf("expected OrderRejectedError, got %v", err)
	}
}

func TestSimExchangeRejectsShortSell(t *testing.T) {
	sim := NewSimExchange([]float64{100}, 1000, nil, zerolog.Nop())

	_, err := sim.PlaceOrder(context.Background(), bittrex.Sell, "BTC-LTC", 1)
	var rejected *bittrex.OrderRejectedError
	if !errors.As(err, &rejected) {
		t.Fatalf("expected OrderRejectedError, got %v", err)
	}
}
