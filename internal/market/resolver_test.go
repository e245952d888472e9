package market

import (
	"errors"
	"testing"

	"github.com/ryanlpeterman/pump-and-dump-bot/internal/bittrex"
)

var fixtureMarkets = []bittrex.Market{
	{FullName: "Litecoin", Ticker: "LTC", PairName: "BTC-LTC"},
	{FullName: "Ripple", Ticker: "XRP", PairName: "BTC-XRP"},
	{FullName: "Ethereum", Ticker: "ETH", PairName: "USDT-ETH"},
}

func TestResolveSingleMatchByFullName(t *testing.T) {
	mkt, err := Resolve([]string{"buying", "litecoin", "soon"}, fixtureMarkets, "btc")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if mkt.PairName != "BTC-LTC" {
		t.Fatalf("expected BTC-LTC, got %s", mkt.PairName)
	}
}

func TestResolveSingleMatchByTicker(t *testing.T) {
	mkt, err := Resolve([]string{"get", "some", "xrp"}, fixtureMarkets, "btc")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if mkt.PairName != "BTC-XRP" {
		t.Fatalf("expected BTC-XRP, got %s", mkt.PairName)
	}
}

func TestResolveTwoMatchesIsAmbiguous(t *testing.T) {
	_, err := Resolve([]string{"litecoin", "and", "ripple"}, fixtureMarkets, "btc")
	var ambiguous *AmbiguousError
	if !errors.As(err, &ambiguous) {
		t.Fatalf("expected AmbiguousError, got %v", err)
	}
	if len(ambiguous.Matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(ambiguous.Matches))
	}
}

func TestResolveNoMatchIsAmbiguous(t *testing.T) {
	_, err := Resolve([]string{"buying", "dogecoin"}, fixtureMarkets, "btc")
	var ambiguous *AmbiguousError
	if !errors.As(err, &ambiguous) {
		t.Fatalf("expected AmbiguousError, got %v", err)
	}
	if len(ambiguous.Matches) != 0 {
		t.Fatalf("expected 0 matches, got %d", len(ambiguous.Matches))
	}
}

func TestResolveIgnoresOtherQuoteCurrencies(t *testing.T) {
	// "ethereum" names a listed market, but only a USDT-quoted one.
	_, err := Resolve([]string{"ethereum"}, fixtureMarkets, "btc")
	var ambiguous *AmbiguousError
	if !errors.As(err, &ambiguous) {
		t.Fatalf("expected AmbiguousError, got %v", err)
	}
}

func TestResolveRequiresExactTokenElement(t *testing.T) {
	// Substrings of a token must not match.
	_, err := Resolve([]string{"litecoins"}, fixtureMarkets, "btc")
	if err == nil {
		t.Fatalf("expected no match for substring token")
	}
}

func TestResolveEmptyTokens(t *testing.T) {
	_, err := Resolve(nil, fixtureMarkets, "btc")
	var ambiguous *AmbiguousError
	if !errors.As(err, &ambiguous) {
		t.Fatalf("expected AmbiguousError for empty tokens, got %v", err)
	}
}
