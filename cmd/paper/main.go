// Binary paper exercises the full pipeline offline: a scripted post stream,
// a fixture market listing, and a simulated exchange. No credentials needed.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	ossignal "os/signal"
	"syscall"
	"time"

	"github.com/ryanlpeterman/pump-and-dump-bot/internal/bittrex"
	"github.com/ryanlpeterman/pump-and-dump-bot/internal/config"
	"github.com/ryanlpeterman/pump-and-dump-bot/internal/market"
	"github.com/ryanlpeterman/pump-and-dump-bot/internal/paper"
	"github.com/ryanlpeterman/pump-and-dump-bot/internal/risk"
	"github.com/ryanlpeterman/pump-and-dump-bot/internal/signal"
	"github.com/ryanlpeterman/pump-and-dump-bot/internal/strategy"
	"github.com/ryanlpeterman/pump-and-dump-bot/internal/stream"
	"github.com/ryanlpeterman/pump-and-dump-bot/internal/util"
)

var paperMarkets = []bittrex.Market{
	{FullName: "Litecoin", Ticker: "LTC", PairName: "BTC-LTC"},
	{FullName: "Ripple", Ticker: "XRP", PairName: "BTC-XRP"},
	{FullName: "Dogecoin", Ticker: "DOGE", PairName: "BTC-DOGE"},
}

func main() {
	configPath := flag.String("config", "config.yaml", "path to YAML configuration")
	post := flag.String("post", "Buying Litecoin soon", "scripted signal post text")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	log := util.NewConsoleLogger(cfg.App.LogLevel)

	ctx, cancel := ossignal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	posts := stream.NewStub(100*time.Millisecond,
		signal.Post{Author: "bystander", Text: "nothing to see"},
		signal.Post{Author: cfg.Signal.Author, Text: *post},
	)
	listener := signal.NewListener(posts, noopRecognizer{}, cfg.Signal.Author, log)

	tokens, err := listener.Listen(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("listening failed")
	}
	log.Info().Strs("tokens", tokens).Msg("signal extracted")

	resolved, err := market.Resolve(tokens, paperMarkets, cfg.Exchange.ReferenceCurrency)
	if err != nil {
		log.Fatal().Err(err).Msg("signal did not resolve to exactly one market")
	}
	log.Info().Str("market", resolved.PairName).Msg("signal resolved")

	var recorder paper.FillRecorder
	if cfg.Paper.FillsPath != "" {
		jsonl, err := paper.NewJSONLRecorder(cfg.Paper.FillsPath)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to open fill recorder")
		}
		defer jsonl.Close()
		recorder = jsonl
	}

	prices := cfg.Paper.Prices
	if len(prices) == 0 {
		prices = []float64{100, 105, 110, 121}
	}
	sim := paper.NewSimExchange(prices, cfg.Paper.StartingCash, recorder, log)

	pump := strategy.NewPump(sim,
		risk.Limits{MaxNotionalPerTrade: cfg.Risk.MaxNotionalPerTrade},
		strategy.Params{
			Budget:         cfg.Strategy.Budget,
			StopLossFactor: cfg.Strategy.StopLossFactor,
			ProfitFactor:   cfg.Strategy.ProfitFactor,
			PollInterval:   50 * time.Millisecond,
			MaxHold:        time.Duration(cfg.Strategy.MaxHoldSecs) * time.Second,
			MaxPollRetries: cfg.Strategy.MaxPollRetries,
		}, log)

	res, err := pump.Run(ctx, resolved)
	if err != nil {
		log.Fatal().Err(err).Str("outcome", res.Outcome.String()).Msg("paper cycle failed")
	}

	snap := sim.Snapshot()
	log.Info().
		Str("outcome", res.Outcome.String()).
		Str("exit_reason", string(res.ExitReason)).
		Float64("cash", snap.Cash).
		Float64("realized_pnl", snap.RealizedPnL).
		Int("fills", len(sim.Fills())).
		Msg("paper cycle completed")
}

type noopRecognizer struct{}

func (noopRecognizer) Recognize(ctx context.Context, image []byte) (string, error) { return "", nil }
