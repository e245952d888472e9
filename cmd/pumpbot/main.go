// Binary pumpbot runs one end-to-end cycle: wait for a trade signal on the
// post stream, resolve it to exactly one market, then buy, hold, and sell.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	ossignal "os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ryanlpeterman/pump-and-dump-bot/internal/bittrex"
	"github.com/ryanlpeterman/pump-and-dump-bot/internal/config"
	"github.com/ryanlpeterman/pump-and-dump-bot/internal/market"
	"github.com/ryanlpeterman/pump-and-dump-bot/internal/metrics"
	"github.com/ryanlpeterman/pump-and-dump-bot/internal/risk"
	"github.com/ryanlpeterman/pump-and-dump-bot/internal/signal"
	"github.com/ryanlpeterman/pump-and-dump-bot/internal/strategy"
	"github.com/ryanlpeterman/pump-and-dump-bot/internal/stream"
	"github.com/ryanlpeterman/pump-and-dump-bot/internal/util"
)

// Exit codes: 0 means the full entry/exit cycle completed (profitable or
// not); 1 means no tradable signal (ambiguous, absent, or timed out);
// 2 means an unrecoverable strategy or exchange failure.
const (
	exitOK       = 0
	exitNoSignal = 1
	exitStrategy = 2
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "config.yaml", "path to YAML configuration")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		return exitStrategy
	}

	log := util.NewConsoleLogger(cfg.App.LogLevel).With().
		Str("run_id", uuid.NewString()).
		Logger()

	creds, err := config.LoadCredentials()
	if err != nil {
		log.Error().Err(err).Msg("missing exchange credentials")
		return exitStrategy
	}

	if cfg.App.MetricsAddr != "" {
		_ = metrics.Serve(cfg.App.MetricsAddr)
		log.Info().Str("addr", cfg.App.MetricsAddr).Msg("metrics up")
	}

	ctx, cancel := ossignal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	client, err := bittrex.NewClient(creds.APIKey, creds.APISecret, log,
		bittrex.WithEndpoints(cfg.Exchange.PublicURL, cfg.Exchange.TradeURL))
	if err != nil {
		log.Error().Err(err).Msg("failed to build exchange client")
		return exitStrategy
	}

	tokens, err := listen(ctx, cfg, log)
	if err != nil {
		if errors.Is(err, signal.ErrListenTimeout) {
			log.Error().Msg("no qualifying post arrived inside the listen window")
		} else {
			log.Error().Err(err).Msg("listening for signal failed")
		}
		return exitNoSignal
	}
	log.Info().Strs("tokens", tokens).Msg("signal extracted")

	markets, err := client.Markets(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to list markets")
		return exitStrategy
	}
	log.Info().Int("count", len(markets)).Msg("markets loaded")

	resolved, err := market.Resolve(tokens, markets, cfg.Exchange.ReferenceCurrency)
	if err != nil {
		log.Error().Err(err).Msg("signal did not resolve to exactly one market, refusing to trade")
		return exitNoSignal
	}
	log.Info().Str("market", resolved.PairName).Str("coin", resolved.FullName).Msg("signal resolved")

	pump := strategy.NewPump(client,
		risk.Limits{MaxNotionalPerTrade: cfg.Risk.MaxNotionalPerTrade},
		strategy.Params{
			Budget:         cfg.Strategy.Budget,
			StopLossFactor: cfg.Strategy.StopLossFactor,
			ProfitFactor:   cfg.Strategy.ProfitFactor,
			PollInterval:   time.Duration(cfg.Strategy.PollIntervalMs) * time.Millisecond,
			MaxHold:        time.Duration(cfg.Strategy.MaxHoldSecs) * time.Second,
			MaxPollRetries: cfg.Strategy.MaxPollRetries,
		}, log)

	res, err := pump.Run(ctx, resolved)
	if err != nil {
		log.Error().Err(err).Str("outcome", res.Outcome.String()).Msg("cycle did not complete")
		return exitStrategy
	}
	log.Info().
		Str("outcome", res.Outcome.String()).
		Str("exit_reason", string(res.ExitReason)).
		Msg("cycle completed")
	return exitOK
}

// listen builds the configured stream provider and waits for one signal.
func listen(ctx context.Context, cfg *config.Config, log zerolog.Logger) ([]string, error) {
	listenCtx := ctx
	if cfg.Signal.MaxWaitSecs > 0 {
		var cancel context.CancelFunc
		listenCtx, cancel = context.WithTimeout(ctx, time.Duration(cfg.Signal.MaxWaitSecs)*time.Second)
		defer cancel()
	}

	var source signal.Stream
	switch cfg.Signal.Provider {
	case "stub":
		source = stream.NewStub(0)
	default:
		ws := stream.NewWS(cfg.Signal.StreamURL, log)
		defer ws.Close()
		source = ws
	}

	ocr := signal.NewOCRClient(cfg.Signal.OCRBaseURL)
	listener := signal.NewListener(source, ocr, cfg.Signal.Author, log)
	log.Info().Str("author", cfg.Signal.Author).Msg("listening for signal")
	return listener.Listen(listenCtx)
}
