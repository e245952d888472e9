// Package strategy implements the buy-hold-sell cycle against one resolved
// market: size the entry from the configured budget, hold while the price
// stays strictly between the stop-loss and the exit target, then liquidate.
package strategy

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/ryanlpeterman/pump-and-dump-bot/internal/bittrex"
	"github.com/ryanlpeterman/pump-and-dump-bot/internal/metrics"
	"github.com/ryanlpeterman/pump-and-dump-bot/internal/risk"
)

// Gateway is the slice of the exchange the strategy needs. The live bittrex
// client and the paper simulator both satisfy it.
type Gateway interface {
	LastPrice(ctx context.Context, pair string) (float64, error)
	PlaceOrder(ctx context.Context, side bittrex.Side, pair string, quantity float64) (*bittrex.OrderResult, error)
}

// Position is the single in-memory record of what was bought. All derived
// prices are fixed at creation from the entry price and never recomputed;
// the sell quantity always comes from Quantity, never from a re-read price.
type Position struct {
	Market     bittrex.Market
	Quantity   float64
	EntryPrice float64
	StopLoss   float64
	ExitTarget float64
}

// Outcome classifies how the cycle ended.
type Outcome int

const (
	// OutcomeNone means no order reached the exchange.
	OutcomeNone Outcome = iota
	// OutcomeCompleted means both entry and exit were acknowledged.
	OutcomeCompleted
	// OutcomeEntryRejected means the exchange declined the buy; no position.
	OutcomeEntryRejected
	// OutcomeEntryUncertain means the buy's fate is unknown; exposure may exist.
	OutcomeEntryUncertain
	// OutcomeExitRejected means the sell was declined; the position is still open.
	OutcomeExitRejected
	// OutcomeExitUncertain means the sell's fate is unknown; the position may still be open.
	OutcomeExitUncertain
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCompleted:
		return "completed"
	case OutcomeEntryRejected:
		return "entry_rejected"
	case OutcomeEntryUncertain:
		return "entry_uncertain"
	case OutcomeExitRejected:
		return "exit_rejected"
	case OutcomeExitUncertain:
		return "exit_uncertain"
	default:
		return "none"
	}
}

// ExitReason records which condition ended the holding loop.
type ExitReason string

const (
	ExitTarget       ExitReason = "target"
	ExitStopLoss     ExitReason = "stop_loss"
	ExitHoldTimeout  ExitReason = "hold_timeout"
	ExitDataDegraded ExitReason = "data_degraded"
)

// Result is the full account of one cycle for the orchestrator and tests.
type Result struct {
	Outcome    Outcome
	Position   *Position
	ExitReason ExitReason
	Entry      *bittrex.OrderResult
	Exit       *bittrex.OrderResult
}

// Params groups the tunable knobs of the cycle.
type Params struct {
	Budget         float64 // reference-currency capital deployed at entry
	StopLossFactor float64 // < 1.0
	ProfitFactor   float64 // > 1.0
	PollInterval   time.Duration
	MaxHold        time.Duration // 0 holds until a boundary fires
	MaxPollRetries int           // consecutive read failures tolerated while holding
}

const (
	defaultPollInterval   = time.Second
	defaultStopLossFactor = 0.95
	defaultProfitFactor   = 1.2
	defaultMaxPollRetries = 5
	maxRetryBackoff       = 30 * time.Second
	exitOrderTimeout      = 30 * time.Second
)

// Pump runs one cycle. States are linear: Idle → Entering → Holding →
// Exiting → Done, no branch back.
type Pump struct {
	gw     Gateway
	limits risk.Limits
	params Params
	log    zerolog.Logger
}

// NewPump applies defaults for any zero-valued knob.
func NewPump(gw Gateway, limits risk.Limits, params Params, log zerolog.Logger) *Pump {
	if params.PollInterval <= 0 {
		params.PollInterval = defaultPollInterval
	}
	if params.StopLossFactor <= 0 || params.StopLossFactor >= 1 {
		params.StopLossFactor = defaultStopLossFactor
	}
	if params.ProfitFactor <= 1 {
		params.ProfitFactor = defaultProfitFactor
	}
	if params.MaxPollRetries <= 0 {
		params.MaxPollRetries = defaultMaxPollRetries
	}
	return &Pump{gw: gw, limits: limits, params: params, log: log}
}

// Run executes the full cycle for one resolved market. The entry order is
// always fully acknowledged before the holding loop begins, and the exit
// order is issued exactly once, after the loop observes a boundary crossing.
func (p *Pump) Run(ctx context.Context, mkt bittrex.Market) (Result, error) {
	res := Result{Outcome: OutcomeNone}

	entryPrice, err := p.gw.LastPrice(ctx, mkt.PairName)
	if err != nil {
		return res, fmt.Errorf("read entry price: %w", err)
	}
	if entryPrice <= 0 {
		return res, fmt.Errorf("non-positive entry price %v for %s", entryPrice, mkt.PairName)
	}

	pos := &Position{
		Market:     mkt,
		Quantity:   p.params.Budget / entryPrice,
		EntryPrice: entryPrice,
		StopLoss:   entryPrice * p.params.StopLossFactor,
		ExitTarget: entryPrice * p.params.ProfitFactor,
	}
	res.Position = pos

	if !p.limits.Allow(p.params.Budget) {
		return res, fmt.Errorf("entry notional %.8f exceeds risk limit %.8f",
			p.params.Budget, p.limits.MaxNotionalPerTrade)
	}

	p.log.Info().
		Str("market", mkt.PairName).
		Str("coin", mkt.FullName).
		Float64("budget", p.params.Budget).
		Float64("entry_price", pos.EntryPrice).
		Float64("quantity", pos.Quantity).
		Float64("stop_loss", pos.StopLoss).
		Float64("exit_target", pos.ExitTarget).
		Msg("entering position")

	entry, err := p.gw.PlaceOrder(ctx, bittrex.Buy, mkt.PairName, pos.Quantity)
	if err != nil {
		var rejected *bittrex.OrderRejectedError
		if errors.As(err, &rejected) {
			res.Outcome = OutcomeEntryRejected
			p.log.Error().Err(err).Msg("entry rejected, no position held")
			return res, err
		}
		res.Outcome = OutcomeEntryUncertain
		p.log.Error().Err(err).
			Msg("entry order outcome unknown: exposure may exist, reconcile manually")
		return res, err
	}
	res.Entry = entry

	res.ExitReason = p.hold(ctx, pos)

	// Exit must go out even if the run context was cancelled mid-hold;
	// otherwise the position is stranded.
	exitCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), exitOrderTimeout)
	defer cancel()

	exitPrice, err := p.gw.LastPrice(exitCtx, mkt.PairName)
	if err != nil {
		p.log.Warn().Err(err).Msg("could not re-read price before exit, logging entry price instead")
		exitPrice = pos.EntryPrice
	}
	p.log.Info().
		Str("market", mkt.PairName).
		Str("reason", string(res.ExitReason)).
		Float64("quantity", pos.Quantity).
		Float64("price", exitPrice).
		Float64("estimated_pnl", (exitPrice-pos.EntryPrice)*pos.Quantity).
		Msg("exiting position")

	exit, err := p.gw.PlaceOrder(exitCtx, bittrex.Sell, mkt.PairName, pos.Quantity)
	if err != nil {
		var rejected *bittrex.OrderRejectedError
		if errors.As(err, &rejected) {
			res.Outcome = OutcomeExitRejected
			p.log.Error().Err(err).Msg("exit rejected: position is still open")
			return res, err
		}
		res.Outcome = OutcomeExitUncertain
		p.log.Error().Err(err).Msg("exit order outcome unknown: position may still be open, reconcile manually")
		return res, err
	}
	res.Exit = exit
	res.Outcome = OutcomeCompleted
	return res, nil
}

// hold polls the last price until it leaves the open interval
// (StopLoss, ExitTarget). Strict comparisons: touching either boundary
// exits. Level-triggered on the most recent successful read, so a crossing
// missed during a retry backoff still fires on the next good read.
func (p *Pump) hold(ctx context.Context, pos *Position) ExitReason {
	var deadline <-chan time.Time
	if p.params.MaxHold > 0 {
		timer := time.NewTimer(p.params.MaxHold)
		defer timer.Stop()
		deadline = timer.C
	}

	ticker := time.NewTicker(p.params.PollInterval)
	defer ticker.Stop()

	failures := 0
	backoff := p.params.PollInterval

	for {
		select {
		case <-ctx.Done():
			p.log.Warn().Msg("run cancelled while holding, liquidating")
			return ExitHoldTimeout
		case <-deadline:
			p.log.Warn().Dur("max_hold", p.params.MaxHold).Msg("maximum hold duration reached, liquidating")
			return ExitHoldTimeout
		case <-ticker.C:
			price, err := p.gw.LastPrice(ctx, pos.Market.PairName)
			if err != nil {
				failures++
				p.log.Warn().Err(err).Int("failures", failures).Msg("price poll failed")
				if failures >= p.params.MaxPollRetries {
					p.log.Error().Msg("market data unavailable for too long, liquidating")
					return ExitDataDegraded
				}
				if !sleep(ctx, backoff) {
					return ExitHoldTimeout
				}
				if backoff *= 2; backoff > maxRetryBackoff {
					backoff = maxRetryBackoff
				}
				continue
			}
			failures = 0
			backoff = p.params.PollInterval
			metrics.PricePollsTotal.WithLabelValues(pos.Market.PairName).Inc()

			if price <= pos.StopLoss {
				p.log.Info().Float64("price", price).Float64("stop_loss", pos.StopLoss).Msg("stop loss crossed")
				return ExitStopLoss
			}
			if price >= pos.ExitTarget {
				p.log.Info().Float64("price", price).Float64("exit_target", pos.ExitTarget).Msg("exit target crossed")
				return ExitTarget
			}
			p.log.Debug().Float64("price", price).Msg("holding")
		}
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	select {
	case <-time.After(d):
		return true
	case <-ctx.Done():
		return false
	}
}
