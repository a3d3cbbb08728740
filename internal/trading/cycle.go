package trading

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/moznion/go-optional"
	"go.uber.org/zap"

	"github.com/quantbeak/macross/internal/config"
	"github.com/quantbeak/macross/internal/logger"
	"github.com/quantbeak/macross/internal/position"
	"github.com/quantbeak/macross/internal/strategy"
	"github.com/quantbeak/macross/internal/types"
	"github.com/quantbeak/macross/pkg/marketdata/provider"
)

// Cycle is the live trading orchestrator. Each execution fetches the most
// recent bars, evaluates the strategy on them and executes the signal when
// both the dedup gate and the position state machine allow it.
//
// Data problems degrade to a hold for that cycle instead of stopping the
// loop: a failed fetch or an invalid series skips the cycle and the next one
// starts fresh.
type Cycle struct {
	cfg      config.Config
	strategy strategy.Strategy
	market   provider.Provider
	trader   TradingProvider
	writer   optional.Option[BarWriter]
	machine  *position.Machine
	gate     *position.Gate
	logger   *logger.Logger
	running  atomic.Bool
}

// NewCycle creates a live trading cycle starting flat with no prior action.
func NewCycle(
	cfg config.Config,
	strat strategy.Strategy,
	market provider.Provider,
	trader TradingProvider,
	writer optional.Option[BarWriter],
	log *logger.Logger,
) *Cycle {
	return &Cycle{
		cfg:      cfg,
		strategy: strat,
		market:   market,
		trader:   trader,
		writer:   writer,
		machine:  position.NewMachine(cfg.Symbol),
		gate:     position.NewGate(),
		logger:   log,
	}
}

// Execute runs a single trading cycle. It returns an error only when an
// order was attempted and failed; in that case the gate is left untouched so
// the same action is retried on the next cycle.
func (c *Cycle) Execute(ctx context.Context) error {
	if !c.running.CompareAndSwap(false, true) {
		c.logger.Warn("previous cycle still running, skipping")

		return nil
	}
	defer c.running.Store(false)

	bars, err := c.market.GetBars(ctx, c.cfg.Symbol, c.cfg.Interval, c.cfg.Lookback)
	if err != nil {
		c.logger.Warn("failed to fetch bars, holding this cycle", zap.Error(err))

		return nil
	}

	if err := types.ValidateSeries(bars); err != nil {
		c.logger.Warn("fetched series is invalid, holding this cycle", zap.Error(err))

		return nil
	}

	if c.writer.IsSome() {
		if err := c.writer.Unwrap().WriteBars(bars); err != nil {
			c.logger.Warn("failed to persist bars", zap.Error(err))
		}
	}

	sig, err := c.strategy.GenerateSignal(bars)
	if err != nil {
		c.logger.Warn("strategy failed, holding this cycle", zap.Error(err))

		return nil
	}

	c.logger.Info("cycle signal",
		zap.String("symbol", c.cfg.Symbol),
		zap.String("signal", string(sig.Type)),
		zap.String("reason", sig.Reason))

	if sig.Type == types.SignalTypeHold {
		return nil
	}

	if !c.gate.Allows(sig.Type) {
		c.logger.Info("signal repeats last executed action, suppressed",
			zap.String("signal", string(sig.Type)))

		return nil
	}

	if !c.machine.CanTransition(sig.Type) {
		c.logger.Info("signal cannot change position, suppressed",
			zap.String("signal", string(sig.Type)),
			zap.String("position", string(c.machine.Position())))

		return nil
	}

	last := bars[len(bars)-1]

	if c.cfg.Paper {
		c.logger.Info("paper mode, order not sent",
			zap.String("signal", string(sig.Type)),
			zap.Float64("price", last.Close))
	} else {
		order := Order{
			Symbol:   c.cfg.Symbol,
			Side:     sig.Type,
			Quantity: c.cfg.TradeVolume,
		}

		if err := c.trader.PlaceMarketOrder(ctx, order); err != nil {
			c.logger.Error("order failed, will retry next cycle", zap.Error(err))

			return err
		}
	}

	if trade := c.machine.Step(sig.Type, last.Close, last.Time); trade.IsSome() {
		completed := trade.Unwrap()
		c.logger.Info("trade closed",
			zap.String("id", completed.ID),
			zap.Float64("entry_price", completed.EntryPrice),
			zap.Float64("exit_price", completed.ExitPrice),
			zap.Float64("return_pct", completed.ReturnPct))
	}

	c.gate.Record(sig.Type)

	return nil
}

// Run executes cycles on a fixed interval until the context is canceled.
// The first cycle runs immediately.
func (c *Cycle) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	if err := c.Execute(ctx); err != nil {
		c.logger.Error("cycle failed", zap.Error(err))
	}

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("trading loop stopped")

			return nil
		case <-ticker.C:
			if err := c.Execute(ctx); err != nil {
				c.logger.Error("cycle failed", zap.Error(err))
			}
		}
	}
}

// Position exposes the current position state for status reporting.
func (c *Cycle) Position() types.PositionType {
	return c.machine.Position()
}
