// Package backtest replays a strategy over a historical bar series and turns
// its signals into trades and aggregate metrics.
package backtest

import (
	"github.com/moznion/go-optional"
	"go.uber.org/zap"

	"github.com/quantbeak/macross/internal/logger"
	"github.com/quantbeak/macross/internal/position"
	"github.com/quantbeak/macross/internal/strategy"
	"github.com/quantbeak/macross/internal/types"
	"github.com/quantbeak/macross/pkg/errors"
)

// Status tags a backtest result.
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Result is the complete outcome of one backtest run. A run never panics or
// returns a raw error past this boundary: failures come back as a result
// tagged StatusError with a human-readable reason.
type Result struct {
	Status Status `yaml:"status"`
	// Reason explains an error result. Empty on success.
	Reason string `yaml:"reason,omitempty"`
	// Trades lists every completed round trip, in order.
	Trades []types.Trade `yaml:"trades"`
	// Metrics are recomputed fresh from the trade list.
	Metrics types.Metrics `yaml:"metrics"`
	// AnnotatedSeries is the input series with indicator and signal columns.
	AnnotatedSeries types.IndicatorSeries `yaml:"-"`
}

// OnStep reports replay progress: current runs from 1 to total.
type OnStep func(current, total int)

// Simulator drives the position state machine across an entire bar series.
type Simulator struct {
	log *logger.Logger
}

// NewSimulator creates a backtest simulator.
func NewSimulator(log *logger.Logger) *Simulator {
	return &Simulator{
		log: log,
	}
}

// Run replays the strategy over the series. Orders decided at bar i-1's
// close are deemed filled at that same close price, evaluated when
// processing step i: the one-bar lag avoids look-ahead bias and is part of
// the contract, not an implementation detail. A position still open when the
// series ends is dropped, not marked to market.
func (s *Simulator) Run(bars []types.Bar, strat strategy.Strategy, onStep optional.Option[OnStep]) Result {
	if err := types.ValidateSeries(bars); err != nil {
		return s.errorResult(err)
	}

	series, err := strat.CalculateIndicators(bars)
	if err != nil {
		return s.errorResult(errors.Wrap(errors.ErrCodeBacktestFailed, "failed to calculate indicators", err))
	}

	if !series.HasDefinedIndicators() {
		return s.errorResult(errors.Newf(errors.ErrCodeInsufficientData,
			"series of %d bars is too short for any indicator value", len(bars)))
	}

	machine := position.NewMachine(bars[0].Symbol)
	trades := []types.Trade{}
	total := len(series) - 1

	for i := 1; i < len(series); i++ {
		// Signal and fill price both come from bar i-1.
		prev := series[i-1]

		if out := machine.Step(prev.Signal, prev.Close, prev.Time); out.IsSome() {
			trades = append(trades, out.Unwrap())
		}

		if onStep.IsSome() {
			onStep.Unwrap()(i, total)
		}
	}

	metrics := CalculateMetrics(trades)

	s.log.Info("backtest run completed",
		zap.String("symbol", bars[0].Symbol),
		zap.String("strategy", strat.Name()),
		zap.Int("bars", len(bars)),
		zap.Int("total_trades", metrics.TotalTrades),
		zap.Float64("win_rate", metrics.WinRate),
		zap.Float64("cumulative_return", metrics.CumulativeReturn),
	)

	return Result{
		Status:          StatusSuccess,
		Trades:          trades,
		Metrics:         metrics,
		AnnotatedSeries: series,
	}
}

func (s *Simulator) errorResult(err error) Result {
	s.log.Warn("backtest run rejected", zap.Error(err))

	return Result{
		Status: StatusError,
		Reason: err.Error(),
	}
}
