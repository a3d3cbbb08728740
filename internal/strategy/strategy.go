// Package strategy contains the trading strategies and their registry.
// Strategies are stateless functions of their input series plus
// configuration; position and order management belongs to the trading layer.
package strategy

import (
	"github.com/quantbeak/macross/internal/types"
)

// Strategy is the contract every trading strategy implements.
type Strategy interface {
	// Name returns the name of the strategy including its parameters.
	Name() string
	// GenerateSignal returns the decision at the most recent bar of the
	// series. A series shorter than the strategy's lookback yields a hold
	// signal, not an error. The input series is never mutated.
	GenerateSignal(bars []types.Bar) (types.Signal, error)
	// CalculateIndicators computes the full indicator and signal history for
	// the whole series. The result has the same length and order as the
	// input. The signal it assigns to the last point always equals what
	// GenerateSignal returns for the same series.
	CalculateIndicators(bars []types.Bar) (types.IndicatorSeries, error)
	// SetParams merge-updates the strategy configuration: keys absent from
	// partial keep their prior values. The merged parameter set is validated
	// before it replaces the current one.
	SetParams(partial map[string]float64) error
}
