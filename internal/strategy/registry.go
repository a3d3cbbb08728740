package strategy

import (
	"github.com/quantbeak/macross/pkg/errors"
)

// Names of the registered strategies, as they appear in configuration.
const (
	StrategyMovingAverage = "simple_ma"
)

// New constructs a strategy by name. An unknown name is fatal at
// construction time: the engine never falls back to a default strategy.
func New(name string, params map[string]float64) (Strategy, error) {
	switch name {
	case StrategyMovingAverage:
		return NewMovingAverage(params)
	default:
		return nil, errors.Newf(errors.ErrCodeUnknownStrategy, "unknown strategy: %s", name)
	}
}
