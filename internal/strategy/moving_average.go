package strategy

import (
	"fmt"
	"math"

	"github.com/quantbeak/macross/internal/indicator"
	"github.com/quantbeak/macross/internal/types"
	"github.com/quantbeak/macross/pkg/errors"
)

// Parameter keys of the moving-average crossover strategy.
const (
	ParamShortWindow = "short_window"
	ParamLongWindow  = "long_window"
)

// Default window sizes.
const (
	DefaultShortWindow = 20
	DefaultLongWindow  = 50
)

// MovingAverage buys when the short moving average crosses above the long
// moving average and sells when it crosses below. Equality between the two
// means on the prior bar still counts as "not yet crossed": the crossing is
// detected on the bar where strict inequality first appears.
type MovingAverage struct {
	params map[string]float64
}

// NewMovingAverage creates a moving-average crossover strategy. The given
// parameters are merged over the defaults (short_window 20, long_window 50).
// A short window that is not smaller than the long window is rejected.
func NewMovingAverage(params map[string]float64) (*MovingAverage, error) {
	m := &MovingAverage{
		params: map[string]float64{
			ParamShortWindow: DefaultShortWindow,
			ParamLongWindow:  DefaultLongWindow,
		},
	}

	if err := m.SetParams(params); err != nil {
		return nil, err
	}

	return m, nil
}

// Name implements Strategy.
func (m *MovingAverage) Name() string {
	return fmt.Sprintf("ma_cross_%d_%d", m.shortWindow(), m.longWindow())
}

// SetParams implements Strategy. Keys absent from partial keep their prior
// values. The merged set must describe positive windows with
// short_window < long_window, otherwise the current parameters stay in place.
func (m *MovingAverage) SetParams(partial map[string]float64) error {
	merged := make(map[string]float64, len(m.params)+len(partial))
	for k, v := range m.params {
		merged[k] = v
	}

	for k, v := range partial {
		merged[k] = v
	}

	short := int(merged[ParamShortWindow])
	long := int(merged[ParamLongWindow])

	if short <= 0 {
		return errors.Newf(errors.ErrCodeInvalidParameter, "short_window must be a positive integer, got %d", short)
	}

	if long <= 0 {
		return errors.Newf(errors.ErrCodeInvalidParameter, "long_window must be a positive integer, got %d", long)
	}

	if short >= long {
		return errors.Newf(errors.ErrCodeInvalidParameter,
			"short_window (%d) must be smaller than long_window (%d)", short, long)
	}

	m.params = merged

	return nil
}

func (m *MovingAverage) shortWindow() int {
	return int(m.params[ParamShortWindow])
}

func (m *MovingAverage) longWindow() int {
	return int(m.params[ParamLongWindow])
}

// GenerateSignal implements Strategy. It reproduces the crossover test using
// only the last two computed points of each mean and agrees with the last
// point CalculateIndicators would produce for the same series.
func (m *MovingAverage) GenerateSignal(bars []types.Bar) (types.Signal, error) {
	long := m.longWindow()

	if len(bars) < long {
		return m.holdSignal(bars, fmt.Sprintf("insufficient data: have %d bars, need %d", len(bars), long)), nil
	}

	// The prior point of the long mean needs one extra bar.
	if len(bars) < long+1 {
		return m.holdSignal(bars, "long moving average has no prior value yet"), nil
	}

	curShort, err := indicator.TailSMA(bars, m.shortWindow())
	if err != nil {
		return types.Signal{}, err
	}

	curLong, err := indicator.TailSMA(bars, long)
	if err != nil {
		return types.Signal{}, err
	}

	prevBars := bars[:len(bars)-1]

	prevShort, err := indicator.TailSMA(prevBars, m.shortWindow())
	if err != nil {
		return types.Signal{}, err
	}

	prevLong, err := indicator.TailSMA(prevBars, long)
	if err != nil {
		return types.Signal{}, err
	}

	last := bars[len(bars)-1]

	switch {
	case curShort > curLong && prevShort <= prevLong:
		return types.Signal{
			Time:   last.Time,
			Type:   types.SignalTypeBuy,
			Name:   m.Name(),
			Reason: "short moving average crossed above long moving average",
			Symbol: last.Symbol,
		}, nil
	case curShort < curLong && prevShort >= prevLong:
		return types.Signal{
			Time:   last.Time,
			Type:   types.SignalTypeSell,
			Name:   m.Name(),
			Reason: "short moving average crossed below long moving average",
			Symbol: last.Symbol,
		}, nil
	default:
		return m.holdSignal(bars, "no crossover"), nil
	}
}

// CalculateIndicators implements Strategy.
func (m *MovingAverage) CalculateIndicators(bars []types.Bar) (types.IndicatorSeries, error) {
	shortMA, err := indicator.SMASeries(bars, m.shortWindow())
	if err != nil {
		return nil, err
	}

	longMA, err := indicator.SMASeries(bars, m.longWindow())
	if err != nil {
		return nil, err
	}

	series := make(types.IndicatorSeries, len(bars))

	for i := range bars {
		sig := types.SignalTypeHold

		// A crossover needs the current and the prior point of both means.
		if i > 0 && defined(shortMA[i], longMA[i], shortMA[i-1], longMA[i-1]) {
			switch {
			case shortMA[i] > longMA[i] && shortMA[i-1] <= longMA[i-1]:
				sig = types.SignalTypeBuy
			case shortMA[i] < longMA[i] && shortMA[i-1] >= longMA[i-1]:
				sig = types.SignalTypeSell
			}
		}

		series[i] = types.IndicatorPoint{
			Bar:     bars[i],
			ShortMA: shortMA[i],
			LongMA:  longMA[i],
			Signal:  sig,
		}
	}

	return series, nil
}

func (m *MovingAverage) holdSignal(bars []types.Bar, reason string) types.Signal {
	sig := types.Signal{
		Type:   types.SignalTypeHold,
		Name:   m.Name(),
		Reason: reason,
	}

	if len(bars) > 0 {
		last := bars[len(bars)-1]
		sig.Time = last.Time
		sig.Symbol = last.Symbol
	}

	return sig
}

func defined(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) {
			return false
		}
	}

	return true
}
