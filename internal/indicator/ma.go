// Package indicator holds the rolling calculations the strategies are built
// from. Undefined values (not enough trailing bars yet) are NaN so that a
// series keeps the same length and index as its input.
package indicator

import (
	"math"

	"github.com/quantbeak/macross/internal/types"
	"github.com/quantbeak/macross/pkg/errors"
)

// SMASeries computes the trailing simple moving average of close prices for
// every bar in the series. Slot i holds the arithmetic mean of the period
// closes ending at i; the first period-1 slots are NaN.
func SMASeries(bars []types.Bar, period int) ([]float64, error) {
	if period <= 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidPeriod, "period must be a positive integer, got %d", period)
	}

	out := make([]float64, len(bars))
	sum := 0.0

	for i, bar := range bars {
		sum += bar.Close
		if i >= period {
			sum -= bars[i-period].Close
		}

		if i >= period-1 {
			out[i] = sum / float64(period)
		} else {
			out[i] = math.NaN()
		}
	}

	return out, nil
}

// TailSMA computes the simple moving average of the trailing period closes,
// i.e. the last defined value SMASeries would produce. Returns an
// InsufficientDataError when the series is shorter than the period.
func TailSMA(bars []types.Bar, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.Newf(errors.ErrCodeInvalidPeriod, "period must be a positive integer, got %d", period)
	}

	if len(bars) < period {
		symbol := ""
		if len(bars) > 0 {
			symbol = bars[len(bars)-1].Symbol
		}

		return 0, errors.NewInsufficientDataErrorf(period, len(bars), symbol,
			"insufficient data for moving average: required %d, got %d", period, len(bars))
	}

	sum := 0.0
	for i := len(bars) - period; i < len(bars); i++ {
		sum += bars[i].Close
	}

	return sum / float64(period), nil
}
