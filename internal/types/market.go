package types

import (
	"time"

	"github.com/quantbeak/macross/pkg/errors"
)

// Bar is a single OHLCV sample at a fixed time interval.
type Bar struct {
	Time   time.Time `yaml:"time" csv:"time"`
	Symbol string    `yaml:"symbol" csv:"symbol"`
	Open   float64   `yaml:"open" csv:"open"`
	High   float64   `yaml:"high" csv:"high"`
	Low    float64   `yaml:"low" csv:"low"`
	Close  float64   `yaml:"close" csv:"close"`
	Volume float64   `yaml:"volume" csv:"volume"`
}

// ValidateSeries checks that a bar series is usable as strategy input:
// non-empty, with strictly increasing timestamps. Duplicate timestamps are
// rejected along with out-of-order ones.
func ValidateSeries(bars []Bar) error {
	if len(bars) == 0 {
		return errors.New(errors.ErrCodeInvalidSeries, "empty bar series")
	}

	for i := 1; i < len(bars); i++ {
		if !bars[i].Time.After(bars[i-1].Time) {
			return errors.Newf(errors.ErrCodeInvalidSeries,
				"bar series timestamps must be strictly increasing: index %d (%s) does not follow index %d (%s)",
				i, bars[i].Time.Format(time.RFC3339), i-1, bars[i-1].Time.Format(time.RFC3339))
		}
	}

	return nil
}
