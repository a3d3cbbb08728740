package types

import "math"

// IndicatorPoint is one bar annotated with the crossover strategy's indicator
// columns and the signal the strategy assigned to that bar. Undefined
// indicator values (fewer bars than the window needs) are NaN.
type IndicatorPoint struct {
	Bar     `yaml:",inline"`
	ShortMA float64    `yaml:"short_ma" csv:"short_ma"`
	LongMA  float64    `yaml:"long_ma" csv:"long_ma"`
	Signal  SignalType `yaml:"signal" csv:"signal"`
}

// IndicatorSeries is a bar series annotated with indicator and signal columns.
// It has the same length and order as the input series and is the only
// artifact other layers may serialize or chart.
type IndicatorSeries []IndicatorPoint

// HasDefinedIndicators reports whether at least one point in the series has
// every indicator column defined.
func (s IndicatorSeries) HasDefinedIndicators() bool {
	for _, p := range s {
		if !math.IsNaN(p.ShortMA) && !math.IsNaN(p.LongMA) {
			return true
		}
	}

	return false
}
