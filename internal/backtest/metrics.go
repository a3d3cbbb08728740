package backtest

import (
	"github.com/shopspring/decimal"

	"github.com/quantbeak/macross/internal/types"
)

// CalculateMetrics derives the aggregate metrics from a list of completed
// trades. A zero-return trade counts as neither win nor loss and is left out
// of the totals; an open position at series end never reaches this function.
// The rate and mean fields are 0, not NaN, when there is nothing to average.
func CalculateMetrics(trades []types.Trade) types.Metrics {
	var m types.Metrics

	cumulative := decimal.NewFromInt(1)

	var winSum, lossSum float64

	for _, t := range trades {
		if t.ReturnPct == 0 {
			continue
		}

		m.TotalTrades++

		// Compounding, not additive: the product of (1 + r) in decimal
		// arithmetic keeps long products free of float drift.
		cumulative = cumulative.Mul(decimal.NewFromInt(1).Add(decimal.NewFromFloat(t.ReturnPct)))

		if t.ReturnPct > 0 {
			m.WinningTrades++
			winSum += t.ReturnPct
		} else {
			m.LosingTrades++
			lossSum += t.ReturnPct
		}
	}

	if m.TotalTrades > 0 {
		m.WinRate = float64(m.WinningTrades) / float64(m.TotalTrades)

		cumulativeReturn, _ := cumulative.Sub(decimal.NewFromInt(1)).Float64()
		m.CumulativeReturn = cumulativeReturn
	}

	if m.WinningTrades > 0 {
		m.AvgWin = winSum / float64(m.WinningTrades)
	}

	if m.LosingTrades > 0 {
		m.AvgLoss = lossSum / float64(m.LosingTrades)
	}

	return m
}
