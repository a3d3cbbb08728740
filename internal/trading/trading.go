// Package trading runs the live trading loop: fetch recent bars, ask the
// strategy for a signal and turn allowed signals into market orders.
package trading

import (
	"context"

	"github.com/quantbeak/macross/internal/types"
)

// Order describes a market order to execute. Side carries the originating
// signal direction; only buy and sell are valid.
type Order struct {
	Symbol   string
	Side     types.SignalType
	Quantity float64
}

// TradingProvider executes orders against an exchange.
type TradingProvider interface {
	// PlaceMarketOrder submits a market order and returns once the exchange
	// has accepted it.
	PlaceMarketOrder(ctx context.Context, order Order) error
	// GetBalance returns the free balance of an asset, e.g. "USDT".
	GetBalance(ctx context.Context, asset string) (float64, error)
}

// BarWriter persists the bars a cycle analyzed. The DuckDB writer satisfies
// this; tests substitute fakes.
type BarWriter interface {
	WriteBars(bars []types.Bar) error
}
