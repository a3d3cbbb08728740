// Package provider fetches recent bar series from exchange APIs.
package provider

import (
	"context"

	"github.com/quantbeak/macross/internal/types"
)

// Provider returns the most recent bars for a symbol at a given interval,
// oldest first. Implementations must return an error rather than a partial
// or unordered series.
type Provider interface {
	// GetBars fetches up to limit bars ending at the current time.
	GetBars(ctx context.Context, symbol string, interval string, limit int) ([]types.Bar, error)
}
