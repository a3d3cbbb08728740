package types

import "time"

type PositionType string

const (
	PositionTypeFlat PositionType = "FLAT"
	PositionTypeLong PositionType = "LONG"
)

// Trade is one completed round trip: a long position opened and later closed.
// Entry and exit prices come from the bar that produced the corresponding
// signal, filled one bar after the signal bar.
type Trade struct {
	ID         string    `yaml:"id" csv:"id"`
	Symbol     string    `yaml:"symbol" csv:"symbol"`
	EntryTime  time.Time `yaml:"entry_time" csv:"entry_time"`
	EntryPrice float64   `yaml:"entry_price" csv:"entry_price"`
	ExitTime   time.Time `yaml:"exit_time" csv:"exit_time"`
	ExitPrice  float64   `yaml:"exit_price" csv:"exit_price"`
	// ReturnPct is exit_price / entry_price - 1.
	ReturnPct float64 `yaml:"return_pct" csv:"return_pct"`
}
