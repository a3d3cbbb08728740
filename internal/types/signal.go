package types

import "time"

type SignalType string

const (
	// SignalTypeBuy tells the trading layer to open a long position
	SignalTypeBuy SignalType = "buy"
	// SignalTypeSell tells the trading layer to close the long position
	SignalTypeSell SignalType = "sell"
	// SignalTypeHold tells the trading layer to take no action
	SignalTypeHold SignalType = "hold"
)

type Signal struct {
	// Time is the time of the bar that produced the signal
	Time time.Time
	// Type is the type of the signal
	Type SignalType
	// Name is the name of the strategy that generated the signal
	Name string
	// Reason is the reason for the signal
	Reason string
	// Symbol is the symbol of the signal
	Symbol string
}
