// Package position holds the state machines that turn signals into position
// changes: Machine tracks the flat/long position itself, Gate tracks the last
// executed action for live deduplication. Neither is safe for concurrent
// mutation; the orchestrator serializes cycles.
package position

import (
	"time"

	"github.com/google/uuid"
	"github.com/moznion/go-optional"

	"github.com/quantbeak/macross/internal/types"
)

// Machine is the flat/long position state machine. It starts flat, never
// holds more than one open position and never goes short. Given the same
// sequence of steps it always produces the same trades.
type Machine struct {
	symbol     string
	position   types.PositionType
	entryTime  time.Time
	entryPrice float64
}

// NewMachine creates a position state machine in the flat state.
func NewMachine(symbol string) *Machine {
	return &Machine{
		symbol:   symbol,
		position: types.PositionTypeFlat,
	}
}

// Position returns the current position state.
func (m *Machine) Position() types.PositionType {
	return m.position
}

// EntryPrice returns the entry price of the open position, or 0 when flat.
func (m *Machine) EntryPrice() float64 {
	if m.position != types.PositionTypeLong {
		return 0
	}

	return m.entryPrice
}

// Reset returns the machine to the flat state, discarding any open position.
func (m *Machine) Reset() {
	m.position = types.PositionTypeFlat
	m.entryTime = time.Time{}
	m.entryPrice = 0
}

// CanTransition reports whether the given signal would change the position:
// buy while flat or sell while long. Everything else, including repeated
// same-direction signals, is a no-op.
func (m *Machine) CanTransition(sig types.SignalType) bool {
	switch sig {
	case types.SignalTypeBuy:
		return m.position == types.PositionTypeFlat
	case types.SignalTypeSell:
		return m.position == types.PositionTypeLong
	default:
		return false
	}
}

// Step applies one signal with the price and time of the bar it was drawn
// from. Opening a position returns nothing; closing one returns the
// completed trade with its realized return. Signals that cannot transition
// leave the machine untouched.
func (m *Machine) Step(sig types.SignalType, price float64, ts time.Time) optional.Option[types.Trade] {
	if !m.CanTransition(sig) {
		return optional.None[types.Trade]()
	}

	if sig == types.SignalTypeBuy {
		m.position = types.PositionTypeLong
		m.entryPrice = price
		m.entryTime = ts

		return optional.None[types.Trade]()
	}

	trade := types.Trade{
		ID:         uuid.New().String(),
		Symbol:     m.symbol,
		EntryTime:  m.entryTime,
		EntryPrice: m.entryPrice,
		ExitTime:   ts,
		ExitPrice:  price,
		ReturnPct:  price/m.entryPrice - 1,
	}

	m.Reset()

	return optional.Some(trade)
}

// Gate suppresses repeated actions in live mode: an action is allowed only
// when it differs from the last executed action, independent of the formal
// position state. Holds issued between repeats do not reset the gate.
type Gate struct {
	lastAction types.SignalType
}

// NewGate creates a gate with no action taken yet.
func NewGate() *Gate {
	return &Gate{
		lastAction: types.SignalTypeHold,
	}
}

// Allows reports whether the signal may be executed: it must be an action
// and it must differ from the last executed action.
func (g *Gate) Allows(sig types.SignalType) bool {
	return sig != types.SignalTypeHold && sig != g.lastAction
}

// Record stores an executed action. Call it only after the order went
// through, so a failed order can be retried on the next cycle.
func (g *Gate) Record(sig types.SignalType) {
	g.lastAction = sig
}

// LastAction returns the last executed action, or hold when none was taken.
func (g *Gate) LastAction() types.SignalType {
	return g.lastAction
}
