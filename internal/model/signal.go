package model

import "time"

// Direction is the side of a trade idea.
type Direction string

const (
	Long  Direction = "LONG"
	Short Direction = "SHORT"
)

// SetupFamily names the rule family that produced a signal.
type SetupFamily string

const (
	Breakout  SetupFamily = "BREAKOUT"
	Pullback  SetupFamily = "PULLBACK"
	Reversion SetupFamily = "REVERSION"
)

// SetupSignal is the final output of the setup classifier: at most one per
// scan, immutable, returned synchronously with no lifecycle of its own.
type SetupSignal struct {
	Direction      Direction
	Family         SetupFamily
	ReferencePrice float64
	SignalTime     time.Time
	StopLoss       float64
	TakeProfit     float64
}
