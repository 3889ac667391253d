package model

import "time"

// PivotKind distinguishes local highs from local lows.
type PivotKind string

const (
	Peak   PivotKind = "PEAK"
	Valley PivotKind = "VALLEY"
)

// Pivot is a locally extreme close confirmed (or, for the trailing pivot,
// anticipated) by an opposite-direction move. In a pivot sequence the kind
// strictly alternates, except possibly for the final tentative pivot which
// future candles may still revise.
type Pivot struct {
	Index int
	Price float64
	Kind  PivotKind
	Time  time.Time
}
