package model

import (
	"errors"
	"fmt"
	"time"
)

// ErrMalformedSeries is returned when a candle series violates its
// invariants: empty input, non-monotonic timestamps, broken OHLC ordering
// or negative volume. It is the only error the analysis core originates.
var ErrMalformedSeries = errors.New("malformed candle series")

// Candle represents a single OHLCV bar.
type Candle struct {
	OpenTime time.Time
	Open     float64
	High     float64
	Low      float64
	Close    float64
	Volume   float64
}

// Body returns the absolute size of the candle body.
func (c Candle) Body() float64 {
	if c.Close >= c.Open {
		return c.Close - c.Open
	}
	return c.Open - c.Close
}

// Bullish reports whether the candle closed above its open.
func (c Candle) Bullish() bool { return c.Close > c.Open }

// Bearish reports whether the candle closed below its open.
func (c Candle) Bearish() bool { return c.Close < c.Open }

// TypicalPrice returns (high + low + close) / 3.
func (c Candle) TypicalPrice() float64 {
	return (c.High + c.Low + c.Close) / 3
}

// ValidateSeries checks the series invariants: non-empty, strictly
// increasing open times, low <= min(open,close) <= max(open,close) <= high,
// volume >= 0. Any violation is reported as ErrMalformedSeries.
func ValidateSeries(series []Candle) error {
	if len(series) == 0 {
		return fmt.Errorf("%w: empty series", ErrMalformedSeries)
	}
	for i, c := range series {
		if i > 0 && !c.OpenTime.After(series[i-1].OpenTime) {
			return fmt.Errorf("%w: non-monotonic open time at index %d (%v after %v)",
				ErrMalformedSeries, i, c.OpenTime, series[i-1].OpenTime)
		}
		lo, hi := c.Open, c.Close
		if lo > hi {
			lo, hi = hi, lo
		}
		if c.Low > lo || c.High < hi {
			return fmt.Errorf("%w: OHLC ordering violated at index %d (O=%g H=%g L=%g C=%g)",
				ErrMalformedSeries, i, c.Open, c.High, c.Low, c.Close)
		}
		if c.Volume < 0 {
			return fmt.Errorf("%w: negative volume at index %d", ErrMalformedSeries, i)
		}
	}
	return nil
}
