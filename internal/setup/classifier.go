package setup

import (
	"HypeBot/internal/indicator"
	"HypeBot/internal/model"
)

// MinHistory is the minimum number of candles required before any rule is
// evaluated. Shorter (but well-formed) input is a normal "no signal"
// outcome, never an error.
const MinHistory = 50

// Find computes indicators for the series and classifies the most recent
// closed candle. It returns the signal (nil when no rule fired) together
// with the full indicator row series.
//
// The last element of the series is treated as still forming and is
// excluded from evaluation. An empty series yields no signal and no rows;
// a malformed series fails with model.ErrMalformedSeries.
func Find(series []model.Candle) (*model.SetupSignal, []model.IndicatorRow, error) {
	if len(series) == 0 {
		return nil, nil, nil
	}
	rows, err := indicator.Compute(series)
	if err != nil {
		return nil, nil, err
	}
	return Evaluate(rows), rows, nil
}

// Evaluate runs the three rule families over precomputed indicator rows in
// fixed priority order: Breakout, then Pullback, then Reversion. The first
// match wins; at most one signal is produced. Evaluate holds no state, so
// identical rows always yield an identical result.
func Evaluate(rows []model.IndicatorRow) *model.SetupSignal {
	if len(rows) < MinHistory {
		return nil
	}

	n := len(rows)
	sig := rows[n-2]
	prev := rows[n-3]

	if s := checkBreakout(sig, prev); s != nil {
		return s
	}
	if s := checkPullback(rows); s != nil {
		return s
	}
	if s := checkReversion(sig); s != nil {
		return s
	}
	return nil
}
