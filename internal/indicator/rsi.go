package indicator

import "HypeBot/internal/model"

// RSI computes the Relative Strength Index from close-to-close changes,
// averaging gains and losses over a trailing rolling window of `period`
// changes.
//
// Fill policy: the first `period` rows carry the neutral 50, an explicit
// placeholder rather than a measurement. A window with no losses yields
// exactly 100 (the gain/loss ratio is unbounded there); a completely flat
// window yields 50.
func RSI(series []model.Candle, period int) []float64 {
	n := len(series)
	out := make([]float64, n)
	for i := 0; i < n && i < period; i++ {
		out[i] = 50
	}

	for i := period; i < n; i++ {
		var gain, loss float64
		for j := i - period + 1; j <= i; j++ {
			change := series[j].Close - series[j-1].Close
			if change > 0 {
				gain += change
			} else {
				loss -= change
			}
		}
		switch {
		case loss == 0 && gain == 0:
			out[i] = 50
		case loss == 0:
			out[i] = 100
		default:
			rs := gain / loss
			out[i] = 100 - 100/(1+rs)
		}
	}
	return out
}
