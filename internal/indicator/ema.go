package indicator

import "HypeBot/internal/model"

// EMA computes the exponential moving average of closes with smoothing
// factor 2/(span+1). The series is seeded with the first close, so every
// row carries a value with no warm-up gap.
func EMA(series []model.Candle, span int) []float64 {
	n := len(series)
	out := make([]float64, n)
	if n == 0 {
		return out
	}
	alpha := 2.0 / float64(span+1)
	out[0] = series[0].Close
	for i := 1; i < n; i++ {
		out[i] = alpha*series[i].Close + (1-alpha)*out[i-1]
	}
	return out
}
