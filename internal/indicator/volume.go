package indicator

import (
	"math"

	"HypeBot/internal/model"
)

// VolumeSMA computes the simple trailing rolling mean of volume. The first
// window-1 rows are NaN: the field is undefined until the window is
// complete, and consumers must respect that warm-up boundary.
func VolumeSMA(series []model.Candle, window int) []float64 {
	n := len(series)
	out := make([]float64, n)

	var sum float64
	for i := 0; i < n; i++ {
		sum += series[i].Volume
		if i >= window {
			sum -= series[i-window].Volume
		}
		if i >= window-1 {
			out[i] = sum / float64(window)
		} else {
			out[i] = math.NaN()
		}
	}
	return out
}
