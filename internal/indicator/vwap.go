package indicator

import "HypeBot/internal/model"

// SessionVWAP computes the volume-weighted average price anchored to the
// UTC calendar day: cumulative typical-price*volume over cumulative volume,
// with both sums resetting on the first candle of each UTC day. Callers
// should supply at least one full day of lookback so the current session is
// not truncated.
//
// While the session's cumulative volume is zero the row falls back to its
// own typical price, keeping the output NaN-free.
func SessionVWAP(series []model.Candle) []float64 {
	n := len(series)
	out := make([]float64, n)

	var cumPV, cumVol float64
	var sessionY int
	var sessionD int
	for i, c := range series {
		y, d := c.OpenTime.UTC().Year(), c.OpenTime.UTC().YearDay()
		if i == 0 || y != sessionY || d != sessionD {
			cumPV, cumVol = 0, 0
			sessionY, sessionD = y, d
		}
		cumPV += c.TypicalPrice() * c.Volume
		cumVol += c.Volume
		if cumVol > 0 {
			out[i] = cumPV / cumVol
		} else {
			out[i] = c.TypicalPrice()
		}
	}
	return out
}
