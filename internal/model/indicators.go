package model

// IndicatorRow is a candle together with all indicator values computed for
// it. Rows are positionally aligned with the input series: one row per
// candle, same ordering, same length.
//
// Fill policy per field: RSI is the neutral 50 until its window is
// complete, both EMAs are seeded from the first close so they carry values
// from row zero, VolSMA is NaN for the first window-1 rows, and VWAP is
// defined on every row (anchored to the candle's UTC day).
type IndicatorRow struct {
	Candle

	RSI     float64
	EMAFast float64
	EMASlow float64
	VWAP    float64
	VolSMA  float64
}
