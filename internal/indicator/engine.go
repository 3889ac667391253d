package indicator

import (
	"HypeBot/internal/model"
)

// Indicator parameters. These are the classifier's fixed policy, shared by
// every scan; they are not tunable per call.
const (
	RSIPeriod    = 9
	EMAFastSpan  = 9
	EMASlowSpan  = 21
	VolumeWindow = 20
)

// Compute derives one IndicatorRow per input candle: RSI, fast/slow EMA,
// session-anchored VWAP and volume SMA. The input series is never mutated.
// Malformed input (empty, non-monotonic timestamps, broken OHLC invariants)
// fails with model.ErrMalformedSeries before any computation.
func Compute(series []model.Candle) ([]model.IndicatorRow, error) {
	if err := model.ValidateSeries(series); err != nil {
		return nil, err
	}

	rsi := RSI(series, RSIPeriod)
	emaFast := EMA(series, EMAFastSpan)
	emaSlow := EMA(series, EMASlowSpan)
	vwap := SessionVWAP(series)
	volSMA := VolumeSMA(series, VolumeWindow)

	rows := make([]model.IndicatorRow, len(series))
	for i, c := range series {
		rows[i] = model.IndicatorRow{
			Candle:  c,
			RSI:     rsi[i],
			EMAFast: emaFast[i],
			EMASlow: emaSlow[i],
			VWAP:    vwap[i],
			VolSMA:  volSMA[i],
		}
	}
	return rows, nil
}
