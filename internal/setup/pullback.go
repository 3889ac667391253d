package setup

import "HypeBot/internal/model"

// Pullback thresholds. Fixed policy, not configurable.
const (
	pullbackBandLongLow   = 25.0 // prior-candle RSI band for a long
	pullbackBandLongHigh  = 40.0
	pullbackBandShortLow  = 60.0 // prior-candle RSI band for a short
	pullbackBandShortHigh = 75.0

	// The recovering RSI must not have swung all the way to the opposite
	// extreme: it stays below the short band's far edge for a long and
	// above the long band's far edge for a short.
	pullbackRSICeiling = pullbackBandShortHigh // long
	pullbackRSIFloor   = pullbackBandLongLow   // short

	// Touch-and-bounce evidence: within the lookback window one candle
	// must have come within this fraction of the slow EMA. The window is
	// offsets 2 through 4 from the end of the row series, the signal
	// candle and the two before it.
	pullbackTouchTolerance  = 0.003
	pullbackTouchWindowNear = 2
	pullbackTouchWindowFar  = 4

	pullbackStopBuffer  = 0.002 // stop sits just beyond the support level
	pullbackRewardRatio = 2.0   // take-profit at 1:2 risk:reward
)

// checkPullback detects a trend-following entry: trend alignment via VWAP
// and EMA ordering, a two-stage RSI confirmation (prior candle in the
// pullback band, signal candle recovering toward neutral), and recent price
// proximity to the slow EMA.
func checkPullback(rows []model.IndicatorRow) *model.SetupSignal {
	n := len(rows)
	sig := rows[n-2]
	prev := rows[n-3]

	trendUp := sig.Close > sig.VWAP && sig.EMAFast > sig.EMASlow
	if trendUp {
		rsiStaged := prev.RSI >= pullbackBandLongLow && prev.RSI <= pullbackBandLongHigh &&
			sig.RSI > prev.RSI && sig.RSI < pullbackRSICeiling
		if rsiStaged && touchedSupportFromAbove(rows) {
			// Tighter of the two support levels: the one closer to price.
			level := sig.EMASlow
			if sig.VWAP > level {
				level = sig.VWAP
			}
			stop := level * (1 - pullbackStopBuffer)
			risk := sig.Close - stop
			return &model.SetupSignal{
				Direction:      model.Long,
				Family:         model.Pullback,
				ReferencePrice: sig.Close,
				SignalTime:     sig.OpenTime,
				StopLoss:       stop,
				TakeProfit:     sig.Close + pullbackRewardRatio*risk,
			}
		}
	}

	trendDown := sig.Close < sig.VWAP && sig.EMAFast < sig.EMASlow
	if trendDown {
		rsiStaged := prev.RSI >= pullbackBandShortLow && prev.RSI <= pullbackBandShortHigh &&
			sig.RSI < prev.RSI && sig.RSI > pullbackRSIFloor
		if rsiStaged && touchedResistanceFromBelow(rows) {
			level := sig.EMASlow
			if sig.VWAP < level {
				level = sig.VWAP
			}
			stop := level * (1 + pullbackStopBuffer)
			risk := stop - sig.Close
			return &model.SetupSignal{
				Direction:      model.Short,
				Family:         model.Pullback,
				ReferencePrice: sig.Close,
				SignalTime:     sig.OpenTime,
				StopLoss:       stop,
				TakeProfit:     sig.Close - pullbackRewardRatio*risk,
			}
		}
	}
	return nil
}

func touchedSupportFromAbove(rows []model.IndicatorRow) bool {
	n := len(rows)
	for off := pullbackTouchWindowNear; off <= pullbackTouchWindowFar; off++ {
		r := rows[n-off]
		if r.Low <= r.EMASlow*(1+pullbackTouchTolerance) {
			return true
		}
	}
	return false
}

func touchedResistanceFromBelow(rows []model.IndicatorRow) bool {
	n := len(rows)
	for off := pullbackTouchWindowNear; off <= pullbackTouchWindowFar; off++ {
		r := rows[n-off]
		if r.High >= r.EMASlow*(1-pullbackTouchTolerance) {
			return true
		}
	}
	return false
}
