package setup

import "HypeBot/internal/model"

// Mean-reversion thresholds. Fixed policy, not configurable.
const (
	reversionVWAPDistance = 0.02 // required divergence from VWAP
	reversionRSILong      = 30.0 // oversold zone for a long
	reversionRSIShort     = 70.0 // overbought zone for a short
)

// checkReversion detects a counter-trend snap-back: price stretched more
// than 2% away from VWAP, RSI in an extreme zone, and the signal candle
// closing against the stretch. The stop sits at the candle's extreme and
// the target is VWAP itself.
func checkReversion(sig model.IndicatorRow) *model.SetupSignal {
	distBelow := (sig.VWAP - sig.Close) / sig.VWAP
	if distBelow > reversionVWAPDistance && sig.RSI < reversionRSILong && sig.Bullish() {
		return &model.SetupSignal{
			Direction:      model.Long,
			Family:         model.Reversion,
			ReferencePrice: sig.Close,
			SignalTime:     sig.OpenTime,
			StopLoss:       sig.Low,
			TakeProfit:     sig.VWAP,
		}
	}

	distAbove := (sig.Close - sig.VWAP) / sig.VWAP
	if distAbove > reversionVWAPDistance && sig.RSI > reversionRSIShort && sig.Bearish() {
		return &model.SetupSignal{
			Direction:      model.Short,
			Family:         model.Reversion,
			ReferencePrice: sig.Close,
			SignalTime:     sig.OpenTime,
			StopLoss:       sig.High,
			TakeProfit:     sig.VWAP,
		}
	}
	return nil
}
