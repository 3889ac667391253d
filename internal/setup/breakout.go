package setup

import "HypeBot/internal/model"

// Breakout thresholds. Fixed policy, not configurable.
const (
	breakoutRSILong    = 60.0  // signal RSI must exceed this for a long
	breakoutRSIShort   = 40.0  // signal RSI must be below this for a short
	breakoutVolRatio   = 1.2   // volume vs prior candle
	breakoutBodyRatio  = 1.5   // candle body vs prior body
	breakoutStopOffset = 0.005 // stop-loss distance from close
	breakoutTakeOffset = 0.015 // take-profit distance from close
)

// checkBreakout detects an impulse candle through VWAP with momentum
// confirmation: volume up at least 20% and body at least 50% larger than
// the prior candle's.
func checkBreakout(sig, prev model.IndicatorRow) *model.SetupSignal {
	volSurge := sig.Volume >= prev.Volume*breakoutVolRatio
	bigBody := sig.Body() >= prev.Body()*breakoutBodyRatio
	if !volSurge || !bigBody {
		return nil
	}

	if sig.Close > sig.VWAP && sig.RSI > breakoutRSILong && sig.Bullish() {
		return &model.SetupSignal{
			Direction:      model.Long,
			Family:         model.Breakout,
			ReferencePrice: sig.Close,
			SignalTime:     sig.OpenTime,
			StopLoss:       sig.Close * (1 - breakoutStopOffset),
			TakeProfit:     sig.Close * (1 + breakoutTakeOffset),
		}
	}
	if sig.Close < sig.VWAP && sig.RSI < breakoutRSIShort && sig.Bearish() {
		return &model.SetupSignal{
			Direction:      model.Short,
			Family:         model.Breakout,
			ReferencePrice: sig.Close,
			SignalTime:     sig.OpenTime,
			StopLoss:       sig.Close * (1 + breakoutStopOffset),
			TakeProfit:     sig.Close * (1 - breakoutTakeOffset),
		}
	}
	return nil
}
