package setup

import (
	"errors"
	"math"
	"reflect"
	"testing"
	"time"

	"HypeBot/internal/model"
)

var rowStart = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

// neutralRows builds n rows on which no rule family fires: price pinned to
// VWAP, flat EMAs, neutral RSI, steady volume.
func neutralRows(n int) []model.IndicatorRow {
	rows := make([]model.IndicatorRow, n)
	for i := range rows {
		rows[i] = model.IndicatorRow{
			Candle: model.Candle{
				OpenTime: rowStart.Add(time.Duration(i) * time.Hour),
				Open:     100,
				High:     101,
				Low:      99,
				Close:    100,
				Volume:   100,
			},
			RSI:     50,
			EMAFast: 100,
			EMASlow: 100,
			VWAP:    100,
			VolSMA:  100,
		}
	}
	return rows
}

func approx(got, want float64) bool {
	return math.Abs(got-want) <= 1e-9
}

func TestEvaluate_ShortHistoryNoSignal(t *testing.T) {
	if sig := Evaluate(neutralRows(MinHistory - 1)); sig != nil {
		t.Fatalf("expected no signal under the history minimum, got %+v", sig)
	}
}

func TestEvaluate_NeutralMarketNoSignal(t *testing.T) {
	if sig := Evaluate(neutralRows(200)); sig != nil {
		t.Fatalf("expected no signal on a neutral market, got %+v", sig)
	}
}

func TestEvaluate_BreakoutLong(t *testing.T) {
	rows := neutralRows(MinHistory)
	n := len(rows)

	prev := &rows[n-3]
	prev.Open, prev.Close, prev.High, prev.Low = 100, 101, 101.5, 99.5
	prev.Volume = 100

	sig := &rows[n-2]
	sig.Open, sig.Close, sig.High, sig.Low = 100, 110, 110.5, 99.5
	sig.Volume = 200
	sig.VWAP = 105
	sig.RSI = 65

	got := Evaluate(rows)
	if got == nil {
		t.Fatal("expected a breakout signal")
	}
	if got.Family != model.Breakout || got.Direction != model.Long {
		t.Fatalf("got %s %s, want Long Breakout", got.Direction, got.Family)
	}
	if got.ReferencePrice != 110 {
		t.Errorf("reference price = %g, want the signal close 110", got.ReferencePrice)
	}
	if !approx(got.StopLoss, 110*0.995) {
		t.Errorf("stop = %g, want %g", got.StopLoss, 110*0.995)
	}
	if !approx(got.TakeProfit, 110*1.015) {
		t.Errorf("take = %g, want %g", got.TakeProfit, 110*1.015)
	}
	if !got.SignalTime.Equal(rows[n-2].OpenTime) {
		t.Errorf("signal time = %v, want the signal candle's open time", got.SignalTime)
	}
}

func TestEvaluate_BreakoutShort(t *testing.T) {
	rows := neutralRows(MinHistory)
	n := len(rows)

	prev := &rows[n-3]
	prev.Open, prev.Close, prev.High, prev.Low = 100, 99, 100.5, 98.5
	prev.Volume = 100

	sig := &rows[n-2]
	sig.Open, sig.Close, sig.High, sig.Low = 100, 90, 100.5, 89.5
	sig.Volume = 200
	sig.VWAP = 95
	sig.RSI = 35

	got := Evaluate(rows)
	if got == nil {
		t.Fatal("expected a breakout signal")
	}
	if got.Family != model.Breakout || got.Direction != model.Short {
		t.Fatalf("got %s %s, want Short Breakout", got.Direction, got.Family)
	}
	if !approx(got.StopLoss, 90*1.005) || !approx(got.TakeProfit, 90*0.985) {
		t.Errorf("levels = %g/%g, want %g/%g", got.StopLoss, got.TakeProfit, 90*1.005, 90*0.985)
	}
}

func TestEvaluate_BreakoutNeedsVolumeAndBody(t *testing.T) {
	base := func() []model.IndicatorRow {
		rows := neutralRows(MinHistory)
		n := len(rows)
		prev := &rows[n-3]
		prev.Open, prev.Close, prev.High, prev.Low = 100, 101, 101.5, 99.5
		sig := &rows[n-2]
		sig.Open, sig.Close, sig.High, sig.Low = 100, 110, 110.5, 99.5
		sig.Volume = 200
		sig.VWAP = 105
		sig.RSI = 65
		return rows
	}

	rows := base()
	rows[len(rows)-2].Volume = 110 // under the 1.2x surge
	if got := Evaluate(rows); got != nil {
		t.Fatalf("expected no signal without a volume surge, got %+v", got)
	}

	rows = base()
	rows[len(rows)-3].Open = 100
	rows[len(rows)-3].Close = 109 // prior body too large for a 1.5x expansion
	rows[len(rows)-3].High = 109.5
	if got := Evaluate(rows); got != nil {
		t.Fatalf("expected no signal without body expansion, got %+v", got)
	}
}

func TestEvaluate_PullbackLong(t *testing.T) {
	rows := neutralRows(MinHistory)
	n := len(rows)

	rows[n-3].RSI = 32 // prior candle inside the pullback band

	sig := &rows[n-2]
	sig.Open, sig.Close, sig.High, sig.Low = 104, 105, 106, 100
	sig.Volume = 100 // no surge, so breakout stays quiet
	sig.VWAP = 102
	sig.EMAFast = 103
	sig.EMASlow = 101
	sig.RSI = 50

	got := Evaluate(rows)
	if got == nil {
		t.Fatal("expected a pullback signal")
	}
	if got.Family != model.Pullback || got.Direction != model.Long {
		t.Fatalf("got %s %s, want Long Pullback", got.Direction, got.Family)
	}
	if got.ReferencePrice != 105 {
		t.Errorf("reference price = %g, want 105", got.ReferencePrice)
	}
	// VWAP (102) is the tighter support, stop sits 0.2% under it.
	wantStop := 102 * 0.998
	if !approx(got.StopLoss, wantStop) {
		t.Errorf("stop = %g, want %g", got.StopLoss, wantStop)
	}
	wantTake := 105 + 2*(105-wantStop)
	if !approx(got.TakeProfit, wantTake) {
		t.Errorf("take = %g, want 1:2 target %g", got.TakeProfit, wantTake)
	}
}

func TestEvaluate_PullbackShort(t *testing.T) {
	rows := neutralRows(MinHistory)
	n := len(rows)

	rows[n-3].RSI = 68

	sig := &rows[n-2]
	sig.Open, sig.Close, sig.High, sig.Low = 96, 95, 100, 94
	sig.Volume = 100
	sig.VWAP = 98
	sig.EMAFast = 97
	sig.EMASlow = 99
	sig.RSI = 50

	got := Evaluate(rows)
	if got == nil {
		t.Fatal("expected a pullback signal")
	}
	if got.Family != model.Pullback || got.Direction != model.Short {
		t.Fatalf("got %s %s, want Short Pullback", got.Direction, got.Family)
	}
	// VWAP (98) is the tighter resistance.
	wantStop := 98 * 1.002
	if !approx(got.StopLoss, wantStop) {
		t.Errorf("stop = %g, want %g", got.StopLoss, wantStop)
	}
	wantTake := 95 - 2*(wantStop-95)
	if !approx(got.TakeProfit, wantTake) {
		t.Errorf("take = %g, want %g", got.TakeProfit, wantTake)
	}
}

func TestEvaluate_PullbackNeedsRSIRecovery(t *testing.T) {
	rows := neutralRows(MinHistory)
	n := len(rows)
	rows[n-3].RSI = 32
	sig := &rows[n-2]
	sig.Open, sig.Close, sig.High, sig.Low = 104, 105, 106, 100
	sig.VWAP = 102
	sig.EMAFast = 103
	sig.EMASlow = 101
	sig.RSI = 30 // fell instead of recovering

	if got := Evaluate(rows); got != nil {
		t.Fatalf("expected no signal without RSI recovery, got %+v", got)
	}
}

func TestEvaluate_PullbackNeedsTouch(t *testing.T) {
	rows := neutralRows(MinHistory)
	n := len(rows)
	rows[n-3].RSI = 32
	for off := 2; off <= 4; off++ {
		rows[n-off].Low = 104 // well clear of the slow EMA
		rows[n-off].EMASlow = 101
	}
	sig := &rows[n-2]
	sig.Open, sig.Close, sig.High = 104.5, 105, 106
	sig.VWAP = 102
	sig.EMAFast = 103
	sig.RSI = 50

	if got := Evaluate(rows); got != nil {
		t.Fatalf("expected no signal without an EMA touch, got %+v", got)
	}
}

func TestEvaluate_BreakoutBeatsPullback(t *testing.T) {
	build := func() []model.IndicatorRow {
		rows := neutralRows(MinHistory)
		n := len(rows)

		prev := &rows[n-3]
		prev.Open, prev.Close, prev.High, prev.Low = 100, 100.5, 101, 99.5
		prev.Volume = 100
		prev.RSI = 35 // inside the pullback band

		sig := &rows[n-2]
		sig.Open, sig.Close, sig.High, sig.Low = 100, 110, 110.5, 100
		sig.Volume = 200
		sig.VWAP = 105
		sig.EMAFast = 108
		sig.EMASlow = 106 // sig.Low touches 106*1.003
		sig.RSI = 65
		return rows
	}

	// Both rule families accept this tape: killing the volume surge turns
	// the same rows into a pullback.
	rows := build()
	rows[len(rows)-2].Volume = 100
	if got := Evaluate(rows); got == nil || got.Family != model.Pullback {
		t.Fatalf("without the surge, want Pullback, got %+v", got)
	}

	rows = build()
	got := Evaluate(rows)
	if got == nil || got.Family != model.Breakout {
		t.Fatalf("with both families armed, want Breakout to win, got %+v", got)
	}
	if got.Direction != model.Long {
		t.Fatalf("direction = %s, want Long", got.Direction)
	}
}

func TestEvaluate_ReversionLong(t *testing.T) {
	rows := neutralRows(MinHistory)
	n := len(rows)

	sig := &rows[n-2]
	sig.Open, sig.Close, sig.High, sig.Low = 96.5, 97, 97.5, 96
	sig.VWAP = 100 // 3% stretch below
	sig.RSI = 25

	got := Evaluate(rows)
	if got == nil {
		t.Fatal("expected a reversion signal")
	}
	if got.Family != model.Reversion || got.Direction != model.Long {
		t.Fatalf("got %s %s, want Long Reversion", got.Direction, got.Family)
	}
	if got.StopLoss != 96 {
		t.Errorf("stop = %g, want the candle low 96", got.StopLoss)
	}
	if got.TakeProfit != 100 {
		t.Errorf("take = %g, want VWAP 100", got.TakeProfit)
	}
}

func TestEvaluate_ReversionShort(t *testing.T) {
	rows := neutralRows(MinHistory)
	n := len(rows)

	sig := &rows[n-2]
	sig.Open, sig.Close, sig.High, sig.Low = 103.5, 103, 104, 102.5
	sig.VWAP = 100
	sig.RSI = 75

	got := Evaluate(rows)
	if got == nil {
		t.Fatal("expected a reversion signal")
	}
	if got.Family != model.Reversion || got.Direction != model.Short {
		t.Fatalf("got %s %s, want Short Reversion", got.Direction, got.Family)
	}
	if got.StopLoss != 104 || got.TakeProfit != 100 {
		t.Errorf("levels = %g/%g, want 104/100", got.StopLoss, got.TakeProfit)
	}
}

func TestEvaluate_ReversionNeedsStretch(t *testing.T) {
	rows := neutralRows(MinHistory)
	n := len(rows)
	sig := &rows[n-2]
	sig.Open, sig.Close, sig.High, sig.Low = 98.2, 98.5, 99, 98 // only 1.5% below
	sig.VWAP = 100
	sig.RSI = 25

	if got := Evaluate(rows); got != nil {
		t.Fatalf("expected no signal under the 2%% stretch, got %+v", got)
	}
}

func TestEvaluate_LastRowIsIgnored(t *testing.T) {
	rows := neutralRows(MinHistory)
	n := len(rows)

	// A perfect reversion tape on the forming candle must not fire.
	last := &rows[n-1]
	last.Open, last.Close, last.High, last.Low = 96.5, 97, 97.5, 96
	last.VWAP = 100
	last.RSI = 25

	if got := Evaluate(rows); got != nil {
		t.Fatalf("forming candle produced a signal: %+v", got)
	}
}

func TestEvaluate_Deterministic(t *testing.T) {
	rows := neutralRows(MinHistory)
	n := len(rows)
	sig := &rows[n-2]
	sig.Open, sig.Close, sig.High, sig.Low = 96.5, 97, 97.5, 96
	sig.VWAP = 100
	sig.RSI = 25

	a := Evaluate(rows)
	b := Evaluate(rows)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("same rows produced different signals:\n%+v\n%+v", a, b)
	}
}

func TestFind_EmptySeries(t *testing.T) {
	sig, rows, err := Find(nil)
	if sig != nil || rows != nil || err != nil {
		t.Fatalf("empty series: got (%+v, %v, %v), want all nil", sig, rows, err)
	}
}

func TestFind_MalformedSeries(t *testing.T) {
	series := []model.Candle{
		{OpenTime: rowStart, Open: 100, High: 99, Low: 98, Close: 100, Volume: 1},
	}
	sig, rows, err := Find(series)
	if !errors.Is(err, model.ErrMalformedSeries) {
		t.Fatalf("got err %v, want ErrMalformedSeries", err)
	}
	if sig != nil || rows != nil {
		t.Fatal("malformed series must not yield a signal or rows")
	}
}

func TestFind_ShortSeriesReturnsRows(t *testing.T) {
	series := flatSeries(30)
	sig, rows, err := Find(series)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sig != nil {
		t.Fatalf("expected no signal on short history, got %+v", sig)
	}
	if len(rows) != 30 {
		t.Fatalf("got %d rows, want 30", len(rows))
	}
}

func TestFind_FlatMarketNoSignal(t *testing.T) {
	series := flatSeries(1000)
	sig, rows, err := Find(series)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sig != nil {
		t.Fatalf("flat market produced a signal: %+v", sig)
	}
	for i, r := range rows {
		if r.RSI != 50 {
			t.Fatalf("row %d RSI = %g, want 50 throughout a flat market", i, r.RSI)
		}
	}
}

func flatSeries(n int) []model.Candle {
	series := make([]model.Candle, n)
	for i := range series {
		series[i] = model.Candle{
			OpenTime: rowStart.Add(time.Duration(i) * time.Hour),
			Open:     100,
			High:     100,
			Low:      100,
			Close:    100,
			Volume:   100,
		}
	}
	return series
}
