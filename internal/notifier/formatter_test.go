package notifier

import (
	"strings"
	"testing"
	"time"

	"HypeBot/internal/model"
	"HypeBot/internal/validator"
)

func sampleSignal() *model.SetupSignal {
	return &model.SetupSignal{
		Direction:      model.Long,
		Family:         model.Breakout,
		ReferencePrice: 110,
		SignalTime:     time.Date(2025, 6, 1, 14, 0, 0, 0, time.UTC),
		StopLoss:       109.45,
		TakeProfit:     111.65,
	}
}

func sampleRow() model.IndicatorRow {
	return model.IndicatorRow{
		Candle:  model.Candle{Close: 110},
		RSI:     65,
		EMAFast: 108,
		EMASlow: 106,
		VWAP:    105,
	}
}

func TestFormatSignalReport(t *testing.T) {
	msg := FormatSignalReport("ETH", "1h", sampleSignal(), sampleRow(), nil)

	for _, want := range []string{"ETH", "1h", "BREAKOUT", "LONG", "110", "109.45", "111.65", "2025-06-01 14:00"} {
		if !strings.Contains(msg, want) {
			t.Errorf("report missing %q:\n%s", want, msg)
		}
	}
	if strings.Contains(msg, "AI check") {
		t.Error("report without a verdict must not mention the AI check")
	}
}

func TestFormatSignalReport_WithVerdict(t *testing.T) {
	v := &validator.Verdict{Confirmed: true, Confidence: 8, Comment: "clean break & retest"}
	msg := FormatSignalReport("ETH", "1h", sampleSignal(), sampleRow(), v)

	if !strings.Contains(msg, "8/10") {
		t.Errorf("report missing confidence:\n%s", msg)
	}
	// Comment text goes through HTML escaping.
	if !strings.Contains(msg, "clean break &amp; retest") {
		t.Errorf("comment not escaped:\n%s", msg)
	}
}

func TestFormatSignalReport_EscapesSymbol(t *testing.T) {
	msg := FormatSignalReport("<script>", "1h", sampleSignal(), sampleRow(), nil)
	if strings.Contains(msg, "<script>") {
		t.Fatalf("symbol not escaped:\n%s", msg)
	}
}

func TestFormatAnalysis_NoSetup(t *testing.T) {
	rows := []model.IndicatorRow{sampleRow()}
	pivots := []model.Pivot{
		{Index: 0, Price: 105, Kind: model.Peak, Time: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)},
	}
	msg := FormatAnalysis("BTC", "1h", rows, pivots, nil, 0)

	if !strings.Contains(msg, "No setup") {
		t.Errorf("analysis without a signal must say so:\n%s", msg)
	}
	if !strings.Contains(msg, "tentative") {
		t.Errorf("analysis must flag the trailing pivot as tentative:\n%s", msg)
	}
	if strings.Contains(msg, "Live mid") {
		t.Error("zero live price must be omitted")
	}
}

func TestFormatAnalysis_WithSetupAndLivePrice(t *testing.T) {
	rows := []model.IndicatorRow{sampleRow()}
	msg := FormatAnalysis("BTC", "1h", rows, nil, sampleSignal(), 110.25)

	if !strings.Contains(msg, "Live mid") || !strings.Contains(msg, "110.25") {
		t.Errorf("analysis missing the live price:\n%s", msg)
	}
	if !strings.Contains(msg, "BREAKOUT") {
		t.Errorf("analysis missing the setup line:\n%s", msg)
	}
}

func TestFormatStatus(t *testing.T) {
	msg := FormatStatus([]string{"BTC", "ETH"}, "1h", 7, "hyperliquid")
	for _, want := range []string{"BTC, ETH", "1h", "7", "hyperliquid"} {
		if !strings.Contains(msg, want) {
			t.Errorf("status missing %q:\n%s", want, msg)
		}
	}
}
