package notifier

import (
	"fmt"
	"html"
	"strings"

	"HypeBot/internal/model"
	"HypeBot/internal/validator"
)

func directionArrow(d model.Direction) string {
	if d == model.Long {
		return "📈"
	}
	return "📉"
}

// FormatSignalReport renders a detected setup as a Telegram HTML message.
// row is the signal candle's indicator row; verdict may be nil when no AI
// validation ran.
func FormatSignalReport(symbol, interval string, sig *model.SetupSignal, row model.IndicatorRow, verdict *validator.Verdict) string {
	var b strings.Builder

	fmt.Fprintf(&b, "🚨 <b>%s setup</b> | %s (%s)\n\n", sig.Family, html.EscapeString(symbol), interval)
	fmt.Fprintf(&b, "Signal: <b>%s</b> %s\n", sig.Direction, directionArrow(sig.Direction))
	fmt.Fprintf(&b, "Candle close: %s UTC\n\n", sig.SignalTime.UTC().Format("2006-01-02 15:04"))

	fmt.Fprintf(&b, "🎯 Entry: %.6g\n", sig.ReferencePrice)
	fmt.Fprintf(&b, "🛑 Stop: %.6g\n", sig.StopLoss)
	fmt.Fprintf(&b, "✅ Take: %.6g\n\n", sig.TakeProfit)

	fmt.Fprintf(&b, "RSI: %.1f | VWAP: %.6g\n", row.RSI, row.VWAP)
	fmt.Fprintf(&b, "EMA9/EMA21: %.6g / %.6g\n", row.EMAFast, row.EMASlow)

	if verdict != nil {
		emoji := "🟡"
		if verdict.Confirmed && verdict.Confidence >= 7 {
			emoji = "🟢"
		} else if verdict.Confidence < 5 {
			emoji = "🔴"
		}
		fmt.Fprintf(&b, "\n%s AI check: %d/10", emoji, verdict.Confidence)
		if verdict.Comment != "" {
			fmt.Fprintf(&b, " — %s", html.EscapeString(verdict.Comment))
		}
		b.WriteString("\n")
	}

	return b.String()
}

// FormatAnalysis renders an on-demand analysis reply: market snapshot,
// recent pivots and the classification outcome.
func FormatAnalysis(symbol, interval string, rows []model.IndicatorRow, pivots []model.Pivot, sig *model.SetupSignal, livePrice float64) string {
	var b strings.Builder

	last := rows[len(rows)-1]
	fmt.Fprintf(&b, "📊 <b>%s</b> (%s)\n\n", html.EscapeString(symbol), interval)
	if livePrice > 0 {
		fmt.Fprintf(&b, "Live mid: %.6g\n", livePrice)
	}
	fmt.Fprintf(&b, "Last close: %.6g\n", last.Close)
	fmt.Fprintf(&b, "RSI: %.1f | VWAP: %.6g\n", last.RSI, last.VWAP)
	fmt.Fprintf(&b, "EMA9/EMA21: %.6g / %.6g\n\n", last.EMAFast, last.EMASlow)

	if len(pivots) > 0 {
		b.WriteString("Recent pivots:\n")
		start := len(pivots) - 5
		if start < 0 {
			start = 0
		}
		for _, p := range pivots[start:] {
			mark := "▲"
			if p.Kind == model.Valley {
				mark = "▼"
			}
			fmt.Fprintf(&b, "  %s %.6g @ %s\n", mark, p.Price, p.Time.UTC().Format("01-02 15:04"))
		}
		b.WriteString("  (last pivot tentative)\n\n")
	}

	if sig == nil {
		b.WriteString("No setup on the last closed candle. 😐")
		return b.String()
	}

	fmt.Fprintf(&b, "Setup: <b>%s %s</b> %s\n", sig.Direction, sig.Family, directionArrow(sig.Direction))
	fmt.Fprintf(&b, "Entry %.6g | SL %.6g | TP %.6g", sig.ReferencePrice, sig.StopLoss, sig.TakeProfit)
	return b.String()
}

// FormatStatus renders the /status reply.
func FormatStatus(symbols []string, interval string, subscribers int, source string) string {
	var b strings.Builder
	b.WriteString("🤖 <b>HypeBot status</b>\n\n")
	fmt.Fprintf(&b, "Watching: %s (%s)\n", html.EscapeString(strings.Join(symbols, ", ")), interval)
	fmt.Fprintf(&b, "Data source: %s\n", source)
	fmt.Fprintf(&b, "Subscribers: %d\n", subscribers)
	return b.String()
}

// HelpText is the reply to /start-adjacent chatter and unknown commands.
const HelpText = "👋 I scan Hyperliquid for trade setups (breakout, pullback, mean reversion).\n\n" +
	"Commands:\n" +
	"/start — subscribe to signal broadcasts\n" +
	"/stop — unsubscribe\n" +
	"/status — what I'm watching\n" +
	"/price SYM — live mid price\n" +
	"Or send a ticker (e.g. <code>ETH</code>) for an on-demand analysis."
