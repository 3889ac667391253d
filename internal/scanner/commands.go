package scanner

import (
	"context"
	"fmt"
	"strings"

	"HypeBot/internal/indicator"
	"HypeBot/internal/notifier"
	"HypeBot/internal/setup"
)

// HandleCommand processes a Telegram message and returns the reply text.
func (s *Scanner) HandleCommand(chatID int64, text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return notifier.HelpText
	}

	switch strings.ToLower(fields[0]) {
	case "/start":
		if s.Registry.Subscribe(chatID) {
			return "✅ Subscribed. You'll get setup alerts for " + strings.Join(s.symbols, ", ") + ".\n\n" + notifier.HelpText
		}
		return "You're already subscribed. 👍"

	case "/stop":
		if s.Registry.Unsubscribe(chatID) {
			return "🛑 Unsubscribed. Send /start to re-enable alerts."
		}
		return "You weren't subscribed."

	case "/status":
		return notifier.FormatStatus(s.symbols, s.interval, s.Registry.Count(), s.Fetcher.Name())

	case "/price":
		if len(fields) < 2 {
			return "Usage: /price SYM (e.g. <code>/price ETH</code>)"
		}
		return s.priceReply(strings.ToUpper(fields[1]))

	case "/help":
		return notifier.HelpText
	}

	// Bare ticker: on-demand analysis.
	symbol := strings.ToUpper(fields[0])
	if !isTicker(symbol) {
		return notifier.HelpText
	}
	return s.analyzeReply(symbol)
}

func (s *Scanner) priceReply(symbol string) string {
	if s.Feed == nil {
		return "Live prices are disabled."
	}
	mid, ok := s.Feed.Mid(symbol)
	if !ok {
		return fmt.Sprintf("No live price for %s yet.", symbol)
	}
	return fmt.Sprintf("💱 %s mid: %.6g", symbol, mid)
}

func (s *Scanner) analyzeReply(symbol string) string {
	ctx, cancel := context.WithTimeout(s.Ctx, scanTimeout)
	defer cancel()

	candles, err := s.Fetcher.FetchCandles(ctx, symbol, s.interval, s.limit)
	if err != nil {
		s.log.WithError(err).Warnf("on-demand fetch %s failed", symbol)
		return fmt.Sprintf("⚠️ Couldn't fetch data for %s.", symbol)
	}
	if len(candles) == 0 {
		return fmt.Sprintf("❌ No data for ticker %s.", symbol)
	}

	sig, rows, err := setup.Find(candles)
	if err != nil {
		s.log.WithError(err).Warnf("on-demand classify %s failed", symbol)
		return fmt.Sprintf("⚠️ Bad data for %s, try again later.", symbol)
	}

	pivots, err := indicator.ExtractPivots(candles, s.deviation)
	if err != nil {
		s.log.WithError(err).Errorf("on-demand pivots %s", symbol)
	}

	var live float64
	if s.Feed != nil {
		live, _ = s.Feed.Mid(symbol)
	}
	return notifier.FormatAnalysis(symbol, s.interval, rows, pivots, sig, live)
}

// isTicker accepts short all-letter strings like ETH or BTC.
func isTicker(s string) bool {
	if len(s) == 0 || len(s) > 10 {
		return false
	}
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
