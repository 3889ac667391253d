package collector

import (
	"context"
	"time"

	"HypeBot/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price   float64
	Candles []model.Candle
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchCandles(_ context.Context, _ string, _ string, limit int) ([]model.Candle, error) {
	if m.Candles != nil {
		return m.Candles, nil
	}
	return GenerateCandles(m.Price, limit), nil
}

// GenerateCandles produces a gently drifting synthetic hourly series around
// basePrice, ending at the current hour.
func GenerateCandles(basePrice float64, count int) []model.Candle {
	start := time.Now().UTC().Truncate(time.Hour).Add(-time.Duration(count) * time.Hour)
	candles := make([]model.Candle, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.0005)
		candles[i] = model.Candle{
			OpenTime: start.Add(time.Duration(i) * time.Hour),
			Open:     p * 0.999,
			High:     p * 1.005,
			Low:      p * 0.995,
			Close:    p,
			Volume:   1000,
		}
	}
	return candles
}
