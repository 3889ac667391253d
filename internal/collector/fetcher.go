package collector

import (
	"context"

	"HypeBot/internal/model"
)

// Fetcher defines the interface for fetching market data. An empty result
// with a nil error means the source has no data for the symbol; callers
// treat that as "no signal, no indicators computed".
type Fetcher interface {
	FetchCandles(ctx context.Context, symbol, interval string, limit int) ([]model.Candle, error)
	Name() string
}
