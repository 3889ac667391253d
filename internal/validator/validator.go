package validator

import (
	"context"

	"HypeBot/internal/model"
)

// Verdict is the advisory confirmation of an already-final signal.
type Verdict struct {
	Confirmed  bool
	Confidence int // 0-10
	Comment    string
}

// Validator asks an external analyst whether a detected setup looks like a
// high-probability trade. The classification result is final before this
// call; a verdict only annotates it.
type Validator interface {
	Validate(ctx context.Context, symbol, timeframe string, sig *model.SetupSignal,
		rows []model.IndicatorRow, pivots []model.Pivot) (*Verdict, error)
	Name() string
}

// NoopValidator confirms nothing and is used when no API key is configured.
type NoopValidator struct{}

func (NoopValidator) Name() string { return "noop" }

func (NoopValidator) Validate(_ context.Context, _, _ string, _ *model.SetupSignal,
	_ []model.IndicatorRow, _ []model.Pivot) (*Verdict, error) {
	return nil, nil
}
