package indicator

import "HypeBot/internal/model"

type zigzagTrend int

const (
	trendNone zigzagTrend = iota
	trendUp
	trendDown
)

// ExtractPivots runs the ZigZag filter over the series closes: a single
// forward pass that anchors on the running extreme and emits a pivot when
// price retraces from the anchor by at least deviationPercent. Peaks and
// valleys strictly alternate in the output, except for the final pivot,
// which is the current anchor emitted as a tentative extreme: future
// candles may still revise it, callers must not treat it as confirmed.
//
// The result is fully determined by (closes, deviationPercent); there is no
// look-ahead.
func ExtractPivots(series []model.Candle, deviationPercent float64) ([]model.Pivot, error) {
	if err := model.ValidateSeries(series); err != nil {
		return nil, err
	}

	var pivots []model.Pivot

	anchorPrice := series[0].Close
	anchorIdx := 0
	trend := trendNone

	for i := 1; i < len(series); i++ {
		price := series[i].Close
		change := (price - anchorPrice) / anchorPrice * 100

		switch trend {
		case trendNone:
			if change >= deviationPercent {
				trend = trendUp
				anchorPrice, anchorIdx = price, i
			} else if change <= -deviationPercent {
				trend = trendDown
				anchorPrice, anchorIdx = price, i
			}
		case trendUp:
			if price > anchorPrice {
				anchorPrice, anchorIdx = price, i
			} else if change <= -deviationPercent {
				pivots = append(pivots, model.Pivot{
					Index: anchorIdx,
					Price: anchorPrice,
					Kind:  model.Peak,
					Time:  series[anchorIdx].OpenTime,
				})
				trend = trendDown
				anchorPrice, anchorIdx = price, i
			}
		case trendDown:
			if price < anchorPrice {
				anchorPrice, anchorIdx = price, i
			} else if change >= deviationPercent {
				pivots = append(pivots, model.Pivot{
					Index: anchorIdx,
					Price: anchorPrice,
					Kind:  model.Valley,
					Time:  series[anchorIdx].OpenTime,
				})
				trend = trendUp
				anchorPrice, anchorIdx = price, i
			}
		}
	}

	// The current anchor goes out as one final tentative pivot.
	kind := model.Valley
	if trend == trendUp {
		kind = model.Peak
	}
	pivots = append(pivots, model.Pivot{
		Index: anchorIdx,
		Price: anchorPrice,
		Kind:  kind,
		Time:  series[anchorIdx].OpenTime,
	})

	return pivots, nil
}
