// Package portfolio derives book-level weight accounting from the raw asset
// and signal collections. Everything here is pure and recomputable per render.
package portfolio

import (
	"math"

	"github.com/seethefuture888888-creator/kangbo/internal/domain/models"
)

// Summarize totals current weight over assets and suggested weight over
// signals. Summing the suggested side over signals is deliberate headroom
// accounting: a signal without a matching catalog asset still contributes.
func Summarize(assets []models.Asset, signals []models.AssetSignal) models.PortfolioSummary {
	var current, suggested float64
	for _, a := range assets {
		current += a.CurrentWeight
	}
	for _, s := range signals {
		suggested += s.SuggestedMaxWeight
	}
	return models.PortfolioSummary{
		TotalCurrentWeight:   current,
		TotalSuggestedWeight: suggested,
		AvailableAddSpace:    suggested - current,
	}
}

// Positions reconciles each asset against its signal. Target weight falls
// back to the asset's static base max when no signal exists.
func Positions(assets []models.Asset, signals []models.AssetSignal) []models.PortfolioPosition {
	byAsset := make(map[string]models.AssetSignal, len(signals))
	for _, s := range signals {
		byAsset[s.AssetID] = s
	}

	out := make([]models.PortfolioPosition, 0, len(assets))
	for _, a := range assets {
		target := a.BaseMaxWeight
		if s, ok := byAsset[a.ID]; ok {
			target = s.SuggestedMaxWeight
		}
		out = append(out, models.PortfolioPosition{
			AssetID:         a.ID,
			CurrentWeight:   a.CurrentWeight,
			TargetWeight:    target,
			AllowedAddSpace: math.Max(0, target-a.CurrentWeight),
			NeedReduce:      math.Max(0, a.CurrentWeight-target),
		})
	}
	return out
}
