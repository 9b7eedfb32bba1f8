// Package resolver fills per-asset gaps by consulting an ordered list of
// providers: first non-empty answer wins. Adding a tier means appending a
// provider, call sites never change.
package resolver

import "github.com/seethefuture888888-creator/kangbo/internal/domain/models"

// TechnicalProvider is one tier of the technical indicator lookup.
type TechnicalProvider interface {
	Technicals(assetID string) (models.TechnicalData, bool)
}

// TechnicalProviderFunc adapts a function to TechnicalProvider.
type TechnicalProviderFunc func(assetID string) (models.TechnicalData, bool)

func (f TechnicalProviderFunc) Technicals(assetID string) (models.TechnicalData, bool) {
	return f(assetID)
}

// HistoryProvider is one tier of the price history lookup.
type HistoryProvider interface {
	History(assetID string, days int) ([]models.PricePoint, bool)
}

// HistoryProviderFunc adapts a function to HistoryProvider.
type HistoryProviderFunc func(assetID string, days int) ([]models.PricePoint, bool)

func (f HistoryProviderFunc) History(assetID string, days int) ([]models.PricePoint, bool) {
	return f(assetID, days)
}

// Resolver cascades through provider tiers. It never fails: technicals fall
// through to a neutral default and history synthesis always succeeds.
type Resolver struct {
	tech []TechnicalProvider
	hist []HistoryProvider
}

func New(tech []TechnicalProvider, hist []HistoryProvider) *Resolver {
	return &Resolver{tech: tech, hist: hist}
}

// Technicals returns the first tier's record for the asset, or the neutral
// default when every tier misses.
func (r *Resolver) Technicals(assetID string) models.TechnicalData {
	for _, p := range r.tech {
		if td, ok := p.Technicals(assetID); ok {
			return td
		}
	}
	return NeutralTechnicals(assetID)
}

// History returns the first non-empty series for the asset. The synthesis
// tier always answers, so an empty result only means the asset is unknown to
// every tier.
func (r *Resolver) History(assetID string, days int) []models.PricePoint {
	for _, p := range r.hist {
		if hs, ok := p.History(assetID, days); ok && len(hs) > 0 {
			return hs
		}
	}
	return []models.PricePoint{}
}

// NeutralTechnicals is the synthesized last-resort record: absolute
// indicators zeroed, relative strength at par, percentiles at the median.
func NeutralTechnicals(assetID string) models.TechnicalData {
	return models.TechnicalData{
		AssetID:         assetID,
		RSToBenchmark:   1,
		VolPercentile1Y: 50,
		DDPercentile1Y:  50,
	}
}

// MapTechnicals exposes a fixed technicals map as a provider tier.
func MapTechnicals(m map[string]models.TechnicalData) TechnicalProvider {
	return TechnicalProviderFunc(func(assetID string) (models.TechnicalData, bool) {
		td, ok := m[assetID]
		return td, ok
	})
}

// MapHistory exposes a fixed history map as a provider tier. Empty series
// count as misses so lower tiers can answer.
func MapHistory(m map[string][]models.PricePoint) HistoryProvider {
	return HistoryProviderFunc(func(assetID string, _ int) ([]models.PricePoint, bool) {
		hs, ok := m[assetID]
		return hs, ok && len(hs) > 0
	})
}
