package session

import (
	"github.com/seethefuture888888-creator/kangbo/internal/domain/models"
	"github.com/seethefuture888888-creator/kangbo/internal/portfolio"
	"github.com/seethefuture888888-creator/kangbo/internal/resolver"
	"github.com/seethefuture888888-creator/kangbo/internal/series"
)

// SelectAsset sets the selected asset. A non-empty id switches to the asset
// detail view; clearing the selection returns to the overview.
func (s *Session) SelectAsset(id string) models.ViewState {
	s.mu.Lock()
	s.view.SelectedAssetID = id
	if id != "" {
		s.view.CurrentView = models.ViewAssetDetail
	} else {
		s.view.CurrentView = models.ViewOverview
	}
	v := s.view
	s.mu.Unlock()
	return v
}

// SetView switches the active view. Moving to the overview clears the
// selection; any other view keeps whatever asset was selected.
func (s *Session) SetView(v models.View) models.ViewState {
	s.mu.Lock()
	s.view.CurrentView = v
	if v == models.ViewOverview {
		s.view.SelectedAssetID = ""
	}
	out := s.view
	s.mu.Unlock()
	return out
}

// Status returns the current load status.
func (s *Session) Status() models.DataStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// ViewState returns the current selection state.
func (s *Session) ViewState() models.ViewState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

// Payload returns the currently displayed payload. The payload is replaced
// wholesale on load, so the returned value is a stable read-only snapshot.
func (s *Session) Payload() *models.SignalPayload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.payload
}

// Summary derives the portfolio-level weight accounting.
func (s *Session) Summary() models.PortfolioSummary {
	p := s.Payload()
	return portfolio.Summarize(p.Assets, p.AssetSignals)
}

// Positions derives the per-asset weight reconciliation.
func (s *Session) Positions() []models.PortfolioPosition {
	p := s.Payload()
	return portfolio.Positions(p.Assets, p.AssetSignals)
}

// SelectedAsset resolves the selected asset against the catalog.
func (s *Session) SelectedAsset() (models.Asset, bool) {
	s.mu.Lock()
	id := s.view.SelectedAssetID
	p := s.payload
	s.mu.Unlock()
	if id == "" {
		return models.Asset{}, false
	}
	return p.AssetByID(id)
}

// SelectedSignal resolves the selected asset's signal.
func (s *Session) SelectedSignal() (models.AssetSignal, bool) {
	s.mu.Lock()
	id := s.view.SelectedAssetID
	p := s.payload
	s.mu.Unlock()
	if id == "" {
		return models.AssetSignal{}, false
	}
	return p.SignalByAssetID(id)
}

// Technicals resolves the technical record for an asset through the fallback
// chain: payload, then bundled reference, then the neutral default.
func (s *Session) Technicals(assetID string) models.TechnicalData {
	return s.resolver().Technicals(assetID)
}

// History resolves an asset's price history: the payload series when present
// and non-empty, otherwise a freshly synthesized one.
func (s *Session) History(assetID string, days int) []models.PricePoint {
	return s.resolver().History(assetID, days)
}

// Snapshot assembles the full outbound view for the rendering layer.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	p := s.payload
	st := s.status
	v := s.view
	s.mu.Unlock()

	return Snapshot{
		Payload:   p,
		Status:    st,
		View:      v,
		Summary:   portfolio.Summarize(p.Assets, p.AssetSignals),
		Positions: portfolio.Positions(p.Assets, p.AssetSignals),
	}
}

// resolver builds the fallback chain over the current payload. Rebuilt per
// call: the chain is cheap and must follow payload swaps.
func (s *Session) resolver() *resolver.Resolver {
	s.mu.Lock()
	p := s.payload
	s.mu.Unlock()

	gen := series.NewGenerator(p.AssetByID)

	tech := []resolver.TechnicalProvider{
		resolver.MapTechnicals(p.TechnicalData),
		resolver.MapTechnicals(s.defaults.TechnicalData),
	}
	hist := []resolver.HistoryProvider{
		resolver.MapHistory(p.PriceHistory),
		resolver.HistoryProviderFunc(func(assetID string, days int) ([]models.PricePoint, bool) {
			return gen.Generate(assetID, days), true
		}),
	}
	return resolver.New(tech, hist)
}
