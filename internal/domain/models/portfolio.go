package models

// PortfolioPosition is the per-asset reconciliation of current versus target
// weight. Derived on every payload change, never persisted.
type PortfolioPosition struct {
	AssetID         string  `json:"assetId"`
	CurrentWeight   float64 `json:"currentWeight"`
	TargetWeight    float64 `json:"targetWeight"`
	AllowedAddSpace float64 `json:"allowedAddSpace"`
	NeedReduce      float64 `json:"needReduce"`
}

// PortfolioSummary is the portfolio-level weight accounting.
// AvailableAddSpace may be negative, meaning the book is over-allocated
// relative to guidance.
type PortfolioSummary struct {
	TotalCurrentWeight   float64 `json:"totalCurrentWeight"`
	TotalSuggestedWeight float64 `json:"totalSuggestedWeight"`
	AvailableAddSpace    float64 `json:"availableAddSpace"`
}
