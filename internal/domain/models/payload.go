package models

// Light is a tri-state qualitative indicator used for trend/risk/catalyst
// lights and macro switch status.
type Light string

const (
	LightGreen  Light = "green"
	LightYellow Light = "yellow"
	LightRed    Light = "red"
)

// Action is the recommended portfolio action for an asset or the whole book.
type Action string

const (
	ActionAdd    Action = "ADD"
	ActionReduce Action = "REDUCE"
	ActionHold   Action = "HOLD"
)

// SignalPayload is the unit of truth for one dashboard session. The four
// required fields must all be present and non-empty for a payload to be
// accepted; the remaining fields are optional and merge with session defaults
// when absent. The gate checks top-level presence only: a malformed element
// inside a collection is tolerated and simply never resolves by id.
type SignalPayload struct {
	DailySignal   *DailySignal  `json:"dailySignal" validate:"required"`
	MacroSwitches []MacroSwitch `json:"macroSwitches" validate:"required,min=1"`
	Assets        []Asset       `json:"assets" validate:"required,min=1"`
	AssetSignals  []AssetSignal `json:"assetSignals" validate:"required,min=1"`

	LongCycle     *LongCycle               `json:"longCycle,omitempty"`
	TechnicalData map[string]TechnicalData `json:"technicalData,omitempty"`
	PriceHistory  map[string][]PricePoint  `json:"priceHistory,omitempty"`
}

// DailySignal carries the day's regime classification and headline guidance.
type DailySignal struct {
	Date            string   `json:"date" validate:"required"`
	Regime          string   `json:"regime"`
	RiskScore       float64  `json:"riskScore"`
	Drivers         []string `json:"drivers"`
	PortfolioAction Action   `json:"portfolioAction"`
	RiskMode        string   `json:"riskMode,omitempty"`
	DiffusionIndex  float64  `json:"diffusionIndex,omitempty"`
	ConstraintIndex float64  `json:"constraintIndex,omitempty"`
	CommentSummary  string   `json:"commentSummary,omitempty"`
	DataAsOf        string   `json:"dataAsOf,omitempty"`
}

// MacroSwitch is one named macro indicator with current reading, deltas over
// two horizons, a percentile rank and a freshness marker in days.
type MacroSwitch struct {
	ID           string  `json:"id" validate:"required"`
	Name         string  `json:"name"`
	CurrentValue float64 `json:"currentValue"`
	Change7D     float64 `json:"change7d"`
	Change1M     float64 `json:"change1m"`
	Percentile   float64 `json:"percentile"`
	Light        Light   `json:"light"`
	Freshness    int     `json:"freshness"`
	Frequency    string  `json:"frequency"`
}

// Asset is one tradable instrument in the catalog. Weight figures are
// fractions of the portfolio in [0,1]. Immutable for a session once loaded.
type Asset struct {
	ID                 string  `json:"id" validate:"required"`
	Name               string  `json:"name"`
	Ticker             string  `json:"ticker"`
	AssetType          string  `json:"assetType"`
	Currency           string  `json:"currency"`
	BenchmarkID        string  `json:"benchmarkId,omitempty"`
	BaseMaxWeight      float64 `json:"baseMaxWeight"`
	CurrentWeight      float64 `json:"currentWeight"`
	SuggestedMaxWeight float64 `json:"suggestedMaxWeight"`
	Price              float64 `json:"price"`
	PriceChange24H     float64 `json:"priceChange24h"`
	PriceChange7D      float64 `json:"priceChange7d"`
	PriceChange30D     float64 `json:"priceChange30d"`
}

// AssetSignal is the derived per-asset signal for one date. Related to Asset
// many-to-one via AssetID; a signal without a matching asset is ignored by
// rendering but still counted in the portfolio aggregates.
type AssetSignal struct {
	AssetID            string   `json:"assetId" validate:"required"`
	Date               string   `json:"date"`
	TrendLight         Light    `json:"trendLight"`
	RiskLight          Light    `json:"riskLight"`
	CatalystLight      Light    `json:"catalystLight"`
	SuggestedMaxWeight float64  `json:"suggestedMaxWeight"`
	Action             Action   `json:"action"`
	ReasonCodes        []string `json:"reasonCodes"`
	Notes              string   `json:"notes"`
}

// LongCycle is the weekly longer-horizon phase classification, slower moving
// than the daily regime. Both indices run 0-100.
type LongCycle struct {
	Date            string              `json:"date"`
	DiffusionIndex  float64             `json:"diffusionIndex"`
	ConstraintIndex float64             `json:"constraintIndex"`
	Phase           string              `json:"phase"`
	Strategy        string              `json:"strategy"`
	Components      LongCycleComponents `json:"components"`
}

// LongCycleComponents are the named sub-readings behind the long-cycle phase.
type LongCycleComponents struct {
	SoxRatio       float64 `json:"soxRatio"`
	NvdaRatio      float64 `json:"nvdaRatio"`
	UtilityRatio   float64 `json:"utilityRatio"`
	CopperMomentum float64 `json:"copperMomentum"`
	EnergyPrice    float64 `json:"energyPrice"`
}

// TechnicalData is the per-asset technical indicator set.
type TechnicalData struct {
	AssetID           string  `json:"assetId"`
	MA20              float64 `json:"ma20"`
	MA60              float64 `json:"ma60"`
	MA200             float64 `json:"ma200"`
	Mom12W            float64 `json:"mom12w"`
	RSToBenchmark     float64 `json:"rsToBenchmark"`
	Vol20Ann          float64 `json:"vol20Ann"`
	MDD60             float64 `json:"mdd60"`
	MDD120            float64 `json:"mdd120"`
	VolPercentile1Y   float64 `json:"volPercentile1y"`
	DDPercentile1Y    float64 `json:"ddPercentile1y"`
	CorrelationDXY    float64 `json:"correlationDXY"`
	CorrelationRealRt float64 `json:"correlationRealRate"`
	CorrelationSPX    float64 `json:"correlationSPX"`
}

// PricePoint is one daily OHLCV candle.
type PricePoint struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

// AssetByID returns the catalog asset with the given id.
func (p *SignalPayload) AssetByID(id string) (Asset, bool) {
	for _, a := range p.Assets {
		if a.ID == id {
			return a, true
		}
	}
	return Asset{}, false
}

// SignalByAssetID returns the signal for the given asset id.
func (p *SignalPayload) SignalByAssetID(id string) (AssetSignal, bool) {
	for _, s := range p.AssetSignals {
		if s.AssetID == id {
			return s, true
		}
	}
	return AssetSignal{}, false
}
