// Package series synthesizes a plausible daily OHLCV history for assets that
// ship without one. The output is a visual placeholder, not a forecast: the
// shape is deterministic, the values are not.
package series

import (
	"math/rand"
	"time"

	"github.com/seethefuture888888-creator/kangbo/internal/domain/models"
)

const (
	seedDiscount   = 0.85 // start 15% below spot so the window drifts visibly upward
	dailyVol       = 0.02
	driftBias      = 0.48 // uniform draw offset, slight upward bias per step
	volumeFloor    = 500_000
	volumeCeiling  = 1_500_000
	rangeHalfWidth = 0.5 // intraday range is half the daily volatility
)

// CatalogFunc resolves an asset id against the current catalog.
type CatalogFunc func(id string) (models.Asset, bool)

// Generator produces synthetic price histories anchored on catalog prices.
type Generator struct {
	catalog CatalogFunc
}

func NewGenerator(catalog CatalogFunc) *Generator {
	return &Generator{catalog: catalog}
}

// Generate walks days+1 calendar days ending today and returns a freshly
// allocated candle sequence. An unknown asset id yields an empty sequence.
func (g *Generator) Generate(assetID string, days int) []models.PricePoint {
	asset, ok := g.catalog(assetID)
	if !ok {
		return []models.PricePoint{}
	}

	out := make([]models.PricePoint, 0, days+1)
	price := asset.Price * seedDiscount
	now := time.Now()

	for i := days; i >= 0; i-- {
		date := now.AddDate(0, 0, -i)

		change := (rand.Float64() - driftBias) * dailyVol
		price = price * (1 + change)

		half := price * dailyVol * rangeHalfWidth

		out = append(out, models.PricePoint{
			Date:   date.Format("2006-01-02"),
			Open:   price - half*0.2,
			High:   price + half,
			Low:    price - half,
			Close:  price,
			Volume: int64(rand.Intn(volumeCeiling-volumeFloor)) + volumeFloor,
		})
	}

	return out
}
