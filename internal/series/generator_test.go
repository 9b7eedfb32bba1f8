package series

import (
	"testing"

	"github.com/seethefuture888888-creator/kangbo/internal/domain/models"
)

func testCatalog(id string) (models.Asset, bool) {
	if id == "btc" {
		return models.Asset{ID: "btc", Price: 97000}, true
	}
	return models.Asset{}, false
}

func TestGenerateLength(t *testing.T) {
	g := NewGenerator(testCatalog)
	for _, days := range []int{0, 1, 30, 180} {
		out := g.Generate("btc", days)
		if len(out) != days+1 {
			t.Fatalf("days=%d: expected %d candles, got %d", days, days+1, len(out))
		}
	}
}

func TestGenerateUnknownAsset(t *testing.T) {
	g := NewGenerator(testCatalog)
	out := g.Generate("nope", 30)
	if out == nil {
		t.Fatalf("expected empty slice, got nil")
	}
	if len(out) != 0 {
		t.Fatalf("unknown asset should yield no candles, got %d", len(out))
	}
}

func TestGenerateCandleShape(t *testing.T) {
	g := NewGenerator(testCatalog)
	out := g.Generate("btc", 180)

	for i, c := range out {
		if c.Date == "" {
			t.Fatalf("candle %d has empty date", i)
		}
		if c.Close <= 0 {
			t.Fatalf("candle %d has non-positive close %v", i, c.Close)
		}
		if c.Low > c.Open || c.Open > c.High {
			t.Fatalf("candle %d violates low<=open<=high: %+v", i, c)
		}
		if c.Low > c.Close || c.Close > c.High {
			t.Fatalf("candle %d violates low<=close<=high: %+v", i, c)
		}
		if c.Volume < volumeFloor || c.Volume >= volumeCeiling {
			t.Fatalf("candle %d volume %d outside [%d, %d)", i, c.Volume, volumeFloor, volumeCeiling)
		}
	}
}

func TestGenerateDatesAscend(t *testing.T) {
	g := NewGenerator(testCatalog)
	out := g.Generate("btc", 30)
	for i := 1; i < len(out); i++ {
		if out[i].Date <= out[i-1].Date {
			t.Fatalf("dates must ascend, got %s then %s", out[i-1].Date, out[i].Date)
		}
	}
}
