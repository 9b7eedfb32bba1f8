package portfolio

import (
	"math"
	"testing"

	"github.com/seethefuture888888-creator/kangbo/internal/domain/models"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestSummarize(t *testing.T) {
	assets := []models.Asset{
		{ID: "btc", CurrentWeight: 0.15},
		{ID: "gold", CurrentWeight: 0.10},
	}
	signals := []models.AssetSignal{
		{AssetID: "btc", SuggestedMaxWeight: 0.18},
		{AssetID: "gold", SuggestedMaxWeight: 0.12},
	}

	sum := Summarize(assets, signals)
	if !almostEqual(sum.TotalCurrentWeight, 0.25) {
		t.Fatalf("expected total current weight 0.25, got %v", sum.TotalCurrentWeight)
	}
	if !almostEqual(sum.TotalSuggestedWeight, 0.30) {
		t.Fatalf("expected total suggested weight 0.30, got %v", sum.TotalSuggestedWeight)
	}
	if !almostEqual(sum.AvailableAddSpace, 0.05) {
		t.Fatalf("expected available add space 0.05, got %v", sum.AvailableAddSpace)
	}
}

func TestSummarizeCountsOrphanSignals(t *testing.T) {
	assets := []models.Asset{{ID: "btc", CurrentWeight: 0.10}}
	signals := []models.AssetSignal{
		{AssetID: "btc", SuggestedMaxWeight: 0.10},
		{AssetID: "unknown", SuggestedMaxWeight: 0.05},
	}

	sum := Summarize(assets, signals)
	if !almostEqual(sum.TotalSuggestedWeight, 0.15) {
		t.Fatalf("orphan signal should still count, got %v", sum.TotalSuggestedWeight)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	sum := Summarize(nil, nil)
	if sum.TotalCurrentWeight != 0 || sum.TotalSuggestedWeight != 0 || sum.AvailableAddSpace != 0 {
		t.Fatalf("expected zero summary for empty inputs, got %+v", sum)
	}
}

func TestPositions(t *testing.T) {
	assets := []models.Asset{
		{ID: "btc", CurrentWeight: 0.15, BaseMaxWeight: 0.20},
		{ID: "tsla", CurrentWeight: 0.08, BaseMaxWeight: 0.05},
	}
	signals := []models.AssetSignal{
		{AssetID: "btc", SuggestedMaxWeight: 0.18},
	}

	out := Positions(assets, signals)
	if len(out) != 2 {
		t.Fatalf("expected one position per asset, got %d", len(out))
	}

	btc := out[0]
	if btc.AssetID != "btc" {
		t.Fatalf("expected positions in catalog order, got %s first", btc.AssetID)
	}
	if !almostEqual(btc.TargetWeight, 0.18) {
		t.Fatalf("signal target should win, got %v", btc.TargetWeight)
	}
	if !almostEqual(btc.AllowedAddSpace, 0.03) || btc.NeedReduce != 0 {
		t.Fatalf("expected add space 0.03 and no reduce, got %+v", btc)
	}

	tsla := out[1]
	if !almostEqual(tsla.TargetWeight, 0.05) {
		t.Fatalf("missing signal should fall back to base max, got %v", tsla.TargetWeight)
	}
	if tsla.AllowedAddSpace != 0 {
		t.Fatalf("overweight position must not report add space, got %v", tsla.AllowedAddSpace)
	}
	if !almostEqual(tsla.NeedReduce, 0.03) {
		t.Fatalf("expected reduce 0.03, got %v", tsla.NeedReduce)
	}
}

func TestPositionsIdempotent(t *testing.T) {
	assets := []models.Asset{{ID: "btc", CurrentWeight: 0.15, BaseMaxWeight: 0.20}}
	signals := []models.AssetSignal{{AssetID: "btc", SuggestedMaxWeight: 0.18}}

	first := Positions(assets, signals)
	second := Positions(assets, signals)
	if len(first) != len(second) {
		t.Fatalf("length changed between calls: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("position %d changed between calls: %+v vs %+v", i, first[i], second[i])
		}
	}
}
