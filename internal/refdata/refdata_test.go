package refdata

import "testing"

func TestLoad(t *testing.T) {
	p, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if p.DailySignal == nil || p.DailySignal.Date == "" {
		t.Fatalf("bundled dataset must carry a dated daily signal, got %+v", p.DailySignal)
	}
	if len(p.MacroSwitches) == 0 {
		t.Fatalf("bundled dataset must carry macro switches")
	}
	if len(p.Assets) == 0 || len(p.AssetSignals) == 0 {
		t.Fatalf("bundled dataset must carry assets and signals, got %d/%d",
			len(p.Assets), len(p.AssetSignals))
	}
	if p.LongCycle == nil {
		t.Fatalf("bundled dataset must carry a long cycle reading")
	}

	for _, s := range p.AssetSignals {
		if _, ok := p.AssetByID(s.AssetID); !ok {
			t.Fatalf("signal references unknown asset %q", s.AssetID)
		}
	}
	for _, a := range p.Assets {
		if _, ok := p.TechnicalData[a.ID]; !ok {
			t.Fatalf("asset %q has no bundled technicals", a.ID)
		}
		if a.Price <= 0 {
			t.Fatalf("asset %q has non-positive price %v", a.ID, a.Price)
		}
	}
}

func TestLoadReturnsFreshCopies(t *testing.T) {
	a, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	a.Assets[0].CurrentWeight = 0.99
	if b.Assets[0].CurrentWeight == 0.99 {
		t.Fatalf("loads must not alias each other")
	}
}
