package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/seethefuture888888-creator/kangbo/internal/domain/models"
)

type stubLoader struct {
	mu sync.Mutex
	fn func(ctx context.Context) (*models.SignalPayload, error)
}

func (l *stubLoader) Load(ctx context.Context) (*models.SignalPayload, error) {
	l.mu.Lock()
	fn := l.fn
	l.mu.Unlock()
	return fn(ctx)
}

func (l *stubLoader) set(fn func(ctx context.Context) (*models.SignalPayload, error)) {
	l.mu.Lock()
	l.fn = fn
	l.mu.Unlock()
}

func payloadForDate(date string) *models.SignalPayload {
	return &models.SignalPayload{
		DailySignal:   &models.DailySignal{Date: date, Regime: "RISK_ON"},
		MacroSwitches: []models.MacroSwitch{{ID: "dxy"}},
		Assets: []models.Asset{
			{ID: "btc", Price: 97000, CurrentWeight: 0.15, BaseMaxWeight: 0.20},
		},
		AssetSignals: []models.AssetSignal{
			{AssetID: "btc", SuggestedMaxWeight: 0.18},
		},
	}
}

func referenceDefaults() *models.SignalPayload {
	p := payloadForDate("2026-01-01")
	p.LongCycle = &models.LongCycle{Phase: "EXPANSION"}
	p.TechnicalData = map[string]models.TechnicalData{
		"btc": {AssetID: "btc", MA20: 95000},
	}
	return p
}

func watch(s *Session) <-chan Snapshot {
	ch := make(chan Snapshot, 16)
	s.OnChange(func(snap Snapshot) { ch <- snap })
	return ch
}

func waitStatus(t *testing.T, ch <-chan Snapshot, pred func(models.DataStatus) bool) Snapshot {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case snap := <-ch:
			if pred(snap.Status) {
				return snap
			}
		case <-deadline:
			t.Fatalf("timed out waiting for status transition")
		}
	}
}

func TestNewSeedsReferenceData(t *testing.T) {
	s := New(&stubLoader{}, referenceDefaults())

	st := s.Status()
	if !st.Loading || st.Source != models.SourceMock {
		t.Fatalf("new session must start loading from mock, got %+v", st)
	}
	if st.LastUpdatedAt != nil {
		t.Fatalf("nothing loaded yet, got timestamp %v", st.LastUpdatedAt)
	}

	v := s.ViewState()
	if v.SelectedDate != "2026-01-01" || v.CurrentView != models.ViewOverview {
		t.Fatalf("unexpected initial view state: %+v", v)
	}

	p := s.Payload()
	if p.PriceHistory == nil {
		t.Fatalf("seeded payload must have a non-nil price history map")
	}
}

func TestInitialLoadSuccess(t *testing.T) {
	loader := &stubLoader{}
	loader.set(func(ctx context.Context) (*models.SignalPayload, error) {
		return payloadForDate("2026-01-30"), nil
	})
	s := New(loader, referenceDefaults())
	defer s.Close()
	ch := watch(s)

	s.Start(context.Background())
	snap := waitStatus(t, ch, func(st models.DataStatus) bool { return !st.Loading })

	if snap.Status.Source != models.SourceLive {
		t.Fatalf("expected live source, got %s", snap.Status.Source)
	}
	if snap.Status.Error != "" {
		t.Fatalf("unexpected error: %s", snap.Status.Error)
	}
	if snap.Status.LastUpdatedAt == nil {
		t.Fatalf("expected LastUpdatedAt to be set")
	}
	if snap.View.SelectedDate != "2026-01-30" {
		t.Fatalf("selected date must follow the payload, got %s", snap.View.SelectedDate)
	}
	if snap.Payload.LongCycle == nil || snap.Payload.LongCycle.Phase != "EXPANSION" {
		t.Fatalf("absent long cycle must merge from defaults, got %+v", snap.Payload.LongCycle)
	}
	if snap.Summary.TotalCurrentWeight != 0.15 {
		t.Fatalf("summary must recompute from the new payload, got %+v", snap.Summary)
	}
}

func TestInitialLoadFailureDegradesToMock(t *testing.T) {
	loader := &stubLoader{}
	loader.set(func(ctx context.Context) (*models.SignalPayload, error) {
		return nil, errors.New("connection refused")
	})
	s := New(loader, referenceDefaults())
	defer s.Close()
	ch := watch(s)

	s.Start(context.Background())
	snap := waitStatus(t, ch, func(st models.DataStatus) bool { return !st.Loading })

	if snap.Status.Source != models.SourceMock {
		t.Fatalf("failed initial load must degrade to mock, got %s", snap.Status.Source)
	}
	if snap.Status.Error == "" {
		t.Fatalf("expected error to be recorded")
	}
	if snap.Payload.DailySignal.Date != "2026-01-01" {
		t.Fatalf("reference payload must stay visible, got %s", snap.Payload.DailySignal.Date)
	}
}

func TestRefreshFailureKeepsSourceAndPayload(t *testing.T) {
	loader := &stubLoader{}
	loader.set(func(ctx context.Context) (*models.SignalPayload, error) {
		return payloadForDate("2026-01-30"), nil
	})
	s := New(loader, referenceDefaults())
	defer s.Close()
	ch := watch(s)

	s.Start(context.Background())
	waitStatus(t, ch, func(st models.DataStatus) bool { return st.Source == models.SourceLive })

	loader.set(func(ctx context.Context) (*models.SignalPayload, error) {
		return nil, errors.New("upstream down")
	})
	s.Refresh()
	snap := waitStatus(t, ch, func(st models.DataStatus) bool {
		return !st.Loading && st.Error != ""
	})

	if snap.Status.Source != models.SourceLive {
		t.Fatalf("failed refresh must keep the previous source, got %s", snap.Status.Source)
	}
	if snap.Payload.DailySignal.Date != "2026-01-30" {
		t.Fatalf("failed refresh must keep the displayed payload, got %s", snap.Payload.DailySignal.Date)
	}
}

func TestRefreshKeepsPayloadWhileLoading(t *testing.T) {
	loader := &stubLoader{}
	loader.set(func(ctx context.Context) (*models.SignalPayload, error) {
		return payloadForDate("2026-01-30"), nil
	})
	s := New(loader, referenceDefaults())
	defer s.Close()
	ch := watch(s)

	s.Start(context.Background())
	waitStatus(t, ch, func(st models.DataStatus) bool { return st.Source == models.SourceLive })

	release := make(chan struct{})
	loader.set(func(ctx context.Context) (*models.SignalPayload, error) {
		<-release
		return payloadForDate("2026-01-31"), nil
	})

	st := s.Refresh()
	if !st.Loading {
		t.Fatalf("refresh must re-enter loading, got %+v", st)
	}
	if got := s.Payload().DailySignal.Date; got != "2026-01-30" {
		t.Fatalf("old payload must stay visible during refresh, got %s", got)
	}

	close(release)
	snap := waitStatus(t, ch, func(st models.DataStatus) bool { return !st.Loading })
	if snap.Payload.DailySignal.Date != "2026-01-31" {
		t.Fatalf("new payload must replace the old one, got %s", snap.Payload.DailySignal.Date)
	}
}

// queueLoader hands each Load call the next queued behavior.
type queueLoader struct {
	ch chan func(ctx context.Context) (*models.SignalPayload, error)
}

func (l *queueLoader) Load(ctx context.Context) (*models.SignalPayload, error) {
	return (<-l.ch)(ctx)
}

func TestOverlappingRefreshLastCompletedWins(t *testing.T) {
	loader := &queueLoader{ch: make(chan func(ctx context.Context) (*models.SignalPayload, error), 4)}
	loader.ch <- func(ctx context.Context) (*models.SignalPayload, error) {
		return payloadForDate("2026-01-30"), nil
	}
	s := New(loader, referenceDefaults())
	defer s.Close()
	ch := watch(s)

	s.Start(context.Background())
	waitStatus(t, ch, func(st models.DataStatus) bool { return st.Source == models.SourceLive })

	releaseA := make(chan struct{})
	releaseB := make(chan struct{})
	loader.ch <- func(ctx context.Context) (*models.SignalPayload, error) {
		<-releaseA
		return payloadForDate("2026-02-01"), nil
	}
	loader.ch <- func(ctx context.Context) (*models.SignalPayload, error) {
		<-releaseB
		return payloadForDate("2026-02-02"), nil
	}
	s.Refresh()
	s.Refresh()

	close(releaseB)
	waitStatus(t, ch, func(st models.DataStatus) bool { return !st.Loading })
	close(releaseA)
	snap := waitStatus(t, ch, func(st models.DataStatus) bool { return !st.Loading })

	if snap.Payload.DailySignal.Date != "2026-02-01" {
		t.Fatalf("the last response to complete must win, got %s", snap.Payload.DailySignal.Date)
	}
}

func TestCloseDiscardsInFlightResult(t *testing.T) {
	loader := &stubLoader{}
	loader.set(func(ctx context.Context) (*models.SignalPayload, error) {
		return payloadForDate("2026-01-30"), nil
	})
	s := New(loader, referenceDefaults())

	s.Close()
	s.load(context.Background(), true)

	st := s.Status()
	if st.Source != models.SourceMock || !st.Loading {
		t.Fatalf("a closed session must not apply results, got %+v", st)
	}
	if got := s.Payload().DailySignal.Date; got != "2026-01-01" {
		t.Fatalf("payload must stay untouched after close, got %s", got)
	}
}

func TestCancelledLoadDiscarded(t *testing.T) {
	loader := &stubLoader{}
	loader.set(func(ctx context.Context) (*models.SignalPayload, error) {
		return payloadForDate("2026-01-30"), nil
	})
	s := New(loader, referenceDefaults())
	defer s.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s.load(ctx, true)

	if st := s.Status(); st.Source != models.SourceMock {
		t.Fatalf("a cancelled load must not apply results, got %+v", st)
	}
}

func TestStartRunsOnce(t *testing.T) {
	var calls int
	var mu sync.Mutex
	loader := &stubLoader{}
	loader.set(func(ctx context.Context) (*models.SignalPayload, error) {
		mu.Lock()
		calls++
		mu.Unlock()
		return payloadForDate("2026-01-30"), nil
	})
	s := New(loader, referenceDefaults())
	defer s.Close()
	ch := watch(s)

	s.Start(context.Background())
	s.Start(context.Background())
	waitStatus(t, ch, func(st models.DataStatus) bool { return !st.Loading })

	mu.Lock()
	defer mu.Unlock()
	if calls != 1 {
		t.Fatalf("start must load exactly once, got %d calls", calls)
	}
}

func TestSelectAssetAndSetView(t *testing.T) {
	s := New(&stubLoader{}, referenceDefaults())

	v := s.SelectAsset("btc")
	if v.SelectedAssetID != "btc" || v.CurrentView != models.ViewAssetDetail {
		t.Fatalf("selecting an asset must open the detail view, got %+v", v)
	}

	if a, ok := s.SelectedAsset(); !ok || a.ID != "btc" {
		t.Fatalf("expected selected asset btc, got %+v ok=%v", a, ok)
	}
	if sig, ok := s.SelectedSignal(); !ok || sig.AssetID != "btc" {
		t.Fatalf("expected selected signal for btc, got %+v ok=%v", sig, ok)
	}

	v = s.SelectAsset("")
	if v.SelectedAssetID != "" || v.CurrentView != models.ViewOverview {
		t.Fatalf("clearing the selection must return to overview, got %+v", v)
	}

	s.SelectAsset("btc")
	v = s.SetView(models.ViewLongCycle)
	if v.SelectedAssetID != "btc" || v.CurrentView != models.ViewLongCycle {
		t.Fatalf("non-overview views keep the selection, got %+v", v)
	}

	v = s.SetView(models.ViewOverview)
	if v.SelectedAssetID != "" {
		t.Fatalf("returning to overview must clear the selection, got %+v", v)
	}
}

func TestTechnicalsFallbackChain(t *testing.T) {
	s := New(&stubLoader{}, referenceDefaults())

	if got := s.Technicals("btc"); got.MA20 != 95000 {
		t.Fatalf("expected reference technicals, got %+v", got)
	}

	got := s.Technicals("unknown")
	if got.RSToBenchmark != 1 || got.VolPercentile1Y != 50 {
		t.Fatalf("expected neutral technicals for unknown asset, got %+v", got)
	}
}

func TestHistorySynthesizedWhenAbsent(t *testing.T) {
	s := New(&stubLoader{}, referenceDefaults())

	got := s.History("btc", 30)
	if len(got) != 31 {
		t.Fatalf("expected synthesized series of 31 candles, got %d", len(got))
	}

	if got := s.History("unknown", 30); len(got) != 0 {
		t.Fatalf("unknown asset must yield an empty series, got %d", len(got))
	}
}

func TestHistoryPrefersStoredSeries(t *testing.T) {
	loader := &stubLoader{}
	loader.set(func(ctx context.Context) (*models.SignalPayload, error) {
		p := payloadForDate("2026-01-30")
		p.PriceHistory = map[string][]models.PricePoint{
			"btc": {{Date: "2026-01-30", Close: 97000}},
		}
		return p, nil
	})
	s := New(loader, referenceDefaults())
	defer s.Close()
	ch := watch(s)

	s.Start(context.Background())
	waitStatus(t, ch, func(st models.DataStatus) bool { return !st.Loading })

	got := s.History("btc", 180)
	if len(got) != 1 || got[0].Close != 97000 {
		t.Fatalf("stored series must win over synthesis, got %d candles", len(got))
	}
}
