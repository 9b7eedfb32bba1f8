// Package session owns the mutable dashboard state for one service run: the
// current payload, its load status and the renderer's selection. All mutation
// goes through the Session; accessors hand out recomputed snapshots.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/seethefuture888888-creator/kangbo/internal/domain/models"
	"github.com/seethefuture888888-creator/kangbo/internal/service/metrics"
	"github.com/seethefuture888888-creator/kangbo/internal/source"
	applogger "github.com/seethefuture888888-creator/kangbo/pkg/logger"
)

// Loader pulls one payload from upstream. Satisfied by *source.Client.
type Loader interface {
	Load(ctx context.Context) (*models.SignalPayload, error)
}

// Snapshot is the read-only view handed to the rendering layer.
type Snapshot struct {
	Payload   *models.SignalPayload      `json:"payload"`
	Status    models.DataStatus          `json:"status"`
	View      models.ViewState           `json:"view"`
	Summary   models.PortfolioSummary    `json:"summary"`
	Positions []models.PortfolioPosition `json:"positions"`
}

// Session is the top-level state container. The zero value is not usable;
// construct with New.
type Session struct {
	loader   Loader
	defaults *models.SignalPayload
	logger   *applogger.Logger

	mu       sync.Mutex
	payload  *models.SignalPayload
	status   models.DataStatus
	view     models.ViewState
	started  bool
	closed   bool
	ctx      context.Context
	cancel   context.CancelFunc
	onChange []func(Snapshot)
}

// Option configures Session.
type Option func(*Session)

// WithLogger attaches a structured logger.
func WithLogger(l *applogger.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// New creates a session pre-populated with the bundled reference dataset.
// Until the first load settles the status reads {loading:true, source:mock}.
func New(loader Loader, defaults *models.SignalPayload, opts ...Option) *Session {
	initial := *defaults
	if initial.PriceHistory == nil {
		initial.PriceHistory = map[string][]models.PricePoint{}
	}

	s := &Session{
		loader:   loader,
		defaults: defaults,
		payload:  &initial,
		status:   models.DataStatus{Loading: true, Source: models.SourceMock},
		view: models.ViewState{
			SelectedDate: defaults.DailySignal.Date,
			CurrentView:  models.ViewOverview,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	metrics.Register()
	metrics.SetSource(models.SourceMock)
	return s
}

// Start launches the initial load. It runs exactly once per session and is
// bound to ctx: results arriving after cancellation are discarded.
func (s *Session) Start(ctx context.Context) {
	s.mu.Lock()
	if s.started || s.closed {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.ctx, s.cancel = context.WithCancel(ctx)
	loadCtx := s.ctx
	s.mu.Unlock()

	go s.load(loadCtx, true)
}

// Refresh re-enters the loading state and pulls a new payload in the
// background. The last good payload stays visible until the new one (or an
// error) arrives. Safe to invoke repeatedly; when calls overlap, whichever
// response completes last wins.
func (s *Session) Refresh() models.DataStatus {
	s.mu.Lock()
	if s.closed || s.ctx == nil {
		st := s.status
		s.mu.Unlock()
		return st
	}
	s.status.Loading = true
	st := s.status
	ctx := s.ctx
	s.mu.Unlock()

	s.broadcast()
	go s.load(ctx, false)
	return st
}

// Close tears the session down. In-flight loads are cancelled and their
// results never mutate state.
func (s *Session) Close() {
	s.mu.Lock()
	s.closed = true
	cancel := s.cancel
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// OnChange registers a callback invoked after every state transition.
// Callbacks run outside the session lock.
func (s *Session) OnChange(fn func(Snapshot)) {
	s.mu.Lock()
	s.onChange = append(s.onChange, fn)
	s.mu.Unlock()
}

// load performs one fetch cycle and applies the outcome. Applying under the
// lock in completion order gives last-completed-wins for overlapping
// refreshes; a session torn down mid-flight discards the result entirely.
func (s *Session) load(ctx context.Context, initial bool) {
	start := time.Now()
	payload, err := s.loader.Load(ctx)

	s.mu.Lock()
	if s.closed || ctx.Err() != nil {
		s.mu.Unlock()
		return
	}

	if err != nil {
		s.status.Loading = false
		s.status.Error = err.Error()
		// An initial failure means nothing live was ever shown, so the
		// source is mock. A failed refresh keeps the previous source:
		// the displayed payload is stale but its provenance is unchanged.
		if initial {
			s.status.Source = models.SourceMock
		}
		src := s.status.Source
		s.mu.Unlock()

		metrics.ObserveRefresh(metrics.ResultFor(err), time.Since(start))
		metrics.SetSource(src)
		if s.logger != nil {
			s.logger.Warn("payload load failed, serving reference data",
				applogger.Error(err),
				applogger.Bool("initial", initial),
			)
		}
		s.broadcast()
		return
	}

	merged := source.Merge(payload, s.defaults)
	now := time.Now()
	s.payload = merged
	s.status = models.DataStatus{
		Loading:       false,
		Source:        models.SourceLive,
		LastUpdatedAt: &now,
	}
	s.view.SelectedDate = merged.DailySignal.Date
	s.mu.Unlock()

	metrics.ObserveRefresh(metrics.ResultOK, time.Since(start))
	metrics.SetSource(models.SourceLive)
	if s.logger != nil {
		s.logger.Info("payload loaded",
			applogger.String("date", merged.DailySignal.Date),
			applogger.Int("assets", len(merged.Assets)),
		)
	}
	s.broadcast()
}

func (s *Session) broadcast() {
	s.mu.Lock()
	fns := make([]func(Snapshot), len(s.onChange))
	copy(fns, s.onChange)
	s.mu.Unlock()

	if len(fns) == 0 {
		return
	}
	snap := s.Snapshot()
	for _, fn := range fns {
		fn(snap)
	}
}
