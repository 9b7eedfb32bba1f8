package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/seethefuture888888-creator/kangbo/internal/handler/api"
	"github.com/seethefuture888888-creator/kangbo/internal/handler/ws"
	"github.com/seethefuture888888-creator/kangbo/internal/session"
	"github.com/seethefuture888888-creator/kangbo/pkg/config"
	xhttp "github.com/seethefuture888888-creator/kangbo/pkg/http"
	applogger "github.com/seethefuture888888-creator/kangbo/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	logger     *applogger.Logger
	sess       *session.Session
	handler    *api.DashboardHandler
	hub        *ws.Hub
	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	logger *applogger.Logger,
	sess *session.Session,
	handler *api.DashboardHandler,
	hub *ws.Hub,
) *App {
	return &App{
		cfg:     cfg,
		logger:  logger,
		sess:    sess,
		handler: handler,
		hub:     hub,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Push every session state transition to connected renderers.
	a.sess.OnChange(a.hub.Broadcast)

	metricsPath := ""
	if a.cfg.Metrics.Enabled {
		metricsPath = a.cfg.Metrics.Path
	}
	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithMetricsPath(metricsPath),
	)
	a.hub.RegisterRoutes(a.httpServer.Echo())

	// Initial load, once per session, bound to app lifetime.
	a.sess.Start(ctx)
	a.logger.Info("session started",
		applogger.String("feed", a.cfg.Feed.URL),
		applogger.Bool("live_refresh", a.cfg.Feed.LiveRefresh),
	)

	if err := a.httpServer.Start(); err != nil {
		a.logger.Error("http server start error", applogger.Error(err))
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.logger.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// shutdown gracefully stops all services. The session goes down first so any
// in-flight load is discarded before the servers stop.
func (a *App) shutdown(ctx context.Context) error {
	a.sess.Close()
	a.hub.Close()

	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.logger.Error("http shutdown error", applogger.Error(err))
		return err
	}

	a.logger.Info("shutdown complete")
	return nil
}
