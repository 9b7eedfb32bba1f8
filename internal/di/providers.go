package di

import (
	"fmt"
	"time"

	"github.com/seethefuture888888-creator/kangbo/internal/domain/models"
	"github.com/seethefuture888888-creator/kangbo/internal/handler/api"
	"github.com/seethefuture888888-creator/kangbo/internal/handler/ws"
	"github.com/seethefuture888888-creator/kangbo/internal/refdata"
	icache "github.com/seethefuture888888-creator/kangbo/internal/service/cache"
	"github.com/seethefuture888888-creator/kangbo/internal/session"
	"github.com/seethefuture888888-creator/kangbo/internal/source"
	"github.com/seethefuture888888-creator/kangbo/pkg/config"
	xhttp "github.com/seethefuture888888-creator/kangbo/pkg/http"
	applogger "github.com/seethefuture888888-creator/kangbo/pkg/logger"
	"github.com/seethefuture888888-creator/kangbo/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideReference loads the bundled reference dataset.
func ProvideReference() (*models.SignalPayload, error) {
	ref, err := refdata.Load()
	if err != nil {
		return nil, fmt.Errorf("reference data: %w", err)
	}
	return ref, nil
}

// ProvideFeedClient creates the upstream payload client.
func ProvideFeedClient(cfg *config.Config, l *applogger.Logger) *source.Client {
	timeout := cfg.Feed.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return source.NewClient(cfg.Feed.URL, cfg.Feed.LiveRefresh,
		source.WithHTTPClient(xhttp.NewClient(xhttp.WithTimeout(timeout))),
		source.WithLogger(l),
	)
}

// ProvideSession creates the dashboard session seeded with reference data.
func ProvideSession(client *source.Client, ref *models.SignalPayload, l *applogger.Logger) *session.Session {
	return session.New(client, ref, session.WithLogger(l))
}

// ProvideDashboardHandler creates the read API handler. When Redis caching is
// enabled but unreachable, the handler falls back to the in-process cache.
func ProvideDashboardHandler(cfg *config.Config, l *applogger.Logger, sess *session.Session) *api.DashboardHandler {
	h := api.NewDashboardHandler(l, sess, cfg.Feed.URL)

	if cfg.Cache.Redis.Enabled {
		rc, err := icache.NewRedisCache(icache.RedisConfig{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
		})
		if err != nil {
			l.Warn("redis cache unavailable, using in-process cache", applogger.Error(err))
		} else {
			h.SetCache(rc)
		}
	}
	return h
}

// ProvideHub creates the WebSocket push hub.
func ProvideHub(l *applogger.Logger) *ws.Hub {
	return ws.NewHub(l)
}

// ProvideApp assembles the application.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	sess *session.Session,
	handler *api.DashboardHandler,
	hub *ws.Hub,
) *server.App {
	return server.New(cfg, l, sess, handler, hub)
}
