// Package api exposes the reconciled dashboard state to the rendering layer.
// Everything served here is a read-only snapshot; the only mutations are the
// renderer's own selection state and a manual refresh trigger.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/seethefuture888888-creator/kangbo/internal/domain/models"
	icache "github.com/seethefuture888888-creator/kangbo/internal/service/cache"
	"github.com/seethefuture888888-creator/kangbo/internal/service/ratelimit"
	"github.com/seethefuture888888-creator/kangbo/internal/session"
	xhttp "github.com/seethefuture888888-creator/kangbo/pkg/http"
	xlogger "github.com/seethefuture888888-creator/kangbo/pkg/logger"
)

const snapshotKey = "dashboard:snapshot"

// snapshotTTL bounds how stale a cached dashboard response may be between
// state changes. Mutating endpoints drop the entry eagerly.
const snapshotTTL = 5 * time.Second

// DashboardHandler implements the Echo-based read API over a session.
type DashboardHandler struct {
	logger  *xlogger.Logger
	sess    *session.Session
	cache   icache.BytesCache
	rl      *ratelimit.Limiter
	feedURL string
}

func NewDashboardHandler(logger *xlogger.Logger, sess *session.Session, feedURL string) *DashboardHandler {
	return &DashboardHandler{
		logger:  logger,
		sess:    sess,
		cache:   icache.NewTTLCache(),
		rl:      ratelimit.New(),
		feedURL: feedURL,
	}
}

// SetCache swaps the snapshot cache, e.g. for a Redis-backed one.
func (h *DashboardHandler) SetCache(c icache.BytesCache) { h.cache = c }

func (h *DashboardHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/api/health", h.Health)

	g := e.Group("/api")
	g.GET("/dashboard", h.Dashboard)
	g.GET("/status", h.Status)
	g.POST("/refresh", h.Refresh)
	g.GET("/assets", h.Assets)
	g.GET("/assets/:id", h.Asset)
	g.GET("/assets/:id/history", h.History)
	g.GET("/view", h.View)
	g.POST("/view", h.SetView)
	g.POST("/select", h.Select)
}

// Health reports liveness plus the configured feed location, so a degraded
// source is diagnosable without reading logs.
func (h *DashboardHandler) Health(c echo.Context) error {
	st := h.sess.Status()
	return c.JSON(http.StatusOK, map[string]interface{}{
		"ok":     true,
		"feed":   h.feedURL,
		"source": st.Source,
	})
}

// Dashboard serves the full snapshot: payload, status, view state, summary
// and positions. Responses are byte-cached briefly.
func (h *DashboardHandler) Dashboard(c echo.Context) error {
	if b, ok, err := h.cache.GetBytes(snapshotKey); err == nil && ok {
		return c.JSONBlob(http.StatusOK, b)
	} else if err != nil && h.logger != nil {
		h.logger.Warn("dashboard cache_get_error", xlogger.Error(err))
	}

	snap := h.sess.Snapshot()
	b, err := json.Marshal(snap)
	if err != nil {
		if h.logger != nil {
			h.logger.Error("dashboard marshal_error", xlogger.Error(err))
		}
		return xhttp.InternalServerErrorResponse(c)
	}
	if err := h.cache.SetBytes(snapshotKey, b, snapshotTTL); err != nil && h.logger != nil {
		h.logger.Warn("dashboard cache_set_error", xlogger.Error(err))
	}
	return c.JSONBlob(http.StatusOK, b)
}

func (h *DashboardHandler) Status(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.sess.Status())
}

// Refresh triggers a background reload. Token-bucket limited per caller: a
// stuck renderer hammering refresh must not hammer the upstream generator.
func (h *DashboardHandler) Refresh(c echo.Context) error {
	if !h.rl.Allow(c.RealIP()+":refresh", 3, 0.5) {
		if h.logger != nil {
			h.logger.Warn("refresh rate_limited", xlogger.String("remote", c.RealIP()))
		}
		return xhttp.AppErrorResponse(c, xhttp.TooManyRequestsError("refresh rate limited"))
	}

	_ = h.cache.Delete(snapshotKey)
	st := h.sess.Refresh()
	return xhttp.AcceptedResponse(c, st)
}

type assetListItem struct {
	Asset    models.Asset             `json:"asset"`
	Signal   *models.AssetSignal      `json:"signal,omitempty"`
	Position models.PortfolioPosition `json:"position"`
}

func (h *DashboardHandler) Assets(c echo.Context) error {
	p := h.sess.Payload()
	positions := h.sess.Positions()

	byID := make(map[string]models.PortfolioPosition, len(positions))
	for _, pos := range positions {
		byID[pos.AssetID] = pos
	}

	items := make([]assetListItem, 0, len(p.Assets))
	for _, a := range p.Assets {
		item := assetListItem{Asset: a, Position: byID[a.ID]}
		if sig, ok := p.SignalByAssetID(a.ID); ok {
			item.Signal = &sig
		}
		items = append(items, item)
	}
	return xhttp.SuccessResponse(c, items)
}

type assetDetail struct {
	Asset      models.Asset             `json:"asset"`
	Signal     *models.AssetSignal      `json:"signal,omitempty"`
	Technicals models.TechnicalData     `json:"technicals"`
	Position   models.PortfolioPosition `json:"position"`
}

func (h *DashboardHandler) Asset(c echo.Context) error {
	id := c.Param("id")
	p := h.sess.Payload()

	asset, ok := p.AssetByID(id)
	if !ok {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundErrorf("asset %s not found", id))
	}

	detail := assetDetail{
		Asset:      asset,
		Technicals: h.sess.Technicals(id),
	}
	if sig, ok := p.SignalByAssetID(id); ok {
		detail.Signal = &sig
	}
	for _, pos := range h.sess.Positions() {
		if pos.AssetID == id {
			detail.Position = pos
			break
		}
	}
	return xhttp.SuccessResponse(c, detail)
}

// History serves the resolved OHLCV series. Resolution never fails: an asset
// unknown to both the payload and the catalog just yields an empty series.
func (h *DashboardHandler) History(c echo.Context) error {
	req := &models.HistoryRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	return xhttp.SuccessResponse(c, h.sess.History(c.Param("id"), req.Days))
}

func (h *DashboardHandler) View(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.sess.ViewState())
}

func (h *DashboardHandler) SetView(c echo.Context) error {
	req := &models.ViewRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	_ = h.cache.Delete(snapshotKey)
	return xhttp.SuccessResponse(c, h.sess.SetView(models.View(req.View)))
}

// Select sets or clears the selected asset. An empty assetId clears the
// selection and returns to the overview.
func (h *DashboardHandler) Select(c echo.Context) error {
	req := &models.SelectRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	_ = h.cache.Delete(snapshotKey)
	return xhttp.SuccessResponse(c, h.sess.SelectAsset(req.AssetID))
}
