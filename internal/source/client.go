// Package source pulls the signal payload from the upstream generator. Two
// endpoints exist: a cached document path hit with a cache-defeating query
// parameter, and a live-recompute path that forces a fresh build server-side.
package source

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/seethefuture888888-creator/kangbo/internal/domain/models"
	xhttp "github.com/seethefuture888888-creator/kangbo/pkg/http"
	applogger "github.com/seethefuture888888-creator/kangbo/pkg/logger"
)

// LivePath is appended to the configured origin when live refresh is on.
const LivePath = "/api/dashboard/live"

// Client fetches and shape-checks dashboard payloads.
type Client struct {
	http        *xhttp.Client
	baseURL     string
	liveRefresh bool
	validate    *validator.Validate
	logger      *applogger.Logger
	now         func() time.Time
}

// Option configures Client.
type Option func(*Client)

// WithLogger attaches a structured logger.
func WithLogger(l *applogger.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithHTTPClient overrides the transport client.
func WithHTTPClient(hc *xhttp.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithClock overrides the cache-busting clock.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// NewClient creates a payload client for the given document URL. When
// liveRefresh is set, requests target the live-recompute endpoint derived
// from the URL's origin instead of the document itself.
func NewClient(baseURL string, liveRefresh bool, opts ...Option) *Client {
	v := validator.New()
	// Report wire names in schema errors; the payload producer knows
	// "macroSwitches", not "MacroSwitches".
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	c := &Client{
		http:        xhttp.NewClient(xhttp.WithTimeout(30 * time.Second)),
		baseURL:     baseURL,
		liveRefresh: liveRefresh,
		validate:    v,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load fetches one payload. Failure modes: *FetchError for transport/status
// problems, *SchemaError when a mandatory field is absent. Both are meant to
// be recovered at the session boundary.
func (c *Client) Load(ctx context.Context) (*models.SignalPayload, error) {
	u, err := c.endpoint()
	if err != nil {
		return nil, &FetchError{URL: c.baseURL, Err: err}
	}

	var payload models.SignalPayload
	status, err := c.http.GetJSON(ctx, u, map[string]string{
		"Cache-Control": "no-store",
		"Pragma":        "no-cache",
	}, &payload)
	if err != nil {
		fe := &FetchError{URL: u, Err: err}
		if status != 0 && (status < 200 || status >= 300) {
			fe.Status = status
		}
		return nil, fe
	}

	if err := c.checkShape(&payload); err != nil {
		return nil, err
	}

	if c.logger != nil {
		c.logger.Debug("payload loaded",
			applogger.String("url", u),
			applogger.Int("assets", len(payload.Assets)),
			applogger.Int("signals", len(payload.AssetSignals)),
		)
	}
	return &payload, nil
}

// endpoint picks the target URL for this call. The cached document path gets
// a distinct t=<unix-ms> parameter per call so intermediary caches never serve
// stale bytes.
func (c *Client) endpoint() (string, error) {
	if c.liveRefresh {
		parsed, err := url.Parse(c.baseURL)
		if err != nil {
			return "", fmt.Errorf("parse base url: %w", err)
		}
		origin := &url.URL{Scheme: parsed.Scheme, Host: parsed.Host}
		return origin.String() + LivePath, nil
	}

	sep := "?"
	if strings.Contains(c.baseURL, "?") {
		sep = "&"
	}
	return c.baseURL + sep + "t=" + strconv.FormatInt(c.now().UnixMilli(), 10), nil
}

func (c *Client) checkShape(p *models.SignalPayload) error {
	err := c.validate.Struct(p)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &SchemaError{Missing: []string{err.Error()}}
	}

	seen := map[string]bool{}
	missing := make([]string, 0, len(verrs))
	for _, ve := range verrs {
		// Report the top-level payload field, not nested offenders.
		field := strings.SplitN(strings.TrimPrefix(ve.Namespace(), "SignalPayload."), ".", 2)[0]
		if !seen[field] {
			seen[field] = true
			missing = append(missing, field)
		}
	}
	return &SchemaError{Missing: missing}
}

// Merge overlays the fetched payload onto session defaults: present and
// non-empty optional fields win, otherwise the default value is retained.
// Mandatory fields always come from the fetch.
func Merge(fetched, defaults *models.SignalPayload) *models.SignalPayload {
	out := *fetched
	if out.LongCycle == nil {
		out.LongCycle = defaults.LongCycle
	}
	if len(out.TechnicalData) == 0 {
		out.TechnicalData = defaults.TechnicalData
	}
	if out.PriceHistory == nil {
		out.PriceHistory = map[string][]models.PricePoint{}
	}
	return &out
}
