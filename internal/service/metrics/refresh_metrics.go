package metrics

import (
	"errors"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/seethefuture888888-creator/kangbo/internal/domain/models"
	"github.com/seethefuture888888-creator/kangbo/internal/source"
)

const (
	ResultOK          = "ok"
	ResultFetchError  = "fetch_error"
	ResultSchemaError = "schema_error"
)

var (
	once sync.Once

	RefreshLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "kangbo",
			Subsystem: "feed",
			Name:      "refresh_latency_seconds",
			Help:      "Latency of payload refreshes",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"result"},
	)

	RefreshTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "kangbo",
			Subsystem: "feed",
			Name:      "refresh_total",
			Help:      "Payload refreshes by result",
		},
		[]string{"result"},
	)

	LiveSource = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "kangbo",
			Subsystem: "feed",
			Name:      "live_source",
			Help:      "1 when the displayed payload came from the live feed, 0 for the bundled reference",
		},
	)
)

func Register() {
	once.Do(func() {
		prometheus.MustRegister(RefreshLatency, RefreshTotal, LiveSource)
	})
}

// ObserveRefresh records one completed load attempt.
func ObserveRefresh(result string, d time.Duration) {
	RefreshTotal.WithLabelValues(result).Inc()
	RefreshLatency.WithLabelValues(result).Observe(d.Seconds())
}

// SetSource reflects the current payload provenance.
func SetSource(src models.Source) {
	if src == models.SourceLive {
		LiveSource.Set(1)
		return
	}
	LiveSource.Set(0)
}

// ResultFor classifies a load error for the result label.
func ResultFor(err error) string {
	if err == nil {
		return ResultOK
	}
	var se *source.SchemaError
	if errors.As(err, &se) {
		return ResultSchemaError
	}
	return ResultFetchError
}
