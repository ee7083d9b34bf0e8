package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skypoint_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"path", "method", "code"},
	)

	httpDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "skypoint_http_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method"},
	)

	conversionsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "skypoint_conversions_total",
			Help: "Total number of equatorial-to-horizontal conversions performed.",
		},
	)

	parseErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skypoint_parse_errors_total",
			Help: "Total number of sexagesimal parse failures by angle kind.",
		},
		[]string{"kind"},
	)

	catalogObjects = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "skypoint_catalog_objects",
			Help: "Number of objects in the loaded catalog.",
		},
	)

	catalogAgeSeconds = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "skypoint_catalog_age_seconds",
			Help: "Age of the loaded catalog dataset in seconds.",
		},
	)

	snapshotDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "skypoint_snapshot_duration_seconds",
			Help:    "Full-sky snapshot computation duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
	)

	streamConnections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skypoint_stream_connections_total",
			Help: "Total SSE stream connection events.",
		},
		[]string{"event"},
	)

	streamsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "skypoint_streams_active",
			Help: "Number of currently active SSE streams.",
		},
	)

	streamMessagesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "skypoint_stream_messages_total",
			Help: "Total SSE data messages sent.",
		},
	)

	streamBytesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "skypoint_stream_bytes_total",
			Help: "Total bytes written to SSE streams.",
		},
	)

	streamErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skypoint_stream_errors_total",
			Help: "Total SSE stream errors by reason.",
		},
		[]string{"reason"},
	)
)

func init() {
	prometheus.MustRegister(
		httpRequestsTotal,
		httpDurationSeconds,
		conversionsTotal,
		parseErrorsTotal,
		catalogObjects,
		catalogAgeSeconds,
		snapshotDuration,
		streamConnections,
		streamsActive,
		streamMessagesTotal,
		streamBytesTotal,
		streamErrorsTotal,
	)
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// IncConversions counts one completed equatorial-to-horizontal conversion.
func IncConversions() { conversionsTotal.Inc() }

// IncParseErrors counts one parse failure for the given angle kind.
func IncParseErrors(kind string) { parseErrorsTotal.WithLabelValues(kind).Inc() }

// SetCatalogObjects publishes the loaded catalog size.
func SetCatalogObjects(n int) { catalogObjects.Set(float64(n)) }

// SetCatalogAge publishes the loaded catalog age in seconds.
func SetCatalogAge(seconds float64) { catalogAgeSeconds.Set(seconds) }

// ObserveSnapshotDuration records one full-sky snapshot computation.
func ObserveSnapshotDuration(d time.Duration) { snapshotDuration.Observe(d.Seconds()) }

// IncStreamConnections counts a stream connect/disconnect event.
func IncStreamConnections(event string) { streamConnections.WithLabelValues(event).Inc() }

// IncStreamsActive increments the active stream gauge.
func IncStreamsActive() { streamsActive.Inc() }

// DecStreamsActive decrements the active stream gauge.
func DecStreamsActive() { streamsActive.Dec() }

// IncStreamMessages counts one SSE data message.
func IncStreamMessages() { streamMessagesTotal.Inc() }

// AddStreamBytes counts bytes written to a stream.
func AddStreamBytes(n int64) { streamBytesTotal.Add(float64(n)) }

// IncStreamErrors counts one stream error for the given reason.
func IncStreamErrors(reason string) { streamErrorsTotal.WithLabelValues(reason).Inc() }

// knownRoutes are the registered paths. Anything else gets the "other" label
// so scanners and bots cannot inflate metric cardinality.
var knownRoutes = map[string]bool{
	"/":                  true,
	"/healthz":           true,
	"/readyz":            true,
	"/metrics":           true,
	"/api/v1/convert":    true,
	"/api/v1/altaz":      true,
	"/api/v1/sky":        true,
	"/api/v1/sun":        true,
	"/api/v1/events":     true,
	"/api/v1/catalog":    true,
	"/api/v1/time":       true,
	"/api/v1/stream/sky": true,
}

func normalizeRoute(path string) string {
	if knownRoutes[path] {
		return path
	}
	return "other"
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Middleware records request count and duration for each request.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		code := strconv.Itoa(rw.statusCode)

		route := normalizeRoute(r.URL.Path)
		httpRequestsTotal.WithLabelValues(route, r.Method, code).Inc()
		httpDurationSeconds.WithLabelValues(route, r.Method).Observe(duration)
	})
}
