// Package stream implements Server-Sent Events (SSE) streaming of full-sky
// snapshots. Clients connect via GET /api/v1/stream/sky with observer
// coordinates and receive the current altitude/azimuth of every catalog
// object at a fixed cadence.
//
// SSE message format:
//
//	data: {"type":"sky","t":"2026-08-28T04:00:00Z","observer":{...},"objects":[...]}\n\n
//
// First message is always metadata:
//
//	data: {"type":"metadata","catalog_source":"builtin","catalog_objects":66}\n\n
//
// Keep-alive comments (:\n\n) are sent every KeepaliveInterval to prevent
// timeout. Reconnecting clients receive a fresh metadata message on each
// connection.
package stream

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"strconv"
	"time"

	"github.com/sky/skypoint/internal/catalog"
	"github.com/sky/skypoint/internal/httputil"
	"github.com/sky/skypoint/internal/metrics"
	"github.com/sky/skypoint/internal/sky"
	"github.com/sky/skypoint/internal/transform"
)

// Config holds streaming configuration.
type Config struct {
	MaxConcurrentPerIP int           // Max concurrent streams per IP (default: 10).
	KeepaliveInterval  time.Duration // Keep-alive ping interval (default: 30s).
	TrustProxy         bool          // Trust X-Forwarded-For / X-Real-IP.
}

// Handler manages SSE streaming connections.
type Handler struct {
	computer *sky.Computer
	store    *catalog.Store
	config   Config
	limiter  *streamLimiter
	logger   *slog.Logger
}

// NewHandler creates a new streaming handler.
func NewHandler(computer *sky.Computer, store *catalog.Store, config Config, logger *slog.Logger) *Handler {
	return &Handler{
		computer: computer,
		store:    store,
		config:   config,
		limiter:  newStreamLimiter(config.MaxConcurrentPerIP),
		logger:   logger,
	}
}

// HandleSky serves the SSE sky-snapshot stream.
// GET /api/v1/stream/sky?lat=51.48&lon=0&step=5
func (h *Handler) HandleSky(w http.ResponseWriter, r *http.Request) {
	lat, lon, ok := parseObserverParams(w, r)
	if !ok {
		return
	}
	obs := transform.NewObserver(lat, lon)

	step := 5
	if v := r.URL.Query().Get("step"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 60 {
			writeJSONError(w, http.StatusBadRequest, "invalid step parameter, must be 1-60")
			return
		}
		step = n
	}

	// Rate limiting: enforce concurrent stream limit per IP.
	ip := httputil.ClientIP(r, h.config.TrustProxy)
	if !h.limiter.acquire(ip) {
		metrics.IncStreamErrors("rate_limit")
		h.logger.Warn("stream rate limit exceeded",
			"remote_ip", ip,
			"current_count", h.limiter.count(ip),
		)
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]string{"error": "too many concurrent streams"})
		return
	}

	metrics.IncStreamConnections("connect")
	metrics.IncStreamsActive()

	startTime := time.Now()
	h.logger.Info("stream connected",
		"remote_ip", ip,
		"user_agent", r.Header.Get("User-Agent"),
		"lat", lat,
		"lon", lon,
		"step", step,
	)

	defer func() {
		h.limiter.release(ip)
		metrics.IncStreamConnections("disconnect")
		metrics.DecStreamsActive()
		h.logger.Info("stream disconnected",
			"remote_ip", ip,
			"duration_seconds", int(time.Since(startTime).Seconds()),
		)
	}()

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSONError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering.
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	// Clear the server's default WriteTimeout for this long-lived connection.
	rc := http.NewResponseController(w)
	if err := rc.SetWriteDeadline(time.Time{}); err != nil {
		h.logger.Debug("could not clear write deadline", "error", err)
	}

	c := &client{
		w:       w,
		flusher: flusher,
		rc:      rc,
		ip:      ip,
		logger:  h.logger,
	}

	// Jittered retry interval (3-7s) prevents thundering-herd reconnection
	// storms when the server restarts.
	retryMs := 3000 + rand.Intn(4000)
	fmt.Fprintf(w, "retry: %d\n\n", retryMs)
	flusher.Flush()

	// Metadata message (first message on every connection).
	if ds := h.store.Get(); ds != nil {
		meta := metadataMessage{
			Type:           "metadata",
			CatalogSource:  ds.Source,
			CatalogObjects: len(ds.Entries),
		}
		if err := c.sendJSON(meta); err != nil {
			metrics.IncStreamErrors("send_error")
			h.logger.Warn("stream send error (metadata)", "remote_ip", ip, "error", err)
			return
		}
	}

	ticker := time.NewTicker(time.Duration(step) * time.Second)
	defer ticker.Stop()

	keepaliveTicker := time.NewTicker(h.config.KeepaliveInterval)
	defer keepaliveTicker.Stop()

	ctx := r.Context()

	for {
		select {
		case <-ctx.Done():
			return

		case t := <-ticker.C:
			ds := h.store.Get()
			if ds == nil {
				metrics.IncStreamErrors("no_catalog")
				continue
			}

			snapStart := time.Now()
			snap, _, _ := h.computer.Compute(ctx, ds.Objects(), obs, t.UTC())
			metrics.ObserveSnapshotDuration(time.Since(snapStart))

			data, err := json.Marshal(buildSkyMessage(snap))
			if err != nil {
				metrics.IncStreamErrors("marshal_error")
				h.logger.Warn("stream marshal error", "remote_ip", ip, "error", err)
				continue
			}
			if err := c.sendRaw(data); err != nil {
				metrics.IncStreamErrors("send_error")
				h.logger.Warn("stream send error", "remote_ip", ip, "error", err)
				return
			}

			// Reset keepalive since we just sent data.
			keepaliveTicker.Reset(h.config.KeepaliveInterval)

		case <-keepaliveTicker.C:
			if err := c.sendKeepalive(); err != nil {
				metrics.IncStreamErrors("send_error")
				h.logger.Warn("stream keepalive error", "remote_ip", ip, "error", err)
				return
			}
		}
	}
}

func parseObserverParams(w http.ResponseWriter, r *http.Request) (lat, lon float64, ok bool) {
	var err error
	lat, err = strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	if err != nil || lat < -90 || lat > 90 {
		writeJSONError(w, http.StatusBadRequest, "invalid lat parameter, must be -90..90")
		return 0, 0, false
	}
	lon, err = strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
	if err != nil || lon < -180 || lon > 180 {
		writeJSONError(w, http.StatusBadRequest, "invalid lon parameter, must be -180..180 (east-positive)")
		return 0, 0, false
	}
	return lat, lon, true
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// buildSkyMessage formats a snapshot into the SSE payload.
func buildSkyMessage(snap *sky.Snapshot) skyMessage {
	return skyMessage{
		Type: "sky",
		T:    snap.Timestamp.UTC().Format(time.RFC3339),
		Observer: observerPayload{
			Lat: snap.Observer.LatDeg,
			Lon: snap.Observer.LonDeg,
		},
		Objects: snap.Positions,
	}
}

// SSE message payload types.

type metadataMessage struct {
	Type           string `json:"type"`
	CatalogSource  string `json:"catalog_source"`
	CatalogObjects int    `json:"catalog_objects"`
}

type skyMessage struct {
	Type     string               `json:"type"`
	T        string               `json:"t"`
	Observer observerPayload      `json:"observer"`
	Objects  []sky.ObjectPosition `json:"objects"`
}

type observerPayload struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}
