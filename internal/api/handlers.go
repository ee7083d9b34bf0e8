package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/sky/skypoint/internal/astrotime"
	"github.com/sky/skypoint/internal/catalog"
	"github.com/sky/skypoint/internal/events"
	"github.com/sky/skypoint/internal/metrics"
	"github.com/sky/skypoint/internal/object"
	"github.com/sky/skypoint/internal/sexagesimal"
	"github.com/sky/skypoint/internal/sky"
	"github.com/sky/skypoint/internal/sun"
	"github.com/sky/skypoint/internal/transform"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// observerFromQuery parses and validates lat/lon query parameters.
// Longitude is east-positive.
func observerFromQuery(w http.ResponseWriter, r *http.Request) (transform.Observer, bool) {
	lat, err := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	if err != nil || lat < -90 || lat > 90 {
		writeError(w, http.StatusBadRequest, "invalid lat parameter, must be -90..90")
		return transform.Observer{}, false
	}
	lon, err := strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
	if err != nil || lon < -180 || lon > 180 {
		writeError(w, http.StatusBadRequest, "invalid lon parameter, must be -180..180 (east-positive)")
		return transform.Observer{}, false
	}
	return transform.NewObserver(lat, lon), true
}

// targetFromQuery resolves the requested object: either a catalog name
// (?object=Vega) or raw sexagesimal coordinates (?ra=…&dec=…[&name=…]).
func targetFromQuery(w http.ResponseWriter, r *http.Request, store *catalog.Store) (object.Object, bool) {
	q := r.URL.Query()

	if name := q.Get("object"); name != "" {
		ds := store.Get()
		if ds == nil {
			writeError(w, http.StatusServiceUnavailable, "catalog not loaded")
			return object.Object{}, false
		}
		entry, found := ds.Find(name)
		if !found {
			writeError(w, http.StatusNotFound, "object not in catalog: "+name)
			return object.Object{}, false
		}
		return entry.Object, true
	}

	ra := q.Get("ra")
	dec := q.Get("dec")
	if ra == "" || dec == "" {
		writeError(w, http.StatusBadRequest, "provide either object= or both ra= and dec=")
		return object.Object{}, false
	}

	name := q.Get("name")
	if name == "" {
		name = "ad-hoc"
	}

	raDeg, err := sexagesimal.Parse(ra, sexagesimal.RightAscension)
	if err != nil {
		metrics.IncParseErrors(sexagesimal.RightAscension.String())
		writeError(w, http.StatusBadRequest, "right ascension: "+err.Error())
		return object.Object{}, false
	}
	decDeg, err := sexagesimal.Parse(dec, sexagesimal.Declination)
	if err != nil {
		metrics.IncParseErrors(sexagesimal.Declination.String())
		writeError(w, http.StatusBadRequest, "declination: "+err.Error())
		return object.Object{}, false
	}
	return object.New(name, raDeg, decDeg), true
}

// convertHandler parses sexagesimal RA/Dec strings and echoes decimal degrees.
// GET /api/v1/convert?ra=05h+34m+31.94s&dec=%2B22°+00′+52.2″
func convertHandler(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		resp := map[string]any{}

		ra := q.Get("ra")
		dec := q.Get("dec")
		if ra == "" && dec == "" {
			writeError(w, http.StatusBadRequest, "provide ra= and/or dec=")
			return
		}

		if ra != "" {
			deg, err := sexagesimal.Parse(ra, sexagesimal.RightAscension)
			if err != nil {
				metrics.IncParseErrors(sexagesimal.RightAscension.String())
				logger.Debug("ra parse failed", "input", ra, "error", err)
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			resp["ra_degrees"] = deg
		}
		if dec != "" {
			deg, err := sexagesimal.Parse(dec, sexagesimal.Declination)
			if err != nil {
				metrics.IncParseErrors(sexagesimal.Declination.String())
				logger.Debug("dec parse failed", "input", dec, "error", err)
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			resp["dec_degrees"] = deg
		}
		if name := q.Get("name"); name != "" {
			resp["name"] = name
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

// altazHandler computes the current horizontal position of one object.
// GET /api/v1/altaz?object=Vega&lat=51.48&lon=0
func altazHandler(logger *slog.Logger, store *catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		obs, ok := observerFromQuery(w, r)
		if !ok {
			return
		}
		obj, ok := targetFromQuery(w, r, store)
		if !ok {
			return
		}

		// Sample the clock exactly once per query.
		now := time.Now().UTC()
		hz, err := obj.HorizontalAt(obs, now)
		if err != nil {
			logger.Debug("conversion failed", "object", obj.Name, "error", err)
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		metrics.IncConversions()

		writeJSON(w, http.StatusOK, map[string]any{
			"name":        obj.Name,
			"ra_degrees":  obj.RADeg,
			"dec_degrees": obj.DecDeg,
			"altitude":    hz.AltitudeDeg,
			"azimuth":     hz.AzimuthDeg,
			"time":        now.Format(time.RFC3339),
		})
	}
}

// skyHandler computes a full-catalog snapshot for the observer.
// GET /api/v1/sky?lat=51.48&lon=0
func skyHandler(logger *slog.Logger, store *catalog.Store, computer *sky.Computer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		obs, ok := observerFromQuery(w, r)
		if !ok {
			return
		}
		ds := store.Get()
		if ds == nil {
			writeError(w, http.StatusServiceUnavailable, "catalog not loaded")
			return
		}

		now := time.Now().UTC()
		start := time.Now()
		snap, successCount, errorCount := computer.Compute(r.Context(), ds.Objects(), obs, now)
		metrics.ObserveSnapshotDuration(time.Since(start))

		logger.Debug("sky snapshot",
			"objects", len(ds.Entries),
			"success", successCount,
			"errors", errorCount,
		)

		writeJSON(w, http.StatusOK, map[string]any{
			"time":     now.Format(time.RFC3339),
			"observer": map[string]float64{"lat": obs.LatDeg, "lon": obs.LonDeg},
			"objects":  snap.Positions,
			"errors":   errorCount,
		})
	}
}

// sunHandler reports the Sun's position and rise/set times for the observer.
// GET /api/v1/sun?lat=51.48&lon=0
func sunHandler(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		obs, ok := observerFromQuery(w, r)
		if !ok {
			return
		}

		now := time.Now().UTC()
		pos := sun.Position(now, obs)
		rise, set := sun.RiseSet(now, obs)

		writeJSON(w, http.StatusOK, map[string]any{
			"time":     now.Format(time.RFC3339),
			"altitude": pos.AltitudeDeg,
			"azimuth":  pos.AzimuthDeg,
			"sunrise":  rise.UTC().Format(time.RFC3339),
			"sunset":   set.UTC().Format(time.RFC3339),
		})
	}
}

// eventsHandler predicts rise/culmination/set events for one object.
// GET /api/v1/events?object=Vega&lat=51.48&lon=0&hours=24
func eventsHandler(logger *slog.Logger, store *catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		obs, ok := observerFromQuery(w, r)
		if !ok {
			return
		}
		obj, ok := targetFromQuery(w, r, store)
		if !ok {
			return
		}

		hours := 24.0
		if v := r.URL.Query().Get("hours"); v != "" {
			h, err := strconv.ParseFloat(v, 64)
			if err != nil || h < 1 || h > 168 {
				writeError(w, http.StatusBadRequest, "invalid hours parameter, must be 1-168")
				return
			}
			hours = h
		}

		req := events.Request{
			Observer:     obs,
			Objects:      []object.Object{obj},
			Start:        time.Now().UTC(),
			HorizonHours: hours,
			MinAltitude:  0,
			MaxEvents:    10,
		}
		results := events.Predict(r.Context(), req)

		writeJSON(w, http.StatusOK, results[0])
	}
}

// catalogHandler reports the loaded catalog.
// GET /api/v1/catalog
func catalogHandler(store *catalog.Store) http.HandlerFunc {
	type catalogObject struct {
		Name string  `json:"name"`
		RA   float64 `json:"ra_degrees"`
		Dec  float64 `json:"dec_degrees"`
		Mag  float64 `json:"magnitude"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ds := store.Get()
		if ds == nil {
			writeError(w, http.StatusServiceUnavailable, "catalog not loaded")
			return
		}

		objs := make([]catalogObject, len(ds.Entries))
		for i, e := range ds.Entries {
			objs[i] = catalogObject{
				Name: e.Object.Name,
				RA:   e.Object.RADeg,
				Dec:  e.Object.DecDeg,
				Mag:  e.Mag,
			}
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"source":    ds.Source,
			"loaded_at": ds.LoadedAt.UTC().Format(time.RFC3339),
			"count":     len(ds.Entries),
			"objects":   objs,
		})
	}
}

// timeHandler is a diagnostic endpoint comparing the approximate local
// sidereal time against the exact IAU-82 GMST.
// GET /api/v1/time?lon=0
func timeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lon := 0.0
		if v := r.URL.Query().Get("lon"); v != "" {
			l, err := strconv.ParseFloat(v, 64)
			if err != nil || l < -180 || l > 180 {
				writeError(w, http.StatusBadRequest, "invalid lon parameter, must be -180..180 (east-positive)")
				return
			}
			lon = l
		}

		now := time.Now().UTC()
		writeJSON(w, http.StatusOK, map[string]any{
			"time":             now.Format(time.RFC3339Nano),
			"days_since_j2000": astrotime.DaysSinceJ2000(now),
			"julian_date":      astrotime.JulianDate(now),
			"lst_approx":       astrotime.LocalSidereal(now, lon),
			"gmst_iau82":       astrotime.GMSTDegrees(now),
			"longitude":        lon,
		})
	}
}
