// Package events predicts rise, culmination, and set times of celestial
// objects for a ground observer by scanning altitude over a time horizon.
package events

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/sky/skypoint/internal/object"
	"github.com/sky/skypoint/internal/transform"
)

// Event describes a single above-horizon window of an object.
type Event struct {
	RiseTime        time.Time `json:"rise_time"`
	CulminationTime time.Time `json:"culmination_time"`
	SetTime         time.Time `json:"set_time"`
	DurationSeconds float64   `json:"duration_seconds"`
	MaxAltitude     float64   `json:"max_altitude"`
	AzimuthAtMax    float64   `json:"azimuth_at_max"`
	RiseAzimuth     float64   `json:"rise_azimuth"`
	SetAzimuth      float64   `json:"set_azimuth"`
}

// ObjectEvents holds the predicted events for one object.
type ObjectEvents struct {
	Name        string  `json:"name"`
	Events      []Event `json:"events"`
	Circumpolar bool    `json:"circumpolar"` // never dips below the threshold
	NeverRises  bool    `json:"never_rises"` // never clears the threshold
	Error       string  `json:"error,omitempty"`
}

// Request holds the parameters for an event prediction request.
type Request struct {
	Observer     transform.Observer
	Objects      []object.Object
	Start        time.Time
	HorizonHours float64
	MinAltitude  float64 // degrees above horizon that counts as "risen"
	MaxEvents    int
}

// Scan steps. Stars drift at ~15°/hour, so a coarse minute-level scan cannot
// skip an above-horizon window; the fine scan pins crossings to seconds.
const (
	coarseStep = 60 * time.Second
	fineStep   = 5 * time.Second
	minEventDur = time.Minute
)

// Predict computes events for every object in the request.
// Each object is processed in its own goroutine, bounded by a semaphore.
func Predict(ctx context.Context, req Request) []ObjectEvents {
	results := make([]ObjectEvents, len(req.Objects))
	sem := make(chan struct{}, runtime.NumCPU())
	var wg sync.WaitGroup

	for i, obj := range req.Objects {
		wg.Add(1)
		go func(idx int, o object.Object) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				results[idx] = ObjectEvents{Name: o.Name, Error: "cancelled"}
				return
			}

			results[idx] = predictObject(ctx, req, o)
		}(i, obj)
	}

	wg.Wait()
	return results
}

// predictObject finds all above-horizon windows for a single object.
func predictObject(ctx context.Context, req Request, obj object.Object) ObjectEvents {
	out := ObjectEvents{Name: obj.Name}
	end := req.Start.Add(time.Duration(req.HorizonHours * float64(time.Hour)))

	maxEvents := req.MaxEvents
	if maxEvents <= 0 {
		maxEvents = 5
	}

	sawAbove := false
	sawBelow := false

	// Coarse scan for candidate windows.
	t := req.Start
	for t.Before(end) && len(out.Events) < maxEvents {
		if ctx.Err() != nil {
			return out
		}

		hz, err := obj.HorizontalAt(req.Observer, t)
		if err != nil {
			out.Error = err.Error()
			return out
		}

		if hz.AltitudeDeg >= req.MinAltitude {
			sawAbove = true
			ev, windowEnd := refineWindow(ctx, req, obj, t, end)
			if ev != nil && ev.SetTime.Sub(ev.RiseTime) >= minEventDur {
				out.Events = append(out.Events, *ev)
			}
			t = windowEnd.Add(coarseStep)
		} else {
			sawBelow = true
			t = t.Add(coarseStep)
		}
	}

	out.Circumpolar = sawAbove && !sawBelow
	out.NeverRises = sawBelow && !sawAbove
	return out
}

// refineWindow does a fine-grained scan around a coarse-detected above-horizon
// sample. It backs up to find the actual rise, then scans forward to the set.
// Returns the event and the time the window ends.
func refineWindow(ctx context.Context, req Request, obj object.Object, coarseHit, windowEnd time.Time) (*Event, time.Time) {
	searchStart := coarseHit.Add(-coarseStep)
	if searchStart.Before(req.Start) {
		searchStart = req.Start
	}

	var (
		riseTime  time.Time
		setTime   time.Time
		riseAz    float64
		setAz     float64
		maxAlt    float64
		maxAltAt  time.Time
		maxAltAz  float64
		wasAbove  bool
		foundRise bool
	)

	t := searchStart
	for t.Before(windowEnd) {
		if ctx.Err() != nil {
			break
		}

		hz, err := obj.HorizontalAt(req.Observer, t)
		if err != nil {
			t = t.Add(fineStep)
			continue
		}

		above := hz.AltitudeDeg >= req.MinAltitude

		if above && !wasAbove {
			riseTime = t
			riseAz = hz.AzimuthDeg
			foundRise = true
			maxAlt = hz.AltitudeDeg
			maxAltAt = t
			maxAltAz = hz.AzimuthDeg
		}

		if above && foundRise && hz.AltitudeDeg > maxAlt {
			maxAlt = hz.AltitudeDeg
			maxAltAt = t
			maxAltAz = hz.AzimuthDeg
		}

		if !above && wasAbove && foundRise {
			setTime = t
			setAz = hz.AzimuthDeg
			break
		}

		wasAbove = above
		t = t.Add(fineStep)
	}

	// Still above at the horizon boundary: close the window there.
	if foundRise && setTime.IsZero() && wasAbove {
		setTime = t
		if hz, err := obj.HorizontalAt(req.Observer, t); err == nil {
			setAz = hz.AzimuthDeg
			if hz.AltitudeDeg > maxAlt {
				maxAlt = hz.AltitudeDeg
				maxAltAt = t
				maxAltAz = hz.AzimuthDeg
			}
		}
	}

	if !foundRise || setTime.IsZero() {
		return nil, t
	}

	return &Event{
		RiseTime:        riseTime,
		CulminationTime: maxAltAt,
		SetTime:         setTime,
		DurationSeconds: setTime.Sub(riseTime).Seconds(),
		MaxAltitude:     maxAlt,
		AzimuthAtMax:    maxAltAz,
		RiseAzimuth:     riseAz,
		SetAzimuth:      setAz,
	}, setTime
}
