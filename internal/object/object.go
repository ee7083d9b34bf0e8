// Package object aggregates a named celestial position and exposes its
// current horizontal coordinates for a ground observer.
package object

import (
	"fmt"
	"time"

	"github.com/sky/skypoint/internal/astrotime"
	"github.com/sky/skypoint/internal/sexagesimal"
	"github.com/sky/skypoint/internal/transform"
)

// Object is a fixed celestial object with J2000 equatorial coordinates.
// Right ascension is always stored in degrees (already ×15), never hours.
// Immutable after construction.
type Object struct {
	Name   string
	RADeg  float64 // 0..360
	DecDeg float64 // -90..90
}

// New creates an Object from decimal-degree coordinates.
func New(name string, raDeg, decDeg float64) Object {
	return Object{Name: name, RADeg: raDeg, DecDeg: decDeg}
}

// FromSexagesimal creates an Object by parsing sexagesimal RA and Dec
// strings. Either parse failure is returned to the caller; no partially
// constructed object escapes.
func FromSexagesimal(name, ra, dec string) (Object, error) {
	raDeg, err := sexagesimal.Parse(ra, sexagesimal.RightAscension)
	if err != nil {
		return Object{}, fmt.Errorf("right ascension: %w", err)
	}
	decDeg, err := sexagesimal.Parse(dec, sexagesimal.Declination)
	if err != nil {
		return Object{}, fmt.Errorf("declination: %w", err)
	}
	return Object{Name: name, RADeg: raDeg, DecDeg: decDeg}, nil
}

// HorizontalAt computes the object's horizontal position for the observer at
// the given instant. The single instant t feeds both the days-since-epoch and
// sidereal-time computations, so the pipeline cannot skew between sub-calls.
func (o Object) HorizontalAt(obs transform.Observer, t time.Time) (transform.Horizontal, error) {
	lst := astrotime.LocalSidereal(t, obs.LonDeg)

	ha := lst - o.RADeg
	if ha < 0 {
		ha += 360.0
	}

	return transform.ToHorizontal(ha, o.DecDeg, obs)
}

// Current samples the clock exactly once and computes the object's
// horizontal position for that instant.
func (o Object) Current(obs transform.Observer) (transform.Horizontal, error) {
	return o.HorizontalAt(obs, time.Now().UTC())
}
