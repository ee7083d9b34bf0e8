// Package transform converts equatorial coordinates (hour angle, declination)
// to horizontal coordinates (altitude, azimuth) for a ground observer.
package transform

import (
	"errors"
	"math"
)

// degenerateCos is the threshold below which a cosine in an azimuth
// denominator is treated as zero.
const degenerateCos = 1e-9

// ErrPolarObserver indicates the observer latitude is so close to ±90° that
// azimuth is undefined (every horizontal direction points along a meridian).
var ErrPolarObserver = errors.New("azimuth undefined for polar observer")

// Observer holds a ground observer's location with the latitude trig
// precomputed once so it can be reused across many object lookups.
// Longitude is east-positive degrees.
type Observer struct {
	LatDeg, LonDeg float64
	sinLat, cosLat float64
}

// NewObserver creates an Observer from geodetic coordinates in degrees.
// Latitude is -90..90, longitude is east-positive -180..180.
func NewObserver(latDeg, lonDeg float64) Observer {
	lat := latDeg * math.Pi / 180.0
	return Observer{
		LatDeg: latDeg,
		LonDeg: lonDeg,
		sinLat: math.Sin(lat),
		cosLat: math.Cos(lat),
	}
}

// Horizontal holds an object's position in the observer's horizontal frame.
// Named fields fix one (altitude, azimuth) shape for every caller.
type Horizontal struct {
	AltitudeDeg float64 // -90 = nadir, 0 = horizon, 90 = zenith
	AzimuthDeg  float64 // 0 = North, measured clockwise, [0, 360)
}

// ToHorizontal converts an hour angle and declination (degrees) to altitude
// and azimuth for the given observer.
//
// The azimuth denominator cos(alt)·cos(lat) degenerates in two cases, which
// are handled explicitly instead of producing NaN:
//   - observer at a pole: ErrPolarObserver
//   - object at zenith or nadir: azimuth defined as 0
func ToHorizontal(haDeg, decDeg float64, obs Observer) (Horizontal, error) {
	ha := haDeg * math.Pi / 180.0
	dec := decDeg * math.Pi / 180.0

	sinDec := math.Sin(dec)
	cosDec := math.Cos(dec)

	sinAlt := sinDec*obs.sinLat + cosDec*obs.cosLat*math.Cos(ha)
	alt := math.Asin(clamp(sinAlt))
	cosAlt := math.Cos(alt)

	if math.Abs(obs.cosLat) < degenerateCos {
		return Horizontal{}, ErrPolarObserver
	}
	if math.Abs(cosAlt) < degenerateCos {
		// Zenith or nadir: bearing is meaningless, pick north.
		return Horizontal{AltitudeDeg: alt * 180.0 / math.Pi, AzimuthDeg: 0}, nil
	}

	azPrelim := math.Acos(clamp((sinDec - sinAlt*obs.sinLat) / (cosAlt * obs.cosLat)))
	azDeg := azPrelim * 180.0 / math.Pi

	// Quadrant correction: the acos form only covers 0..180°; objects west
	// of the meridian (sin ha > 0) mirror to the other half of the compass.
	if math.Sin(ha) >= 0 {
		azDeg = 360.0 - azDeg
	}
	if azDeg >= 360.0 {
		azDeg -= 360.0
	}

	return Horizontal{
		AltitudeDeg: alt * 180.0 / math.Pi,
		AzimuthDeg:  azDeg,
	}, nil
}

// clamp keeps an asin/acos argument inside [-1, 1] against float rounding.
func clamp(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
