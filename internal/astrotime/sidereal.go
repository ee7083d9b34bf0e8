// Package astrotime derives sidereal time from UTC instants.
//
// LocalSidereal implements the low-cost approximation used for the alt/az
// pipeline; JulianDate and GMST implement the exact IAU-82 model and serve
// as its precision reference on the diagnostic endpoint and in tests.
package astrotime

import (
	"math"
	"time"
)

// j2000JD is the Julian Date of the J2000.0 epoch (January 1, 2000, 12:00:00 TT).
const j2000JD = 2451545.0

// J2000 is the reference epoch used as the time origin for the
// approximate sidereal formula.
var J2000 = time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC)

// DaysSinceJ2000 returns the elapsed time since the J2000.0 epoch in
// fractional days.
func DaysSinceJ2000(t time.Time) float64 {
	return t.UTC().Sub(J2000).Seconds() / 86400.0
}

// LocalSidereal returns the approximate local sidereal time in degrees,
// normalized into [0, 360), for an observer at the given east-positive
// longitude.
//
// Formula: (100.46 + 0.985647·d + lon + 15·UT) mod 360, where d is days
// since J2000.0 and UT is the UTC hour plus fractional minutes. Good to a
// fraction of a degree for current-era dates; callers needing arcsecond
// precision should use GMST instead.
func LocalSidereal(t time.Time, lonDeg float64) float64 {
	t = t.UTC()
	d := DaysSinceJ2000(t)
	ut := float64(t.Hour()) + float64(t.Minute())/60.0

	lst := math.Mod(100.46+0.985647*d+lonDeg+15.0*ut, 360.0)
	if lst < 0 {
		lst += 360.0
	}
	return lst
}

// JulianDate converts a UTC instant to Julian Date using the standard
// astronomical algorithm (valid for dates after March 1, 4801 BC).
func JulianDate(t time.Time) float64 {
	t = t.UTC()
	y := float64(t.Year())
	m := float64(t.Month())
	d := float64(t.Day())
	h := float64(t.Hour())
	min := float64(t.Minute())
	s := float64(t.Second()) + float64(t.Nanosecond())/1e9

	// Jan/Feb count as months 13/14 of the previous year.
	if m <= 2 {
		y -= 1
		m += 12
	}

	a := math.Floor(y / 100)
	b := 2 - a + math.Floor(a/4)

	jd := math.Floor(365.25*(y+4716)) + math.Floor(30.6001*(m+1)) + d + b - 1524.5
	jd += (h + min/60.0 + s/3600.0) / 24.0

	return jd
}

// GMST returns Greenwich Mean Sidereal Time in radians for a UTC instant,
// using the IAU-82 model (Vallado Eq 3-47).
func GMST(t time.Time) float64 {
	jd := JulianDate(t)
	tUT1 := (jd - j2000JD) / 36525.0

	// GMST in seconds of time; 876600h = 3155760000 s.
	gmstSec := 67310.54841 +
		(3155760000.0+8640184.812866)*tUT1 +
		0.093104*tUT1*tUT1 -
		6.2e-6*tUT1*tUT1*tUT1

	gmstSec = math.Mod(gmstSec, 86400.0)
	if gmstSec < 0 {
		gmstSec += 86400.0
	}
	return gmstSec / 86400.0 * 2.0 * math.Pi
}

// GMSTDegrees returns GMST in degrees in [0, 360).
func GMSTDegrees(t time.Time) float64 {
	return GMST(t) * 180.0 / math.Pi
}
