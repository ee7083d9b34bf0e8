// Package sun computes the Sun's horizontal position and day phase times,
// wrapping the suncalc library.
package sun

import (
	"math"
	"time"

	"github.com/sixdouglas/suncalc"

	"github.com/sky/skypoint/internal/transform"
)

// Position returns the Sun's altitude and azimuth for the observer at t.
// suncalc reports azimuth in radians measured from south (westward
// positive); this converts to compass degrees from north, clockwise.
func Position(t time.Time, obs transform.Observer) transform.Horizontal {
	pos := suncalc.GetPosition(t, obs.LatDeg, obs.LonDeg)

	az := pos.Azimuth*180.0/math.Pi + 180.0
	az = math.Mod(az, 360.0)
	if az < 0 {
		az += 360.0
	}

	return transform.Horizontal{
		AltitudeDeg: pos.Altitude * 180.0 / math.Pi,
		AzimuthDeg:  az,
	}
}

// RiseSet returns the sunrise and sunset instants for the observer on the
// day containing t.
func RiseSet(t time.Time, obs transform.Observer) (rise, set time.Time) {
	times := suncalc.GetTimes(t, obs.LatDeg, obs.LonDeg)
	return times[suncalc.Sunrise].Value, times[suncalc.Sunset].Value
}
