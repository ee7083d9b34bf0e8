package sun

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sky/skypoint/internal/transform"
)

func TestPosition_SummerNoon(t *testing.T) {
	// Solar noon near the June solstice in Berlin: the Sun stands high and
	// close to due south.
	at := time.Date(2026, 6, 21, 11, 5, 0, 0, time.UTC)
	obs := transform.NewObserver(52.52, 13.405)

	pos := Position(at, obs)
	assert.Greater(t, pos.AltitudeDeg, 55.0)
	assert.Less(t, pos.AltitudeDeg, 65.0)
	assert.InDelta(t, 180.0, pos.AzimuthDeg, 15.0)
}

func TestPosition_Midnight(t *testing.T) {
	at := time.Date(2026, 12, 21, 0, 0, 0, 0, time.UTC)
	obs := transform.NewObserver(52.52, 13.405)

	pos := Position(at, obs)
	assert.Less(t, pos.AltitudeDeg, -10.0)
}

func TestPosition_AzimuthRange(t *testing.T) {
	obs := transform.NewObserver(-33.87, 151.21)
	for h := 0; h < 24; h += 3 {
		at := time.Date(2026, 8, 28, h, 0, 0, 0, time.UTC)
		pos := Position(at, obs)
		assert.True(t, pos.AzimuthDeg >= 0 && pos.AzimuthDeg < 360,
			"hour %d: azimuth %v", h, pos.AzimuthDeg)
		assert.True(t, pos.AltitudeDeg >= -90 && pos.AltitudeDeg <= 90,
			"hour %d: altitude %v", h, pos.AltitudeDeg)
	}
}

func TestRiseSet(t *testing.T) {
	day := time.Date(2026, 6, 21, 12, 0, 0, 0, time.UTC)
	obs := transform.NewObserver(52.52, 13.405)

	rise, set := RiseSet(day, obs)
	require.False(t, rise.IsZero())
	require.False(t, set.IsZero())
	assert.True(t, rise.Before(set), "rise %v not before set %v", rise, set)

	// Midsummer Berlin daylight runs close to 17 hours.
	daylight := set.Sub(rise)
	assert.Greater(t, daylight, 15*time.Hour)
	assert.Less(t, daylight, 18*time.Hour)

	// The Sun is up between the two instants.
	mid := rise.Add(daylight / 2)
	assert.Greater(t, Position(mid, obs).AltitudeDeg, 0.0)
}
