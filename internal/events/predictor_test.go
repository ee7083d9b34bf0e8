package events

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sky/skypoint/internal/object"
	"github.com/sky/skypoint/internal/transform"
)

var greenwich = transform.NewObserver(51.4778, -0.0015)

func TestPredict_EquatorialStar(t *testing.T) {
	// A star on the celestial equator is above the horizon for half a
	// sidereal day, about 11.97 hours, from any mid-latitude site.
	req := Request{
		Observer:     greenwich,
		Objects:      []object.Object{object.New("equatorial", 150, 0)},
		Start:        time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC),
		HorizonHours: 48,
		MaxEvents:    10,
	}

	results := Predict(context.Background(), req)
	require.Len(t, results, 1)
	res := results[0]
	assert.Equal(t, "equatorial", res.Name)
	assert.Empty(t, res.Error)
	assert.False(t, res.Circumpolar)
	assert.False(t, res.NeverRises)
	require.NotEmpty(t, res.Events)

	// Windows clipped by the horizon boundaries can be short; at least one
	// window inside a 48 h horizon must be complete.
	full := 0
	for _, ev := range res.Events {
		assert.True(t, ev.RiseTime.Before(ev.SetTime))
		assert.False(t, ev.CulminationTime.Before(ev.RiseTime))
		assert.False(t, ev.CulminationTime.After(ev.SetTime))
		assert.InDelta(t, ev.SetTime.Sub(ev.RiseTime).Seconds(), ev.DurationSeconds, 0.001)

		if d := ev.SetTime.Sub(ev.RiseTime); d > 11*time.Hour && d < 13*time.Hour {
			full++
			// Culminates due south at 90 - lat for an equatorial star.
			assert.InDelta(t, 90-greenwich.LatDeg, ev.MaxAltitude, 0.1)
			assert.InDelta(t, 180, ev.AzimuthAtMax, 2)
			// Rises roughly east, sets roughly west.
			assert.InDelta(t, 90, ev.RiseAzimuth, 3)
			assert.InDelta(t, 270, ev.SetAzimuth, 3)
		}
	}
	assert.GreaterOrEqual(t, full, 1)
}

func TestPredict_Circumpolar(t *testing.T) {
	req := Request{
		Observer:     greenwich,
		Objects:      []object.Object{object.New("Polaris", 37.95, 89.26)},
		Start:        time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC),
		HorizonHours: 6,
		MaxEvents:    5,
	}

	results := Predict(context.Background(), req)
	require.Len(t, results, 1)
	res := results[0]
	assert.True(t, res.Circumpolar)
	assert.False(t, res.NeverRises)
	assert.Empty(t, res.Error)

	// The single window spans the whole horizon.
	require.Len(t, res.Events, 1)
	assert.InDelta(t, 6*3600, res.Events[0].DurationSeconds, 120)
	assert.InDelta(t, greenwich.LatDeg, res.Events[0].MaxAltitude, 1.5)
}

func TestPredict_NeverRises(t *testing.T) {
	req := Request{
		Observer:     greenwich,
		Objects:      []object.Object{object.New("south-pole-star", 100, -89)},
		Start:        time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC),
		HorizonHours: 6,
		MaxEvents:    5,
	}

	results := Predict(context.Background(), req)
	require.Len(t, results, 1)
	res := results[0]
	assert.True(t, res.NeverRises)
	assert.False(t, res.Circumpolar)
	assert.Empty(t, res.Events)
}

func TestPredict_MinAltitudeThreshold(t *testing.T) {
	// Raising the threshold above the star's culmination altitude turns a
	// rising star into one that never clears it.
	req := Request{
		Observer:     greenwich,
		Objects:      []object.Object{object.New("equatorial", 150, 0)},
		Start:        time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC),
		HorizonHours: 24,
		MinAltitude:  45, // culmination is 90 - 51.48 ≈ 38.5°
		MaxEvents:    5,
	}

	results := Predict(context.Background(), req)
	require.Len(t, results, 1)
	assert.True(t, results[0].NeverRises)
	assert.Empty(t, results[0].Events)
}

func TestPredict_MaxEvents(t *testing.T) {
	req := Request{
		Observer:     greenwich,
		Objects:      []object.Object{object.New("equatorial", 150, 0)},
		Start:        time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC),
		HorizonHours: 72,
		MaxEvents:    1,
	}

	results := Predict(context.Background(), req)
	require.Len(t, results, 1)
	assert.Len(t, results[0].Events, 1)
}

func TestPredict_PolarObserverError(t *testing.T) {
	req := Request{
		Observer:     transform.NewObserver(90, 0),
		Objects:      []object.Object{object.New("any", 10, 10)},
		Start:        time.Now().UTC(),
		HorizonHours: 1,
	}

	results := Predict(context.Background(), req)
	require.Len(t, results, 1)
	assert.NotEmpty(t, results[0].Error)
	assert.Empty(t, results[0].Events)
}

func TestPredict_MultipleObjects(t *testing.T) {
	objs := []object.Object{
		object.New("a", 0, 0),
		object.New("b", 90, 30),
		object.New("c", 180, -89),
		object.New("d", 270, 89),
	}
	req := Request{
		Observer:     greenwich,
		Objects:      objs,
		Start:        time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC),
		HorizonHours: 2,
		MaxEvents:    3,
	}

	results := Predict(context.Background(), req)
	require.Len(t, results, len(objs))
	for i, res := range results {
		assert.Equal(t, objs[i].Name, res.Name, "results keep request order")
	}
}
