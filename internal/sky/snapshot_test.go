package sky

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sky/skypoint/internal/object"
	"github.com/sky/skypoint/internal/transform"
)

func testObjects(n int) []object.Object {
	objs := make([]object.Object, n)
	for i := range objs {
		objs[i] = object.New(
			fmt.Sprintf("star-%03d", i),
			float64(i)/float64(n)*360.0,
			float64(i%160)-80,
		)
	}
	return objs
}

func newTestComputer(workers int) *Computer {
	return NewComputer(workers, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestCompute_AllObjects(t *testing.T) {
	objs := testObjects(50)
	obs := transform.NewObserver(51.4778, -0.0015)
	at := time.Date(2026, 8, 28, 22, 0, 0, 0, time.UTC)

	snap, ok, errs := newTestComputer(4).Compute(context.Background(), objs, obs, at)
	require.NotNil(t, snap)
	assert.Equal(t, 50, ok)
	assert.Zero(t, errs)
	assert.Len(t, snap.Positions, 50)
	assert.Equal(t, at, snap.Timestamp)

	for _, p := range snap.Positions {
		assert.True(t, p.AltitudeDeg >= -90 && p.AltitudeDeg <= 90, "%s alt=%v", p.Name, p.AltitudeDeg)
		assert.True(t, p.AzimuthDeg >= 0 && p.AzimuthDeg < 360, "%s az=%v", p.Name, p.AzimuthDeg)
	}
}

func TestCompute_DeterministicAcrossWorkerCounts(t *testing.T) {
	objs := testObjects(30)
	obs := transform.NewObserver(35.68, 139.69)
	at := time.Date(2026, 1, 15, 3, 30, 0, 0, time.UTC)

	byName := func(snap *Snapshot) map[string]ObjectPosition {
		m := make(map[string]ObjectPosition, len(snap.Positions))
		for _, p := range snap.Positions {
			m[p.Name] = p
		}
		return m
	}

	base, _, _ := newTestComputer(1).Compute(context.Background(), objs, obs, at)
	for _, workers := range []int{2, 4, 8} {
		snap, _, _ := newTestComputer(workers).Compute(context.Background(), objs, obs, at)
		assert.Equal(t, byName(base), byName(snap), "workers=%d", workers)
	}
}

func TestCompute_CountsDegenerateObservers(t *testing.T) {
	objs := testObjects(10)
	obs := transform.NewObserver(90, 0) // azimuth undefined at the pole

	snap, ok, errs := newTestComputer(2).Compute(context.Background(), objs, obs, time.Now().UTC())
	require.NotNil(t, snap)
	assert.Zero(t, ok)
	assert.Equal(t, 10, errs)
	assert.Empty(t, snap.Positions)
}

func TestCompute_EmptyCatalog(t *testing.T) {
	snap, ok, errs := newTestComputer(2).Compute(context.Background(), nil, transform.NewObserver(0, 0), time.Now().UTC())
	require.NotNil(t, snap)
	assert.Zero(t, ok)
	assert.Zero(t, errs)
	assert.Empty(t, snap.Positions)
}

func TestNewComputer_MinimumWorkers(t *testing.T) {
	c := NewComputer(0, slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.Equal(t, 1, c.workers)
}
