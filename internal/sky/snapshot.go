// Package sky computes full-catalog horizontal positions for one instant.
//
// Positions are computed fresh on every call and never cached: they depend
// on the instant, and staleness would silently skew altitude and azimuth.
package sky

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/sky/skypoint/internal/object"
	"github.com/sky/skypoint/internal/transform"
)

// ObjectPosition is one catalog object's horizontal position at the
// snapshot instant.
type ObjectPosition struct {
	Name        string  `json:"name"`
	AltitudeDeg float64 `json:"altitude"`
	AzimuthDeg  float64 `json:"azimuth"`
}

// Snapshot holds the positions of all objects at a single point in time.
type Snapshot struct {
	Timestamp time.Time
	Observer  transform.Observer
	Positions []ObjectPosition
}

// computeJob is a unit of work for the worker pool.
type computeJob struct {
	obj object.Object
}

// computeResult is the output for a single object.
type computeResult struct {
	position ObjectPosition
	err      error
	name     string
}

// Computer runs snapshot computations on a fixed-size worker pool.
type Computer struct {
	workers int
	logger  *slog.Logger
}

// NewComputer creates a Computer with the given number of workers.
func NewComputer(workers int, logger *slog.Logger) *Computer {
	if workers < 1 {
		workers = 1
	}
	return &Computer{workers: workers, logger: logger}
}

// Compute evaluates every object's horizontal position for the observer at
// instant t. Objects whose conversion fails (degenerate geometry) are logged
// and skipped. Returns the snapshot plus success and error counts.
func (c *Computer) Compute(ctx context.Context, objects []object.Object, obs transform.Observer, t time.Time) (*Snapshot, int, int) {
	if len(objects) == 0 {
		return &Snapshot{Timestamp: t, Observer: obs}, 0, 0
	}

	jobs := make(chan computeJob, c.workers*2)
	results := make(chan computeResult, c.workers*2)

	var wg sync.WaitGroup
	for i := 0; i < c.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				hz, err := job.obj.HorizontalAt(obs, t)
				result := computeResult{name: job.obj.Name, err: err}
				if err == nil {
					result.position = ObjectPosition{
						Name:        job.obj.Name,
						AltitudeDeg: hz.AltitudeDeg,
						AzimuthDeg:  hz.AzimuthDeg,
					}
				}
				select {
				case results <- result:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, obj := range objects {
			select {
			case jobs <- computeJob{obj: obj}:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	positions := make([]ObjectPosition, 0, len(objects))
	var successCount, errorCount int

	for result := range results {
		if result.err != nil {
			errorCount++
			c.logger.Warn("position computation failed",
				"object", result.name,
				"error", result.err,
			)
			continue
		}
		successCount++
		positions = append(positions, result.position)
	}

	return &Snapshot{
		Timestamp: t,
		Observer:  obs,
		Positions: positions,
	}, successCount, errorCount
}
