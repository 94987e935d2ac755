// Package window provides the fixed-capacity, insertion-ordered buffer that holds the
// most recent observations of one series.
package window

import (
	"fmt"

	"realTimeDash/internal/domain"
)

// DefaultCapacity is the number of points kept per series.
const DefaultCapacity = 20

// Bounded keeps the last N appended observations. Eviction is strictly FIFO by
// insertion order; duplicates (including equal timestamps) are retained.
// A Bounded is owned by a single goroutine; readers receive copies via Snapshot.
type Bounded struct {
	capacity int
	points   []domain.Observation
}

// New creates an empty window. Capacity must be positive.
func New(capacity int) (*Bounded, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("window capacity must be positive, got %d", capacity)
	}
	return &Bounded{
		capacity: capacity,
		points:   make([]domain.Observation, 0, capacity),
	}, nil
}

// Append adds obs and evicts from the front until len <= capacity.
func (w *Bounded) Append(obs domain.Observation) {
	if len(w.points) == w.capacity {
		// Shift in place so the backing array never grows past capacity.
		copy(w.points, w.points[1:])
		w.points[len(w.points)-1] = obs
		return
	}
	w.points = append(w.points, obs)
}

// Rebuild replaces the contents with the tail of records, as if the window had been
// cleared and every record appended in order.
func (w *Bounded) Rebuild(records []domain.Observation) {
	if len(records) > w.capacity {
		records = records[len(records)-w.capacity:]
	}
	w.points = w.points[:0]
	w.points = append(w.points, records...)
}

// Snapshot returns a copy of the contents, oldest first.
func (w *Bounded) Snapshot() []domain.Observation {
	out := make([]domain.Observation, len(w.points))
	copy(out, w.points)
	return out
}

// Len returns the number of points currently held.
func (w *Bounded) Len() int { return len(w.points) }

// Capacity returns the maximum number of points held.
func (w *Bounded) Capacity() int { return w.capacity }
