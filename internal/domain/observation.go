package domain

import "time"

// Observation is a single timestamped numeric sample. It is never mutated after creation.
type Observation struct {
	ID    int64     `json:"id,omitempty"` // Store identity for persisted records, 0 for transient ones
	Time  time.Time `json:"time"`
	Value float64   `json:"value"`
}

// NewObservation creates a transient observation.
func NewObservation(t time.Time, value float64) Observation {
	return Observation{Time: t, Value: value}
}
