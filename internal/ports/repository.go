package ports

import (
	"context"

	"realTimeDash/internal/domain"
)

// ObservationRepository is the append-only durable log of generated observations.
// Any error it returns is a store error: reported, never fatal to the pipeline.
type ObservationRepository interface {
	// Append persists one observation and returns its assigned ID.
	// A reader never observes a partially written record.
	Append(ctx context.Context, obs domain.Observation) (int64, error)
	// ReadAll returns every record ever appended, in insertion order.
	ReadAll(ctx context.Context) ([]domain.Observation, error)
	// Count returns the number of persisted records.
	Count(ctx context.Context) (int, error)
}
