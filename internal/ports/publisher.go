package ports

import (
	"context"

	"realTimeDash/internal/domain"
)

// Publisher hands a snapshot to the rendering layer. Implementations must not retain
// or mutate the series slices beyond the call.
type Publisher interface {
	Name() string
	Publish(ctx context.Context, snap domain.Snapshot) error
}
