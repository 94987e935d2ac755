package ports

import (
	"context"

	"realTimeDash/internal/domain"
)

// PriceClient fetches the latest quote for a symbol from an external service.
type PriceClient interface {
	// GetPrice returns the current price or a wrapped source error.
	GetPrice(ctx context.Context, symbol string) (float64, error)
}

// ObservationSource produces one observation per tick.
type ObservationSource interface {
	Produce(ctx context.Context) (domain.Observation, error)
}

// PriceSource is a per-symbol poller that reports the fetch outcome alongside the
// observation to publish. On error the observation carries the fallback value.
type PriceSource interface {
	Symbol() string
	Poll(ctx context.Context) (domain.Observation, error)
}
