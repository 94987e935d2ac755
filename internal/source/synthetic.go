// Package source holds the per-tick observation producers.
package source

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"realTimeDash/internal/domain"
)

// Synthetic draws a value uniformly from [0, 100) rounded to two decimals. It never fails.
type Synthetic struct {
	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
}

// SyntheticOption customises a Synthetic generator.
type SyntheticOption func(*Synthetic)

// WithSeed makes the generated sequence reproducible.
func WithSeed(seed int64) SyntheticOption {
	return func(s *Synthetic) { s.rng = rand.New(rand.NewSource(seed)) }
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) SyntheticOption {
	return func(s *Synthetic) { s.now = now }
}

// NewSynthetic creates a generator seeded from the current time unless WithSeed is given.
func NewSynthetic(opts ...SyntheticOption) *Synthetic {
	s := &Synthetic{
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Produce implements ports.ObservationSource.
func (s *Synthetic) Produce(ctx context.Context) (domain.Observation, error) {
	s.mu.Lock()
	raw := s.rng.Float64() * 100
	s.mu.Unlock()

	// Rounding can land on 100.00 for raw >= 99.995; keep the range half-open.
	value := decimal.NewFromFloat(raw).Round(2)
	if value.GreaterThanOrEqual(decimal.NewFromInt(100)) {
		value = decimal.RequireFromString("99.99")
	}
	return domain.NewObservation(s.now(), value.InexactFloat64()), nil
}
