package source

import (
	"context"
	"fmt"
	"time"

	"realTimeDash/internal/domain"
	"realTimeDash/internal/ports"
)

const defaultFetchTimeout = 3 * time.Second

// PricePoller turns one symbol's quote into an observation per tick.
//
// Fetch reports the real outcome. Produce applies the fail-soft policy: any source
// error becomes a zero-valued observation, so a caller of Produce alone cannot tell
// a failed fetch from a genuine zero price. Use Poll to get both.
type PricePoller struct {
	symbol  string
	client  ports.PriceClient
	logger  ports.Logger
	timeout time.Duration
	now     func() time.Time
}

// PricePollerConfig holds configuration for a PricePoller.
type PricePollerConfig struct {
	Symbol  string
	Client  ports.PriceClient
	Logger  ports.Logger
	Timeout time.Duration
	Now     func() time.Time
}

// NewPricePoller creates a poller for a single symbol.
func NewPricePoller(cfg PricePollerConfig) (*PricePoller, error) {
	if cfg.Symbol == "" {
		return nil, fmt.Errorf("symbol is required for price poller")
	}
	if cfg.Client == nil || cfg.Logger == nil {
		return nil, fmt.Errorf("price client and logger are required for price poller")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &PricePoller{
		symbol:  cfg.Symbol,
		client:  cfg.Client,
		logger:  cfg.Logger,
		timeout: timeout,
		now:     now,
	}, nil
}

// Symbol returns the tracked symbol.
func (p *PricePoller) Symbol() string { return p.symbol }

// Fetch queries the price client under the poller's timeout. The returned
// observation is timestamped at call time; on error its value is zero.
func (p *PricePoller) Fetch(ctx context.Context) (domain.Observation, error) {
	ts := p.now()
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	price, err := p.client.GetPrice(ctx, p.symbol)
	if err != nil {
		return domain.NewObservation(ts, 0), fmt.Errorf("fetch price for %s: %w", p.symbol, err)
	}
	return domain.NewObservation(ts, price), nil
}

// Poll fetches the price and applies the zero fallback, returning the source error
// alongside the observation that should be published.
func (p *PricePoller) Poll(ctx context.Context) (domain.Observation, error) {
	obs, err := p.Fetch(ctx)
	if err != nil {
		p.logger.Warn(ctx, "Price fetch failed, substituting zero", map[string]interface{}{
			"symbol": p.symbol,
			"error":  err.Error(),
		})
		return domain.NewObservation(obs.Time, 0), err
	}
	return obs, nil
}

// Produce implements ports.ObservationSource and never returns an error.
func (p *PricePoller) Produce(ctx context.Context) (domain.Observation, error) {
	obs, _ := p.Poll(ctx)
	return obs, nil
}
