// Package redispub publishes dashboard snapshots to Redis so an out-of-process
// renderer can read the latest state (GET) or follow updates (SUBSCRIBE).
package redispub

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"realTimeDash/internal/domain"
	"realTimeDash/internal/ports"
)

const (
	DefaultChannel = "dashboard.snapshots"
	latestSuffix   = ".latest"
)

// Compile-time check to ensure Publisher implements ports.Publisher
var _ ports.Publisher = (*Publisher)(nil)

// Publisher writes each snapshot to <channel>.latest and publishes it on <channel>.
type Publisher struct {
	client  *redis.Client
	channel string
	logger  ports.Logger
}

// Config holds configuration for the Redis publisher.
type Config struct {
	Addr     string
	Password string
	DB       int
	Channel  string
	Logger   ports.Logger
}

// New connects to Redis and verifies the connection with a ping.
func New(ctx context.Context, cfg Config) (*Publisher, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for Redis publisher")
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}
	return NewWithClient(client, cfg.Channel, cfg.Logger), nil
}

// NewWithClient wraps an existing client.
func NewWithClient(client *redis.Client, channel string, logger ports.Logger) *Publisher {
	if channel == "" {
		channel = DefaultChannel
	}
	return &Publisher{client: client, channel: channel, logger: logger}
}

// Name implements ports.Publisher.
func (p *Publisher) Name() string { return "redis" }

// LatestKey is the key holding the most recent snapshot.
func (p *Publisher) LatestKey() string { return p.channel + latestSuffix }

// Publish implements ports.Publisher. SET and PUBLISH go out in one pipeline.
func (p *Publisher) Publish(ctx context.Context, snap domain.Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("%w: encode snapshot: %w", ports.ErrPublishFailed, err)
	}

	pipe := p.client.TxPipeline()
	pipe.Set(ctx, p.LatestKey(), payload, 0)
	pipe.Publish(ctx, p.channel, payload)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%w: redis: %w", ports.ErrPublishFailed, err)
	}
	p.logger.Debug(ctx, "Snapshot published to Redis", map[string]interface{}{"tick": snap.Tick, "channel": p.channel})
	return nil
}

// Close closes the underlying client.
func (p *Publisher) Close() error {
	return p.client.Close()
}
