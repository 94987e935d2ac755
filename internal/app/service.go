package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"realTimeDash/internal/domain"
	"realTimeDash/internal/metrics"
	"realTimeDash/internal/ports"
	"realTimeDash/internal/window"
)

const (
	defaultTickInterval = time.Second
	defaultStoreTimeout = 2 * time.Second
)

// Config holds the tunables of the dashboard pipeline.
type Config struct {
	MaxPoints    int           // Capacity of every bounded window
	TickInterval time.Duration // Refresh cadence
	StoreTimeout time.Duration // Upper bound for each store call
}

type stockSeries struct {
	source  ports.PriceSource
	window  *window.Bounded
	outcome domain.Outcome
}

// DashboardService owns the bounded windows and runs the refresh cycle. Windows are
// only touched from the goroutine calling Tick or Run; publishers get copies.
type DashboardService struct {
	cfg        Config
	logger     ports.Logger
	generator  ports.ObservationSource
	store      ports.ObservationRepository
	publishers []ports.Publisher
	session    string

	generated    *window.Bounded
	generatedOut domain.Outcome
	database     *window.Bounded
	databaseOut  domain.Outcome
	stocks       []*stockSeries
	ticks        uint64
}

// NewDashboardService creates the orchestrator. Windows start empty.
func NewDashboardService(
	cfg Config,
	logger ports.Logger,
	generator ports.ObservationSource,
	store ports.ObservationRepository,
	prices []ports.PriceSource,
	publishers ...ports.Publisher,
) (*DashboardService, error) {
	if logger == nil || generator == nil || store == nil {
		return nil, fmt.Errorf("missing required dependencies for DashboardService")
	}
	if cfg.MaxPoints <= 0 {
		return nil, fmt.Errorf("configuration MaxPoints must be positive")
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = defaultTickInterval
	}
	if cfg.StoreTimeout <= 0 {
		cfg.StoreTimeout = defaultStoreTimeout
	}

	generated, err := window.New(cfg.MaxPoints)
	if err != nil {
		return nil, err
	}
	database, err := window.New(cfg.MaxPoints)
	if err != nil {
		return nil, err
	}

	stocks := make([]*stockSeries, 0, len(prices))
	for _, src := range prices {
		if src == nil {
			return nil, fmt.Errorf("nil price source")
		}
		w, err := window.New(cfg.MaxPoints)
		if err != nil {
			return nil, err
		}
		stocks = append(stocks, &stockSeries{source: src, window: w, outcome: domain.OutcomeOK})
	}

	return &DashboardService{
		cfg:          cfg,
		logger:       logger,
		generator:    generator,
		store:        store,
		publishers:   publishers,
		session:      uuid.NewString(),
		generated:    generated,
		generatedOut: domain.OutcomeOK,
		database:     database,
		databaseOut:  domain.OutcomeOK,
		stocks:       stocks,
	}, nil
}

// Session returns the identifier stamped on every snapshot of this process.
func (s *DashboardService) Session() string { return s.session }

// Start runs the refresh loop until SIGINT/SIGTERM or ctx cancellation.
func (s *DashboardService) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case sig := <-sigCh:
			s.logger.Info(ctx, "Received shutdown signal", map[string]interface{}{"signal": sig.String()})
			cancel()
		case <-ctx.Done():
		}
	}()

	return s.Run(ctx)
}

// Run ticks immediately and then every TickInterval until ctx is cancelled.
// At most one tick is in flight; a slow tick delays the next one and missed
// ticks are dropped rather than queued. An in-flight tick always completes.
func (s *DashboardService) Run(ctx context.Context) error {
	s.logger.Info(ctx, "Starting dashboard refresh loop", map[string]interface{}{
		"session":   s.session,
		"interval":  s.cfg.TickInterval.String(),
		"maxPoints": s.cfg.MaxPoints,
		"symbols":   len(s.stocks),
	})
	s.logStoreSize(ctx)

	ticker := time.NewTicker(s.cfg.TickInterval)
	defer ticker.Stop()

	for {
		if ctx.Err() != nil {
			break
		}
		s.Tick(context.WithoutCancel(ctx))

		select {
		case <-ctx.Done():
		case <-ticker.C:
		}
	}

	s.logger.Info(ctx, "Dashboard refresh loop stopped", map[string]interface{}{"ticks": s.ticks})
	return nil
}

func (s *DashboardService) logStoreSize(ctx context.Context) {
	storeCtx, cancel := context.WithTimeout(ctx, s.cfg.StoreTimeout)
	defer cancel()
	count, err := s.store.Count(storeCtx)
	if err != nil {
		metrics.StoreErrorsTotal.WithLabelValues("count").Inc()
		s.logger.Warn(ctx, "Could not read persisted history size", map[string]interface{}{"error": err.Error()})
		return
	}
	s.logger.Info(ctx, "Persisted history found", map[string]interface{}{"records": count})
}

// Tick runs one full refresh cycle and returns the published snapshot.
// No failure aborts the tick: store and source errors degrade the affected series only.
func (s *DashboardService) Tick(ctx context.Context) domain.Snapshot {
	started := time.Now()
	s.ticks++

	appendedID := s.tickGenerated(ctx)
	s.tickDatabase(ctx, appendedID)
	s.tickStocks(ctx)

	snap := s.snapshot(started)
	s.publish(ctx, snap)

	metrics.TicksTotal.Inc()
	metrics.TickDuration.Observe(time.Since(started).Seconds())
	s.logger.Debug(ctx, "Tick completed", map[string]interface{}{"tick": s.ticks, "took": time.Since(started).String()})
	return snap
}

// tickGenerated produces a synthetic value, appends it to the generated window and
// persists it. It returns the store ID of the new record, or 0 if nothing was stored.
func (s *DashboardService) tickGenerated(ctx context.Context) int64 {
	obs, err := s.generator.Produce(ctx)
	if err != nil {
		s.generatedOut = domain.OutcomeStale
		s.logger.Error(ctx, err, "Generator failed, generated series left unchanged")
		return 0
	}
	s.generated.Append(obs)
	s.generatedOut = domain.OutcomeOK

	storeCtx, cancel := context.WithTimeout(ctx, s.cfg.StoreTimeout)
	defer cancel()
	id, err := s.store.Append(storeCtx, obs)
	if err != nil {
		metrics.StoreErrorsTotal.WithLabelValues("append").Inc()
		s.logger.Error(ctx, err, "Failed to persist generated observation", map[string]interface{}{"value": obs.Value})
		return 0
	}
	return id
}

// tickDatabase re-derives the database window from the full persisted log. The record
// written earlier in this same tick is excluded, so the series reflects history up to
// the previous tick.
func (s *DashboardService) tickDatabase(ctx context.Context, appendedID int64) {
	storeCtx, cancel := context.WithTimeout(ctx, s.cfg.StoreTimeout)
	defer cancel()

	records, err := s.store.ReadAll(storeCtx)
	if err != nil {
		metrics.StoreErrorsTotal.WithLabelValues("read").Inc()
		s.databaseOut = domain.OutcomeStale
		s.logger.Error(ctx, err, "Failed to read persisted history, keeping previous database series")
		return
	}
	if appendedID != 0 {
		for len(records) > 0 && records[len(records)-1].ID >= appendedID {
			records = records[:len(records)-1]
		}
	}
	s.database.Rebuild(records)
	s.databaseOut = domain.OutcomeOK
}

func (s *DashboardService) tickStocks(ctx context.Context) {
	for _, st := range s.stocks {
		obs, err := st.source.Poll(ctx)
		st.window.Append(obs)
		if err != nil {
			st.outcome = domain.OutcomeFallback
			metrics.PriceFetchFailuresTotal.WithLabelValues(st.source.Symbol()).Inc()
			continue
		}
		st.outcome = domain.OutcomeOK
	}
}

func (s *DashboardService) snapshot(takenAt time.Time) domain.Snapshot {
	series := make([]domain.Series, 0, 2+len(s.stocks))
	series = append(series,
		domain.Series{Name: domain.SeriesGenerated, Points: s.generated.Snapshot(), Outcome: s.generatedOut},
		domain.Series{Name: domain.SeriesDatabase, Points: s.database.Snapshot(), Outcome: s.databaseOut},
	)
	for _, st := range s.stocks {
		series = append(series, domain.Series{
			Name:    domain.SeriesStock,
			Symbol:  st.source.Symbol(),
			Points:  st.window.Snapshot(),
			Outcome: st.outcome,
		})
	}
	return domain.Snapshot{Session: s.session, Tick: s.ticks, TakenAt: takenAt, Series: series}
}

func (s *DashboardService) publish(ctx context.Context, snap domain.Snapshot) {
	for _, p := range s.publishers {
		if err := p.Publish(ctx, snap); err != nil {
			metrics.PublishErrorsTotal.WithLabelValues(p.Name()).Inc()
			s.logger.Error(ctx, err, "Failed to publish snapshot", map[string]interface{}{"publisher": p.Name(), "tick": snap.Tick})
		}
	}
}
