// Package httpview is the in-process render boundary: it keeps the latest snapshot
// and serves it read-only over HTTP.
package httpview

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"realTimeDash/internal/domain"
	"realTimeDash/internal/metrics"
	"realTimeDash/internal/ports"
)

// View implements ports.Publisher by holding the most recent snapshot.
type View struct {
	mu     sync.RWMutex
	latest *domain.Snapshot
	logger ports.Logger
}

// New creates an empty view.
func New(logger ports.Logger) (*View, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is required for HTTP view")
	}
	return &View{logger: logger}, nil
}

// Name implements ports.Publisher.
func (v *View) Name() string { return "http" }

// Publish implements ports.Publisher.
func (v *View) Publish(ctx context.Context, snap domain.Snapshot) error {
	v.mu.Lock()
	v.latest = &snap
	v.mu.Unlock()
	return nil
}

// Latest returns the last published snapshot, if any.
func (v *View) Latest() (domain.Snapshot, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.latest == nil {
		return domain.Snapshot{}, false
	}
	return *v.latest, true
}

// Handler returns the routes:
//
//	GET /series         full snapshot
//	GET /series/{key}   one series, e.g. /series/generated or /series/stock:AAPL
//	GET /healthz
//	GET /metrics
func (v *View) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/series", v.handleSnapshot)
	mux.HandleFunc("/series/", v.handleSeries)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", metrics.Handler())
	return mux
}

func (v *View) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	snap, ok := v.Latest()
	if !ok {
		http.Error(w, "no data yet", http.StatusServiceUnavailable)
		return
	}
	v.writeJSON(r.Context(), w, snap)
}

func (v *View) handleSeries(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	key := strings.TrimPrefix(r.URL.Path, "/series/")
	snap, ok := v.Latest()
	if !ok {
		http.Error(w, "no data yet", http.StatusServiceUnavailable)
		return
	}
	series, found := snap.Find(key)
	if !found {
		http.Error(w, "unknown series", http.StatusNotFound)
		return
	}
	v.writeJSON(r.Context(), w, series)
}

func (v *View) writeJSON(ctx context.Context, w http.ResponseWriter, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(body); err != nil {
		v.logger.Warn(ctx, "Failed to write HTTP response", map[string]interface{}{"error": err.Error()})
	}
}

// Serve runs an HTTP server on addr until ctx is cancelled.
func (v *View) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           v.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		v.logger.Info(ctx, "HTTP view listening", map[string]interface{}{"addr": addr})
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http view shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http view: %w", err)
	}
}
