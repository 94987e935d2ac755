package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	TicksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "dashboard_ticks_total", Help: "Completed refresh ticks"},
	)
	StoreErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "dashboard_store_errors_total", Help: "Persistent store failures"},
		[]string{"op"},
	)
	PriceFetchFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "dashboard_price_fetch_failures_total", Help: "Price fetches replaced by the zero fallback"},
		[]string{"symbol"},
	)
	PublishErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "dashboard_publish_errors_total", Help: "Snapshot publish failures"},
		[]string{"publisher"},
	)
	TickDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{Name: "dashboard_tick_duration_seconds", Help: "Wall time of one tick", Buckets: prometheus.DefBuckets},
	)
)

func init() {
	prometheus.MustRegister(TicksTotal, StoreErrorsTotal, PriceFetchFailuresTotal, PublishErrorsTotal, TickDuration)
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
