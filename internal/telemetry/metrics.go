package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics is the machine-readable face of the reporting boundary:
// aggregate tick and progress figures for the whole population.
type Metrics struct {
	ticksTotal   prometheus.Counter
	tickDuration prometheus.Histogram
	bestProgress prometheus.Gauge
	revertsTotal prometheus.Gauge
	randomWalks  prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ticksTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "shellkick",
			Name:      "ticks_total",
			Help:      "Completed population ticks.",
		}),
		tickDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "shellkick",
			Name:      "tick_duration_seconds",
			Help:      "Wall time spent advancing all agents one frame.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 12),
		}),
		bestProgress: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "shellkick",
			Name:      "best_progress",
			Help:      "Highest published progress distance across the population.",
		}),
		revertsTotal: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "shellkick",
			Name:      "reverts_total",
			Help:      "Cumulative checkpoint rollbacks across all agents.",
		}),
		randomWalks: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "shellkick",
			Name:      "random_walks_total",
			Help:      "Cumulative random-walk escapes across all agents.",
		}),
	}
}

func (m *Metrics) ObserveTick(elapsed time.Duration, best, reverts, randomWalks uint64) {
	m.ticksTotal.Inc()
	m.tickDuration.Observe(elapsed.Seconds())
	m.bestProgress.Set(float64(best))
	m.revertsTotal.Set(float64(reverts))
	m.randomWalks.Set(float64(randomWalks))
}

func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
