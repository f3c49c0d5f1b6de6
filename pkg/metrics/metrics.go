package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "seating"

// Recorder tracks optimization runs, plan activations and cache use.
// A nil *Recorder is valid and records nothing.
type Recorder struct {
	registry      *prometheus.Registry
	optimizations *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	lastScore     prometheus.Gauge
	activations   prometheus.Counter
	cacheRequests *prometheus.CounterVec
}

// New registers all seating metrics on a fresh registry
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		optimizations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "optimizations_total",
			Help:      "Total number of seating optimization runs",
		}, []string{"strategy", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "optimization_duration_seconds",
			Help:      "Time spent scoring and solving one optimization run",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}, []string{"strategy"}),
		lastScore: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_optimization_score",
			Help:      "Optimization score of the most recently created plan",
		}),
		activations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "plan_activations_total",
			Help:      "Total number of seating plan activations",
		}),
		cacheRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "plan_cache_requests_total",
			Help:      "Plan cache lookups by result",
		}, []string{"result"}),
	}
	r.registry.MustRegister(
		r.optimizations,
		r.duration,
		r.lastScore,
		r.activations,
		r.cacheRequests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// ObserveOptimization records a finished run. err marks it as failed.
func (r *Recorder) ObserveOptimization(strategy string, took time.Duration, score int, err error) {
	if r == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	r.optimizations.WithLabelValues(strategy, status).Inc()
	if err == nil {
		r.duration.WithLabelValues(strategy).Observe(took.Seconds())
		r.lastScore.Set(float64(score))
	}
}

// PlanActivated counts an activation
func (r *Recorder) PlanActivated() {
	if r == nil {
		return
	}
	r.activations.Inc()
}

// CacheLookup counts a cache hit or miss
func (r *Recorder) CacheLookup(hit bool) {
	if r == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	r.cacheRequests.WithLabelValues(result).Inc()
}

// Registry exposes the underlying registry
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus text format
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
