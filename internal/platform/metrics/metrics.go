// Package metrics exposes Prometheus instruments for assignment decisions,
// schedule generation, caches and HTTP traffic.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Manager owns a registry and the instruments registered on it. A nil
// *Manager is a valid no-op sink.
type Manager struct {
	namespace string
	buckets   []float64
	registry  *prometheus.Registry
	runtime   bool

	decisions         *prometheus.CounterVec
	conflicts         *prometheus.CounterVec
	validationLatency prometheus.Histogram
	gamesGenerated    *prometheus.CounterVec
	cacheLookups      *prometheus.CounterVec
	breakerState      *prometheus.GaugeVec
	httpRequests      *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
}

type Option func(*Manager)

func WithNamespace(namespace string) Option {
	return func(m *Manager) {
		if namespace != "" {
			m.namespace = namespace
		}
	}
}

func WithHistogramBuckets(buckets []float64) Option {
	return func(m *Manager) {
		if len(buckets) > 0 {
			m.buckets = buckets
		}
	}
}

func WithRegistry(registry *prometheus.Registry) Option {
	return func(m *Manager) {
		if registry != nil {
			m.registry = registry
		}
	}
}

// WithRuntimeCollectors adds the Go runtime and process collectors.
func WithRuntimeCollectors() Option {
	return func(m *Manager) {
		m.runtime = true
	}
}

func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: "synced_sports",
		buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		registry:  prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}

	if m.runtime {
		m.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}

	auto := promauto.With(m.registry)
	m.decisions = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "assignment",
		Name:      "decisions_total",
		Help:      "Assignment validation outcomes by policy mode and decision.",
	}, []string{"mode", "decision"})
	m.conflicts = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "assignment",
		Name:      "conflicts_total",
		Help:      "Conflicts detected by kind and whether they were fatal.",
	}, []string{"kind", "fatal"})
	m.validationLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "assignment",
		Name:      "validation_duration_seconds",
		Help:      "Time spent loading snapshots and validating one proposal.",
		Buckets:   m.buckets,
	})
	m.gamesGenerated = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "schedule",
		Name:      "games_generated_total",
		Help:      "Games produced by the schedule generators by format.",
	}, []string{"format"})
	m.cacheLookups = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "cache",
		Name:      "lookups_total",
		Help:      "Read-through cache lookups by store and result.",
	}, []string{"store", "result"})
	m.breakerState = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "resilience",
		Name:      "circuit_open",
		Help:      "1 while the named circuit breaker is open or half-open.",
	}, []string{"breaker"})
	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by method, route and status code.",
	}, []string{"method", "route", "status"})
	m.httpDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by method and route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	return m
}

func (m *Manager) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Manager) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Manager) ObserveDecision(mode, decision string) {
	if m == nil {
		return
	}
	m.decisions.WithLabelValues(mode, decision).Inc()
}

func (m *Manager) ObserveConflict(kind string, fatal bool) {
	if m == nil {
		return
	}
	m.conflicts.WithLabelValues(kind, strconv.FormatBool(fatal)).Inc()
}

func (m *Manager) ObserveValidation(d time.Duration) {
	if m == nil {
		return
	}
	m.validationLatency.Observe(d.Seconds())
}

func (m *Manager) ObserveScheduleGenerated(format string, games int) {
	if m == nil {
		return
	}
	m.gamesGenerated.WithLabelValues(format).Add(float64(games))
}

func (m *Manager) CacheHit(store string) {
	if m == nil {
		return
	}
	m.cacheLookups.WithLabelValues(store, "hit").Inc()
}

func (m *Manager) CacheMiss(store string) {
	if m == nil {
		return
	}
	m.cacheLookups.WithLabelValues(store, "miss").Inc()
}

func (m *Manager) SetBreakerOpen(name string, open bool) {
	if m == nil {
		return
	}
	value := 0.0
	if open {
		value = 1
	}
	m.breakerState.WithLabelValues(name).Set(value)
}

func (m *Manager) ObserveHTTP(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}
