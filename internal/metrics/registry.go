// Package metrics holds the Prometheus instruments for the composition
// pipeline and its data providers.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/stitts-dev/courtside/internal/models"
)

// Registry owns every collector on its own prometheus.Registry. A nil
// *Registry is valid and records nothing.
type Registry struct {
	reg *prometheus.Registry

	ThesesGenerated     *prometheus.CounterVec
	Recommendations     *prometheus.CounterVec
	CompositionFailures prometheus.Counter
	ComposeDuration     prometheus.Histogram
	TicketLegs          *prometheus.HistogramVec
	ProviderLatency     *prometheus.HistogramVec
	ProviderErrors      *prometheus.CounterVec
	CacheHits           *prometheus.CounterVec
	CacheMisses         *prometheus.CounterVec
	WSClients           prometheus.Gauge
}

func New() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),

		ThesesGenerated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "courtside_theses_generated_total",
				Help: "Theses generated by type",
			},
			[]string{"type"},
		),

		Recommendations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "courtside_recommendations_total",
				Help: "Recommendations selected per bucket",
			},
			[]string{"bucket"},
		),

		CompositionFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "courtside_composition_failures_total",
				Help: "Compositions that degraded to empty buckets",
			},
		),

		ComposeDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "courtside_compose_duration_seconds",
				Help:    "Time spent composing one game",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
			},
		),

		TicketLegs: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "courtside_ticket_legs",
				Help:    "Legs kept on each daily ticket",
				Buckets: []float64{0, 1, 2, 3, 4, 5, 6},
			},
			[]string{"kind"},
		),

		ProviderLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "courtside_provider_request_duration_seconds",
				Help:    "Upstream data provider latency",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0},
			},
			[]string{"provider", "endpoint", "result"},
		),

		ProviderErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "courtside_provider_errors_total",
				Help: "Upstream data provider failures",
			},
			[]string{"provider", "endpoint"},
		),

		CacheHits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "courtside_cache_hits_total",
				Help: "Cache hits by cache type",
			},
			[]string{"cache_type"},
		),

		CacheMisses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "courtside_cache_misses_total",
				Help: "Cache misses by cache type",
			},
			[]string{"cache_type"},
		),

		WSClients: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "courtside_websocket_clients",
				Help: "Connected websocket clients",
			},
		),
	}

	r.reg.MustRegister(
		r.ThesesGenerated,
		r.Recommendations,
		r.CompositionFailures,
		r.ComposeDuration,
		r.TicketLegs,
		r.ProviderLatency,
		r.ProviderErrors,
		r.CacheHits,
		r.CacheMisses,
		r.WSClients,
	)

	return r
}

// Handler serves this registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	if r == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}

// ObserveComposition records one composed game.
func (r *Registry) ObserveComposition(comp models.Composition, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.ComposeDuration.Observe(elapsed.Seconds())
	if comp.Error != "" {
		r.CompositionFailures.Inc()
		return
	}
	for _, sel := range comp.Buckets {
		r.Recommendations.WithLabelValues(string(sel.Bucket)).Add(float64(sel.Len()))
	}
}

func (r *Registry) ObserveTheses(theses []models.Thesis) {
	if r == nil {
		return
	}
	for _, t := range theses {
		r.ThesesGenerated.WithLabelValues(string(t.Type)).Inc()
	}
}

func (r *Registry) ObserveMultiple(dm models.DailyMultiple) {
	if r == nil {
		return
	}
	r.TicketLegs.WithLabelValues(string(models.TicketConservative)).Observe(float64(len(dm.Conservative.Legs)))
	r.TicketLegs.WithLabelValues(string(models.TicketAggressive)).Observe(float64(len(dm.Aggressive.Legs)))
}

func (r *Registry) RecordCacheHit(cacheType string) {
	if r == nil {
		return
	}
	r.CacheHits.WithLabelValues(cacheType).Inc()
}

func (r *Registry) RecordCacheMiss(cacheType string) {
	if r == nil {
		return
	}
	r.CacheMisses.WithLabelValues(cacheType).Inc()
}

func (r *Registry) SetWSClients(n int) {
	if r == nil {
		return
	}
	r.WSClients.Set(float64(n))
}

// ProviderTimer tracks one upstream request.
type ProviderTimer struct {
	metrics  *Registry
	provider string
	endpoint string
	start    time.Time
}

func (r *Registry) StartProviderTimer(provider, endpoint string) *ProviderTimer {
	return &ProviderTimer{
		metrics:  r,
		provider: provider,
		endpoint: endpoint,
		start:    time.Now(),
	}
}

// Stop records the request latency, labelled by outcome.
func (t *ProviderTimer) Stop(err error) {
	if t == nil || t.metrics == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
		t.metrics.ProviderErrors.WithLabelValues(t.provider, t.endpoint).Inc()
	}
	t.metrics.ProviderLatency.WithLabelValues(t.provider, t.endpoint, result).Observe(time.Since(t.start).Seconds())
}
