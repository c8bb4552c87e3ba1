package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "rcrm"

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	registry *prometheus.Registry

	// Registry metrics
	RelevanceQueriesTotal *prometheus.CounterVec

	// Orchestrator metrics
	PlansTotal       *prometheus.CounterVec
	PlanSteps        prometheus.Histogram
	SuggestionsTotal prometheus.Counter

	// Catalog metrics
	CatalogTools        prometheus.Gauge
	CatalogReloadsTotal *prometheus.CounterVec
}

// NewMetrics creates and registers all metrics
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,

		RelevanceQueriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "relevance_queries_total",
				Help:      "Total number of relevance queries by whether any tool matched",
			},
			[]string{"result"},
		),

		PlansTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "plans_total",
				Help:      "Total number of execution plans requested",
			},
			[]string{"status"},
		),
		PlanSteps: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "plan_steps",
				Help:      "Number of steps in produced execution plans",
				Buckets:   prometheus.LinearBuckets(0, 1, 8),
			},
		),
		SuggestionsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "suggestions_total",
				Help:      "Total number of tool suggestions served",
			},
		),

		CatalogTools: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "catalog_tools",
				Help:      "Number of tools in the active catalog",
			},
		),
		CatalogReloadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "catalog_reloads_total",
				Help:      "Total number of catalog reload attempts",
			},
			[]string{"status"},
		),
	}

	m.registerMetrics()

	return m
}

func (m *Metrics) registerMetrics() {
	m.registry.MustRegister(m.RelevanceQueriesTotal)

	m.registry.MustRegister(m.PlansTotal)
	m.registry.MustRegister(m.PlanSteps)
	m.registry.MustRegister(m.SuggestionsTotal)

	m.registry.MustRegister(m.CatalogTools)
	m.registry.MustRegister(m.CatalogReloadsTotal)
}

// RelevanceQuery records one relevance lookup and how many tools it returned
func (m *Metrics) RelevanceQuery(matches int) {
	result := "hit"
	if matches == 0 {
		result = "miss"
	}
	m.RelevanceQueriesTotal.WithLabelValues(result).Inc()
}

// PlanCreated records a plan request. Failed plans do not feed the step histogram.
func (m *Metrics) PlanCreated(steps int, err error) {
	if err != nil {
		m.PlansTotal.WithLabelValues("error").Inc()
		return
	}
	status := "ok"
	if steps == 0 {
		status = "empty"
	}
	m.PlansTotal.WithLabelValues(status).Inc()
	m.PlanSteps.Observe(float64(steps))
}

// SuggestionsServed adds count to the suggestions counter
func (m *Metrics) SuggestionsServed(count int) {
	m.SuggestionsTotal.Add(float64(count))
}

// CatalogLoaded sets the tools gauge after a successful load
func (m *Metrics) CatalogLoaded(tools int) {
	m.CatalogTools.Set(float64(tools))
}

// CatalogReloaded records a hot reload attempt
func (m *Metrics) CatalogReloaded(tools int, err error) {
	if err != nil {
		m.CatalogReloadsTotal.WithLabelValues("error").Inc()
		return
	}
	m.CatalogReloadsTotal.WithLabelValues("ok").Inc()
	m.CatalogLoaded(tools)
}

// Handler returns an HTTP handler for the metrics endpoint
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// Registry returns the Prometheus registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
