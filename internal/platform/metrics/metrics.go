// internal/platform/metrics/metrics.go
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"oppsync/internal/core/domain"
	"oppsync/internal/core/ports"
)

// Namespace prefixes every metric.
const Namespace = "oppsync"

// Metrics is the Prometheus implementation of ports.Recorder.
type Metrics struct {
	registry *prometheus.Registry

	ItemsTotal      *prometheus.CounterVec
	SourceRunsTotal *prometheus.CounterVec
	FetchSeconds    *prometheus.HistogramVec
	ProcessSeconds  *prometheus.HistogramVec
	LinksTotal      *prometheus.CounterVec
}

// New registers the metrics on a private registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		ItemsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "items_total",
				Help:      "Reconciled items by source and outcome",
			},
			[]string{"source", "outcome"},
		),
		SourceRunsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "source_runs_total",
				Help:      "Source runs by final status",
			},
			[]string{"source", "status"},
		),
		FetchSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "source_fetch_seconds",
				Help:      "Time spent fetching a source",
				Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
			},
			[]string{"source"},
		),
		ProcessSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "source_process_seconds",
				Help:      "Time spent reconciling a source's items",
				Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
			},
			[]string{"source"},
		),
		LinksTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "links_total",
				Help:      "Application links by check result",
			},
			[]string{"result"},
		),
	}
}

// ObserveItem implements ports.Recorder.
func (m *Metrics) ObserveItem(source string, outcome domain.Outcome) {
	m.ItemsTotal.WithLabelValues(source, outcome.String()).Inc()
}

// ObserveSource implements ports.Recorder.
func (m *Metrics) ObserveSource(r domain.SourceResult) {
	m.SourceRunsTotal.WithLabelValues(r.Name, string(r.Status)).Inc()
	m.FetchSeconds.WithLabelValues(r.Name).Observe(r.FetchTime.Seconds())
	if r.ProcessTime > 0 {
		m.ProcessSeconds.WithLabelValues(r.Name).Observe(r.ProcessTime.Seconds())
	}
}

// ObserveLinks implements ports.Recorder.
func (m *Metrics) ObserveLinks(report domain.LinkReport) {
	m.LinksTotal.WithLabelValues("valid").Add(float64(report.Valid))
	m.LinksTotal.WithLabelValues("broken").Add(float64(report.Broken))
	m.LinksTotal.WithLabelValues("skipped").Add(float64(report.Skipped))
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

var _ ports.Recorder = (*Metrics)(nil)
