package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"aytoleon_scraper/internal/domain"
)

const namespace = "aytoleon_scraper"

// Metrics owns a private registry so tests can create as many as they like.
type Metrics struct {
	registry    *prometheus.Registry
	outcomes    *prometheus.CounterVec
	runs        *prometheus.CounterVec
	enrichments *prometheus.CounterVec
	publishes   *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ingest_outcomes_total",
			Help:      "Records processed by the ingestion engine, by outcome.",
		}, []string{"content_type", "status"}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scrape_runs_total",
			Help:      "Scrape-and-save runs per content type, by result.",
		}, []string{"content_type", "result"}),
		enrichments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "enrichment_fetches_total",
			Help:      "Notice detail page fetches, by result.",
		}, []string{"result"}),
		publishes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "published_records_total",
			Help:      "Saved records published to the message broker, by result.",
		}, []string{"content_type", "result"}),
	}

	m.registry.MustRegister(
		m.outcomes,
		m.runs,
		m.enrichments,
		m.publishes,
		collectors.NewGoCollector(),
	)
	return m
}

func (m *Metrics) ObserveOutcome(ct domain.ContentType, status domain.Status) {
	m.outcomes.WithLabelValues(string(ct), string(status)).Inc()
}

func (m *Metrics) ObserveRun(ct domain.ContentType, err error) {
	m.runs.WithLabelValues(string(ct), result(err)).Inc()
}

func (m *Metrics) ObserveEnrichment(err error) {
	m.enrichments.WithLabelValues(result(err)).Inc()
}

func (m *Metrics) ObservePublish(ct domain.ContentType, err error) {
	m.publishes.WithLabelValues(string(ct), result(err)).Inc()
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
