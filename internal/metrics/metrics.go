// Package metrics holds the Prometheus collectors of the collection pipeline.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github-traffic-tracker/internal/model"
)

// Cycle results.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
	ResultSkipped = "skipped"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	CyclesTotal         *prometheus.CounterVec
	CycleDuration       prometheus.Histogram
	RepositoriesTotal   *prometheus.CounterVec
	FetchErrorsTotal    *prometheus.CounterVec
	SamplesUpserted     prometheus.Counter
	LastCycleTimestamp prometheus.Gauge

	gatherer prometheus.Gatherer
}

// New creates and registers all Prometheus metrics
func New(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		CyclesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "traffic_collection_cycles_total",
				Help: "Total number of collection cycles",
			},
			[]string{"result"},
		),
		CycleDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "traffic_collection_cycle_duration_seconds",
				Help:    "Collection cycle duration in seconds",
				Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
			},
		),
		RepositoriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "traffic_collection_repositories_total",
				Help: "Total number of repositories processed by collection cycles",
			},
			[]string{"result"},
		),
		FetchErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "traffic_fetch_errors_total",
				Help: "Total number of failed traffic API calls",
			},
			[]string{"series"},
		),
		SamplesUpserted: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "traffic_samples_upserted_total",
				Help: "Total number of traffic samples written",
			},
		),
		LastCycleTimestamp: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "traffic_collection_last_cycle_timestamp_seconds",
				Help: "Unix time of the last completed collection cycle",
			},
		),
		gatherer: registry,
	}

	registry.MustRegister(
		m.CyclesTotal,
		m.CycleDuration,
		m.RepositoriesTotal,
		m.FetchErrorsTotal,
		m.SamplesUpserted,
		m.LastCycleTimestamp,
	)
	return m
}

// ObserveCycle records the outcome of a finished cycle.
func (m *Metrics) ObserveCycle(report model.CycleReport, err error) {
	switch {
	case err != nil && !report.CredentialMissing:
		m.CyclesTotal.WithLabelValues(ResultFailure).Inc()
		return
	case report.CredentialMissing:
		m.CyclesTotal.WithLabelValues(ResultSkipped).Inc()
		return
	}
	m.CyclesTotal.WithLabelValues(ResultSuccess).Inc()
	m.CycleDuration.Observe(report.Duration.Seconds())
	m.RepositoriesTotal.WithLabelValues(ResultSuccess).Add(float64(report.Succeeded))
	m.RepositoriesTotal.WithLabelValues(ResultFailure).Add(float64(report.Failed))
	m.SamplesUpserted.Add(float64(report.SamplesWritten))
	m.LastCycleTimestamp.Set(float64(report.StartedAt.Add(report.Duration).Unix()))
}

// FetchFailed counts a failed call to one traffic endpoint.
func (m *Metrics) FetchFailed(series string) {
	m.FetchErrorsTotal.WithLabelValues(series).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
