// Package observability holds the Prometheus metrics of the report workflow.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/garyjia/station-report/internal/application/port"
)

const namespace = "station_report"

// Metrics holds the Prometheus counters for report generation and export.
type Metrics struct {
	ReportsGenerated *prometheus.CounterVec   // labels: kind
	MissingFields    *prometheus.HistogramVec // labels: kind
	Copies           *prometheus.CounterVec   // labels: kind, outcome={success,denied,empty}

	gatherer prometheus.Gatherer
}

// NewMetrics creates the report metrics and registers them, with the Go and
// process collectors, on a registry owned by the returned Metrics.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return newMetrics(reg, reg)
}

func newMetrics(reg prometheus.Registerer, gatherer prometheus.Gatherer) *Metrics {
	m := &Metrics{
		ReportsGenerated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reports_generated_total",
			Help:      "Reports rendered, by kind.",
		}, []string{"kind"}),
		MissingFields: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "report_missing_fields",
			Help:      "Schema fields left empty per generated report.",
			Buckets:   []float64{0, 1, 2, 4, 6, 8, 11},
		}, []string{"kind"}),
		Copies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "report_copies_total",
			Help:      "Clipboard exports, by kind and outcome.",
		}, []string{"kind", "outcome"}),
		gatherer: gatherer,
	}

	reg.MustRegister(m.ReportsGenerated, m.MissingFields, m.Copies)
	return m
}

// ReportGenerated implements port.ReportMetrics
func (m *Metrics) ReportGenerated(kind string, missingFields int) {
	m.ReportsGenerated.WithLabelValues(kind).Inc()
	m.MissingFields.WithLabelValues(kind).Observe(float64(missingFields))
}

// ReportCopied implements port.ReportMetrics
func (m *Metrics) ReportCopied(kind, outcome string) {
	m.Copies.WithLabelValues(kind, outcome).Inc()
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

var _ port.ReportMetrics = (*Metrics)(nil)
