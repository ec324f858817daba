// Package metrics exposes Prometheus metrics for document parsing.
//
// A Metrics value owns its registry rather than using the global default, so
// tests and the command line tool can create as many as they like. All
// methods are safe to call on a nil *Metrics, which records nothing.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/JonMunkholm/csvview/internal/source"
	"github.com/JonMunkholm/csvview/internal/table"
)

// Parse results used as the "result" label.
const (
	ResultOK         = "ok"
	ResultQuoteError = "quote_error"
	ResultShapeError = "shape_error"
	ResultIOError    = "io_error"
	ResultCanceled   = "canceled"
	ResultError      = "error"
)

// Metrics holds the csvview collectors.
type Metrics struct {
	registry *prometheus.Registry

	parses   *prometheus.CounterVec
	duration *prometheus.HistogramVec
	rows     prometheus.Counter
	active   prometheus.Gauge
}

// New creates the collectors and registers them, together with the Go
// runtime and process collectors, on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		parses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "csvview",
				Subsystem: "parse",
				Name:      "total",
				Help:      "Parse attempts by origin and result",
			},
			[]string{"origin", "result"},
		),

		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "csvview",
				Subsystem: "parse",
				Name:      "duration_seconds",
				Help:      "Time spent scanning a document",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"origin"},
		),

		rows: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "csvview",
			Subsystem: "parse",
			Name:      "rows_total",
			Help:      "Data rows accepted by successful parses",
		}),

		active: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "csvview",
			Subsystem: "parse",
			Name:      "active",
			Help:      "Parses currently running",
		}),
	}

	m.registry.MustRegister(
		m.parses,
		m.duration,
		m.rows,
		m.active,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Start marks a parse as running. Call the returned function when it ends.
func (m *Metrics) Start() func() {
	if m == nil {
		return func() {}
	}
	m.active.Inc()
	return m.active.Dec
}

// ObserveParse records one finished parse. origin says where the text came
// from (file, upload, preview); rows is the data row count on success.
func (m *Metrics) ObserveParse(origin string, elapsed time.Duration, rows int, err error) {
	if m == nil {
		return
	}
	result := Result(err)
	m.parses.WithLabelValues(origin, result).Inc()
	if result == ResultOK {
		m.duration.WithLabelValues(origin).Observe(elapsed.Seconds())
		m.rows.Add(float64(rows))
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry for tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Result classifies a parse error into a result label.
func Result(err error) string {
	var (
		qe *table.QuoteError
		re *table.RowShapeError
		se *source.Error
	)
	switch {
	case err == nil:
		return ResultOK
	case errors.As(err, &qe):
		return ResultQuoteError
	case errors.As(err, &re):
		return ResultShapeError
	case errors.As(err, &se):
		return ResultIOError
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ResultCanceled
	}
	return ResultError
}
