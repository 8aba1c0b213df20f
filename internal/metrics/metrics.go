// Package metrics exposes Prometheus counters for renders, imports and
// assist calls. A nil *Metrics is valid and records nothing.
package metrics

import (
	"net/http"
	"time"

	"github.com/dgallion1/examtex/internal/markup"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "examtex"

// Metrics owns a private registry so tests can create as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	renders        prometheus.Counter
	renderDuration prometheus.Histogram
	mathSpans      *prometheus.CounterVec
	fallbacks      prometheus.Counter

	importJobs *prometheus.CounterVec
	importRows prometheus.Counter

	assistCalls    *prometheus.CounterVec
	assistDuration *prometheus.HistogramVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		renders: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "renders_total",
			Help:      "Documents run through the render pipeline.",
		}),
		renderDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_seconds",
			Help:      "Time spent rendering one document.",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5},
		}),
		mathSpans: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "math_spans_total",
			Help:      "Math spans typeset, by mode.",
		}, []string{"mode"}),
		fallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "typeset_fallbacks_total",
			Help:      "Math spans shown as literal source after a typesetter failure.",
		}),
		importJobs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "import_jobs_total",
			Help:      "Finished import jobs, by final status.",
		}, []string{"status"}),
		importRows: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "import_questions_total",
			Help:      "Questions stored by import jobs.",
		}),
		assistCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assist_requests_total",
			Help:      "Calls to the content assist service, by operation and outcome.",
		}, []string{"operation", "outcome"}),
		assistDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "assist_duration_seconds",
			Help:      "Latency of content assist calls including retries.",
			Buckets:   prometheus.ExponentialBuckets(0.25, 2, 8),
		}, []string{"operation"}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.renders, m.renderDuration, m.mathSpans, m.fallbacks,
		m.importJobs, m.importRows,
		m.assistCalls, m.assistDuration,
	)
	return m
}

// ObserveRender records one render and what it produced.
func (m *Metrics) ObserveRender(s markup.RenderStats, d time.Duration) {
	if m == nil {
		return
	}
	m.renders.Inc()
	m.renderDuration.Observe(d.Seconds())
	m.mathSpans.WithLabelValues("inline").Add(float64(s.Inline))
	m.mathSpans.WithLabelValues("display").Add(float64(s.Display))
	m.fallbacks.Add(float64(s.Fallbacks))
}

// ObserveImportJob records a finished import job.
func (m *Metrics) ObserveImportJob(status string, stored int) {
	if m == nil {
		return
	}
	m.importJobs.WithLabelValues(status).Inc()
	m.importRows.Add(float64(stored))
}

// ObserveAssist records one assist operation.
func (m *Metrics) ObserveAssist(operation string, d time.Duration, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.assistCalls.WithLabelValues(operation, outcome).Inc()
	m.assistDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// RegisterQueueDepth exposes the import queue depth as a gauge read on
// every scrape.
func (m *Metrics) RegisterQueueDepth(depth func() int) {
	if m == nil {
		return
	}
	m.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "import_queue_depth",
		Help:      "Import jobs waiting for a worker.",
	}, func() float64 { return float64(depth()) }))
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
