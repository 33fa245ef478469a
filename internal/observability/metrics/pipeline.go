package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PipelineMetrics covers both sides of the application: index builds and
// question answering. Exposed on an optional metrics listener.
type PipelineMetrics struct {
	registry *prometheus.Registry

	buildTotal    *prometheus.CounterVec
	buildDuration *prometheus.HistogramVec
	indexedUnits  prometheus.Gauge

	queryTotal    *prometheus.CounterVec
	queryDuration *prometheus.HistogramVec
	retrievedHits *prometheus.HistogramVec
}

func NewPipelineMetrics(service string) *PipelineMetrics {
	registry := prometheus.NewRegistry()

	buildTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docqa",
			Subsystem: "build",
			Name:      "runs_total",
			Help:      "Total index build runs by status.",
		},
		[]string{"service", "status"},
	)
	buildDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "docqa",
			Subsystem: "build",
			Name:      "duration_seconds",
			Help:      "Index build duration in seconds by status.",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600, 1800},
		},
		[]string{"service", "status"},
	)
	indexedUnits := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "docqa",
			Subsystem: "build",
			Name:      "indexed_units",
			Help:      "Number of units persisted by the most recent build.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	queryTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docqa",
			Subsystem: "query",
			Name:      "requests_total",
			Help:      "Total answered questions by status.",
		},
		[]string{"service", "status"},
	)
	queryDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "docqa",
			Subsystem: "query",
			Name:      "duration_seconds",
			Help:      "Question answering duration in seconds by status.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "status"},
	)
	retrievedHits := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "docqa",
			Subsystem: "query",
			Name:      "retrieved_units",
			Help:      "Distribution of retrieved units per answered question.",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13},
		},
		[]string{"service"},
	)

	registry.MustRegister(
		buildTotal,
		buildDuration,
		indexedUnits,
		queryTotal,
		queryDuration,
		retrievedHits,
	)

	return &PipelineMetrics{
		registry:      registry,
		buildTotal:    buildTotal,
		buildDuration: buildDuration,
		indexedUnits:  indexedUnits,
		queryTotal:    queryTotal,
		queryDuration: queryDuration,
		retrievedHits: retrievedHits,
	}
}

func (m *PipelineMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *PipelineMetrics) RecordBuild(service string, units int, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.buildTotal.WithLabelValues(service, status).Inc()
	m.buildDuration.WithLabelValues(service, status).Observe(duration.Seconds())
	if err == nil {
		m.indexedUnits.Set(float64(units))
	}
}

func (m *PipelineMetrics) RecordQuery(service string, hits int, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.queryTotal.WithLabelValues(service, status).Inc()
	m.queryDuration.WithLabelValues(service, status).Observe(duration.Seconds())
	if err == nil {
		m.retrievedHits.WithLabelValues(service).Observe(float64(hits))
	}
}
