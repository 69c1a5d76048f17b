package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type WorkerMetrics struct {
	registry *prometheus.Registry

	retrainTotal    *prometheus.CounterVec
	retrainDuration *prometheus.HistogramVec
	retrainInFlight prometheus.Gauge
}

func NewWorkerMetrics(service string) *WorkerMetrics {
	registry := prometheus.NewRegistry()

	retrainTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "worker",
			Name:      "retrain_requests_total",
			Help:      "Handled retrain requests by source and status.",
		},
		[]string{"service", "source", "status"},
	)
	retrainDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "worker",
			Name:      "retrain_duration_seconds",
			Help:      "Retrain request handling duration in seconds by status.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120, 300},
		},
		[]string{"service", "status"},
	)
	retrainInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "worker",
			Name:      "retrain_in_flight",
			Help:      "Number of retrain requests being handled.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)

	registry.MustRegister(retrainTotal, retrainDuration, retrainInFlight)

	return &WorkerMetrics{
		registry:        registry,
		retrainTotal:    retrainTotal,
		retrainDuration: retrainDuration,
		retrainInFlight: retrainInFlight,
	}
}

func (m *WorkerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *WorkerMetrics) Registerer() prometheus.Registerer {
	return m.registry
}

func (m *WorkerMetrics) StartRetrain() {
	m.retrainInFlight.Inc()
}

func (m *WorkerMetrics) FinishRetrain(service, source string, duration time.Duration, err error) {
	m.retrainInFlight.Dec()

	status := "success"
	if err != nil {
		status = "error"
	}

	m.retrainTotal.WithLabelValues(service, source, status).Inc()
	m.retrainDuration.WithLabelValues(service, status).Observe(duration.Seconds())
}
