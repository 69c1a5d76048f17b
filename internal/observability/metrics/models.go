package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/immortalcoder04/justifAI-AI-Based-Lawyer/internal/core/domain"
)

var readinessStates = []domain.ReadinessState{
	domain.StateUnready,
	domain.StateRetraining,
	domain.StateReady,
}

// ModelMetrics observes the model lifecycle, predictions and summaries.
type ModelMetrics struct {
	service string

	trainingsTotal   *prometheus.CounterVec
	trainingDuration *prometheus.HistogramVec
	rejectionsTotal  *prometheus.CounterVec
	readiness        *prometheus.GaugeVec
	predictionsTotal *prometheus.CounterVec
	summariesTotal   prometheus.Counter
	summaryLength    prometheus.Histogram
}

func NewModelMetrics(service string, registerer prometheus.Registerer) *ModelMetrics {
	trainingsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "model",
			Name:      "trainings_total",
			Help:      "Completed training runs by status.",
		},
		[]string{"service", "status"},
	)
	trainingDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "model",
			Name:      "training_duration_seconds",
			Help:      "Training run duration in seconds.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120, 300},
		},
		[]string{"service"},
	)
	rejectionsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "model",
			Name:      "artifact_rejections_total",
			Help:      "Persisted artifacts rejected at load time, by purpose and reason.",
		},
		[]string{"service", "purpose", "reason"},
	)
	readiness := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "model",
			Name:      "readiness_state",
			Help:      "1 for the current readiness state, 0 otherwise.",
		},
		[]string{"service", "state"},
	)
	predictionsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "predict",
			Name:      "requests_total",
			Help:      "Prediction requests by outcome.",
		},
		[]string{"service", "status"},
	)
	summariesTotal := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "summary",
			Name:        "produced_total",
			Help:        "Summaries produced.",
			ConstLabels: prometheus.Labels{"service": service},
		},
	)
	summaryLength := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace:   namespace,
			Subsystem:   "summary",
			Name:        "sentences",
			Help:        "Sentences selected per summary.",
			Buckets:     []float64{0, 1, 2, 3, 4, 6, 8},
			ConstLabels: prometheus.Labels{"service": service},
		},
	)

	registerer.MustRegister(
		trainingsTotal,
		trainingDuration,
		rejectionsTotal,
		readiness,
		predictionsTotal,
		summariesTotal,
		summaryLength,
	)

	m := &ModelMetrics{
		service:          service,
		trainingsTotal:   trainingsTotal,
		trainingDuration: trainingDuration,
		rejectionsTotal:  rejectionsTotal,
		readiness:        readiness,
		predictionsTotal: predictionsTotal,
		summariesTotal:   summariesTotal,
		summaryLength:    summaryLength,
	}
	m.StateChanged(domain.StateUnready)
	return m
}

func (m *ModelMetrics) TrainingFinished(status string, duration float64) {
	if status == "" {
		status = "unknown"
	}
	m.trainingsTotal.WithLabelValues(m.service, status).Inc()
	m.trainingDuration.WithLabelValues(m.service).Observe(duration)
}

func (m *ModelMetrics) ArtifactRejected(purpose domain.ModelPurpose, reason string) {
	m.rejectionsTotal.WithLabelValues(m.service, string(purpose), reason).Inc()
}

func (m *ModelMetrics) StateChanged(state domain.ReadinessState) {
	for _, s := range readinessStates {
		value := 0.0
		if s == state {
			value = 1
		}
		m.readiness.WithLabelValues(m.service, string(s)).Set(value)
	}
}

func (m *ModelMetrics) PredictionServed(status string) {
	m.predictionsTotal.WithLabelValues(m.service, status).Inc()
}

func (m *ModelMetrics) SummaryProduced(sentences int) {
	m.summariesTotal.Inc()
	m.summaryLength.Observe(float64(sentences))
}
