package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/immortalcoder04/justifAI-AI-Based-Lawyer/internal/core/domain"
)

func scrape(t *testing.T, handler http.Handler) string {
	t.Helper()
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("scrape status %d", rec.Code)
	}
	return rec.Body.String()
}

func TestHTTPMiddlewareRecordsNormalizedPath(t *testing.T) {
	m := NewHTTPServerMetrics("api")
	handler := m.Middleware("api", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	for _, path := range []string{"/predict", "/wp-admin/login.php"} {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, path, nil))
	}

	body := scrape(t, m.Handler())
	for _, want := range []string{
		`justifai_http_requests_total{method="POST",path="/predict",service="api",status="418"} 1`,
		`justifai_http_requests_total{method="POST",path="other",service="api",status="418"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("missing %q in\n%s", want, body)
		}
	}
}

func TestModelMetricsShareRegistry(t *testing.T) {
	httpMetrics := NewHTTPServerMetrics("api")
	models := NewModelMetrics("api", httpMetrics.Registerer())

	models.StateChanged(domain.StateReady)
	models.TrainingFinished("success", 1.5)
	models.ArtifactRejected(domain.PurposeCustody, "corrupt")
	models.PredictionServed("invalid")
	models.SummaryProduced(3)

	body := scrape(t, httpMetrics.Handler())
	for _, want := range []string{
		`justifai_model_readiness_state{service="api",state="ready"} 1`,
		`justifai_model_readiness_state{service="api",state="unready"} 0`,
		`justifai_model_trainings_total{service="api",status="success"} 1`,
		`justifai_model_artifact_rejections_total{purpose="custody",reason="corrupt",service="api"} 1`,
		`justifai_predict_requests_total{service="api",status="invalid"} 1`,
		`justifai_summary_produced_total{service="api"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("missing %q in\n%s", want, body)
		}
	}
}

func TestWorkerMetricsCountsOutcomes(t *testing.T) {
	m := NewWorkerMetrics("worker")
	m.StartRetrain()
	m.FinishRetrain("worker", "queue", 2*time.Second, nil)
	m.StartRetrain()
	m.FinishRetrain("worker", "watch", time.Second, errors.New("dataset unavailable"))

	body := scrape(t, m.Handler())
	for _, want := range []string{
		`justifai_worker_retrain_requests_total{service="worker",source="queue",status="success"} 1`,
		`justifai_worker_retrain_requests_total{service="worker",source="watch",status="error"} 1`,
		`justifai_worker_retrain_in_flight{service="worker"} 0`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("missing %q in\n%s", want, body)
		}
	}
}

func TestModelMetricsRejectsDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewModelMetrics("api", reg)
	defer func() {
		if recover() == nil {
			t.Fatalf("expected duplicate registration panic")
		}
	}()
	NewModelMetrics("api", reg)
}
