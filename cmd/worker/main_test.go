package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/immortalcoder04/justifAI-AI-Based-Lawyer/internal/core/domain"
	"github.com/immortalcoder04/justifAI-AI-Based-Lawyer/internal/observability/metrics"
)

type fakeModels struct {
	ensureCalls  int
	retrainCalls int
	err          error
}

func (f *fakeModels) EnsureReady(context.Context) error {
	f.ensureCalls++
	return f.err
}

func (f *fakeModels) Retrain(context.Context) (*domain.TrainingReport, error) {
	f.retrainCalls++
	if f.err != nil {
		return nil, f.err
	}
	return &domain.TrainingReport{RunID: "run-1", Examples: 40}, nil
}

func (f *fakeModels) Status() domain.ModelStatus {
	return domain.ModelStatus{State: domain.StateReady, RunID: "run-1"}
}

func newTestWorker(models *fakeModels) *worker {
	return &worker{
		models:  models,
		metrics: metrics.NewWorkerMetrics(serviceName),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func scrape(t *testing.T, w *worker) string {
	t.Helper()
	rec := httptest.NewRecorder()
	w.metrics.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	return rec.Body.String()
}

func TestHandleQueueForcesRetrain(t *testing.T) {
	models := &fakeModels{}
	w := newTestWorker(models)

	if err := w.handle(context.Background(), "queue", "dataset replaced"); err != nil {
		t.Fatalf("handle() error = %v", err)
	}
	if models.retrainCalls != 1 || models.ensureCalls != 0 {
		t.Fatalf("retrain=%d ensure=%d, want 1/0", models.retrainCalls, models.ensureCalls)
	}

	body := scrape(t, w)
	want := `justifai_worker_retrain_requests_total{service="worker",source="queue",status="success"} 1`
	if !strings.Contains(body, want) {
		t.Fatalf("metrics missing %q:\n%s", want, body)
	}
}

func TestHandleStartupOnlyEnsuresReady(t *testing.T) {
	models := &fakeModels{}
	w := newTestWorker(models)

	if err := w.handle(context.Background(), "startup", "ensure ready"); err != nil {
		t.Fatalf("handle() error = %v", err)
	}
	if models.ensureCalls != 1 || models.retrainCalls != 0 {
		t.Fatalf("ensure=%d retrain=%d, want 1/0", models.ensureCalls, models.retrainCalls)
	}
}

func TestHandleRecordsFailure(t *testing.T) {
	models := &fakeModels{err: errors.New("dataset unreadable")}
	w := newTestWorker(models)

	if err := w.handle(context.Background(), "watch", "dataset changed"); err == nil {
		t.Fatalf("expected error")
	}

	body := scrape(t, w)
	want := `justifai_worker_retrain_requests_total{service="worker",source="watch",status="error"} 1`
	if !strings.Contains(body, want) {
		t.Fatalf("metrics missing %q:\n%s", want, body)
	}
	if !strings.Contains(body, `justifai_worker_retrain_in_flight{service="worker"} 0`) {
		t.Fatalf("in-flight gauge not released:\n%s", body)
	}
}
