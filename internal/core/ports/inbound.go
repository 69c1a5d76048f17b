package ports

import (
	"context"
	"io"

	"github.com/immortalcoder04/justifAI-AI-Based-Lawyer/internal/core/domain"
)

// CaseSummarizer is the inbound contract for extractive summaries of raw text.
type CaseSummarizer interface {
	Summarize(text string) string
}

// DocumentSummarizer is the inbound contract for uploaded case documents.
type DocumentSummarizer interface {
	SummarizeUpload(ctx context.Context, filename string, body io.Reader) (*domain.DocumentSummary, error)
}

// CasePredictor is the inbound contract for custody and compensation inference.
type CasePredictor interface {
	Predict(ctx context.Context, req *domain.PredictionRequest) (*domain.Prediction, error)
}

// ModelManager exposes the readiness state machine of the trained models.
type ModelManager interface {
	EnsureReady(ctx context.Context) error
	Retrain(ctx context.Context) (*domain.TrainingReport, error)
	Status() domain.ModelStatus
}

// RetrainRequester asks a worker to retrain the models asynchronously.
type RetrainRequester interface {
	RequestRetrain(ctx context.Context, reason string) error
}
