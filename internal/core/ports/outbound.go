package ports

import (
	"context"

	"github.com/immortalcoder04/justifAI-AI-Based-Lawyer/internal/core/domain"
)

// ModelStore persists one serialized pipeline per purpose. Load of an empty
// slot returns domain.ErrArtifactNotFound.
type ModelStore interface {
	Exists(ctx context.Context, purpose domain.ModelPurpose) (bool, error)
	Load(ctx context.Context, purpose domain.ModelPurpose) ([]byte, error)
	Save(ctx context.Context, purpose domain.ModelPurpose, artifact []byte) error
	Delete(ctx context.Context, purpose domain.ModelPurpose) error
}

// DatasetSource loads the fixed training dataset.
type DatasetSource interface {
	Fingerprint(ctx context.Context) (string, error)
	Load(ctx context.Context) (*domain.Dataset, error)
}

// TextExtractor turns an uploaded document into plain text.
type TextExtractor interface {
	Extract(ctx context.Context, data []byte) (string, error)
}

type SentenceSegmenter interface {
	Segment(text string) []string
}

// SentenceScorer returns one centrality score per sentence.
type SentenceScorer interface {
	Score(sentences []string) []float64
}

// RetrainQueue carries retrain requests between the API and the worker.
type RetrainQueue interface {
	PublishRetrain(ctx context.Context, reason string) error
	SubscribeRetrain(ctx context.Context, handler func(context.Context, string) error) error
}

// ModelObserver receives model lifecycle events for metrics.
type ModelObserver interface {
	TrainingFinished(status string, duration float64)
	ArtifactRejected(purpose domain.ModelPurpose, reason string)
	StateChanged(state domain.ReadinessState)
}

// SummaryObserver counts produced summaries.
type SummaryObserver interface {
	SummaryProduced(sentences int)
}

// PredictionObserver counts prediction outcomes.
type PredictionObserver interface {
	PredictionServed(status string)
}
