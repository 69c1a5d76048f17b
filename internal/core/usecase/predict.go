package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/immortalcoder04/justifAI-AI-Based-Lawyer/internal/core/domain"
	"github.com/immortalcoder04/justifAI-AI-Based-Lawyer/internal/core/ports"
)

type modelSource interface {
	Models(ctx context.Context) (*TrainedModels, error)
}

type PredictUseCase struct {
	models   modelSource
	observer ports.PredictionObserver
	logger   *slog.Logger
}

func NewPredictUseCase(models modelSource, observer ports.PredictionObserver, logger *slog.Logger) *PredictUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &PredictUseCase{
		models:   models,
		observer: observer,
		logger:   logger,
	}
}

// Predict validates the record before touching any model. Input errors are
// returned as is; every other failure collapses into ErrPredictionFailed
// with the cause logged.
func (uc *PredictUseCase) Predict(ctx context.Context, req *domain.PredictionRequest) (*domain.Prediction, error) {
	record, err := req.Record()
	if err != nil {
		uc.observe("invalid")
		return nil, err
	}

	prediction, err := uc.predict(ctx, record)
	if err != nil {
		uc.observe("failure")
		uc.logger.ErrorContext(ctx, "prediction failed", "error", err)
		return nil, domain.ErrPredictionFailed
	}
	uc.observe("success")
	return prediction, nil
}

func (uc *PredictUseCase) predict(ctx context.Context, record domain.CaseRecord) (*domain.Prediction, error) {
	models, err := uc.models.Models(ctx)
	if err != nil {
		return nil, fmt.Errorf("ensure models ready: %w", err)
	}

	table := featureTable([]domain.CaseRecord{record})
	labels, err := models.Custody.PredictLabels(table)
	if err != nil {
		return nil, fmt.Errorf("predict custody: %w", err)
	}
	amounts, err := models.Compensation.PredictValues(table)
	if err != nil {
		return nil, fmt.Errorf("predict compensation: %w", err)
	}
	if len(labels) != 1 || len(amounts) != 1 {
		return nil, errors.New("predict: expected exactly one output row")
	}

	amount := amounts[0]
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return nil, fmt.Errorf("predict compensation: non-finite amount %v", amount)
	}
	return &domain.Prediction{
		Custody:      labels[0],
		Compensation: math.Round(amount*100) / 100,
	}, nil
}

func (uc *PredictUseCase) observe(status string) {
	if uc.observer != nil {
		uc.observer.PredictionServed(status)
	}
}
