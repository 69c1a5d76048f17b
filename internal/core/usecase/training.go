package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/immortalcoder04/justifAI-AI-Based-Lawyer/internal/core/domain"
	"github.com/immortalcoder04/justifAI-AI-Based-Lawyer/internal/ml"
)

var (
	numericColumns     = []string{domain.ColumnFatherSalary, domain.ColumnMotherSalary, domain.ColumnChildAge}
	categoricalColumns = []string{domain.ColumnDivorceStatus, domain.ColumnReasonForDivorce}
)

// featureTable lays records out under the derived training column names.
func featureTable(records []domain.CaseRecord) ml.Table {
	t := ml.Table{
		Numeric: map[string][]float64{
			domain.ColumnFatherSalary: make([]float64, len(records)),
			domain.ColumnMotherSalary: make([]float64, len(records)),
			domain.ColumnChildAge:     make([]float64, len(records)),
		},
		Categorical: map[string][]string{
			domain.ColumnDivorceStatus:    make([]string, len(records)),
			domain.ColumnReasonForDivorce: make([]string, len(records)),
		},
	}
	for i, r := range records {
		t.Numeric[domain.ColumnFatherSalary][i] = r.FatherSalary
		t.Numeric[domain.ColumnMotherSalary][i] = r.MotherSalary
		t.Numeric[domain.ColumnChildAge][i] = r.ChildAge
		t.Categorical[domain.ColumnDivorceStatus][i] = r.DivorceStatus
		t.Categorical[domain.ColumnReasonForDivorce][i] = r.ReasonForDivorce
	}
	return t
}

func forestConfig(limits domain.TrainingLimits) ml.ForestConfig {
	cfg := ml.DefaultForestConfig()
	if limits.Trees > 0 {
		cfg.NumTrees = limits.Trees
	}
	if limits.MaxDepth > 0 {
		cfg.MaxDepth = limits.MaxDepth
	}
	if limits.MinSamplesSplit > 0 {
		cfg.MinSamplesSplit = limits.MinSamplesSplit
	}
	if limits.Seed != 0 {
		cfg.Seed = limits.Seed
	}
	return cfg
}

// trainedPair holds the custody and compensation pipelines of one run.
type trainedPair struct {
	custody      *ml.Pipeline
	compensation *ml.Pipeline
}

func (p trainedPair) models() *TrainedModels {
	return &TrainedModels{Custody: p.custody, Compensation: p.compensation}
}

func (p trainedPair) pipeline(purpose domain.ModelPurpose) *ml.Pipeline {
	if purpose == domain.PurposeCustody {
		return p.custody
	}
	return p.compensation
}

// fitPipelines fits one shared column transform on the whole dataset and
// both forests on the resulting feature matrix.
func fitPipelines(ctx context.Context, ds *domain.Dataset, cfg ml.ForestConfig, runID string, trainedAt time.Time) (trainedPair, int, error) {
	if ds == nil || len(ds.Examples) == 0 {
		return trainedPair{}, 0, domain.WrapError(domain.ErrDatasetUnavailable, "fit pipelines", errors.New("dataset has no rows"))
	}

	records := make([]domain.CaseRecord, len(ds.Examples))
	labels := make([]string, len(ds.Examples))
	amounts := make([]float64, len(ds.Examples))
	for i, ex := range ds.Examples {
		records[i] = ex.Record
		labels[i] = ex.CustodyGrantedTo
		amounts[i] = ex.Compensation
	}

	table := featureTable(records)
	preprocessor := ml.NewColumnTransformer(numericColumns, categoricalColumns)
	if err := preprocessor.Fit(table); err != nil {
		return trainedPair{}, 0, fmt.Errorf("fit preprocessor: %w", err)
	}
	x, err := preprocessor.Transform(table)
	if err != nil {
		return trainedPair{}, 0, fmt.Errorf("transform dataset: %w", err)
	}

	classifier, err := ml.FitClassifier(ctx, x, labels, cfg)
	if err != nil {
		return trainedPair{}, 0, err
	}
	regressor, err := ml.FitRegressor(ctx, x, amounts, cfg)
	if err != nil {
		return trainedPair{}, 0, err
	}

	newPipeline := func(purpose domain.ModelPurpose, forest *ml.Forest) *ml.Pipeline {
		return &ml.Pipeline{
			Purpose:            string(purpose),
			RunID:              runID,
			DatasetFingerprint: ds.Fingerprint,
			TrainedAt:          trainedAt,
			Preprocessor:       preprocessor,
			Estimator:          forest,
		}
	}
	return trainedPair{
		custody:      newPipeline(domain.PurposeCustody, classifier),
		compensation: newPipeline(domain.PurposeCompensation, regressor),
	}, preprocessor.NumFeatures(), nil
}
