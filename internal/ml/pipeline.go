package ml

import (
	"fmt"
	"time"
)

// Pipeline pairs a fitted preprocessing transform with a fitted forest. It is
// the unit that gets persisted as a model artifact.
type Pipeline struct {
	Purpose            string             `json:"purpose"`
	RunID              string             `json:"run_id"`
	DatasetFingerprint string             `json:"dataset_fingerprint"`
	TrainedAt          time.Time          `json:"trained_at"`
	Preprocessor       *ColumnTransformer `json:"preprocessor"`
	Estimator          *Forest            `json:"estimator"`
}

func (p *Pipeline) Validate() error {
	if p == nil {
		return fmt.Errorf("pipeline is nil")
	}
	if p.Preprocessor == nil || !p.Preprocessor.Fitted() {
		return fmt.Errorf("pipeline %q: preprocessor is not fitted", p.Purpose)
	}
	if err := p.Estimator.validate(); err != nil {
		return fmt.Errorf("pipeline %q: %w", p.Purpose, err)
	}
	if got, want := p.Preprocessor.NumFeatures(), p.Estimator.NumFeatures; got != want {
		return fmt.Errorf("pipeline %q: preprocessor emits %d features, estimator expects %d", p.Purpose, got, want)
	}
	return nil
}

// PredictLabels transforms t and classifies every row.
func (p *Pipeline) PredictLabels(t Table) ([]string, error) {
	x, err := p.Preprocessor.Transform(t)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(x))
	for i, row := range x {
		label, err := p.Estimator.PredictLabel(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out[i] = label
	}
	return out, nil
}

// PredictValues transforms t and regresses every row.
func (p *Pipeline) PredictValues(t Table) ([]float64, error) {
	x, err := p.Preprocessor.Transform(t)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(x))
	for i, row := range x {
		v, err := p.Estimator.PredictValue(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}
