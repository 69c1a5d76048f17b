package domain

import "time"

type ModelPurpose string

const (
	PurposeCustody      ModelPurpose = "custody"
	PurposeCompensation ModelPurpose = "compensation"
)

// ModelPurposes lists every artifact slot; both are trained and cleared together.
var ModelPurposes = []ModelPurpose{PurposeCustody, PurposeCompensation}

func (p ModelPurpose) Valid() bool {
	return p == PurposeCustody || p == PurposeCompensation
}

type ReadinessState string

const (
	StateUnready    ReadinessState = "unready"
	StateRetraining ReadinessState = "retraining"
	StateReady      ReadinessState = "ready"
)

// ModelStatus is the read model exposed by readiness probes and the CLI.
type ModelStatus struct {
	State              ReadinessState `json:"state"`
	RunID              string         `json:"run_id,omitempty"`
	DatasetFingerprint string         `json:"dataset_fingerprint,omitempty"`
	TrainedAt          *time.Time     `json:"trained_at,omitempty"`
	LastError          string         `json:"last_error,omitempty"`
}

// TrainingLimits carries forest hyperparameters and the training deadline.
type TrainingLimits struct {
	Trees           int
	MaxDepth        int
	MinSamplesSplit int
	Seed            uint64
	Timeout         time.Duration
}

// TrainingReport describes one completed training run.
type TrainingReport struct {
	RunID              string        `json:"run_id"`
	DatasetFingerprint string        `json:"dataset_fingerprint"`
	Examples           int           `json:"examples"`
	Features           int           `json:"features"`
	Duration           time.Duration `json:"duration"`
	TrainedAt          time.Time     `json:"trained_at"`
}
