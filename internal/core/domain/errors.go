package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrNoData             = errors.New("no data provided")
	ErrTooLarge           = errors.New("file too large")
	ErrArtifactNotFound   = errors.New("model artifact not found")
	ErrArtifactCorrupt    = errors.New("model artifact corrupt")
	ErrDatasetUnavailable = errors.New("training dataset unavailable")
	ErrNotReady           = errors.New("models not ready")
	ErrTemporary          = errors.New("temporary failure")
	ErrPredictionFailed   = errors.New("failed to predict")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}

// MissingFieldError reports a prediction field the caller did not supply.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing field `%s`", e.Field)
}

func (e *MissingFieldError) Is(target error) bool {
	return target == ErrInvalidInput
}
