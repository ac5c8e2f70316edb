package slate

import (
	"errors"
	"fmt"
)

// NormalizationError reports a provider payload that violates the expected shape.
// It fails the whole dataset transform.
type NormalizationError struct {
	Dataset DatasetKind
	Path    string
	Reason  string
}

func (e *NormalizationError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("normalize %s: %s", e.Dataset, e.Reason)
	}
	return fmt.Sprintf("normalize %s: %s: %s", e.Dataset, e.Path, e.Reason)
}

// NewNormalizationError builds a NormalizationError.
func NewNormalizationError(kind DatasetKind, path, reason string) *NormalizationError {
	return &NormalizationError{Dataset: kind, Path: path, Reason: reason}
}

// IsNormalizationError reports whether err wraps a NormalizationError.
func IsNormalizationError(err error) bool {
	var nErr *NormalizationError
	return errors.As(err, &nErr)
}
