package walk

import (
	"errors"
	"fmt"
)

// ErrInvalidParams indicates a non-positive sample size or step limit.
var ErrInvalidParams = errors.New("walk: invalid simulation parameters")

// ParamError names the parameter that failed validation.
type ParamError struct {
	Field string
	Value int
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("walk: %s must be positive, got %d", e.Field, e.Value)
}

func (e *ParamError) Unwrap() error {
	return ErrInvalidParams
}
