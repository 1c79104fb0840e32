package core

import (
	"errors"
	"fmt"
)

// Error kinds reported to the presentation layer. Callers match with errors.Is;
// the wrapped message carries the offending identifier or value.
var (
	ErrNotFound               = errors.New("not found")
	ErrInvalidStatus          = errors.New("invalid status")
	ErrInvalidQuantity        = errors.New("invalid quantity")
	ErrValidationIncomplete   = errors.New("required field missing")
	ErrInvalidInput           = errors.New("invalid input")
	ErrPersistenceUnavailable = errors.New("persistence unavailable")
)

func notFound(kind string, id int) error {
	return fmt.Errorf("%s %d: %w", kind, id, ErrNotFound)
}

func invalidStatus(s string) error {
	return fmt.Errorf("status %q: %w (want one of new, in-progress, ready, delivered)", s, ErrInvalidStatus)
}
