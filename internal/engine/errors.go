package engine

import "errors"

var (
	// ErrValidation indicates a malformed request.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound indicates a concert that is not in the lineup.
	ErrNotFound = errors.New("not found")

	// ErrNotSelected indicates a concert that is not part of the plan.
	ErrNotSelected = errors.New("not selected")

	// ErrCatalog indicates the lineup could not be loaded.
	ErrCatalog = errors.New("catalog error")
)
