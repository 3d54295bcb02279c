package domain

import (
	"errors"
	"fmt"
)

// Sentinel error kinds for unit-level failures. Wrap them with %w so the
// orchestrator can classify a failure without knowing which layer produced it.
var (
	ErrConfiguration = errors.New("configuration error")
	ErrDataAccess    = errors.New("data access error")
	ErrUpload        = errors.New("upload error")
	ErrSerialization = errors.New("serialization error")
)

// UnitError is a failure bound to the scope unit that produced it. Unit
// errors are collected and logged by the orchestrator; they never abort
// sibling units.
type UnitError struct {
	Mode  ScopeMode
	ID    int64
	Label string
	Err   error
}

func (e *UnitError) Error() string {
	return fmt.Sprintf("%s %q (id %d): %v", e.Mode, e.Label, e.ID, e.Err)
}

func (e *UnitError) Unwrap() error {
	return e.Err
}

// Kind returns the sentinel the wrapped error matches, or nil for
// unclassified failures.
func (e *UnitError) Kind() error {
	for _, kind := range []error{ErrConfiguration, ErrDataAccess, ErrUpload, ErrSerialization} {
		if errors.Is(e.Err, kind) {
			return kind
		}
	}
	return nil
}
