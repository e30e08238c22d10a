package services

import (
	"errors"
	"fmt"
)

// ErrImportFormat signals that the imported document's top-level JSON
// value is not an array (or is not JSON at all). The store is untouched.
var ErrImportFormat = errors.New("import document must be a JSON array")

// ValidationError rejects a create or edit whose form fields are
// missing or malformed. No state changes when it is returned.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ImportShapeError rejects an entire import because one element failed
// shape validation. All-or-nothing: no partial import ever happens.
type ImportShapeError struct {
	Index  int
	Reason string
}

func (e *ImportShapeError) Error() string {
	return fmt.Sprintf("import element %d: %s", e.Index, e.Reason)
}

// PersistenceError reports a failed storage write. The in-memory
// mutation has already been applied; only the persisted mirror is stale.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: persist failed: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
