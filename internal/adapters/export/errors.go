package export

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"
)

// Sentinel kinds for export errors.
var (
	ErrSchemaMismatch = errors.New("plan does not fit export schema")
	ErrUnknownFormat  = errors.New("unknown export format")
	ErrMalformedPlan  = errors.New("malformed plan file")
)

// SchemaError lists every entry a target schema rejected. It matches
// ErrSchemaMismatch with errors.Is.
type SchemaError struct {
	Format     string
	Violations []error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: %d entries violate the schema: %v", e.Format, len(e.Violations), multierr.Combine(e.Violations...))
}

func (e *SchemaError) Unwrap() error { return ErrSchemaMismatch }

// newSchemaError returns nil when combined holds no violations.
func newSchemaError(format string, combined error) error {
	if combined == nil {
		return nil
	}
	return &SchemaError{Format: format, Violations: multierr.Errors(combined)}
}
