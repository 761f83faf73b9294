package schema

import (
	"fmt"
	"strings"
)

// SchemaError is returned when a required canonical field cannot be resolved from a header row.
// The whole file is rejected; no records are loaded from it.
type SchemaError struct {
	Missing []Field
	Headers []string
	Source  string
}

func (e *SchemaError) Error() string {
	names := make([]string, len(e.Missing))
	for i, f := range e.Missing {
		names[i] = string(f)
	}
	if e.Source != "" {
		return fmt.Sprintf("schema error: %s: missing required fields %s (headers: %q)", e.Source, strings.Join(names, ", "), e.Headers)
	}
	return fmt.Sprintf("schema error: missing required fields %s (headers: %q)", strings.Join(names, ", "), e.Headers)
}

// OverrideError represents an error reading an alias override file
type OverrideError struct {
	Message string
	Cause   error
}

func (e *OverrideError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("alias override error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("alias override error: %s", e.Message)
}

func (e *OverrideError) Unwrap() error {
	return e.Cause
}
