package linkage

import (
	"errors"
	"fmt"
)

// ErrUnparseableName is returned by SplitName when a name is not in "LAST, FIRST" form.
var ErrUnparseableName = errors.New("unparseable name")

// NameError wraps ErrUnparseableName with the offending input
type NameError struct {
	Name   string
	Reason string
}

func (e *NameError) Error() string {
	return fmt.Sprintf("%v %q: %s", ErrUnparseableName, e.Name, e.Reason)
}

func (e *NameError) Unwrap() error {
	return ErrUnparseableName
}
