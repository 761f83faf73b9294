package storage

import "fmt"

// PublishError represents a failure talking to the object store
type PublishError struct {
	Key     string
	Message string
	Cause   error
}

func (e *PublishError) Error() string {
	prefix := "publish error"
	if e.Key != "" {
		prefix = fmt.Sprintf("publish error: %s", e.Key)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

func (e *PublishError) Unwrap() error {
	return e.Cause
}
