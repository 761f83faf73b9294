package aggregate

import "fmt"

// RequestError represents an invalid aggregation request
type RequestError struct {
	Field   string
	Message string
}

func (e *RequestError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid aggregate request in %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("invalid aggregate request: %s", e.Message)
}
