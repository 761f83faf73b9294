package ingestion

import "fmt"

// SourceUnavailableError is returned when a source cannot be opened, read or decoded.
// It is fatal for that source only.
type SourceUnavailableError struct {
	Source  string
	Year    int
	Message string
	Cause   error
}

func (e *SourceUnavailableError) Error() string {
	where := e.Source
	if e.Year != 0 {
		where = fmt.Sprintf("%s (year %d)", e.Source, e.Year)
	}
	if e.Cause != nil {
		return fmt.Sprintf("source unavailable: %s: %s: %v", where, e.Message, e.Cause)
	}
	return fmt.Sprintf("source unavailable: %s: %s", where, e.Message)
}

func (e *SourceUnavailableError) Unwrap() error {
	return e.Cause
}

// DecodeError represents content that is neither valid UTF-8 nor ISO-8859-1 text
type DecodeError struct {
	Message string
	Offset  int
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode error at byte %d: %s", e.Offset, e.Message)
}
