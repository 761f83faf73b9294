package ingestion

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Source is a readable CSV resource.
type Source interface {
	// Name identifies the source in reports and errors.
	Name() string
	Open() (io.ReadCloser, error)
}

// FileSource reads a file from disk.
type FileSource struct {
	Path string
}

// Name returns the file path.
func (s FileSource) Name() string {
	return s.Path
}

// Open opens the file for reading.
func (s FileSource) Open() (io.ReadCloser, error) {
	return os.Open(s.Path)
}

// BytesSource serves in-memory content.
type BytesSource struct {
	Label string
	Data  []byte
}

// Name returns the label.
func (s BytesSource) Name() string {
	if s.Label == "" {
		return "<bytes>"
	}
	return s.Label
}

// Open returns a reader over the data.
func (s BytesSource) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(s.Data)), nil
}

// YearPath expands a file pattern containing "{year}" inside dir.
func YearPath(dir, pattern string, year int) string {
	name := strings.ReplaceAll(pattern, "{year}", fmt.Sprintf("%d", year))
	return filepath.Join(dir, name)
}

// readSource reads the whole source and releases the handle before returning.
func readSource(src Source, year int) ([]byte, error) {
	rc, err := src.Open()
	if err != nil {
		return nil, &SourceUnavailableError{Source: src.Name(), Year: year, Message: "failed to open", Cause: err}
	}
	defer func() { _ = rc.Close() }()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, &SourceUnavailableError{Source: src.Name(), Year: year, Message: "failed to read", Cause: err}
	}
	return data, nil
}
