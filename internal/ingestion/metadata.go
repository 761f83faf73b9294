package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Metadata describes one loaded source file.
type Metadata struct {
	Source    string `json:"source"`
	Year      int    `json:"year,omitempty"`
	Encoding  string `json:"encoding"`
	Bytes     int    `json:"bytes"`
	Hash      string `json:"hash"`      // SHA256 hex digest of the raw bytes
	Timestamp string `json:"timestamp"` // RFC3339 format
}

// NewMetadata fingerprints raw source content.
func NewMetadata(source string, year int, encoding string, raw []byte) *Metadata {
	return &Metadata{
		Source:    source,
		Year:      year,
		Encoding:  encoding,
		Bytes:     len(raw),
		Hash:      computeHash(raw),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// computeHash computes SHA256 hash of content and returns hex string
func computeHash(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}
