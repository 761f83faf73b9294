package ingestion

import (
	"bytes"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Encoding names reported on datasets.
const (
	EncodingUTF8    = "utf-8"
	EncodingUTF8BOM = "utf-8-bom"
	EncodingLatin1  = "iso-8859-1"
)

var bomUTF8 = []byte{0xEF, 0xBB, 0xBF}

// Decode converts raw bytes to UTF-8 text. UTF-8 is tried first (a leading BOM is stripped),
// then ISO-8859-1. Content with NUL bytes is binary and fails both.
func Decode(data []byte) (string, string, error) {
	if i := bytes.IndexByte(data, 0); i >= 0 {
		return "", "", &DecodeError{Message: "NUL byte in content; not a text file", Offset: i}
	}

	if bytes.HasPrefix(data, bomUTF8) {
		rest := data[len(bomUTF8):]
		if utf8.Valid(rest) {
			return string(rest), EncodingUTF8BOM, nil
		}
	}
	if utf8.Valid(data) {
		return string(data), EncodingUTF8, nil
	}

	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return "", "", &DecodeError{Message: err.Error()}
	}
	return string(decoded), EncodingLatin1, nil
}
