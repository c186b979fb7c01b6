// Package bytecode handles the transport encoding of captured bytecode
// blobs. Captures are base64 text, often wrapped across multiple lines with
// embedded whitespace by whatever tool dumped them.
package bytecode

import (
	"encoding/base64"
	"fmt"
	"strings"
	"unicode"
)

// Decode strips all whitespace from a captured text blob and decodes the
// standard base64 alphabet into the raw bytecode bytes. A malformed capture
// (invalid alphabet, truncated padding) is a fatal input error; no partial
// recovery is attempted.
func Decode(text string) ([]byte, error) {
	compact := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, text)

	data, err := base64.StdEncoding.DecodeString(compact)
	if err != nil {
		return nil, fmt.Errorf("invalid bytecode capture: %w", err)
	}
	return data, nil
}
