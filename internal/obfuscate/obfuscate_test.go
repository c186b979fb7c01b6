package obfuscate

import (
	"bytes"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{
			name: "simple identifier",
			text: "window",
		},
		{
			name: "property name",
			text: "getElementById",
		},
		{
			name: "empty string",
			text: "",
		},
		{
			name: "single character",
			text: "a",
		},
		{
			name: "punctuation and digits",
			text: "eval(atob('x1'))",
		},
		{
			name: "whitespace",
			text: "hello world\t",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded := Encode(tt.text)
			decoded := Decode(encoded)
			if decoded != tt.text {
				t.Errorf("Round trip mismatch\nOriginal: %q\nDecoded:  %q", tt.text, decoded)
			}
		})
	}
}

func TestKnownVector(t *testing.T) {
	// "window" XORed with 50, verified against a real capture.
	encoded := []byte{69, 91, 92, 86, 93, 69}

	if got := Decode(encoded); got != "window" {
		t.Errorf("Decode mismatch\nExpected: %q\nGot:      %q", "window", got)
	}
	if got := Encode("window"); !bytes.Equal(got, encoded) {
		t.Errorf("Encode mismatch\nExpected: %v\nGot:      %v", encoded, got)
	}
}

func TestEncodeChangesBytes(t *testing.T) {
	text := "document"
	encoded := Encode(text)
	if bytes.Equal(encoded, []byte(text)) {
		t.Error("Encoded data is same as original")
	}
}
