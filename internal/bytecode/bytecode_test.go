package bytecode

import (
	"bytes"
	"encoding/base64"
	"testing"
)

func TestDecode(t *testing.T) {
	raw := []byte{124, 0, 5, 166}
	encoded := base64.StdEncoding.EncodeToString(raw)

	tests := []struct {
		name string
		text string
	}{
		{
			name: "single line",
			text: encoded,
		},
		{
			name: "trailing newline",
			text: encoded + "\n",
		},
		{
			name: "wrapped across lines",
			text: encoded[:3] + "\n" + encoded[3:],
		},
		{
			name: "embedded spaces and tabs",
			text: " " + encoded[:2] + "\t " + encoded[2:] + " \r\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.text)
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if !bytes.Equal(got, raw) {
				t.Errorf("Decode mismatch\nExpected: %v\nGot:      %v", raw, got)
			}
		})
	}
}

func TestDecodeInvalid(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{
			name: "invalid alphabet",
			text: "!!!not base64!!!",
		},
		{
			name: "truncated padding",
			text: "fA=",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode(tt.text); err == nil {
				t.Error("Expected error for malformed capture, got none")
			}
		})
	}
}

func TestDecodeEmpty(t *testing.T) {
	got, err := Decode("")
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Expected empty byte stream, got %v", got)
	}
}
