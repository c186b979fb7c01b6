package colorize

import (
	"strings"
	"testing"
)

func TestTraceLineNoColor(t *testing.T) {
	t.Setenv("BCDIS_NO_COLOR", "1")

	line := "0x3    INIT MEMORY 5 -> reg0"
	if got := TraceLine(line); got != line {
		t.Errorf("Expected passthrough with colors disabled\nExpected: %q\nGot:      %q", line, got)
	}
}

func TestTraceLinePreservesText(t *testing.T) {
	t.Setenv("BCDIS_NO_COLOR", "")

	tests := []string{
		"0x3    INIT MEMORY 5 -> reg0",
		"0x1a    NEW VALUE 'window' -> reg1",
		"; header comment",
		"HALT",
	}

	for _, line := range tests {
		t.Run(line, func(t *testing.T) {
			// The formatter may add a trailing newline; everything else
			// must come back unchanged.
			plain := strings.TrimRight(StripANSI(TraceLine(line)), "\n")
			if plain != line {
				t.Errorf("Colorization altered text\nExpected: %q\nGot:      %q", line, plain)
			}
		})
	}
}

func TestIsHexOffset(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"0x3", true},
		{"0x1aF", true},
		{"0x", false},
		{"3", false},
		{"0xzz", false},
		{"INIT", false},
	}

	for _, tt := range tests {
		if got := isHexOffset(tt.in); got != tt.want {
			t.Errorf("isHexOffset(%q): expected %v, got %v", tt.in, tt.want, got)
		}
	}
}

func TestStripANSI(t *testing.T) {
	in := "\033[38;2;79;79;79m0x3\033[0m plain"
	if got := StripANSI(in); got != "0x3 plain" {
		t.Errorf("Expected %q, got %q", "0x3 plain", got)
	}
	if got := StripANSI("no escapes"); got != "no escapes" {
		t.Errorf("Expected passthrough, got %q", got)
	}
}
