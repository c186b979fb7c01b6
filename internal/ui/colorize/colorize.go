// Package colorize applies terminal syntax highlighting to decoded
// instruction trace lines.
package colorize

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// getTraceLexer returns an appropriate lexer with fallbacks. The trace
// grammar (mnemonic, registers, literals) tokenizes well as assembly.
func getTraceLexer() chroma.Lexer {
	candidates := []string{"nasm", "armasm", "gas"}
	for _, name := range candidates {
		if lexer := lexers.Get(name); lexer != nil {
			return lexer
		}
	}
	return nil
}

// getTraceStyle returns the trace style with fallbacks
func getTraceStyle() *chroma.Style {
	// Try our custom style first, then fallbacks
	candidates := []string{"trace-dark", "dracula", "monokai"}
	for _, name := range candidates {
		if style := styles.Get(name); style != nil {
			return style
		}
	}
	return styles.Fallback
}

// getTerminalFormatter returns an appropriate terminal formatter
func getTerminalFormatter() chroma.Formatter {
	// Try high-color first, then fallback
	candidates := []string{"terminal16m", "terminal256"}
	for _, name := range candidates {
		if formatter := formatters.Get(name); formatter != nil {
			return formatter
		}
	}
	return formatters.Fallback
}

// TraceLine colorizes a single trace line while preserving formatting.
// Format: "0xoffset    MNEMONIC operands". The offset is rendered in gray,
// the rest through the lexer. Lines that don't start with a hex offset go
// through full-line colorization.
func TraceLine(line string) string {
	// Check if colors are disabled
	if os.Getenv("BCDIS_NO_COLOR") != "" {
		return line
	}

	// Comment/header lines get a single muted color
	trimmed := strings.TrimSpace(line)
	if strings.HasPrefix(trimmed, ";") {
		return fmt.Sprintf("\033[38;2;235;194;237m%s\033[0m", line)
	}

	parts := strings.SplitN(line, " ", 2)
	if len(parts) < 2 || !isHexOffset(parts[0]) {
		return colorizeFullLine(line)
	}

	addr := parts[0]
	remaining := parts[1]

	// Color the offset in gray (79, 79, 79)
	addrColored := fmt.Sprintf("\033[38;2;79;79;79m%s\033[0m", addr)

	colorized := colorizeFullLine(remaining)

	return fmt.Sprintf("%s %s", addrColored, colorized)
}

// isHexOffset checks whether s is a "0x"-prefixed hex offset
func isHexOffset(s string) bool {
	if !strings.HasPrefix(s, "0x") || len(s) == 2 {
		return false
	}
	for _, ch := range s[2:] {
		if !((ch >= '0' && ch <= '9') || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')) {
			return false
		}
	}
	return true
}

// colorizeFullLine uses Chroma to colorize a trace line
func colorizeFullLine(line string) string {
	// Check if colors are disabled
	if os.Getenv("BCDIS_NO_COLOR") != "" {
		return line
	}

	lexer := getTraceLexer()
	if lexer == nil {
		// Return plain text if no lexer available
		return line
	}

	// Make sure our custom style is registered
	_ = TraceDark // Force registration

	style := getTraceStyle()
	formatter := getTerminalFormatter()

	// Tokenize the line
	iterator, err := lexer.Tokenise(nil, line)
	if err != nil {
		return line
	}

	// Format the tokens
	var buf strings.Builder
	err = formatter.Format(&buf, style, iterator)
	if err != nil {
		return line
	}

	return buf.String()
}

// StripANSI removes ANSI escape codes and returns the plain string
func StripANSI(s string) string {
	var result strings.Builder
	inEscape := false

	for _, r := range s {
		if r == '\x1b' {
			inEscape = true
		} else if inEscape {
			if r == 'm' {
				inEscape = false
			}
		} else {
			result.WriteRune(r)
		}
	}

	return result.String()
}
