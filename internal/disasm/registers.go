package disasm

import "fmt"

// RegisterFile tracks the last known string constant written to each of the
// 256 registers. It exists only to make the trace readable: when an operand
// register holds a tracked value the trace shows the value, otherwise the
// raw register name. This is a last-write cache, not data-flow analysis:
// no versioning, no merging at control-flow joins. It works because the
// target format loads a constant immediately before its single use.
//
// The empty string is the "unknown" sentinel; slots never written stay
// empty and render as their raw register identifier.
type RegisterFile [256]string

// Set records the string constant loaded into reg. Writes are unconditional
// overwrites.
func (f *RegisterFile) Set(reg byte, value string) {
	f[reg] = value
}

// Known reports whether reg holds a tracked value.
func (f *RegisterFile) Known(reg byte) bool {
	return f[reg] != ""
}

// Resolve returns the tracked value of reg, or its raw name when unknown.
// It never fails.
func (f *RegisterFile) Resolve(reg byte) string {
	if f[reg] != "" {
		return f[reg]
	}
	return regName(reg)
}

func regName(reg byte) string {
	return fmt.Sprintf("reg%d", reg)
}
