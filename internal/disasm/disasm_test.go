package disasm

import (
	"errors"
	"strings"
	"testing"

	"bcdis/internal/obfuscate"
)

// newValueBytes builds a NEW VALUE instruction loading s into reg.
func newValueBytes(reg byte, s string) []byte {
	payload := obfuscate.Encode(s)
	buf := []byte{byte(OpNewValue), reg, byte(len(payload) >> 8), byte(len(payload))}
	return append(buf, payload...)
}

func TestRunInitMemoryLine(t *testing.T) {
	d := New([]byte{124, 0, 5})
	if err := d.Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	trace := d.Trace()
	if len(trace) != 1 {
		t.Fatalf("Expected 1 trace entry, got %d", len(trace))
	}
	if got := trace[0].String(); got != "0x3    INIT MEMORY 5 -> reg0" {
		t.Errorf("Line mismatch\nExpected: %q\nGot:      %q", "0x3    INIT MEMORY 5 -> reg0", got)
	}
}

func TestRunNewValueTracksRegister(t *testing.T) {
	input := newValueBytes(1, "window")
	d := New(input)
	if err := d.Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	trace := d.Trace()
	if len(trace) != 1 {
		t.Fatalf("Expected 1 trace entry, got %d", len(trace))
	}
	want := "NEW VALUE 'window' -> reg1"
	if trace[0].Text != want {
		t.Errorf("Trace mismatch\nExpected: %q\nGot:      %q", want, trace[0].Text)
	}
	if !strings.HasPrefix(trace[0].String(), "0x") {
		t.Errorf("Line missing hex offset prefix: %q", trace[0].String())
	}
	if got := d.Registers().Resolve(1); got != "window" {
		t.Errorf("Register 1: expected %q, got %q", "window", got)
	}
}

func TestValuePropagation(t *testing.T) {
	// NEW VALUE 'window' -> reg1, then GET PROPERTY reg0[reg1] -> reg2:
	// the property operand must render as the literal string.
	input := append(newValueBytes(1, "window"), byte(OpGetProperty), 2, 0, 1)
	d := New(input)
	if err := d.Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	trace := d.Trace()
	if len(trace) != 2 {
		t.Fatalf("Expected 2 trace entries, got %d", len(trace))
	}
	want := "GET PROPERTY reg0[window] -> reg2"
	if trace[1].Text != want {
		t.Errorf("Propagation mismatch\nExpected: %q\nGot:      %q", want, trace[1].Text)
	}
}

func TestValuePropagationCallAndSet(t *testing.T) {
	var input []byte
	input = append(input, newValueBytes(3, "getElementById")...)
	input = append(input, newValueBytes(4, "eval")...)
	// SET PROPERTY reg0[reg3] = reg4
	input = append(input, byte(OpSetProperty), 0, 3, 4)
	// CALL FUNCTION reg4(reg1) -> reg5
	input = append(input, byte(OpCallFunction), 5, 4, 1, 1)

	d := New(input)
	if err := d.Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	trace := d.Trace()
	if len(trace) != 4 {
		t.Fatalf("Expected 4 trace entries, got %d", len(trace))
	}
	if want := "SET PROPERTY reg0[getElementById] = eval"; trace[2].Text != want {
		t.Errorf("SET PROPERTY mismatch\nExpected: %q\nGot:      %q", want, trace[2].Text)
	}
	if want := "CALL FUNCTION eval(reg1) -> reg5"; trace[3].Text != want {
		t.Errorf("CALL FUNCTION mismatch\nExpected: %q\nGot:      %q", want, trace[3].Text)
	}
}

func TestUnknownOpcodeAborts(t *testing.T) {
	// Byte 0 is not in the instruction set.
	d := New([]byte{124, 0, 5, 0, 1, 2})
	err := d.Run()
	if err == nil {
		t.Fatal("Expected unknown opcode error, got none")
	}
	if !errors.Is(err, ErrUnknownOpcode) {
		t.Errorf("Expected ErrUnknownOpcode, got %v", err)
	}
	if !strings.Contains(err.Error(), "byte 0") {
		t.Errorf("Error does not name the offending byte: %v", err)
	}
	// The instruction before the gap stays in the trace; nothing is
	// emitted for the unknown byte.
	if got := len(d.Trace()); got != 1 {
		t.Errorf("Expected 1 trace entry before abort, got %d", got)
	}
}

func TestTruncatedOperandAborts(t *testing.T) {
	// NEW VALUE announcing 6 string bytes but carrying only 1.
	d := New([]byte{byte(OpNewValue), 1, 0, 6, 69})
	err := d.Run()
	if err == nil {
		t.Fatal("Expected bounds error, got none")
	}
	if !errors.Is(err, ErrTruncated) {
		t.Errorf("Expected ErrTruncated, got %v", err)
	}
	if got := len(d.Trace()); got != 0 {
		t.Errorf("Expected no trace entries for failed instruction, got %d", got)
	}
	if d.Registers().Known(1) {
		t.Error("Failed NEW VALUE must not write the register file")
	}
}

func TestHaltDoesNotStopRun(t *testing.T) {
	d := New([]byte{byte(OpHalt), 124, 0, 7})
	if err := d.Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	trace := d.Trace()
	if len(trace) != 2 {
		t.Fatalf("Expected decoding to continue past HALT, got %d entries", len(trace))
	}
	if trace[0].Text != "HALT" {
		t.Errorf("Expected HALT first, got %q", trace[0].Text)
	}
	if trace[1].Text != "INIT MEMORY 7 -> reg0" {
		t.Errorf("Expected INIT MEMORY after HALT, got %q", trace[1].Text)
	}
}

func TestStreamingEmit(t *testing.T) {
	var streamed []string
	d := New([]byte{124, 0, 5, byte(OpHalt)})
	d.OnEmit(func(in Inst) {
		streamed = append(streamed, in.String())
		// Lines arrive incrementally: the trace holds exactly the
		// instructions decoded so far.
		if len(d.Trace()) != len(streamed) {
			t.Errorf("Emit not streaming: %d emitted vs %d traced", len(streamed), len(d.Trace()))
		}
	})
	if err := d.Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(streamed) != 2 {
		t.Fatalf("Expected 2 streamed lines, got %d", len(streamed))
	}
	if streamed[0] != "0x3    INIT MEMORY 5 -> reg0" {
		t.Errorf("Unexpected first streamed line: %q", streamed[0])
	}
}

func TestEmptyStream(t *testing.T) {
	d := New(nil)
	if err := d.Run(); err != nil {
		t.Fatalf("Run on empty stream failed: %v", err)
	}
	if len(d.Trace()) != 0 {
		t.Errorf("Expected empty trace, got %d entries", len(d.Trace()))
	}
}

func BenchmarkRun(b *testing.B) {
	var input []byte
	input = append(input, newValueBytes(1, "window")...)
	for i := 0; i < 32; i++ {
		input = append(input, byte(OpGetProperty), 2, 0, 1)
		input = append(input, byte(OpAdd), 7, 5, 6)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		d := New(input)
		if err := d.Run(); err != nil {
			b.Fatal(err)
		}
	}
}
