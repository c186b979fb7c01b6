// Package disasm decodes the proprietary register-based bytecode format
// into a human-readable instruction trace. It is a linear disassembler:
// the cursor walks the stream from offset 0 to the end, one instruction at
// a time, and jump targets are printed but never followed. Known string
// constants are propagated through a register file so property and call
// operands read as their literal values where possible.
package disasm

import (
	"errors"
	"fmt"
)

// ErrUnknownOpcode reports an opcode byte with no dispatch table entry.
// This marks a mapping gap in the reverse-engineered instruction set and
// always aborts the run: skipping bytes would desynchronize every
// subsequent read.
var ErrUnknownOpcode = errors.New("unknown opcode")

// Inst is one decoded instruction of the trace.
type Inst struct {
	// Offset is the cursor position measured after the instruction's
	// operands were fully consumed, i.e. the offset of the next
	// instruction.
	Offset int
	// Text is the mnemonic with its rendered operands.
	Text string
}

// String renders the trace line format: hex offset, mnemonic, operands.
func (in Inst) String() string {
	return fmt.Sprintf("0x%x    %s", in.Offset, in.Text)
}

// Disassembler owns one decode run: the byte stream, the cursor, the
// register file and the trace. A run is fully sequential; create a new
// Disassembler per blob.
type Disassembler struct {
	r     *Reader
	regs  RegisterFile
	trace []Inst
	emit  func(Inst)
	err   error
}

// New creates a Disassembler over transport-decoded bytecode bytes.
func New(data []byte) *Disassembler {
	return &Disassembler{r: NewReader(data)}
}

// OnEmit registers a callback invoked for every instruction as soon as it
// is decoded, so callers observe the trace streaming in program order
// rather than buffered until completion.
func (d *Disassembler) OnEmit(fn func(Inst)) {
	d.emit = fn
}

// Trace returns the instructions decoded so far, in program order. Entries
// already produced stay valid even when a later instruction aborts the run.
func (d *Disassembler) Trace() []Inst {
	return d.trace
}

// Registers exposes the tracked register values of the run.
func (d *Disassembler) Registers() *RegisterFile {
	return &d.regs
}

// Run walks the byte stream until it is exhausted. Each iteration reads one
// opcode byte, dispatches to the matching handler, which consumes exactly
// its operand encoding and appends exactly one trace entry. The only normal
// termination is running out of input; HALT is printed like any other
// instruction. An unknown opcode or a truncated operand read aborts the run
// with an error naming the offending byte and position; nothing is skipped
// or resynchronized.
func (d *Disassembler) Run() error {
	for d.r.Remaining() > 0 {
		at := d.r.Offset()
		op, err := d.r.Byte()
		if err != nil {
			return err
		}
		h, ok := instructions[Opcode(op)]
		if !ok {
			return fmt.Errorf("%w: byte %d at offset 0x%x", ErrUnknownOpcode, op, at)
		}
		h(d)
		if d.err != nil {
			return fmt.Errorf("decode opcode %d at offset 0x%x: %w", op, at, d.err)
		}
	}
	return nil
}

// Operand readers with sticky error semantics. Handlers read their operands
// linearly without per-read checks; the first failure latches and the run
// loop reports it at the instruction boundary. Once latched, push and track
// become no-ops, so a failed instruction never emits a trace line or
// pollutes the register file.

func (d *Disassembler) byte() byte {
	if d.err != nil {
		return 0
	}
	v, err := d.r.Byte()
	if err != nil {
		d.err = err
	}
	return v
}

func (d *Disassembler) short() uint16 {
	if d.err != nil {
		return 0
	}
	v, err := d.r.ShortPointer()
	if err != nil {
		d.err = err
	}
	return v
}

func (d *Disassembler) word() uint32 {
	if d.err != nil {
		return 0
	}
	v, err := d.r.Word()
	if err != nil {
		d.err = err
	}
	return v
}

func (d *Disassembler) double() float64 {
	if d.err != nil {
		return 0
	}
	v, err := d.r.Double()
	if err != nil {
		d.err = err
	}
	return v
}

func (d *Disassembler) str() string {
	if d.err != nil {
		return ""
	}
	v, err := d.r.ObfuscatedString()
	if err != nil {
		d.err = err
	}
	return v
}

func (d *Disassembler) push(format string, args ...any) {
	if d.err != nil {
		return
	}
	in := Inst{Offset: d.r.Offset(), Text: fmt.Sprintf(format, args...)}
	d.trace = append(d.trace, in)
	if d.emit != nil {
		d.emit(in)
	}
}

func (d *Disassembler) track(reg byte, value string) {
	if d.err != nil {
		return
	}
	d.regs.Set(reg, value)
}
