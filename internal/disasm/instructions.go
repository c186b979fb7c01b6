package disasm

import "strings"

// handler consumes exactly one instruction's operand encoding and appends
// exactly one trace entry, optionally tracking a register write.
type handler func(d *Disassembler)

// instructions maps every known opcode byte to its decode-and-render
// handler. The table is built once at package init and never mutated; a
// lookup miss is handled by the run loop as a fatal mapping gap. 38 opcode
// bytes cover 36 logical instructions because LESS THAN and LTE each appear
// under two aliased bytes.
var instructions = map[Opcode]handler{
	OpInitMemory:  initMemory,
	OpNewValue:    newValue,
	OpMovImm:      movImm,
	OpLoadImm:     loadImm,
	OpLoadDouble:  loadDouble,
	OpGetProperty: getProperty,
	OpSetProperty: setProperty,

	OpCallFunction: callFunction,
	OpCallApply:    callApply,
	OpPushArgs:     pushArgs,
	OpNewFunction:  newFunction,
	OpJumpFrame:    jumpFrame,
	OpRet:          functionRet,

	OpAdd: binaryOp("ADD", "+"),
	OpSub: binaryOp("SUB", "-"),
	OpMul: binaryOp("MUL", "*"),
	OpDiv: binaryOp("DIV", "/"),
	OpMod: binaryOp("MOD", "%%"),

	OpOr:   binaryOp("OR", "|"),
	OpAnd:  binaryOp("AND", "&"),
	OpXor:  binaryOp("XOR", "^"),
	OpShl:  binaryOp("SHL", "<<"),
	OpShr:  binaryOp("SHR", ">>"),
	OpUshr: binaryOp("USHR", ">>>"),

	OpLessThan:       binaryOp("LESS THAN", "<"),
	OpLessThanAlt:    binaryOp("LESS THAN", "<"),
	OpLte:            binaryOp("LTE", "<="),
	OpLteAlt:         binaryOp("LTE", "<="),
	OpEqual:          binaryOp("EQUAL", "=="),
	OpNotEqual:       binaryOp("NOT EQUAL", "!="),
	OpStrictEqual:    binaryOp("STRICT EQUAL", "==="),
	OpStrictNotEqual: binaryOp("STRICT NOT EQUAL", "!=="),

	OpJump:        jump,
	OpJumpIfFalse: jumpIf("JUMP IF FALSE"),
	OpJumpIfTrue:  jumpIf("JUMP IF TRUE"),
	OpTryCatch:    tryCatch,
	OpThrow:       throwOp,
	OpHalt:        halt,
}

// regList reads an argc-prefixed list of register-byte operands and renders
// it as a comma-joined list of raw register names. argc 0 is valid and
// yields an empty list; the only bound on argc is the remaining stream.
func (d *Disassembler) regList(argc byte) string {
	names := make([]string, 0, argc)
	for i := byte(0); i < argc; i++ {
		names = append(names, regName(d.byte()))
	}
	return strings.Join(names, ",")
}

func initMemory(d *Disassembler) {
	reg := d.byte()
	value := d.byte()
	d.push("INIT MEMORY %d -> %s", value, regName(reg))
}

func newValue(d *Disassembler) {
	reg := d.byte()
	value := d.str()
	d.push("NEW VALUE '%s' -> %s", value, regName(reg))
	d.track(reg, value)
}

func movImm(d *Disassembler) {
	reg := d.byte()
	value := d.word()
	d.push("MOV IMM %d -> %s", value, regName(reg))
}

func loadImm(d *Disassembler) {
	reg := d.byte()
	value := d.byte()
	d.push("LOAD IMM %d -> %s", value, regName(reg))
}

func loadDouble(d *Disassembler) {
	reg := d.byte()
	value := d.double()
	d.push("LOAD DOUBLE %v -> %s", value, regName(reg))
}

func getProperty(d *Disassembler) {
	dst := d.byte()
	obj := d.byte()
	prop := d.byte()
	d.push("GET PROPERTY %s[%s] -> %s", regName(obj), d.regs.Resolve(prop), regName(dst))
}

func setProperty(d *Disassembler) {
	obj := d.byte()
	prop := d.byte()
	val := d.byte()
	d.push("SET PROPERTY %s[%s] = %s", regName(obj), d.regs.Resolve(prop), d.regs.Resolve(val))
}

func callFunction(d *Disassembler) {
	dst := d.byte()
	fn := d.byte()
	args := d.regList(d.byte())
	d.push("CALL FUNCTION %s(%s) -> %s", d.regs.Resolve(fn), args, regName(dst))
}

func callApply(d *Disassembler) {
	dst := d.byte()
	fn := d.byte()
	this := d.byte()
	args := d.regList(d.byte())
	d.push("CALL APPLY %s.apply(%s, [%s]) -> %s", d.regs.Resolve(fn), regName(this), args, regName(dst))
}

func pushArgs(d *Disassembler) {
	dst := d.byte()
	args := d.regList(d.byte())
	d.push("PUSH ARGS [%s] -> %s", args, regName(dst))
}

func newFunction(d *Disassembler) {
	d.byte() // destination register, not rendered
	entry := d.word()
	args := d.regList(d.byte())
	d.push("NEW FUNCTION entry(%d), args(%s)", entry, args)
}

func jumpFrame(d *Disassembler) {
	entry := d.word()
	context := d.byte()
	params := d.regList(d.byte())
	d.push("JUMP FRAME entry(%d), %d, params(%s)", entry, context, params)
}

func functionRet(d *Disassembler) {
	reg := d.byte()
	list := d.regList(d.byte())
	d.push("RET %d [%s]", reg, list)
}

// binaryOp builds the shared handler for the three-register arithmetic,
// bitwise and comparison instructions; they differ only in mnemonic and
// printed operator symbol.
func binaryOp(mnemonic, symbol string) handler {
	return func(d *Disassembler) {
		dst := d.byte()
		left := d.byte()
		right := d.byte()
		d.push(mnemonic+" %s "+symbol+" %s -> %s", regName(left), regName(right), regName(dst))
	}
}

func jump(d *Disassembler) {
	target := d.short()
	d.push("JUMP %d", target)
}

// jumpIf builds the handler shared by the two conditional jumps. Targets
// are printed, never followed.
func jumpIf(mnemonic string) handler {
	return func(d *Disassembler) {
		cond := d.byte()
		target := d.short()
		d.push(mnemonic+" %s, entry(%d)", regName(cond), target)
	}
}

func tryCatch(d *Disassembler) {
	dst := d.byte()
	catchPtr := d.short()
	finallyPtr := d.short()
	continuePtr := d.short()
	d.push("TRY CATCH [%d, %d, %d] -> %s", catchPtr, finallyPtr, continuePtr, regName(dst))
}

func throwOp(d *Disassembler) {
	reg := d.byte()
	d.push("THROW %d", reg)
}

func halt(d *Disassembler) {
	d.push("HALT")
}
