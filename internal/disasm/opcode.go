package disasm

// Opcode is the single byte identifying an instruction kind. The byte
// assignments are reverse-engineered constants of the target format.
// Several distinct byte values alias to the same logical instruction
// (observed for LESS THAN and LTE); the emitting compiler shows no
// behavioral difference between the aliased pairs, so both are treated as
// fully equivalent.
type Opcode byte

const (
	OpThrow          Opcode = 5
	OpMul            Opcode = 6
	OpRet            Opcode = 17
	OpLessThan       Opcode = 20
	OpNotEqual       Opcode = 22
	OpNewValue       Opcode = 23
	OpAnd            Opcode = 37
	OpJumpIfFalse    Opcode = 39
	OpUshr           Opcode = 40
	OpJumpFrame      Opcode = 49
	OpLoadDouble     Opcode = 51
	OpShl            Opcode = 53
	OpDiv            Opcode = 55
	OpOr             Opcode = 65
	OpEqual          Opcode = 78
	OpJumpIfTrue     Opcode = 83
	OpPushArgs       Opcode = 88
	OpCallApply      Opcode = 90
	OpJump           Opcode = 93
	OpSetProperty    Opcode = 99
	OpLessThanAlt    Opcode = 112
	OpTryCatch       Opcode = 115
	OpXor            Opcode = 117
	OpInitMemory     Opcode = 124
	OpShr            Opcode = 149
	OpMod            Opcode = 156
	OpStrictEqual    Opcode = 161
	OpHalt           Opcode = 166
	OpNewFunction    Opcode = 171
	OpLoadImm        Opcode = 181
	OpLteAlt         Opcode = 214
	OpCallFunction   Opcode = 215
	OpStrictNotEqual Opcode = 220
	OpSub            Opcode = 230
	OpMovImm         Opcode = 241
	OpAdd            Opcode = 243
	OpLte            Opcode = 247
	OpGetProperty    Opcode = 251
)
