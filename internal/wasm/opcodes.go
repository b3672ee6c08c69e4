package wasm

// Named opcodes for the handful of instructions this backend's context
// layer synthesizes directly (spec §4.C "Start-function assembly"). The
// full instruction set is otherwise opaque to this core (spec §1
// Non-goals): everything else arrives pre-selected in a Function.Body.
const (
	OpCall          Opcode = 0x10
	OpGlobalGet     Opcode = 0x23
	OpGlobalSet     Opcode = 0x24
	OpI32Const      Opcode = 0x41
	OpRefAsNonNull  Opcode = 0xD4
	OpI31New        Opcode = 0xFB1C
	OpEnd           Opcode = 0x0B
)
