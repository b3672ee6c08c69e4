package wasm

import "fmt"

// Opcode is a Wasm instruction opcode: one byte, or two bytes (big-endian)
// for the GC/typed-reference extended opcode space (spec §4.F). It is
// widened past the 2-byte encoded form (uint32, not uint16) so that the
// over-wide case (spec §8 "0x10000 is an error") is a representable value
// rather than one Encode can never observe.
type Opcode uint32

// Encode returns the opcode's byte sequence, failing with ErrOpcodeTooWide
// if it exceeds the 2-byte form.
func (op Opcode) Encode() ([]byte, error) {
	if op <= 0xff {
		return []byte{byte(op)}, nil
	}
	if op > 0xffff {
		return nil, fmt.Errorf("%w: opcode %#x", ErrOpcodeTooWide, uint32(op))
	}
	return []byte{byte(op >> 8), byte(op)}, nil
}

// ErrOpcodeTooWide is returned when an opcode cannot be represented in one
// or two bytes (spec §7).
var ErrOpcodeTooWide = fmt.Errorf("opcode too wide")

// ImmKind discriminates the Immediate sum (spec §3).
type ImmKind int

const (
	ImmI32 ImmKind = iota
	ImmI64
	ImmF32
	ImmF64
	ImmMemArg
	ImmBlockType
	ImmFuncIdx
	ImmLabelIdx
	ImmTypeIdx
	ImmLocalIdx
	ImmGlobalIdx
	ImmStructFieldIdx
	ImmHeapType
	ImmCastFlags
	// ImmLabelIdxVector, ImmTableIdx, ImmTagIdx are declared but unsupported;
	// the emitter fails with ErrUnsupportedImmediate if it encounters them
	// (spec §4.F, §7, §9).
	ImmLabelIdxVector
	ImmTableIdx
	ImmTagIdx
)

// MemArg carries a memory instruction's offset and alignment. This core
// never emits memory instructions (spec §1 Non-goals), but the immediate
// kind is retained for completeness of the open sum.
type MemArg struct {
	Offset uint32
	Align  uint32
}

// CastFlags carries the two nullability bits of a ref-cast style instruction.
type CastFlags struct {
	Nullable1 bool
	Nullable2 bool
}

// LabelID is the opaque identity carried by a structured-label opener. Two
// openers sharing an identity are intentionally the same label (e.g. a
// labeled loop referenced by an inner branch); identities are otherwise
// compared only by equality, never by value.
type LabelID uint64

// Immediate is one instruction operand. Exactly one of the typed fields is
// meaningful, selected by Kind; modeled as a flat struct rather than an
// interface so the emitter can switch exhaustively without type assertions.
type Immediate struct {
	Kind ImmKind

	I32       int32
	I64       int64
	F32       float32
	F64       float64
	Mem       MemArg
	Block     BlockType
	FuncIdx   FuncName
	LabelIdx  LabelID
	TypeIdx   TypeName
	LocalIdx  LocalName
	GlobalIdx GlobalName
	Field     StructFieldRef
	Heap      HeapType
	Cast      CastFlags
}

// StructFieldRef names a field on a specific struct type, the payload of a
// StructFieldIdx immediate (spec §3).
type StructFieldRef struct {
	Struct TypeName
	Field  FieldName
}

func ImmI32Val(v int32) Immediate    { return Immediate{Kind: ImmI32, I32: v} }
func ImmI64Val(v int64) Immediate    { return Immediate{Kind: ImmI64, I64: v} }
func ImmF32Val(v float32) Immediate  { return Immediate{Kind: ImmF32, F32: v} }
func ImmF64Val(v float64) Immediate  { return Immediate{Kind: ImmF64, F64: v} }
func ImmMemArgVal(offset, align uint32) Immediate {
	return Immediate{Kind: ImmMemArg, Mem: MemArg{Offset: offset, Align: align}}
}
func ImmBlockTypeVal(b BlockType) Immediate { return Immediate{Kind: ImmBlockType, Block: b} }
func ImmFuncIdxVal(f FuncName) Immediate    { return Immediate{Kind: ImmFuncIdx, FuncIdx: f} }
func ImmLabelIdxVal(l LabelID) Immediate    { return Immediate{Kind: ImmLabelIdx, LabelIdx: l} }
func ImmTypeIdxVal(t TypeName) Immediate    { return Immediate{Kind: ImmTypeIdx, TypeIdx: t} }
func ImmLocalIdxVal(l LocalName) Immediate  { return Immediate{Kind: ImmLocalIdx, LocalIdx: l} }
func ImmGlobalIdxVal(g GlobalName) Immediate {
	return Immediate{Kind: ImmGlobalIdx, GlobalIdx: g}
}
func ImmStructFieldIdxVal(s TypeName, f FieldName) Immediate {
	return Immediate{Kind: ImmStructFieldIdx, Field: StructFieldRef{Struct: s, Field: f}}
}
func ImmHeapTypeVal(h HeapType) Immediate  { return Immediate{Kind: ImmHeapType, Heap: h} }
func ImmCastFlagsVal(n1, n2 bool) Immediate {
	return Immediate{Kind: ImmCastFlags, Cast: CastFlags{Nullable1: n1, Nullable2: n2}}
}

// Instr is one instruction in a function body: an opcode plus its
// immediates. Opens is true for a structured-label opener (block/loop/if);
// Label is that opener's optional identity (nil for an anonymous frame,
// which still consumes a depth slot on the emitter's scope stack). IsEnd
// marks the instruction as the 0x0B terminator of a structured construct;
// the expression's own terminator is appended by the emitter and is not
// part of a body, and an IsEnd with no open construct fails with
// ErrLabelOutOfScope (spec §4.F "Label resolution").
type Instr struct {
	Op         Opcode
	Immediates []Immediate
	Opens      bool
	Label      *LabelID
	IsEnd      bool
}
