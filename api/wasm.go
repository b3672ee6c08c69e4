// Package api includes the byte-valued constants shared between the binary
// emitter and its callers. These mirror the codes assigned by the Wasm core
// binary format, extended with the GC and typed-references proposals.
package api

// SectionID identifies a top-level section of a Wasm binary.
//
// See https://webassembly.github.io/gc/core/binary/modules.html#sections
type SectionID = byte

const (
	SectionIDCustom   SectionID = 0x00
	SectionIDType     SectionID = 0x01
	SectionIDImport   SectionID = 0x02
	SectionIDFunction SectionID = 0x03
	SectionIDTable    SectionID = 0x04
	SectionIDMemory   SectionID = 0x05
	SectionIDGlobal   SectionID = 0x06
	SectionIDExport   SectionID = 0x07
	SectionIDStart    SectionID = 0x08
	SectionIDElement  SectionID = 0x09
	SectionIDCode     SectionID = 0x0A
	SectionIDData     SectionID = 0x0B
)

// ExternKind classifies an import or export.
//
// See https://webassembly.github.io/gc/core/binary/modules.html#binary-importdesc
type ExternKind = byte

const (
	ExternKindFunc   ExternKind = 0x00
	ExternKindTable  ExternKind = 0x01
	ExternKindMemory ExternKind = 0x02
	ExternKindGlobal ExternKind = 0x03
)

// ValueType is the discriminator byte of a Wasm value type.
//
// Numeric types carry no further payload. ref/refNull are followed by a
// HeapType (see HeapType docs); they are the only ones this module's
// StorageType model produces, alongside the numeric types and the anyref
// shorthand, since this
// backend never emits raw tables or memories (see spec §1 Non-goals).
type ValueType = byte

const (
	ValueTypeI32     ValueType = 0x7F
	ValueTypeI64     ValueType = 0x7E
	ValueTypeF32     ValueType = 0x7D
	ValueTypeF64     ValueType = 0x7C
	ValueTypeAnyref  ValueType = 0x6E // shorthand for (ref null any)
	ValueTypeRef     ValueType = 0x64 // (ref ht), followed by a HeapType
	ValueTypeRefNull ValueType = 0x63 // (ref null ht), followed by a HeapType
)

// HeapTypeCode is the single byte that follows ValueTypeRef/ValueTypeRefNull
// when the heap type is one of the simple (non-indexed) kinds.
type HeapTypeCode = byte

const (
	HeapTypeFunc     HeapTypeCode = 0x70
	HeapTypeExtern   HeapTypeCode = 0x6F
	HeapTypeAny      HeapTypeCode = 0x6E
	HeapTypeEq       HeapTypeCode = 0x6D
	HeapTypeI31      HeapTypeCode = 0x6C
	HeapTypeStruct   HeapTypeCode = 0x6B
	HeapTypeArray    HeapTypeCode = 0x6A
	HeapTypeNone     HeapTypeCode = 0x65
	HeapTypeNoFunc   HeapTypeCode = 0x68
	HeapTypeNoExtern HeapTypeCode = 0x69
)

// SubtypeTag introduces a struct or array type definition inside a rectype.
// See https://webassembly.github.io/gc/core/binary/types.html#binary-comptype
const (
	SubtypeTagArray    byte = 0x5E
	SubtypeTagStruct   byte = 0x5F
	SubtypeTagSub      byte = 0x50 // sub, no final marker: may still be extended
	SubtypeTagFunc     byte = 0x60
	RecGroupTag        byte = 0x4E
	BlockTypeEmptyByte byte = 0x40
)
