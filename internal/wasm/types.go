// Package wasm models the Wasm core binary format extended with the GC and
// typed-references proposals: value types, heap types, type definitions,
// instructions, and the module store that accumulates them (spec §3, §4.B).
package wasm

import "github.com/scala-wasm/backend/api"

// TypeName, FuncName, GlobalName, LocalName and FieldName are the name
// registry's value-typed, hashable, insertion-ordered identifiers (spec
// §4.A). They are plain strings: uniqueness within a declaration's own
// index space is the responsibility of whoever allocates them (the
// preprocessor for class/method names, the context for interned names).
type (
	TypeName   string
	FuncName   string
	GlobalName string
	LocalName  string
	FieldName  string
)

// ValKind discriminates the StorageType sum (spec §3 StorageType/ValueType).
type ValKind int

const (
	KindI32 ValKind = iota
	KindI64
	KindF32
	KindF64
	KindAnyref
	KindRef     // non-null ref(heapType)
	KindRefNull // nullable refNull(heapType)
)

// SimpleHeap enumerates the HeapType Simple variants.
type SimpleHeap int

const (
	HeapAny SimpleHeap = iota
	HeapExtern
	HeapFunc
	HeapEq
	HeapStruct
	HeapArray
	HeapI31
	HeapNone
	HeapNoFunc
	HeapNoExtern
)

// Code returns the single byte that encodes s in the binary format
// (spec §4.F "HeapType (simple)").
func (s SimpleHeap) Code() byte {
	switch s {
	case HeapAny:
		return api.HeapTypeAny
	case HeapExtern:
		return api.HeapTypeExtern
	case HeapFunc:
		return api.HeapTypeFunc
	case HeapEq:
		return api.HeapTypeEq
	case HeapStruct:
		return api.HeapTypeStruct
	case HeapArray:
		return api.HeapTypeArray
	case HeapI31:
		return api.HeapTypeI31
	case HeapNone:
		return api.HeapTypeNone
	case HeapNoFunc:
		return api.HeapTypeNoFunc
	case HeapNoExtern:
		return api.HeapTypeNoExtern
	}
	panic("unreachable simple heap type")
}

// HeapTypeKind discriminates HeapType (spec §3: TypeIndex | FuncIdx | Simple).
type HeapTypeKind int

const (
	HeapKindSimple HeapTypeKind = iota
	HeapKindTypeIndex
	HeapKindFuncIndex
)

// HeapType is the payload that follows a ref/refNull ValueType discriminator.
type HeapType struct {
	Kind      HeapTypeKind
	Simple    SimpleHeap
	TypeIndex TypeName // valid when Kind == HeapKindTypeIndex
	FuncIndex FuncName // valid when Kind == HeapKindFuncIndex: a ref typed to one specific function
}

func HeapTypeOf(t TypeName) HeapType { return HeapType{Kind: HeapKindTypeIndex, TypeIndex: t} }
func HeapTypeFunc(f FuncName) HeapType { return HeapType{Kind: HeapKindFuncIndex, FuncIndex: f} }
func HeapTypeSimple(s SimpleHeap) HeapType { return HeapType{Kind: HeapKindSimple, Simple: s} }

// StorageType is a ValueType, the type of a field, local, param, or result.
// Packed storage (i8/i16) is reserved by spec §3 but not required by this
// core, so it is not modeled here.
type StorageType struct {
	Kind ValKind
	Heap HeapType // meaningful only when Kind is KindRef or KindRefNull
}

func I32() StorageType { return StorageType{Kind: KindI32} }
func I64() StorageType { return StorageType{Kind: KindI64} }
func F32() StorageType { return StorageType{Kind: KindF32} }
func F64() StorageType { return StorageType{Kind: KindF64} }
func Anyref() StorageType { return StorageType{Kind: KindAnyref} }
func Ref(h HeapType) StorageType { return StorageType{Kind: KindRef, Heap: h} }
func RefNull(h HeapType) StorageType { return StorageType{Kind: KindRefNull, Heap: h} }

// Equal reports structural equality, used by the function-signature interner
// (spec §4.C) to recognize repeated (params, results) tuples.
func (s StorageType) Equal(o StorageType) bool {
	if s.Kind != o.Kind {
		return false
	}
	if s.Kind != KindRef && s.Kind != KindRefNull {
		return true
	}
	if s.Heap.Kind != o.Heap.Kind {
		return false
	}
	switch s.Heap.Kind {
	case HeapKindSimple:
		return s.Heap.Simple == o.Heap.Simple
	case HeapKindTypeIndex:
		return s.Heap.TypeIndex == o.Heap.TypeIndex
	case HeapKindFuncIndex:
		return s.Heap.FuncIndex == o.Heap.FuncIndex
	}
	return false
}

// Field is one struct field: its storage type and mutability.
type Field struct {
	Name    FieldName
	Type    StorageType
	Mutable bool
}

// StructType is a GC struct type, optionally declaring another struct as its
// super type (spec §3 StructType).
type StructType struct {
	Name      TypeName
	Fields    []Field
	SuperType TypeName
	HasSuper  bool
}

// FieldIndex returns the index of the field named f and true, or (0, false)
// if this struct does not declare it (fields of a super type are not
// visible here; see internal/planner for the class field-index convention,
// which places a class's own fields after the vtable and itables slots).
func (s *StructType) FieldIndex(f FieldName) (int, bool) {
	for i, fl := range s.Fields {
		if fl.Name == f {
			return i, true
		}
	}
	return 0, false
}

// ArrayType is a GC array type: a single, possibly mutable, element type.
type ArrayType struct {
	Name    TypeName
	Element StorageType
	Mutable bool
}

// FunctionType is a Wasm function signature. Function types are kept out
// of Module.RecGroupTypes (the struct/array list); the emitter assigns them
// the type indices after every struct and array type and writes them as
// the last subtypes of the single rectype (see Module.AllTypeNames).
type FunctionType struct {
	Name    TypeName
	Params  []StorageType
	Results []StorageType
}

// Equal reports whether two signatures have the same params and results,
// used by the function-signature interner.
func (f *FunctionType) Equal(params, results []StorageType) bool {
	if len(f.Params) != len(params) || len(f.Results) != len(results) {
		return false
	}
	for i, p := range params {
		if !f.Params[i].Equal(p) {
			return false
		}
	}
	for i, r := range results {
		if !f.Results[i].Equal(r) {
			return false
		}
	}
	return true
}

// BlockTypeKind discriminates BlockType (spec §3, §4.F).
type BlockTypeKind int

const (
	BlockTypeNone BlockTypeKind = iota
	BlockTypeValue
	BlockTypeFunc
)

// BlockType is the immediate carried by every structured-control-flow
// opener (block/loop/if).
type BlockType struct {
	Kind  BlockTypeKind
	Value StorageType // meaningful when Kind == BlockTypeValue
	Func  TypeName    // meaningful when Kind == BlockTypeFunc
}
