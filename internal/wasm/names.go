package wasm

// IndexSpace identifies one of the Wasm index spaces a name may belong to
// (spec §4.A). Type, Func, and Global spaces are implicit in the Module's
// append-only declaration order (see Module.TypeIndex, Module.FuncIndex,
// Module.GlobalIndex); Local is per-function (see Function.LocalIndex) and
// Field is per-struct (see StructType.FieldIndex). Label is a per-function
// relative scope resolved only at emission time (see internal/wasm/binary).
type IndexSpace int

const (
	SpaceType IndexSpace = iota
	SpaceFunc
	SpaceGlobal
	SpaceLocal
	SpaceField
	SpaceLabel
)
