package codegen

import "github.com/scala-wasm/backend/internal/wasm"

// helperSpec is one entry of the external-runtime helper catalogue (spec
// §6 "Helper imports"). Module is the import's module name (the helper's
// owning class); Name is the import's field name (the helper's method
// name) and must be unique across the whole catalogue, since FuncIndex
// resolves a call target by field name alone (see internal/wasm.Module.FuncIndex).
type helperSpec struct {
	Module  string
	Name    string
	Params  []wasm.StorageType
	Results []wasm.StorageType
}

var anyrefT = wasm.Anyref()
var i32T = wasm.I32()
var i64T = wasm.I64()
var f32T = wasm.F32()
var f64T = wasm.F64()

// primitiveHelperSpec describes one primitive's box/unbox/unboxOrNull/typeTest
// quartet (spec §6 "for each primitive p ...").
type primitiveHelperSpec struct {
	name     string
	wasmType wasm.StorageType
}

var boxedPrimitives = []primitiveHelperSpec{
	{"Boolean", i32T},
	{"Byte", i32T},
	{"Short", i32T},
	{"Int", i32T},
	{"Float", f32T},
	{"Double", f64T},
}

// unaryOperators and binaryOperators name the JS operators this backend
// gives a dedicated helper import to. The catalogue is representative of
// the JS interop surface rather than exhaustive; add an entry here and the
// import plus its call-site helper function follow automatically (spec §6
// "one helper per JS unary/binary operator").
var unaryOperators = []string{"plus", "minus", "tilde", "not", "typeof"}

var binaryOperators = []struct {
	name       string
	comparison bool // true selects i32 result (=== / !==), else anyref
}{
	{"plus", false}, {"minus", false}, {"times", false}, {"div", false}, {"mod", false},
	{"shl", false}, {"shr", false}, {"ushr", false},
	{"and", false}, {"or", false}, {"xor", false},
	{"lt", false}, {"le", false}, {"gt", false}, {"ge", false},
	{"eq", false}, {"neq", false},
	{"strictEq", true}, {"strictNeq", true},
	{"logAnd", false}, {"logOr", false},
	{"in", false}, {"instanceof", false},
}

// helperCatalogue builds the full, fixed list of helper imports described
// in spec §6. Called once per Context.
func helperCatalogue() []helperSpec {
	var out []helperSpec

	out = append(out,
		helperSpec{"Runtime", "is", []wasm.StorageType{anyrefT, anyrefT}, []wasm.StorageType{i32T}},
		helperSpec{"Runtime", "undef", nil, []wasm.StorageType{anyrefT}},
		helperSpec{"Runtime", "isUndef", []wasm.StorageType{anyrefT}, []wasm.StorageType{i32T}},
	)

	for _, p := range boxedPrimitives {
		out = append(out,
			helperSpec{p.name, "box_" + p.name, []wasm.StorageType{p.wasmType}, []wasm.StorageType{anyrefT}},
			helperSpec{p.name, "unbox_" + p.name, []wasm.StorageType{anyrefT}, []wasm.StorageType{p.wasmType}},
			helperSpec{p.name, "unboxOrNull_" + p.name, []wasm.StorageType{anyrefT}, []wasm.StorageType{anyrefT}},
			helperSpec{p.name, "typeTest_" + p.name, []wasm.StorageType{anyrefT}, []wasm.StorageType{i32T}},
		)
	}

	out = append(out,
		helperSpec{"RuntimeString", "emptyString", nil, []wasm.StorageType{anyrefT}},
		helperSpec{"RuntimeString", "stringLength", []wasm.StorageType{anyrefT}, []wasm.StorageType{i32T}},
		helperSpec{"RuntimeString", "stringCharAt", []wasm.StorageType{anyrefT, i32T}, []wasm.StorageType{i32T}},
		helperSpec{"RuntimeString", "jsValueToString", []wasm.StorageType{anyrefT}, []wasm.StorageType{anyrefT}},
		helperSpec{"RuntimeString", "booleanToString", []wasm.StorageType{i32T}, []wasm.StorageType{anyrefT}},
		helperSpec{"RuntimeString", "charToString", []wasm.StorageType{i32T}, []wasm.StorageType{anyrefT}},
		helperSpec{"RuntimeString", "intToString", []wasm.StorageType{i32T}, []wasm.StorageType{anyrefT}},
		helperSpec{"RuntimeString", "longToString", []wasm.StorageType{i64T}, []wasm.StorageType{anyrefT}},
		helperSpec{"RuntimeString", "doubleToString", []wasm.StorageType{f64T}, []wasm.StorageType{anyrefT}},
		helperSpec{"RuntimeString", "stringConcat", []wasm.StorageType{anyrefT, anyrefT}, []wasm.StorageType{anyrefT}},
		helperSpec{"RuntimeString", "isString", []wasm.StorageType{anyrefT}, []wasm.StorageType{i32T}},
	)

	out = append(out,
		helperSpec{"JSInterop", "jsValueHashCode", []wasm.StorageType{anyrefT}, []wasm.StorageType{i32T}},
		helperSpec{"JSInterop", "jsGlobalRefGet", []wasm.StorageType{anyrefT}, []wasm.StorageType{anyrefT}},
		helperSpec{"JSInterop", "jsGlobalRefSet", []wasm.StorageType{anyrefT, anyrefT}, nil},
		helperSpec{"JSInterop", "jsGlobalRefTypeof", []wasm.StorageType{anyrefT}, []wasm.StorageType{anyrefT}},
		helperSpec{"JSInterop", "jsNewArray", nil, []wasm.StorageType{anyrefT}},
		helperSpec{"JSInterop", "jsArrayPush", []wasm.StorageType{anyrefT, anyrefT}, []wasm.StorageType{anyrefT}},
		helperSpec{"JSInterop", "jsArraySpreadPush", []wasm.StorageType{anyrefT, anyrefT}, []wasm.StorageType{anyrefT}},
		helperSpec{"JSInterop", "jsNewObject", nil, []wasm.StorageType{anyrefT}},
		helperSpec{"JSInterop", "jsObjectPush", []wasm.StorageType{anyrefT, anyrefT, anyrefT}, []wasm.StorageType{anyrefT}},
		helperSpec{"JSInterop", "jsSelect", []wasm.StorageType{anyrefT, anyrefT}, []wasm.StorageType{anyrefT}},
		helperSpec{"JSInterop", "jsSelectSet", []wasm.StorageType{anyrefT, anyrefT, anyrefT}, nil},
		helperSpec{"JSInterop", "jsNew", []wasm.StorageType{anyrefT, anyrefT}, []wasm.StorageType{anyrefT}},
		helperSpec{"JSInterop", "jsFunctionApply", []wasm.StorageType{anyrefT, anyrefT}, []wasm.StorageType{anyrefT}},
		helperSpec{"JSInterop", "jsMethodApply", []wasm.StorageType{anyrefT, anyrefT, anyrefT}, []wasm.StorageType{anyrefT}},
		helperSpec{"JSInterop", "jsDelete", []wasm.StorageType{anyrefT, anyrefT}, nil},
		helperSpec{"JSInterop", "jsIsTruthy", []wasm.StorageType{anyrefT}, []wasm.StorageType{i32T}},
		helperSpec{"JSInterop", "jsLinkingInfo", nil, []wasm.StorageType{anyrefT}},
	)

	for _, op := range unaryOperators {
		out = append(out, helperSpec{"JSInterop", "unaryOp_" + op, []wasm.StorageType{anyrefT}, []wasm.StorageType{anyrefT}})
	}
	for _, op := range binaryOperators {
		results := []wasm.StorageType{anyrefT}
		if op.comparison {
			results = []wasm.StorageType{i32T}
		}
		out = append(out, helperSpec{"JSInterop", "binaryOp_" + op.name, []wasm.StorageType{anyrefT, anyrefT}, results})
	}

	return out
}
