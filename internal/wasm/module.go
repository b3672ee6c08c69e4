package wasm

import (
	"fmt"

	"github.com/scala-wasm/backend/api"
)

// ErrCyclicSubtype is returned by Module.RecGroupTypes when the struct
// subtype relation cannot be topologically ordered (spec §7).
var ErrCyclicSubtype = fmt.Errorf("cyclic subtype relation")

// builtinItablesArrayName is the single always-present array type described
// in spec §6 "Well-known names": its element is a non-null ref to struct.
const builtinItablesArrayName TypeName = "itables"

// Import is one imported declaration. This core only imports functions (the
// helper catalogue of spec §6); Kind is carried for fidelity with the
// binary format's general import descriptor shape.
type Import struct {
	Module string
	Name   string
	Kind   api.ExternKind
	Type   TypeName // function type name, meaningful when Kind == ExternKindFunc
}

// LocalDecl is one non-parameter local: its name and storage type. Locals
// are modeled as a flat declaration-ordered list, and the emitter writes
// them one entry per local (count 1, then the type) without merging
// adjacent locals of identical type (spec §4.F "Function body").
type LocalDecl struct {
	Name LocalName
	Type StorageType
}

// Function is a defined (non-imported) function body.
type Function struct {
	Name       FuncName
	Type       TypeName
	ParamNames []LocalName // index-correlated with the FunctionType's Params
	Locals     []LocalDecl
	Body       []Instr
}

// LocalIndex returns the dense local index of name within this function:
// parameters first in declaration order, then non-parameter locals (spec
// §4.A, invariant 4), or false if name is declared in neither list.
func (f *Function) LocalIndex(name LocalName) (int, bool) {
	for i, p := range f.ParamNames {
		if p == name {
			return i, true
		}
	}
	for i, l := range f.Locals {
		if l.Name == name {
			return len(f.ParamNames) + i, true
		}
	}
	return 0, false
}

// Global is a module-level global, mutable or not, with a constant
// initializer expression.
type Global struct {
	Name    GlobalName
	Type    StorageType
	Mutable bool
	Init    []Instr
}

// Export re-exposes a function or global under a public name.
type Export struct {
	Name   string
	Kind   api.ExternKind
	Func   FuncName   // meaningful when Kind == ExternKindFunc
	Global GlobalName // meaningful when Kind == ExternKindGlobal
}

// Module is the append-only store described in spec §3/§4.B. All vectors
// are append-only prior to emission; emission is read-only (spec §5).
type Module struct {
	StructTypes   []*StructType
	ArrayTypes    []*ArrayType
	FunctionTypes []*FunctionType

	Imports   []*Import
	Functions []*Function
	Globals   []*Global
	Exports   []*Export

	StartFunction   FuncName
	HasStartFunction bool
}

// NewModule returns a Module pre-populated with the single always-present
// itables array type (spec §6).
func NewModule() *Module {
	m := &Module{}
	m.ArrayTypes = append(m.ArrayTypes, &ArrayType{
		Name:    builtinItablesArrayName,
		Element: Ref(HeapTypeSimple(HeapStruct)),
		Mutable: false,
	})
	return m
}

// ItablesArrayName is the name of the built-in itables array type.
func ItablesArrayName() TypeName { return builtinItablesArrayName }

// FindFunctionType returns the interned FunctionType named n, if any.
func (m *Module) FindFunctionType(n TypeName) (*FunctionType, bool) {
	for _, ft := range m.FunctionTypes {
		if ft.Name == n {
			return ft, true
		}
	}
	return nil, false
}

// FindStructType returns the StructType named n, if any.
func (m *Module) FindStructType(n TypeName) (*StructType, bool) {
	for _, st := range m.StructTypes {
		if st.Name == n {
			return st, true
		}
	}
	return nil, false
}

// RecGroupTypes returns the struct types topologically sorted by subtype
// relation (a type appears after its declared super; spec §4.B invariant),
// followed by the array types, which carry no supertype and so need no
// ordering among themselves. Function types are not part of this list;
// AllTypeNames places them after it, and the binary emitter writes them as
// further subtypes of the same single rectype, per the resolution of the
// §4.F/§9 placement question recorded in DESIGN.md. Fails with ErrCyclicSubtype if the struct supertype graph
// cannot be fully resolved (spec §7).
func (m *Module) RecGroupTypes() ([]TypeName, error) {
	remaining := make(map[TypeName]*StructType, len(m.StructTypes))
	for _, st := range m.StructTypes {
		remaining[st.Name] = st
	}
	emitted := make(map[TypeName]bool, len(m.StructTypes))
	var order []TypeName

	for len(remaining) > 0 {
		progressed := false
		// Deterministic: walk in declaration order each pass.
		for _, st := range m.StructTypes {
			if emitted[st.Name] {
				continue
			}
			if st.HasSuper && !emitted[st.SuperType] {
				if _, stillPending := remaining[st.SuperType]; stillPending {
					continue
				}
			}
			order = append(order, st.Name)
			emitted[st.Name] = true
			delete(remaining, st.Name)
			progressed = true
		}
		if !progressed {
			return nil, ErrCyclicSubtype
		}
	}

	for _, at := range m.ArrayTypes {
		order = append(order, at.Name)
	}
	return order, nil
}

// AllTypeNames returns every type definition name in the exact order the
// binary emitter assigns TypeIdx values: RecGroupTypes() ++ function types
// (spec §4.F item 2).
func (m *Module) AllTypeNames() ([]TypeName, error) {
	rec, err := m.RecGroupTypes()
	if err != nil {
		return nil, err
	}
	out := make([]TypeName, 0, len(rec)+len(m.FunctionTypes))
	out = append(out, rec...)
	for _, ft := range m.FunctionTypes {
		out = append(out, ft.Name)
	}
	return out, nil
}

// TypeIndex returns the dense TypeIdx assigned to name, per AllTypeNames.
func (m *Module) TypeIndex(name TypeName) (uint32, error) {
	all, err := m.AllTypeNames()
	if err != nil {
		return 0, err
	}
	for i, n := range all {
		if n == name {
			return uint32(i), nil
		}
	}
	return 0, fmt.Errorf("type not found in module: %s", name)
}

// FuncIndex returns the dense func index of name: imported functions first
// in declaration order, then defined functions in declaration order
// (spec §4.A).
func (m *Module) FuncIndex(name FuncName) (uint32, bool) {
	idx := uint32(0)
	for _, imp := range m.Imports {
		if imp.Kind != api.ExternKindFunc {
			continue
		}
		if FuncName(imp.Name) == name {
			return idx, true
		}
		idx++
	}
	for _, fn := range m.Functions {
		if fn.Name == name {
			return idx, true
		}
		idx++
	}
	return 0, false
}

// GlobalIndex returns the dense global index of name (declaration order,
// spec §4.A).
func (m *Module) GlobalIndex(name GlobalName) (uint32, bool) {
	for i, g := range m.Globals {
		if g.Name == name {
			return uint32(i), true
		}
	}
	return 0, false
}
