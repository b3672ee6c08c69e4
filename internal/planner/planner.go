// Package planner computes, per class, a deterministic layout of virtual
// dispatch tables, interface dispatch tables (itables), and field indices,
// honoring override, mix-in, and multiple-interface-inheritance rules
// (spec §4.E).
package planner

import (
	"fmt"

	"github.com/scala-wasm/backend/internal/classinfo"
	"github.com/scala-wasm/backend/internal/wasm"
)

// ErrMethodNotFound is returned when vtable/itable resolution fails
// (spec §7).
var ErrMethodNotFound = fmt.Errorf("method not found")

// ErrFieldNotFound is returned when a field-index lookup fails (spec §7).
var ErrFieldNotFound = fmt.Errorf("field not found")

// Planner derives vtables, itables, and field indices over a frozen class
// table, memoizing both tables per class (spec §4.E "Both tables are
// memoized per class"). Correctness depends on the table being frozen
// before the first cache read (spec §5, §9).
type Planner struct {
	table *classinfo.Table

	vtableCache   map[vtableCacheKey][]*classinfo.FunctionInfo
	itablesCache  map[string][]*classinfo.ClassInfo
}

type vtableCacheKey struct {
	className       string
	includeAbstract bool
}

// New returns a Planner over table. table must not be mutated afterward.
func New(table *classinfo.Table) *Planner {
	return &Planner{
		table:        table,
		vtableCache:  make(map[vtableCacheKey][]*classinfo.FunctionInfo),
		itablesCache: make(map[string][]*classinfo.ClassInfo),
	}
}

// collectMethods concatenates super, then interfaces, then own methods
// (spec §4.E "Method collection"), without folding by name yet.
func (p *Planner) collectMethods(className string, includeAbstract bool) ([]*classinfo.FunctionInfo, error) {
	ci, err := p.table.Get(className)
	if err != nil {
		return nil, err
	}

	var out []*classinfo.FunctionInfo
	if ci.HasSuper {
		superMethods, err := p.collectMethods(ci.SuperClass, includeAbstract)
		if err != nil {
			return nil, err
		}
		out = append(out, superMethods...)
	}
	for _, iface := range ci.Interfaces {
		ifaceMethods, err := p.collectMethods(iface, includeAbstract)
		if err != nil {
			return nil, err
		}
		out = append(out, ifaceMethods...)
	}
	for _, m := range ci.Methods {
		if !includeAbstract && m.IsAbstract {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

// foldVTable folds a collected method list left-to-right: an entry sharing
// a method-name string with an existing one replaces it in place; a new
// name appends (spec §4.E "VTable layout").
func foldVTable(collected []*classinfo.FunctionInfo) []*classinfo.FunctionInfo {
	var out []*classinfo.FunctionInfo
	index := make(map[string]int, len(collected))
	for _, m := range collected {
		if pos, ok := index[m.Name.MethodName]; ok {
			out[pos] = m
			continue
		}
		index[m.Name.MethodName] = len(out)
		out = append(out, m)
	}
	return out
}

// VTableType returns the class's vtable slot typing, with every slot
// present (including abstract ones) so the emitted vtable Wasm struct type
// has a slot for every virtually-dispatchable method (spec §4.E
// "calculateVtableType").
func (p *Planner) VTableType(className string) ([]*classinfo.FunctionInfo, error) {
	key := vtableCacheKey{className, true}
	if v, ok := p.vtableCache[key]; ok {
		return v, nil
	}
	collected, err := p.collectMethods(className, true)
	if err != nil {
		return nil, err
	}
	v := foldVTable(collected)
	p.vtableCache[key] = v
	return v, nil
}

// VTableInstance returns the class's concrete vtable: every slot bound to a
// non-abstract method, so the emitted vtable global can carry a concrete
// function reference in every slot (spec §4.E "calculateGlobalVTable").
func (p *Planner) VTableInstance(className string) ([]*classinfo.FunctionInfo, error) {
	key := vtableCacheKey{className, false}
	if v, ok := p.vtableCache[key]; ok {
		return v, nil
	}
	slots, err := p.VTableType(className)
	if err != nil {
		return nil, err
	}
	collected, err := p.collectMethods(className, false)
	if err != nil {
		return nil, err
	}
	v := foldVTable(collected)
	concrete := make(map[string]bool, len(v))
	for _, m := range v {
		concrete[m.Name.MethodName] = true
	}
	for _, m := range slots {
		if !concrete[m.Name.MethodName] {
			return nil, fmt.Errorf("%w: %s has no concrete override", ErrMethodNotFound, m.Name)
		}
	}
	p.vtableCache[key] = v
	return v, nil
}

// collectInterfaces gathers implemented interfaces bottom-up, preserving
// duplicates: collectInterfaces(C) = collectInterfaces(super(C)) ++
// flatMap(collectInterfaces(I) for I in C.interfaces) ++ (C itself if C is
// an interface). Duplicates are load-bearing for the last-wins resolution
// in ResolveMethod; do not deduplicate (spec §4.E, §9).
func (p *Planner) collectInterfaces(className string) ([]*classinfo.ClassInfo, error) {
	if cached, ok := p.itablesCache[className]; ok {
		return cached, nil
	}

	ci, err := p.table.Get(className)
	if err != nil {
		return nil, err
	}

	var out []*classinfo.ClassInfo
	if ci.HasSuper {
		superItables, err := p.collectInterfaces(ci.SuperClass)
		if err != nil {
			return nil, err
		}
		out = append(out, superItables...)
	}
	for _, iface := range ci.Interfaces {
		ifaceItables, err := p.collectInterfaces(iface)
		if err != nil {
			return nil, err
		}
		out = append(out, ifaceItables...)
	}
	if ci.IsInterface() {
		out = append(out, ci)
	}

	p.itablesCache[className] = out
	return out, nil
}

// ClassItables is the public entry point for a class's itables vector.
func (p *Planner) ClassItables(className string) ([]*classinfo.ClassInfo, error) {
	return p.collectInterfaces(className)
}

// ResolveMethod finds the itable slot for methodName on className's itables
// vector: scanning from the end for the first interface whose methods
// contain methodName (also scanning that interface's own methods from the
// end). This last-wins policy is the itable-resolution tie-break under
// multiple-interface inheritance (spec §4.E).
func (p *Planner) ResolveMethod(className, methodName string) (itableIdx, methodIdx int, err error) {
	itables, err := p.collectInterfaces(className)
	if err != nil {
		return 0, 0, err
	}
	for i := len(itables) - 1; i >= 0; i-- {
		iface := itables[i]
		for j := len(iface.Methods) - 1; j >= 0; j-- {
			if iface.Methods[j].Name.MethodName == methodName {
				return i, j, nil
			}
		}
	}
	return 0, 0, fmt.Errorf("%w: %s on itables of %s", ErrMethodNotFound, methodName, className)
}

// FieldIndex returns the struct field index for a user field declared on
// ci: user fields begin at slot 2 (slot 0 is the vtable ref, slot 1 is the
// itables ref; spec §4.E "Field indices").
func FieldIndex(ci *classinfo.ClassInfo, name string) (int, error) {
	for i, f := range ci.Fields {
		if f.Name == name {
			return i + 2, nil
		}
	}
	return 0, fmt.Errorf("%w: %s.%s", ErrFieldNotFound, ci.Name, name)
}

// InstanceStructFields returns the two implicit slots (vtable ref, itables
// ref) followed by ci's own fields at their planner-assigned indices,
// ready to become a wasm.StructType's field list.
func InstanceStructFields(ci *classinfo.ClassInfo, vtableTypeName, itablesTypeName wasm.TypeName) []wasm.Field {
	fields := make([]wasm.Field, 0, 2+len(ci.Fields))
	fields = append(fields,
		wasm.Field{Name: "vtable", Type: wasm.Ref(wasm.HeapTypeOf(vtableTypeName)), Mutable: false},
		wasm.Field{Name: "itables", Type: wasm.Ref(wasm.HeapTypeOf(itablesTypeName)), Mutable: false},
	)
	for _, f := range ci.Fields {
		fields = append(fields, wasm.Field{Name: wasm.FieldName(f.Name), Type: f.Type, Mutable: true})
	}
	return fields
}
