// Package classinfo holds the preprocessed class data model described in
// spec §3: ClassInfo, FunctionInfo, FieldInfo, built once by
// internal/preprocess and read thereafter by internal/planner and
// internal/codegen. Class infos are held by a Table that
// internal/preprocess returns to its caller; internal/codegen's Context
// does not hold or read them. They may only be mutated by the
// abstract-method recovery pass, append-only.
package classinfo

import (
	"fmt"

	"github.com/scala-wasm/backend/internal/ir"
	"github.com/scala-wasm/backend/internal/wasm"
)

// FunctionName identifies a method by its declaring class and its own name.
type FunctionName struct {
	ClassName  string
	MethodName string
}

func (n FunctionName) String() string {
	return n.ClassName + "." + n.MethodName
}

// FunctionInfo is a method signature, with isAbstract tracking whether it
// has a body (including synthesized abstract slots from Pass 2).
type FunctionInfo struct {
	Name     FunctionName
	ArgTypes []wasm.StorageType
	// ResultTypes is empty for a void method, else a single-element slice;
	// modeled as a slice since that is what FunctionType.Results expects.
	ResultTypes []wasm.StorageType
	IsAbstract  bool
}

// FieldInfo is a field name paired with its lowered Wasm storage type.
type FieldInfo struct {
	Name string
	Type wasm.StorageType
}

// ClassInfo is the preprocessed per-class record described in spec §3.
// Methods is ordered by source appearance; entries appended by the
// abstract-method recovery pass preserve that ordering stability.
type ClassInfo struct {
	Name       string
	Kind       ir.ClassKind
	Methods    []*FunctionInfo
	Fields     []FieldInfo
	SuperClass string
	HasSuper   bool
	Interfaces []string
	Ancestors  []string

	JSNativeLoadSpec *ir.JSNativeLoadSpec
	JSNativeMembers  map[string]ir.JSNativeMemberSpec
}

// IsInterface reports whether this class is an interface, which matters to
// the itable planner's collectInterfaces rule (spec §4.E).
func (c *ClassInfo) IsInterface() bool {
	return c.Kind == ir.KindInterface
}

// MethodByName returns the method named m declared directly on this class,
// or nil if c does not declare (or has not yet recovered) one.
func (c *ClassInfo) MethodByName(m string) *FunctionInfo {
	for _, f := range c.Methods {
		if f.Name.MethodName == m {
			return f
		}
	}
	return nil
}

// Table is the owning collection of ClassInfo, keyed by class name. It is
// built once by internal/preprocess and frozen before the planner reads
// from it (see spec §5 concurrency model: single build phase, then
// read-only).
type Table struct {
	byName map[string]*ClassInfo
	order  []string
}

// NewTable returns an empty class-info table.
func NewTable() *Table {
	return &Table{byName: make(map[string]*ClassInfo)}
}

// Add registers ci in the table. Add is called exactly once per class by
// Pass 1 of the preprocessor.
func (t *Table) Add(ci *ClassInfo) {
	if _, exists := t.byName[ci.Name]; !exists {
		t.order = append(t.order, ci.Name)
	}
	t.byName[ci.Name] = ci
}

// ErrClassNotFound is returned when a class lookup fails; a malformed or
// internally inconsistent input (spec §7).
var ErrClassNotFound = fmt.Errorf("class not found")

// Get looks up a ClassInfo by name, failing with ErrClassNotFound if the
// input never declared it.
func (t *Table) Get(name string) (*ClassInfo, error) {
	ci, ok := t.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrClassNotFound, name)
	}
	return ci, nil
}

// All returns every ClassInfo in declaration order.
func (t *Table) All() []*ClassInfo {
	out := make([]*ClassInfo, 0, len(t.order))
	for _, name := range t.order {
		out = append(out, t.byName[name])
	}
	return out
}
