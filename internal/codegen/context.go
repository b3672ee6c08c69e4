// Package codegen owns the module under construction during the build
// phase: the function-signature interner, the constant-string interner,
// the helper-import catalogue, and start-function assembly (spec §4.C
// "Context"). Context has exclusive ownership of the wasm.Module it wraps;
// the preprocessor and planner never hold a reference to it across the
// closure of their own traversals (spec §9 "Mutual references").
package codegen

import (
	"fmt"

	"github.com/scala-wasm/backend/api"
	"github.com/scala-wasm/backend/internal/wasm"
)

// Context accumulates a wasm.Module during the build phase. It must not be
// read for emission until the build phase has fully completed (spec §5).
type Context struct {
	Module *wasm.Module

	nextFuncTypeIndex int

	stringGlobals map[string]wasm.GlobalName
	internedOrder []string
	nextStringIdx int
}

// NewContext returns a Context with the helper-import catalogue already
// registered (spec §4.C "On context creation, register every helper
// listed in §6").
func NewContext() *Context {
	c := &Context{
		Module:        wasm.NewModule(),
		stringGlobals: make(map[string]wasm.GlobalName),
		nextStringIdx: 1,
	}
	c.registerHelpers()
	return c
}

func (c *Context) registerHelpers() {
	for _, h := range helperCatalogue() {
		sigName := c.InternSignature(h.Params, h.Results)
		c.Module.Imports = append(c.Module.Imports, &wasm.Import{
			Module: h.Module,
			Name:   h.Name,
			Kind:   api.ExternKindFunc,
			Type:   sigName,
		})
	}
}

// HelperFunc returns the FuncName used to call the helper registered under
// name (its import field name), for use as a FuncIdx immediate target.
// Helper field names are unique by construction (see helperCatalogue), so
// the bare name doubles as the func-index lookup key (spec §4.A).
func HelperFunc(name string) wasm.FuncName { return wasm.FuncName(name) }

// InternSignature returns the existing FunctionType name if an equal
// (params, results) pair was interned before, else registers a fresh one
// and returns its newly assigned name (spec §4.C "Function-signature
// interner"). Interning is a function: equal signatures always yield the
// same name (spec §8 invariant 7).
func (c *Context) InternSignature(params, results []wasm.StorageType) wasm.TypeName {
	for _, ft := range c.Module.FunctionTypes {
		if ft.Equal(params, results) {
			return ft.Name
		}
	}
	name := wasm.TypeName(fmt.Sprintf("$functype.%d", c.nextFuncTypeIndex))
	c.nextFuncTypeIndex++
	c.Module.FunctionTypes = append(c.Module.FunctionTypes, &wasm.FunctionType{
		Name:    name,
		Params:  params,
		Results: results,
	})
	return name
}

// InternString returns the GlobalName backing constant string s, allocating
// a fresh mutable global on first encounter. The global's declared type is
// a non-null `ref any`; its initializer is the placeholder constant
// expression `i31.new (i32.const 0)`, legal and type-compatible with
// `ref any` but not the true value — the true value is assembled into the
// start function by Complete (spec §4.C "Constant-string interner").
func (c *Context) InternString(s string) wasm.GlobalName {
	if g, ok := c.stringGlobals[s]; ok {
		return g
	}
	name := wasm.GlobalName(fmt.Sprintf("$string.%d", c.nextStringIdx))
	c.nextStringIdx++
	c.stringGlobals[s] = name
	c.internedOrder = append(c.internedOrder, s)

	c.Module.Globals = append(c.Module.Globals, &wasm.Global{
		Name:    name,
		Type:    wasm.Ref(wasm.HeapTypeSimple(wasm.HeapAny)),
		Mutable: true,
		Init: []wasm.Instr{
			{Op: wasm.OpI32Const, Immediates: []wasm.Immediate{wasm.ImmI32Val(0)}},
			{Op: wasm.OpI31New},
		},
	})
	return name
}
