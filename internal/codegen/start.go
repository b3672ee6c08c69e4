package codegen

import (
	"fmt"

	"github.com/scala-wasm/backend/internal/ir"
	"github.com/scala-wasm/backend/internal/wasm"
)

// ModuleAccessorFuncName is the generated function that returns a module
// class's (possibly null, pre-initialization) singleton reference. Actual
// instruction selection for these accessors is out of scope (spec §1); the
// name is the convention Complete relies on to wire a module initializer's
// call sequence.
func ModuleAccessorFuncName(className string) wasm.FuncName {
	return wasm.FuncName(className + "$")
}

// MethodFuncName is the generated function backing one class method,
// named className#methodName (the planner's classinfo.FunctionName prints
// as className.methodName and is a separate identity).
func MethodFuncName(className, methodName string) wasm.FuncName {
	return wasm.FuncName(className + "#" + methodName)
}

// Complete assembles the module's start instructions and, if any exist,
// registers a nullary "start" function and sets it as the module's start
// function (spec §4.C "Start-function assembly").
//
// Instructions are composed in two groups, in order:
//  1. For every interned string, in interning order: materialize it from
//     emptyString/charToString/stringConcat and store it into its global.
//  2. For every module initializer: a void-main-method call sequence, or
//     nothing for a main-with-args initializer (accepted but ignored —
//     argv plumbing is not yet supported; spec §9).
//
// If the combined instruction list is empty, no start function is created
// and the module is left without one (spec §8 boundary case).
func (c *Context) Complete(initializers []ir.ModuleInitializer) {
	var instrs []wasm.Instr

	for _, s := range c.internedOrder {
		instrs = append(instrs, c.stringMaterializationInstrs(s)...)
	}

	for _, mi := range initializers {
		if mi.WithArgs {
			continue
		}
		instrs = append(instrs,
			wasm.Instr{Op: wasm.OpCall, Immediates: []wasm.Immediate{
				wasm.ImmFuncIdxVal(ModuleAccessorFuncName(mi.ClassName)),
			}},
			wasm.Instr{Op: wasm.OpRefAsNonNull},
			wasm.Instr{Op: wasm.OpCall, Immediates: []wasm.Immediate{
				wasm.ImmFuncIdxVal(MethodFuncName(mi.ClassName, mi.MethodName)),
			}},
		)
	}

	if len(instrs) == 0 {
		return
	}

	unitType := c.InternSignature(nil, nil)
	startName := wasm.FuncName("start")
	c.Module.Functions = append(c.Module.Functions, &wasm.Function{
		Name: startName,
		Type: unitType,
		Body: instrs,
	})
	c.Module.StartFunction = startName
	c.Module.HasStartFunction = true
}

// stringMaterializationInstrs builds `call emptyString; for each char c of
// s: i32.const c, call charToString, call stringConcat; global.set g` for
// one interned string (spec §4.C step 1, §8 boundary case "zero-length
// string constant produces a global initialized by call emptyString
// followed immediately by global.set").
func (c *Context) stringMaterializationInstrs(s string) []wasm.Instr {
	g, ok := c.stringGlobals[s]
	if !ok {
		panic(fmt.Sprintf("codegen: string %q was never interned", s))
	}

	instrs := []wasm.Instr{
		{Op: wasm.OpCall, Immediates: []wasm.Immediate{wasm.ImmFuncIdxVal(HelperFunc("emptyString"))}},
	}
	for _, ch := range s {
		instrs = append(instrs,
			wasm.Instr{Op: wasm.OpI32Const, Immediates: []wasm.Immediate{wasm.ImmI32Val(int32(ch))}},
			wasm.Instr{Op: wasm.OpCall, Immediates: []wasm.Immediate{wasm.ImmFuncIdxVal(HelperFunc("charToString"))}},
			wasm.Instr{Op: wasm.OpCall, Immediates: []wasm.Immediate{wasm.ImmFuncIdxVal(HelperFunc("stringConcat"))}},
		)
	}
	instrs = append(instrs, wasm.Instr{
		Op:         wasm.OpGlobalSet,
		Immediates: []wasm.Immediate{wasm.ImmGlobalIdxVal(g)},
	})
	return instrs
}
