package binary

import (
	"fmt"

	"github.com/scala-wasm/backend/api"
	"github.com/scala-wasm/backend/internal/wasm"
)

// importSection writes vec(imports, imp): name(module), name(field), desc.
// Only function imports are modeled by this core (spec §4.F item 3, §6).
func importSection(e *encoder) error {
	return vecEncode(e, e.module.Imports, func(e *encoder, imp *wasm.Import) error {
		e.name(imp.Module)
		e.name(imp.Name)
		switch imp.Kind {
		case api.ExternKindFunc:
			e.byte(0x00)
			idx, err := e.module.TypeIndex(imp.Type)
			if err != nil {
				return err
			}
			e.u32(idx)
			return nil
		default:
			return fmt.Errorf("unsupported import kind: %v", imp.Kind)
		}
	})
}

// functionSection writes vec(definedFunctions, f -> typeIdx(f.typ)).
func functionSection(e *encoder) error {
	return vecEncode(e, e.module.Functions, func(e *encoder, f *wasm.Function) error {
		idx, err := e.module.TypeIndex(f.Type)
		if err != nil {
			return err
		}
		e.u32(idx)
		return nil
	})
}

// globalSection writes vec(globals, g -> type, boolean(mutable), expr(g.init)).
func globalSection(e *encoder) error {
	return vecEncode(e, e.module.Globals, func(e *encoder, g *wasm.Global) error {
		if err := writeStorageType(e, g.Type); err != nil {
			return err
		}
		e.boolean(g.Mutable)
		return writeExpr(e, g.Init)
	})
}

// exportSection writes vec(exports, e -> name(e.name), kindByte, idx), where
// kindByte is 0x00 for func and 0x03 for global (spec §4.F item 6).
func exportSection(e *encoder) error {
	return vecEncode(e, e.module.Exports, func(e *encoder, ex *wasm.Export) error {
		e.name(ex.Name)
		switch ex.Kind {
		case api.ExternKindFunc:
			e.byte(0x00)
			idx, ok := e.module.FuncIndex(ex.Func)
			if !ok {
				return fmt.Errorf("exported function not found: %s", ex.Func)
			}
			e.u32(idx)
		case api.ExternKindGlobal:
			e.byte(0x03)
			idx, ok := e.module.GlobalIndex(ex.Global)
			if !ok {
				return fmt.Errorf("exported global not found: %s", ex.Global)
			}
			e.u32(idx)
		default:
			return fmt.Errorf("unsupported export kind: %v", ex.Kind)
		}
		return nil
	})
}

// startSection writes the single funcIdx payload, present only when the
// module declares a start function (spec §4.F item 7, §8 boundary case 3).
func startSection(e *encoder) error {
	if !e.module.HasStartFunction {
		return nil
	}
	idx, ok := e.module.FuncIndex(e.module.StartFunction)
	if !ok {
		return fmt.Errorf("start function not found: %s", e.module.StartFunction)
	}
	e.u32(idx)
	return nil
}

// codeSection writes vec(definedFunctions, f -> byteLengthSubSection(writeFunc)).
func codeSection(e *encoder) error {
	return vecEncode(e, e.module.Functions, func(e *encoder, f *wasm.Function) error {
		return byteLengthSubSection(e, func(e *encoder) error {
			return writeFunc(e, f)
		})
	})
}

// writeFunc writes vec(non-parameter locals, local -> u32(1), type) followed
// by the body expression. Locals are emitted one-by-one (no adjacent-run
// grouping), matching the literal form required by spec §4.F "Function
// body". Parameters are implicit in the function's type and excluded from
// the locals vector.
func writeFunc(e *encoder, f *wasm.Function) error {
	e.fn = f
	if err := vecEncode(e, f.Locals, func(e *encoder, l wasm.LocalDecl) error {
		e.u32(1)
		return writeStorageType(e, l.Type)
	}); err != nil {
		return err
	}
	return writeExpr(e, f.Body)
}
