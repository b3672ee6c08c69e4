package binary

import (
	"fmt"

	"github.com/scala-wasm/backend/internal/wasm"
)

// ErrLabelOutOfScope is returned when a LabelIdx immediate does not match
// any enclosing structured opener (spec §7).
var ErrLabelOutOfScope = fmt.Errorf("label out of scope")

// ErrLocalsUnavailable is returned when a LocalIdx immediate is emitted
// outside any function-body frame (spec §7).
var ErrLocalsUnavailable = fmt.Errorf("locals unavailable outside function body")

// ErrUnsupportedImmediate is returned for LabelIdxVector, TableIdx, and
// TagIdx immediates, which this core declares but does not implement
// (spec §4.F, §7, §9).
var ErrUnsupportedImmediate = fmt.Errorf("unsupported immediate")

// writeExpr emits each instruction in body, resolving labels and locals
// against e's current frame, then appends the 0x0B expression terminator.
// It fails if the scope stack is not empty when a structured opener's
// matching END is missing, or (by construction, since every push is
// matched one-for-one with a pop) leaves it empty on success
// (spec §4.F "Label resolution", invariant 5).
func writeExpr(e *encoder, body []wasm.Instr) error {
	for _, instr := range body {
		if err := writeInstr(e, instr); err != nil {
			return err
		}
	}
	if len(e.scope) != 0 {
		return fmt.Errorf("%w: %d structured opener(s) never closed", ErrLabelOutOfScope, len(e.scope))
	}
	e.byte(byte(wasm.OpEnd))
	return nil
}

func writeInstr(e *encoder, instr wasm.Instr) error {
	op, err := instr.Op.Encode()
	if err != nil {
		return err
	}
	e.bytes(op)

	for _, imm := range instr.Immediates {
		if err := writeImmediate(e, imm); err != nil {
			return err
		}
	}

	if instr.Opens {
		e.scope = append(e.scope, instr.Label)
	}
	if instr.IsEnd {
		if len(e.scope) == 0 {
			return fmt.Errorf("%w: unmatched end instruction", ErrLabelOutOfScope)
		}
		e.scope = e.scope[:len(e.scope)-1]
	}
	return nil
}

func writeImmediate(e *encoder, imm wasm.Immediate) error {
	switch imm.Kind {
	case wasm.ImmI32:
		e.i32(imm.I32)
	case wasm.ImmI64:
		e.i64(imm.I64)
	case wasm.ImmF32:
		e.f32(imm.F32)
	case wasm.ImmF64:
		e.f64(imm.F64)
	case wasm.ImmMemArg:
		e.u32(imm.Mem.Offset)
		e.u32(imm.Mem.Align)
	case wasm.ImmBlockType:
		return writeBlockType(e, imm.Block)
	case wasm.ImmFuncIdx:
		idx, ok := e.module.FuncIndex(imm.FuncIdx)
		if !ok {
			return fmt.Errorf("function not found: %s", imm.FuncIdx)
		}
		e.u32(idx)
	case wasm.ImmLabelIdx:
		depth, err := resolveLabel(e.scope, imm.LabelIdx)
		if err != nil {
			return err
		}
		e.u32(depth)
	case wasm.ImmTypeIdx:
		idx, err := e.module.TypeIndex(imm.TypeIdx)
		if err != nil {
			return err
		}
		e.u32(idx)
	case wasm.ImmLocalIdx:
		if e.fn == nil {
			return ErrLocalsUnavailable
		}
		idx, ok := e.fn.LocalIndex(imm.LocalIdx)
		if !ok {
			return fmt.Errorf("%w: %s", ErrLocalsUnavailable, imm.LocalIdx)
		}
		e.u32(uint32(idx))
	case wasm.ImmGlobalIdx:
		idx, ok := e.module.GlobalIndex(imm.GlobalIdx)
		if !ok {
			return fmt.Errorf("global not found: %s", imm.GlobalIdx)
		}
		e.u32(idx)
	case wasm.ImmStructFieldIdx:
		st, ok := e.module.FindStructType(imm.Field.Struct)
		if !ok {
			return fmt.Errorf("struct type not found: %s", imm.Field.Struct)
		}
		fieldIdx, ok := st.FieldIndex(imm.Field.Field)
		if !ok {
			return fmt.Errorf("field not found: %s.%s", imm.Field.Struct, imm.Field.Field)
		}
		e.u32(uint32(fieldIdx))
	case wasm.ImmHeapType:
		return writeHeapType(e, imm.Heap)
	case wasm.ImmCastFlags:
		var b byte
		if imm.Cast.Nullable1 {
			b |= 0x01
		}
		if imm.Cast.Nullable2 {
			b |= 0x02
		}
		e.byte(b)
	case wasm.ImmLabelIdxVector, wasm.ImmTableIdx, wasm.ImmTagIdx:
		return ErrUnsupportedImmediate
	default:
		return fmt.Errorf("unreachable immediate kind")
	}
	return nil
}

// resolveLabel finds the relative depth of the nearest enclosing frame in
// scope whose identity equals requested, searching from the most-recently
// opened frame. Frames opened with no label still occupy a depth slot but
// can never match, since they carry no identity to compare against
// (spec §4.F "Label resolution").
func resolveLabel(scope []*wasm.LabelID, requested wasm.LabelID) (uint32, error) {
	for i := len(scope) - 1; i >= 0; i-- {
		if scope[i] != nil && *scope[i] == requested {
			return uint32(len(scope) - 1 - i), nil
		}
	}
	return 0, fmt.Errorf("%w: %d", ErrLabelOutOfScope, requested)
}
