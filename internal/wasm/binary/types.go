package binary

import (
	"fmt"

	"github.com/scala-wasm/backend/api"
	"github.com/scala-wasm/backend/internal/wasm"
)

// writeHeapType encodes a HeapType: a single byte for a simple kind, or an
// s33-encoded type index otherwise (spec §4.F immediate table).
func writeHeapType(e *encoder, h wasm.HeapType) error {
	switch h.Kind {
	case wasm.HeapKindSimple:
		e.byte(h.Simple.Code())
		return nil
	case wasm.HeapKindTypeIndex:
		idx, err := e.module.TypeIndex(h.TypeIndex)
		if err != nil {
			return err
		}
		e.s33OfUInt(idx)
		return nil
	case wasm.HeapKindFuncIndex:
		idx, ok := e.module.FuncIndex(h.FuncIndex)
		if !ok {
			return fmt.Errorf("function not found for heap type: %s", h.FuncIndex)
		}
		e.s33OfUInt(idx)
		return nil
	}
	return fmt.Errorf("unreachable heap type kind")
}

// writeStorageType encodes the value-type discriminator byte, followed by a
// heap type for ref/refNull (spec §4.F "Type-byte encoding").
func writeStorageType(e *encoder, t wasm.StorageType) error {
	switch t.Kind {
	case wasm.KindI32:
		e.byte(api.ValueTypeI32)
	case wasm.KindI64:
		e.byte(api.ValueTypeI64)
	case wasm.KindF32:
		e.byte(api.ValueTypeF32)
	case wasm.KindF64:
		e.byte(api.ValueTypeF64)
	case wasm.KindAnyref:
		e.byte(api.ValueTypeAnyref)
	case wasm.KindRef:
		e.byte(api.ValueTypeRef)
		return writeHeapType(e, t.Heap)
	case wasm.KindRefNull:
		e.byte(api.ValueTypeRefNull)
		return writeHeapType(e, t.Heap)
	default:
		return fmt.Errorf("unreachable storage type kind")
	}
	return nil
}

// writeBlockType encodes a BlockType: 0x40 for none, a value-type byte
// (possibly followed by a heap type) for a single result, or an s33 type
// index for a full function signature (spec §4.F).
func writeBlockType(e *encoder, b wasm.BlockType) error {
	switch b.Kind {
	case wasm.BlockTypeNone:
		e.byte(api.BlockTypeEmptyByte)
		return nil
	case wasm.BlockTypeValue:
		return writeStorageType(e, b.Value)
	case wasm.BlockTypeFunc:
		idx, err := e.module.TypeIndex(b.Func)
		if err != nil {
			return err
		}
		e.s33OfUInt(idx)
		return nil
	}
	return fmt.Errorf("unreachable block type kind")
}

// writeFieldType encodes a (storage type, mutable) pair, used for array
// element types and struct fields.
func writeFieldType(e *encoder, t wasm.StorageType, mutable bool) error {
	if err := writeStorageType(e, t); err != nil {
		return err
	}
	e.boolean(mutable)
	return nil
}

// typeSection writes the single rectype wrapper (spec §4.F item 2): one
// u32(1) group count, the 0x4E rectype tag, a u32 subtype count, then each
// subtype in TypeIndex order (module.AllTypeNames): struct types (0x50 sub
// + opt super + 0x5F + fields), array types (0x5E + field type), function
// types (0x60 + params + results).
func typeSection(e *encoder) error {
	names, err := e.module.AllTypeNames()
	if err != nil {
		return err
	}
	if len(names) == 0 {
		return nil
	}

	e.u32(1)
	e.byte(api.RecGroupTag)
	e.u32(uint32(len(names)))

	for _, n := range names {
		if st, ok := e.module.FindStructType(n); ok {
			e.byte(api.SubtypeTagSub)
			if err := optEncode(e, st.HasSuper, func(e *encoder) error {
				idx, err := e.module.TypeIndex(st.SuperType)
				if err != nil {
					return err
				}
				e.u32(idx)
				return nil
			}); err != nil {
				return err
			}
			e.byte(api.SubtypeTagStruct)
			if err := vecEncode(e, st.Fields, func(e *encoder, f wasm.Field) error {
				return writeFieldType(e, f.Type, f.Mutable)
			}); err != nil {
				return err
			}
			continue
		}
		if at := findArrayType(e.module, n); at != nil {
			e.byte(api.SubtypeTagArray)
			if err := writeFieldType(e, at.Element, at.Mutable); err != nil {
				return err
			}
			continue
		}
		ft, ok := e.module.FindFunctionType(n)
		if !ok {
			return fmt.Errorf("type definition not found: %s", n)
		}
		e.byte(api.SubtypeTagFunc)
		if err := vecEncode(e, ft.Params, writeStorageType); err != nil {
			return err
		}
		if err := vecEncode(e, ft.Results, writeStorageType); err != nil {
			return err
		}
	}
	return nil
}

func findArrayType(m *wasm.Module, n wasm.TypeName) *wasm.ArrayType {
	for _, at := range m.ArrayTypes {
		if at.Name == n {
			return at
		}
	}
	return nil
}
