// Package preprocess implements the two-pass class-hierarchy preprocessor
// of spec §4.D: Pass 1 builds a ClassInfo per linked class; Pass 2 walks
// method bodies and exported member trees to reinstate abstract method
// slots the upstream linker erased.
package preprocess

import (
	"fmt"

	"github.com/scala-wasm/backend/internal/classinfo"
	"github.com/scala-wasm/backend/internal/ir"
	"github.com/scala-wasm/backend/internal/wasm"
)

// Build runs Pass 1 over classes, returning a frozen-shape (but not yet
// abstract-method-complete) Table. Call RecoverAbstractMethods next.
func Build(classes []ir.LinkedClass) *classinfo.Table {
	table := classinfo.NewTable()
	for i := range classes {
		c := &classes[i]
		ci := &classinfo.ClassInfo{
			Name:             c.Name,
			Kind:             c.Kind,
			SuperClass:       c.SuperClass,
			HasSuper:         c.HasSuper,
			Interfaces:       c.Interfaces,
			Ancestors:        c.Ancestors,
			JSNativeLoadSpec: c.JSNativeLoadSpec,
			JSNativeMembers:  c.JSNativeMembers,
		}
		for _, m := range c.Methods {
			if m.IsConstructor() {
				continue
			}
			ci.Methods = append(ci.Methods, methodDefToFunctionInfo(c.Name, m))
		}
		for _, f := range c.Fields {
			ci.Fields = append(ci.Fields, classinfo.FieldInfo{
				Name: f.Name,
				Type: InferType(f.Type),
			})
		}
		table.Add(ci)
	}
	return table
}

func methodDefToFunctionInfo(className string, m ir.MethodDef) *classinfo.FunctionInfo {
	args := make([]wasm.StorageType, len(m.Args))
	for i, p := range m.Args {
		args[i] = InferType(p.Type)
	}
	return &classinfo.FunctionInfo{
		Name:        classinfo.FunctionName{ClassName: className, MethodName: m.Name},
		ArgTypes:    args,
		ResultTypes: resultTypes(m.ResultType),
		IsAbstract:  m.Body == nil,
	}
}

func resultTypes(t ir.TypeRef) []wasm.StorageType {
	if t.IsPrimitive && t.Primitive == ir.PrimVoid {
		return nil
	}
	return []wasm.StorageType{InferType(t)}
}

// InferType lowers a linker TypeRef to a Wasm StorageType (spec §4.D "Type
// inference from TypeRef"): primitive refs map to their primitive types;
// ObjectClass maps to any; other class refs map to their class type; array
// refs map to their array type.
func InferType(t ir.TypeRef) wasm.StorageType {
	if t.IsPrimitive {
		switch t.Primitive {
		case ir.PrimBoolean, ir.PrimByte, ir.PrimShort, ir.PrimInt, ir.PrimChar:
			return wasm.I32()
		case ir.PrimLong:
			return wasm.I64()
		case ir.PrimFloat:
			return wasm.F32()
		case ir.PrimDouble:
			return wasm.F64()
		case ir.PrimVoid:
			return wasm.I32() // never read: callers must special-case void via resultTypes
		}
	}
	if t.ObjectClass {
		return wasm.Anyref()
	}
	if t.ArrayOf != nil {
		elem := InferType(*t.ArrayOf)
		return wasm.RefNull(wasm.HeapTypeOf(ArrayTypeName(elem)))
	}
	return wasm.RefNull(wasm.HeapTypeOf(wasm.TypeName(t.ClassName)))
}

// ArrayTypeName deterministically names the GC array type with element
// storage type elem, so that two array TypeRefs with the same element type
// are lowered to the same array type declaration.
func ArrayTypeName(elem wasm.StorageType) wasm.TypeName {
	return wasm.TypeName(fmt.Sprintf("Array<%s>", describeStorageType(elem)))
}

func describeStorageType(t wasm.StorageType) string {
	switch t.Kind {
	case wasm.KindI32:
		return "i32"
	case wasm.KindI64:
		return "i64"
	case wasm.KindF32:
		return "f32"
	case wasm.KindF64:
		return "f64"
	case wasm.KindAnyref:
		return "anyref"
	default:
		switch t.Heap.Kind {
		case wasm.HeapKindTypeIndex:
			return string(t.Heap.TypeIndex)
		case wasm.HeapKindFuncIndex:
			return string(t.Heap.FuncIndex)
		default:
			return fmt.Sprintf("heap%d", t.Heap.Simple)
		}
	}
}

// RecoverAbstractMethods is Pass 2 (spec §4.D): for every Apply node found
// while walking each class's method bodies and exported member trees, if
// the receiver's static type is ClassType(C) and C does not already
// declare the called method, append a synthetic abstract FunctionInfo to
// C. Running this pass twice is idempotent (it only appends when a method
// name is absent, and the first run already added it).
func RecoverAbstractMethods(table *classinfo.Table, classes []ir.LinkedClass) error {
	for i := range classes {
		c := &classes[i]
		for _, m := range c.Methods {
			if m.Body != nil {
				if err := walkTree(table, m.Body); err != nil {
					return err
				}
			}
		}
		for _, tree := range c.ExportedMembers {
			if err := walkTree(table, tree); err != nil {
				return err
			}
		}
	}
	return nil
}

func walkTree(table *classinfo.Table, t *ir.Tree) error {
	if t == nil {
		return nil
	}
	if t.Apply != nil {
		if err := recoverFromApply(table, t.Apply); err != nil {
			return err
		}
	}
	for _, child := range t.Children {
		if err := walkTree(table, child); err != nil {
			return err
		}
	}
	return nil
}

func recoverFromApply(table *classinfo.Table, apply *ir.Apply) error {
	recv := apply.Receiver
	if recv.IsPrimitive || recv.ObjectClass || recv.ArrayOf != nil || recv.ClassName == "" {
		return nil // only ClassType(C) receivers trigger recovery (spec §4.D)
	}
	ci, err := table.Get(recv.ClassName)
	if err != nil {
		return fmt.Errorf("abstract-method recovery: %w", err)
	}
	if ci.MethodByName(apply.MethodName) != nil {
		return nil // already declared (directly or from a prior recovery run)
	}

	args := make([]wasm.StorageType, len(apply.Args))
	for i, a := range apply.Args {
		args[i] = InferType(a)
	}
	var results []wasm.StorageType
	if apply.HasArgsTypes && !(apply.ArgsResult.IsPrimitive && apply.ArgsResult.Primitive == ir.PrimVoid) {
		results = []wasm.StorageType{InferType(apply.ArgsResult)}
	}

	ci.Methods = append(ci.Methods, &classinfo.FunctionInfo{
		Name:        classinfo.FunctionName{ClassName: ci.Name, MethodName: apply.MethodName},
		ArgTypes:    args,
		ResultTypes: results,
		IsAbstract:  true,
	})
	return nil
}
