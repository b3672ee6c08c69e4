package preprocess

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/scala-wasm/backend/internal/ir"
)

func classType(name string) ir.TypeRef { return ir.TypeRef{ClassName: name} }

func intType() ir.TypeRef { return ir.TypeRef{IsPrimitive: true, Primitive: ir.PrimInt} }

func TestBuild_excludesConstructors(t *testing.T) {
	classes := []ir.LinkedClass{
		{
			Name: "A",
			Methods: []ir.MethodDef{
				{Namespace: ir.ConstructorNamespace, Name: "<init>"},
				{Name: "foo", ResultType: intType()},
			},
		},
	}
	table := Build(classes)
	ci, err := table.Get("A")
	require.NoError(t, err)
	require.Len(t, ci.Methods, 1)
	require.Equal(t, "foo", ci.Methods[0].Name.MethodName)
}

func TestRecoverAbstractMethods_reinstatesErasedSlot(t *testing.T) {
	// abstract class C { def c() }
	// class B extends C { override def c() = ...; def b() }
	// class A extends B { def a() = this.asInstanceOf[C].c() }
	//
	// The linker has dropped C's declaration of c (only B's override
	// survives); Pass 2 must recover it from A's call site.
	classes := []ir.LinkedClass{
		{
			Name: "C",
			Kind: ir.KindAbstractClass,
		},
		{
			Name:       "B",
			SuperClass: "C",
			HasSuper:   true,
			Methods: []ir.MethodDef{
				{Name: "c", Body: &ir.Tree{}},
				{Name: "b", Body: &ir.Tree{}},
			},
		},
		{
			Name:       "A",
			SuperClass: "B",
			HasSuper:   true,
			Methods: []ir.MethodDef{
				{
					Name: "a",
					Body: &ir.Tree{
						Apply: &ir.Apply{Receiver: classType("C"), MethodName: "c"},
					},
				},
			},
		},
	}

	table := Build(classes)
	require.NoError(t, RecoverAbstractMethods(table, classes))

	c, err := table.Get("C")
	require.NoError(t, err)
	require.Len(t, c.Methods, 1)
	require.Equal(t, "c", c.Methods[0].Name.MethodName)
	require.True(t, c.Methods[0].IsAbstract)
}

func TestRecoverAbstractMethods_idempotent(t *testing.T) {
	classes := []ir.LinkedClass{
		{Name: "C", Kind: ir.KindAbstractClass},
		{
			Name:       "A",
			SuperClass: "C",
			HasSuper:   true,
			Methods: []ir.MethodDef{
				{
					Name: "a",
					Body: &ir.Tree{
						Apply: &ir.Apply{Receiver: classType("C"), MethodName: "c"},
					},
				},
			},
		},
	}

	table := Build(classes)
	require.NoError(t, RecoverAbstractMethods(table, classes))
	c, _ := table.Get("C")
	first := len(c.Methods)

	require.NoError(t, RecoverAbstractMethods(table, classes))
	require.Len(t, c.Methods, first)
}

func TestRecoverAbstractMethods_ignoresNonClassReceivers(t *testing.T) {
	classes := []ir.LinkedClass{
		{
			Name: "A",
			Methods: []ir.MethodDef{
				{
					Name: "a",
					Body: &ir.Tree{
						Apply: &ir.Apply{Receiver: ir.TypeRef{ObjectClass: true}, MethodName: "toString"},
					},
				},
			},
		},
	}
	table := Build(classes)
	require.NoError(t, RecoverAbstractMethods(table, classes))
	// No panic, no phantom class created.
	_, err := table.Get("java.lang.Object")
	require.Error(t, err)
}

func TestInferType(t *testing.T) {
	require.Equal(t, "i32", describeStorageType(InferType(intType())))
	require.Equal(t, "anyref", describeStorageType(InferType(ir.TypeRef{ObjectClass: true})))
}
