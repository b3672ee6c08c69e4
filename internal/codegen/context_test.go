package codegen

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/scala-wasm/backend/internal/ir"
	"github.com/scala-wasm/backend/internal/wasm"
)

func TestNewContext_registersHelperCatalogue(t *testing.T) {
	c := NewContext()
	require.NotEmpty(t, c.Module.Imports)

	seen := map[string]bool{}
	for _, imp := range c.Module.Imports {
		require.False(t, seen[imp.Name], "duplicate helper field name %q", imp.Name)
		seen[imp.Name] = true
	}
	require.True(t, seen["is"])
	require.True(t, seen["box_Boolean"])
	require.True(t, seen["unboxOrNull_Double"])
	require.True(t, seen["stringConcat"])
	require.True(t, seen["jsNewArray"])
	require.True(t, seen["binaryOp_strictEq"])
}

func TestInternSignature_reusesEqualSignatures(t *testing.T) {
	c := NewContext()
	before := len(c.Module.FunctionTypes)

	n1 := c.InternSignature([]wasm.StorageType{wasm.I32()}, []wasm.StorageType{wasm.I32()})
	n2 := c.InternSignature([]wasm.StorageType{wasm.I32()}, []wasm.StorageType{wasm.I32()})
	require.Equal(t, n1, n2)
	require.Len(t, c.Module.FunctionTypes, before+1)

	n3 := c.InternSignature([]wasm.StorageType{wasm.I64()}, []wasm.StorageType{wasm.I32()})
	require.NotEqual(t, n1, n3)
	require.Len(t, c.Module.FunctionTypes, before+2)
}

func TestInternString_memoizesAndPlaceholders(t *testing.T) {
	c := NewContext()
	g1 := c.InternString("hi")
	g2 := c.InternString("hi")
	require.Equal(t, g1, g2)

	var global *wasm.Global
	for _, g := range c.Module.Globals {
		if g.Name == g1 {
			global = g
		}
	}
	require.NotNil(t, global)
	require.True(t, global.Mutable)
	require.Equal(t, wasm.KindRef, global.Type.Kind)
	require.Equal(t, wasm.HeapAny, global.Type.Heap.Simple)
	require.Len(t, global.Init, 2)
	require.Equal(t, wasm.OpI32Const, global.Init[0].Op)
	require.Equal(t, wasm.OpI31New, global.Init[1].Op)
}

func TestComplete_emptyInputProducesNoStartFunction(t *testing.T) {
	c := NewContext()
	c.Complete(nil)
	require.False(t, c.Module.HasStartFunction)
}

func TestComplete_stringAndVoidMainMethod(t *testing.T) {
	c := NewContext()
	c.InternString("") // zero-length: expect emptyString then immediate global.set
	c.InternString("ab")

	c.Complete([]ir.ModuleInitializer{
		{ClassName: "Main", MethodName: "main"},
		{ClassName: "Main", MethodName: "main", WithArgs: true, Args: []string{"x"}},
	})

	require.True(t, c.Module.HasStartFunction)
	var start *wasm.Function
	for _, f := range c.Module.Functions {
		if f.Name == c.Module.StartFunction {
			start = f
		}
	}
	require.NotNil(t, start)

	// Zero-length string: call emptyString immediately followed by global.set.
	require.Equal(t, wasm.OpCall, start.Body[0].Op)
	require.Equal(t, wasm.OpGlobalSet, start.Body[1].Op)

	// The with-args initializer contributes nothing; only one void-main
	// sequence (call, ref.as_non_null, call) should appear at the tail.
	tail := start.Body[len(start.Body)-3:]
	require.Equal(t, wasm.OpCall, tail[0].Op)
	require.Equal(t, wasm.OpRefAsNonNull, tail[1].Op)
	require.Equal(t, wasm.OpCall, tail[2].Op)
	require.Equal(t, MethodFuncName("Main", "main"), tail[2].Immediates[0].FuncIdx)
}
