package wasm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewModule_includesBuiltinItablesArray(t *testing.T) {
	m := NewModule()
	require.Len(t, m.ArrayTypes, 1)
	require.Equal(t, ItablesArrayName(), m.ArrayTypes[0].Name)
	require.Equal(t, Ref(HeapTypeSimple(HeapStruct)), m.ArrayTypes[0].Element)
	require.False(t, m.ArrayTypes[0].Mutable)
}

func TestRecGroupTypes_topologicalOrder(t *testing.T) {
	m := NewModule()
	m.StructTypes = []*StructType{
		{Name: "C", SuperType: "B", HasSuper: true},
		{Name: "A"},
		{Name: "B", SuperType: "A", HasSuper: true},
	}
	order, err := m.RecGroupTypes()
	require.NoError(t, err)

	index := func(n TypeName) int {
		for i, o := range order {
			if o == n {
				return i
			}
		}
		return -1
	}
	require.Less(t, index("A"), index("B"))
	require.Less(t, index("B"), index("C"))
	// Array types (just the builtin here) follow the structs.
	require.Equal(t, ItablesArrayName(), order[len(order)-1])
}

func TestRecGroupTypes_cyclicSubtype(t *testing.T) {
	m := NewModule()
	m.StructTypes = []*StructType{
		{Name: "A", SuperType: "B", HasSuper: true},
		{Name: "B", SuperType: "A", HasSuper: true},
	}
	_, err := m.RecGroupTypes()
	require.ErrorIs(t, err, ErrCyclicSubtype)
}

func TestRecGroupTypes_idempotentOnSortedInput(t *testing.T) {
	m := NewModule()
	m.StructTypes = []*StructType{{Name: "A"}, {Name: "B", SuperType: "A", HasSuper: true}}
	first, err := m.RecGroupTypes()
	require.NoError(t, err)

	m2 := NewModule()
	for _, name := range first {
		if name == ItablesArrayName() {
			continue
		}
		st, _ := m.FindStructType(name)
		m2.StructTypes = append(m2.StructTypes, st)
	}
	second, err := m2.RecGroupTypes()
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestFuncIndex_importsThenDefined(t *testing.T) {
	m := NewModule()
	m.Imports = []*Import{{Module: "Runtime$", Name: "emptyString"}}
	m.Functions = []*Function{{Name: "start"}}

	idx, ok := m.FuncIndex("emptyString")
	require.True(t, ok)
	require.EqualValues(t, 0, idx)

	idx, ok = m.FuncIndex("start")
	require.True(t, ok)
	require.EqualValues(t, 1, idx)
}

func TestGlobalIndex_declarationOrder(t *testing.T) {
	m := NewModule()
	m.Globals = []*Global{{Name: "g0"}, {Name: "g1"}}
	idx, ok := m.GlobalIndex("g1")
	require.True(t, ok)
	require.EqualValues(t, 1, idx)
}
