package classinfo

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTable_addAndGet(t *testing.T) {
	table := NewTable()
	table.Add(&ClassInfo{Name: "A"})
	table.Add(&ClassInfo{Name: "B"})

	ci, err := table.Get("A")
	require.NoError(t, err)
	require.Equal(t, "A", ci.Name)

	_, err = table.Get("Missing")
	require.ErrorIs(t, err, ErrClassNotFound)
}

func TestTable_insertionOrderPreservedOnReAdd(t *testing.T) {
	table := NewTable()
	table.Add(&ClassInfo{Name: "A"})
	table.Add(&ClassInfo{Name: "B"})
	table.Add(&ClassInfo{Name: "A", Kind: 0, SuperClass: "B", HasSuper: true})

	all := table.All()
	require.Len(t, all, 2)
	require.Equal(t, "A", all[0].Name)
	require.Equal(t, "B", all[1].Name)
	require.True(t, all[0].HasSuper)
}

func TestClassInfo_methodByNameAndIsInterface(t *testing.T) {
	ci := &ClassInfo{
		Name:    "C",
		Methods: []*FunctionInfo{{Name: FunctionName{ClassName: "C", MethodName: "foo"}}},
	}
	require.NotNil(t, ci.MethodByName("foo"))
	require.Nil(t, ci.MethodByName("bar"))
	require.False(t, ci.IsInterface())
}
