package binary

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/scala-wasm/backend/internal/leb128"
	"github.com/scala-wasm/backend/internal/wasm"
)

func TestEncode_emptyModule(t *testing.T) {
	m := wasm.NewModule()

	out, err := Encode(m)
	require.NoError(t, err)

	require.Equal(t, []byte{0x00, 0x61, 0x73, 0x6D, 0x01, 0x00, 0x00, 0x00}, out[:8])

	// Type section: id 0x01, length byte, group count 1, rectype tag 0x4E,
	// subtype count 1, array tag 0x5E, non-null-ref-to-struct element,
	// non-mutable (spec §8 scenario 2).
	rest := out[8:]
	require.Equal(t, byte(0x01), rest[0])
	length, n, err := leb128.LoadUint32(rest[1:])
	require.NoError(t, err)
	body := rest[1+int(n) : 1+int(n)+int(length)]

	require.Equal(t, []byte{
		1,    // group count
		0x4E, // rectype tag
		1,    // subtype count
		0x5E, // array tag
		0x64, // non-null ref discriminator for the element storage type
		0x6B, // simple heap-type byte: struct
		0x00, // not mutable
	}, body)

	// Nothing follows the type section: no imports, functions, globals,
	// exports, start, or code, so every later section is omitted.
	require.Len(t, out, 8+1+int(n)+int(length))
}

func TestEncode_singleConcreteMethodWithStartFunction(t *testing.T) {
	m := wasm.NewModule()

	intResultType := wasm.TypeName("()->i32")
	unitType := wasm.TypeName("()->()")
	m.FunctionTypes = append(m.FunctionTypes,
		&wasm.FunctionType{Name: intResultType, Results: []wasm.StorageType{wasm.I32()}},
		&wasm.FunctionType{Name: unitType},
	)

	m.Functions = append(m.Functions,
		&wasm.Function{
			Name: "A#foo",
			Type: intResultType,
			Body: []wasm.Instr{
				{Op: 0x41, Immediates: []wasm.Immediate{wasm.ImmI32Val(42)}}, // i32.const 42
			},
		},
		&wasm.Function{
			Name: "start",
			Type: unitType,
			Body: []wasm.Instr{
				{Op: 0x10, Immediates: []wasm.Immediate{wasm.ImmFuncIdxVal("A#foo")}}, // call
				{Op: 0x1A}, // drop
			},
		},
	)
	m.StartFunction = "start"
	m.HasStartFunction = true

	out, err := Encode(m)
	require.NoError(t, err)
	require.Equal(t, []byte{0x00, 0x61, 0x73, 0x6D, 0x01, 0x00, 0x00, 0x00}, out[:8])

	// The start section (id 0x08) must appear, carrying the funcIdx of
	// "start" (the second defined function, so func index 1; this module
	// has no imports).
	idx := indexOfSectionID(t, out, 0x08)
	require.NotEqual(t, -1, idx)
}

func TestEncode_noStartSectionWhenAbsent(t *testing.T) {
	m := wasm.NewModule()
	out, err := Encode(m)
	require.NoError(t, err)
	require.Equal(t, -1, indexOfSectionID(t, out, 0x08))
}

func TestEncode_functionWithLocalsAndLabel(t *testing.T) {
	m := wasm.NewModule()

	unitType := wasm.TypeName("()->()")
	m.FunctionTypes = append(m.FunctionTypes, &wasm.FunctionType{Name: unitType})

	label := wasm.LabelID(1)
	m.Functions = append(m.Functions, &wasm.Function{
		Name: "loopy",
		Type: unitType,
		Locals: []wasm.LocalDecl{
			{Name: "x", Type: wasm.I32()},
			{Name: "y", Type: wasm.I32()},
		},
		Body: []wasm.Instr{
			{
				Op:    0x03, // loop
				Label: &label,
				Opens: true,
				Immediates: []wasm.Immediate{
					wasm.ImmBlockTypeVal(wasm.BlockType{Kind: wasm.BlockTypeNone}),
				},
			},
			{Op: 0x0C, Immediates: []wasm.Immediate{wasm.ImmLabelIdxVal(label)}}, // br 0
			{Op: 0x0B, IsEnd: true},                                             // end (closes loop)
		},
	})

	out, err := Encode(m)
	require.NoError(t, err)
	require.NotEmpty(t, out)
}

func TestEncode_unresolvedLabelFails(t *testing.T) {
	m := wasm.NewModule()
	unitType := wasm.TypeName("()->()")
	m.FunctionTypes = append(m.FunctionTypes, &wasm.FunctionType{Name: unitType})
	m.Functions = append(m.Functions, &wasm.Function{
		Name: "bad",
		Type: unitType,
		Body: []wasm.Instr{
			{Op: 0x0C, Immediates: []wasm.Immediate{wasm.ImmLabelIdxVal(99)}}, // br to nonexistent label
		},
	})

	_, err := Encode(m)
	require.ErrorIs(t, err, ErrLabelOutOfScope)
}

func TestEncode_unsupportedImmediateFails(t *testing.T) {
	m := wasm.NewModule()
	unitType := wasm.TypeName("()->()")
	m.FunctionTypes = append(m.FunctionTypes, &wasm.FunctionType{Name: unitType})
	m.Functions = append(m.Functions, &wasm.Function{
		Name: "bad",
		Type: unitType,
		Body: []wasm.Instr{
			{Op: 0xFE, Immediates: []wasm.Immediate{{Kind: wasm.ImmTableIdx}}},
		},
	})

	_, err := Encode(m)
	require.ErrorIs(t, err, ErrUnsupportedImmediate)
}

func TestEncode_localIdxOutsideFunctionFails(t *testing.T) {
	m := wasm.NewModule()
	m.Globals = append(m.Globals, &wasm.Global{
		Name: "bad",
		Type: wasm.I32(),
		Init: []wasm.Instr{
			{Op: 0x20, Immediates: []wasm.Immediate{wasm.ImmLocalIdxVal("x")}}, // local.get, no enclosing function
		},
	})

	_, err := Encode(m)
	require.ErrorIs(t, err, ErrLocalsUnavailable)
}

// indexOfSectionID walks top-level sections by their own length prefixes
// and returns the byte offset of the first section whose id matches want,
// or -1. This avoids mistaking a coincidental byte value inside a section
// body for a section id.
func indexOfSectionID(t *testing.T, out []byte, want byte) int {
	t.Helper()
	i := 8
	for i < len(out) {
		id := out[i]
		start := i
		i++
		length, n, err := leb128.LoadUint32(out[i:])
		require.NoError(t, err)
		i += int(n)
		if id == want {
			return start
		}
		i += int(length)
	}
	return -1
}
