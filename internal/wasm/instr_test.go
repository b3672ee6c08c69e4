package wasm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpcodeEncode(t *testing.T) {
	b, err := Opcode(0x41).Encode()
	require.NoError(t, err)
	require.Equal(t, []byte{0x41}, b)

	b, err = Opcode(0xFFFF).Encode()
	require.NoError(t, err)
	require.Equal(t, []byte{0xFF, 0xFF}, b)

	_, err = Opcode(0x10000).Encode()
	require.ErrorIs(t, err, ErrOpcodeTooWide)
}
