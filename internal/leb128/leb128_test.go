package leb128

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeInt32(t *testing.T) {
	for _, c := range []struct {
		input    int32
		expected []byte
	}{
		{input: -624485, expected: []byte{0x9b, 0xf1, 0x59}},
		{input: -4, expected: []byte{0x7c}},
		{input: -1, expected: []byte{0x7f}},
		{input: 0, expected: []byte{0x00}},
		{input: 1, expected: []byte{0x01}},
		{input: 624485, expected: []byte{0xe5, 0x8e, 0x26}},
		{input: math.MaxInt32, expected: []byte{0xff, 0xff, 0xff, 0xff, 0x7}},
	} {
		require.Equal(t, c.expected, EncodeInt32(c.input))
		decoded, n, err := LoadInt32(c.expected)
		require.NoError(t, err)
		require.Equal(t, c.input, decoded)
		require.Equal(t, uint64(len(c.expected)), n)
	}
}

func TestEncodeDecodeUint32(t *testing.T) {
	for _, c := range []struct {
		input    uint32
		expected []byte
	}{
		{input: 0, expected: []byte{0x00}},
		{input: 127, expected: []byte{0x7f}},
		{input: 128, expected: []byte{0x80, 0x01}},
		{input: math.MaxUint32, expected: []byte{0xff, 0xff, 0xff, 0xff, 0xf}},
	} {
		require.Equal(t, c.expected, EncodeUint32(c.input))
		decoded, n, err := LoadUint32(c.expected)
		require.NoError(t, err)
		require.Equal(t, c.input, decoded)
		require.Equal(t, uint64(len(c.expected)), n)
	}
}

func TestEncodeInt32Examples(t *testing.T) {
	require.Equal(t, []byte{0x7f}, EncodeInt32(-1))
	require.Equal(t, []byte{0x40}, EncodeInt32(-64))
	require.Equal(t, []byte{0xBF, 0x7F}, EncodeInt32(-65))
}

func TestDecodeUint32_overflow(t *testing.T) {
	_, _, err := LoadUint32([]byte{0xff, 0xff, 0xff, 0xff, 0xff, 0x01})
	require.Error(t, err)
}

func TestDecodeInt33AsInt64(t *testing.T) {
	for _, c := range []struct {
		bytes []byte
		exp   int64
	}{
		{bytes: []byte{0x00}, exp: 0},
		{bytes: []byte{0x40}, exp: -64},
		{bytes: []byte{0x7f}, exp: -1},
		{bytes: []byte{0x81, 0x01}, exp: 129},
	} {
		actual, n, err := DecodeInt33AsInt64(bytes.NewReader(c.bytes))
		require.NoError(t, err)
		require.Equal(t, c.exp, actual)
		require.Equal(t, uint64(len(c.bytes)), n)
	}
}

func TestEncodeInt33FromUint32_roundtrip(t *testing.T) {
	for _, v := range []uint32{0, 1, 127, 128, 0xffff, 0x1ffff} {
		enc := EncodeInt33FromUint32(v)
		decoded, _, err := DecodeInt33AsInt64(bytes.NewReader(enc))
		require.NoError(t, err)
		require.Equal(t, int64(v), decoded)
	}
}
