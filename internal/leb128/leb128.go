// Package leb128 implements the variable-length integer encoding used
// throughout the Wasm binary format.
package leb128

import (
	"bytes"
	"fmt"
	"io"
)

const (
	maxVarintLen32 = 5
	maxVarintLen33 = 5
	maxVarintLen64 = 10
)

// EncodeUint32 encodes v as an unsigned LEB128 byte sequence.
func EncodeUint32(v uint32) []byte {
	return EncodeUint64(uint64(v))
}

// EncodeUint64 encodes v as an unsigned LEB128 byte sequence.
func EncodeUint64(v uint64) []byte {
	out := make([]byte, 0, maxVarintLen64)
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		out = append(out, b)
		if v == 0 {
			return out
		}
	}
}

// EncodeInt32 encodes v as a signed LEB128 byte sequence.
func EncodeInt32(v int32) []byte {
	return EncodeInt64(int64(v))
}

// EncodeInt64 encodes v as a signed LEB128 byte sequence.
func EncodeInt64(v int64) []byte {
	out := make([]byte, 0, maxVarintLen64)
	for {
		b := byte(v & 0x7f)
		v >>= 7
		signBitSet := b&0x40 != 0
		if (v == 0 && !signBitSet) || (v == -1 && signBitSet) {
			out = append(out, b)
			return out
		}
		out = append(out, b|0x80)
	}
}

// EncodeInt33FromUint32 encodes v as a signed 33-bit LEB128, treating v as a
// non-negative 33-bit value. Wasm uses this encoding for type indices so
// that the high bit of a 5-byte encoding is never mistaken for a sign bit.
func EncodeInt33FromUint32(v uint32) []byte {
	return EncodeInt64(int64(v))
}

// LoadUint32 decodes an unsigned LEB128 value of at most 32 bits from b,
// returning the value, the number of bytes consumed, and an error if the
// encoding overflows 32 bits or is truncated.
func LoadUint32(b []byte) (uint32, uint64, error) {
	ret, n, err := LoadUint64(b)
	if err != nil {
		return 0, 0, err
	}
	if ret > 0xffffffff {
		return 0, 0, fmt.Errorf("overflows 32-bit integer")
	}
	return uint32(ret), n, nil
}

// LoadUint64 decodes an unsigned LEB128 value of at most 64 bits from b.
func LoadUint64(b []byte) (uint64, uint64, error) {
	var ret uint64
	var shift uint
	var n uint64
	for {
		if int(n) >= len(b) {
			return 0, 0, io.ErrUnexpectedEOF
		}
		c := b[n]
		n++
		if shift == 63 && c != 0x00 && c != 0x01 {
			return 0, 0, fmt.Errorf("invalid LEB128 encoding: overflow")
		}
		ret |= (uint64(c) & 0x7f) << shift
		if c&0x80 == 0 {
			return ret, n, nil
		}
		shift += 7
	}
}

// LoadInt32 decodes a signed LEB128 value of at most 32 bits from b.
func LoadInt32(b []byte) (int32, uint64, error) {
	ret, n, err := LoadInt64(b)
	if err != nil {
		return 0, 0, err
	}
	if ret < -0x80000000 || ret > 0x7fffffff {
		return 0, 0, fmt.Errorf("overflows 32-bit integer")
	}
	return int32(ret), n, nil
}

// LoadInt64 decodes a signed LEB128 value of at most 64 bits from b.
func LoadInt64(b []byte) (int64, uint64, error) {
	var ret int64
	var shift uint
	var n uint64
	var c byte
	for {
		if int(n) >= len(b) {
			return 0, 0, io.ErrUnexpectedEOF
		}
		c = b[n]
		n++
		ret |= int64(c&0x7f) << shift
		shift += 7
		if c&0x80 == 0 {
			break
		}
	}
	if shift < 64 && c&0x40 != 0 {
		ret |= -1 << shift
	}
	return ret, n, nil
}

// DecodeInt33AsInt64 reads a signed 33-bit LEB128 value from r and widens it
// to int64. Used for type indices encoded via s33 (see EncodeInt33FromUint32).
func DecodeInt33AsInt64(r *bytes.Reader) (int64, uint64, error) {
	var ret int64
	var shift uint
	var n uint64
	var c byte
	for {
		b, err := r.ReadByte()
		if err != nil {
			return 0, 0, io.ErrUnexpectedEOF
		}
		c = b
		n++
		ret |= int64(c&0x7f) << shift
		shift += 7
		if c&0x80 == 0 {
			break
		}
		if shift >= 33 {
			return 0, 0, fmt.Errorf("invalid s33 encoding: too many bytes")
		}
	}
	if shift < 64 && c&0x40 != 0 {
		ret |= -1 << shift
	}
	return ret, n, nil
}
