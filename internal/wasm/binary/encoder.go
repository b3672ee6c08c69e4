// Package binary serializes a fully populated wasm.Module to the Wasm core
// binary format extended with GC types (spec §4.F). Emission is read-only:
// callers must not mutate the module concurrently with Encode (spec §5).
package binary

import (
	"math"

	"github.com/scala-wasm/backend/api"
	"github.com/scala-wasm/backend/internal/leb128"
	"github.com/scala-wasm/backend/internal/wasm"
)

// magic and version are the fixed 8-byte Wasm preamble.
var (
	magic   = []byte{0x00, 0x61, 0x73, 0x6D}
	version = []byte{0x01, 0x00, 0x00, 0x00}
)

// encoder is a growable byte buffer with the primitives spec §4.F names.
// A small constant stack of these is live at once, one per nesting level of
// byteLengthSubSection (spec §5 "Memory").
type encoder struct {
	buf []byte

	module *wasm.Module
	// fn and scope are only set while writing a function body or a global
	// initializer expression; they back LocalIdx resolution and the label
	// scope stack respectively (spec §4.F "Label resolution").
	fn    *wasm.Function
	scope []*wasm.LabelID
}

func newEncoder(m *wasm.Module) *encoder {
	return &encoder{module: m}
}

func (e *encoder) byte(b byte) {
	e.buf = append(e.buf, b)
}

func (e *encoder) bytes(b []byte) {
	e.buf = append(e.buf, b...)
}

func (e *encoder) boolean(b bool) {
	if b {
		e.byte(1)
	} else {
		e.byte(0)
	}
}

func (e *encoder) u32(v uint32) { e.bytes(leb128.EncodeUint32(v)) }
func (e *encoder) u64(v uint64) { e.bytes(leb128.EncodeUint64(v)) }
func (e *encoder) s32(v int32)  { e.bytes(leb128.EncodeInt32(v)) }
func (e *encoder) s64(v int64)  { e.bytes(leb128.EncodeInt64(v)) }
func (e *encoder) i32(v int32)  { e.s32(v) }
func (e *encoder) i64(v int64)  { e.s64(v) }

// s33OfUInt encodes v as the signed 33-bit LEB128 Wasm uses for type
// indices, so the 5th byte's high bit is never mistaken for a sign bit
// (spec §4.F).
func (e *encoder) s33OfUInt(v uint32) { e.bytes(leb128.EncodeInt33FromUint32(v)) }

func (e *encoder) f32(v float32) {
	bits := math.Float32bits(v)
	e.bytes([]byte{byte(bits), byte(bits >> 8), byte(bits >> 16), byte(bits >> 24)})
}

func (e *encoder) f64(v float64) {
	bits := math.Float64bits(v)
	e.bytes([]byte{
		byte(bits), byte(bits >> 8), byte(bits >> 16), byte(bits >> 24),
		byte(bits >> 32), byte(bits >> 40), byte(bits >> 48), byte(bits >> 56),
	})
}

func (e *encoder) name(s string) {
	e.u32(uint32(len(s)))
	e.bytes([]byte(s))
}

// vecEncode writes a u32 length prefix followed by each element, encoded by f.
func vecEncode[T any](e *encoder, xs []T, f func(*encoder, T) error) error {
	e.u32(uint32(len(xs)))
	for _, x := range xs {
		if err := f(e, x); err != nil {
			return err
		}
	}
	return nil
}

// optEncode writes x as a 0- or 1-element vec, per spec §4.F "opt(x, f)".
func optEncode(e *encoder, present bool, f func(*encoder) error) error {
	if !present {
		e.u32(0)
		return nil
	}
	e.u32(1)
	return f(e)
}

// byteLengthSubSection runs f against a fresh child encoder, then appends
// its byte length followed by its raw bytes to e (spec §4.F).
func byteLengthSubSection(e *encoder, f func(*encoder) error) error {
	child := &encoder{module: e.module}
	if err := f(child); err != nil {
		return err
	}
	e.u32(uint32(len(child.buf)))
	e.bytes(child.buf)
	return nil
}

// section writes id, then the byte length of the section built by f, then
// its bytes — omitting the section entirely when it is empty (the
// empty-module boundary case of spec §8 permits either, so this backend
// always omits them, matching wazero's own minimal-emission style). A
// section is empty when f writes nothing, or when its whole body is a
// zero-length vector (the single count byte 0x00); the start section's body
// is a bare funcIdx rather than a vector, so it is exempt from the latter.
func section(e *encoder, id byte, f func(*encoder) error) error {
	child := &encoder{module: e.module}
	if err := f(child); err != nil {
		return err
	}
	if len(child.buf) == 0 {
		return nil
	}
	if id != api.SectionIDStart && len(child.buf) == 1 && child.buf[0] == 0x00 {
		return nil
	}
	e.byte(id)
	e.u32(uint32(len(child.buf)))
	e.bytes(child.buf)
	return nil
}
