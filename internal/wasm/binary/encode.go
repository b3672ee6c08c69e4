package binary

import (
	"github.com/scala-wasm/backend/api"
	"github.com/scala-wasm/backend/internal/wasm"
)

// Encode serializes module to the Wasm binary format described in spec
// §4.F: the fixed preamble followed by each section in the fixed order,
// each section omitted entirely when it would otherwise be empty (spec §8
// boundary case "a module with no defined functions and no globals still
// emits a valid preamble ... or omits [empty sections] — implementation
// freedom").
func Encode(module *wasm.Module) ([]byte, error) {
	e := newEncoder(module)
	e.bytes(magic)
	e.bytes(version)

	if err := section(e, api.SectionIDType, typeSection); err != nil {
		return nil, err
	}
	if err := section(e, api.SectionIDImport, importSection); err != nil {
		return nil, err
	}
	if err := section(e, api.SectionIDFunction, functionSection); err != nil {
		return nil, err
	}
	if err := section(e, api.SectionIDGlobal, globalSection); err != nil {
		return nil, err
	}
	if err := section(e, api.SectionIDExport, exportSection); err != nil {
		return nil, err
	}
	if err := section(e, api.SectionIDStart, startSection); err != nil {
		return nil, err
	}
	if err := section(e, api.SectionIDCode, codeSection); err != nil {
		return nil, err
	}

	return e.buf, nil
}
