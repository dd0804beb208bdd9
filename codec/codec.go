// Package codec defines the shared file-format contract of spec.md §6:
// RetrieveFileMapping (scan covered ranges without loading), ReadDataFile
// (load bytes and mark descriptors), and WriteDataFile (serialize with a
// configurable fill policy). Subpackages binaryfmt, intelhex, srecord and
// elffmt implement it for raw binary, Intel HEX, Motorola S-record and ELF
// images respectively.
package codec

import (
	"io"

	"gendasm/memory"
)

// Format is one image file format's reader/writer pair.
type Format interface {
	// RetrieveFileMapping scans the input and reports the address ranges
	// it would populate, without loading any byte.
	RetrieveFileMapping(r io.Reader) (memory.RangeList, error)

	// ReadDataFile loads every byte the format describes into mem, OR-ing
	// in memory.Loaded. It reports overlap=true (non-fatal, spec.md §7) if
	// any byte it wrote already carried memory.Loaded.
	ReadDataFile(r io.Reader, mem *memory.Blocks) (overlap bool, err error)

	// WriteDataFile serializes the given ranges of mem, applying fill to
	// any byte within those ranges that isn't memory.Loaded.
	WriteDataFile(w io.Writer, mem *memory.Blocks, ranges []memory.Range, fill FillPolicy) error
}
