// Package binaryfmt implements codec.Format for raw, unstructured binary
// images: every byte of the file maps to one consecutive address starting
// at a caller-supplied base.
package binaryfmt

import (
	"io"

	"github.com/pkg/errors"

	"gendasm/codec"
	"gendasm/errs"
	"gendasm/memory"
)

// Format reads/writes a raw binary image loaded at a fixed Base address.
type Format struct {
	Base memory.Address
}

// New returns a Format that loads/stores at base.
func New(base memory.Address) *Format {
	return &Format{Base: base}
}

func (f *Format) RetrieveFileMapping(r io.Reader) (memory.RangeList, error) {
	n, err := io.Copy(io.Discard, r)
	if err != nil {
		return memory.RangeList{}, errors.WithStack(errs.New(errs.ReadFailed, 0, err.Error()))
	}
	var rl memory.RangeList
	rl.PushRange(memory.Range{Start: f.Base, Size: uint64(n)})
	return rl, nil
}

func (f *Format) ReadDataFile(r io.Reader, mem *memory.Blocks) (bool, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return false, errors.WithStack(errs.New(errs.ReadFailed, 0, err.Error()))
	}

	overlap := false
	for i, b := range data {
		addr := f.Base + memory.Address(i)
		desc, err := mem.Descriptor(addr)
		if err != nil {
			return overlap, errors.WithStack(errs.New(errs.OutOfRange, uint(addr), "byte not within any mapped range"))
		}
		if desc.Has(memory.Loaded) {
			overlap = true
		}
		if !mem.SetElement(addr, b) {
			return overlap, errors.WithStack(errs.New(errs.OutOfRange, uint(addr), "byte not within any mapped range"))
		}
		if err := mem.OrDescriptor(addr, memory.Loaded); err != nil {
			return overlap, err
		}
	}
	return overlap, nil
}

func (f *Format) WriteDataFile(w io.Writer, mem *memory.Blocks, ranges []memory.Range, fill codec.FillPolicy) error {
	for _, r := range ranges {
		loaded := make([]bool, r.Size)
		values := make([]byte, r.Size)
		for i := uint64(0); i < r.Size; i++ {
			addr := r.Start + memory.Address(i)
			desc, err := mem.Descriptor(addr)
			if err != nil {
				return err
			}
			loaded[i] = desc.Has(memory.Loaded)
			if loaded[i] {
				v, err := mem.Element(addr)
				if err != nil {
					return err
				}
				values[i] = v
			}
		}
		for i := uint64(0); i < r.Size; i++ {
			if loaded[i] {
				if _, err := w.Write([]byte{values[i]}); err != nil {
					return errors.WithStack(errs.New(errs.WriteFailed, uint(r.Start)+uint(i), err.Error()))
				}
				continue
			}
			value, ok := fill.Resolve(loaded, int(i))
			if !ok {
				return errors.WithStack(errs.New(errs.WriteFailed, uint(r.Start)+uint(i), "unloaded byte in raw binary output with NO_FILL"))
			}
			if _, err := w.Write([]byte{value}); err != nil {
				return errors.WithStack(errs.New(errs.WriteFailed, uint(r.Start)+uint(i), err.Error()))
			}
		}
	}
	return nil
}
