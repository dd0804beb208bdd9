// Package elffmt implements codec.Format for ELF object/executable images
// via the standard library's debug/elf, grounded on JetSetIlly-Gopher2600's
// coprocessor/developer ELF+DWARF loader in the example pack: PROGBITS
// sections become loaded ranges, and STT_FUNC symbols become suggested
// entry points the CLI can feed to the discovery engine.
package elffmt

import (
	"bytes"
	"debug/elf"
	"io"

	"github.com/pkg/errors"

	"gendasm/codec"
	"gendasm/errs"
	"gendasm/memory"
)

// Format reads ELF images. Writing is not supported: ELF is consumed here
// purely as an entry-point/section source for ROM-style images, not as a
// round-trippable container gendasm produces.
type Format struct {
	// FunctionEntries collects every STT_FUNC symbol's address found by
	// the last ReadDataFile call, for seeding engine.Discover.
	FunctionEntries []memory.Address
}

// New returns a ready-to-use ELF codec.
func New() *Format { return &Format{} }

func readAll(r io.Reader) (*elf.File, []byte, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, errors.WithStack(errs.New(errs.ReadFailed, 0, err.Error()))
	}
	f, err := elf.NewFile(bytes.NewReader(data))
	if err != nil {
		return nil, nil, errors.WithStack(errs.New(errs.InvalidRecord, 0, "not a valid ELF image: "+err.Error()))
	}
	return f, data, nil
}

func loadableSections(f *elf.File) []*elf.Section {
	var out []*elf.Section
	for _, s := range f.Sections {
		if s.Type == elf.SHT_PROGBITS && s.Flags&elf.SHF_ALLOC != 0 && s.Size > 0 {
			out = append(out, s)
		}
	}
	return out
}

func (c *Format) RetrieveFileMapping(r io.Reader) (memory.RangeList, error) {
	f, _, err := readAll(r)
	if err != nil {
		return memory.RangeList{}, err
	}
	defer f.Close()

	var rl memory.RangeList
	for _, s := range loadableSections(f) {
		rl.PushRange(memory.Range{Start: memory.Address(s.Addr), Size: s.Size})
	}
	rl.Compact()
	return rl, nil
}

func (c *Format) ReadDataFile(r io.Reader, mem *memory.Blocks) (bool, error) {
	f, _, err := readAll(r)
	if err != nil {
		return false, err
	}
	defer f.Close()

	overlap := false
	for _, s := range loadableSections(f) {
		data, err := s.Data()
		if err != nil {
			return overlap, errors.WithStack(errs.New(errs.ReadFailed, uint(s.Addr), err.Error()))
		}
		for i, b := range data {
			addr := memory.Address(s.Addr) + memory.Address(i)
			desc, derr := mem.Descriptor(addr)
			if derr != nil {
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
	}

	c.FunctionEntries = c.FunctionEntries[:0]
	syms, err := f.Symbols()
	if err != nil {
		// Stripped binaries carry no symbol table; that's not an error for
		// our purposes, just no extra entry points.
		return overlap, nil
	}
	for _, sym := range syms {
		if elf.ST_TYPE(sym.Info) == elf.STT_FUNC && sym.Value != 0 {
			c.FunctionEntries = append(c.FunctionEntries, memory.Address(sym.Value))
		}
	}

	return overlap, nil
}

// WriteDataFile is unsupported: gendasm never produces ELF output.
func (c *Format) WriteDataFile(w io.Writer, mem *memory.Blocks, ranges []memory.Range, fill codec.FillPolicy) error {
	return errors.WithStack(errs.New(errs.WriteFailed, 0, "elffmt does not support writing ELF images"))
}
