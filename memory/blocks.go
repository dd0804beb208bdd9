package memory

import (
	"fmt"

	"github.com/pkg/errors"

	"gendasm/errs"
)

// PageSize is the granularity of the sparse page table backing Blocks.
// Spec.md §9 prefers a page-of-size-P sparse representation over a dense
// array when the covered address space is sparse (typical of firmware
// images that only occupy a fraction of the address space).
const PageSize = 256

type page struct {
	elements    [PageSize]byte
	descriptors [PageSize]Descriptor
}

// BankMapper resolves a logical address to a physical one, for bank or
// overlay-mapped architectures. Flat architectures don't need one; Blocks
// defaults to the identity mapping.
type BankMapper func(logical Address) Address

// Blocks is the live memory store: a descriptor-tagged byte array
// materialized lazily over the address ranges it was initialized from.
// Reads and writes outside any initialized range fail with errs.OutOfRange.
type Blocks struct {
	pages   map[Address]*page
	covered RangeList
	mapper  BankMapper
}

// NewBlocks creates an empty store with the identity bank mapper.
func NewBlocks() *Blocks {
	return &Blocks{pages: make(map[Address]*page)}
}

// SetBankMapper installs a logical->physical address translator for
// overlay/bank-switched architectures.
func (b *Blocks) SetBankMapper(m BankMapper) {
	b.mapper = m
}

// PhysicalAddr resolves a logical address to a physical one. Implementations
// without overlays (the default) return logical unchanged.
func (b *Blocks) PhysicalAddr(logical Address) Address {
	if b.mapper == nil {
		return logical
	}
	return b.mapper(logical)
}

func pageKey(addr Address) Address {
	return addr - Address(uint32(addr)%PageSize)
}

// InitFromRanges materializes the byte/descriptor store for every address
// covered by ranges. Subsequent reads/writes to addresses outside these
// ranges fail with errs.OutOfRange.
func (b *Blocks) InitFromRanges(ranges *RangeList) {
	b.covered = RangeList{}
	for _, r := range ranges.Ranges() {
		b.covered.PushRange(r)
	}
	b.covered.Compact()
	for _, r := range b.covered.Ranges() {
		for a := r.Start; a < r.End(); {
			key := pageKey(a)
			if _, ok := b.pages[key]; !ok {
				b.pages[key] = &page{}
			}
			next := key + PageSize
			if next > a {
				a = next
			} else {
				a++
			}
		}
	}
}

func (b *Blocks) lookup(addr Address) (*page, uint32, error) {
	if !b.covered.Covers(addr) {
		return nil, 0, errors.WithStack(errs.New(errs.OutOfRange, uint(addr), fmt.Sprintf("address %04X not mapped", uint32(addr))))
	}
	p, ok := b.pages[pageKey(addr)]
	if !ok {
		return nil, 0, errors.WithStack(errs.New(errs.OutOfRange, uint(addr), fmt.Sprintf("address %04X not mapped", uint32(addr))))
	}
	return p, uint32(addr) % PageSize, nil
}

// Element returns the byte stored at addr.
func (b *Blocks) Element(addr Address) (byte, error) {
	p, off, err := b.lookup(addr)
	if err != nil {
		return 0, err
	}
	return p.elements[off], nil
}

// SetElement stores value at addr. It returns false only when the address
// has no backing page (capacity was never allocated for it via
// InitFromRanges); it does not treat overwriting an already-loaded byte as
// an error — callers that care about overlap should inspect Descriptor(addr)
// beforehand, per spec.md §4.1.
func (b *Blocks) SetElement(addr Address, value byte) bool {
	p, off, err := b.lookup(addr)
	if err != nil {
		return false
	}
	p.elements[off] = value
	return true
}

// Descriptor returns the descriptor bits stored at addr.
func (b *Blocks) Descriptor(addr Address) (Descriptor, error) {
	p, off, err := b.lookup(addr)
	if err != nil {
		return 0, err
	}
	return p.descriptors[off], nil
}

// SetDescriptor overwrites the descriptor bits stored at addr.
func (b *Blocks) SetDescriptor(addr Address, d Descriptor) error {
	p, off, err := b.lookup(addr)
	if err != nil {
		return err
	}
	p.descriptors[off] = d
	return nil
}

// OrDescriptor ORs bits into the descriptor stored at addr.
func (b *Blocks) OrDescriptor(addr Address, d Descriptor) error {
	p, off, err := b.lookup(addr)
	if err != nil {
		return err
	}
	p.descriptors[off] |= d
	return nil
}

// Covered reports whether addr falls inside the ranges this store was
// initialized from.
func (b *Blocks) Covered(addr Address) bool {
	return b.covered.Covers(addr)
}

// CoveredRanges returns the compacted range list this store was
// materialized from.
func (b *Blocks) CoveredRanges() []Range {
	return b.covered.Ranges()
}

// HighestAddress returns the highest address covered by this store.
func (b *Blocks) HighestAddress() Address {
	return b.covered.HighestAddress()
}
