package memory

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBlocksInitAndAccess(t *testing.T) {
	var rl RangeList
	rl.PushRange(Range{Start: 0x10, Size: 4})

	b := NewBlocks()
	b.InitFromRanges(&rl)

	require.True(t, b.SetElement(0x10, 0xAB))
	v, err := b.Element(0x10)
	require.NoError(t, err)
	require.Equal(t, byte(0xAB), v)

	require.NoError(t, b.SetDescriptor(0x10, Code))
	d, err := b.Descriptor(0x10)
	require.NoError(t, err)
	require.True(t, d.Has(Code))
}

func TestBlocksOutOfRange(t *testing.T) {
	var rl RangeList
	rl.PushRange(Range{Start: 0x10, Size: 4})

	b := NewBlocks()
	b.InitFromRanges(&rl)

	require.False(t, b.SetElement(0x20, 1))
	_, err := b.Element(0x20)
	require.Error(t, err)
}

func TestBlocksPhysicalAddrIdentityByDefault(t *testing.T) {
	b := NewBlocks()
	require.Equal(t, Address(0x1234), b.PhysicalAddr(0x1234))
}

func TestBlocksBankMapper(t *testing.T) {
	b := NewBlocks()
	b.SetBankMapper(func(logical Address) Address { return logical & 0x3FFF })
	require.Equal(t, Address(0x0234), b.PhysicalAddr(0x4234))
}

func TestBlocksSpansMultiplePages(t *testing.T) {
	var rl RangeList
	rl.PushRange(Range{Start: 0x00F0, Size: 0x20}) // crosses the 0x100 page boundary

	b := NewBlocks()
	b.InitFromRanges(&rl)

	for a := Address(0x00F0); a < 0x0110; a++ {
		require.True(t, b.SetElement(a, byte(a)))
	}
	v, err := b.Element(0x0105)
	require.NoError(t, err)
	require.Equal(t, byte(0x05), v)
}
