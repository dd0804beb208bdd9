package memory

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompactMergesTouchingAndOverlapping(t *testing.T) {
	var l RangeList
	l.PushRange(Range{Start: 0x10, Size: 0x10}) // [10,20)
	l.PushRange(Range{Start: 0x20, Size: 0x10}) // [20,30) touches previous
	l.PushRange(Range{Start: 0x05, Size: 0x08}) // [05,0D)
	l.PushRange(Range{Start: 0x28, Size: 0x20}) // [28,48) overlaps

	l.Compact()

	require.Equal(t, []Range{
		{Start: 0x05, Size: 0x08},
		{Start: 0x10, Size: 0x38},
	}, l.Ranges())
}

func TestCompactIsSortedAndDisjoint(t *testing.T) {
	var l RangeList
	l.PushRange(Range{Start: 0x100, Size: 0x10})
	l.PushRange(Range{Start: 0x00, Size: 0x10})
	l.Compact()

	ranges := l.Ranges()
	for i := 1; i < len(ranges); i++ {
		require.Less(t, ranges[i-1].End(), ranges[i].Start+1)
		require.True(t, ranges[i-1].Start < ranges[i].Start)
	}
}

func TestHighestAddress(t *testing.T) {
	var l RangeList
	l.PushRange(Range{Start: 0x0100, Size: 0x10})
	l.PushRange(Range{Start: 0x0000, Size: 0x05})
	l.Compact()

	require.Equal(t, Address(0x10F), l.HighestAddress())
}

func TestHighestAddressEmpty(t *testing.T) {
	var l RangeList
	require.Equal(t, Address(0), l.HighestAddress())
}

func TestRemoveOverlapsTrims(t *testing.T) {
	var l RangeList
	l.PushRange(Range{Start: 0, Size: 0x10})
	l.PushRange(Range{Start: 0x08, Size: 0x10}) // overlaps [8,18)
	l.RemoveOverlaps()

	require.Equal(t, []Range{
		{Start: 0, Size: 0x10},
		{Start: 0x10, Size: 0x08},
	}, l.Ranges())
}
