package binaryfmt

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"gendasm/codec"
	"gendasm/memory"
)

func TestRetrieveFileMappingSizesToInput(t *testing.T) {
	f := New(0x8000)
	rl, err := f.RetrieveFileMapping(strings.NewReader("hello"))
	require.NoError(t, err)
	require.Equal(t, 1, rl.Len())
	require.Equal(t, memory.Address(0x8000), rl.Ranges()[0].Start)
	require.EqualValues(t, 5, rl.Ranges()[0].Size)
}

func TestReadDataFileLoadsBytesAtBase(t *testing.T) {
	f := New(0x8000)
	var rl memory.RangeList
	rl.PushRange(memory.Range{Start: 0x8000, Size: 3})
	mem := memory.NewBlocks()
	mem.InitFromRanges(&rl)

	overlap, err := f.ReadDataFile(bytes.NewReader([]byte{1, 2, 3}), mem)
	require.NoError(t, err)
	require.False(t, overlap)

	b, err := mem.Element(0x8002)
	require.NoError(t, err)
	require.Equal(t, byte(3), b)
}

func TestWriteDataFileNoFillErrorsOnGap(t *testing.T) {
	f := New(0)
	var rl memory.RangeList
	rl.PushRange(memory.Range{Start: 0, Size: 2})
	mem := memory.NewBlocks()
	mem.InitFromRanges(&rl)
	mem.SetElement(0, 0xAA)
	mem.OrDescriptor(0, memory.Loaded)
	// address 1 left unloaded

	var buf bytes.Buffer
	err := f.WriteDataFile(&buf, mem, rl.Ranges(), codec.NoFill())
	require.Error(t, err)
}

func TestWriteDataFileAlwaysFillPadsGap(t *testing.T) {
	f := New(0)
	var rl memory.RangeList
	rl.PushRange(memory.Range{Start: 0, Size: 2})
	mem := memory.NewBlocks()
	mem.InitFromRanges(&rl)
	mem.SetElement(0, 0xAA)
	mem.OrDescriptor(0, memory.Loaded)

	var buf bytes.Buffer
	err := f.WriteDataFile(&buf, mem, rl.Ranges(), codec.AlwaysFillWith(0xFF))
	require.NoError(t, err)
	require.Equal(t, []byte{0xAA, 0xFF}, buf.Bytes())
}
