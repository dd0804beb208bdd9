package srecord

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"gendasm/codec"
	"gendasm/errs"
	"gendasm/memory"
)

func TestScenarioEZeroByteRange(t *testing.T) {
	src := "S1030000FC\nS9030000FC\n"
	f := New()
	rl, err := f.RetrieveFileMapping(strings.NewReader(src))
	require.NoError(t, err)
	require.Equal(t, 1, rl.Len())
	require.EqualValues(t, 0, rl.Ranges()[0].Size)
}

func TestBadChecksumIsChecksumError(t *testing.T) {
	f := New()
	_, err := f.RetrieveFileMapping(strings.NewReader("S1030000FF\nS9030000FC\n"))
	require.Error(t, err)
	require.True(t, errs.Is(err, errs.Checksum))
}

func TestMissingTerminationIsUnexpectedEOF(t *testing.T) {
	f := New()
	_, err := f.RetrieveFileMapping(strings.NewReader("S1030000FC\n"))
	require.Error(t, err)
	require.True(t, errs.Is(err, errs.UnexpectedEOF))
}

func TestWriteThenReadRoundTrip(t *testing.T) {
	var rl memory.RangeList
	rl.PushRange(memory.Range{Start: 0x100, Size: 4})
	mem := memory.NewBlocks()
	mem.InitFromRanges(&rl)
	for i, b := range []byte{0xDE, 0xAD, 0xBE, 0xEF} {
		require.True(t, mem.SetElement(memory.Address(0x100+i), b))
		require.NoError(t, mem.OrDescriptor(memory.Address(0x100+i), memory.Loaded))
	}

	f := New()
	var buf bytes.Buffer
	require.NoError(t, f.WriteDataFile(&buf, mem, rl.Ranges(), codec.NoFill()))

	mem2 := memory.NewBlocks()
	mem2.InitFromRanges(&rl)
	_, err := f.ReadDataFile(bytes.NewReader(buf.Bytes()), mem2)
	require.NoError(t, err)

	for i, want := range []byte{0xDE, 0xAD, 0xBE, 0xEF} {
		got, err := mem2.Element(memory.Address(0x100 + i))
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
}
