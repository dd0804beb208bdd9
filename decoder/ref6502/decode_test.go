package ref6502

import (
	"testing"

	"github.com/stretchr/testify/require"

	"gendasm/decoder"
	"gendasm/memory"
)

func loadProgram(t *testing.T, base memory.Address, bytes []byte) *memory.Blocks {
	t.Helper()
	var rl memory.RangeList
	rl.PushRange(memory.Range{Start: base, Size: uint64(len(bytes))})
	mem := memory.NewBlocks()
	mem.InitFromRanges(&rl)
	for i, b := range bytes {
		require.True(t, mem.SetElement(base+memory.Address(i), b))
	}
	return mem
}

func TestDecodeJSRIsCall(t *testing.T) {
	mem := loadProgram(t, 0, []byte{0x20, 0x00, 0x10})
	inst, err := New().Decode(mem, 0)
	require.NoError(t, err)
	require.Equal(t, decoder.Call, inst.Flow)
	require.EqualValues(t, 3, inst.Length)
	require.Equal(t, memory.Address(0x1000), inst.Targets[0].Address)
}

func TestDecodeJMPIndirectIsUndeterminable(t *testing.T) {
	mem := loadProgram(t, 0, []byte{0x6C, 0x00, 0x02})
	inst, err := New().Decode(mem, 0)
	require.NoError(t, err)
	require.Equal(t, decoder.IndirectBranch, inst.Flow)
	require.False(t, inst.Targets[0].Determinable)
}

func TestDecodeBranchResolvesRelative(t *testing.T) {
	// BEQ +4 at address 0x10: target = 0x10 + 2 + 4 = 0x16
	mem := loadProgram(t, 0x10, []byte{0xF0, 0x04})
	inst, err := New().Decode(mem, 0x10)
	require.NoError(t, err)
	require.Equal(t, decoder.ConditionalBranch, inst.Flow)
	require.Equal(t, memory.Address(0x16), inst.Targets[0].Address)
}

func TestDecodeBranchNegativeOffset(t *testing.T) {
	// BNE -2 at 0x20: target = 0x20 + 2 - 2 = 0x20
	mem := loadProgram(t, 0x20, []byte{0xD0, 0xFE})
	inst, err := New().Decode(mem, 0x20)
	require.NoError(t, err)
	require.Equal(t, memory.Address(0x20), inst.Targets[0].Address)
}

func TestDecodeRTSisReturn(t *testing.T) {
	mem := loadProgram(t, 0, []byte{0x60})
	inst, err := New().Decode(mem, 0)
	require.NoError(t, err)
	require.Equal(t, decoder.Return, inst.Flow)
	require.EqualValues(t, 1, inst.Length)
}

func TestDecodeUnknownOpcodeIsIllegal(t *testing.T) {
	mem := loadProgram(t, 0, []byte{0x02}) // not a valid 6502 opcode in our table
	inst, err := New().Decode(mem, 0)
	require.NoError(t, err)
	require.Equal(t, decoder.IllegalFlow, inst.Flow)
}

func TestDecodeCrossingUnloadedBoundaryIsIllegal(t *testing.T) {
	// LDA absolute (3 bytes) but only 1 byte loaded.
	var rl memory.RangeList
	rl.PushRange(memory.Range{Start: 0, Size: 1})
	mem := memory.NewBlocks()
	mem.InitFromRanges(&rl)
	mem.SetElement(0, 0xAD)

	inst, err := New().Decode(mem, 0)
	require.NoError(t, err)
	require.Equal(t, decoder.IllegalFlow, inst.Flow)
}

func TestDecodeImmediateOperand(t *testing.T) {
	mem := loadProgram(t, 0, []byte{0xA9, 0x42})
	inst, err := New().Decode(mem, 0)
	require.NoError(t, err)
	require.Equal(t, decoder.Sequential, inst.Flow)
	require.Equal(t, decoder.Immediate, inst.Dst.Kind)
	require.Equal(t, memory.Address(0x42), inst.Dst.Value)
}

func TestDecodeZeroPageXIsRegisterOffset(t *testing.T) {
	mem := loadProgram(t, 0, []byte{0xB5, 0x10})
	inst, err := New().Decode(mem, 0)
	require.NoError(t, err)
	require.Equal(t, decoder.RegisterOffsetData, inst.Dst.Kind)
	require.Equal(t, "X", inst.Dst.Register)
}
