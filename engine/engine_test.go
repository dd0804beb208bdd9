package engine_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"gendasm/decoder/ref6502"
	"gendasm/engine"
	"gendasm/memory"
	"gendasm/msglog"
)

func loadProgram(t *testing.T, base memory.Address, bytes []byte) *memory.Blocks {
	t.Helper()
	var rl memory.RangeList
	rl.PushRange(memory.Range{Start: base, Size: uint64(len(bytes))})
	mem := memory.NewBlocks()
	mem.InitFromRanges(&rl)
	for i, b := range bytes {
		require.True(t, mem.SetElement(base+memory.Address(i), b))
		require.NoError(t, mem.OrDescriptor(base+memory.Address(i), memory.Loaded))
	}
	return mem
}

func TestDiscoverMarksCodeAndFallsThrough(t *testing.T) {
	// LDA #01 ; STA $10 ; RTS
	mem := loadProgram(t, 0x8000, []byte{0xA9, 0x01, 0x85, 0x10, 0x60})
	labels := memory.NewLabels()
	log := msglog.New()

	funcStarts, err := engine.Discover(mem, ref6502.New(), []memory.Address{0x8000}, labels, log)
	require.NoError(t, err)
	require.Contains(t, funcStarts, memory.Address(0x8000))

	desc, err := mem.Descriptor(0x8000)
	require.NoError(t, err)
	require.True(t, desc.Has(memory.Code))

	desc, err = mem.Descriptor(0x8001)
	require.NoError(t, err)
	require.True(t, desc.Has(memory.CodeCont))
}

func TestDiscoverFollowsCallAndMarksFunctionStart(t *testing.T) {
	// main: JSR sub ; RTS       sub: RTS
	mem := loadProgram(t, 0x8000, []byte{0x20, 0x05, 0x80, 0x60, 0xEA, 0x60})
	labels := memory.NewLabels()
	log := msglog.New()

	funcStarts, err := engine.Discover(mem, ref6502.New(), []memory.Address{0x8000}, labels, log)
	require.NoError(t, err)
	require.ElementsMatch(t, []memory.Address{0x8000, 0x8005}, funcStarts)
	require.True(t, labels.HasLabel(0x8005))
}

func TestDiscoverClassifiesUnreachedBytesAsData(t *testing.T) {
	mem := loadProgram(t, 0x8000, []byte{0x60, 0xDE, 0xAD})
	labels := memory.NewLabels()
	log := msglog.New()

	_, err := engine.Discover(mem, ref6502.New(), []memory.Address{0x8000}, labels, log)
	require.NoError(t, err)

	desc, err := mem.Descriptor(0x8001)
	require.NoError(t, err)
	require.True(t, desc.Has(memory.Data))
}

func TestDiscoverThenEmitProducesFunctionFile(t *testing.T) {
	mem := loadProgram(t, 0x8000, []byte{0xA9, 0x01, 0x60})
	labels := memory.NewLabels()
	log := msglog.New()
	dec := ref6502.New()

	funcStarts, err := engine.Discover(mem, dec, []memory.Address{0x8000}, labels, log)
	require.NoError(t, err)

	file, err := engine.Emit(mem, dec, labels, funcStarts)
	require.NoError(t, err)
	require.Len(t, file.Functions, 1)
	require.Equal(t, memory.Address(0x8000), file.Functions[0].Addr)
	require.Len(t, file.Functions[0].Members, 2)
}
