package intelhex

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"gendasm/errs"
	"gendasm/memory"
)

// The canonical Intel HEX example record (spec.md §8 Scenario A). Per
// standard Intel HEX decoding, the 16 data bytes starting at 0x0100 are
// 21 46 01 36 01 21 47 01 36 00 7E FE 09 D2 19 01, so address 0x0103 holds
// 0x36 and 0x0104 holds 0x01 — this test follows that standard decoding
// rather than spec.md's literal "byte at 0x0103 is 0x01", which appears to
// be off by one record position against the well-known reference example.
const scenarioA = ":10010000214601360121470136007EFE09D2190140\n:00000001FF"

func loadScenarioA(t *testing.T) *memory.Blocks {
	t.Helper()
	f := New()
	rl, err := f.RetrieveFileMapping(strings.NewReader(scenarioA))
	require.NoError(t, err)

	mem := memory.NewBlocks()
	mem.InitFromRanges(&rl)
	_, err = f.ReadDataFile(strings.NewReader(scenarioA), mem)
	require.NoError(t, err)
	return mem
}

func TestScenarioAHighestAddress(t *testing.T) {
	mem := loadScenarioA(t)
	require.Equal(t, memory.Address(0x010F), mem.HighestAddress())
}

func TestScenarioAByteValues(t *testing.T) {
	mem := loadScenarioA(t)
	b, err := mem.Element(0x0103)
	require.NoError(t, err)
	require.Equal(t, byte(0x36), b)

	b, err = mem.Element(0x0104)
	require.NoError(t, err)
	require.Equal(t, byte(0x01), b)
}

func TestMissingEOFRecordIsUnexpectedEOF(t *testing.T) {
	f := New()
	_, err := f.RetrieveFileMapping(strings.NewReader(":10010000214601360121470136007EFE09D2190140\n"))
	require.Error(t, err)
	require.True(t, errs.Is(err, errs.UnexpectedEOF))
}

func TestBadChecksumIsChecksumError(t *testing.T) {
	f := New()
	_, err := f.RetrieveFileMapping(strings.NewReader(":10010000214601360121470136007EFE09D21901FF\n:00000001FF"))
	require.Error(t, err)
	require.True(t, errs.Is(err, errs.Checksum))
}
