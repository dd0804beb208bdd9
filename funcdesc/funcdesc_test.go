package funcdesc

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"gendasm/decoder"
	"gendasm/errs"
	"gendasm/memory"
)

func TestParseAndWriteRoundTrip(t *testing.T) {
	src := strings.Join([]string{
		"; a comment",
		"#ROM|8000|4000",
		"!8010|RESET",
		"=C|FFFC|RESET_VEC|8010",
		"@8010|RESET,START",
		"0000|8010||A942|A9|42||#0042|LDA|#0042",
		"0002|8012||4C0080|4C|0080|C@0080||JMP|C@0080",
	}, "\n")

	f, err := ParseFile(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, f.Regions, 1)
	require.Equal(t, memory.RegionROM, f.Regions[0].Type)
	require.Len(t, f.Functions, 1)
	require.Equal(t, "RESET", f.Functions[0].PrimaryName())
	require.Len(t, f.Functions[0].Members, 2)

	var buf bytes.Buffer
	require.NoError(t, f.WriteTo(&buf))

	f2, err := ParseFile(strings.NewReader(buf.String()))
	require.NoError(t, err)
	require.Equal(t, f.Functions[0].ExportToDiff(), f2.Functions[0].ExportToDiff())
}

func TestParseUnknownLeaderIsInvalidRecord(t *testing.T) {
	_, err := ParseFile(strings.NewReader("%garbage"))
	require.Error(t, err)
	require.True(t, errs.Is(err, errs.InvalidRecord))
}

func TestParseNonMonotonicAddressIsInvalidRecord(t *testing.T) {
	src := strings.Join([]string{
		"@8010|RESET",
		"0002|8012||A942|A9|42||#0042|LDA|#0042",
		"0000|8010||A942|A9|42||#0042|LDA|#0042",
	}, "\n")
	_, err := ParseFile(strings.NewReader(src))
	require.Error(t, err)
}

func TestFormatAndParseOperandRoundTrip(t *testing.T) {
	cases := []*decoder.Operand{
		{Kind: decoder.Immediate, Value: 0x42},
		{Kind: decoder.AbsoluteCode, Value: 0x1234},
		{Kind: decoder.AbsoluteData, Value: 0x1234},
		{Kind: decoder.RelativeCode, Value: 0x16, RelOffset: 4},
		{Kind: decoder.RegisterOffsetData, RegisterOffset: 0x10, Register: "X"},
	}
	for _, op := range cases {
		text := FormatOperand(op)
		parsed, err := ParseOperand(1, text)
		require.NoError(t, err)
		require.Equal(t, op.Kind, parsed.Kind)
		require.Equal(t, op.Value, parsed.Value)
	}
}

