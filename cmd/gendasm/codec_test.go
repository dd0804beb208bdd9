package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"gendasm/codec/binaryfmt"
	"gendasm/codec/intelhex"
	"gendasm/compare"
	"gendasm/memory"
)

func TestFormatForNameDefaultsToBinary(t *testing.T) {
	f, err := formatForName("", 0x8000)
	require.NoError(t, err)
	require.IsType(t, &binaryfmt.Format{}, f)
}

func TestFormatForNameResolvesIntelHex(t *testing.T) {
	f, err := formatForName("ihex", 0)
	require.NoError(t, err)
	require.IsType(t, &intelhex.Format{}, f)
}

func TestFormatForNameRejectsUnknown(t *testing.T) {
	_, err := formatForName("bogus", 0)
	require.Error(t, err)
}

func TestDecoderForNameDefaultsToRef6502(t *testing.T) {
	dec, err := decoderForName("")
	require.NoError(t, err)
	require.Equal(t, "ref6502", dec.Name())
}

func TestParseAddrListSplitsOnComma(t *testing.T) {
	addrs, err := parseAddrList("0x8000,0x9000")
	require.NoError(t, err)
	require.Equal(t, []memory.Address{0x8000, 0x9000}, addrs)
}

func TestParseAddrListEmptyIsNil(t *testing.T) {
	addrs, err := parseAddrList("")
	require.NoError(t, err)
	require.Nil(t, addrs)
}

func TestMethodForNameDefaultsToGreedy(t *testing.T) {
	m, err := methodForName("")
	require.NoError(t, err)
	require.Equal(t, compare.Greedy, m)
}
