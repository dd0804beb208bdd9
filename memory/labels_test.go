package memory

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPrimaryLabelIsFirstAdded(t *testing.T) {
	l := NewLabels()
	l.AddLabel(0x100, "FOO")
	l.AddLabel(0x100, "BAR")

	require.Equal(t, "FOO", l.PrimaryName(0x100))
	require.Equal(t, []string{"FOO", "BAR"}, l.Names(0x100))
}

func TestAddLabelDeduplicates(t *testing.T) {
	l := NewLabels()
	l.AddLabel(0x100, "FOO")
	l.AddLabel(0x100, "FOO")

	require.Equal(t, []string{"FOO"}, l.Names(0x100))
}

func TestEnsureLabelSynthesizes(t *testing.T) {
	l := NewLabels()
	name := l.EnsureLabel(0xABCD)

	require.Equal(t, "LABCD", name)
	require.Equal(t, "LABCD", l.PrimaryName(0xABCD))
}

func TestEnsureLabelKeepsExisting(t *testing.T) {
	l := NewLabels()
	l.AddLabel(0xABCD, "ENTRY")

	require.Equal(t, "ENTRY", l.EnsureLabel(0xABCD))
}
