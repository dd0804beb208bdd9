package compare

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDiffRendersSubstitutionAndDeletion(t *testing.T) {
	left := []string{"A", "B", "C"}
	right := []string{"A", "X", "C"}
	r := Compare(Greedy, left, right, "F", "F", true)
	out := Diff(left, right, r.Script, "left.fd", "right.fd", nil)
	require.Contains(t, out, "B -- X")
	require.Contains(t, out, "A == A")
	require.Contains(t, out, "C == C")
}

func TestDiffHonorsSymbolMap(t *testing.T) {
	left := []string{"A", "OLDNAME", "C"}
	right := []string{"A", "NEWNAME", "C"}
	r := Compare(Greedy, left, right, "F", "F", true)
	symbols := NewSymbolMap()
	symbols.AddObjectMapping("OLDNAME", "NEWNAME")
	out := Diff(left, right, r.Script, "left.fd", "right.fd", symbols)
	require.Contains(t, out, "OLDNAME -> NEWNAME")
}
