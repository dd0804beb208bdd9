package compare

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSelfIdentity(t *testing.T) {
	f := []string{"LDA #01", "STA 20", "RTS"}
	r := Compare(Greedy, f, f, "FOO", "FOO", true)
	require.Equal(t, 1.0, r.Score)
	require.Empty(t, r.Script)
}

func TestLabelPenaltyScenarioB(t *testing.T) {
	f := []string{"LDA #01", "STA 20", "RTS"}
	g := []string{"LDA #01", "STA 20", "RTS"}
	r := Compare(Greedy, f, g, "FOO", "BAR", false)
	n := float64(len(f))
	require.InDelta(t, 1-1/n, r.Score, 1e-9)
}

func TestScenarioCSubstitution(t *testing.T) {
	left := []string{"A", "B", "C"}
	right := []string{"A", "X", "C"}
	r := Compare(Greedy, left, right, "F", "F", true)
	require.InDelta(t, 1.0/3.0, r.Score, 1e-9)
	require.Equal(t, []string{"1-1"}, r.Script)
}

func TestScenarioDDeletion(t *testing.T) {
	left := []string{"A", "B", "C"}
	right := []string{"A", "C"}
	r := Compare(Greedy, left, right, "F", "F", true)
	require.Equal(t, []string{"1>1"}, r.Script)
}

func TestEmptyInputScoresZero(t *testing.T) {
	r := Compare(Greedy, nil, []string{"A"}, "F", "F", true)
	require.Equal(t, 0.0, r.Score)
	require.Empty(t, r.Script)

	r = Compare(Greedy, []string{"A"}, nil, "F", "F", true)
	require.Equal(t, 0.0, r.Score)
}

func TestXDropMatchesGreedyWhenUnbounded(t *testing.T) {
	left := []string{"A", "B", "C", "D", "E"}
	right := []string{"A", "X", "C", "D", "Y", "E"}
	g := Compare(Greedy, left, right, "F", "F", false)
	x := Compare(XDrop, left, right, "F", "F", false)
	require.InDelta(t, g.Score, x.Score, 1e-9)
}

func TestXDropRequestingScriptUpgradesToGreedy(t *testing.T) {
	left := []string{"A", "B", "C"}
	right := []string{"A", "C"}
	r := Compare(XDrop, left, right, "F", "F", true)
	require.Equal(t, []string{"1>1"}, r.Script)
}

func TestSymmetryWithMatchingLabels(t *testing.T) {
	left := []string{"A", "B", "C"}
	right := []string{"A", "X", "C", "D"}
	r1 := Compare(Greedy, left, right, "F", "F", false)
	r2 := Compare(Greedy, right, left, "F", "F", false)
	require.InDelta(t, r1.Score, r2.Score, 1e-9)
}
