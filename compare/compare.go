// Package compare implements the fuzzy function comparator of spec.md §4.5:
// two DNA-alignment-derived algorithms (X-drop dynamic programming and a
// greedy edit-graph search) that score the similarity of two instruction
// token sequences and, for the greedy variant, recover an edit script.
// It is grounded on the original gendasm's funcanal/funccomp.cpp, which
// implements CompareFunctions/GetLastEditScript/DiffFunctions against the
// same Zhang-Schwartz-Wagner-Miller recurrences; this package returns the
// score and script directly from Compare instead of stashing the edit
// script in package-level state (spec.md §9 "Global edit-script handle").
package compare

// Scoring constants shared by both algorithms (spec.md §4.5).
const (
	mat = 2.0
	mis = -2.0
	ind = mis - mat/2 // -3
)

// Method selects which alignment algorithm Compare runs.
type Method int

const (
	// XDrop runs the X-drop dynamic-programming recurrence. It cannot
	// produce an edit script; a caller that asks for one is silently
	// upgraded to Greedy (spec.md §4.5.a).
	XDrop Method = iota
	// Greedy runs the greedy edit-graph search, which can produce both
	// the score and, on request, the edit script.
	Greedy
)

// Result is what Compare returns: a normalized similarity in [0,1] and,
// when requested, the edit script that transforms left into right.
type Result struct {
	Score  float64
	Script []string
}

// Compare scores left against right using method, applying the primary
// label penalty when leftLabel != rightLabel (spec.md §4.5 matchPenalty).
// buildScript requests the edit script; XDrop cannot produce one and is
// silently upgraded to Greedy when buildScript is true.
func Compare(method Method, left, right []string, leftLabel, rightLabel string, buildScript bool) Result {
	if len(left) == 0 || len(right) == 0 {
		// spec.md §8 boundary behavior: empty input on either side scores
		// 0 with an empty script, overriding what the raw alignment would
		// otherwise compute (an all-indel path).
		return Result{Score: 0, Script: nil}
	}

	matchPenalty := 0.0
	if leftLabel != rightLabel {
		matchPenalty = mat
	}

	effectiveMethod := method
	if method == XDrop && buildScript {
		effectiveMethod = Greedy
	}

	var raw float64
	var script []string
	switch effectiveMethod {
	case XDrop:
		raw = xdropRaw(left, right, -1)
	default:
		raw, script = greedyRaw(left, right, buildScript)
	}

	m, n := len(left), len(right)
	denom := float64(max(m, n)) * mat
	score := (raw - matchPenalty)
	if score < 0 {
		score = 0
	}
	score /= denom

	return Result{Score: score, Script: script}
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
