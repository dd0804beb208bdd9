package compare

import "math"

const negInf = math.MinInt32

// xdropRaw computes the raw (un-normalized) best alignment score between a
// and b via the X-drop dynamic-programming recurrence of spec.md §4.5.a: a
// score table S[i][j] expanded antidiagonal by antidiagonal (k = i+j,
// increasing), with cells more than X below the best score seen so far
// pruned to -Inf. X < 0 is the sentinel for "no clipping" (X = ∞ in spec
// terms); every cell is then filled. The returned value is Tp, the best
// score of any cell, which for unbounded X equals the raw score greedyRaw
// returns for the same input (spec.md §8 testable property 7).
//
// The table is a single row-major slice, per spec.md §9's preference for a
// 1D array over a manually allocated 2D one.
func xdropRaw(a, b []string, x int) float64 {
	m, n := len(a), len(b)
	width := n + 1
	dp := make([]float64, (m+1)*width)

	idx := func(i, j int) int { return i*width + j }

	dp[idx(0, 0)] = 0
	for i := 1; i <= m; i++ {
		dp[idx(i, 0)] = float64(i) * ind
	}
	for j := 1; j <= n; j++ {
		dp[idx(0, j)] = float64(j) * ind
	}

	// T is the pruning threshold, frozen for the whole of one antidiagonal
	// (spec.md §4.5.a: "T <- T'" runs once, after the diagonal's repeat-loop
	// body finishes, and every cell of the *next* diagonal prunes against
	// that same frozen value). Tp is the running best-ever score, updated
	// unconditionally as each cell is computed, before that cell's own
	// pruning check is applied.
	t := 0.0
	tp := 0.0
	unbounded := x < 0

	for s := 1; s <= m+n; s++ {
		lo := 0
		if s-n > lo {
			lo = s - n
		}
		hi := m
		if s < hi {
			hi = s
		}
		for i := lo; i <= hi; i++ {
			j := s - i
			if i == 0 || j == 0 {
				continue // boundary row/column already initialized above
			}

			diagScore := dp[idx(i-1, j-1)] + substScore(a[i-1], b[j-1])
			upScore := dp[idx(i-1, j)] + ind
			leftScore := dp[idx(i, j-1)] + ind

			v := diagScore
			if upScore > v {
				v = upScore
			}
			if leftScore > v {
				v = leftScore
			}

			if v > tp {
				tp = v
			}
			if !unbounded && v < t-float64(x) {
				v = negInf
			}
			dp[idx(i, j)] = v
		}
		// Every cell of diagonal s pruned against t; only now does the
		// threshold advance to this diagonal's running best, for s+1.
		t = tp
	}

	return tp
}

func substScore(x, y string) float64 {
	if x == y {
		return mat
	}
	return mis
}
