package compare

import "fmt"

// greedyRaw computes the raw alignment score, and optionally the edit
// script, between a and b via the greedy edit-graph search of spec.md
// §4.5.b: a table R(d, k) indexed by difference-count d and diagonal
// k = i-j, where R(d, k) holds the furthest i reached on diagonal k using
// exactly d differences. Each round explores a band of diagonals [L-1, U+1],
// extends every candidate along its diagonal as far as a(i+1) = b(j+1)
// allows (a "snake"), then narrows the band to the diagonals that are still
// live. The search stops once the band empties out (L > U+2).
//
// Grounded on the gendasm FCM_DYNPROG_GREEDY case, itself Figure 4 of
// Zhang/Schwartz/Wagner/Miller's "A Greedy Algorithm for Aligning DNA
// Sequences" (2000) — "equivalent to [X-drop] if ind = mis - mat/2", which is
// exactly how the ind constant here is defined. This package always runs it
// unbounded (X = infinity, spec.md's only tested value for this routine),
// which drops the source's clipping check entirely: a candidate is live
// whenever it falls inside both sequences, full stop.
//
// X-drop (xdrop.go) keeps the separate S[i][j] antidiagonal recurrence of
// spec.md §4.5.a; the two stay algorithmically distinct rather than sharing
// one routine under two names.
func greedyRaw(a, b []string, buildScript bool) (float64, []string) {
	m, n := len(a), len(b)

	i := 0
	for i < m && i < n && a[i] == b[i] {
		i++
	}

	sp := func(x, d int) float64 { return float64(x)*(mat/2) - float64(d)*(mat-mis) }
	tp := sp(i+i, 0)

	if i == m && i == n {
		return tp, nil // identical sequences: no differences, no script
	}

	// kmax bounds how far a diagonal can wander from the main one; dmax
	// bounds how many rounds of differences the search can take. Both are
	// generous worst-case sizes, as in the source.
	kmax := m + n + 1
	dmax := 2*(m+n) + 1
	const noPath = -2 // stays negative through "+1", so an invalid cell never looks like a valid index

	r := make([][]int, dmax)
	rvisitmin := make([]int, dmax)
	rvisitmax := make([]int, dmax)
	for dd := range r {
		row := make([]int, 2*kmax+1)
		for k := range row {
			row[k] = noPath
		}
		r[dd] = row
		rvisitmin[dd] = kmax + 1
		rvisitmax[dd] = -kmax - 1
	}
	getR := func(dd, k int) int { return r[dd][k+kmax] }
	setR := func(dd, k, v int) { r[dd][k+kmax] = v }

	setR(0, 0, i)
	rvisitmin[0], rvisitmax[0] = 0, 0

	d, l, u := 0, 0, 0
	dbest, kbest := 0, 0

	for {
		d++
		tpp := tp - 1 // any real candidate this round beats this
		haveCandidate := false

		for k := l - 1; k <= u+1; k++ {
			ci := noPath
			if l < k {
				if v := getR(d-1, k-1) + 1; v > ci {
					ci = v
				}
			}
			if l <= k && k <= u {
				if v := getR(d-1, k) + 1; v > ci {
					ci = v
				}
			}
			if k < u {
				if v := getR(d-1, k+1); v > ci {
					ci = v
				}
			}
			cj := ci - k

			if ci < 0 || cj < 0 {
				setR(d, k, noPath)
				continue
			}

			for ci < m && cj < n && a[ci] == b[cj] {
				ci++
				cj++
			}
			setR(d, k, ci)
			if k < rvisitmin[d] {
				rvisitmin[d] = k
			}
			if k > rvisitmax[d] {
				rvisitmax[d] = k
			}

			score := sp(ci+cj, d)
			if score > tp {
				tp = score
			}
			if !haveCandidate || score > tpp {
				haveCandidate = true
				tpp = score
				dbest, kbest = d, k
				// Boundary overshoot: a snake that ran past M or N means
				// the true endpoint sits one diagonal over from k.
				if ci != m || cj != n {
					if cj > n {
						kbest++
					} else if ci > m {
						kbest--
					}
				}
			}
		}

		l, u = rvisitmin[d], rvisitmax[d]

		for k := rvisitmax[d]; k >= rvisitmin[d]; k-- {
			if getR(d, k) == n+k {
				if k+1 > l {
					l = k + 1
				}
				break
			}
		}
		for k := rvisitmin[d]; k <= rvisitmax[d]; k++ {
			if getR(d, k) == m {
				if k-1 < u {
					u = k - 1
				}
				break
			}
		}

		if l > u+2 {
			break
		}
	}

	if !buildScript || dbest == 0 {
		return tp, nil
	}

	k := kbest
	lastI, lastJ := m+1, n+1
	var reversed []string
	for dd := dbest - 1; dd >= 0; dd-- {
		ci := getR(dd, k-1) + 1
		if v := getR(dd, k) + 1; v > ci {
			ci = v
		}
		if v := getR(dd, k+1); v > ci {
			ci = v
		}
		cj := ci - k

		var op string
		var curI, curJ int
		var replace bool
		switch {
		case ci == getR(dd, k-1)+1:
			op = fmt.Sprintf("%d>%d", ci-1, cj)
			curI, curJ = ci-1, cj
			k--
		case ci == getR(dd, k+1):
			op = fmt.Sprintf("%d<%d", ci, cj-1)
			curI, curJ = ci, cj-1
			k++
		default: // ci == getR(dd, k)+1
			op = fmt.Sprintf("%d-%d", ci-1, cj-1)
			curI, curJ = ci-1, cj-1
			replace = true
		}

		if !(replace && curI == lastI && curJ == lastJ) {
			reversed = append(reversed, op)
		}
		lastI, lastJ = curI, curJ
	}

	script := make([]string, len(reversed))
	for idx, op := range reversed {
		script[len(reversed)-1-idx] = op
	}

	return tp, script
}
