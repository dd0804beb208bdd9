package compare

import (
	"fmt"
	"strconv"
	"strings"
)

// SymbolMap records known left<->right object (symbol/label) correspondences
// so Diff can tell a genuine content difference (`--`) from a recognized
// rename (`->`), e.g. when the same function was reassembled under a new
// label.
type SymbolMap struct {
	leftToRight map[string]string
}

// NewSymbolMap creates an empty map.
func NewSymbolMap() *SymbolMap {
	return &SymbolMap{leftToRight: make(map[string]string)}
}

// AddObjectMapping records that leftSymbol on the left corresponds to
// rightSymbol on the right.
func (s *SymbolMap) AddObjectMapping(leftSymbol, rightSymbol string) {
	s.leftToRight[leftSymbol] = rightSymbol
}

func (s *SymbolMap) mapsTo(leftSymbol, rightSymbol string) bool {
	if s == nil {
		return false
	}
	return s.leftToRight[leftSymbol] == rightSymbol
}

type scriptOp struct {
	a, b int
	kind byte // '-', '>', '<'
}

func parseScript(script []string) []scriptOp {
	ops := make([]scriptOp, 0, len(script))
	for _, s := range script {
		for _, sep := range []byte{'-', '>', '<'} {
			if idx := strings.IndexByte(s, sep); idx >= 0 {
				a, errA := strconv.Atoi(s[:idx])
				b, errB := strconv.Atoi(s[idx+1:])
				if errA == nil && errB == nil {
					ops = append(ops, scriptOp{a: a, b: b, kind: sep})
				}
				break
			}
		}
	}
	return ops
}

// Diff renders a two-column comparison of left against right given the edit
// script Compare returned, per spec.md §4.5.c: ` == ` for exact matches,
// ` -- ` for same-position differences, ` -> ` when symbols recognizes the
// differing pair as the same renamed object, ` << ` for right-only lines,
// ` >> ` for left-only lines.
func Diff(left, right []string, script []string, leftName, rightName string, symbols *SymbolMap) string {
	ops := parseScript(script)
	opPtr := 0

	var sb strings.Builder
	fmt.Fprintf(&sb, "--- %s\n+++ %s\n", leftName, rightName)

	i, j := 0, 0
	for i < len(left) || j < len(right) {
		if opPtr < len(ops) {
			op := ops[opPtr]
			if op.a == i && op.b == j {
				switch op.kind {
				case '-':
					sep := " -- "
					if symbols.mapsTo(left[i], right[j]) {
						sep = " -> "
					}
					fmt.Fprintf(&sb, "%s%s%s\n", left[i], sep, right[j])
					i++
					j++
				case '>':
					fmt.Fprintf(&sb, "%s >> \n", left[i])
					i++
				case '<':
					fmt.Fprintf(&sb, " << %s\n", right[j])
					j++
				}
				opPtr++
				continue
			}
		}
		if i < len(left) && j < len(right) {
			fmt.Fprintf(&sb, "%s == %s\n", left[i], right[j])
			i++
			j++
		} else if i < len(left) {
			fmt.Fprintf(&sb, "%s >> \n", left[i])
			i++
		} else {
			fmt.Fprintf(&sb, " << %s\n", right[j])
			j++
		}
	}

	return sb.String()
}
