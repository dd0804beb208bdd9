package codec

import "math/rand"

// fillKind selects the strategy WriteDataFile uses for a byte the format is
// asked to serialize that carries no memory.Loaded bit (spec.md §6).
type fillKind int

const (
	fillNone fillKind = iota
	fillAlways
	fillConditional
	fillAlwaysRandom
	fillConditionalRandom
)

// FillPolicy controls how WriteDataFile handles an unloaded byte inside a
// requested range. The "conditional" variants only fill a byte that lies
// strictly between two loaded bytes (an internal gap); they leave leading
// and trailing padding around a range untouched, which the "always"
// variants fill unconditionally.
type FillPolicy struct {
	kind  fillKind
	value byte
	rng   *rand.Rand
}

// NoFill refuses to pad gaps: a format that cannot represent a gap natively
// (binaryfmt) fails with errs.WriteFailed when it meets one.
func NoFill() FillPolicy { return FillPolicy{kind: fillNone} }

// AlwaysFillWith pads every unloaded byte in the requested ranges, leading
// and trailing padding included, with value.
func AlwaysFillWith(value byte) FillPolicy { return FillPolicy{kind: fillAlways, value: value} }

// ConditionalFillWith pads only internal gaps (an unloaded byte with a
// loaded byte somewhere before and after it within the same range) with
// value; leading/trailing padding is left unfilled.
func ConditionalFillWith(value byte) FillPolicy {
	return FillPolicy{kind: fillConditional, value: value}
}

// AlwaysFillWithRandom is AlwaysFillWith, drawing each filler byte from rng
// instead of a fixed value. rng must be supplied by the caller (never
// wall-clock seeded) so runs are reproducible when the caller wants that.
func AlwaysFillWithRandom(rng *rand.Rand) FillPolicy {
	return FillPolicy{kind: fillAlwaysRandom, rng: rng}
}

// ConditionalFillWithRandom is ConditionalFillWith, drawing each filler byte
// from rng.
func ConditionalFillWithRandom(rng *rand.Rand) FillPolicy {
	return FillPolicy{kind: fillConditionalRandom, rng: rng}
}

func (f FillPolicy) fillerByte() byte {
	if f.rng != nil {
		return byte(f.rng.Intn(256))
	}
	return f.value
}

// Resolve decides, for the byte at position i (0-based) within a
// contiguous run where loaded reports per-position load state, whether a
// filler byte should be emitted, and if so what value. shouldFill=false means
// "leave this byte out" (NoFill, or a conditional policy outside an
// internal gap) — callers for record-oriented formats simply start a new
// record after such a byte; binaryfmt, which cannot skip a byte in a flat
// stream, turns it into errs.WriteFailed.
func (f FillPolicy) Resolve(loaded []bool, i int) (value byte, shouldFill bool) {
	if loaded[i] {
		return 0, false
	}
	switch f.kind {
	case fillNone:
		return 0, false
	case fillAlways, fillAlwaysRandom:
		return f.fillerByte(), true
	case fillConditional, fillConditionalRandom:
		if isInternalGap(loaded, i) {
			return f.fillerByte(), true
		}
		return 0, false
	default:
		return 0, false
	}
}

func isInternalGap(loaded []bool, i int) bool {
	before, after := false, false
	for k := i - 1; k >= 0; k-- {
		if loaded[k] {
			before = true
			break
		}
	}
	for k := i + 1; k < len(loaded); k++ {
		if loaded[k] {
			after = true
			break
		}
	}
	return before && after
}
