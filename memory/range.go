package memory

import "sort"

// Range is a half-open [Start, Start+Size) interval of addresses.
type Range struct {
	Start Address
	Size  uint64
}

// End returns the exclusive end address of the range.
func (r Range) End() Address {
	return Address(uint64(r.Start) + r.Size)
}

// touchesOrOverlaps reports whether r and o share at least one address, or touch
// (r.End() == o.Start or vice versa), making them mergeable by Compact.
func (r Range) touchesOrOverlaps(o Range) bool {
	return uint64(r.Start) <= uint64(o.End()) && uint64(o.Start) <= uint64(r.End())
}

// RangeList is an ordered collection of address ranges, e.g. the set of
// regions a codec found mapped in an input file.
type RangeList struct {
	ranges []Range
}

// PushRange appends r to the list, unsorted and possibly overlapping.
func (l *RangeList) PushRange(r Range) {
	l.ranges = append(l.ranges, r)
}

// Ranges returns the current (unordered unless Sort/Compact has been
// called) slice of ranges.
func (l *RangeList) Ranges() []Range {
	return l.ranges
}

// Len reports the number of ranges currently stored.
func (l *RangeList) Len() int {
	return len(l.ranges)
}

// Sort orders the ranges ascending by start address.
func (l *RangeList) Sort() {
	sort.Slice(l.ranges, func(i, j int) bool {
		return l.ranges[i].Start < l.ranges[j].Start
	})
}

// RemoveOverlaps punches out duplicated coverage: the list is first sorted
// by start address, and when two ranges overlap, the one that sorts later is
// trimmed or dropped so that no address is covered twice. The list stays
// sorted afterwards.
func (l *RangeList) RemoveOverlaps() {
	l.Sort()
	out := l.ranges[:0:0]
	for _, r := range l.ranges {
		if len(out) == 0 {
			out = append(out, r)
			continue
		}
		last := &out[len(out)-1]
		if r.Start >= last.End() {
			out = append(out, r)
			continue
		}
		if r.End() <= last.End() {
			// Fully contained in the previous range; drop it.
			continue
		}
		// Partial overlap: trim the new range's head off and keep the rest.
		newStart := last.End()
		out = append(out, Range{Start: newStart, Size: uint64(r.End()) - uint64(newStart)})
	}
	l.ranges = out
}

// Compact merges touching or overlapping ranges into the minimal disjoint,
// ascending-sorted covering set. After Compact, the invariant of spec.md §3
// holds: ranges are disjoint and strictly ascending, and their union equals
// the union of the original ranges.
func (l *RangeList) Compact() {
	l.Sort()
	if len(l.ranges) == 0 {
		return
	}
	out := make([]Range, 0, len(l.ranges))
	cur := l.ranges[0]
	for _, r := range l.ranges[1:] {
		if cur.touchesOrOverlaps(r) {
			end := cur.End()
			if r.End() > end {
				end = r.End()
			}
			cur.Size = uint64(end) - uint64(cur.Start)
			continue
		}
		out = append(out, cur)
		cur = r
	}
	out = append(out, cur)
	l.ranges = out
}

// HighestAddress returns the highest address covered by any range (i.e. the
// maximum End()-1), or 0 if the list is empty.
func (l *RangeList) HighestAddress() Address {
	var highest Address
	found := false
	for _, r := range l.ranges {
		if r.Size == 0 {
			continue
		}
		end := r.End() - 1
		if !found || end > highest {
			highest = end
			found = true
		}
	}
	return highest
}

// Covers reports whether addr falls within any range in the list.
func (l *RangeList) Covers(addr Address) bool {
	for _, r := range l.ranges {
		if addr >= r.Start && addr < r.End() {
			return true
		}
	}
	return false
}
