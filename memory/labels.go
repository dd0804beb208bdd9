package memory

import "fmt"

// Labels tracks the ordered set of names associated with each address. The
// first name added for an address is its primary label (spec.md §3).
// Labels arise from the input file, from discovery synthesizing a name for
// every referenced-but-unnamed address, or from a user-supplied label file;
// all three paths call AddLabel, so the usual discipline of "primary label
// wins" falls out of call order (input/user labels are added before
// discovery runs).
type Labels struct {
	names map[Address][]string
	order []Address
}

// NewLabels creates an empty label table.
func NewLabels() *Labels {
	return &Labels{names: make(map[Address][]string)}
}

// AddLabel appends name to addr's name list if it isn't already present.
func (l *Labels) AddLabel(addr Address, name string) {
	existing := l.names[addr]
	for _, n := range existing {
		if n == name {
			return
		}
	}
	if len(existing) == 0 {
		l.order = append(l.order, addr)
	}
	l.names[addr] = append(existing, name)
}

// Names returns the ordered name list for addr, or nil if it has none.
func (l *Labels) Names(addr Address) []string {
	return l.names[addr]
}

// HasLabel reports whether addr has at least one name.
func (l *Labels) HasLabel(addr Address) bool {
	return len(l.names[addr]) > 0
}

// PrimaryName returns the first name recorded for addr, or "" if it has
// none.
func (l *Labels) PrimaryName(addr Address) string {
	names := l.names[addr]
	if len(names) == 0 {
		return ""
	}
	return names[0]
}

// Addresses returns every labeled address, in the order labels were first
// added to each.
func (l *Labels) Addresses() []Address {
	out := make([]Address, len(l.order))
	copy(out, l.order)
	return out
}

// SynthesizeName produces a default label name for an address that was
// discovered (e.g. as a branch target) but has no name of its own yet,
// per spec.md §4.3 Phase 4.
func SynthesizeName(addr Address) string {
	return fmt.Sprintf("L%04X", uint32(addr))
}

// EnsureLabel guarantees addr has at least one name, synthesizing one with
// SynthesizeName if it has none. It returns the (possibly pre-existing)
// primary name.
func (l *Labels) EnsureLabel(addr Address) string {
	if l.HasLabel(addr) {
		return l.PrimaryName(addr)
	}
	name := SynthesizeName(addr)
	l.AddLabel(addr, name)
	return name
}
