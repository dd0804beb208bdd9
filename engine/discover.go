// Package engine implements the code-seeking discovery and emission passes
// of spec.md §4.3: a worklist-driven control-flow discoverer that
// interprets opcodes via a pluggable decoder.Decoder, classifies every byte
// of loaded memory as code, data, or illegal, and emits labeled textual
// output. It generalizes the teacher's single-pass findBranchTargets() +
// Disassemble() (disassemble.go) into the full five-phase pipeline.
package engine

import (
	"gendasm/decoder"
	"gendasm/memory"
	"gendasm/msglog"
)

// FuncStart is the user-defined descriptor bit marking an address as the
// start of a function: either a user-supplied entry point or a call target
// (spec.md §4.3 tie-break table: "call... Target enqueued: yes, at target,
// flagged function-start").
var FuncStart = memory.UserBit(0)

type workItem struct {
	addr      memory.Address
	funcStart bool
}

// Discover runs Phases 1-4 of spec.md §4.3 over mem: entry collection,
// worklist-driven decoding, data reclassification, and label synthesis.
// entries seeds the initial work set (Phase 1); dec supplies the per-CPU
// decoding rules (spec.md §4.2); labels records/synthesizes names; log
// receives every non-fatal per-address condition (ILLEGAL decode,
// misaligned branch target, undeterminable indirect branch) per spec.md §7.
//
// It returns the set of discovered function-start addresses, used by Emit
// to chunk Phase 5's output into function blocks.
func Discover(mem *memory.Blocks, dec decoder.Decoder, entries []memory.Address, labels *memory.Labels, log *msglog.Log) ([]memory.Address, error) {
	d := &discovery{mem: mem, dec: dec, labels: labels, log: log}

	// Phase 1: entry collection. Every user-supplied entry is also a
	// function start.
	for _, e := range entries {
		d.enqueue(e, true)
	}

	// Phase 2: discovery.
	if err := d.run(); err != nil {
		return nil, err
	}

	// Phase 3: data reclassification. Any LOADED byte not marked CODE or
	// CODE_CONT after discovery defaults to DATA.
	for _, r := range mem.CoveredRanges() {
		for a := r.Start; a < r.End(); a++ {
			desc, err := mem.Descriptor(a)
			if err != nil {
				return nil, err
			}
			if desc.Has(memory.Loaded) && !desc.Any(memory.Code|memory.CodeCont) {
				if err := mem.OrDescriptor(a, memory.Data); err != nil {
					return nil, err
				}
			}
		}
	}

	return d.funcStarts, nil
}

type discovery struct {
	mem        *memory.Blocks
	dec        decoder.Decoder
	labels     *memory.Labels
	log        *msglog.Log
	queue      []workItem
	funcStarts []memory.Address
}

func (d *discovery) enqueue(addr memory.Address, funcStart bool) {
	d.queue = append(d.queue, workItem{addr: addr, funcStart: funcStart})
}

func (d *discovery) run() error {
	for len(d.queue) > 0 {
		item := d.queue[0]
		d.queue = d.queue[1:]

		if err := d.process(item); err != nil {
			return err
		}
	}
	return nil
}

func (d *discovery) process(item workItem) error {
	addr := item.addr

	if !d.mem.Covered(addr) {
		// Branch target lies outside loaded memory (spec.md §8 Scenario
		// F): synthesize a label, do not decode.
		d.labels.EnsureLabel(addr)
		return nil
	}

	desc, err := d.mem.Descriptor(addr)
	if err != nil {
		return err
	}

	if desc.Has(memory.Code) {
		// Already the start of a decoded instruction; nothing to do.
		d.markFuncStart(addr, item.funcStart)
		return nil
	}
	if desc.Has(memory.CodeCont) {
		// Reached as a branch target in the middle of an already-decoded
		// instruction: report, but the existing decoding stands (spec.md
		// §4.3 tie-breaks, and §9 Open Question: re-disassembly from here
		// is left to the implementer; this implementation does not).
		d.log.Recordf(msglog.Warning, addr, "branch target is misaligned: falls inside an already-decoded instruction")
		return nil
	}

	inst, err := d.dec.Decode(d.mem, addr)
	if err != nil {
		return err
	}

	if inst.Flow == decoder.IllegalFlow {
		if err := d.mem.OrDescriptor(addr, memory.Loaded|memory.Illegal); err != nil {
			return err
		}
		d.log.Recordf(msglog.Warning, addr, "illegal/unrecognized opcode")
		return nil
	}

	if err := d.markInstruction(addr, inst.Length); err != nil {
		return err
	}
	d.markFuncStart(addr, item.funcStart)

	switch inst.Flow {
	case decoder.Sequential:
		d.enqueue(inst.FallThrough, false)

	case decoder.ConditionalBranch:
		d.enqueue(inst.FallThrough, false)
		d.enqueueTarget(inst)

	case decoder.UnconditionalBranch:
		d.enqueueTarget(inst)

	case decoder.Call:
		d.enqueue(inst.FallThrough, false)
		d.enqueueTargetAsFuncStart(inst)

	case decoder.Return:
		// No fall-through, no target.

	case decoder.IndirectBranch:
		for _, t := range inst.Targets {
			if !t.Determinable {
				d.log.Recordf(msglog.Info, addr, "undeterminable indirect branch target: %s", t.Comment)
			}
		}
		// Fall-through only if the next byte is already labeled (spec.md
		// §4.3 tie-break table).
		if d.labels.HasLabel(inst.FallThrough) {
			d.enqueue(inst.FallThrough, false)
		}
	}

	return nil
}

func (d *discovery) markInstruction(addr memory.Address, length uint) error {
	if err := d.mem.OrDescriptor(addr, memory.Loaded|memory.Code); err != nil {
		return err
	}
	for i := memory.Address(1); i < memory.Address(length); i++ {
		if err := d.mem.OrDescriptor(addr+i, memory.Loaded|memory.CodeCont); err != nil {
			return err
		}
	}
	return nil
}

func (d *discovery) markFuncStart(addr memory.Address, isFuncStart bool) {
	if !isFuncStart {
		return
	}
	desc, err := d.mem.Descriptor(addr)
	if err == nil && desc.Has(FuncStart) {
		return
	}
	d.mem.OrDescriptor(addr, FuncStart)
	d.labels.EnsureLabel(addr)
	d.funcStarts = append(d.funcStarts, addr)
}

func (d *discovery) enqueueTarget(inst decoder.Instruction) {
	for _, t := range inst.Targets {
		if !t.Determinable {
			continue
		}
		d.labels.EnsureLabel(t.Address)
		d.enqueue(t.Address, false)
	}
}

func (d *discovery) enqueueTargetAsFuncStart(inst decoder.Instruction) {
	for _, t := range inst.Targets {
		if !t.Determinable {
			continue
		}
		d.labels.EnsureLabel(t.Address)
		d.enqueue(t.Address, true)
	}
}
