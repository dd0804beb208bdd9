package engine

import (
	"sort"

	"gendasm/decoder"
	"gendasm/funcdesc"
	"gendasm/memory"
)

// maxDataRunLength bounds how many bytes one DataRecord line groups
// together, mirroring the teacher's disassemble.go convention of wrapping
// long data runs across multiple lines instead of one unbounded line.
const maxDataRunLength = 16

// Emit runs Phase 5 of spec.md §4.3: it walks mem in address order and
// renders the function-output-file format of spec.md §6, chunking
// instructions and embedded data into one funcdesc.Func per discovered
// function start and collecting everything else into top-level data
// blocks. dec re-decodes each CODE address (discovery already validated
// every one of them decodes cleanly, so errors here are unexpected).
func Emit(mem *memory.Blocks, dec decoder.Decoder, labels *memory.Labels, funcStarts []memory.Address) (*funcdesc.File, error) {
	starts := make(map[memory.Address]bool, len(funcStarts))
	for _, a := range funcStarts {
		starts[a] = true
	}

	out := &funcdesc.File{}
	var curFunc *funcdesc.Func
	var curBlock *funcdesc.DataBlock

	flushBlock := func() {
		if curBlock != nil && len(curBlock.Records) > 0 {
			out.DataBlock = append(out.DataBlock, *curBlock)
		}
		curBlock = nil
	}
	flushFunc := func() {
		if curFunc != nil {
			out.Functions = append(out.Functions, *curFunc)
		}
		curFunc = nil
	}

	for _, r := range mem.CoveredRanges() {
		addr := r.Start
		for addr < r.End() {
			desc, err := mem.Descriptor(addr)
			if err != nil {
				return nil, err
			}
			if !desc.Has(memory.Loaded) {
				addr++
				continue
			}

			if starts[addr] {
				flushBlock()
				flushFunc()
				curFunc = &funcdesc.Func{Addr: addr, Labels: labels.Names(addr)}
			}

			if desc.Has(memory.Code) {
				inst, err := dec.Decode(mem, addr)
				if err != nil {
					return nil, err
				}
				rec, err := buildInstructionRecord(mem, addr, inst, curFunc, labels)
				if err != nil {
					return nil, err
				}
				if curFunc == nil {
					// A CODE byte discovered with no enclosing function
					// (shouldn't happen via Discover, but Emit must stay
					// total over whatever mem it's given): open an
					// implicit one so the record still has a home.
					curFunc = &funcdesc.Func{Addr: addr, Labels: labels.Names(addr)}
				}
				curFunc.Members = append(curFunc.Members, rec)
				addr += memory.Address(inst.Length)
				continue
			}

			// DATA or ILLEGAL: a run of plain bytes, grouped up to
			// maxDataRunLength per line.
			runStart := addr
			runEnd := addr
			for runEnd < r.End() && runEnd-runStart < maxDataRunLength {
				d, err := mem.Descriptor(runEnd)
				if err != nil {
					return nil, err
				}
				if !d.Has(memory.Loaded) || d.Any(memory.Code) || starts[runEnd] && runEnd != runStart {
					break
				}
				runEnd++
			}

			runBytes := make([]byte, 0, runEnd-runStart)
			for a := runStart; a < runEnd; a++ {
				v, err := mem.Element(a)
				if err != nil {
					return nil, err
				}
				runBytes = append(runBytes, v)
			}

			if curFunc != nil {
				curFunc.Members = append(curFunc.Members, funcdesc.DataRecord{
					RelAddr: runStart - curFunc.Addr,
					AbsAddr: runStart,
					Labels:  labels.Names(runStart),
					Bytes:   runBytes,
				})
			} else {
				if curBlock == nil {
					curBlock = &funcdesc.DataBlock{Addr: runStart, Labels: labels.Names(runStart)}
				}
				curBlock.Records = append(curBlock.Records, funcdesc.DataRecord{
					RelAddr: runStart - curBlock.Addr,
					AbsAddr: runStart,
					Labels:  labels.Names(runStart),
					Bytes:   runBytes,
				})
			}
			addr = runEnd
		}
	}
	flushBlock()
	flushFunc()

	sort.Slice(out.Functions, func(i, j int) bool { return out.Functions[i].Addr < out.Functions[j].Addr })
	sort.Slice(out.DataBlock, func(i, j int) bool { return out.DataBlock[i].Addr < out.DataBlock[j].Addr })

	return out, nil
}

func buildInstructionRecord(mem *memory.Blocks, addr memory.Address, inst decoder.Instruction, fn *funcdesc.Func, labels *memory.Labels) (funcdesc.InstructionRecord, error) {
	all := make([]byte, inst.Length)
	for i := range all {
		v, err := mem.Element(addr + memory.Address(i))
		if err != nil {
			return funcdesc.InstructionRecord{}, err
		}
		all[i] = v
	}

	relAddr := addr
	if fn != nil {
		relAddr = addr - fn.Addr
	}

	rec := funcdesc.InstructionRecord{
		RelAddr:     relAddr,
		AbsAddr:     addr,
		Labels:      labels.Names(addr),
		All:         all,
		Opcode:      all[0],
		OperandByte: all[1:],
		Dst:         funcdesc.FormatOperand(inst.Dst),
		Src:         funcdesc.FormatOperand(inst.Src),
		Src2:        funcdesc.FormatOperand(inst.Src2),
		Mnemonic:    inst.Mnemonic,
		OperandText: inst.OperandText,
	}
	return rec, nil
}
