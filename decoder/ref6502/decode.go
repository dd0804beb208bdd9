package ref6502

import (
	"fmt"

	"gendasm/decoder"
	"gendasm/memory"
)

// Decoder implements decoder.Decoder for the 6502, adapted from the
// teacher's opcodes.go decode()/findBranchTargets() logic and
// disassemble.go's documented/undocumented/will-assemble-identically
// handling.
type Decoder struct{}

// New returns a ready-to-use 6502 decoder.
func New() *Decoder { return &Decoder{} }

func (d *Decoder) Name() string { return "ref6502" }

func u16(lo, hi byte) memory.Address {
	return memory.Address(uint32(hi)<<8 | uint32(lo))
}

func (d *Decoder) Decode(mem *memory.Blocks, addr memory.Address) (decoder.Instruction, error) {
	b0, err := mem.Element(addr)
	if err != nil {
		return decoder.Instruction{}, err
	}

	op, ok := opcodesByValue[b0]
	if !ok {
		return decoder.Instruction{Length: 1, Flow: decoder.IllegalFlow, Mnemonic: "???"}, nil
	}

	raw := make([]byte, op.Length)
	for i := uint(0); i < op.Length; i++ {
		v, err := mem.Element(addr + memory.Address(i))
		if err != nil {
			// Instruction crosses an unloaded boundary: refuse to decode,
			// the byte becomes ILLEGAL (spec.md §4.3 edge case).
			return decoder.Instruction{Length: 1, Flow: decoder.IllegalFlow, Mnemonic: "???"}, nil
		}
		raw[i] = v
	}

	inst := decoder.Instruction{
		Length:      op.Length,
		Mnemonic:    op.Name,
		FallThrough: addr + memory.Address(op.Length),
	}

	switch {
	case op.Value == opJSRAbsolute:
		tgt := u16(raw[1], raw[2])
		inst.Flow = decoder.Call
		inst.Dst = &decoder.Operand{Kind: decoder.AbsoluteCode, Value: tgt}
		inst.OperandText = fmt.Sprintf("$%04X", uint32(tgt))
		inst.Targets = []decoder.Target{{Determinable: true, Address: tgt}}

	case op.Value == opJMPAbsolute:
		tgt := u16(raw[1], raw[2])
		inst.Flow = decoder.UnconditionalBranch
		inst.Dst = &decoder.Operand{Kind: decoder.AbsoluteCode, Value: tgt}
		inst.OperandText = fmt.Sprintf("$%04X", uint32(tgt))
		inst.Targets = []decoder.Target{{Determinable: true, Address: tgt}}

	case op.Value == opJMPIndirect:
		ptr := u16(raw[1], raw[2])
		inst.Flow = decoder.IndirectBranch
		inst.Dst = &decoder.Operand{Kind: decoder.AbsoluteData, Value: ptr}
		inst.OperandText = fmt.Sprintf("($%04X)", uint32(ptr))
		inst.Targets = []decoder.Target{{Determinable: false, Comment: "indirect jump, target not known until execution"}}

	case op.branchOrJump() == "branch":
		off := int(int8(raw[1]))
		tgt := memory.Address(int64(addr) + int64(op.Length) + int64(off))
		inst.Flow = decoder.ConditionalBranch
		inst.Src = &decoder.Operand{Kind: decoder.RelativeCode, Value: tgt, RelOffset: off}
		inst.OperandText = fmt.Sprintf("$%04X", uint32(tgt))
		inst.Targets = []decoder.Target{{Determinable: true, Address: tgt}}

	case op.Name == "RTS" || op.Name == "RTI":
		inst.Flow = decoder.Return

	default:
		inst.Flow = decoder.Sequential
		if operand, text := decodeOperand(op, raw); operand != nil {
			inst.Dst = operand
			inst.OperandText = text
		}
	}

	return inst, nil
}

// decodeOperand handles every addressing mode that isn't a branch or an
// absolute jump/call, mirroring the teacher's decode() switch on AddrMode.
func decodeOperand(op opcode, raw []byte) (*decoder.Operand, string) {
	switch op.AddrMode {
	case modeNone, modeAccumulator:
		return nil, ""
	case modeImmediate:
		return &decoder.Operand{Kind: decoder.Immediate, Value: memory.Address(raw[1])}, fmt.Sprintf("#$%02X", raw[1])
	case modeZeroPage:
		addr := memory.Address(raw[1])
		return &decoder.Operand{Kind: decoder.AbsoluteData, Value: addr}, fmt.Sprintf("$%02X", raw[1])
	case modeZeroPageX:
		return &decoder.Operand{Kind: decoder.RegisterOffsetData, RegisterOffset: uint(raw[1]), Register: "X"},
			fmt.Sprintf("$%02X,X", raw[1])
	case modeZeroPageY:
		return &decoder.Operand{Kind: decoder.RegisterOffsetData, RegisterOffset: uint(raw[1]), Register: "Y"},
			fmt.Sprintf("$%02X,Y", raw[1])
	case modeAbsolute:
		addr := u16(raw[1], raw[2])
		return &decoder.Operand{Kind: decoder.AbsoluteData, Value: addr}, fmt.Sprintf("$%04X", uint32(addr))
	case modeIndirect:
		addr := u16(raw[1], raw[2])
		return &decoder.Operand{Kind: decoder.AbsoluteData, Value: addr}, fmt.Sprintf("($%04X)", uint32(addr))
	case modeAbsoluteX:
		addr := u16(raw[1], raw[2])
		return &decoder.Operand{Kind: decoder.RegisterOffsetData, RegisterOffset: uint(addr), Register: "X"},
			fmt.Sprintf("$%04X,X", uint32(addr))
	case modeAbsoluteY:
		addr := u16(raw[1], raw[2])
		return &decoder.Operand{Kind: decoder.RegisterOffsetData, RegisterOffset: uint(addr), Register: "Y"},
			fmt.Sprintf("$%04X,Y", uint32(addr))
	case modeIndirectX:
		return &decoder.Operand{Kind: decoder.RegisterOffsetData, RegisterOffset: uint(raw[1]), Register: "X"},
			fmt.Sprintf("($%02X,X)", raw[1])
	case modeIndirectY:
		return &decoder.Operand{Kind: decoder.RegisterOffsetData, RegisterOffset: uint(raw[1]), Register: "Y"},
			fmt.Sprintf("($%02X),Y", raw[1])
	default:
		return nil, ""
	}
}
