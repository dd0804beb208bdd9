// Package decoder defines the per-CPU decoder contract of spec.md §4.2. A
// Decoder is pure with respect to memory: it reads bytes but writes no
// descriptor bits; classification and discovery belong to the engine.
package decoder

import "gendasm/memory"

// ControlFlow classifies an instruction's effect on the address of
// execution, per spec.md §4.2/§4.3.
type ControlFlow int

const (
	Sequential ControlFlow = iota
	ConditionalBranch
	UnconditionalBranch
	Call
	Return
	IndirectBranch
	IllegalFlow
)

// OperandKind enumerates the seven tagged operand-reference shapes of
// spec.md §3/§6. A sum type here replaces a polymorphic operand hierarchy
// per spec.md §9.
type OperandKind int

const (
	Immediate OperandKind = iota
	AbsoluteCode
	RelativeCode
	RegisterOffsetCode
	AbsoluteData
	RelativeData
	RegisterOffsetData
)

// Operand is a single tagged operand reference.
type Operand struct {
	Kind OperandKind

	// Value holds the immediate value (Immediate) or the resolved absolute
	// address (AbsoluteCode/AbsoluteData/RelativeCode/RelativeData).
	Value memory.Address

	// RelOffset is the signed displacement for RelativeCode/RelativeData,
	// carried alongside the resolved Value for display purposes.
	RelOffset int

	// RegisterOffset/Register describe RegisterOffsetCode/Data operands,
	// e.g. "2,X" -> RegisterOffset=2, Register="X".
	RegisterOffset uint
	Register       string

	// Mask is the operand's value mask, when the instruction set encodes
	// one (e.g. a bit-test instruction operating on a subset of a byte).
	Mask *uint32
}

// Target describes a decoded instruction's control-flow destination. It is
// either a determinable absolute address, or "undeterminable" with a
// rationale comment (spec.md §4.2 item 3).
type Target struct {
	Determinable bool
	Address      memory.Address
	Comment      string
}

// Instruction is everything the engine needs to know about one decoded
// instruction, independent of any particular CPU's opcode encoding.
type Instruction struct {
	Length      uint
	Mnemonic    string
	OperandText string
	Group       string // addressing-mode family, CPU-specific free text
	Flow        ControlFlow

	Dst  *Operand
	Src  *Operand
	Src2 *Operand

	// FallThrough is the address immediately following this instruction,
	// filled in by the decoder for convenience (Addr+Length).
	FallThrough memory.Address

	// Targets lists every control-flow target this instruction can
	// transfer to (at most one for everything except instructions that
	// branch and call, in which case both the target and the fallthrough
	// are reported by the caller separately per the tie-break table).
	Targets []Target
}

// Decoder decodes one instruction at a given address in loaded memory. One
// instance exists per supported CPU.
type Decoder interface {
	// Name identifies the CPU this decoder targets, e.g. "ref6502".
	Name() string

	// Decode classifies and decodes the instruction at addr. It returns an
	// error only for conditions outside the instruction stream itself
	// (e.g. addr not covered by mem); an unrecognized opcode is reported
	// via Instruction.Flow == IllegalFlow, not an error, so that the
	// engine can mark the byte ILLEGAL and continue (spec.md §4.3 Failure
	// semantics: per-instruction decode failure is local).
	Decode(mem *memory.Blocks, addr memory.Address) (Instruction, error)
}
