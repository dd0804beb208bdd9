// Package funcdesc reads and writes the function output file format of
// spec.md §6 — the boundary between the code-seeking engine (D) and the
// fuzzy function comparator (F). It is grounded on the original gendasm's
// funcanal/funcdesc.cpp, which documents this exact record grammar in its
// header comment, translated here into typed records and explicit error
// returns instead of stream operators and exceptions.
package funcdesc

import (
	"fmt"

	"gendasm/memory"
)

// Region is a `#type|addr|size` memory-region record.
type Region struct {
	Type memory.RegionType
	Addr memory.Address
	Size uint64
}

// LabelDecl is a `!addr|labels` or `!type|addr|labels` record.
type LabelDecl struct {
	Type   memory.RegionType // empty when the untyped form was used
	Addr   memory.Address
	Labels []string
}

// IndirectVector is a `=type|addr|names|value` record, type ∈ {"C", "D"}.
type IndirectVector struct {
	Type  string
	Addr  memory.Address
	Names []string
	Value memory.Address
}

// Member is either an InstructionRecord or a DataRecord inside a function or
// a data block.
type Member interface {
	relAddr() memory.Address
}

// InstructionRecord is one decoded instruction line inside a function:
// `relAddr|absAddr|labels|all|opcode|operand|DST|SRC[|SRC2]|mnemonic|operandsText`.
type InstructionRecord struct {
	RelAddr     memory.Address
	AbsAddr     memory.Address
	Labels      []string
	All         []byte // every byte of the instruction
	Opcode      byte
	OperandByte []byte // bytes after the opcode, raw
	Dst         string // formatted operand reference, may be empty
	Src         string
	Src2        string // optional, empty when unused
	Mnemonic    string
	OperandText string
}

func (r InstructionRecord) relAddr() memory.Address { return r.RelAddr }

// DataRecord is one data line inside a function or a data block:
// `relAddr|absAddr|labels|bytes`.
type DataRecord struct {
	RelAddr memory.Address
	AbsAddr memory.Address
	Labels  []string
	Bytes   []byte
}

func (r DataRecord) relAddr() memory.Address { return r.RelAddr }

// DataBlock is a `$addr|names` record and its following DataRecord lines.
type DataBlock struct {
	Addr    memory.Address
	Labels  []string
	Records []DataRecord
}

// Func is a `@addr|names` record (spec.md's FunctionDescriptor) and its
// following instruction/data lines. Members is the ordered sequence; the
// primary name is Labels[0].
type Func struct {
	Addr    memory.Address
	Labels  []string
	Members []Member
}

// PrimaryName returns the function's primary label, per spec.md §3
// "Primary name = names[0]".
func (f Func) PrimaryName() string {
	if len(f.Labels) == 0 {
		return ""
	}
	return f.Labels[0]
}

// ExportToDiff renders this function's member sequence into the token
// stream the comparator (package compare) aligns, one token per member.
// A token is the mnemonic plus operand text (or the data bytes); the
// record's own relative and absolute addresses are left out, but any
// absolute address written into the operand text (e.g. a jump target) is
// part of the token.
func (f Func) ExportToDiff() []string {
	tokens := make([]string, 0, len(f.Members))
	for _, m := range f.Members {
		switch rec := m.(type) {
		case InstructionRecord:
			tok := rec.Mnemonic
			if rec.OperandText != "" {
				tok += " " + rec.OperandText
			}
			tokens = append(tokens, tok)
		case DataRecord:
			tokens = append(tokens, "DB "+bytesToHex(rec.Bytes))
		}
	}
	return tokens
}

// File is the full parsed contents of one function output file.
type File struct {
	Regions   []Region
	Labels    []LabelDecl
	Vectors   []IndirectVector
	DataBlock []DataBlock
	Functions []Func
}

func bytesToHex(b []byte) string {
	s := ""
	for _, v := range b {
		s += fmt.Sprintf("%02X", v)
	}
	return s
}
