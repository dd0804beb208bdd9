// Package ref6502 is gendasm's one concrete decoder.Decoder implementation,
// adapted from the teacher project's 6502 opcode table (opcodes.go) and
// decode() function. Spec.md §1 keeps the real opcode tables for 6811, AVR
// and MCS-51 out of scope; this decoder exists so the engine, the function
// descriptor extractor, and the comparator all have a concrete, fully
// testable CPU to run end to end, not as a fourth target CPU of its own.
package ref6502

// addrMode enumerates the 6502 addressing-mode families, straight out of
// the teacher's AddressingMode enum.
type addrMode int

const (
	modeNone addrMode = iota
	modeAccumulator
	modeImmediate
	modeAbsolute
	modeZeroPage
	modeZeroPageX
	modeZeroPageY
	modeIndirect
	modeAbsoluteX
	modeAbsoluteY
	modeIndirectX
	modeIndirectY
)

// opcode mirrors the teacher's Opcode struct.
type opcode struct {
	Value    byte
	Name     string
	Length   uint
	AddrMode addrMode
}

const (
	opJMPAbsolute = 0x4C
	opJMPIndirect = 0x6C
	opJSRAbsolute = 0x20
)

// opcodes is the teacher's OpCodes table, unchanged in content.
var opcodes = []opcode{
	{0x69, "ADC", 2, modeImmediate},
	{0x65, "ADC", 2, modeZeroPage},
	{0x75, "ADC", 2, modeZeroPageX},
	{0x6D, "ADC", 3, modeAbsolute},
	{0x7D, "ADC", 3, modeAbsoluteX},
	{0x79, "ADC", 3, modeAbsoluteY},
	{0x61, "ADC", 2, modeIndirectX},
	{0x71, "ADC", 2, modeIndirectY},

	{0x29, "AND", 2, modeImmediate},
	{0x25, "AND", 2, modeZeroPage},
	{0x35, "AND", 2, modeZeroPageX},
	{0x2D, "AND", 3, modeAbsolute},
	{0x3D, "AND", 3, modeAbsoluteX},
	{0x39, "AND", 3, modeAbsoluteY},
	{0x21, "AND", 2, modeIndirectX},
	{0x31, "AND", 2, modeIndirectY},

	{0x0A, "ASL", 1, modeAccumulator},
	{0x06, "ASL", 2, modeZeroPage},
	{0x16, "ASL", 2, modeZeroPageX},
	{0x0E, "ASL", 3, modeAbsolute},
	{0x1E, "ASL", 3, modeAbsoluteX},

	{0x24, "BIT", 2, modeZeroPage},
	{0x2C, "BIT", 3, modeAbsolute},

	{0x10, "BPL", 2, modeNone},
	{0x30, "BMI", 2, modeNone},
	{0x50, "BVC", 2, modeNone},
	{0x70, "BVS", 2, modeNone},
	{0x90, "BCC", 2, modeNone},
	{0xB0, "BCS", 2, modeNone},
	{0xD0, "BNE", 2, modeNone},
	{0xF0, "BEQ", 2, modeNone},

	{0x00, "BRK", 1, modeNone},

	{0xC9, "CMP", 2, modeImmediate},
	{0xC5, "CMP", 2, modeZeroPage},
	{0xD5, "CMP", 2, modeZeroPageX},
	{0xCD, "CMP", 3, modeAbsolute},
	{0xDD, "CMP", 3, modeAbsoluteX},
	{0xD9, "CMP", 3, modeAbsoluteY},
	{0xC1, "CMP", 2, modeIndirectX},
	{0xD1, "CMP", 2, modeIndirectY},

	{0xE0, "CPX", 2, modeImmediate},
	{0xE4, "CPX", 2, modeZeroPage},
	{0xEC, "CPX", 3, modeAbsolute},

	{0xC0, "CPY", 2, modeImmediate},
	{0xC4, "CPY", 2, modeZeroPage},
	{0xCC, "CPY", 3, modeAbsolute},

	{0xC6, "DEC", 2, modeZeroPage},
	{0xD6, "DEC", 2, modeZeroPageX},
	{0xCE, "DEC", 3, modeAbsolute},
	{0xDE, "DEC", 3, modeAbsoluteX},

	{0x49, "EOR", 2, modeImmediate},
	{0x45, "EOR", 2, modeZeroPage},
	{0x55, "EOR", 2, modeZeroPageX},
	{0x4D, "EOR", 3, modeAbsolute},
	{0x5D, "EOR", 3, modeAbsoluteX},
	{0x59, "EOR", 3, modeAbsoluteY},
	{0x41, "EOR", 2, modeIndirectX},
	{0x51, "EOR", 2, modeIndirectY},

	{0x18, "CLC", 1, modeNone},
	{0x38, "SEC", 1, modeNone},
	{0x58, "CLI", 1, modeNone},
	{0x78, "SEI", 1, modeNone},
	{0xB8, "CLV", 1, modeNone},
	{0xD8, "CLD", 1, modeNone},
	{0xF8, "SED", 1, modeNone},

	{0xE6, "INC", 2, modeZeroPage},
	{0xF6, "INC", 2, modeZeroPageX},
	{0xEE, "INC", 3, modeAbsolute},
	{0xFE, "INC", 3, modeAbsoluteX},

	{opJMPAbsolute, "JMP", 3, modeAbsolute},
	{opJMPIndirect, "JMP", 3, modeIndirect},

	{opJSRAbsolute, "JSR", 3, modeAbsolute},

	{0xA9, "LDA", 2, modeImmediate},
	{0xA5, "LDA", 2, modeZeroPage},
	{0xB5, "LDA", 2, modeZeroPageX},
	{0xAD, "LDA", 3, modeAbsolute},
	{0xBD, "LDA", 3, modeAbsoluteX},
	{0xB9, "LDA", 3, modeAbsoluteY},
	{0xA1, "LDA", 2, modeIndirectX},
	{0xB1, "LDA", 2, modeIndirectY},

	{0xA2, "LDX", 2, modeImmediate},
	{0xA6, "LDX", 2, modeZeroPage},
	{0xB6, "LDX", 2, modeZeroPageY},
	{0xAE, "LDX", 3, modeAbsolute},
	{0xBE, "LDX", 3, modeAbsoluteY},

	{0xA0, "LDY", 2, modeImmediate},
	{0xA4, "LDY", 2, modeZeroPage},
	{0xB4, "LDY", 2, modeZeroPageX},
	{0xAC, "LDY", 3, modeAbsolute},
	{0xBC, "LDY", 3, modeAbsoluteX},

	{0x4A, "LSR", 1, modeAccumulator},
	{0x46, "LSR", 2, modeZeroPage},
	{0x56, "LSR", 2, modeZeroPageX},
	{0x4E, "LSR", 3, modeAbsolute},
	{0x5E, "LSR", 3, modeAbsoluteX},

	{0xEA, "NOP", 1, modeNone},

	{0x09, "ORA", 2, modeImmediate},
	{0x05, "ORA", 2, modeZeroPage},
	{0x15, "ORA", 2, modeZeroPageX},
	{0x0D, "ORA", 3, modeAbsolute},
	{0x1D, "ORA", 3, modeAbsoluteX},
	{0x19, "ORA", 3, modeAbsoluteY},
	{0x01, "ORA", 2, modeIndirectX},
	{0x11, "ORA", 2, modeIndirectY},

	{0xAA, "TAX", 1, modeNone},
	{0x8A, "TXA", 1, modeNone},
	{0xCA, "DEX", 1, modeNone},
	{0xE8, "INX", 1, modeNone},
	{0xA8, "TAY", 1, modeNone},
	{0x98, "TYA", 1, modeNone},
	{0x88, "DEY", 1, modeNone},
	{0xC8, "INY", 1, modeNone},

	{0x2A, "ROL", 1, modeAccumulator},
	{0x26, "ROL", 2, modeZeroPage},
	{0x36, "ROL", 2, modeZeroPageX},
	{0x2E, "ROL", 3, modeAbsolute},
	{0x3E, "ROL", 3, modeAbsoluteX},

	{0x6A, "ROR", 1, modeAccumulator},
	{0x66, "ROR", 2, modeZeroPage},
	{0x76, "ROR", 2, modeZeroPageX},
	{0x6E, "ROR", 3, modeAbsolute},
	{0x7E, "ROR", 3, modeAbsoluteX},

	{0x40, "RTI", 1, modeNone},
	{0x60, "RTS", 1, modeNone},

	{0xE9, "SBC", 2, modeImmediate},
	{0xE5, "SBC", 2, modeZeroPage},
	{0xF5, "SBC", 2, modeZeroPageX},
	{0xED, "SBC", 3, modeAbsolute},
	{0xFD, "SBC", 3, modeAbsoluteX},
	{0xF9, "SBC", 3, modeAbsoluteY},
	{0xE1, "SBC", 2, modeIndirectX},
	{0xF1, "SBC", 2, modeIndirectY},

	{0x85, "STA", 2, modeZeroPage},
	{0x95, "STA", 2, modeZeroPageX},
	{0x8D, "STA", 3, modeAbsolute},
	{0x9D, "STA", 3, modeAbsoluteX},
	{0x99, "STA", 3, modeAbsoluteY},
	{0x81, "STA", 2, modeIndirectX},
	{0x91, "STA", 2, modeIndirectY},

	{0x9A, "TXS", 1, modeNone},
	{0xBA, "TSX", 1, modeNone},
	{0x48, "PHA", 1, modeNone},
	{0x68, "PLA", 1, modeNone},
	{0x08, "PHP", 1, modeNone},
	{0x28, "PLP", 1, modeNone},

	{0x86, "STX", 2, modeZeroPage},
	{0x96, "STX", 2, modeZeroPageY},
	{0x8E, "STX", 3, modeAbsolute},

	{0x84, "STY", 2, modeZeroPage},
	{0x94, "STY", 2, modeZeroPageX},
	{0x8C, "STY", 3, modeAbsolute},
}

var opcodesByValue map[byte]opcode

var branchInstructions = map[string]bool{
	"BPL": true, "BMI": true, "BVC": true, "BVS": true,
	"BCC": true, "BCS": true, "BNE": true, "BEQ": true,
}

var jumpInstructions = map[string]bool{"JMP": true, "JSR": true}

func init() {
	opcodesByValue = make(map[byte]opcode, len(opcodes))
	for _, op := range opcodes {
		opcodesByValue[op.Value] = op
	}
}

// branchOrJump reports the teacher's branchType classification, the seed
// for this decoder's finer-grained decoder.ControlFlow mapping.
func (o opcode) branchOrJump() string {
	if branchInstructions[o.Name] {
		return "branch"
	}
	if jumpInstructions[o.Name] {
		return "jump"
	}
	return "neither"
}
