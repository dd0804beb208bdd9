package funcdesc

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"gendasm/errs"
	"gendasm/memory"
)

// ParseFile reads a function output file (spec.md §6). Every non-blank,
// non-comment line must match one of the seven record grammars; an
// unrecognized leader produces errs.InvalidRecord carrying the 1-based line
// number as Data.
func ParseFile(r io.Reader) (*File, error) {
	f := &File{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var curFunc *Func
	var curBlock *DataBlock
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, ";") {
			continue
		}

		switch line[0] {
		case '#':
			region, err := parseRegion(lineNo, line[1:])
			if err != nil {
				return nil, err
			}
			f.Regions = append(f.Regions, region)
			curFunc, curBlock = nil, nil

		case '!':
			decl, err := parseLabelDecl(lineNo, line[1:])
			if err != nil {
				return nil, err
			}
			f.Labels = append(f.Labels, decl)

		case '=':
			vec, err := parseVector(lineNo, line[1:])
			if err != nil {
				return nil, err
			}
			f.Vectors = append(f.Vectors, vec)
			curFunc, curBlock = nil, nil

		case '$':
			addr, names, err := parseAddrNames(lineNo, line[1:])
			if err != nil {
				return nil, err
			}
			f.DataBlock = append(f.DataBlock, DataBlock{Addr: addr, Labels: names})
			curBlock = &f.DataBlock[len(f.DataBlock)-1]
			curFunc = nil

		case '@':
			addr, names, err := parseAddrNames(lineNo, line[1:])
			if err != nil {
				return nil, err
			}
			f.Functions = append(f.Functions, Func{Addr: addr, Labels: names})
			curFunc = &f.Functions[len(f.Functions)-1]
			curBlock = nil

		default:
			member, err := parseMemberLine(lineNo, line)
			if err != nil {
				return nil, err
			}
			switch m := member.(type) {
			case InstructionRecord:
				if curFunc == nil {
					return nil, errors.WithStack(errs.New(errs.InvalidRecord, uint(lineNo), "instruction line outside any function"))
				}
				if err := checkMonotonic(curFunc, m.RelAddr, lineNo); err != nil {
					return nil, err
				}
				curFunc.Members = append(curFunc.Members, m)
			case DataRecord:
				if curFunc != nil {
					if err := checkMonotonic(curFunc, m.RelAddr, lineNo); err != nil {
						return nil, err
					}
					curFunc.Members = append(curFunc.Members, m)
				} else if curBlock != nil {
					curBlock.Records = append(curBlock.Records, m)
				} else {
					return nil, errors.WithStack(errs.New(errs.InvalidRecord, uint(lineNo), "data line outside any function or data block"))
				}
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.WithStack(errs.New(errs.ReadFailed, uint(lineNo), err.Error()))
	}

	return f, nil
}

// checkMonotonic enforces spec.md §4.4's invariant that relative addresses
// strictly increase within one function.
func checkMonotonic(fn *Func, relAddr memory.Address, lineNo int) error {
	if len(fn.Members) == 0 {
		return nil
	}
	last := fn.Members[len(fn.Members)-1].relAddr()
	if relAddr <= last {
		return errors.WithStack(errs.New(errs.InvalidRecord, uint(lineNo), "relative address does not increase monotonically within function"))
	}
	return nil
}

func parseHexAddr(lineNo int, s string) (memory.Address, error) {
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, errors.WithStack(errs.New(errs.InvalidRecord, uint(lineNo), "bad hex address: "+s))
	}
	return memory.Address(v), nil
}

func splitLabels(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

func parseRegion(lineNo int, rest string) (Region, error) {
	parts := strings.Split(rest, "|")
	if len(parts) != 3 {
		return Region{}, errors.WithStack(errs.New(errs.InvalidRecord, uint(lineNo), "malformed region record"))
	}
	typ, ok := memory.ParseRegionType(parts[0])
	if !ok {
		return Region{}, errors.WithStack(errs.New(errs.InvalidRecord, uint(lineNo), "unknown region type: "+parts[0]))
	}
	addr, err := parseHexAddr(lineNo, parts[1])
	if err != nil {
		return Region{}, err
	}
	size, err := strconv.ParseUint(parts[2], 16, 64)
	if err != nil {
		return Region{}, errors.WithStack(errs.New(errs.InvalidRecord, uint(lineNo), "bad hex size: "+parts[2]))
	}
	return Region{Type: typ, Addr: addr, Size: size}, nil
}

func parseLabelDecl(lineNo int, rest string) (LabelDecl, error) {
	parts := strings.Split(rest, "|")
	switch len(parts) {
	case 2:
		addr, err := parseHexAddr(lineNo, parts[0])
		if err != nil {
			return LabelDecl{}, err
		}
		return LabelDecl{Addr: addr, Labels: splitLabels(parts[1])}, nil
	case 3:
		typ, ok := memory.ParseRegionType(parts[0])
		if !ok {
			return LabelDecl{}, errors.WithStack(errs.New(errs.InvalidRecord, uint(lineNo), "unknown label type: "+parts[0]))
		}
		addr, err := parseHexAddr(lineNo, parts[1])
		if err != nil {
			return LabelDecl{}, err
		}
		return LabelDecl{Type: typ, Addr: addr, Labels: splitLabels(parts[2])}, nil
	default:
		return LabelDecl{}, errors.WithStack(errs.New(errs.InvalidRecord, uint(lineNo), "malformed label declaration"))
	}
}

func parseVector(lineNo int, rest string) (IndirectVector, error) {
	parts := strings.Split(rest, "|")
	if len(parts) != 4 {
		return IndirectVector{}, errors.WithStack(errs.New(errs.InvalidRecord, uint(lineNo), "malformed indirect vector record"))
	}
	if parts[0] != "C" && parts[0] != "D" {
		return IndirectVector{}, errors.WithStack(errs.New(errs.InvalidRecord, uint(lineNo), "unknown vector type: "+parts[0]))
	}
	addr, err := parseHexAddr(lineNo, parts[1])
	if err != nil {
		return IndirectVector{}, err
	}
	value, err := parseHexAddr(lineNo, parts[3])
	if err != nil {
		return IndirectVector{}, err
	}
	return IndirectVector{Type: parts[0], Addr: addr, Names: splitLabels(parts[2]), Value: value}, nil
}

func parseAddrNames(lineNo int, rest string) (memory.Address, []string, error) {
	parts := strings.Split(rest, "|")
	if len(parts) != 2 {
		return 0, nil, errors.WithStack(errs.New(errs.InvalidRecord, uint(lineNo), "malformed record"))
	}
	addr, err := parseHexAddr(lineNo, parts[0])
	if err != nil {
		return 0, nil, err
	}
	return addr, splitLabels(parts[1]), nil
}

func parseHexBytes(lineNo int, s string) ([]byte, error) {
	if len(s)%2 != 0 {
		return nil, errors.WithStack(errs.New(errs.InvalidRecord, uint(lineNo), "odd-length byte string: "+s))
	}
	out := make([]byte, 0, len(s)/2)
	for i := 0; i < len(s); i += 2 {
		v, err := strconv.ParseUint(s[i:i+2], 16, 8)
		if err != nil {
			return nil, errors.WithStack(errs.New(errs.InvalidRecord, uint(lineNo), "bad hex byte: "+s[i:i+2]))
		}
		out = append(out, byte(v))
	}
	return out, nil
}

// parseMemberLine parses an instruction or data line (no leader character):
// instruction lines have 10 or 11 pipe-delimited fields, data lines have 4.
func parseMemberLine(lineNo int, line string) (Member, error) {
	parts := strings.Split(line, "|")
	switch len(parts) {
	case 4:
		relAddr, err := parseHexAddr(lineNo, parts[0])
		if err != nil {
			return nil, err
		}
		absAddr, err := parseHexAddr(lineNo, parts[1])
		if err != nil {
			return nil, err
		}
		bytes, err := parseHexBytes(lineNo, parts[3])
		if err != nil {
			return nil, err
		}
		return DataRecord{RelAddr: relAddr, AbsAddr: absAddr, Labels: splitLabels(parts[2]), Bytes: bytes}, nil

	case 10, 11:
		relAddr, err := parseHexAddr(lineNo, parts[0])
		if err != nil {
			return nil, err
		}
		absAddr, err := parseHexAddr(lineNo, parts[1])
		if err != nil {
			return nil, err
		}
		all, err := parseHexBytes(lineNo, parts[3])
		if err != nil {
			return nil, err
		}
		opcodeBytes, err := parseHexBytes(lineNo, parts[4])
		if err != nil {
			return nil, err
		}
		if len(opcodeBytes) != 1 {
			return nil, errors.WithStack(errs.New(errs.InvalidRecord, uint(lineNo), "opcode field must be exactly one byte"))
		}
		operandBytes, err := parseHexBytes(lineNo, parts[5])
		if err != nil {
			return nil, err
		}

		rec := InstructionRecord{
			RelAddr:     relAddr,
			AbsAddr:     absAddr,
			Labels:      splitLabels(parts[2]),
			All:         all,
			Opcode:      opcodeBytes[0],
			OperandByte: operandBytes,
			Dst:         parts[6],
			Src:         parts[7],
		}
		if len(parts) == 11 {
			rec.Src2 = parts[8]
			rec.Mnemonic = parts[9]
			rec.OperandText = parts[10]
		} else {
			rec.Mnemonic = parts[8]
			rec.OperandText = parts[9]
		}
		return rec, nil

	default:
		return nil, errors.WithStack(errs.New(errs.InvalidRecord, uint(lineNo), "unrecognized line leader"))
	}
}
