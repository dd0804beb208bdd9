package funcdesc

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/pkg/errors"

	"gendasm/decoder"
	"gendasm/errs"
	"gendasm/memory"
)

// FormatOperand renders a decoder.Operand using the function-output-file
// grammar of spec.md §6: `#xxxx` immediate, `C@xxxx`/`D@xxxx` absolute
// code/data, `C^n(xxxx)`/`D^n(xxxx)` relative, `C&xx(r)`/`D&xx(r)`
// register-offset, with an optional trailing `,Mxx` mask.
func FormatOperand(op *decoder.Operand) string {
	if op == nil {
		return ""
	}

	var base string
	switch op.Kind {
	case decoder.Immediate:
		base = fmt.Sprintf("#%04X", uint32(op.Value))
	case decoder.AbsoluteCode:
		base = fmt.Sprintf("C@%04X", uint32(op.Value))
	case decoder.AbsoluteData:
		base = fmt.Sprintf("D@%04X", uint32(op.Value))
	case decoder.RelativeCode:
		base = fmt.Sprintf("C^%+x(%04X)", op.RelOffset, uint32(op.Value))
	case decoder.RelativeData:
		base = fmt.Sprintf("D^%+x(%04X)", op.RelOffset, uint32(op.Value))
	case decoder.RegisterOffsetCode:
		base = fmt.Sprintf("C&%02X(%s)", op.RegisterOffset, op.Register)
	case decoder.RegisterOffsetData:
		base = fmt.Sprintf("D&%02X(%s)", op.RegisterOffset, op.Register)
	default:
		base = ""
	}

	if op.Mask != nil {
		base += fmt.Sprintf(",M%02X", *op.Mask)
	}
	return base
}

var (
	reImmediate = regexp.MustCompile(`^#([0-9A-Fa-f]+)(?:,M([0-9A-Fa-f]+))?$`)
	reAbsolute  = regexp.MustCompile(`^([CD])@([0-9A-Fa-f]+)(?:,M([0-9A-Fa-f]+))?$`)
	reRelative  = regexp.MustCompile(`^([CD])\^([+-][0-9A-Fa-f]+)\(([0-9A-Fa-f]+)\)(?:,M([0-9A-Fa-f]+))?$`)
	reRegOffset = regexp.MustCompile(`^([CD])&([0-9A-Fa-f]+)\(([A-Za-z0-9]+)\)(?:,M([0-9A-Fa-f]+))?$`)
)

// ParseOperand is the inverse of FormatOperand. An empty string yields a nil
// operand (no SRC/DST present on this line).
func ParseOperand(line int, s string) (*decoder.Operand, error) {
	if s == "" {
		return nil, nil
	}

	if m := reImmediate.FindStringSubmatch(s); m != nil {
		v, _ := strconv.ParseUint(m[1], 16, 32)
		op := &decoder.Operand{Kind: decoder.Immediate, Value: memory.Address(v)}
		applyMask(op, m[2])
		return op, nil
	}

	if m := reAbsolute.FindStringSubmatch(s); m != nil {
		v, _ := strconv.ParseUint(m[2], 16, 32)
		kind := decoder.AbsoluteData
		if m[1] == "C" {
			kind = decoder.AbsoluteCode
		}
		op := &decoder.Operand{Kind: kind, Value: memory.Address(v)}
		applyMask(op, m[3])
		return op, nil
	}

	if m := reRelative.FindStringSubmatch(s); m != nil {
		n, _ := strconv.ParseInt(m[2], 16, 32)
		v, _ := strconv.ParseUint(m[3], 16, 32)
		kind := decoder.RelativeData
		if m[1] == "C" {
			kind = decoder.RelativeCode
		}
		op := &decoder.Operand{Kind: kind, Value: memory.Address(v), RelOffset: int(n)}
		applyMask(op, m[4])
		return op, nil
	}

	if m := reRegOffset.FindStringSubmatch(s); m != nil {
		off, _ := strconv.ParseUint(m[2], 16, 32)
		kind := decoder.RegisterOffsetData
		if m[1] == "C" {
			kind = decoder.RegisterOffsetCode
		}
		op := &decoder.Operand{Kind: kind, RegisterOffset: uint(off), Register: m[3]}
		applyMask(op, m[4])
		return op, nil
	}

	return nil, errors.WithStack(errs.New(errs.InvalidRecord, uint(line), "unrecognized operand reference: "+s))
}

func applyMask(op *decoder.Operand, hexMask string) {
	if hexMask == "" {
		return
	}
	v, err := strconv.ParseUint(hexMask, 16, 32)
	if err != nil {
		return
	}
	m := uint32(v)
	op.Mask = &m
}
