package main

import (
	"fmt"
	"strconv"

	"gendasm/codec"
	"gendasm/codec/binaryfmt"
	"gendasm/codec/elffmt"
	"gendasm/codec/intelhex"
	"gendasm/codec/srecord"
	"gendasm/decoder"
	"gendasm/decoder/ref6502"
	"gendasm/memory"
)

// formatForName resolves the --format flag (spec.md §6's four external
// container formats) to a codec.Format instance, mirroring the teacher's
// single `bbcdisasm` format this generalizes away from a fixed DFS image.
func formatForName(name string, base memory.Address) (codec.Format, error) {
	switch name {
	case "", "bin":
		return binaryfmt.New(base), nil
	case "ihex":
		return intelhex.New(), nil
	case "srec":
		return srecord.New(), nil
	case "elf":
		return elffmt.New(), nil
	default:
		return nil, fmt.Errorf("unknown format %q (want bin, ihex, srec, or elf)", name)
	}
}

// decoderForName resolves the --cpu flag. ref6502 is the only decoder
// shipped today (spec.md §4.2's reference/test implementation); the switch
// exists so a 6811/AVR/MCS-51 decoder has an obvious place to plug in.
func decoderForName(name string) (decoder.Decoder, error) {
	switch name {
	case "", "ref6502":
		return ref6502.New(), nil
	default:
		return nil, fmt.Errorf("unknown CPU %q (want ref6502)", name)
	}
}

func parseAddrList(s string) ([]memory.Address, error) {
	if s == "" {
		return nil, nil
	}
	var out []memory.Address
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ',' {
			part := s[start:i]
			v, err := strconv.ParseUint(part, 0, 64)
			if err != nil {
				return nil, fmt.Errorf("could not parse address %q: %w", part, err)
			}
			out = append(out, memory.Address(v))
			start = i + 1
		}
	}
	return out, nil
}

func parseAddr(s string, def memory.Address) (memory.Address, error) {
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("could not parse address %q: %w", s, err)
	}
	return memory.Address(v), nil
}
