package funcdesc

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// WriteTo serializes f back into the function output file grammar of
// spec.md §6, in the order Regions, Labels, Vectors, DataBlock, Functions.
func (f *File) WriteTo(w io.Writer) error {
	bw := bufio.NewWriter(w)

	for _, r := range f.Regions {
		if _, err := fmt.Fprintf(bw, "#%s|%04X|%04X\n", r.Type, uint32(r.Addr), r.Size); err != nil {
			return err
		}
	}
	for _, l := range f.Labels {
		if l.Type == 0 {
			if _, err := fmt.Fprintf(bw, "!%04X|%s\n", uint32(l.Addr), strings.Join(l.Labels, ",")); err != nil {
				return err
			}
		} else {
			if _, err := fmt.Fprintf(bw, "!%s|%04X|%s\n", l.Type, uint32(l.Addr), strings.Join(l.Labels, ",")); err != nil {
				return err
			}
		}
	}
	for _, v := range f.Vectors {
		if _, err := fmt.Fprintf(bw, "=%s|%04X|%s|%04X\n", v.Type, uint32(v.Addr), strings.Join(v.Names, ","), uint32(v.Value)); err != nil {
			return err
		}
	}
	for _, b := range f.DataBlock {
		if _, err := fmt.Fprintf(bw, "$%04X|%s\n", uint32(b.Addr), strings.Join(b.Labels, ",")); err != nil {
			return err
		}
		for _, rec := range b.Records {
			if err := writeDataRecord(bw, rec); err != nil {
				return err
			}
		}
	}
	for _, fn := range f.Functions {
		if _, err := fmt.Fprintf(bw, "@%04X|%s\n", uint32(fn.Addr), strings.Join(fn.Labels, ",")); err != nil {
			return err
		}
		for _, m := range fn.Members {
			var err error
			switch rec := m.(type) {
			case InstructionRecord:
				err = writeInstructionRecord(bw, rec)
			case DataRecord:
				err = writeDataRecord(bw, rec)
			}
			if err != nil {
				return err
			}
		}
	}

	return bw.Flush()
}

func writeDataRecord(w io.Writer, r DataRecord) error {
	_, err := fmt.Fprintf(w, "%04X|%04X|%s|%s\n",
		uint32(r.RelAddr), uint32(r.AbsAddr), strings.Join(r.Labels, ","), bytesToHex(r.Bytes))
	return err
}

func writeInstructionRecord(w io.Writer, r InstructionRecord) error {
	if r.Src2 != "" {
		_, err := fmt.Fprintf(w, "%04X|%04X|%s|%s|%02X|%s|%s|%s|%s|%s|%s\n",
			uint32(r.RelAddr), uint32(r.AbsAddr), strings.Join(r.Labels, ","),
			bytesToHex(r.All), r.Opcode, bytesToHex(r.OperandByte),
			r.Dst, r.Src, r.Src2, r.Mnemonic, r.OperandText)
		return err
	}
	_, err := fmt.Fprintf(w, "%04X|%04X|%s|%s|%02X|%s|%s|%s|%s|%s\n",
		uint32(r.RelAddr), uint32(r.AbsAddr), strings.Join(r.Labels, ","),
		bytesToHex(r.All), r.Opcode, bytesToHex(r.OperandByte),
		r.Dst, r.Src, r.Mnemonic, r.OperandText)
	return err
}
