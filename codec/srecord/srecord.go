// Package srecord implements codec.Format for Motorola S-records: S0
// header, S1/S2/S3 data (2/3/4-byte addresses), S5/S6 record counts, S7/S8/S9
// termination (4/3/2-byte addresses). Checksum is the one's complement of
// the byte sum over count+address+data, per spec.md §6/§8 Scenario E.
package srecord

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"

	"gendasm/codec"
	"gendasm/errs"
	"gendasm/memory"
)

// Format reads/writes Motorola S-records.
type Format struct{}

// New returns a ready-to-use S-record codec.
func New() *Format { return &Format{} }

// addrWidth reports the address field width in bytes for each record type.
var addrWidth = map[byte]int{
	'0': 2, '1': 2, '2': 3, '3': 4,
	'5': 2, '6': 3,
	'7': 4, '8': 3, '9': 2,
}

type srec struct {
	typ  byte
	addr uint32
	data []byte
}

func parseLine(lineNo int, line string) (srec, error) {
	line = strings.TrimSpace(line)
	if len(line) < 4 || line[0] != 'S' {
		return srec{}, errors.WithStack(errs.New(errs.InvalidRecord, uint(lineNo), "line does not start with 'S'"))
	}
	typ := line[1]
	width, ok := addrWidth[typ]
	if !ok {
		return srec{}, errors.WithStack(errs.New(errs.InvalidRecord, uint(lineNo), "unknown record type S"+string(typ)))
	}

	raw, err := hex.DecodeString(line[2:])
	if err != nil {
		return srec{}, errors.WithStack(errs.New(errs.InvalidRecord, uint(lineNo), "malformed hex digits"))
	}
	if len(raw) < 1+width+1 {
		return srec{}, errors.WithStack(errs.New(errs.InvalidRecord, uint(lineNo), "record too short"))
	}

	count := raw[0]
	if int(count) != len(raw)-1 {
		return srec{}, errors.WithStack(errs.New(errs.InvalidRecord, uint(lineNo), "count field does not match bytes present"))
	}

	sum := uint32(0)
	for _, b := range raw[:len(raw)-1] {
		sum += uint32(b)
	}
	checksum := raw[len(raw)-1]
	if byte(^sum) != checksum {
		return srec{}, errors.WithStack(errs.New(errs.Checksum, uint(lineNo), fmt.Sprintf("checksum mismatch: have %02X want %02X", checksum, byte(^sum))))
	}

	var addr uint32
	for i := 0; i < width; i++ {
		addr = addr<<8 | uint32(raw[1+i])
	}
	data := raw[1+width : len(raw)-1]

	return srec{typ: typ, addr: addr, data: data}, nil
}

func isDataRecord(typ byte) bool { return typ == '1' || typ == '2' || typ == '3' }

func scanRecords(r io.Reader, fn func(lineNo int, rec srec) error) error {
	scanner := bufio.NewScanner(r)
	lineNo := 0
	sawTerm := false
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		rec, err := parseLine(lineNo, line)
		if err != nil {
			return err
		}
		if err := fn(lineNo, rec); err != nil {
			return err
		}
		if rec.typ == '7' || rec.typ == '8' || rec.typ == '9' {
			sawTerm = true
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return errors.WithStack(errs.New(errs.ReadFailed, uint(lineNo), err.Error()))
	}
	if !sawTerm {
		return errors.WithStack(errs.New(errs.UnexpectedEOF, uint(lineNo), "missing S7/S8/S9 termination record"))
	}
	return nil
}

func (f *Format) RetrieveFileMapping(r io.Reader) (memory.RangeList, error) {
	var rl memory.RangeList
	err := scanRecords(r, func(_ int, rec srec) error {
		if isDataRecord(rec.typ) {
			rl.PushRange(memory.Range{Start: memory.Address(rec.addr), Size: uint64(len(rec.data))})
		}
		return nil
	})
	if err != nil {
		return memory.RangeList{}, err
	}
	rl.Compact()
	return rl, nil
}

func (f *Format) ReadDataFile(r io.Reader, mem *memory.Blocks) (bool, error) {
	overlap := false
	err := scanRecords(r, func(lineNo int, rec srec) error {
		if !isDataRecord(rec.typ) {
			return nil
		}
		for i, b := range rec.data {
			addr := memory.Address(rec.addr) + memory.Address(i)
			desc, err := mem.Descriptor(addr)
			if err != nil {
				return errors.WithStack(errs.New(errs.OutOfRange, uint(addr), "byte not within any mapped range"))
			}
			if desc.Has(memory.Loaded) {
				overlap = true
			}
			if !mem.SetElement(addr, b) {
				return errors.WithStack(errs.New(errs.OutOfRange, uint(addr), "byte not within any mapped range"))
			}
			if err := mem.OrDescriptor(addr, memory.Loaded); err != nil {
				return err
			}
		}
		return nil
	})
	return overlap, err
}

// addressWidthForHighest picks the data-record type (S1/S2/S3) wide enough
// for the highest address being written.
func addressWidthForHighest(highest memory.Address) (typ byte, width int) {
	switch {
	case highest <= 0xFFFF:
		return '1', 2
	case highest <= 0xFFFFFF:
		return '2', 3
	default:
		return '3', 4
	}
}

func (f *Format) WriteDataFile(w io.Writer, mem *memory.Blocks, ranges []memory.Range, fill codec.FillPolicy) error {
	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintln(bw, "S0030000FC"); err != nil {
		return errors.WithStack(errs.New(errs.WriteFailed, 0, err.Error()))
	}

	var highest memory.Address
	count := 0
	for _, r := range ranges {
		if r.Size > 0 && r.End()-1 > highest {
			highest = r.End() - 1
		}
	}
	typ, width := addressWidthForHighest(highest)

	for _, r := range ranges {
		if r.Size == 0 {
			if err := writeRecord(bw, typ, width, uint32(r.Start), nil); err != nil {
				return err
			}
			count++
			continue
		}

		loaded := make([]bool, r.Size)
		values := make([]byte, r.Size)
		for i := uint64(0); i < r.Size; i++ {
			addr := r.Start + memory.Address(i)
			desc, err := mem.Descriptor(addr)
			if err != nil {
				return err
			}
			loaded[i] = desc.Has(memory.Loaded)
			if loaded[i] {
				v, err := mem.Element(addr)
				if err != nil {
					return err
				}
				values[i] = v
			}
		}

		const maxRecord = 16
		i := uint64(0)
		for i < r.Size {
			chunkLen := uint64(maxRecord)
			if r.Size-i < chunkLen {
				chunkLen = r.Size - i
			}
			chunk := make([]byte, 0, chunkLen)
			for k := uint64(0); k < chunkLen; k++ {
				if loaded[i+k] {
					chunk = append(chunk, values[i+k])
					continue
				}
				v, ok := fill.Resolve(loaded, int(i+k))
				if !ok {
					break
				}
				chunk = append(chunk, v)
			}
			if len(chunk) == 0 {
				i++
				continue
			}
			if err := writeRecord(bw, typ, width, uint32(r.Start)+uint32(i), chunk); err != nil {
				return err
			}
			count++
			i += uint64(len(chunk))
		}
	}

	countType, countWidth := byte('5'), 2
	if count > 0xFFFF {
		countType, countWidth = '6', 3
	}
	if err := writeRecord(bw, countType, countWidth, uint32(count), nil); err != nil {
		return err
	}

	termType := map[byte]byte{'1': '9', '2': '8', '3': '7'}[typ]
	if err := writeRecord(bw, termType, width, 0, nil); err != nil {
		return err
	}

	return bw.Flush()
}

func writeRecord(w io.Writer, typ byte, width int, addr uint32, data []byte) error {
	raw := make([]byte, 0, 1+width+len(data)+1)
	count := byte(width + len(data) + 1)
	raw = append(raw, count)
	for i := width - 1; i >= 0; i-- {
		raw = append(raw, byte(addr>>(8*i)))
	}
	raw = append(raw, data...)

	sum := uint32(0)
	for _, b := range raw {
		sum += uint32(b)
	}
	raw = append(raw, byte(^sum))

	_, err := fmt.Fprintf(w, "S%c%s\n", typ, strings.ToUpper(hex.EncodeToString(raw)))
	if err != nil {
		return errors.WithStack(errs.New(errs.WriteFailed, 0, err.Error()))
	}
	return nil
}
