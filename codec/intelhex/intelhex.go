// Package intelhex implements codec.Format for the Intel HEX record format:
// `:llaaaatt dd...dd cc`, record types 00 (data), 01 (end-of-file) and 04
// (extended linear address). Grounded on spec.md §8 Scenario A and §6.
package intelhex

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

const (
	recData          = 0x00
	recEndOfFile     = 0x01
	recExtLinearAddr = 0x04
)

// Format reads/writes Intel HEX.
type Format struct{}

// New returns a ready-to-use Intel HEX codec.
func New() *Format { return &Format{} }

type record struct {
	length   byte
	addr     uint16
	recType  byte
	data     []byte
	checksum byte
}

func parseLine(lineNo int, line string) (record, error) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, ":") {
		return record{}, errors.WithStack(errs.New(errs.InvalidRecord, uint(lineNo), "line does not start with ':'"))
	}
	raw, err := hex.DecodeString(line[1:])
	if err != nil {
		return record{}, errors.WithStack(errs.New(errs.InvalidRecord, uint(lineNo), "malformed hex digits"))
	}
	if len(raw) < 5 {
		return record{}, errors.WithStack(errs.New(errs.InvalidRecord, uint(lineNo), "record too short"))
	}

	length := raw[0]
	addr := uint16(raw[1])<<8 | uint16(raw[2])
	recType := raw[3]
	if len(raw) != int(length)+5 {
		return record{}, errors.WithStack(errs.New(errs.InvalidRecord, uint(lineNo), "length field does not match data present"))
	}
	data := raw[4 : 4+length]
	checksum := raw[len(raw)-1]

	sum := byte(0)
	for _, b := range raw[:len(raw)-1] {
		sum += b
	}
	sum = byte(-sum)
	if sum != checksum {
		return record{}, errors.WithStack(errs.New(errs.Checksum, uint(lineNo), fmt.Sprintf("checksum mismatch: have %02X want %02X", checksum, sum)))
	}

	return record{length: length, addr: addr, recType: recType, data: data, checksum: checksum}, nil
}

// scanRecords reads every record from r via fn, returning errs.UnexpectedEOF
// if the stream ends before a type-01 record is seen.
func scanRecords(r io.Reader, fn func(lineNo int, rec record) error) error {
	scanner := bufio.NewScanner(r)
	lineNo := 0
	sawEOF := false
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
		if rec.recType == recEndOfFile {
			sawEOF = true
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return errors.WithStack(errs.New(errs.ReadFailed, uint(lineNo), err.Error()))
	}
	if !sawEOF {
		return errors.WithStack(errs.New(errs.UnexpectedEOF, uint(lineNo), "missing :00000001FF end-of-file record"))
	}
	return nil
}

func (f *Format) RetrieveFileMapping(r io.Reader) (memory.RangeList, error) {
	var rl memory.RangeList
	upper := uint32(0)
	err := scanRecords(r, func(_ int, rec record) error {
		switch rec.recType {
		case recExtLinearAddr:
			if len(rec.data) != 2 {
				return errors.WithStack(errs.New(errs.InvalidRecord, 0, "extended linear address record must carry 2 bytes"))
			}
			upper = uint32(rec.data[0])<<24 | uint32(rec.data[1])<<16
		case recData:
			base := memory.Address(upper | uint32(rec.addr))
			rl.PushRange(memory.Range{Start: base, Size: uint64(len(rec.data))})
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
	upper := uint32(0)
	err := scanRecords(r, func(lineNo int, rec record) error {
		switch rec.recType {
		case recExtLinearAddr:
			if len(rec.data) != 2 {
				return errors.WithStack(errs.New(errs.InvalidRecord, uint(lineNo), "extended linear address record must carry 2 bytes"))
			}
			upper = uint32(rec.data[0])<<24 | uint32(rec.data[1])<<16
		case recData:
			base := memory.Address(upper | uint32(rec.addr))
			for i, b := range rec.data {
				addr := base + memory.Address(i)
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
		}
		return nil
	})
	return overlap, err
}

func (f *Format) WriteDataFile(w io.Writer, mem *memory.Blocks, ranges []memory.Range, fill codec.FillPolicy) error {
	bw := bufio.NewWriter(w)
	upper := uint32(0)

	for _, r := range ranges {
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
					break // stop the chunk at the first un-fillable gap byte
				}
				chunk = append(chunk, v)
			}
			if len(chunk) == 0 {
				i++
				continue
			}

			addr := uint32(r.Start) + uint32(i)
			if addr>>16 != upper>>16 {
				upper = addr &^ 0xFFFF
				if err := writeRecord(bw, 0, 0, recExtLinearAddr, []byte{byte(upper >> 24), byte(upper >> 16)}); err != nil {
					return err
				}
			}
			if err := writeRecord(bw, byte(len(chunk)), uint16(addr), recData, chunk); err != nil {
				return err
			}
			i += uint64(len(chunk))
		}
	}

	if err := writeRecord(bw, 0, 0, recEndOfFile, nil); err != nil {
		return err
	}
	return bw.Flush()
}

func writeRecord(w io.Writer, length byte, addr uint16, recType byte, data []byte) error {
	raw := make([]byte, 0, 5+len(data))
	raw = append(raw, length, byte(addr>>8), byte(addr))
	raw = append(raw, recType)
	raw = append(raw, data...)
	sum := byte(0)
	for _, b := range raw {
		sum += b
	}
	sum = byte(-sum)
	raw = append(raw, sum)

	_, err := fmt.Fprintf(w, ":%s\n", strings.ToUpper(hex.EncodeToString(raw)))
	if err != nil {
		return errors.WithStack(errs.New(errs.WriteFailed, 0, err.Error()))
	}
	return nil
}
