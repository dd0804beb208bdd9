package main

import (
	"bytes"
	"io/ioutil"

	"gendasm/codec"
	"gendasm/memory"
)

// loadImage reads file through the given format, returning a ready-to-scan
// memory.Blocks plus the ranges the format reported, generalizing the
// teacher's single ioutil.ReadFile-then-NewDisassembler load step into the
// two-pass mapping/reading codec.Format contract (spec.md §6).
func loadImage(file string, format codec.Format) (*memory.Blocks, []memory.Range, error) {
	data, err := ioutil.ReadFile(file)
	if err != nil {
		return nil, nil, err
	}

	rl, err := format.RetrieveFileMapping(bytes.NewReader(data))
	if err != nil {
		return nil, nil, err
	}

	mem := memory.NewBlocks()
	mem.InitFromRanges(&rl)

	if _, err := format.ReadDataFile(bytes.NewReader(data), mem); err != nil {
		return nil, nil, err
	}

	return mem, rl.Ranges(), nil
}
