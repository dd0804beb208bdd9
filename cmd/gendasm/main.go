// Command gendasm is the code-seeking disassembler and fuzzy function
// comparator CLI, generalized from the teacher's cmd/bbcdisasm verb
// structure (list/extract/disasm over a BBC Micro DFS image) into
// disasm/funcdump/compare/diff over the generic memory model.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	app := cli.NewApp()
	app.Name = "gendasm"
	app.Usage = "code-seeking disassembler and fuzzy function comparator"
	app.Action = func(c *cli.Context) error {
		cli.ShowAppHelp(c)
		return nil
	}
	app.Commands = []*cli.Command{
		{
			Name:      "disasm",
			Usage:     "load an image, discover code, print a human-readable disassembly",
			ArgsUsage: "image",
			Flags:     discoveryFlags(),
			Action:    disasmAction,
		},
		{
			Name:      "funcdump",
			Usage:     "load an image, discover code, emit a function output file",
			ArgsUsage: "image",
			Flags:     discoveryFlags(),
			Action:    funcdumpAction,
		},
		{
			Name:      "compare",
			Usage:     "score the similarity of two functions from function output files",
			ArgsUsage: "left.fd right.fd leftFunc rightFunc",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "method", Usage: "xdrop or greedy"},
				&cli.BoolFlag{Name: "script", Usage: "also print the edit script"},
			},
			Action: compareAction,
		},
		{
			Name:      "diff",
			Usage:     "render a side-by-side diff of two functions from function output files",
			ArgsUsage: "left.fd right.fd leftFunc rightFunc",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "symbolmap", Usage: "path to a left=right symbol mapping file"},
			},
			Action: diffAction,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func discoveryFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "cpu", Usage: "decoder to use (ref6502)"},
		&cli.StringFlag{Name: "format", Usage: "image format: bin, ihex, srec, elf"},
		&cli.StringFlag{Name: "base", Usage: "load address for bin images"},
		&cli.StringFlag{Name: "entry", Usage: "comma-separated list of entry point addresses"},
	}
}
