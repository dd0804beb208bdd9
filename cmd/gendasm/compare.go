package main

import (
	"fmt"
	"io/ioutil"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"gendasm/compare"
	"gendasm/funcdesc"
)

// loadFunc parses a function-output file and finds the named function
// within it, the shared first step of both compare and diff.
func loadFunc(file, name string) (*funcdesc.Func, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	parsed, err := funcdesc.ParseFile(f)
	if err != nil {
		return nil, err
	}
	for i := range parsed.Functions {
		if parsed.Functions[i].PrimaryName() == name {
			return &parsed.Functions[i], nil
		}
	}
	return nil, fmt.Errorf("function %q not found in %s", name, file)
}

func methodForName(name string) (compare.Method, error) {
	switch name {
	case "", "greedy":
		return compare.Greedy, nil
	case "xdrop":
		return compare.XDrop, nil
	default:
		return 0, fmt.Errorf("unknown method %q (want xdrop or greedy)", name)
	}
}

func compareAction(c *cli.Context) error {
	args := c.Args()
	if args.Len() < 4 {
		return cli.Exit("usage: compare <left.fd> <right.fd> <leftFunc> <rightFunc>", 1)
	}
	leftFile, rightFile := args.Get(0), args.Get(1)
	leftName, rightName := args.Get(2), args.Get(3)

	leftFn, err := loadFunc(leftFile, leftName)
	if err != nil {
		return cli.Exit(err, 1)
	}
	rightFn, err := loadFunc(rightFile, rightName)
	if err != nil {
		return cli.Exit(err, 1)
	}

	method, err := methodForName(c.String("method"))
	if err != nil {
		return cli.Exit(err, 1)
	}

	wantScript := c.Bool("script")
	result := compare.Compare(method, leftFn.ExportToDiff(), rightFn.ExportToDiff(), leftFn.PrimaryName(), rightFn.PrimaryName(), wantScript)

	fmt.Printf("score: %.4f\n", result.Score)
	if wantScript {
		for _, op := range result.Script {
			fmt.Println(op)
		}
	}
	return nil
}

func diffAction(c *cli.Context) error {
	args := c.Args()
	if args.Len() < 4 {
		return cli.Exit("usage: diff <left.fd> <right.fd> <leftFunc> <rightFunc>", 1)
	}
	leftFile, rightFile := args.Get(0), args.Get(1)
	leftName, rightName := args.Get(2), args.Get(3)

	leftFn, err := loadFunc(leftFile, leftName)
	if err != nil {
		return cli.Exit(err, 1)
	}
	rightFn, err := loadFunc(rightFile, rightName)
	if err != nil {
		return cli.Exit(err, 1)
	}

	leftTokens := leftFn.ExportToDiff()
	rightTokens := rightFn.ExportToDiff()

	result := compare.Compare(compare.Greedy, leftTokens, rightTokens, leftFn.PrimaryName(), rightFn.PrimaryName(), true)

	var symbols *compare.SymbolMap
	if sm := c.String("symbolmap"); sm != "" {
		symbols = compare.NewSymbolMap()
		if err := loadSymbolMap(sm, symbols); err != nil {
			return cli.Exit(err, 1)
		}
	}

	fmt.Print(compare.Diff(leftTokens, rightTokens, result.Script, leftFn.PrimaryName(), rightFn.PrimaryName(), symbols))
	return nil
}

// loadSymbolMap reads "leftSymbol=rightSymbol" pairs, one per line, into
// an existing compare.SymbolMap (spec.md §4.5.c's "a symbol map is
// supplied" input).
func loadSymbolMap(file string, symbols *compare.SymbolMap) error {
	data, err := ioutil.ReadFile(file)
	if err != nil {
		return err
	}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		left, right, ok := strings.Cut(line, "=")
		if !ok {
			return fmt.Errorf("malformed symbol map line %q (want left=right)", line)
		}
		symbols.AddObjectMapping(left, right)
	}
	return nil
}
