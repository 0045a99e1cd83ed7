package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"

	"timid/bytecode"
	"timid/compiler"
	"timid/diag"
	"timid/lexer"
	"timid/parser"
)

// exitUsage and exitNoInput mirror spec.md §6's CLI exit-code table: 64 for
// usage errors or empty input, 65 when the source file cannot be found.
const (
	exitUsage   = subcommands.ExitStatus(64)
	exitNoInput = subcommands.ExitStatus(65)
)

type compileCmd struct {
	dev bool
	out string
}

func (*compileCmd) Name() string     { return "compile" }
func (*compileCmd) Synopsis() string { return "Compile a .timid source file to a bytecode file" }
func (*compileCmd) Usage() string {
	return `compile [-d] [-o output] <file.timid>:
  Lex, parse, and compile a Timid source file, then write its bytecode
  chunk to disk. No output file is written if any diagnostic fired.
`
}

func (cmd *compileCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&cmd.dev, "d", false, "enable verbose compiler tracing to stdout")
	f.BoolVar(&cmd.dev, "dev", false, "enable verbose compiler tracing to stdout")
	f.StringVar(&cmd.out, "o", "", "output path (defaults to the input path with its extension replaced by .timidc)")
}

func (cmd *compileCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "compile: no source file given")
		return exitUsage
	}
	path := args[0]

	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "compile: %v\n", err)
		return exitNoInput
	}
	if len(strings.TrimSpace(string(source))) == 0 {
		fmt.Fprintln(os.Stderr, "compile: empty input")
		return exitUsage
	}

	diags := diag.New(os.Stderr)

	lex := lexer.New(string(source), path, diags)
	tokens := lex.Scan()

	p := parser.New(tokens, diags)
	statements := p.Parse()

	comp := compiler.New(diags)
	comp.Trace = cmd.dev
	comp.TraceOut = os.Stdout
	ch := comp.Compile(statements)

	if diags.HadError {
		fmt.Fprintln(os.Stderr, "compile: errors encountered; no bytecode written")
		return subcommands.ExitFailure
	}

	outPath := cmd.out
	if outPath == "" {
		outPath = outputPath(path)
	}

	w := bytecode.New()
	if err := w.Write(outPath, ch); err != nil {
		fmt.Fprintf(os.Stderr, "compile: %v\n", err)
		return subcommands.ExitFailure
	}

	return subcommands.ExitSuccess
}

// outputPath replaces in's extension (conventionally .timid) with .timidc,
// or appends .timidc when in has none.
func outputPath(in string) string {
	if dot := strings.LastIndexByte(in, '.'); dot > strings.LastIndexByte(in, '/') {
		return in[:dot] + ".timidc"
	}
	return in + ".timidc"
}
