package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"

	"timid/diag"
	"timid/lexer"
	"timid/parser"
	"timid/treewalk"
)

// runCmd directly tree-walks a source file rather than compiling it — the
// CORE bytecode path declines Lambda/Call/Dictionary (DESIGN.md
// decision 3), so `run` exists to exercise the full language via the
// out-of-scope-for-bytecode collaborator instead of failing on them.
type runCmd struct{}

func (*runCmd) Name() string     { return "run" }
func (*runCmd) Synopsis() string { return "Execute a .timid source file with the tree-walking interpreter" }
func (*runCmd) Usage() string {
	return `run <file.timid>:
  Lex, parse, and directly execute a Timid source file.
`
}
func (*runCmd) SetFlags(f *flag.FlagSet) {}

func (cmd *runCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "run: no source file given")
		return exitUsage
	}
	path := args[0]

	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "run: %v\n", err)
		return exitNoInput
	}
	if len(strings.TrimSpace(string(source))) == 0 {
		fmt.Fprintln(os.Stderr, "run: empty input")
		return exitUsage
	}

	diags := diag.New(os.Stderr)

	lex := lexer.New(string(source), path, diags)
	tokens := lex.Scan()

	p := parser.New(tokens, diags)
	statements := p.Parse()

	if diags.HadError {
		return subcommands.ExitFailure
	}

	interp := treewalk.NewWithIO(diags, os.Stdout, os.Stdin)
	interp.Run(statements)

	if diags.HadError || diags.HadRuntimeError {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
