// Command timid is the CLI driver for the Timid toolchain: it wires the
// lexer, parser, compiler, and bytecode writer (the "compile" subcommand)
// and the lexer/parser/treewalk interpreter (the "run" subcommand) behind
// google/subcommands, the same library the teacher used for its own
// multi-command CLI.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/google/subcommands"
)

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")
	subcommands.Register(&compileCmd{}, "")
	subcommands.Register(&runCmd{}, "")

	flag.Parse()
	ctx := context.Background()
	os.Exit(int(subcommands.Execute(ctx)))
}
