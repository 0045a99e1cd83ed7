// Package diag renders Timid's structured diagnostics: a two-line header
// followed by a caret-underlined excerpt of the offending source.
package diag

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"timid/token"
)

// Diagnostics is owned by the compilation driver and threaded through the
// lexer, parser, and compiler for the lifetime of a single compile. It is a
// value, not a package-level global, so nothing is shared across compiles.
type Diagnostics struct {
	Out             io.Writer
	HadError        bool
	HadRuntimeError bool

	kindColor  *color.Color
	arrowColor *color.Color
}

// New returns a Diagnostics writing to out with colorized headers and
// carets. Color is a no-op automatically when stdout is not a terminal
// (whatever out is), per fatih/color's own NO_COLOR / isatty detection.
func New(out io.Writer) *Diagnostics {
	return &Diagnostics{
		Out:        out,
		kindColor:  color.New(color.FgRed, color.Bold),
		arrowColor: color.New(color.FgYellow),
	}
}

// InvalidCharacter reports a lexer error for an unrecognised character.
func (d *Diagnostics) InvalidCharacter(start, end token.Position, message string) {
	d.report("Invalid Character", start, end, message)
}

// MissingQuote reports an unterminated string literal.
func (d *Diagnostics) MissingQuote(start, end token.Position, message string) {
	d.report("Missing Quote", start, end, message)
}

// Syntax reports a parser error anchored on a single token.
func (d *Diagnostics) Syntax(tok token.Token, message string) {
	d.report("Syntax", tok.Start, tok.End, message)
}

// Resolution reports a compiler error about local-variable resolution.
func (d *Diagnostics) Resolution(start, end token.Position, message string) {
	d.report("Resolution", start, end, message)
}

// Compile reports a compiler error about jump/loop sizing or an
// unsupported construct.
func (d *Diagnostics) Compile(start, end token.Position, message string) {
	d.report("Compile", start, end, message)
}

// Runtime reports a tree-interpreter runtime error.
func (d *Diagnostics) Runtime(start, end token.Position, message string) {
	fmt.Fprintf(d.Out, "Runtime Error @ %s:\n", start)
	fmt.Fprintf(d.Out, "\t%s\n", message)
	fmt.Fprintln(d.Out, d.arrowColor.Sprint(stringWithArrows(start, end)))
	d.HadRuntimeError = true
}

// Assertion reports a failed tree-interpreter assertion.
func (d *Diagnostics) Assertion(start, end token.Position, message string) {
	fmt.Fprintf(d.Out, "Assertion Error @ %s:\n", start)
	fmt.Fprintf(d.Out, "\t%s\n", message)
	fmt.Fprintln(d.Out, d.arrowColor.Sprint(stringWithArrows(start, end)))
	d.HadRuntimeError = true
}

func (d *Diagnostics) report(kind string, start, end token.Position, message string) {
	fmt.Fprintf(d.Out, "%s", d.kindColor.Sprintf("%s Error @ %s:\n", kind, start))
	fmt.Fprintf(d.Out, "\t%s\n", message)
	fmt.Fprintln(d.Out, d.arrowColor.Sprint(stringWithArrows(start, end)))
	d.HadError = true
}

// stringWithArrows renders the source lines spanned by [start, end) with a
// caret underline beneath the involved columns on each line.
func stringWithArrows(start, end token.Position) string {
	text := start.Source
	var result strings.Builder

	idxStart := lastIndexBefore(text, '\n', start.Index)
	if idxStart < 0 {
		idxStart = 0
	}
	idxEnd := indexFrom(text, '\n', idxStart+1)
	if idxEnd < 0 {
		idxEnd = len(text)
	}

	lineCount := end.Line - start.Line + 1
	for i := 0; i < lineCount; i++ {
		if idxStart > len(text) {
			idxStart = len(text)
		}
		if idxEnd > len(text) {
			idxEnd = len(text)
		}
		line := text[idxStart:idxEnd]

		colStart := 0
		if i == 0 && start.Column > 0 {
			colStart = start.Column
		}
		colEnd := len(line) - 1
		if i == lineCount-1 {
			colEnd = end.Column
		}
		if colEnd < colStart {
			colEnd = colStart
		}

		result.WriteString(line)
		result.WriteByte('\n')
		result.WriteString(strings.Repeat(" ", colStart))
		result.WriteString(strings.Repeat("^", colEnd-colStart))

		idxStart = idxEnd
		idxEnd = indexFrom(text, '\n', idxStart+1)
		if idxEnd < 0 {
			idxEnd = len(text)
		}
	}

	return strings.ReplaceAll(result.String(), "\t", "")
}

func lastIndexBefore(text string, b byte, before int) int {
	if before > len(text) {
		before = len(text)
	}
	for i := before - 1; i >= 0; i-- {
		if text[i] == b {
			return i
		}
	}
	return -1
}

func indexFrom(text string, b byte, from int) int {
	if from < 0 {
		from = 0
	}
	if from >= len(text) {
		return -1
	}
	idx := strings.IndexByte(text[from:], b)
	if idx < 0 {
		return -1
	}
	return from + idx
}
