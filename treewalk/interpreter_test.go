package treewalk

import (
	"strings"
	"testing"

	"timid/diag"
	"timid/lexer"
	"timid/parser"
)

func run(t *testing.T, source, input string) (string, *diag.Diagnostics) {
	t.Helper()
	var diagOut strings.Builder
	diags := diag.New(&diagOut)
	toks := lexer.New(source, "<test>", diags).Scan()
	stmts := parser.New(toks, diags).Parse()
	if diags.HadError {
		t.Fatalf("unexpected parse error: %s", diagOut.String())
	}

	var out strings.Builder
	interp := NewWithIO(diags, &out, strings.NewReader(input))
	interp.Run(stmts)
	return out.String(), diags
}

func TestPrintLiteral(t *testing.T) {
	out, diags := run(t, `print "hello";`, "")
	if diags.HadRuntimeError {
		t.Fatalf("unexpected runtime error")
	}
	if out != "hello\n" {
		t.Errorf("output = %q, want %q", out, "hello\n")
	}
}

func TestVariableAssignmentAndBlockShadowing(t *testing.T) {
	out, _ := run(t, `$a = 1; { $a = 2; print a; } print a;`, "")
	if out != "2\n1\n" {
		t.Errorf("output = %q, want %q", out, "2\n1\n")
	}
}

func TestCompoundAssignment(t *testing.T) {
	out, _ := run(t, `$x = 1; x += 2; print x;`, "")
	if out != "3\n" {
		t.Errorf("output = %q, want %q", out, "3\n")
	}
}

func TestWhileBreak(t *testing.T) {
	out, _ := run(t, `$i = 0; while i < 5 { print i; i += 1; if i == 2 break; }`, "")
	if out != "0\n1\n" {
		t.Errorf("output = %q, want %q", out, "0\n1\n")
	}
}

func TestForLoopWithStep(t *testing.T) {
	out, _ := run(t, `for $i = 0, i < 3, i += 1 { print i; }`, "")
	if out != "0\n1\n2\n" {
		t.Errorf("output = %q, want %q", out, "0\n1\n2\n")
	}
}

func TestContinueSkipsRestOfBody(t *testing.T) {
	out, _ := run(t, `for $i = 0, i < 3, i += 1 { if i == 1 continue; print i; }`, "")
	if out != "0\n2\n" {
		t.Errorf("output = %q, want %q", out, "0\n2\n")
	}
}

func TestLambdaCall(t *testing.T) {
	out, _ := run(t, `$double = lam x x * 2; print double(21);`, "")
	if out != "42\n" {
		t.Errorf("output = %q, want %q", out, "42\n")
	}
}

func TestLambdaCapturesEnclosingScope(t *testing.T) {
	out, _ := run(t, `$n = 10; $addN = lam x x + n; print addN(5);`, "")
	if out != "15\n" {
		t.Errorf("output = %q, want %q", out, "15\n")
	}
}

func TestCallArityMismatchIsRuntimeError(t *testing.T) {
	_, diags := run(t, `$f = lam x x; print f();`, "")
	if !diags.HadRuntimeError {
		t.Errorf("expected a runtime error for arity mismatch")
	}
}

func TestDictionaryLiteralAndLookupViaVariable(t *testing.T) {
	out, _ := run(t, `$d = ("a": 1); print d;`, "")
	if !strings.Contains(out, "map[") {
		t.Errorf("expected dictionary value to print as a Go map, got %q", out)
	}
}

func TestSubscriptIndexesString(t *testing.T) {
	out, _ := run(t, `print "hello"[1];`, "")
	if out != "e\n" {
		t.Errorf("output = %q, want %q", out, "e\n")
	}
}

func TestSubscriptOutOfBoundsIsRuntimeError(t *testing.T) {
	_, diags := run(t, `print "hi"[5];`, "")
	if !diags.HadRuntimeError {
		t.Errorf("expected a runtime error for out-of-bounds subscript")
	}
}

func TestInputReadsPromptedLine(t *testing.T) {
	out, _ := run(t, `$name = in "Name? "; print name;`, "Ada\n")
	if out != "Name? Ada\n" {
		t.Errorf("output = %q, want %q", out, "Name? Ada\n")
	}
}

func TestAssertFailureIsAssertionError(t *testing.T) {
	_, diags := run(t, `assert fls "boom";`, "")
	if !diags.HadRuntimeError {
		t.Errorf("expected a reported assertion failure")
	}
}

func TestAssertSuccessDoesNotReportError(t *testing.T) {
	_, diags := run(t, `assert tru "never";`, "")
	if diags.HadRuntimeError {
		t.Errorf("assert with a true condition should not report an error")
	}
}

func TestFactorial(t *testing.T) {
	out, _ := run(t, `print 5!;`, "")
	if out != "120\n" {
		t.Errorf("output = %q, want %q", out, "120\n")
	}
}

func TestTernary(t *testing.T) {
	out, _ := run(t, `print tru ? "yes" : "no";`, "")
	if out != "yes\n" {
		t.Errorf("output = %q, want %q", out, "yes\n")
	}
}

func TestStringConcatenationWithPlus(t *testing.T) {
	out, _ := run(t, `print "foo" + "bar";`, "")
	if out != "foobar\n" {
		t.Errorf("output = %q, want %q", out, "foobar\n")
	}
}

func TestDivisionByZeroIsRuntimeError(t *testing.T) {
	_, diags := run(t, `print 1 / 0;`, "")
	if !diags.HadRuntimeError {
		t.Errorf("expected a runtime error for division by zero")
	}
}

func TestUndefinedVariableIsRuntimeError(t *testing.T) {
	_, diags := run(t, `print missing;`, "")
	if !diags.HadRuntimeError {
		t.Errorf("expected a runtime error for an undefined variable")
	}
}

func TestClockBuiltinIsCallableWithNoArgs(t *testing.T) {
	_, diags := run(t, `print Clock();`, "")
	if diags.HadRuntimeError {
		t.Errorf("Clock() should be callable with zero arguments")
	}
}
