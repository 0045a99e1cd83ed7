package lexer

import (
	"bytes"
	"strings"
	"testing"

	"timid/diag"
	"timid/token"
)

func scan(t *testing.T, source string) ([]token.Token, *diag.Diagnostics) {
	t.Helper()
	var buf bytes.Buffer
	d := diag.New(&buf)
	toks := New(source, "test", d).Scan()
	return toks, d
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, tk := range toks {
		out[i] = tk.Kind
	}
	return out
}

func TestSingleAndTwoCharOperators(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   []token.Kind
	}{
		{"plus", "+", []token.Kind{token.PLUS, token.EOF}},
		{"plus assign", "+=", []token.Kind{token.PLUS_ASSIGN, token.EOF}},
		{"equal equal", "==", []token.Kind{token.EQEQ, token.EOF}},
		{"bang equal", "!=", []token.Kind{token.NE, token.EOF}},
		{"less than or equal", "<=", []token.Kind{token.LTE, token.EOF}},
		{"greater", ">", []token.Kind{token.GT, token.EOF}},
		{"assert op", "|-", []token.Kind{token.ASSERT_OP, token.EOF}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, d := scan(t, tt.source)
			if d.HadError {
				t.Fatalf("unexpected error scanning %q", tt.source)
			}
			if got := kinds(toks); !equalKinds(got, tt.want) {
				t.Errorf("kinds(%q) = %v, want %v", tt.source, got, tt.want)
			}
		})
	}
}

func TestNewlineAndSemicolonBothEmitSemic(t *testing.T) {
	toks, _ := scan(t, "1\n2;3")
	want := []token.Kind{token.INT, token.SEMIC, token.INT, token.SEMIC, token.INT, token.EOF}
	if got := kinds(toks); !equalKinds(got, want) {
		t.Errorf("kinds = %v, want %v", got, want)
	}
}

func TestNumberLiteral(t *testing.T) {
	toks, _ := scan(t, "42 3.14")
	if toks[0].Kind != token.INT || toks[0].Literal.(int64) != 42 {
		t.Errorf("first token = %+v, want INT 42", toks[0])
	}
	if toks[1].Kind != token.FLOAT || toks[1].Literal.(float64) != 3.14 {
		t.Errorf("second token = %+v, want FLOAT 3.14", toks[1])
	}
}

func TestIdentifierVsKeyword(t *testing.T) {
	toks, _ := scan(t, "myVar while")
	if toks[0].Kind != token.IDENTIFIER {
		t.Errorf("expected IDENTIFIER, got %v", toks[0].Kind)
	}
	if toks[1].Kind != token.WHILE {
		t.Errorf("expected WHILE, got %v", toks[1].Kind)
	}
}

func TestStringEscapes(t *testing.T) {
	toks, d := scan(t, `"a\nb\tc\"d"`)
	if d.HadError {
		t.Fatalf("unexpected error")
	}
	want := "a\nb\tc\"d"
	if toks[0].Literal.(string) != want {
		t.Errorf("literal = %q, want %q", toks[0].Literal, want)
	}
}

func TestRawStringDisablesEscapes(t *testing.T) {
	toks, d := scan(t, `r"a\nb"`)
	if d.HadError {
		t.Fatalf("unexpected error")
	}
	want := `a\nb`
	if toks[0].Literal.(string) != want {
		t.Errorf("literal = %q, want %q", toks[0].Literal, want)
	}
}

func TestSingleQuoteString(t *testing.T) {
	toks, d := scan(t, `'hello'`)
	if d.HadError {
		t.Fatalf("unexpected error")
	}
	if toks[0].Kind != token.STRING || toks[0].Literal.(string) != "hello" {
		t.Errorf("token = %+v", toks[0])
	}
}

func TestUnterminatedStringReportsMissingQuote(t *testing.T) {
	_, d := scan(t, `"abc`)
	if !d.HadError {
		t.Error("expected missing-quote diagnostic")
	}
}

func TestLineComment(t *testing.T) {
	toks, _ := scan(t, "1 ~ comment\n2")
	want := []token.Kind{token.INT, token.SEMIC, token.INT, token.EOF}
	if got := kinds(toks); !equalKinds(got, want) {
		t.Errorf("kinds = %v, want %v", got, want)
	}
}

func TestBlockComment(t *testing.T) {
	toks, _ := scan(t, "1 ~~ comment \n spanning lines ~~ 2")
	want := []token.Kind{token.INT, token.INT, token.EOF}
	if got := kinds(toks); !equalKinds(got, want) {
		t.Errorf("kinds = %v, want %v", got, want)
	}
}

func TestInvalidCharacterContinuesLexing(t *testing.T) {
	toks, d := scan(t, "1 @ 2")
	if !d.HadError {
		t.Fatal("expected an invalid-character diagnostic")
	}
	want := []token.Kind{token.INT, token.INT, token.EOF}
	if got := kinds(toks); !equalKinds(got, want) {
		t.Errorf("kinds = %v, want %v — lexer should continue past the bad char", got, want)
	}
}

func TestMultipleInvalidCharactersAllReported(t *testing.T) {
	_, d := scan(t, "@ # $")
	// '$' is DOLLAR (valid); '@' and '#' are invalid.
	if !d.HadError {
		t.Fatal("expected diagnostics")
	}
	if n := strings.Count(d.Out.(*bytes.Buffer).String(), "Invalid Character Error"); n != 2 {
		t.Errorf("expected 2 invalid-character diagnostics, got %d", n)
	}
}

func equalKinds(a, b []token.Kind) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
