package lexer_test

import (
	"testing"

	"playscript/internal/diag"
	"playscript/internal/lexer"
	"playscript/internal/source"
	"playscript/internal/token"
)

func lexAll(t *testing.T, input string) ([]token.Token, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.play", []byte(input))
	bag := diag.NewBag(0)
	lx := lexer.New(fs.Get(id), lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
	return lx.All(), bag
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, 0, len(toks))
	for _, tok := range toks {
		out = append(out, tok.Kind)
	}
	return out
}

func expectKinds(t *testing.T, input string, want ...token.Kind) []token.Token {
	t.Helper()
	toks, bag := lexAll(t, input)
	if bag.HasErrors() {
		t.Fatalf("%q: unexpected diagnostics: %v", input, bag.Items())
	}
	want = append(want, token.EOF)
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("%q: got %v, want %v", input, got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("%q: token %d is %s, want %s (all: %v)", input, i, got[i], want[i], got)
		}
	}
	return toks
}

func TestDeclarationsAndKeywords(t *testing.T) {
	expectKinds(t, "int a = 1; float b;",
		token.KwInt, token.Ident, token.Assign, token.IntLit, token.Semicolon,
		token.KwFloat, token.Ident, token.Semicolon)
	expectKinds(t, "class B extends A { }",
		token.KwClass, token.Ident, token.KwExtends, token.Ident, token.LBrace, token.RBrace)
	expectKinds(t, "function int(string) f = null;",
		token.KwFunction, token.KwInt, token.LParen, token.KwString, token.RParen,
		token.Ident, token.Assign, token.KwNull, token.Semicolon)
}

func TestOperatorsAreGreedy(t *testing.T) {
	expectKinds(t, "a+=b++ --c != d&&e||!f",
		token.Ident, token.PlusAssign, token.Ident, token.PlusPlus, token.MinusMinus,
		token.Ident, token.BangEq, token.Ident, token.AndAnd, token.Ident, token.OrOr,
		token.Bang, token.Ident)
	expectKinds(t, "x%=2<=3>=4==5",
		token.Ident, token.PercentAssign, token.IntLit, token.LtEq, token.IntLit,
		token.GtEq, token.IntLit, token.EqEq, token.IntLit)
}

func TestNumbers(t *testing.T) {
	cases := []struct {
		in   string
		kind token.Kind
	}{
		{"42", token.IntLit},
		{"0x1F", token.IntLit},
		{"3.14", token.FloatLit},
		{".5", token.FloatLit},
		{"1.", token.FloatLit},
		{"1e10", token.FloatLit},
		{"2.5E-3", token.FloatLit},
	}
	for _, tc := range cases {
		toks := expectKinds(t, tc.in, tc.kind)
		if toks[0].Text != tc.in {
			t.Fatalf("%q: text %q", tc.in, toks[0].Text)
		}
	}

	for _, bad := range []string{"0x", "1e", "12abc"} {
		toks, bag := lexAll(t, bad)
		if toks[0].Kind != token.Invalid || !bag.HasErrors() {
			t.Fatalf("%q: expected invalid number, got %s", bad, toks[0].Kind)
		}
		if bag.Items()[0].Code != diag.LexBadNumber {
			t.Fatalf("%q: unexpected code %s", bad, bag.Items()[0].Code)
		}
	}
}

func TestStringEscapes(t *testing.T) {
	toks := expectKinds(t, `"a\tb\n\"q\"\\"`, token.StringLit)
	if toks[0].Text != "a\tb\n\"q\"\\" {
		t.Fatalf("decoded text = %q", toks[0].Text)
	}
	// span covers the raw literal including quotes
	if toks[0].Span.Start != 0 || toks[0].Span.End != 15 {
		t.Fatalf("span = %v", toks[0].Span)
	}

	// decomposed e + combining acute normalises to U+00E9
	toks = expectKinds(t, "\"é\"", token.StringLit)
	if toks[0].Text != "é" {
		t.Fatalf("expected NFC text, got %q", toks[0].Text)
	}
}

func TestLexicalErrors(t *testing.T) {
	cases := []struct {
		in   string
		code diag.Code
	}{
		{`"open`, diag.LexUnterminatedString},
		{"\"line\nbreak\"", diag.LexUnterminatedString},
		{`"\q"`, diag.LexBadEscape},
		{"/* never closed", diag.LexUnterminatedBlockComment},
		{"a # b", diag.LexUnknownChar},
	}
	for _, tc := range cases {
		_, bag := lexAll(t, tc.in)
		if bag.Len() == 0 || bag.Items()[0].Code != tc.code {
			t.Fatalf("%q: expected %s, got %v", tc.in, tc.code, bag.Items())
		}
	}
}

func TestCommentsAreSkipped(t *testing.T) {
	expectKinds(t, "a // line\n/* block\n*/ b",
		token.Ident, token.Ident)
}

func TestPeekDoesNotConsume(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("p.play", []byte("x y"))
	lx := lexer.New(fs.Get(id), lexer.Options{})
	if p := lx.Peek(); p.Text != "x" {
		t.Fatalf("peek = %q", p.Text)
	}
	if n := lx.Next(); n.Text != "x" {
		t.Fatalf("next = %q", n.Text)
	}
	if n := lx.Next(); n.Text != "y" {
		t.Fatalf("next = %q", n.Text)
	}
	if n := lx.Next(); n.Kind != token.EOF {
		t.Fatalf("expected EOF, got %s", n.Kind)
	}
	if n := lx.Next(); n.Kind != token.EOF {
		t.Fatalf("EOF must be sticky, got %s", n.Kind)
	}
}
