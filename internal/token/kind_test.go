package token

import "testing"

func TestKeywordsRoundTrip(t *testing.T) {
	for text, kind := range keywords {
		if kind.String() != text {
			t.Fatalf("%q: String() = %q", text, kind.String())
		}
		tok := Token{Kind: kind}
		if !tok.IsKeyword() {
			t.Fatalf("%q is not reported as keyword", text)
		}
	}
	if _, ok := LookupKeyword("println"); ok {
		t.Fatalf("println must stay an identifier")
	}
}

func TestCompoundAssign(t *testing.T) {
	cases := map[Kind]Kind{
		PlusAssign:    Plus,
		MinusAssign:   Minus,
		StarAssign:    Star,
		SlashAssign:   Slash,
		PercentAssign: Percent,
	}
	for k, base := range cases {
		if !k.IsCompoundAssign() || k.BaseOp() != base {
			t.Fatalf("%s: compound=%v base=%s", k, k.IsCompoundAssign(), k.BaseOp())
		}
	}
	if Assign.IsCompoundAssign() || !Assign.IsAssign() {
		t.Fatalf("plain '=' misclassified")
	}
}
