package diag

import (
	"testing"

	"playscript/internal/source"
)

func TestBagLimitAndErrors(t *testing.T) {
	bag := NewBag(2)
	r := BagReporter{Bag: bag}
	ReportWarning(r, SemInfo, source.Span{Start: 4, End: 5}, "w").Emit()
	ReportError(r, SemUnknownName, source.Span{Start: 1, End: 2}, "e").Emit()
	ReportError(r, SemUnknownName, source.Span{Start: 9, End: 10}, "dropped").Emit()

	if bag.Len() != 2 {
		t.Fatalf("expected limit of 2, got %d", bag.Len())
	}
	if !bag.HasErrors() || len(bag.Errors()) != 1 {
		t.Fatalf("expected exactly one error")
	}
	bag.Sort()
	if bag.Items()[0].Message != "e" {
		t.Fatalf("sort by start failed: %+v", bag.Items())
	}
}

func TestBuilderEmitsOnce(t *testing.T) {
	bag := NewBag(0)
	b := ReportError(BagReporter{Bag: bag}, ValMissingReturn, source.Span{}, "missing return").
		WithNote(source.Span{Start: 3}, "declared here")
	b.Emit()
	b.Emit()
	if bag.Len() != 1 || len(bag.Items()[0].Notes) != 1 {
		t.Fatalf("unexpected bag state: %+v", bag.Items())
	}
}

func TestDedupReporter(t *testing.T) {
	bag := NewBag(0)
	r := NewDedupReporter(BagReporter{Bag: bag})
	for range 3 {
		ReportError(r, TypAssignMismatch, source.Span{Start: 1, End: 3}, "mismatch").Emit()
	}
	if bag.Len() != 1 {
		t.Fatalf("expected one diagnostic, got %d", bag.Len())
	}
}

func TestCodeIDs(t *testing.T) {
	cases := map[Code]string{
		LexBadNumber:        "LEX1004",
		SynExpectSemicolon:  "SYN2002",
		SemUnknownName:      "SEM3004",
		TypAssignMismatch:   "TYP4001",
		ValBreakOutsideLoop: "VAL5001",
	}
	for code, want := range cases {
		if code.ID() != want {
			t.Fatalf("%d: got %s, want %s", code, code.ID(), want)
		}
	}
}

func TestFormatShort(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("m.play", []byte("int a;\nb = 1;\n"))
	d := NewError(SemUnknownName, source.Span{File: id, Start: 7, End: 8}, "unknown variable or function: b")
	got := FormatShort([]Diagnostic{d}, fs)
	want := "m.play:2:1: ERROR SEM3004: unknown variable or function: b\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
