package source

import "testing"

func TestResolveLineCol(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("a.play", []byte("int a = 1;\r\nprintln(a);\n"))
	f := fs.Get(id)
	if f == nil {
		t.Fatalf("file %d not found", id)
	}
	if got := f.GetLine(2); got != "println(a);" {
		t.Fatalf("line 2 = %q", got)
	}

	cases := []struct {
		off  uint32
		line uint32
		col  uint32
	}{
		{0, 1, 1},
		{4, 1, 5},
		{10, 1, 11}, // the newline itself
		{11, 2, 1},
		{19, 2, 9},
	}
	for _, tc := range cases {
		start, _ := fs.Resolve(Span{File: id, Start: tc.off, End: tc.off})
		if start.Line != tc.line || start.Col != tc.col {
			t.Fatalf("offset %d: got %d:%d, want %d:%d", tc.off, start.Line, start.Col, tc.line, tc.col)
		}
	}
}

func TestTextAndCover(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("b.play", []byte("x + yy"))
	a := Span{File: id, Start: 0, End: 1}
	b := Span{File: id, Start: 4, End: 6}
	if got := fs.Text(a.Cover(b)); got != "x + yy" {
		t.Fatalf("cover text = %q", got)
	}
	if got := fs.Text(Span{File: id, Start: 4, End: 100}); got != "yy" {
		t.Fatalf("clamped text = %q", got)
	}
	if fs.Get(42) != nil {
		t.Fatalf("expected nil for unknown file")
	}
}

func TestLoadStripsBOM(t *testing.T) {
	content, had := removeBOM([]byte{0xEF, 0xBB, 0xBF, 'a'})
	if !had || string(content) != "a" {
		t.Fatalf("removeBOM = %q, %v", content, had)
	}
	out, changed := normalizeCRLF([]byte("a\r\nb\rc"))
	if !changed || string(out) != "a\nb\rc" {
		t.Fatalf("normalizeCRLF = %q, %v", out, changed)
	}
}
