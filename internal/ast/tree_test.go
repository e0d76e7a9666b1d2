package ast

import (
	"strings"
	"testing"

	"playscript/internal/source"
	"playscript/internal/token"
)

// int a = 1 + b;
func buildSample(t *testing.T) (*Tree, map[string]NodeID) {
	t.Helper()
	tr := NewTree(0, 0)
	sp := source.Span{}
	one := tr.NewLiteral(sp, LitInt, "1")
	b := tr.NewIdent(sp, "b")
	sum := tr.NewBinary(sp, token.Plus, one, b)
	decl := tr.NewDeclarator(sp, "a", sp, sum)
	typ := tr.NewPrimitiveType(sp, token.KwInt)
	vd := tr.NewVarDecl(sp, typ, []NodeID{decl})
	prog := tr.NewProgram(sp, []NodeID{vd})
	return tr, map[string]NodeID{"one": one, "b": b, "sum": sum, "decl": decl, "type": typ, "vd": vd, "prog": prog}
}

func TestParentsAndChildren(t *testing.T) {
	tr, ids := buildSample(t)
	if tr.Root != ids["prog"] {
		t.Fatalf("root = %d", tr.Root)
	}
	if tr.Parent(ids["b"]) != ids["sum"] || tr.Parent(ids["sum"]) != ids["decl"] || tr.Parent(ids["vd"]) != ids["prog"] {
		t.Fatalf("parent links are wrong")
	}
	got := tr.Children(ids["vd"])
	if len(got) != 2 || got[0] != ids["type"] || got[1] != ids["decl"] {
		t.Fatalf("children of VarDecl = %v", got)
	}
	if !tr.IsAncestor(ids["prog"], ids["one"]) || tr.IsAncestor(ids["one"], ids["one"]) {
		t.Fatalf("IsAncestor must be strict")
	}
	if tr.Enclosing(ids["b"], KindVarDecl) != ids["vd"] {
		t.Fatalf("Enclosing VarDecl not found")
	}
}

func TestAccessorsCheckKind(t *testing.T) {
	tr, ids := buildSample(t)
	if _, ok := tr.Binary(ids["b"]); ok {
		t.Fatalf("Binary accessor accepted an Ident")
	}
	if d, ok := tr.Ident(ids["b"]); !ok || d.Name != "b" {
		t.Fatalf("Ident accessor failed")
	}
	if tr.Kind(NoNodeID) != KindInvalid {
		t.Fatalf("invalid id must report KindInvalid")
	}
}

type order struct {
	events []string
	tree   *Tree
}

func (o *order) Enter(id NodeID) bool {
	o.events = append(o.events, "+"+o.tree.Kind(id).String())
	return o.tree.Kind(id) != KindBinary
}

func (o *order) Exit(id NodeID) {
	o.events = append(o.events, "-"+o.tree.Kind(id).String())
}

func TestWalkOrder(t *testing.T) {
	tr, ids := buildSample(t)
	v := &order{tree: tr}
	tr.Walk(ids["prog"], v)
	want := "+Program +VarDecl +TypePrimitive -TypePrimitive +Declarator +Binary -Binary -Declarator -VarDecl -Program"
	if got := strings.Join(v.events, " "); got != want {
		t.Fatalf("walk order:\n got %s\nwant %s", got, want)
	}

	var sb strings.Builder
	if err := tr.Dump(&sb, tr.Root); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(sb.String(), "    Binary +") {
		t.Fatalf("dump:\n%s", sb.String())
	}
}
