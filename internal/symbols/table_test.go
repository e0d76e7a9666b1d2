package symbols

import (
	"strings"
	"testing"

	"playscript/internal/ast"
	"playscript/internal/source"
	"playscript/internal/types"
)

func newTestTable() (*Table, ScopeID) {
	tbl := NewTable(types.NewInterner())
	root := tbl.NewScope(ScopeBlock, NoScopeID, ast.NoNodeID, source.Span{})
	return tbl, root
}

func TestLookupWalksEnclosingScopes(t *testing.T) {
	tbl, root := newTestTable()
	b := tbl.Types.Builtins()
	outer := tbl.NewVariable(root, "a", b.Int, ast.NoNodeID, source.Span{})
	inner := tbl.NewScope(ScopeBlock, root, ast.NoNodeID, source.Span{})
	shadow := tbl.NewVariable(inner, "a", b.String, ast.NoNodeID, source.Span{})

	if got := tbl.LookupVariable(inner, "a"); got != shadow {
		t.Fatalf("inner lookup = %d, want %d", got, shadow)
	}
	if got := tbl.LookupVariable(root, "a"); got != outer {
		t.Fatalf("root lookup = %d, want %d", got, outer)
	}
	if tbl.Variable(inner, "missing").IsValid() {
		t.Fatalf("unexpected symbol for missing name")
	}
	if sc := tbl.Scopes.Get(root); len(sc.Children) != 1 || sc.Children[0] != inner {
		t.Fatalf("children of root = %v", sc.Children)
	}
}

func TestFunctionOverloadsByParams(t *testing.T) {
	tbl, root := newTestTable()
	b := tbl.Types.Builtins()
	f1 := tbl.NewFunction(root, "f", ast.NoNodeID, source.Span{})
	tbl.Types.SetFnParams(tbl.Symbols.Get(f1).Type, []types.TypeID{b.Int})
	f2 := tbl.NewFunction(root, "f", ast.NoNodeID, source.Span{})
	tbl.Types.SetFnParams(tbl.Symbols.Get(f2).Type, []types.TypeID{b.String})

	if got := tbl.LookupFunction(root, "f", []types.TypeID{b.String}); got != f2 {
		t.Fatalf("f(string) = %d, want %d", got, f2)
	}
	if got := tbl.LookupFunction(root, "f", []types.TypeID{b.Float}); got.IsValid() {
		t.Fatalf("f(float) should not resolve, got %d", got)
	}
	if got := tbl.LookupFunctionOnlyByName(root, "f"); got != f1 {
		t.Fatalf("by name = %d, want %d", got, f1)
	}
	if fnScope := tbl.Symbols.Get(f1).Owns; tbl.FunctionOfScope(fnScope) != f1 {
		t.Fatalf("function scope owner mismatch")
	}
}

func TestClassMembersFallThroughToParent(t *testing.T) {
	tbl, root := newTestTable()
	b := tbl.Types.Builtins()
	animal := tbl.NewClass(root, "Animal", ast.NoNodeID, source.Span{})
	dog := tbl.NewClass(root, "Dog", ast.NoNodeID, source.Span{})
	animalScope := tbl.Symbols.Get(animal).Owns
	dogScope := tbl.Symbols.Get(dog).Owns
	legs := tbl.NewVariable(animalScope, "legs", b.Int, ast.NoNodeID, source.Span{})
	speak := tbl.NewFunction(animalScope, "speak", ast.NoNodeID, source.Span{})

	if !tbl.SetParentClass(dog, animal) {
		t.Fatalf("SetParentClass failed")
	}
	if tbl.SetParentClass(animal, dog) {
		t.Fatalf("cycle must be refused")
	}
	if got := tbl.Variable(dogScope, "legs"); got != legs {
		t.Fatalf("inherited field = %d, want %d", got, legs)
	}
	if got := tbl.Function(dogScope, "speak", nil); got != speak {
		t.Fatalf("inherited method = %d, want %d", got, speak)
	}
	if !tbl.ContainsSymbol(dogScope, legs) {
		t.Fatalf("dog scope should contain inherited field")
	}
	dogSym := tbl.Symbols.Get(dog)
	if !tbl.ContainsSymbol(dogScope, dogSym.This) || !tbl.ContainsSymbol(dogScope, dogSym.Super) {
		t.Fatalf("class scope should contain this and super")
	}
	if super := tbl.Symbols.Get(dogSym.Super); super.Type != tbl.Symbols.Get(animal).Type {
		t.Fatalf("super type = %d", super.Type)
	}
	if tbl.ContainsSymbol(animalScope, dogSym.This) {
		t.Fatalf("parent must not contain the child's this")
	}
	if !tbl.IsMethod(speak) || tbl.IsConstructor(speak) {
		t.Fatalf("speak should be a plain method")
	}
}

func TestConstructors(t *testing.T) {
	tbl, root := newTestTable()
	b := tbl.Types.Builtins()
	point := tbl.NewClass(root, "Point", ast.NoNodeID, source.Span{})
	scope := tbl.Symbols.Get(point).Owns
	ctor := tbl.NewFunction(scope, "Point", ast.NoNodeID, source.Span{})
	tbl.Types.SetFnParams(tbl.Symbols.Get(ctor).Type, []types.TypeID{b.Int, b.Int})

	if got := tbl.FindConstructor(point, []types.TypeID{b.Int, b.Int}); got != ctor {
		t.Fatalf("FindConstructor = %d, want %d", got, ctor)
	}
	if tbl.FindConstructor(point, nil).IsValid() {
		t.Fatalf("no zero-arg explicit constructor expected")
	}
	def := tbl.DefaultConstructor(point)
	if def != tbl.DefaultConstructor(point) {
		t.Fatalf("default constructor must be created once")
	}
	if !tbl.IsConstructor(def) || !tbl.IsConstructor(ctor) {
		t.Fatalf("constructors not recognised")
	}
	for _, id := range tbl.Scopes.Get(scope).Symbols {
		if id == def {
			t.Fatalf("default constructor must not be declared in the class scope")
		}
	}
}

func TestDump(t *testing.T) {
	tbl, root := newTestTable()
	b := tbl.Types.Builtins()
	tbl.NewVariable(root, "x", b.Float, ast.NoNodeID, source.Span{})
	tbl.NewClass(root, "C", ast.NoNodeID, source.Span{})
	var sb strings.Builder
	tbl.Dump(&sb, root)
	out := sb.String()
	for _, want := range []string{"scope#1 block", "variable x : float", "class C : C", "scope#2 class C"} {
		if !strings.Contains(out, want) {
			t.Fatalf("dump missing %q:\n%s", want, out)
		}
	}
}
