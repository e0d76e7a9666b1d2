package sema_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"playscript/internal/ast"
	"playscript/internal/diag"
	"playscript/internal/parser"
	"playscript/internal/sema"
	"playscript/internal/source"
	"playscript/internal/symbols"
	"playscript/internal/trace"
)

func analyze(t *testing.T, src string) (*sema.AnnotatedTree, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.play", []byte(src))
	bag := diag.NewBag(0)
	res := parser.ParseFile(fs.Get(id), parser.Options{Reporter: diag.BagReporter{Bag: bag}})
	require.Zero(t, bag.Len(), "parse errors: %+v", bag.Items())
	at, err := sema.Analyze(context.Background(), res.Tree, sema.Options{Reporter: diag.BagReporter{Bag: bag}})
	require.NoError(t, err)
	return at, bag
}

func mustAnalyze(t *testing.T, src string) *sema.AnnotatedTree {
	t.Helper()
	at, bag := analyze(t, src)
	require.False(t, at.HasCompilationError(), "unexpected diagnostics: %+v", bag.Items())
	return at
}

func codes(bag *diag.Bag) []diag.Code {
	var out []diag.Code
	for _, d := range bag.Items() {
		out = append(out, d.Code)
	}
	return out
}

func nodesOf(tree *ast.Tree, kind ast.Kind) []ast.NodeID {
	var out []ast.NodeID
	for i := uint32(1); i <= tree.Len(); i++ {
		if id := ast.NodeID(i); tree.Kind(id) == kind {
			out = append(out, id)
		}
	}
	return out
}

func declarator(t *testing.T, at *sema.AnnotatedTree, name string) ast.NodeID {
	t.Helper()
	for _, id := range nodesOf(at.Tree, ast.KindDeclarator) {
		if d, _ := at.Tree.Declarator(id); d.Name == name {
			return id
		}
	}
	t.Fatalf("no declarator %q", name)
	return ast.NoNodeID
}

func identsNamed(at *sema.AnnotatedTree, name string) []ast.NodeID {
	var out []ast.NodeID
	for _, id := range nodesOf(at.Tree, ast.KindIdent) {
		if d, _ := at.Tree.Ident(id); d.Name == name {
			out = append(out, id)
		}
	}
	return out
}

func function(t *testing.T, at *sema.AnnotatedTree, name string, params int) *symbols.Symbol {
	t.Helper()
	for _, id := range at.Functions() {
		if sym := at.Table.Symbols.Get(id); sym.Name == name && len(sym.Params) == params {
			return sym
		}
	}
	t.Fatalf("no function %s/%d", name, params)
	return nil
}

func initType(t *testing.T, at *sema.AnnotatedTree, name string) string {
	t.Helper()
	d, _ := at.Tree.Declarator(declarator(t, at, name))
	return at.Types.Label(at.TypeOf(d.Init))
}

func TestScopeNesting(t *testing.T) {
	at := mustAnalyze(t, `
void f() {
  int x = 1;
  {
    int y = 2;
  }
}
`)
	f := function(t, at, "f", 0)
	x := at.Symbol(declarator(t, at, "x"))
	y := at.Symbol(declarator(t, at, "y"))
	require.NotNil(t, x)
	require.NotNil(t, y)

	// the body block shares the function scope
	assert.Equal(t, f.Owns, x.Scope)
	inner := at.Table.Scopes.Get(y.Scope)
	assert.Equal(t, symbols.ScopeBlock, inner.Kind)
	assert.Equal(t, f.Owns, inner.Parent)
	assert.Equal(t, at.Root, at.Table.Scopes.Get(f.Owns).Parent)
}

func TestShadowing(t *testing.T) {
	at := mustAnalyze(t, `
int a = 1;
void f() {
  float a = 2.0;
  println(a);
}
println(a);
`)
	uses := identsNamed(at, "a")
	require.Len(t, uses, 2)
	assert.Equal(t, "float", at.Types.Label(at.TypeOf(uses[0])))
	assert.Equal(t, "int", at.Types.Label(at.TypeOf(uses[1])))
	assert.NotEqual(t, at.NodeSymbol[uses[0]], at.NodeSymbol[uses[1]])
}

func TestForwardReferences(t *testing.T) {
	mustAnalyze(t, `
int r = twice(3);
Shape s = Shape();
int twice(int x) { return x * 2; }
class Shape {
  int area() { return side * side; }
  int side = 2;
}
`)
}

func TestUseBeforeDeclarationInBlock(t *testing.T) {
	_, bag := analyze(t, `
void f() {
  println(a);
  int a = 1;
}
`)
	assert.Equal(t, []diag.Code{diag.SemUnknownName}, codes(bag))
}

func TestNumericPromotion(t *testing.T) {
	at := mustAnalyze(t, `
float a = 1 + 2.0;
string s = "x" + 1;
int m = 7 % 2;
boolean b = 1 < 2.5;
int q = 7 / 2;
`)
	assert.Equal(t, "float", initType(t, at, "a"))
	assert.Equal(t, "string", initType(t, at, "s"))
	assert.Equal(t, "int", initType(t, at, "m"))
	assert.Equal(t, "boolean", initType(t, at, "b"))
	assert.Equal(t, "int", initType(t, at, "q"))
}

func TestVariableWinsOverFunction(t *testing.T) {
	at := mustAnalyze(t, `
int f = 1;
int f() { return 2; }
int g = f;
`)
	uses := identsNamed(at, "f")
	require.Len(t, uses, 1)
	sym := at.Symbol(uses[0])
	require.NotNil(t, sym)
	assert.Equal(t, symbols.SymbolVariable, sym.Kind)
}

func TestTypeErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want diag.Code
	}{
		{"narrowing", "int a = 1.5;", diag.TypAssignMismatch},
		{"logical operand", "boolean b = 1 && true;", diag.TypBooleanOperand},
		{"arithmetic operand", `int c = "s" - 1;`, diag.TypNumericOperand},
		{"modulo operand", "float x = 1.0; int y = x % 2;", diag.TypIntegerOperand},
		{"compound operand", `int a = 1; a += "x";`, diag.TypCompoundAssign},
		{"literal target", "1 = 2;", diag.TypNotAssignable},
		{"condition", "if (1) { }", diag.TypBooleanOperand},
		{"void return", "void f() { return 1; }", diag.TypAssignMismatch},
		{"wrong return", `int f() { return "s"; }`, diag.TypAssignMismatch},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, bag := analyze(t, tc.src)
			assert.Equal(t, []diag.Code{tc.want}, codes(bag))
		})
	}
}

func TestAssignableConversions(t *testing.T) {
	mustAnalyze(t, `
class A { }
class B extends A { }
float f = 1;
string s = null;
A a = B();
A n = null;
function int(int) op = null;
`)
}

func TestValidation(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want diag.Code
	}{
		{"break at top level", "break;", diag.ValBreakOutsideLoop},
		{"break in nested function", "while (true) { void g() { break; } }", diag.ValBreakOutsideLoop},
		{"return at top level", "return;", diag.ValReturnOutsideFunc},
		{"missing return", "int f() { println(1); }", diag.ValMissingReturn},
		{"return in constructor", "class A { A() { return 1; } }", diag.ValReturnInCtor},
		{"nested class", "void f() { class Inner { } }", diag.ValNestedClass},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, bag := analyze(t, tc.src)
			assert.Equal(t, []diag.Code{tc.want}, codes(bag))
		})
	}
}

func TestBreakInsideLoopIsValid(t *testing.T) {
	mustAnalyze(t, `
for (int i = 0; i < 3; i++) {
  if (i == 1) { break; }
}
while (true) { break; }
`)
}

func TestDuplicates(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want diag.Code
	}{
		{"class", "class A { } class A { }", diag.SemDuplicateClass},
		{"function", "void f(int a) { } void f(int b) { }", diag.SemDuplicateFunction},
		{"variable", "int a; int a;", diag.SemDuplicateVariable},
		{"parameter", "void f(int a, float a) { }", diag.SemDuplicateVariable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, bag := analyze(t, tc.src)
			assert.Equal(t, []diag.Code{tc.want}, codes(bag))
		})
	}
}

func TestOverloadsByParameterType(t *testing.T) {
	at := mustAnalyze(t, `
int g(int a) { return 1; }
int g(float a) { return 2; }
int x = g(1);
int y = g(1.5);
`)
	calls := nodesOf(at.Tree, ast.KindCall)
	require.Len(t, calls, 2)
	first := at.Symbol(calls[0])
	second := at.Symbol(calls[1])
	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.NotEqual(t, at.NodeSymbol[calls[0]], at.NodeSymbol[calls[1]])
	assert.Equal(t, "int", at.Types.Label(at.Table.Symbols.Get(first.Params[0]).Type))
	assert.Equal(t, "float", at.Types.Label(at.Table.Symbols.Get(second.Params[0]).Type))
}

func TestInheritance(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want diag.Code
	}{
		{"unknown parent", "class A extends B { }", diag.SemUnknownClass},
		{"parent is function", "int v() { return 1; } class A extends v { }", diag.SemParentNotClass},
		{"cycle", "class A extends B { } class B extends A { }", diag.SemCyclicInheritance},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, bag := analyze(t, tc.src)
			assert.Equal(t, []diag.Code{tc.want}, codes(bag))
		})
	}
}

func TestInheritedMembers(t *testing.T) {
	mustAnalyze(t, `
class A {
  int x = 1;
  int get() { return x; }
}
class B extends A {
  int twice() { return x + get(); }
}
B b = B();
int v = b.x + b.get() + b.twice();
`)
}

func TestMemberErrors(t *testing.T) {
	_, bag := analyze(t, `
class P { int x; }
P p = P();
p.q();
int c = p.z;
int n = 1;
n.x;
`)
	assert.Equal(t, []diag.Code{diag.SemUnknownMethod, diag.SemUnknownField, diag.SemNotAnObject}, codes(bag))
}

func TestThisOutsideClass(t *testing.T) {
	_, bag := analyze(t, "println(this);")
	assert.Equal(t, []diag.Code{diag.SemThisOutsideClass}, codes(bag))
}

func TestUnknownCalls(t *testing.T) {
	_, bag := analyze(t, `
nothing(1);
class C { C(int a) { } }
C c = C("s");
println(1, 2);
`)
	assert.Equal(t, []diag.Code{diag.SemUnknownFunction, diag.SemNoMatchingCtor, diag.SemUnknownFunction}, codes(bag))
}

func TestConstructorChaining(t *testing.T) {
	at := mustAnalyze(t, `
class A {
  int x;
  A(int v) { x = v; }
}
class B extends A {
  B() { super(3); }
  B(int v) { this(); }
}
class R {
  R() { super(); }
}
`)
	require.Len(t, at.SuperCtorRef, 1)
	require.Len(t, at.ThisCtorRef, 1)
	for call, ctor := range at.SuperCtorRef {
		sym := at.Table.Symbols.Get(ctor)
		assert.Equal(t, "A", sym.Name)
		assert.Len(t, sym.Params, 1)
		got, ok := at.Constructor(call)
		assert.True(t, ok)
		assert.Equal(t, ctor, got)
	}
	for _, ctor := range at.ThisCtorRef {
		sym := at.Table.Symbols.Get(ctor)
		assert.Equal(t, "B", sym.Name)
		assert.Empty(t, sym.Params)
	}
}

func TestConstructorCallErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want diag.Code
	}{
		{"not first", "class C { C(int a) { } C() { println(1); this(2); } }", diag.SemCtorCallNotFirst},
		{"outside class", "void f() { super(); }", diag.SemCtorCallOutside},
		{"outside constructor", "class C { void m() { this(); } }", diag.SemCtorCallOutside},
		{"calls itself", "class D { D() { this(); } }", diag.SemNoMatchingCtor},
		{"no match", "class E { E() { this(1); } }", diag.SemNoMatchingCtor},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, bag := analyze(t, tc.src)
			assert.Equal(t, []diag.Code{tc.want}, codes(bag))
		})
	}
}

func TestClosures(t *testing.T) {
	at := mustAnalyze(t, `
int g = 10;
function int() makeCounter() {
  int count = 0;
  int inc() {
    count = count + 1;
    return count;
  }
  return inc;
}
int add(int a) {
  int b = 1;
  return a + b + g;
}
class K {
  int f;
  int m() { return f + g; }
}
`)
	names := func(sym *symbols.Symbol) []string {
		var out []string
		for _, v := range sym.Closure {
			out = append(out, at.Table.Symbols.Get(v).Name)
		}
		return out
	}
	assert.Equal(t, []string{"count"}, names(function(t, at, "inc", 0)))
	assert.Empty(t, names(function(t, at, "makeCounter", 0)))
	assert.Equal(t, []string{"g"}, names(function(t, at, "add", 1)))
	assert.Empty(t, names(function(t, at, "m", 0)), "methods get no closure")
}

func TestEveryExpressionTyped(t *testing.T) {
	at := mustAnalyze(t, `
class Point {
  int x;
  int y;
  Point(int x0, int y0) { x = x0; y = y0; }
  Point() { this(0, 0); }
  int sum() { return this.x + y; }
}
class Point3 extends Point {
  int z = 3;
  Point3() { super(1, 2); }
  int sum() { return super.sum() + z; }
}
Point p = Point3();
int total = p.sum();
string label = "total=" + total;
boolean big = total > 5 && !(total == 7);
float avg = total / 2.0;
for (int i = 0; i < 3; i++) {
  total += -i;
}
println(label);
println(null);
`)
	kinds := []ast.Kind{ast.KindIdent, ast.KindLiteral, ast.KindBinary, ast.KindUnary,
		ast.KindPostfix, ast.KindCall, ast.KindSelector, ast.KindThis, ast.KindSuper}
	for _, kind := range kinds {
		for _, id := range nodesOf(at.Tree, kind) {
			_, ok := at.NodeType[id]
			assert.True(t, ok, "%s node %d has no type", kind, id)
		}
	}
	for _, id := range nodesOf(at.Tree, ast.KindIdent) {
		assert.Contains(t, at.NodeSymbol, id)
	}
}

func TestLookupType(t *testing.T) {
	at := mustAnalyze(t, `
class Box { }
int size() { return 1; }
`)
	assert.Equal(t, "Box", at.Types.Label(at.LookupType("Box")))
	assert.NotZero(t, at.LookupType("size"))
	assert.Zero(t, at.LookupType("missing"))
}

func TestAnalyzeTracesPasses(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.play", []byte("int a = 1;"))
	res := parser.ParseFile(fs.Get(id), parser.Options{})
	ring := trace.NewRingTracer(64, trace.LevelPhase)

	_, err := sema.Analyze(context.Background(), res.Tree, sema.Options{Tracer: ring})
	require.NoError(t, err)

	var names []string
	for _, ev := range ring.Snapshot() {
		if ev.Kind == trace.KindSpanBegin {
			names = append(names, ev.Name)
		}
	}
	assert.Equal(t, []string{"scopes", "decls", "resolve", "typecheck", "validate", "closures"}, names)
}

func TestAnalyzeStopsWhenCancelled(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.play", []byte("int a = 1;"))
	res := parser.ParseFile(fs.Get(id), parser.Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	at, err := sema.Analyze(ctx, res.Tree, sema.Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	require.NotNil(t, at)
}
