package vm_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"playscript/internal/diag"
	"playscript/internal/parser"
	"playscript/internal/sema"
	"playscript/internal/source"
	"playscript/internal/trace"
	"playscript/internal/vm"
)

func compile(t *testing.T, src string) (*sema.AnnotatedTree, *source.FileSet) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.play", []byte(src))
	bag := diag.NewBag(0)
	res := parser.ParseFile(fs.Get(id), parser.Options{Reporter: diag.BagReporter{Bag: bag}})
	require.Zero(t, bag.Len(), "parse errors: %+v", bag.Items())
	at, err := sema.Analyze(context.Background(), res.Tree, sema.Options{Reporter: diag.BagReporter{Bag: bag}})
	require.NoError(t, err)
	require.False(t, at.HasCompilationError(), "unexpected diagnostics: %+v", bag.Items())
	return at, fs
}

func runWith(t *testing.T, ctx context.Context, src string, opts vm.Options) (*vm.CaptureRuntime, error) {
	t.Helper()
	at, fs := compile(t, src)
	rt := vm.NewCaptureRuntime()
	opts.Runtime = rt
	return rt, vm.New(at, fs, opts).Run(ctx)
}

func output(t *testing.T, src string) []string {
	t.Helper()
	rt, err := runWith(t, context.Background(), src, vm.Options{})
	require.NoError(t, err)
	return rt.Lines()
}

func fault(t *testing.T, src string) *vm.VMError {
	t.Helper()
	_, err := runWith(t, context.Background(), src, vm.Options{})
	require.Error(t, err)
	var vmErr *vm.VMError
	require.True(t, errors.As(err, &vmErr), "expected VMError, got %v", err)
	return vmErr
}

func TestShadowing(t *testing.T) {
	lines := output(t, `
int a = 1;
{
    int a = 2;
    println(a);
}
println(a);
`)
	assert.Equal(t, []string{"2", "1"}, lines)
}

func TestNumericPromotion(t *testing.T) {
	lines := output(t, `
println(1 + 2.0);
println("x" + 1);
float f = 1;
println(f);
f += 2;
println(f);
println(2.0 * 3);
println(1.5);
println(1 == 1.0);
println(3 > 2.5);
`)
	assert.Equal(t, []string{"3.0", "x1", "1.0", "3.0", "6.0", "1.5", "true", "true"}, lines)
}

func TestIntegerArithmetic(t *testing.T) {
	lines := output(t, `
println(7 / 2);
println(-7 / 2);
println(7 % 3);
int k = 10;
k %= 4;
println(k);
k += 3;
k *= 2;
k -= 1;
println(k);
println(0x1F);
println(k++);
println(k);
println(--k);
println(-k);
`)
	assert.Equal(t, []string{"3", "-3", "1", "2", "9", "31", "9", "10", "9", "-9"}, lines)
}

func TestPrintForms(t *testing.T) {
	lines := output(t, `
class Point { int x; }
int id(int v) { return v; }
Point p = Point();
string s;
println(true);
println(null);
println(s);
println();
println(p);
println(id);
println("a\tb");
println("p=" + p);
println(p.x);
`)
	assert.Equal(t, []string{"true", "null", "null", "", "<Point object>", "<function id>", "a\tb", "p=<Point object>", "0"}, lines)
}

func TestSingleLevelBreak(t *testing.T) {
	lines := output(t, `
for (int i = 0; i < 3; i++) {
    for (int j = 0; j < 3; j++) {
        if (j == 1) break;
        println(i + "," + j);
    }
}
int n = 0;
while (true) {
    n++;
    if (n == 4) break;
}
println(n);
`)
	assert.Equal(t, []string{"0,0", "1,0", "2,0", "4"}, lines)
}

func TestReturnLeavesNestedLoops(t *testing.T) {
	lines := output(t, `
int find() {
    for (int i = 0; i < 10; i++) {
        while (true) {
            if (i == 3) return i;
            break;
        }
    }
    return -1;
}
println(find());
`)
	assert.Equal(t, []string{"3"}, lines)
}

func TestConstructorChaining(t *testing.T) {
	lines := output(t, `
class A {
    int x = 1;
    A() { println("A " + x); }
}
class B extends A {
    int y = x + 1;
    B() {
        super();
        println("B " + y);
    }
    B(int v) {
        this();
        y = v;
        println("B(int) " + y);
    }
}
B b = B();
B c = B(5);
println(c.x + c.y);
`)
	assert.Equal(t, []string{"A 1", "B 2", "A 1", "B 2", "B(int) 5", "6"}, lines)
}

func TestVirtualDispatch(t *testing.T) {
	lines := output(t, `
class A {
    string speak() { return "A"; }
    string hello() { return speak(); }
}
class B extends A {
    string speak() { return "B+" + super.speak(); }
}
A a = B();
println(a.speak());
println(a.hello());
A plain = A();
println(plain.hello());
`)
	assert.Equal(t, []string{"B+A", "B+A", "A"}, lines)
}

func TestFieldsAndMethods(t *testing.T) {
	lines := output(t, `
class Counter {
    int n;
    void add(int d) { n = n + d; }
    int get() { return this.n; }
}
Counter c = Counter();
c.add(2);
c.add(3);
println(c.get());
c.n = 10;
println(c.n);
Counter d = c;
d.add(1);
println(c.get());
println(c == d);
println(c == Counter());
println(c != null);
`)
	assert.Equal(t, []string{"5", "10", "11", "true", "false", "true"}, lines)
}

func TestRecursion(t *testing.T) {
	lines := output(t, `
int fib(int n) {
    if (n < 2) return n;
    return fib(n - 1) + fib(n - 2);
}
println(fib(15));
`)
	assert.Equal(t, []string{"610"}, lines)
}

func TestClosureSurvivesEscape(t *testing.T) {
	lines := output(t, `
function int() makeCounter(int start) {
    int count = start;
    int inc() {
        count = count + 1;
        return count;
    }
    return inc;
}
function int() a = makeCounter(0);
function int() b = makeCounter(10);
println(a());
println(a());
println(b());
println(a());
`)
	assert.Equal(t, []string{"1", "2", "11", "3"}, lines)
}

func TestFunctionValuePassedDown(t *testing.T) {
	lines := output(t, `
void twice(function void() f) {
    f();
    f();
}
void main() {
    int n = 0;
    void bump() { n = n + 1; }
    twice(bump);
    println(n);
}
main();
int square(int x) { return x * x; }
int apply(function int(int) f, int v) { return f(v); }
println(apply(square, 7));
`)
	assert.Equal(t, []string{"2", "49"}, lines)
}

func TestObjectWithFunctionFields(t *testing.T) {
	lines := output(t, `
class Box {
    function int() get;
    function void(int) set;
}
Box make(int v) {
    int read() { return v; }
    void write(int x) { v = x; }
    Box b = Box();
    b.get = read;
    b.set = write;
    return b;
}
Box box = make(7);
println(box.get());
box.set(9);
println(box.get());
`)
	assert.Equal(t, []string{"7", "9"}, lines)
}

func TestClosureKeepsItsOwnActivation(t *testing.T) {
	lines := output(t, `
function int() make(int n) {
    int get() { return n; }
    if (n > 0) {
        function int() inner = make(n - 1);
        println(inner());
    }
    return get;
}
function int() outer = make(2);
println(outer());
`)
	assert.Equal(t, []string{"0", "1", "2"}, lines)
}

func TestClosureCalledFromLaterActivation(t *testing.T) {
	lines := output(t, `
int zero() { return 0; }
function int() make(int n, function int() prev) {
    int get() { return n; }
    println(prev());
    return get;
}
function int() a = make(1, zero);
function int() b = make(2, a);
println(b());
`)
	assert.Equal(t, []string{"0", "1", "2"}, lines)
}

func TestReturnedObjectKeepsEarlierCaptures(t *testing.T) {
	lines := output(t, `
class Box { function int() get; }
function int() mk(int v) {
    int r() { return v; }
    return r;
}
Box wrap() {
    Box b = Box();
    b.get = mk(3);
    return b;
}
Box x = wrap();
println(x.get());
`)
	assert.Equal(t, []string{"3"}, lines)
}

func TestShortCircuit(t *testing.T) {
	lines := output(t, `
boolean loud(boolean v) {
    println("eval " + v);
    return v;
}
if (false && loud(true)) println("no");
if (true || loud(false)) println("yes");
println(!loud(false));
`)
	assert.Equal(t, []string{"yes", "eval false", "true"}, lines)
}

func TestDivisionByZero(t *testing.T) {
	err := fault(t, `
int div(int a, int b) { return a / b; }
int z = 0;
println(div(1, z));
`)
	assert.Equal(t, vm.PanicDivisionByZero, err.Code)
	require.Len(t, err.Backtrace, 1)
	assert.Equal(t, "div", err.Backtrace[0].FuncName)
	assert.Equal(t, "VM1005", err.Code.String())

	assert.Equal(t, vm.PanicDivisionByZero, fault(t, `int z = 0; println(5 % z);`).Code)
}

func TestFloatDivisionByZero(t *testing.T) {
	assert.Equal(t, []string{"+Inf"}, output(t, `float z = 0; println(1.0 / z);`))
}

func TestNullReceiver(t *testing.T) {
	err := fault(t, `
class A { int x; int get() { return x; } }
A a;
println(a.x);
`)
	assert.Equal(t, vm.PanicNullReference, err.Code)

	err = fault(t, `
class A { int get() { return 1; } }
A a = null;
a.get();
`)
	assert.Equal(t, vm.PanicNullReference, err.Code)

	err = fault(t, `
function void() f;
f();
`)
	assert.Equal(t, vm.PanicNullReference, err.Code)
}

func TestFaultFormatting(t *testing.T) {
	at, fs := compile(t, "int f(int n) {\n  return 10 / n;\n}\nprintln(f(0));\n")
	err := vm.New(at, fs, vm.Options{Runtime: vm.NewCaptureRuntime()}).Run(context.Background())
	var vmErr *vm.VMError
	require.True(t, errors.As(err, &vmErr))
	text := vmErr.FormatWithFiles(fs)
	assert.True(t, strings.HasPrefix(text, "panic VM1005: integer division by zero\nat test.play:2:"), text)
	assert.Contains(t, text, "0: f called at test.play:4:")
}

func TestMaxCallDepth(t *testing.T) {
	_, err := runWith(t, context.Background(), `
int down(int n) { return down(n + 1); }
down(0);
`, vm.Options{MaxCallDepth: 50})
	var vmErr *vm.VMError
	require.True(t, errors.As(err, &vmErr), "expected VMError, got %v", err)
	assert.Equal(t, vm.PanicStackOverflow, vmErr.Code)
	assert.Len(t, vmErr.Backtrace, 50)
}

func TestCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := runWith(t, ctx, `while (true) { }`, vm.Options{})
	var vmErr *vm.VMError
	require.True(t, errors.As(err, &vmErr), "expected VMError, got %v", err)
	assert.Equal(t, vm.PanicCancelled, vmErr.Code)
}

func TestRefusesTreesWithErrors(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("bad.play", []byte(`println(missing);`))
	bag := diag.NewBag(0)
	res := parser.ParseFile(fs.Get(id), parser.Options{Reporter: diag.BagReporter{Bag: bag}})
	at, err := sema.Analyze(context.Background(), res.Tree, sema.Options{Reporter: diag.BagReporter{Bag: bag}})
	require.NoError(t, err)
	require.True(t, at.HasCompilationError())

	rt := vm.NewCaptureRuntime()
	err = vm.New(at, fs, vm.Options{Runtime: rt}).Run(context.Background())
	assert.True(t, errors.Is(err, vm.ErrCompilation))
	assert.Empty(t, rt.Lines())
}

func TestTracesDispatchAndFallback(t *testing.T) {
	ring := trace.NewRingTracer(4096, trace.LevelDebug)
	_, err := runWith(t, context.Background(), `
class A { int v() { return 1; } }
class B extends A { int v() { return 2; } }
class Box { function int() get; }
Box make(int n) {
    int read() { return n; }
    Box b = Box();
    b.get = read;
    return b;
}
A a = B();
println(a.v());
println(make(3).get());
`, vm.Options{Trace: ring})
	require.NoError(t, err)

	seen := make(map[string]bool)
	for _, ev := range ring.Snapshot() {
		seen[ev.Name] = true
	}
	assert.True(t, seen["dispatch"], "dispatch not traced")
	assert.True(t, seen["frame-fallback"], "fallback not traced")
	assert.True(t, seen["call"], "calls not traced")
	assert.True(t, seen["evaluate"], "run span not traced")
}

func TestDefaultRuntimeWritesLines(t *testing.T) {
	var sb strings.Builder
	rt := vm.NewRuntimeWithWriter(&sb)
	rt.Println("one")
	rt.Println("two")
	require.NoError(t, rt.Flush())
	assert.Equal(t, "one\ntwo\n", sb.String())
}
