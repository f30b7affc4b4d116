package interpreter

import (
	"bytes"
	"strings"
	"testing"

	"lox/pkg/parser"
	"lox/pkg/resolver"
	"lox/pkg/scanner"
	"lox/pkg/token"
)

func run(t *testing.T, src string) (string, error) {
	t.Helper()
	p := parser.New(scanner.New(src))
	stmts, err := p.Parse()
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	locals, err := resolver.New().Resolve(stmts)
	if err != nil {
		t.Fatalf("unexpected resolve error: %v", err)
	}
	var out bytes.Buffer
	interp := New(locals, &out)
	runErr := interp.Interpret(stmts)
	return out.String(), runErr
}

func TestArithmeticPrecedence(t *testing.T) {
	out, err := run(t, `print 1 + 2 * 3;`)
	if err != nil {
		t.Fatalf("unexpected runtime error: %v", err)
	}
	if strings.TrimSpace(out) != "7" {
		t.Errorf("output = %q, want %q", out, "7")
	}
}

func TestScopingShadowsPrintWithClosure(t *testing.T) {
	src := `
var a = "global";
{
  fun showA() { print a; }
  showA();
  var a = "block";
  showA();
}
`
	out, err := run(t, src)
	if err != nil {
		t.Fatalf("unexpected runtime error: %v", err)
	}
	want := "global\nglobal\n"
	if out != want {
		t.Errorf("output = %q, want %q", out, want)
	}
}

func TestInheritanceWithSuperInit(t *testing.T) {
	src := `
class Quad {
  init(a, b, c, d) { this.a = a; this.b = b; this.c = c; this.d = d; }
}
class Rect < Quad {
  init(l, h) { super.init(l, l, h, h); }
  area() { return this.a * this.c; }
}
print Rect(11, 14).area();
`
	out, err := run(t, src)
	if err != nil {
		t.Fatalf("unexpected runtime error: %v", err)
	}
	if strings.TrimSpace(out) != "154" {
		t.Errorf("output = %q, want %q", out, "154")
	}
}

func TestCounterViaClosure(t *testing.T) {
	src := `
fun makeCounter() {
  var i = 0;
  fun c() { i = i + 1; print i; }
  return c;
}
var k = makeCounter();
k();
k();
`
	out, err := run(t, src)
	if err != nil {
		t.Fatalf("unexpected runtime error: %v", err)
	}
	if out != "1\n2\n" {
		t.Errorf("output = %q, want %q", out, "1\n2\n")
	}
}

func TestInitReturnsThis(t *testing.T) {
	src := `class B { init(x) { this.x = x; } } print B(7).x;`
	out, err := run(t, src)
	if err != nil {
		t.Fatalf("unexpected runtime error: %v", err)
	}
	if strings.TrimSpace(out) != "7" {
		t.Errorf("output = %q, want %q", out, "7")
	}
}

func TestRuntimeTypeError(t *testing.T) {
	_, err := run(t, `print 1 + "a";`)
	if err == nil {
		t.Fatal("expected a runtime error")
	}
	rerr, ok := err.(*RuntimeError)
	if !ok {
		t.Fatalf("error is %T, want *RuntimeError", err)
	}
	if rerr.Message != "Operands must be two numbers or two strings." {
		t.Errorf("message = %q", rerr.Message)
	}
}

func TestFieldShadowsMethod(t *testing.T) {
	src := `
class Box {
  greet() { return "method"; }
}
var b = Box();
b.greet = "field";
print b.greet;
`
	out, err := run(t, src)
	if err != nil {
		t.Fatalf("unexpected runtime error: %v", err)
	}
	if strings.TrimSpace(out) != "field" {
		t.Errorf("output = %q, want %q", out, "field")
	}
}

func TestMethodBindingIsNotReferenceEqual(t *testing.T) {
	src := `class A { m() { return 1; } } var a = A(); var x = a.m; var y = a.m;`
	p := parser.New(scanner.New(src))
	stmts, err := p.Parse()
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	locals, err := resolver.New().Resolve(stmts)
	if err != nil {
		t.Fatalf("unexpected resolve error: %v", err)
	}
	interp := New(locals, &bytes.Buffer{})
	if err := interp.Interpret(stmts); err != nil {
		t.Fatalf("unexpected runtime error: %v", err)
	}
	x, _ := interp.globals.Get(token.Token{Lexeme: "x"})
	y, _ := interp.globals.Get(token.Token{Lexeme: "y"})
	xf, ok := x.(*Function)
	if !ok {
		t.Fatalf("x is %T, want *Function", x)
	}
	yf, ok := y.(*Function)
	if !ok {
		t.Fatalf("y is %T, want *Function", y)
	}
	if xf == yf {
		t.Error("expected distinct bound callables on repeated access")
	}
}
