package parser

import (
	"testing"

	"lox/pkg/ast"
	"lox/pkg/scanner"
)

func parse(t *testing.T, src string) []ast.Stmt {
	t.Helper()
	p := New(scanner.New(src))
	stmts, err := p.Parse()
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	return stmts
}

func TestVarDeclaration(t *testing.T) {
	stmts := parse(t, `var a = 1 + 2;`)
	if len(stmts) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(stmts))
	}
	v, ok := stmts[0].(*ast.VarStmt)
	if !ok {
		t.Fatalf("stmt is %T, want *ast.VarStmt", stmts[0])
	}
	if v.Name.Lexeme != "a" {
		t.Errorf("name = %q, want %q", v.Name.Lexeme, "a")
	}
	bin, ok := v.Initializer.(*ast.Binary)
	if !ok {
		t.Fatalf("initializer is %T, want *ast.Binary", v.Initializer)
	}
	if bin.Operator.Lexeme != "+" {
		t.Errorf("operator = %q, want %q", bin.Operator.Lexeme, "+")
	}
}

func TestIfElse(t *testing.T) {
	stmts := parse(t, `if (x) print 1; else print 2;`)
	ifStmt, ok := stmts[0].(*ast.IfStmt)
	if !ok {
		t.Fatalf("stmt is %T, want *ast.IfStmt", stmts[0])
	}
	if ifStmt.ElseBranch == nil {
		t.Fatal("expected an else branch")
	}
}

func TestForDesugarsToWhile(t *testing.T) {
	stmts := parse(t, `for (var i = 0; i < 3; i = i + 1) print i;`)
	block, ok := stmts[0].(*ast.BlockStmt)
	if !ok {
		t.Fatalf("stmt is %T, want *ast.BlockStmt", stmts[0])
	}
	if len(block.Statements) != 2 {
		t.Fatalf("expected initializer + while, got %d statements", len(block.Statements))
	}
	if _, ok := block.Statements[0].(*ast.VarStmt); !ok {
		t.Errorf("first statement is %T, want *ast.VarStmt", block.Statements[0])
	}
	if _, ok := block.Statements[1].(*ast.WhileStmt); !ok {
		t.Errorf("second statement is %T, want *ast.WhileStmt", block.Statements[1])
	}
}

func TestFunctionDeclaration(t *testing.T) {
	stmts := parse(t, `fun add(a, b) { return a + b; }`)
	fn, ok := stmts[0].(*ast.FunctionStmt)
	if !ok {
		t.Fatalf("stmt is %T, want *ast.FunctionStmt", stmts[0])
	}
	if fn.Name.Lexeme != "add" {
		t.Errorf("name = %q, want %q", fn.Name.Lexeme, "add")
	}
	if len(fn.Params) != 2 {
		t.Fatalf("expected 2 params, got %d", len(fn.Params))
	}
	if len(fn.Body) != 1 {
		t.Fatalf("expected 1 body statement, got %d", len(fn.Body))
	}
}

func TestClassDeclarationWithSuperclass(t *testing.T) {
	stmts := parse(t, `class B < A { greet() { return this.name; } }`)
	cls, ok := stmts[0].(*ast.ClassStmt)
	if !ok {
		t.Fatalf("stmt is %T, want *ast.ClassStmt", stmts[0])
	}
	if cls.Superclass == nil || cls.Superclass.Name.Lexeme != "A" {
		t.Fatalf("expected superclass A, got %v", cls.Superclass)
	}
	if len(cls.Methods) != 1 || cls.Methods[0].Name.Lexeme != "greet" {
		t.Fatalf("unexpected methods: %+v", cls.Methods)
	}
}

func TestAssignmentTarget(t *testing.T) {
	stmts := parse(t, `a.b = 1;`)
	exprStmt, ok := stmts[0].(*ast.ExpressionStmt)
	if !ok {
		t.Fatalf("stmt is %T, want *ast.ExpressionStmt", stmts[0])
	}
	if _, ok := exprStmt.Expression.(*ast.Set); !ok {
		t.Fatalf("expression is %T, want *ast.Set", exprStmt.Expression)
	}
}

func TestInvalidAssignmentTargetIsError(t *testing.T) {
	p := New(scanner.New(`1 = 2;`))
	_, err := p.Parse()
	if err == nil {
		t.Fatal("expected a parse error for an invalid assignment target")
	}
}

func TestCallAndSuperExpression(t *testing.T) {
	stmts := parse(t, `class B < A { greet() { return super.greet(); } }`)
	cls := stmts[0].(*ast.ClassStmt)
	ret := cls.Methods[0].Body[0].(*ast.ReturnStmt)
	call, ok := ret.Value.(*ast.Call)
	if !ok {
		t.Fatalf("return value is %T, want *ast.Call", ret.Value)
	}
	if _, ok := call.Callee.(*ast.Super); !ok {
		t.Fatalf("callee is %T, want *ast.Super", call.Callee)
	}
}

func TestSynchronizeRecoversAfterError(t *testing.T) {
	p := New(scanner.New(`var ; var b = 1;`))
	stmts, err := p.Parse()
	if err == nil {
		t.Fatal("expected a parse error")
	}
	if len(stmts) != 1 {
		t.Fatalf("expected to recover the second statement, got %d statements", len(stmts))
	}
}
