package benchmarks

import (
	"io"
	"testing"

	"lox/pkg/ast"
	"lox/pkg/bytecode"
	"lox/pkg/compiler"
	"lox/pkg/interpreter"
	"lox/pkg/parser"
	"lox/pkg/resolver"
	"lox/pkg/scanner"
	"lox/pkg/vm"
)

const additionChain = `print 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5;`
const comparisonExpr = `print 1 < 2;`

func BenchmarkVMAddition(b *testing.B) {
	interner := bytecode.NewInterner()
	chunk := bytecode.NewChunk()
	if err := compiler.Compile(additionChain, chunk, interner); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		machine := vm.New(chunk, interner, io.Discard)
		if err := machine.Run(); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkTreeWalkAddition(b *testing.B) {
	stmts, locals := parseAndResolve(b, additionChain)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		interp := interpreter.New(locals, io.Discard)
		if err := interp.Interpret(stmts); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkVMComparison(b *testing.B) {
	interner := bytecode.NewInterner()
	chunk := bytecode.NewChunk()
	if err := compiler.Compile(comparisonExpr, chunk, interner); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		machine := vm.New(chunk, interner, io.Discard)
		if err := machine.Run(); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkTreeWalkComparison(b *testing.B) {
	stmts, locals := parseAndResolve(b, comparisonExpr)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		interp := interpreter.New(locals, io.Discard)
		if err := interp.Interpret(stmts); err != nil {
			b.Fatal(err)
		}
	}
}

func parseAndResolve(b *testing.B, src string) ([]ast.Stmt, map[ast.Expr]int) {
	b.Helper()
	p := parser.New(scanner.New(src))
	parsed, err := p.Parse()
	if err != nil {
		b.Fatal(err)
	}
	resolved, err := resolver.New().Resolve(parsed)
	if err != nil {
		b.Fatal(err)
	}
	return parsed, resolved
}
