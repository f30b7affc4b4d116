package vm

import (
	"bytes"
	"testing"

	"lox/pkg/bytecode"
	"lox/pkg/compiler"
)

func run(t *testing.T, src string) (string, error) {
	t.Helper()
	interner := bytecode.NewInterner()
	chunk := bytecode.NewChunk()
	if err := compiler.Compile(src, chunk, interner); err != nil {
		t.Fatalf("unexpected compile error: %v", err)
	}
	var out bytes.Buffer
	machine := New(chunk, interner, &out)
	err := machine.Run()
	return out.String(), err
}

func TestGlobalDefineAndRead(t *testing.T) {
	out, err := run(t, `var x = 1; print x;`)
	if err != nil {
		t.Fatalf("unexpected runtime error: %v", err)
	}
	if out != "1\n" {
		t.Errorf("output = %q, want %q", out, "1\n")
	}
}

func TestGlobalAssignmentAcrossStatements(t *testing.T) {
	out, err := run(t, `var x = 1; x = x + 2; print x;`)
	if err != nil {
		t.Fatalf("unexpected runtime error: %v", err)
	}
	if out != "3\n" {
		t.Errorf("output = %q, want %q", out, "3\n")
	}
}

func TestAssignToUndefinedGlobalIsRuntimeError(t *testing.T) {
	_, err := run(t, `x = 1;`)
	if err == nil {
		t.Fatal("expected a runtime error for assigning an undefined global")
	}
}
