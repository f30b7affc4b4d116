package benchmarks

import (
	"io"
	"testing"

	"lox/pkg/bytecode"
	"lox/pkg/compiler"
	"lox/pkg/vm"
)

// Native Go baselines for the same workloads the VM/tree benchmarks
// run, to see how much interpretation overhead either engine pays.
func BenchmarkGoAddition(b *testing.B) {
	var result int64
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		result = 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5
	}
	_ = result
}

func BenchmarkGoComparison(b *testing.B) {
	var result bool
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		result = 1 < 2
	}
	_ = result
}

// BenchmarkVMAdditionFreshChunk recompiles the chunk on every
// iteration, unlike BenchmarkVMAddition which compiles once, to
// isolate the compiler's share of the addition benchmark's cost.
func BenchmarkVMAdditionFreshChunk(b *testing.B) {
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		interner := bytecode.NewInterner()
		chunk := bytecode.NewChunk()
		if err := compiler.Compile(additionChain, chunk, interner); err != nil {
			b.Fatal(err)
		}
		machine := vm.New(chunk, interner, io.Discard)
		if err := machine.Run(); err != nil {
			b.Fatal(err)
		}
	}
}
