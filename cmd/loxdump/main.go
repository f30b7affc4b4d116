// Command loxdump compiles a Lox script and prints its disassembled
// bytecode, grounded on the teacher's cmd/inspect_bytecode tool.
package main

import (
	"fmt"
	"os"

	"lox/pkg/bytecode"
	"lox/pkg/compiler"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Println("Usage: loxdump <script.lox>")
		os.Exit(1)
	}

	path := os.Args[1]
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Printf("Error reading %s: %s\n", path, err)
		os.Exit(1)
	}

	interner := bytecode.NewInterner()
	chunk := bytecode.NewChunk()
	if err := compiler.Compile(string(source), chunk, interner); err != nil {
		fmt.Printf("Compiler error: %s\n", err)
		os.Exit(1)
	}

	fmt.Printf("Constants (%d):\n", len(chunk.Constants))
	for i, c := range chunk.Constants {
		fmt.Printf("  [%d] %s\n", i, bytecode.Print(c))
	}
	fmt.Println()

	fmt.Print(chunk.Disassemble(path))
}
