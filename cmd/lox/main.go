// Command lox is the interpreter entry point: a REPL when run with no
// arguments, a script runner when given a file, grounded on the
// teacher's cmd/flowa REPL/run-file structuring.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"

	"lox/pkg/bytecode"
	"lox/pkg/compiler"
	"lox/pkg/interpreter"
	"lox/pkg/parser"
	"lox/pkg/resolver"
	"lox/pkg/scanner"
	"lox/pkg/vm"
)

// sysexits.h-style exit codes.
const (
	exitUsage    = 64
	exitData     = 65 // parse/resolve/compile error
	exitSoftware = 70 // runtime error
	exitIOErr    = 74
)

const enginePrompt = "> "

func main() {
	_ = godotenv.Load()

	engine := selectEngine()

	switch len(os.Args) {
	case 1:
		runPrompt(engine)
	case 2:
		runFile(os.Args[1], engine)
	default:
		fmt.Fprintln(os.Stderr, "Usage: lox [script]")
		os.Exit(exitUsage)
	}
}

type engineKind int

const (
	engineTree engineKind = iota
	engineVM
)

// selectEngine reads LOX_ENGINE ("tree" or "vm") from the environment
// or a loaded .env file; the tree engine is the default per this
// project's engine-selection guidance.
func selectEngine() engineKind {
	if os.Getenv("LOX_ENGINE") == "vm" {
		return engineVM
	}
	return engineTree
}

func runPrompt(engine engineKind) {
	prompt := enginePrompt
	if p := os.Getenv("LOX_PROMPT"); p != "" {
		prompt = p
	}

	in := bufio.NewScanner(os.Stdin)
	out := os.Stdout

	var treeInterp *interpreter.Interpreter
	var vmInterner *bytecode.Interner

	for {
		fmt.Fprint(out, prompt)
		if !in.Scan() {
			fmt.Fprintln(out)
			return
		}
		line := in.Text()

		switch engine {
		case engineTree:
			if err := runTreeLine(line, &treeInterp, out); err != nil {
				reportError(err)
			}
		case engineVM:
			if vmInterner == nil {
				vmInterner = bytecode.NewInterner()
			}
			if err := runVMLine(line, vmInterner, out); err != nil {
				reportError(err)
			}
		}
	}
}

// runTreeLine parses and resolves one REPL line on its own, then runs
// it on a single long-lived interpreter (created on the first line)
// whose globals frame carries state from prior lines forward.
func runTreeLine(line string, interp **interpreter.Interpreter, out io.Writer) error {
	p := parser.New(scanner.New(line))
	stmts, err := p.Parse()
	if err != nil {
		return err
	}
	locals, err := resolver.New().Resolve(stmts)
	if err != nil {
		return err
	}
	if *interp == nil {
		*interp = interpreter.New(locals, out)
	} else {
		(*interp).MergeLocals(locals)
	}
	return (*interp).Interpret(stmts)
}

func runVMLine(line string, interner *bytecode.Interner, out io.Writer) error {
	chunk := bytecode.NewChunk()
	if err := compiler.Compile(line, chunk, interner); err != nil {
		return err
	}
	machine := vm.New(chunk, interner, out)
	return machine.Run()
}

func runFile(path string, engine engineKind) {
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", path, err)
		os.Exit(exitIOErr)
	}

	switch engine {
	case engineTree:
		runTreeSource(string(source))
	case engineVM:
		runVMSource(string(source))
	}
}

func runTreeSource(source string) {
	p := parser.New(scanner.New(source))
	stmts, err := p.Parse()
	if err != nil {
		reportError(err)
		os.Exit(exitData)
	}

	locals, err := resolver.New().Resolve(stmts)
	if err != nil {
		reportError(err)
		os.Exit(exitData)
	}

	interp := interpreter.New(locals, os.Stdout)
	if err := interp.Interpret(stmts); err != nil {
		reportError(err)
		os.Exit(exitSoftware)
	}
}

func runVMSource(source string) {
	interner := bytecode.NewInterner()
	chunk := bytecode.NewChunk()
	if err := compiler.Compile(source, chunk, interner); err != nil {
		reportError(err)
		os.Exit(exitData)
	}

	machine := vm.New(chunk, interner, os.Stdout)
	if err := machine.Run(); err != nil {
		reportError(err)
		os.Exit(exitSoftware)
	}
}

// reportError formats static (parse/resolve/compile) errors as-is —
// they already carry "[line N] Error...: message" — and runtime
// errors from either engine as "<message>\n[line N]" per §6.
func reportError(err error) {
	switch e := err.(type) {
	case *interpreter.RuntimeError:
		fmt.Fprintf(os.Stderr, "%s\n[line %d]\n", e.Message, e.Line())
	case *vm.RuntimeError:
		fmt.Fprintf(os.Stderr, "%s\n[line %d]\n", e.Message, e.Line)
	default:
		fmt.Fprintln(os.Stderr, err)
	}
}
