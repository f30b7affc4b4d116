// Package vm implements the bytecode engine's stack machine: no call
// frames, a fixed-size value stack, and an interned-string globals
// table, grounded on the teacher's pkg/vm hot-loop structuring and
// clox's vm.c.
package vm

import (
	"fmt"
	"io"
	"os"

	"lox/pkg/bytecode"
)

// StackSize bounds the VM's value stack; exceeding it is a runtime
// error rather than a silent resize, the same way clox's fixed-size
// STACK_MAX works.
const StackSize = 256

// RuntimeError carries the line of the instruction that faulted, for
// the same "<message>\n[line N]" reporting the tree engine uses.
type RuntimeError struct {
	Line    int
	Message string
}

func (e *RuntimeError) Error() string { return e.Message }

// VM executes one compiled Chunk. It owns no allocator beyond Go's own
// GC, but tracks every *bytecode.String it hands out through interner
// so all equal-content strings compiled or allocated during a run stay
// deduplicated.
type VM struct {
	chunk    *bytecode.Chunk
	ip       int
	stack    [StackSize]bytecode.Value
	sp       int
	globals  *bytecode.Table
	interner *bytecode.Interner
	out      io.Writer
}

// New creates a VM over chunk. interner must be the same Interner the
// chunk was compiled with, so runtime-constructed strings (the results
// of string concatenation) share the compiler's pool.
func New(chunk *bytecode.Chunk, interner *bytecode.Interner, out io.Writer) *VM {
	if out == nil {
		out = os.Stdout
	}
	return &VM{
		chunk:    chunk,
		globals:  bytecode.NewTable(),
		interner: interner,
		out:      out,
	}
}

func (vm *VM) push(v bytecode.Value) error {
	if vm.sp >= StackSize {
		return &RuntimeError{Line: vm.currentLine(), Message: "Stack overflow."}
	}
	vm.stack[vm.sp] = v
	vm.sp++
	return nil
}

func (vm *VM) pop() bytecode.Value {
	vm.sp--
	return vm.stack[vm.sp]
}

func (vm *VM) peek(distance int) bytecode.Value {
	return vm.stack[vm.sp-1-distance]
}

func (vm *VM) currentLine() int {
	if vm.ip > 0 && vm.ip-1 < len(vm.chunk.Lines) {
		return vm.chunk.Lines[vm.ip-1]
	}
	return 0
}

func (vm *VM) runtimeError(format string, args ...interface{}) error {
	return &RuntimeError{Line: vm.currentLine(), Message: fmt.Sprintf(format, args...)}
}

// Run executes the chunk to completion (an OP_RETURN halts the VM;
// there are no call frames to unwind to).
func (vm *VM) Run() error {
	code := vm.chunk.Code
	for vm.ip < len(code) {
		op := bytecode.Op(code[vm.ip])
		vm.ip++

		switch op {
		case bytecode.OpConstant:
			idx := code[vm.ip]
			vm.ip++
			if err := vm.push(vm.chunk.Constants[idx]); err != nil {
				return err
			}

		case bytecode.OpNil:
			if err := vm.push(bytecode.NilVal()); err != nil {
				return err
			}
		case bytecode.OpTrue:
			if err := vm.push(bytecode.BoolVal(true)); err != nil {
				return err
			}
		case bytecode.OpFalse:
			if err := vm.push(bytecode.BoolVal(false)); err != nil {
				return err
			}

		case bytecode.OpPop:
			vm.pop()

		case bytecode.OpGetLocal:
			slot := code[vm.ip]
			vm.ip++
			if err := vm.push(vm.stack[slot]); err != nil {
				return err
			}
		case bytecode.OpSetLocal:
			slot := code[vm.ip]
			vm.ip++
			vm.stack[slot] = vm.peek(0)

		case bytecode.OpGetGlobal:
			name := vm.chunk.Constants[code[vm.ip]].AsString()
			vm.ip++
			value, ok := vm.globals.Get(name)
			if !ok {
				return vm.runtimeError("Undefined variable '%s'.", name.Chars)
			}
			if err := vm.push(value); err != nil {
				return err
			}
		case bytecode.OpDefineGlobal:
			name := vm.chunk.Constants[code[vm.ip]].AsString()
			vm.ip++
			vm.globals.Set(name, vm.pop())
		case bytecode.OpSetGlobal:
			name := vm.chunk.Constants[code[vm.ip]].AsString()
			vm.ip++
			if vm.globals.Set(name, vm.peek(0)) {
				vm.globals.Delete(name)
				return vm.runtimeError("Undefined variable '%s'.", name.Chars)
			}

		case bytecode.OpEqual:
			b := vm.pop()
			a := vm.pop()
			if err := vm.push(bytecode.BoolVal(bytecode.Equal(a, b))); err != nil {
				return err
			}
		case bytecode.OpGreater:
			if err := vm.binaryNumberCompare(func(a, b float64) bool { return a > b }); err != nil {
				return err
			}
		case bytecode.OpLess:
			if err := vm.binaryNumberCompare(func(a, b float64) bool { return a < b }); err != nil {
				return err
			}

		case bytecode.OpAdd:
			if err := vm.add(); err != nil {
				return err
			}
		case bytecode.OpSub:
			if err := vm.binaryNumberOp(func(a, b float64) float64 { return a - b }); err != nil {
				return err
			}
		case bytecode.OpMul:
			if err := vm.binaryNumberOp(func(a, b float64) float64 { return a * b }); err != nil {
				return err
			}
		case bytecode.OpDiv:
			if err := vm.binaryNumberOp(func(a, b float64) float64 { return a / b }); err != nil {
				return err
			}

		case bytecode.OpNot:
			vm.stack[vm.sp-1] = bytecode.BoolVal(vm.peek(0).IsFalsey())
		case bytecode.OpNegate:
			if !vm.peek(0).IsNumber() {
				return vm.runtimeError("Operand must be a number.")
			}
			vm.stack[vm.sp-1] = bytecode.NumberVal(-vm.peek(0).Number)

		case bytecode.OpPrint:
			fmt.Fprintln(vm.out, bytecode.Print(vm.pop()))

		case bytecode.OpJump:
			offset := bytecode.ReadUint16(code[vm.ip:])
			vm.ip += 2 + int(offset)
		case bytecode.OpJumpIfFalse:
			offset := bytecode.ReadUint16(code[vm.ip:])
			vm.ip += 2
			if vm.peek(0).IsFalsey() {
				vm.ip += int(offset)
			}
		case bytecode.OpLoop:
			offset := bytecode.ReadUint16(code[vm.ip:])
			vm.ip += 2 - int(offset)

		case bytecode.OpReturn:
			return nil

		default:
			return vm.runtimeError("Unknown opcode %d.", byte(op))
		}
	}
	return nil
}

func (vm *VM) add() error {
	b := vm.peek(0)
	a := vm.peek(1)
	switch {
	case a.IsNumber() && b.IsNumber():
		vm.pop()
		vm.pop()
		return vm.push(bytecode.NumberVal(a.Number + b.Number))
	case a.IsString() && b.IsString():
		vm.pop()
		vm.pop()
		concatenated := vm.interner.Intern(a.AsString().Chars + b.AsString().Chars)
		return vm.push(bytecode.ObjVal(concatenated))
	default:
		return vm.runtimeError("Operands must be two numbers or two strings.")
	}
}

func (vm *VM) binaryNumberOp(f func(a, b float64) float64) error {
	if !vm.peek(0).IsNumber() || !vm.peek(1).IsNumber() {
		return vm.runtimeError("Operands must be numbers.")
	}
	b := vm.pop()
	a := vm.pop()
	return vm.push(bytecode.NumberVal(f(a.Number, b.Number)))
}

func (vm *VM) binaryNumberCompare(f func(a, b float64) bool) error {
	if !vm.peek(0).IsNumber() || !vm.peek(1).IsNumber() {
		return vm.runtimeError("Operands must be numbers.")
	}
	b := vm.pop()
	a := vm.pop()
	return vm.push(bytecode.BoolVal(f(a.Number, b.Number)))
}
