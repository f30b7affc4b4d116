package interpreter

import (
	"fmt"
	"strconv"

	"lox/pkg/ast"
)

// Value is the universal runtime value shared by every Lox expression.
// The tree engine represents the §3 tagged sum directly with Go's
// dynamic typing, the same way jlox represents it with java.lang.Object:
// nil is Nil, bool is Bool, float64 is Number, and everything else is a
// heap object (*Function, *Class, *Instance, *NativeFn, or a plain Go
// string for Lox strings).
type Value interface{}

// Callable is anything that can appear in call position: user functions,
// classes (which construct an instance when "called"), and natives.
type Callable interface {
	Arity() int
	Call(i *Interpreter, arguments []Value) (Value, error)
	String() string
}

// NativeFn wraps a Go function as a Lox-callable builtin.
type NativeFn struct {
	name  string
	arity int
	fn    func(i *Interpreter, arguments []Value) (Value, error)
}

func (n *NativeFn) Arity() int { return n.arity }
func (n *NativeFn) Call(i *Interpreter, arguments []Value) (Value, error) {
	return n.fn(i, arguments)
}
func (n *NativeFn) String() string { return "<native fn " + n.name + ">" }

// isTruthy implements Lox truthiness: nil and false are falsy, everything
// else — including 0 and the empty string — is truthy.
func isTruthy(v Value) bool {
	if v == nil {
		return false
	}
	if b, ok := v.(bool); ok {
		return b
	}
	return true
}

// isEqual implements §3's equality rule: different-tag values are
// unequal, nil==nil, numbers and booleans compare by value, strings
// compare by content (Go string equality already gives interned-identity
// semantics since two equal immutable strings are indistinguishable).
func isEqual(a, b Value) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	an, aok := a.(float64)
	bn, bok := b.(float64)
	if aok && bok {
		return an == bn
	}
	as, aok := a.(string)
	bs, bok := b.(string)
	if aok && bok {
		return as == bs
	}
	ab, aok := a.(bool)
	bb, bok := b.(bool)
	if aok && bok {
		return ab == bb
	}
	return a == b
}

// Stringify renders a Value the way `print` and the REPL do.
func Stringify(v Value) string {
	switch val := v.(type) {
	case nil:
		return "nil"
	case bool:
		return strconv.FormatBool(val)
	case float64:
		text := strconv.FormatFloat(val, 'g', -1, 64)
		return text
	case string:
		return val
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprintf("%v", val)
	}
}

func typeName(v Value) string {
	switch v.(type) {
	case nil:
		return "nil"
	case bool:
		return "boolean"
	case float64:
		return "number"
	case string:
		return "string"
	case *Function:
		return "function"
	case *NativeFn:
		return "function"
	case *Class:
		return "class"
	case *Instance:
		return "instance"
	default:
		return "object"
	}
}

// Function is a user-defined Lox function or method: the declaration it
// was parsed from plus the environment it closed over at definition time.
type Function struct {
	Declaration   *ast.FunctionStmt
	Closure       *Environment
	IsInitializer bool
}

func (f *Function) Arity() int { return len(f.Declaration.Params) }

func (f *Function) Call(i *Interpreter, arguments []Value) (Value, error) {
	env := NewEnvironment(f.Closure)
	for idx, param := range f.Declaration.Params {
		env.Define(param.Lexeme, arguments[idx])
	}

	err := i.executeBlock(f.Declaration.Body, env)
	if sig, ok := err.(*returnSignal); ok {
		if f.IsInitializer {
			return f.Closure.GetAt(0, "this"), nil
		}
		return sig.value, nil
	}
	if err != nil {
		return nil, err
	}
	if f.IsInitializer {
		return f.Closure.GetAt(0, "this"), nil
	}
	return nil, nil
}

func (f *Function) String() string {
	return "<fn " + f.Declaration.Name.Lexeme + ">"
}

// bind returns a copy of f whose closure additionally binds `this` to
// instance — a fresh Function is produced on every call, so two
// accesses of the same method are never reference-equal, matching §5's
// observable method-binding guarantee.
func (f *Function) bind(instance *Instance) *Function {
	env := NewEnvironment(f.Closure)
	env.Define("this", instance)
	return &Function{Declaration: f.Declaration, Closure: env, IsInitializer: f.IsInitializer}
}

// Class is a Lox class: its method table plus an optional superclass to
// fall back on for method lookup.
type Class struct {
	Name       string
	Superclass *Class
	Methods    map[string]*Function
}

func (c *Class) findMethod(name string) *Function {
	if m, ok := c.Methods[name]; ok {
		return m
	}
	if c.Superclass != nil {
		return c.Superclass.findMethod(name)
	}
	return nil
}

func (c *Class) Arity() int {
	if init := c.findMethod("init"); init != nil {
		return init.Arity()
	}
	return 0
}

func (c *Class) Call(i *Interpreter, arguments []Value) (Value, error) {
	instance := &Instance{Class: c, Fields: make(map[string]Value)}
	if init := c.findMethod("init"); init != nil {
		if _, err := init.bind(instance).Call(i, arguments); err != nil {
			return nil, err
		}
	}
	return instance, nil
}

func (c *Class) String() string { return c.Name }

// Instance is a Lox object: a class reference plus its own field map.
// Field lookup is checked before method lookup, so a field can shadow an
// inherited method of the same name.
type Instance struct {
	Class  *Class
	Fields map[string]Value
}

func (inst *Instance) getProperty(name string) (Value, bool) {
	if v, ok := inst.Fields[name]; ok {
		return v, true
	}
	if method := inst.Class.findMethod(name); method != nil {
		return method.bind(inst), true
	}
	return nil, false
}

func (inst *Instance) String() string { return inst.Class.Name + " instance" }
