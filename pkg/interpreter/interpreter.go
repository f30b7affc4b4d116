// Package interpreter implements the tree-walking evaluator: single
// dispatch over the AST via type switches, guided by the resolver's
// node→distance table, grounded on original_source/java's Interpreter.java
// and expanded to closures, classes, inheritance and super per the full
// language contract.
package interpreter

import (
	"fmt"
	"io"
	"os"

	"lox/pkg/ast"
	"lox/pkg/token"
)

// Interpreter holds the mutable state one execution needs: the global
// frame, the currently active frame, the resolver's distance table, and
// where `print` writes to.
type Interpreter struct {
	globals     *Environment
	environment *Environment
	locals      map[ast.Expr]int
	out         io.Writer
}

// New creates an Interpreter with the clock and type builtins installed
// in the global frame (print is a statement, not a builtin). out defaults to os.Stdout when nil, but callers (tests,
// the REPL) can inject any io.Writer to capture program output.
func New(locals map[ast.Expr]int, out io.Writer) *Interpreter {
	if out == nil {
		out = os.Stdout
	}
	globals := NewEnvironment(nil)
	interp := &Interpreter{globals: globals, environment: globals, locals: locals, out: out}
	interp.defineBuiltins()
	return interp
}

// MergeLocals folds a fresh resolver pass's distance table into this
// interpreter's, for callers (the REPL) that resolve and interpret one
// line at a time against a single long-lived interpreter.
func (i *Interpreter) MergeLocals(locals map[ast.Expr]int) {
	for expr, depth := range locals {
		i.locals[expr] = depth
	}
}

// Interpret runs a parsed-and-resolved program to completion or until a
// RuntimeError aborts it.
func (i *Interpreter) Interpret(statements []ast.Stmt) error {
	for _, stmt := range statements {
		if err := i.execute(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (i *Interpreter) execute(stmt ast.Stmt) error {
	switch s := stmt.(type) {
	case *ast.ExpressionStmt:
		_, err := i.evaluate(s.Expression)
		return err

	case *ast.PrintStmt:
		v, err := i.evaluate(s.Expression)
		if err != nil {
			return err
		}
		fmt.Fprintln(i.out, Stringify(v))
		return nil

	case *ast.VarStmt:
		var value Value
		if s.Initializer != nil {
			v, err := i.evaluate(s.Initializer)
			if err != nil {
				return err
			}
			value = v
		}
		i.environment.Define(s.Name.Lexeme, value)
		return nil

	case *ast.BlockStmt:
		return i.executeBlock(s.Statements, NewEnvironment(i.environment))

	case *ast.IfStmt:
		cond, err := i.evaluate(s.Condition)
		if err != nil {
			return err
		}
		if isTruthy(cond) {
			return i.execute(s.ThenBranch)
		}
		if s.ElseBranch != nil {
			return i.execute(s.ElseBranch)
		}
		return nil

	case *ast.WhileStmt:
		for {
			cond, err := i.evaluate(s.Condition)
			if err != nil {
				return err
			}
			if !isTruthy(cond) {
				return nil
			}
			if err := i.execute(s.Body); err != nil {
				return err
			}
		}

	case *ast.ReturnStmt:
		var value Value
		if s.Value != nil {
			v, err := i.evaluate(s.Value)
			if err != nil {
				return err
			}
			value = v
		}
		return &returnSignal{value: value}

	case *ast.FunctionStmt:
		fn := &Function{Declaration: s, Closure: i.environment}
		i.environment.Define(s.Name.Lexeme, fn)
		return nil

	case *ast.ClassStmt:
		return i.executeClass(s)

	default:
		panic(fmt.Sprintf("interpreter: unhandled statement %T", stmt))
	}
}

func (i *Interpreter) executeClass(s *ast.ClassStmt) error {
	var superclass *Class
	if s.Superclass != nil {
		v, err := i.evaluate(s.Superclass)
		if err != nil {
			return err
		}
		sc, ok := v.(*Class)
		if !ok {
			return &RuntimeError{Token: s.Superclass.Name, Message: "Superclass must be a class."}
		}
		superclass = sc
	}

	i.environment.Define(s.Name.Lexeme, nil)

	env := i.environment
	if superclass != nil {
		env = NewEnvironment(i.environment)
		env.Define("super", superclass)
	}

	methods := make(map[string]*Function, len(s.Methods))
	for _, m := range s.Methods {
		methods[m.Name.Lexeme] = &Function{Declaration: m, Closure: env, IsInitializer: m.Name.Lexeme == "init"}
	}

	class := &Class{Name: s.Name.Lexeme, Superclass: superclass, Methods: methods}
	i.environment.Assign(s.Name, class)
	return nil
}

// executeBlock runs statements in a fresh frame, restoring the caller's
// frame on every exit path (normal completion, a return, or an error) —
// the guarantee §4.4/§5 demand of block execution.
func (i *Interpreter) executeBlock(statements []ast.Stmt, env *Environment) error {
	previous := i.environment
	i.environment = env
	defer func() { i.environment = previous }()

	for _, stmt := range statements {
		if err := i.execute(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (i *Interpreter) evaluate(expr ast.Expr) (Value, error) {
	switch e := expr.(type) {
	case *ast.Literal:
		return e.Value, nil

	case *ast.Grouping:
		return i.evaluate(e.Expression)

	case *ast.Unary:
		right, err := i.evaluate(e.Right)
		if err != nil {
			return nil, err
		}
		switch e.Operator.Type {
		case token.MINUS:
			n, ok := right.(float64)
			if !ok {
				return nil, &RuntimeError{Token: e.Operator, Message: "Operand must be a number."}
			}
			return -n, nil
		case token.BANG:
			return !isTruthy(right), nil
		}
		panic("interpreter: unhandled unary operator " + e.Operator.Type.String())

	case *ast.Binary:
		return i.evalBinary(e)

	case *ast.Logical:
		left, err := i.evaluate(e.Left)
		if err != nil {
			return nil, err
		}
		if e.Operator.Type == token.OR {
			if isTruthy(left) {
				return left, nil
			}
		} else if !isTruthy(left) {
			return left, nil
		}
		return i.evaluate(e.Right)

	case *ast.Variable:
		return i.lookupVariable(e.Name, e)

	case *ast.Assign:
		value, err := i.evaluate(e.Value)
		if err != nil {
			return nil, err
		}
		if distance, ok := i.locals[e]; ok {
			i.environment.AssignAt(distance, e.Name.Lexeme, value)
		} else if err := i.globals.Assign(e.Name, value); err != nil {
			return nil, err
		}
		return value, nil

	case *ast.Call:
		return i.evalCall(e)

	case *ast.Get:
		object, err := i.evaluate(e.Object)
		if err != nil {
			return nil, err
		}
		instance, ok := object.(*Instance)
		if !ok {
			return nil, &RuntimeError{Token: e.Name, Message: "Only instances have properties."}
		}
		value, ok := instance.getProperty(e.Name.Lexeme)
		if !ok {
			return nil, &RuntimeError{Token: e.Name, Message: fmt.Sprintf("Undefined property '%s'.", e.Name.Lexeme)}
		}
		return value, nil

	case *ast.Set:
		object, err := i.evaluate(e.Object)
		if err != nil {
			return nil, err
		}
		instance, ok := object.(*Instance)
		if !ok {
			return nil, &RuntimeError{Token: e.Name, Message: "Only instances have fields."}
		}
		value, err := i.evaluate(e.Value)
		if err != nil {
			return nil, err
		}
		instance.Fields[e.Name.Lexeme] = value
		return value, nil

	case *ast.This:
		v, _ := i.lookupVariable(e.Keyword, e)
		return v, nil

	case *ast.Super:
		return i.evalSuper(e)

	default:
		panic(fmt.Sprintf("interpreter: unhandled expression %T", expr))
	}
}

func (i *Interpreter) lookupVariable(name token.Token, expr ast.Expr) (Value, error) {
	if distance, ok := i.locals[expr]; ok {
		return i.environment.GetAt(distance, name.Lexeme), nil
	}
	return i.globals.Get(name)
}

func (i *Interpreter) evalBinary(e *ast.Binary) (Value, error) {
	left, err := i.evaluate(e.Left)
	if err != nil {
		return nil, err
	}
	right, err := i.evaluate(e.Right)
	if err != nil {
		return nil, err
	}

	switch e.Operator.Type {
	case token.PLUS:
		if ln, lok := left.(float64); lok {
			if rn, rok := right.(float64); rok {
				return ln + rn, nil
			}
		}
		if ls, lok := left.(string); lok {
			if rs, rok := right.(string); rok {
				return ls + rs, nil
			}
		}
		return nil, &RuntimeError{Token: e.Operator, Message: "Operands must be two numbers or two strings."}
	case token.MINUS:
		ln, rn, err := numberOperands(e.Operator, left, right)
		if err != nil {
			return nil, err
		}
		return ln - rn, nil
	case token.SLASH:
		ln, rn, err := numberOperands(e.Operator, left, right)
		if err != nil {
			return nil, err
		}
		return ln / rn, nil
	case token.STAR:
		ln, rn, err := numberOperands(e.Operator, left, right)
		if err != nil {
			return nil, err
		}
		return ln * rn, nil
	case token.GREATER:
		ln, rn, err := numberOperands(e.Operator, left, right)
		if err != nil {
			return nil, err
		}
		return ln > rn, nil
	case token.GREATER_EQUAL:
		ln, rn, err := numberOperands(e.Operator, left, right)
		if err != nil {
			return nil, err
		}
		return ln >= rn, nil
	case token.LESS:
		ln, rn, err := numberOperands(e.Operator, left, right)
		if err != nil {
			return nil, err
		}
		return ln < rn, nil
	case token.LESS_EQUAL:
		ln, rn, err := numberOperands(e.Operator, left, right)
		if err != nil {
			return nil, err
		}
		return ln <= rn, nil
	case token.EQUAL_EQUAL:
		return isEqual(left, right), nil
	case token.BANG_EQUAL:
		return !isEqual(left, right), nil
	}
	panic("interpreter: unhandled binary operator " + e.Operator.Type.String())
}

func numberOperands(operator token.Token, left, right Value) (float64, float64, error) {
	ln, lok := left.(float64)
	rn, rok := right.(float64)
	if !lok || !rok {
		return 0, 0, &RuntimeError{Token: operator, Message: "Operands must be numbers."}
	}
	return ln, rn, nil
}

func (i *Interpreter) evalCall(e *ast.Call) (Value, error) {
	callee, err := i.evaluate(e.Callee)
	if err != nil {
		return nil, err
	}

	arguments := make([]Value, len(e.Arguments))
	for idx, arg := range e.Arguments {
		v, err := i.evaluate(arg)
		if err != nil {
			return nil, err
		}
		arguments[idx] = v
	}

	callable, ok := callee.(Callable)
	if !ok {
		return nil, &RuntimeError{Token: e.Paren, Message: "Can only call functions and classes."}
	}
	if len(arguments) != callable.Arity() {
		return nil, &RuntimeError{Token: e.Paren, Message: fmt.Sprintf("Expected %d arguments but got %d.", callable.Arity(), len(arguments))}
	}
	return callable.Call(i, arguments)
}

func (i *Interpreter) evalSuper(e *ast.Super) (Value, error) {
	distance := i.locals[e]
	superclass, _ := i.environment.GetAt(distance, "super").(*Class)
	instance, _ := i.environment.GetAt(distance-1, "this").(*Instance)

	method := superclass.findMethod(e.Method.Lexeme)
	if method == nil {
		return nil, &RuntimeError{Token: e.Method, Message: fmt.Sprintf("Undefined property '%s'.", e.Method.Lexeme)}
	}
	return method.bind(instance), nil
}
