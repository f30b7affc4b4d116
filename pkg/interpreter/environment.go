package interpreter

import (
	"fmt"

	"lox/pkg/token"
)

// Environment is one frame of the scope chain: a name→Value map plus a
// pointer to the enclosing frame, exactly the shape of jlox's
// Environment.java. The global frame has a nil Enclosing.
type Environment struct {
	Enclosing *Environment
	values    map[string]Value
}

// NewEnvironment creates a frame enclosed by enclosing (nil for the
// global frame).
func NewEnvironment(enclosing *Environment) *Environment {
	return &Environment{Enclosing: enclosing, values: make(map[string]Value)}
}

// Define binds name to value in this frame, redefining it if already
// present — `var` is allowed to shadow or redeclare within one frame.
func (e *Environment) Define(name string, value Value) {
	e.values[name] = value
}

// ancestor walks distance enclosing links outward. The resolver
// guarantees distance never overruns the chain for a resolved node.
func (e *Environment) ancestor(distance int) *Environment {
	env := e
	for i := 0; i < distance; i++ {
		env = env.Enclosing
	}
	return env
}

// GetAt retrieves a variable the resolver found at exactly distance
// scopes out.
func (e *Environment) GetAt(distance int, name string) Value {
	return e.ancestor(distance).values[name]
}

// AssignAt stores a variable the resolver found at exactly distance
// scopes out.
func (e *Environment) AssignAt(distance int, name string, value Value) {
	e.ancestor(distance).values[name] = value
}

// Get performs an unresolved (global) lookup, walking outward until the
// name is found or the chain is exhausted.
func (e *Environment) Get(name token.Token) (Value, error) {
	for env := e; env != nil; env = env.Enclosing {
		if v, ok := env.values[name.Lexeme]; ok {
			return v, nil
		}
	}
	return nil, &RuntimeError{Token: name, Message: fmt.Sprintf("Undefined variable '%s'.", name.Lexeme)}
}

// Assign performs an unresolved (global) assignment: it must find an
// existing binding, never create one.
func (e *Environment) Assign(name token.Token, value Value) error {
	for env := e; env != nil; env = env.Enclosing {
		if _, ok := env.values[name.Lexeme]; ok {
			env.values[name.Lexeme] = value
			return nil
		}
	}
	return &RuntimeError{Token: name, Message: fmt.Sprintf("Undefined variable '%s'.", name.Lexeme)}
}
