package compiler

import (
	"lox/pkg/bytecode"
	"lox/pkg/token"
)

// identifierConstant interns name's lexeme as a string constant, for
// use as an OP_GET_GLOBAL/OP_SET_GLOBAL/OP_DEFINE_GLOBAL operand.
func (c *Compiler) identifierConstant(name token.Token) byte {
	return c.makeConstant(bytecode.ObjVal(c.interner.Intern(name.Lexeme)))
}

func identifiersEqual(a, b token.Token) bool {
	return a.Lexeme == b.Lexeme
}

// resolveLocal walks the locals slice innermost-first, returning the
// slot index for name or -1 if it names a global. Reading a local
// whose depth is still -1 (mid-initializer) is a compile error.
func (c *Compiler) resolveLocal(name token.Token) int {
	for i := len(c.locals) - 1; i >= 0; i-- {
		l := c.locals[i]
		if identifiersEqual(name, l.name) {
			if l.depth == -1 {
				c.error("Can't read local variable in its own initializer.")
			}
			return i
		}
	}
	return -1
}

func (c *Compiler) addLocal(name token.Token) {
	const maxLocals = 256
	if len(c.locals) >= maxLocals {
		c.error("Too many local variables in function.")
		return
	}
	c.locals = append(c.locals, local{name: name, depth: -1})
}

// declareVariable records a just-parsed name as a new local, erroring
// if a variable of the same name already exists in this exact scope.
// At global scope it is a no-op: globals are late-bound and the
// compiler never tracks their declarations.
func (c *Compiler) declareVariable() {
	if c.scopeDepth == 0 {
		return
	}
	name := c.previous
	for i := len(c.locals) - 1; i >= 0; i-- {
		l := c.locals[i]
		if l.depth != -1 && l.depth < c.scopeDepth {
			break
		}
		if identifiersEqual(name, l.name) {
			c.error("Already a variable with this name in this scope.")
		}
	}
	c.addLocal(name)
}

// parseVariable consumes an identifier and declares it; it returns the
// global constant index, meaningless for a local (locals aren't
// looked up by name at runtime, so define_variable ignores it there).
func (c *Compiler) parseVariable(errMessage string) byte {
	c.consume(token.IDENT, errMessage)
	c.declareVariable()
	if c.scopeDepth > 0 {
		return 0
	}
	return c.identifierConstant(c.previous)
}

func (c *Compiler) markInitialized() {
	c.locals[len(c.locals)-1].depth = c.scopeDepth
}

func (c *Compiler) defineVariable(global byte) {
	if c.scopeDepth > 0 {
		c.markInitialized()
		return
	}
	c.emitOp(bytecode.OpDefineGlobal, int(global))
}
