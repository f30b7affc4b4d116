package compiler

import (
	"lox/pkg/bytecode"
	"lox/pkg/token"
)

// declaration is the topmost production: a variable declaration or any
// other statement, followed by error recovery if the last statement
// left the compiler in panic mode.
func (c *Compiler) declaration() {
	if c.match(token.VAR) {
		c.varDeclaration()
	} else if c.match(token.FUN) || c.match(token.CLASS) {
		c.unsupportedDeclaration()
	} else {
		c.statement()
	}

	if c.panicMode {
		c.synchronize()
	}
}

// unsupportedDeclaration reports fun/class declarations as a compile
// error: this engine has no call-frame or method-table machinery, so a
// function or class definition here is a deliberate hard stop rather
// than silently miscompiled bytecode.
func (c *Compiler) unsupportedDeclaration() {
	kw := c.previous.Lexeme
	c.error("'" + kw + "' declarations are not supported by the bytecode compiler.")
	for !c.check(token.EOF) && !c.check(token.SEMICOLON) && !c.check(token.LEFT_BRACE) {
		c.advance()
	}
	if c.check(token.LEFT_BRACE) {
		c.skipBlock()
	} else if c.check(token.SEMICOLON) {
		c.advance()
	}
}

// skipBlock consumes a balanced {...} group without compiling it, used
// to recover after reporting an unsupported fun/class declaration.
func (c *Compiler) skipBlock() {
	depth := 0
	for {
		if c.check(token.LEFT_BRACE) {
			depth++
		} else if c.check(token.RIGHT_BRACE) {
			depth--
		} else if c.check(token.EOF) {
			return
		}
		c.advance()
		if depth == 0 {
			return
		}
	}
}

func (c *Compiler) varDeclaration() {
	global := c.parseVariable("Expected a variable name.")
	if c.match(token.EQUAL) {
		c.expression()
	} else {
		c.emitOp(bytecode.OpNil)
	}
	c.consume(token.SEMICOLON, "Expected ';' after variable declaration.")
	c.defineVariable(global)
}

func (c *Compiler) statement() {
	switch {
	case c.match(token.PRINT):
		c.printStatement()
	case c.match(token.IF):
		c.ifStatement()
	case c.match(token.WHILE):
		c.whileStatement()
	case c.match(token.FOR):
		c.forStatement()
	case c.match(token.RETURN):
		c.returnStatement()
	case c.match(token.LEFT_BRACE):
		c.beginScope()
		c.block()
		c.endScope()
	default:
		c.expressionStatement()
	}
}

func (c *Compiler) printStatement() {
	c.expression()
	c.consume(token.SEMICOLON, "Expected ';' after value.")
	c.emitOp(bytecode.OpPrint)
}

// returnStatement reports an error: this chunk has no call frames, so
// there is nothing a top-level return could unwind to.
func (c *Compiler) returnStatement() {
	c.error("Can't return from top-level code.")
	if !c.check(token.SEMICOLON) {
		c.expression()
	}
	c.consume(token.SEMICOLON, "Expected ';' after return value.")
}

func (c *Compiler) expressionStatement() {
	c.expression()
	c.consume(token.SEMICOLON, "Expected ';' after expression.")
	c.emitOp(bytecode.OpPop)
}

func (c *Compiler) block() {
	for !c.check(token.RIGHT_BRACE) && !c.check(token.EOF) {
		c.declaration()
	}
	c.consume(token.RIGHT_BRACE, "Expected '}' after block.")
}

// ifStatement emits the condition, a conditional jump past the then
// branch, the then branch, an unconditional jump past the else branch,
// and the else branch — every if gets an implicit else so the then
// branch is never allowed to fall through into it.
func (c *Compiler) ifStatement() {
	c.consume(token.LEFT_PAREN, "Expected '(' after 'if'.")
	c.expression()
	c.consume(token.RIGHT_PAREN, "Expected ')' after condition.")

	thenJump := c.emitJump(bytecode.OpJumpIfFalse)
	c.emitOp(bytecode.OpPop)
	c.statement()

	elseJump := c.emitJump(bytecode.OpJump)
	c.patchJump(thenJump)
	c.emitOp(bytecode.OpPop)

	if c.match(token.ELSE) {
		c.statement()
	}
	c.patchJump(elseJump)
}

func (c *Compiler) whileStatement() {
	loopStart := len(c.chunk.Code)
	c.consume(token.LEFT_PAREN, "Expected '(' after 'while'.")
	c.expression()
	c.consume(token.RIGHT_PAREN, "Expected ')' after condition.")

	exitJump := c.emitJump(bytecode.OpJumpIfFalse)
	c.emitOp(bytecode.OpPop)
	c.statement()
	c.emitLoop(loopStart)

	c.patchJump(exitJump)
	c.emitOp(bytecode.OpPop)
}

// forStatement desugars for(init; cond; incr) body into a while loop
// of its own scope, jumping over the increment on the first iteration
// the same way clox's compiler.c does.
func (c *Compiler) forStatement() {
	c.beginScope()
	c.consume(token.LEFT_PAREN, "Expected '(' after 'for'.")

	switch {
	case c.match(token.SEMICOLON):
	case c.match(token.VAR):
		c.varDeclaration()
	default:
		c.expressionStatement()
	}

	loopStart := len(c.chunk.Code)
	exitJump := -1
	if !c.match(token.SEMICOLON) {
		c.expression()
		c.consume(token.SEMICOLON, "Expected ';' after loop condition.")
		exitJump = c.emitJump(bytecode.OpJumpIfFalse)
		c.emitOp(bytecode.OpPop)
	}

	if !c.match(token.RIGHT_PAREN) {
		bodyJump := c.emitJump(bytecode.OpJump)
		incrementStart := len(c.chunk.Code)
		c.expression()
		c.emitOp(bytecode.OpPop)
		c.consume(token.RIGHT_PAREN, "Expected ')' after for clauses.")

		c.emitLoop(loopStart)
		loopStart = incrementStart
		c.patchJump(bodyJump)
	}

	c.statement()
	c.emitLoop(loopStart)

	if exitJump != -1 {
		c.patchJump(exitJump)
		c.emitOp(bytecode.OpPop)
	}
	c.endScope()
}

// synchronize skips tokens until a likely statement boundary, the same
// recovery strategy the tree parser uses.
func (c *Compiler) synchronize() {
	c.panicMode = false
	for c.current.Type != token.EOF {
		if c.previous.Type == token.SEMICOLON {
			return
		}
		switch c.current.Type {
		case token.CLASS, token.FUN, token.VAR, token.FOR, token.IF, token.WHILE, token.PRINT, token.RETURN:
			return
		}
		c.advance()
	}
}
