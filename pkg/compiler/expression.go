package compiler

import (
	"strconv"

	"lox/pkg/bytecode"
	"lox/pkg/token"
)

func (c *Compiler) expression() {
	c.parsePrecedence(precAssignment)
}

// parsePrecedence parses and compiles any expression at the given
// precedence level or higher: a prefix parser consumes the leading
// token, then infix parsers fold in operators as long as the next
// token's precedence meets the threshold.
func (c *Compiler) parsePrecedence(prec precedence) {
	c.advance()
	prefixRule := getRule(c.previous.Type).prefix
	if prefixRule == nil {
		c.error("Expected an expression.")
		return
	}

	canAssign := prec <= precAssignment
	prefixRule(c, canAssign)

	for prec <= getRule(c.current.Type).precedence {
		c.advance()
		infixRule := getRule(c.previous.Type).infix
		infixRule(c, canAssign)
	}

	if canAssign && c.match(token.EQUAL) {
		c.error("Invalid assignment target.")
	}
}

func grouping(c *Compiler, _ bool) {
	c.expression()
	c.consume(token.RIGHT_PAREN, "Expected ')' after expression.")
}

func number(c *Compiler, _ bool) {
	value, err := strconv.ParseFloat(c.previous.Lexeme, 64)
	if err != nil {
		c.error("Invalid number literal.")
		return
	}
	c.emitConstant(bytecode.NumberVal(value))
}

// stringLiteral strips the surrounding quotes and interns the
// resulting text through the VM's shared table (§4.8), so two equal
// string constants compiled anywhere share one *String.
func stringLiteral(c *Compiler, _ bool) {
	raw := c.previous.Lexeme
	text := raw[1 : len(raw)-1]
	c.emitConstant(bytecode.ObjVal(c.interner.Intern(text)))
}

func literal(c *Compiler, _ bool) {
	switch c.previous.Type {
	case token.FALSE:
		c.emitOp(bytecode.OpFalse)
	case token.NIL:
		c.emitOp(bytecode.OpNil)
	case token.TRUE:
		c.emitOp(bytecode.OpTrue)
	}
}

func unary(c *Compiler, _ bool) {
	opType := c.previous.Type
	c.parsePrecedence(precUnary)
	switch opType {
	case token.BANG:
		c.emitOp(bytecode.OpNot)
	case token.MINUS:
		c.emitOp(bytecode.OpNegate)
	}
}

func binary(c *Compiler, _ bool) {
	opType := c.previous.Type
	rule := getRule(opType)
	c.parsePrecedence(rule.precedence + 1)

	switch opType {
	case token.EQUAL_EQUAL:
		c.emitOp(bytecode.OpEqual)
	case token.BANG_EQUAL:
		c.emitOp(bytecode.OpEqual)
		c.emitOp(bytecode.OpNot)
	case token.GREATER:
		c.emitOp(bytecode.OpGreater)
	case token.GREATER_EQUAL:
		c.emitOp(bytecode.OpLess)
		c.emitOp(bytecode.OpNot)
	case token.LESS:
		c.emitOp(bytecode.OpLess)
	case token.LESS_EQUAL:
		c.emitOp(bytecode.OpGreater)
		c.emitOp(bytecode.OpNot)
	case token.PLUS:
		c.emitOp(bytecode.OpAdd)
	case token.MINUS:
		c.emitOp(bytecode.OpSub)
	case token.STAR:
		c.emitOp(bytecode.OpMul)
	case token.SLASH:
		c.emitOp(bytecode.OpDiv)
	}
}

// and_ short-circuits: if the left operand (already on the stack) is
// falsey, jump over the right operand and leave it as the result.
func and_(c *Compiler, _ bool) {
	endJump := c.emitJump(bytecode.OpJumpIfFalse)
	c.emitOp(bytecode.OpPop)
	c.parsePrecedence(precAnd)
	c.patchJump(endJump)
}

// or_ short-circuits the other way: if the left operand is truthy,
// jump over the right operand.
func or_(c *Compiler, _ bool) {
	elseJump := c.emitJump(bytecode.OpJumpIfFalse)
	endJump := c.emitJump(bytecode.OpJump)

	c.patchJump(elseJump)
	c.emitOp(bytecode.OpPop)

	c.parsePrecedence(precOr)
	c.patchJump(endJump)
}

func variable(c *Compiler, canAssign bool) {
	c.namedVariable(c.previous, canAssign)
}

// namedVariable emits the get/set pair for name, preferring a local
// slot over a global lookup when one resolves.
func (c *Compiler) namedVariable(name token.Token, canAssign bool) {
	var getOp, setOp bytecode.Op
	arg := c.resolveLocal(name)
	if arg != -1 {
		getOp, setOp = bytecode.OpGetLocal, bytecode.OpSetLocal
	} else {
		arg = int(c.identifierConstant(name))
		getOp, setOp = bytecode.OpGetGlobal, bytecode.OpSetGlobal
	}

	if canAssign && c.match(token.EQUAL) {
		c.expression()
		c.emitOp(setOp, arg)
	} else {
		c.emitOp(getOp, arg)
	}
}
