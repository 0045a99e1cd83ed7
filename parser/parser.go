// Package parser implements Timid's hand-written recursive-descent parser:
// tokens in, an AST out, with panic-mode error recovery.
package parser

import (
	"fmt"

	"timid/ast"
	"timid/diag"
	"timid/token"
)

const (
	maxArgCount  = 255
	maxNestDepth = 40
)

// parseError unwinds to the nearest recovery point (declaration()).
// It carries no payload: the diagnostic has already been reported by the
// time it is raised.
type parseError struct{}

// Parser turns a finite token stream into a slice of top-level statements.
type Parser struct {
	tokens    []token.Token
	index     int
	nestDepth int
	diags     *diag.Diagnostics
}

// New returns a Parser over tokens (which must end in an EOF token).
func New(tokens []token.Token, diags *diag.Diagnostics) *Parser {
	return &Parser{tokens: tokens, diags: diags}
}

func (p *Parser) current() token.Token  { return p.tokens[p.index] }
func (p *Parser) previous() token.Token { return p.tokens[p.index-1] }

func (p *Parser) next() token.Token {
	if p.isAtEnd() {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.index+1]
}

func (p *Parser) isAtEnd() bool { return p.current().Kind == token.EOF }

func (p *Parser) advance() token.Token {
	if !p.isAtEnd() {
		p.index++
	}
	return p.previous()
}

func (p *Parser) check(kind token.Kind) bool {
	if p.isAtEnd() {
		return false
	}
	return p.current().Kind == kind
}

func (p *Parser) match(kinds ...token.Kind) bool {
	for _, k := range kinds {
		if p.check(k) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) consume(message string, kinds ...token.Kind) token.Token {
	for _, k := range kinds {
		if p.check(k) {
			return p.advance()
		}
	}
	panic(p.fail(p.current(), message))
}

// fail reports a syntax error anchored on tok and returns the unwind signal.
func (p *Parser) fail(tok token.Token, message string) parseError {
	p.diags.Syntax(tok, message)
	return parseError{}
}

// requireNode panics with message if node is the nil interface — used
// after a nullable sub-rule to require presence.
func requireNode[T comparable](p *Parser, node T, zero T, message string) {
	if node == zero {
		panic(p.fail(p.current(), fmt.Sprintf("%s (after '%s')", message, p.previous().Lexeme)))
	}
}

var syncKinds = []token.Kind{
	token.LAMBDA, token.CONST, token.PRINT, token.IF, token.WHILE,
	token.DOLLAR, token.LBRACE, token.ASSERT, token.FOR, token.FOREVER, token.GOTO,
}

// synchronize discards tokens until a statement boundary, so parsing can
// resume and surface further diagnostics instead of aborting outright.
func (p *Parser) synchronize() {
	p.nestDepth = 0
	p.advance()
	for !p.isAtEnd() {
		if p.previous().Kind == token.SEMIC {
			return
		}
		for _, k := range syncKinds {
			if p.current().Kind == k {
				return
			}
		}
		p.advance()
	}
}

// Parse runs the parser to completion, returning every top-level statement
// it could recover enough to produce.
func (p *Parser) Parse() []ast.Statement {
	var statements []ast.Statement
	for !p.isAtEnd() {
		before := p.index
		stmt := p.declaration(false)
		if stmt == nil {
			if p.index == before {
				break
			}
			continue
		}
		statements = append(statements, stmt)
	}

	if !p.diags.HadError && p.current().Kind != token.EOF {
		p.diags.Syntax(p.current(), fmt.Sprintf("Failed to parse token '%s'", p.current().Lexeme))
	}

	return statements
}

func (p *Parser) declaration(nullable bool) (stmt ast.Statement) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(parseError); ok {
				p.synchronize()
				stmt = nil
				return
			}
			panic(r)
		}
	}()

	for p.match(token.SEMIC) {
	}
	if p.isAtEnd() {
		return nil
	}
	if p.match(token.DOLLAR) {
		return p.varDecl(nullable)
	}
	return p.statement(nullable)
}

func (p *Parser) varDecl(nullable bool) ast.Statement {
	name := p.consume("Expected an identifier (after '$')", token.IDENTIFIER)
	var initializer ast.Expression
	if p.match(token.EQ) {
		initializer = p.expr(true)
		requireNode(p, initializer, nil, "Expected a variable initializer")
	}
	return ast.NewVarDecl(name, initializer)
}

func (p *Parser) statement(nullable bool) ast.Statement {
	for p.match(token.SEMIC) {
	}
	if p.isAtEnd() || p.check(token.RBRACE) {
		return nil
	}

	switch {
	case p.match(token.WHILE):
		return p.whileStmt()
	case p.match(token.FOREVER):
		kw := p.previous()
		body := p.statement(true)
		requireNode(p, body, nil, "Expected a 'forever' loop body")
		return ast.NewForever(kw, body)
	case p.match(token.FOR):
		return p.forStmt()
	case p.match(token.IF):
		return p.ifStmt()
	case p.match(token.PRINT):
		return p.printStmt()
	case p.match(token.LBRACE):
		return p.block()
	case p.match(token.ASSERT_OP, token.ASSERT):
		kw := p.previous()
		condition := p.expr(nullable)
		message := p.expr(true)
		return ast.NewAssert(kw, condition, message)
	case p.check(token.IDENTIFIER) && p.next().Kind == token.COLON:
		name := p.advance()
		p.advance() // consume ':'
		return ast.NewLabel(name)
	case p.match(token.GOTO):
		kw := p.previous()
		label := p.consume("Expected a label", token.IDENTIFIER)
		return ast.NewGoto(kw, label)
	case p.match(token.BREAK):
		return ast.NewBreak(p.previous())
	case p.match(token.CONTINUE):
		return ast.NewContinue(p.previous())
	default:
		return p.exprStmt(nullable)
	}
}

func (p *Parser) enterNest() {
	p.nestDepth++
	if p.nestDepth >= maxNestDepth {
		panic(p.fail(p.current(), "Maximum block nesting depth reached"))
	}
}

func (p *Parser) forStmt() ast.Statement {
	kw := p.previous()
	p.enterNest()

	var initializer ast.Statement
	if p.match(token.DOLLAR) {
		initializer = p.varDecl(true)
	} else if e := p.expr(true); e != nil {
		initializer = ast.NewExprStmt(e)
	}
	p.consume("Expected a ',' or initializer statement after 'for' keyword", token.COMMA)
	condition := p.expr(true)
	p.consume("Expected a ',' after initializer or ','", token.COMMA)
	step := p.expr(true)
	body := p.statement(true)
	requireNode(p, body, nil, "Expected a 'for' loop body")
	p.nestDepth--
	return ast.NewFor(kw, initializer, condition, step, body)
}

func (p *Parser) whileStmt() ast.Statement {
	p.enterNest()
	condition := p.expr(true)
	if condition == nil {
		panic(p.fail(p.current(), fmt.Sprintf("Expected a 'while' loop condition (after '%s' token)", p.previous().Lexeme)))
	}
	body := p.statement(true)
	if body == nil {
		panic(p.fail(p.current(), fmt.Sprintf("Expected a 'while' loop body (after '%s')", p.previous().Lexeme)))
	}
	p.nestDepth--
	return ast.NewWhile(condition, body)
}

func (p *Parser) block() ast.Statement {
	lbrace := p.previous()
	p.enterNest()

	var statements []ast.Statement
	for !p.check(token.RBRACE) && !p.isAtEnd() {
		stmt := p.declaration(true)
		if stmt == nil {
			break
		}
		statements = append(statements, stmt)
	}
	rbrace := p.consume("Expected a closing '}' (after '{' or previous statement)", token.RBRACE)
	p.nestDepth--
	return ast.NewBlock(lbrace, rbrace, statements)
}

func (p *Parser) ifStmt() ast.Statement {
	p.enterNest()
	condition := p.expr(true)
	if condition == nil {
		panic(p.fail(p.current(), fmt.Sprintf("Expected an 'if' statement condition (after '%s')", p.previous().Lexeme)))
	}

	ifBranch := p.statement(true)
	requireNode(p, ifBranch, nil, "Expected an 'if' statement body")

	var elseBranch ast.Statement
	afterIfBranch := p.index
	for p.match(token.SEMIC) {
	}
	if p.match(token.ELSE) {
		elseBranch = p.statement(true)
		if elseBranch == nil {
			panic(p.fail(p.current(), fmt.Sprintf("Expected an 'else' clause body (after '%s')", p.previous().Lexeme)))
		}
	} else {
		p.index = afterIfBranch
	}
	p.nestDepth--
	return ast.NewIf(condition, ifBranch, elseBranch)
}

func (p *Parser) printStmt() ast.Statement {
	kw := p.previous()
	value := p.expr(true)
	return ast.NewPrintStmt(kw, value)
}

func (p *Parser) exprStmt(nullable bool) ast.Statement {
	value := p.expr(true)
	requireNode(p, value, nil, "Expected a statement")
	return ast.NewExprStmt(value)
}

// --- Expressions, precedence low to high ---

func (p *Parser) expr(nullable bool) ast.Expression { return p.assignment(nullable) }

var compoundAssignOps = []token.Kind{
	token.EQ, token.PLUS_ASSIGN, token.MINUS_ASSIGN, token.STAR_ASSIGN,
	token.SLASH_ASSIGN, token.PERCENT_ASSIGN, token.CARET_ASSIGN,
}

func (p *Parser) assignment(nullable bool) ast.Expression {
	expr := p.ternary(nullable)
	if p.match(compoundAssignOps...) {
		operator := p.previous()
		value := p.assignment(true)

		variable, ok := expr.(*ast.Variable)
		if !ok {
			p.diags.Syntax(operator, "Invalid assignment target")
			return expr
		}
		if value == nil {
			panic(p.fail(p.current(), fmt.Sprintf("Expected an assignment value (after '%s')", p.previous().Lexeme)))
		}
		return ast.NewAssign(variable.Name, operator, value)
	}
	return expr
}

func (p *Parser) ternary(nullable bool) ast.Expression {
	condition := p.lambdaExpr(nullable)
	if p.match(token.QMARK) {
		ifBranch := p.expr(true)
		if ifBranch == nil {
			panic(p.fail(p.current(), fmt.Sprintf("Expected a ternary operator branch (after '%s')", p.previous().Lexeme)))
		}
		p.consume(fmt.Sprintf("Expected a ':' in ternary operator (after '%s')", p.previous().Lexeme), token.COLON)
		elseBranch := p.expr(true)
		if elseBranch == nil {
			panic(p.fail(p.current(), fmt.Sprintf("Expected a ternary operator branch (after '%s')", p.previous().Lexeme)))
		}
		return ast.NewTernary(condition, ifBranch, elseBranch)
	}
	return condition
}

func (p *Parser) lambdaExpr(nullable bool) ast.Expression {
	if p.match(token.LAMBDA) {
		keyword := p.previous()
		identifier := p.consume("Expected an identifier (after 'lam' keyword)", token.IDENTIFIER)
		if p.isAtEnd() {
			panic(p.fail(p.current(), fmt.Sprintf("Expected a lambda expression body (after identifier '%s')", p.previous().Lexeme)))
		}
		body := p.expr(nullable)
		return ast.NewLambda(keyword, identifier, body)
	}
	return p.orExpr(nullable)
}

func (p *Parser) orExpr(nullable bool) ast.Expression {
	return p.binOp(p.andExpr, []token.Kind{token.OR}, p.andExpr, nullable)
}
func (p *Parser) andExpr(nullable bool) ast.Expression {
	return p.binOp(p.equality, []token.Kind{token.AND}, p.equality, nullable)
}
func (p *Parser) equality(nullable bool) ast.Expression {
	return p.binOp(p.comparison, []token.Kind{token.EQEQ, token.NE}, p.comparison, nullable)
}
func (p *Parser) comparison(nullable bool) ast.Expression {
	return p.binOp(p.sum, []token.Kind{token.LT, token.LTE, token.GT, token.GTE}, p.sum, nullable)
}
func (p *Parser) sum(nullable bool) ast.Expression {
	return p.binOp(p.term, []token.Kind{token.PLUS, token.MINUS}, p.term, nullable)
}
func (p *Parser) term(nullable bool) ast.Expression {
	return p.binOp(p.unary, []token.Kind{token.STAR, token.SLASH, token.PERCENT}, p.unary, nullable)
}

func (p *Parser) unary(nullable bool) ast.Expression {
	if p.match(token.PLUS, token.MINUS, token.NOT) {
		operator := p.previous()
		right := p.unary(true)
		if right == nil {
			panic(p.fail(p.current(), fmt.Sprintf("Expected a unary operand (after unary operator '%s')", p.previous().Lexeme)))
		}
		return ast.NewUnary(operator, right)
	}
	return p.power(nullable)
}

func (p *Parser) power(nullable bool) ast.Expression {
	return p.binOp(p.factorial, []token.Kind{token.CARET}, p.unary, nullable)
}

func (p *Parser) factorial(nullable bool) ast.Expression {
	expr := p.call(nullable)
	for p.match(token.NOT) {
		expr = ast.NewFactorial(expr)
	}
	return expr
}

func (p *Parser) call(nullable bool) ast.Expression {
	expr := p.atom(nullable)
	for {
		switch {
		case p.match(token.LPAREN):
			expr = p.finishCall(expr)
		case p.match(token.LBRACKET):
			expr = p.finishSubscript(expr)
		default:
			return expr
		}
	}
}

func (p *Parser) atom(nullable bool) ast.Expression {
	switch {
	case p.match(token.IN):
		kw := p.previous()
		prompt := p.expr(true)
		return ast.NewInput(kw, prompt)
	case p.match(token.INT, token.FLOAT, token.STRING, token.TRUE, token.FALSE, token.NULL):
		return ast.NewLiteral(p.previous())
	case p.match(token.IDENTIFIER):
		name := p.previous()
		if p.match(token.COLON) {
			panic(p.fail(p.previous(), "Goto label in expression"))
		}
		return ast.NewVariable(name)
	case p.match(token.LPAREN):
		return p.parenOrDict()
	default:
		if !nullable {
			panic(p.fail(p.current(), "Expected an expression, a boolean, a string, a number, or 'nul'"))
		}
		return nil
	}
}

func (p *Parser) parenOrDict() ast.Expression {
	p.enterNest()
	lparen := p.previous()
	first := p.expr(false)

	if p.match(token.COLON) {
		keys := []ast.Expression{first}
		var values []ast.Expression

		value := p.expr(true)
		if value == nil {
			panic(p.fail(p.current(), fmt.Sprintf("Expected an initial dictionary value (after '%s')", p.previous().Lexeme)))
		}
		values = append(values, value)

		if p.match(token.COMMA) {
			for {
				key := p.expr(true)
				if key == nil {
					break
				}
				keys = append(keys, key)
				p.consume("Expected a ':' after dictionary key", token.COLON)
				value = p.expr(true)
				if value == nil {
					panic(p.fail(p.current(), fmt.Sprintf("Expected a dictionary value (after '%s')", p.previous().Lexeme)))
				}
				values = append(values, value)

				if p.check(token.COMMA) && p.next().Kind == token.RPAREN {
					p.advance()
					break
				}
				if !p.match(token.COMMA) {
					break
				}
			}
		}

		rparen := p.consume(fmt.Sprintf("Expected a closing ')' for dictionary (after '%s')", p.previous().Lexeme), token.RPAREN)
		p.nestDepth--
		return ast.NewDictionary(lparen, rparen, keys, values)
	}

	p.consume(fmt.Sprintf("Expected a closing ')' for grouping (after '%s')", p.previous().Lexeme), token.RPAREN)
	p.nestDepth--
	return first
}

func (p *Parser) finishSubscript(atom ast.Expression) ast.Expression {
	subscript := p.expr(false)
	p.consume("Expected a closing ']' after subscript", token.RBRACKET)
	return ast.NewSubscript(atom, subscript)
}

func (p *Parser) finishCall(callee ast.Expression) ast.Expression {
	var args []ast.Expression
	if !p.check(token.RPAREN) {
		for {
			if len(args) >= maxArgCount {
				p.diags.Syntax(p.current(), fmt.Sprintf("Maximum argument count (%d) reached", maxArgCount))
			}
			args = append(args, p.expr(false))

			if p.check(token.COMMA) && p.next().Kind == token.RPAREN {
				p.advance()
				break
			}
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	rparen := p.consume("Expected a closing ')' after function call", token.RPAREN)
	return ast.NewCall(callee, rparen, args)
}

// binOp implements one precedence level: leftRule, then zero or more
// (operator rightRule) pairs folded left-associatively into Binary nodes.
func (p *Parser) binOp(leftRule func(bool) ast.Expression, operators []token.Kind, rightRule func(bool) ast.Expression, nullable bool) ast.Expression {
	left := leftRule(nullable)
	for p.matchAny(operators) {
		operator := p.previous()
		right := rightRule(true)
		if right == nil {
			panic(p.fail(p.current(), fmt.Sprintf("Expected a right binary operand (after '%s')", operator.Lexeme)))
		}
		left = ast.NewBinary(left, operator, right)
	}
	return left
}

func (p *Parser) matchAny(kinds []token.Kind) bool {
	for _, k := range kinds {
		if p.check(k) {
			p.advance()
			return true
		}
	}
	return false
}
