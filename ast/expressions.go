package ast

import "timid/token"

// Literal is a scalar constant: int, float, string, tru/fls/nul.
type Literal struct {
	span
	Token token.Token
}

func NewLiteral(tok token.Token) *Literal {
	return &Literal{span: newSpan(tok.Start, tok.End), Token: tok}
}

func (e *Literal) Accept(v ExpressionVisitor) any { return v.VisitLiteral(e) }

// Variable is a read of a named variable.
type Variable struct {
	span
	Name token.Token
}

func NewVariable(name token.Token) *Variable {
	return &Variable{span: newSpan(name.Start, name.End), Name: name}
}

func (e *Variable) Accept(v ExpressionVisitor) any { return v.VisitVariable(e) }

// Assign is `name (= | += | -= | ...) value`. Operator records which form
// so the compiler can lower compound assignment into a read-modify-write.
type Assign struct {
	span
	Name     token.Token
	Operator token.Token
	Value    Expression
}

func NewAssign(name, operator token.Token, value Expression) *Assign {
	_, end := value.Span()
	return &Assign{span: newSpan(name.Start, end), Name: name, Operator: operator, Value: value}
}

func (e *Assign) Accept(v ExpressionVisitor) any { return v.VisitAssign(e) }

// Binary is `left operator right`.
type Binary struct {
	span
	Left     Expression
	Operator token.Token
	Right    Expression
}

func NewBinary(left Expression, operator token.Token, right Expression) *Binary {
	start, _ := left.Span()
	_, end := right.Span()
	return &Binary{span: newSpan(start, end), Left: left, Operator: operator, Right: right}
}

func (e *Binary) Accept(v ExpressionVisitor) any { return v.VisitBinary(e) }

// Unary is `(+ | - | !) right`.
type Unary struct {
	span
	Operator token.Token
	Right    Expression
}

func NewUnary(operator token.Token, right Expression) *Unary {
	_, end := right.Span()
	return &Unary{span: newSpan(operator.Start, end), Operator: operator, Right: right}
}

func (e *Unary) Accept(v ExpressionVisitor) any { return v.VisitUnary(e) }

// Factorial is `expr!`, repeatable (`expr!!`).
type Factorial struct {
	span
	Expr Expression
}

func NewFactorial(expr Expression) *Factorial {
	start, end := expr.Span()
	return &Factorial{span: newSpan(start, end), Expr: expr}
}

func (e *Factorial) Accept(v ExpressionVisitor) any { return v.VisitFactorial(e) }

// Ternary is `condition ? ifBranch : elseBranch`.
type Ternary struct {
	span
	Condition  Expression
	IfBranch   Expression
	ElseBranch Expression
}

func NewTernary(condition, ifBranch, elseBranch Expression) *Ternary {
	start, _ := condition.Span()
	_, end := elseBranch.Span()
	return &Ternary{span: newSpan(start, end), Condition: condition, IfBranch: ifBranch, ElseBranch: elseBranch}
}

func (e *Ternary) Accept(v ExpressionVisitor) any { return v.VisitTernary(e) }

// Subscript is `iterable[subscript]`.
type Subscript struct {
	span
	Iterable  Expression
	Subscript Expression
}

func NewSubscript(iterable, subscript Expression) *Subscript {
	start, _ := iterable.Span()
	_, end := subscript.Span()
	return &Subscript{span: newSpan(start, end), Iterable: iterable, Subscript: subscript}
}

func (e *Subscript) Accept(v ExpressionVisitor) any { return v.VisitSubscript(e) }

// Input is `in prompt?`; Prompt is nil when no prompt expression was given.
type Input struct {
	span
	Keyword token.Token
	Prompt  Expression
}

func NewInput(keyword token.Token, prompt Expression) *Input {
	end := keyword.End
	if prompt != nil {
		_, end = prompt.Span()
	}
	return &Input{span: newSpan(keyword.Start, end), Keyword: keyword, Prompt: prompt}
}

func (e *Input) Accept(v ExpressionVisitor) any { return v.VisitInput(e) }

// Call is `callee(args...)`.
type Call struct {
	span
	Callee Expression
	Paren  token.Token
	Args   []Expression
}

func NewCall(callee Expression, paren token.Token, args []Expression) *Call {
	start, _ := callee.Span()
	return &Call{span: newSpan(start, paren.End), Callee: callee, Paren: paren, Args: args}
}

func (e *Call) Accept(v ExpressionVisitor) any { return v.VisitCall(e) }

// Dictionary is `(k1: v1, k2: v2, ...)`.
type Dictionary struct {
	span
	Keys   []Expression
	Values []Expression
}

func NewDictionary(lparen, rparen token.Token, keys, values []Expression) *Dictionary {
	return &Dictionary{span: newSpan(lparen.Start, rparen.End), Keys: keys, Values: values}
}

func (e *Dictionary) Accept(v ExpressionVisitor) any { return v.VisitDictionary(e) }

// Lambda is `lam identifier body`; only meaningful to the tree-walk
// collaborator — the bytecode compiler refuses to lower it.
type Lambda struct {
	span
	Keyword    token.Token
	Identifier token.Token
	Body       Expression
}

func NewLambda(keyword, identifier token.Token, body Expression) *Lambda {
	_, end := body.Span()
	return &Lambda{span: newSpan(keyword.Start, end), Keyword: keyword, Identifier: identifier, Body: body}
}

func (e *Lambda) Accept(v ExpressionVisitor) any { return v.VisitLambda(e) }
