package ast

import "timid/token"

// ExprStmt is an expression evaluated for its side effect, then discarded.
type ExprStmt struct {
	span
	Expr Expression
}

func NewExprStmt(expr Expression) *ExprStmt {
	start, end := expr.Span()
	return &ExprStmt{span: newSpan(start, end), Expr: expr}
}

func (s *ExprStmt) Accept(v StatementVisitor) any { return v.VisitExprStmt(s) }

// PrintStmt is `print value?`; Value is nil for a bare `print`.
type PrintStmt struct {
	span
	Keyword token.Token
	Value   Expression
}

func NewPrintStmt(keyword token.Token, value Expression) *PrintStmt {
	end := keyword.End
	if value != nil {
		_, end = value.Span()
	}
	return &PrintStmt{span: newSpan(keyword.Start, end), Keyword: keyword, Value: value}
}

func (s *PrintStmt) Accept(v StatementVisitor) any { return v.VisitPrintStmt(s) }

// VarDecl is `$name (= initializer)?`.
type VarDecl struct {
	span
	Name        token.Token
	Initializer Expression
}

func NewVarDecl(name token.Token, initializer Expression) *VarDecl {
	end := name.End
	if initializer != nil {
		_, end = initializer.Span()
	}
	return &VarDecl{span: newSpan(name.Start, end), Name: name, Initializer: initializer}
}

func (s *VarDecl) Accept(v StatementVisitor) any { return v.VisitVarDecl(s) }

// Block is `{ declaration* }`.
type Block struct {
	span
	Statements []Statement
}

func NewBlock(lbrace, rbrace token.Token, statements []Statement) *Block {
	return &Block{span: newSpan(lbrace.Start, rbrace.End), Statements: statements}
}

func (s *Block) Accept(v StatementVisitor) any { return v.VisitBlock(s) }

// If is `if condition ifBranch (else elseBranch)?`.
type If struct {
	span
	Condition  Expression
	IfBranch   Statement
	ElseBranch Statement
}

func NewIf(condition Expression, ifBranch, elseBranch Statement) *If {
	start, _ := condition.Span()
	var end token.Position
	if elseBranch != nil {
		_, end = elseBranch.Span()
	} else {
		_, end = ifBranch.Span()
	}
	return &If{span: newSpan(start, end), Condition: condition, IfBranch: ifBranch, ElseBranch: elseBranch}
}

func (s *If) Accept(v StatementVisitor) any { return v.VisitIf(s) }

// While is `while condition body`.
type While struct {
	span
	Condition Expression
	Body      Statement
}

func NewWhile(condition Expression, body Statement) *While {
	start, _ := condition.Span()
	_, end := body.Span()
	return &While{span: newSpan(start, end), Condition: condition, Body: body}
}

func (s *While) Accept(v StatementVisitor) any { return v.VisitWhile(s) }

// For is `for init?, condition?, step? body`. Any of Initializer,
// Condition, or Step may be nil.
type For struct {
	span
	Keyword     token.Token
	Initializer Statement
	Condition   Expression
	Step        Expression
	Body        Statement
}

func NewFor(keyword token.Token, initializer Statement, condition, step Expression, body Statement) *For {
	_, end := body.Span()
	return &For{
		span: newSpan(keyword.Start, end), Keyword: keyword,
		Initializer: initializer, Condition: condition, Step: step, Body: body,
	}
}

func (s *For) Accept(v StatementVisitor) any { return v.VisitFor(s) }

// Forever is `forever body`, an unconditional loop.
type Forever struct {
	span
	Keyword token.Token
	Body    Statement
}

func NewForever(keyword token.Token, body Statement) *Forever {
	_, end := body.Span()
	return &Forever{span: newSpan(keyword.Start, end), Keyword: keyword, Body: body}
}

func (s *Forever) Accept(v StatementVisitor) any { return v.VisitForever(s) }

// Assert is `|- condition message` or `assert condition message`.
type Assert struct {
	span
	Keyword   token.Token
	Condition Expression
	Message   Expression
}

func NewAssert(keyword token.Token, condition, message Expression) *Assert {
	_, end := message.Span()
	return &Assert{span: newSpan(keyword.Start, end), Keyword: keyword, Condition: condition, Message: message}
}

func (s *Assert) Accept(v StatementVisitor) any { return v.VisitAssert(s) }

// Break is `break`.
type Break struct {
	span
	Keyword token.Token
}

func NewBreak(keyword token.Token) *Break {
	return &Break{span: newSpan(keyword.Start, keyword.End), Keyword: keyword}
}

func (s *Break) Accept(v StatementVisitor) any { return v.VisitBreak(s) }

// Continue is `continue`.
type Continue struct {
	span
	Keyword token.Token
}

func NewContinue(keyword token.Token) *Continue {
	return &Continue{span: newSpan(keyword.Start, keyword.End), Keyword: keyword}
}

func (s *Continue) Accept(v StatementVisitor) any { return v.VisitContinue(s) }

// Label is `name:`, a goto target.
type Label struct {
	span
	Name token.Token
}

func NewLabel(name token.Token) *Label {
	return &Label{span: newSpan(name.Start, name.End), Name: name}
}

func (s *Label) Accept(v StatementVisitor) any { return v.VisitLabel(s) }

// Goto is `goto name`.
type Goto struct {
	span
	Keyword token.Token
	Label   token.Token
}

func NewGoto(keyword, label token.Token) *Goto {
	return &Goto{span: newSpan(keyword.Start, label.End), Keyword: keyword, Label: label}
}

func (s *Goto) Accept(v StatementVisitor) any { return v.VisitGoto(s) }
