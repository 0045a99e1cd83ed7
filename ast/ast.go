// Package ast defines Timid's two closed node families — expressions and
// statements — and the visitor interfaces the parser's tree is walked with.
package ast

import "timid/token"

// Node is implemented by every expression and statement; Span reports the
// source range the node was parsed from, for diagnostics.
type Node interface {
	Span() (start, end token.Position)
}

// Expression is any node that produces a value.
type Expression interface {
	Node
	Accept(v ExpressionVisitor) any
}

// Statement is any node executed for effect.
type Statement interface {
	Node
	Accept(v StatementVisitor) any
}

// ExpressionVisitor dispatches over the closed Expression family.
type ExpressionVisitor interface {
	VisitLiteral(e *Literal) any
	VisitVariable(e *Variable) any
	VisitAssign(e *Assign) any
	VisitBinary(e *Binary) any
	VisitUnary(e *Unary) any
	VisitFactorial(e *Factorial) any
	VisitTernary(e *Ternary) any
	VisitSubscript(e *Subscript) any
	VisitInput(e *Input) any
	VisitCall(e *Call) any
	VisitDictionary(e *Dictionary) any
	VisitLambda(e *Lambda) any
}

// StatementVisitor dispatches over the closed Statement family.
type StatementVisitor interface {
	VisitExprStmt(s *ExprStmt) any
	VisitPrintStmt(s *PrintStmt) any
	VisitVarDecl(s *VarDecl) any
	VisitBlock(s *Block) any
	VisitIf(s *If) any
	VisitWhile(s *While) any
	VisitFor(s *For) any
	VisitForever(s *Forever) any
	VisitAssert(s *Assert) any
	VisitBreak(s *Break) any
	VisitContinue(s *Continue) any
	VisitLabel(s *Label) any
	VisitGoto(s *Goto) any
}

type span struct {
	start, end token.Position
}

func (s span) Span() (token.Position, token.Position) { return s.start, s.end }

func newSpan(start, end token.Position) span { return span{start: start, end: end} }
