// Package compiler walks a Timid AST and emits it as bytecode into a
// chunk.Chunk: the CORE of the toolchain. Single-pass, single-threaded,
// synchronous — see SPEC_FULL.md §10.
package compiler

import (
	"fmt"
	"io"

	"timid/ast"
	"timid/chunk"
	"timid/diag"
	"timid/token"
)

// Local is one entry in the compiler's locals stack. Depth -1 means
// "declared but its initializer has not finished compiling yet" — a read
// of such a local is a Resolution Error.
type Local struct {
	Name  token.Token
	Depth int
}

// Compiler emits one Chunk from one AST. It owns the full set of
// compile-time state (locals, loop context, interning) for the lifetime of
// a single compilation; nothing here is shared across compiles.
type Compiler struct {
	chunk *chunk.Chunk
	diags *diag.Diagnostics

	locals     []Local
	scopeDepth int

	breakPos    int
	continuePos int

	innerLoopStart int
	innerLoopEnd   int
	breaking       bool
	continuing     bool
	continueOp     chunk.Opcode

	// Trace enables verbose tracing of emitted instructions to TraceOut,
	// mirroring the original implementation's debug-gated clog() calls.
	Trace    bool
	TraceOut io.Writer
}

// New returns a Compiler that reports diagnostics to diags.
func New(diags *diag.Diagnostics) *Compiler {
	return &Compiler{
		chunk:          chunk.New(),
		diags:          diags,
		innerLoopStart: -1,
		innerLoopEnd:   -1,
		continueOp:     chunk.OpLoop,
	}
}

func (c *Compiler) trace(format string, args ...any) {
	if c.Trace && c.TraceOut != nil {
		fmt.Fprintf(c.TraceOut, format+"\n", args...)
	}
}

// Compile visits every top-level statement in source order and returns the
// resulting Chunk. The caller must consult the Diagnostics' HadError flag
// before writing the chunk to disk — see bytecode.Writer.
func (c *Compiler) Compile(statements []ast.Statement) *chunk.Chunk {
	for _, stmt := range statements {
		c.compileStmt(stmt)
	}
	c.chunk.EmitOp(chunk.OpReturn)
	return c.chunk
}

func (c *Compiler) compileStmt(s ast.Statement) { s.Accept(c) }
func (c *Compiler) compileExpr(e ast.Expression) any { return e.Accept(c) }

// --- scopes and locals (§4.3.2) ---

func (c *Compiler) beginScope() { c.scopeDepth++ }

func (c *Compiler) endScope() {
	c.scopeDepth--
	for len(c.locals) > 0 && c.locals[len(c.locals)-1].Depth > c.scopeDepth {
		c.trace("end scope pop")
		c.chunk.EmitOp(chunk.OpPop)
		c.locals = c.locals[:len(c.locals)-1]
	}
}

func (c *Compiler) declareLocal(name token.Token) {
	if c.scopeDepth == 0 {
		return
	}
	for i := len(c.locals) - 1; i >= 0; i-- {
		local := c.locals[i]
		if local.Depth != -1 && local.Depth < c.scopeDepth {
			break
		}
		if name.Lexeme == local.Name.Lexeme {
			c.diags.Resolution(name.Start, name.End,
				fmt.Sprintf("Variable '%s' has already been declared in this scope", name.Lexeme))
		}
	}
	c.locals = append(c.locals, Local{Name: name, Depth: -1})
}

func (c *Compiler) markInitialized() {
	c.locals[len(c.locals)-1].Depth = c.scopeDepth
}

func (c *Compiler) resolveLocal(name token.Token) int {
	for i := len(c.locals) - 1; i >= 0; i-- {
		local := c.locals[i]
		if local.Name.Lexeme == name.Lexeme {
			if local.Depth == -1 {
				c.diags.Resolution(name.Start, name.End, "Cannot read a variable in its own initializer")
			}
			return i
		}
	}
	return -1
}

// identifierConstant interns name and returns its constant-pool index.
func (c *Compiler) identifierConstant(name token.Token) int {
	isNew, index := c.chunk.RegisterString(name.Lexeme)
	if isNew {
		c.chunk.AddConstant(chunk.StringValue(name.Lexeme))
	}
	return index
}

// parseVariable declares name as a local (if scopeDepth > 0) or reserves
// its constant-pool slot as a future global name.
func (c *Compiler) parseVariable(name token.Token) int {
	c.declareLocal(name)
	if c.scopeDepth > 0 {
		return 0
	}
	return c.identifierConstant(name)
}

// defineVariable finishes a variable declaration: a local is simply marked
// initialized (its value is already on the stack in the right slot); a
// global gets an explicit DEFINE_GLOBAL emitted against globalIdx.
func (c *Compiler) defineVariable(globalIdx int) {
	if c.scopeDepth > 0 {
		c.markInitialized()
		return
	}
	c.chunk.EmitOp(chunk.OpDefineGlobal)
	c.chunk.EmitOp(chunk.ConstantOpcode(globalIdx))
	c.chunk.Emit1or3(globalIdx)
}

// namedVariable resolves name to a local slot or a global constant-pool
// index and emits the matching get/set instruction (§4.3.3).
func (c *Compiler) namedVariable(name token.Token, isAssign bool) {
	if slot := c.resolveLocal(name); slot != -1 {
		op := chunk.OpGetLocal
		if isAssign {
			op = chunk.OpSetLocal
		}
		c.chunk.EmitOp(op)
		c.chunk.EmitByte(byte(slot))
		return
	}

	index := c.identifierConstant(name)
	op := chunk.OpGetGlobal
	if isAssign {
		op = chunk.OpSetGlobal
	}
	c.chunk.EmitOp(op)
	c.chunk.EmitOp(chunk.ConstantOpcode(index))
	c.chunk.Emit1or3(index)
}

// --- loop context (§4.3.4) ---

func (c *Compiler) beginLoop() int {
	previous := c.innerLoopStart
	c.innerLoopStart = c.chunk.Len()
	return previous
}

func (c *Compiler) endLoop() int {
	previous := c.innerLoopEnd
	c.innerLoopEnd = c.chunk.Len()
	return previous
}

func (c *Compiler) exitLoop(previousStart, previousEnd int) {
	c.innerLoopStart = previousStart
	c.innerLoopEnd = previousEnd
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func (c *Compiler) patchBreak(node ast.Node) {
	if !c.breaking {
		return
	}
	distance := c.innerLoopEnd - c.breakPos - 2
	if overflow := c.chunk.PatchAt(c.breakPos, distance); overflow {
		start, end := node.Span()
		c.diags.Compile(start, end, "Too much code to jump")
	}
	c.breaking = false
}

func (c *Compiler) patchContinue(node ast.Node, jumpPos int) {
	if !c.continuing {
		return
	}
	if jumpPos == -1 {
		jumpPos = c.innerLoopStart
	}
	distance := abs(jumpPos - c.continuePos - 2)
	if overflow := c.chunk.PatchAt(c.continuePos, distance); overflow {
		start, end := node.Span()
		c.diags.Compile(start, end, "Too much code to jump")
	}
	c.continuing = false
}

// --- statements ---

func (c *Compiler) VisitBlock(s *ast.Block) any {
	c.beginScope()
	for _, stmt := range s.Statements {
		c.compileStmt(stmt)
	}
	c.endScope()
	return nil
}

func (c *Compiler) VisitBreak(s *ast.Break) any {
	if c.innerLoopStart == -1 {
		start, end := s.Span()
		c.diags.Compile(start, end, "Break statement outside of loop")
	}
	c.breakPos = c.chunk.EmitJump(chunk.OpJump)
	c.breaking = true
	return nil
}

func (c *Compiler) VisitContinue(s *ast.Continue) any {
	if c.innerLoopStart == -1 {
		start, end := s.Span()
		c.diags.Compile(start, end, "Continue statement outside of loop")
	}
	c.continuePos = c.chunk.EmitJump(c.continueOp)
	c.continuing = true
	return nil
}

func (c *Compiler) VisitExprStmt(s *ast.ExprStmt) any {
	c.compileExpr(s.Expr)
	c.trace("expr pop")
	c.chunk.EmitOp(chunk.OpPop)
	return nil
}

func (c *Compiler) VisitFor(s *ast.For) any {
	if s.Initializer != nil {
		c.compileStmt(s.Initializer)
	}

	previousContinueOp := c.continueOp
	if s.Step != nil {
		c.continueOp = chunk.OpJump
	}

	previousStart := c.beginLoop()

	if s.Condition != nil {
		c.compileExpr(s.Condition)
	} else {
		c.chunk.EmitOp(chunk.OpTrue)
	}
	exitJump := c.chunk.EmitJump(chunk.OpJumpIfFalse)
	c.trace("for condition pop")
	c.chunk.EmitOp(chunk.OpPop)

	c.beginScope()
	c.compileStmt(s.Body)

	continuePos := -1
	if s.Step != nil {
		continuePos = c.chunk.Len()
		c.compileExpr(s.Step)
		c.chunk.EmitOp(chunk.OpPop)
	}

	c.patchLoopOverflow(s, c.chunk.EmitLoop(c.innerLoopStart))

	c.patchJumpOverflow(s, exitJump)
	c.trace("for exit pop")
	c.chunk.EmitOp(chunk.OpPop)

	c.endScope()

	previousEnd := c.endLoop()

	c.patchBreak(s)
	c.patchContinue(s, continuePos)

	c.exitLoop(previousStart, previousEnd)
	c.continueOp = previousContinueOp
	return nil
}

func (c *Compiler) VisitForever(s *ast.Forever) any {
	previousStart := c.beginLoop()

	c.beginScope()
	c.compileStmt(s.Body)
	c.endScope()

	c.patchLoopOverflow(s, c.chunk.EmitLoop(c.innerLoopStart))

	previousEnd := c.endLoop()

	c.patchBreak(s)
	c.patchContinue(s, -1)

	c.exitLoop(previousStart, previousEnd)
	return nil
}

func (c *Compiler) VisitIf(s *ast.If) any {
	c.compileExpr(s.Condition)

	thenJump := c.chunk.EmitJump(chunk.OpJumpIfFalse)
	c.trace("if clause pop")
	c.chunk.EmitOp(chunk.OpPop)

	c.compileStmt(s.IfBranch)

	elseJump := c.chunk.EmitJump(chunk.OpJump)

	c.patchJumpOverflow(s.IfBranch, thenJump)
	c.trace("else clause pop")
	c.chunk.EmitOp(chunk.OpPop)

	if s.ElseBranch != nil {
		c.compileStmt(s.ElseBranch)
	}

	target := s.IfBranch
	if s.ElseBranch != nil {
		target = s.ElseBranch
	}
	c.patchJumpOverflow(target, elseJump)
	return nil
}

func (c *Compiler) VisitPrintStmt(s *ast.PrintStmt) any {
	if s.Value == nil {
		c.chunk.EmitEmptyString()
	} else {
		c.compileExpr(s.Value)
	}
	c.chunk.EmitOp(chunk.OpPrint)
	return nil
}

func (c *Compiler) VisitVarDecl(s *ast.VarDecl) any {
	globalIdx := c.parseVariable(s.Name)
	if s.Initializer == nil {
		c.chunk.EmitOp(chunk.OpNull)
	} else {
		c.compileExpr(s.Initializer)
	}
	c.defineVariable(globalIdx)
	return nil
}

func (c *Compiler) VisitWhile(s *ast.While) any {
	previousStart := c.beginLoop()

	c.compileExpr(s.Condition)
	exitJump := c.chunk.EmitJump(chunk.OpJumpIfFalse)
	c.trace("while condition pop")
	c.chunk.EmitOp(chunk.OpPop)

	c.beginScope()
	c.compileStmt(s.Body)
	c.endScope()

	c.patchLoopOverflow(s, c.chunk.EmitLoop(c.innerLoopStart))

	c.patchJumpOverflow(s, exitJump)
	c.trace("while exit pop")
	c.chunk.EmitOp(chunk.OpPop)

	previousEnd := c.endLoop()

	c.patchBreak(s)
	c.patchContinue(s, -1)

	c.exitLoop(previousStart, previousEnd)
	return nil
}

func (c *Compiler) VisitAssert(s *ast.Assert) any {
	c.compileExpr(s.Condition)
	c.chunk.EmitOp(chunk.OpPop)
	c.compileExpr(s.Message)
	c.chunk.EmitOp(chunk.OpPop)

	start, end := s.Span()
	c.diags.Compile(start, end, "assert statements are not supported by the bytecode compiler")
	return nil
}

func (c *Compiler) VisitLabel(s *ast.Label) any {
	start, end := s.Span()
	c.diags.Compile(start, end, fmt.Sprintf("unresolved label '%s': goto/label lowering is not supported by the bytecode compiler", s.Name.Lexeme))
	return nil
}

func (c *Compiler) VisitGoto(s *ast.Goto) any {
	start, end := s.Span()
	c.diags.Compile(start, end, fmt.Sprintf("unresolved symbol '%s': goto/label lowering is not supported by the bytecode compiler", s.Label.Lexeme))
	return nil
}

// --- expressions ---

func (c *Compiler) VisitAssign(e *ast.Assign) any {
	if e.Operator.Kind == token.EQ {
		c.compileExpr(e.Value)
	} else {
		c.namedVariable(e.Name, false)
		c.compileExpr(e.Value)
		c.chunk.EmitOp(compoundOpcode(e.Operator.Kind))
	}
	c.namedVariable(e.Name, true)
	return nil
}

func compoundOpcode(kind token.Kind) chunk.Opcode {
	switch kind {
	case token.PLUS_ASSIGN:
		return chunk.OpAdd
	case token.MINUS_ASSIGN:
		return chunk.OpSub
	case token.STAR_ASSIGN:
		return chunk.OpMul
	case token.SLASH_ASSIGN:
		return chunk.OpDiv
	case token.PERCENT_ASSIGN:
		return chunk.OpMod
	case token.CARET_ASSIGN:
		return chunk.OpPow
	default:
		return chunk.OpNop
	}
}

func (c *Compiler) VisitBinary(e *ast.Binary) any {
	c.compileExpr(e.Left)
	c.compileExpr(e.Right)

	switch e.Operator.Kind {
	case token.PLUS:
		c.chunk.EmitOp(chunk.OpAdd)
	case token.MINUS:
		c.chunk.EmitOp(chunk.OpSub)
	case token.STAR:
		c.chunk.EmitOp(chunk.OpMul)
	case token.SLASH:
		c.chunk.EmitOp(chunk.OpDiv)
	case token.PERCENT:
		c.chunk.EmitOp(chunk.OpMod)
	case token.CARET:
		c.chunk.EmitOp(chunk.OpPow)
	case token.EQEQ:
		c.chunk.EmitOp(chunk.OpEq)
	case token.NE:
		c.chunk.EmitBytes(byte(chunk.OpEq), byte(chunk.OpNot))
	case token.LT:
		c.chunk.EmitOp(chunk.OpLt)
	case token.LTE:
		c.chunk.EmitBytes(byte(chunk.OpGt), byte(chunk.OpNot))
	case token.GT:
		c.chunk.EmitOp(chunk.OpGt)
	case token.GTE:
		c.chunk.EmitBytes(byte(chunk.OpLt), byte(chunk.OpNot))
	case token.AND:
		c.chunk.EmitOp(chunk.OpAnd)
	case token.OR:
		c.chunk.EmitOp(chunk.OpOr)
	}
	return nil
}

func (c *Compiler) VisitFactorial(e *ast.Factorial) any {
	c.compileExpr(e.Expr)
	c.chunk.EmitOp(chunk.OpFact)
	return nil
}

func (c *Compiler) VisitInput(e *ast.Input) any {
	if e.Prompt != nil {
		c.compileExpr(e.Prompt)
	} else {
		c.chunk.EmitEmptyString()
	}
	c.chunk.EmitOp(chunk.OpGetInput)
	return nil
}

func (c *Compiler) VisitLiteral(e *ast.Literal) any {
	tok := e.Token
	switch tok.Kind {
	case token.STRING:
		c.chunk.EmitString(tok.Literal.(string))
	case token.TRUE:
		c.chunk.EmitOp(chunk.OpTrue)
	case token.FALSE:
		c.chunk.EmitOp(chunk.OpFalse)
	case token.NULL:
		c.chunk.EmitOp(chunk.OpNull)
	case token.FLOAT:
		c.chunk.EmitConstant(chunk.FloatValue(tok.Literal.(float64)))
	case token.INT:
		v := tok.Literal.(int64)
		switch v {
		case 0:
			c.chunk.EmitOp(chunk.Op0)
		case 1:
			c.chunk.EmitOp(chunk.Op1)
		case 2:
			c.chunk.EmitOp(chunk.Op2)
		default:
			c.chunk.EmitConstant(chunk.IntValue(v))
		}
	}
	return nil
}

func (c *Compiler) VisitSubscript(e *ast.Subscript) any {
	c.compileExpr(e.Iterable)
	c.compileExpr(e.Subscript)
	c.chunk.EmitOp(chunk.OpSubscript)
	return nil
}

func (c *Compiler) VisitTernary(e *ast.Ternary) any {
	c.compileExpr(e.Condition)

	thenJump := c.chunk.EmitJump(chunk.OpJumpIfFalse)
	c.chunk.EmitOp(chunk.OpPop)

	c.compileExpr(e.IfBranch)

	elseJump := c.chunk.EmitJump(chunk.OpJump)

	c.patchJumpOverflow(e.IfBranch, thenJump)
	c.chunk.EmitOp(chunk.OpPop)

	c.compileExpr(e.ElseBranch)

	c.patchJumpOverflow(e.ElseBranch, elseJump)
	return nil
}

func (c *Compiler) VisitUnary(e *ast.Unary) any {
	c.compileExpr(e.Right)

	switch e.Operator.Kind {
	case token.MINUS:
		if len(c.chunk.Code) > 0 && chunk.Opcode(c.chunk.Code[len(c.chunk.Code)-1]) == chunk.Op1 {
			c.chunk.Code[len(c.chunk.Code)-1] = byte(chunk.OpNeg1)
			return nil
		}
		c.chunk.EmitOp(chunk.OpNegate)
	case token.NOT:
		c.chunk.EmitOp(chunk.OpNot)
	case token.PLUS:
		// no-op emission
	}
	return nil
}

func (c *Compiler) VisitVariable(e *ast.Variable) any {
	c.namedVariable(e.Name, false)
	return nil
}

// --- non-goals: the bytecode path never lowers these three node kinds
// (DESIGN.md decision 3); they exist in the AST for the treewalk
// collaborator only. Each reports a Compile Error and pushes a single
// NULL so the surrounding expression's stack depth stays well-defined.

func (c *Compiler) VisitCall(e *ast.Call) any {
	start, end := e.Span()
	c.diags.Compile(start, end, "call expressions are not supported by the bytecode compiler")
	c.chunk.EmitOp(chunk.OpNull)
	return nil
}

func (c *Compiler) VisitDictionary(e *ast.Dictionary) any {
	start, end := e.Span()
	c.diags.Compile(start, end, "dictionary literals are not supported by the bytecode compiler")
	c.chunk.EmitOp(chunk.OpNull)
	return nil
}

func (c *Compiler) VisitLambda(e *ast.Lambda) any {
	start, end := e.Span()
	c.diags.Compile(start, end, "lambda expressions are not supported by the bytecode compiler")
	c.chunk.EmitOp(chunk.OpNull)
	return nil
}

// --- jump-patch helpers that route overflow into a Compile Error ---

func (c *Compiler) patchJumpOverflow(node ast.Node, idx int) {
	if overflow := c.chunk.PatchJump(idx); overflow {
		start, end := node.Span()
		c.diags.Compile(start, end, "Too much code to jump")
	}
}

func (c *Compiler) patchLoopOverflow(node ast.Node, overflow bool) {
	if overflow {
		start, end := node.Span()
		c.diags.Compile(start, end, "Loop body too large")
	}
}
