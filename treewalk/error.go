package treewalk

import "timid/token"

// runtimeError is panicked by expression/statement evaluation and recovered
// at the top of Interpreter.Run, where it is reported through diag as a
// Runtime Error.
type runtimeError struct {
	start, end token.Position
	message    string
}

func (e *runtimeError) Error() string { return e.message }

// assertionError is panicked by a failed assert statement and recovered at
// the top of Interpreter.Run, where it is reported through diag as an
// Assertion Error rather than a Runtime Error.
type assertionError struct {
	start, end token.Position
	message    string
}

func (e *assertionError) Error() string { return e.message }
