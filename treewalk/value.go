package treewalk

import (
	"fmt"
	"strconv"
	"time"
)

// Callable is anything that can appear on the left of a call expression:
// a lambda closure or a builtin.
type Callable interface {
	Arity() int
	Call(interp *Interpreter, args []any) any
	String() string
}

// closure is the runtime value of a Lambda expression: the declaration plus
// the environment it was created in, captured by reference so later
// mutations of outer variables are visible inside the body.
type closure struct {
	identifier string
	body       func(interp *Interpreter, env *Environment) any
	env        *Environment
}

func (c *closure) Arity() int { return 1 }

func (c *closure) Call(interp *Interpreter, args []any) any {
	env := NewNestedEnvironment(c.env)
	env.Define(c.identifier, args[0])
	return c.body(interp, env)
}

func (c *closure) String() string { return "<anon>" }

// clockBuiltin is a zero-arity builtin returning the current Unix time in
// seconds, registered in every interpreter's global scope.
type clockBuiltin struct{}

func (clockBuiltin) Arity() int                      { return 0 }
func (clockBuiltin) Call(_ *Interpreter, _ []any) any { return float64(time.Now().UnixNano()) / 1e9 }
func (clockBuiltin) String() string                   { return "<foreign fn Clock>" }

func isNumeric(v any) bool {
	switch v.(type) {
	case int64, float64, bool, nil:
		return true
	}
	return false
}

func toNumber(v any) float64 {
	switch t := v.(type) {
	case int64:
		return float64(t)
	case float64:
		return t
	case bool:
		if t {
			return 1
		}
		return 0
	case nil:
		return 0
	}
	return 0
}

func toInt(v any) int64 {
	return int64(toNumber(v))
}

func truth(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case int64:
		return t != 0
	case float64:
		return t != 0
	case string:
		return len(t) > 0
	}
	return true
}

func toString(v any) string {
	switch t := v.(type) {
	case nil:
		return "nul"
	case bool:
		if t {
			return "tru"
		}
		return "fls"
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case string:
		return t
	case Callable:
		return t.String()
	case map[any]any:
		return fmt.Sprint(t)
	default:
		return ""
	}
}

func isEqual(a, b any) bool {
	if isNumeric(a) && isNumeric(b) {
		return toNumber(a) == toNumber(b)
	}
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	default:
		return a == b
	}
}
