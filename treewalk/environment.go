package treewalk

import "timid/token"

// Environment is a chain of variable scopes. A lookup or assignment that
// misses in the local scope walks up through Enclosing.
type Environment struct {
	Enclosing *Environment
	values    map[string]any
}

// NewEnvironment returns a root environment with no enclosing scope.
func NewEnvironment() *Environment {
	return &Environment{values: make(map[string]any)}
}

// NewNestedEnvironment returns an environment scoped as a child of enclosing.
func NewNestedEnvironment(enclosing *Environment) *Environment {
	return &Environment{Enclosing: enclosing, values: make(map[string]any)}
}

// Define binds name to value in this scope, shadowing any outer binding.
func (e *Environment) Define(name string, value any) {
	e.values[name] = value
}

// Get resolves name, walking outward through enclosing scopes.
func (e *Environment) Get(name token.Token) (any, error) {
	if value, ok := e.values[name.Lexeme]; ok {
		return value, nil
	}
	if e.Enclosing != nil {
		return e.Enclosing.Get(name)
	}
	return nil, &runtimeError{
		start: name.Start, end: name.End,
		message: "Undefined variable: " + name.Lexeme,
	}
}

// Assign rewrites the nearest existing binding for name, walking outward
// through enclosing scopes. It never creates a new binding.
func (e *Environment) Assign(name token.Token, value any) error {
	if _, ok := e.values[name.Lexeme]; ok {
		e.values[name.Lexeme] = value
		return nil
	}
	if e.Enclosing != nil {
		return e.Enclosing.Assign(name, value)
	}
	return &runtimeError{
		start: name.Start, end: name.End,
		message: "Undefined variable: " + name.Lexeme,
	}
}
