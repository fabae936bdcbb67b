package object

import "log/slog"

// Environment is one scope of the symbol table. Reads fall through to Outer;
// writes always land in the scope they are made on.
type Environment struct {
	Bindings map[string]Object
	Outer    *Environment
}

func NewEnvironment() *Environment {
	return &Environment{Bindings: make(map[string]Object)}
}

// NewEnclosedEnvironment opens a call scope whose unbound names read through to outer.
func NewEnclosedEnvironment(outer *Environment) *Environment {
	slog.Debug("------ new env ------")
	env := NewEnvironment()
	env.Outer = outer
	return env
}

func (e *Environment) Get(name string) (Object, bool) {
	for env := e; env != nil; env = env.Outer {
		if v, ok := env.Bindings[name]; ok {
			return v, true
		}
	}
	return nil, false
}

func (e *Environment) Set(name string, value Object) Object {
	e.Bindings[name] = value
	return value
}

// Delete unbinds name from this scope only.
func (e *Environment) Delete(name string) bool {
	if _, ok := e.Bindings[name]; !ok {
		return false
	}
	delete(e.Bindings, name)
	return true
}

// Depth counts the enclosing scopes; the global scope has depth 0.
func (e *Environment) Depth() int {
	depth := 0
	for env := e.Outer; env != nil; env = env.Outer {
		depth++
	}
	return depth
}
