package value

import (
	"sync"

	"github.com/naab-lang/naab/internal/errtax"
)

// Environment is a lexically scoped name → Value mapping with a weak
// parent pointer: lookup walks to the parent, but the parent never holds
// a reference back (spec §3.4). A scope is created on function entry,
// block entry, and loop-body entry, and discarded on exit.
type Environment struct {
	mu     sync.RWMutex
	vars   map[string]Value
	parent *Environment
}

// NewEnvironment creates a root environment with no parent (the program's
// global scope, or the base of an isolated test harness run per spec §9's
// "tests must construct them fresh").
func NewEnvironment() *Environment {
	return &Environment{vars: make(map[string]Value)}
}

// Child creates a new scope whose lookups fall back to e.
func (e *Environment) Child() *Environment {
	return &Environment{vars: make(map[string]Value), parent: e}
}

// Define binds name to v in this scope, shadowing any same-named binding
// in an ancestor scope.
func (e *Environment) Define(name string, v Value) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.vars[name] = v
}

// Get looks up name, walking to parent scopes on a miss.
func (e *Environment) Get(name string) (Value, bool) {
	for env := e; env != nil; env = env.parent {
		env.mu.RLock()
		v, ok := env.vars[name]
		env.mu.RUnlock()
		if ok {
			return v, true
		}
	}
	return nil, false
}

// Assign rebinds an existing name in whichever scope (this one or an
// ancestor) currently holds it, returning false if the name is unbound
// anywhere in the chain.
func (e *Environment) Assign(name string, v Value) bool {
	for env := e; env != nil; env = env.parent {
		env.mu.Lock()
		if _, ok := env.vars[name]; ok {
			env.vars[name] = v
			env.mu.Unlock()
			return true
		}
		env.mu.Unlock()
	}
	return false
}

// Names returns every name visible from e (this scope and its ancestors),
// used to compute Levenshtein "did you mean" suggestions for UnboundName.
func (e *Environment) Names() []string {
	seen := map[string]struct{}{}
	var names []string
	for env := e; env != nil; env = env.parent {
		env.mu.RLock()
		for name := range env.vars {
			if _, ok := seen[name]; !ok {
				seen[name] = struct{}{}
				names = append(names, name)
			}
		}
		env.mu.RUnlock()
	}
	return names
}

// Parent exposes the parent scope, used by the cycle collector to walk
// the full environment tree from the root.
func (e *Environment) Parent() *Environment { return e.parent }

// ForEach visits every name/value binding held directly in this scope
// (not its ancestors), used by the cycle collector to mark the values
// reachable from each environment node without exposing the backing map.
func (e *Environment) ForEach(fn func(name string, v Value)) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	for name, v := range e.vars {
		fn(name, v)
	}
}

// UnboundNameError builds the typed error for a failed Get, populated with
// Environment as the source for suggestion computation by the caller
// (internal/evaluator owns the Levenshtein lookup, since that is the
// layer with ast.Position context to attach).
func UnboundNameError(name string) *errtax.Error {
	return errtax.New(errtax.KindUnboundName, "undefined variable '"+name+"'")
}
