package eval

import "github.com/hpl-lang/hpl/pkg/core/value"

// Scope is the two-level lookup of spec §3: a per-call local mapping and
// a shared process-wide global mapping. Globals is always the same
// pointer as Evaluator.Globals; every Scope created for the life of one
// Evaluator shares it.
type Scope struct {
	locals  map[string]value.Value
	globals map[string]value.Value
}

// NewScope creates a fresh local scope over the given shared globals.
func NewScope(globals map[string]value.Value) *Scope {
	return &Scope{locals: make(map[string]value.Value), globals: globals}
}

// Get resolves a name local-first, then global (§3 invariant 4).
func (s *Scope) Get(name string) (value.Value, bool) {
	if v, ok := s.locals[name]; ok {
		return v, true
	}
	if v, ok := s.globals[name]; ok {
		return v, true
	}
	return value.NullValue, false
}

// Set writes to whichever level already defines name, preferring local;
// if neither does, it creates the binding in local (§3 invariant 4:
// "writes prefer the level where the name already exists, otherwise
// create in local").
func (s *Scope) Set(name string, v value.Value) {
	if _, ok := s.locals[name]; ok {
		s.locals[name] = v
		return
	}
	if _, ok := s.globals[name]; ok {
		s.globals[name] = v
		return
	}
	s.locals[name] = v
}

// Bind creates a local binding unconditionally, used for parameter
// binding and the for-in loop variable where re-declaration each
// iteration is intended rather than a lookup-and-prefer write.
func (s *Scope) Bind(name string, v value.Value) {
	s.locals[name] = v
}
