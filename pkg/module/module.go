// Package module implements the uniform module descriptor and layered
// resolver of spec.md §4.5: a fixed built-in stdlib, a host-ecosystem
// package wrap, a script file, and a host-language file, all exposed to
// the evaluator through the same {functions, constants} shape.
//
// Runner exists solely to let a script-file-backed module invoke its own
// top-level functions without this package importing pkg/eval (which
// itself must import pkg/module to register imports) — the same
// dependency-inversion shape as the teacher's vm.Gatekeeper interface in
// pkg/vm/machine.go, which lets the VM call back into host-supplied
// policy without importing the CLI package that implements it.
package module

import (
	"fmt"

	"github.com/hpl-lang/hpl/pkg/core/value"
	"github.com/hpl-lang/hpl/pkg/object"
)

// HostFunc is a Go-native builtin: math.sqrt, io.read_file, and so on.
type HostFunc func(args []value.Value) (value.Value, error)

// Runner lets a FunctionEntry backed by a script-defined object.Function
// be invoked uniformly with the host builtins. pkg/eval's Evaluator
// implements this.
type Runner interface {
	CallFunction(fn *object.Function, args []value.Value) (value.Value, error)
}

// FunctionEntry is {callable, arity-or-variadic, doc} (§4.5). Exactly one
// of Host or Script is set. Arity is the exact parameter count; Variadic
// functions ignore Arity.
type FunctionEntry struct {
	Name     string
	Arity    int
	Variadic bool
	Doc      string
	Host     HostFunc
	Script   *object.Function
}

// Call dispatches to the host callable or, for a script-backed entry,
// to runner.CallFunction.
func (f *FunctionEntry) Call(runner Runner, args []value.Value) (value.Value, error) {
	if !f.Variadic && len(args) != f.Arity && f.Arity >= 0 {
		return value.NullValue, fmt.Errorf("%s: expected %d argument(s), got %d", f.Name, f.Arity, len(args))
	}
	if f.Host != nil {
		return f.Host(args)
	}
	if f.Script != nil {
		if runner == nil {
			return value.NullValue, fmt.Errorf("%s: no runner available to invoke script function", f.Name)
		}
		return runner.CallFunction(f.Script, args)
	}
	return value.NullValue, fmt.Errorf("%s: function entry has neither a host nor a script implementation", f.Name)
}

// Module is the uniform descriptor of §4.5: the evaluator consults it the
// same way regardless of how it was produced.
type Module struct {
	Name        string
	Description string
	Functions   map[string]*FunctionEntry
	Constants   map[string]value.Value
}

func New(name, description string) *Module {
	return &Module{
		Name:        name,
		Description: description,
		Functions:   make(map[string]*FunctionEntry),
		Constants:   make(map[string]value.Value),
	}
}

func (m *Module) RegisterFunc(entry *FunctionEntry) {
	m.Functions[entry.Name] = entry
}

func (m *Module) RegisterConst(name string, v value.Value) {
	m.Constants[name] = v
}

// Resolve implements "M.x first checks the constant registry, then the
// function registry" (§4.5). A function found this way is returned
// wrapped as a BoundFunction value so that `M.x(args)` can later call it.
func (m *Module) Resolve(name string) (value.Value, bool) {
	if v, ok := m.Constants[name]; ok {
		return v, true
	}
	if fn, ok := m.Functions[name]; ok {
		return value.Value{Kind: value.BoundFunction, Opaque: &BoundModuleFunc{Module: m, Entry: fn}}, true
	}
	return value.NullValue, false
}

func (m *Module) AsValue() value.Value {
	return value.Value{Kind: value.Module, Opaque: m}
}

func (m *Module) String() string {
	return fmt.Sprintf("<module %s>", m.Name)
}

// BoundModuleFunc is what `M.x` evaluates to when x names a function
// rather than a constant, so that a later `(args)` call can reach it.
type BoundModuleFunc struct {
	Module *Module
	Entry  *FunctionEntry
}

func (b *BoundModuleFunc) String() string {
	return fmt.Sprintf("<bound function %s.%s>", b.Module.Name, b.Entry.Name)
}
