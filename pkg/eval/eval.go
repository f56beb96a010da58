// Package eval implements C4, the tree-walking evaluator: scope chain,
// `this` binding, call-stack frames, inheritance-aware method dispatch,
// arithmetic/string coercion, control-flow signals, and try/catch.
package eval

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/hpl-lang/hpl/pkg/ast"
	"github.com/hpl-lang/hpl/pkg/core/value"
	"github.com/hpl-lang/hpl/pkg/herrors"
	"github.com/hpl-lang/hpl/pkg/module"
	"github.com/hpl-lang/hpl/pkg/object"
)

// DefaultMaxCallDepth bounds the evaluator's own recursion (SPEC_FULL §3
// supplement: Go has no RecursionError, so depth is tracked explicitly).
const DefaultMaxCallDepth = 1000

// Evaluator walks a parsed program. One Evaluator corresponds to one
// "process-wide global mapping" (spec §3 Scope) and owns exactly the
// mutable state spec §5 says may be safely shared because execution is
// strictly single-threaded.
type Evaluator struct {
	Globals  map[string]value.Value
	Classes  *object.Registry
	TopLevel map[string]*object.Function
	Resolver *module.Resolver

	this         value.Value
	callStack    []string
	maxCallDepth int
	lastScope    *Scope

	Out    io.Writer
	In     *bufio.Reader
	Logger *log.Logger
}

// New builds an Evaluator ready to run a merged document (§4.4 Entry).
func New(classes *object.Registry, topLevel map[string]*object.Function, resolver *module.Resolver) *Evaluator {
	return &Evaluator{
		Globals:      make(map[string]value.Value),
		Classes:      classes,
		TopLevel:     topLevel,
		Resolver:     resolver,
		this:         value.NullValue,
		maxCallDepth: DefaultMaxCallDepth,
		Out:          io.Discard,
		Logger:       log.New(io.Discard, "", 0),
	}
}

// SetMaxCallDepth overrides DefaultMaxCallDepth; 0 or negative is ignored.
func (e *Evaluator) SetMaxCallDepth(n int) {
	if n > 0 {
		e.maxCallDepth = n
	}
}

// CallStack returns a snapshot of the current call stack, innermost last,
// for the debug entry point (spec §7 Debug reporting).
func (e *Evaluator) CallStack() []string {
	out := make([]string, len(e.callStack))
	copy(out, e.callStack)
	return out
}

// This returns the evaluator's current `this` binding (null outside any
// method call), for the debug entry point and for tests checking
// invariant 2 (`this` integrity).
func (e *Evaluator) This() value.Value { return e.this }

// LocalsSnapshot returns a copy of the innermost frame's local bindings
// at the most recent call, for the debug entry point's scope dump (spec
// §7 Debug reporting). It is the scope of the most recently entered
// call, not a live view, and it stays set after that call returns.
func (e *Evaluator) LocalsSnapshot() map[string]value.Value {
	out := make(map[string]value.Value)
	if e.lastScope == nil {
		return out
	}
	for k, v := range e.lastScope.locals {
		out[k] = v
	}
	return out
}

// GlobalsSnapshot returns a copy of the shared global mapping, for the
// debug entry point's scope dump.
func (e *Evaluator) GlobalsSnapshot() map[string]value.Value {
	out := make(map[string]value.Value, len(e.Globals))
	for k, v := range e.Globals {
		out[k] = v
	}
	return out
}

func (e *Evaluator) pushFrame(name string) error {
	if len(e.callStack) >= e.maxCallDepth {
		return herrors.Wrap(herrors.Value, herrors.Position{}, herrors.ErrCallDepthExceeded,
			fmt.Sprintf("call stack depth exceeded (max %d)", e.maxCallDepth))
	}
	e.callStack = append(e.callStack, name)
	return nil
}

func (e *Evaluator) popFrame() {
	if len(e.callStack) > 0 {
		e.callStack = e.callStack[:len(e.callStack)-1]
	}
}

// RunCallDirective implements §4.4 Entry: bind positional args to a named
// top-level function's parameters (extras ignored, missing become null)
// and run it.
func (e *Evaluator) RunCallDirective(name string, args []value.Value) (value.Value, error) {
	fn, ok := e.TopLevel[name]
	if !ok {
		return value.NullValue, herrors.New(herrors.Name, herrors.Position{}, "call directive names unknown function %q", name)
	}
	return e.CallFunction(fn, args)
}

// RunMain runs `main` with empty locals if one is declared, the §4.4
// Entry fallback when there is no call directive.
func (e *Evaluator) RunMain() (value.Value, error) {
	fn, ok := e.TopLevel["main"]
	if !ok {
		return value.NullValue, nil
	}
	return e.CallFunction(fn, nil)
}

// CallFunction runs a top-level or module-script function in a fresh
// local scope with no `this` bound. It implements module.Runner so a
// script-file-backed module's functions can be invoked uniformly with
// host builtins (spec §4.5).
func (e *Evaluator) CallFunction(fn *object.Function, args []value.Value) (value.Value, error) {
	if err := e.pushFrame(fn.Name + "()"); err != nil {
		return value.NullValue, err
	}
	defer e.popFrame()

	scope := NewScope(e.Globals)
	bindParams(scope, fn.Params, args)
	e.lastScope = scope

	ret, err := e.execBlockReturning(fn.Body, scope)
	if err != nil {
		return value.NullValue, err
	}
	return ret, nil
}

// callMethod implements §4.4 Method dispatch steps 3-5: save/restore
// `this`, push/pop the call-stack frame, bind parameters plus an explicit
// `this` entry, and run the body.
func (e *Evaluator) callMethod(receiver *object.Object, className string, fn *object.Function, methodName string, args []value.Value) (value.Value, error) {
	if err := e.pushFrame(fmt.Sprintf("%s.%s()", className, methodName)); err != nil {
		return value.NullValue, err
	}
	savedThis := e.this
	e.this = receiver.AsValue()
	defer func() {
		e.this = savedThis
		e.popFrame()
	}()

	scope := NewScope(e.Globals)
	bindParams(scope, fn.Params, args)
	scope.Bind("this", e.this)
	e.lastScope = scope

	return e.execBlockReturning(fn.Body, scope)
}

func bindParams(scope *Scope, params []string, args []value.Value) {
	for i, name := range params {
		if i < len(args) {
			scope.Bind(name, args[i])
		} else {
			scope.Bind(name, value.NullValue)
		}
	}
}

// execBlockReturning runs body, translating a sigReturn signal into a
// plain (value, nil) result and letting every other outcome (normal
// completion, a real error, or an escaped break/continue — which spec §9
// does not define outside a loop and which this evaluator simply
// propagates as-is) pass through unchanged.
func (e *Evaluator) execBlockReturning(body *ast.Block, scope *Scope) (value.Value, error) {
	err := e.execBlock(body, scope)
	if err == nil {
		return value.NullValue, nil
	}
	if sig, ok := asSignal(err); ok && sig.kind == sigReturn {
		return sig.value, nil
	}
	return value.NullValue, err
}

// dispatchMethod implements §4.4 Method dispatch steps 1-2: resolve the
// receiver's class and walk the parent chain for methodName.
func (e *Evaluator) dispatchMethod(receiver *object.Object, methodName string, args []value.Value) (value.Value, error) {
	fn, cls, ok := e.Classes.LookupMethod(receiver.ClassName, methodName)
	if !ok {
		return value.NullValue, herrors.Wrap(herrors.Name, herrors.Position{}, herrors.ErrMethodNotFound,
			fmt.Sprintf("method %q not found on class %q or its ancestors", methodName, receiver.ClassName))
	}
	return e.callMethod(receiver, cls.Name, fn, methodName, args)
}

// CallMethodIfExists invokes methodName on receiver through the same
// dispatch steps a script-level call would use (inheritance-aware
// lookup, `this` binding, call-stack frame), if the receiver's class
// chain defines it. ok is false and the call is skipped entirely when
// it doesn't — the caller for this is object construction's implicit
// `init` call (spec §4.4 Object construction), which is optional.
func (e *Evaluator) CallMethodIfExists(receiver *object.Object, methodName string, args []value.Value) (value.Value, bool, error) {
	if _, _, ok := e.Classes.LookupMethod(receiver.ClassName, methodName); !ok {
		return value.NullValue, false, nil
	}
	v, err := e.dispatchMethod(receiver, methodName, args)
	return v, true, err
}

// Echo writes v's display string followed by a newline (the `echo`
// built-in, spec §4.4 Built-in functions).
func (e *Evaluator) Echo(v value.Value) {
	fmt.Fprintln(e.Out, v.Display())
}

// ReadInput implements the `input([prompt])` built-in. Per spec.md §9's
// Open Question, the trailing newline is stripped.
func (e *Evaluator) ReadInput(prompt string) (string, error) {
	if prompt != "" {
		fmt.Fprint(e.Out, prompt)
	}
	if e.In == nil {
		return "", herrors.New(herrors.Value, herrors.Position{}, "input() called with no input source configured")
	}
	line, err := e.In.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", herrors.Wrap(herrors.Value, herrors.Position{}, err, "input() failed")
	}
	return strings.TrimRight(line, "\r\n"), nil
}
