// Package debughook builds the uncaught-error report of spec.md §7 Debug
// reporting from an evaluator's post-mortem state: error kind, message,
// source location, call stack, and a scope snapshot. cmd/hpl-debug is its
// only consumer.
package debughook

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hpl-lang/hpl/pkg/core/value"
	"github.com/hpl-lang/hpl/pkg/herrors"
)

// Snapshotter is the slice of *eval.Evaluator this package depends on,
// kept narrow so debughook never imports pkg/eval directly and risks a
// cycle back through pkg/module's Runner plumbing.
type Snapshotter interface {
	CallStack() []string
	This() value.Value
	LocalsSnapshot() map[string]value.Value
	GlobalsSnapshot() map[string]value.Value
}

// Report is the rendered post-mortem for one uncaught error.
type Report struct {
	Kind      string
	Message   string
	Line      int
	Column    int
	CallStack []string
	This      string
	Locals    map[string]string
	Globals   map[string]string
	Stack     string
}

// Build assembles a Report from err and the evaluator's state at the
// point the error reached the top of the call stack.
func Build(err error, ev Snapshotter, verbose bool) *Report {
	r := &Report{
		CallStack: ev.CallStack(),
		This:      ev.This().Display(),
		Locals:    displayAll(ev.LocalsSnapshot()),
		Globals:   displayAll(ev.GlobalsSnapshot()),
	}
	if he, ok := herrors.AsError(err); ok {
		r.Kind = he.Kind.String()
		r.Message = he.Msg
		r.Line = he.Pos.Line
		r.Column = he.Pos.Column
	} else {
		r.Kind = "Error"
		r.Message = err.Error()
	}
	if verbose {
		r.Stack = herrors.StackTrace(err)
	}
	return r
}

func displayAll(m map[string]value.Value) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v.Display()
	}
	return out
}

// String renders the report the way a terminal debug session would
// print it: one block of labeled lines, scopes sorted for stable output.
func (r *Report) String() string {
	var b strings.Builder
	if r.Line > 0 {
		fmt.Fprintf(&b, "%s: %s at %d:%d\n", r.Kind, r.Message, r.Line, r.Column)
	} else {
		fmt.Fprintf(&b, "%s: %s\n", r.Kind, r.Message)
	}

	fmt.Fprintf(&b, "this: %s\n", r.This)

	fmt.Fprintln(&b, "call stack:")
	if len(r.CallStack) == 0 {
		fmt.Fprintln(&b, "  <empty>")
	}
	for _, frame := range r.CallStack {
		fmt.Fprintf(&b, "  %s\n", frame)
	}

	fmt.Fprintln(&b, "locals:")
	writeSorted(&b, r.Locals)

	fmt.Fprintln(&b, "globals:")
	writeSorted(&b, r.Globals)

	if r.Stack != "" {
		fmt.Fprintln(&b, "stack trace:")
		fmt.Fprintln(&b, r.Stack)
	}

	return b.String()
}

func writeSorted(b *strings.Builder, m map[string]string) {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(b, "  %s = %s\n", name, m[name])
	}
}
