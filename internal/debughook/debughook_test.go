package debughook

import (
	"strings"
	"testing"

	"github.com/hpl-lang/hpl/pkg/core/value"
	"github.com/hpl-lang/hpl/pkg/herrors"
)

type fakeEvaluator struct {
	stack   []string
	this    value.Value
	locals  map[string]value.Value
	globals map[string]value.Value
}

func (f *fakeEvaluator) CallStack() []string                    { return f.stack }
func (f *fakeEvaluator) This() value.Value                      { return f.this }
func (f *fakeEvaluator) LocalsSnapshot() map[string]value.Value  { return f.locals }
func (f *fakeEvaluator) GlobalsSnapshot() map[string]value.Value { return f.globals }

func TestBuild(t *testing.T) {
	ev := &fakeEvaluator{
		stack:   []string{"main()", "Widget.tick()"},
		this:    value.NullValue,
		locals:  map[string]value.Value{"x": value.NewInt(3)},
		globals: map[string]value.Value{"count": value.NewInt(0)},
	}

	t.Run("herrors.Error carries kind, message, and position", func(t *testing.T) {
		err := herrors.New(herrors.Name, herrors.Position{Line: 4, Column: 2}, "undefined variable %q", "y")
		r := Build(err, ev, false)
		if r.Kind != "NameError" {
			t.Errorf("Kind = %q", r.Kind)
		}
		if r.Line != 4 || r.Column != 2 {
			t.Errorf("position = %d:%d", r.Line, r.Column)
		}
		if !strings.Contains(r.Message, "y") {
			t.Errorf("Message = %q", r.Message)
		}
	})

	t.Run("a plain error falls back to kind Error with no position", func(t *testing.T) {
		r := Build(assertErr("boom"), ev, false)
		if r.Kind != "Error" || r.Line != 0 {
			t.Errorf("Kind=%q Line=%d", r.Kind, r.Line)
		}
	})

	t.Run("String renders the call stack and both scopes", func(t *testing.T) {
		err := herrors.New(herrors.Value, herrors.Position{}, "bad index")
		out := Build(err, ev, false).String()
		for _, want := range []string{"Widget.tick()", "x = 3", "count = 0"} {
			if !strings.Contains(out, want) {
				t.Errorf("report missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("verbose requests a stack trace section", func(t *testing.T) {
		err := herrors.New(herrors.Type, herrors.Position{}, "bad operand")
		r := Build(err, ev, true)
		if r.Stack == "" {
			t.Errorf("expected a non-empty stack trace in verbose mode")
		}
	})
}

type simpleError string

func (e simpleError) Error() string { return string(e) }

func assertErr(msg string) error { return simpleError(msg) }
