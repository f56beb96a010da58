// Package herrors implements the six-kind error taxonomy of spec.md §7.
// Every error keeps a source position and is wrapped with
// github.com/pkg/errors so an uncaught failure can be reported with a
// full stack trace by the debug entry point (SPEC_FULL §1 Errors). This
// mirrors the sentinel-error-plus-context convention of the teacher's
// pkg/vm/machine.go (a top var (... = errors.New(...)) block, contextual
// wrapping at the call site) generalized from pkg/errors' bare New/Wrap to
// WithStack, since this runtime's errors must survive a multi-frame
// unwind and still report where they originated.
package herrors

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind is one of the six taxonomy members from spec.md §7.
type Kind uint8

const (
	Lexical Kind = iota + 1
	Syntax
	Name
	Type
	Value
	User
)

func (k Kind) String() string {
	switch k {
	case Lexical:
		return "LexicalError"
	case Syntax:
		return "SyntaxError"
	case Name:
		return "NameError"
	case Type:
		return "TypeError"
	case Value:
		return "ValueError"
	case User:
		return "UserError"
	default:
		return "Error"
	}
}

// Position locates an error in the original expression-body text.
type Position struct {
	Line   int
	Column int
}

// Error is an HPL runtime error: a Kind, a human-readable message, an
// optional Position, and (via errors.WithStack) a captured call stack for
// the debug entry point.
type Error struct {
	Kind    Kind
	Msg     string
	Pos     Position
	cause   error
}

func (e *Error) Error() string {
	if e.Pos.Line > 0 {
		return fmt.Sprintf("%s: %s at %d:%d", e.Kind, e.Msg, e.Pos.Line, e.Pos.Column)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.cause }

// New builds a positioned Error of the given kind, stack-captured at the
// call site.
func New(kind Kind, pos Position, format string, args ...any) error {
	e := &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Pos: pos}
	return errors.WithStack(e)
}

// Wrap attaches kind/position context to an underlying error (e.g. a
// lexer.Error surfacing as a Lexical herrors.Error) without discarding its
// stack trace.
func Wrap(kind Kind, pos Position, cause error, msg string) error {
	e := &Error{Kind: kind, Msg: msg, Pos: pos, cause: cause}
	return errors.WithStack(e)
}

// AsError unwraps err (following errors.WithStack/WithMessage wrapping)
// down to the underlying *Error, if any.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf reports the taxonomy kind of err, or 0 if err is not (or does
// not wrap) an *Error.
func KindOf(err error) Kind {
	if e, ok := AsError(err); ok {
		return e.Kind
	}
	return 0
}

// StackTrace renders the stack captured at the point New/Wrap was called,
// for the debug entry point's error report (spec §7 Debug reporting).
func StackTrace(err error) string {
	type stackTracer interface {
		StackTrace() errors.StackTrace
	}
	var st stackTracer
	for e := err; e != nil; e = errors.Unwrap(e) {
		if s, ok := e.(stackTracer); ok {
			st = s
			break
		}
	}
	if st == nil {
		return ""
	}
	return fmt.Sprintf("%+v", st.StackTrace())
}
