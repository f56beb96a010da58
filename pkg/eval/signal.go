package eval

import "github.com/hpl-lang/hpl/pkg/core/value"

// signal is a control-flow completion (return/break/continue) propagated
// as an error so every evaluator entry point can use Go's ordinary error
// return, but distinguishable from a real herrors.Error so a `try` block
// never catches one (spec §7 Propagation policy, §9 "Control flow encoded
// as exceptions"). This is the "throwable sentinel value" option §9
// offers as an alternative to an explicit (Completion, Value) pair.
type signal struct {
	kind  signalKind
	value value.Value
}

type signalKind uint8

const (
	sigReturn signalKind = iota + 1
	sigBreak
	sigContinue
)

func (s *signal) Error() string {
	switch s.kind {
	case sigReturn:
		return "return"
	case sigBreak:
		return "break"
	case sigContinue:
		return "continue"
	default:
		return "signal"
	}
}

func asSignal(err error) (*signal, bool) {
	s, ok := err.(*signal)
	return s, ok
}

// userException is the internal carrier for a `throw`-equivalent failure
// (spec §7 kind 6: "carries a message value"). It is kept distinct from
// *herrors.Error because a caught herrors.Error of kind User must bind the
// thrown value's display string, not a Go error string, to the catch
// variable.
type userException struct {
	value value.Value
}

func (u *userException) Error() string { return u.value.Display() }
