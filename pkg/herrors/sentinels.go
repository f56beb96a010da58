package herrors

import "github.com/pkg/errors"

// Internal sentinel errors, declared the way the teacher's pkg/vm/machine.go
// declares ErrStackOverflow/ErrStackUnderflow/ErrGasExhausted: a single
// var(...) block of errors.New values, tested with errors.Is at call sites.
var (
	ErrCallDepthExceeded = errors.New("call stack depth exceeded")
	ErrDivisionByZero    = errors.New("division by zero")
	ErrModuloByZero      = errors.New("modulo by zero")
	ErrIndexOutOfRange   = errors.New("index out of range")
	ErrUndefinedVariable = errors.New("undefined variable")
	ErrMethodNotFound    = errors.New("method not found")
	ErrUnknownAttribute  = errors.New("unknown attribute")
)
