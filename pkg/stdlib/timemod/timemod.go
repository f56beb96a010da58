// Package timemod is the built-in "time" module: now and sleep, wrapping
// Go's time package.
package timemod

import (
	"time"

	"github.com/hpl-lang/hpl/pkg/core/value"
	"github.com/hpl-lang/hpl/pkg/herrors"
	"github.com/hpl-lang/hpl/pkg/module"
)

// New builds the time module descriptor.
func New() *module.Module {
	m := module.New("time", "now (unix seconds) and sleep")
	m.RegisterFunc(&module.FunctionEntry{Name: "now", Arity: 0, Doc: "now() -> int (unix seconds)", Host: nowFunc})
	m.RegisterFunc(&module.FunctionEntry{Name: "sleep", Arity: 1, Doc: "sleep(seconds) -> null", Host: sleepFunc})
	return m
}

func nowFunc(args []value.Value) (value.Value, error) {
	return value.NewInt(time.Now().Unix()), nil
}

func sleepFunc(args []value.Value) (value.Value, error) {
	if len(args) != 1 || !args[0].IsNumeric() {
		return value.NullValue, herrors.New(herrors.Type, herrors.Position{}, "time.sleep() requires one numeric argument")
	}
	if args[0].AsFloat() < 0 {
		return value.NullValue, herrors.New(herrors.Value, herrors.Position{}, "time.sleep() requires a non-negative duration")
	}
	time.Sleep(time.Duration(args[0].AsFloat() * float64(time.Second)))
	return value.NullValue, nil
}
