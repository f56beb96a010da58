// Package mathmod is the built-in "math" module (module-resolution layer
// 1): floor/ceil/sqrt/pow and the constants pi/e, wrapping Go's math
// package the way the teacher's pkg/stdlib wraps Go's standard library for
// its own VM syscalls.
package mathmod

import (
	"math"

	"github.com/hpl-lang/hpl/pkg/core/value"
	"github.com/hpl-lang/hpl/pkg/herrors"
	"github.com/hpl-lang/hpl/pkg/module"
)

// New builds the math module descriptor.
func New() *module.Module {
	m := module.New("math", "floor, ceil, sqrt, pow, abs, and the pi/e constants")

	m.RegisterConst("pi", value.NewFloat(math.Pi))
	m.RegisterConst("e", value.NewFloat(math.E))

	m.RegisterFunc(&module.FunctionEntry{Name: "floor", Arity: 1, Doc: "floor(x) -> int", Host: unaryFloat(math.Floor, true)})
	m.RegisterFunc(&module.FunctionEntry{Name: "ceil", Arity: 1, Doc: "ceil(x) -> int", Host: unaryFloat(math.Ceil, true)})
	m.RegisterFunc(&module.FunctionEntry{Name: "sqrt", Arity: 1, Doc: "sqrt(x) -> float", Host: sqrtFunc})
	m.RegisterFunc(&module.FunctionEntry{Name: "pow", Arity: 2, Doc: "pow(base, exp) -> float", Host: powFunc})
	m.RegisterFunc(&module.FunctionEntry{Name: "abs", Arity: 1, Doc: "abs(x) -> same kind as x", Host: absFunc})

	return m
}

func requireNumeric(args []value.Value, fname string) (float64, error) {
	if len(args) != 1 || !args[0].IsNumeric() {
		return 0, herrors.New(herrors.Type, herrors.Position{}, "math.%s() requires one numeric argument", fname)
	}
	return args[0].AsFloat(), nil
}

func unaryFloat(fn func(float64) float64, toInt bool) module.HostFunc {
	return func(args []value.Value) (value.Value, error) {
		f, err := requireNumeric(args, "")
		if err != nil {
			return value.NullValue, err
		}
		result := fn(f)
		if toInt {
			return value.NewInt(int64(result)), nil
		}
		return value.NewFloat(result), nil
	}
}

func sqrtFunc(args []value.Value) (value.Value, error) {
	f, err := requireNumeric(args, "sqrt")
	if err != nil {
		return value.NullValue, err
	}
	if f < 0 {
		return value.NullValue, herrors.New(herrors.Value, herrors.Position{}, "math.sqrt() of a negative number")
	}
	return value.NewFloat(math.Sqrt(f)), nil
}

func powFunc(args []value.Value) (value.Value, error) {
	if len(args) != 2 || !args[0].IsNumeric() || !args[1].IsNumeric() {
		return value.NullValue, herrors.New(herrors.Type, herrors.Position{}, "math.pow() requires two numeric arguments")
	}
	return value.NewFloat(math.Pow(args[0].AsFloat(), args[1].AsFloat())), nil
}

func absFunc(args []value.Value) (value.Value, error) {
	if len(args) != 1 || !args[0].IsNumeric() {
		return value.NullValue, herrors.New(herrors.Type, herrors.Position{}, "math.abs() requires one numeric argument")
	}
	v := args[0]
	if v.Kind == value.Int {
		if v.IntV < 0 {
			return value.NewInt(-v.IntV), nil
		}
		return v, nil
	}
	return value.NewFloat(math.Abs(v.FloatV)), nil
}
