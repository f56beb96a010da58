package eval

import (
	"strconv"

	"github.com/hpl-lang/hpl/pkg/ast"
	"github.com/hpl-lang/hpl/pkg/core/value"
	"github.com/hpl-lang/hpl/pkg/herrors"
)

// callBuiltin implements the prefix-free built-ins of §4.4: len, int, str,
// type, abs, max, min, input. handled is false when name is not one of
// these, so the caller falls through to top-level function lookup.
func (e *Evaluator) callBuiltin(name string, args []value.Value, n *ast.CallExpr) (value.Value, bool, error) {
	switch name {
	case "len":
		v, err := builtinLen(args, n)
		return v, true, err
	case "int":
		v, err := builtinInt(args, n)
		return v, true, err
	case "str":
		v, err := builtinStr(args, n)
		return v, true, err
	case "type":
		v, err := builtinType(args, n)
		return v, true, err
	case "abs":
		v, err := builtinAbs(args, n)
		return v, true, err
	case "max":
		v, err := builtinMax(args, n)
		return v, true, err
	case "min":
		v, err := builtinMin(args, n)
		return v, true, err
	case "input":
		v, err := e.builtinInput(args, n)
		return v, true, err
	default:
		return value.NullValue, false, nil
	}
}

func builtinLen(args []value.Value, n *ast.CallExpr) (value.Value, error) {
	if len(args) != 1 {
		return value.NullValue, herrors.New(herrors.Value, pos(n), "len() takes exactly 1 argument, got %d", len(args))
	}
	switch args[0].Kind {
	case value.String:
		return value.NewInt(int64(len([]rune(args[0].StrV)))), nil
	case value.Array:
		return value.NewInt(int64(len(args[0].Opaque.(*value.ArrayVal).Elems))), nil
	case value.Dict:
		return value.NewInt(int64(len(args[0].Opaque.(*value.DictVal).Keys))), nil
	default:
		return value.NullValue, herrors.New(herrors.Type, pos(n), "len() requires a string, array, or dict, got %s", args[0].Kind)
	}
}

func builtinInt(args []value.Value, n *ast.CallExpr) (value.Value, error) {
	if len(args) != 1 {
		return value.NullValue, herrors.New(herrors.Value, pos(n), "int() takes exactly 1 argument, got %d", len(args))
	}
	switch v := args[0]; v.Kind {
	case value.Int:
		return v, nil
	case value.Float:
		return value.NewInt(int64(v.FloatV)), nil
	case value.Bool:
		if v.BoolV {
			return value.NewInt(1), nil
		}
		return value.NewInt(0), nil
	case value.String:
		i, err := strconv.ParseInt(v.StrV, 10, 64)
		if err != nil {
			return value.NullValue, herrors.New(herrors.Value, pos(n), "int() could not parse %q", v.StrV)
		}
		return value.NewInt(i), nil
	default:
		return value.NullValue, herrors.New(herrors.Type, pos(n), "int() cannot convert a %s value", v.Kind)
	}
}

func builtinStr(args []value.Value, n *ast.CallExpr) (value.Value, error) {
	if len(args) != 1 {
		return value.NullValue, herrors.New(herrors.Value, pos(n), "str() takes exactly 1 argument, got %d", len(args))
	}
	return value.NewString(args[0].Display()), nil
}

func builtinType(args []value.Value, n *ast.CallExpr) (value.Value, error) {
	if len(args) != 1 {
		return value.NullValue, herrors.New(herrors.Value, pos(n), "type() takes exactly 1 argument, got %d", len(args))
	}
	return value.NewString(args[0].Kind.String()), nil
}

func builtinAbs(args []value.Value, n *ast.CallExpr) (value.Value, error) {
	if len(args) != 1 || !args[0].IsNumeric() {
		return value.NullValue, herrors.New(herrors.Type, pos(n), "abs() takes exactly 1 numeric argument")
	}
	v := args[0]
	if v.Kind == value.Int {
		if v.IntV < 0 {
			return value.NewInt(-v.IntV), nil
		}
		return v, nil
	}
	if v.FloatV < 0 {
		return value.NewFloat(-v.FloatV), nil
	}
	return v, nil
}

func builtinMax(args []value.Value, n *ast.CallExpr) (value.Value, error) {
	return numericFold(args, n, "max", func(a, b float64) bool { return b > a })
}

func builtinMin(args []value.Value, n *ast.CallExpr) (value.Value, error) {
	return numericFold(args, n, "min", func(a, b float64) bool { return b < a })
}

func numericFold(args []value.Value, n *ast.CallExpr, name string, replace func(cur, cand float64) bool) (value.Value, error) {
	if len(args) == 0 {
		return value.NullValue, herrors.New(herrors.Value, pos(n), "%s() requires at least 1 argument", name)
	}
	best := args[0]
	if !best.IsNumeric() {
		return value.NullValue, herrors.New(herrors.Type, pos(n), "%s() requires numeric arguments, got %s", name, best.Kind)
	}
	for _, v := range args[1:] {
		if !v.IsNumeric() {
			return value.NullValue, herrors.New(herrors.Type, pos(n), "%s() requires numeric arguments, got %s", name, v.Kind)
		}
		if replace(best.AsFloat(), v.AsFloat()) {
			best = v
		}
	}
	return best, nil
}

func (e *Evaluator) builtinInput(args []value.Value, n *ast.CallExpr) (value.Value, error) {
	prompt := ""
	if len(args) == 1 {
		if args[0].Kind != value.String {
			return value.NullValue, herrors.New(herrors.Type, pos(n), "input() prompt must be a string")
		}
		prompt = args[0].StrV
	} else if len(args) > 1 {
		return value.NullValue, herrors.New(herrors.Value, pos(n), "input() takes at most 1 argument, got %d", len(args))
	}
	line, err := e.ReadInput(prompt)
	if err != nil {
		return value.NullValue, err
	}
	return value.NewString(line), nil
}
