package eval

import (
	"strconv"

	"github.com/hpl-lang/hpl/pkg/ast"
	"github.com/hpl-lang/hpl/pkg/core/value"
	"github.com/hpl-lang/hpl/pkg/herrors"
	"github.com/hpl-lang/hpl/pkg/module"
	"github.com/hpl-lang/hpl/pkg/object"
)

func (e *Evaluator) evalExpr(expr ast.Expr, scope *Scope) (value.Value, error) {
	switch n := expr.(type) {
	case *ast.IntLit:
		return value.NewInt(n.Value), nil
	case *ast.FloatLit:
		return value.NewFloat(n.Value), nil
	case *ast.StringLit:
		return value.NewString(n.Value), nil
	case *ast.BoolLit:
		return value.NewBool(n.Value), nil
	case *ast.NullLit:
		return value.NullValue, nil
	case *ast.Ident:
		v, ok := scope.Get(n.Name)
		if !ok {
			return value.NullValue, herrors.Wrap(herrors.Name, pos(n), herrors.ErrUndefinedVariable,
				"undefined variable "+n.Name)
		}
		return v, nil
	case *ast.ArrayLit:
		elems := make([]value.Value, len(n.Elems))
		for i, el := range n.Elems {
			v, err := e.evalExpr(el, scope)
			if err != nil {
				return value.NullValue, err
			}
			elems[i] = v
		}
		return value.NewArray(elems), nil
	case *ast.DictLit:
		d := value.NewDict()
		dv := d.Opaque.(*value.DictVal)
		for i, key := range n.Keys {
			v, err := e.evalExpr(n.Values[i], scope)
			if err != nil {
				return value.NullValue, err
			}
			dv.Set(key, v)
		}
		return d, nil
	case *ast.UnaryExpr:
		return e.evalUnary(n, scope)
	case *ast.BinaryExpr:
		return e.evalBinary(n, scope)
	case *ast.PostIncrement:
		return e.evalPostIncrement(n, scope)
	case *ast.IndexExpr:
		return e.evalIndex(n, scope)
	case *ast.PropertyExpr:
		return e.evalProperty(n, scope)
	case *ast.CallExpr:
		return e.evalCall(n, scope)
	case *ast.MethodCallExpr:
		return e.evalMethodCall(n, scope)
	default:
		return value.NullValue, herrors.New(herrors.Syntax, pos(expr), "unhandled expression type %T", expr)
	}
}

func (e *Evaluator) evalUnary(n *ast.UnaryExpr, scope *Scope) (value.Value, error) {
	v, err := e.evalExpr(n.Right, scope)
	if err != nil {
		return value.NullValue, err
	}
	if n.Op != "!" {
		return value.NullValue, herrors.New(herrors.Syntax, pos(n), "unsupported unary operator %q", n.Op)
	}
	if v.Kind != value.Bool {
		return value.NullValue, herrors.New(herrors.Type, pos(n), "'!' requires a boolean operand, got %s", v.Kind)
	}
	return value.NewBool(!v.BoolV), nil
}

// evalBinary implements §4.4 expression evaluation: numeric arithmetic
// with int/float promotion, "+"'s string-concatenation overload,
// numeric-or-string comparisons, and short-circuiting && / ||.
func (e *Evaluator) evalBinary(n *ast.BinaryExpr, scope *Scope) (value.Value, error) {
	if n.Op == "&&" || n.Op == "||" {
		return e.evalLogical(n, scope)
	}

	left, err := e.evalExpr(n.Left, scope)
	if err != nil {
		return value.NullValue, err
	}
	right, err := e.evalExpr(n.Right, scope)
	if err != nil {
		return value.NullValue, err
	}

	switch n.Op {
	case "+":
		return e.evalPlus(left, right, n)
	case "-", "*", "/", "%":
		return evalArith(n.Op, left, right, n)
	case "==", "!=", "<", "<=", ">", ">=":
		return evalCompare(n.Op, left, right, n)
	default:
		return value.NullValue, herrors.New(herrors.Syntax, pos(n), "unsupported binary operator %q", n.Op)
	}
}

func (e *Evaluator) evalLogical(n *ast.BinaryExpr, scope *Scope) (value.Value, error) {
	left, err := e.evalExpr(n.Left, scope)
	if err != nil {
		return value.NullValue, err
	}
	if left.Kind != value.Bool {
		return value.NullValue, herrors.New(herrors.Type, pos(n), "%q requires boolean operands, got %s", n.Op, left.Kind)
	}
	if n.Op == "&&" && !left.BoolV {
		return value.NewBool(false), nil
	}
	if n.Op == "||" && left.BoolV {
		return value.NewBool(true), nil
	}
	right, err := e.evalExpr(n.Right, scope)
	if err != nil {
		return value.NullValue, err
	}
	if right.Kind != value.Bool {
		return value.NullValue, herrors.New(herrors.Type, pos(n), "%q requires boolean operands, got %s", n.Op, right.Kind)
	}
	return value.NewBool(right.BoolV), nil
}

// evalPlus implements invariant 6: number+number is numeric, anything
// else is string concatenation of each side's display string. Null paired
// with a number is a Type error.
func (e *Evaluator) evalPlus(left, right value.Value, n *ast.BinaryExpr) (value.Value, error) {
	if left.IsNumeric() && right.IsNumeric() {
		return arithResult(left, right, func(a, b int64) int64 { return a + b }, func(a, b float64) float64 { return a + b }), nil
	}
	if (left.Kind == value.Null && right.IsNumeric()) || (right.Kind == value.Null && left.IsNumeric()) {
		return value.NullValue, herrors.New(herrors.Type, pos(n), "null is not valid as an arithmetic operand")
	}
	return value.NewString(left.Display() + right.Display()), nil
}

func evalArith(op string, left, right value.Value, n *ast.BinaryExpr) (value.Value, error) {
	if left.Kind == value.Null || right.Kind == value.Null {
		return value.NullValue, herrors.New(herrors.Type, pos(n), "null is not valid as an arithmetic operand")
	}
	if !left.IsNumeric() || !right.IsNumeric() {
		return value.NullValue, herrors.New(herrors.Type, pos(n), "%q requires numeric operands, got %s and %s", op, left.Kind, right.Kind)
	}
	switch op {
	case "-":
		return arithResult(left, right, func(a, b int64) int64 { return a - b }, func(a, b float64) float64 { return a - b }), nil
	case "*":
		return arithResult(left, right, func(a, b int64) int64 { return a * b }, func(a, b float64) float64 { return a * b }), nil
	case "/":
		if isZero(right) {
			return value.NullValue, herrors.Wrap(herrors.Value, pos(n), herrors.ErrDivisionByZero, "Division by zero")
		}
		if left.Kind == value.Int && right.Kind == value.Int {
			return value.NewInt(truncDiv(left.IntV, right.IntV)), nil
		}
		return value.NewFloat(left.AsFloat() / right.AsFloat()), nil
	case "%":
		if isZero(right) {
			return value.NullValue, herrors.Wrap(herrors.Value, pos(n), herrors.ErrModuloByZero, "Modulo by zero")
		}
		if left.Kind == value.Int && right.Kind == value.Int {
			return value.NewInt(truncMod(left.IntV, right.IntV)), nil
		}
		return value.NewFloat(float64(int64(left.AsFloat()) % int64(right.AsFloat()))), nil
	}
	return value.NullValue, herrors.New(herrors.Syntax, pos(n), "unsupported arithmetic operator %q", op)
}

// truncDiv/truncMod implement testable property 5 ("a/b truncates toward
// zero"); Go's native / and % on int64 already truncate toward zero, so
// these exist to name that guarantee at the call site rather than to
// change behavior.
func truncDiv(a, b int64) int64 { return a / b }
func truncMod(a, b int64) int64 { return a % b }

func isZero(v value.Value) bool {
	if v.Kind == value.Int {
		return v.IntV == 0
	}
	return v.FloatV == 0
}

// arithResult promotes to float if either operand is float (invariant 5).
func arithResult(left, right value.Value, intOp func(int64, int64) int64, floatOp func(float64, float64) float64) value.Value {
	if left.Kind == value.Int && right.Kind == value.Int {
		return value.NewInt(intOp(left.IntV, right.IntV))
	}
	return value.NewFloat(floatOp(left.AsFloat(), right.AsFloat()))
}

func evalCompare(op string, left, right value.Value, n *ast.BinaryExpr) (value.Value, error) {
	if op == "==" || op == "!=" {
		eq := valuesEqual(left, right)
		if op == "!=" {
			eq = !eq
		}
		return value.NewBool(eq), nil
	}

	switch {
	case left.IsNumeric() && right.IsNumeric():
		a, b := left.AsFloat(), right.AsFloat()
		return value.NewBool(numericCompare(op, a, b)), nil
	case left.Kind == value.String && right.Kind == value.String:
		return value.NewBool(stringCompare(op, left.StrV, right.StrV)), nil
	default:
		return value.NullValue, herrors.New(herrors.Type, pos(n), "%q requires two numbers or two strings, got %s and %s", op, left.Kind, right.Kind)
	}
}

func numericCompare(op string, a, b float64) bool {
	switch op {
	case "<":
		return a < b
	case "<=":
		return a <= b
	case ">":
		return a > b
	case ">=":
		return a >= b
	}
	return false
}

func stringCompare(op string, a, b string) bool {
	switch op {
	case "<":
		return a < b
	case "<=":
		return a <= b
	case ">":
		return a > b
	case ">=":
		return a >= b
	}
	return false
}

func valuesEqual(a, b value.Value) bool {
	if a.IsNumeric() && b.IsNumeric() {
		return a.AsFloat() == b.AsFloat()
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case value.Null:
		return true
	case value.String:
		return a.StrV == b.StrV
	case value.Bool:
		return a.BoolV == b.BoolV
	default:
		return a.Opaque == b.Opaque
	}
}

func (e *Evaluator) evalPostIncrement(n *ast.PostIncrement, scope *Scope) (value.Value, error) {
	ident, ok := n.Target.(*ast.Ident)
	if !ok {
		return value.NullValue, herrors.New(herrors.Syntax, pos(n), "'++' target must be a plain variable")
	}
	v, ok := scope.Get(ident.Name)
	if !ok {
		return value.NullValue, herrors.Wrap(herrors.Name, pos(n), herrors.ErrUndefinedVariable, "undefined variable "+ident.Name)
	}
	if v.Kind != value.Int {
		return value.NullValue, herrors.New(herrors.Type, pos(n), "'++' requires an integer variable, got %s", v.Kind)
	}
	scope.Set(ident.Name, value.NewInt(v.IntV+1))
	return v, nil
}

func (e *Evaluator) evalIndex(n *ast.IndexExpr, scope *Scope) (value.Value, error) {
	recv, err := e.evalExpr(n.Receiver, scope)
	if err != nil {
		return value.NullValue, err
	}
	idx, err := e.evalExpr(n.Index, scope)
	if err != nil {
		return value.NullValue, err
	}
	switch recv.Kind {
	case value.Array:
		arr := recv.Opaque.(*value.ArrayVal)
		if idx.Kind != value.Int {
			return value.NullValue, herrors.New(herrors.Type, pos(n), "array index must be an integer")
		}
		if idx.IntV < 0 || idx.IntV >= int64(len(arr.Elems)) {
			return value.NullValue, herrors.Wrap(herrors.Value, pos(n), herrors.ErrIndexOutOfRange, "array index out of range")
		}
		return arr.Elems[idx.IntV], nil
	case value.Dict:
		d := recv.Opaque.(*value.DictVal)
		key, err := dictKey(idx, n)
		if err != nil {
			return value.NullValue, err
		}
		v, ok := d.Get(key)
		if !ok {
			return value.NullValue, herrors.Wrap(herrors.Name, pos(n), herrors.ErrUnknownAttribute,
				"dictionary has no key "+strconv.Quote(key))
		}
		return v, nil
	case value.String:
		if idx.Kind != value.Int {
			return value.NullValue, herrors.New(herrors.Type, pos(n), "string index must be an integer")
		}
		runes := []rune(recv.StrV)
		if idx.IntV < 0 || idx.IntV >= int64(len(runes)) {
			return value.NullValue, herrors.Wrap(herrors.Value, pos(n), herrors.ErrIndexOutOfRange, "string index out of range")
		}
		return value.NewString(string(runes[idx.IntV])), nil
	default:
		return value.NullValue, herrors.New(herrors.Type, pos(n), "cannot index a %s value", recv.Kind)
	}
}

func dictKey(idx value.Value, node ast.Node) (string, error) {
	if idx.Kind != value.String {
		return "", herrors.New(herrors.Type, pos(node), "dictionary key must be a string, got %s", idx.Kind)
	}
	return idx.StrV, nil
}

// evalProperty implements §4.4: object attribute read, module constant or
// bound-function lookup, or recursion into a nested object attribute, to
// arbitrary depth (property chains, scenario S7).
func (e *Evaluator) evalProperty(n *ast.PropertyExpr, scope *Scope) (value.Value, error) {
	recv, err := e.evalExpr(n.Receiver, scope)
	if err != nil {
		return value.NullValue, err
	}
	return e.readProperty(recv, n.Name, n)
}

func (e *Evaluator) readProperty(recv value.Value, name string, node ast.Node) (value.Value, error) {
	switch recv.Kind {
	case value.Object:
		obj := recv.Opaque.(*object.Object)
		v, ok := obj.Get(name)
		if !ok {
			return value.NullValue, herrors.Wrap(herrors.Name, pos(node), herrors.ErrUnknownAttribute,
				"object has no attribute "+strconv.Quote(name))
		}
		return v, nil
	case value.Module:
		mod := recv.Opaque.(*module.Module)
		v, ok := mod.Resolve(name)
		if !ok {
			return value.NullValue, herrors.Wrap(herrors.Name, pos(node), herrors.ErrUnknownAttribute,
				"module "+mod.Name+" has no member "+strconv.Quote(name))
		}
		return v, nil
	default:
		return value.NullValue, herrors.New(herrors.Type, pos(node), "cannot access property %q on a %s value", name, recv.Kind)
	}
}

// evalCall implements the bare function-call form: look up name in
// top-level functions or in the built-in set, run it with positional args.
func (e *Evaluator) evalCall(n *ast.CallExpr, scope *Scope) (value.Value, error) {
	args := make([]value.Value, len(n.Args))
	for i, a := range n.Args {
		v, err := e.evalExpr(a, scope)
		if err != nil {
			return value.NullValue, err
		}
		args[i] = v
	}

	if v, handled, err := e.callBuiltin(n.Name, args, n); handled {
		return v, err
	}

	fn, ok := e.TopLevel[n.Name]
	if !ok {
		return value.NullValue, herrors.Wrap(herrors.Name, pos(n), herrors.ErrUndefinedVariable,
			"call to undefined function "+n.Name)
	}
	return e.CallFunction(fn, args)
}

// evalMethodCall implements receiver.m(args) for an object receiver, and
// falls through to calling a module's bound function when the receiver is
// a module (spec §4.5 "M.x(args)").
func (e *Evaluator) evalMethodCall(n *ast.MethodCallExpr, scope *Scope) (value.Value, error) {
	recv, err := e.evalExpr(n.Receiver, scope)
	if err != nil {
		return value.NullValue, err
	}
	args := make([]value.Value, len(n.Args))
	for i, a := range n.Args {
		v, err := e.evalExpr(a, scope)
		if err != nil {
			return value.NullValue, err
		}
		args[i] = v
	}

	switch recv.Kind {
	case value.Object:
		return e.dispatchMethod(recv.Opaque.(*object.Object), n.Name, args)
	case value.Module:
		bound, err := e.readProperty(recv, n.Name, n)
		if err != nil {
			return value.NullValue, err
		}
		bf, ok := bound.Opaque.(*module.BoundModuleFunc)
		if !ok {
			return value.NullValue, herrors.New(herrors.Type, pos(n), "%q is not callable on module %s", n.Name, recv.Opaque)
		}
		return bf.Entry.Call(e, args)
	default:
		return value.NullValue, herrors.New(herrors.Type, pos(n), "cannot call method %q on a %s value", n.Name, recv.Kind)
	}
}
