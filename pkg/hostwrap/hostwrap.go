// Package hostwrap implements the host-ecosystem wrap named in the module
// resolver's layers 2 and 4 (§4.5): it lets an HPL program import a host
// Python source file, or a package registered ahead of time, and call its
// top-level functions as if they were ordinary HPL module functions.
//
// Host sources are parsed with gpython's own tokenizer/parser (the same
// one the host toolchain would use to compile them), and their bodies are
// walked directly against HPL's value.Value representation rather than
// run through a separate Python object model — there is exactly one value
// representation in this runtime, and host functions produce and consume
// it like anything else.
//
// The interpreted subset covers straight-line and control-flow code:
// literals, arithmetic, comparisons, boolean short-circuit, list/dict
// construction and indexing, if/while/for, and calls between the host
// file's own top-level functions. Only top-level function definitions are
// registered: other top-level statements (classes, assignments, imports)
// are skipped and decorators are ignored. A class, comprehension or other
// construct outside the subset inside a function body reports an
// unsupported-construct error when that function runs.
package hostwrap

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/go-python/gpython/ast"
	gpy "github.com/go-python/gpython/parser"
	"github.com/go-python/gpython/py"

	"github.com/hpl-lang/hpl/pkg/core/value"
	"github.com/hpl-lang/hpl/pkg/module"
)

// Wrapper owns the registered host-package sources (layer 2) and the
// output stream host code's print() writes to.
type Wrapper struct {
	Out      io.Writer
	packages map[string]string
}

func NewWrapper(out io.Writer) *Wrapper {
	return &Wrapper{Out: out, packages: make(map[string]string)}
}

// RegisterPackageSource makes a host package importable by name (layer 2)
// without requiring it to sit on HPL_MODULE_PATHS.
func (w *Wrapper) RegisterPackageSource(name, source string) {
	w.packages[name] = source
}

// LoadHostPackage implements module.Resolver's layer-2 callback.
func (w *Wrapper) LoadHostPackage(name string) (*module.Module, error) {
	src, ok := w.packages[name]
	if !ok {
		return nil, nil
	}
	return w.wrapSource(name, src)
}

// LoadHostFile implements module.Resolver's layer-4 callback.
func (w *Wrapper) LoadHostFile(path string) (*module.Module, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSuffix(path, module.HostFileExt)
	return w.wrapSource(name, string(raw))
}

func (w *Wrapper) wrapSource(name, src string) (*module.Module, error) {
	parsed, err := gpy.Parse(strings.NewReader(src), name, py.ExecMode)
	if err != nil {
		return nil, fmt.Errorf("parsing host module %q: %w", name, err)
	}
	mod, ok := parsed.(*ast.Module)
	if !ok {
		return nil, fmt.Errorf("host module %q: expected a module body", name)
	}

	ip := &interpreter{out: w.Out, funcs: make(map[string]*ast.FunctionDef)}
	for _, stmt := range mod.Body {
		if fn, ok := stmt.(*ast.FunctionDef); ok {
			ip.funcs[string(fn.Name)] = fn
		}
	}

	out := module.New(name, fmt.Sprintf("host module wrapped from %s", name))
	for fnName, fn := range ip.funcs {
		fn := fn
		out.RegisterFunc(&module.FunctionEntry{
			Name:  fnName,
			Arity: len(fn.Args.Args),
			Host: func(args []value.Value) (value.Value, error) {
				return ip.call(fn, args)
			},
		})
	}
	return out, nil
}

// ctrl is the control-flow outcome of executing a block of host statements.
type ctrl int

const (
	ctrlNone ctrl = iota
	ctrlReturn
	ctrlBreak
	ctrlContinue
)

type interpreter struct {
	out   io.Writer
	funcs map[string]*ast.FunctionDef
}

func (ip *interpreter) call(fn *ast.FunctionDef, args []value.Value) (value.Value, error) {
	if len(args) != len(fn.Args.Args) {
		return value.NullValue, fmt.Errorf("%s() takes %d argument(s), got %d", fn.Name, len(fn.Args.Args), len(args))
	}
	scope := make(map[string]value.Value, len(args))
	for i, a := range fn.Args.Args {
		scope[string(a.Arg)] = args[i]
	}
	c, ret, err := ip.execBody(fn.Body, scope)
	if err != nil {
		return value.NullValue, err
	}
	if c == ctrlReturn {
		return ret, nil
	}
	return value.NullValue, nil
}

func (ip *interpreter) execBody(stmts []ast.Stmt, scope map[string]value.Value) (ctrl, value.Value, error) {
	for _, stmt := range stmts {
		c, ret, err := ip.execStmt(stmt, scope)
		if err != nil {
			return ctrlNone, value.NullValue, err
		}
		if c != ctrlNone {
			return c, ret, nil
		}
	}
	return ctrlNone, value.NullValue, nil
}

func (ip *interpreter) execStmt(stmt ast.Stmt, scope map[string]value.Value) (ctrl, value.Value, error) {
	switch s := stmt.(type) {
	case *ast.ExprStmt:
		_, err := ip.evalExpr(s.Value, scope)
		return ctrlNone, value.NullValue, err
	case *ast.Assign:
		v, err := ip.evalExpr(s.Value, scope)
		if err != nil {
			return ctrlNone, value.NullValue, err
		}
		for _, target := range s.Targets {
			name, ok := target.(*ast.Name)
			if !ok {
				return ctrlNone, value.NullValue, fmt.Errorf("unsupported assignment target %T", target)
			}
			scope[string(name.Id)] = v
		}
		return ctrlNone, value.NullValue, nil
	case *ast.Return:
		if s.Value == nil {
			return ctrlReturn, value.NullValue, nil
		}
		v, err := ip.evalExpr(s.Value, scope)
		return ctrlReturn, v, err
	case *ast.If:
		cond, err := ip.evalExpr(s.Test, scope)
		if err != nil {
			return ctrlNone, value.NullValue, err
		}
		if truthy(cond) {
			return ip.execBody(s.Body, scope)
		}
		return ip.execBody(s.Orelse, scope)
	case *ast.While:
		for {
			cond, err := ip.evalExpr(s.Test, scope)
			if err != nil {
				return ctrlNone, value.NullValue, err
			}
			if !truthy(cond) {
				return ctrlNone, value.NullValue, nil
			}
			c, ret, err := ip.execBody(s.Body, scope)
			if err != nil {
				return ctrlNone, value.NullValue, err
			}
			if c == ctrlBreak {
				return ctrlNone, value.NullValue, nil
			}
			if c == ctrlReturn {
				return c, ret, nil
			}
		}
	case *ast.For:
		iter, err := ip.evalExpr(s.Iter, scope)
		if err != nil {
			return ctrlNone, value.NullValue, err
		}
		name, ok := s.Target.(*ast.Name)
		if !ok {
			return ctrlNone, value.NullValue, fmt.Errorf("unsupported for-loop target %T", s.Target)
		}
		items, err := iterate(iter)
		if err != nil {
			return ctrlNone, value.NullValue, err
		}
		for _, item := range items {
			scope[string(name.Id)] = item
			c, ret, err := ip.execBody(s.Body, scope)
			if err != nil {
				return ctrlNone, value.NullValue, err
			}
			if c == ctrlBreak {
				break
			}
			if c == ctrlReturn {
				return c, ret, nil
			}
		}
		return ctrlNone, value.NullValue, nil
	case *ast.Break:
		return ctrlBreak, value.NullValue, nil
	case *ast.Continue:
		return ctrlContinue, value.NullValue, nil
	default:
		return ctrlNone, value.NullValue, fmt.Errorf("unsupported host statement type %T", stmt)
	}
}

func (ip *interpreter) evalExpr(expr ast.Expr, scope map[string]value.Value) (value.Value, error) {
	switch e := expr.(type) {
	case *ast.Num:
		s := fmt.Sprintf("%v", e.N)
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return value.NewInt(i), nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return value.NullValue, fmt.Errorf("invalid numeric literal %q", s)
		}
		return value.NewFloat(f), nil
	case *ast.Str:
		return value.NewString(string(e.S)), nil
	case *ast.NameConstant:
		switch e.Value {
		case py.True:
			return value.NewBool(true), nil
		case py.False:
			return value.NewBool(false), nil
		default:
			return value.NullValue, nil
		}
	case *ast.Name:
		v, ok := scope[string(e.Id)]
		if !ok {
			return value.NullValue, fmt.Errorf("name %q is not defined", e.Id)
		}
		return v, nil
	case *ast.UnaryOp:
		v, err := ip.evalExpr(e.Operand, scope)
		if err != nil {
			return value.NullValue, err
		}
		return numericBinary(value.NewInt(0), v, func(a, b int64) int64 { return a - b }, func(a, b float64) float64 { return a - b })
	case *ast.BinOp:
		l, err := ip.evalExpr(e.Left, scope)
		if err != nil {
			return value.NullValue, err
		}
		r, err := ip.evalExpr(e.Right, scope)
		if err != nil {
			return value.NullValue, err
		}
		return ip.evalBinOp(e, l, r)
	case *ast.BoolOp:
		result := value.NewBool(e.Op == ast.And)
		for i, sub := range e.Values {
			v, err := ip.evalExpr(sub, scope)
			if err != nil {
				return value.NullValue, err
			}
			if i == 0 {
				result = v
			}
			if e.Op == ast.And && !truthy(v) {
				return v, nil
			}
			if e.Op == ast.Or && truthy(v) {
				return v, nil
			}
			result = v
		}
		return result, nil
	case *ast.Compare:
		l, err := ip.evalExpr(e.Left, scope)
		if err != nil {
			return value.NullValue, err
		}
		r, err := ip.evalExpr(e.Comparators[0], scope)
		if err != nil {
			return value.NullValue, err
		}
		return evalCompare(e.Ops[0], l, r)
	case *ast.Call:
		return ip.evalCall(e, scope)
	case *ast.List:
		elems := make([]value.Value, 0, len(e.Elts))
		for _, el := range e.Elts {
			v, err := ip.evalExpr(el, scope)
			if err != nil {
				return value.NullValue, err
			}
			elems = append(elems, v)
		}
		return value.NewArray(elems), nil
	case *ast.Dict:
		d := value.NewDict()
		dv := d.Opaque.(*value.DictVal)
		for i := range e.Keys {
			k, err := ip.evalExpr(e.Keys[i], scope)
			if err != nil {
				return value.NullValue, err
			}
			v, err := ip.evalExpr(e.Values[i], scope)
			if err != nil {
				return value.NullValue, err
			}
			if k.Kind != value.String {
				return value.NullValue, fmt.Errorf("dict keys must be strings, got %s", k.Kind)
			}
			dv.Set(k.StrV, v)
		}
		return d, nil
	case *ast.Subscript:
		recv, err := ip.evalExpr(e.Value, scope)
		if err != nil {
			return value.NullValue, err
		}
		idx, ok := e.Slice.(*ast.Index)
		if !ok {
			return value.NullValue, fmt.Errorf("slicing is not supported in a host wrap")
		}
		at, err := ip.evalExpr(idx.Value, scope)
		if err != nil {
			return value.NullValue, err
		}
		return indexValue(recv, at)
	default:
		return value.NullValue, fmt.Errorf("unsupported host expression type %T", expr)
	}
}

func (ip *interpreter) evalBinOp(e *ast.BinOp, l, r value.Value) (value.Value, error) {
	if e.Op == ast.Add && (l.Kind == value.String || r.Kind == value.String) {
		return value.NewString(l.Display() + r.Display()), nil
	}
	switch e.Op {
	case ast.Add:
		return numericBinary(l, r, func(a, b int64) int64 { return a + b }, func(a, b float64) float64 { return a + b })
	case ast.Sub:
		return numericBinary(l, r, func(a, b int64) int64 { return a - b }, func(a, b float64) float64 { return a - b })
	case ast.Mult:
		return numericBinary(l, r, func(a, b int64) int64 { return a * b }, func(a, b float64) float64 { return a * b })
	case ast.Div:
		if r.AsFloat() == 0 {
			return value.NullValue, fmt.Errorf("division by zero")
		}
		return value.NewFloat(l.AsFloat() / r.AsFloat()), nil
	case ast.FloorDiv:
		if r.AsFloat() == 0 {
			return value.NullValue, fmt.Errorf("division by zero")
		}
		return value.NewInt(int64(math.Floor(l.AsFloat() / r.AsFloat()))), nil
	case ast.Modulo:
		if l.Kind == value.Int && r.Kind == value.Int {
			if r.IntV == 0 {
				return value.NullValue, fmt.Errorf("modulo by zero")
			}
			return value.NewInt(l.IntV % r.IntV), nil
		}
		if r.AsFloat() == 0 {
			return value.NullValue, fmt.Errorf("modulo by zero")
		}
		return value.NewFloat(math.Mod(l.AsFloat(), r.AsFloat())), nil
	case ast.Pow:
		return value.NewFloat(math.Pow(l.AsFloat(), r.AsFloat())), nil
	default:
		return value.NullValue, fmt.Errorf("unsupported binary operator")
	}
}

func numericBinary(l, r value.Value, ifn func(a, b int64) int64, ffn func(a, b float64) float64) (value.Value, error) {
	if !l.IsNumeric() || !r.IsNumeric() {
		return value.NullValue, fmt.Errorf("unsupported operand types %s and %s", l.Kind, r.Kind)
	}
	if l.Kind == value.Int && r.Kind == value.Int {
		return value.NewInt(ifn(l.IntV, r.IntV)), nil
	}
	return value.NewFloat(ffn(l.AsFloat(), r.AsFloat())), nil
}

func evalCompare(op ast.CmpOp, l, r value.Value) (value.Value, error) {
	switch op {
	case ast.Eq:
		return value.NewBool(valuesEqual(l, r)), nil
	case ast.NotEq:
		return value.NewBool(!valuesEqual(l, r)), nil
	case ast.Gt, ast.Lt, ast.GtE, ast.LtE:
		if !l.IsNumeric() || !r.IsNumeric() {
			return value.NullValue, fmt.Errorf("comparison requires numeric operands, got %s and %s", l.Kind, r.Kind)
		}
		a, b := l.AsFloat(), r.AsFloat()
		switch op {
		case ast.Gt:
			return value.NewBool(a > b), nil
		case ast.Lt:
			return value.NewBool(a < b), nil
		case ast.GtE:
			return value.NewBool(a >= b), nil
		default:
			return value.NewBool(a <= b), nil
		}
	default:
		return value.NullValue, fmt.Errorf("unsupported comparison operator")
	}
}

func valuesEqual(l, r value.Value) bool {
	if l.IsNumeric() && r.IsNumeric() {
		return l.AsFloat() == r.AsFloat()
	}
	if l.Kind != r.Kind {
		return false
	}
	switch l.Kind {
	case value.String:
		return l.StrV == r.StrV
	case value.Bool:
		return l.BoolV == r.BoolV
	case value.Null:
		return true
	default:
		return l.Opaque == r.Opaque
	}
}

func (ip *interpreter) evalCall(e *ast.Call, scope map[string]value.Value) (value.Value, error) {
	name, ok := e.Func.(*ast.Name)
	if !ok {
		return value.NullValue, fmt.Errorf("only direct function calls are supported in a host wrap")
	}
	args := make([]value.Value, 0, len(e.Args))
	for _, a := range e.Args {
		v, err := ip.evalExpr(a, scope)
		if err != nil {
			return value.NullValue, err
		}
		args = append(args, v)
	}

	switch string(name.Id) {
	case "print":
		parts := make([]string, len(args))
		for i, a := range args {
			parts[i] = a.Display()
		}
		fmt.Fprintln(ip.out, strings.Join(parts, " "))
		return value.NullValue, nil
	case "len":
		if len(args) != 1 {
			return value.NullValue, fmt.Errorf("len() takes exactly 1 argument")
		}
		return arrayOrStringLen(args[0])
	case "str":
		if len(args) != 1 {
			return value.NullValue, fmt.Errorf("str() takes exactly 1 argument")
		}
		return value.NewString(args[0].Display()), nil
	case "int":
		if len(args) != 1 {
			return value.NullValue, fmt.Errorf("int() takes exactly 1 argument")
		}
		return value.NewInt(int64(args[0].AsFloat())), nil
	}

	fn, ok := ip.funcs[string(name.Id)]
	if !ok {
		return value.NullValue, fmt.Errorf("function %q is not defined in this host module", name.Id)
	}
	return ip.call(fn, args)
}

func arrayOrStringLen(v value.Value) (value.Value, error) {
	switch v.Kind {
	case value.String:
		return value.NewInt(int64(len([]rune(v.StrV)))), nil
	case value.Array:
		return value.NewInt(int64(len(v.Opaque.(*value.ArrayVal).Elems))), nil
	case value.Dict:
		return value.NewInt(int64(len(v.Opaque.(*value.DictVal).Keys))), nil
	default:
		return value.NullValue, fmt.Errorf("len() requires a string, list, or dict, got %s", v.Kind)
	}
}

func indexValue(recv, idx value.Value) (value.Value, error) {
	switch recv.Kind {
	case value.Array:
		if idx.Kind != value.Int {
			return value.NullValue, fmt.Errorf("list index must be an integer")
		}
		elems := recv.Opaque.(*value.ArrayVal).Elems
		if idx.IntV < 0 || idx.IntV >= int64(len(elems)) {
			return value.NullValue, fmt.Errorf("list index out of range")
		}
		return elems[idx.IntV], nil
	case value.Dict:
		if idx.Kind != value.String {
			return value.NullValue, fmt.Errorf("dict key must be a string")
		}
		v, ok := recv.Opaque.(*value.DictVal).Get(idx.StrV)
		if !ok {
			return value.NullValue, fmt.Errorf("key %q not found", idx.StrV)
		}
		return v, nil
	case value.String:
		if idx.Kind != value.Int {
			return value.NullValue, fmt.Errorf("string index must be an integer")
		}
		runes := []rune(recv.StrV)
		if idx.IntV < 0 || idx.IntV >= int64(len(runes)) {
			return value.NullValue, fmt.Errorf("string index out of range")
		}
		return value.NewString(string(runes[idx.IntV])), nil
	default:
		return value.NullValue, fmt.Errorf("cannot index a %s value", recv.Kind)
	}
}

func iterate(v value.Value) ([]value.Value, error) {
	switch v.Kind {
	case value.Array:
		return v.Opaque.(*value.ArrayVal).Elems, nil
	case value.Dict:
		d := v.Opaque.(*value.DictVal)
		items := make([]value.Value, 0, len(d.Keys))
		for _, k := range d.Keys {
			items = append(items, value.NewString(k))
		}
		return items, nil
	case value.String:
		items := make([]value.Value, 0, len(v.StrV))
		for _, r := range v.StrV {
			items = append(items, value.NewString(string(r)))
		}
		return items, nil
	default:
		return nil, fmt.Errorf("cannot iterate a %s value", v.Kind)
	}
}

func truthy(v value.Value) bool {
	switch v.Kind {
	case value.Bool:
		return v.BoolV
	case value.Null:
		return false
	case value.Int:
		return v.IntV != 0
	case value.Float:
		return v.FloatV != 0
	case value.String:
		return v.StrV != ""
	case value.Array:
		return len(v.Opaque.(*value.ArrayVal).Elems) > 0
	case value.Dict:
		return len(v.Opaque.(*value.DictVal).Keys) > 0
	default:
		return true
	}
}
