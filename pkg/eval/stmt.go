package eval

import (
	"github.com/hpl-lang/hpl/pkg/ast"
	"github.com/hpl-lang/hpl/pkg/core/value"
	"github.com/hpl-lang/hpl/pkg/herrors"
	"github.com/hpl-lang/hpl/pkg/object"
)

func (e *Evaluator) execBlock(block *ast.Block, scope *Scope) error {
	for _, stmt := range block.Stmts {
		if err := e.execStmt(stmt, scope); err != nil {
			return err
		}
	}
	return nil
}

func (e *Evaluator) execStmt(stmt ast.Stmt, scope *Scope) error {
	switch s := stmt.(type) {
	case *ast.ExprStmt:
		_, err := e.evalExpr(s.Value, scope)
		return err
	case *ast.AssignStmt:
		return e.execAssign(s, scope)
	case *ast.EchoStmt:
		v, err := e.evalExpr(s.Value, scope)
		if err != nil {
			return err
		}
		e.Echo(v)
		return nil
	case *ast.ReturnStmt:
		var v value.Value = value.NullValue
		if s.Value != nil {
			var err error
			v, err = e.evalExpr(s.Value, scope)
			if err != nil {
				return err
			}
		}
		return &signal{kind: sigReturn, value: v}
	case *ast.BreakStmt:
		return &signal{kind: sigBreak}
	case *ast.ContinueStmt:
		return &signal{kind: sigContinue}
	case *ast.ThrowStmt:
		v, err := e.evalExpr(s.Value, scope)
		if err != nil {
			return err
		}
		return &userException{value: v}
	case *ast.IfStmt:
		return e.execIf(s, scope)
	case *ast.WhileStmt:
		return e.execWhile(s, scope)
	case *ast.ForStmt:
		return e.execFor(s, scope)
	case *ast.ForInStmt:
		return e.execForIn(s, scope)
	case *ast.TryStmt:
		return e.execTry(s, scope)
	case *ast.ImportStmt:
		return e.execImport(s, scope)
	default:
		return herrors.New(herrors.Syntax, herrors.Position{}, "unhandled statement type %T", stmt)
	}
}

func (e *Evaluator) execAssign(s *ast.AssignStmt, scope *Scope) error {
	val, err := e.evalExpr(s.Value, scope)
	if err != nil {
		return err
	}
	switch target := s.Target.(type) {
	case *ast.Ident:
		scope.Set(target.Name, val)
		return nil
	case *ast.PropertyExpr:
		recv, err := e.evalExpr(target.Receiver, scope)
		if err != nil {
			return err
		}
		obj, ok := recv.Opaque.(*object.Object)
		if recv.Kind != value.Object || !ok {
			return herrors.New(herrors.Type, pos(target), "cannot assign property %q on a non-object receiver", target.Name)
		}
		obj.Set(target.Name, val)
		return nil
	case *ast.IndexExpr:
		recv, err := e.evalExpr(target.Receiver, scope)
		if err != nil {
			return err
		}
		idx, err := e.evalExpr(target.Index, scope)
		if err != nil {
			return err
		}
		return e.assignIndex(recv, idx, val, target)
	default:
		return herrors.New(herrors.Syntax, pos(s), "invalid assignment target %T", s.Target)
	}
}

func (e *Evaluator) assignIndex(recv, idx, val value.Value, target *ast.IndexExpr) error {
	switch recv.Kind {
	case value.Array:
		arr := recv.Opaque.(*value.ArrayVal)
		if idx.Kind != value.Int {
			return herrors.New(herrors.Type, pos(target), "array index must be an integer")
		}
		i := idx.IntV
		if i < 0 || i >= int64(len(arr.Elems)) {
			return herrors.Wrap(herrors.Value, pos(target), herrors.ErrIndexOutOfRange,
				"array index out of range")
		}
		arr.Elems[i] = val
		return nil
	case value.Dict:
		d := recv.Opaque.(*value.DictVal)
		key, err := dictKey(idx, target)
		if err != nil {
			return err
		}
		d.Set(key, val)
		return nil
	default:
		return herrors.New(herrors.Type, pos(target), "cannot index-assign a %s value", recv.Kind)
	}
}

func (e *Evaluator) execIf(s *ast.IfStmt, scope *Scope) error {
	cond, err := e.evalExpr(s.Cond, scope)
	if err != nil {
		return err
	}
	b, err := requireBool(cond, s)
	if err != nil {
		return err
	}
	if b {
		return e.execBlock(s.Then, scope)
	}
	if s.Else != nil {
		return e.execBlock(s.Else, scope)
	}
	return nil
}

func (e *Evaluator) execWhile(s *ast.WhileStmt, scope *Scope) error {
	for {
		cond, err := e.evalExpr(s.Cond, scope)
		if err != nil {
			return err
		}
		b, err := requireBool(cond, s)
		if err != nil {
			return err
		}
		if !b {
			return nil
		}
		if err := e.execBlock(s.Body, scope); err != nil {
			if sig, ok := asSignal(err); ok {
				if sig.kind == sigBreak {
					return nil
				}
				if sig.kind == sigContinue {
					continue
				}
			}
			return err
		}
	}
}

func (e *Evaluator) execFor(s *ast.ForStmt, scope *Scope) error {
	if s.Init != nil {
		if err := e.execStmt(s.Init, scope); err != nil {
			return err
		}
	}
	for {
		if s.Cond != nil {
			cond, err := e.evalExpr(s.Cond, scope)
			if err != nil {
				return err
			}
			b, err := requireBool(cond, s)
			if err != nil {
				return err
			}
			if !b {
				return nil
			}
		}
		if err := e.execBlock(s.Body, scope); err != nil {
			if sig, ok := asSignal(err); ok {
				if sig.kind == sigBreak {
					return nil
				}
				if sig.kind != sigContinue {
					return err
				}
				// fall through to Step on continue
			} else {
				return err
			}
		}
		if s.Step != nil {
			if err := e.execStmt(s.Step, scope); err != nil {
				return err
			}
		}
	}
}

// execForIn is the SPEC_FULL §3 supplement: iterate array elements,
// dictionary keys in insertion order, or string characters.
func (e *Evaluator) execForIn(s *ast.ForInStmt, scope *Scope) error {
	iterable, err := e.evalExpr(s.Iterable, scope)
	if err != nil {
		return err
	}

	var items []value.Value
	switch iterable.Kind {
	case value.Array:
		items = iterable.Opaque.(*value.ArrayVal).Elems
	case value.Dict:
		d := iterable.Opaque.(*value.DictVal)
		for _, k := range d.Keys {
			items = append(items, value.NewString(k))
		}
	case value.String:
		for _, r := range iterable.StrV {
			items = append(items, value.NewString(string(r)))
		}
	default:
		return herrors.New(herrors.Type, pos(s), "cannot iterate a %s value", iterable.Kind)
	}

	for _, item := range items {
		scope.Bind(s.VarName, item)
		if err := e.execBlock(s.Body, scope); err != nil {
			if sig, ok := asSignal(err); ok {
				if sig.kind == sigBreak {
					return nil
				}
				if sig.kind == sigContinue {
					continue
				}
			}
			return err
		}
	}
	return nil
}

// execTry implements §4.4/§7: user exceptions (and herrors errors of kinds
// lexical/syntax/name/type/value) bind the catch variable to the failure's
// display string and run the catch block; control-flow signals are never
// caught.
func (e *Evaluator) execTry(s *ast.TryStmt, scope *Scope) error {
	err := e.execBlock(s.Try, scope)
	if err == nil {
		return nil
	}
	if _, ok := asSignal(err); ok {
		return err
	}
	message := exceptionMessage(err)
	scope.Bind(s.CatchName, value.NewString(message))
	return e.execBlock(s.Catch, scope)
}

func exceptionMessage(err error) string {
	if ue, ok := err.(*userException); ok {
		return ue.value.Display()
	}
	if he, ok := herrors.AsError(err); ok {
		return he.Msg
	}
	return err.Error()
}

func (e *Evaluator) execImport(s *ast.ImportStmt, scope *Scope) error {
	mod, err := e.Resolver.Resolve(s.Module)
	if err != nil {
		return herrors.Wrap(herrors.Name, pos(s), err, "import failed")
	}
	name := s.Module
	if s.Alias != "" {
		name = s.Alias
	}
	e.Globals[name] = mod.AsValue()
	return nil
}

func requireBool(v value.Value, node ast.Node) (bool, error) {
	if v.Kind != value.Bool {
		return false, herrors.New(herrors.Type, pos(node), "condition must be a boolean, got %s", v.Kind)
	}
	return v.BoolV, nil
}

func pos(n ast.Node) herrors.Position {
	t := n.Pos()
	return herrors.Position{Line: t.Line, Column: t.Column}
}
