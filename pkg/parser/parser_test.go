package parser_test

import (
	"testing"

	"github.com/hpl-lang/hpl/pkg/ast"
	"github.com/hpl-lang/hpl/pkg/lexer"
	"github.com/hpl-lang/hpl/pkg/parser"
)

func parseBody(t *testing.T, src string) *ast.Block {
	t.Helper()
	toks, err := lexer.New(src).Tokenize()
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	block, err := parser.New(toks).Parse()
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return block
}

func TestParseArithmeticPrecedence(t *testing.T) {
	block := parseBody(t, `echo 1 + 2 * 3`)
	if len(block.Stmts) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(block.Stmts))
	}
	echo, ok := block.Stmts[0].(*ast.EchoStmt)
	if !ok {
		t.Fatalf("expected *ast.EchoStmt, got %T", block.Stmts[0])
	}
	bin, ok := echo.Value.(*ast.BinaryExpr)
	if !ok || bin.Op != "+" {
		t.Fatalf("expected top-level '+', got %#v", echo.Value)
	}
	rhs, ok := bin.Right.(*ast.BinaryExpr)
	if !ok || rhs.Op != "*" {
		t.Fatalf("expected '*' nested on the right of '+', got %#v", bin.Right)
	}
}

func TestParseAssignmentAndIndex(t *testing.T) {
	block := parseBody(t, "arr[0] = 5")
	assign, ok := block.Stmts[0].(*ast.AssignStmt)
	if !ok {
		t.Fatalf("expected *ast.AssignStmt, got %T", block.Stmts[0])
	}
	if _, ok := assign.Target.(*ast.IndexExpr); !ok {
		t.Fatalf("expected IndexExpr target, got %T", assign.Target)
	}
}

func TestParsePropertyAndMethodCallChain(t *testing.T) {
	block := parseBody(t, `echo a.b.c`)
	echo := block.Stmts[0].(*ast.EchoStmt)
	outer, ok := echo.Value.(*ast.PropertyExpr)
	if !ok || outer.Name != "c" {
		t.Fatalf("expected outer PropertyExpr .c, got %#v", echo.Value)
	}
	inner, ok := outer.Receiver.(*ast.PropertyExpr)
	if !ok || inner.Name != "b" {
		t.Fatalf("expected inner PropertyExpr .b, got %#v", outer.Receiver)
	}
}

func TestParseMethodCall(t *testing.T) {
	block := parseBody(t, `echo c.greet("Ada")`)
	echo := block.Stmts[0].(*ast.EchoStmt)
	call, ok := echo.Value.(*ast.MethodCallExpr)
	if !ok || call.Name != "greet" || len(call.Args) != 1 {
		t.Fatalf("expected MethodCallExpr greet(1 arg), got %#v", echo.Value)
	}
}

func TestParseIfElseBraceBlock(t *testing.T) {
	block := parseBody(t, `if (x == 1) { echo "one" } else { echo "other" }`)
	stmt, ok := block.Stmts[0].(*ast.IfStmt)
	if !ok {
		t.Fatalf("expected *ast.IfStmt, got %T", block.Stmts[0])
	}
	if stmt.Then == nil || stmt.Else == nil {
		t.Fatalf("expected both branches present")
	}
}

func TestParseWhileColonBlock(t *testing.T) {
	block := parseBody(t, "while (i < 10) : { i++ }")
	stmt, ok := block.Stmts[0].(*ast.WhileStmt)
	if !ok {
		t.Fatalf("expected *ast.WhileStmt, got %T", block.Stmts[0])
	}
	if len(stmt.Body.Stmts) != 1 {
		t.Fatalf("expected 1 body statement, got %d", len(stmt.Body.Stmts))
	}
}

func TestParseTryCatch(t *testing.T) {
	block := parseBody(t, `try : { x = 10/0 } catch (e) : { echo "caught: " + e }`)
	stmt, ok := block.Stmts[0].(*ast.TryStmt)
	if !ok {
		t.Fatalf("expected *ast.TryStmt, got %T", block.Stmts[0])
	}
	if stmt.CatchName != "e" {
		t.Fatalf("expected catch name 'e', got %q", stmt.CatchName)
	}
}

func TestParseForInLoop(t *testing.T) {
	block := parseBody(t, `for (k in d) { echo k }`)
	stmt, ok := block.Stmts[0].(*ast.ForInStmt)
	if !ok {
		t.Fatalf("expected *ast.ForInStmt, got %T", block.Stmts[0])
	}
	if stmt.VarName != "k" {
		t.Fatalf("expected loop var 'k', got %q", stmt.VarName)
	}
}

func TestParseClassicForLoop(t *testing.T) {
	block := parseBody(t, "for (i=0; i<10; i++) { sum = sum + i }")
	stmt, ok := block.Stmts[0].(*ast.ForStmt)
	if !ok {
		t.Fatalf("expected *ast.ForStmt, got %T", block.Stmts[0])
	}
	if stmt.Init == nil || stmt.Cond == nil || stmt.Step == nil {
		t.Fatalf("expected init/cond/step all present, got %#v", stmt)
	}
}

func TestParseDictLiteral(t *testing.T) {
	block := parseBody(t, `echo {"a": 1, "b": 2}`)
	echo := block.Stmts[0].(*ast.EchoStmt)
	dict, ok := echo.Value.(*ast.DictLit)
	if !ok || len(dict.Keys) != 2 {
		t.Fatalf("expected DictLit with 2 keys, got %#v", echo.Value)
	}
}

func TestParseThrow(t *testing.T) {
	block := parseBody(t, `throw "boom"`)
	stmt, ok := block.Stmts[0].(*ast.ThrowStmt)
	if !ok {
		t.Fatalf("expected *ast.ThrowStmt, got %T", block.Stmts[0])
	}
	lit, ok := stmt.Value.(*ast.StringLit)
	if !ok || lit.Value != "boom" {
		t.Fatalf("expected string literal 'boom', got %#v", stmt.Value)
	}
}

func TestUnaryMinusRewrittenAsZeroMinus(t *testing.T) {
	block := parseBody(t, `echo -x`)
	echo := block.Stmts[0].(*ast.EchoStmt)
	bin, ok := echo.Value.(*ast.BinaryExpr)
	if !ok || bin.Op != "-" {
		t.Fatalf("expected rewritten '-' binary expr, got %#v", echo.Value)
	}
	if lit, ok := bin.Left.(*ast.IntLit); !ok || lit.Value != 0 {
		t.Fatalf("expected left operand to be literal 0, got %#v", bin.Left)
	}
}
