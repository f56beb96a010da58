// Package ast defines the node types produced by pkg/parser for one
// arrow-function body (spec §3 "AST nodes"). The Node/Expr/Statement
// interface split and the Pos()-via-embedded-Token idiom follow the
// teacher's pkg/compiler/ast/ast.go.
package ast

import "github.com/hpl-lang/hpl/pkg/lexer"

// Node is any AST node.
type Node interface {
	Pos() lexer.Token
}

// Expr is a node that yields a runtime value.
type Expr interface {
	Node
	exprNode()
}

// Stmt is a standalone executable unit.
type Stmt interface {
	Node
	stmtNode()
}

// Block is a sequence of statements produced by any of the three block
// syntaxes (§4.3): indent-only, brace, or colon.
type Block struct {
	Token lexer.Token
	Stmts []Stmt
}

func (b *Block) Pos() lexer.Token { return b.Token }

// ---- Expressions ----

type IntLit struct {
	Token lexer.Token
	Value int64
}

func (n *IntLit) Pos() lexer.Token { return n.Token }
func (n *IntLit) exprNode()        {}

type FloatLit struct {
	Token lexer.Token
	Value float64
}

func (n *FloatLit) Pos() lexer.Token { return n.Token }
func (n *FloatLit) exprNode()        {}

type StringLit struct {
	Token lexer.Token
	Value string
}

func (n *StringLit) Pos() lexer.Token { return n.Token }
func (n *StringLit) exprNode()        {}

type BoolLit struct {
	Token lexer.Token
	Value bool
}

func (n *BoolLit) Pos() lexer.Token { return n.Token }
func (n *BoolLit) exprNode()        {}

type NullLit struct {
	Token lexer.Token
}

func (n *NullLit) Pos() lexer.Token { return n.Token }
func (n *NullLit) exprNode()        {}

type Ident struct {
	Token lexer.Token
	Name  string
}

func (n *Ident) Pos() lexer.Token { return n.Token }
func (n *Ident) exprNode()        {}

// BinaryExpr covers arithmetic, comparison, and logical binary operators;
// Op is the operator's literal spelling ("+", "&&", "==", ...).
type BinaryExpr struct {
	Token lexer.Token
	Op    string
	Left  Expr
	Right Expr
}

func (n *BinaryExpr) Pos() lexer.Token { return n.Token }
func (n *BinaryExpr) exprNode()        {}

// UnaryExpr covers "!" and "-" (unary minus is rewritten as 0 - x by the
// parser per §4.4, so by the time the evaluator sees one it is always "!").
type UnaryExpr struct {
	Token lexer.Token
	Op    string
	Right Expr
}

func (n *UnaryExpr) Pos() lexer.Token { return n.Token }
func (n *UnaryExpr) exprNode()        {}

// PostIncrement is "x++"; it is an expression because it yields the
// pre-increment value (§4.4).
type PostIncrement struct {
	Token  lexer.Token
	Target Expr
}

func (n *PostIncrement) Pos() lexer.Token { return n.Token }
func (n *PostIncrement) exprNode()        {}

type ArrayLit struct {
	Token lexer.Token
	Elems []Expr
}

func (n *ArrayLit) Pos() lexer.Token { return n.Token }
func (n *ArrayLit) exprNode()        {}

// DictLit is the SPEC_FULL §3 supplement ({ "key": expr, ... }). Keys are
// ordered as written so that evaluation order is deterministic.
type DictLit struct {
	Token  lexer.Token
	Keys   []string
	Values []Expr
}

func (n *DictLit) Pos() lexer.Token { return n.Token }
func (n *DictLit) exprNode()        {}

type IndexExpr struct {
	Token     lexer.Token
	Receiver  Expr
	Index     Expr
}

func (n *IndexExpr) Pos() lexer.Token { return n.Token }
func (n *IndexExpr) exprNode()        {}

// CallExpr is a bare-name function call: f(args...).
type CallExpr struct {
	Token lexer.Token
	Name  string
	Args  []Expr
}

func (n *CallExpr) Pos() lexer.Token { return n.Token }
func (n *CallExpr) exprNode()        {}

// MethodCallExpr is receiver.name(args...).
type MethodCallExpr struct {
	Token    lexer.Token
	Receiver Expr
	Name     string
	Args     []Expr
}

func (n *MethodCallExpr) Pos() lexer.Token { return n.Token }
func (n *MethodCallExpr) exprNode()        {}

// PropertyExpr is receiver.name without a call.
type PropertyExpr struct {
	Token    lexer.Token
	Receiver Expr
	Name     string
}

func (n *PropertyExpr) Pos() lexer.Token { return n.Token }
func (n *PropertyExpr) exprNode()        {}

// ---- Statements ----

// AssignStmt covers all three assignment target shapes from §4.3: a bare
// name, a dotted property path, or an index expression. Target holds the
// parsed postfix-chain expression; the evaluator inspects its concrete
// type to decide which write rule applies.
type AssignStmt struct {
	Token  lexer.Token
	Target Expr
	Value  Expr
}

func (n *AssignStmt) Pos() lexer.Token { return n.Token }
func (n *AssignStmt) stmtNode()        {}

type ReturnStmt struct {
	Token lexer.Token
	Value Expr // nil for a bare `return`
}

func (n *ReturnStmt) Pos() lexer.Token { return n.Token }
func (n *ReturnStmt) stmtNode()        {}

type BreakStmt struct{ Token lexer.Token }

func (n *BreakStmt) Pos() lexer.Token { return n.Token }
func (n *BreakStmt) stmtNode()        {}

type ContinueStmt struct{ Token lexer.Token }

func (n *ContinueStmt) Pos() lexer.Token { return n.Token }
func (n *ContinueStmt) stmtNode()        {}

// EchoStmt is the `echo` print statement.
type EchoStmt struct {
	Token lexer.Token
	Value Expr
}

func (n *EchoStmt) Pos() lexer.Token { return n.Token }
func (n *EchoStmt) stmtNode()        {}

// ThrowStmt is the SPEC_FULL §3 supplement direct user-exception raise.
type ThrowStmt struct {
	Token lexer.Token
	Value Expr
}

func (n *ThrowStmt) Pos() lexer.Token { return n.Token }
func (n *ThrowStmt) stmtNode()        {}

// ExprStmt wraps a bare expression used as a statement (e.g. a call made
// only for its side effect, or a postfix increment).
type ExprStmt struct {
	Token lexer.Token
	Value Expr
}

func (n *ExprStmt) Pos() lexer.Token { return n.Token }
func (n *ExprStmt) stmtNode()        {}

type IfStmt struct {
	Token lexer.Token
	Cond  Expr
	Then  *Block
	Else  *Block // nil when there is no else branch
}

func (n *IfStmt) Pos() lexer.Token { return n.Token }
func (n *IfStmt) stmtNode()        {}

// ForStmt is the C-style for(init; cond; step) loop.
type ForStmt struct {
	Token lexer.Token
	Init  Stmt // may be nil
	Cond  Expr // may be nil (always true)
	Step  Stmt // may be nil
	Body  *Block
}

func (n *ForStmt) Pos() lexer.Token { return n.Token }
func (n *ForStmt) stmtNode()        {}

// ForInStmt is the SPEC_FULL §3 supplement: for (VAR in ITERABLE) body.
type ForInStmt struct {
	Token    lexer.Token
	VarName  string
	Iterable Expr
	Body     *Block
}

func (n *ForInStmt) Pos() lexer.Token { return n.Token }
func (n *ForInStmt) stmtNode()        {}

type WhileStmt struct {
	Token lexer.Token
	Cond  Expr
	Body  *Block
}

func (n *WhileStmt) Pos() lexer.Token { return n.Token }
func (n *WhileStmt) stmtNode()        {}

// TryStmt is try {...} catch (NAME) {...}.
type TryStmt struct {
	Token     lexer.Token
	Try       *Block
	CatchName string
	Catch     *Block
}

func (n *TryStmt) Pos() lexer.Token { return n.Token }
func (n *TryStmt) stmtNode()        {}

// ImportStmt is import MODULE [as ALIAS]. It is valid only at top level
// (§4.4 Entry) but the parser does not special-case its position.
type ImportStmt struct {
	Token  lexer.Token
	Module string
	Alias  string // "" when there is no alias
}

func (n *ImportStmt) Pos() lexer.Token { return n.Token }
func (n *ImportStmt) stmtNode()        {}
