// Package lexer turns an HPL arrow-function body into a flat token list.
//
// The scanning style (a byte-cursor struct advancing over a []byte with a
// hand-rolled switch on character class) follows the teacher's
// pkg/compiler/lexer/scanner.go; the token Kind set and the indentation
// machine are HPL's own, since the teacher's Forth-flavored token kinds
// (KindAddress, KindSugarGate, KindExit, …) have no counterpart here.
package lexer

import "fmt"

// Kind tags a Token.
type Kind uint8

const (
	EOF Kind = iota
	Int
	Float
	String
	Bool
	Null
	Ident
	Keyword

	Plus
	Minus
	Star
	Slash
	Percent

	Assign
	Eq
	NotEq
	Lt
	LtEq
	Gt
	GtEq

	AndAnd
	OrOr
	Bang
	Increment // ++

	LParen
	RParen
	LBrace
	RBrace
	LBracket
	RBracket

	Semicolon
	Comma
	Dot
	Colon
	Arrow // =>

	Indent
	Dedent
)

var kindNames = map[Kind]string{
	EOF:       "EOF",
	Int:       "INT",
	Float:     "FLOAT",
	String:    "STRING",
	Bool:      "BOOL",
	Null:      "NULL",
	Ident:     "IDENT",
	Keyword:   "KEYWORD",
	Plus:      "+",
	Minus:     "-",
	Star:      "*",
	Slash:     "/",
	Percent:   "%",
	Assign:    "=",
	Eq:        "==",
	NotEq:     "!=",
	Lt:        "<",
	LtEq:      "<=",
	Gt:        ">",
	GtEq:      ">=",
	AndAnd:    "&&",
	OrOr:      "||",
	Bang:      "!",
	Increment: "++",
	LParen:    "(",
	RParen:    ")",
	LBrace:    "{",
	RBrace:    "}",
	LBracket:  "[",
	RBracket:  "]",
	Semicolon: ";",
	Comma:     ",",
	Dot:       ".",
	Colon:     ":",
	Arrow:     "=>",
	Indent:    "INDENT",
	Dedent:    "DEDENT",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Keywords is the reserved-word table; `throw` and `in` are SPEC_FULL
// additions (throw statement, for-in loop) absent from spec.md's own
// keyword list.
var Keywords = map[string]bool{
	"if": true, "else": true, "for": true, "while": true,
	"try": true, "catch": true, "return": true, "break": true,
	"continue": true, "import": true, "as": true, "throw": true, "in": true,
}

// Token is a single lexical unit: kind, literal text, and source position.
// Position is 1-based on both axes to match error messages of the form
// "expected X, got Y at L:C".
type Token struct {
	Kind   Kind
	Value  string
	Line   int
	Column int
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%d:%d", t.Kind, t.Value, t.Line, t.Column)
}
