// Package parser implements C3: a Pratt-precedence expression parser plus
// the statement forms and triple block-syntax dispatch of spec.md §4.3.
// The curTok/peekTok-with-nextToken shape and the "expected X, got Y at
// L:C" error phrasing follow the teacher's pkg/compiler/parser/parser.go;
// the grammar itself (precedence table, block syntaxes, statement forms)
// is HPL's own.
package parser

import (
	"fmt"

	"github.com/hpl-lang/hpl/pkg/ast"
	"github.com/hpl-lang/hpl/pkg/lexer"
)

// Parser consumes a pre-tokenized token list (lexer.Lexer.Tokenize already
// ran) rather than pulling from a live scanner, since the lexer's contract
// is "Output: a token list" (§4.1).
type Parser struct {
	toks []lexer.Token
	pos  int

	curTok  lexer.Token
	peekTok lexer.Token
}

// New builds a Parser over an already-tokenized body.
func New(toks []lexer.Token) *Parser {
	p := &Parser{toks: toks}
	p.nextToken()
	p.nextToken()
	return p
}

// Parse parses the whole token stream as a top-level statement sequence
// (a function body is just a Block without the surrounding braces/colon).
func (p *Parser) Parse() (*ast.Block, error) {
	block := &ast.Block{Token: p.curTok}
	for p.curTok.Kind != lexer.EOF {
		if p.curTok.Kind == lexer.Dedent || p.curTok.Kind == lexer.Indent {
			p.nextToken()
			continue
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		if stmt != nil {
			block.Stmts = append(block.Stmts, stmt)
		}
	}
	return block, nil
}

func (p *Parser) nextToken() {
	p.curTok = p.peekTok
	if p.pos < len(p.toks) {
		p.peekTok = p.toks[p.pos]
		p.pos++
	} else {
		p.peekTok = lexer.Token{Kind: lexer.EOF}
	}
}

func (p *Parser) errorf(format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s at %d:%d", msg, p.curTok.Line, p.curTok.Column)
}

func (p *Parser) expect(k lexer.Kind) (lexer.Token, error) {
	if p.curTok.Kind != k {
		return lexer.Token{}, p.errorf("expected %v, got %v", k, p.curTok.Kind)
	}
	tok := p.curTok
	p.nextToken()
	return tok, nil
}

// isKeyword reports whether curTok is the keyword literal kw (Keywords
// are all tagged lexer.Keyword, so spelling must be checked too).
func (p *Parser) isKeyword(kw string) bool {
	return p.curTok.Kind == lexer.Keyword && p.curTok.Value == kw
}

func (p *Parser) expectKeyword(kw string) error {
	if !p.isKeyword(kw) {
		return p.errorf("expected keyword %q, got %v %q", kw, p.curTok.Kind, p.curTok.Value)
	}
	p.nextToken()
	return nil
}

// ---- Statements ----

func (p *Parser) parseStatement() (ast.Stmt, error) {
	switch {
	case p.curTok.Kind == lexer.Keyword:
		switch p.curTok.Value {
		case "return":
			return p.parseReturn()
		case "break":
			tok := p.curTok
			p.nextToken()
			return &ast.BreakStmt{Token: tok}, nil
		case "continue":
			tok := p.curTok
			p.nextToken()
			return &ast.ContinueStmt{Token: tok}, nil
		case "if":
			return p.parseIf()
		case "for":
			return p.parseFor()
		case "while":
			return p.parseWhile()
		case "try":
			return p.parseTry()
		case "import":
			return p.parseImport()
		case "throw":
			return p.parseThrow()
		}
	case p.curTok.Kind == lexer.Ident && p.curTok.Value == "echo":
		return p.parseEcho()
	}
	return p.parseSimpleStatement()
}

func (p *Parser) parseReturn() (ast.Stmt, error) {
	tok := p.curTok
	p.nextToken()
	if p.atStatementEnd() {
		return &ast.ReturnStmt{Token: tok}, nil
	}
	val, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.ReturnStmt{Token: tok, Value: val}, nil
}

func (p *Parser) parseEcho() (ast.Stmt, error) {
	tok := p.curTok
	p.nextToken()
	val, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.EchoStmt{Token: tok, Value: val}, nil
}

func (p *Parser) parseThrow() (ast.Stmt, error) {
	tok := p.curTok
	p.nextToken()
	val, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.ThrowStmt{Token: tok, Value: val}, nil
}

func (p *Parser) parseImport() (ast.Stmt, error) {
	tok := p.curTok
	p.nextToken()
	name, err := p.expect(lexer.Ident)
	if err != nil {
		return nil, err
	}
	stmt := &ast.ImportStmt{Token: tok, Module: name.Value}
	if p.isKeyword("as") {
		p.nextToken()
		alias, err := p.expect(lexer.Ident)
		if err != nil {
			return nil, err
		}
		stmt.Alias = alias.Value
	}
	return stmt, nil
}

// parseSimpleStatement handles assignment and bare-expression statements,
// since both start by parsing a postfix-chained expression (§4.3
// assignment LHS is "parsed as a postfix chain up to the last .NAME
// before =").
func (p *Parser) parseSimpleStatement() (ast.Stmt, error) {
	tok := p.curTok
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.curTok.Kind == lexer.Assign {
		p.nextToken()
		val, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return &ast.AssignStmt{Token: tok, Target: expr, Value: val}, nil
	}
	return &ast.ExprStmt{Token: tok, Value: expr}, nil
}

func (p *Parser) parseIf() (ast.Stmt, error) {
	tok := p.curTok
	p.nextToken()
	if _, err := p.expect(lexer.LParen); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RParen); err != nil {
		return nil, err
	}
	then, err := p.parseBlockOrColon()
	if err != nil {
		return nil, err
	}
	stmt := &ast.IfStmt{Token: tok, Cond: cond, Then: then}
	if p.isKeyword("else") {
		p.nextToken()
		elseBlock, err := p.parseBlockOrColon()
		if err != nil {
			return nil, err
		}
		stmt.Else = elseBlock
	}
	return stmt, nil
}

func (p *Parser) parseWhile() (ast.Stmt, error) {
	tok := p.curTok
	p.nextToken()
	if _, err := p.expect(lexer.LParen); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RParen); err != nil {
		return nil, err
	}
	body, err := p.parseBlockOrColon()
	if err != nil {
		return nil, err
	}
	return &ast.WhileStmt{Token: tok, Cond: cond, Body: body}, nil
}

// parseFor handles both the C-style for(init; cond; step) and the
// SPEC_FULL for (VAR in ITERABLE) supplement, disambiguating after the
// first identifier by checking for the `in` keyword.
func (p *Parser) parseFor() (ast.Stmt, error) {
	tok := p.curTok
	p.nextToken()
	if _, err := p.expect(lexer.LParen); err != nil {
		return nil, err
	}

	if p.curTok.Kind == lexer.Ident && p.peekTok.Kind == lexer.Keyword && p.peekTok.Value == "in" {
		varName := p.curTok.Value
		p.nextToken() // consume ident
		p.nextToken() // consume 'in'
		iterable, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RParen); err != nil {
			return nil, err
		}
		body, err := p.parseBlockOrColon()
		if err != nil {
			return nil, err
		}
		return &ast.ForInStmt{Token: tok, VarName: varName, Iterable: iterable, Body: body}, nil
	}

	var init ast.Stmt
	if p.curTok.Kind != lexer.Semicolon {
		var err error
		init, err = p.parseSimpleStatement()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(lexer.Semicolon); err != nil {
		return nil, err
	}
	var cond ast.Expr
	if p.curTok.Kind != lexer.Semicolon {
		var err error
		cond, err = p.parseExpr()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(lexer.Semicolon); err != nil {
		return nil, err
	}
	var step ast.Stmt
	if p.curTok.Kind != lexer.RParen {
		var err error
		step, err = p.parseSimpleStatement()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(lexer.RParen); err != nil {
		return nil, err
	}
	body, err := p.parseBlockOrColon()
	if err != nil {
		return nil, err
	}
	return &ast.ForStmt{Token: tok, Init: init, Cond: cond, Step: step, Body: body}, nil
}

func (p *Parser) parseTry() (ast.Stmt, error) {
	tok := p.curTok
	p.nextToken()
	tryBlock, err := p.parseBlockOrColon()
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("catch"); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.LParen); err != nil {
		return nil, err
	}
	name, err := p.expect(lexer.Ident)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RParen); err != nil {
		return nil, err
	}
	catchBlock, err := p.parseBlockOrColon()
	if err != nil {
		return nil, err
	}
	return &ast.TryStmt{Token: tok, Try: tryBlock, CatchName: name.Value, Catch: catchBlock}, nil
}

// atStatementEnd reports whether the current token plausibly ends a bare
// `return` with no value: end of block, a dedent/brace, or a semicolon.
func (p *Parser) atStatementEnd() bool {
	switch p.curTok.Kind {
	case lexer.Dedent, lexer.RBrace, lexer.Semicolon, lexer.EOF:
		return true
	}
	return false
}

// ---- Blocks (§4.3 triple dispatch) ----

func (p *Parser) parseBlockOrColon() (*ast.Block, error) {
	switch p.curTok.Kind {
	case lexer.Indent:
		return p.parseIndentBlock()
	case lexer.LBrace:
		return p.parseBraceBlock()
	case lexer.Colon:
		p.nextToken()
		if p.curTok.Kind == lexer.Indent {
			return p.parseIndentBlock()
		}
		if p.curTok.Kind == lexer.LBrace {
			return p.parseBraceBlock()
		}
		// Single statement: wrap it in a one-statement Block.
		tok := p.curTok
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		return &ast.Block{Token: tok, Stmts: []ast.Stmt{stmt}}, nil
	default:
		return nil, p.errorf("expected a block (INDENT, '{' or ':'), got %v", p.curTok.Kind)
	}
}

func (p *Parser) parseIndentBlock() (*ast.Block, error) {
	tok := p.curTok
	p.nextToken() // consume INDENT
	block := &ast.Block{Token: tok}
	for p.curTok.Kind != lexer.Dedent && p.curTok.Kind != lexer.EOF {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		block.Stmts = append(block.Stmts, stmt)
		p.skipStatementSeparators()
	}
	if p.curTok.Kind == lexer.Dedent {
		p.nextToken()
	}
	return block, nil
}

func (p *Parser) parseBraceBlock() (*ast.Block, error) {
	tok := p.curTok
	p.nextToken() // consume '{'
	if p.curTok.Kind == lexer.Indent {
		p.nextToken()
	}
	block := &ast.Block{Token: tok}
	for p.curTok.Kind != lexer.RBrace && p.curTok.Kind != lexer.Dedent && p.curTok.Kind != lexer.EOF {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		block.Stmts = append(block.Stmts, stmt)
		p.skipStatementSeparators()
	}
	if p.curTok.Kind == lexer.Dedent {
		p.nextToken()
	}
	if _, err := p.expect(lexer.RBrace); err != nil {
		return nil, err
	}
	return block, nil
}

func (p *Parser) skipStatementSeparators() {
	for p.curTok.Kind == lexer.Semicolon {
		p.nextToken()
	}
}

// ---- Expressions (precedence-climbing, §4.3) ----

func (p *Parser) parseExpr() (ast.Expr, error) {
	return p.parseLogicalOr()
}

func (p *Parser) parseLogicalOr() (ast.Expr, error) {
	left, err := p.parseLogicalAnd()
	if err != nil {
		return nil, err
	}
	for p.curTok.Kind == lexer.OrOr {
		tok := p.curTok
		p.nextToken()
		right, err := p.parseLogicalAnd()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Token: tok, Op: "||", Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseLogicalAnd() (ast.Expr, error) {
	left, err := p.parseEquality()
	if err != nil {
		return nil, err
	}
	for p.curTok.Kind == lexer.AndAnd {
		tok := p.curTok
		p.nextToken()
		right, err := p.parseEquality()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Token: tok, Op: "&&", Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseEquality() (ast.Expr, error) {
	left, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	for p.curTok.Kind == lexer.Eq || p.curTok.Kind == lexer.NotEq {
		tok := p.curTok
		op := tok.Value
		p.nextToken()
		right, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Token: tok, Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseComparison() (ast.Expr, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for isComparisonKind(p.curTok.Kind) {
		tok := p.curTok
		op := tok.Value
		p.nextToken()
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Token: tok, Op: op, Left: left, Right: right}
	}
	return left, nil
}

func isComparisonKind(k lexer.Kind) bool {
	return k == lexer.Lt || k == lexer.LtEq || k == lexer.Gt || k == lexer.GtEq
}

func (p *Parser) parseAdditive() (ast.Expr, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.curTok.Kind == lexer.Plus || p.curTok.Kind == lexer.Minus {
		tok := p.curTok
		op := tok.Value
		p.nextToken()
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Token: tok, Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseMultiplicative() (ast.Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.curTok.Kind == lexer.Star || p.curTok.Kind == lexer.Slash || p.curTok.Kind == lexer.Percent {
		tok := p.curTok
		op := tok.Value
		p.nextToken()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Token: tok, Op: op, Left: left, Right: right}
	}
	return left, nil
}

// parseUnary handles "!" directly and rewrites unary "-" as "0 - x" per
// §4.4 ("Unary -x is rewritten as 0 - x").
func (p *Parser) parseUnary() (ast.Expr, error) {
	if p.curTok.Kind == lexer.Bang {
		tok := p.curTok
		p.nextToken()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Token: tok, Op: "!", Right: right}, nil
	}
	if p.curTok.Kind == lexer.Minus {
		tok := p.curTok
		p.nextToken()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		zero := &ast.IntLit{Token: tok, Value: 0}
		return &ast.BinaryExpr{Token: tok, Op: "-", Left: zero, Right: right}, nil
	}
	return p.parsePostfix()
}

// parsePostfix admits any sequence of .name, .name(args), [expr], ++ in
// any order after a primary (§4.3 "Postfix chaining").
func (p *Parser) parsePostfix() (ast.Expr, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.curTok.Kind {
		case lexer.Dot:
			tok := p.curTok
			p.nextToken()
			name, err := p.expect(lexer.Ident)
			if err != nil {
				return nil, err
			}
			if p.curTok.Kind == lexer.LParen {
				args, err := p.parseArgs()
				if err != nil {
					return nil, err
				}
				expr = &ast.MethodCallExpr{Token: tok, Receiver: expr, Name: name.Value, Args: args}
			} else {
				expr = &ast.PropertyExpr{Token: tok, Receiver: expr, Name: name.Value}
			}
		case lexer.LBracket:
			tok := p.curTok
			p.nextToken()
			idx, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(lexer.RBracket); err != nil {
				return nil, err
			}
			expr = &ast.IndexExpr{Token: tok, Receiver: expr, Index: idx}
		case lexer.Increment:
			tok := p.curTok
			p.nextToken()
			expr = &ast.PostIncrement{Token: tok, Target: expr}
		default:
			return expr, nil
		}
	}
}

func (p *Parser) parseArgs() ([]ast.Expr, error) {
	if _, err := p.expect(lexer.LParen); err != nil {
		return nil, err
	}
	var args []ast.Expr
	for p.curTok.Kind != lexer.RParen {
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.curTok.Kind == lexer.Comma {
			p.nextToken()
			continue
		}
		break
	}
	if _, err := p.expect(lexer.RParen); err != nil {
		return nil, err
	}
	return args, nil
}

func (p *Parser) parsePrimary() (ast.Expr, error) {
	tok := p.curTok
	switch tok.Kind {
	case lexer.Int:
		p.nextToken()
		var v int64
		fmt.Sscanf(tok.Value, "%d", &v)
		return &ast.IntLit{Token: tok, Value: v}, nil
	case lexer.Float:
		p.nextToken()
		var v float64
		fmt.Sscanf(tok.Value, "%g", &v)
		return &ast.FloatLit{Token: tok, Value: v}, nil
	case lexer.String:
		p.nextToken()
		return &ast.StringLit{Token: tok, Value: tok.Value}, nil
	case lexer.Bool:
		p.nextToken()
		return &ast.BoolLit{Token: tok, Value: tok.Value == "true"}, nil
	case lexer.Null:
		p.nextToken()
		return &ast.NullLit{Token: tok}, nil
	case lexer.Ident:
		p.nextToken()
		if p.curTok.Kind == lexer.LParen {
			args, err := p.parseArgs()
			if err != nil {
				return nil, err
			}
			return &ast.CallExpr{Token: tok, Name: tok.Value, Args: args}, nil
		}
		return &ast.Ident{Token: tok, Name: tok.Value}, nil
	case lexer.LParen:
		p.nextToken()
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RParen); err != nil {
			return nil, err
		}
		return expr, nil
	case lexer.LBracket:
		p.nextToken()
		var elems []ast.Expr
		for p.curTok.Kind != lexer.RBracket {
			elem, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			elems = append(elems, elem)
			if p.curTok.Kind == lexer.Comma {
				p.nextToken()
				continue
			}
			break
		}
		if _, err := p.expect(lexer.RBracket); err != nil {
			return nil, err
		}
		return &ast.ArrayLit{Token: tok, Elems: elems}, nil
	case lexer.LBrace:
		return p.parseDictLit()
	}
	return nil, p.errorf("unexpected token %v %q in expression", tok.Kind, tok.Value)
}

// parseDictLit parses the SPEC_FULL §3 supplement { "key": expr, ... }.
// Keys are a string literal or a bare identifier (used as its literal
// name, not looked up).
func (p *Parser) parseDictLit() (ast.Expr, error) {
	tok := p.curTok
	p.nextToken() // consume '{'
	dict := &ast.DictLit{Token: tok}
	for p.curTok.Kind != lexer.RBrace {
		var key string
		switch p.curTok.Kind {
		case lexer.String:
			key = p.curTok.Value
			p.nextToken()
		case lexer.Ident:
			key = p.curTok.Value
			p.nextToken()
		default:
			return nil, p.errorf("expected dict key (string or identifier), got %v", p.curTok.Kind)
		}
		if _, err := p.expect(lexer.Colon); err != nil {
			return nil, err
		}
		val, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		dict.Keys = append(dict.Keys, key)
		dict.Values = append(dict.Values, val)
		if p.curTok.Kind == lexer.Comma {
			p.nextToken()
			continue
		}
		break
	}
	if _, err := p.expect(lexer.RBrace); err != nil {
		return nil, err
	}
	return dict, nil
}
