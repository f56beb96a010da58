package lexer_test

import (
	"testing"

	"github.com/hpl-lang/hpl/pkg/lexer"
)

func kinds(toks []lexer.Token) []lexer.Kind {
	out := make([]lexer.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestTokenizeExpression(t *testing.T) {
	toks, err := lexer.New(`1 + 2 * 3`).Tokenize()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []lexer.Kind{lexer.Int, lexer.Plus, lexer.Int, lexer.Star, lexer.Int, lexer.EOF}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestTokenizeStringEscapes(t *testing.T) {
	toks, err := lexer.New(`"a\nb"`).Tokenize()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if toks[0].Kind != lexer.String || toks[0].Value != "a\nb" {
		t.Errorf("got %+v", toks[0])
	}
}

func TestTokenizeKeywordsAndLiterals(t *testing.T) {
	toks, err := lexer.New(`if true && false`).Tokenize()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []lexer.Kind{lexer.Keyword, lexer.Bool, lexer.AndAnd, lexer.Bool, lexer.EOF}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestIndentAndDedent(t *testing.T) {
	src := "if (x):\n    echo 1\n    echo 2\necho 3\n"
	toks, err := lexer.New(src).Tokenize()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var foundIndent, foundDedent bool
	for _, tok := range toks {
		if tok.Kind == lexer.Indent {
			foundIndent = true
		}
		if tok.Kind == lexer.Dedent {
			foundDedent = true
		}
	}
	if !foundIndent || !foundDedent {
		t.Errorf("expected both Indent and Dedent tokens in %v", toks)
	}
}

func TestInconsistentDedentIsLexicalError(t *testing.T) {
	src := "if (x):\n    echo 1\n  echo 2\n"
	_, err := lexer.New(src).Tokenize()
	if err == nil {
		t.Fatalf("expected a lexical error for inconsistent dedent")
	}
	if _, ok := err.(*lexer.Error); !ok {
		t.Errorf("expected *lexer.Error, got %T", err)
	}
}

func TestUnterminatedStringIsLexicalError(t *testing.T) {
	_, err := lexer.New(`"unterminated`).Tokenize()
	if err == nil {
		t.Fatalf("expected a lexical error")
	}
}

func TestBlankAndCommentLinesDoNotAffectIndentStack(t *testing.T) {
	src := "echo 1\n\n   # a comment\necho 2\n"
	toks, err := lexer.New(src).Tokenize()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, tok := range toks {
		if tok.Kind == lexer.Indent || tok.Kind == lexer.Dedent {
			t.Errorf("did not expect indentation change, got %v", toks)
		}
	}
}
