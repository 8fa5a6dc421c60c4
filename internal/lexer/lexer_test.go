package lexer

import (
	"strings"
	"testing"

	"github.com/naab-lang/naab/internal/token"
)

func scanAll(t *testing.T, src string) []token.Token {
	t.Helper()
	l := New(src)
	var toks []token.Token
	for {
		tok, err := l.Next()
		if err != nil {
			t.Fatalf("unexpected lexer error: %v", err)
		}
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			return toks
		}
	}
}

func TestLexer_KeywordsAndIdents(t *testing.T) {
	toks := scanAll(t, "let x = 10")
	want := []token.Kind{token.LET, token.IDENT, token.ASSIGN, token.INT, token.EOF}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %+v", len(toks), len(want), toks)
	}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Errorf("token %d: got %v, want %v", i, toks[i].Kind, k)
		}
	}
}

func TestLexer_PolyglotBlock(t *testing.T) {
	src := "<<python[a, b]\na + b\n>>\n"
	l := New(src)
	tok, err := l.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tok.Kind != token.POLYGLOT {
		t.Fatalf("expected POLYGLOT token, got %v", tok.Kind)
	}
}

func TestLexer_PolyglotCloseMarkerMustBeAtColumnOne(t *testing.T) {
	// a ">>" that appears mid-line must NOT close the block.
	src := "<<shell[]\necho '>>'\n>>\n"
	l := New(src)
	tok, err := l.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tok.Kind != token.POLYGLOT {
		t.Fatalf("expected POLYGLOT token, got %v", tok.Kind)
	}
	if !strings.Contains(tok.Literal, "echo '>>'") {
		t.Fatalf("expected the mid-line >> to stay inside the captured body, got %q", tok.Literal)
	}
}

func TestLexer_StringEscapes(t *testing.T) {
	toks := scanAll(t, `"a\nb"`)
	if toks[0].Kind != token.STRING || toks[0].Literal != "a\nb" {
		t.Fatalf("unexpected string token: %+v", toks[0])
	}
}

func TestLexer_Operators(t *testing.T) {
	toks := scanAll(t, "|> -> <= >= == != |")
	want := []token.Kind{
		token.PIPE, token.ARROW, token.LTE, token.GTE, token.EQ, token.NEQ, token.UNION_PIPE, token.EOF,
	}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Errorf("token %d: got %v, want %v", i, toks[i].Kind, k)
		}
	}
}
