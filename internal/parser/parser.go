// Package parser implements naab's recursive-descent parser with
// Pratt-style precedence climbing for expressions, one file per grammar
// area (this file: driver and toplevel dispatch; toplevel.go; expr.go,
// which also splits polyglot literals; stmt.go; type.go), mirroring the teacher's one-concern-per-file convention.
package parser

import (
	"github.com/naab-lang/naab/internal/ast"
	"github.com/naab-lang/naab/internal/errtax"
	"github.com/naab-lang/naab/internal/lexer"
	"github.com/naab-lang/naab/internal/token"
)

// Parser turns a token stream into a *ast.Program.
type Parser struct {
	lex       *lexer.Lexer
	cur, next token.Token
	err       error
}

// New creates a Parser over src.
func New(src string) (*Parser, error) {
	p := &Parser{lex: lexer.New(src)}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Parser) advance() error {
	p.cur = p.next
	tok, err := p.lex.Next()
	if err != nil {
		return err
	}
	p.next = tok
	return nil
}

func (p *Parser) at(k token.Kind) bool { return p.cur.Kind == k }

func (p *Parser) expect(k token.Kind) (token.Token, error) {
	if p.cur.Kind != k {
		if _, reserved := token.Keywords[p.cur.Kind.String()]; reserved && k == token.IDENT {
			return token.Token{}, p.errorf(errtax.KindReservedKeyword,
				"reserved keyword '"+p.cur.Kind.String()+"' used where an identifier was expected")
		}
		return token.Token{}, p.errorf(errtax.KindSyntax, "expected "+k.String()+", got "+p.cur.Kind.String())
	}
	tok := p.cur
	if err := p.advance(); err != nil {
		return token.Token{}, err
	}
	return tok, nil
}

func (p *Parser) errorf(kind errtax.Kind, msg string) error {
	return &errtax.Error{
		Kind:     kind,
		Message:  msg,
		Location: &errtax.SourceLocation{Line: p.cur.Pos.Line, Column: p.cur.Pos.Column},
	}
}

// snapshot/restore implement the bounded single-step speculative lookahead
// the generic-call disambiguation needs (spec §4.1): the parser tries
// parsing `f<...>` as type arguments and restores to this mark on failure.
type mark struct {
	lexMark   lexer.Mark
	cur, next token.Token
}

func (p *Parser) snapshot() mark {
	return mark{lexMark: p.lex.Snapshot(), cur: p.cur, next: p.next}
}

func (p *Parser) restore(m mark) {
	p.lex.Restore(m.lexMark)
	p.cur, p.next = m.cur, m.next
}

// Parse parses the entire token stream into a Program. Only use, import,
// export, struct, enum, function, and main are accepted at top level
// (spec §4.1); a let/const there raises MisplacedStatement.
func (p *Parser) Parse() (*ast.Program, error) {
	prog := &ast.Program{Position: p.cur.Pos}
	for !p.at(token.EOF) {
		decl, err := p.parseTopLevel()
		if err != nil {
			return nil, err
		}
		prog.Decls = append(prog.Decls, decl)
	}
	return prog, nil
}

func (p *Parser) parseTopLevel() (ast.Stmt, error) {
	switch p.cur.Kind {
	case token.USE:
		return p.parseUse()
	case token.IMPORT:
		return p.parseImport()
	case token.EXPORT:
		return p.parseExport()
	case token.STRUCT:
		return p.parseStruct()
	case token.ENUM:
		return p.parseEnum()
	case token.FUNCTION:
		return p.parseFunction()
	case token.MAIN:
		return p.parseMain()
	case token.LET, token.CONST:
		return nil, p.errorf(errtax.KindMisplacedStatement,
			"misplaced statement: let/const is not legal at top level; "+
				"legal top-level constructs are use, import, export, struct, enum, function, main")
	default:
		return nil, p.errorf(errtax.KindMisplacedStatement,
			"misplaced statement: unexpected "+p.cur.Kind.String()+" at top level")
	}
}
