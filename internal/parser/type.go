package parser

import (
	"github.com/naab-lang/naab/internal/ast"
	"github.com/naab-lang/naab/internal/token"
)

// parseType parses a type annotation: a name, optional `<...>` type
// arguments (for list<T>, dict<K,V>, or a generic struct), optional
// `| member | ...` union tail, and a trailing `?` for nullable.
func (p *Parser) parseType() (*ast.TypeExpr, error) {
	pos := p.cur.Pos
	first, err := p.parseTypeAtom(pos)
	if err != nil {
		return nil, err
	}
	if p.at(token.UNION_PIPE) {
		members := []*ast.TypeExpr{first}
		for p.at(token.UNION_PIPE) {
			if err := p.advance(); err != nil {
				return nil, err
			}
			next, err := p.parseTypeAtom(p.cur.Pos)
			if err != nil {
				return nil, err
			}
			members = append(members, next)
		}
		first = &ast.TypeExpr{Position: pos, Name: "union", Union: members}
	}
	if p.at(token.QUESTION) {
		if err := p.advance(); err != nil {
			return nil, err
		}
		first.Nullable = true
	}
	return first, nil
}

func (p *Parser) parseTypeAtom(pos token.Position) (*ast.TypeExpr, error) {
	name, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	te := &ast.TypeExpr{Position: pos, Name: name.Literal}
	switch name.Literal {
	case "list":
		if _, err := p.expect(token.LT); err != nil {
			return nil, err
		}
		elem, err := p.parseType()
		if err != nil {
			return nil, err
		}
		te.ElementType = elem
		if _, err := p.expect(token.GT); err != nil {
			return nil, err
		}
	case "dict":
		if _, err := p.expect(token.LT); err != nil {
			return nil, err
		}
		key, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.COMMA); err != nil {
			return nil, err
		}
		val, err := p.parseType()
		if err != nil {
			return nil, err
		}
		te.KeyType, te.ValueType = key, val
		if _, err := p.expect(token.GT); err != nil {
			return nil, err
		}
	default:
		if p.at(token.LT) {
			if err := p.advance(); err != nil {
				return nil, err
			}
			for {
				arg, err := p.parseType()
				if err != nil {
					return nil, err
				}
				te.TypeArguments = append(te.TypeArguments, arg)
				if p.at(token.COMMA) {
					if err := p.advance(); err != nil {
						return nil, err
					}
					continue
				}
				break
			}
			if _, err := p.expect(token.GT); err != nil {
				return nil, err
			}
		}
	}
	return te, nil
}
