package parser

import (
	"github.com/naab-lang/naab/internal/ast"
	"github.com/naab-lang/naab/internal/token"
)

// parseUse parses `use path [as alias]` and the block-identifier
// version-range form `use BLOCK-X >= 1.2, < 2.0 [as alias]` (spec §4.6,
// §4.7). An aliased use binds alias; a plain use binds the final path
// segment.
func (p *Parser) parseUse() (ast.Stmt, error) {
	pos := p.cur.Pos
	if err := p.advance(); err != nil {
		return nil, err
	}
	pathTok, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	path := pathTok.Literal
	for p.at(token.DOT) {
		if err := p.advance(); err != nil {
			return nil, err
		}
		seg, err := p.expect(token.IDENT)
		if err != nil {
			return nil, err
		}
		path += "." + seg.Literal
	}

	stmt := &ast.UseStmt{Position: pos, Path: path}

	if p.at(token.GT) || p.at(token.GTE) {
		op := ">"
		if p.at(token.GTE) {
			op = ">="
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		ver, err := p.expect(token.FLOAT)
		if err != nil {
			ver, err = p.expect(token.INT)
			if err != nil {
				return nil, err
			}
		}
		stmt.VersionMin, stmt.VersionMinOp = ver.Literal, op
		if p.at(token.COMMA) {
			if err := p.advance(); err != nil {
				return nil, err
			}
			op2 := "<"
			if p.at(token.LTE) {
				op2 = "<="
			}
			if err := p.advance(); err != nil {
				return nil, err
			}
			ver2, err := p.expect(token.FLOAT)
			if err != nil {
				ver2, err = p.expect(token.INT)
				if err != nil {
					return nil, err
				}
			}
			stmt.VersionMax, stmt.VersionMaxOp = ver2.Literal, op2
		}
	}

	if p.at(token.AS) {
		if err := p.advance(); err != nil {
			return nil, err
		}
		alias, err := p.expect(token.IDENT)
		if err != nil {
			return nil, err
		}
		stmt.Alias = alias.Literal
	}
	return stmt, nil
}

func (p *Parser) parseImport() (ast.Stmt, error) {
	pos := p.cur.Pos
	if err := p.advance(); err != nil {
		return nil, err
	}
	pathTok, err := p.expect(token.STRING)
	if err != nil {
		return nil, err
	}
	stmt := &ast.ImportStmt{Position: pos, Path: pathTok.Literal}
	if p.at(token.AS) {
		if err := p.advance(); err != nil {
			return nil, err
		}
		alias, err := p.expect(token.IDENT)
		if err != nil {
			return nil, err
		}
		stmt.Alias = alias.Literal
	}
	return stmt, nil
}

func (p *Parser) parseExport() (ast.Stmt, error) {
	pos := p.cur.Pos
	if err := p.advance(); err != nil {
		return nil, err
	}
	name, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	return &ast.ExportStmt{Position: pos, Name: name.Literal}, nil
}

func (p *Parser) parseTypeParameters() ([]string, error) {
	if !p.at(token.LT) {
		return nil, nil
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	var names []string
	for {
		name, err := p.expect(token.IDENT)
		if err != nil {
			return nil, err
		}
		names = append(names, name.Literal)
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
	return names, nil
}

func (p *Parser) parseStruct() (ast.Stmt, error) {
	pos := p.cur.Pos
	if err := p.advance(); err != nil {
		return nil, err
	}
	name, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	typeParams, err := p.parseTypeParameters()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}
	decl := &ast.StructDecl{Position: pos, Name: name.Literal, TypeParameters: typeParams}
	for !p.at(token.RBRACE) {
		fname, err := p.expect(token.IDENT)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.COLON); err != nil {
			return nil, err
		}
		ftype, err := p.parseType()
		if err != nil {
			return nil, err
		}
		decl.Fields = append(decl.Fields, ast.FieldDecl{Name: fname.Literal, Type: ftype})
		if p.at(token.COMMA) {
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
	}
	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}
	return decl, nil
}

func (p *Parser) parseEnum() (ast.Stmt, error) {
	pos := p.cur.Pos
	if err := p.advance(); err != nil {
		return nil, err
	}
	name, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}
	decl := &ast.EnumDecl{Position: pos, Name: name.Literal}
	for !p.at(token.RBRACE) {
		mname, err := p.expect(token.IDENT)
		if err != nil {
			return nil, err
		}
		member := ast.EnumMember{Name: mname.Literal}
		if p.at(token.ASSIGN) {
			if err := p.advance(); err != nil {
				return nil, err
			}
			val, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			member.Value = val
		}
		decl.Members = append(decl.Members, member)
		if p.at(token.COMMA) {
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
	}
	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}
	return decl, nil
}

func (p *Parser) parseParamList() ([]ast.Param, error) {
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	var params []ast.Param
	for !p.at(token.RPAREN) {
		name, err := p.expect(token.IDENT)
		if err != nil {
			return nil, err
		}
		param := ast.Param{Name: name.Literal}
		if p.at(token.COLON) {
			if err := p.advance(); err != nil {
				return nil, err
			}
			ty, err := p.parseType()
			if err != nil {
				return nil, err
			}
			param.Type = ty
		}
		params = append(params, param)
		if p.at(token.COMMA) {
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	return params, nil
}

// parseFunction parses `function name<T,...>(params) -> RetType { body }`.
// An omitted return type is recorded as nil and treated as Any; no
// return-type inference is performed.
func (p *Parser) parseFunction() (ast.Stmt, error) {
	pos := p.cur.Pos
	if err := p.advance(); err != nil {
		return nil, err
	}
	name, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	typeParams, err := p.parseTypeParameters()
	if err != nil {
		return nil, err
	}
	params, err := p.parseParamList()
	if err != nil {
		return nil, err
	}
	var retType *ast.TypeExpr
	if p.at(token.ARROW) {
		if err := p.advance(); err != nil {
			return nil, err
		}
		retType, err = p.parseType()
		if err != nil {
			return nil, err
		}
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.FunctionDecl{
		Position: pos, Name: name.Literal, TypeParameters: typeParams,
		Params: params, ReturnType: retType, Body: body,
	}, nil
}

func (p *Parser) parseMain() (ast.Stmt, error) {
	pos := p.cur.Pos
	if err := p.advance(); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.MainStmt{Position: pos, Body: body}, nil
}
