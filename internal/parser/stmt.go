package parser

import (
	"github.com/naab-lang/naab/internal/ast"
	"github.com/naab-lang/naab/internal/errtax"
	"github.com/naab-lang/naab/internal/token"
)

func (p *Parser) parseBlock() (*ast.Block, error) {
	pos := p.cur.Pos
	if _, err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}
	blk := &ast.Block{Position: pos}
	for !p.at(token.RBRACE) {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		blk.Stmts = append(blk.Stmts, stmt)
	}
	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}
	return blk, nil
}

func (p *Parser) parseStatement() (ast.Stmt, error) {
	switch p.cur.Kind {
	case token.LET, token.CONST:
		return p.parseVarDecl()
	case token.IF:
		return p.parseIf()
	case token.WHILE:
		return p.parseWhile()
	case token.FOR:
		return p.parseFor()
	case token.BREAK:
		pos := p.cur.Pos
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &ast.BreakStmt{Position: pos}, nil
	case token.CONTINUE:
		pos := p.cur.Pos
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &ast.ContinueStmt{Position: pos}, nil
	case token.RETURN:
		return p.parseReturn()
	case token.TRY:
		return p.parseTry()
	case token.THROW:
		return p.parseThrow()
	case token.FUNCTION:
		return p.parseFunction()
	case token.STRUCT:
		return p.parseStruct()
	case token.LBRACE:
		return p.parseBlock()
	default:
		return p.parseExprOrAssignStatement()
	}
}

func (p *Parser) parseVarDecl() (ast.Stmt, error) {
	pos := p.cur.Pos
	isConst := p.at(token.CONST)
	if err := p.advance(); err != nil {
		return nil, err
	}
	name, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	decl := &ast.VarDecl{Position: pos, Name: name.Literal, Const: isConst}
	if p.at(token.COLON) {
		if err := p.advance(); err != nil {
			return nil, err
		}
		ty, err := p.parseType()
		if err != nil {
			return nil, err
		}
		decl.Type = ty
	}
	if _, err := p.expect(token.ASSIGN); err != nil {
		return nil, err
	}
	val, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	decl.Value = val
	return decl, nil
}

// parseCondition parses a parenthesized-or-bare condition expression and
// rejects a top-level `=` as AccidentalAssignment (spec §4.2): `if x = y`
// is almost always a typo for `==`.
func (p *Parser) parseCondition() (ast.Expr, error) {
	pos := p.cur.Pos
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, isAssign := cond.(*ast.Assign); isAssign {
		return nil, &errtax.Error{
			Kind:     errtax.KindAccidentalAssign,
			Message:  "assignment in condition; did you mean '=='?",
			Location: &errtax.SourceLocation{Line: pos.Line, Column: pos.Column},
		}
	}
	return cond, nil
}

func (p *Parser) parseIf() (ast.Stmt, error) {
	pos := p.cur.Pos
	if err := p.advance(); err != nil {
		return nil, err
	}
	cond, err := p.parseCondition()
	if err != nil {
		return nil, err
	}
	then, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	stmt := &ast.IfStmt{Position: pos, Cond: cond, Then: then}
	if p.at(token.ELSE) {
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.at(token.IF) {
			elseIf, err := p.parseIf()
			if err != nil {
				return nil, err
			}
			stmt.Else = elseIf
		} else {
			elseBlk, err := p.parseBlock()
			if err != nil {
				return nil, err
			}
			stmt.Else = elseBlk
		}
	}
	return stmt, nil
}

func (p *Parser) parseWhile() (ast.Stmt, error) {
	pos := p.cur.Pos
	if err := p.advance(); err != nil {
		return nil, err
	}
	cond, err := p.parseCondition()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.WhileStmt{Position: pos, Cond: cond, Body: body}, nil
}

func (p *Parser) parseFor() (ast.Stmt, error) {
	pos := p.cur.Pos
	if err := p.advance(); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	var init ast.Stmt
	if !p.at(token.SEMI) {
		var err error
		if p.at(token.LET) || p.at(token.CONST) {
			init, err = p.parseVarDecl()
		} else {
			init, err = p.parseExprOrAssignStatement()
		}
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(token.SEMI); err != nil {
		return nil, err
	}
	var cond ast.Expr
	if !p.at(token.SEMI) {
		var err error
		cond, err = p.parseCondition()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(token.SEMI); err != nil {
		return nil, err
	}
	var post ast.Stmt
	if !p.at(token.RPAREN) {
		var err error
		post, err = p.parseExprOrAssignStatement()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.ForStmt{Position: pos, Init: init, Cond: cond, Post: post, Body: body}, nil
}

func (p *Parser) parseReturn() (ast.Stmt, error) {
	pos := p.cur.Pos
	if err := p.advance(); err != nil {
		return nil, err
	}
	stmt := &ast.ReturnStmt{Position: pos}
	if !p.at(token.RBRACE) && !p.at(token.SEMI) {
		val, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		stmt.Value = val
	}
	return stmt, nil
}

func (p *Parser) parseTry() (ast.Stmt, error) {
	pos := p.cur.Pos
	if err := p.advance(); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	stmt := &ast.TryStmt{Position: pos, Body: body}
	if p.at(token.CATCH) {
		if err := p.advance(); err != nil {
			return nil, err
		}
		var name string
		if p.at(token.LPAREN) {
			if err := p.advance(); err != nil {
				return nil, err
			}
			nameTok, err := p.expect(token.IDENT)
			if err != nil {
				return nil, err
			}
			name = nameTok.Literal
			if _, err := p.expect(token.RPAREN); err != nil {
				return nil, err
			}
		}
		catchBody, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		stmt.Catch = &ast.CatchClause{Name: name, Body: catchBody}
	}
	if p.at(token.FINALLY) {
		if err := p.advance(); err != nil {
			return nil, err
		}
		finallyBody, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		stmt.Finally = finallyBody
	}
	if stmt.Catch == nil && stmt.Finally == nil {
		return nil, &errtax.Error{
			Kind:     errtax.KindSyntax,
			Message:  "try block requires at least one of catch or finally",
			Location: &errtax.SourceLocation{Line: pos.Line, Column: pos.Column},
		}
	}
	return stmt, nil
}

func (p *Parser) parseThrow() (ast.Stmt, error) {
	pos := p.cur.Pos
	if err := p.advance(); err != nil {
		return nil, err
	}
	val, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.ThrowStmt{Position: pos, Value: val}, nil
}

// parseExprOrAssignStatement parses a bare expression statement, including
// plain assignment (`x = v`) and index assignment (`arr[i] = v`).
func (p *Parser) parseExprOrAssignStatement() (ast.Stmt, error) {
	pos := p.cur.Pos
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if assign, ok := expr.(*ast.Assign); ok {
		if idx, ok := assign.Target.(*ast.Index); ok {
			return &ast.IndexAssign{Position: pos, Target: idx.Target, Key: idx.Key, Value: assign.Value}, nil
		}
	}
	return &ast.ExprStmt{Position: pos, X: expr}, nil
}
