package parser

import (
	"strconv"
	"strings"

	"github.com/naab-lang/naab/internal/ast"
	"github.com/naab-lang/naab/internal/errtax"
	"github.com/naab-lang/naab/internal/token"
)

// parseExpr is the entry point for the full precedence chain, topped by
// assignment (lowest) and the pipeline operator.
func (p *Parser) parseExpr() (ast.Expr, error) {
	return p.parseAssign()
}

// parseAssign handles `target = value`, right-associative, and sits above
// the pipeline operator so `x = a |> f` parses as `x = (a |> f)`.
func (p *Parser) parseAssign() (ast.Expr, error) {
	left, err := p.parsePipeline()
	if err != nil {
		return nil, err
	}
	if p.at(token.ASSIGN) {
		pos := p.cur.Pos
		if err := p.advance(); err != nil {
			return nil, err
		}
		val, err := p.parseAssign()
		if err != nil {
			return nil, err
		}
		switch left.(type) {
		case *ast.Ident, *ast.Member, *ast.Index:
			return &ast.Assign{Position: pos, Target: left, Value: val}, nil
		default:
			return nil, &errtax.Error{
				Kind:     errtax.KindSyntax,
				Message:  "invalid assignment target",
				Location: &errtax.SourceLocation{Line: pos.Line, Column: pos.Column},
			}
		}
	}
	return left, nil
}

// parsePipeline handles left-associative `|>`. The right-hand side is kept
// as an unevaluated expression node; lazy evaluation is the evaluator's
// responsibility, not the parser's.
func (p *Parser) parsePipeline() (ast.Expr, error) {
	left, err := p.parseIfExpr()
	if err != nil {
		return nil, err
	}
	for p.at(token.PIPE) {
		pos := p.cur.Pos
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseIfExpr()
		if err != nil {
			return nil, err
		}
		left = &ast.Pipeline{Position: pos, Left: left, Right: right}
	}
	return left, nil
}

// parseIfExpr handles the expression-position conditional `if cond x else y`,
// distinct from the IfStmt handled in stmt.go.
func (p *Parser) parseIfExpr() (ast.Expr, error) {
	if !p.at(token.IF) {
		return p.parseLogicalOr()
	}
	pos := p.cur.Pos
	if err := p.advance(); err != nil {
		return nil, err
	}
	cond, err := p.parseLogicalOr()
	if err != nil {
		return nil, err
	}
	then, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.ELSE); err != nil {
		return nil, err
	}
	els, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.IfExpr{Position: pos, Cond: cond, Then: then, Else: els}, nil
}

func (p *Parser) parseLogicalOr() (ast.Expr, error) {
	left, err := p.parseLogicalAnd()
	if err != nil {
		return nil, err
	}
	for p.at(token.OR) {
		pos := p.cur.Pos
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseLogicalAnd()
		if err != nil {
			return nil, err
		}
		left = &ast.Logical{Position: pos, Op: ast.LogicalOr, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseLogicalAnd() (ast.Expr, error) {
	left, err := p.parseEquality()
	if err != nil {
		return nil, err
	}
	for p.at(token.AND) {
		pos := p.cur.Pos
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseEquality()
		if err != nil {
			return nil, err
		}
		left = &ast.Logical{Position: pos, Op: ast.LogicalAnd, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseEquality() (ast.Expr, error) {
	left, err := p.parseRelational()
	if err != nil {
		return nil, err
	}
	for p.at(token.EQ) || p.at(token.NEQ) {
		op := ast.CmpEq
		if p.at(token.NEQ) {
			op = ast.CmpNeq
		}
		pos := p.cur.Pos
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseRelational()
		if err != nil {
			return nil, err
		}
		left = &ast.Comparison{Position: pos, Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseRelational() (ast.Expr, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for p.at(token.LT) || p.at(token.LTE) || p.at(token.GT) || p.at(token.GTE) {
		var op ast.CompareOp
		switch p.cur.Kind {
		case token.LT:
			op = ast.CmpLt
		case token.LTE:
			op = ast.CmpLte
		case token.GT:
			op = ast.CmpGt
		case token.GTE:
			op = ast.CmpGte
		}
		pos := p.cur.Pos
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		left = &ast.Comparison{Position: pos, Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseAdditive() (ast.Expr, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.at(token.PLUS) || p.at(token.MINUS) {
		op := ast.BinAdd
		if p.at(token.MINUS) {
			op = ast.BinSub
		}
		pos := p.cur.Pos
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Position: pos, Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseMultiplicative() (ast.Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.at(token.STAR) || p.at(token.SLASH) || p.at(token.PERCENT) {
		var op ast.BinaryOp
		switch p.cur.Kind {
		case token.STAR:
			op = ast.BinMul
		case token.SLASH:
			op = ast.BinDiv
		case token.PERCENT:
			op = ast.BinMod
		}
		pos := p.cur.Pos
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Position: pos, Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseUnary() (ast.Expr, error) {
	if p.at(token.MINUS) || p.at(token.NOT) {
		op := ast.UnaryNeg
		if p.at(token.NOT) {
			op = ast.UnaryNot
		}
		pos := p.cur.Pos
		if err := p.advance(); err != nil {
			return nil, err
		}
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.Unary{Position: pos, Op: op, Operand: operand}, nil
	}
	return p.parseCallOrMember()
}

func (p *Parser) parseCallOrMember() (ast.Expr, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.at(token.DOT):
			if err := p.advance(); err != nil {
				return nil, err
			}
			name, err := p.expect(token.IDENT)
			if err != nil {
				return nil, err
			}
			expr = &ast.Member{Position: name.Pos, Target: expr, Name: name.Literal}
		case p.at(token.LBRACKET):
			pos := p.cur.Pos
			if err := p.advance(); err != nil {
				return nil, err
			}
			key, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.RBRACKET); err != nil {
				return nil, err
			}
			expr = &ast.Index{Position: pos, Target: expr, Key: key}
		case p.at(token.LPAREN):
			call, err := p.parseCallArgs(expr, nil)
			if err != nil {
				return nil, err
			}
			expr = call
		case p.at(token.LT):
			call, ok, err := p.tryParseGenericCall(expr)
			if err != nil {
				return nil, err
			}
			if !ok {
				return expr, nil
			}
			expr = call
		default:
			return expr, nil
		}
	}
}

// tryParseGenericCall speculatively parses `callee<T,...>(args)`, used to
// disambiguate an explicit generic-call type argument list from a
// less-than comparison (spec §4.1). On any parse failure along the way,
// the scanner and token buffer are rewound to the point before the `<`
// and the caller falls back to treating it as a comparison.
func (p *Parser) tryParseGenericCall(callee ast.Expr) (ast.Expr, bool, error) {
	m := p.snapshot()
	if err := p.advance(); err != nil { // consume '<'
		p.restore(m)
		return nil, false, nil
	}
	var typeArgs []*ast.TypeExpr
	for {
		ty, err := p.parseType()
		if err != nil {
			p.restore(m)
			return nil, false, nil
		}
		typeArgs = append(typeArgs, ty)
		if p.at(token.COMMA) {
			if err := p.advance(); err != nil {
				p.restore(m)
				return nil, false, nil
			}
			continue
		}
		break
	}
	if !p.at(token.GT) {
		p.restore(m)
		return nil, false, nil
	}
	if err := p.advance(); err != nil {
		p.restore(m)
		return nil, false, nil
	}
	if !p.at(token.LPAREN) {
		p.restore(m)
		return nil, false, nil
	}
	call, err := p.parseCallArgs(callee, typeArgs)
	if err != nil {
		p.restore(m)
		return nil, false, nil
	}
	return call, true, nil
}

func (p *Parser) parseCallArgs(callee ast.Expr, typeArgs []*ast.TypeExpr) (ast.Expr, error) {
	pos := p.cur.Pos
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	var args []ast.Expr
	for !p.at(token.RPAREN) {
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.at(token.COMMA) {
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	return &ast.Call{Position: pos, Callee: callee, TypeArguments: typeArgs, Args: args}, nil
}

func (p *Parser) parsePrimary() (ast.Expr, error) {
	pos := p.cur.Pos
	switch p.cur.Kind {
	case token.INT:
		lit := p.cur.Literal
		if err := p.advance(); err != nil {
			return nil, err
		}
		v, err := strconv.ParseInt(lit, 10, 64)
		if err != nil {
			return nil, &errtax.Error{Kind: errtax.KindSyntax, Message: "invalid integer literal", Detail: lit,
				Location: &errtax.SourceLocation{Line: pos.Line, Column: pos.Column}}
		}
		return &ast.IntLit{Position: pos, Value: v}, nil
	case token.FLOAT:
		lit := p.cur.Literal
		if err := p.advance(); err != nil {
			return nil, err
		}
		v, err := strconv.ParseFloat(lit, 64)
		if err != nil {
			return nil, &errtax.Error{Kind: errtax.KindSyntax, Message: "invalid float literal", Detail: lit,
				Location: &errtax.SourceLocation{Line: pos.Line, Column: pos.Column}}
		}
		return &ast.FloatLit{Position: pos, Value: v}, nil
	case token.STRING:
		lit := p.cur.Literal
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &ast.StringLit{Position: pos, Value: lit}, nil
	case token.TRUE, token.FALSE:
		v := p.at(token.TRUE)
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &ast.BoolLit{Position: pos, Value: v}, nil
	case token.NULL:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &ast.NullLit{Position: pos}, nil
	case token.POLYGLOT:
		return p.parsePolyglotExpr()
	case token.NEW:
		return p.parseStructLit()
	case token.FUNCTION:
		return p.parseLambda()
	case token.LPAREN:
		if err := p.advance(); err != nil {
			return nil, err
		}
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		return inner, nil
	case token.LBRACKET:
		return p.parseArrayLit()
	case token.LBRACE:
		return p.parseDictLit()
	case token.IDENT:
		name := p.cur.Literal
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &ast.Ident{Position: pos, Name: name}, nil
	default:
		if _, isKeyword := token.Keywords[p.cur.Kind.String()]; isKeyword {
			return nil, &errtax.Error{
				Kind:     errtax.KindReservedKeyword,
				Message:  "reserved keyword used where an expression was expected",
				Detail:   p.cur.Kind.String(),
				Location: &errtax.SourceLocation{Line: pos.Line, Column: pos.Column},
			}
		}
		return nil, &errtax.Error{
			Kind:     errtax.KindSyntax,
			Message:  "unexpected token in expression",
			Detail:   p.cur.Kind.String(),
			Location: &errtax.SourceLocation{Line: pos.Line, Column: pos.Column},
		}
	}
}

func (p *Parser) parseArrayLit() (ast.Expr, error) {
	pos := p.cur.Pos
	if err := p.advance(); err != nil {
		return nil, err
	}
	lit := &ast.ArrayLit{Position: pos}
	for !p.at(token.RBRACKET) {
		el, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		lit.Elements = append(lit.Elements, el)
		if p.at(token.COMMA) {
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
	}
	if _, err := p.expect(token.RBRACKET); err != nil {
		return nil, err
	}
	return lit, nil
}

// parseDictLit parses `{ key: value, ... }` (spec §3's "literal (...,
// dict)" expression kind). A bare `new TypeName` (no `{`, handled by
// parseStructLit) is what disambiguates a struct literal from this one —
// both forms can start a statement, but only `new` introduces the former,
// so a leading `{` is unambiguously a dict literal here.
func (p *Parser) parseDictLit() (ast.Expr, error) {
	pos := p.cur.Pos
	if err := p.advance(); err != nil {
		return nil, err
	}
	lit := &ast.DictLit{Position: pos}
	for !p.at(token.RBRACE) {
		key, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.COLON); err != nil {
			return nil, err
		}
		val, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		lit.Entries = append(lit.Entries, ast.DictEntry{Key: key, Value: val})
		if p.at(token.COMMA) {
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
	}
	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}
	return lit, nil
}

// parseStructLit parses `new TypeName { field: value, ... }`. Any field,
// or all of them, may be omitted; the evaluator fills omitted nullable
// fields with null and rejects omitted non-nullable ones, so that check
// is the evaluator's, not the parser's.
func (p *Parser) parseStructLit() (ast.Expr, error) {
	pos := p.cur.Pos
	if err := p.advance(); err != nil {
		return nil, err
	}
	name, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	lit := &ast.StructLit{Position: pos, TypeName: name.Literal}
	if p.at(token.LBRACE) {
		if err := p.advance(); err != nil {
			return nil, err
		}
		for !p.at(token.RBRACE) {
			fname, err := p.expect(token.IDENT)
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.COLON); err != nil {
				return nil, err
			}
			val, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			lit.FieldNames = append(lit.FieldNames, fname.Literal)
			lit.FieldVals = append(lit.FieldVals, val)
			if p.at(token.COMMA) {
				if err := p.advance(); err != nil {
					return nil, err
				}
			}
		}
		if _, err := p.expect(token.RBRACE); err != nil {
			return nil, err
		}
	}
	return lit, nil
}

// parseLambda parses both the arrow form, `function(params) -> expr`, and
// the brace form, `function(params) { ... }`.
func (p *Parser) parseLambda() (ast.Expr, error) {
	pos := p.cur.Pos
	if err := p.advance(); err != nil {
		return nil, err
	}
	params, err := p.parseParamList()
	if err != nil {
		return nil, err
	}
	lam := &ast.Lambda{Position: pos}
	for _, pm := range params {
		lam.Params = append(lam.Params, ast.LambdaParam{Name: pm.Name, Type: pm.Type})
	}
	if p.at(token.ARROW) {
		if err := p.advance(); err != nil {
			return nil, err
		}
		if isTypeIntroducer(p.cur.Kind) && p.peekLooksLikeReturnType() {
			ty, err := p.parseType()
			if err != nil {
				return nil, err
			}
			lam.ReturnType = ty
			if _, err := p.expect(token.ARROW); err != nil {
				return nil, err
			}
		}
		body, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		lam.Body = body
		return lam, nil
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	lam.Body = body
	return lam, nil
}

// peekLooksLikeReturnType is a conservative heuristic: a return type
// annotation is only present when a second ARROW follows the type atom.
// Since that requires speculative parsing, delegate to snapshot/restore.
func (p *Parser) peekLooksLikeReturnType() bool {
	m := p.snapshot()
	defer p.restore(m)
	if _, err := p.parseType(); err != nil {
		return false
	}
	return p.at(token.ARROW)
}

func isTypeIntroducer(k token.Kind) bool { return k == token.IDENT }

// parsePolyglotExpr splits the lexer's whole-literal POLYGLOT token into
// its language, bindings, and body (spec §4.5). The lexer's literal
// encoding is `lang binding1,binding2,...\nbody`.
func (p *Parser) parsePolyglotExpr() (ast.Expr, error) {
	pos := p.cur.Pos
	lit := p.cur.Literal
	if err := p.advance(); err != nil {
		return nil, err
	}
	nl := strings.IndexByte(lit, '\n')
	if nl < 0 {
		return nil, &errtax.Error{Kind: errtax.KindMalformedPolyglot, Message: "malformed polyglot literal encoding",
			Location: &errtax.SourceLocation{Line: pos.Line, Column: pos.Column}}
	}
	header := lit[:nl]
	body := lit[nl+1:]
	sp := strings.IndexByte(header, ' ')
	if sp < 0 {
		return nil, &errtax.Error{Kind: errtax.KindMalformedPolyglot, Message: "malformed polyglot literal encoding",
			Location: &errtax.SourceLocation{Line: pos.Line, Column: pos.Column}}
	}
	lang := header[:sp]
	bindingsStr := header[sp+1:]
	var bindings []string
	if bindingsStr != "" {
		bindings = strings.Split(bindingsStr, ",")
	}
	return &ast.PolyglotBlock{Position: pos, Language: lang, Bindings: bindings, Body: body}, nil
}
