package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// Print renders prog back into naab source text. It is the pretty-printer
// half of spec §8's parser-idempotence property: reparsing Print's output
// must produce a tree Print renders identically (parse . print . parse .
// print is the identity on the second print), even though Print's output
// is not byte-identical to whatever the user originally wrote (comments
// and exact whitespace are not preserved — the AST doesn't carry them).
func Print(prog *Program) string {
	var p printer
	for i, d := range prog.Decls {
		if i > 0 {
			p.blank()
		}
		p.stmt(d)
	}
	return p.b.String()
}

type printer struct {
	b      strings.Builder
	indent int
}

func (p *printer) line(format string, args ...any) {
	p.b.WriteString(strings.Repeat("  ", p.indent))
	fmt.Fprintf(&p.b, format, args...)
	p.b.WriteByte('\n')
}

func (p *printer) blank() { p.b.WriteByte('\n') }

func (p *printer) stmt(s Stmt) {
	switch n := s.(type) {
	case *VarDecl:
		kw := "let"
		if n.Const {
			kw = "const"
		}
		ty := ""
		if n.Type != nil {
			ty = ": " + typeExpr(n.Type)
		}
		p.line("%s %s%s = %s;", kw, n.Name, ty, expr(n.Value))
	case *ExprStmt:
		p.line("%s;", expr(n.X))
	case *IndexAssign:
		p.line("%s[%s] = %s;", expr(n.Target), expr(n.Key), expr(n.Value))
	case *Block:
		p.block(n)
	case *IfStmt:
		p.ifStmt(n)
	case *WhileStmt:
		p.line("while (%s) {", expr(n.Cond))
		p.indent++
		p.stmtList(n.Body.Stmts)
		p.indent--
		p.line("}")
	case *ForStmt:
		init, cond, post := "", "", ""
		if n.Init != nil {
			init = strings.TrimSuffix(strings.TrimSpace(stmtFragment(n.Init)), ";")
		}
		if n.Cond != nil {
			cond = expr(n.Cond)
		}
		if n.Post != nil {
			post = strings.TrimSuffix(strings.TrimSpace(stmtFragment(n.Post)), ";")
		}
		p.line("for (%s; %s; %s) {", init, cond, post)
		p.indent++
		p.stmtList(n.Body.Stmts)
		p.indent--
		p.line("}")
	case *BreakStmt:
		p.line("break;")
	case *ContinueStmt:
		p.line("continue;")
	case *ReturnStmt:
		if n.Value == nil {
			p.line("return;")
		} else {
			p.line("return %s;", expr(n.Value))
		}
	case *FunctionDecl:
		p.funcDecl(n)
	case *StructDecl:
		p.structDecl(n)
	case *EnumDecl:
		p.enumDecl(n)
	case *UseStmt:
		p.line("%s", useStmtText(n))
	case *ImportStmt:
		alias := ""
		if n.Alias != "" {
			alias = " as " + n.Alias
		}
		p.line("import %q%s;", n.Path, alias)
	case *ExportStmt:
		p.line("export %s;", n.Name)
	case *MainStmt:
		p.line("main {")
		p.indent++
		p.stmtList(n.Body.Stmts)
		p.indent--
		p.line("}")
	case *TryStmt:
		p.tryStmt(n)
	case *ThrowStmt:
		p.line("throw %s;", expr(n.Value))
	default:
		p.line("/* unknown stmt %T */", s)
	}
}

func (p *printer) stmtList(stmts []Stmt) {
	for _, s := range stmts {
		p.stmt(s)
	}
}

func (p *printer) block(b *Block) {
	p.line("{")
	p.indent++
	p.stmtList(b.Stmts)
	p.indent--
	p.line("}")
}

func (p *printer) ifStmt(n *IfStmt) {
	p.line("if (%s) {", expr(n.Cond))
	p.indent++
	p.stmtList(n.Then.Stmts)
	p.indent--
	switch e := n.Else.(type) {
	case nil:
		p.line("}")
	case *Block:
		p.line("} else {")
		p.indent++
		p.stmtList(e.Stmts)
		p.indent--
		p.line("}")
	case *IfStmt:
		p.b.WriteString(strings.Repeat("  ", p.indent))
		p.b.WriteString("} else ")
		inner := &printer{}
		inner.ifStmt(e)
		p.b.WriteString(inner.b.String())
	}
}

func (p *printer) tryStmt(n *TryStmt) {
	p.line("try {")
	p.indent++
	p.stmtList(n.Body.Stmts)
	p.indent--
	if n.Catch != nil {
		p.line("} catch (%s) {", n.Catch.Name)
		p.indent++
		p.stmtList(n.Catch.Body.Stmts)
		p.indent--
	}
	if n.Finally != nil {
		p.line("} finally {")
		p.indent++
		p.stmtList(n.Finally.Stmts)
		p.indent--
	}
	p.line("}")
}

func (p *printer) funcDecl(n *FunctionDecl) {
	tp := ""
	if len(n.TypeParameters) > 0 {
		tp = "<" + strings.Join(n.TypeParameters, ", ") + ">"
	}
	params := make([]string, len(n.Params))
	for i, prm := range n.Params {
		params[i] = prm.Name
		if prm.Type != nil {
			params[i] += ": " + typeExpr(prm.Type)
		}
	}
	ret := ""
	if n.ReturnType != nil {
		ret = " -> " + typeExpr(n.ReturnType)
	}
	p.line("function %s%s(%s)%s {", n.Name, tp, strings.Join(params, ", "), ret)
	p.indent++
	p.stmtList(n.Body.Stmts)
	p.indent--
	p.line("}")
}

func (p *printer) structDecl(n *StructDecl) {
	tp := ""
	if len(n.TypeParameters) > 0 {
		tp = "<" + strings.Join(n.TypeParameters, ", ") + ">"
	}
	p.line("struct %s%s {", n.Name, tp)
	p.indent++
	for _, f := range n.Fields {
		p.line("%s: %s;", f.Name, typeExpr(f.Type))
	}
	p.indent--
	p.line("}")
}

func (p *printer) enumDecl(n *EnumDecl) {
	p.line("enum %s {", n.Name)
	p.indent++
	for _, m := range n.Members {
		if m.Value != nil {
			p.line("%s = %s,", m.Name, expr(m.Value))
		} else {
			p.line("%s,", m.Name)
		}
	}
	p.indent--
	p.line("}")
}

// stmtFragment renders one statement as a single trimmed fragment, used
// for a ForStmt's init/post clauses which sit inline on one line rather
// than indented on their own.
func stmtFragment(s Stmt) string {
	inner := &printer{}
	inner.stmt(s)
	return inner.b.String()
}

func useStmtText(n *UseStmt) string {
	var b strings.Builder
	b.WriteString("use ")
	b.WriteString(n.Path)
	if n.VersionMin != "" {
		fmt.Fprintf(&b, " %s %s", n.VersionMinOp, n.VersionMin)
		if n.VersionMax != "" {
			fmt.Fprintf(&b, ", %s %s", n.VersionMaxOp, n.VersionMax)
		}
	}
	if n.Alias != "" {
		b.WriteString(" as " + n.Alias)
	}
	b.WriteString(";")
	return b.String()
}

func typeExpr(t *TypeExpr) string {
	if t == nil {
		return ""
	}
	base := t.Name
	switch {
	case t.ElementType != nil:
		base = "list<" + typeExpr(t.ElementType) + ">"
	case t.KeyType != nil:
		base = "dict<" + typeExpr(t.KeyType) + ", " + typeExpr(t.ValueType) + ">"
	case len(t.TypeArguments) > 0:
		args := make([]string, len(t.TypeArguments))
		for i, a := range t.TypeArguments {
			args[i] = typeExpr(a)
		}
		base = t.Name + "<" + strings.Join(args, ", ") + ">"
	case len(t.Union) > 0:
		parts := make([]string, len(t.Union))
		for i, u := range t.Union {
			parts[i] = typeExpr(u)
		}
		base = strings.Join(parts, " | ")
	}
	if t.Nullable {
		base += "?"
	}
	return base
}

func expr(e Expr) string {
	switch n := e.(type) {
	case *IntLit:
		return strconv.FormatInt(n.Value, 10)
	case *FloatLit:
		return strconv.FormatFloat(n.Value, 'g', -1, 64)
	case *StringLit:
		return strconv.Quote(n.Value)
	case *BoolLit:
		return strconv.FormatBool(n.Value)
	case *NullLit:
		return "null"
	case *ArrayLit:
		parts := make([]string, len(n.Elements))
		for i, el := range n.Elements {
			parts[i] = expr(el)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case *DictLit:
		parts := make([]string, len(n.Entries))
		for i, ent := range n.Entries {
			parts[i] = expr(ent.Key) + ": " + expr(ent.Value)
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case *Ident:
		return n.Name
	case *Unary:
		op := map[UnaryOp]string{UnaryNeg: "-", UnaryNot: "not "}[n.Op]
		return op + expr(n.Operand)
	case *Binary:
		op := map[BinaryOp]string{BinAdd: "+", BinSub: "-", BinMul: "*", BinDiv: "/", BinMod: "%"}[n.Op]
		return "(" + expr(n.Left) + " " + op + " " + expr(n.Right) + ")"
	case *Comparison:
		op := map[CompareOp]string{CmpEq: "==", CmpNeq: "!=", CmpLt: "<", CmpLte: "<=", CmpGt: ">", CmpGte: ">="}[n.Op]
		return "(" + expr(n.Left) + " " + op + " " + expr(n.Right) + ")"
	case *Logical:
		op := map[LogicalOp]string{LogicalAnd: "and", LogicalOr: "or"}[n.Op]
		return "(" + expr(n.Left) + " " + op + " " + expr(n.Right) + ")"
	case *Call:
		typeArgs := ""
		if len(n.TypeArguments) > 0 {
			parts := make([]string, len(n.TypeArguments))
			for i, a := range n.TypeArguments {
				parts[i] = typeExpr(a)
			}
			typeArgs = "<" + strings.Join(parts, ", ") + ">"
		}
		args := make([]string, len(n.Args))
		for i, a := range n.Args {
			args[i] = expr(a)
		}
		return expr(n.Callee) + typeArgs + "(" + strings.Join(args, ", ") + ")"
	case *Member:
		return expr(n.Target) + "." + n.Name
	case *Index:
		return expr(n.Target) + "[" + expr(n.Key) + "]"
	case *StructLit:
		parts := make([]string, len(n.FieldNames))
		for i, name := range n.FieldNames {
			parts[i] = name + ": " + expr(n.FieldVals[i])
		}
		return "new " + n.TypeName + "{" + strings.Join(parts, ", ") + "}"
	case *IfExpr:
		return "if (" + expr(n.Cond) + ") " + expr(n.Then) + " else " + expr(n.Else)
	case *Lambda:
		params := make([]string, len(n.Params))
		for i, prm := range n.Params {
			params[i] = prm.Name
			if prm.Type != nil {
				params[i] += ": " + typeExpr(prm.Type)
			}
		}
		ret := ""
		if n.ReturnType != nil {
			ret = " -> " + typeExpr(n.ReturnType)
		}
		sig := "function(" + strings.Join(params, ", ") + ")"
		switch body := n.Body.(type) {
		case Expr:
			return sig + ret + " -> " + expr(body)
		case *Block:
			inner := &printer{}
			inner.block(body)
			return sig + " " + strings.TrimSpace(inner.b.String())
		default:
			return sig + " /* unknown body */"
		}
	case *Pipeline:
		return expr(n.Left) + " |> " + expr(n.Right)
	case *PolyglotBlock:
		return "<<" + n.Language + "[" + strings.Join(n.Bindings, ",") + "]\n" + n.Body + ">>"
	case *Assign:
		return expr(n.Target) + " = " + expr(n.Value)
	default:
		return fmt.Sprintf("/* unknown expr %T */", e)
	}
}
