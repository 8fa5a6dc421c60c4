package parser

import (
	"testing"

	"github.com/naab-lang/naab/internal/ast"
	"github.com/naab-lang/naab/internal/errtax"
)

func parseProgram(t *testing.T, src string) *ast.Program {
	t.Helper()
	p, err := New(src)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	prog, err := p.Parse()
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return prog
}

func TestParse_FunctionAndMain(t *testing.T) {
	src := `
function add(a: int, b: int) -> int {
	return a + b
}

main {
	let x = add(1, 2)
}
`
	prog := parseProgram(t, src)
	if len(prog.Decls) != 2 {
		t.Fatalf("expected 2 top-level decls, got %d", len(prog.Decls))
	}
	fn, ok := prog.Decls[0].(*ast.FunctionDecl)
	if !ok {
		t.Fatalf("expected FunctionDecl, got %T", prog.Decls[0])
	}
	if fn.Name != "add" || len(fn.Params) != 2 {
		t.Fatalf("unexpected function shape: %+v", fn)
	}
	if _, ok := prog.Decls[1].(*ast.MainStmt); !ok {
		t.Fatalf("expected MainStmt, got %T", prog.Decls[1])
	}
}

func TestParse_GenericCallDisambiguatedFromComparison(t *testing.T) {
	src := `
main {
	let a = identity<int>(3)
	let b = x < y
}
`
	prog := parseProgram(t, src)
	main := prog.Decls[0].(*ast.MainStmt)
	first := main.Body.Stmts[0].(*ast.VarDecl)
	call, ok := first.Value.(*ast.Call)
	if !ok {
		t.Fatalf("expected Call with type arguments, got %T", first.Value)
	}
	if len(call.TypeArguments) != 1 {
		t.Fatalf("expected 1 type argument, got %d", len(call.TypeArguments))
	}
	second := main.Body.Stmts[1].(*ast.VarDecl)
	if _, ok := second.Value.(*ast.Comparison); !ok {
		t.Fatalf("expected plain comparison, got %T", second.Value)
	}
}

func TestParse_AccidentalAssignmentInCondition(t *testing.T) {
	src := `
main {
	if x = 1 {
	}
}
`
	_, err := New(src)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	p, _ := New(src)
	_, err = p.Parse()
	if err == nil {
		t.Fatal("expected AccidentalAssignment error, got nil")
	}
	naabErr, ok := err.(*errtax.Error)
	if !ok {
		t.Fatalf("expected *errtax.Error, got %T", err)
	}
	if naabErr.Kind != errtax.KindAccidentalAssign {
		t.Fatalf("expected KindAccidentalAssign, got %v", naabErr.Kind)
	}
}

func TestParse_PolyglotBlockExpression(t *testing.T) {
	src := "main {\n\tlet x = <<python[a,b]\nreturn a + b\n>>\n}\n"
	prog := parseProgram(t, src)
	main := prog.Decls[0].(*ast.MainStmt)
	decl := main.Body.Stmts[0].(*ast.VarDecl)
	blk, ok := decl.Value.(*ast.PolyglotBlock)
	if !ok {
		t.Fatalf("expected PolyglotBlock, got %T", decl.Value)
	}
	if blk.Language != "python" || len(blk.Bindings) != 2 {
		t.Fatalf("unexpected polyglot shape: %+v", blk)
	}
}

func TestParse_LetAtTopLevelIsMisplaced(t *testing.T) {
	p, err := New("let x = 1\n")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, err = p.Parse()
	if err == nil {
		t.Fatal("expected MisplacedStatement error, got nil")
	}
	naabErr, ok := err.(*errtax.Error)
	if !ok || naabErr.Kind != errtax.KindMisplacedStatement {
		t.Fatalf("expected KindMisplacedStatement, got %v", err)
	}
}
