package evaluator_test

import (
	"testing"

	"github.com/naab-lang/naab/internal/errtax"
	"github.com/naab-lang/naab/internal/evaluator"
	"github.com/naab-lang/naab/internal/parser"
	"github.com/naab-lang/naab/internal/value"
)

func run(t *testing.T, src string) (value.Value, error) {
	t.Helper()
	p, err := parser.New(src)
	if err != nil {
		t.Fatalf("parser.New: %v", err)
	}
	prog, err := p.Parse()
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	ev := evaluator.New()
	return ev.Run(prog)
}

func TestRun_ArithmeticAndFunctionCall(t *testing.T) {
	src := `
function add(a: int, b: int) -> int {
	return a + b
}

main {
	let x = add(2, 3) * 2
}
`
	_, err := run(t, src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRun_DivisionByZero(t *testing.T) {
	src := `
main {
	let x = 1 / 0
}
`
	_, err := run(t, src)
	if err == nil {
		t.Fatal("expected division-by-zero error")
	}
	naabErr, ok := err.(*errtax.Error)
	if !ok || naabErr.Kind != errtax.KindDivideByZero {
		t.Fatalf("expected KindDivideByZero, got %v", err)
	}
}

func TestRun_UnboundNameSuggestsClosestMatch(t *testing.T) {
	src := `
main {
	let count = 1
	let x = coutn + 1
}
`
	_, err := run(t, src)
	if err == nil {
		t.Fatal("expected unbound name error")
	}
	naabErr, ok := err.(*errtax.Error)
	if !ok || naabErr.Kind != errtax.KindUnboundName {
		t.Fatalf("expected KindUnboundName, got %v", err)
	}
	if naabErr.Suggestion != "count" {
		t.Fatalf("expected suggestion 'count', got %q", naabErr.Suggestion)
	}
}

func TestRun_StructLiteralValidation(t *testing.T) {
	src := `
struct Point {
	x: int,
	y: int
}

main {
	let p = new Point { x: 1, y: 2 }
}
`
	_, err := run(t, src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRun_StructLiteralMissingFieldFails(t *testing.T) {
	src := `
struct Point {
	x: int,
	y: int
}

main {
	let p = new Point { x: 1 }
}
`
	_, err := run(t, src)
	if err == nil {
		t.Fatal("expected type mismatch error for missing field")
	}
}

func TestRun_WhileLoopWithBreak(t *testing.T) {
	src := `
main {
	let i = 0
	while i < 10 {
		i = i + 1
		if i == 3 {
			break
		}
	}
}
`
	_, err := run(t, src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRun_TryCatchCatchesThrownError(t *testing.T) {
	src := `
main {
	try {
		let x = 1 / 0
	} catch (e) {
		let handled = true
	}
}
`
	_, err := run(t, src)
	if err != nil {
		t.Fatalf("expected catch to swallow the division-by-zero error, got: %v", err)
	}
}

func TestRun_GenericFunctionUnifiesTypeParameter(t *testing.T) {
	src := `
function identity<T>(x: T) -> T {
	return x
}

main {
	let a = identity<int>(3)
	let b = identity(3)
}
`
	_, err := run(t, src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRun_NullLiteralBoundToNonNullableFailsNullSafety(t *testing.T) {
	src := `
main {
	let x: int = null
}
`
	_, err := run(t, src)
	if err == nil {
		t.Fatal("expected null safety error")
	}
	naabErr, ok := err.(*errtax.Error)
	if !ok || naabErr.Kind != errtax.KindNullSafety {
		t.Fatalf("expected KindNullSafety, got %v", err)
	}
	if naabErr.Message != "Cannot assign null to non-nullable 'x' of type int" {
		t.Fatalf("unexpected message: %q", naabErr.Message)
	}
	if naabErr.Suggestion != "declare as int?" {
		t.Fatalf("unexpected suggestion: %q", naabErr.Suggestion)
	}
}

func TestRun_FunctionReturningVoidForNonNullableReturnTypeFailsNullSafety(t *testing.T) {
	src := `
function empty() -> int {
	let unused = 1
}

main {
	let x = empty()
}
`
	_, err := run(t, src)
	if err == nil {
		t.Fatal("expected null safety error")
	}
	naabErr, ok := err.(*errtax.Error)
	if !ok || naabErr.Kind != errtax.KindNullSafety {
		t.Fatalf("expected KindNullSafety, got %v", err)
	}
}
