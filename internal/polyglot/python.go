package polyglot

import (
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/naab-lang/naab/internal/value"
)

// PythonExecutor runs a block with the system python3 interpreter.
type PythonExecutor struct {
	BaseExecutor
	interpreter string
}

// NewPythonExecutor returns an Executor that invokes "python3" (or the
// given interpreter path, for testing against a pinned binary).
func NewPythonExecutor(tempRoot string, timeout time.Duration, interpreter string) *PythonExecutor {
	if interpreter == "" {
		interpreter = "python3"
	}
	return &PythonExecutor{
		BaseExecutor: newBaseExecutor(langPython, []string{"py", "python3"}, tempRoot, 0, timeout),
		interpreter:  interpreter,
	}
}

func (p *PythonExecutor) Run(ctx context.Context, body string, bindings map[string]value.Value) (value.Value, error) {
	dir, cleanup, err := p.callDir()
	if err != nil {
		return nil, err
	}
	defer cleanup()

	source := wrapPython(body, bindings)
	path, err := p.writeSource(dir, "block.py", source)
	if err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, p.interpreter, path)
	cmd.Dir = dir
	res, err := runTimed(ctx, cmd, p.executeTimeout)
	if err != nil {
		return nil, err
	}
	return finish(langPython, res, p.executeTimeout)
}

// wrapPython binds each name to its marshalled literal, then either
// evaluates body as a single expression (auto-printing the sentinel
// payload) or executes it as a statement sequence. Spec §4.5 step 8:
// "a single expression is eval-ed and multi-statement bodies are
// exec-ed (void return)".
func wrapPython(body string, bindings map[string]value.Value) string {
	var b strings.Builder
	b.WriteString("import json\n\n")
	for _, name := range sortedBindingNames(bindings) {
		lit, err := marshalLiteral(langPython, bindings[name])
		if err != nil {
			lit = "None"
		}
		b.WriteString(name)
		b.WriteString(" = ")
		b.WriteString(lit)
		b.WriteString("\n")
	}
	b.WriteString("\n")

	trimmed := strings.TrimSpace(body)
	if looksLikeSingleExpr(trimmed) {
		b.WriteString("__naab_result = (" + trimmed + ")\n")
		b.WriteString(`print("` + sentinelStart + `")` + "\n")
		b.WriteString("print(json.dumps(__naab_result))\n")
		b.WriteString(`print("` + sentinelEnd + `")` + "\n")
	} else {
		b.WriteString(body)
		b.WriteString("\n")
	}
	return b.String()
}

// looksLikeSingleExpr is a heuristic, not a parser: a body qualifies for
// eval-as-expression when it is one line, doesn't open with a statement
// keyword, and has no bare assignment. Anything else falls back to
// exec semantics (void return) — a real eval/exec split would need a
// full Python parse to get perfectly right, and naab only needs the
// common case.
func looksLikeSingleExpr(body string) bool {
	if body == "" || strings.Contains(body, "\n") {
		return false
	}
	statementStarts := []string{"def ", "class ", "for ", "while ", "if ", "with ", "import ", "from ", "return", "pass", "raise", "try", "del "}
	for _, kw := range statementStarts {
		if strings.HasPrefix(body, kw) {
			return false
		}
	}
	withoutComparisons := strings.NewReplacer("==", "", "!=", "", "<=", "", ">=", "").Replace(body)
	if strings.Contains(withoutComparisons, "=") {
		return false
	}
	return true
}
