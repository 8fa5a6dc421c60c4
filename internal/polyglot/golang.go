package polyglot

import (
	"context"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/naab-lang/naab/internal/value"
)

// GoExecutor compiles a guest block with `go build` and runs the
// resulting binary. It's the one guest language built from the same
// toolchain running naab itself, so it gets the same naab_return-style
// sentinel helper generated inline rather than imported from a module,
// to keep the generated block a single self-contained file.
type GoExecutor struct {
	BaseExecutor
	goBin string
}

func NewGoExecutor(tempRoot string, compileTimeout, runTimeout time.Duration, goBin string) *GoExecutor {
	if goBin == "" {
		goBin = "go"
	}
	return &GoExecutor{
		BaseExecutor: newBaseExecutor(langGo, []string{"golang"}, tempRoot, compileTimeout, runTimeout),
		goBin:        goBin,
	}
}

func (g *GoExecutor) Run(ctx context.Context, body string, bindings map[string]value.Value) (value.Value, error) {
	dir, cleanup, err := g.callDir()
	if err != nil {
		return nil, err
	}
	defer cleanup()

	source := wrapGo(body, bindings)
	if _, err := g.writeSource(dir, "main.go", source); err != nil {
		return nil, err
	}
	if _, err := g.writeSource(dir, "go.mod", "module naabblock\n\ngo 1.25\n"); err != nil {
		return nil, err
	}
	binPath := filepath.Join(dir, "block.out")

	compileCmd := exec.CommandContext(ctx, g.goBin, "build", "-o", binPath, ".")
	compileCmd.Dir = dir
	compileRes, err := runTimed(ctx, compileCmd, g.compileTimeout)
	if err != nil {
		return nil, err
	}
	if compileRes.timedOut {
		return nil, polyglotTimeout(langGo+" compile", g.compileTimeout)
	}
	if compileRes.exitCode != 0 {
		return nil, polyglotError(langGo, compileRes.stderr, compileRes.exitCode)
	}

	runCmd := exec.CommandContext(ctx, binPath)
	runCmd.Dir = dir
	runRes, err := runTimed(ctx, runCmd, g.executeTimeout)
	if err != nil {
		return nil, err
	}
	return finish(langGo, runRes, g.executeTimeout)
}

const goHeader = `package main

import "fmt"

func naabReturn(json string) {
	fmt.Println("` + sentinelStart + `")
	fmt.Println(json)
	fmt.Println("` + sentinelEnd + `")
}

`

func wrapGo(body string, bindings map[string]value.Value) string {
	var b strings.Builder
	b.WriteString(goHeader)
	b.WriteString("func main() {\n")
	for _, name := range sortedBindingNames(bindings) {
		lit, err := marshalLiteral(langGo, bindings[name])
		if err != nil {
			lit = "nil"
		}
		b.WriteString("\t" + name + " := " + lit + "\n")
		b.WriteString("\t_ = " + name + "\n")
	}
	b.WriteString(body)
	b.WriteString("\n}\n")
	return b.String()
}
