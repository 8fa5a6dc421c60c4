package polyglot

import (
	"context"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/naab-lang/naab/internal/value"
)

// RustExecutor compiles a block with rustc and runs the resulting
// binary. Like CppExecutor, the generated program supplies its own
// main and a naab_return helper function.
type RustExecutor struct {
	BaseExecutor
	compiler string
}

func NewRustExecutor(tempRoot string, compileTimeout, runTimeout time.Duration, compiler string) *RustExecutor {
	if compiler == "" {
		compiler = "rustc"
	}
	return &RustExecutor{
		BaseExecutor: newBaseExecutor(langRust, []string{"rs"}, tempRoot, compileTimeout, runTimeout),
		compiler:     compiler,
	}
}

func (r *RustExecutor) Run(ctx context.Context, body string, bindings map[string]value.Value) (value.Value, error) {
	dir, cleanup, err := r.callDir()
	if err != nil {
		return nil, err
	}
	defer cleanup()

	source := wrapRust(body, bindings)
	srcPath, err := r.writeSource(dir, "block.rs", source)
	if err != nil {
		return nil, err
	}
	binPath := filepath.Join(dir, "block.out")

	compileCmd := exec.CommandContext(ctx, r.compiler, "-O", "-o", binPath, srcPath)
	compileCmd.Dir = dir
	compileRes, err := runTimed(ctx, compileCmd, r.compileTimeout)
	if err != nil {
		return nil, err
	}
	if compileRes.timedOut {
		return nil, polyglotTimeout(langRust+" compile", r.compileTimeout)
	}
	if compileRes.exitCode != 0 {
		return nil, polyglotError(langRust, compileRes.stderr, compileRes.exitCode)
	}

	runCmd := exec.CommandContext(ctx, binPath)
	runCmd.Dir = dir
	runRes, err := runTimed(ctx, runCmd, r.executeTimeout)
	if err != nil {
		return nil, err
	}
	return finish(langRust, runRes, r.executeTimeout)
}

const rustHeader = `use std::collections::HashMap;

fn naab_return(json: &str) {
	println!("` + sentinelStart + `");
	println!("{}", json);
	println!("` + sentinelEnd + `");
}

`

func wrapRust(body string, bindings map[string]value.Value) string {
	var b strings.Builder
	b.WriteString(rustHeader)
	b.WriteString("fn main() {\n")
	for _, name := range sortedBindingNames(bindings) {
		lit, err := marshalLiteral(langRust, bindings[name])
		if err != nil {
			lit = "None"
		}
		b.WriteString("\tlet " + name + " = " + lit + ";\n")
	}
	b.WriteString(body)
	b.WriteString("\n}\n")
	return b.String()
}
