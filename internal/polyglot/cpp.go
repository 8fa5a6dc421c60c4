package polyglot

import (
	"context"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/naab-lang/naab/internal/value"
)

// CppExecutor compiles a block with the system C++ compiler and runs
// the resulting binary. The generated program supplies its own main()
// and a naab_return() helper that emits the sentinel payload, matching
// spec §4.5 step 8's "generated main with a standard set of headers".
type CppExecutor struct {
	BaseExecutor
	compiler string
}

func NewCppExecutor(tempRoot string, compileTimeout, runTimeout time.Duration, compiler string) *CppExecutor {
	if compiler == "" {
		compiler = "g++"
	}
	return &CppExecutor{
		BaseExecutor: newBaseExecutor(langCpp, []string{"c++"}, tempRoot, compileTimeout, runTimeout),
		compiler:     compiler,
	}
}

func (c *CppExecutor) Run(ctx context.Context, body string, bindings map[string]value.Value) (value.Value, error) {
	dir, cleanup, err := c.callDir()
	if err != nil {
		return nil, err
	}
	defer cleanup()

	source := wrapCpp(body, bindings)
	srcPath, err := c.writeSource(dir, "block.cpp", source)
	if err != nil {
		return nil, err
	}
	binPath := filepath.Join(dir, "block.out")

	compileCmd := exec.CommandContext(ctx, c.compiler, "-std=c++17", "-O0", "-o", binPath, srcPath)
	compileCmd.Dir = dir
	compileRes, err := runTimed(ctx, compileCmd, c.compileTimeout)
	if err != nil {
		return nil, err
	}
	if compileRes.timedOut {
		return nil, polyglotTimeout(langCpp+" compile", c.compileTimeout)
	}
	if compileRes.exitCode != 0 {
		return nil, polyglotError(langCpp, compileRes.stderr, compileRes.exitCode)
	}

	runCmd := exec.CommandContext(ctx, binPath)
	runCmd.Dir = dir
	runRes, err := runTimed(ctx, runCmd, c.executeTimeout)
	if err != nil {
		return nil, err
	}
	return finish(langCpp, runRes, c.executeTimeout)
}

const cppHeader = `#include <iostream>
#include <vector>
#include <algorithm>
#include <string>
#include <map>
#include <unordered_map>
#include <set>
#include <unordered_set>
#include <memory>
#include <utility>
#include <cmath>
#include <cstdlib>
#include <optional>

static void naab_return(const std::string &json) {
	std::cout << "` + sentinelStart + `" << std::endl;
	std::cout << json << std::endl;
	std::cout << "` + sentinelEnd + `" << std::endl;
}

`

func wrapCpp(body string, bindings map[string]value.Value) string {
	var b strings.Builder
	b.WriteString(cppHeader)
	b.WriteString("int main() {\n")
	for _, name := range sortedBindingNames(bindings) {
		lit, err := marshalLiteral(langCpp, bindings[name])
		if err != nil {
			lit = "std::nullopt"
		}
		b.WriteString("\tauto " + name + " = " + lit + ";\n")
	}
	b.WriteString(body)
	b.WriteString("\n\treturn 0;\n}\n")
	return b.String()
}
