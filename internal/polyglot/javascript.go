package polyglot

import (
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/naab-lang/naab/internal/value"
)

// JavaScriptExecutor runs a block with Node.js. Each block is wrapped in
// an IIFE so const/let declarations from one block never collide with
// another's (spec §4.5 step 8).
type JavaScriptExecutor struct {
	BaseExecutor
	nodeBin string
}

func NewJavaScriptExecutor(tempRoot string, timeout time.Duration, nodeBin string) *JavaScriptExecutor {
	if nodeBin == "" {
		nodeBin = "node"
	}
	return &JavaScriptExecutor{
		BaseExecutor: newBaseExecutor(langJavaScript, []string{"js", "node", "nodejs"}, tempRoot, 0, timeout),
		nodeBin:      nodeBin,
	}
}

func (j *JavaScriptExecutor) Run(ctx context.Context, body string, bindings map[string]value.Value) (value.Value, error) {
	dir, cleanup, err := j.callDir()
	if err != nil {
		return nil, err
	}
	defer cleanup()

	source := wrapJavaScript(body, bindings)
	path, err := j.writeSource(dir, "block.js", source)
	if err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, j.nodeBin, path)
	cmd.Dir = dir
	res, err := runTimed(ctx, cmd, j.executeTimeout)
	if err != nil {
		return nil, err
	}
	return finish(langJavaScript, res, j.executeTimeout)
}

// wrapJavaScript binds every name as a const in the IIFE's enclosing
// scope, then runs body as the IIFE's own statement list. Its return
// value (if any) is sentinel-printed as JSON; a missing return resolves
// to undefined, marshalled as null.
func wrapJavaScript(body string, bindings map[string]value.Value) string {
	var b strings.Builder
	for _, name := range sortedBindingNames(bindings) {
		lit, err := marshalLiteral(langJavaScript, bindings[name])
		if err != nil {
			lit = "null"
		}
		b.WriteString("const " + name + " = " + lit + ";\n")
	}
	b.WriteString("const __naab_result = (function() {\n")
	b.WriteString(body)
	b.WriteString("\n})();\n")
	b.WriteString(`console.log("` + sentinelStart + `");` + "\n")
	b.WriteString("console.log(JSON.stringify(__naab_result === undefined ? null : __naab_result));\n")
	b.WriteString(`console.log("` + sentinelEnd + `");` + "\n")
	return b.String()
}
