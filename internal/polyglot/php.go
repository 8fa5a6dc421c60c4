package polyglot

import (
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/naab-lang/naab/internal/value"
)

// PHPExecutor runs a block with the php CLI, body wrapped in a closure
// invoked for its return value.
type PHPExecutor struct {
	BaseExecutor
	interpreter string
}

func NewPHPExecutor(tempRoot string, timeout time.Duration, interpreter string) *PHPExecutor {
	if interpreter == "" {
		interpreter = "php"
	}
	return &PHPExecutor{
		BaseExecutor: newBaseExecutor(langPHP, nil, tempRoot, 0, timeout),
		interpreter:  interpreter,
	}
}

func (p *PHPExecutor) Run(ctx context.Context, body string, bindings map[string]value.Value) (value.Value, error) {
	dir, cleanup, err := p.callDir()
	if err != nil {
		return nil, err
	}
	defer cleanup()

	source := wrapPHP(body, bindings)
	path, err := p.writeSource(dir, "block.php", source)
	if err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, p.interpreter, path)
	cmd.Dir = dir
	res, err := runTimed(ctx, cmd, p.executeTimeout)
	if err != nil {
		return nil, err
	}
	return finish(langPHP, res, p.executeTimeout)
}

func wrapPHP(body string, bindings map[string]value.Value) string {
	var b strings.Builder
	b.WriteString("<?php\n")
	for _, name := range sortedBindingNames(bindings) {
		lit, err := marshalLiteral(langPHP, bindings[name])
		if err != nil {
			lit = "null"
		}
		b.WriteString("$" + name + " = " + lit + ";\n")
	}
	b.WriteString("$__naab_result = (function() {\n")
	b.WriteString(body)
	b.WriteString("\n})();\n")
	b.WriteString(`echo "` + sentinelStart + `\n";` + "\n")
	b.WriteString("echo json_encode($__naab_result) . \"\\n\";\n")
	b.WriteString(`echo "` + sentinelEnd + `\n";` + "\n")
	return b.String()
}
