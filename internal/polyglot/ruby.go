package polyglot

import (
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/naab-lang/naab/internal/value"
)

// RubyExecutor runs a block with the system ruby interpreter. Ruby
// bodies are wrapped in a begin/end so the value of their last
// expression (Ruby's implicit return) becomes the sentinel payload,
// the same auto-capture rule Python gets for a single expression but
// applied unconditionally since Ruby always yields a value from a
// begin block.
type RubyExecutor struct {
	BaseExecutor
	interpreter string
}

func NewRubyExecutor(tempRoot string, timeout time.Duration, interpreter string) *RubyExecutor {
	if interpreter == "" {
		interpreter = "ruby"
	}
	return &RubyExecutor{
		BaseExecutor: newBaseExecutor(langRuby, nil, tempRoot, 0, timeout),
		interpreter:  interpreter,
	}
}

func (r *RubyExecutor) Run(ctx context.Context, body string, bindings map[string]value.Value) (value.Value, error) {
	dir, cleanup, err := r.callDir()
	if err != nil {
		return nil, err
	}
	defer cleanup()

	source := wrapRuby(body, bindings)
	path, err := r.writeSource(dir, "block.rb", source)
	if err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, r.interpreter, path)
	cmd.Dir = dir
	res, err := runTimed(ctx, cmd, r.executeTimeout)
	if err != nil {
		return nil, err
	}
	return finish(langRuby, res, r.executeTimeout)
}

func wrapRuby(body string, bindings map[string]value.Value) string {
	var b strings.Builder
	b.WriteString("require 'json'\n\n")
	for _, name := range sortedBindingNames(bindings) {
		lit, err := marshalLiteral(langRuby, bindings[name])
		if err != nil {
			lit = "nil"
		}
		b.WriteString(name + " = " + lit + "\n")
	}
	b.WriteString("\n__naab_result = begin\n")
	b.WriteString(body)
	b.WriteString("\nend\n")
	b.WriteString(`puts "` + sentinelStart + `"` + "\n")
	b.WriteString("puts __naab_result.to_json\n")
	b.WriteString(`puts "` + sentinelEnd + `"` + "\n")
	return b.String()
}
