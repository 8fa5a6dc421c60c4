package polyglot

import (
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/naab-lang/naab/internal/value"
)

// ShellExecutor runs a block as a POSIX shell script. Shell never
// throws on a nonzero exit status — it always returns a struct-shaped
// dict {exit_code, stdout, stderr} and the caller inspects exit_code
// itself (spec §4.5 step 5).
type ShellExecutor struct {
	BaseExecutor
	shellBin string
}

func NewShellExecutor(tempRoot string, timeout time.Duration, shellBin string) *ShellExecutor {
	if shellBin == "" {
		shellBin = "/bin/sh"
	}
	return &ShellExecutor{
		BaseExecutor: newBaseExecutor(langShell, []string{"sh", "bash"}, tempRoot, 0, timeout),
		shellBin:     shellBin,
	}
}

func (s *ShellExecutor) Run(ctx context.Context, body string, bindings map[string]value.Value) (value.Value, error) {
	dir, cleanup, err := s.callDir()
	if err != nil {
		return nil, err
	}
	defer cleanup()

	source := wrapShell(body, bindings)
	path, err := s.writeSource(dir, "block.sh", source)
	if err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, s.shellBin, path)
	cmd.Dir = dir
	res, err := runTimed(ctx, cmd, s.executeTimeout)
	if err != nil {
		return nil, err
	}
	if res.timedOut {
		return nil, polyglotTimeout(langShell, s.executeTimeout)
	}

	result := value.NewDict()
	result.Set("exit_code", value.Int(int64(res.exitCode)))
	result.Set("stdout", value.String(res.stdout))
	result.Set("stderr", value.String(res.stderr))
	return result, nil
}

func wrapShell(body string, bindings map[string]value.Value) string {
	var b strings.Builder
	b.WriteString("#!/bin/sh\nset +e\n")
	for _, name := range sortedBindingNames(bindings) {
		lit, err := marshalLiteral(langShell, bindings[name])
		if err != nil {
			lit = ""
		}
		b.WriteString(name + "=" + lit + "\n")
	}
	b.WriteString(body)
	b.WriteString("\n")
	return b.String()
}
