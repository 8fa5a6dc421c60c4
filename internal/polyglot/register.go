package polyglot

import "time"

// Default timeouts per spec §4.5 step 4: 30s compilation / 10s execution
// for compiled languages, 30s total for interpreted ones.
const (
	defaultCompileTimeout     = 30 * time.Second
	defaultCompiledRunTimeout = 10 * time.Second
	defaultInterpretedTimeout = 30 * time.Second
)

// NewDefaultDispatcher builds a Dispatcher with every built-in
// Executor registered, using interpretedTimeout for the scripting
// languages' single total budget and the compiled-language split
// (compile then run) at its usual defaults. tempRoot is the
// process-private directory each Executor writes per-call subdirectories
// under (spec §4.5 step 4).
func NewDefaultDispatcher(tempRoot string, interpretedTimeout time.Duration) *Dispatcher {
	if interpretedTimeout <= 0 {
		interpretedTimeout = defaultInterpretedTimeout
	}
	d := NewDispatcher()
	d.RegisterExecutor(NewPythonExecutor(tempRoot, interpretedTimeout, ""))
	d.RegisterExecutor(NewJavaScriptExecutor(tempRoot, interpretedTimeout, ""))
	d.RegisterExecutor(NewRubyExecutor(tempRoot, interpretedTimeout, ""))
	d.RegisterExecutor(NewPHPExecutor(tempRoot, interpretedTimeout, ""))
	d.RegisterExecutor(NewShellExecutor(tempRoot, interpretedTimeout, ""))
	d.RegisterExecutor(NewCppExecutor(tempRoot, defaultCompileTimeout, defaultCompiledRunTimeout, ""))
	d.RegisterExecutor(NewRustExecutor(tempRoot, defaultCompileTimeout, defaultCompiledRunTimeout, ""))
	d.RegisterExecutor(NewGoExecutor(tempRoot, defaultCompileTimeout, defaultCompiledRunTimeout, ""))
	d.RegisterExecutor(NewCSharpExecutor(tempRoot, defaultCompileTimeout, defaultCompiledRunTimeout, ""))
	return d
}
