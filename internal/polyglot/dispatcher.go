// Package polyglot implements the Dispatcher and per-guest-language
// Executors that back naab's inline polyglot blocks. It is a direct
// generalization of the teacher's LanguageProvider/Registry pattern
// (internal/provider, internal/registry in the original): where the
// teacher injected one provider per host language to translate a query
// into Tree-sitter syntax, this package injects one Executor per guest
// language to translate a naab value into that guest's literal syntax,
// run it out-of-process, and translate the result back.
package polyglot

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/naab-lang/naab/internal/errtax"
	"github.com/naab-lang/naab/internal/value"
)

// Canonical guest language identifiers. These are also the keys used in
// Block JSON's "language" field (spec §6.1).
const (
	langPython     = "python"
	langJavaScript = "javascript"
	langCpp        = "cpp"
	langRust       = "rust"
	langGo         = "go"
	langRuby       = "ruby"
	langPHP        = "php"
	langCSharp     = "csharp"
	langShell      = "shell"
)

// Executor runs one guest-language block to completion and returns its
// naab value. Implementations embed BaseExecutor for the shared
// temp-file lifecycle, timeout enforcement, and sentinel scanning.
type Executor interface {
	// Language is the canonical identifier this Executor registers under.
	Language() string
	// Aliases are additional names that resolve to this Executor (e.g.
	// "py" and "python3" both resolve to the "python" Executor).
	Aliases() []string
	// Run marshals bindings, wraps body per the language's isolation
	// rule, launches the guest process, and returns its result value.
	Run(ctx context.Context, body string, bindings map[string]value.Value) (value.Value, error)
}

// Dispatcher is the teacher's Registry renamed and repurposed: a
// thread-safe, alias-aware lookup table of Executors, populated once at
// startup and read concurrently thereafter (spec §5's single-writer /
// lock-free-read discipline for process-wide registries).
type Dispatcher struct {
	mu        sync.RWMutex
	executors map[string]Executor
	aliases   map[string]string
}

// NewDispatcher returns an empty Dispatcher. Use NewDefaultDispatcher to
// get one pre-populated with all nine built-in language Executors.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		executors: make(map[string]Executor),
		aliases:   make(map[string]string),
	}
}

// RegisterExecutor adds ex under its canonical Language() name and every
// name in Aliases(). A later registration for the same name silently
// overwrites the earlier one, matching the teacher's Registry semantics.
func (d *Dispatcher) RegisterExecutor(ex Executor) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.executors[ex.Language()] = ex
	d.aliases[ex.Language()] = ex.Language()
	for _, a := range ex.Aliases() {
		d.aliases[a] = ex.Language()
	}
}

// GetExecutor resolves a language name (canonical or alias) to its
// Executor, if one is registered.
func (d *Dispatcher) GetExecutor(name string) (Executor, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	canon, ok := d.aliases[name]
	if !ok {
		return nil, false
	}
	ex, ok := d.executors[canon]
	return ex, ok
}

// Languages returns every canonical language name currently registered,
// sorted for deterministic diagnostics output.
func (d *Dispatcher) Languages() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	names := make([]string, 0, len(d.executors))
	for name := range d.executors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Run implements evaluator.PolyglotRunner: it resolves lang to an
// Executor and delegates, translating an unknown language into
// UnsupportedLanguage per spec §4.5 step 2.
func (d *Dispatcher) Run(ctx context.Context, lang string, body string, bindings map[string]value.Value) (value.Value, error) {
	ex, ok := d.GetExecutor(lang)
	if !ok {
		return nil, &errtax.Error{
			Kind:    errtax.KindUnsupportedLang,
			Message: fmt.Sprintf("no executor registered for language %q", lang),
		}
	}
	return ex.Run(ctx, body, bindings)
}
