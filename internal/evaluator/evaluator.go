// Package evaluator walks a parsed naab program and executes it directly
// against the internal/value runtime representation.
//
// The design keeps the teacher's dependency-injection shape: just as the
// teacher's evaluator took a single injected LanguageProvider so the same
// evaluation workflow worked for every guest language, this Evaluator takes
// a small set of injected backends — a PolyglotRunner for inline guest-code
// blocks, a BlockResolver for the shared block registry, a ModuleResolver
// for `use`/`import`, and an AuditSink for the append-only audit log — so
// the tree-walking core stays free of concerns that belong to those other
// subsystems.
package evaluator

import (
	"context"
	"fmt"

	"github.com/naab-lang/naab/internal/ast"
	"github.com/naab-lang/naab/internal/errtax"
	"github.com/naab-lang/naab/internal/types"
	"github.com/naab-lang/naab/internal/value"
)

// PolyglotRunner executes one inline guest-language block and returns its
// produced value. Implementations live in internal/polyglot.
type PolyglotRunner interface {
	Run(ctx context.Context, lang string, body string, bindings map[string]value.Value) (value.Value, error)
}

// BlockResolver looks up a registered block by its identifier, as bound by
// `use BLOCK-ID [version-range] as alias`. Implementations live in
// internal/blocks.
type BlockResolver interface {
	Resolve(id string) (*value.Block, error)
}

// ModuleResolver resolves a `use`/`import` path to the environment it
// exports. Implementations live in internal/modules.
type ModuleResolver interface {
	Resolve(path string) (*value.Environment, error)
}

// AuditSink records one evaluation event to the hash-chained audit log.
// Implementations live in internal/audit. A nil AuditSink is valid and
// silently drops every record, which test harnesses rely on.
type AuditSink interface {
	Record(kind string, detail map[string]any) error
}

// CycleCollector tracks newly allocated composite values and runs its
// mark-and-sweep pass once an allocation threshold is crossed.
// Implementations live in internal/gc. A nil CycleCollector is valid and
// simply never tracks or collects, which test harnesses rely on.
type CycleCollector interface {
	Track(v value.Value)
	MaybeCollect(root *value.Environment)
}

// frame is one call-stack entry, kept for errtax.StackFrame snapshots and
// for the maximum call-depth guard.
type frame struct {
	function string
	call      ast.Node
}

// Evaluator holds everything shared across one program run: the struct
// registry populated by StructDecl, the function table populated by
// FunctionDecl, the global scope, and the injected backends above.
type Evaluator struct {
	structs  *value.StructRegistry
	funcs    map[string]*value.Function
	globals  *value.Environment
	polyglot PolyglotRunner
	blocks   BlockResolver
	modules  ModuleResolver
	audit    AuditSink
	gc       CycleCollector

	callStack []frame
	maxDepth  int
	ctx       context.Context
}

// Option configures an Evaluator at construction time.
type Option func(*Evaluator)

func WithPolyglotRunner(r PolyglotRunner) Option { return func(e *Evaluator) { e.polyglot = r } }
func WithBlockResolver(r BlockResolver) Option    { return func(e *Evaluator) { e.blocks = r } }
func WithModuleResolver(r ModuleResolver) Option  { return func(e *Evaluator) { e.modules = r } }
func WithAuditSink(s AuditSink) Option            { return func(e *Evaluator) { e.audit = s } }
func WithCycleCollector(c CycleCollector) Option  { return func(e *Evaluator) { e.gc = c } }
func WithMaxCallDepth(n int) Option               { return func(e *Evaluator) { e.maxDepth = n } }
func WithContext(ctx context.Context) Option      { return func(e *Evaluator) { e.ctx = ctx } }

// trackAlloc registers a newly constructed composite value with the
// cycle collector (if one is configured) and lets it run a pass should
// the allocation threshold be crossed. Returns v unchanged so call
// sites can wrap a constructor call directly.
func (e *Evaluator) trackAlloc(v value.Value) value.Value {
	if e.gc != nil {
		e.gc.Track(v)
		e.gc.MaybeCollect(e.globals)
	}
	return v
}

// New creates an Evaluator with a fresh struct registry and global scope.
func New(opts ...Option) *Evaluator {
	e := &Evaluator{
		structs:  value.NewStructRegistry(),
		funcs:    make(map[string]*value.Function),
		globals:  value.NewEnvironment(),
		maxDepth: 1000,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run registers every top-level declaration, then executes the program's
// single main block. Programs without a `main` block are valid (a library
// module imported by another program via `use`) and Run returns void.
func (e *Evaluator) Run(prog *ast.Program) (value.Value, error) {
	var mainStmt *ast.MainStmt
	for _, decl := range prog.Decls {
		switch d := decl.(type) {
		case *ast.StructDecl:
			if err := e.registerStruct(d); err != nil {
				return nil, err
			}
		case *ast.EnumDecl:
			if err := e.registerEnum(d); err != nil {
				return nil, err
			}
		case *ast.FunctionDecl:
			e.registerFunction(d)
		case *ast.UseStmt, *ast.ImportStmt, *ast.ExportStmt:
			if _, err := e.execStmt(e.globals, d); err != nil {
				return nil, err
			}
		case *ast.MainStmt:
			mainStmt = d
		default:
			return nil, &errtax.Error{
				Kind:    errtax.KindInternal,
				Message: fmt.Sprintf("unhandled top-level declaration %T", d),
			}
		}
	}
	if mainStmt == nil {
		return value.VoidValue, nil
	}
	if e.audit != nil {
		_ = e.audit.Record("program.start", map[string]any{})
	}
	result, err := e.execBlock(e.globals.Child(), mainStmt.Body)
	if err != nil {
		if ret, ok := err.(returnSignal); ok {
			result, err = ret.Value, nil
		}
	}
	if e.audit != nil {
		detail := map[string]any{"ok": err == nil}
		_ = e.audit.Record("program.end", detail)
	}
	return result, err
}

// Globals returns the evaluator's top-level environment. Used by
// internal/modules after running a file as a module, to read back the
// bindings it exposes to importers.
func (e *Evaluator) Globals() *value.Environment { return e.globals }

func (e *Evaluator) registerStruct(d *ast.StructDecl) error {
	def := &value.StructDef{Name: d.Name, TypeParameters: d.TypeParameters}
	for _, f := range d.Fields {
		def.Fields = append(def.Fields, value.FieldDef{Name: f.Name, Type: e.resolveType(f.Type, d.TypeParameters)})
	}
	return e.structs.Register(def)
}

// registerEnum lowers an enum declaration into a struct-like registry of
// int constants bound into the global scope under Name.Member, mirroring
// the auto-incrementing-ordinal semantics a bare member (no `= value`)
// gets per spec §4.1.
func (e *Evaluator) registerEnum(d *ast.EnumDecl) error {
	next := int64(0)
	for _, m := range d.Members {
		var v value.Value
		if m.Value != nil {
			ev, err := e.evalExpr(e.globals, m.Value)
			if err != nil {
				return err
			}
			v = ev
			if iv, ok := ev.(value.Int); ok {
				next = int64(iv) + 1
			}
		} else {
			v = value.Int(next)
			next++
		}
		e.globals.Define(d.Name+"."+m.Name, v)
	}
	return nil
}

func (e *Evaluator) registerFunction(d *ast.FunctionDecl) {
	fn := &value.Function{
		Name:           d.Name,
		TypeParameters: d.TypeParameters,
		Body:           d.Body,
		Closure:        e.globals,
		ReturnType:     e.resolveType(d.ReturnType, d.TypeParameters),
	}
	for _, p := range d.Params {
		fn.Params = append(fn.Params, value.Param{Name: p.Name, Type: e.resolveType(p.Type, d.TypeParameters)})
	}
	e.funcs[d.Name] = fn
	e.globals.Define(d.Name, fn)
}

// resolveType lowers a parsed *ast.TypeExpr into a *types.Type. A nil
// TypeExpr (omitted annotation) lowers to Any; a name matching one of the
// enclosing declaration's type parameters lowers to a TypeParam rather
// than a struct reference.
func (e *Evaluator) resolveType(te *ast.TypeExpr, typeParams []string) *types.Type {
	if te == nil {
		return types.Any()
	}
	var t *types.Type
	switch te.Name {
	case "int":
		t = types.Int()
	case "float":
		t = types.Float()
	case "bool":
		t = types.Bool()
	case "string":
		t = types.String()
	case "void":
		t = types.Void()
	case "any":
		t = types.Any()
	case "list":
		t = types.List(e.resolveType(te.ElementType, typeParams))
	case "dict":
		t = types.Dict(e.resolveType(te.KeyType, typeParams), e.resolveType(te.ValueType, typeParams))
	default:
		if te.Union != nil {
			members := make([]*types.Type, len(te.Union))
			for i, m := range te.Union {
				members[i] = e.resolveType(m, typeParams)
			}
			t = types.Union(members...)
		} else if isTypeParamName(te.Name, typeParams) {
			t = types.TypeParam(te.Name)
		} else {
			t = types.Struct(te.Name)
			if len(te.TypeArguments) > 0 {
				t.TypeParameters = make([]string, len(te.TypeArguments))
				for i, a := range te.TypeArguments {
					t.TypeParameters[i] = a.Name
				}
			}
		}
	}
	if te.Nullable {
		t = types.NullableOf(t)
	}
	return t
}

func isTypeParamName(name string, params []string) bool {
	for _, p := range params {
		if p == name {
			return true
		}
	}
	return false
}

func (e *Evaluator) pushFrame(name string, call ast.Node) error {
	if len(e.callStack) >= e.maxDepth {
		return &errtax.Error{Kind: errtax.KindOverflow, Message: "maximum call depth exceeded", Detail: name}
	}
	e.callStack = append(e.callStack, frame{function: name, call: call})
	return nil
}

func (e *Evaluator) popFrame() {
	e.callStack = e.callStack[:len(e.callStack)-1]
}

func (e *Evaluator) stackSnapshot() []errtax.StackFrame {
	frames := make([]errtax.StackFrame, len(e.callStack))
	for i, f := range e.callStack {
		loc := &errtax.SourceLocation{}
		if f.call != nil {
			pos := f.call.Pos()
			loc.Line, loc.Column = pos.Line, pos.Column
		}
		frames[i] = errtax.StackFrame{Function: f.function, Location: loc}
	}
	return frames
}
