package evaluator

import (
	"github.com/naab-lang/naab/internal/ast"
	"github.com/naab-lang/naab/internal/errtax"
	"github.com/naab-lang/naab/internal/types"
	"github.com/naab-lang/naab/internal/value"
)

// execBlock runs a *ast.Block in a fresh child scope of env, per spec §3.4
// (a new Environment is created on block entry and discarded on exit). The
// returned Value is only meaningful for the MainStmt's top-level block;
// ordinary nested blocks ignore it.
func (e *Evaluator) execBlock(env *value.Environment, block *ast.Block) (value.Value, error) {
	child := env.Child()
	var last value.Value = value.VoidValue
	for _, stmt := range block.Stmts {
		v, err := e.execStmt(child, stmt)
		if err != nil {
			return nil, err
		}
		last = v
	}
	return last, nil
}

// execStmt executes one statement and returns its value: an ExprStmt's
// value is its expression's result; every other statement kind yields void.
// Threading the value this way (rather than re-evaluating the last
// statement) keeps a Block's result correct without double-running any
// side effect.
func (e *Evaluator) execStmt(env *value.Environment, stmt ast.Stmt) (value.Value, error) {
	switch s := stmt.(type) {
	case *ast.VarDecl:
		return value.VoidValue, e.execVarDecl(env, s)
	case *ast.ExprStmt:
		return e.evalExpr(env, s.X)
	case *ast.IndexAssign:
		return value.VoidValue, e.execIndexAssign(env, s)
	case *ast.Block:
		return e.execBlock(env, s)
	case *ast.IfStmt:
		return value.VoidValue, e.execIf(env, s)
	case *ast.WhileStmt:
		return value.VoidValue, e.execWhile(env, s)
	case *ast.ForStmt:
		return value.VoidValue, e.execFor(env, s)
	case *ast.BreakStmt:
		return nil, breakSignal{}
	case *ast.ContinueStmt:
		return nil, continueSignal{}
	case *ast.ReturnStmt:
		return nil, e.execReturn(env, s)
	case *ast.TryStmt:
		return value.VoidValue, e.execTry(env, s)
	case *ast.ThrowStmt:
		return nil, e.execThrow(env, s)
	case *ast.FunctionDecl:
		e.registerFunction(s)
		return value.VoidValue, nil
	case *ast.StructDecl:
		return value.VoidValue, e.registerStruct(s)
	case *ast.EnumDecl:
		return value.VoidValue, e.registerEnum(s)
	case *ast.UseStmt:
		return value.VoidValue, e.execUse(env, s)
	case *ast.ImportStmt:
		return value.VoidValue, e.execImport(env, s)
	case *ast.ExportStmt:
		return value.VoidValue, nil // export visibility is a module-boundary concern, not runtime state
	default:
		return nil, &errtax.Error{Kind: errtax.KindInternal, Message: "unhandled statement"}
	}
}

func (e *Evaluator) execVarDecl(env *value.Environment, s *ast.VarDecl) error {
	v, err := e.evalExpr(env, s.Value)
	if err != nil {
		return err
	}
	if s.Type != nil {
		declared := e.resolveType(s.Type, nil)
		structName := ""
		if st, ok := v.(*value.Struct); ok {
			structName = st.TypeName
		}
		if !declared.Accepts(v.RuntimeKind(), structName, nil) {
			if v.RuntimeKind() == types.RKVoid {
				return &errtax.Error{
					Kind:       errtax.KindNullSafety,
					Message:    "Cannot assign null to non-nullable '" + s.Name + "' of type " + declared.Format(),
					Suggestion: "declare as " + declared.Format() + "?",
					Location:   &errtax.SourceLocation{Line: s.Position.Line, Column: s.Position.Column},
				}
			}
			return &errtax.Error{
				Kind:     errtax.KindTypeMismatch,
				Message:  "cannot assign value to '" + s.Name + "': expected " + declared.Format(),
				Location: &errtax.SourceLocation{Line: s.Position.Line, Column: s.Position.Column},
			}
		}
	}
	env.Define(s.Name, v)
	return nil
}

func (e *Evaluator) execIndexAssign(env *value.Environment, s *ast.IndexAssign) error {
	target, err := e.evalExpr(env, s.Target)
	if err != nil {
		return err
	}
	key, err := e.evalExpr(env, s.Key)
	if err != nil {
		return err
	}
	val, err := e.evalExpr(env, s.Value)
	if err != nil {
		return err
	}
	switch t := target.(type) {
	case *value.List:
		idx, ok := key.(value.Int)
		if !ok {
			return &errtax.Error{Kind: errtax.KindTypeMismatch, Message: "list index must be int"}
		}
		if int(idx) < 0 || int(idx) >= len(t.Elems) {
			return &errtax.Error{
				Kind:     errtax.KindIndexOutOfRange,
				Message:  "list index out of range",
				Location: &errtax.SourceLocation{Line: s.Position.Line, Column: s.Position.Column},
			}
		}
		t.Elems[idx] = val
		return nil
	case *value.Dict:
		k, ok := key.(value.String)
		if !ok {
			return &errtax.Error{Kind: errtax.KindTypeMismatch, Message: "dict key must be string"}
		}
		t.Set(string(k), val)
		return nil
	default:
		return &errtax.Error{
			Kind:     errtax.KindTypeMismatch,
			Message:  "value is not indexable",
			Location: &errtax.SourceLocation{Line: s.Position.Line, Column: s.Position.Column},
		}
	}
}

func (e *Evaluator) execIf(env *value.Environment, s *ast.IfStmt) error {
	cond, err := e.evalExpr(env, s.Cond)
	if err != nil {
		return err
	}
	if value.Truthy(cond) {
		_, err := e.execBlock(env, s.Then)
		return err
	}
	switch els := s.Else.(type) {
	case *ast.Block:
		_, err := e.execBlock(env, els)
		return err
	case *ast.IfStmt:
		return e.execIf(env, els)
	default:
		return nil
	}
}

func (e *Evaluator) execWhile(env *value.Environment, s *ast.WhileStmt) error {
	for {
		cond, err := e.evalExpr(env, s.Cond)
		if err != nil {
			return err
		}
		if !value.Truthy(cond) {
			return nil
		}
		if _, err := e.execBlock(env, s.Body); err != nil {
			if _, ok := err.(breakSignal); ok {
				return nil
			}
			if _, ok := err.(continueSignal); ok {
				continue
			}
			return err
		}
	}
}

func (e *Evaluator) execFor(env *value.Environment, s *ast.ForStmt) error {
	loopEnv := env.Child()
	if s.Init != nil {
		if _, err := e.execStmt(loopEnv, s.Init); err != nil {
			return err
		}
	}
	for {
		if s.Cond != nil {
			cond, err := e.evalExpr(loopEnv, s.Cond)
			if err != nil {
				return err
			}
			if !value.Truthy(cond) {
				return nil
			}
		}
		if _, err := e.execBlock(loopEnv, s.Body); err != nil {
			if _, ok := err.(breakSignal); ok {
				return nil
			}
			if _, ok := err.(continueSignal); !ok {
				return err
			}
		}
		if s.Post != nil {
			if _, err := e.execStmt(loopEnv, s.Post); err != nil {
				return err
			}
		}
	}
}

func (e *Evaluator) execReturn(env *value.Environment, s *ast.ReturnStmt) error {
	if s.Value == nil {
		return returnSignal{Value: value.VoidValue}
	}
	v, err := e.evalExpr(env, s.Value)
	if err != nil {
		return err
	}
	return returnSignal{Value: v}
}

func (e *Evaluator) execThrow(env *value.Environment, s *ast.ThrowStmt) error {
	v, err := e.evalExpr(env, s.Value)
	if err != nil {
		return err
	}
	if eo, ok := v.(*value.ErrorObject); ok {
		return eo
	}
	wrapped := &errtax.Error{
		Kind:     errtax.KindPolyglotError,
		Message:  "thrown value",
		Location: &errtax.SourceLocation{Line: s.Position.Line, Column: s.Position.Column},
		Stack:    e.stackSnapshot(),
	}
	return &value.ErrorObject{Err: wrapped, Payload: v}
}

// execTry runs Body, routes a thrown/runtime error (but never a
// break/continue/return control signal) into Catch if present, and always
// runs Finally. A non-nil error produced by Finally itself supersedes
// whatever Body/Catch produced, matching the common try/finally semantics
// of the languages the polyglot blocks embed.
func (e *Evaluator) execTry(env *value.Environment, s *ast.TryStmt) error {
	_, bodyErr := e.execBlock(env, s.Body)

	if bodyErr != nil && !isControlSignal(bodyErr) && s.Catch != nil {
		catchEnv := env.Child()
		if s.Catch.Name != "" {
			catchEnv.Define(s.Catch.Name, errorValueOf(bodyErr))
		}
		_, bodyErr = e.execBlock(catchEnv, s.Catch.Body)
	}

	if s.Finally != nil {
		if _, finallyErr := e.execBlock(env, s.Finally); finallyErr != nil {
			return finallyErr
		}
	}
	return bodyErr
}

// errorValueOf lowers any error raised during evaluation to the
// *value.ErrorObject a catch clause binds, wrapping a bare *errtax.Error
// (from an internal runtime check) the same way a `throw` of a
// user-constructed error would be wrapped.
func errorValueOf(err error) value.Value {
	switch e := err.(type) {
	case *value.ErrorObject:
		return e
	case *errtax.Error:
		return value.NewErrorObject(e)
	default:
		return value.NewErrorObject(&errtax.Error{Kind: errtax.KindInternal, Message: err.Error()})
	}
}

func (e *Evaluator) execUse(env *value.Environment, s *ast.UseStmt) error {
	name := s.Alias
	if name == "" {
		name = s.Path
		if idx := lastDot(s.Path); idx >= 0 {
			name = s.Path[idx+1:]
		}
	}
	if e.blocks != nil {
		if blk, err := e.blocks.Resolve(s.Path); err == nil {
			if blk.Deprecated {
				// Deprecated blocks are enforcement-by-warning only (spec §4.6):
				// the audit log records it but evaluation proceeds normally.
				if e.audit != nil {
					_ = e.audit.Record("block.deprecated", map[string]any{"id": s.Path, "message": blk.DeprecatedMessage})
				}
			}
			env.Define(name, blk)
			return nil
		}
	}
	if e.modules != nil {
		mod, err := e.modules.Resolve(s.Path)
		if err != nil {
			return err
		}
		env.Define(name, moduleNamespace(mod))
		return nil
	}
	return &errtax.Error{
		Kind:     errtax.KindModuleNotFound,
		Message:  "no module or block registered at '" + s.Path + "'",
		Location: &errtax.SourceLocation{Line: s.Position.Line, Column: s.Position.Column},
	}
}

func (e *Evaluator) execImport(env *value.Environment, s *ast.ImportStmt) error {
	if e.modules == nil {
		return &errtax.Error{Kind: errtax.KindModuleNotFound, Message: "no module resolver configured"}
	}
	mod, err := e.modules.Resolve(s.Path)
	if err != nil {
		return err
	}
	name := s.Alias
	if name == "" {
		name = s.Path
	}
	env.Define(name, moduleNamespace(mod))
	return nil
}

// moduleNamespace wraps a resolved module environment's exported bindings
// as a struct value so `mod.fn(args)` member access (spec §4.7) works
// uniformly across stdlib, block-identifier, and file-path modules.
func moduleNamespace(mod *value.Environment) *value.Struct {
	fields := make(map[string]value.Value)
	for _, n := range mod.Names() {
		if v, ok := mod.Get(n); ok {
			fields[n] = v
		}
	}
	return &value.Struct{TypeName: "module", Fields: fields}
}

func lastDot(s string) int {
	idx := -1
	for i, r := range s {
		if r == '.' {
			idx = i
		}
	}
	return idx
}
