package evaluator

import (
	"context"

	"github.com/naab-lang/naab/internal/ast"
	"github.com/naab-lang/naab/internal/errtax"
	"github.com/naab-lang/naab/internal/safetime"
	"github.com/naab-lang/naab/internal/types"
	"github.com/naab-lang/naab/internal/value"
)

func (e *Evaluator) evalExpr(env *value.Environment, expr ast.Expr) (value.Value, error) {
	switch n := expr.(type) {
	case *ast.IntLit:
		return value.Int(n.Value), nil
	case *ast.FloatLit:
		return value.Float(n.Value), nil
	case *ast.StringLit:
		return value.String(n.Value), nil
	case *ast.BoolLit:
		return value.Bool(n.Value), nil
	case *ast.NullLit:
		return value.VoidValue, nil
	case *ast.ArrayLit:
		return e.evalArrayLit(env, n)
	case *ast.DictLit:
		return e.evalDictLit(env, n)
	case *ast.Ident:
		return e.evalIdent(env, n)
	case *ast.Unary:
		return e.evalUnary(env, n)
	case *ast.Binary:
		return e.evalBinary(env, n)
	case *ast.Comparison:
		return e.evalComparison(env, n)
	case *ast.Logical:
		return e.evalLogical(env, n)
	case *ast.Call:
		return e.evalCall(env, n)
	case *ast.Member:
		return e.evalMember(env, n)
	case *ast.Index:
		return e.evalIndex(env, n)
	case *ast.StructLit:
		return e.evalStructLit(env, n)
	case *ast.IfExpr:
		return e.evalIfExpr(env, n)
	case *ast.Lambda:
		return e.evalLambda(env, n)
	case *ast.Pipeline:
		return e.evalPipeline(env, n)
	case *ast.PolyglotBlock:
		return e.evalPolyglotBlock(env, n)
	case *ast.Assign:
		return e.evalAssign(env, n)
	default:
		return nil, &errtax.Error{Kind: errtax.KindInternal, Message: "unhandled expression"}
	}
}

func (e *Evaluator) evalArrayLit(env *value.Environment, n *ast.ArrayLit) (value.Value, error) {
	elems := make([]value.Value, len(n.Elements))
	for i, el := range n.Elements {
		v, err := e.evalExpr(env, el)
		if err != nil {
			return nil, err
		}
		elems[i] = v
	}
	return e.trackAlloc(value.NewList(elems)), nil
}

func (e *Evaluator) evalDictLit(env *value.Environment, n *ast.DictLit) (value.Value, error) {
	d := value.NewDict()
	for _, entry := range n.Entries {
		k, err := e.evalExpr(env, entry.Key)
		if err != nil {
			return nil, err
		}
		key, ok := k.(value.String)
		if !ok {
			return nil, &errtax.Error{Kind: errtax.KindTypeMismatch, Message: "dict key must be string", Location: locOf(entry.Key)}
		}
		v, err := e.evalExpr(env, entry.Value)
		if err != nil {
			return nil, err
		}
		d.Set(string(key), v)
	}
	return e.trackAlloc(d), nil
}

func (e *Evaluator) evalIdent(env *value.Environment, n *ast.Ident) (value.Value, error) {
	v, ok := env.Get(n.Name)
	if !ok {
		err := value.UnboundNameError(n.Name)
		err.Location = locOf(n)
		if s := suggestName(n.Name, env.Names()); s != "" {
			err = err.WithSuggestion(s)
		}
		return nil, err
	}
	return v, nil
}

func (e *Evaluator) evalUnary(env *value.Environment, n *ast.Unary) (value.Value, error) {
	v, err := e.evalExpr(env, n.Operand)
	if err != nil {
		return nil, err
	}
	switch n.Op {
	case ast.UnaryNot:
		return value.Bool(!value.Truthy(v)), nil
	case ast.UnaryNeg:
		switch x := v.(type) {
		case value.Int:
			r, err := safetime.SubInt64(0, int64(x))
			if err != nil {
				return nil, withLoc(err, n)
			}
			return value.Int(r), nil
		case value.Float:
			return value.Float(-x), nil
		default:
			return nil, &errtax.Error{Kind: errtax.KindTypeMismatch, Message: "unary '-' requires a number", Location: locOf(n)}
		}
	default:
		return nil, &errtax.Error{Kind: errtax.KindInternal, Message: "unhandled unary operator"}
	}
}

func withLoc(err error, n ast.Node) error {
	if nerr, ok := err.(*errtax.Error); ok {
		nerr.Location = locOf(n)
		return nerr
	}
	return err
}

func asFloat(v value.Value) (float64, bool) {
	switch x := v.(type) {
	case value.Int:
		return float64(x), true
	case value.Float:
		return float64(x), true
	default:
		return 0, false
	}
}

func (e *Evaluator) evalBinary(env *value.Environment, n *ast.Binary) (value.Value, error) {
	left, err := e.evalExpr(env, n.Left)
	if err != nil {
		return nil, err
	}
	right, err := e.evalExpr(env, n.Right)
	if err != nil {
		return nil, err
	}

	// String coercion: any `+` with a string operand concatenates the
	// other side's textual form (spec §4.2's `a + ""` coercion rule).
	if n.Op == ast.BinAdd {
		if _, ok := left.(value.String); ok {
			return value.String(value.TextForm(left) + value.TextForm(right)), nil
		}
		if _, ok := right.(value.String); ok {
			return value.String(value.TextForm(left) + value.TextForm(right)), nil
		}
	}

	li, lIsInt := left.(value.Int)
	ri, rIsInt := right.(value.Int)
	if lIsInt && rIsInt {
		var r int64
		var err error
		switch n.Op {
		case ast.BinAdd:
			r, err = safetime.AddInt64(int64(li), int64(ri))
		case ast.BinSub:
			r, err = safetime.SubInt64(int64(li), int64(ri))
		case ast.BinMul:
			r, err = safetime.MulInt64(int64(li), int64(ri))
		case ast.BinDiv:
			if ri == 0 {
				return nil, &errtax.Error{Kind: errtax.KindDivideByZero, Message: "division by zero", Location: locOf(n)}
			}
			r = int64(li) / int64(ri)
		case ast.BinMod:
			if ri == 0 {
				return nil, &errtax.Error{Kind: errtax.KindDivideByZero, Message: "modulo by zero", Location: locOf(n)}
			}
			r = int64(li) % int64(ri)
		}
		if err != nil {
			return nil, withLoc(err, n)
		}
		return value.Int(r), nil
	}

	lf, lok := asFloat(left)
	rf, rok := asFloat(right)
	if !lok || !rok {
		return nil, &errtax.Error{
			Kind:     errtax.KindTypeMismatch,
			Message:  "arithmetic operator requires numbers",
			Location: locOf(n),
		}
	}
	switch n.Op {
	case ast.BinAdd:
		return value.Float(lf + rf), nil
	case ast.BinSub:
		return value.Float(lf - rf), nil
	case ast.BinMul:
		return value.Float(lf * rf), nil
	case ast.BinDiv:
		if rf == 0 {
			return nil, &errtax.Error{Kind: errtax.KindDivideByZero, Message: "division by zero", Location: locOf(n)}
		}
		return value.Float(lf / rf), nil
	case ast.BinMod:
		if rf == 0 {
			return nil, &errtax.Error{Kind: errtax.KindDivideByZero, Message: "modulo by zero", Location: locOf(n)}
		}
		return value.Float(float64(int64(lf) % int64(rf))), nil
	default:
		return nil, &errtax.Error{Kind: errtax.KindInternal, Message: "unhandled binary operator"}
	}
}

func (e *Evaluator) evalComparison(env *value.Environment, n *ast.Comparison) (value.Value, error) {
	left, err := e.evalExpr(env, n.Left)
	if err != nil {
		return nil, err
	}
	right, err := e.evalExpr(env, n.Right)
	if err != nil {
		return nil, err
	}
	if n.Op == ast.CmpEq || n.Op == ast.CmpNeq {
		eq := valuesEqual(left, right)
		if n.Op == ast.CmpNeq {
			eq = !eq
		}
		return value.Bool(eq), nil
	}
	if ls, ok := left.(value.String); ok {
		rs, ok := right.(value.String)
		if !ok {
			return nil, &errtax.Error{Kind: errtax.KindTypeMismatch, Message: "cannot compare string to non-string", Location: locOf(n)}
		}
		return value.Bool(compareOrdered(n.Op, string(ls) < string(rs), string(ls) == string(rs))), nil
	}
	lf, lok := asFloat(left)
	rf, rok := asFloat(right)
	if !lok || !rok {
		return nil, &errtax.Error{Kind: errtax.KindTypeMismatch, Message: "comparison requires numbers or strings", Location: locOf(n)}
	}
	return value.Bool(compareOrdered(n.Op, lf < rf, lf == rf)), nil
}

func compareOrdered(op ast.CompareOp, less, eq bool) bool {
	switch op {
	case ast.CmpLt:
		return less
	case ast.CmpLte:
		return less || eq
	case ast.CmpGt:
		return !less && !eq
	case ast.CmpGte:
		return !less
	default:
		return false
	}
}

func valuesEqual(a, b value.Value) bool {
	if af, aok := asFloat(a); aok {
		if bf, bok := asFloat(b); bok {
			return af == bf
		}
	}
	if as, ok := a.(value.String); ok {
		if bs, ok := b.(value.String); ok {
			return as == bs
		}
	}
	if ab, ok := a.(value.Bool); ok {
		if bb, ok := b.(value.Bool); ok {
			return ab == bb
		}
	}
	_, aVoid := a.(value.Void)
	_, bVoid := b.(value.Void)
	if aVoid || bVoid {
		return aVoid && bVoid
	}
	return a == b
}

func (e *Evaluator) evalLogical(env *value.Environment, n *ast.Logical) (value.Value, error) {
	left, err := e.evalExpr(env, n.Left)
	if err != nil {
		return nil, err
	}
	if n.Op == ast.LogicalAnd && !value.Truthy(left) {
		return value.Bool(false), nil
	}
	if n.Op == ast.LogicalOr && value.Truthy(left) {
		return value.Bool(true), nil
	}
	right, err := e.evalExpr(env, n.Right)
	if err != nil {
		return nil, err
	}
	return value.Bool(value.Truthy(right)), nil
}

func (e *Evaluator) evalCall(env *value.Environment, n *ast.Call) (value.Value, error) {
	callee, err := e.evalExpr(env, n.Callee)
	if err != nil {
		return nil, err
	}
	args := make([]value.Value, len(n.Args))
	for i, a := range n.Args {
		v, err := e.evalExpr(env, a)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return e.invoke(callee, args, n.TypeArguments, n)
}

func (e *Evaluator) invoke(callee value.Value, args []value.Value, typeArgExprs []*ast.TypeExpr, pos ast.Node) (value.Value, error) {
	switch fnv := callee.(type) {
	case *value.Function:
		typeArgs := make([]*types.Type, len(typeArgExprs))
		for i, te := range typeArgExprs {
			typeArgs[i] = e.resolveType(te, nil)
		}
		return e.callFunction(fnv, args, typeArgs, pos)
	case *value.Block:
		return e.invokeBlock(fnv, args, pos)
	case *value.NativeFunction:
		v, err := fnv.Handler(args)
		if err != nil {
			return nil, withLoc(err, pos)
		}
		return v, nil
	default:
		return nil, &errtax.Error{Kind: errtax.KindTypeMismatch, Message: "value is not callable", Location: locOf(pos)}
	}
}

// invokeBlock runs a block value's guest-language code through the
// injected PolyglotRunner. A block carries no parameter names of its own
// (spec §4.6: the binding list lives on the polyglot literal that defines
// it, not on the registry entry), so positional call arguments are exposed
// to the guest code as the list binding `args`.
func (e *Evaluator) invokeBlock(b *value.Block, args []value.Value, pos ast.Node) (value.Value, error) {
	if e.polyglot == nil {
		return nil, &errtax.Error{Kind: errtax.KindPolyglotError, Message: "no polyglot runner configured", Location: locOf(pos)}
	}
	bindings := map[string]value.Value{"args": value.NewList(args)}
	return e.polyglot.Run(e.ctxFor(pos), b.Language, b.Code, bindings)
}

func (e *Evaluator) ctxFor(ast.Node) context.Context {
	if e.ctx != nil {
		return e.ctx
	}
	return context.Background()
}

func (e *Evaluator) evalMember(env *value.Environment, n *ast.Member) (value.Value, error) {
	target, err := e.evalExpr(env, n.Target)
	if err != nil {
		return nil, err
	}
	if _, ok := target.(value.Void); ok {
		// spec §4.2 distinguishes a nullable static type's null dereference
		// from an ordinary one, but §7's kind enumeration has no separate
		// NullReference kind — both report NullMemberAccess.
		return nil, &errtax.Error{
			Kind:     errtax.KindNullMemberAccess,
			Message:  "cannot access '" + n.Name + "' on a null value",
			Location: locOf(n),
		}
	}
	st, ok := target.(*value.Struct)
	if !ok {
		return nil, &errtax.Error{Kind: errtax.KindTypeMismatch, Message: "value has no member '" + n.Name + "'", Location: locOf(n)}
	}
	v, ok := st.Fields[n.Name]
	if !ok {
		names := make([]string, 0, len(st.Fields))
		for k := range st.Fields {
			names = append(names, k)
		}
		err := &errtax.Error{
			Kind:     errtax.KindUnknownField,
			Message:  "struct '" + st.TypeName + "' has no field '" + n.Name + "'",
			Location: locOf(n),
		}
		if s := suggestName(n.Name, names); s != "" {
			err = err.WithSuggestion(s)
		}
		return nil, err
	}
	return v, nil
}

func (e *Evaluator) evalIndex(env *value.Environment, n *ast.Index) (value.Value, error) {
	target, err := e.evalExpr(env, n.Target)
	if err != nil {
		return nil, err
	}
	key, err := e.evalExpr(env, n.Key)
	if err != nil {
		return nil, err
	}
	switch t := target.(type) {
	case *value.List:
		idx, ok := key.(value.Int)
		if !ok {
			return nil, &errtax.Error{Kind: errtax.KindTypeMismatch, Message: "list index must be int", Location: locOf(n)}
		}
		if int(idx) < 0 || int(idx) >= len(t.Elems) {
			return nil, &errtax.Error{Kind: errtax.KindIndexOutOfRange, Message: "list index out of range", Location: locOf(n)}
		}
		return t.Elems[idx], nil
	case *value.Dict:
		k, ok := key.(value.String)
		if !ok {
			return nil, &errtax.Error{Kind: errtax.KindTypeMismatch, Message: "dict key must be string", Location: locOf(n)}
		}
		v, ok := t.Get(string(k))
		if !ok {
			return value.VoidValue, nil
		}
		return v, nil
	default:
		return nil, &errtax.Error{Kind: errtax.KindTypeMismatch, Message: "value is not indexable", Location: locOf(n)}
	}
}

func (e *Evaluator) evalStructLit(env *value.Environment, n *ast.StructLit) (value.Value, error) {
	def, ok := e.structs.Get(n.TypeName)
	if !ok {
		return nil, &errtax.Error{Kind: errtax.KindModuleNotFound, Message: "unknown struct type '" + n.TypeName + "'", Location: locOf(n)}
	}
	fields := make(map[string]value.Value, len(n.FieldNames))
	order := make([]string, 0, len(def.Fields))
	for i, fname := range n.FieldNames {
		v, err := e.evalExpr(env, n.FieldVals[i])
		if err != nil {
			return nil, err
		}
		fields[fname] = v
	}
	for _, f := range def.Fields {
		if _, ok := fields[f.Name]; !ok {
			if f.Type.Nullable {
				fields[f.Name] = value.VoidValue
			}
		}
		order = append(order, f.Name)
	}
	st := value.NewStruct(n.TypeName, order, fields)
	if err := e.structs.Validate(st); err != nil {
		return nil, withLoc(err, n)
	}
	return e.trackAlloc(st), nil
}

func (e *Evaluator) evalIfExpr(env *value.Environment, n *ast.IfExpr) (value.Value, error) {
	cond, err := e.evalExpr(env, n.Cond)
	if err != nil {
		return nil, err
	}
	if value.Truthy(cond) {
		return e.evalExpr(env, n.Then)
	}
	return e.evalExpr(env, n.Else)
}

func (e *Evaluator) evalLambda(env *value.Environment, n *ast.Lambda) (value.Value, error) {
	fn := &value.Function{
		Closure:    env,
		Body:       n.Body,
		ReturnType: e.resolveType(n.ReturnType, nil),
	}
	for _, p := range n.Params {
		fn.Params = append(fn.Params, value.Param{Name: p.Name, Type: e.resolveType(p.Type, nil)})
	}
	return e.trackAlloc(fn), nil
}

// evalPipeline evaluates Left eagerly, then — satisfying "lazy right-hand
// evaluation of the pipeline operator" — only evaluates Right's callee and
// remaining arguments after Left has produced a value, supplying it as
// Right's first argument (spec §5). A bare identifier/expression on the
// right (not itself a Call) is invoked with Left as its sole argument.
func (e *Evaluator) evalPipeline(env *value.Environment, n *ast.Pipeline) (value.Value, error) {
	left, err := e.evalExpr(env, n.Left)
	if err != nil {
		return nil, err
	}
	if call, ok := n.Right.(*ast.Call); ok {
		callee, err := e.evalExpr(env, call.Callee)
		if err != nil {
			return nil, err
		}
		args := make([]value.Value, 0, len(call.Args)+1)
		args = append(args, left)
		for _, a := range call.Args {
			v, err := e.evalExpr(env, a)
			if err != nil {
				return nil, err
			}
			args = append(args, v)
		}
		return e.invoke(callee, args, call.TypeArguments, n)
	}
	callee, err := e.evalExpr(env, n.Right)
	if err != nil {
		return nil, err
	}
	return e.invoke(callee, []value.Value{left}, nil, n)
}

func (e *Evaluator) evalPolyglotBlock(env *value.Environment, n *ast.PolyglotBlock) (value.Value, error) {
	if e.polyglot == nil {
		return nil, &errtax.Error{Kind: errtax.KindPolyglotError, Message: "no polyglot runner configured", Location: locOf(n)}
	}
	bindings := make(map[string]value.Value, len(n.Bindings))
	for _, name := range n.Bindings {
		v, ok := env.Get(name)
		if !ok {
			err := value.UnboundNameError(name)
			err.Location = locOf(n)
			return nil, err
		}
		bindings[name] = v
	}
	return e.polyglot.Run(e.ctxFor(n), n.Language, n.Body, bindings)
}

func (e *Evaluator) evalAssign(env *value.Environment, n *ast.Assign) (value.Value, error) {
	val, err := e.evalExpr(env, n.Value)
	if err != nil {
		return nil, err
	}
	switch target := n.Target.(type) {
	case *ast.Ident:
		if !env.Assign(target.Name, val) {
			err := value.UnboundNameError(target.Name)
			err.Location = locOf(n)
			if s := suggestName(target.Name, env.Names()); s != "" {
				err = err.WithSuggestion(s)
			}
			return nil, err
		}
		return val, nil
	case *ast.Member:
		obj, err := e.evalExpr(env, target.Target)
		if err != nil {
			return nil, err
		}
		st, ok := obj.(*value.Struct)
		if !ok {
			return nil, &errtax.Error{Kind: errtax.KindTypeMismatch, Message: "value has no member '" + target.Name + "'", Location: locOf(n)}
		}
		st.Fields[target.Name] = val
		return val, nil
	default:
		return nil, &errtax.Error{Kind: errtax.KindSyntax, Message: "invalid assignment target", Location: locOf(n)}
	}
}
