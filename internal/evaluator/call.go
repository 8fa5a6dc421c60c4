package evaluator

import (
	"github.com/naab-lang/naab/internal/ast"
	"github.com/naab-lang/naab/internal/errtax"
	"github.com/naab-lang/naab/internal/types"
	"github.com/naab-lang/naab/internal/value"
)

// callFunction binds args to fn's parameters in a fresh child of its
// closure scope and evaluates its body, catching the returnSignal a
// ReturnStmt raises. explicitTypeArgs comes from an explicit f<int>(...)
// call site and seeds subs before the per-argument unification pass runs,
// so a redundant explicit argument never disagrees with what unification
// would have inferred anyway (spec §4.4, §8).
func (e *Evaluator) callFunction(fn *value.Function, args []value.Value, explicitTypeArgs []*types.Type, pos ast.Node) (value.Value, error) {
	if len(args) != len(fn.Params) {
		return nil, &errtax.Error{
			Kind:     errtax.KindTypeMismatch,
			Message:  "wrong number of arguments",
			Detail:   fn.Name,
			Location: locOf(pos),
		}
	}

	subs := make(map[string]*types.Type)
	for i, tp := range fn.TypeParameters {
		if i < len(explicitTypeArgs) {
			subs[tp] = explicitTypeArgs[i]
		}
	}
	for i, param := range fn.Params {
		if param.Type == nil {
			continue
		}
		if err := types.Unify(param.Type, args[i], subs); err != nil {
			return nil, &errtax.Error{
				Kind:     errtax.KindGenericUnification,
				Message:  err.Error(),
				Location: locOf(pos),
			}
		}
	}

	callEnv := fn.Closure.Child()
	for i, param := range fn.Params {
		declared := param.Type
		if declared != nil {
			declared = declared.Substitute(subs)
		}
		if declared != nil {
			structName := ""
			if st, ok := args[i].(*value.Struct); ok {
				structName = st.TypeName
			}
			if !declared.Accepts(args[i].RuntimeKind(), structName, subs) {
				return nil, &errtax.Error{
					Kind:     errtax.KindTypeMismatch,
					Message:  "argument '" + param.Name + "' to '" + fn.Name + "' expects " + declared.Format(),
					Detail:   "got " + types.RuntimeTypeName(args[i].RuntimeKind(), structName),
					Location: locOf(pos),
				}
			}
		}
		callEnv.Define(param.Name, args[i])
	}

	name := fn.Name
	if name == "" {
		name = "<lambda>"
	}
	if err := e.pushFrame(name, pos); err != nil {
		return nil, err
	}
	defer e.popFrame()

	var result value.Value
	var err error
	switch body := fn.Body.(type) {
	case *ast.Block:
		result, err = e.execBlock(callEnv, body)
		if err != nil {
			if ret, ok := err.(returnSignal); ok {
				result, err = ret.Value, nil
			}
		}
	case ast.Expr:
		result, err = e.evalExpr(callEnv, body)
	default:
		return nil, &errtax.Error{Kind: errtax.KindInternal, Message: "function body is neither a block nor an expression"}
	}
	if err != nil {
		return nil, err
	}

	if fn.ReturnType != nil {
		declared := fn.ReturnType.Substitute(subs)
		structName := ""
		if st, ok := result.(*value.Struct); ok {
			structName = st.TypeName
		}
		if !declared.Accepts(result.RuntimeKind(), structName, subs) {
			if result.RuntimeKind() == types.RKVoid {
				return nil, &errtax.Error{
					Kind:       errtax.KindNullSafety,
					Message:    "'" + fn.Name + "' declared to return " + declared.Format() + " but returned void",
					Suggestion: "declare as " + declared.Format() + "?",
					Location:   locOf(pos),
				}
			}
			return nil, &errtax.Error{
				Kind:     errtax.KindTypeMismatch,
				Message:  "'" + fn.Name + "' returned " + types.RuntimeTypeName(result.RuntimeKind(), structName) + ", expected " + declared.Format(),
				Location: locOf(pos),
			}
		}
	}
	return result, nil
}

func locOf(n ast.Node) *errtax.SourceLocation {
	if n == nil {
		return nil
	}
	pos := n.Pos()
	return &errtax.SourceLocation{Line: pos.Line, Column: pos.Column}
}
