// Package arraymod implements the `array` stdlib module (spec §6.3):
// list operations beyond the language's own indexing/slicing syntax.
package arraymod

import (
	"github.com/naab-lang/naab/internal/errtax"
	"github.com/naab-lang/naab/internal/stdlib/stdlibutil"
	"github.com/naab-lang/naab/internal/value"
)

// Module is the `array` stdlib module.
type Module struct{}

func New() *Module { return &Module{} }

func (*Module) Name() string { return "array" }

func (*Module) Build() (*value.Environment, error) {
	env := value.NewEnvironment()
	env.Define("len", stdlibutil.Native("array.len", arrLen))
	env.Define("push", stdlibutil.Native("array.push", arrPush))
	env.Define("pop", stdlibutil.Native("array.pop", arrPop))
	env.Define("reverse", stdlibutil.Native("array.reverse", arrReverse))
	env.Define("slice", stdlibutil.Native("array.slice", arrSlice))
	env.Define("concat", stdlibutil.Native("array.concat", arrConcat))
	env.Define("index_of", stdlibutil.Native("array.index_of", arrIndexOf))
	env.Define("contains", stdlibutil.Native("array.contains", arrContains))
	return env, nil
}

func arrLen(args []value.Value) (value.Value, error) {
	if err := stdlibutil.ExactArgs("array.len", args, 1); err != nil {
		return nil, err
	}
	l, err := stdlibutil.List("array.len", args, 0)
	if err != nil {
		return nil, err
	}
	return value.Int(len(l.Elems)), nil
}

// arrPush returns a new list with elem appended: arrays are
// copy-on-assignment, so a stdlib append never mutates its argument
// behind the caller's back.
func arrPush(args []value.Value) (value.Value, error) {
	if err := stdlibutil.ExactArgs("array.push", args, 2); err != nil {
		return nil, err
	}
	l, err := stdlibutil.List("array.push", args, 0)
	if err != nil {
		return nil, err
	}
	next := make([]value.Value, len(l.Elems)+1)
	copy(next, l.Elems)
	next[len(l.Elems)] = args[1]
	return value.NewList(next), nil
}

func arrPop(args []value.Value) (value.Value, error) {
	if err := stdlibutil.ExactArgs("array.pop", args, 1); err != nil {
		return nil, err
	}
	l, err := stdlibutil.List("array.pop", args, 0)
	if err != nil {
		return nil, err
	}
	if len(l.Elems) == 0 {
		return nil, stdlibutil.ArgError("array.pop", "list is empty")
	}
	next := make([]value.Value, len(l.Elems)-1)
	copy(next, l.Elems[:len(l.Elems)-1])
	return value.NewList(next), nil
}

func arrReverse(args []value.Value) (value.Value, error) {
	if err := stdlibutil.ExactArgs("array.reverse", args, 1); err != nil {
		return nil, err
	}
	l, err := stdlibutil.List("array.reverse", args, 0)
	if err != nil {
		return nil, err
	}
	next := make([]value.Value, len(l.Elems))
	for i, e := range l.Elems {
		next[len(l.Elems)-1-i] = e
	}
	return value.NewList(next), nil
}

func arrSlice(args []value.Value) (value.Value, error) {
	if err := stdlibutil.ExactArgs("array.slice", args, 3); err != nil {
		return nil, err
	}
	l, err := stdlibutil.List("array.slice", args, 0)
	if err != nil {
		return nil, err
	}
	start, err := stdlibutil.Int("array.slice", args, 1)
	if err != nil {
		return nil, err
	}
	end, err := stdlibutil.Int("array.slice", args, 2)
	if err != nil {
		return nil, err
	}
	if start < 0 || end > int64(len(l.Elems)) || start > end {
		return nil, errtax.New(errtax.KindIndexOutOfRange, "array.slice: index out of range")
	}
	next := make([]value.Value, end-start)
	copy(next, l.Elems[start:end])
	return value.NewList(next), nil
}

func arrConcat(args []value.Value) (value.Value, error) {
	if err := stdlibutil.ExactArgs("array.concat", args, 2); err != nil {
		return nil, err
	}
	a, err := stdlibutil.List("array.concat", args, 0)
	if err != nil {
		return nil, err
	}
	b, err := stdlibutil.List("array.concat", args, 1)
	if err != nil {
		return nil, err
	}
	next := make([]value.Value, 0, len(a.Elems)+len(b.Elems))
	next = append(next, a.Elems...)
	next = append(next, b.Elems...)
	return value.NewList(next), nil
}

func arrIndexOf(args []value.Value) (value.Value, error) {
	if err := stdlibutil.ExactArgs("array.index_of", args, 2); err != nil {
		return nil, err
	}
	l, err := stdlibutil.List("array.index_of", args, 0)
	if err != nil {
		return nil, err
	}
	for i, e := range l.Elems {
		if equalValue(e, args[1]) {
			return value.Int(i), nil
		}
	}
	return value.Int(-1), nil
}

func arrContains(args []value.Value) (value.Value, error) {
	idx, err := arrIndexOf(args)
	if err != nil {
		return nil, err
	}
	return value.Bool(idx.(value.Int) >= 0), nil
}

// equalValue compares two primitive values by naab's value-equality rules;
// composites compare by identity since the language has no deep-equality
// operator of its own to defer to.
func equalValue(a, b value.Value) bool {
	switch av := a.(type) {
	case value.Int:
		bv, ok := b.(value.Int)
		return ok && av == bv
	case value.Float:
		bv, ok := b.(value.Float)
		return ok && av == bv
	case value.String:
		bv, ok := b.(value.String)
		return ok && av == bv
	case value.Bool:
		bv, ok := b.(value.Bool)
		return ok && av == bv
	default:
		return a == b
	}
}

