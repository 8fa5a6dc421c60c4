package stringmod_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/naab-lang/naab/internal/stdlib/stringmod"
	"github.com/naab-lang/naab/internal/value"
)

func build(t *testing.T) *value.Environment {
	t.Helper()
	env, err := stringmod.New().Build()
	require.NoError(t, err)
	return env
}

func call(t *testing.T, env *value.Environment, name string, args ...value.Value) value.Value {
	t.Helper()
	fn, ok := env.Get(name)
	require.True(t, ok, "string.%s not bound", name)
	v, err := fn.(*value.NativeFunction).Handler(args)
	require.NoError(t, err)
	return v
}

func TestString_UpperLowerTrim(t *testing.T) {
	env := build(t)
	require.Equal(t, value.String("HI"), call(t, env, "upper", value.String("hi")))
	require.Equal(t, value.String("hi"), call(t, env, "lower", value.String("HI")))
	require.Equal(t, value.String("hi"), call(t, env, "trim", value.String("  hi  ")))
}

func TestString_SplitAndJoin(t *testing.T) {
	env := build(t)
	parts := call(t, env, "split", value.String("a,b,c"), value.String(","))
	list := parts.(*value.List)
	require.Len(t, list.Elems, 3)
	joined := call(t, env, "join", list, value.String("-"))
	require.Equal(t, value.String("a-b-c"), joined)
}

func TestString_ContainsReplaceIndexOf(t *testing.T) {
	env := build(t)
	require.Equal(t, value.Bool(true), call(t, env, "contains", value.String("hello"), value.String("ell")))
	require.Equal(t, value.String("heyyo"), call(t, env, "replace", value.String("hello"), value.String("ll"), value.String("yy")))
	require.Equal(t, value.Int(1), call(t, env, "index_of", value.String("hello"), value.String("ello")))
}

func TestString_StartsEndsWith(t *testing.T) {
	env := build(t)
	require.Equal(t, value.Bool(true), call(t, env, "starts_with", value.String("hello"), value.String("he")))
	require.Equal(t, value.Bool(true), call(t, env, "ends_with", value.String("hello"), value.String("lo")))
}

func TestString_ToIntToFloatRejectsGarbage(t *testing.T) {
	env := build(t)
	require.Equal(t, value.Int(42), call(t, env, "to_int", value.String("42")))
	require.Equal(t, value.Float(4.2), call(t, env, "to_float", value.String("4.2")))

	fn, _ := env.Get("to_int")
	_, err := fn.(*value.NativeFunction).Handler([]value.Value{value.String("nope")})
	require.Error(t, err)
}
