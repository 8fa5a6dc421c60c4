package envmod_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/naab-lang/naab/internal/stdlib/envmod"
	"github.com/naab-lang/naab/internal/value"
)

func build(t *testing.T) *value.Environment {
	t.Helper()
	env, err := envmod.New().Build()
	require.NoError(t, err)
	return env
}

func call(t *testing.T, env *value.Environment, name string, args ...value.Value) value.Value {
	t.Helper()
	fn, ok := env.Get(name)
	require.True(t, ok, "env.%s not bound", name)
	v, err := fn.(*value.NativeFunction).Handler(args)
	require.NoError(t, err)
	return v
}

func TestEnv_GetAndHas(t *testing.T) {
	t.Setenv("NAAB_STDLIB_TEST_VAR", "hello")
	env := build(t)

	require.Equal(t, value.Bool(true), call(t, env, "has", value.String("NAAB_STDLIB_TEST_VAR")))
	require.Equal(t, value.String("hello"), call(t, env, "get", value.String("NAAB_STDLIB_TEST_VAR")))
}

func TestEnv_GetUnsetReturnsVoid(t *testing.T) {
	env := build(t)
	require.Equal(t, value.Bool(false), call(t, env, "has", value.String("NAAB_STDLIB_DEFINITELY_UNSET")))
	require.Equal(t, value.VoidValue, call(t, env, "get", value.String("NAAB_STDLIB_DEFINITELY_UNSET")))
}
