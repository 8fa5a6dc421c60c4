package filemod_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/naab-lang/naab/internal/stdlib/filemod"
	"github.com/naab-lang/naab/internal/value"
)

func build(t *testing.T) *value.Environment {
	t.Helper()
	env, err := filemod.New().Build()
	require.NoError(t, err)
	return env
}

func call(t *testing.T, env *value.Environment, name string, args ...value.Value) value.Value {
	t.Helper()
	fn, ok := env.Get(name)
	require.True(t, ok, "file.%s not bound", name)
	v, err := fn.(*value.NativeFunction).Handler(args)
	require.NoError(t, err)
	return v
}

func TestFile_WriteReadAppendExistsRemove(t *testing.T) {
	env := build(t)
	path := filepath.Join(t.TempDir(), "greeting.txt")

	require.Equal(t, value.Bool(false), call(t, env, "exists", value.String(path)))
	call(t, env, "write", value.String(path), value.String("hello"))
	require.Equal(t, value.Bool(true), call(t, env, "exists", value.String(path)))
	require.Equal(t, value.String("hello"), call(t, env, "read", value.String(path)))

	call(t, env, "append", value.String(path), value.String(" world"))
	require.Equal(t, value.String("hello world"), call(t, env, "read", value.String(path)))

	call(t, env, "remove", value.String(path))
	require.Equal(t, value.Bool(false), call(t, env, "exists", value.String(path)))
}

func TestFile_ReadMissingReportsError(t *testing.T) {
	env := build(t)
	fn, _ := env.Get("read")
	_, err := fn.(*value.NativeFunction).Handler([]value.Value{value.String(filepath.Join(t.TempDir(), "nope.txt"))})
	require.Error(t, err)
}
