package iomod_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/naab-lang/naab/internal/stdlib/iomod"
	"github.com/naab-lang/naab/internal/value"
)

func TestIO_Print(t *testing.T) {
	var buf bytes.Buffer
	m := &iomod.Module{Stdout: &buf}
	env, err := m.Build()
	require.NoError(t, err)

	fn, ok := env.Get("print")
	require.True(t, ok)
	_, err = fn.(*value.NativeFunction).Handler([]value.Value{value.String("hi "), value.Int(5)})
	require.NoError(t, err)
	require.Equal(t, "hi 5", buf.String())
}

func TestIO_Println(t *testing.T) {
	var buf bytes.Buffer
	m := &iomod.Module{Stdout: &buf}
	env, err := m.Build()
	require.NoError(t, err)

	fn, ok := env.Get("println")
	require.True(t, ok)
	_, err = fn.(*value.NativeFunction).Handler([]value.Value{value.String("line")})
	require.NoError(t, err)
	require.Equal(t, "line\n", buf.String())
}

func TestIO_ReadLineStripsNewline(t *testing.T) {
	m := &iomod.Module{Stdin: strings.NewReader("hello\n")}
	env, err := m.Build()
	require.NoError(t, err)

	fn, ok := env.Get("read_line")
	require.True(t, ok)
	v, err := fn.(*value.NativeFunction).Handler(nil)
	require.NoError(t, err)
	require.Equal(t, value.String("hello"), v)
}
