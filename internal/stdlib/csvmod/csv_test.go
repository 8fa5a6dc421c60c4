package csvmod_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/naab-lang/naab/internal/stdlib/csvmod"
	"github.com/naab-lang/naab/internal/value"
)

func build(t *testing.T) *value.Environment {
	t.Helper()
	env, err := csvmod.New().Build()
	require.NoError(t, err)
	return env
}

func call(t *testing.T, env *value.Environment, name string, args ...value.Value) value.Value {
	t.Helper()
	fn, ok := env.Get(name)
	require.True(t, ok, "csv.%s not bound", name)
	v, err := fn.(*value.NativeFunction).Handler(args)
	require.NoError(t, err)
	return v
}

func TestCSV_ParseRows(t *testing.T) {
	env := build(t)
	rows := call(t, env, "parse", value.String("a,b\n1,2\n")).(*value.List)
	require.Len(t, rows.Elems, 2)
	first := rows.Elems[0].(*value.List)
	require.Equal(t, []value.Value{value.String("a"), value.String("b")}, first.Elems)
}

func TestCSV_WriteRoundTrip(t *testing.T) {
	env := build(t)
	row1 := value.NewList([]value.Value{value.String("name"), value.String("age")})
	row2 := value.NewList([]value.Value{value.String("ada"), value.Int(36)})
	rows := value.NewList([]value.Value{row1, row2})

	text := call(t, env, "write", rows)
	require.Equal(t, value.String("name,age\nada,36\n"), text)

	parsed := call(t, env, "parse", text).(*value.List)
	require.Len(t, parsed.Elems, 2)
}
