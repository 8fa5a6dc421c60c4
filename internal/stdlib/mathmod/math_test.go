package mathmod_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/naab-lang/naab/internal/stdlib/mathmod"
	"github.com/naab-lang/naab/internal/value"
)

func build(t *testing.T) *value.Environment {
	t.Helper()
	env, err := mathmod.New().Build()
	require.NoError(t, err)
	return env
}

func call(t *testing.T, env *value.Environment, name string, args ...value.Value) value.Value {
	t.Helper()
	fn, ok := env.Get(name)
	require.True(t, ok, "math.%s not bound", name)
	native, ok := fn.(*value.NativeFunction)
	require.True(t, ok)
	v, err := native.Handler(args)
	require.NoError(t, err)
	return v
}

func TestMath_AbsHandlesIntAndFloat(t *testing.T) {
	env := build(t)
	require.Equal(t, value.Int(5), call(t, env, "abs", value.Int(-5)))
	require.Equal(t, value.Float(5.5), call(t, env, "abs", value.Float(-5.5)))
}

func TestMath_FloorCeilRound(t *testing.T) {
	env := build(t)
	require.Equal(t, value.Float(1), call(t, env, "floor", value.Float(1.9)))
	require.Equal(t, value.Float(2), call(t, env, "ceil", value.Float(1.1)))
	require.Equal(t, value.Float(2), call(t, env, "round", value.Float(1.5)))
}

func TestMath_PowAndSqrt(t *testing.T) {
	env := build(t)
	require.Equal(t, value.Float(8), call(t, env, "pow", value.Int(2), value.Int(3)))
	require.Equal(t, value.Float(3), call(t, env, "sqrt", value.Int(9)))
}

func TestMath_MinMaxPreservesIntType(t *testing.T) {
	env := build(t)
	require.Equal(t, value.Int(2), call(t, env, "min", value.Int(2), value.Int(7)))
	require.Equal(t, value.Int(7), call(t, env, "max", value.Int(2), value.Int(7)))
}

func TestMath_Constants(t *testing.T) {
	env := build(t)
	pi, ok := env.Get("pi")
	require.True(t, ok)
	require.InDelta(t, 3.14159, float64(pi.(value.Float)), 0.001)
}
