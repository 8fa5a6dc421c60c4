// Package mathmod implements the `math` stdlib module (spec §6.3): a
// handful of numeric handlers wrapping Go's standard math package.
package mathmod

import (
	"math"

	"github.com/naab-lang/naab/internal/stdlib/stdlibutil"
	"github.com/naab-lang/naab/internal/value"
)

// Module is the `math` stdlib module.
type Module struct{}

// New returns the math module.
func New() *Module { return &Module{} }

func (*Module) Name() string { return "math" }

func (*Module) Build() (*value.Environment, error) {
	env := value.NewEnvironment()
	env.Define("pi", value.Float(math.Pi))
	env.Define("e", value.Float(math.E))
	env.Define("abs", stdlibutil.Native("math.abs", mathAbs))
	env.Define("floor", stdlibutil.Native("math.floor", unary(math.Floor)))
	env.Define("ceil", stdlibutil.Native("math.ceil", unary(math.Ceil)))
	env.Define("round", stdlibutil.Native("math.round", unary(math.Round)))
	env.Define("sqrt", stdlibutil.Native("math.sqrt", unary(math.Sqrt)))
	env.Define("pow", stdlibutil.Native("math.pow", mathPow))
	env.Define("min", stdlibutil.Native("math.min", mathMin))
	env.Define("max", stdlibutil.Native("math.max", mathMax))
	return env, nil
}

func unary(f func(float64) float64) func([]value.Value) (value.Value, error) {
	return func(args []value.Value) (value.Value, error) {
		if err := stdlibutil.ExactArgs("math", args, 1); err != nil {
			return nil, err
		}
		x, err := stdlibutil.Float("math", args, 0)
		if err != nil {
			return nil, err
		}
		return value.Float(f(x)), nil
	}
}

func mathAbs(args []value.Value) (value.Value, error) {
	if err := stdlibutil.ExactArgs("math.abs", args, 1); err != nil {
		return nil, err
	}
	if n, ok := args[0].(value.Int); ok {
		if n < 0 {
			return -n, nil
		}
		return n, nil
	}
	x, err := stdlibutil.Float("math.abs", args, 0)
	if err != nil {
		return nil, err
	}
	return value.Float(math.Abs(x)), nil
}

func mathPow(args []value.Value) (value.Value, error) {
	if err := stdlibutil.ExactArgs("math.pow", args, 2); err != nil {
		return nil, err
	}
	base, err := stdlibutil.Float("math.pow", args, 0)
	if err != nil {
		return nil, err
	}
	exp, err := stdlibutil.Float("math.pow", args, 1)
	if err != nil {
		return nil, err
	}
	return value.Float(math.Pow(base, exp)), nil
}

func mathMin(args []value.Value) (value.Value, error) {
	if err := stdlibutil.ExactArgs("math.min", args, 2); err != nil {
		return nil, err
	}
	return minMax(args, math.Min)
}

func mathMax(args []value.Value) (value.Value, error) {
	if err := stdlibutil.ExactArgs("math.max", args, 2); err != nil {
		return nil, err
	}
	return minMax(args, math.Max)
}

func minMax(args []value.Value, pick func(a, b float64) float64) (value.Value, error) {
	ai, aIsInt := args[0].(value.Int)
	bi, bIsInt := args[1].(value.Int)
	if aIsInt && bIsInt {
		if pick(float64(ai), float64(bi)) == float64(ai) {
			return ai, nil
		}
		return bi, nil
	}
	a, err := stdlibutil.Float("math", args, 0)
	if err != nil {
		return nil, err
	}
	b, err := stdlibutil.Float("math", args, 1)
	if err != nil {
		return nil, err
	}
	return value.Float(pick(a, b)), nil
}
