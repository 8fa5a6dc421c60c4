// Package stdlibutil holds the argument-checking and value-conversion
// helpers every built-in module under internal/stdlib shares, so each
// module's own file stays a flat list of handler bodies instead of
// repeating the same type assertions. It deliberately sits outside
// package stdlib itself (which wires every module into the Module
// Registry) to avoid an import cycle: stdlib imports each module
// package, and each module package imports this one.
package stdlibutil

import (
	"strconv"

	"github.com/naab-lang/naab/internal/errtax"
	"github.com/naab-lang/naab/internal/value"
)

// Native builds the *value.NativeFunction a module's Build binds a name
// to — a one-line wrapper so module files read as a table of name ->
// handler rather than repeating the struct literal each time.
func Native(name string, handler func(args []value.Value) (value.Value, error)) *value.NativeFunction {
	return &value.NativeFunction{Name: name, Handler: handler}
}

// ArgError builds the typed error every handler reports a bad-call
// through, per spec §6.3 ("a handler ... throws a typed error").
func ArgError(fn, msg string) error {
	return errtax.New(errtax.KindTypeMismatch, fn+": "+msg)
}

// ExactArgs rejects any call to fn that didn't pass exactly want
// arguments.
func ExactArgs(fn string, args []value.Value, want int) error {
	if len(args) != want {
		return ArgError(fn, "expects "+strconv.Itoa(want)+" argument(s), got "+strconv.Itoa(len(args)))
	}
	return nil
}

// MinArgs rejects a call to fn with fewer than min arguments.
func MinArgs(fn string, args []value.Value, min int) error {
	if len(args) < min {
		return ArgError(fn, "expects at least "+strconv.Itoa(min)+" argument(s), got "+strconv.Itoa(len(args)))
	}
	return nil
}

// Str extracts args[i] as a string, or reports which positional argument
// and type were wrong.
func Str(fn string, args []value.Value, i int) (string, error) {
	s, ok := args[i].(value.String)
	if !ok {
		return "", ArgError(fn, "argument "+strconv.Itoa(i+1)+" must be a string")
	}
	return string(s), nil
}

// Int extracts args[i] as an int64.
func Int(fn string, args []value.Value, i int) (int64, error) {
	n, ok := args[i].(value.Int)
	if !ok {
		return 0, ArgError(fn, "argument "+strconv.Itoa(i+1)+" must be an int")
	}
	return int64(n), nil
}

// Float extracts args[i] as a float64, accepting either an Int or a
// Float the way the evaluator's own arithmetic promotes mixed operands.
func Float(fn string, args []value.Value, i int) (float64, error) {
	switch v := args[i].(type) {
	case value.Float:
		return float64(v), nil
	case value.Int:
		return float64(v), nil
	default:
		return 0, ArgError(fn, "argument "+strconv.Itoa(i+1)+" must be a number")
	}
}

// List extracts args[i] as a *value.List.
func List(fn string, args []value.Value, i int) (*value.List, error) {
	l, ok := args[i].(*value.List)
	if !ok {
		return nil, ArgError(fn, "argument "+strconv.Itoa(i+1)+" must be a list")
	}
	return l, nil
}

// Dict extracts args[i] as a *value.Dict.
func Dict(fn string, args []value.Value, i int) (*value.Dict, error) {
	d, ok := args[i].(*value.Dict)
	if !ok {
		return nil, ArgError(fn, "argument "+strconv.Itoa(i+1)+" must be a dict")
	}
	return d, nil
}
