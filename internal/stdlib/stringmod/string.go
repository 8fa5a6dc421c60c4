// Package stringmod implements the `string` stdlib module (spec §6.3):
// common text operations over naab's String value.
package stringmod

import (
	"strconv"
	"strings"

	"github.com/naab-lang/naab/internal/stdlib/stdlibutil"
	"github.com/naab-lang/naab/internal/value"
)

// Module is the `string` stdlib module.
type Module struct{}

func New() *Module { return &Module{} }

func (*Module) Name() string { return "string" }

func (*Module) Build() (*value.Environment, error) {
	env := value.NewEnvironment()
	env.Define("upper", stdlibutil.Native("string.upper", unary(strings.ToUpper)))
	env.Define("lower", stdlibutil.Native("string.lower", unary(strings.ToLower)))
	env.Define("trim", stdlibutil.Native("string.trim", unary(strings.TrimSpace)))
	env.Define("len", stdlibutil.Native("string.len", strLen))
	env.Define("split", stdlibutil.Native("string.split", strSplit))
	env.Define("join", stdlibutil.Native("string.join", strJoin))
	env.Define("contains", stdlibutil.Native("string.contains", strContains))
	env.Define("replace", stdlibutil.Native("string.replace", strReplace))
	env.Define("index_of", stdlibutil.Native("string.index_of", strIndexOf))
	env.Define("starts_with", stdlibutil.Native("string.starts_with", binaryBool(strings.HasPrefix)))
	env.Define("ends_with", stdlibutil.Native("string.ends_with", binaryBool(strings.HasSuffix)))
	env.Define("repeat", stdlibutil.Native("string.repeat", strRepeat))
	env.Define("to_int", stdlibutil.Native("string.to_int", strToInt))
	env.Define("to_float", stdlibutil.Native("string.to_float", strToFloat))
	return env, nil
}

func unary(f func(string) string) func([]value.Value) (value.Value, error) {
	return func(args []value.Value) (value.Value, error) {
		if err := stdlibutil.ExactArgs("string", args, 1); err != nil {
			return nil, err
		}
		s, err := stdlibutil.Str("string", args, 0)
		if err != nil {
			return nil, err
		}
		return value.String(f(s)), nil
	}
}

func binaryBool(f func(s, substr string) bool) func([]value.Value) (value.Value, error) {
	return func(args []value.Value) (value.Value, error) {
		if err := stdlibutil.ExactArgs("string", args, 2); err != nil {
			return nil, err
		}
		s, err := stdlibutil.Str("string", args, 0)
		if err != nil {
			return nil, err
		}
		t, err := stdlibutil.Str("string", args, 1)
		if err != nil {
			return nil, err
		}
		return value.Bool(f(s, t)), nil
	}
}

func strLen(args []value.Value) (value.Value, error) {
	if err := stdlibutil.ExactArgs("string.len", args, 1); err != nil {
		return nil, err
	}
	s, err := stdlibutil.Str("string.len", args, 0)
	if err != nil {
		return nil, err
	}
	return value.Int(len([]rune(s))), nil
}

func strSplit(args []value.Value) (value.Value, error) {
	if err := stdlibutil.ExactArgs("string.split", args, 2); err != nil {
		return nil, err
	}
	s, err := stdlibutil.Str("string.split", args, 0)
	if err != nil {
		return nil, err
	}
	sep, err := stdlibutil.Str("string.split", args, 1)
	if err != nil {
		return nil, err
	}
	parts := strings.Split(s, sep)
	elems := make([]value.Value, len(parts))
	for i, p := range parts {
		elems[i] = value.String(p)
	}
	return value.NewList(elems), nil
}

func strJoin(args []value.Value) (value.Value, error) {
	if err := stdlibutil.ExactArgs("string.join", args, 2); err != nil {
		return nil, err
	}
	l, err := stdlibutil.List("string.join", args, 0)
	if err != nil {
		return nil, err
	}
	sep, err := stdlibutil.Str("string.join", args, 1)
	if err != nil {
		return nil, err
	}
	parts := make([]string, len(l.Elems))
	for i, e := range l.Elems {
		parts[i] = value.TextForm(e)
	}
	return value.String(strings.Join(parts, sep)), nil
}

func strContains(args []value.Value) (value.Value, error) {
	if err := stdlibutil.ExactArgs("string.contains", args, 2); err != nil {
		return nil, err
	}
	s, err := stdlibutil.Str("string.contains", args, 0)
	if err != nil {
		return nil, err
	}
	sub, err := stdlibutil.Str("string.contains", args, 1)
	if err != nil {
		return nil, err
	}
	return value.Bool(strings.Contains(s, sub)), nil
}

func strReplace(args []value.Value) (value.Value, error) {
	if err := stdlibutil.ExactArgs("string.replace", args, 3); err != nil {
		return nil, err
	}
	s, err := stdlibutil.Str("string.replace", args, 0)
	if err != nil {
		return nil, err
	}
	old, err := stdlibutil.Str("string.replace", args, 1)
	if err != nil {
		return nil, err
	}
	replacement, err := stdlibutil.Str("string.replace", args, 2)
	if err != nil {
		return nil, err
	}
	return value.String(strings.ReplaceAll(s, old, replacement)), nil
}

func strIndexOf(args []value.Value) (value.Value, error) {
	if err := stdlibutil.ExactArgs("string.index_of", args, 2); err != nil {
		return nil, err
	}
	s, err := stdlibutil.Str("string.index_of", args, 0)
	if err != nil {
		return nil, err
	}
	sub, err := stdlibutil.Str("string.index_of", args, 1)
	if err != nil {
		return nil, err
	}
	return value.Int(strings.Index(s, sub)), nil
}

func strRepeat(args []value.Value) (value.Value, error) {
	if err := stdlibutil.ExactArgs("string.repeat", args, 2); err != nil {
		return nil, err
	}
	s, err := stdlibutil.Str("string.repeat", args, 0)
	if err != nil {
		return nil, err
	}
	n, err := stdlibutil.Int("string.repeat", args, 1)
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, stdlibutil.ArgError("string.repeat", "count must be non-negative")
	}
	return value.String(strings.Repeat(s, int(n))), nil
}

func strToInt(args []value.Value) (value.Value, error) {
	if err := stdlibutil.ExactArgs("string.to_int", args, 1); err != nil {
		return nil, err
	}
	s, err := stdlibutil.Str("string.to_int", args, 0)
	if err != nil {
		return nil, err
	}
	n, perr := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if perr != nil {
		return nil, stdlibutil.ArgError("string.to_int", "not a valid integer: "+s)
	}
	return value.Int(n), nil
}

func strToFloat(args []value.Value) (value.Value, error) {
	if err := stdlibutil.ExactArgs("string.to_float", args, 1); err != nil {
		return nil, err
	}
	s, err := stdlibutil.Str("string.to_float", args, 0)
	if err != nil {
		return nil, err
	}
	f, perr := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if perr != nil {
		return nil, stdlibutil.ArgError("string.to_float", "not a valid float: "+s)
	}
	return value.Float(f), nil
}
