// Package jsonmod implements the `json` stdlib module (spec §6.3):
// encoding and decoding naab values to and from JSON text, built on
// encoding/json the same way internal/blocks and internal/audit already
// do for their on-disk formats.
package jsonmod

import (
	"encoding/json"
	"sort"

	"github.com/naab-lang/naab/internal/stdlib/stdlibutil"
	"github.com/naab-lang/naab/internal/value"
)

// Module is the `json` stdlib module.
type Module struct{}

func New() *Module { return &Module{} }

func (*Module) Name() string { return "json" }

func (*Module) Build() (*value.Environment, error) {
	env := value.NewEnvironment()
	env.Define("stringify", stdlibutil.Native("json.stringify", jsonStringify))
	env.Define("parse", stdlibutil.Native("json.parse", jsonParse))
	return env, nil
}

func jsonStringify(args []value.Value) (value.Value, error) {
	if err := stdlibutil.ExactArgs("json.stringify", args, 1); err != nil {
		return nil, err
	}
	native, err := toNative(args[0])
	if err != nil {
		return nil, err
	}
	b, err := json.Marshal(native)
	if err != nil {
		return nil, stdlibutil.ArgError("json.stringify", err.Error())
	}
	return value.String(b), nil
}

func jsonParse(args []value.Value) (value.Value, error) {
	if err := stdlibutil.ExactArgs("json.parse", args, 1); err != nil {
		return nil, err
	}
	s, err := stdlibutil.Str("json.parse", args, 0)
	if err != nil {
		return nil, err
	}
	var decoded any
	if err := json.Unmarshal([]byte(s), &decoded); err != nil {
		return nil, stdlibutil.ArgError("json.parse", "malformed JSON: "+err.Error())
	}
	return fromNative(decoded), nil
}

// toNative lowers a naab Value into a plain Go value json.Marshal
// understands, mirroring the Handler contract's "returns a shared Value"
// in reverse for the one module that must cross the Go/naab boundary in
// both directions.
func toNative(v value.Value) (any, error) {
	switch x := v.(type) {
	case value.Void:
		return nil, nil
	case value.Bool:
		return bool(x), nil
	case value.Int:
		return int64(x), nil
	case value.Float:
		return float64(x), nil
	case value.String:
		return string(x), nil
	case *value.List:
		out := make([]any, len(x.Elems))
		for i, e := range x.Elems {
			n, err := toNative(e)
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	case *value.Dict:
		out := make(map[string]any, len(x.Keys()))
		for _, k := range x.Keys() {
			val, _ := x.Get(k)
			n, err := toNative(val)
			if err != nil {
				return nil, err
			}
			out[k] = n
		}
		return out, nil
	case *value.Struct:
		out := make(map[string]any, len(x.Fields))
		for name, val := range x.Fields {
			n, err := toNative(val)
			if err != nil {
				return nil, err
			}
			out[name] = n
		}
		return out, nil
	default:
		return nil, stdlibutil.ArgError("json.stringify", "value has no JSON representation")
	}
}

func fromNative(v any) value.Value {
	switch x := v.(type) {
	case nil:
		return value.VoidValue
	case bool:
		return value.Bool(x)
	case float64:
		if x == float64(int64(x)) {
			return value.Int(int64(x))
		}
		return value.Float(x)
	case string:
		return value.String(x)
	case []any:
		elems := make([]value.Value, len(x))
		for i, e := range x {
			elems[i] = fromNative(e)
		}
		return value.NewList(elems)
	case map[string]any:
		d := value.NewDict()
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			d.Set(k, fromNative(x[k]))
		}
		return d
	default:
		return value.VoidValue
	}
}
