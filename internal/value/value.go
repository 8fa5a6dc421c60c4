// Package value implements the tagged-variant runtime Value and its
// supporting Environment and StructRegistry: naab's dynamic dispatch is a
// pattern match over this variant rather than interface-method dispatch
// per concrete type (spec §9, "Dynamic dispatch").
package value

import (
	"fmt"
	"strconv"

	"github.com/naab-lang/naab/internal/types"
)

// Value is any naab runtime value. Primitives (Int, Float, Bool, String)
// are plain Go values; composites (List, Dict, Struct, Function, Block,
// ErrorObject) are always held behind a pointer and are reference-counted
// so they can be shared per spec §3.3.
type Value interface {
	types.ValueShape
	fmt.Stringer
}

// Void is the absence-of-value variant: the only value a nullable-typed
// binding may hold besides its base type, and the only value a
// non-nullable binding may never hold.
type Void struct{}

func (Void) RuntimeKind() types.RuntimeKind   { return types.RKVoid }
func (Void) StructTypeName() string           { return "" }
func (Void) ListElements() []types.ValueShape { return nil }
func (Void) DictValues() []types.ValueShape   { return nil }
func (Void) String() string                   { return "void" }

// VoidValue is the single shared Void instance; Void carries no state so
// there is no reason to allocate more than one.
var VoidValue Value = Void{}

type Int int64

func (Int) RuntimeKind() types.RuntimeKind   { return types.RKInt }
func (Int) StructTypeName() string           { return "" }
func (Int) ListElements() []types.ValueShape { return nil }
func (Int) DictValues() []types.ValueShape   { return nil }
func (v Int) String() string                 { return strconv.FormatInt(int64(v), 10) }

type Float float64

func (Float) RuntimeKind() types.RuntimeKind   { return types.RKFloat }
func (Float) StructTypeName() string           { return "" }
func (Float) ListElements() []types.ValueShape { return nil }
func (Float) DictValues() []types.ValueShape   { return nil }
func (v Float) String() string                 { return strconv.FormatFloat(float64(v), 'g', -1, 64) }

type Bool bool

func (Bool) RuntimeKind() types.RuntimeKind   { return types.RKBool }
func (Bool) StructTypeName() string           { return "" }
func (Bool) ListElements() []types.ValueShape { return nil }
func (Bool) DictValues() []types.ValueShape   { return nil }
func (v Bool) String() string                 { return strconv.FormatBool(bool(v)) }

type String string

func (String) RuntimeKind() types.RuntimeKind   { return types.RKString }
func (String) StructTypeName() string           { return "" }
func (String) ListElements() []types.ValueShape { return nil }
func (String) DictValues() []types.ValueShape   { return nil }
func (v String) String() string                 { return string(v) }

// TextForm renders any value's permissive textual form, used by `a + ""`
// coercion (spec §4.2) and by guest-language marshalling fallbacks.
func TextForm(v Value) string {
	if v == nil {
		return "void"
	}
	if s, ok := v.(String); ok {
		return string(s)
	}
	return v.String()
}

// Truthy implements the language's notion of a truth value for `if`/`while`
// conditions and `&&`/`||` short-circuiting: booleans by value, int/float
// nonzero, string non-empty, composites always true, void always false.
func Truthy(v Value) bool {
	switch x := v.(type) {
	case Bool:
		return bool(x)
	case Int:
		return x != 0
	case Float:
		return x != 0
	case String:
		return len(x) > 0
	case Void:
		return false
	default:
		return v != nil
	}
}
