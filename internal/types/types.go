// Package types implements naab's static type surface: the Type value
// every declaration, parameter, and return type carries, runtime-checked
// against values at binding time (spec: "types are checked at binding
// time", not ahead of evaluation).
package types

import "strings"

// Kind enumerates the shapes a Type can take.
type Kind int

const (
	KindInt Kind = iota
	KindFloat
	KindBool
	KindString
	KindVoid
	KindAny
	KindList
	KindDict
	KindStruct
	KindTypeParam
	KindUnion
	KindFunction
)

// Type is the declared-type surface: { kind, nullable, union_members,
// type_parameters, struct_name, element_type, key_type, value_type }.
type Type struct {
	Kind           Kind
	Nullable       bool
	UnionMembers   []*Type
	TypeParameters []string // for KindFunction / generic struct declarations
	StructName     string
	ElementType    *Type // KindList
	KeyType        *Type // KindDict
	ValueType      *Type // KindDict
	Param          string // KindTypeParam: the unbound variable's name
}

func Int() *Type    { return &Type{Kind: KindInt} }
func Float() *Type  { return &Type{Kind: KindFloat} }
func Bool() *Type   { return &Type{Kind: KindBool} }
func String() *Type { return &Type{Kind: KindString} }
func Void() *Type   { return &Type{Kind: KindVoid} }
func Any() *Type    { return &Type{Kind: KindAny} }

func List(elem *Type) *Type           { return &Type{Kind: KindList, ElementType: elem} }
func Dict(key, val *Type) *Type       { return &Type{Kind: KindDict, KeyType: key, ValueType: val} }
func Struct(name string) *Type        { return &Type{Kind: KindStruct, StructName: name} }
func TypeParam(name string) *Type     { return &Type{Kind: KindTypeParam, Param: name} }
func Union(members ...*Type) *Type    { return &Type{Kind: KindUnion, UnionMembers: members} }

// NullableOf returns a copy of t marked nullable.
func NullableOf(t *Type) *Type {
	cp := *t
	cp.Nullable = true
	return &cp
}

// Format renders the type the way TypeMismatch messages quote it:
// "int | string", "list<int>", "Pair<int, string>", trailing "?" for
// nullable.
func (t *Type) Format() string {
	if t == nil {
		return "void"
	}
	var s string
	switch t.Kind {
	case KindInt:
		s = "int"
	case KindFloat:
		s = "float"
	case KindBool:
		s = "bool"
	case KindString:
		s = "string"
	case KindVoid:
		s = "void"
	case KindAny:
		s = "any"
	case KindList:
		s = "list<" + t.ElementType.Format() + ">"
	case KindDict:
		s = "dict<" + t.KeyType.Format() + ", " + t.ValueType.Format() + ">"
	case KindStruct:
		s = t.StructName
		if len(t.TypeParameters) > 0 {
			s += "<" + strings.Join(t.TypeParameters, ", ") + ">"
		}
	case KindTypeParam:
		s = t.Param
	case KindUnion:
		parts := make([]string, len(t.UnionMembers))
		for i, m := range t.UnionMembers {
			parts[i] = m.Format()
		}
		s = strings.Join(parts, " | ")
	case KindFunction:
		s = "function"
	default:
		s = "any"
	}
	if t.Nullable {
		s += "?"
	}
	return s
}

// RuntimeKind tags the kind of an actual runtime value, kept distinct from
// Kind so the type checker can compare a declared Type against an observed
// RuntimeKind without importing the value package (which would create an
// import cycle, since value.Value needs to reference Type for struct
// field declarations).
type RuntimeKind int

const (
	RKVoid RuntimeKind = iota
	RKInt
	RKFloat
	RKBool
	RKString
	RKList
	RKDict
	RKStruct
	RKFunction
	RKBlock
	RKError
)

// RuntimeTypeName renders a runtime kind the way a TypeMismatch message
// names the "actual" side: e.g. "int", "list", "Pair".
func RuntimeTypeName(k RuntimeKind, structName string) string {
	switch k {
	case RKVoid:
		return "void"
	case RKInt:
		return "int"
	case RKFloat:
		return "float"
	case RKBool:
		return "bool"
	case RKString:
		return "string"
	case RKList:
		return "list"
	case RKDict:
		return "dict"
	case RKStruct:
		return structName
	case RKFunction:
		return "function"
	case RKBlock:
		return "block"
	case RKError:
		return "error"
	default:
		return "any"
	}
}

// Accepts reports whether a runtime value of kind rk (struct name
// structName, if rk is RKStruct) satisfies t, per the binding-check rules
// in spec §4.4: Any matches anything, Union accepts if any member accepts,
// nullable accepts void, TypeParam is resolved via subs before checking.
func (t *Type) Accepts(rk RuntimeKind, structName string, subs map[string]*Type) bool {
	if t == nil {
		return rk == RKVoid
	}
	if rk == RKVoid {
		return t.Nullable || t.Kind == KindVoid || t.Kind == KindAny
	}
	switch t.Kind {
	case KindAny:
		return true
	case KindUnion:
		for _, m := range t.UnionMembers {
			if m.Accepts(rk, structName, subs) {
				return true
			}
		}
		return false
	case KindTypeParam:
		if bound, ok := subs[t.Param]; ok {
			return bound.Accepts(rk, structName, subs)
		}
		return true // unresolved type parameters default to Any
	case KindInt:
		return rk == RKInt
	case KindFloat:
		return rk == RKFloat
	case KindBool:
		return rk == RKBool
	case KindString:
		return rk == RKString
	case KindList:
		return rk == RKList
	case KindDict:
		return rk == RKDict
	case KindStruct:
		return rk == RKStruct && t.StructName == structName
	case KindFunction:
		return rk == RKFunction
	case KindVoid:
		return rk == RKVoid
	default:
		return false
	}
}

// ValueShape is the minimal view of a runtime value the generics solver
// needs to descend into list<T> elements and dict<K,V> values; Unify does
// not bind dict key types or struct type arguments. It exists so that
// internal/types need not import internal/value (which itself imports
// internal/types for struct field declarations).
type ValueShape interface {
	RuntimeKind() RuntimeKind
	StructTypeName() string
	ListElements() []ValueShape
	DictValues() []ValueShape
}

// UnificationConflict is returned by Unify when two occurrences of the
// same type parameter would have to bind to different types.
type UnificationConflict struct {
	Param string
	First *Type
	Second *Type
}

func (e *UnificationConflict) Error() string {
	return "cannot unify type parameter " + e.Param + ": " + e.First.Format() + " vs " + e.Second.Format()
}

// Unify reconciles declared against the runtime shape of actual, writing
// any type-parameter bindings it discovers into subs. Re-running Unify on
// an already-substituted declared type is required to be a fixed point
// (spec §8): since Substitute has already replaced every TypeParam before
// a second call, Unify simply finds no TypeParam nodes left to bind and
// succeeds trivially.
func Unify(declared *Type, actual ValueShape, subs map[string]*Type) error {
	if declared == nil || actual == nil {
		return nil
	}
	switch declared.Kind {
	case KindTypeParam:
		observed := inferType(actual)
		if existing, ok := subs[declared.Param]; ok {
			if existing.Format() != observed.Format() {
				return &UnificationConflict{Param: declared.Param, First: existing, Second: observed}
			}
			return nil
		}
		subs[declared.Param] = observed
		return nil
	case KindList:
		for _, el := range actual.ListElements() {
			if err := Unify(declared.ElementType, el, subs); err != nil {
				return err
			}
		}
		return nil
	case KindDict:
		for _, v := range actual.DictValues() {
			if err := Unify(declared.ValueType, v, subs); err != nil {
				return err
			}
		}
		return nil
	default:
		return nil
	}
}

// inferType derives a concrete Type from a runtime shape, used to seed a
// freshly-bound type parameter.
func inferType(v ValueShape) *Type {
	switch v.RuntimeKind() {
	case RKInt:
		return Int()
	case RKFloat:
		return Float()
	case RKBool:
		return Bool()
	case RKString:
		return String()
	case RKList:
		elems := v.ListElements()
		if len(elems) == 0 {
			return List(Any())
		}
		return List(inferType(elems[0]))
	case RKDict:
		vals := v.DictValues()
		if len(vals) == 0 {
			return Dict(String(), Any())
		}
		return Dict(String(), inferType(vals[0]))
	case RKStruct:
		return Struct(v.StructTypeName())
	case RKFunction:
		return &Type{Kind: KindFunction}
	default:
		return Any()
	}
}

// Substitute returns a copy of t with every TypeParam replaced per subs,
// recursing into List/Dict element types and Union members. Used both for
// parameter/return substitution at call time and to validate the
// substitution is idempotent when re-run (spec §8 testable property).
func (t *Type) Substitute(subs map[string]*Type) *Type {
	if t == nil {
		return nil
	}
	cp := *t
	switch t.Kind {
	case KindTypeParam:
		if bound, ok := subs[t.Param]; ok {
			return bound
		}
		return &cp
	case KindList:
		cp.ElementType = t.ElementType.Substitute(subs)
	case KindDict:
		cp.KeyType = t.KeyType.Substitute(subs)
		cp.ValueType = t.ValueType.Substitute(subs)
	case KindUnion:
		members := make([]*Type, len(t.UnionMembers))
		for i, m := range t.UnionMembers {
			members[i] = m.Substitute(subs)
		}
		cp.UnionMembers = members
	}
	return &cp
}
