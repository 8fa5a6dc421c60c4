package types

import "testing"

type fakeShape struct {
	kind     RuntimeKind
	name     string
	elems    []ValueShape
	dictVals []ValueShape
}

func (f fakeShape) RuntimeKind() RuntimeKind     { return f.kind }
func (f fakeShape) StructTypeName() string       { return f.name }
func (f fakeShape) ListElements() []ValueShape   { return f.elems }
func (f fakeShape) DictValues() []ValueShape     { return f.dictVals }

func TestType_Format(t *testing.T) {
	cases := []struct {
		ty   *Type
		want string
	}{
		{Int(), "int"},
		{NullableOf(Int()), "int?"},
		{List(Int()), "list<int>"},
		{Union(Int(), String()), "int | string"},
		{Struct("Pair"), "Pair"},
	}
	for _, c := range cases {
		if got := c.ty.Format(); got != c.want {
			t.Errorf("Format() = %q, want %q", got, c.want)
		}
	}
}

func TestAccepts_NullableAndUnion(t *testing.T) {
	nullableInt := NullableOf(Int())
	if !nullableInt.Accepts(RKVoid, "", nil) {
		t.Error("nullable int should accept void")
	}
	if Int().Accepts(RKVoid, "", nil) {
		t.Error("non-nullable int should reject void")
	}
	u := Union(Int(), String())
	if !u.Accepts(RKString, "", nil) {
		t.Error("union should accept a member kind")
	}
	if u.Accepts(RKBool, "", nil) {
		t.Error("union should reject a non-member kind")
	}
}

func TestUnify_GenericFunctionFirst(t *testing.T) {
	// function first<T>(xs: list<T>) -> T { return xs[0] }; first([1,2,3])
	declared := List(TypeParam("T"))
	actual := fakeShape{kind: RKList, elems: []ValueShape{
		fakeShape{kind: RKInt},
		fakeShape{kind: RKInt},
		fakeShape{kind: RKInt},
	}}
	subs := map[string]*Type{}
	if err := Unify(declared, actual, subs); err != nil {
		t.Fatalf("unify failed: %v", err)
	}
	bound, ok := subs["T"]
	if !ok || bound.Format() != "int" {
		t.Fatalf("expected T bound to int, got %v", subs)
	}
}

func TestUnify_Conflict(t *testing.T) {
	declared := List(TypeParam("T"))
	actual := fakeShape{kind: RKList, elems: []ValueShape{
		fakeShape{kind: RKInt},
		fakeShape{kind: RKString},
	}}
	subs := map[string]*Type{}
	if err := Unify(declared, actual, subs); err == nil {
		t.Fatal("expected a unification conflict between int and string")
	}
}
