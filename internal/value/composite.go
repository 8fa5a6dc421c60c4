package value

import (
	"strings"
	"sync/atomic"

	"github.com/naab-lang/naab/internal/types"
)

// RefCounted is embedded by every composite value. Retain/Release implement
// the shared-ownership model of spec §3.3; the cycle collector (internal/gc)
// additionally walks the graph independent of the count, since a cycle
// keeps every member's count above zero forever.
type RefCounted struct {
	count int32
}

// Retain increments the reference count and returns the new value, mainly
// useful for call sites that want to assert it moved off zero.
func (r *RefCounted) Retain() int32 {
	return atomic.AddInt32(&r.count, 1)
}

// Release decrements the reference count and returns the new value; callers
// that drive manual (non-GC) collection free the holder once this reaches
// zero.
func (r *RefCounted) Release() int32 {
	return atomic.AddInt32(&r.count, -1)
}

// RefCount reports the current reference count.
func (r *RefCounted) RefCount() int32 {
	return atomic.LoadInt32(&r.count)
}

// Traversable is implemented by every composite Value so the cycle
// collector can walk the graph without type-switching on every variant.
type Traversable interface {
	Traverse(visit func(Value))
}

// Breakable is implemented by every composite Value the cycle collector
// can track, so a cyclic component can be severed by clearing one
// holder's outgoing references rather than needing type-specific
// teardown logic in internal/gc.
type Breakable interface {
	Clear()
}

// List is naab's array value. Arrays are copy-on-assignment to names (a
// new *List is produced) but element assignment mutates Elems in place
// (spec §4.2).
type List struct {
	RefCounted
	Elems []Value
}

func NewList(elems []Value) *List { return &List{Elems: elems} }

func (*List) RuntimeKind() types.RuntimeKind { return types.RKList }
func (*List) StructTypeName() string         { return "" }

func (l *List) ListElements() []types.ValueShape {
	shapes := make([]types.ValueShape, len(l.Elems))
	for i, e := range l.Elems {
		shapes[i] = e
	}
	return shapes
}

func (*List) DictValues() []types.ValueShape { return nil }

func (l *List) String() string {
	parts := make([]string, len(l.Elems))
	for i, e := range l.Elems {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func (l *List) Traverse(visit func(Value)) {
	for _, e := range l.Elems {
		visit(e)
	}
}

// Clear drops every element, releasing this list's references to them.
func (l *List) Clear() { l.Elems = nil }

// Dict is naab's string-keyed map value, insertion-ordered so iteration
// and marshalling are deterministic.
type Dict struct {
	RefCounted
	keys []string
	vals map[string]Value
}

func NewDict() *Dict {
	return &Dict{vals: make(map[string]Value)}
}

func (d *Dict) Set(key string, v Value) {
	if _, exists := d.vals[key]; !exists {
		d.keys = append(d.keys, key)
	}
	d.vals[key] = v
}

func (d *Dict) Get(key string) (Value, bool) {
	v, ok := d.vals[key]
	return v, ok
}

func (d *Dict) Keys() []string { return d.keys }

func (*Dict) RuntimeKind() types.RuntimeKind   { return types.RKDict }
func (*Dict) StructTypeName() string           { return "" }
func (*Dict) ListElements() []types.ValueShape { return nil }

func (d *Dict) DictValues() []types.ValueShape {
	shapes := make([]types.ValueShape, 0, len(d.keys))
	for _, k := range d.keys {
		shapes = append(shapes, d.vals[k])
	}
	return shapes
}

func (d *Dict) String() string {
	parts := make([]string, 0, len(d.keys))
	for _, k := range d.keys {
		parts = append(parts, k+": "+d.vals[k].String())
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func (d *Dict) Traverse(visit func(Value)) {
	for _, k := range d.keys {
		visit(d.vals[k])
	}
}

// Clear drops every key and value, releasing this dict's references.
func (d *Dict) Clear() {
	d.keys = nil
	d.vals = nil
}

// Struct holds a struct-type name and a mapping from field name to shared
// Value, per spec §3.3's StructValue. Field mutation through member
// assignment mutates Fields in place.
type Struct struct {
	RefCounted
	TypeName string
	Fields   map[string]Value
	order    []string
}

func NewStruct(typeName string, order []string, fields map[string]Value) *Struct {
	return &Struct{TypeName: typeName, Fields: fields, order: order}
}

func (s *Struct) RuntimeKind() types.RuntimeKind   { return types.RKStruct }
func (s *Struct) StructTypeName() string           { return s.TypeName }
func (*Struct) ListElements() []types.ValueShape   { return nil }
func (*Struct) DictValues() []types.ValueShape     { return nil }

func (s *Struct) String() string {
	parts := make([]string, 0, len(s.order))
	for _, name := range s.order {
		parts = append(parts, name+": "+s.Fields[name].String())
	}
	return s.TypeName + "{" + strings.Join(parts, ", ") + "}"
}

func (s *Struct) Traverse(visit func(Value)) {
	for _, name := range s.order {
		visit(s.Fields[name])
	}
}

// Clear drops every field, releasing this struct's references to them.
func (s *Struct) Clear() {
	s.Fields = nil
	s.order = nil
}
