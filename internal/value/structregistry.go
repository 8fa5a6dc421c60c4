package value

import (
	"sync"

	"github.com/naab-lang/naab/internal/errtax"
	"github.com/naab-lang/naab/internal/types"
)

// FieldDef is one field in a registered struct type's declaration.
type FieldDef struct {
	Name string
	Type *types.Type
}

// StructDef is the registered shape of one struct type: an ordered field
// list plus its generic type parameters (spec §3.5).
type StructDef struct {
	Name           string
	Fields         []FieldDef
	TypeParameters []string
}

// StructRegistry maps struct type name to its declaration. It is
// thread-safe for concurrent read with single-writer registration
// discipline (spec §5): registration happens during program load,
// lookup happens throughout evaluation.
type StructRegistry struct {
	mu    sync.RWMutex
	defs  map[string]*StructDef
}

func NewStructRegistry() *StructRegistry {
	return &StructRegistry{defs: make(map[string]*StructDef)}
}

// Register adds def, rejecting a circular non-nullable, non-indirect field
// dependency via DFS over the fields already registered (spec §3.5).
// "Indirect" means through a list<T>/dict<K,V> wrapper, which breaks the
// cycle since those are heap-indirected containers rather than inline
// fields; only a field typed directly as another struct (or a union
// containing one) participates in the cycle check.
func (r *StructRegistry) Register(def *StructDef) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.defs[def.Name] = def
	if cyclePath, ok := r.findCycle(def.Name, map[string]bool{}, nil); ok {
		delete(r.defs, def.Name)
		return &errtax.Error{
			Kind:    errtax.KindInvalidConfig,
			Message: "circular struct field dependency",
			Detail:  joinPath(cyclePath),
		}
	}
	return nil
}

func (r *StructRegistry) findCycle(name string, visiting map[string]bool, path []string) ([]string, bool) {
	if visiting[name] {
		return append(path, name), true
	}
	def, ok := r.defs[name]
	if !ok {
		return nil, false
	}
	visiting[name] = true
	path = append(path, name)
	for _, f := range def.Fields {
		if f.Type.Nullable {
			continue // nullable fields may be satisfied by void, breaking the cycle
		}
		for _, dependent := range directStructDependencies(f.Type) {
			if cyclePath, found := r.findCycle(dependent, visiting, path); found {
				return cyclePath, true
			}
		}
	}
	visiting[name] = false
	return nil, false
}

// directStructDependencies returns the struct type names t depends on
// inline (not through list<T>/dict<K,V>, which are heap-indirected).
func directStructDependencies(t *types.Type) []string {
	switch t.Kind {
	case types.KindStruct:
		return []string{t.StructName}
	case types.KindUnion:
		var names []string
		for _, m := range t.UnionMembers {
			names = append(names, directStructDependencies(m)...)
		}
		return names
	default:
		return nil
	}
}

func joinPath(path []string) string {
	s := ""
	for i, p := range path {
		if i > 0 {
			s += " -> "
		}
		s += p
	}
	return s
}

// Get returns the registered definition for name, if any.
func (r *StructRegistry) Get(name string) (*StructDef, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.defs[name]
	return def, ok
}

// Validate checks that s's field set exactly matches its registered
// definition, and that every field's runtime shape satisfies its declared
// type (spec §3.3 invariant).
func (r *StructRegistry) Validate(s *Struct) error {
	def, ok := r.Get(s.TypeName)
	if !ok {
		return &errtax.Error{Kind: errtax.KindModuleNotFound, Message: "unknown struct type '" + s.TypeName + "'"}
	}
	if len(s.Fields) != len(def.Fields) {
		return &errtax.Error{Kind: errtax.KindTypeMismatch, Message: "struct '" + s.TypeName + "' field count mismatch"}
	}
	for _, f := range def.Fields {
		v, ok := s.Fields[f.Name]
		if !ok {
			return &errtax.Error{Kind: errtax.KindTypeMismatch, Message: "struct '" + s.TypeName + "' missing field '" + f.Name + "'"}
		}
		structName := ""
		if st, ok := v.(*Struct); ok {
			structName = st.TypeName
		}
		if !f.Type.Accepts(v.RuntimeKind(), structName, nil) {
			return &errtax.Error{
				Kind:    errtax.KindTypeMismatch,
				Message: "field '" + f.Name + "' of '" + s.TypeName + "' expects " + f.Type.Format(),
				Detail:  "got " + types.RuntimeTypeName(v.RuntimeKind(), structName),
			}
		}
	}
	return nil
}
