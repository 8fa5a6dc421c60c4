package value

import (
	"github.com/naab-lang/naab/internal/ast"
	"github.com/naab-lang/naab/internal/types"
)

// Param is one declared function parameter: a name and its declared type.
type Param struct {
	Name string
	Type *types.Type
}

// Function is a first-class function or lambda value. It captures a
// pointer to its defining Environment (spec §4.3): calls create a child of
// Closure, bind parameters, then evaluate Body.
type Function struct {
	RefCounted
	Name           string
	Params         []Param
	ReturnType     *types.Type
	TypeParameters []string
	Body           ast.Node
	Closure        *Environment
}

func (*Function) RuntimeKind() types.RuntimeKind   { return types.RKFunction }
func (*Function) StructTypeName() string           { return "" }
func (*Function) ListElements() []types.ValueShape { return nil }
func (*Function) DictValues() []types.ValueShape   { return nil }

func (f *Function) String() string {
	name := f.Name
	if name == "" {
		name = "<lambda>"
	}
	return "function " + name
}

// Traverse visits nothing: a Function holds no Value fields of its own,
// only a captured *Environment. The cycle collector walks Closure's
// bindings as a separate environment root rather than through this
// interface, since Environment isn't itself a Value.
func (f *Function) Traverse(func(Value)) {}

// Clear detaches the function from its captured scope and body, breaking
// any cycle the collector found it participating in (a closure stored
// somewhere its own Closure environment can reach forms exactly this
// shape).
func (f *Function) Clear() {
	f.Closure = nil
	f.Body = nil
	f.Params = nil
}

// NativeFunction wraps a Go-implemented handler so a stdlib module can
// export it as an ordinary callable value (spec §6.3): "a handler
// receives a list of shared Values and returns a shared Value or throws
// a typed error". Handler is plain Go, not an ast.Node, so there is no
// Body/Closure to walk — it can never hold a reference back into the
// value graph and so can never participate in a cycle.
type NativeFunction struct {
	RefCounted
	Name    string
	Handler func(args []Value) (Value, error)
}

func (*NativeFunction) RuntimeKind() types.RuntimeKind   { return types.RKFunction }
func (*NativeFunction) StructTypeName() string           { return "" }
func (*NativeFunction) ListElements() []types.ValueShape { return nil }
func (*NativeFunction) DictValues() []types.ValueShape   { return nil }

func (n *NativeFunction) String() string { return "native function " + n.Name }

// Block is the value bound by `use BLOCK-ID as alias`: invoking it
// executes Code as a polyglot block in Language (spec §4.6).
type Block struct {
	RefCounted
	ID         string
	Language   string
	Code       string
	Deprecated bool
	DeprecatedMessage string
}

func (*Block) RuntimeKind() types.RuntimeKind   { return types.RKBlock }
func (*Block) StructTypeName() string           { return "" }
func (*Block) ListElements() []types.ValueShape { return nil }
func (*Block) DictValues() []types.ValueShape   { return nil }

func (b *Block) String() string { return "block " + b.ID }
