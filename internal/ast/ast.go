// Package ast defines the naab abstract syntax tree. Every node carries a
// source position; nodes are uniquely owned by their parent and the tree
// contains no cycles (spec §3.1).
package ast

import "github.com/naab-lang/naab/internal/token"

// Node is implemented by every AST node.
type Node interface {
	Pos() token.Position
}

// Expr is implemented by every expression node.
type Expr interface {
	Node
	exprNode()
}

// Stmt is implemented by every statement node.
type Stmt interface {
	Node
	stmtNode()
}

// TypeExpr is the parsed form of a declared type annotation, lowered to
// *types.Type by the evaluator once struct names are resolvable.
type TypeExpr struct {
	Position       token.Position
	Name           string // "int", "string", "list", "dict", a struct name, or a type-parameter name
	Nullable       bool
	Union          []*TypeExpr
	ElementType    *TypeExpr // list<T>
	KeyType        *TypeExpr // dict<K, V>
	ValueType      *TypeExpr
	TypeArguments  []*TypeExpr // Pair<int, string>
}

func (t *TypeExpr) Pos() token.Position { return t.Position }

// Program is the root node: a sequence of top-level declarations.
type Program struct {
	Position token.Position
	Decls    []Stmt
}

func (p *Program) Pos() token.Position { return p.Position }
