package ast

import "github.com/naab-lang/naab/internal/token"

func (*IntLit) exprNode()          {}
func (*FloatLit) exprNode()        {}
func (*StringLit) exprNode()       {}
func (*BoolLit) exprNode()         {}
func (*NullLit) exprNode()         {}
func (*ArrayLit) exprNode()        {}
func (*DictLit) exprNode()         {}
func (*Ident) exprNode()           {}
func (*Unary) exprNode()           {}
func (*Binary) exprNode()          {}
func (*Comparison) exprNode()      {}
func (*Logical) exprNode()         {}
func (*Call) exprNode()            {}
func (*Member) exprNode()          {}
func (*Index) exprNode()           {}
func (*StructLit) exprNode()       {}
func (*IfExpr) exprNode()          {}
func (*Lambda) exprNode()          {}
func (*Pipeline) exprNode()        {}
func (*PolyglotBlock) exprNode()   {}
func (*Assign) exprNode()          {}

type IntLit struct {
	Position token.Position
	Value    int64
}

func (n *IntLit) Pos() token.Position { return n.Position }

type FloatLit struct {
	Position token.Position
	Value    float64
}

func (n *FloatLit) Pos() token.Position { return n.Position }

type StringLit struct {
	Position token.Position
	Value    string
}

func (n *StringLit) Pos() token.Position { return n.Position }

type BoolLit struct {
	Position token.Position
	Value    bool
}

func (n *BoolLit) Pos() token.Position { return n.Position }

type NullLit struct {
	Position token.Position
}

func (n *NullLit) Pos() token.Position { return n.Position }

type ArrayLit struct {
	Position token.Position
	Elements []Expr
}

func (n *ArrayLit) Pos() token.Position { return n.Position }

type DictEntry struct {
	Key   Expr
	Value Expr
}

type DictLit struct {
	Position token.Position
	Entries  []DictEntry
}

func (n *DictLit) Pos() token.Position { return n.Position }

type Ident struct {
	Position token.Position
	Name     string
}

func (n *Ident) Pos() token.Position { return n.Position }

// UnaryOp enumerates prefix unary operators.
type UnaryOp int

const (
	UnaryNeg UnaryOp = iota
	UnaryNot
)

type Unary struct {
	Position token.Position
	Op       UnaryOp
	Operand  Expr
}

func (n *Unary) Pos() token.Position { return n.Position }

// BinaryOp enumerates arithmetic binary operators.
type BinaryOp int

const (
	BinAdd BinaryOp = iota
	BinSub
	BinMul
	BinDiv
	BinMod
)

type Binary struct {
	Position token.Position
	Op       BinaryOp
	Left     Expr
	Right    Expr
}

func (n *Binary) Pos() token.Position { return n.Position }

// CompareOp enumerates comparison operators, kept distinct from BinaryOp
// since they always yield bool rather than following arithmetic coercion.
type CompareOp int

const (
	CmpEq CompareOp = iota
	CmpNeq
	CmpLt
	CmpLte
	CmpGt
	CmpGte
)

type Comparison struct {
	Position token.Position
	Op       CompareOp
	Left     Expr
	Right    Expr
}

func (n *Comparison) Pos() token.Position { return n.Position }

// LogicalOp enumerates short-circuiting logical operators.
type LogicalOp int

const (
	LogicalAnd LogicalOp = iota
	LogicalOr
)

type Logical struct {
	Position token.Position
	Op       LogicalOp
	Left     Expr
	Right    Expr
}

func (n *Logical) Pos() token.Position { return n.Position }

type Call struct {
	Position      token.Position
	Callee        Expr
	TypeArguments []*TypeExpr // explicit f<int>(...) arguments, if any
	Args          []Expr
}

func (n *Call) Pos() token.Position { return n.Position }

type Member struct {
	Position token.Position
	Target   Expr
	Name     string
}

func (n *Member) Pos() token.Position { return n.Position }

type Index struct {
	Position token.Position
	Target   Expr
	Key      Expr
}

func (n *Index) Pos() token.Position { return n.Position }

type StructLit struct {
	Position   token.Position
	TypeName   string
	FieldNames []string
	FieldVals  []Expr
}

func (n *StructLit) Pos() token.Position { return n.Position }

type IfExpr struct {
	Position token.Position
	Cond     Expr
	Then     Expr
	Else     Expr
}

func (n *IfExpr) Pos() token.Position { return n.Position }

type LambdaParam struct {
	Name string
	Type *TypeExpr
}

type Lambda struct {
	Position   token.Position
	Params     []LambdaParam
	ReturnType *TypeExpr
	Body       Node // either an Expr (arrow form) or a *Block (brace form)
}

func (n *Lambda) Pos() token.Position { return n.Position }

// Pipeline is `lhs |> rhs`: rhs's right-hand evaluation is lazy (spec §5,
// "lazy right-hand evaluation of the pipeline operator") — the evaluator
// only evaluates rhs's call once lhs has produced a value, then supplies
// it as rhs's first argument.
type Pipeline struct {
	Position token.Position
	Left     Expr
	Right    Expr
}

func (n *Pipeline) Pos() token.Position { return n.Position }

// PolyglotBlock is an inline `<<lang[bindings] ... >>` literal (spec §4.5,
// §6.2).
type PolyglotBlock struct {
	Position token.Position
	Language string
	Bindings []string
	Body     string
}

func (n *PolyglotBlock) Pos() token.Position { return n.Position }

// Assign is `target = value`, also used as an expression inside `if`
// conditions purely so the parser can detect and reject it there
// (AccidentalAssignment, spec §4.2).
type Assign struct {
	Position token.Position
	Target   Expr
	Value    Expr
}

func (n *Assign) Pos() token.Position { return n.Position }
