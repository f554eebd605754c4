package dsl

// Node is any AST node; every node reports its source position for
// diagnostics.
type Node interface {
	Pos() Position
}

// Position is a line/column source location.
type Position struct {
	Line   int
	Column int
}

// Script is the root AST node: a parsed effect script before type
// checking, consisting of declared parameters, zero or more helper
// functions, and a body whose final expression produces the script's
// per-pixel result.
type Script struct {
	Position Position
	Params   []*ParamDecl
	Funcs    []*FunctionDecl
	Body     []Stmt
}

func (s *Script) Pos() Position { return s.Position }

// ParamDecl declares one script-level parameter exposed to the host
// application for editing.
type ParamDecl struct {
	Position Position
	Name     string
	Type     TypeSpec
	Default  Expr // nil if the type supplies its own zero value
}

func (p *ParamDecl) Pos() Position { return p.Position }

// TypeSpec is the closed set of value types a parameter or expression can
// carry.
type TypeSpec interface {
	Node
	isTypeSpec()
}

type FloatType struct{ Position Position }
type BoolType struct{ Position Position }
type ColorType struct{ Position Position }
type Vec2Type struct{ Position Position }
type CurveType struct{ Position Position }
type GradientType struct{ Position Position }
type TextType struct{ Position Position }

// EnumType declares a closed set of string variants (one selected at a
// time).
type EnumType struct {
	Position Position
	Variants []string
}

// FlagsType declares a closed set of bit-flag variants (any combination
// selected).
type FlagsType struct {
	Position Position
	Variants []string
}

func (*FloatType) isTypeSpec()    {}
func (*BoolType) isTypeSpec()     {}
func (*ColorType) isTypeSpec()    {}
func (*Vec2Type) isTypeSpec()     {}
func (*CurveType) isTypeSpec()    {}
func (*GradientType) isTypeSpec() {}
func (*TextType) isTypeSpec()     {}
func (*EnumType) isTypeSpec()     {}
func (*FlagsType) isTypeSpec()    {}

func (t *FloatType) Pos() Position    { return t.Position }
func (t *BoolType) Pos() Position     { return t.Position }
func (t *ColorType) Pos() Position    { return t.Position }
func (t *Vec2Type) Pos() Position     { return t.Position }
func (t *CurveType) Pos() Position    { return t.Position }
func (t *GradientType) Pos() Position { return t.Position }
func (t *TextType) Pos() Position     { return t.Position }
func (t *EnumType) Pos() Position     { return t.Position }
func (t *FlagsType) Pos() Position    { return t.Position }

// FunctionDecl is a helper function defined inside the script, inlined at
// type-check time up to the TypeChecker's configured inlining depth.
type FunctionDecl struct {
	Position Position
	Name     string
	Params   []*FuncParam
	Body     []Stmt
}

func (f *FunctionDecl) Pos() Position { return f.Position }

type FuncParam struct {
	Position Position
	Name     string
}

// Stmt is a statement inside a script or function body.
type Stmt interface {
	Node
	isStmt()
}

// LetStmt binds a local variable to an expression's value.
type LetStmt struct {
	Position Position
	Name     string
	Value    Expr
}

func (*LetStmt) isStmt() {}

// IfStmt is a conditional with an optional chain of else-if clauses and an
// optional else body.
type IfStmt struct {
	Position  Position
	Condition Expr
	Then      []Stmt
	ElseIfs   []*ElseIfClause
	Else      []Stmt
}

func (*IfStmt) isStmt() {}

type ElseIfClause struct {
	Position  Position
	Condition Expr
	Body      []Stmt
}

// SwitchStmt dispatches on a scrutinee expression; desugared to a
// right-folded if/else chain during type checking.
type SwitchStmt struct {
	Position  Position
	Scrutinee Expr
	Cases     []*SwitchCase
	Default   []Stmt // nil if no default arm
}

func (*SwitchStmt) isStmt() {}

// SwitchCase is one `case <value>: <body>` or `case <value> => <expr>` arm.
type SwitchCase struct {
	Position Position
	Value    Expr
	Body     []Stmt
}

// ReturnStmt exits the enclosing function (or the script body) with a
// value.
type ReturnStmt struct {
	Position Position
	Value    Expr
}

func (*ReturnStmt) isStmt() {}

// ExprStmt evaluates an expression for its side effect (in this
// language, only the final statement of a body is meaningful as a
// result-producing expression statement).
type ExprStmt struct {
	Position Position
	Expr     Expr
}

func (*ExprStmt) isStmt() {}

func (s *LetStmt) Pos() Position      { return s.Position }
func (s *IfStmt) Pos() Position       { return s.Position }
func (s *SwitchStmt) Pos() Position   { return s.Position }
func (s *ReturnStmt) Pos() Position   { return s.Position }
func (s *ExprStmt) Pos() Position     { return s.Position }

// Expr is an expression node. All twelve precedence levels reduce to
// BinaryExpr/UnaryExpr nodes distinguished by Op.
type Expr interface {
	Node
	isExpr()
}

// BinOp is the closed set of binary operators, spanning all non-unary
// precedence levels.
type BinOp int

const (
	OpOr BinOp = iota
	OpAnd
	OpBitOr
	OpBitXor
	OpBitAnd
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpShl
	OpShr
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpPow
)

type BinaryExpr struct {
	Position Position
	Op       BinOp
	Left     Expr
	Right    Expr
}

func (*BinaryExpr) isExpr() {}

type UnaryOp int

const (
	OpNeg UnaryOp = iota
	OpNot
)

type UnaryExpr struct {
	Position Position
	Op       UnaryOp
	Operand  Expr
}

func (*UnaryExpr) isExpr() {}

// TernaryExpr is `cond ? then : else`, compiled directly to a
// jump-patched conditional branch rather than desugared at parse time.
type TernaryExpr struct {
	Position Position
	Cond     Expr
	Then     Expr
	Else     Expr
}

func (*TernaryExpr) isExpr() {}

// SwitchExpr is the expression form of switch/case, used when a value
// (not a statement) is required, e.g. inside a return.
type SwitchExpr struct {
	Position  Position
	Scrutinee Expr
	Cases     []*SwitchExprCase
	Default   Expr
}

type SwitchExprCase struct {
	Position Position
	Value    Expr
	Result   Expr
}

func (*SwitchExpr) isExpr() {}

// CallExpr invokes a builtin function or a user-declared helper function.
type CallExpr struct {
	Position Position
	Name     string
	Args     []Expr
}

func (*CallExpr) isExpr() {}

// IdentExpr references a parameter, local binding, or one of the
// well-known evaluation-context identifiers (t, x, y, index, pixelCount).
type IdentExpr struct {
	Position Position
	Name     string
}

func (*IdentExpr) isExpr() {}

// NumberExpr is a float or integer literal; IsInt records which form the
// source used. Later stages treat both as float64.
type NumberExpr struct {
	Position Position
	Value    float64
	IsInt    bool
}

func (*NumberExpr) isExpr() {}

// HexColorExpr is a `#rrggbb` literal.
type HexColorExpr struct {
	Position Position
	R, G, B  uint8
}

func (*HexColorExpr) isExpr() {}

type BoolExpr struct {
	Position Position
	Value    bool
}

func (*BoolExpr) isExpr() {}

type StringExpr struct {
	Position Position
	Value    string
}

func (*StringExpr) isExpr() {}

// MemberExpr accesses a named field of a composite value (e.g. `.r`,
// `.g`, `.b` on a color, `.x`/`.y` on a vec2).
type MemberExpr struct {
	Position Position
	Object   Expr
	Member   string
}

func (*MemberExpr) isExpr() {}

func (e *BinaryExpr) Pos() Position   { return e.Position }
func (e *UnaryExpr) Pos() Position    { return e.Position }
func (e *TernaryExpr) Pos() Position  { return e.Position }
func (e *SwitchExpr) Pos() Position   { return e.Position }
func (e *CallExpr) Pos() Position     { return e.Position }
func (e *IdentExpr) Pos() Position    { return e.Position }
func (e *NumberExpr) Pos() Position   { return e.Position }
func (e *HexColorExpr) Pos() Position { return e.Position }
func (e *BoolExpr) Pos() Position     { return e.Position }
func (e *StringExpr) Pos() Position   { return e.Position }
func (e *MemberExpr) Pos() Position   { return e.Position }
