package query

// The AST is a tagged variant restricted to the statement forms the
// language supports. Call and unary nodes are parsed so the interpreter
// can reject them with the offending line number instead of failing the
// whole parse.

// Stmt is a single assignment statement.
type Stmt struct {
	Line   int
	Target string
	Value  Expr
}

// Script is a parsed query script.
type Script struct {
	Stmts []Stmt
}

// Expr is a query expression node.
type Expr interface {
	Pos() int
}

// NameExpr references a marker by name.
type NameExpr struct {
	Line int
	Name string
}

func (e NameExpr) Pos() int { return e.Line }

// ListExpr is a bracketed list literal.
type ListExpr struct {
	Line  int
	Elems []Expr
}

func (e ListExpr) Pos() int { return e.Line }

// StringExpr is a quoted string literal.
type StringExpr struct {
	Line  int
	Value string
}

func (e StringExpr) Pos() int { return e.Line }

// BarExpr combines the border sets of its operands.
type BarExpr struct {
	Line        int
	Left, Right Expr
}

func (e BarExpr) Pos() int { return e.Line }

// CallExpr is a function call. Not supported; rejected at evaluation.
type CallExpr struct {
	Line int
	Fn   string
	Args []Expr
}

func (e CallExpr) Pos() int { return e.Line }

// UnaryExpr is a unary operation. Not supported; rejected at evaluation.
type UnaryExpr struct {
	Line int
	Op   string
	X    Expr
}

func (e UnaryExpr) Pos() int { return e.Line }
