package expr

// AST node types for expressions

// Node is the interface for all expression nodes.
type Node interface {
	exprNode()
}

// LiteralExpr represents a literal value (int, float, string, bool, none).
type LiteralExpr struct {
	Value Value
}

func (e *LiteralExpr) exprNode() {}

// IdentExpr represents a variable reference resolved from the environment.
type IdentExpr struct {
	Name string
}

func (e *IdentExpr) exprNode() {}

// BinaryExpr represents a binary operation.
type BinaryExpr struct {
	Left  Node
	Op    TokenType
	Right Node
}

func (e *BinaryExpr) exprNode() {}

// UnaryExpr represents a unary operation (negation, logical not).
type UnaryExpr struct {
	Op   TokenType
	Expr Node
}

func (e *UnaryExpr) exprNode() {}

// ListExpr represents a list literal [a, b, c] or a tuple (a, b, c).
type ListExpr struct {
	Elems []Node
}

func (e *ListExpr) exprNode() {}

// SetExpr represents a set literal {a, b, c}.
type SetExpr struct {
	Elems []Node
}

func (e *SetExpr) exprNode() {}
