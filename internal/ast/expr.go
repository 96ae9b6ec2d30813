package ast

// Expr is implemented by all resolved expression nodes
type Expr interface {
	NodePos() Position
	exprNode()
}

// IdentExpr references a variable or parameter
type IdentExpr struct {
	Pos  Position
	Name string
}

// LiteralExpr represents integer and string literals
type LiteralExpr struct {
	Pos   Position
	Value string
}

// UnaryExpr represents "!x" or "-x"
type UnaryExpr struct {
	Pos Position
	Op  string
	X   Expr
}

// BinaryExpr represents a binary operation
type BinaryExpr struct {
	Pos   Position
	Op    string
	Left  Expr
	Right Expr
}

// DispatchKind is the lookup rule a call site was annotated with during
// resolution. It decides how the concrete callee is found at analysis time.
type DispatchKind int

const (
	// DispatchStatic calls the referenced declaration directly: qualified
	// calls through a contract or library name, and calls between free
	// functions.
	DispatchStatic DispatchKind = iota
	// DispatchVirtual performs ordinary virtual lookup through the calling
	// contract's linearized base order.
	DispatchVirtual
	// DispatchSuper starts the lookup just past the lexically enclosing
	// contract in the calling contract's linearization.
	DispatchSuper
)

func (k DispatchKind) String() string {
	switch k {
	case DispatchStatic:
		return "static"
	case DispatchVirtual:
		return "virtual"
	case DispatchSuper:
		return "super"
	}
	return "unknown"
}

// CallExpr represents a resolved function call
// Example: "check(amount)", "SafeMath.add(a, b)", "super.validate(x)"
type CallExpr struct {
	Pos      Position
	Name     string
	Args     []Expr
	Decl     *Function    // declaration the call statically refers to
	Scope    *Contract    // contract the call textually occurs in; nil in free functions
	Dispatch DispatchKind
}

func (e *IdentExpr) NodePos() Position   { return e.Pos }
func (e *LiteralExpr) NodePos() Position { return e.Pos }
func (e *UnaryExpr) NodePos() Position   { return e.Pos }
func (e *BinaryExpr) NodePos() Position  { return e.Pos }
func (e *CallExpr) NodePos() Position    { return e.Pos }

func (*IdentExpr) exprNode()   {}
func (*LiteralExpr) exprNode() {}
func (*UnaryExpr) exprNode()   {}
func (*BinaryExpr) exprNode()  {}
func (*CallExpr) exprNode()    {}

// CollectCalls gathers every call expression in e, outermost first.
func CollectCalls(e Expr) []*CallExpr {
	var calls []*CallExpr
	collectCalls(e, &calls)
	return calls
}

func collectCalls(e Expr, calls *[]*CallExpr) {
	switch node := e.(type) {
	case *CallExpr:
		*calls = append(*calls, node)
		for _, arg := range node.Args {
			collectCalls(arg, calls)
		}
	case *UnaryExpr:
		collectCalls(node.X, calls)
	case *BinaryExpr:
		collectCalls(node.Left, calls)
		collectCalls(node.Right, calls)
	}
}
