package ast

// Stmt is implemented by all resolved statement nodes
type Stmt interface {
	NodePos() Position
	stmtNode()
}

// Block represents a braced statement list
type Block struct {
	Pos   Position
	Stmts []Stmt
}

// LetStmt represents a variable declaration
// Example: "let total = balance + amount;"
type LetStmt struct {
	Pos   Position
	Name  string
	Value Expr
}

// AssignStmt represents an assignment to an existing variable
type AssignStmt struct {
	Pos    Position
	Target string
	Value  Expr
}

// ExprStmt represents an expression evaluated for its effects
type ExprStmt struct {
	Pos Position
	X   Expr
}

// ReturnStmt represents "return;" or "return expr;"
type ReturnStmt struct {
	Pos   Position
	Value Expr // nil for a bare return
}

// RevertStmt unconditionally aborts execution
// Example: "revert("insufficient balance");"
type RevertStmt struct {
	Pos    Position
	Reason string // "" when no reason string was given
}

// IfStmt represents a conditional with an optional else block
type IfStmt struct {
	Pos  Position
	Cond Expr
	Then *Block
	Else *Block // nil when absent
}

// WhileStmt represents a loop; its back edge introduces a cycle in the CFG
type WhileStmt struct {
	Pos  Position
	Cond Expr
	Body *Block
}

func (s *LetStmt) NodePos() Position    { return s.Pos }
func (s *AssignStmt) NodePos() Position { return s.Pos }
func (s *ExprStmt) NodePos() Position   { return s.Pos }
func (s *ReturnStmt) NodePos() Position { return s.Pos }
func (s *RevertStmt) NodePos() Position { return s.Pos }
func (s *IfStmt) NodePos() Position     { return s.Pos }
func (s *WhileStmt) NodePos() Position  { return s.Pos }

func (*LetStmt) stmtNode()    {}
func (*AssignStmt) stmtNode() {}
func (*ExprStmt) stmtNode()   {}
func (*ReturnStmt) stmtNode() {}
func (*RevertStmt) stmtNode() {}
func (*IfStmt) stmtNode()     {}
func (*WhileStmt) stmtNode()  {}
