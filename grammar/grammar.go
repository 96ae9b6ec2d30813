package grammar

import (
	"github.com/alecthomas/participle/v2/lexer"
)

type PosIdent struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Value  string `@Ident`
}

type Program struct {
	Decls []*Decl `@@*`
}

type Decl struct {
	Contract *ContractDecl `  @@`
	Library  *LibraryDecl  `| @@`
	Function *FunctionDecl `| @@`
}

type ContractDecl struct {
	Pos       lexer.Position
	EndPos    lexer.Position
	Name      PosIdent        `"contract" @@`
	Bases     []PosIdent      `[ "is" @@ { "," @@ } ]`
	Functions []*FunctionDecl `"{" @@* "}"`
}

type LibraryDecl struct {
	Pos       lexer.Position
	EndPos    lexer.Position
	Name      PosIdent        `"library" @@ "{"`
	Functions []*FunctionDecl `@@* "}"`
}

type FunctionDecl struct {
	Pos      lexer.Position
	EndPos   lexer.Position
	Name     PosIdent         `"fn" @@ "("`
	Params   []*FunctionParam `[ @@ { "," @@ } ] ")"`
	Return   *Type            `[ ":" @@ ]`
	Virtual  bool             `[ @"virtual"`
	Override bool             `| @"override" ]`
	Body     *Block           `@@`
}

type FunctionParam struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Name   PosIdent `@@ ":"`
	Type   *Type    `@@`
}

type Type struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Name   PosIdent `@@`
}

type Block struct {
	Pos        lexer.Position
	EndPos     lexer.Position
	Statements []*Stmt `"{" @@* "}"`
}

type Stmt struct {
	If     *IfStmt     `  @@`
	While  *WhileStmt  `| @@`
	Return *ReturnStmt `| @@`
	Revert *RevertStmt `| @@`
	Let    *LetStmt    `| @@`
	Assign *AssignStmt `| @@`
	Expr   *ExprStmt   `| @@`
}

type IfStmt struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Cond   *Expr  `"if" "(" @@ ")"`
	Then   *Block `@@`
	Else   *Block `[ "else" @@ ]`
}

type WhileStmt struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Cond   *Expr  `"while" "(" @@ ")"`
	Body   *Block `@@`
}

type ReturnStmt struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Value  *Expr `"return" [ @@ ] ";"`
}

type RevertStmt struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Reason *string `"revert" [ "(" @String ")" ] ";"`
}

type LetStmt struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Name   PosIdent `"let" @@ "="`
	Expr   *Expr    `@@ ";"`
}

type AssignStmt struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Target PosIdent `@@ "="`
	Value  *Expr    `@@ ";"`
}

type ExprStmt struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Expr   *Expr `@@ ";"`
}

type Expr struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Binary *BinaryExpr `@@`
}

type BinaryExpr struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Left   *UnaryExpr `@@`
	Ops    []*BinOp   `{ @@ }`
}

type BinOp struct {
	Pos      lexer.Position
	EndPos   lexer.Position
	Operator string     `@("||" | "&&" | "==" | "!=" | "<" | "<=" | ">" | ">=" | "+" | "-" | "*" | "/" | "%")`
	Right    *UnaryExpr `@@`
}

type UnaryExpr struct {
	Pos      lexer.Position
	EndPos   lexer.Position
	Operator string       `[ @("!" | "-") ]`
	Value    *PrimaryExpr `@@`
}

type PrimaryExpr struct {
	Super  *SuperCall `  @@`
	Call   *CallExpr  `| @@`
	Number *string    `| @Integer`
	Str    *string    `| @String`
	Ident  *PosIdent  `| @@`
	Parens *Expr      `| "(" @@ ")"`
}

// SuperCall invokes the next implementation up the inheritance chain.
// Example: "super.check(x)"
type SuperCall struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Name   PosIdent `"super" "." @@`
	Args   []*Expr  `"(" [ @@ { "," @@ } ] ")"`
}

// CallExpr covers plain calls "f(x)" and qualified calls "SafeMath.add(a, b)".
type CallExpr struct {
	Pos       lexer.Position
	EndPos    lexer.Position
	Qualifier *PosIdent `[ @@ "." ]`
	Name      PosIdent  `@@`
	Args      []*Expr   `"(" [ @@ { "," @@ } ] ")"`
}
