package cfg

import (
	"sable/internal/ast"
)

// builder lowers one function body into a flow graph. Statements without
// control effects accumulate on the current node; branches and loops fork
// nodes and connect them back.
type builder struct {
	g    *Graph
	flow *FunctionFlow
}

func (g *Graph) build(fn *ast.Function) *FunctionFlow {
	flow := &FunctionFlow{
		Entry:  g.newNode(),
		Exit:   g.newNode(),
		Revert: g.newNode(),
	}
	b := &builder{g: g, flow: flow}
	if end := b.block(fn.Body, flow.Entry); end != nil {
		// falling off the end of a body is an implicit return
		b.connect(end, flow.Exit)
	}
	return flow
}

// block lowers statements starting at cur and returns the node control
// falls out of, or nil when every path has already left the block.
func (b *builder) block(block *ast.Block, cur *Node) *Node {
	for _, stmt := range block.Stmts {
		if cur == nil {
			// unreachable trailing statements contribute no flow
			return nil
		}
		cur = b.stmt(stmt, cur)
	}
	return cur
}

func (b *builder) stmt(stmt ast.Stmt, cur *Node) *Node {
	switch s := stmt.(type) {
	case *ast.ReturnStmt:
		if s.Value != nil {
			b.attachCalls(cur, s.Value)
		}
		b.connect(cur, b.flow.Exit)
		return nil

	case *ast.RevertStmt:
		b.connect(cur, b.flow.Revert)
		return nil

	case *ast.LetStmt:
		b.attachCalls(cur, s.Value)
		return cur

	case *ast.AssignStmt:
		b.attachCalls(cur, s.Value)
		return cur

	case *ast.ExprStmt:
		b.attachCalls(cur, s.X)
		return cur

	case *ast.IfStmt:
		b.attachCalls(cur, s.Cond)

		thenEntry := b.g.newNode()
		b.connect(cur, thenEntry)
		thenEnd := b.block(s.Then, thenEntry)

		var elseEnd *Node
		if s.Else != nil {
			elseEntry := b.g.newNode()
			b.connect(cur, elseEntry)
			elseEnd = b.block(s.Else, elseEntry)
		} else {
			// the false edge falls through past the conditional
			elseEnd = cur
		}

		if thenEnd == nil && elseEnd == nil {
			return nil
		}
		join := b.g.newNode()
		if thenEnd != nil {
			b.connect(thenEnd, join)
		}
		if elseEnd != nil {
			b.connect(elseEnd, join)
		}
		return join

	case *ast.WhileStmt:
		cond := b.g.newNode()
		b.connect(cur, cond)
		b.attachCalls(cond, s.Cond)

		bodyEntry := b.g.newNode()
		b.connect(cond, bodyEntry)
		if bodyEnd := b.block(s.Body, bodyEntry); bodyEnd != nil {
			b.connect(bodyEnd, cond) // back edge
		}

		after := b.g.newNode()
		b.connect(cond, after)
		return after
	}
	return cur
}

func (b *builder) connect(from, to *Node) {
	from.Exits = append(from.Exits, to)
}

func (b *builder) attachCalls(node *Node, expr ast.Expr) {
	node.Calls = append(node.Calls, ast.CollectCalls(expr)...)
}
