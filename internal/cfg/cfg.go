package cfg

import (
	"sable/internal/ast"
	"sable/internal/errors"
)

// Node is a vertex in a function's control-flow graph. Exits is the ordered
// list of outgoing edges; Calls are the call sites evaluated at this node.
type Node struct {
	ID    int
	Exits []*Node
	Calls []*ast.CallExpr
}

// FunctionFlow is the per-function graph. Exit is reached only by paths
// that return normally, Revert only by paths that abort.
type FunctionFlow struct {
	Entry  *Node
	Exit   *Node
	Revert *Node
}

type flowKey struct {
	contract *ast.Contract
	function *ast.Function
}

// Graph owns one FunctionFlow per (calling contract, function) pair. A
// function inherited by several contracts gets a distinct flow under each,
// because later passes mutate flows per calling context. Free functions
// live under the nil contract.
type Graph struct {
	flows  map[flowKey]*FunctionFlow
	nextID int
}

// NewGraph builds flows for every function of the program: each contract's
// functions along its linearized base order, and every free function.
func NewGraph(program *ast.Program) *Graph {
	g := &Graph{flows: make(map[flowKey]*FunctionFlow)}
	for _, contract := range program.Contracts {
		for _, base := range contract.Linearized {
			for _, fn := range base.Functions {
				if fn.Body == nil {
					continue
				}
				key := flowKey{contract, fn}
				if _, done := g.flows[key]; !done {
					g.flows[key] = g.build(fn)
				}
			}
		}
	}
	for _, fn := range program.Functions {
		if fn.Body != nil {
			g.flows[flowKey{nil, fn}] = g.build(fn)
		}
	}
	return g
}

// FunctionFlow returns the flow of fn under the given calling contract.
// Both must have been part of the program the graph was built from.
func (g *Graph) FunctionFlow(fn *ast.Function, contract *ast.Contract) *FunctionFlow {
	flow, exists := g.flows[flowKey{contract, fn}]
	if !exists {
		errors.ICE("no control flow graph for function %s", fn.QualifiedName())
	}
	return flow
}

func (g *Graph) newNode() *Node {
	g.nextID++
	return &Node{ID: g.nextID}
}
