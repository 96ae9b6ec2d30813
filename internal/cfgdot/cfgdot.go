// Package cfgdot maps the compiler's flow graphs onto lattice's graph
// model so they can be rendered as Graphviz DOT. Running it after the
// revert pruner makes collapsed call sites visible in the dump.
package cfgdot

import (
	"fmt"

	"github.com/zboralski/lattice"

	"sable/internal/ast"
	"sable/internal/cfg"
)

// BuildCFG converts every function flow of the program to a
// lattice.CFGGraph, one FuncCFG per (contract, function) pair in program
// order.
func BuildCFG(program *ast.Program, graph *cfg.Graph) *lattice.CFGGraph {
	cg := &lattice.CFGGraph{}
	eachFlow(program, graph, func(name string, flow *cfg.FunctionFlow) {
		cg.Funcs = append(cg.Funcs, convertFlow(name, flow))
	})
	return cg
}

// BuildCallGraph constructs a lattice.Graph with one node per analyzed
// function and one edge per statically annotated call site.
func BuildCallGraph(program *ast.Program) *lattice.Graph {
	g := &lattice.Graph{}
	eachFunction(program, func(contract *ast.Contract, fn *ast.Function) {
		caller := flowName(contract, fn)
		g.Nodes = append(g.Nodes, caller)
		for _, call := range bodyCalls(fn) {
			g.Edges = append(g.Edges, lattice.Edge{
				Caller: caller,
				Callee: call.Decl.QualifiedName(),
			})
		}
	})
	g.Dedup()
	return g
}

// convertFlow numbers the flow's reachable nodes breadth-first and maps
// them to lattice blocks. Exit and revert sentinels are terminal blocks.
func convertFlow(name string, flow *cfg.FunctionFlow) *lattice.FuncCFG {
	ids := map[*cfg.Node]int{flow.Entry: 0}
	order := []*cfg.Node{flow.Entry}
	for i := 0; i < len(order); i++ {
		for _, next := range order[i].Exits {
			if _, seen := ids[next]; !seen {
				ids[next] = len(order)
				order = append(order, next)
			}
		}
	}

	lcfg := &lattice.FuncCFG{Name: name}
	for _, node := range order {
		lb := &lattice.BasicBlock{
			ID:    ids[node],
			Start: ids[node],
			End:   ids[node] + 1,
			Term:  node == flow.Exit || node == flow.Revert,
		}
		for _, next := range node.Exits {
			lb.Succs = append(lb.Succs, lattice.Successor{BlockID: ids[next]})
		}
		for i, call := range node.Calls {
			lb.Calls = append(lb.Calls, lattice.CallSite{
				Offset: i,
				Callee: call.Decl.QualifiedName(),
			})
		}
		lcfg.Blocks = append(lcfg.Blocks, lb)
	}
	return lcfg
}

func flowName(contract *ast.Contract, fn *ast.Function) string {
	if contract == nil {
		return fn.Name
	}
	if fn.Contract == contract {
		return contract.Name + "." + fn.Name
	}
	return fmt.Sprintf("%s.%s(from %s)", contract.Name, fn.Name, fn.Contract.Name)
}

func eachFunction(program *ast.Program, fn func(*ast.Contract, *ast.Function)) {
	for _, contract := range program.Contracts {
		for _, base := range contract.Linearized {
			for _, function := range base.Functions {
				if function.Body != nil {
					fn(contract, function)
				}
			}
		}
	}
	for _, function := range program.Functions {
		if function.Body != nil {
			fn(nil, function)
		}
	}
}

func eachFlow(program *ast.Program, graph *cfg.Graph, visit func(string, *cfg.FunctionFlow)) {
	eachFunction(program, func(contract *ast.Contract, fn *ast.Function) {
		visit(flowName(contract, fn), graph.FunctionFlow(fn, contract))
	})
}

// bodyCalls collects the call sites of a function body in source order.
func bodyCalls(fn *ast.Function) []*ast.CallExpr {
	var calls []*ast.CallExpr
	var walkBlock func(*ast.Block)
	walkStmt := func(stmt ast.Stmt) {
		switch s := stmt.(type) {
		case *ast.LetStmt:
			calls = append(calls, ast.CollectCalls(s.Value)...)
		case *ast.AssignStmt:
			calls = append(calls, ast.CollectCalls(s.Value)...)
		case *ast.ExprStmt:
			calls = append(calls, ast.CollectCalls(s.X)...)
		case *ast.ReturnStmt:
			if s.Value != nil {
				calls = append(calls, ast.CollectCalls(s.Value)...)
			}
		case *ast.IfStmt:
			calls = append(calls, ast.CollectCalls(s.Cond)...)
			walkBlock(s.Then)
			if s.Else != nil {
				walkBlock(s.Else)
			}
		case *ast.WhileStmt:
			calls = append(calls, ast.CollectCalls(s.Cond)...)
			walkBlock(s.Body)
		}
	}
	walkBlock = func(block *ast.Block) {
		for _, stmt := range block.Stmts {
			walkStmt(stmt)
		}
	}
	walkBlock(fn.Body)
	return calls
}
