// Package analysis implements whole-program control-flow analyses that run
// between resolution and code generation.
//
// The revert pruner decides, for every function, whether all execution
// paths through it necessarily abort, and collapses call sites to such
// functions into a direct edge to the revert sentinel so later stages can
// treat the calls as non-returning.
package analysis

import (
	"github.com/tliron/commonlog"

	"sable/internal/ast"
	"sable/internal/cfg"
	"sable/internal/errors"
)

var log = commonlog.GetLogger("sable.analysis")

// RevertState classifies a function's paths with respect to reverting.
// The lattice order is Pending < {AllPathsRevert, HasNonRevertingPath};
// HasNonRevertingPath is terminal once reached.
type RevertState int

const (
	// Pending means not yet provably either way: the function is part of
	// a call chain still being probed.
	Pending RevertState = iota
	// AllPathsRevert means every path through the function aborts.
	AllPathsRevert
	// HasNonRevertingPath means at least one path reaches the normal exit.
	HasNonRevertingPath
)

func (s RevertState) String() string {
	switch s {
	case Pending:
		return "pending"
	case AllPathsRevert:
		return "all paths revert"
	case HasNonRevertingPath:
		return "has non-reverting path"
	}
	return "unknown"
}

// revertKey identifies one analysis record. Free functions and library
// members behave the same under every caller, so they are normalized to a
// single context-independent key; other members get one record per calling
// contract because virtual dispatch can bind the same signature to
// different bodies.
type revertKey struct {
	contract *ast.Contract // nil for free functions
	function *ast.Function
}

type revertRecord struct {
	state RevertState
	// node remembered during the first pass for the finalization pass to
	// rewrite if the record ends up AllPathsRevert
	node *cfg.Node
}

// RevertPruner runs the analysis in two phases: a traversal of every
// function that prunes edges as soon as a callee is known to always revert
// and defers call sites whose targets are still unresolved, then a
// finalization phase that classifies everything left pending — necessarily
// part of a recursive cycle with no confirmed non-reverting exit — as
// always reverting.
//
// The finalization rule is a deliberate conservative approximation, not a
// termination proof: a mutually recursive family that does terminate along
// some path the single probing pass never confirmed is still classified as
// always reverting.
type RevertPruner struct {
	graph   *cfg.Graph
	reverts map[revertKey]*revertRecord
}

// NewRevertPruner creates a pruner over the program's flow graphs. The
// pruner is single-use: records live for exactly one Run.
func NewRevertPruner(graph *cfg.Graph) *RevertPruner {
	return &RevertPruner{
		graph:   graph,
		reverts: make(map[revertKey]*revertRecord),
	}
}

// Run analyzes every function of the program and mutates the flow graphs
// in place. Each contract is processed along its linearized base order so
// inherited functions are analyzed under the deriving contract's context;
// free functions run under no context.
func (p *RevertPruner) Run(program *ast.Program) {
	for _, contract := range program.Contracts {
		for _, base := range contract.Linearized {
			for _, fn := range base.Functions {
				if fn.Body != nil {
					p.removeRevertingPaths(fn, contract)
				}
			}
		}
	}
	for _, fn := range program.Functions {
		if fn.Body != nil {
			p.removeRevertingPaths(fn, nil)
		}
	}

	p.resolvePending()
}

// State reports the classification computed for fn under the given calling
// contract. The second result is false when the function was never
// analyzed.
func (p *RevertPruner) State(fn *ast.Function, contract *ast.Contract) (RevertState, bool) {
	record, exists := p.reverts[p.normalizedKey(fn, contract)]
	if !exists {
		return Pending, false
	}
	return record.state, true
}

// removeRevertingPaths is the first-pass analysis of one function: nodes
// whose calls conclusively always revert lose their continuation
// immediately; nodes with still-unresolved callees are remembered for the
// finalization pass.
func (p *RevertPruner) removeRevertingPaths(fn *ast.Function, contract *ast.Contract) {
	flow := p.graph.FunctionFlow(fn, contract)
	record := p.record(p.normalizedKey(fn, contract))
	record.state = Pending

	p.traverseFunctionFlow(fn, contract, flow,
		func(state RevertState, node *cfg.Node, flow *cfg.FunctionFlow) bool {
			switch state {
			case AllPathsRevert:
				collapseToRevert(node, flow)
			case Pending:
				// remember the node for later re-evaluation; only the most
				// recent one matters
				record.node = node
			}
			return true
		})
}

// checkForReverts resolves a call to its concrete target and returns that
// target's classification, probing the target's own flow on first
// encounter. The record created up front memoizes the result, which bounds
// the total work to one traversal per distinct key and breaks direct
// recursion.
func (p *RevertPruner) checkForReverts(call *ast.CallExpr, contract *ast.Contract) RevertState {
	target := p.resolveCallTarget(call, contract)
	key := p.normalizedKey(target, contract)

	if record, exists := p.reverts[key]; exists {
		return record.state
	}

	record := p.record(key)
	// Optimistic seed: treat the target as always reverting until a
	// confirmed non-reverting exit or an unresolved sub-call says
	// otherwise.
	record.state = AllPathsRevert

	flow := p.graph.FunctionFlow(target, key.contract)

	state := p.traverseFunctionFlow(target, contract, flow,
		func(state RevertState, _ *cfg.Node, _ *cfg.FunctionFlow) bool {
			switch state {
			case AllPathsRevert:
				// the continuation of this node is already unreachable,
				// stop probing past it
				return false
			case Pending:
				// downgrade, but keep scanning: a single non-pending exit
				// anywhere still flips the function to HasNonRevertingPath
				record.state = Pending
			}
			return true
		})

	log.Debugf("probed %s: %s", target.QualifiedName(), state)
	return state
}

// traverseFunctionFlow walks a function's flow breadth-first, classifying
// the call sites on every reachable node through onRevertState. Nodes
// reached through a still-pending call are tainted, and taint spreads to
// their successors; only an exit on an untainted path proves a
// non-reverting path.
func (p *RevertPruner) traverseFunctionFlow(
	fn *ast.Function,
	contract *ast.Contract,
	flow *cfg.FunctionFlow,
	onRevertState func(RevertState, *cfg.Node, *cfg.FunctionFlow) bool,
) RevertState {
	record := p.record(p.normalizedKey(fn, contract))
	pendingNodes := make(map[*cfg.Node]bool)

	breadthFirst(flow.Entry, func(node *cfg.Node, visit func(*cfg.Node)) {
		pending := pendingNodes[node]

		if node == flow.Exit {
			if !pending {
				record.state = HasNonRevertingPath
			}
			return
		}

		for _, call := range node.Calls {
			reverts := p.checkForReverts(call, contract)

			if !onRevertState(reverts, node, flow) {
				return
			}

			if reverts == Pending {
				pending = true
				pendingNodes[node] = true
			}
		}

		for _, exit := range node.Exits {
			visit(exit)
			if pending {
				pendingNodes[exit] = true
			}
		}
	})

	return record.state
}

// resolvePending finalizes every record still pending after the first
// pass. Such records belong to recursive cycles that never produced a
// confirmed non-reverting exit, so they are conservatively promoted to
// AllPathsRevert and their remembered nodes collapsed.
func (p *RevertPruner) resolvePending() {
	for key, record := range p.reverts {
		if record.node != nil {
			flow := p.graph.FunctionFlow(key.function, key.contract)
			for _, call := range record.node.Calls {
				switch p.checkForReverts(call, key.contract) {
				case AllPathsRevert, Pending:
					collapseToRevert(record.node, flow)
				case HasNonRevertingPath:
				}
			}
		}

		if record.state == Pending {
			record.state = AllPathsRevert
			log.Debugf("finalized recursive cycle member %s: %s",
				key.function.QualifiedName(), record.state)
		}
	}
}

// resolveCallTarget returns the function definition that actually executes
// for a call made under the given calling contract. A call shape the
// resolver did not annotate is a broken upstream invariant.
func (p *RevertPruner) resolveCallTarget(call *ast.CallExpr, contract *ast.Contract) *ast.Function {
	errors.Assert(call.Decl != nil, "call site %q has no resolved declaration", call.Name)

	var target *ast.Function
	switch call.Dispatch {
	case ast.DispatchStatic:
		target = call.Decl
	case ast.DispatchVirtual:
		errors.Assert(contract != nil, "virtual call %q outside a contract", call.Name)
		target = call.Decl.ResolveVirtual(contract, nil)
	case ast.DispatchSuper:
		errors.Assert(call.Scope != nil, "super call %q outside a contract", call.Name)
		super := call.Scope.SuperContract(contract)
		errors.Assert(super != nil, "super call %q has no base implementation", call.Name)
		target = call.Decl.ResolveVirtual(contract, super)
	default:
		errors.ICE("call %q has unknown dispatch kind %d", call.Name, call.Dispatch)
	}

	errors.Assert(target != nil, "virtual lookup for %q found no implementation", call.Name)
	return target
}

// normalizedKey folds context-independent functions onto one record; see
// revertKey.
func (p *RevertPruner) normalizedKey(fn *ast.Function, contract *ast.Contract) revertKey {
	keyContract := contract
	if fn.IsFree() {
		keyContract = nil
	} else if fn.IsLibraryMember() {
		keyContract = fn.Contract
	}
	return revertKey{contract: keyContract, function: fn}
}

func (p *RevertPruner) record(key revertKey) *revertRecord {
	if record, exists := p.reverts[key]; exists {
		return record
	}
	record := &revertRecord{}
	p.reverts[key] = record
	return record
}

// collapseToRevert replaces the node's outgoing edges wholesale with the
// single edge to the owning function's revert sentinel.
func collapseToRevert(node *cfg.Node, flow *cfg.FunctionFlow) {
	node.Exits = []*cfg.Node{flow.Revert}
}

// breadthFirst visits every node reachable from start exactly once. The
// process callback receives a visit function for enqueueing successors.
func breadthFirst(start *cfg.Node, process func(node *cfg.Node, visit func(*cfg.Node))) {
	queue := []*cfg.Node{start}
	visited := map[*cfg.Node]bool{start: true}

	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]

		process(node, func(next *cfg.Node) {
			if !visited[next] {
				visited[next] = true
				queue = append(queue, next)
			}
		})
	}
}
