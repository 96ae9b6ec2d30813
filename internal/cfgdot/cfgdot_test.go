package cfgdot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zboralski/lattice"

	"sable/grammar"
	"sable/internal/cfg"
	"sable/internal/resolve"
)

func build(t *testing.T, source string) (*lattice.CFGGraph, *lattice.Graph) {
	t.Helper()
	prog, err := grammar.ParseSource("test.sbl", source)
	require.NoError(t, err)
	resolver := resolve.NewResolver()
	program := resolver.Resolve(prog)
	require.Empty(t, resolver.Errors())
	return BuildCFG(program, cfg.NewGraph(program)), BuildCallGraph(program)
}

func findFunc(t *testing.T, cg *lattice.CFGGraph, name string) *lattice.FuncCFG {
	t.Helper()
	for _, fn := range cg.Funcs {
		if fn.Name == name {
			return fn
		}
	}
	t.Fatalf("no FuncCFG named %q", name)
	return nil
}

func TestFlowNames(t *testing.T) {
	source := `
contract Base {
    fn shared() virtual {
        return;
    }
}

contract App is Base {
    fn run() {
        shared();
    }
}

fn standalone() {
    return;
}`

	cg, _ := build(t, source)

	var names []string
	for _, fn := range cg.Funcs {
		names = append(names, fn.Name)
	}
	assert.Contains(t, names, "Base.shared")
	assert.Contains(t, names, "App.run")
	assert.Contains(t, names, "App.shared(from Base)")
	assert.Contains(t, names, "standalone")
}

func TestBlockStructure(t *testing.T) {
	source := `
fn branchy(flag: u256) {
    if (flag > 0) {
        revert;
    }
    return;
}`

	cg, _ := build(t, source)
	fn := findFunc(t, cg, "branchy")

	require.NotEmpty(t, fn.Blocks)
	entry := fn.Blocks[0]
	assert.Equal(t, 0, entry.ID)
	assert.Len(t, entry.Succs, 2)

	var terminals int
	for _, block := range fn.Blocks {
		if block.Term {
			assert.Empty(t, block.Succs)
			terminals++
		}
	}
	assert.Equal(t, 2, terminals, "expected distinct exit and revert blocks")
}

func TestCallSitesRecorded(t *testing.T) {
	source := `
library Math {
    fn min(a: u256, b: u256): u256 {
        if (a < b) {
            return a;
        }
        return b;
    }
}

fn pick(x: u256): u256 {
    return Math.min(x, 10);
}`

	cg, _ := build(t, source)
	fn := findFunc(t, cg, "pick")

	var callees []string
	for _, block := range fn.Blocks {
		for _, call := range block.Calls {
			callees = append(callees, call.Callee)
		}
	}
	assert.Equal(t, []string{"Math.min"}, callees)
}

func TestCallGraphEdges(t *testing.T) {
	source := `
contract App {
    fn a() {
        b();
        b();
    }

    fn b() {
        return;
    }
}`

	_, g := build(t, source)

	assert.Contains(t, g.Nodes, "App.a")
	assert.Contains(t, g.Nodes, "App.b")

	var edges int
	for _, edge := range g.Edges {
		if edge.Caller == "App.a" && edge.Callee == "App.b" {
			edges++
		}
	}
	assert.Equal(t, 1, edges, "duplicate call edges should be collapsed")
}
