package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
	"github.com/zboralski/lattice/render"

	"sable/grammar"
	"sable/internal/analysis"
	"sable/internal/ast"
	"sable/internal/cfg"
	"sable/internal/cfgdot"
	"sable/internal/errors"
	"sable/internal/resolve"
)

func main() {
	fs := flag.NewFlagSet("sable-cli", flag.ExitOnError)
	dotCFG := fs.Bool("dot", false, "emit the pruned control flow graphs as Graphviz DOT")
	dotCalls := fs.Bool("callgraph", false, "emit the call graph as Graphviz DOT")
	verbose := fs.Bool("verbose", false, "enable debug logging")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: sable-cli [flags] <file.sbl>")
		fs.PrintDefaults()
	}
	fs.Parse(os.Args[1:])

	if fs.NArg() != 1 {
		fs.Usage()
		os.Exit(1)
	}

	if *verbose {
		commonlog.Configure(1, nil)
	}

	startTime := time.Now()
	path := fs.Arg(0)

	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read file: %v\n", err)
		os.Exit(1)
	}

	program, diagnostics := compile(path, string(source))

	errorReporter := errors.NewErrorReporter(path, string(source))
	for _, diag := range diagnostics {
		fmt.Print(errorReporter.FormatError(diag))
	}

	duration := time.Since(startTime)
	if len(diagnostics) > 0 {
		color.Red("Compilation failed after %s", formatDuration(duration))
		os.Exit(1)
	}

	graph := cfg.NewGraph(program)
	pruner := analysis.NewRevertPruner(graph)
	pruner.Run(program)

	switch {
	case *dotCFG:
		fmt.Println(render.DOTCFG(cfgdot.BuildCFG(program, graph), path))
	case *dotCalls:
		fmt.Println(render.DOT(cfgdot.BuildCallGraph(program), path))
	default:
		printSummary(program, pruner)
	}

	color.Green("Successfully processed %s in %s", path, formatDuration(duration))
}

// compile runs parsing and resolution, collecting user diagnostics. The
// returned program is only usable when there are no diagnostics.
func compile(path, source string) (*ast.Program, []errors.CompilerError) {
	syntax, err := grammar.ParseSource(path, source)
	if err != nil {
		diag := errors.SyntaxError(err.Error(), ast.Position{Filename: path, Line: 1, Column: 1})
		if pos, ok := grammar.ErrorPosition(err); ok {
			diag.Position = ast.Position{
				Filename: pos.Filename,
				Offset:   pos.Offset,
				Line:     pos.Line,
				Column:   pos.Column,
			}
		}
		return nil, []errors.CompilerError{diag}
	}

	resolver := resolve.NewResolver()
	program := resolver.Resolve(syntax)
	return program, resolver.Errors()
}

// printSummary lists every analyzed function with its revert
// classification.
func printSummary(program *ast.Program, pruner *analysis.RevertPruner) {
	report := func(contract *ast.Contract, fn *ast.Function) {
		state, analyzed := pruner.State(fn, contract)
		if !analyzed {
			return
		}
		name := fn.Name
		if contract != nil {
			name = contract.Name + "." + fn.Name
		}
		if state == analysis.AllPathsRevert {
			color.Yellow("  %-40s %s", name, state)
		} else {
			fmt.Printf("  %-40s %s\n", name, state)
		}
	}

	for _, contract := range program.Contracts {
		for _, base := range contract.Linearized {
			for _, fn := range base.Functions {
				if fn.Body != nil {
					report(contract, fn)
				}
			}
		}
	}
	for _, fn := range program.Functions {
		if fn.Body != nil {
			report(nil, fn)
		}
	}
}

func formatDuration(d time.Duration) string {
	switch {
	case d >= time.Minute:
		return fmt.Sprintf("%.2fmin", d.Minutes())
	case d >= time.Second:
		return fmt.Sprintf("%.2fs", d.Seconds())
	case d >= time.Millisecond:
		return fmt.Sprintf("%.1fms", float64(d.Nanoseconds())/1000000.0)
	case d >= time.Microsecond:
		return fmt.Sprintf("%.1fμs", float64(d.Nanoseconds())/1000.0)
	default:
		return fmt.Sprintf("%dns", d.Nanoseconds())
	}
}
