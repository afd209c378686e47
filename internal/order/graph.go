// Package order derives an emission order from a bound symbol table:
// every symbol comes after the symbols it depends on, cycles aside.
package order

import (
	"fmt"
	"slices"
	"strings"

	"symgraph/internal/diag"
	"symgraph/internal/source"
	"symgraph/internal/symbols"
)

// Located is implemented by sources that know where they were declared.
type Located interface {
	SourceSpan() source.Span
}

// Graph indexes nodes by SymbolID; slot 0 is never present.
type Graph struct {
	Nodes   []*symbols.Symbol
	Edges   [][]symbols.SymbolID // Edges[dep] = symbols that depend on dep
	Indeg   []int                // число прямых зависимостей без self-рёбер
	Present []bool
}

// BuildGraph reads direct dependencies of every symbol in t. Every symbol
// must be bound.
func BuildGraph(t *symbols.Table) (Graph, error) {
	all := t.All()
	n := len(all) + 1
	g := Graph{
		Nodes:   make([]*symbols.Symbol, n),
		Edges:   make([][]symbols.SymbolID, n),
		Indeg:   make([]int, n),
		Present: make([]bool, n),
	}
	for _, sym := range all {
		g.Nodes[sym.ID()] = sym
		g.Present[sym.ID()] = true
	}

	for _, sym := range all {
		deps, err := sym.DirectDependencies()
		if err != nil {
			return Graph{}, fmt.Errorf("order: %w", err)
		}
		seen := make(map[symbols.SymbolID]struct{}, len(deps))
		for _, dep := range deps {
			if dep == sym {
				continue
			}
			if _, dup := seen[dep.ID()]; dup {
				continue
			}
			seen[dep.ID()] = struct{}{}
			g.Edges[dep.ID()] = append(g.Edges[dep.ID()], sym.ID())
			g.Indeg[sym.ID()]++
		}
	}
	for i := range g.Edges {
		if len(g.Edges[i]) > 1 {
			slices.Sort(g.Edges[i])
		}
	}
	return g, nil
}

// ReportCycles emits a warning for every symbol left over by the sort.
// Cycles are legal; the warning only explains why the order is not strict.
func ReportCycles(g Graph, topo *Topo, r diag.Reporter) {
	if r == nil || !topo.Cyclic || len(topo.Cycles) == 0 {
		return
	}
	names := make([]string, 0, len(topo.Cycles))
	for _, id := range topo.Cycles {
		names = append(names, g.Nodes[id].Source().SourceKey())
	}
	summary := strings.Join(names, ", ")

	for _, id := range topo.Cycles {
		sym := g.Nodes[id]
		var span source.Span
		if loc, ok := sym.Source().(Located); ok {
			span = loc.SourceSpan()
		}
		key := sym.Source().SourceKey()
		diag.ReportWarning(r, diag.SemaDependencyCycle, span,
			fmt.Sprintf("%q has no strict emission order, it waits on a dependency cycle among: %s", key, summary)).
			About(key).
			Emit()
	}
}
