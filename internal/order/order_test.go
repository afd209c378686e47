package order

import (
	"slices"
	"testing"

	"symgraph/internal/diag"
	"symgraph/internal/source"
	"symgraph/internal/symbols"
)

type node struct {
	key  string
	span source.Span
}

func (n *node) SourceKey() string                { return n.key }
func (n *node) SourceName() string               { return n.key }
func (n *node) SourceKind() symbols.Kind         { return symbols.KindType }
func (n *node) SourceFlags() symbols.SymbolFlags { return 0 }
func (n *node) DeclaringType() symbols.Source    { return nil }
func (n *node) SourceSpan() source.Span          { return n.span }

// build declares keys in order and binds edges given as "from -> to".
func build(t *testing.T, keys []string, edges map[string][]string) *symbols.Table {
	t.Helper()
	table := symbols.NewTable(symbols.Hints{})
	for i, key := range keys {
		start := uint32(i * 10)
		if _, err := table.Declare(&node{key: key, span: source.Span{File: 1, Start: start, End: start + 1}}); err != nil {
			t.Fatalf("declare %s: %v", key, err)
		}
	}
	for _, key := range keys {
		sym, _ := table.Lookup(key)
		var deps []*symbols.Symbol
		for _, to := range edges[key] {
			dep, ok := table.Lookup(to)
			if !ok {
				t.Fatalf("unknown dep %s", to)
			}
			deps = append(deps, dep)
		}
		if err := sym.SetDependencies(deps); err != nil {
			t.Fatalf("deps of %s: %v", key, err)
		}
		sym.MarkBound()
	}
	return table
}

func names(syms []*symbols.Symbol) []string {
	out := make([]string, len(syms))
	for i, sym := range syms {
		out[i] = sym.Source().SourceKey()
	}
	return out
}

func TestToposortKahnBatches(t *testing.T) {
	table := build(t, []string{"main", "util", "math", "io"}, map[string][]string{
		"main": {"util", "io", "io"},
		"util": {"math"},
		"io":   {"io"},
	})
	g, err := BuildGraph(table)
	if err != nil {
		t.Fatalf("build graph: %v", err)
	}
	topo := ToposortKahn(g)
	if topo.Cyclic {
		t.Fatalf("self edges must not make the graph cyclic")
	}

	if got, want := names(g.Symbols(topo.Order)), []string{"math", "io", "util", "main"}; !slices.Equal(got, want) {
		t.Fatalf("order = %v, want %v", got, want)
	}
	wantBatches := [][]string{{"math", "io"}, {"util"}, {"main"}}
	if len(topo.Batches) != len(wantBatches) {
		t.Fatalf("batches = %v", topo.Batches)
	}
	for i, batch := range topo.Batches {
		if got := names(g.Symbols(batch)); !slices.Equal(got, wantBatches[i]) {
			t.Fatalf("batch[%d] = %v, want %v", i, got, wantBatches[i])
		}
	}
}

func TestToposortKahnCycles(t *testing.T) {
	table := build(t, []string{"a", "b", "c", "leaf"}, map[string][]string{
		"a": {"b", "leaf"},
		"b": {"a"},
		"c": {"a"},
	})
	g, err := BuildGraph(table)
	if err != nil {
		t.Fatalf("build graph: %v", err)
	}
	topo := ToposortKahn(g)
	if !topo.Cyclic {
		t.Fatalf("expected cycle")
	}
	if got, want := names(g.Symbols(topo.Cycles)), []string{"a", "b", "c"}; !slices.Equal(got, want) {
		t.Fatalf("cycles = %v, want %v", got, want)
	}
	if got, want := names(g.Symbols(topo.Order)), []string{"leaf", "a", "b", "c"}; !slices.Equal(got, want) {
		t.Fatalf("order = %v, want %v", got, want)
	}

	bag := diag.NewBag(10)
	ReportCycles(g, topo, diag.BagReporter{Bag: bag})
	if bag.Len() != 3 {
		t.Fatalf("diagnostics = %d, want 3", bag.Len())
	}
	first := bag.Items()[0]
	if first.Code != diag.SemaDependencyCycle || first.Severity != diag.SevWarning || first.Subject != "a" {
		t.Fatalf("first diagnostic = %+v", first)
	}
	if first.Primary.Start != 0 || bag.Items()[1].Primary.Start != 10 {
		t.Fatalf("diagnostics must point at declarations")
	}
}

func TestBuildGraphRequiresBoundSymbols(t *testing.T) {
	table := symbols.NewTable(symbols.Hints{})
	if _, err := table.Declare(&node{key: "x"}); err != nil {
		t.Fatalf("declare: %v", err)
	}
	if _, err := BuildGraph(table); err == nil {
		t.Fatalf("expected error for unbound symbol")
	}
}

func TestRequired(t *testing.T) {
	table := build(t, []string{"main", "util", "math", "unused", "io"}, map[string][]string{
		"main": {"util"},
		"util": {"math", "main"},
		"io":   {"math"},
	})
	mainSym, _ := table.Lookup("main")
	ioSym, _ := table.Lookup("io")

	got, err := Required([]*symbols.Symbol{ioSym, mainSym, nil})
	if err != nil {
		t.Fatalf("required: %v", err)
	}
	if want := []string{"main", "util", "math", "io"}; !slices.Equal(names(got), want) {
		t.Fatalf("required = %v, want %v", names(got), want)
	}
}
