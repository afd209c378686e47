package order

import (
	"fmt"
	"slices"

	"fortio.org/safecast"

	"symgraph/internal/symbols"
)

type Topo struct {
	Order   []symbols.SymbolID   // зависимости раньше зависимых; хвост из Cycles в порядке ID
	Batches [][]symbols.SymbolID // волны независимых символов
	Cyclic  bool
	Cycles  []symbols.SymbolID // узлы, оставшиеся после Kahn
}

// ToposortKahn orders g dependencies-first. Symbols caught in or behind a
// cycle are appended to Order in ID order and listed in Cycles.
func ToposortKahn(g Graph) *Topo {
	nodeCount := len(g.Edges)
	indeg := slices.Clone(g.Indeg)

	topo := &Topo{
		Order:   make([]symbols.SymbolID, 0, nodeCount),
		Batches: make([][]symbols.SymbolID, 0),
	}

	active := 0
	current := make([]symbols.SymbolID, 0, nodeCount)
	for i := range nodeCount {
		if !g.Present[i] {
			continue
		}
		active++
		if indeg[i] == 0 {
			current = append(current, toID(i))
		}
	}

	visited := 0
	for len(current) > 0 {
		batch := slices.Clone(current)
		topo.Batches = append(topo.Batches, batch)

		next := make([]symbols.SymbolID, 0)
		for _, id := range batch {
			topo.Order = append(topo.Order, id)
			visited++
			for _, to := range g.Edges[id] {
				indeg[to]--
				if indeg[to] == 0 {
					next = append(next, to)
				}
			}
		}
		slices.Sort(next)
		current = next
	}

	if visited != active {
		topo.Cyclic = true
		for i := range nodeCount {
			if g.Present[i] && indeg[i] > 0 {
				topo.Cycles = append(topo.Cycles, toID(i))
			}
		}
		topo.Order = append(topo.Order, topo.Cycles...)
	}
	return topo
}

func toID(i int) symbols.SymbolID {
	v, err := safecast.Conv[uint32](i)
	if err != nil {
		panic(fmt.Errorf("symbol id overflow: %w", err))
	}
	return symbols.SymbolID(v)
}

// Symbols maps ids back to symbols.
func (g Graph) Symbols(ids []symbols.SymbolID) []*symbols.Symbol {
	out := make([]*symbols.Symbol, len(ids))
	for i, id := range ids {
		out[i] = g.Nodes[id]
	}
	return out
}
