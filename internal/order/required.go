package order

import (
	"cmp"
	"slices"

	"symgraph/internal/symbols"
)

// Required returns the roots plus every symbol they transitively depend
// on, deduplicated and in ID order. This is the set an emitter has to
// produce for the given entry points.
func Required(roots []*symbols.Symbol) ([]*symbols.Symbol, error) {
	seen := make(map[*symbols.Symbol]struct{}, len(roots))
	out := make([]*symbols.Symbol, 0, len(roots))
	add := func(sym *symbols.Symbol) {
		if _, ok := seen[sym]; ok {
			return
		}
		seen[sym] = struct{}{}
		out = append(out, sym)
	}
	for _, root := range roots {
		if root == nil {
			continue
		}
		add(root)
		deps, err := root.AllDependencies()
		if err != nil {
			return nil, err
		}
		for _, dep := range deps {
			add(dep)
		}
	}
	slices.SortFunc(out, func(a, b *symbols.Symbol) int { return cmp.Compare(a.ID(), b.ID()) })
	return out, nil
}
