package symbols

import "slices"

// SetDependencies records every symbol that this symbol's declaration or
// body references. Duplicates are allowed and order carries no meaning.
// It may be called once; the stored snapshot is never modified afterwards.
func (s *Symbol) SetDependencies(deps []*Symbol) error {
	if !s.deps.set(slices.Clone(deps)) {
		return contractErr("SetDependencies", s, "dependencies already set")
	}
	return nil
}

// DirectDependencies returns the snapshot passed to SetDependencies.
// Reading it before the symbol is bound is a contract violation; a bound
// symbol that never received dependencies (an extern) has none.
// The returned slice must not be modified.
func (s *Symbol) DirectDependencies() ([]*Symbol, error) {
	if !s.IsBound() {
		return nil, contractErr("DirectDependencies", s, "symbol is not bound")
	}
	deps, _ := s.deps.get()
	return deps, nil
}

// DirectDependenciesOf filters the direct dependencies to one kind,
// preserving their relative order.
func (s *Symbol) DirectDependenciesOf(kind Kind) ([]*Symbol, error) {
	deps, err := s.DirectDependencies()
	if err != nil {
		return nil, err
	}
	return filterKind(deps, kind), nil
}

// HasDependencies reports whether SetDependencies has been called.
func (s *Symbol) HasDependencies() bool { return s.deps.isSet() }

func filterKind(in []*Symbol, kind Kind) []*Symbol {
	out := make([]*Symbol, 0, len(in))
	for _, sym := range in {
		if sym.kind == kind {
			out = append(out, sym)
		}
	}
	return out
}
