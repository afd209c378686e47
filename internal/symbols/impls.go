package symbols

import "slices"

// SetOverridden records the base member s overrides (or the interface
// member it implements) and registers s as one of its implementations.
func (s *Symbol) SetOverridden(base *Symbol) error {
	if base == nil || base == s {
		return contractErr("SetOverridden", s, "overridden member must be another symbol")
	}
	if !s.overridden.set(base) {
		return contractErr("SetOverridden", s, "overridden member already set")
	}
	base.AddImplementation(s)
	return nil
}

// Overridden returns the member s overrides, or nil.
func (s *Symbol) Overridden() *Symbol {
	base, _ := s.overridden.get()
	return base
}

// AddImplementation registers impl as an override of a method or property,
// or as an implementer of an interface type. Duplicates are ignored.
func (s *Symbol) AddImplementation(impl *Symbol) {
	if impl == nil || impl == s {
		return
	}
	s.implMu.Lock()
	defer s.implMu.Unlock()
	if slices.Contains(s.impls, impl) {
		return
	}
	s.impls = append(s.impls, impl)
}

// Implementations returns a snapshot of every override or implementer
// registered so far. Symbols with none return an empty slice.
func (s *Symbol) Implementations() []*Symbol {
	s.implMu.Lock()
	defer s.implMu.Unlock()
	return slices.Clone(s.impls)
}
