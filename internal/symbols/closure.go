package symbols

// AllDependencies returns every symbol reachable from the direct
// dependencies, excluding s itself even when s sits on a cycle. The result
// is computed once and cached; later calls return the same slice without
// traversal or locking. Order is traversal order and carries no meaning.
//
// s is expected to be bound. Every other symbol met on the way is checked,
// and an unbound one fails the call with ErrInvalidState; nothing is cached
// in that case. The returned slice must not be modified.
func (s *Symbol) AllDependencies() ([]*Symbol, error) {
	if cached := s.closure.Load(); cached != nil {
		return *cached, nil
	}

	s.closureMu.Lock()
	defer s.closureMu.Unlock()
	if cached := s.closure.Load(); cached != nil {
		return *cached, nil
	}

	if s.table != nil {
		s.table.stats.closures.Add(1)
	}
	direct, _ := s.deps.get()
	all, err := s.collect(direct)
	if err != nil {
		return nil, err
	}
	s.closure.Store(&all)
	return all, nil
}

// AllDependenciesOf filters AllDependencies to one kind. Results are
// memoized in the owning table's filter cache.
func (s *Symbol) AllDependenciesOf(kind Kind) ([]*Symbol, error) {
	key := filterKey{id: s.id, kind: kind}
	if s.table != nil {
		if cached, ok := s.table.filtered.Get(key); ok {
			s.table.stats.filterHits.Add(1)
			return cached, nil
		}
	}
	all, err := s.AllDependencies()
	if err != nil {
		return nil, err
	}
	out := filterKind(all, kind)
	if s.table != nil {
		s.table.filtered.Add(key, out)
	}
	return out, nil
}

// ClosureResolved reports whether AllDependencies has already been computed.
func (s *Symbol) ClosureResolved() bool { return s.closure.Load() != nil }

// collect walks the graph breadth-first with one shared resolved set.
// Another symbol's cached closure is merged wholesale instead of being
// re-expanded. Other symbols' locks are never taken, so two symbols that
// depend on each other can be resolved concurrently without deadlock.
func (s *Symbol) collect(direct []*Symbol) ([]*Symbol, error) {
	resolved := make(map[*Symbol]struct{}, len(direct))
	order := make([]*Symbol, 0, len(direct))

	queue := make([]*Symbol, 0, len(direct))
	queued := make(map[*Symbol]struct{}, len(direct))
	push := func(dep *Symbol) {
		if dep == nil || dep == s {
			return
		}
		if _, ok := resolved[dep]; ok {
			return
		}
		if _, ok := queued[dep]; ok {
			return
		}
		queued[dep] = struct{}{}
		queue = append(queue, dep)
	}
	for _, dep := range direct {
		push(dep)
	}

	for head := 0; head < len(queue); head++ {
		cur := queue[head]
		delete(queued, cur)
		if !cur.IsBound() {
			return nil, contractErr("AllDependencies", cur, "cannot gather dependencies from unbound symbol")
		}
		if _, ok := resolved[cur]; ok {
			continue
		}
		resolved[cur] = struct{}{}
		order = append(order, cur)

		if cached := cur.closure.Load(); cached != nil {
			for _, dep := range *cached {
				if dep == s {
					continue
				}
				if _, ok := resolved[dep]; ok {
					continue
				}
				resolved[dep] = struct{}{}
				order = append(order, dep)
			}
			continue
		}

		next, _ := cur.deps.get()
		for _, dep := range next {
			push(dep)
		}
	}
	return order, nil
}
