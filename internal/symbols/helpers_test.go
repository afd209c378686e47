package symbols

import (
	"slices"
	"testing"
)

type testSource struct {
	key   string
	kind  Kind
	flags SymbolFlags
	decl  *testSource
}

func (s *testSource) SourceKey() string        { return s.key }
func (s *testSource) SourceName() string       { return s.key }
func (s *testSource) SourceKind() Kind         { return s.kind }
func (s *testSource) SourceFlags() SymbolFlags { return s.flags }

func (s *testSource) DeclaringType() Source {
	if s.decl == nil {
		return nil
	}
	return s.decl
}

func declare(t *testing.T, table *Table, key string, kind Kind) *Symbol {
	t.Helper()
	sym, err := table.Declare(&testSource{key: key, kind: kind})
	if err != nil {
		t.Fatalf("declare %s: %v", key, err)
	}
	return sym
}

func bindDeps(t *testing.T, sym *Symbol, deps ...*Symbol) {
	t.Helper()
	if err := sym.SetDependencies(deps); err != nil {
		t.Fatalf("set deps of %s: %v", sym, err)
	}
	sym.MarkBound()
}

func keysOf(syms []*Symbol) []string {
	out := make([]string, len(syms))
	for i, sym := range syms {
		out[i] = sym.String()
	}
	slices.Sort(out)
	return out
}

func mustClosure(t *testing.T, sym *Symbol) []string {
	t.Helper()
	all, err := sym.AllDependencies()
	if err != nil {
		t.Fatalf("closure of %s: %v", sym, err)
	}
	return keysOf(all)
}
