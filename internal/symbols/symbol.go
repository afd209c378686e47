package symbols

import (
	"hash/fnv"
	"sync"
	"sync/atomic"
)

// Symbol is one node of the dependency graph. It wraps exactly one Source;
// the Table never creates two symbols for the same source key, so pointer
// comparison is a valid identity check.
//
// Lifecycle: declared by Table.Declare, annotated once with SetAttributes,
// given its direct dependencies once by the binder, marked bound, and from
// then on shared read-only. The transitive closure is filled on first demand.
type Symbol struct {
	id         SymbolID
	table      *Table
	src        Source
	kind       Kind
	flags      SymbolFlags
	containing *Symbol

	bound      atomic.Bool
	attrs      setOnce[[]Attribute]
	deps       setOnce[[]*Symbol]
	original   setOnce[*Symbol]
	overridden setOnce[*Symbol]

	closureMu sync.Mutex
	closure   atomic.Pointer[[]*Symbol]

	implMu sync.Mutex
	impls  []*Symbol
}

func newSymbol(t *Table, id SymbolID, src Source, containing *Symbol) *Symbol {
	s := &Symbol{
		id:         id,
		table:      t,
		src:        src,
		kind:       src.SourceKind(),
		flags:      src.SourceFlags(),
		containing: containing,
	}
	if s.kind == KindExtern {
		s.flags |= FlagExtern
	}
	// внешние символы ничего не связывают: их тело живёт в рантайме
	if s.flags&FlagExtern != 0 {
		s.bound.Store(true)
	}
	return s
}

func (s *Symbol) ID() SymbolID            { return s.id }
func (s *Symbol) Source() Source          { return s.src }
func (s *Symbol) Kind() Kind              { return s.kind }
func (s *Symbol) Flags() SymbolFlags      { return s.flags }
func (s *Symbol) Name() string            { return s.src.SourceName() }
func (s *Symbol) IsStatic() bool          { return s.flags&FlagStatic != 0 }
func (s *Symbol) IsExtern() bool          { return s.flags&FlagExtern != 0 }
func (s *Symbol) IsInterface() bool       { return s.flags&FlagInterface != 0 }
func (s *Symbol) ContainingType() *Symbol { return s.containing }

// IsOverridable reports whether members may override s: it is virtual or
// abstract, or declared inside an interface.
func (s *Symbol) IsOverridable() bool {
	if s.flags&(FlagVirtual|FlagAbstract) != 0 {
		return true
	}
	return s.containing != nil && s.containing.IsInterface()
}

// Original returns the generic definition this symbol was constructed from, or nil.
func (s *Symbol) Original() *Symbol {
	orig, _ := s.original.get()
	return orig
}

// SetOriginal links a constructed generic symbol to its definition. It may be called once.
func (s *Symbol) SetOriginal(orig *Symbol) error {
	if orig == nil || orig == s {
		return contractErr("SetOriginal", s, "original must be another symbol")
	}
	if !s.original.set(orig) {
		return contractErr("SetOriginal", s, "original already set")
	}
	return nil
}

// IsBound reports whether the symbol's body has been analysed and its direct
// dependencies are final.
func (s *Symbol) IsBound() bool { return s.bound.Load() }

// MarkBound finishes binding. Dependencies must be set before this call
// for other goroutines to observe them.
func (s *Symbol) MarkBound() { s.bound.Store(true) }

// Equal compares wrapped source keys.
func (s *Symbol) Equal(other *Symbol) bool {
	if s == other {
		return true
	}
	if s == nil || other == nil {
		return false
	}
	return s.src.SourceKey() == other.src.SourceKey()
}

// Hash is derived from the wrapped source key only.
func (s *Symbol) Hash() uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s.src.SourceKey())) //nolint:errcheck // fnv never fails
	return h.Sum64()
}

func (s *Symbol) String() string {
	if s == nil {
		return "<nil>"
	}
	return s.src.SourceKey()
}
