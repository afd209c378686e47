package symbols

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	"fortio.org/safecast"
	"github.com/hashicorp/golang-lru/v2"

	"symgraph/internal/source"
)

// ErrNotType is returned by Declare when a source's declaring entity is not a type.
var ErrNotType = errors.New("containing entity is not a type")

// Hints provide optional capacity suggestions for the table.
type Hints struct {
	Symbols     uint
	FilterCache int // entries in the per-kind closure cache
}

type filterKey struct {
	id   SymbolID
	kind Kind
}

type stats struct {
	closures   atomic.Uint64
	filterHits atomic.Uint64
}

// Stats is a snapshot of table counters.
type Stats struct {
	Closures   uint64 // closure computations actually performed
	FilterHits uint64 // AllDependenciesOf answered from the cache
}

// Table owns every Symbol of a run and guarantees a single Symbol per
// source key. Safe for concurrent use.
type Table struct {
	mu      sync.RWMutex
	symbols []*Symbol // index 0 reserved for NoSymbolID
	byKey   map[source.StringID]SymbolID
	Strings *source.Interner

	filtered *lru.Cache[filterKey, []*Symbol]
	stats    stats
}

// NewTable builds an empty table.
func NewTable(h Hints) *Table {
	symCap, err := safecast.Conv[int](h.Symbols)
	if err != nil {
		panic(fmt.Errorf("symbol capacity overflow: %w", err))
	}
	if symCap == 0 {
		symCap = 64
	}
	cacheSize := h.FilterCache
	if cacheSize <= 0 {
		cacheSize = 1024
	}
	filtered, err := lru.New[filterKey, []*Symbol](cacheSize)
	if err != nil {
		panic(fmt.Errorf("filter cache: %w", err))
	}
	return &Table{
		symbols:  make([]*Symbol, 1, symCap+1),
		byKey:    make(map[source.StringID]SymbolID, symCap),
		Strings:  source.NewInterner(),
		filtered: filtered,
	}
}

// Declare returns the symbol for src, creating it on first sight. The
// containing type is declared first so the back-reference is always set.
func (t *Table) Declare(src Source) (*Symbol, error) {
	if src == nil {
		return nil, errors.New("symbols: nil source")
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.declareLocked(src, nil)
}

func (t *Table) declareLocked(src Source, chain []string) (*Symbol, error) {
	key := src.SourceKey()
	if key == "" {
		return nil, errors.New("symbols: source has an empty key")
	}
	keyID := t.Strings.Intern(key)
	if id, ok := t.byKey[keyID]; ok {
		return t.symbols[id], nil
	}
	if slices.Contains(chain, key) {
		return nil, fmt.Errorf("symbols: %q contains itself", key)
	}

	var containing *Symbol
	if decl := src.DeclaringType(); decl != nil {
		if decl.SourceKind() != KindType {
			return nil, fmt.Errorf("symbols: declaring %q of %q: %w", decl.SourceKey(), key, ErrNotType)
		}
		c, err := t.declareLocked(decl, append(chain, key))
		if err != nil {
			return nil, err
		}
		containing = c
	}

	value, err := safecast.Conv[uint32](len(t.symbols))
	if err != nil {
		panic(fmt.Errorf("symbols arena overflow: %w", err))
	}
	sym := newSymbol(t, SymbolID(value), src, containing)
	t.symbols = append(t.symbols, sym)
	t.byKey[keyID] = sym.id
	return sym, nil
}

// Lookup finds a declared symbol by source key.
func (t *Table) Lookup(key string) (*Symbol, bool) {
	keyID, ok := t.Strings.Find(key)
	if !ok {
		return nil, false
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	id, ok := t.byKey[keyID]
	if !ok {
		return nil, false
	}
	return t.symbols[id], true
}

// Get returns a symbol or nil for an invalid ID.
func (t *Table) Get(id SymbolID) *Symbol {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if !id.IsValid() || int(id) >= len(t.symbols) {
		return nil
	}
	return t.symbols[id]
}

// Len reports number of declared symbols.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.symbols) - 1
}

// All returns the declared symbols in declaration order.
func (t *Table) All() []*Symbol {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return slices.Clone(t.symbols[1:])
}

// Stats returns a snapshot of the table counters.
func (t *Table) Stats() Stats {
	return Stats{
		Closures:   t.stats.closures.Load(),
		FilterHits: t.stats.filterHits.Load(),
	}
}
