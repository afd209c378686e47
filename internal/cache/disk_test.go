package cache

import (
	"crypto/sha256"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"symgraph/internal/observ"
	"symgraph/internal/symbols"
)

type src string

func (s src) SourceKey() string             { return string(s) }
func (s src) SourceName() string            { return string(s) }
func (s src) SourceKind() symbols.Kind      { return symbols.KindType }
func (s src) DeclaringType() symbols.Source { return nil }

func (s src) SourceFlags() symbols.SymbolFlags {
	if s == "a" {
		return symbols.FlagStatic | symbols.FlagVirtual
	}
	return 0
}

func chainTable(t *testing.T) *symbols.Table {
	t.Helper()
	table := symbols.NewTable(symbols.Hints{})
	var prev *symbols.Symbol
	for _, key := range []string{"c", "b", "a"} {
		sym, err := table.Declare(src(key))
		if err != nil {
			t.Fatalf("declare: %v", err)
		}
		var deps []*symbols.Symbol
		if prev != nil {
			deps = append(deps, prev)
		}
		if err := sym.SetDependencies(deps); err != nil {
			t.Fatalf("deps: %v", err)
		}
		sym.MarkBound()
		prev = sym
	}
	return table
}

func TestPutGetRoundTrip(t *testing.T) {
	c, err := OpenAt(t.TempDir())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	key := sha256.Sum256([]byte("manifest"))

	if _, ok, err := c.Get(key); ok || err != nil {
		t.Fatalf("empty cache: ok=%v err=%v", ok, err)
	}

	payload, err := Snapshot("game.toml", key, chainTable(t), observ.Report{TotalMS: 1.5})
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if err := c.Put(key, payload); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, ok, err := c.Get(key)
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if got.Manifest != "game.toml" || got.Timing.TotalMS != 1.5 {
		t.Fatalf("payload = %+v", got)
	}
	if want := []string{"b", "c"}; !slices.Equal(got.Closures["a"], want) {
		t.Fatalf("closure of a = %v, want %v", got.Closures["a"], want)
	}
	if got.Kinds["a"] != symbols.KindType.String() {
		t.Fatalf("kind of a = %q", got.Kinds["a"])
	}
	if got.Flags["a"] != "static,virtual" {
		t.Fatalf("flags of a = %q", got.Flags["a"])
	}
	if _, ok := got.Flags["b"]; ok {
		t.Fatalf("b has no flags, got %q", got.Flags["b"])
	}
	if len(got.Closures["c"]) != 0 {
		t.Fatalf("closure of c = %v", got.Closures["c"])
	}

	entries, err := os.ReadDir(filepath.Join(c.Dir(), "closures"))
	if err != nil || len(entries) != 1 {
		t.Fatalf("expected exactly one file and no temp leftovers, got %v (%v)", entries, err)
	}
}

func TestGetRejectsForeignSchema(t *testing.T) {
	c, err := OpenAt(t.TempDir())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	key := sha256.Sum256([]byte("x"))
	if err := c.Put(key, &Payload{Hash: sha256.Sum256([]byte("other"))}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, ok, err := c.Get(key); ok || err != nil {
		t.Fatalf("payload for another manifest must miss: ok=%v err=%v", ok, err)
	}
}

func TestGetCorruptEntryIsMiss(t *testing.T) {
	c, err := OpenAt(t.TempDir())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	key := sha256.Sum256([]byte("x"))
	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte{0x85}, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, ok, err := c.Get(key); ok || err != nil {
		t.Fatalf("corrupt entry must miss: ok=%v err=%v", ok, err)
	}

	// the next run overwrites it
	if err := c.Put(key, &Payload{Hash: key}); err != nil {
		t.Fatalf("put over corrupt entry: %v", err)
	}
	if _, ok, err := c.Get(key); !ok || err != nil {
		t.Fatalf("rewritten entry: ok=%v err=%v", ok, err)
	}
}

func TestDropAll(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	c, err := Open("symgraph")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if filepath.Base(c.Dir()) != "symgraph" {
		t.Fatalf("dir = %s", c.Dir())
	}
	key := sha256.Sum256([]byte("x"))
	if err := c.Put(key, &Payload{Hash: key}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := c.DropAll(); err != nil {
		t.Fatalf("drop: %v", err)
	}
	if _, ok, _ := c.Get(key); ok {
		t.Fatalf("entry survived DropAll")
	}
	if err := c.Put(key, &Payload{Hash: key}); err != nil {
		t.Fatalf("cache must stay usable after DropAll: %v", err)
	}
}
