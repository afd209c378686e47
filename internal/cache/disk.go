// Package cache persists resolved closures between runs, keyed by the
// SHA-256 of the manifest they were computed from.
package cache

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"symgraph/internal/observ"
	"symgraph/internal/symbols"
)

// SchemaVersion is bumped whenever Payload changes shape.
const SchemaVersion uint16 = 2

// Digest is the manifest content hash.
type Digest = [32]byte

// DiskCache хранит замыкания по хешу манифеста. Safe for concurrent use.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// Payload is one cached run.
type Payload struct {
	Schema   uint16              `msgpack:"schema"`
	Manifest string              `msgpack:"manifest"`
	Hash     Digest              `msgpack:"hash"`
	Closures map[string][]string `msgpack:"closures"` // key -> sorted closure keys
	Kinds    map[string]string   `msgpack:"kinds"`
	Flags    map[string]string   `msgpack:"flags"` // only symbols with flags
	Timing   observ.Report       `msgpack:"timing"`
}

// Open returns the cache under $XDG_CACHE_HOME/app, falling back to ~/.cache/app.
func Open(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenAt(filepath.Join(base, app))
}

// OpenAt returns a cache rooted at dir, creating it if needed.
func OpenAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// Dir is the cache root.
func (c *DiskCache) Dir() string { return c.dir }

func (c *DiskCache) pathFor(key Digest) string {
	return filepath.Join(c.dir, "closures", hex.EncodeToString(key[:])+".mp")
}

// Put writes payload atomically: encode into a temp file, then rename.
func (c *DiskCache) Put(key Digest, payload *Payload) (err error) {
	if c == nil || payload == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err = os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()

	payload.Schema = SchemaVersion
	if err = msgpack.NewEncoder(f).Encode(payload); err != nil {
		return fmt.Errorf("cache: encode: %w", err)
	}
	if err = f.Close(); err != nil {
		return err
	}
	// атомарная замена
	return os.Rename(f.Name(), p)
}

// Get reads the payload for key. A missing entry, an undecodable one, or one
// written by another schema version is a miss, not an error; the next Put
// overwrites it.
func (c *DiskCache) Get(key Digest) (*Payload, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer f.Close()

	var out Payload
	if err := msgpack.NewDecoder(f).Decode(&out); err != nil {
		return nil, false, nil
	}
	if out.Schema != SchemaVersion || out.Hash != key {
		return nil, false, nil
	}
	return &out, true, nil
}

// DropAll removes every cached entry.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	// переименовываем, чтобы параллельный процесс не увидел полупустой каталог
	old := c.dir + ".old-" + time.Now().Format("20060102150405.000000000")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := os.RemoveAll(old); err != nil {
		return err
	}
	return os.MkdirAll(c.dir, 0o755)
}

// Snapshot captures the closure of every symbol in t. Symbols whose closure
// cannot be resolved fail the snapshot.
func Snapshot(manifest string, hash Digest, t *symbols.Table, timing observ.Report) (*Payload, error) {
	all := t.All()
	p := &Payload{
		Schema:   SchemaVersion,
		Manifest: manifest,
		Hash:     hash,
		Closures: make(map[string][]string, len(all)),
		Kinds:    make(map[string]string, len(all)),
		Flags:    make(map[string]string),
		Timing:   timing,
	}
	for _, sym := range all {
		deps, err := sym.AllDependencies()
		if err != nil {
			return nil, err
		}
		keys := make([]string, len(deps))
		for i, dep := range deps {
			keys[i] = dep.Source().SourceKey()
		}
		slices.Sort(keys)
		p.Closures[sym.Source().SourceKey()] = keys
		p.Kinds[sym.Source().SourceKey()] = sym.Kind().String()
		if flags := sym.Flags(); flags != 0 {
			p.Flags[sym.Source().SourceKey()] = flags.String()
		}
	}
	return p, nil
}
