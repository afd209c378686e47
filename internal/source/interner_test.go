package source

import (
	"fmt"
	"sync"
	"testing"
)

func TestInternerBasic(t *testing.T) {
	interner := NewInterner()

	if s, ok := interner.Lookup(NoStringID); !ok || s != "" {
		t.Errorf("NoStringID должен возвращать пустую строку, получили: %q, ok=%v", s, ok)
	}

	id1 := interner.Intern("Game.Player")
	if id1 == NoStringID {
		t.Fatal("Intern не должен возвращать NoStringID для непустой строки")
	}
	if id2 := interner.Intern("Game.Player"); id1 != id2 {
		t.Errorf("одинаковые строки должны давать одинаковые ID: %d != %d", id1, id2)
	}
	if found, ok := interner.Find("Game.Player"); !ok || found != id1 {
		t.Errorf("Find = %d, %v", found, ok)
	}
	if _, ok := interner.Find("Game.Enemy"); ok {
		t.Errorf("Find не должен вставлять строки")
	}
	if interner.Len() != 2 {
		t.Errorf("Len = %d, want 2", interner.Len())
	}
}

func TestInternerConcurrentIntern(t *testing.T) {
	interner := NewInterner()
	const workers = 16
	const keys = 200

	ids := make([][]StringID, workers)
	var wg sync.WaitGroup
	for w := range workers {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			ids[w] = make([]StringID, keys)
			for k := range keys {
				ids[w][k] = interner.Intern(fmt.Sprintf("sym%d", k))
			}
		}(w)
	}
	wg.Wait()

	for w := 1; w < workers; w++ {
		for k := range keys {
			if ids[w][k] != ids[0][k] {
				t.Fatalf("worker %d key %d: id %d != %d", w, k, ids[w][k], ids[0][k])
			}
		}
	}
	if interner.Len() != keys+1 {
		t.Fatalf("Len = %d, want %d", interner.Len(), keys+1)
	}
}
