package symbols

import (
	"errors"
	"testing"
)

func TestDeclareReusesSymbol(t *testing.T) {
	table := NewTable(Hints{})
	first := declare(t, table, "Game.Player", KindType)
	second := declare(t, table, "Game.Player", KindType)

	if first != second {
		t.Fatalf("expected one symbol per source key, got %p and %p", first, second)
	}
	if !first.ID().IsValid() {
		t.Fatalf("expected valid symbol ID")
	}
	if table.Len() != 1 {
		t.Fatalf("len = %d, want 1", table.Len())
	}
	if got, ok := table.Lookup("Game.Player"); !ok || got != first {
		t.Fatalf("Lookup = %v, %v", got, ok)
	}
	if table.Get(first.ID()) != first {
		t.Fatalf("Get returned a different symbol")
	}
	if table.Get(NoSymbolID) != nil {
		t.Fatalf("Get(NoSymbolID) must be nil")
	}
}

func TestDeclareResolvesContainingType(t *testing.T) {
	table := NewTable(Hints{})
	player := &testSource{key: "Game.Player", kind: KindType}
	field := &testSource{key: "Game.Player.health", kind: KindField, decl: player}

	sym, err := table.Declare(field)
	if err != nil {
		t.Fatalf("declare: %v", err)
	}
	owner := sym.ContainingType()
	if owner == nil || owner.String() != "Game.Player" {
		t.Fatalf("containing = %v, want Game.Player", owner)
	}
	if got, _ := table.Lookup("Game.Player"); got != owner {
		t.Fatalf("containing type must be registered in the table")
	}

	top := declare(t, table, "Game.Util", KindType)
	if top.ContainingType() != nil {
		t.Fatalf("top-level type must have no containing type")
	}
}

func TestDeclareRejectsNonTypeContainer(t *testing.T) {
	table := NewTable(Hints{})
	method := &testSource{key: "Game.Player.Move", kind: KindMethod}
	local := &testSource{key: "Game.Player.Move.speed", kind: KindLocal, decl: method}

	if _, err := table.Declare(local); !errors.Is(err, ErrNotType) {
		t.Fatalf("err = %v, want ErrNotType", err)
	}
	if table.Len() != 0 {
		t.Fatalf("failed declaration must not leave symbols behind, len = %d", table.Len())
	}
}

func TestDeclareRejectsSelfContainment(t *testing.T) {
	table := NewTable(Hints{})
	loop := &testSource{key: "Game.Loop", kind: KindType}
	loop.decl = loop

	if _, err := table.Declare(loop); err == nil {
		t.Fatalf("expected error for self-containing type")
	}
}

func TestDeclareEmptyKey(t *testing.T) {
	table := NewTable(Hints{})
	if _, err := table.Declare(&testSource{kind: KindType}); err == nil {
		t.Fatalf("expected error for empty key")
	}
}

func TestExternIsBoundAtConstruction(t *testing.T) {
	table := NewTable(Hints{})
	ext := declare(t, table, "UnityEngine.Debug.Log", KindExtern)
	if !ext.IsBound() || !ext.IsExtern() {
		t.Fatalf("extern must be bound and flagged extern")
	}
	deps, err := ext.DirectDependencies()
	if err != nil || len(deps) != 0 {
		t.Fatalf("extern deps = %v, %v; want empty", deps, err)
	}
}
