package diag

import (
	"sync"
	"testing"

	"symgraph/internal/source"
)

func TestBagLimitAndErrors(t *testing.T) {
	bag := NewBag(2)
	r := BagReporter{Bag: bag}

	ReportWarning(r, SemaDependencyCycle, source.Span{}, "cycle").Emit()
	if bag.HasErrors() {
		t.Fatalf("warning must not count as error")
	}
	ReportError(r, SemaUnresolvedReference, source.Span{}, "missing").About("Game.A").Emit()
	ReportError(r, SemaUnresolvedReference, source.Span{}, "dropped").Emit()

	if bag.Len() != 2 {
		t.Fatalf("len = %d, want 2", bag.Len())
	}
	if !bag.HasErrors() {
		t.Fatalf("expected errors")
	}
	if got := bag.Items()[1].Subject; got != "Game.A" {
		t.Fatalf("subject = %q", got)
	}
}

func TestBagWithoutLimit(t *testing.T) {
	for _, limit := range []int{0, -1} {
		bag := NewBag(limit)
		for range 150 {
			if !bag.Add(Diagnostic{Code: SemaInfo}) {
				t.Fatalf("NewBag(%d) rejected a diagnostic", limit)
			}
		}
		if bag.Len() != 150 || bag.Cap() != 0 {
			t.Fatalf("NewBag(%d): len = %d, cap = %d", limit, bag.Len(), bag.Cap())
		}
		other := NewBag(1)
		other.Add(Diagnostic{Code: SemaDependencyCycle})
		bag.Merge(other)
		if bag.Cap() != 0 || bag.Len() != 151 {
			t.Fatalf("merge into unlimited bag: len = %d, cap = %d", bag.Len(), bag.Cap())
		}
	}
}

func TestReportBuilderEmitsOnce(t *testing.T) {
	bag := NewBag(10)
	b := ReportError(BagReporter{Bag: bag}, ICEContract, source.Span{}, "twice")
	b.Emit()
	b.Emit()
	if bag.Len() != 1 {
		t.Fatalf("len = %d, want 1", bag.Len())
	}
}

func TestBagSortDeterministic(t *testing.T) {
	bag := NewBag(10)
	bag.Add(Diagnostic{Severity: SevWarning, Code: SemaDependencyCycle, Primary: source.Span{File: 0, Start: 10}})
	bag.Add(Diagnostic{Severity: SevError, Code: SemaUnresolvedReference, Primary: source.Span{File: 0, Start: 10}})
	bag.Add(Diagnostic{Severity: SevInfo, Code: SemaInfo, Primary: source.Span{File: 0, Start: 2}})
	bag.Sort()

	items := bag.Items()
	if items[0].Code != SemaInfo || items[1].Code != SemaUnresolvedReference || items[2].Code != SemaDependencyCycle {
		t.Fatalf("unexpected order: %v %v %v", items[0].Code.ID(), items[1].Code.ID(), items[2].Code.ID())
	}
}

func TestBagConcurrentAdd(t *testing.T) {
	bag := NewBag(1000)
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 50 {
				bag.Add(Diagnostic{Code: SemaInfo})
			}
		}()
	}
	wg.Wait()
	if bag.Len() != 400 {
		t.Fatalf("len = %d, want 400", bag.Len())
	}
	bag.Dedup()
	if bag.Len() != 1 {
		t.Fatalf("after dedup len = %d, want 1", bag.Len())
	}
}

func TestCodeIDs(t *testing.T) {
	cases := map[Code]string{
		ManifestParse:           "MAN1001",
		SemaUnresolvedReference: "SEM3001",
		IOLoadFileError:         "IO4001",
		ICEContract:             "ICE9001",
	}
	for code, want := range cases {
		if got := code.ID(); got != want {
			t.Errorf("%d.ID() = %q, want %q", code, got, want)
		}
	}
}
