package thunk

import (
	"testing"

	"github.com/relinkd/rangelink/internal/obj"
	"github.com/relinkd/rangelink/internal/target"
)

func newFileSymbol(priority int, symIdx uint32, name string) *obj.Symbol {
	f := &obj.ObjectFile{Priority: priority}
	sym := obj.NewSymbol(f, name)
	sym.SetSymIdx(symIdx)
	return sym
}

func TestThunkAddSymbolOnce(t *testing.T) {
	th := NewThunk(0)
	sym := newFileSymbol(1, 0, "a")

	if !th.AddSymbol(sym) {
		t.Fatal("first AddSymbol should succeed")
	}
	if th.AddSymbol(sym) {
		t.Fatal("second AddSymbol on the same symbol should be refused")
	}
	if len(th.Symbols) != 1 {
		t.Fatalf("len(Symbols) = %d, want 1", len(th.Symbols))
	}
}

func TestThunkAddSymbolConcurrent(t *testing.T) {
	th := NewThunk(0)
	sym := newFileSymbol(1, 0, "a")

	const n = 64
	done := make(chan bool, n)
	for i := 0; i < n; i++ {
		go func() {
			done <- th.AddSymbol(sym)
		}()
	}
	successes := 0
	for i := 0; i < n; i++ {
		if <-done {
			successes++
		}
	}
	if successes != 1 {
		t.Fatalf("exactly one concurrent AddSymbol should succeed, got %d", successes)
	}
	if len(th.Symbols) != 1 {
		t.Fatalf("len(Symbols) = %d, want 1", len(th.Symbols))
	}
}

func TestThunkSize(t *testing.T) {
	pol := target.ARM64{}
	th := NewThunk(0)
	th.AddSymbol(newFileSymbol(1, 0, "a"))
	th.AddSymbol(newFileSymbol(1, 1, "b"))

	want := int64(2) * pol.StubSizePerSlot()
	if got := th.Size(pol); got != want {
		t.Errorf("Size() = %d, want %d", got, want)
	}
}

func TestThunkSortSymbolsByFilePriorityThenSymIdx(t *testing.T) {
	th := NewThunk(0)
	c := newFileSymbol(2, 0, "c")
	a := newFileSymbol(1, 5, "a")
	b := newFileSymbol(1, 1, "b")
	th.Symbols = []*obj.Symbol{c, a, b}

	th.SortSymbols()

	want := []*obj.Symbol{b, a, c}
	for i, w := range want {
		if th.Symbols[i] != w {
			t.Fatalf("Symbols[%d] = %q, want %q", i, th.Symbols[i].Name, w.Name)
		}
	}
}

func TestThunkAssignOffsetsStampsIdxAfterSort(t *testing.T) {
	th := NewThunk(3)
	a := newFileSymbol(2, 0, "a")
	b := newFileSymbol(1, 0, "b")
	th.Symbols = []*obj.Symbol{a, b}

	th.SortSymbols()
	th.AssignOffsets()

	if b.ThunkIdx != 3 || b.ThunkSymIdx != 0 {
		t.Errorf("b: ThunkIdx=%d ThunkSymIdx=%d, want 3,0", b.ThunkIdx, b.ThunkSymIdx)
	}
	if a.ThunkIdx != 3 || a.ThunkSymIdx != 1 {
		t.Errorf("a: ThunkIdx=%d ThunkSymIdx=%d, want 3,1", a.ThunkIdx, a.ThunkSymIdx)
	}
}

func TestThunkRetireClearsAndIsIdempotent(t *testing.T) {
	th := NewThunk(0)
	sym := newFileSymbol(1, 0, "a")
	th.AddSymbol(sym)
	th.AssignOffsets()

	th.Retire()
	if sym.ThunkIdx != obj.NoThunkIdx || sym.ThunkSymIdx != obj.NoThunkIdx {
		t.Fatalf("after Retire: ThunkIdx=%d ThunkSymIdx=%d, want both %d", sym.ThunkIdx, sym.ThunkSymIdx, obj.NoThunkIdx)
	}
	if sym.ThunkMark.Load() != 0 {
		t.Fatalf("after Retire: ThunkMark = %d, want 0", sym.ThunkMark.Load())
	}

	// Calling Retire a second time on the same (already-cleared) thunk
	// must leave symbol state unchanged.
	th.Retire()
	if sym.ThunkIdx != obj.NoThunkIdx || sym.ThunkSymIdx != obj.NoThunkIdx {
		t.Fatalf("second Retire changed state: ThunkIdx=%d ThunkSymIdx=%d", sym.ThunkIdx, sym.ThunkSymIdx)
	}
	if sym.ThunkMark.Load() != 0 {
		t.Fatalf("second Retire changed ThunkMark: got %d", sym.ThunkMark.Load())
	}

	// And the symbol can be freely re-enlisted into a fresh thunk.
	th2 := NewThunk(1)
	if !th2.AddSymbol(sym) {
		t.Fatal("a retired symbol should be re-enlistable")
	}
}
