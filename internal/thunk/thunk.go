package thunk

import (
	"sort"
	"sync"

	"github.com/relinkd/rangelink/internal/obj"
	"github.com/relinkd/rangelink/internal/target"
)

// Thunk is one range-extension thunk: a contiguous run of stub entries,
// one per routed symbol, placed at a single offset within its owning
// output section (original_source/elf/thunks.cc's RangeExtensionThunk).
type Thunk struct {
	// ThunkIdx is this thunk's position in the owning OutputSection's
	// Thunks slice, stamped once and never changed.
	ThunkIdx int32

	// Offset is this thunk's byte offset within its output section.
	Offset int64

	// Symbols is the deduplicated set of global symbols routed through
	// this thunk, in scan order until SortSymbols orders it deterministically.
	Symbols []*obj.Symbol

	mu sync.Mutex
}

func NewThunk(idx int32) *Thunk {
	return &Thunk{ThunkIdx: idx}
}

// Size returns this thunk's total byte footprint: one ISA-fixed stub
// slot per routed symbol, no group header (original_source/elf/thunks.cc
// has no separate header cost either — RangeExtensionThunk::size() is
// purely per-entry).
func (t *Thunk) Size(pol target.Policy) int64 {
	return int64(len(t.Symbols)) * pol.StubSizePerSlot()
}

// AddSymbol enlists sym into this thunk exactly once, using the
// symbol's ThunkMark as a compare-and-swap membership flag so concurrent
// scanners racing on the same symbol still add it only a single time
// (spec.md §4.2, original_source/elf/thunks.cc's
// `sym.flags.exchange(-1) == 0`). Returns true if this call was the one
// that added it.
func (t *Thunk) AddSymbol(sym *obj.Symbol) bool {
	if !sym.ThunkMark.CompareAndSwap(0, -1) {
		return false
	}
	t.mu.Lock()
	t.Symbols = append(t.Symbols, sym)
	t.mu.Unlock()
	return true
}

// Retire clears every routed symbol's thunk bookkeeping, so that a
// later reference to one of those symbols enlists it into a fresh
// thunk; the retired thunk itself keeps its offset and Symbols
// (original_source/elf/thunks.cc's reset_thunk). Retire is idempotent:
// calling it twice on an already-cleared thunk is a no-op, since a
// symbol's ThunkIdx/ThunkSymIdx/ThunkMark are already at their zero/
// sentinel values after the first call.
func (t *Thunk) Retire() {
	for _, sym := range t.Symbols {
		sym.ThunkIdx = obj.NoThunkIdx
		sym.ThunkSymIdx = obj.NoThunkIdx
		sym.ThunkMark.Store(0)
	}
}

// SortSymbols orders Symbols by (file priority, symbol index) so that
// thunk layout is deterministic regardless of the order concurrent
// scanners happened to discover symbols in (spec.md §4.3,
// original_source/elf/thunks.cc's final `sort(thunk.symbols, ...)`).
func (t *Thunk) SortSymbols() {
	sortSymbols(t.Symbols)
}

// AssignOffsets stamps each (already sorted) symbol's ThunkIdx and
// ThunkSymIdx, making this thunk visible to subsequent batches' reuse
// check in scanSection (original_source/elf/thunks.cc's offset-
// assignment loop right after the sort).
func (t *Thunk) AssignOffsets() {
	for i, sym := range t.Symbols {
		sym.ThunkIdx = t.ThunkIdx
		sym.ThunkSymIdx = int32(i)
	}
}

func sortSymbols(syms []*obj.Symbol) {
	sort.SliceStable(syms, func(i, j int) bool {
		return less(syms[i], syms[j])
	})
}

func less(a, b *obj.Symbol) bool {
	pa, pb := 0, 0
	if a.File != nil {
		pa = a.File.Priority
	}
	if b.File != nil {
		pb = b.File.Priority
	}
	if pa != pb {
		return pa < pb
	}
	return a.SymIdx < b.SymIdx
}
