package thunk

import (
	"sync"

	"github.com/relinkd/rangelink/internal/obj"
	"github.com/relinkd/rangelink/internal/target"
)

// ScanRelocations walks every branch relocation in each of isecs and
// decides which ones need routing through th, concurrently across
// sections the way original_source/elf/thunks.cc's scan_rels is invoked
// under tbb::parallel_for_each — one goroutine per input section,
// joined by a WaitGroup (the fork-join idiom this codebase uses
// throughout for per-section work, grounded on the teacher family's
// CongLe-derived data2.go pattern).
func ScanRelocations(pol target.Policy, isecs []*obj.InputSection, th *Thunk) {
	var wg sync.WaitGroup
	for _, isec := range isecs {
		wg.Add(1)
		go func(isec *obj.InputSection) {
			defer wg.Done()
			scanSection(pol, isec, th)
		}(isec)
	}
	wg.Wait()
}

// scanSection is one input section's share of scan_rels: for each branch
// relocation that's out of range, either reuse the thunk slot the
// symbol was assigned by an earlier, still-live thunk, or enlist it
// into th (once, however many sections of the batch reference it).
func scanSection(pol target.Policy, isec *obj.InputSection, th *Thunk) {
	rels := isec.GetRels()

	for i, rel := range rels {
		if !pol.NeedsThunkRel(rel.Type) {
			continue
		}

		sym := symbolForReloc(isec, rel)
		if sym == nil || !sym.Defined() {
			// Undefined symbol: apply_reloc (out of scope here) will
			// report the error; the scanner just skips it.
			continue
		}

		if IsReachable(pol, isec, sym, rel, i) {
			continue
		}

		// Already routed through an earlier thunk that is still live:
		// just point this relocation at it.
		if sym.ThunkIdx != obj.NoThunkIdx {
			isec.RangeExtn[i] = obj.RangeExtnRef{
				ThunkIdx: sym.ThunkIdx,
				SymIdx:   sym.ThunkSymIdx,
			}
			continue
		}

		isec.RangeExtn[i] = obj.RangeExtnRef{
			ThunkIdx: th.ThunkIdx,
			SymIdx:   obj.NoThunkIdx,
		}
		th.AddSymbol(sym)
	}
}

// symbolForReloc resolves a relocation's target symbol from its owning
// object file's symbol table. Pessimistically returns nil for anything
// out of range rather than panicking, since malformed relocation tables
// belong to a different layer's error handling.
func symbolForReloc(isec *obj.InputSection, rel obj.Reloc) *obj.Symbol {
	syms := isec.ObjFile.Symbols
	if int(rel.Sym) >= len(syms) {
		return nil
	}
	return syms[rel.Sym]
}

// FixSymbolOffsets re-scans isecs after th's Symbols have been sorted
// and assigned their final ThunkSymIdx, patching every RangeExtn entry
// that pointed at th with a placeholder sym_idx (original_source/elf/
// thunks.cc's second `tbb::parallel_for_each` over the same batch).
func FixSymbolOffsets(isecs []*obj.InputSection, th *Thunk) {
	var wg sync.WaitGroup
	for _, isec := range isecs {
		wg.Add(1)
		go func(isec *obj.InputSection) {
			defer wg.Done()
			rels := isec.GetRels()
			for i, rel := range rels {
				if isec.RangeExtn[i].ThunkIdx != th.ThunkIdx {
					continue
				}
				sym := symbolForReloc(isec, rel)
				isec.RangeExtn[i].SymIdx = sym.ThunkSymIdx
			}
		}(isec)
	}
	wg.Wait()
}
