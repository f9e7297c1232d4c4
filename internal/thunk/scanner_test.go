package thunk

import (
	"debug/elf"
	"testing"

	"github.com/relinkd/rangelink/internal/obj"
	"github.com/relinkd/rangelink/internal/target"
)

// buildCallSection returns an input section whose sole symbol table
// entry (index 1; index 0 is always the null symbol, mirroring ELF) is
// the target of the section's single relocation.
func buildCallSection(pol target.Policy, offset int64, relOffset uint64, target_ *obj.InputSection, addend int64) (*obj.InputSection, *obj.Symbol) {
	f := &obj.ObjectFile{Priority: 1}
	isec := obj.NewInputSection(f, make([]byte, 8), 0)
	isec.Offset = offset
	isec.OutputSectionIdx = 0

	sym := obj.NewSymbol(f, "callee")
	sym.SetInputSection(target_)
	sym.SetSymIdx(1)

	f.Symbols = []*obj.Symbol{{}, sym}
	f.InputSections = []*obj.InputSection{isec}

	var relType uint32
	switch pol.(type) {
	case target.ARM64:
		relType = uint32(elf.R_AARCH64_CALL26)
	}
	isec.Rels = []obj.Reloc{{Offset: relOffset, Type: relType, Sym: 1, Addend: addend}}
	return isec, sym
}

func TestScanSectionSkipsReachable(t *testing.T) {
	pol := target.ARM64{}
	calleeSec := obj.NewInputSection(nil, make([]byte, 4), 1)
	calleeSec.OutputSectionIdx = 0
	calleeSec.Offset = 100

	caller, sym := buildCallSection(pol, 0, 0, calleeSec, 0)
	th := NewThunk(0)

	scanSection(pol, caller, th)

	if len(th.Symbols) != 0 {
		t.Fatalf("a reachable call should not enlist its target, got %d symbols", len(th.Symbols))
	}
	if sym.ThunkIdx != obj.NoThunkIdx {
		t.Errorf("reachable symbol should keep NoThunkIdx, got %d", sym.ThunkIdx)
	}
}

func TestScanSectionEnlistsUnreachable(t *testing.T) {
	pol := target.ARM64{}
	calleeSec := obj.NewInputSection(nil, make([]byte, 4), 1)
	calleeSec.OutputSectionIdx = 0
	calleeSec.Offset = pol.MaxDistance() + 1000

	caller, sym := buildCallSection(pol, 0, 0, calleeSec, 0)
	th := NewThunk(0)

	scanSection(pol, caller, th)

	if len(th.Symbols) != 1 || th.Symbols[0] != sym {
		t.Fatalf("an out-of-range call should enlist its target exactly once")
	}

	caller.GetRels() // sizes RangeExtn
	if caller.RangeExtn[0].ThunkIdx != th.ThunkIdx {
		t.Errorf("RangeExtn[0].ThunkIdx = %d, want %d", caller.RangeExtn[0].ThunkIdx, th.ThunkIdx)
	}
}

func TestScanSectionReusesAlreadyRoutedSymbol(t *testing.T) {
	pol := target.ARM64{}
	calleeSec := obj.NewInputSection(nil, make([]byte, 4), 1)
	calleeSec.OutputSectionIdx = 0
	calleeSec.Offset = pol.MaxDistance() + 1000

	caller, sym := buildCallSection(pol, 0, 0, calleeSec, 0)

	// Simulate the symbol already having been routed by an earlier batch.
	sym.ThunkIdx = 7
	sym.ThunkSymIdx = 2

	th := NewThunk(8)
	scanSection(pol, caller, th)

	if len(th.Symbols) != 0 {
		t.Fatalf("an already-routed symbol should not be re-enlisted into a new thunk")
	}
	caller.GetRels()
	if caller.RangeExtn[0].ThunkIdx != 7 || caller.RangeExtn[0].SymIdx != 2 {
		t.Errorf("RangeExtn[0] = %+v, want {7 2}", caller.RangeExtn[0])
	}
}

func TestScanSectionSkipsUndefinedSymbol(t *testing.T) {
	pol := target.ARM64{}
	f := &obj.ObjectFile{Priority: 1}
	isec := obj.NewInputSection(f, make([]byte, 8), 0)
	isec.OutputSectionIdx = 0

	undef := obj.NewSymbol(nil, "extern_fn") // File == nil: undefined
	f.Symbols = []*obj.Symbol{{}, undef}
	f.InputSections = []*obj.InputSection{isec}
	isec.Rels = []obj.Reloc{{Offset: 0, Type: uint32(elf.R_AARCH64_CALL26), Sym: 1}}

	th := NewThunk(0)
	scanSection(pol, isec, th)

	if len(th.Symbols) != 0 {
		t.Error("an undefined symbol must never be routed through a thunk here")
	}
}

func TestScanSectionSkipsNonBranchRelocations(t *testing.T) {
	pol := target.ARM64{}
	f := &obj.ObjectFile{Priority: 1}
	isec := obj.NewInputSection(f, make([]byte, 8), 0)
	isec.OutputSectionIdx = 0

	farSec := obj.NewInputSection(nil, make([]byte, 4), 1)
	farSec.OutputSectionIdx = 0
	farSec.Offset = pol.MaxDistance() + 1000
	sym := obj.NewSymbol(f, "data_sym")
	sym.SetInputSection(farSec)

	f.Symbols = []*obj.Symbol{{}, sym}
	f.InputSections = []*obj.InputSection{isec}
	isec.Rels = []obj.Reloc{{Offset: 0, Type: uint32(elf.R_AARCH64_ABS64), Sym: 1}}

	th := NewThunk(0)
	scanSection(pol, isec, th)

	if len(th.Symbols) != 0 {
		t.Error("a non-branch relocation must never be routed through a thunk, regardless of distance")
	}
}

func TestFixSymbolOffsetsPatchesRangeExtn(t *testing.T) {
	pol := target.ARM64{}
	calleeSec := obj.NewInputSection(nil, make([]byte, 4), 1)
	calleeSec.OutputSectionIdx = 0
	calleeSec.Offset = pol.MaxDistance() + 1000

	caller, sym := buildCallSection(pol, 0, 0, calleeSec, 0)
	th := NewThunk(0)

	ScanRelocations(pol, []*obj.InputSection{caller}, th)
	th.SortSymbols()
	th.AssignOffsets()
	FixSymbolOffsets([]*obj.InputSection{caller}, th)

	if caller.RangeExtn[0].SymIdx != sym.ThunkSymIdx {
		t.Errorf("RangeExtn[0].SymIdx = %d, want %d", caller.RangeExtn[0].SymIdx, sym.ThunkSymIdx)
	}
}
