package obj

import "sync/atomic"

// NoThunkIdx is the sentinel ThunkIdx/ThunkSymIdx value meaning "this
// symbol is not currently routed through any live thunk" (spec.md §3).
const NoThunkIdx int32 = -1

// Symbol is a defined or undefined name from some object file's symbol
// table. ThunkMark, ThunkIdx, and ThunkSymIdx are the scratch fields the
// thunk subsystem owns (spec.md §3): ThunkMark is a compare-and-swap
// membership marker used only during concurrent relocation scanning,
// ThunkIdx/ThunkSymIdx record which thunk (if any) currently carries this
// symbol.
type Symbol struct {
	File            *ObjectFile
	InputSection    *InputSection
	SectionFragment *SectionFragment
	Name            string
	Value           uint64
	SymIdx          uint32

	// HasPLT is true when calls to this symbol must go through the
	// procedure linkage table rather than branching directly — the
	// oracle (spec.md §4.1 rule 2) always routes PLT calls through a
	// thunk, even when the PLT stub itself is technically in range.
	HasPLT bool

	// ThunkMark is the atomic compare-and-swap membership flag scanners
	// use to enlist this symbol into a thunk's Symbols slice exactly
	// once (spec.md §4.2, §5).
	ThunkMark atomic.Int32

	ThunkIdx    int32
	ThunkSymIdx int32
}

func NewSymbol(file *ObjectFile, name string) *Symbol {
	return &Symbol{
		File:        file,
		Name:        name,
		ThunkIdx:    NoThunkIdx,
		ThunkSymIdx: NoThunkIdx,
	}
}

// SetInputSection and SetSectionFragment are mutually exclusive: a symbol
// is defined either directly in an input section or in a merged-section
// fragment, never both (kept verbatim from the teacher).
func (s *Symbol) SetInputSection(section *InputSection) {
	s.InputSection = section
	s.SectionFragment = nil
}

func (s *Symbol) SetSectionFragment(frag *SectionFragment) {
	s.SectionFragment = frag
	s.InputSection = nil
}

func (s *Symbol) SetValue(value uint64) {
	s.Value = value
}

func (s *Symbol) SetSymIdx(idx uint32) {
	s.SymIdx = idx
}

// Addr returns this symbol's address, expressed as an offset relative to
// its output section's base the same way InputSection.Offset is (see
// input_section.go's doc comment on why that's sufficient for every
// distance computation the oracle needs). Returns Value unchanged for
// absolute symbols (no defining section or fragment).
func (s *Symbol) Addr() uint64 {
	if s.SectionFragment != nil {
		return s.SectionFragment.GetAddr() + s.Value
	}
	if s.InputSection != nil {
		return uint64(s.InputSection.Offset) + s.Value
	}
	return s.Value
}

// Defined reports whether this symbol resolved to some owning file. An
// undefined symbol (no File) is skipped by the relocation scanner
// (spec.md §4.2) rather than routed through a thunk.
func (s *Symbol) Defined() bool {
	return s.File != nil
}
