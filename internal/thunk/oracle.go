// Package thunk synthesizes range-extension thunks: linker-generated
// trampolines that let a direct branch reach a destination further away
// than its instruction encoding's immediate field allows, by routing the
// branch through a nearby indirect jump instead.
//
// This is a direct translation of original_source/elf/thunks.cc's
// create_range_extension_thunks pass (the ISA-templated C++ function
// this whole package generalizes into runtime target.Policy dispatch).
package thunk

import (
	"github.com/relinkd/rangelink/internal/obj"
	"github.com/relinkd/rangelink/internal/target"
)

// IsReachable reports whether the branch relocation relIdx in isec can
// reach sym directly, without being routed through a thunk. Mirrors
// original_source/elf/thunks.cc's is_reachable rule for rule:
//
//  1. Cross-output-section references are always treated as unreachable
//     (pessimistic: thunks are scoped per output section).
//  2. A symbol with a PLT stub always goes through it, even if the PLT
//     itself would be in range.
//  3. A target section that hasn't been assigned an offset yet by the
//     layout sweep is unreachable (sweep order invariant).
//  4. ARM32 Thumb/ARM mode mismatches always require a thunk.
//  5. Otherwise, compare the S+A-P distance against the ISA's
//     max branch reach.
func IsReachable(pol target.Policy, isec *obj.InputSection, sym *obj.Symbol, rel obj.Reloc, relIdx int) bool {
	// Rule 1: pessimistically treat any out-of-section reference, or a
	// reference to an undefined/absolute symbol with no owning section,
	// as unreachable.
	isec2 := sym.InputSection
	if isec2 == nil || isec.OutputSectionIdx != isec2.OutputSectionIdx {
		return false
	}

	// Rule 2: PLT redirection always counts as out-of-range.
	if sym.HasPLT {
		return false
	}

	// Rule 3: the target section hasn't been placed by the sweep yet.
	if isec2.Offset == obj.Unassigned {
		return false
	}

	// Rule 4: ARM32 Thumb/ARM mode-switch mediation.
	targetIsThumb := sym.Addr()&1 != 0
	if pol.IsModeSwitch(rel.Type, targetIsThumb) {
		return false
	}

	// Rule 5: distance check.
	s := int64(sym.Addr())
	a := isec.Addend(relIdx)
	p := isec.Offset + int64(rel.Offset)
	val := s + a - p
	return -pol.MaxDistance() <= val && val < pol.MaxDistance()
}
