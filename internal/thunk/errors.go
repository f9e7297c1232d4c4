package thunk

import "fmt"

// ErrThunkOverflow reports that a thunk's size reached or exceeded its
// ISA's MaxThunkSize — original_source/elf/thunks.cc treats this as an
// assertion failure (`assert(thunk.size() < max_thunk_size)`); this repo
// returns it as a normal error instead so callers (and tests) can
// observe the failure without a process abort (SPEC_FULL.md §9).
type ErrThunkOverflow struct {
	ThunkIdx int32
	Size     int64
	Max      int64
}

func (e *ErrThunkOverflow) Error() string {
	return fmt.Sprintf("thunk %d size %d exceeds max thunk size %d", e.ThunkIdx, e.Size, e.Max)
}

// ErrUnassignedTarget reports that the sweep reached the end of an
// output section's members with some input section still carrying the
// Unassigned sentinel offset — a layout-sweep invariant violation that
// would otherwise surface only as a nonsensical negative distance deep
// inside IsReachable.
type ErrUnassignedTarget struct {
	SectionIdx uint32
}

func (e *ErrUnassignedTarget) Error() string {
	return fmt.Sprintf("input section %d left unassigned after layout sweep", e.SectionIdx)
}
