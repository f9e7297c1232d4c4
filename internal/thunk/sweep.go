package thunk

import (
	"sync"

	"github.com/relinkd/rangelink/internal/obj"
	"github.com/relinkd/rangelink/internal/target"
	"github.com/relinkd/rangelink/internal/utils"
)

// CreateRangeExtensionThunks is the top-level sweep over one output
// section's member input sections: a direct translation of
// original_source/elf/thunks.cc's create_range_extension_thunks. It
// assigns every member's Offset (the layout sweep) and, along the way,
// synthesizes however many Thunks are needed to keep every branch
// relocation within its ISA's reach. Returns the thunks created, in
// creation order, and the output section's final byte size.
func CreateRangeExtensionThunks(pol target.Policy, m []*obj.InputSection) ([]*Thunk, int64, error) {
	if len(m) == 0 {
		return nil, 0, nil
	}

	m[0].Offset = 0
	initUnassigned(m[1:])

	// We create thunks from the beginning of the section to the end.
	// We manage progress using four offsets which increase
	// monotonically. The locations they point to are always a<=b<=c<=d.
	var a, b, c, d int
	var offset int64

	var thunks []*Thunk

	for b < len(m) {
		// Move d forward as far as we can jump from b to anywhere in a
		// thunk placed after d.
		for d < len(m) &&
			utils.AlignToSigned(offset, 1<<m[d].P2Align)+int64(m[d].Size)+pol.MaxThunkSize() <
				m[b].Offset+pol.MaxDistance() {
			offset = utils.AlignToSigned(offset, 1<<m[d].P2Align)
			m[d].Offset = offset
			offset += int64(m[d].Size)
			d++
		}

		// Move c forward so that c is apart from b by BatchSize. At
		// least one section always separates b and c, guaranteeing
		// progress even when a single section's size alone exceeds the
		// batch.
		c = b + 1
		for c < len(m) && m[c].Offset+int64(m[c].Size) < m[b].Offset+pol.BatchSize() {
			c++
		}

		// Move a forward past every thunk that is no longer reachable
		// from c, retiring it so its symbols can be enlisted into a
		// later thunk.
		cOffset := offset
		if c != len(m) {
			cOffset = m[c].Offset
		}
		for a < len(thunks) && thunks[a].Offset+pol.MaxDistance() < cOffset {
			thunks[a].Retire()
			a++
		}

		// Create a thunk for the input sections between b and c, and
		// place it at d's current offset. A batch with nothing to route
		// keeps no thunk.
		th := NewThunk(int32(len(thunks)))
		th.Offset = utils.AlignToSigned(offset, pol.ThunkAlignment())

		ScanRelocations(pol, m[b:c], th)

		if len(th.Symbols) == 0 {
			b = c
			continue
		}
		thunks = append(thunks, th)
		offset = th.Offset

		size := th.Size(pol)
		if size >= pol.MaxThunkSize() {
			return thunks, offset, &ErrThunkOverflow{ThunkIdx: th.ThunkIdx, Size: size, Max: pol.MaxThunkSize()}
		}
		offset += size

		th.SortSymbols()
		th.AssignOffsets()

		FixSymbolOffsets(m[b:c], th)

		b = c
	}

	for a < len(thunks) {
		thunks[a].Retire()
		a++
	}

	if err := checkAllAssigned(m); err != nil {
		return thunks, offset, err
	}

	return thunks, offset, nil
}

// initUnassigned stamps every member but the first with the Unassigned
// sentinel offset, concurrently, so IsReachable's rule 3 (a target
// section the sweep hasn't reached yet is out of range) can distinguish
// "placed" from "not yet placed" sections (original_source/elf/
// thunks.cc's tbb::parallel_for over the same range).
func initUnassigned(rest []*obj.InputSection) {
	var wg sync.WaitGroup
	for _, isec := range rest {
		wg.Add(1)
		go func(isec *obj.InputSection) {
			defer wg.Done()
			isec.Offset = obj.Unassigned
		}(isec)
	}
	wg.Wait()
}

func checkAllAssigned(m []*obj.InputSection) error {
	for _, isec := range m {
		if isec.Offset == obj.Unassigned {
			return &ErrUnassignedTarget{SectionIdx: isec.Shndx}
		}
	}
	return nil
}
