package obj

import "sort"

// MergeableSection is one input section flagged SHF_MERGE|SHF_STRINGS (or
// similar): a sequence of fixed- or null-terminated records that get
// folded into a MergedSection, with per-record offsets recorded here so
// relocations pointing into the middle of the original section can be
// redirected to the right fragment.
type MergeableSection struct {
	OutputSection *MergedSection
	P2Align       uint8
	Strs          []string
	FragOffsets   []uint64
	Fragments     []*SectionFragment
}

// GetFragment finds the fragment containing the given offset into the
// original (pre-merge) section content, returning it along with the
// offset within that fragment.
func (m *MergeableSection) GetFragment(offset uint64) (*SectionFragment, uint64) {
	pos := sort.Search(len(m.FragOffsets), func(i int) bool {
		return offset < m.FragOffsets[i]
	})
	if pos == 0 {
		return nil, 0
	}
	idx := pos - 1
	return m.Fragments[idx], offset - m.FragOffsets[idx]
}
