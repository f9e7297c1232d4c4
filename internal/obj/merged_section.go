package obj

import (
	"sort"

	"github.com/relinkd/rangelink/internal/utils"
)

// MergedSection collects deduplicated string/constant fragments from
// mergeable sections of the same name across all input files (e.g. every
// object's .rodata.str1.1 folds into one MergedSection). It is data-only:
// nothing in this module emits its bytes, and no package outside obj
// uses it.
type MergedSection struct {
	Name      string
	Flags     uint64
	Type      uint32
	Addr      uint64
	Size      uint64
	AddrAlign uint64
	Map       map[string]*SectionFragment
}

func NewMergedSection(name string, flags uint64, typ uint32) *MergedSection {
	return &MergedSection{
		Name:      name,
		Flags:     flags,
		Type:      typ,
		AddrAlign: 1,
		Map:       make(map[string]*SectionFragment),
	}
}

func (m *MergedSection) Insert(key string, p2align uint8) *SectionFragment {
	if frag, ok := m.Map[key]; ok {
		if frag.P2Align < p2align {
			frag.P2Align = p2align
		}
		return frag
	}
	frag := NewSectionFragment()
	frag.SetOutputSection(m)
	frag.P2Align = p2align
	m.Map[key] = frag
	return m.Map[key]
}

// AssignFragmentsOffsets lays out every fragment within this merged
// section, sorted by (alignment, length, lexical) for determinism, and
// sets Size/AddrAlign to the result.
func (m *MergedSection) AssignFragmentsOffsets() {
	type f struct {
		Key string
		Val *SectionFragment
	}
	fragments := make([]f, 0, len(m.Map))
	for key, val := range m.Map {
		fragments = append(fragments, f{Key: key, Val: val})
	}

	sort.SliceStable(fragments, func(i, j int) bool {
		x, y := fragments[i], fragments[j]
		if x.Val.P2Align != y.Val.P2Align {
			return x.Val.P2Align < y.Val.P2Align
		}
		if len(x.Key) != len(y.Key) {
			return len(x.Key) < len(y.Key)
		}
		return x.Key < y.Key
	})

	offset := uint64(0)
	p2align := uint64(0)
	for _, frag := range fragments {
		offset = utils.AlignTo(offset, 1<<frag.Val.P2Align)
		frag.Val.Offset = uint32(offset)
		offset += uint64(len(frag.Key))
		if p2align < uint64(frag.Val.P2Align) {
			p2align = uint64(frag.Val.P2Align)
		}
	}

	m.Size = utils.AlignTo(offset, 1<<p2align)
	m.AddrAlign = 1 << p2align
}
