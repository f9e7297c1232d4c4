package obj

// Unassigned is the sentinel Offset value for an InputSection that the
// layout sweep has not yet placed (spec.md §3's "offset: ... the
// sentinel value 'unassigned' is used during sweep").
const Unassigned int64 = -1

// NoOutputSection is the sentinel OutputSectionIdx for an input section
// that has not been binned into any output section yet.
const NoOutputSection int32 = -1

// InputSection is one section from one relocatable object file, after it
// has been assigned to an output section (spec.md §3). OutputSectionIdx
// is an index rather than a pointer into the owning linker.OutputSection,
// following spec.md §9's "cyclic references... become arena + index" —
// obj is a leaf package with no dependency on linker, and this is how
// that's kept true.
type InputSection struct {
	ObjFile *ObjectFile
	Content []byte
	Shndx   uint32

	Size    uint64
	P2Align uint8

	// Offset is this section's byte offset within its output section.
	// Unassigned until the layout sweep places it.
	Offset int64

	OutputSectionIdx int32

	Rels      []Reloc
	RangeExtn []RangeExtnRef
}

func NewInputSection(obj *ObjectFile, content []byte, shndx uint32) *InputSection {
	return &InputSection{
		ObjFile:          obj,
		Content:          content,
		Shndx:            shndx,
		Size:             uint64(len(content)),
		Offset:           Unassigned,
		OutputSectionIdx: NoOutputSection,
	}
}

// WriteTo copies this input section's raw bytes into dst, which must be
// at least Size bytes long. Thunk bytes are never written here — actual
// machine-code emission for thunk bodies is out of scope for this
// subsystem (spec.md §1); a downstream pass owns that.
func (i *InputSection) WriteTo(dst []byte) {
	copy(dst, i.Content)
}

// GetRels returns this section's relocations, growing RangeExtn to match
// if it hasn't been sized yet.
func (i *InputSection) GetRels() []Reloc {
	if i.RangeExtn == nil {
		i.RangeExtn = make([]RangeExtnRef, len(i.Rels))
		for idx := range i.RangeExtn {
			i.RangeExtn[idx] = NoThunk
		}
	}
	return i.Rels
}

// Addend returns the addend recorded on the relocation at the given
// index; a thin accessor kept separate from Reloc.Addend so callers read
// through the section the same way the oracle reads S/A/P (spec.md §4.1
// rule 5's get_addend collaborator).
func (i *InputSection) Addend(relIdx int) int64 {
	return i.Rels[relIdx].Addend
}
