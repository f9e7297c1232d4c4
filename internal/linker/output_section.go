package linker

import (
	"github.com/relinkd/rangelink/internal/obj"
	"github.com/relinkd/rangelink/internal/target"
	"github.com/relinkd/rangelink/internal/thunk"
)

// OutputSection is one named section of the final image (.text, .data,
// ...), holding every InputSection binned into it in file order (kept&
// adapted from the teacher's OutputSection). Target and Thunks are new:
// the thunk subsystem needs to know which ISA it's sweeping (spec.md §2)
// and where to record what it synthesizes (spec.md §4.3).
type OutputSection struct {
	OutputWriter
	InputSections []*obj.InputSection
	Idx           uint32 // the index in ctx.OutputSections, and InputSection.OutputSectionIdx

	Target target.Policy
	Thunks []*thunk.Thunk
}

func NewOutputSection(name string, typ uint32, flags uint64, idx uint32) *OutputSection {
	o := &OutputSection{OutputWriter: *NewOutputWriter()}
	o.Name = name
	o.Shdr.Type = typ
	o.Shdr.Flags = flags
	o.Idx = idx
	return o
}

// Append binds isec to this output section, stamping its
// OutputSectionIdx so later passes can recover the owner by index alone
// (obj has no pointer back to linker — see input_section.go).
func (o *OutputSection) Append(isec *obj.InputSection) {
	isec.OutputSectionIdx = int32(o.Idx)
	o.InputSections = append(o.InputSections, isec)
}
