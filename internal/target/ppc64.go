package target

import "debug/elf"

// PPC64's branch has a 24-bit immediate aligned to 4 bytes, giving an
// effective 26-bit range.
const ppc64MaxDistance = 1 << 25

// PPC64 is the Policy for 64-bit PowerPC (both ELFv1 and ELFv2 ABIs use
// the same branch-reach constants).
type PPC64 struct{}

func (PPC64) Name() string          { return "ppc64" }
func (PPC64) MaxDistance() int64    { return ppc64MaxDistance }
func (PPC64) BatchSize() int64      { return ppc64MaxDistance / DefaultBatchDivisor }
func (PPC64) MaxThunkSize() int64   { return 102400 }
func (PPC64) ThunkAlignment() int64 { return 4 }
func (PPC64) StubSizePerSlot() int64 { return 32 }

func (PPC64) NeedsThunkRel(relType uint32) bool {
	return elf.R_PPC64(relType) == elf.R_PPC64_REL24
}

// IsModeSwitch is always false on PPC64: there is no secondary
// instruction-set mode a branch needs to mediate between.
func (PPC64) IsModeSwitch(relType uint32, targetIsThumb bool) bool { return false }
