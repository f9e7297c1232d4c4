package target

import "debug/elf"

// ARM64 branch reach: a direct B/BL instruction has a 26-bit immediate
// scaled by 4 (all instructions are 4-byte aligned), giving an effective
// 28-bit signed range: [-2^27, 2^27).
const arm64MaxDistance = 1 << 27

// ARM64 is the Policy for 64-bit ARM (AArch64).
type ARM64 struct{}

func (ARM64) Name() string         { return "arm64" }
func (ARM64) MaxDistance() int64   { return arm64MaxDistance }
func (ARM64) BatchSize() int64     { return arm64MaxDistance / DefaultBatchDivisor }
func (ARM64) MaxThunkSize() int64  { return 102400 }
func (ARM64) ThunkAlignment() int64 { return 4 }

// StubSizePerSlot is the size of one ADRP+ADD+BR-style trampoline entry
// routed through a shared thunk group; the actual instruction encoding is
// out of scope for this subsystem (spec.md §1) but downstream code
// emission needs to know how much space each routed symbol occupies.
func (ARM64) StubSizePerSlot() int64 { return 12 }

func (ARM64) NeedsThunkRel(relType uint32) bool {
	switch elf.R_AARCH64(relType) {
	case elf.R_AARCH64_JUMP26, elf.R_AARCH64_CALL26:
		return true
	default:
		return false
	}
}

// IsModeSwitch is always false on ARM64: there is no Thumb/ARM mode
// distinction to mediate.
func (ARM64) IsModeSwitch(relType uint32, targetIsThumb bool) bool { return false }
