package target

import "debug/elf"

// ARM32's Thumb branch has a 24-bit immediate aligned to 2 bytes, giving
// an effective 25-bit range. ARM32's non-Thumb branches reach twice as
// far, but this subsystem conservatively uses the Thumb limit for both,
// matching original_source/elf/thunks.cc's comment on the same tradeoff.
const arm32MaxDistance = 1 << 24

// ARM32 is the Policy for 32-bit ARM, covering both A32 and Thumb-2 call
// sites.
type ARM32 struct{}

func (ARM32) Name() string          { return "arm32" }
func (ARM32) MaxDistance() int64    { return arm32MaxDistance }
func (ARM32) BatchSize() int64      { return arm32MaxDistance / DefaultBatchDivisor }
func (ARM32) MaxThunkSize() int64   { return 102400 }
func (ARM32) ThunkAlignment() int64 { return 4 }
func (ARM32) StubSizePerSlot() int64 { return 12 }

func (ARM32) NeedsThunkRel(relType uint32) bool {
	switch elf.R_ARM(relType) {
	case elf.R_ARM_JUMP24, elf.R_ARM_THM_JUMP24, elf.R_ARM_CALL, elf.R_ARM_THM_PC22:
		return true
	default:
		return false
	}
}

// IsThumbJump reports whether relType is the Thumb-encoded jump24
// relocation (as opposed to its A32 counterpart).
func (ARM32) IsThumbJump(relType uint32) bool {
	return elf.R_ARM(relType) == elf.R_ARM_THM_JUMP24
}

// IsARMJump reports whether relType is the non-Thumb jump24 relocation.
func (ARM32) IsARMJump(relType uint32) bool {
	return elf.R_ARM(relType) == elf.R_ARM_JUMP24
}

// IsModeSwitch reports whether a relocation of this type, targeting a
// symbol whose low address bit marks it as Thumb code (targetIsThumb),
// requires a thunk purely to switch processor mode, even when the target
// would otherwise be within range. Thumb B/BL and ARM B instructions
// cannot be converted to a mode-switching BX, so the mismatch cases
// always need mediation (spec.md §4.1 rule 4, original_source/elf/thunks.cc).
func (a ARM32) IsModeSwitch(relType uint32, targetIsThumb bool) bool {
	if a.IsThumbJump(relType) && !targetIsThumb {
		return true
	}
	if a.IsARMJump(relType) && targetIsThumb {
		return true
	}
	return false
}
