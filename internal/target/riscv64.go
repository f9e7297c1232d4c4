package target

// RISCV64 is the Policy for the teacher's original architecture. RISC-V's
// JAL has a ±1 MiB range, well short of ARM64/PPC64, but rvld-family
// linkers (including the one this repo started from) have historically
// not bothered synthesizing thunks for it — NeedsThunkRel always reports
// false, so CreateRangeExtensionThunks degenerates to plain sequential
// offset assignment with zero thunks, exactly the teacher's original
// behavior before this subsystem existed.
type RISCV64 struct{}

func (RISCV64) Name() string           { return "riscv64" }
func (RISCV64) MaxDistance() int64     { return 1 << 20 }
func (RISCV64) BatchSize() int64       { return (1 << 20) / DefaultBatchDivisor }
func (RISCV64) MaxThunkSize() int64    { return 102400 }
func (RISCV64) ThunkAlignment() int64  { return 4 }
func (RISCV64) StubSizePerSlot() int64 { return 8 }

func (RISCV64) NeedsThunkRel(relType uint32) bool { return false }

// IsModeSwitch is always false: RISCV64 never synthesizes thunks in the
// first place (see NeedsThunkRel above).
func (RISCV64) IsModeSwitch(relType uint32, targetIsThumb bool) bool { return false }
