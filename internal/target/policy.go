// Package target holds the per-ISA constants and predicates that
// parameterize the range-extension thunk sweep: how far a direct branch
// reaches, how large a batch of input sections between two thunks should
// be, and which relocation types are branches at all.
//
// This is the Go equivalent of mold's template specialization over the
// target architecture (original_source/elf/thunks.cc's `template
// <typename E>` functions): one Policy implementation per ISA, selected
// once at link-command startup and threaded through everything below
// instead of being a compile-time parameter.
package target

// Policy is implemented once per supported instruction set architecture.
type Policy interface {
	// Name identifies the architecture, e.g. "arm64".
	Name() string

	// MaxDistance is the half-range of a direct branch on this ISA, in
	// bytes: a branch can reach [-MaxDistance, +MaxDistance) from its own
	// address.
	MaxDistance() int64

	// BatchSize is the span of input sections served by one thunk
	// before a new one is allocated. mold fixes this at MaxDistance/10;
	// it is exposed here as its own method (rather than a derived
	// constant) so a driver can override it per spec.md's "batch_size"
	// data-model entry without touching MaxDistance.
	BatchSize() int64

	// MaxThunkSize is the hard upper bound on the byte size of one
	// thunk group. Exceeding it is a fatal implementation error
	// (spec.md §7).
	MaxThunkSize() int64

	// ThunkAlignment is the required byte alignment of a thunk's start
	// offset.
	ThunkAlignment() int64

	// StubSizePerSlot is the fixed number of bytes one routed symbol
	// occupies within a thunk.
	StubSizePerSlot() int64

	// NeedsThunkRel reports whether a relocation of the given ELF
	// relocation type is a direct call/jump that might need range
	// extension on this ISA.
	NeedsThunkRel(relType uint32) bool

	// IsModeSwitch reports whether relType is a branch instruction that
	// cannot reach targetIsThumb directly regardless of distance,
	// because crossing it requires an ARM<->Thumb processor mode switch
	// only a thunk can perform (original_source/elf/thunks.cc's
	// ARM32-only check in is_reachable). Always false on ISAs without a
	// Thumb/ARM distinction.
	IsModeSwitch(relType uint32, targetIsThumb bool) bool
}

// DefaultBatchDivisor is mold's fixed choice of batch_size = max_distance / 10.
const DefaultBatchDivisor = 10

// Tunable adjusts BatchSize and MaxThunkSize at runtime (spec.md leaves
// batch_size and max_thunk_size as per-target constants; this repo's
// driver additionally allows overriding them, SPEC_FULL.md §3.2).
type Tunable struct {
	base          Policy
	batchDivisor  int64
	maxThunkSize  int64
}

// NewTunable wraps base with overridable batch-divisor and max-thunk-size
// knobs. A batchDivisor of zero or less uses DefaultBatchDivisor; a
// maxThunkSize of zero or less keeps base's own value.
func NewTunable(base Policy, batchDivisor, maxThunkSize int64) *Tunable {
	if batchDivisor <= 0 {
		batchDivisor = DefaultBatchDivisor
	}
	if maxThunkSize <= 0 {
		maxThunkSize = base.MaxThunkSize()
	}
	return &Tunable{base: base, batchDivisor: batchDivisor, maxThunkSize: maxThunkSize}
}

func (t *Tunable) Name() string       { return t.base.Name() }
func (t *Tunable) MaxDistance() int64 { return t.base.MaxDistance() }
func (t *Tunable) BatchSize() int64   { return t.base.MaxDistance() / t.batchDivisor }
func (t *Tunable) MaxThunkSize() int64 {
	return t.maxThunkSize
}
func (t *Tunable) ThunkAlignment() int64 { return t.base.ThunkAlignment() }
func (t *Tunable) StubSizePerSlot() int64 {
	return t.base.StubSizePerSlot()
}
func (t *Tunable) NeedsThunkRel(relType uint32) bool { return t.base.NeedsThunkRel(relType) }
func (t *Tunable) IsModeSwitch(relType uint32, targetIsThumb bool) bool {
	return t.base.IsModeSwitch(relType, targetIsThumb)
}

// ByName returns the built-in Policy for a GOARCH-like name, or nil if the
// name is unknown. It does not wrap the result in a Tunable.
func ByName(name string) Policy {
	switch name {
	case "arm64", "aarch64":
		return ARM64{}
	case "arm", "arm32":
		return ARM32{}
	case "ppc64", "ppc64le":
		return PPC64{}
	case "riscv64":
		return RISCV64{}
	default:
		return nil
	}
}
