package obj

// Reloc is this repo's in-memory shape for one ELF relocation entry.
// ObjectFile.ParseRelocations fills it from SHT_RELA records only, taking
// Addend straight from r_addend; SHT_REL sections are not decoded, so no
// addend is ever read from instruction bytes.
//
// Field set and naming follow the ELF64_Rela layout every ELF relocation
// record in the corpus uses (compare
// other_examples/aclements-go-obj__elfReloc.go's Type/Sym/Addend fields).
type Reloc struct {
	Offset uint64 // r_offset: the byte offset within the section being relocated
	Type   uint32 // r_type
	Sym    uint32 // index into the defining file's symbol table
	Addend int64  // r_addend
}

// RangeExtnRef is the per-relocation slot the thunk subsystem fills in:
// which thunk (if any) carries the routed symbol, and that symbol's slot
// index within the thunk. ThunkIdx == -1 means the relocation either
// reaches its target directly or has not been scanned yet.
type RangeExtnRef struct {
	ThunkIdx int32
	SymIdx   int32
}

// NoThunk is the sentinel RangeExtnRef value meaning "direct branch, no
// thunk involved" or "not yet scanned."
var NoThunk = RangeExtnRef{ThunkIdx: -1, SymIdx: -1}

// elfRela is the on-disk ELF64_Rela record, decoded straight off the
// wire the same way Sym and Shdr are in elf.go. Every relocation format
// this linker targets (ARM64, ARM32, PPC64) uses Rela encoding, so Rel
// (implicit addend) decoding is not implemented — no target this repo
// supports emits it.
type elfRela struct {
	Offset uint64
	Info   uint64
	Addend int64
}

func (r elfRela) symIdx() uint32 { return uint32(r.Info >> 32) }
func (r elfRela) relType() uint32 { return uint32(r.Info) }
