package obj

import (
	"debug/elf"

	"github.com/relinkd/rangelink/internal/utils"
)

// SymbolResolver is the external global-symbol-table collaborator
// (spec.md §1's "the global symbol resolver") that ObjectFile.ParseSymbols
// consults to intern global symbol names into one shared identity across
// every object file. internal/linker.Context implements this; obj stays a
// leaf package with no dependency on linker by taking the interface
// instead of a concrete type (spec.md §9's arena+index philosophy applied
// to package boundaries, not just in-struct references).
type SymbolResolver interface {
	GetSymbol(name string) *Symbol
}

// ObjectFile is one relocatable (.o) input to the link, parsed far enough
// to hand its InputSections and Symbols to the rest of the linker.
// Kept&adapted from the teacher's object_file.go (folded in input_file.go,
// which had gone stale — see DESIGN.md).
type ObjectFile struct {
	File           *File
	ElfEhdr        Ehdr
	ElfSecHdrs     []Shdr
	ElfSyms        []Sym
	SymTabSecHdr   *Shdr
	FirstGlobal    uint32
	ShStrTab       []byte
	SymStrTab      []byte
	SymtabShndxSec []uint32

	// IsAlive marks an archive member as pulled into the link (needed
	// because it resolves some undefined reference) versus still
	// dormant. Unrelated to thunking, kept from the teacher unchanged.
	IsAlive       bool
	InputSections []*InputSection
	Symbols       []*Symbol
	LocalSymbols  []*Symbol
	TotalSyms     uint32
	TotalSecs     uint32

	// Priority orders object files by link-command position. It feeds
	// the thunk subsystem's deterministic symbol sort key (file.priority,
	// sym_idx) from original_source/elf/thunks.cc, spec.md §4.3 — absent
	// from the teacher, which never needed a stable multi-file ordering.
	Priority int
}

// NewObjectFile parses enough of file's header to discover its section
// and symbol tables. It does not yet populate InputSections or Symbols;
// call Parse for that once the file's Priority has been assigned.
func NewObjectFile(file *File, isAlive bool) *ObjectFile {
	f := &ObjectFile{
		File:       file,
		ElfSecHdrs: []Shdr{},
		IsAlive:    isAlive,
	}

	if len(file.Content) < EhdrSize {
		utils.Fatal("file is smaller than Ehdr size")
	}
	MustHaveMagic(file.Content)

	utils.Read[Ehdr](file.Content, &f.ElfEhdr)

	secHdrContent := file.Content[f.ElfEhdr.ShOff:]
	shdr := Shdr{}
	utils.Read[Shdr](secHdrContent, &shdr)
	f.ElfSecHdrs = append(f.ElfSecHdrs, shdr)

	numSecs := uint32(f.ElfEhdr.ShNum)
	if numSecs == 0 {
		numSecs = uint32(f.ElfSecHdrs[0].Size)
	}
	f.TotalSecs = numSecs

	for i := uint32(0); i < numSecs-1; i++ {
		secHdrContent = secHdrContent[ShdrSize:]
		shdr = Shdr{}
		utils.Read[Shdr](secHdrContent, &shdr)
		f.ElfSecHdrs = append(f.ElfSecHdrs, shdr)
	}

	shStrndx := uint32(f.ElfEhdr.ShStrndx)
	if shStrndx == uint32(elf.SHN_XINDEX) {
		shStrndx = f.ElfSecHdrs[0].Link
	}
	f.ShStrTab = f.GetBytesFromIdx(shStrndx)

	return f
}

func (f *ObjectFile) GetBytesFromShdr(s *Shdr) []byte {
	end := s.Offset + s.Size
	if end > uint64(len(f.File.Content)) {
		utils.Fatal("get bytes exceeds file length")
	}
	return f.File.Content[s.Offset:end]
}

func (f *ObjectFile) GetBytesFromIdx(idx uint32) []byte {
	if idx > uint32(len(f.ElfSecHdrs)) {
		utils.Fatal("read index exceeds section header table length")
	}
	return f.GetBytesFromShdr(&f.ElfSecHdrs[idx])
}

func (f *ObjectFile) FindSectionHdr(secType uint32) *Shdr {
	for i := range f.ElfSecHdrs {
		if f.ElfSecHdrs[i].Type == secType {
			return &f.ElfSecHdrs[i]
		}
	}
	return nil
}

func (f *ObjectFile) FillInElfSyms(shdr *Shdr) {
	bs := f.GetBytesFromShdr(shdr)
	nums := len(bs) / SymSize
	f.ElfSyms = make([]Sym, nums)
	for i := 0; i < nums; i++ {
		s := Sym{}
		utils.Read[Sym](bs, &s)
		f.ElfSyms[i] = s
		bs = bs[SymSize:]
	}
}

func (f *ObjectFile) ParseSymTab() {
	f.SymTabSecHdr = f.FindSectionHdr(uint32(elf.SHT_SYMTAB))
	if f.SymTabSecHdr != nil {
		f.FirstGlobal = f.SymTabSecHdr.Info
		f.FillInElfSyms(f.SymTabSecHdr)
		f.SymStrTab = f.GetBytesFromIdx(f.SymTabSecHdr.Link)
	}
}

func (f *ObjectFile) ParseSymtabShndxSec() {
	secHdr := f.FindSectionHdr(uint32(elf.SHT_SYMTAB_SHNDX))
	if secHdr != nil {
		content := f.GetBytesFromShdr(secHdr)
		f.SymtabShndxSec = utils.ReadSlice[uint32](content, 4)
	}
}

// ParseInputSections fills in InputSections, one per ELF section header
// in file order (including special sections; the teacher's commented-out
// skip list is not resurrected — every InputSection the thunk subsystem
// walks must line up 1:1 with elf section indices for Shndx lookups to
// stay valid).
func (f *ObjectFile) ParseInputSections() {
	for i := uint32(0); i < uint32(len(f.ElfSecHdrs)); i++ {
		content := f.GetBytesFromIdx(i)
		isec := NewInputSection(f, content, i)
		isec.P2Align = p2alignFromAddrAlign(f.ElfSecHdrs[i].AddrAlign)
		f.InputSections = append(f.InputSections, isec)
	}
}

func p2alignFromAddrAlign(align uint64) uint8 {
	if align <= 1 {
		return 0
	}
	var p uint8
	for align > 1 {
		align >>= 1
		p++
	}
	return p
}

// ParseSymbols fills in LocalSymbols and Symbols. Local symbols are
// private to this object file; global symbols are interned through
// resolver so that every file referencing the same name ends up sharing
// one *Symbol.
func (f *ObjectFile) ParseSymbols(resolver SymbolResolver) {
	f.LocalSymbols = make([]*Symbol, 0)
	f.Symbols = make([]*Symbol, 0)

	var i uint32
	for _, esym := range f.ElfSyms {
		if i == 0 {
			first := NewSymbol(f, "")
			f.LocalSymbols = append(f.LocalSymbols, first)
			f.Symbols = append(f.Symbols, first)
			i++
			continue
		}

		name := ElfGetName(f.SymStrTab, esym.Name)
		sym := NewSymbol(f, name)
		sym.SetValue(esym.Val)
		sym.SetSymIdx(i)
		if !esym.IsAbs() {
			shndx := esym.GetShndx(f.SymtabShndxSec, i)
			sym.SetInputSection(f.InputSections[shndx])
		}

		if i < f.FirstGlobal {
			f.LocalSymbols = append(f.LocalSymbols, sym)
			f.Symbols = append(f.Symbols, sym)
			i++
			continue
		}

		gSym := resolver.GetSymbol(name)
		f.Symbols = append(f.Symbols, gSym)
		if !esym.IsUndef() {
			*gSym = *sym
		}
		i++
	}

	f.TotalSyms = i
}

// Parse runs the full per-file parse pipeline; must be called after
// Priority has been assigned (DESIGN.md).
func (f *ObjectFile) Parse(resolver SymbolResolver) {
	f.ParseSymTab()
	f.ParseSymtabShndxSec()
	f.ParseInputSections()
	f.ParseSymbols(resolver)
	f.ParseRelocations()
}

// ParseRelocations finds every SHT_RELA section and decodes it onto the
// InputSection named by its sh_info field, so the thunk subsystem's
// scanner has something to walk (spec.md §4.2). Grounded on
// other_examples/aclements-go-obj__elfReloc.go's Rela decode loop.
func (f *ObjectFile) ParseRelocations() {
	for i := range f.ElfSecHdrs {
		shdr := &f.ElfSecHdrs[i]
		if elf.SectionType(shdr.Type) != elf.SHT_RELA {
			continue
		}
		target := shdr.Info
		if target >= uint32(len(f.InputSections)) {
			continue
		}
		isec := f.InputSections[target]

		content := f.GetBytesFromShdr(shdr)
		const relaSize = 24
		n := len(content) / relaSize
		isec.Rels = make([]Reloc, 0, n)
		for content2 := content; len(content2) >= relaSize; content2 = content2[relaSize:] {
			var r elfRela
			utils.Read[elfRela](content2, &r)
			isec.Rels = append(isec.Rels, Reloc{
				Offset: r.Offset,
				Type:   r.relType(),
				Sym:    r.symIdx(),
				Addend: r.Addend,
			})
		}
	}
}

// MarkLiveObjects walks this (already-live) file's undefined global
// references, marking any not-yet-live defining file as live and
// returning it appended to roots, so the caller's worklist keeps growing
// until it empties (kept verbatim from the teacher).
func (f *ObjectFile) MarkLiveObjects(roots []*ObjectFile) []*ObjectFile {
	for i := f.FirstGlobal; i < f.TotalSyms; i++ {
		esym := f.ElfSyms[i]
		sym := f.Symbols[i]
		if sym.File == nil {
			continue
		}
		if esym.IsUndef() && !sym.File.IsAlive {
			sym.File.IsAlive = true
			roots = append(roots, sym.File)
		}
	}
	return roots
}

// ClearUnusedGlobalSymbols removes this (dead) file's globals from the
// shared symbol map so later lookups don't resolve to a discarded
// definition.
func (f *ObjectFile) ClearUnusedGlobalSymbols(clear func(name string)) {
	for i := f.FirstGlobal; i < f.TotalSyms; i++ {
		clear(f.Symbols[i].Name)
	}
}

func (f *ObjectFile) GetEhdr() *Ehdr {
	return &f.ElfEhdr
}
