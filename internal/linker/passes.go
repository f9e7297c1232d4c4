package linker

import (
	"github.com/relinkd/rangelink/internal/obj"
	"github.com/relinkd/rangelink/internal/thunk"
)

// MarkLiveObjects grows ctx.ObjFiles' live set from its initial roots
// (object files passed directly on the command line) by following
// undefined-symbol references until no more files are newly pulled in
// (kept verbatim from the teacher's passes.go).
func MarkLiveObjects(ctx *Context) {
	roots := make([]*obj.ObjectFile, 0)
	for _, file := range ctx.ObjFiles {
		if file.IsAlive {
			roots = append(roots, file)
		}
	}
	for len(roots) > 0 {
		roots = roots[0].MarkLiveObjects(roots)
		roots = roots[1:]
	}
}

func ClearSymbolsAndFiles(ctx *Context) {
	ClearUnusedGlobalSymbols(ctx)
	ClearUnusedFiles(ctx)
}

func ClearUnusedGlobalSymbols(ctx *Context) {
	for _, file := range ctx.ObjFiles {
		if !file.IsAlive {
			file.ClearUnusedGlobalSymbols(func(name string) {
				delete(ctx.SymbolMap, name)
			})
		}
	}
}

func ClearUnusedFiles(ctx *Context) {
	i := 0
	for _, file := range ctx.ObjFiles {
		if file.IsAlive {
			ctx.ObjFiles[i] = file
			i++
		}
	}
	ctx.ObjFiles = ctx.ObjFiles[:i]
}

// BinSections groups every live input section into its assigned
// OutputSection (grounded on other_examples' BinSections in the rvld
// family's passes.go, generalized here to read obj.InputSection's
// OutputSectionIdx rather than a live pointer).
func BinSections(ctx *Context) {
	group := make([][]*obj.InputSection, len(ctx.OutputSections))
	for _, file := range ctx.ObjFiles {
		for _, isec := range file.InputSections {
			if isec.OutputSectionIdx == obj.NoOutputSection {
				continue
			}
			group[isec.OutputSectionIdx] = append(group[isec.OutputSectionIdx], isec)
		}
	}

	for i, osec := range ctx.OutputSections {
		osec.InputSections = group[i]
		for _, isec := range osec.InputSections {
			isec.OutputSectionIdx = int32(i)
		}
	}
}

// CreateRangeExtensionThunks runs the core deliverable of this linker:
// the range-extension thunk synthesis sweep (spec.md §4-5), once for
// every output section in ctx.OutputSections. Must run after
// BinSections; the sweep itself assigns every InputSection.Offset as it
// goes, and the oracle treats a section it has not placed yet as out of
// range (spec.md §4.1).
func CreateRangeExtensionThunks(ctx *Context) error {
	pol := ctx.Policy()
	for _, osec := range ctx.OutputSections {
		osec.Target = pol
		thunks, size, err := thunk.CreateRangeExtensionThunks(pol, osec.InputSections)
		osec.Thunks = thunks
		ctx.Thunks = append(ctx.Thunks, thunks...)
		if err != nil {
			return err
		}
		osec.Shdr.Size = uint64(size)
	}
	return nil
}
