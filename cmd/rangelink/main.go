// Command rangelink reads relocatable ELF objects for ARM64, ARM32, PPC64
// or RISC-V64, runs the liveness, section-binning and range-extension
// thunk passes over them, and reports object, symbol and thunk counts on
// stderr. It writes no output file (-o is recorded but not used), and it
// creates no output sections, so no input section is binned and the
// thunk pass has nothing to sweep.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/xyproto/env/v2"

	"github.com/relinkd/rangelink/internal/linker"
	"github.com/relinkd/rangelink/internal/obj"
	"github.com/relinkd/rangelink/internal/target"
	"github.com/relinkd/rangelink/internal/utils"
)

var version string

// functions handle errs themselves
func main() {
	output := flag.String("o", "a.out", "output file name")
	archName := flag.String("arch", "", "target architecture: arm64, arm32, ppc64, riscv64 (auto-detected from the first input if omitted)")
	batchDivisor := flag.Int64("batch-divisor", int64(env.Int("RANGELINK_BATCH_DIVISOR", target.DefaultBatchDivisor)),
		"divisor of max branch distance used as the thunk batch size (SPEC_FULL.md 3.2)")
	maxThunkSize := flag.Int64("max-thunk-size", int64(env.Int("RANGELINK_MAX_THUNK_SIZE", 0)),
		"override the per-ISA max thunk size in bytes; 0 keeps the ISA default")
	flag.Parse()

	remaining := flag.Args()
	if len(remaining) == 0 {
		utils.Fatal("no input files")
	}

	pol := resolveTarget(*archName, remaining)
	ctx := linker.NewContext(pol)
	ctx.Args.Output = *output
	ctx.Args.Inputs = remaining
	ctx.Args.BatchDivisor = *batchDivisor
	ctx.Args.MaxThunkSize = *maxThunkSize

	fillInObjFiles(ctx, remaining)

	fmt.Fprintln(os.Stderr, "object files:", len(ctx.ObjFiles))

	linker.MarkLiveObjects(ctx)
	fmt.Fprintln(os.Stderr, "symbol count", len(ctx.SymbolMap))
	linker.ClearSymbolsAndFiles(ctx)
	fmt.Fprintln(os.Stderr, "object files (live):", len(ctx.ObjFiles))
	fmt.Fprintln(os.Stderr, "symbol count (live)", len(ctx.SymbolMap))

	linker.BinSections(ctx)

	if err := linker.CreateRangeExtensionThunks(ctx); err != nil {
		utils.Fatal(err)
	}
	fmt.Fprintln(os.Stderr, "thunks created:", len(ctx.Thunks))

	os.Exit(0)
}

// resolveTarget honors an explicit -arch flag, falling back to sniffing
// the first recognizable object file's ELF machine field (kept&adapted
// from the teacher's main loop, which did the same for its one
// supported machine type).
func resolveTarget(archName string, inputs []string) target.Policy {
	if archName != "" {
		pol := target.ByName(archName)
		if pol == nil {
			utils.Fatal(fmt.Sprintf("unknown -arch %q", archName))
		}
		return pol
	}

	for _, filename := range inputs {
		if strings.HasPrefix(filename, "-") {
			continue
		}
		file := obj.NewFileNoFatal(filename)
		if file == nil {
			continue
		}
		if name := obj.DetectArch(file.Content); name != "" {
			return target.ByName(name)
		}
	}

	utils.Fatal("could not determine target architecture; pass -arch explicitly")
	return nil
}

// fillInObjFiles parses every input path into ctx.ObjFiles, in
// command-line order, stamping each one's Priority so the thunk
// subsystem's deterministic symbol sort has something to key off
// (SPEC_FULL.md 6, original_source/elf/thunks.cc's file->priority).
func fillInObjFiles(ctx *linker.Context, inputs []string) {
	priority := 1
	for _, filename := range inputs {
		if strings.HasPrefix(filename, "-") {
			continue
		}
		file := obj.NewFile(filename)
		f := obj.NewObjectFile(file, true)
		f.Priority = priority
		priority++
		f.Parse(ctx)
		ctx.ObjFiles = append(ctx.ObjFiles, f)
	}
}
