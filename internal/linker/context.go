package linker

import (
	"github.com/relinkd/rangelink/internal/obj"
	"github.com/relinkd/rangelink/internal/target"
	"github.com/relinkd/rangelink/internal/thunk"
)

// Args holds the command-line-derived inputs to a link (kept&adapted
// from the teacher's Args, which carried only Output).
type Args struct {
	Output       string
	Inputs       []string
	BatchDivisor int64
	MaxThunkSize int64
}

// Context is the linker's single shared mutable state, threaded through
// every pass by pointer the way the teacher's Context is (spec.md §7:
// passes run in sequence, each one completing before the next starts;
// only the relocation-scan/thunk-creation passes fan out goroutines
// internally). It also implements obj.SymbolResolver so ObjectFile.Parse
// can intern global symbols without obj importing this package.
type Context struct {
	Args Args

	Target target.Policy

	ObjFiles  []*obj.ObjectFile
	SymbolMap map[string]*obj.Symbol

	OutputSections []*OutputSection

	// Thunks accumulates every range-extension thunk synthesized across
	// all output sections during CreateRangeExtensionThunks, in the
	// order they were frozen (spec.md §4.3, §5).
	Thunks []*thunk.Thunk
}

func NewContext(pol target.Policy) *Context {
	return &Context{
		Args: Args{
			Output:       "a.out",
			BatchDivisor: target.DefaultBatchDivisor,
		},
		Target:    pol,
		SymbolMap: make(map[string]*obj.Symbol),
	}
}

// GetSymbol interns name into the shared global symbol table, creating a
// fresh undefined Symbol the first time it's seen (kept verbatim from
// the teacher's ctx.GetSymbol, generalized to return *obj.Symbol).
func (ctx *Context) GetSymbol(name string) *obj.Symbol {
	if sym, ok := ctx.SymbolMap[name]; ok {
		return sym
	}
	sym := obj.NewSymbol(nil, name)
	ctx.SymbolMap[name] = sym
	return sym
}

// Policy returns the tunable target.Policy this context links against,
// folding in any CLI/env overrides to batch size and max thunk size
// (spec.md §3.2).
func (ctx *Context) Policy() target.Policy {
	if ctx.Args.BatchDivisor == 0 && ctx.Args.MaxThunkSize == 0 {
		return ctx.Target
	}
	return target.NewTunable(ctx.Target, ctx.Args.BatchDivisor, ctx.Args.MaxThunkSize)
}
