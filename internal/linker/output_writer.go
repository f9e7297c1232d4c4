package linker

import "github.com/relinkd/rangelink/internal/obj"

type Shdr = obj.Shdr

// OutputWriter is the embeddable base every OutputSection starts from,
// carrying the section header fields the layout/binning passes fill in.
type OutputWriter struct {
	Name string
	Shdr Shdr
}

func NewOutputWriter() *OutputWriter {
	return &OutputWriter{
		Shdr: Shdr{AddrAlign: 1},
	}
}
