package obj

import (
	"bytes"

	"github.com/relinkd/rangelink/internal/utils"
)

func MustHaveMagic(content []byte) {
	if !bytes.HasPrefix(content, []byte("\177ELF")) {
		utils.Fatal("invalid magic number")
	}
}

func CheckMagic(content []byte) bool {
	return bytes.HasPrefix(content, []byte("\177ELF"))
}

// WriteMagic stamps the 4-byte ELF magic number into the start of dst,
// which must be at least 4 bytes (the e_ident array of an Ehdr).
func WriteMagic(dst []byte) {
	copy(dst, []byte("\177ELF"))
}
