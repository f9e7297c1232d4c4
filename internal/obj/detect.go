package obj

import (
	"debug/elf"

	"github.com/relinkd/rangelink/internal/utils"
)

// DetectArch sniffs the ELF machine field out of an object file's raw
// bytes and returns the target.ByName-compatible architecture name, or ""
// if content isn't a recognized relocatable object file. Kept&adapted
// from the teacher's machine_type.go, which only ever recognized
// elf.EM_RISCV; generalized to the four architectures this subsystem
// supports.
func DetectArch(content []byte) string {
	if GetFileTypeFromContent(content) != FileTypeObject {
		return ""
	}

	var machineType uint16
	utils.Read[uint16](content[18:], &machineType)

	switch elf.Machine(machineType) {
	case elf.EM_RISCV:
		if content[4] == byte(elf.ELFCLASS64) {
			return "riscv64"
		}
	case elf.EM_AARCH64:
		return "arm64"
	case elf.EM_ARM:
		return "arm32"
	case elf.EM_PPC64:
		return "ppc64"
	}
	return ""
}
