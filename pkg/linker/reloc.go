package linker

import "github.com/ksco/flatld/pkg/utils"

// Rel asks for the word at Offset in the owning module's text to be
// rewritten once SymName has an address.
type Rel struct {
	Offset  uint32
	SymName string
	Type    RelType
}

func writeAbs(loc []byte, val uint32) {
	utils.Write[uint32](loc, val)
}

// writeRel26 keeps the opcode bits and stores val truncated to 26 bits.
// Displacements that do not fit wrap silently.
func writeRel26(loc []byte, val uint32) {
	utils.Write[uint32](loc, (utils.Read[uint32](loc)&RelOpcodeMask)|(val&RelShortMask))
}

// rel26Displacement decodes the signed displacement currently stored in a
// RelativeShort word.
func rel26Displacement(word uint32) int32 {
	return int32(utils.SignExtend(uint64(utils.Bits(word, RelShortBits-1, 0)), RelShortBits-1))
}
