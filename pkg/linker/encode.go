package linker

import (
	"bytes"
	"encoding/binary"

	"github.com/ksco/flatld/pkg/utils"
)

// EncodeObjectFile serializes a module in the LNK1 format. Names longer
// than NameLen bytes are truncated.
func EncodeObjectFile(text, data []byte, syms []Sym, rels []Rel) []byte {
	size := HdrSize + len(text) + len(data) + len(syms)*SymEntrySize + len(rels)*RelEntrySize
	buf := bytes.NewBuffer(make([]byte, 0, size))

	put := func(v any) {
		utils.MustNo(binary.Write(buf, binary.LittleEndian, v))
	}

	put(&Hdr{
		Magic:     Magic,
		TextSize:  uint32(len(text)),
		DataSize:  uint32(len(data)),
		SymCount:  uint32(len(syms)),
		RelaCount: uint32(len(rels)),
	})
	buf.Write(text)
	buf.Write(data)

	for _, sym := range syms {
		esym := SymEntry{
			Type:    uint32(sym.Type),
			Section: uint32(sym.Section),
			Offset:  sym.Offset,
		}
		putName(&esym.Name, sym.Name)
		put(&esym)
	}

	for _, rel := range rels {
		erel := RelEntry{
			Offset: rel.Offset,
			Type:   uint32(rel.Type),
		}
		putName(&erel.SymName, rel.SymName)
		put(&erel)
	}

	utils.Assert(buf.Len() == size)
	return buf.Bytes()
}
