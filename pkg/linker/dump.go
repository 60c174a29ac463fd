package linker

import (
	"encoding/hex"
	"fmt"
	"io"

	"github.com/ksco/flatld/pkg/utils"
)

// DumpObjectFile writes a listing of a parsed module: header, section
// contents, symbols and relocations.
func DumpObjectFile(w io.Writer, o *ObjectFile) error {
	ew := &errWriter{w: w}

	ew.printf("== %s ==\n", o.Name())
	ew.printf("Header: text=%d bytes, data=%d bytes, symbols=%d, relocs=%d\n",
		len(o.Text), len(o.Data), len(o.Syms), len(o.Rels))

	section := func(name string, contents []byte) {
		if len(contents) == 0 {
			return
		}
		ew.printf("\n%s (%d bytes)\n", name, len(contents))
		ew.printf("%s", hex.Dump(contents))
	}
	section(".text", o.Text)
	section(".data", o.Data)

	if len(o.Syms) > 0 {
		ew.printf("\nSymbols:\n")
		for i, sym := range o.Syms {
			ew.printf("  [%02d] %-20s type=%-5s section=%-4s offset=0x%x\n",
				i, sym.Name, sym.Type, sym.Section, sym.Offset)
		}
	}

	if len(o.Rels) > 0 {
		ew.printf("\nRelocations:\n")
		for i, rel := range o.Rels {
			ew.printf("  [%02d] offset=0x%x type=%-5s symbol=%s", i, rel.Offset, rel.Type, rel.SymName)
			if rel.Type == RelRelativeShort && uint64(rel.Offset)+PatchWidth <= uint64(len(o.Text)) {
				word := utils.Read[uint32](o.Text[rel.Offset:])
				ew.printf(" opcode=0x%02x disp=%d", word>>RelShortBits, rel26Displacement(word))
			}
			ew.printf("\n")
		}
	}
	ew.printf("\n")

	return ew.err
}

type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}
