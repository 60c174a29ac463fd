package linker

import (
	"encoding/binary"
	"testing"

	"go.uber.org/zap/zaptest"
)

func newTestContext(t *testing.T, entry string) *Context {
	t.Helper()
	ctx := NewContext()
	ctx.Logger = zaptest.NewLogger(t)
	if entry != "" {
		ctx.Arg.Entry = entry
	}
	return ctx
}

func def(name string, sec SectionIndex, off uint32) Sym {
	return Sym{Name: name, Type: SymbolDefined, Section: sec, Offset: off}
}

func undef(name string) Sym {
	return Sym{Name: name, Type: SymbolUndefined}
}

func abs(off uint32, name string) Rel {
	return Rel{Offset: off, SymName: name, Type: RelAbsolute}
}

func rel26(off uint32, name string) Rel {
	return Rel{Offset: off, SymName: name, Type: RelRelativeShort}
}

// newTestObject round-trips a module through the encoder and the parser.
func newTestObject(t *testing.T, name string, text, data []byte, syms []Sym, rels []Rel) *ObjectFile {
	t.Helper()
	obj := NewObjectFile(&File{Name: name, Contents: EncodeObjectFile(text, data, syms, rels)})
	if err := obj.Parse(); err != nil {
		t.Fatalf("parse %s: %v", name, err)
	}
	return obj
}

func words(ws ...uint32) []byte {
	buf := make([]byte, 4*len(ws))
	for i, w := range ws {
		binary.LittleEndian.PutUint32(buf[4*i:], w)
	}
	return buf
}

func wordAt(buf []byte, off int) uint32 {
	return binary.LittleEndian.Uint32(buf[off:])
}

func objNames(objs []*ObjectFile) []string {
	names := make([]string, 0, len(objs))
	for _, o := range objs {
		names = append(names, o.Name())
	}
	return names
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
