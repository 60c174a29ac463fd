package linker

import (
	"errors"
	"testing"
)

func TestMarkLiveObjectsTransitive(t *testing.T) {
	ctx := newTestContext(t, "main")
	// c is listed before the module that needs it, and d is dead.
	ctx.Objs = []*ObjectFile{
		newTestObject(t, "c.o", words(0), nil, []Sym{def("leaf", SectionText, 0)}, nil),
		newTestObject(t, "d.o", words(0), nil, []Sym{def("unused", SectionText, 0)}, []Rel{abs(0, "leaf")}),
		newTestObject(t, "a.o", words(0, 0), nil,
			[]Sym{def("main", SectionText, 0), undef("mid")}, []Rel{rel26(4, "mid")}),
		newTestObject(t, "b.o", words(0), nil,
			[]Sym{def("mid", SectionText, 0), undef("leaf")}, []Rel{abs(0, "leaf")}),
	}

	MarkLiveObjects(ctx)

	if got, want := objNames(ctx.Objs), []string{"c.o", "a.o", "b.o"}; !equalStrings(got, want) {
		t.Errorf("live modules = %v, want %v", got, want)
	}
	for _, name := range []string{"main", "mid", "leaf"} {
		if !ctx.NeededSymbols.Contains(name) {
			t.Errorf("%q should be needed", name)
		}
	}
	if ctx.NeededSymbols.Contains("unused") {
		t.Error("symbol of a dead module must not become needed")
	}
	if ctx.NeededSymbols.Len() != 3 {
		t.Errorf("needed set has %d names, want 3", ctx.NeededSymbols.Len())
	}
}

func TestMarkLiveObjectsClosure(t *testing.T) {
	ctx := newTestContext(t, "start")
	ctx.Objs = []*ObjectFile{
		newTestObject(t, "x.o", words(0, 0), nil,
			[]Sym{def("x", SectionText, 0)}, []Rel{abs(0, "y"), abs(4, "z")}),
		newTestObject(t, "y.o", words(0), nil,
			[]Sym{def("y", SectionText, 0)}, []Rel{abs(0, "x")}),
		newTestObject(t, "s.o", words(0), nil,
			[]Sym{def("start", SectionText, 0)}, []Rel{abs(0, "y")}),
		newTestObject(t, "z.o", nil, words(0), []Sym{def("z", SectionData, 0)}, nil),
	}

	MarkLiveObjects(ctx)

	if len(ctx.Objs) != 4 {
		t.Fatalf("live modules = %v, want all four", objNames(ctx.Objs))
	}
	for _, obj := range ctx.Objs {
		for _, rel := range obj.Rels {
			if !ctx.NeededSymbols.Contains(rel.SymName) {
				t.Errorf("%s: relocation target %q not needed", obj.Name(), rel.SymName)
			}
		}
	}
}

func TestMarkLiveObjectsMissingEntry(t *testing.T) {
	ctx := newTestContext(t, "")
	ctx.Objs = []*ObjectFile{
		newTestObject(t, "a.o", words(0), nil, []Sym{def("main", SectionText, 0)}, nil),
	}

	err := LinkObjects(ctx)
	if !errors.Is(err, ErrUndefinedSymbol) {
		t.Fatalf("err = %v, want ErrUndefinedSymbol", err)
	}
	if len(ctx.Objs) != 0 {
		t.Errorf("nothing should survive without an entry, got %v", objNames(ctx.Objs))
	}
	if ctx.Stage != StageSelected {
		t.Errorf("stage = %v, want %v", ctx.Stage, StageSelected)
	}
}

func TestAssignAddressesTiles(t *testing.T) {
	ctx := newTestContext(t, "a")
	ctx.Objs = []*ObjectFile{
		newTestObject(t, "a.o", make([]byte, 12), make([]byte, 3),
			[]Sym{def("a", SectionText, 0)}, []Rel{abs(0, "b"), abs(4, "c")}),
		newTestObject(t, "dead.o", make([]byte, 100), make([]byte, 100), []Sym{def("dead", SectionText, 0)}, nil),
		newTestObject(t, "b.o", make([]byte, 8), nil, []Sym{def("b", SectionText, 4)}, nil),
		newTestObject(t, "c.o", nil, make([]byte, 5), []Sym{def("c", SectionData, 2)}, nil),
	}

	if err := LinkObjects(ctx); err != nil {
		t.Fatal(err)
	}

	if ctx.TextSize != 20 || ctx.DataSize != 8 {
		t.Fatalf("sizes = %d/%d, want 20/8", ctx.TextSize, ctx.DataSize)
	}

	textAddr, dataAddr := uint64(0), uint64(ctx.TextSize)
	for _, obj := range ctx.Objs {
		if uint64(obj.TextBase) != textAddr {
			t.Errorf("%s: text base %d, want %d", obj.Name(), obj.TextBase, textAddr)
		}
		if uint64(obj.DataBase) != dataAddr {
			t.Errorf("%s: data base %d, want %d", obj.Name(), obj.DataBase, dataAddr)
		}
		textAddr = obj.TextEnd()
		dataAddr = obj.DataEnd()
	}
	if textAddr != uint64(ctx.TextSize) || dataAddr != uint64(ctx.TextSize)+uint64(ctx.DataSize) {
		t.Errorf("ranges end at %d/%d", textAddr, dataAddr)
	}

	tests := []struct {
		name string
		addr uint32
	}{
		{"a", 0},
		{"b", 12 + 4},
		{"c", 20 + 3 + 2},
	}
	for _, tt := range tests {
		sym := GetSymbolByName(ctx, tt.name)
		if sym == nil {
			t.Errorf("%q not defined", tt.name)
			continue
		}
		if sym.GetAddr() != tt.addr {
			t.Errorf("%q = %d, want %d", tt.name, sym.GetAddr(), tt.addr)
		}
	}
	if len(ctx.Buf) != 28 {
		t.Errorf("image is %d bytes, want 28", len(ctx.Buf))
	}
}

func TestDefineSymbolsOnlyNeeded(t *testing.T) {
	ctx := newTestContext(t, "main")
	ctx.Objs = []*ObjectFile{
		newTestObject(t, "a.o", words(0), nil,
			[]Sym{def("main", SectionText, 0), def("helper", SectionText, 0)}, []Rel{abs(0, "other")}),
		newTestObject(t, "b.o", words(0), nil,
			[]Sym{def("helper", SectionText, 0), def("other", SectionText, 0)}, []Rel{abs(0, "main")}),
	}

	if err := LinkObjects(ctx); err != nil {
		t.Fatalf("unneeded duplicate must not fail the link: %v", err)
	}
	if GetSymbolByName(ctx, "helper") != nil {
		t.Error("unneeded symbol must not be published")
	}
	if len(ctx.SymbolMap) != 2 {
		t.Errorf("symbol table has %d entries, want 2", len(ctx.SymbolMap))
	}
}

func TestDuplicateSymbol(t *testing.T) {
	mk := func() []*ObjectFile {
		return []*ObjectFile{
			newTestObject(t, "a.o", words(0), nil,
				[]Sym{def("main", SectionText, 0)}, []Rel{abs(0, "dup")}),
			newTestObject(t, "b.o", words(0), nil, []Sym{def("dup", SectionText, 0)}, nil),
			newTestObject(t, "c.o", nil, words(0), []Sym{def("dup", SectionData, 0)}, nil),
		}
	}

	for _, reverse := range []bool{false, true} {
		ctx := newTestContext(t, "main")
		objs := mk()
		if reverse {
			for i, j := 0, len(objs)-1; i < j; i, j = i+1, j-1 {
				objs[i], objs[j] = objs[j], objs[i]
			}
		}
		ctx.Objs = objs

		err := LinkObjects(ctx)
		if !errors.Is(err, ErrDuplicateSymbol) {
			t.Errorf("reverse=%v: err = %v, want ErrDuplicateSymbol", reverse, err)
		}
		if ctx.Buf != nil {
			t.Errorf("reverse=%v: image must not be produced", reverse)
		}
	}
}

func TestUndefinedSymbol(t *testing.T) {
	ctx := newTestContext(t, "main")
	ctx.Objs = []*ObjectFile{
		newTestObject(t, "a.o", words(0, 0), nil,
			[]Sym{def("main", SectionText, 0), undef("missing")}, []Rel{abs(0, "missing")}),
	}

	err := LinkObjects(ctx)
	if !errors.Is(err, ErrUndefinedSymbol) {
		t.Fatalf("err = %v, want ErrUndefinedSymbol", err)
	}
	if ctx.Stage != StageSelected {
		t.Errorf("stage = %v, want %v", ctx.Stage, StageSelected)
	}
}

func TestApplyRelocationsUnresolved(t *testing.T) {
	ctx := newTestContext(t, "main")
	obj := newTestObject(t, "a.o", words(0), nil, []Sym{def("main", SectionText, 0)}, []Rel{abs(0, "ghost")})
	obj.SetBase(SectionText, 0)
	obj.SetBase(SectionData, 4)
	ctx.Objs = []*ObjectFile{obj}

	if err := ApplyRelocations(ctx); !errors.Is(err, ErrUndefinedSymbol) {
		t.Fatalf("err = %v, want ErrUndefinedSymbol", err)
	}
}
