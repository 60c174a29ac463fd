package linker

import (
	"fmt"
	"math"

	"github.com/ksco/flatld/pkg/utils"
	"go.uber.org/zap"
)

// ObjectFile is one loaded LNK1 module.
type ObjectFile struct {
	File *File
	Hdr  Hdr

	Text []byte
	Data []byte

	Syms []Sym
	Rels []Rel

	TextBase   uint32
	DataBase   uint32
	textPlaced bool
	dataPlaced bool

	IsAlive bool
}

func NewObjectFile(file *File) *ObjectFile {
	return &ObjectFile{File: file}
}

// Name identifies the module in diagnostics. Archive members are shown as
// "archive(member)".
func (o *ObjectFile) Name() string {
	if o.File == nil {
		return "<internal>"
	}
	if o.File.Parent != nil {
		return o.File.Parent.Name + "(" + o.File.Name + ")"
	}
	return o.File.Name
}

func (o *ObjectFile) Parse() error {
	contents := o.File.Contents
	if len(contents) < HdrSize {
		return malformed(o.Name(), "file too small")
	}
	if !CheckMagic(contents) {
		return malformed(o.Name(), "invalid magic number")
	}

	o.Hdr = utils.Read[Hdr](contents)

	// Counts come straight from the file; size everything in uint64 so a
	// hostile header cannot wrap the bounds check.
	need := uint64(HdrSize) +
		uint64(o.Hdr.TextSize) + uint64(o.Hdr.DataSize) +
		uint64(o.Hdr.SymCount)*uint64(SymEntrySize) +
		uint64(o.Hdr.RelaCount)*uint64(RelEntrySize)
	if need > uint64(len(contents)) {
		return malformed(o.Name(), "truncated: header declares %d bytes, file has %d", need, len(contents))
	}

	pos := HdrSize
	take := func(n int) []byte {
		bs := contents[pos : pos+n]
		pos += n
		return bs
	}

	// The file contents may be a read-only mapping; text is patched later.
	o.Text = append([]byte{}, take(int(o.Hdr.TextSize))...)
	o.Data = append([]byte{}, take(int(o.Hdr.DataSize))...)

	o.Syms = make([]Sym, 0, o.Hdr.SymCount)
	for i := uint32(0); i < o.Hdr.SymCount; i++ {
		esym := utils.Read[SymEntry](take(SymEntrySize))
		sym := Sym{
			Name:    getName(esym.Name[:]),
			Type:    SymbolType(esym.Type),
			Section: SectionIndex(esym.Section),
			Offset:  esym.Offset,
		}
		switch sym.Type {
		case SymbolDefined:
			if sym.Section != SectionText && sym.Section != SectionData {
				return malformed(o.Name(), "symbol %q: unknown section %d", sym.Name, esym.Section)
			}
		case SymbolUndefined:
		default:
			return malformed(o.Name(), "symbol %q: unknown type %d", sym.Name, esym.Type)
		}
		o.Syms = append(o.Syms, sym)
	}

	o.Rels = make([]Rel, 0, o.Hdr.RelaCount)
	for i := uint32(0); i < o.Hdr.RelaCount; i++ {
		erel := utils.Read[RelEntry](take(RelEntrySize))
		rel := Rel{
			Offset:  erel.Offset,
			SymName: getName(erel.SymName[:]),
			Type:    RelType(erel.Type),
		}
		if rel.Type != RelAbsolute && rel.Type != RelRelativeShort {
			return malformed(o.Name(), "relocation against %q: unknown type %d", rel.SymName, erel.Type)
		}
		o.Rels = append(o.Rels, rel)
	}

	return nil
}

// DefinesAny reports whether o defines a name in the needed set.
func (o *ObjectFile) DefinesAny(needed utils.MapSet[string]) bool {
	for i := range o.Syms {
		if o.Syms[i].IsDefined() && needed.Contains(o.Syms[i].Name) {
			return true
		}
	}
	return false
}

// MarkNeededSymbols adds every relocation target of o to the needed set
// and reports whether the set grew.
func (o *ObjectFile) MarkNeededSymbols(needed utils.MapSet[string]) bool {
	utils.Assert(o.IsAlive)

	changed := false
	for i := range o.Rels {
		if needed.TryAdd(o.Rels[i].SymName) {
			changed = true
		}
	}
	return changed
}

func (o *ObjectFile) Contents(sec SectionIndex) []byte {
	if sec == SectionData {
		return o.Data
	}
	return o.Text
}

// SetBase records where a section of o lands in the image. Each base is
// written exactly once.
func (o *ObjectFile) SetBase(sec SectionIndex, addr uint32) {
	switch sec {
	case SectionText:
		utils.Assert(!o.textPlaced)
		o.TextBase, o.textPlaced = addr, true
	case SectionData:
		utils.Assert(!o.dataPlaced)
		o.DataBase, o.dataPlaced = addr, true
	default:
		utils.Fatal("unreachable")
	}
}

func (o *ObjectFile) GetBase(sec SectionIndex) uint32 {
	if sec == SectionData {
		return o.DataBase
	}
	return o.TextBase
}

func (o *ObjectFile) IsPlaced() bool {
	return o.textPlaced && o.dataPlaced
}

func (o *ObjectFile) GetSymAddr(sym *Sym) uint32 {
	utils.Assert(o.IsPlaced() && sym.IsDefined())
	return o.GetBase(sym.Section) + sym.Offset
}

// ResolveSymbols publishes o's needed definitions into the global table.
func (o *ObjectFile) ResolveSymbols(ctx *Context) error {
	for i := range o.Syms {
		esym := &o.Syms[i]
		if !esym.IsDefined() || !ctx.NeededSymbols.Contains(esym.Name) {
			continue
		}

		if prev, ok := ctx.SymbolMap[esym.Name]; ok {
			return fmt.Errorf("%w: '%s' in %s and %s",
				ErrDuplicateSymbol, esym.Name, prev.File.Name(), o.Name())
		}

		sym := NewSymbol(esym.Name)
		sym.File = o
		sym.Value = o.GetSymAddr(esym)
		ctx.SymbolMap[esym.Name] = sym

		ctx.Logger.Debug("define symbol",
			zap.String("symbol", sym.Name),
			zap.String("module", o.Name()),
			zap.Stringer("section", esym.Section),
			zap.Uint32("addr", sym.Value))
	}
	return nil
}

func (o *ObjectFile) ApplyRelocations(ctx *Context) error {
	for i := range o.Rels {
		rel := &o.Rels[i]

		sym := GetSymbolByName(ctx, rel.SymName)
		if sym == nil {
			return fmt.Errorf("%w: '%s' referenced in %s", ErrUndefinedSymbol, rel.SymName, o.Name())
		}

		if uint64(rel.Offset)+PatchWidth > uint64(len(o.Text)) {
			return fmt.Errorf("%w: offset %d in %s (text size %d)",
				ErrRelocationOutOfBounds, rel.Offset, o.Name(), len(o.Text))
		}

		loc := o.Text[rel.Offset : rel.Offset+PatchWidth]
		S := sym.GetAddr()
		P := o.TextBase + rel.Offset

		switch rel.Type {
		case RelAbsolute:
			writeAbs(loc, S)
		case RelRelativeShort:
			writeRel26(loc, S-P)
		default:
			utils.Fatal("unreachable")
		}
	}
	return nil
}

func (o *ObjectFile) TextEnd() uint64 {
	return uint64(o.TextBase) + uint64(len(o.Text))
}

func (o *ObjectFile) DataEnd() uint64 {
	return uint64(o.DataBase) + uint64(len(o.Data))
}

func imageFits(size uint64) bool {
	return size <= math.MaxUint32
}
