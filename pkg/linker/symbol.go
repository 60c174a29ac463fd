package linker

// Sym is one entry of a module's symbol table.
type Sym struct {
	Name    string
	Type    SymbolType
	Section SectionIndex
	Offset  uint32
}

func (s *Sym) IsDefined() bool {
	return s.Type == SymbolDefined
}

func (s *Sym) IsUndef() bool {
	return s.Type == SymbolUndefined
}

// Symbol is an entry of the global symbol table.
type Symbol struct {
	File *ObjectFile

	Name  string
	Value uint32
}

func NewSymbol(name string) *Symbol {
	return &Symbol{Name: name}
}

func GetSymbolByName(ctx *Context, name string) *Symbol {
	return ctx.SymbolMap[name]
}

func (s *Symbol) GetAddr() uint32 {
	return s.Value
}
