package linker

import (
	"github.com/ksco/flatld/pkg/utils"
	"go.uber.org/zap"
)

type ContextArg struct {
	Output string
	Entry  string

	LibraryPaths []string
}

// Context holds all mutable state of one link invocation.
type Context struct {
	Arg    ContextArg
	Logger *zap.Logger

	Stage Stage

	Objs    []*ObjectFile
	Visited utils.MapSet[string]

	NeededSymbols utils.MapSet[string]
	SymbolMap     map[string]*Symbol

	Chunks   []Chunker
	TextSize uint32
	DataSize uint32

	Buf []byte
}

func NewContext() *Context {
	return &Context{
		Arg: ContextArg{
			Output: "a.out",
			Entry:  DefaultEntryName,
		},
		Logger:        zap.NewNop(),
		Visited:       utils.NewMapSet[string](),
		NeededSymbols: utils.NewMapSet[string](),
		SymbolMap:     make(map[string]*Symbol),
	}
}
