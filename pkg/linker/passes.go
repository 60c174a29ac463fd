package linker

import (
	"fmt"
	"sort"

	"github.com/ksco/flatld/pkg/utils"
	"go.uber.org/zap"
)

// MarkLiveObjects keeps only the modules reachable from the entry symbol.
// Activation and demand passes alternate until neither changes anything,
// so the result does not depend on input order. Surviving modules keep
// their relative order.
func MarkLiveObjects(ctx *Context) {
	ctx.NeededSymbols.Add(ctx.Arg.Entry)

	for _, file := range ctx.Objs {
		file.IsAlive = false
	}

	rounds := 0
	for changed := true; changed; rounds++ {
		changed = false

		for _, file := range ctx.Objs {
			if !file.IsAlive && file.DefinesAny(ctx.NeededSymbols) {
				file.IsAlive = true
				changed = true
			}
		}

		for _, file := range ctx.Objs {
			if file.IsAlive && file.MarkNeededSymbols(ctx.NeededSymbols) {
				changed = true
			}
		}
	}

	ctx.Objs = utils.RemoveIf[*ObjectFile](ctx.Objs, func(file *ObjectFile) bool {
		if !file.IsAlive {
			ctx.Logger.Debug("drop unreachable module", zap.String("module", file.Name()))
		}
		return !file.IsAlive
	})

	ctx.Logger.Debug("reachability done",
		zap.Int("rounds", rounds),
		zap.Int("modules", len(ctx.Objs)),
		zap.Int("needed", ctx.NeededSymbols.Len()))
}

// AssignAddresses lays text out from address 0 and data right after the
// last text byte, both in module order.
func AssignAddresses(ctx *Context) error {
	total := uint64(0)
	for _, file := range ctx.Objs {
		total += uint64(len(file.Text)) + uint64(len(file.Data))
	}
	if !imageFits(total) {
		return fmt.Errorf("%w: image of %d bytes exceeds the 32-bit address space",
			ErrMalformedInput, total)
	}

	text := NewOutputSection(".text", SectionText, ctx.Objs)
	data := NewOutputSection(".data", SectionData, ctx.Objs)
	ctx.Chunks = []Chunker{text, data}

	addr := uint32(0)
	for _, chunk := range ctx.Chunks {
		chunk.UpdateSize()
		chunk.SetAddr(addr)
		addr += chunk.GetSize()
	}

	text.AssignMemberAddrs()
	data.AssignMemberAddrs()

	for _, file := range ctx.Objs {
		ctx.Logger.Debug("place module",
			zap.String("module", file.Name()),
			zap.Uint32("text", file.TextBase),
			zap.Uint32("data", file.DataBase))
	}

	ctx.TextSize = text.GetSize()
	ctx.DataSize = data.GetSize()
	return nil
}

func DefineSymbols(ctx *Context) error {
	for _, file := range ctx.Objs {
		if err := file.ResolveSymbols(ctx); err != nil {
			return err
		}
	}
	return nil
}

// ClaimUnresolvedSymbols fails on the first needed name, in sorted order,
// that no live module defines.
func ClaimUnresolvedSymbols(ctx *Context) error {
	names := ctx.NeededSymbols.Keys()
	sort.Strings(names)

	for _, name := range names {
		if GetSymbolByName(ctx, name) == nil {
			return fmt.Errorf("%w: '%s'", ErrUndefinedSymbol, name)
		}
	}
	return nil
}

func ApplyRelocations(ctx *Context) error {
	for _, file := range ctx.Objs {
		if err := file.ApplyRelocations(ctx); err != nil {
			return err
		}
		ctx.Logger.Debug("relocate module",
			zap.String("module", file.Name()),
			zap.Int("relocations", len(file.Rels)))
	}
	return nil
}
