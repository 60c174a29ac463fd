package linker

import (
	"fmt"
	"os"

	"go.uber.org/zap"
)

// CopyBuf assembles the image: every module's text in module order,
// followed by every module's data in the same order.
func CopyBuf(ctx *Context) {
	size := uint64(0)
	for _, chunk := range ctx.Chunks {
		size += uint64(chunk.GetSize())
	}
	ctx.Buf = make([]byte, size)

	for _, chunk := range ctx.Chunks {
		chunk.CopyBuf(ctx)
	}
}

func WriteOutput(ctx *Context) error {
	file, err := os.OpenFile(ctx.Arg.Output, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0777)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrOutputWriteFailure, err)
	}

	_, err = file.Write(ctx.Buf)
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(ctx.Arg.Output)
		return fmt.Errorf("%w: %v", ErrOutputWriteFailure, err)
	}

	ctx.Logger.Debug("write image",
		zap.String("output", ctx.Arg.Output),
		zap.Uint32("text", ctx.TextSize),
		zap.Uint32("data", ctx.DataSize))
	return nil
}
