package linker

import (
	"fmt"

	"github.com/ksco/flatld/pkg/utils"
	"go.uber.org/zap"
)

// ReadInputFiles loads every argument in order. Arguments of the form
// -lNAME are looked up in the library search path.
func ReadInputFiles(ctx *Context, args []string) error {
	for _, arg := range args {
		var file *File
		var err error
		if name, ok := utils.RemovePrefix(arg, "-l"); ok {
			file, err = FindLibrary(ctx, name)
		} else {
			file, err = NewFile(arg)
		}
		if err != nil {
			return err
		}

		err = ReadFile(ctx, file)
		if cerr := file.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("%w: %s: %v", ErrMalformedInput, file.Name, cerr)
		}
		if err != nil {
			return err
		}
	}

	if len(ctx.Objs) == 0 {
		return fmt.Errorf("%w: no input files", ErrMalformedInput)
	}
	return nil
}

func ReadFile(ctx *Context, file *File) error {
	if ctx.Visited.Contains(file.Name) {
		return nil
	}

	switch GetFileType(file.Contents) {
	case FileTypeObject:
		obj, err := CreateObjectFile(ctx, file)
		if err != nil {
			return err
		}
		ctx.Objs = append(ctx.Objs, obj)
	case FileTypeAr:
		members, err := ReadArchiveMembers(file)
		if err != nil {
			return err
		}
		for _, child := range members {
			if GetFileType(child.Contents) != FileTypeObject {
				return malformed(file.Name+"("+child.Name+")", "archive member is not an object file")
			}
			obj, err := CreateObjectFile(ctx, child)
			if err != nil {
				return err
			}
			ctx.Objs = append(ctx.Objs, obj)
		}
		ctx.Visited.Add(file.Name)
	case FileTypeEmpty:
		return malformed(file.Name, "empty file")
	default:
		return malformed(file.Name, "invalid magic number")
	}
	return nil
}

func CreateObjectFile(ctx *Context, file *File) (*ObjectFile, error) {
	obj := NewObjectFile(file)
	if err := obj.Parse(); err != nil {
		return nil, err
	}
	// Everything is copied out; the mapping goes away when the
	// top-level file is closed.
	file.Contents = nil

	ctx.Logger.Debug("load object",
		zap.String("module", obj.Name()),
		zap.Int("text", len(obj.Text)),
		zap.Int("data", len(obj.Data)),
		zap.Int("symbols", len(obj.Syms)),
		zap.Int("relocations", len(obj.Rels)))
	return obj, nil
}
