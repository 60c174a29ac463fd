package linker

import (
	"fmt"
	"os"
	"path/filepath"
)

type File struct {
	Name     string
	Contents []byte

	Parent *File

	release func() error
}

func NewFile(filename string) (*File, error) {
	contents, release, err := readFile(filename)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	return &File{
		Name:     filename,
		Contents: contents,
		release:  release,
	}, nil
}

// Close drops the backing storage of the file. Contents must not be used
// afterwards; archive members share their parent's storage and are closed
// through it.
func (f *File) Close() error {
	if f.release == nil {
		return nil
	}
	release := f.release
	f.release = nil
	f.Contents = nil
	return release()
}

func OpenLibrary(path string) (*File, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, nil
	}

	file, err := NewFile(path)
	if err != nil {
		return nil, err
	}

	if GetFileType(file.Contents) != FileTypeAr {
		file.Close()
		return nil, malformed(path, "not an archive")
	}
	return file, nil
}

func FindLibrary(ctx *Context, name string) (*File, error) {
	for _, dir := range ctx.Arg.LibraryPaths {
		f, err := OpenLibrary(filepath.Join(dir, "lib"+name+".a"))
		if err != nil {
			return nil, err
		}
		if f != nil {
			return f, nil
		}
	}

	return nil, fmt.Errorf("%w: library not found: -l%s", ErrMalformedInput, name)
}
