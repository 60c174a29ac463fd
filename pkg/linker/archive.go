package linker

import (
	"unsafe"

	"github.com/ksco/flatld/pkg/utils"
)

const arHdrSize = int(unsafe.Sizeof(ArHdr{}))

func ReadArchiveMembers(file *File) ([]*File, error) {
	utils.Assert(GetFileType(file.Contents) == FileTypeAr)

	data := 8
	var strTab []byte
	var files []*File

	for len(file.Contents)-data >= arHdrSize {
		if data%2 == 1 {
			data++
			if len(file.Contents)-data < arHdrSize {
				break
			}
		}

		hdr := utils.Read[ArHdr](file.Contents[data:])
		size, err := hdr.GetSize()
		if err != nil || size < 0 {
			return nil, malformed(file.Name, "bad archive member size at offset %d", data)
		}

		body := data + arHdrSize
		if size > len(file.Contents)-body {
			return nil, malformed(file.Name, "truncated archive member at offset %d", data)
		}
		data = body + size

		if hdr.IsStrtab() {
			strTab = file.Contents[body:data]
			continue
		}

		if hdr.IsSymtab() {
			continue
		}

		ptr := file.Contents[body:data]
		name, err := hdr.ReadName(strTab, &ptr)
		if err != nil {
			return nil, malformed(file.Name, "archive member at offset %d: %v", body, err)
		}

		if name == "__.SYMDEF" || name == "__.SYMDEF SORTED" {
			continue
		}

		files = append(files, &File{
			Name:     name,
			Contents: ptr,
			Parent:   file,
		})
	}

	return files, nil
}
