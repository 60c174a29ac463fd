package linker

// OutputSection concatenates one section of every member, in member
// order, with no padding.
type OutputSection struct {
	Chunk
	Section SectionIndex
	Members []*ObjectFile
}

func NewOutputSection(name string, sec SectionIndex, members []*ObjectFile) *OutputSection {
	o := &OutputSection{Section: sec, Members: members}
	o.Name = name
	return o
}

func (o *OutputSection) UpdateSize() {
	size := uint32(0)
	for _, file := range o.Members {
		size += uint32(len(file.Contents(o.Section)))
	}
	o.Size = size
}

// AssignMemberAddrs gives every member its base in this section. It must
// run after SetAddr.
func (o *OutputSection) AssignMemberAddrs() {
	addr := o.Addr
	for _, file := range o.Members {
		file.SetBase(o.Section, addr)
		addr += uint32(len(file.Contents(o.Section)))
	}
}

func (o *OutputSection) CopyBuf(ctx *Context) {
	for _, file := range o.Members {
		base := file.GetBase(o.Section)
		copy(ctx.Buf[base:], file.Contents(o.Section))
	}
}
