package linker

// Chunker is a contiguous piece of the output image.
type Chunker interface {
	GetName() string
	GetAddr() uint32
	GetSize() uint32
	SetAddr(addr uint32)
	UpdateSize()
	CopyBuf(ctx *Context)
}

type Chunk struct {
	Name string
	Addr uint32
	Size uint32
}

func (c *Chunk) GetName() string {
	return c.Name
}

func (c *Chunk) GetAddr() uint32 {
	return c.Addr
}

func (c *Chunk) GetSize() uint32 {
	return c.Size
}

func (c *Chunk) SetAddr(addr uint32) {
	c.Addr = addr
}

func (c *Chunk) UpdateSize() {}

func (c *Chunk) CopyBuf(ctx *Context) {}
