package linker

import (
	"bytes"
	"encoding/binary"
	"unsafe"
)

// Magic is "LNK1" read as a little-endian word.
const Magic uint32 = 0x4C4E4B31

const NameLen = 64

// Every relocation patches one 32-bit word.
const PatchWidth = 4

// RelativeShort keeps the top 6 bits of the word and replaces the low 26.
const (
	RelShortMask  uint32 = 0x03FFFFFF
	RelOpcodeMask uint32 = ^RelShortMask
)

const RelShortBits = 26

const DefaultEntryName = "__START__"

type SectionIndex uint32

const (
	SectionText SectionIndex = 0
	SectionData SectionIndex = 1
)

func (s SectionIndex) String() string {
	switch s {
	case SectionText:
		return "TEXT"
	case SectionData:
		return "DATA"
	}
	return "UNKNOWN"
}

type SymbolType uint32

const (
	SymbolUndefined SymbolType = 0
	SymbolDefined   SymbolType = 1
)

func (t SymbolType) String() string {
	switch t {
	case SymbolUndefined:
		return "UNDEF"
	case SymbolDefined:
		return "DEF"
	}
	return "UNKNOWN"
}

type RelType uint32

const (
	RelAbsolute      RelType = 0
	RelRelativeShort RelType = 1
)

func (t RelType) String() string {
	switch t {
	case RelAbsolute:
		return "ABS"
	case RelRelativeShort:
		return "REL26"
	}
	return "UNKNOWN"
}

type Hdr struct {
	Magic     uint32
	TextSize  uint32
	DataSize  uint32
	SymCount  uint32
	RelaCount uint32
}

type SymEntry struct {
	Name    [NameLen]byte
	Type    uint32
	Section uint32
	Offset  uint32
}

type RelEntry struct {
	Offset  uint32
	SymName [NameLen]byte
	Type    uint32
}

const (
	HdrSize      = int(unsafe.Sizeof(Hdr{}))
	SymEntrySize = int(unsafe.Sizeof(SymEntry{}))
	RelEntrySize = int(unsafe.Sizeof(RelEntry{}))
)

func CheckMagic(contents []byte) bool {
	return len(contents) >= 4 && binary.LittleEndian.Uint32(contents) == Magic
}

func getName(buf []byte) string {
	if end := bytes.IndexByte(buf, 0); end != -1 {
		return string(buf[:end])
	}
	return string(buf)
}

// putName truncates names that do not fit; a name of exactly NameLen
// bytes is stored without a terminator.
func putName(buf *[NameLen]byte, name string) {
	*buf = [NameLen]byte{}
	copy(buf[:], name)
}
