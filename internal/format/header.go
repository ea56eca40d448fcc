package format

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// FileHeader captures the cleartext header at the start of every session.
type FileHeader struct {
	Magic     byte
	Bitcode   [BitcodeSize]byte
	BigEndian bool
	Selector  byte
	Seed      byte
}

// ParseFileHeader extracts the header fields from b. Only the length is
// validated here; the signature is checked by HasSignature so that readers can
// still decode files with damaged magic bytes.
func ParseFileHeader(b []byte) (FileHeader, error) {
	if len(b) < FileHeaderSize {
		return FileHeader{}, fmt.Errorf("file header: %w: %d bytes, need %d", ErrMalformedHeader, len(b), FileHeaderSize)
	}
	h := FileHeader{
		Magic:     b[MagicOffset],
		BigEndian: b[ByteOrderOffset] != 0,
		Selector:  b[SelectorOffset],
		Seed:      b[SeedOffset],
	}
	copy(h.Bitcode[:], b[BitcodeOffset:BitcodeOffset+BitcodeSize])
	return h, nil
}

// ByteOrder returns the byte order of multi-byte fields in the session.
func (h FileHeader) ByteOrder() binary.ByteOrder {
	if h.BigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// HasSignature reports whether the header carries the session magic or bitcode.
func (h FileHeader) HasSignature() bool {
	return h.Magic == Magic || bytes.Equal(h.Bitcode[:], Bitcode)
}
