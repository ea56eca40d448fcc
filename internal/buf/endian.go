// Package buf contains bounds-checked slicing and byte-order aware integer
// readers used by the session decoders.
package buf

import "encoding/binary"

// U16 reads a uint16 in byte order o. Returns 0 when b is too short.
func U16(b []byte, o binary.ByteOrder) uint16 {
	if len(b) < 2 {
		return 0
	}
	return o.Uint16(b)
}

// U32 reads a uint32 in byte order o. Returns 0 when b is too short.
func U32(b []byte, o binary.ByteOrder) uint32 {
	if len(b) < 4 {
		return 0
	}
	return o.Uint32(b)
}

// U64 reads a uint64 in byte order o. Returns 0 when b is too short.
func U64(b []byte, o binary.ByteOrder) uint64 {
	if len(b) < 8 {
		return 0
	}
	return o.Uint64(b)
}

// U32LE reads a little-endian uint32 from b. Returns 0 when b is too short.
func U32LE(b []byte) uint32 {
	return U32(b, binary.LittleEndian)
}
