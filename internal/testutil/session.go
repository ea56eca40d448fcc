// Package testutil builds synthetic Pro Tools sessions for tests.
package testutil

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/joshuapare/ptkit/internal/format"
)

// Selectors of the known variants.
const (
	SelectorLegacy = 0x01
	SelectorModern = 0x05
)

// Node describes one block to encode. Data must not contain a byte sequence
// that parses as a child run, or the decoded tree will differ from the Node.
type Node struct {
	Type        uint16
	ContentType uint16
	Data        []byte
	Children    []Node
}

// Leaf is shorthand for a childless node.
func Leaf(ct uint16, data []byte) Node {
	return Node{ContentType: ct, Data: data}
}

// Len returns the encoded length of n including its header.
func (n Node) Len() int {
	total := format.BlockHeaderSize + len(n.Data)
	for _, c := range n.Children {
		total += c.Len()
	}
	return total
}

// Encode serialises n in the block grammar.
func (n Node) Encode(order binary.ByteOrder) []byte {
	out := make([]byte, format.BlockHeaderSize, n.Len())
	out[0] = format.BlockMarker
	order.PutUint16(out[format.BlockTypeOffset:], n.Type)
	order.PutUint32(out[format.BlockSizeOffset:], uint32(n.Len()-format.BlockContentTypeOffset))
	order.PutUint16(out[format.BlockContentTypeOffset:], n.ContentType)
	out = append(out, n.Data...)
	for _, c := range n.Children {
		out = append(out, c.Encode(order)...)
	}
	return out
}

// Header returns a cleartext file header.
func Header(selector, seed byte, bigEndian bool) []byte {
	h := make([]byte, format.FileHeaderSize)
	h[format.MagicOffset] = format.Magic
	copy(h[format.BitcodeOffset:], format.Bitcode)
	if bigEndian {
		h[format.ByteOrderOffset] = 1
	}
	h[format.SelectorOffset] = selector
	h[format.SeedOffset] = seed
	return h
}

// Cleartext builds a little-endian cleartext session with the given
// top-level blocks.
func Cleartext(selector, seed byte, blocks ...Node) []byte {
	out := Header(selector, seed, false)
	for _, b := range blocks {
		out = append(out, b.Encode(binary.LittleEndian)...)
	}
	return out
}

// Obfuscate applies the variant's key stream to a cleartext session. The
// transform is an XOR stream, so this is the same operation as decoding.
func Obfuscate(t testing.TB, clear []byte) []byte {
	t.Helper()
	h, err := format.ParseFileHeader(clear)
	if err != nil {
		t.Fatalf("Obfuscate: %v", err)
	}
	v, err := format.LookupVariant(h.Selector)
	if err != nil {
		t.Fatalf("Obfuscate: %v", err)
	}
	return v.Apply(clear, h.Seed)
}

// Session builds an obfuscated session with the given top-level blocks.
func Session(t testing.TB, selector, seed byte, blocks ...Node) []byte {
	t.Helper()
	return Obfuscate(t, Cleartext(selector, seed, blocks...))
}

// WriteFile writes data to dir/name and returns the path.
func WriteFile(t testing.TB, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// VersionBlock returns a modern version block (content type 0x2067)
// declaring the given Pro Tools version.
func VersionBlock(version int) Node {
	data := make([]byte, 22)
	binary.LittleEndian.PutUint32(data[18:], uint32(version-2))
	return Leaf(format.VersionBlockModern, data)
}

// Preamble is the short block that precedes the version block in modern
// sessions, placing the version block at format.VersionBlockOffset.
func Preamble() Node {
	return Leaf(0x0001, []byte{0x00, 0x00})
}
