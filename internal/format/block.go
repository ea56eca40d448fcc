package format

import (
	"bytes"
	"encoding/binary"
	"errors"

	"github.com/joshuapare/ptkit/internal/buf"
)

// Block is one node of the parsed block forest.
//
// Data is the block's own payload: the bytes between the header and the first
// child (or the end of the block when it has no children). It is a sub-slice
// of the cleartext buffer and must not be modified.
type Block struct {
	BlockType   uint16
	ContentType uint16
	// Size is the raw size field from the header.
	Size uint32
	// Offset is the absolute cleartext offset of the header's marker byte.
	Offset int
	// Len is the full extent of the block: header, payload and children.
	Len int
	// DataOffset is the absolute cleartext offset of Data.
	DataOffset int
	Data       []byte
	Children   []*Block
}

// End returns the exclusive end offset of the block's extent.
func (b *Block) End() int { return b.Offset + b.Len }

// Walk visits b and its descendants depth first. Returning false from fn
// skips the children of the visited block.
func (b *Block) Walk(fn func(b *Block, depth int) bool) {
	b.walk(fn, 0)
}

func (b *Block) walk(fn func(*Block, int) bool, depth int) {
	if !fn(b, depth) {
		return
	}
	for _, c := range b.Children {
		c.walk(fn, depth+1)
	}
}

// Child returns the first direct child with content type ct.
func (b *Block) Child(ct uint16) (*Block, bool) {
	for _, c := range b.Children {
		if c.ContentType == ct {
			return c, true
		}
	}
	return nil, false
}

// header is a decoded block header.
type header struct {
	blockType   uint16
	size        uint32
	contentType uint16
	extent      int
}

var (
	errHeaderShort  = errors.New("header does not fit")
	errBadMarker    = errors.New("missing block marker")
	errBadType      = errors.New("block type out of range")
	errSizeTooSmall = errors.New("size smaller than content type field")
	errPastLimit    = errors.New("extent past limit")
)

type parser struct {
	buf    []byte
	layout BlockLayout
	order  binary.ByteOrder
}

// readHeader decodes the header at pos and checks that the block fits
// within [pos, limit).
func (p *parser) readHeader(pos, limit int) (header, error) {
	l := p.layout
	if pos < 0 || limit > len(p.buf) || pos+l.HeaderSize > limit {
		return header{}, errHeaderShort
	}
	if p.buf[pos] != l.Marker {
		return header{}, errBadMarker
	}
	h := header{
		blockType:   buf.U16(p.buf[pos+l.TypeOffset:], p.order),
		size:        buf.U32(p.buf[pos+l.SizeOffset:], p.order),
		contentType: buf.U16(p.buf[pos+l.ContentTypeOffset:], p.order),
	}
	if h.blockType&l.TypeMask != 0 {
		return header{}, errBadType
	}
	extent, ok := buf.AddOverflowSafe(l.SizeBase, int(h.size))
	if !ok || extent < l.MinExtent() {
		return header{}, errSizeTooSmall
	}
	end, ok := buf.AddOverflowSafe(pos, extent)
	if !ok || end > limit {
		return header{}, errPastLimit
	}
	h.extent = extent
	return h, nil
}

// Parse decodes the top-level block forest of a cleartext buffer.
//
// Top-level blocks are laid out back to back from layout.Start to the end of
// the buffer; a run of zero bytes at the end is accepted as padding. Any other
// unaccounted byte is an error: the parser never skips or clamps.
func Parse(clear []byte, layout BlockLayout, order binary.ByteOrder) ([]*Block, error) {
	if len(clear) < layout.Start {
		return nil, blockErr("parse", 0, ErrMalformedHeader, "buffer shorter than file header (%d bytes)", len(clear))
	}
	p := &parser{buf: clear, layout: layout, order: order}
	forest := make([]*Block, 0, 16)
	pos := layout.Start
	for pos < len(clear) {
		h, err := p.readHeader(pos, len(clear))
		if err != nil {
			if buf.AllZero(clear[pos:]) {
				break
			}
			return nil, p.topLevelError(pos, err)
		}
		forest = append(forest, p.build(pos, h))
		pos += h.extent
	}
	return forest, nil
}

func (p *parser) topLevelError(pos int, err error) error {
	switch err {
	case errHeaderShort:
		return blockErr("parse", pos, ErrTruncatedBlock, "%d bytes left, header needs %d", len(p.buf)-pos, p.layout.HeaderSize)
	case errPastLimit:
		size := buf.U32(p.buf[pos+p.layout.SizeOffset:], p.order)
		return blockErr("parse", pos, ErrTruncatedBlock, "declared size %d exceeds %d remaining bytes", size, len(p.buf)-pos)
	default:
		return blockErr("parse", pos, ErrInvalidBlockHeader, "%v", err)
	}
}

// build materialises the block at pos and, recursively, its children.
func (p *parser) build(pos int, h header) *Block {
	start := pos + p.layout.HeaderSize
	end := pos + h.extent
	split, children := p.children(start, end)
	return &Block{
		BlockType:   h.blockType,
		ContentType: h.contentType,
		Size:        h.size,
		Offset:      pos,
		Len:         h.extent,
		DataOffset:  start,
		Data:        p.buf[start:split:split],
		Children:    children,
	}
}

// children locates the child run inside [start, end). The format has no
// explicit children length, so the run begins at the first marker from which
// valid headers tile the region exactly up to end. Bytes before the run are
// the parent's own payload.
//
// Tiling is resolved in one backward pass: a position tiles when it holds a
// valid header whose extent ends at end or at another tiling position.
func (p *parser) children(start, end int) (int, []*Block) {
	if end-start < p.layout.HeaderSize || bytes.IndexByte(p.buf[start:end], p.layout.Marker) < 0 {
		return end, []*Block{}
	}
	tiles := make([]bool, end-start+1)
	tiles[end-start] = true
	first := -1
	for q := end - p.layout.HeaderSize; q >= start; q-- {
		if p.buf[q] != p.layout.Marker {
			continue
		}
		h, err := p.readHeader(q, end)
		if err != nil || !tiles[q+h.extent-start] {
			continue
		}
		tiles[q-start] = true
		first = q
	}
	if first < 0 {
		return end, []*Block{}
	}

	children := make([]*Block, 0, 4)
	for r := first; r < end; {
		h, _ := p.readHeader(r, end)
		children = append(children, p.build(r, h))
		r += h.extent
	}
	return first, children
}
