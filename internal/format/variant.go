package format

import "fmt"

// KeySchedule describes how the XOR key is derived from the header seed and
// how it advances with stream position.
type KeySchedule struct {
	// Multiplier relates the key delta to the seed: (delta*Multiplier)&0xff == seed.
	Multiplier byte
	// Negate flips the sign of the recovered delta (mod 256).
	Negate bool
	// IndexShift selects the key entry for stream position i as (i>>IndexShift)&0xff.
	IndexShift uint
}

// BlockLayout describes the block header grammar of a variant.
type BlockLayout struct {
	Marker            byte
	TypeOffset        int
	SizeOffset        int
	ContentTypeOffset int
	// HeaderSize is the number of bytes before the block's own payload.
	HeaderSize int
	// SizeBase is added to the size field to obtain the full block extent.
	SizeBase int
	// TypeMask bits must be clear in the block type field.
	TypeMask uint16
	// Start is the cleartext offset of the first top-level block.
	Start int
}

// MinExtent is the smallest extent a valid block can declare.
func (l BlockLayout) MinExtent() int { return l.HeaderSize }

// Variant is a format revision: one key schedule plus one block layout,
// selected by the header's XOR selector byte.
type Variant struct {
	Selector byte
	Name     string
	Key      KeySchedule
	Layout   BlockLayout
}

func (v Variant) String() string {
	return fmt.Sprintf("%s (selector 0x%02x)", v.Name, v.Selector)
}

// DefaultLayout is the block grammar shared by every known variant.
var DefaultLayout = BlockLayout{
	Marker:            BlockMarker,
	TypeOffset:        BlockTypeOffset,
	SizeOffset:        BlockSizeOffset,
	ContentTypeOffset: BlockContentTypeOffset,
	HeaderSize:        BlockHeaderSize,
	SizeBase:          BlockContentTypeOffset,
	TypeMask:          BlockTypeMask,
	Start:             FileHeaderSize,
}

// variants is the dispatch table. Adding a format revision means adding an
// entry here.
var variants = []Variant{
	{
		Selector: 0x01,
		Name:     "pt5-9",
		Key:      KeySchedule{Multiplier: 53, IndexShift: 0},
		Layout:   DefaultLayout,
	},
	{
		Selector: 0x05,
		Name:     "pt10-12",
		Key:      KeySchedule{Multiplier: 11, Negate: true, IndexShift: 12},
		Layout:   DefaultLayout,
	},
}

// LookupVariant returns the variant registered for selector.
func LookupVariant(selector byte) (Variant, error) {
	for _, v := range variants {
		if v.Selector == selector {
			return v, nil
		}
	}
	return Variant{}, fmt.Errorf("%w: unknown XOR selector 0x%02x", ErrUnsupportedFormatVersion, selector)
}

// Variants returns a copy of the registered variants.
func Variants() []Variant {
	out := make([]Variant, len(variants))
	copy(out, variants)
	return out
}
