// Package format houses the low-level decoders for Pro Tools session files:
// the file header, the XOR de-obfuscation transform and the block grammar.
// Higher-level packages orchestrate these into readers, printers and diffs.
package format

// Bitcode is the ASCII signature stored right after the magic byte.
var Bitcode = []byte("0010111100101011")

// File header layout. The header is never obfuscated.
//
//	Offset  Size  Field
//	0x00    1     magic (0x03)
//	0x01    16    bitcode "0010111100101011"
//	0x11    1     byte order (0 = little-endian, otherwise big-endian)
//	0x12    1     XOR selector (variant)
//	0x13    1     XOR seed
const (
	FileHeaderSize = 0x14

	MagicOffset     = 0x00
	Magic           = 0x03
	BitcodeOffset   = 0x01
	BitcodeSize     = 16
	ByteOrderOffset = 0x11
	SelectorOffset  = 0x12
	SeedOffset      = 0x13
)

// Block header layout used by every known variant.
//
//	Offset  Size  Field
//	0x00    1     marker 'Z' (0x5a)
//	0x01    2     block type, high byte always zero
//	0x03    4     size, counted from the content type field
//	0x07    2     content type
const (
	BlockMarker            = 0x5a
	BlockTypeOffset        = 0x01
	BlockSizeOffset        = 0x03
	BlockContentTypeOffset = 0x07
	BlockHeaderSize        = 0x09
	BlockTypeMask          = 0xff00
)

// Version probe locations.
const (
	// VersionBlockOffset is where the session version block starts.
	VersionBlockOffset = 0x1f

	// Content types of the version block.
	VersionBlockLegacy = 0x0003
	VersionBlockModern = 0x2067

	// Header bytes consulted when no version block is present.
	LegacyVersionOffset    = 0x40
	LegacyVersionAltOffset = 0x3d
	LegacyVersionOldOffset = 0x3a

	MinVersion = 5
	MaxVersion = 12
)
