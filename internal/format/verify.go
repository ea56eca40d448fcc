package format

import (
	"github.com/joshuapare/ptkit/internal/buf"
)

// Verify checks the coverage invariant of a parsed forest against the
// cleartext it was parsed from: at every level siblings tile the enclosing
// extent exactly, each block's payload sits directly after its header and
// directly before its first child, and nothing extends past its parent.
// Only zero padding may follow the last top-level block.
func Verify(clear []byte, forest []*Block, layout BlockLayout) error {
	if len(clear) < layout.Start {
		return blockErr("verify", 0, ErrMalformedHeader, "buffer shorter than file header (%d bytes)", len(clear))
	}
	end, err := verifyLevel(forest, layout.Start, len(clear), layout, ErrTruncatedBlock)
	if err != nil {
		return err
	}
	if !buf.AllZero(clear[end:]) {
		return blockErr("verify", end, ErrBlockCoverage, "%d trailing bytes not covered by any block", len(clear)-end)
	}
	return nil
}

// verifyLevel checks that blocks are contiguous from start and stay within
// limit, reporting overrun when one does not. It returns the end of the last
// block.
func verifyLevel(blocks []*Block, start, limit int, layout BlockLayout, overrun error) (int, error) {
	cursor := start
	for _, b := range blocks {
		if b == nil {
			return 0, blockErr("verify", cursor, ErrBlockCoverage, "nil block")
		}
		if b.Offset != cursor {
			return 0, blockErr("verify", b.Offset, ErrBlockCoverage, "expected block at 0x%x", cursor)
		}
		if b.Len < layout.MinExtent() {
			return 0, blockErr("verify", b.Offset, ErrInvalidBlockHeader, "extent %d below minimum %d", b.Len, layout.MinExtent())
		}
		if b.End() > limit {
			return 0, blockErr("verify", b.Offset, overrun, "ends at 0x%x past enclosing end 0x%x", b.End(), limit)
		}
		if err := verifyBlock(b, layout); err != nil {
			return 0, err
		}
		cursor = b.End()
	}
	return cursor, nil
}

func verifyBlock(b *Block, layout BlockLayout) error {
	if b.DataOffset != b.Offset+layout.HeaderSize {
		return blockErr("verify", b.Offset, ErrBlockCoverage, "payload at 0x%x, expected 0x%x", b.DataOffset, b.Offset+layout.HeaderSize)
	}
	if b.Children == nil {
		return blockErr("verify", b.Offset, ErrBlockCoverage, "children sequence missing")
	}
	dataEnd := b.DataOffset + len(b.Data)
	if len(b.Children) == 0 {
		if dataEnd != b.End() {
			return blockErr("verify", b.Offset, ErrBlockCoverage, "payload ends at 0x%x, block at 0x%x", dataEnd, b.End())
		}
		return nil
	}
	end, err := verifyLevel(b.Children, dataEnd, b.End(), layout, ErrOverlongBlock)
	if err != nil {
		return err
	}
	if end != b.End() {
		return blockErr("verify", b.Offset, ErrBlockCoverage, "children end at 0x%x, block at 0x%x", end, b.End())
	}
	return nil
}
