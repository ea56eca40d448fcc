package format

import (
	"errors"
	"fmt"
)

var (
	// ErrUnreadableFile indicates the session file could not be opened or read.
	ErrUnreadableFile = errors.New("format: unreadable file")
	// ErrMalformedHeader indicates the file header is too short or lacks the session signature.
	ErrMalformedHeader = errors.New("format: malformed header")
	// ErrUnsupportedFormatVersion indicates the header selects a variant that is not implemented.
	ErrUnsupportedFormatVersion = errors.New("format: unsupported format version")
	// ErrTruncatedBlock indicates a block header or declared extent runs past the end of the buffer.
	ErrTruncatedBlock = errors.New("format: truncated block")
	// ErrOverlongBlock indicates a block extends past the extent of its enclosing block.
	ErrOverlongBlock = errors.New("format: overlong block")
	// ErrInvalidBlockHeader indicates non-padding bytes where a block header was expected.
	ErrInvalidBlockHeader = errors.New("format: invalid block header")
	// ErrBlockCoverage indicates blocks that overlap or leave unaccounted bytes.
	ErrBlockCoverage = errors.New("format: block coverage violation")
)

// BlockError reports a structural failure at a specific cleartext offset.
type BlockError struct {
	Op     string
	Offset int
	Err    error
}

func (e *BlockError) Error() string {
	return fmt.Sprintf("%s: offset 0x%x: %v", e.Op, e.Offset, e.Err)
}

func (e *BlockError) Unwrap() error { return e.Err }

func blockErr(op string, off int, err error, detail string, args ...any) error {
	if detail != "" {
		err = fmt.Errorf("%w: "+detail, append([]any{err}, args...)...)
	}
	return &BlockError{Op: op, Offset: off, Err: err}
}
