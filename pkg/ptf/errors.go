package ptf

import (
	"errors"

	"github.com/joshuapare/ptkit/internal/format"
)

// Errors re-exported from internal/format.
var (
	// ErrUnreadableFile is returned when the session file cannot be opened or mapped.
	ErrUnreadableFile = format.ErrUnreadableFile

	// ErrMalformedHeader is returned when the file header is too short or lacks the session signature.
	ErrMalformedHeader = format.ErrMalformedHeader

	// ErrUnsupportedFormatVersion is returned for unknown XOR selectors and out-of-range versions.
	ErrUnsupportedFormatVersion = format.ErrUnsupportedFormatVersion

	// ErrTruncatedBlock is returned when a block runs past the end of the cleartext.
	ErrTruncatedBlock = format.ErrTruncatedBlock

	// ErrOverlongBlock is returned when a child block runs past its parent.
	ErrOverlongBlock = format.ErrOverlongBlock

	// ErrInvalidBlockHeader is returned when a block header is expected but not found.
	ErrInvalidBlockHeader = format.ErrInvalidBlockHeader

	// ErrBlockCoverage is returned when blocks overlap or leave bytes unaccounted for.
	ErrBlockCoverage = format.ErrBlockCoverage
)

// ErrClosed is returned when a Reader is used after Close.
var ErrClosed = errors.New("ptf: reader closed")

// BlockError reports a structural failure at a cleartext offset.
type BlockError = format.BlockError
