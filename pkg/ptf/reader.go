package ptf

import (
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/joshuapare/ptkit/internal/format"
	"github.com/joshuapare/ptkit/internal/mmfile"
)

// Reader gives access to one session file: its raw bytes, the decoded
// cleartext and the parsed block forest.
type Reader struct {
	raw     []byte
	release func() error
	header  format.FileHeader
	variant format.Variant
	opts    options

	mu     sync.Mutex
	closed bool

	clearOnce sync.Once
	clear     []byte
	clearErr  error

	blocksOnce sync.Once
	blocks     []*Block
	blocksErr  error

	versionOnce sync.Once
	version     int
	versionErr  error
}

// Open maps the session at path read-only. The header is decoded immediately,
// so malformed and unsupported files are rejected here.
func Open(path string, opts ...Option) (*Reader, error) {
	data, release, err := mmfile.Map(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w: %w", path, ErrUnreadableFile, err)
	}
	r, err := newReader(data, release, opts)
	if err != nil {
		_ = release()
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return r, nil
}

// FromBytes creates a Reader over raw session bytes held in memory.
// The caller must not modify raw while the Reader is in use.
func FromBytes(raw []byte, opts ...Option) (*Reader, error) {
	return newReader(raw, nil, opts)
}

func newReader(raw []byte, release func() error, opts []Option) (*Reader, error) {
	h, err := format.ParseFileHeader(raw)
	if err != nil {
		return nil, err
	}
	v, err := format.LookupVariant(h.Selector)
	if err != nil {
		return nil, err
	}
	r := &Reader{
		raw:     raw,
		release: release,
		header:  h,
		variant: v,
	}
	for _, opt := range opts {
		opt(&r.opts)
	}
	if r.opts.eager {
		if _, err := r.Blocks(); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Close releases the file mapping. Raw must not be used afterwards; slices
// returned by Cleartext and Blocks remain valid. Close is idempotent.
func (r *Reader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	if r.release != nil {
		return r.release()
	}
	return nil
}

// Raw returns the undecoded file contents.
func (r *Reader) Raw() []byte { return r.raw }

// Header returns the decoded file header.
func (r *Reader) Header() format.FileHeader { return r.header }

// Variant returns the format variant selected by the header.
func (r *Reader) Variant() format.Variant { return r.variant }

// ByteOrder returns the byte order of multi-byte fields in the session.
func (r *Reader) ByteOrder() binary.ByteOrder { return r.header.ByteOrder() }

// Cleartext returns the de-obfuscated session. The result is computed once;
// every call returns the same slice.
func (r *Reader) Cleartext() ([]byte, error) {
	r.clearOnce.Do(func() {
		// Close unmaps raw, so it must wait for the decode.
		r.mu.Lock()
		defer r.mu.Unlock()
		if r.closed {
			r.clearErr = ErrClosed
			return
		}
		r.clear = r.variant.Apply(r.raw, r.header.Seed)
	})
	return r.clear, r.clearErr
}

// Blocks returns the top-level block forest. The forest is parsed once and
// checked for complete coverage of the cleartext unless WithoutVerify was
// given.
func (r *Reader) Blocks() ([]*Block, error) {
	r.blocksOnce.Do(func() {
		clear, err := r.Cleartext()
		if err != nil {
			r.blocksErr = err
			return
		}
		forest, err := format.Parse(clear, r.variant.Layout, r.ByteOrder())
		if err != nil {
			r.blocksErr = err
			return
		}
		if !r.opts.noVerify {
			if err := format.Verify(clear, forest, r.variant.Layout); err != nil {
				r.blocksErr = err
				return
			}
		}
		r.blocks = forest
	})
	return r.blocks, r.blocksErr
}

// Version returns the Pro Tools major version that wrote the session.
func (r *Reader) Version() (int, error) {
	r.versionOnce.Do(func() {
		clear, err := r.Cleartext()
		if err != nil {
			r.versionErr = err
			return
		}
		r.version, r.versionErr = format.ProbeVersion(clear, r.variant.Layout, r.ByteOrder())
	})
	return r.version, r.versionErr
}

// Verify checks that the block forest covers the cleartext exactly. It is
// only useful on readers opened WithoutVerify; otherwise Blocks has already
// performed the check.
func (r *Reader) Verify() error {
	forest, err := r.Blocks()
	if err != nil {
		return err
	}
	return format.Verify(r.clear, forest, r.variant.Layout)
}
