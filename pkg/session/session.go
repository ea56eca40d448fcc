// Package session extracts session-level facts from a parsed block forest:
// the format version, sample rate and bit depth, embedded metadata, key and
// time signatures, and tempo changes.
package session

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/joshuapare/ptkit/internal/buf"
	"github.com/joshuapare/ptkit/pkg/contenttype"
	"github.com/joshuapare/ptkit/pkg/ptf"
)

// ErrMalformedSession is returned when a block that carries session facts
// cannot be decoded.
var ErrMalformedSession = errors.New("session: malformed session block")

// Supported session sample rates.
const (
	MinSampleRate = 44100
	MaxSampleRate = 192000
)

// Info holds the facts decoded from a session. Facts whose blocks are absent
// keep their zero value.
type Info struct {
	Version        int
	SampleRate     uint32
	BitDepth       uint8
	Metadata       Metadata
	KeySignatures  []KeySignature
	TimeSignatures []TimeSignature
	TempoChanges   []TempoChange
}

// Extract decodes the session facts of r.
func Extract(r *ptf.Reader) (*Info, error) {
	version, err := r.Version()
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	forest, err := r.Blocks()
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	info, err := FromBlocks(forest, r.ByteOrder())
	if err != nil {
		return nil, err
	}
	info.Version = version
	return info, nil
}

// FromBlocks decodes the session facts found among the top-level blocks of
// forest. Version is left zero.
func FromBlocks(forest []*ptf.Block, order binary.ByteOrder) (*Info, error) {
	info := &Info{}
	if err := info.readFormat(forest, order); err != nil {
		return nil, err
	}
	md, err := readMetadata(forest)
	if err != nil {
		return nil, err
	}
	info.Metadata = md

	if info.KeySignatures, err = readKeySignatures(forest, order); err != nil {
		return nil, err
	}
	if info.TimeSignatures, err = readTimeSignatures(forest, order); err != nil {
		return nil, err
	}
	if info.TempoChanges, err = readTempoChanges(forest, order); err != nil {
		return nil, err
	}
	return info, nil
}

// readFormat reads the sample rate and bit depth. The general info block
// reports 32-bit float sessions correctly where the rate block says 24, so
// its bit depth wins when present.
func (info *Info) readFormat(forest []*ptf.Block, order binary.ByteOrder) error {
	var override uint8
	for _, b := range forest {
		switch b.ContentType {
		case contenttype.InfoSampleRate:
			if len(b.Data) < 6 {
				return malformed(b, "sample rate block has %d bytes", len(b.Data))
			}
			info.BitDepth = b.Data[1]
			info.SampleRate = buf.U32(b.Data[2:], order)
			if info.SampleRate < MinSampleRate || info.SampleRate > MaxSampleRate {
				return malformed(b, "sample rate %d out of range", info.SampleRate)
			}
		case contenttype.GeneralInfo:
			if len(b.Data) > 4 {
				override = b.Data[4]
			}
		}
	}
	if override != 0 {
		info.BitDepth = override
	}
	return nil
}

func malformed(b *ptf.Block, format string, args ...any) error {
	return fmt.Errorf("%w: %s at 0x%x: %s", ErrMalformedSession, contenttype.Label(b.ContentType), b.Offset, fmt.Sprintf(format, args...))
}
