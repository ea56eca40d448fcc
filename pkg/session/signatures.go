package session

import (
	"encoding/binary"
	"math"

	"github.com/joshuapare/ptkit/internal/buf"
	"github.com/joshuapare/ptkit/pkg/contenttype"
	"github.com/joshuapare/ptkit/pkg/ptf"
)

// KeySignature is a key change on the session timeline.
type KeySignature struct {
	Pos   uint64
	Major bool
	Sharp bool
	// Signs is the number of sharps or flats, 0..7.
	Signs uint8
}

// TimeSignature is a meter change on the session timeline.
type TimeSignature struct {
	Pos         uint64
	Measure     uint32
	Numerator   uint8
	Denominator uint8
}

// TempoChange is a tempo event on the session timeline.
type TempoChange struct {
	Pos        uint64
	Tempo      float64
	BeatLength uint64
}

// Event list layout shared by time signature and tempo blocks.
const (
	eventCountOffset = 11
	eventListOffset  = 15

	keySignatureSize  = 11
	timeSignatureSize = 36
	tempoChangeSize   = 61

	minTempo = 5
	maxTempo = 500
	// Beat lengths are multiples of a 1/32 note.
	beatLengthUnit = 120000
)

func readKeySignatures(forest []*ptf.Block, order binary.ByteOrder) ([]KeySignature, error) {
	var out []KeySignature
	for _, b := range forest {
		if b.ContentType != contenttype.KeySignatures {
			continue
		}
		for _, c := range b.Children {
			if c.ContentType != contenttype.KeySignature {
				continue
			}
			if len(c.Data) < keySignatureSize {
				return nil, malformed(c, "key signature has %d bytes", len(c.Data))
			}
			ks := KeySignature{
				Pos:   buf.U64(c.Data, order),
				Signs: c.Data[10],
			}
			major, sharp := c.Data[8], c.Data[9]
			if major > 1 || sharp > 1 || ks.Signs > 7 {
				return nil, malformed(c, "key signature fields out of range (%d, %d, %d)", major, sharp, ks.Signs)
			}
			ks.Major, ks.Sharp = major == 1, sharp == 1
			out = append(out, ks)
		}
	}
	return out, nil
}

// eventList locates the count-prefixed event list of b.
func eventList(b *ptf.Block, order binary.ByteOrder, size int) ([]byte, int, error) {
	if len(b.Data) < eventListOffset {
		return nil, 0, malformed(b, "event list header has %d bytes", len(b.Data))
	}
	count := int(buf.U32(b.Data[eventCountOffset:], order))
	end, err := buf.CheckListBounds(len(b.Data), eventListOffset, count, size)
	if err != nil {
		return nil, 0, malformed(b, "%d events: %v", count, err)
	}
	return b.Data[eventListOffset:end], count, nil
}

func readTimeSignatures(forest []*ptf.Block, order binary.ByteOrder) ([]TimeSignature, error) {
	b, ok := topLevel(forest, contenttype.TimeSignatures)
	if !ok {
		return nil, nil
	}
	events, count, err := eventList(b, order, timeSignatureSize)
	if err != nil {
		return nil, err
	}
	out := make([]TimeSignature, 0, count)
	for i := 0; i < count; i++ {
		e := events[i*timeSignatureSize:]
		num := buf.U32(e[12:], order)
		den := buf.U32(e[16:], order)
		if num == 0 || den == 0 || num > 255 || den > 255 || den&(den-1) != 0 {
			return nil, malformed(b, "time signature %d/%d", num, den)
		}
		out = append(out, TimeSignature{
			Pos:         buf.U64(e, order),
			Measure:     buf.U32(e[8:], order),
			Numerator:   uint8(num),
			Denominator: uint8(den),
		})
	}
	return out, nil
}

// Tempo event layout:
//
//	34 bytes | u64 pos | 2 bytes | f64 tempo | u64 beat length | 1 byte
func readTempoChanges(forest []*ptf.Block, order binary.ByteOrder) ([]TempoChange, error) {
	b, ok := topLevel(forest, contenttype.TempoChanges)
	if !ok {
		return nil, nil
	}
	events, count, err := eventList(b, order, tempoChangeSize)
	if err != nil {
		return nil, err
	}
	out := make([]TempoChange, 0, count)
	for i := 0; i < count; i++ {
		e := events[i*tempoChangeSize:]
		tc := TempoChange{
			Pos:        buf.U64(e[34:], order),
			Tempo:      math.Float64frombits(buf.U64(e[44:], order)),
			BeatLength: buf.U64(e[52:], order),
		}
		if !(tc.Tempo >= minTempo && tc.Tempo <= maxTempo) || tc.BeatLength%beatLengthUnit != 0 {
			return nil, malformed(b, "tempo %.3f with beat length %d", tc.Tempo, tc.BeatLength)
		}
		out = append(out, tc)
	}
	return out, nil
}

func topLevel(forest []*ptf.Block, tag uint16) (*ptf.Block, bool) {
	for _, b := range forest {
		if b.ContentType == tag {
			return b, true
		}
	}
	return nil, false
}
