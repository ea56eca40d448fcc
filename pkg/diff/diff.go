// Package diff compares two block forests structurally and byte by byte.
//
// Blocks are paired by position: the children of two matched blocks are
// walked in lockstep and a pair is kept only when both content types agree.
// Pairs with diverging content types are dropped, so a block inserted or
// reordered in one revision desynchronises the rest of its level. Positions
// present on one side only are reported as added or removed together with
// their whole subtree.
package diff

import (
	"slices"

	"github.com/joshuapare/ptkit/pkg/ptf"
)

// GroupSize is the number of payload bytes compared as one run.
const GroupSize = 16

// Kind is the diff state of a record.
type Kind int

const (
	Unchanged Kind = iota // payloads identical
	Added                 // block only in the current forest
	Removed               // block only in the previous forest
	Modified              // payloads differ
)

func (k Kind) String() string {
	switch k {
	case Unchanged:
		return "unchanged"
	case Added:
		return "added"
	case Removed:
		return "removed"
	case Modified:
		return "modified"
	default:
		return "unknown"
	}
}

// Symbol returns the single-character marker used in text output.
func (k Kind) Symbol() string {
	switch k {
	case Added:
		return "+"
	case Removed:
		return "-"
	case Modified:
		return "~"
	default:
		return " "
	}
}

// Group is one run of up to GroupSize payload bytes that differs between
// the two sides.
type Group struct {
	// Offset is the start of the run relative to the payload start.
	Offset int
	// Prev and Curr are the run's bytes on each side; either may be shorter
	// than the run or empty when the payload ends early.
	Prev []byte
	Curr []byte
	// Diffs lists the payload-relative offsets that differ, ascending.
	Diffs []int
}

// Differs reports whether the payload byte at off is one of the run's differing bytes.
func (g Group) Differs(off int) bool {
	_, found := slices.BinarySearch(g.Diffs, off)
	return found
}

// Record is the comparison result for one tree position.
type Record struct {
	// Path holds the child index at each level, from the top-level forest down.
	Path  []int
	Depth int
	Prev  *ptf.Block
	Curr  *ptf.Block
	Kind  Kind
	// Groups lists the differing runs; empty for Unchanged records.
	Groups []Group
}

// Block returns the current side of the record, or the previous side for
// removed blocks.
func (r Record) Block() *ptf.Block {
	if r.Curr != nil {
		return r.Curr
	}
	return r.Prev
}

// ContentType returns the content type of the record's block.
func (r Record) ContentType() uint16 { return r.Block().ContentType }

// Compare diffs two forests. Records are returned in depth-first order of
// the matched tree.
func Compare(prev, curr []*ptf.Block) []Record {
	var out []Record
	compareLevel(prev, curr, nil, &out)
	return out
}

func compareLevel(prev, curr []*ptf.Block, path []int, out *[]Record) {
	n := max(len(prev), len(curr))
	for i := 0; i < n; i++ {
		p := at(prev, i)
		c := at(curr, i)
		pos := append(slices.Clip(path), i)
		switch {
		case p != nil && c != nil:
			if p.ContentType != c.ContentType {
				continue
			}
			groups := compareBytes(p.Data, c.Data)
			kind := Unchanged
			if len(groups) > 0 {
				kind = Modified
			}
			*out = append(*out, Record{Path: pos, Depth: len(path), Prev: p, Curr: c, Kind: kind, Groups: groups})
			compareLevel(p.Children, c.Children, pos, out)
		case p != nil:
			oneSided(p, Removed, pos, out)
		default:
			oneSided(c, Added, pos, out)
		}
	}
}

func at(blocks []*ptf.Block, i int) *ptf.Block {
	if i < len(blocks) {
		return blocks[i]
	}
	return nil
}

// oneSided records b and all of its descendants as added or removed.
func oneSided(b *ptf.Block, kind Kind, path []int, out *[]Record) {
	r := Record{Path: path, Depth: len(path) - 1, Kind: kind}
	if kind == Added {
		r.Curr = b
		r.Groups = compareBytes(nil, b.Data)
	} else {
		r.Prev = b
		r.Groups = compareBytes(b.Data, nil)
	}
	*out = append(*out, r)
	for i, c := range b.Children {
		oneSided(c, kind, append(slices.Clip(path), i), out)
	}
}

// compareBytes splits both payloads into GroupSize runs and returns the runs
// that differ. A byte present on one side only counts as differing.
func compareBytes(prev, curr []byte) []Group {
	n := max(len(prev), len(curr))
	var groups []Group
	for start := 0; start < n; start += GroupSize {
		end := min(start+GroupSize, n)
		var diffs []int
		for off := start; off < end; off++ {
			if off >= len(prev) || off >= len(curr) || prev[off] != curr[off] {
				diffs = append(diffs, off)
			}
		}
		if len(diffs) == 0 {
			continue
		}
		groups = append(groups, Group{
			Offset: start,
			Prev:   run(prev, start),
			Curr:   run(curr, start),
			Diffs:  diffs,
		})
	}
	return groups
}

func run(b []byte, start int) []byte {
	if start >= len(b) {
		return nil
	}
	end := min(start+GroupSize, len(b))
	return b[start:end:end]
}
