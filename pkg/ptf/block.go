package ptf

import "github.com/joshuapare/ptkit/internal/format"

// Block is one node of a session's block forest.
//
// Data and Children borrow from the Reader's cleartext buffer; they stay
// valid after Close but must not be modified.
type Block = format.Block

// Find returns every block in forest, at any depth, whose content type is tag.
// Blocks are returned in depth-first order.
func Find(forest []*Block, tag uint16) []*Block {
	var out []*Block
	for _, root := range forest {
		root.Walk(func(b *Block, _ int) bool {
			if b.ContentType == tag {
				out = append(out, b)
			}
			return true
		})
	}
	return out
}

// First returns the first block with content type tag in depth-first order.
func First(forest []*Block, tag uint16) (*Block, bool) {
	var found *Block
	for _, root := range forest {
		root.Walk(func(b *Block, _ int) bool {
			if found != nil {
				return false
			}
			if b.ContentType == tag {
				found = b
				return false
			}
			return true
		})
		if found != nil {
			return found, true
		}
	}
	return nil, false
}

// Count returns the number of blocks in forest, descendants included.
func Count(forest []*Block) int {
	n := 0
	for _, root := range forest {
		root.Walk(func(*Block, int) bool {
			n++
			return true
		})
	}
	return n
}
