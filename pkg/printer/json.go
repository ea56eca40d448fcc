package printer

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/dgryski/go-farm"

	"github.com/joshuapare/ptkit/pkg/contenttype"
	"github.com/joshuapare/ptkit/pkg/ptf"
)

// jsonBlock represents a block in JSON format.
type jsonBlock struct {
	ContentType string      `json:"contentType"`
	Label       string      `json:"label"`
	Offset      int         `json:"offset"`
	Size        uint32      `json:"size"`
	Fingerprint string      `json:"fingerprint"`
	Decoded     bool        `json:"decoded,omitempty"`
	Data        string      `json:"data"`
	Children    []jsonBlock `json:"children,omitempty"`
}

// Fingerprint returns the stable 64-bit fingerprint of a payload as hex.
func Fingerprint(data []byte) string {
	return fmt.Sprintf("%016x", farm.Fingerprint64(data))
}

func (p *Printer) printBlocksJSON(forest []*ptf.Block) error {
	nodes := p.jsonBlocks(forest, 0)
	if nodes == nil {
		nodes = []jsonBlock{}
	}
	data, err := json.MarshalIndent(nodes, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(p.writer, "%s\n", data)
	return err
}

// jsonBlocks converts blocks at depth. Blocks excluded by the tag filter are
// replaced by their selected descendants.
func (p *Printer) jsonBlocks(blocks []*ptf.Block, depth int) []jsonBlock {
	var out []jsonBlock
	for _, b := range blocks {
		var children []jsonBlock
		if p.descend(depth + 1) {
			children = p.jsonBlocks(b.Children, depth+1)
		}
		if !p.selected(b.ContentType) {
			out = append(out, children...)
			continue
		}
		data, decoded := p.payload(b)
		out = append(out, jsonBlock{
			ContentType: fmt.Sprintf("0x%04x", b.ContentType),
			Label:       contenttype.Label(b.ContentType),
			Offset:      b.Offset,
			Size:        b.Size,
			Fingerprint: Fingerprint(data),
			Decoded:     decoded,
			Data:        hex.EncodeToString(data),
			Children:    children,
		})
	}
	return out
}
