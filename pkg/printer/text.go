package printer

import (
	"fmt"
	"strings"

	"github.com/joshuapare/ptkit/pkg/contenttype"
	"github.com/joshuapare/ptkit/pkg/ptf"
)

func (p *Printer) printBlocksText(forest []*ptf.Block) error {
	for _, b := range forest {
		if err := p.printBlockText(b, 0); err != nil {
			return err
		}
	}
	return nil
}

func (p *Printer) printBlockText(b *ptf.Block, depth int) error {
	if p.selected(b.ContentType) {
		indent := strings.Repeat(" ", depth*p.opts.IndentSize)
		if _, err := fmt.Fprintf(p.writer, "%s%s(0x%04x) at %d\n", indent, contenttype.Label(b.ContentType), b.ContentType, b.Offset); err != nil {
			return err
		}
		data, _ := p.payload(b)
		for off := 0; off < len(data); off += RowSize {
			row := data[off:min(off+RowSize, len(data))]
			if _, err := fmt.Fprintf(p.writer, "%s%s%s\n", indent, hexBytes(row), asciiBytes(row)); err != nil {
				return err
			}
		}
	}
	if !p.descend(depth + 1) {
		return nil
	}
	for _, c := range b.Children {
		if err := p.printBlockText(c, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// hexBytes formats each byte as two hex digits followed by a space.
func hexBytes(row []byte) string {
	var sb strings.Builder
	sb.Grow(len(row) * 3)
	for _, c := range row {
		fmt.Fprintf(&sb, "%02x ", c)
	}
	return sb.String()
}

// asciiBytes renders printable bytes as themselves and everything else as '.'.
func asciiBytes(row []byte) string {
	out := make([]byte, len(row))
	for i, c := range row {
		out[i] = printable(c)
	}
	return string(out)
}

func printable(c byte) byte {
	if c > 32 && c < 128 {
		return c
	}
	return '.'
}
