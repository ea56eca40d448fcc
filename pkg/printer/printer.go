// Package printer renders block forests and diff records as text or JSON.
package printer

import (
	"io"
	"slices"

	"github.com/joshuapare/ptkit/pkg/contenttype"
	"github.com/joshuapare/ptkit/pkg/ptf"
)

const (
	DefaultIndentSize = 4
	DefaultMaxDepth   = 0

	// RowSize is the number of payload bytes per hex row.
	RowSize = 16
)

// Format specifies the output format for printing.
type Format string

const (
	// FormatText outputs indented hex and ASCII rows.
	FormatText Format = "text"

	// FormatJSON outputs nested JSON objects.
	FormatJSON Format = "json"
)

// Options controls printing behavior.
type Options struct {
	// Format specifies output format (text, json).
	// Default: FormatText
	Format Format

	// Tags limits output to blocks with these content types. The children of
	// a skipped block are still visited. Empty prints every block.
	Tags []uint16

	// NoTransform prints raw payloads even when a post-processor is
	// registered for the content type.
	NoTransform bool

	// IndentSize is the number of spaces per nesting level (text format only).
	// Default: 4
	IndentSize int

	// MaxDepth limits recursion depth (0 = unlimited).
	MaxDepth int

	// Color highlights differing bytes in diff output.
	Color bool
}

// DefaultOptions returns the options used by the CLI.
func DefaultOptions() Options {
	return Options{
		Format:     FormatText,
		IndentSize: DefaultIndentSize,
		MaxDepth:   DefaultMaxDepth,
	}
}

// Printer writes formatted blocks and diffs to a writer.
type Printer struct {
	opts   Options
	writer io.Writer
	styles styles
}

// New creates a Printer writing to w.
//
// Example:
//
//	r, _ := ptf.Open("song.ptx")
//	blocks, _ := r.Blocks()
//	p := printer.New(os.Stdout, printer.DefaultOptions())
//	p.PrintBlocks(blocks)
func New(w io.Writer, opts Options) *Printer {
	if opts.IndentSize <= 0 {
		opts.IndentSize = DefaultIndentSize
	}
	return &Printer{
		opts:   opts,
		writer: w,
		styles: newStyles(opts.Color),
	}
}

// PrintBlocks prints a block forest.
func (p *Printer) PrintBlocks(forest []*ptf.Block) error {
	switch p.opts.Format {
	case FormatJSON:
		return p.printBlocksJSON(forest)
	default:
		return p.printBlocksText(forest)
	}
}

func (p *Printer) selected(tag uint16) bool {
	return len(p.opts.Tags) == 0 || slices.Contains(p.opts.Tags, tag)
}

// descend reports whether children at depth should be visited.
func (p *Printer) descend(depth int) bool {
	return p.opts.MaxDepth <= 0 || depth < p.opts.MaxDepth
}

// payload returns the bytes to display for b and whether a post-processor
// produced them.
func (p *Printer) payload(b *ptf.Block) ([]byte, bool) {
	if !p.opts.NoTransform {
		if out, ok := contenttype.PostProcess(b.ContentType, b.Data); ok {
			return out, true
		}
	}
	return b.Data, false
}
