package printer

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/joshuapare/ptkit/pkg/contenttype"
	"github.com/joshuapare/ptkit/pkg/diff"
)

// PrintDiff prints diff records. Records are printed as given; filter them
// with diff.Filter first.
func (p *Printer) PrintDiff(records []diff.Record) error {
	switch p.opts.Format {
	case FormatJSON:
		return p.printDiffJSON(records)
	default:
		return p.printDiffText(records)
	}
}

func (p *Printer) printDiffText(records []diff.Record) error {
	var sb strings.Builder
	for _, r := range records {
		p.writeRecord(&sb, r)
	}
	_, err := fmt.Fprint(p.writer, sb.String())
	return err
}

func (p *Printer) kindStyle(k diff.Kind) func(string) string {
	switch k {
	case diff.Added:
		return func(s string) string { return p.styles.render(p.styles.added, s) }
	case diff.Removed:
		return func(s string) string { return p.styles.render(p.styles.removed, s) }
	case diff.Modified:
		return func(s string) string { return p.styles.render(p.styles.modified, s) }
	default:
		return func(s string) string { return s }
	}
}

func (p *Printer) writeRecord(sb *strings.Builder, r diff.Record) {
	indent := strings.Repeat(" ", r.Depth*p.opts.IndentSize)
	b := r.Block()
	at := fmt.Sprintf("%d", b.Offset)
	if r.Prev != nil && r.Curr != nil && r.Prev.Offset != r.Curr.Offset {
		at = fmt.Sprintf("%d -> %d", r.Prev.Offset, r.Curr.Offset)
	}
	head := fmt.Sprintf("%s %s(0x%04x) at %s", r.Kind.Symbol(), contenttype.Label(b.ContentType), b.ContentType, at)
	sb.WriteString(indent)
	sb.WriteString(p.kindStyle(r.Kind)(head))
	sb.WriteByte('\n')

	for _, g := range r.Groups {
		if len(g.Prev) > 0 {
			p.writeRow(sb, indent, "-", g, g.Prev, p.styles.removed)
		}
		if len(g.Curr) > 0 {
			p.writeRow(sb, indent, "+", g, g.Curr, p.styles.added)
		}
		if !p.styles.enabled && r.Kind == diff.Modified {
			p.writeCarets(sb, indent, g)
		}
	}
}

// writeRow writes one side of a group as a hex row with the differing bytes
// highlighted.
func (p *Printer) writeRow(sb *strings.Builder, indent, sym string, g diff.Group, row []byte, st lipgloss.Style) {
	fmt.Fprintf(sb, "%s  %s %04x: ", indent, sym, g.Offset)
	for i, c := range row {
		cell := fmt.Sprintf("%02x", c)
		if g.Differs(g.Offset + i) {
			cell = p.styles.render(st.Inherit(p.styles.changed), cell)
		}
		sb.WriteString(cell)
		sb.WriteByte(' ')
	}
	sb.WriteString(strings.Repeat("   ", RowSize-len(row)))
	sb.WriteString(asciiBytes(row))
	sb.WriteByte('\n')
}

// writeCarets marks the differing bytes of a group when color is off.
func (p *Printer) writeCarets(sb *strings.Builder, indent string, g diff.Group) {
	width := len(fmt.Sprintf("  - %04x: ", g.Offset))
	marks := make([]string, 0, RowSize)
	for i := 0; i < RowSize; i++ {
		if g.Differs(g.Offset + i) {
			marks = append(marks, "^^")
		} else {
			marks = append(marks, "  ")
		}
	}
	line := strings.TrimRight(strings.Join(marks, " "), " ")
	fmt.Fprintf(sb, "%s%s%s\n", indent, strings.Repeat(" ", width), line)
}

type jsonDiff struct {
	Summary jsonSummary  `json:"summary"`
	Records []jsonRecord `json:"records"`
}

type jsonSummary struct {
	Unchanged int `json:"unchanged"`
	Modified  int `json:"modified"`
	Added     int `json:"added"`
	Removed   int `json:"removed"`
}

type jsonRecord struct {
	Kind        string      `json:"kind"`
	Path        []int       `json:"path"`
	ContentType string      `json:"contentType"`
	Label       string      `json:"label"`
	PrevOffset  *int        `json:"prevOffset,omitempty"`
	CurrOffset  *int        `json:"currOffset,omitempty"`
	Groups      []jsonGroup `json:"groups,omitempty"`
}

type jsonGroup struct {
	Offset int    `json:"offset"`
	Prev   string `json:"prev"`
	Curr   string `json:"curr"`
	Diffs  []int  `json:"diffs"`
}

func (p *Printer) printDiffJSON(records []diff.Record) error {
	s := diff.Summarize(records)
	out := jsonDiff{
		Summary: jsonSummary{Unchanged: s.Unchanged, Modified: s.Modified, Added: s.Added, Removed: s.Removed},
		Records: make([]jsonRecord, 0, len(records)),
	}
	for _, r := range records {
		jr := jsonRecord{
			Kind:        r.Kind.String(),
			Path:        r.Path,
			ContentType: fmt.Sprintf("0x%04x", r.ContentType()),
			Label:       contenttype.Label(r.ContentType()),
		}
		if r.Prev != nil {
			off := r.Prev.Offset
			jr.PrevOffset = &off
		}
		if r.Curr != nil {
			off := r.Curr.Offset
			jr.CurrOffset = &off
		}
		for _, g := range r.Groups {
			jr.Groups = append(jr.Groups, jsonGroup{
				Offset: g.Offset,
				Prev:   hex.EncodeToString(g.Prev),
				Curr:   hex.EncodeToString(g.Curr),
				Diffs:  g.Diffs,
			})
		}
		out.Records = append(out.Records, jr)
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(p.writer, "%s\n", data)
	return err
}
