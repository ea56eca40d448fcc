package diff

import "slices"

// Options selects which records are presented.
type Options struct {
	// OnlyChanged drops Unchanged records.
	OnlyChanged bool
	// Tags keeps only records whose block has one of these content types.
	// Empty keeps every record.
	Tags []uint16
}

// Filter returns the records selected by opts. Filtering happens after
// comparison, so it never changes how blocks are paired.
func Filter(records []Record, opts Options) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if opts.OnlyChanged && r.Kind == Unchanged {
			continue
		}
		if len(opts.Tags) > 0 && !slices.Contains(opts.Tags, r.ContentType()) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Summary counts records by kind.
type Summary struct {
	Unchanged int
	Modified  int
	Added     int
	Removed   int
}

// Changed reports whether any record is not Unchanged.
func (s Summary) Changed() bool {
	return s.Modified+s.Added+s.Removed > 0
}

// Summarize counts records by kind.
func Summarize(records []Record) Summary {
	var s Summary
	for _, r := range records {
		switch r.Kind {
		case Unchanged:
			s.Unchanged++
		case Modified:
			s.Modified++
		case Added:
			s.Added++
		case Removed:
			s.Removed++
		}
	}
	return s
}
