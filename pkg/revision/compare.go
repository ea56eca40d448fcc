package revision

import (
	"bytes"
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/joshuapare/ptkit/pkg/ptf"
)

// Comparison is the result of comparing a session with its newest revision.
type Comparison struct {
	Current *ptf.Reader
	// Previous is nil when the session has no revisions.
	Previous *ptf.Reader
	// Candidate is the revision opened as Previous.
	Candidate *Candidate
	// Changed reports whether the cleartexts of Current and Previous differ.
	// It is true when there is no revision to compare against.
	Changed bool
	// FellBack is set when the newest revision matched the session exactly and
	// the next older one was opened instead.
	FellBack bool
}

// Close releases both readers.
func (c *Comparison) Close() error {
	var err error
	if c.Previous != nil {
		err = c.Previous.Close()
	}
	if cerr := c.Current.Close(); err == nil {
		err = cerr
	}
	return err
}

// Compare opens the session at path and its newest revision and compares
// their cleartexts. When they are identical the next older revision, if any,
// is compared instead; there is at most one fallback. The caller must Close
// the returned Comparison.
func Compare(ctx context.Context, path string) (*Comparison, error) {
	cands, err := newest(path, 2)
	if err != nil {
		return nil, err
	}

	var current, previous *ptf.Reader
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		current, err = openCleartext(gctx, path)
		return err
	})
	if len(cands) > 0 {
		g.Go(func() error {
			var err error
			previous, err = openCleartext(gctx, cands[0].Path)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		closeAll(current, previous)
		return nil, err
	}

	cmp := &Comparison{Current: current, Changed: true}
	if previous == nil {
		return cmp, nil
	}
	cmp.Previous, cmp.Candidate = previous, &cands[0]
	cmp.Changed = !sameCleartext(current, previous)
	if cmp.Changed || len(cands) < 2 {
		return cmp, nil
	}

	older, err := openCleartext(ctx, cands[1].Path)
	if err != nil {
		_ = cmp.Close()
		return nil, err
	}
	_ = previous.Close()
	cmp.Previous, cmp.Candidate = older, &cands[1]
	cmp.FellBack = true
	cmp.Changed = !sameCleartext(current, older)
	return cmp, nil
}

// openCleartext opens path and decodes its cleartext.
func openCleartext(ctx context.Context, path string) (*ptf.Reader, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r, err := ptf.Open(path)
	if err != nil {
		return nil, err
	}
	if _, err := r.Cleartext(); err != nil {
		_ = r.Close()
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return r, nil
}

func sameCleartext(a, b *ptf.Reader) bool {
	ca, _ := a.Cleartext()
	cb, _ := b.Cleartext()
	return bytes.Equal(ca, cb)
}

func closeAll(readers ...*ptf.Reader) {
	for _, r := range readers {
		if r != nil {
			_ = r.Close()
		}
	}
}
