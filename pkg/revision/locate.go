// Package revision locates numbered revisions of a session file and archives
// new ones.
//
// Revisions live next to the session they belong to and are named
// <base>_<NN>.<ext>: song.ptx is archived as song_01.ptx, song_02.ptx and so
// on. NN is one or more decimal digits; new revisions are written with at
// least two.
package revision

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/karrick/godirwalk"
	"github.com/tidwall/btree"
)

// Candidate is one numbered revision file.
type Candidate struct {
	Path   string
	Number int
}

func (c Candidate) String() string {
	return fmt.Sprintf("%s (#%d)", filepath.Base(c.Path), c.Number)
}

// name splits a session path into directory, base name and extension.
type name struct {
	dir  string
	base string
	ext  string
}

func splitName(path string) name {
	file := filepath.Base(path)
	ext := filepath.Ext(file)
	return name{
		dir:  filepath.Dir(path),
		base: strings.TrimSuffix(file, ext),
		ext:  ext,
	}
}

func (n name) pattern() *regexp.Regexp {
	return regexp.MustCompile("^" + regexp.QuoteMeta(n.base) + `_([0-9]+)` + regexp.QuoteMeta(n.ext) + "$")
}

// revisionPath returns the path of revision number num.
func (n name) revisionPath(num int) string {
	return filepath.Join(n.dir, fmt.Sprintf("%s_%02d%s", n.base, num, n.ext))
}

func (n name) lockPath() string {
	return filepath.Join(n.dir, "."+n.base+".lock")
}

func candidateLess(a, b Candidate) bool {
	if a.Number != b.Number {
		return a.Number < b.Number
	}
	return a.Path < b.Path
}

// index lists the revisions of path ordered by number.
func index(path string) (*btree.BTreeG[Candidate], error) {
	n := splitName(path)
	dirents, err := godirwalk.ReadDirents(n.dir, nil)
	if err != nil {
		return nil, fmt.Errorf("revision: list %s: %w", n.dir, err)
	}
	re := n.pattern()
	tree := btree.NewBTreeGOptions(candidateLess, btree.Options{NoLocks: true})
	for _, de := range dirents {
		if de.IsDir() {
			continue
		}
		m := re.FindStringSubmatch(de.Name())
		if m == nil {
			continue
		}
		num, err := strconv.Atoi(m[1])
		if err != nil {
			continue // too many digits
		}
		tree.Set(Candidate{Path: filepath.Join(n.dir, de.Name()), Number: num})
	}
	return tree, nil
}

// Candidates returns the revisions of the session at path, oldest first.
func Candidates(path string) ([]Candidate, error) {
	tree, err := index(path)
	if err != nil {
		return nil, err
	}
	out := make([]Candidate, 0, tree.Len())
	tree.Scan(func(c Candidate) bool {
		out = append(out, c)
		return true
	})
	return out, nil
}

// FindPrevious returns the newest revision of the session at path.
func FindPrevious(path string) (Candidate, bool, error) {
	tree, err := index(path)
	if err != nil {
		return Candidate{}, false, err
	}
	c, ok := tree.Max()
	return c, ok, nil
}

// newest returns up to n revisions, newest first.
func newest(path string, n int) ([]Candidate, error) {
	tree, err := index(path)
	if err != nil {
		return nil, err
	}
	out := make([]Candidate, 0, n)
	tree.Reverse(func(c Candidate) bool {
		out = append(out, c)
		return len(out) < n
	})
	return out, nil
}
