package revision

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/opencontainers/go-digest"
)

// lockRetry is how often a contended snapshot lock is retried.
const lockRetry = 50 * time.Millisecond

// SnapshotResult describes what Snapshot did.
type SnapshotResult struct {
	// Archived reports whether a new revision was written.
	Archived bool
	// Revision is the written revision, or the newest existing one when
	// nothing was written.
	Revision *Candidate
	// Previous is the newest revision before the snapshot, if any.
	Previous *Candidate
	// Digest is the digest of the raw session bytes.
	Digest digest.Digest
}

// Snapshot archives the session at path as a new numbered revision when its
// cleartext differs from the newest existing revision, or when no revision
// exists yet. An identical newest revision means nothing is written, however
// older revisions compare. The archive is a byte-for-byte copy of the raw
// file.
//
// Concurrent snapshots of the same session are serialised with a lock file
// next to the session.
func Snapshot(ctx context.Context, path string) (*SnapshotResult, error) {
	n := splitName(path)
	lock := flock.New(n.lockPath())
	locked, err := lock.TryLockContext(ctx, lockRetry)
	if err != nil {
		return nil, fmt.Errorf("revision: lock %s: %w", n.lockPath(), err)
	}
	if !locked {
		return nil, fmt.Errorf("revision: lock %s: not acquired", n.lockPath())
	}
	defer lock.Unlock()

	current, err := openCleartext(ctx, path)
	if err != nil {
		return nil, err
	}
	defer current.Close()

	res := &SnapshotResult{Digest: digest.FromBytes(current.Raw())}
	prev, ok, err := FindPrevious(path)
	if err != nil {
		return nil, err
	}
	next := 1
	if ok {
		res.Previous = &prev
		next = prev.Number + 1

		previous, err := openCleartext(ctx, prev.Path)
		if err != nil {
			return nil, err
		}
		same := sameCleartext(current, previous)
		_ = previous.Close()
		if same {
			res.Revision = &prev
			return res, nil
		}
	}

	target := n.revisionPath(next)
	if err := copyFile(target, current.Raw()); err != nil {
		return nil, err
	}
	res.Archived = true
	res.Revision = &Candidate{Path: target, Number: next}
	return res, nil
}

// copyFile writes data to a temporary file beside target and renames it into
// place. An existing target is never overwritten.
func copyFile(target string, data []byte) error {
	if _, err := os.Lstat(target); err == nil {
		return fmt.Errorf("revision: %s already exists", target)
	}
	tmp, err := os.CreateTemp(filepath.Dir(target), "."+filepath.Base(target)+".*.tmp")
	if err != nil {
		return fmt.Errorf("revision: create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("revision: write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("revision: sync %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("revision: close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return fmt.Errorf("revision: rename to %s: %w", target, err)
	}
	return nil
}
