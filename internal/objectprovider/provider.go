// Package objectprovider implements the Object/Diff Provider (spec.md §4.1):
// a narrow, side-effect-free, thread-safe facade over a git object
// database, backed by github.com/go-git/go-git/v5 the way hercules's
// internal/plumbing package is backed by gopkg.in/src-d/go-git.v4.
package objectprovider

import (
	"time"

	"github.com/go-git/go-git/v5/plumbing"

	"github.com/amedeedaboville/gix-of-theseus/internal/blame"
)

// Commit mirrors spec.md §3's Commit entity: an opaque id, a UTC committer
// timestamp, and an ordered parent list with the first parent distinguished.
type Commit struct {
	ID        plumbing.Hash
	When      time.Time
	ParentIDs []plumbing.Hash
}

// FirstParent returns the distinguished parent id, or the zero hash if
// this is a root commit.
func (c Commit) FirstParent() plumbing.Hash {
	if len(c.ParentIDs) == 0 {
		return plumbing.ZeroHash
	}
	return c.ParentIDs[0]
}

// Predicate is the caller-supplied path filter applied last, after
// submodule/symlink/binary exclusion (spec.md §4.1, tree_files).
type Predicate func(path string) bool

// AcceptAll is the default predicate: every non-binary text file.
func AcceptAll(string) bool { return true }

// Provider is the read-only interface consumed by the History Walker.
// Every method must be safe to call from multiple goroutines concurrently
// (spec.md §5, "The object provider must be safe to call from multiple
// worker threads concurrently").
type Provider interface {
	// ListCommits returns all ancestors of head (reached by following every
	// parent edge, not just first-parent), in no particular order; the
	// History Walker is responsible for linearizing them (spec.md §4.3).
	ListCommits(head string) ([]Commit, error)

	// TreeFiles returns the recursive path -> blob id listing for commit,
	// with symlinks and submodules skipped, binary blobs excluded, and
	// predicate applied last (spec.md §4.1).
	TreeFiles(commit plumbing.Hash, predicate Predicate) (map[string]plumbing.Hash, error)

	// BlobLines returns the blob's line count per spec.md §4.1's counting
	// rule (newlines, plus one if the blob is non-empty and does not end
	// in a newline; zero for an empty blob).
	BlobLines(blob plumbing.Hash) (int, error)

	// Diff returns the minimal, non-overlapping, OldStart-sorted hunk list
	// describing how old transforms into new. old == new short-circuits to
	// an empty slice.
	Diff(path string, old, new plumbing.Hash) ([]blame.Hunk, error)
}
