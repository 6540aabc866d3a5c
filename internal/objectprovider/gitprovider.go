package objectprovider

import (
	"io"
	"path"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/pkg/errors"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/amedeedaboville/gix-of-theseus/internal/blame"
)

// defaultSkippedPrefixes mirrors hercules's TreeDiff.defaultBlacklistedPrefixes:
// directories whose content is vendored or generated and not worth
// attributing to a human-authored cohort.
var defaultSkippedPrefixes = []string{
	"vendor/",
	"vendors/",
	"node_modules/",
}

// GitProvider implements Provider against a github.com/go-git/go-git/v5
// repository. All methods are safe for concurrent use: the blob cache is
// mutex-guarded and go-git's Repository/Storer reads are safe to call
// concurrently for a read-only PlainOpen repository.
type GitProvider struct {
	repo  *git.Repository
	blobs *blobCache
}

// NewGitProvider opens repoPath (a working directory containing a git
// object database) and returns a ready-to-use Provider.
func NewGitProvider(repoPath string) (*GitProvider, error) {
	repo, err := git.PlainOpen(repoPath)
	if err != nil {
		return nil, errors.Wrapf(err, "opening repository at %s", repoPath)
	}
	return NewGitProviderFromRepo(repo), nil
}

// NewGitProviderFromRepo wraps an already-open repository (e.g. an
// in-memory one built for tests) as a Provider.
func NewGitProviderFromRepo(repo *git.Repository) *GitProvider {
	gp := &GitProvider{repo: repo}
	gp.blobs = newBlobCache(func(id plumbing.Hash) (*object.Blob, error) {
		return gp.repo.BlobObject(id)
	})
	return gp
}

// ListCommits returns every ancestor of head (all parent edges followed,
// not just first-parent), so the History Walker can build the full commit
// DAG and linearize it itself (spec.md §4.3).
func (gp *GitProvider) ListCommits(head string) ([]Commit, error) {
	headHash, err := gp.resolve(head)
	if err != nil {
		return nil, err
	}
	visited := map[plumbing.Hash]bool{}
	var commits []Commit
	queue := []plumbing.Hash{headHash}
	for len(queue) > 0 {
		h := queue[0]
		queue = queue[1:]
		if visited[h] {
			continue
		}
		visited[h] = true
		co, err := gp.repo.CommitObject(h)
		if err != nil {
			return nil, errors.Wrapf(err, "commit %s", h)
		}
		parents := make([]plumbing.Hash, len(co.ParentHashes))
		copy(parents, co.ParentHashes)
		commits = append(commits, Commit{
			ID:        co.Hash,
			When:      co.Committer.When.UTC(),
			ParentIDs: parents,
		})
		queue = append(queue, parents...)
	}
	if len(commits) == 0 {
		return nil, errors.New("no commits reachable from head")
	}
	return commits, nil
}

func (gp *GitProvider) resolve(head string) (plumbing.Hash, error) {
	if head == "" {
		ref, err := gp.repo.Head()
		if err != nil {
			return plumbing.ZeroHash, errors.Wrap(err, "resolving HEAD")
		}
		return ref.Hash(), nil
	}
	h, err := gp.repo.ResolveRevision(plumbing.Revision(head))
	if err != nil {
		return plumbing.ZeroHash, errors.Wrapf(err, "resolving revision %s", head)
	}
	return *h, nil
}

// TreeFiles lists every regular (non-symlink, non-submodule) blob reachable
// from commit's tree, skipping binary blobs and defaultSkippedPrefixes,
// with predicate applied last.
func (gp *GitProvider) TreeFiles(commit plumbing.Hash, predicate Predicate) (map[string]plumbing.Hash, error) {
	if predicate == nil {
		predicate = AcceptAll
	}
	co, err := gp.repo.CommitObject(commit)
	if err != nil {
		return nil, errors.Wrapf(err, "commit %s", commit)
	}
	tree, err := co.Tree()
	if err != nil {
		return nil, errors.Wrapf(err, "tree of commit %s", commit)
	}
	result := map[string]plumbing.Hash{}
	walker := object.NewTreeWalker(tree, true, nil)
	defer walker.Close()
	for {
		name, entry, err := walker.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "walking tree of commit %s", commit)
		}
		if entry.Mode == filemode.Dir || entry.Mode == filemode.Submodule || entry.Mode == filemode.Symlink {
			continue
		}
		if isSkippedPath(name) {
			continue
		}
		cb, err := gp.blobs.get(entry.Hash)
		if err != nil {
			return nil, errors.Wrapf(err, "reading blob for %s", name)
		}
		if cb.err != nil {
			continue // binary or otherwise excluded; not a fatal error
		}
		if !predicate(name) {
			continue
		}
		result[name] = entry.Hash
	}
	return result, nil
}

func isSkippedPath(name string) bool {
	for _, prefix := range defaultSkippedPrefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	base := path.Base(name)
	return base == "package-lock.json"
}

// BlobLines returns blob's line count per spec.md §4.1.
func (gp *GitProvider) BlobLines(blob plumbing.Hash) (int, error) {
	cb, err := gp.blobs.get(blob)
	if err != nil {
		return 0, err
	}
	if cb.err != nil {
		return 0, cb.err
	}
	return cb.lines, nil
}

// Diff returns the line-level hunk list between old and new, computed with
// diffmatchpatch.DiffLinesToRunes + DiffMainRunes, the same dependency hercules
// uses in internal/plumbing/diff.go and burndown.go.
func (gp *GitProvider) Diff(filePath string, old, new plumbing.Hash) ([]blame.Hunk, error) {
	if old == new {
		return nil, nil
	}
	oldBlob, err := gp.blobs.get(old)
	if err != nil {
		return nil, errors.Wrapf(err, "diffing %s", filePath)
	}
	newBlob, err := gp.blobs.get(new)
	if err != nil {
		return nil, errors.Wrapf(err, "diffing %s", filePath)
	}
	dmp := diffmatchpatch.New()
	// not validating UTF-8 here: some real-world source files are not
	// valid UTF-8, and treating them as opaque runes still produces a
	// usable line-level diff, matching hercules's rationale in burndown.go.
	srcRunes, dstRunes, lineArray := dmp.DiffLinesToRunes(string(oldBlob.data), string(newBlob.data))
	_ = lineArray
	diffs := dmp.DiffMainRunes(srcRunes, dstRunes, false)
	return linesToHunks(diffs), nil
}
