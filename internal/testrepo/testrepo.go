// Package testrepo builds small, fully in-memory git repositories for
// exercising the engine end to end. It constructs blobs, trees and commits
// directly against a memory.Storage the way go-git's own
// plumbing/object tests do, rather than driving a Worktree checkout,
// because the end-to-end fixtures need exact control over commit
// timestamps, parent lists (including merge commits with two parents) and
// file contents that a Worktree-based flow cannot give without first
// checking out every intermediate state.
package testrepo

import (
	"sort"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/memory"
)

// Author is the signature used for every commit built by this package; its
// identity is irrelevant to the engine, only commit timestamps matter.
var Author = object.Signature{Name: "tester", Email: "tester@example.com"}

// Repo wraps an in-memory repository under construction.
type Repo struct {
	Storage *memory.Storage
	Repo    *git.Repository
	head    plumbing.Hash
}

// New creates an empty in-memory repository with no commits yet.
func New() *Repo {
	storer := memory.NewStorage()
	repo, err := git.Init(storer, nil)
	if err != nil {
		panic(err)
	}
	return &Repo{Storage: storer, Repo: repo}
}

// writeBlob stores contents as a blob and returns its hash.
func (r *Repo) writeBlob(contents string) plumbing.Hash {
	obj := r.Storage.NewEncodedObject()
	obj.SetType(plumbing.BlobObject)
	w, err := obj.Writer()
	if err != nil {
		panic(err)
	}
	if _, err := w.Write([]byte(contents)); err != nil {
		panic(err)
	}
	if err := w.Close(); err != nil {
		panic(err)
	}
	hash, err := r.Storage.SetEncodedObject(obj)
	if err != nil {
		panic(err)
	}
	return hash
}

// writeTree stores a flat (single-directory) tree of the given path ->
// contents map and returns its hash. The fixtures this package supports
// never need subdirectories.
func (r *Repo) writeTree(files map[string]string) plumbing.Hash {
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	tree := object.Tree{}
	for _, name := range names {
		tree.Entries = append(tree.Entries, object.TreeEntry{
			Name: name,
			Mode: filemode.Regular,
			Hash: r.writeBlob(files[name]),
		})
	}
	obj := r.Storage.NewEncodedObject()
	if err := tree.Encode(obj); err != nil {
		panic(err)
	}
	hash, err := r.Storage.SetEncodedObject(obj)
	if err != nil {
		panic(err)
	}
	return hash
}

// Commit records a new commit whose full working-tree content is files
// (a flat path -> contents map) and whose parents are parents (nil or
// empty for a root commit, two hashes for a merge commit), at the given
// time. It becomes the new HEAD.
func (r *Repo) Commit(files map[string]string, parents []plumbing.Hash, when time.Time) plumbing.Hash {
	sig := Author
	sig.When = when
	commit := &object.Commit{
		Author:       sig,
		Committer:    sig,
		Message:      "test commit",
		TreeHash:     r.writeTree(files),
		ParentHashes: parents,
	}
	obj := r.Storage.NewEncodedObject()
	if err := commit.Encode(obj); err != nil {
		panic(err)
	}
	hash, err := r.Storage.SetEncodedObject(obj)
	if err != nil {
		panic(err)
	}
	r.head = hash
	ref := plumbing.NewHashReference(plumbing.HEAD, hash)
	if err := r.Storage.SetReference(ref); err != nil {
		panic(err)
	}
	return hash
}

// Head returns the current HEAD hash as a string, suitable for
// objectprovider.Provider.ListCommits.
func (r *Repo) Head() string {
	return r.head.String()
}
