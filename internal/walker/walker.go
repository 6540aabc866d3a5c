// Package walker implements the History Walker (spec.md §4.3): it
// linearizes the commit DAG into a commit-date-ordered topological walk,
// drives incremental blame propagation along first-parent edges, decides
// which commits produce samples, and manages parent blame-state lifetimes
// via reference counting.
//
// The orchestration shape - a single-threaded driver that fans per-file
// work out to a shared pool and waits at a commit barrier - mirrors
// hercules's core.Pipeline.Run() loop (internal/core/pipeline.go), which
// drives one PipelineItem.Consume() per commit in sequence. Here the
// "items" are per-file derive tasks instead of a fixed PipelineItem list.
package walker

import (
	"sort"
	"time"

	"github.com/go-git/go-git/v5/plumbing"

	"github.com/amedeedaboville/gix-of-theseus/internal/blame"
	"github.com/amedeedaboville/gix-of-theseus/internal/dag"
	"github.com/amedeedaboville/gix-of-theseus/internal/engineerr"
	"github.com/amedeedaboville/gix-of-theseus/internal/objectprovider"
	"github.com/amedeedaboville/gix-of-theseus/internal/pool"
)

// Sample is a (timestamp, {cohort -> line count}) pair emitted at a
// sampled commit (spec.md §3).
type Sample struct {
	When   time.Time
	Counts map[blame.Cohort]int64
}

// Options configures a Walker.
type Options struct {
	// Predicate is the caller's path filter (spec.md §6); nil means accept
	// all non-binary files.
	Predicate objectprovider.Predicate
	// WorkerPoolSize sizes the per-file parallel fan-out; 0 means
	// runtime.NumCPU().
	WorkerPoolSize int
	// Debug enables the blame.FileBlame.Validate() invariant checks after
	// every derive, the way hercules gates File.Validate() behind
	// BurndownAnalysis.Debug.
	Debug bool
	// Cancel, if non-nil, is checked at commit boundaries and before each
	// per-file task dispatch (spec.md §5's cooperative cancellation).
	Cancel <-chan struct{}
	// OnProgress, if non-nil, is called once per processed commit with its
	// 0-based index and the total commit count, the way hercules's
	// Pipeline.OnProgress hook drives cmd/hercules's progress bar.
	OnProgress func(processed, total int)
}

// Walker drives the incremental blame traversal described in spec.md §4.3.
type Walker struct {
	provider objectprovider.Provider
	pool     *pool.Pool
	opts     Options
}

// New builds a Walker over provider with the given options.
func New(provider objectprovider.Provider, opts Options) *Walker {
	if opts.Predicate == nil {
		opts.Predicate = objectprovider.AcceptAll
	}
	return &Walker{
		provider: provider,
		pool:     pool.New(opts.WorkerPoolSize),
		opts:     opts,
	}
}

// Close releases the Walker's worker pool.
func (w *Walker) Close() { w.pool.Close() }

// resident is the in-memory bookkeeping for one commit's blame state while
// at least one child still needs it as a first parent (spec.md §3's
// Lifecycle: "exists in memory only while at least one unprocessed child
// still needs it").
type resident struct {
	state    *blame.State
	tree     map[string]plumbing.Hash
	refcount int
}

// Run walks every ancestor of head and returns the sampled time series.
func (w *Walker) Run(head string) ([]Sample, error) {
	commits, err := w.provider.ListCommits(head)
	if err != nil {
		return nil, engineerr.WrapObjectError(err, "listing commits")
	}
	order, byID, err := w.linearize(commits)
	if err != nil {
		return nil, err
	}

	refcounts := computeRefcounts(order, byID)
	live := make(map[plumbing.Hash]*resident, len(order))
	samples := make([]Sample, 0)
	lastWeek := time.Time{}
	haveLastWeek := false

	for i, id := range order {
		if w.cancelled() {
			return nil, engineerr.ErrCancelled
		}
		c := byID[id]

		tree, err := w.provider.TreeFiles(c.ID, w.opts.Predicate)
		if err != nil {
			return nil, engineerr.WrapObjectError(err, "listing tree for "+c.ID.String())
		}

		var state *blame.State
		if len(c.ParentIDs) == 0 {
			state, err = w.deriveRoot(c, tree)
		} else {
			parentRes, ok := live[c.FirstParent()]
			if !ok {
				return nil, engineerr.NewConfigError("first parent state missing for " + c.ID.String())
			}
			state, err = w.derive(c, parentRes, tree)
		}
		if err != nil {
			return nil, err
		}

		if rc := refcounts[c.ID]; rc > 0 {
			live[c.ID] = &resident{state: state, tree: tree, refcount: rc}
		}
		if len(c.ParentIDs) > 0 {
			w.release(live, c.FirstParent())
		}
		if w.opts.OnProgress != nil {
			w.opts.OnProgress(i, len(order))
		}

		wk := weekStart(c.When)
		isNewWeek := !haveLastWeek || !wk.Equal(lastWeek)
		isLast := i == len(order)-1
		if isNewWeek {
			samples = append(samples, Sample{When: c.When, Counts: state.Aggregate()})
			lastWeek = wk
			haveLastWeek = true
		} else if isLast {
			samples = append(samples, Sample{When: c.When, Counts: state.Aggregate()})
		}
	}
	return samples, nil
}

func (w *Walker) cancelled() bool {
	if w.opts.Cancel == nil {
		return false
	}
	select {
	case <-w.opts.Cancel:
		return true
	default:
		return false
	}
}

func (w *Walker) release(live map[plumbing.Hash]*resident, parent plumbing.Hash) {
	res, ok := live[parent]
	if !ok {
		return
	}
	res.refcount--
	if res.refcount <= 0 {
		delete(live, parent)
	}
}

// deriveRoot builds the initial blame state for a commit with no parents
// (spec.md §4.2, from_tree): every line in every tracked file is tagged
// with that commit's year.
func (w *Walker) deriveRoot(c objectprovider.Commit, tree map[string]plumbing.Hash) (*blame.State, error) {
	year := blame.Cohort(c.When.Year())
	lineCounts := make(map[string]int, len(tree))
	for path, blob := range tree {
		n, err := w.provider.BlobLines(blob)
		if err != nil {
			return nil, engineerr.WrapObjectError(err, "counting lines in "+path)
		}
		lineCounts[path] = n
	}
	return blame.FromTree(year, lineCounts), nil
}

// derive computes commit c's blame state from its first parent's
// (spec.md §4.2). Removed paths are dropped, added paths get a uniform
// tag, unchanged blob ids share the parent's *FileBlame by reference, and
// changed blob ids are re-derived in parallel across the worker pool.
func (w *Walker) derive(c objectprovider.Commit, parent *resident, tree map[string]plumbing.Hash) (*blame.State, error) {
	year := blame.Cohort(c.When.Year())
	files := make(map[string]*blame.FileBlame, len(tree))

	type changedFile struct {
		path     string
		oldBlob  plumbing.Hash
		newBlob  plumbing.Hash
		oldBlame *blame.FileBlame
	}
	var changed []changedFile

	for path, newBlob := range tree {
		oldBlob, existed := parent.tree[path]
		switch {
		case !existed:
			n, err := w.provider.BlobLines(newBlob)
			if err != nil {
				return nil, engineerr.WrapObjectError(err, "counting lines in "+path)
			}
			files[path] = blame.NewUniform(n, year)
		case oldBlob == newBlob:
			files[path] = parent.state.Files[path]
		default:
			changed = append(changed, changedFile{
				path: path, oldBlob: oldBlob, newBlob: newBlob,
				oldBlame: parent.state.Files[path],
			})
		}
	}
	// removed paths (present in parent.tree, absent from tree) are simply
	// never copied into files.

	if w.cancelled() {
		return nil, engineerr.ErrCancelled
	}

	if len(changed) > 0 {
		tasks := make([]pool.Task, len(changed))
		for i := range changed {
			cf := changed[i]
			tasks[i] = func() (interface{}, error) {
				if w.cancelled() {
					return nil, engineerr.ErrCancelled
				}
				hunks, err :=w.provider.Diff(cf.path, cf.oldBlob, cf.newBlob)
				if err != nil {
					return nil, engineerr.WrapObjectError(err, "diffing "+cf.path)
				}
				newLen, err := w.provider.BlobLines(cf.newBlob)
				if err != nil {
					return nil, engineerr.WrapObjectError(err, "counting lines in "+cf.path)
				}
				fb, err := blame.DeriveChanged(cf.oldBlame, hunks, year, cf.path, c.ID.String(), newLen)
				if err != nil {
					return nil, err
				}
				if w.opts.Debug {
					if verr := fb.Validate(); verr != nil {
						return nil, engineerr.NewDiffError(cf.path, c.ID.String(), verr.Error())
					}
				}
				return fb, nil
			}
		}
		results, err := w.pool.RunAll(tasks)
		if err != nil {
			return nil, err
		}
		for i, r := range results {
			files[changed[i].path] = r.(*blame.FileBlame)
		}
	}

	return &blame.State{Files: files}, nil
}

// linearize builds the commit DAG over all parent edges and returns it in
// commit-date order (ties broken by id), per spec.md §4.3.
func (w *Walker) linearize(commits []objectprovider.Commit) ([]plumbing.Hash, map[plumbing.Hash]objectprovider.Commit, error) {
	byID := make(map[plumbing.Hash]objectprovider.Commit, len(commits))
	for _, c := range commits {
		byID[c.ID] = c
	}

	sorted := make([]objectprovider.Commit, len(commits))
	copy(sorted, commits)
	sort.Slice(sorted, func(i, j int) bool {
		if !sorted[i].When.Equal(sorted[j].When) {
			return sorted[i].When.Before(sorted[j].When)
		}
		return sorted[i].ID.String() < sorted[j].ID.String()
	})
	rank := make(map[string]int, len(sorted))
	for i, c := range sorted {
		rank[c.ID.String()] = i
	}

	graph := dag.NewGraph(rank)
	for _, c := range commits {
		graph.AddNode(c.ID.String())
	}
	for _, c := range commits {
		for _, p := range c.ParentIDs {
			if _, ok := byID[p]; ok {
				graph.AddEdge(p.String(), c.ID.String())
			}
		}
	}
	order, ok := graph.Toposort()
	if !ok {
		return nil, nil, engineerr.NewConfigError("commit graph contains a cycle")
	}
	ids := make([]plumbing.Hash, len(order))
	for i, s := range order {
		ids[i] = plumbing.NewHash(s)
	}
	return ids, byID, nil
}

// computeRefcounts counts, for every commit, how many children use it as
// their first parent (spec.md §4.3's reference counting).
func computeRefcounts(order []plumbing.Hash, byID map[plumbing.Hash]objectprovider.Commit) map[plumbing.Hash]int {
	counts := make(map[plumbing.Hash]int, len(order))
	for _, id := range order {
		c := byID[id]
		if len(c.ParentIDs) > 0 {
			counts[c.FirstParent()]++
		}
	}
	return counts
}

// weekStart returns the Monday 00:00 UTC boundary of t's calendar week
// (spec.md §4.3's sampling policy).
func weekStart(t time.Time) time.Time {
	t = t.UTC()
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(midnight.Weekday()) + 6) % 7
	return midnight.AddDate(0, 0, -offset)
}
