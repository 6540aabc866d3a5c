package blame

import "github.com/amedeedaboville/gix-of-theseus/internal/engineerr"

// State is the per-commit blame state: a mapping from tracked file path to
// that file's blame (spec.md §3, "Blame state"). Values are shared by
// reference with whichever ancestor state last changed them; State itself
// is never mutated after it is returned from FromTree or Derive.
type State struct {
	Files map[string]*FileBlame
}

// FromTree builds the root blame state: every tracked path gets a uniform
// FileBlame tagged with the root commit's year (spec.md §4.2, from_tree).
// lineCounts maps path to blob line count, as produced by the object
// provider's tree_files + blob_lines.
func FromTree(year Cohort, lineCounts map[string]int) *State {
	files := make(map[string]*FileBlame, len(lineCounts))
	for path, n := range lineCounts {
		files[path] = NewUniform(n, year)
	}
	return &State{Files: files}
}

// DeriveChanged applies a changed file's hunks to its blame from the
// parent commit, in descending OldStart order (spec.md §4.2: "Hunks are
// applied in descending old_start order to preserve index validity with a
// single pass"). newLen is the child blob's line count, used only to
// validate the result.
func DeriveChanged(old *FileBlame, hunks []Hunk, year Cohort, path, commitID string, newLen int) (*FileBlame, error) {
	cur := old
	for i := len(hunks) - 1; i >= 0; i-- {
		h := hunks[i]
		cur = cur.Splice(h.OldStart, h.OldLen, h.NewLen, year)
	}
	if cur.Len() != newLen {
		return nil, engineerr.NewDiffError(path, commitID, "length mismatch after applying hunks")
	}
	return cur, nil
}

// Aggregate reduces the blame state to {cohort -> line count} (spec.md
// §4.2, aggregate). Empty files contribute nothing, matching the "Empty
// files contribute no tags to aggregation" edge case.
func (s *State) Aggregate() map[Cohort]int64 {
	counts := make(map[Cohort]int64)
	for _, fb := range s.Files {
		fb.Aggregate(counts)
	}
	return counts
}

// TotalLines sums the tracked line count across all files; by the
// column-sum invariant (spec.md §8.3) it equals the sum of Aggregate's
// counts.
func (s *State) TotalLines() int64 {
	var total int64
	for _, fb := range s.Files {
		total += int64(fb.Len())
	}
	return total
}
