package objectprovider

import (
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/amedeedaboville/gix-of-theseus/internal/blame"
)

// linesToHunks converts a diffmatchpatch line-level diff into the minimal,
// non-overlapping, OldStart-sorted Hunk list spec.md §4.1 requires.
//
// hercules's burndown.go walks the same diffmatchpatch.Diff slice and
// applies each Insert/Delete pair directly to its rbtree File as it goes
// (see handleModification's "apply" closure). This engine's Object/Diff
// Provider and Blame State are separate components (spec.md §2), so the
// walk is done once here to produce an explicit Hunk list, and blame.State
// consumes it independently - that split is also what makes diff
// production unit-testable without a File.
func linesToHunks(diffs []diffmatchpatch.Diff) []blame.Hunk {
	hunks := make([]blame.Hunk, 0, len(diffs))
	oldPos, newPos := 0, 0

	var pending *blame.Hunk
	for _, d := range diffs {
		n := runeLen(d.Text)
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			if pending != nil {
				hunks = append(hunks, *pending)
				pending = nil
			}
			oldPos += n
			newPos += n
		case diffmatchpatch.DiffDelete:
			if pending != nil {
				hunks = append(hunks, *pending)
			}
			pending = &blame.Hunk{OldStart: oldPos, OldLen: n, NewStart: newPos, NewLen: 0}
			oldPos += n
		case diffmatchpatch.DiffInsert:
			if pending != nil && pending.OldLen > 0 {
				pending.NewLen = n
				hunks = append(hunks, *pending)
				pending = nil
			} else {
				if pending != nil {
					hunks = append(hunks, *pending)
				}
				pending = &blame.Hunk{OldStart: oldPos, OldLen: 0, NewStart: newPos, NewLen: n}
			}
			newPos += n
		}
	}
	if pending != nil {
		hunks = append(hunks, *pending)
	}
	return hunks
}

func runeLen(s string) int {
	n := 0
	for range s {
		n++
	}
	return n
}
