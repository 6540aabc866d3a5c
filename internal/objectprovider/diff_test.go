package objectprovider

import (
	"testing"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/stretchr/testify/assert"

	"github.com/amedeedaboville/gix-of-theseus/internal/blame"
)

func linesToHunksForText(t *testing.T, a, b string) []blame.Hunk {
	t.Helper()
	dmp := diffmatchpatch.New()
	r1, r2, _ := dmp.DiffLinesToRunes(a, b)
	diffs := dmp.DiffMainRunes(r1, r2, false)
	return linesToHunks(diffs)
}

func TestLinesToHunksAppendOnly(t *testing.T) {
	a := "l1\nl2\nl3\n"
	b := "l1\nl2\nl3\nl4\nl5\n"
	hunks := linesToHunksForText(t, a, b)
	assert.Equal(t, []blame.Hunk{{OldStart: 3, OldLen: 0, NewStart: 3, NewLen: 2}}, hunks)
}

func TestLinesToHunksReplaceMiddle(t *testing.T) {
	a := "l1\nl2\nl3\nl4\nl5\n"
	b := "l1\nx1\nx2\nx3\nx4\nl4\nl5\n"
	hunks := linesToHunksForText(t, a, b)
	assert.Equal(t, []blame.Hunk{{OldStart: 1, OldLen: 2, NewStart: 1, NewLen: 4}}, hunks)
}

func TestLinesToHunksPureDeletion(t *testing.T) {
	a := "l1\nl2\nl3\n"
	b := "l1\nl3\n"
	hunks := linesToHunksForText(t, a, b)
	assert.Equal(t, []blame.Hunk{{OldStart: 1, OldLen: 1, NewStart: 1, NewLen: 0}}, hunks)
}

func TestLinesToHunksIdentical(t *testing.T) {
	a := "l1\nl2\n"
	hunks := linesToHunksForText(t, a, a)
	assert.Empty(t, hunks)
}
