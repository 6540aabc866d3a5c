package blame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func flatten(f *FileBlame) []Cohort {
	out := make([]Cohort, 0, f.Len())
	f.ForEach(func(_ int, c Cohort) { out = append(out, c) })
	return out
}

func TestNewUniform(t *testing.T) {
	f := NewUniform(5, 2020)
	assert.Equal(t, 5, f.Len())
	assert.Equal(t, []Cohort{2020, 2020, 2020, 2020, 2020}, flatten(f))
	require.NoError(t, f.Validate())
}

func TestNewUniformEmpty(t *testing.T) {
	f := NewUniform(0, 2020)
	assert.Equal(t, 0, f.Len())
	assert.Empty(t, flatten(f))
}

func TestSpliceAppendOnly(t *testing.T) {
	// S2: C1 adds 3 lines (2020), C2 appends 2 lines tagged 2021 at the end.
	f := NewUniform(3, 2020)
	g := f.Splice(3, 0, 2, 2021)
	assert.Equal(t, 5, g.Len())
	assert.Equal(t, []Cohort{2020, 2020, 2020, 2021, 2021}, flatten(g))
	// original is untouched
	assert.Equal(t, []Cohort{2020, 2020, 2020}, flatten(f))
	require.NoError(t, g.Validate())
}

func TestSpliceReplaceMiddle(t *testing.T) {
	// S3: 5 lines tagged 2020, replace lines [1,3) with 4 new lines tagged 2022.
	f := NewUniform(5, 2020)
	g := f.Splice(1, 2, 4, 2022)
	assert.Equal(t, 7, g.Len())
	assert.Equal(t, []Cohort{2020, 2022, 2022, 2022, 2022, 2020, 2020}, flatten(g))
	counts := map[Cohort]int64{}
	g.Aggregate(counts)
	assert.Equal(t, map[Cohort]int64{2020: 3, 2022: 4}, counts)
	require.NoError(t, g.Validate())
}

func TestSpliceDeleteAll(t *testing.T) {
	f := NewUniform(3, 2020)
	g := f.Splice(0, 3, 0, 0)
	assert.Equal(t, 0, g.Len())
	assert.Empty(t, flatten(g))
}

func TestSpliceMultipleHunksDescending(t *testing.T) {
	// Two independent hunks applied in descending old_start order, the way
	// blame.DeriveChanged drives FileBlame.Splice.
	f := NewUniform(10, 2020)
	hunks := []Hunk{
		{OldStart: 1, OldLen: 1, NewStart: 1, NewLen: 2},
		{OldStart: 6, OldLen: 2, NewStart: 7, NewLen: 1},
	}
	cur := f
	for i := len(hunks) - 1; i >= 0; i-- {
		h := hunks[i]
		cur = cur.Splice(h.OldStart, h.OldLen, h.NewLen, 2022)
	}
	// original: 10 lines of 2020
	// after hunk@6 (del 2, ins 1 @2022): len 9
	// after hunk@1 (del 1, ins 2 @2022): len 10
	assert.Equal(t, 10, cur.Len())
	want := []Cohort{2020, 2022, 2022, 2020, 2020, 2020, 2020, 2022, 2020, 2020}
	assert.Equal(t, want, flatten(cur))
	require.NoError(t, cur.Validate())
}

func TestRunsStayMaximal(t *testing.T) {
	f := NewUniform(4, 2020)
	g := f.Splice(2, 0, 2, 2020) // inserting lines tagged the same as surrounding lines
	assert.Equal(t, 6, g.Len())
	// runs should have merged, not left as three runs of the same cohort
	assert.Len(t, g.runs, 1)
}
