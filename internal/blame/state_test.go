package blame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromTreeAndAggregate(t *testing.T) {
	state := FromTree(2020, map[string]int{"a.txt": 5})
	assert.Equal(t, int64(5), state.TotalLines())
	counts := state.Aggregate()
	assert.Equal(t, map[Cohort]int64{2020: 5}, counts)
}

func TestDeriveChangedAppliesHunksAndValidatesLength(t *testing.T) {
	old := NewUniform(5, 2020)
	hunks := []Hunk{{OldStart: 1, OldLen: 2, NewStart: 1, NewLen: 4}}
	fb, err := DeriveChanged(old, hunks, 2022, "a.txt", "deadbeef", 7)
	require.NoError(t, err)
	assert.Equal(t, 7, fb.Len())
	counts := map[Cohort]int64{}
	fb.Aggregate(counts)
	assert.Equal(t, map[Cohort]int64{2020: 3, 2022: 4}, counts)
}

func TestDeriveChangedLengthMismatchIsFatal(t *testing.T) {
	old := NewUniform(5, 2020)
	hunks := []Hunk{{OldStart: 1, OldLen: 2, NewStart: 1, NewLen: 4}}
	_, err := DeriveChanged(old, hunks, 2022, "a.txt", "deadbeef", 99)
	require.Error(t, err)
}

func TestAggregateEmptyFileContributesNothing(t *testing.T) {
	state := &State{Files: map[string]*FileBlame{"empty.txt": NewUniform(0, 2020)}}
	counts := state.Aggregate()
	assert.Empty(t, counts)
}
