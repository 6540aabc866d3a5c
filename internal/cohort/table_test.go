package cohort

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/amedeedaboville/gix-of-theseus/internal/blame"
	"github.com/amedeedaboville/gix-of-theseus/internal/walker"
)

func TestBuildWidensMissingYears(t *testing.T) {
	samples := []walker.Sample{
		{
			When:   time.Date(2019, 1, 7, 0, 0, 0, 0, time.UTC),
			Counts: map[blame.Cohort]int64{2019: 100},
		},
		{
			When:   time.Date(2020, 3, 15, 0, 0, 0, 0, time.UTC),
			Counts: map[blame.Cohort]int64{2019: 60, 2020: 40},
		},
	}

	table := Build(samples)

	assert.Equal(t, []string{"2019-01-07", "2020-03-15"}, table.TS)
	assert.Equal(t, []int{2019, 2020}, table.YS)
	assert.Equal(t, []string{"2019", "2020"}, table.Labels)
	assert.Equal(t, [][]int64{
		{100, 60},
		{0, 40},
	}, table.Data)
}

func TestBuildEmptySamples(t *testing.T) {
	table := Build(nil)
	assert.Empty(t, table.TS)
	assert.Empty(t, table.YS)
	assert.Empty(t, table.Labels)
	assert.Empty(t, table.Data)
}

func TestBuildSingleSample(t *testing.T) {
	samples := []walker.Sample{
		{
			When:   time.Date(2020, 3, 15, 0, 0, 0, 0, time.UTC),
			Counts: map[blame.Cohort]int64{2020: 5},
		},
	}
	table := Build(samples)
	assert.Equal(t, []string{"2020-03-15"}, table.TS)
	assert.Equal(t, [][]int64{{5}}, table.Data)
}

func TestColumnSum(t *testing.T) {
	samples := []walker.Sample{
		{
			When:   time.Date(2019, 1, 7, 0, 0, 0, 0, time.UTC),
			Counts: map[blame.Cohort]int64{2019: 100},
		},
		{
			When:   time.Date(2020, 3, 15, 0, 0, 0, 0, time.UTC),
			Counts: map[blame.Cohort]int64{2019: 60, 2020: 40},
		},
	}
	table := Build(samples)
	assert.Equal(t, int64(100), table.ColumnSum(0))
	assert.Equal(t, int64(100), table.ColumnSum(1))
}
