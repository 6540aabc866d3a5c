// Package cohort implements the Cohort Aggregator (spec.md §4.4): it
// reduces a walker.Sample series into the rectangular {ys x ts} matrix
// described in spec.md §6 and serializes it to cohorts.json.
//
// The "accumulate the key set, then widen every row to it" shape mirrors
// hercules's BurndownAnalysis.groupStatus/updateHistories pair
// (burndown.go), generalized from hercules's implicit day-index keys to
// this engine's explicit cohort-year keys.
package cohort

import (
	"fmt"
	"sort"

	"github.com/amedeedaboville/gix-of-theseus/internal/blame"
	"github.com/amedeedaboville/gix-of-theseus/internal/walker"
)

// Table is the final output described in spec.md §6.
type Table struct {
	TS     []string  `json:"ts"`
	YS     []int     `json:"ys"`
	Labels []string  `json:"labels"`
	Data   [][]int64 `json:"data"`
}

// Build reduces samples into a Table. The year set is closed over every
// sample before rows are built, so every row is widened with zeros for
// years it did not contain (spec.md §4.4).
func Build(samples []walker.Sample) *Table {
	yearSet := map[blame.Cohort]struct{}{}
	for _, s := range samples {
		for y := range s.Counts {
			yearSet[y] = struct{}{}
		}
	}
	years := make([]blame.Cohort, 0, len(yearSet))
	for y := range yearSet {
		years = append(years, y)
	}
	sort.Slice(years, func(i, j int) bool { return years[i] < years[j] })

	ts := make([]string, len(samples))
	for i, s := range samples {
		ts[i] = s.When.UTC().Format("2006-01-02")
	}

	data := make([][]int64, len(years))
	for i, y := range years {
		row := make([]int64, len(samples))
		for j, s := range samples {
			row[j] = s.Counts[y]
		}
		data[i] = row
	}

	ys := make([]int, len(years))
	labels := make([]string, len(years))
	for i, y := range years {
		ys[i] = int(y)
		labels[i] = fmt.Sprintf("%d", y)
	}

	return &Table{TS: ts, YS: ys, Labels: labels, Data: data}
}

// ColumnSum returns sum_i data[i][j], used by the column-sum property test
// (spec.md §8.3).
func (t *Table) ColumnSum(j int) int64 {
	var sum int64
	for _, row := range t.Data {
		sum += row[j]
	}
	return sum
}
