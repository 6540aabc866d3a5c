package walker

// Densify expands samples, which must already be sorted by When, into one
// entry per calendar week from the first sample's week through the last
// sample's week, repeating the most recent sample's Counts into every week
// that had no triggering commit. This is an explicit opt-in: Walker.Run
// itself only ever emits the sparse, commit-triggered samples spec.md §8
// describes; a caller plotting a dense weekly stacked-area chart calls
// Densify on the result instead.
func Densify(samples []Sample) []Sample {
	if len(samples) == 0 {
		return nil
	}
	out := make([]Sample, 0, len(samples))
	next := 0
	week := weekStart(samples[0].When)
	last := weekStart(samples[len(samples)-1].When)
	for !week.After(last) {
		for next < len(samples) && !weekStart(samples[next].When).After(week) {
			next++
		}
		out = append(out, Sample{When: week, Counts: samples[next-1].Counts})
		week = week.AddDate(0, 0, 7)
	}
	return out
}
