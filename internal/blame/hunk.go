package blame

// Hunk is a contiguous replacement region in a line-level diff, using
// 0-based inclusive-start / exclusive-end indexing (spec.md §4.1). Hunks
// for a given file are sorted by OldStart and non-overlapping.
type Hunk struct {
	OldStart int
	OldLen   int
	NewStart int
	NewLen   int
}
