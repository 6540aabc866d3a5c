// Package dag provides a generic Kahn's-algorithm topological sort over a
// string-keyed graph whose ready-queue tie-breaks are driven by a caller
// supplied total order, not insertion order.
//
// This is a generalization of hercules's internal/toposort package, which
// sorts a pipeline's PipelineItem DAG by declaration order so Pipeline.Run()
// executes items deterministically. The History Walker (spec.md §4.3) needs
// the same "process parents before children, break ties deterministically"
// shape over the commit DAG instead, with commit (timestamp, id) as the
// tie-break instead of declaration order, so the core Graph/Toposort
// machinery is kept and the sort key is made pluggable.
package dag

import "sort"

// Graph represents a directed acyclic graph over string node ids.
type Graph struct {
	outputs map[string]map[string]struct{}
	inputs  map[string]int
	rank    map[string]int // caller-assigned total order for tie-breaking
}

// NewGraph initializes an empty Graph. rank assigns each node id a position
// in the desired tie-break order (e.g. by commit timestamp then id); nodes
// not present in rank sort last, in lexical order, relative to each other.
func NewGraph(rank map[string]int) *Graph {
	return &Graph{
		inputs:  map[string]int{},
		outputs: map[string]map[string]struct{}{},
		rank:    rank,
	}
}

// AddNode inserts a new node. Returns false if it already exists.
func (g *Graph) AddNode(name string) bool {
	if _, exists := g.outputs[name]; exists {
		return false
	}
	g.outputs[name] = map[string]struct{}{}
	g.inputs[name] = 0
	return true
}

// AddEdge inserts the edge from -> to (from must be processed before to).
// Returns the new in-degree of to, or 0 if from is not a known node.
func (g *Graph) AddEdge(from, to string) int {
	m, ok := g.outputs[from]
	if !ok {
		return 0
	}
	if _, dup := m[to]; dup {
		return g.inputs[to]
	}
	m[to] = struct{}{}
	g.inputs[to]++
	return g.inputs[to]
}

type rankSorter struct {
	values []string
	rank   map[string]int
}

func (v rankSorter) Len() int           { return len(v.values) }
func (v rankSorter) Less(i, j int) bool { return less(v.rank, v.values[i], v.values[j]) }
func (v rankSorter) Swap(i, j int)      { v.values[i], v.values[j] = v.values[j], v.values[i] }

func (g *Graph) sortReady(names []string) {
	sort.Sort(rankSorter{values: names, rank: g.rank})
}

// less reports whether a sorts before b under rank, with the same
// missing-rank tie-break as rankSorter.
func less(rank map[string]int, a, b string) bool {
	ra, oka := rank[a]
	rb, okb := rank[b]
	switch {
	case oka && okb:
		return ra < rb
	case !oka && !okb:
		return a < b
	default:
		return oka
	}
}

// mergeSorted merges two already rank-sorted slices into one, preserving
// order. Both a and b must be sorted per less(rank, ...).
func mergeSorted(a, b []string, rank map[string]int) []string {
	out := make([]string, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if less(rank, b[j], a[i]) {
			out = append(out, b[j])
			j++
		} else {
			out = append(out, a[i])
			i++
		}
	}
	out = append(out, a[i:]...)
	out = append(out, b[j:]...)
	return out
}

// Toposort returns the nodes in topological order, with ties among
// simultaneously-ready nodes broken by the Graph's rank. The second
// return value is false if the graph contains a cycle (should never
// happen for a commit DAG fed from a real git history).
func (g *Graph) Toposort() ([]string, bool) {
	result := make([]string, 0, len(g.outputs))
	queue := make([]string, 0, len(g.outputs))
	counters := make(map[string]int, len(g.inputs))

	for n := range g.outputs {
		if g.inputs[n] == 0 {
			queue = append(queue, n)
		}
	}
	g.sortReady(queue)

	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		result = append(result, n)

		var newlyReady []string
		for k := range g.outputs[n] {
			c, ok := counters[k]
			if !ok {
				c = g.inputs[k]
			}
			c--
			counters[k] = c
			if c == 0 {
				newlyReady = append(newlyReady, k)
			}
		}
		if len(newlyReady) == 0 {
			continue
		}
		g.sortReady(newlyReady)
		queue = mergeSorted(queue, newlyReady, g.rank)
	}

	return result, len(result) == len(g.inputs)
}
