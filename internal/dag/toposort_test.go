package dag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToposortRespectsRankAmongReadyNodes(t *testing.T) {
	// diamond: root -> {b, c} -> merge
	rank := map[string]int{"root": 0, "b": 2, "c": 1, "merge": 3}
	g := NewGraph(rank)
	for _, n := range []string{"root", "b", "c", "merge"} {
		g.AddNode(n)
	}
	g.AddEdge("root", "b")
	g.AddEdge("root", "c")
	g.AddEdge("b", "merge")
	g.AddEdge("c", "merge")

	order, ok := g.Toposort()
	require.True(t, ok)
	// root first (only node with in-degree 0); then among {b, c} both become
	// ready simultaneously, rank breaks the tie: c (rank 1) before b (rank 2)
	assert.Equal(t, []string{"root", "c", "b", "merge"}, order)
}

func TestToposortLinearChain(t *testing.T) {
	rank := map[string]int{"a": 0, "b": 1, "c": 2}
	g := NewGraph(rank)
	g.AddNode("c")
	g.AddNode("b")
	g.AddNode("a")
	g.AddEdge("a", "b")
	g.AddEdge("b", "c")
	order, ok := g.Toposort()
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b", "c"}, order)
}

func TestToposortMergesNewlyReadyIntoSortedQueue(t *testing.T) {
	// root -> a1(rank5); root -> b1(rank1) -> b2(rank2).
	// After popping root the queue is [b1(1), a1(5)]. Popping b1 makes b2
	// ready; b2 must be merged ahead of a1, not just appended after it.
	rank := map[string]int{"root": 0, "b1": 1, "b2": 2, "a1": 5}
	g := NewGraph(rank)
	for _, n := range []string{"root", "a1", "b1", "b2"} {
		g.AddNode(n)
	}
	g.AddEdge("root", "a1")
	g.AddEdge("root", "b1")
	g.AddEdge("b1", "b2")

	order, ok := g.Toposort()
	require.True(t, ok)
	assert.Equal(t, []string{"root", "b1", "b2", "a1"}, order)
}

func TestToposortTieBreakFallsBackToLexicalWithoutRank(t *testing.T) {
	g := NewGraph(nil)
	g.AddNode("zeta")
	g.AddNode("alpha")
	order, ok := g.Toposort()
	require.True(t, ok)
	assert.Equal(t, []string{"alpha", "zeta"}, order)
}
