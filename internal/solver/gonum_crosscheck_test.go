package solver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emdflow/emdflow/internal/backend"
	"github.com/emdflow/emdflow/internal/flowgraph"
)

// TestGonumCrossCheck_AgreesWithInternalDijkstra re-derives the shortest
// reduced-cost distances gonum's independently-implemented Dijkstra computes
// on the exact residual graph and potentials the internal engine just used,
// and asserts the two agree on every node the internal run actually
// reached. This is the oracle SPEC_FULL.md promises for TypeGonum: a mature,
// independently-implemented shortest-path routine cross-checking
// internal/solver's own Dijkstra on the same residual graph.
func TestGonumCrossCheck_AgreesWithInternalDijkstra(t *testing.T) {
	amplitudes := [][]float64{{0, 1}, {1, 0}, {0, 0}, {1, 1}}
	g, err := flowgraph.Build(amplitudes, 3, []float64{0, 1, 2, 3})
	require.NoError(t, err)

	e := New(g)
	e.SetSparsity(3)
	e.RunFlow(1.0) // leaves the residual graph and phi in a non-trivial state

	// Run one more Dijkstra pass on that exact state without augmenting, so
	// e.scratch.dist/gen hold the internal engine's own answer to compare.
	e.runDijkstra()

	gonumDist := backend.GonumShortestDistances(g, e.phi)

	reached := 0
	for v := int32(0); v < int32(g.NumNodes); v++ {
		if e.scratch.gen[v] != e.scratch.curGen {
			continue // internal Dijkstra never reached v this round
		}
		reached++
		assert.InDelta(t, e.scratch.dist[v], gonumDist[v], 1e-9,
			"node %d: internal dist %v vs gonum dist %v", v, e.scratch.dist[v], gonumDist[v])
	}
	assert.Greater(t, reached, 0, "test is vacuous if no node was reached")
}
