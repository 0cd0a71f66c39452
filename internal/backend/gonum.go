package backend

import (
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/emdflow/emdflow/internal/flowgraph"
)

// GonumShortestDistances re-derives shortest-path distances from S across
// the current residual graph using gonum's independently-implemented
// Dijkstra, for cross-checking internal/solver's own Dijkstra on the same
// edge set. Only edges with positive residual capacity are included,
// matching what internal/solver's Dijkstra relaxes; costs are the reduced
// costs implied by phi, since gonum's DijkstraFrom panics on negative
// edge weights and the raw graph carries negative node-gate costs.
func GonumShortestDistances(g *flowgraph.Graph, phi []float64) []float64 {
	wg := simple.NewWeightedDirectedGraph(0, 0)
	for n := 0; n < g.NumNodes; n++ {
		wg.AddNode(simple.Node(n))
	}
	for i := range g.Edges {
		edge := g.Edges[i]
		if edge.Cap <= 0 {
			continue
		}
		reduced := edge.Cost + phi[edge.From] - phi[edge.To]
		if reduced < 0 {
			reduced = 0
		}
		wg.SetWeightedEdge(simple.WeightedEdge{
			F: simple.Node(edge.From),
			T: simple.Node(edge.To),
			W: reduced,
		})
	}

	tree := path.DijkstraFrom(simple.Node(flowgraph.NodeS), wg)

	distances := make([]float64, g.NumNodes)
	for n := 0; n < g.NumNodes; n++ {
		distances[n] = tree.WeightTo(int64(n))
	}
	return distances
}
