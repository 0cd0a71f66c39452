package backend

import (
	"context"
	"fmt"

	"github.com/katalvlaran/lvlath/core"
	"github.com/katalvlaran/lvlath/flow"

	"github.com/emdflow/emdflow/internal/flowgraph"
)

// ProbeFeasibility asks lvlath's Dinic max-flow implementation whether the
// neighborhood-width-restricted network can push min(sparsity, R)
// unit-capacity paths from source to sink, entirely ignoring cost.
//
// This is a structural invariant check, not a feasibility gate: every row
// r always has a same-row transport edge O(r,c)->I(r,c+1) for any width
// flowgraph.Build accepts (Build rejects width < 0), so the R diagonal
// paths alone are vertex-disjoint and always reach the sink. That makes
// lvlath's computed max flow always >= R >= any valid sparsity target for
// a graph Build produced — this function can never observe insufficient
// capacity there. It exists to cross-validate that invariant against an
// independent max-flow implementation (a regression guard: a false result
// means graph construction itself broke, not that the caller's X/sparsity
// combination is infeasible) and as a standalone capacity check for graphs
// assembled outside of Build's own validation.
//
// Reports false only when lvlath's computed max flow is strictly below the
// target; a reachability-only answer, never EMD cost or amplitude sum.
func ProbeFeasibility(g *flowgraph.Graph, sparsity int) (bool, error) {
	target := sparsity
	if target > g.R {
		target = g.R
	}
	if target <= 0 {
		return true, nil
	}

	lg := core.NewGraph(core.WithDirected(true), core.WithWeighted())
	for n := 0; n < g.NumNodes; n++ {
		if err := lg.AddVertex(nodeName(n)); err != nil {
			return false, fmt.Errorf("backend: lvlath AddVertex: %w", err)
		}
	}
	// Only forward edges (Cap==1 at the unique flow-free state) matter for
	// a pure capacity probe: node gates, feeders, drains, and transport
	// edges each contribute one unit of capacity regardless of cost.
	for i := 0; i < len(g.Edges); i += 2 {
		edge := g.Edges[i]
		if _, err := lg.AddEdge(nodeName(int(edge.From)), nodeName(int(edge.To)), 1); err != nil {
			return false, fmt.Errorf("backend: lvlath AddEdge: %w", err)
		}
	}

	opts := flow.DefaultOptions()
	opts.Ctx = context.Background()

	maxFlow, _, err := flow.Dinic(lg, nodeName(int(flowgraph.NodeS)), nodeName(int(flowgraph.NodeT)), opts)
	if err != nil {
		return false, fmt.Errorf("backend: lvlath Dinic: %w", err)
	}

	return maxFlow >= float64(target), nil
}

func nodeName(id int) string {
	return fmt.Sprintf("n%d", id)
}
