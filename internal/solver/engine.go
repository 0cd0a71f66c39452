// Package solver implements the successive-shortest-augmenting-paths (SSP)
// flow engine: given a built flowgraph.Graph, it resets flow, applies a
// trial lambda, computes initial node potentials, and augments up to F
// shortest paths using Dijkstra with potentials.
package solver

import "github.com/emdflow/emdflow/internal/flowgraph"

// Engine owns one flowgraph.Graph and the scratch memory needed to run it
// repeatedly. Scratch arrays are allocated once in New (priority-queue items
// on first use) and reused across every run_flow call — the lambda search
// driver calls run_flow dozens of times per solve and nothing here allocates
// inside that loop once every node has been reached.
type Engine struct {
	graph   *flowgraph.Graph
	phi     []float64
	scratch *dijkstraScratch

	target int // F = min(sparsity, R), set by SetSparsity

	lastEmdUsed      int64
	lastAmplitude    float64
	lastAugmentCount int
}

// New constructs an Engine bound to g. The engine takes ownership of g for
// the lifetime of a solve call: callers must not mutate g concurrently.
func New(g *flowgraph.Graph) *Engine {
	return &Engine{
		graph:   g,
		phi:     make([]float64, g.NumNodes),
		scratch: newDijkstraScratch(g.NumNodes),
		target:  g.R,
	}
}

// SetSparsity records the target flow F = min(s, R).
func (e *Engine) SetSparsity(s int) {
	if s > e.graph.R {
		s = e.graph.R
	}
	if s < 0 {
		s = 0
	}
	e.target = s
}

// RunFlow performs (R1)-(R5): reset capacities, apply lambda, compute
// initial potentials via one topological pass, then augment up to
// e.target shortest paths. It never fails on valid input; F beyond R was
// already clamped by SetSparsity. Amplitude reward is always fully weighted,
// matching spec.md's run_flow(lambda) contract.
func (e *Engine) RunFlow(lambda float64) {
	e.runFlowWeighted(lambda, 1.0)
}

// ProbeMinTransport runs the feasibility probe described in spec.md's Phase
// A: ignore amplitude reward entirely (reward weight 0) and minimize pure
// transport cost at lambda=1. The resulting emd_used() is the minimum EMD
// cost achievable by any F-path selection, regardless of which cells it
// activates. Support/amplitude_sum are meaningless after this call; only
// EmdUsed() should be read.
func (e *Engine) ProbeMinTransport() {
	e.runFlowWeighted(1.0, 0.0)
}

func (e *Engine) runFlowWeighted(lambda, rewardWeight float64) {
	e.graph.ResetCapacities()
	e.graph.ApplyLambda(lambda)
	e.graph.ApplyRewardWeight(rewardWeight)
	e.initPotentials(lambda, rewardWeight)

	augments := 0
	for i := 0; i < e.target; i++ {
		e.runDijkstra()

		s := e.scratch
		sink := flowgraph.NodeT
		if s.gen[sink] != s.curGen {
			break // T unreachable: flow-augmenting paths exhausted
		}

		// Update potentials for every node reached this round.
		for v := int32(0); v < int32(e.graph.NumNodes); v++ {
			if s.gen[v] == s.curGen {
				e.phi[v] += s.dist[v]
			}
		}

		e.augmentPath(sink)
		augments++
	}

	e.lastAugmentCount = augments
	e.lastEmdUsed = e.graph.EmdUsed()
	e.lastAmplitude = e.graph.AmplitudeSum()
}

// augmentPath walks the recorded predecessor edges from sink back to source,
// flipping each traversed forward edge to capacity 0 and its reverse to
// capacity 1 (pushing one unit of flow).
func (e *Engine) augmentPath(sink int32) {
	s := e.scratch
	node := sink
	for {
		edgeIdx := s.parentEdge[node]
		if edgeIdx < 0 {
			break
		}
		edge := &e.graph.Edges[edgeIdx]
		opp := &e.graph.Edges[edge.Opposite]
		edge.Cap = 0
		opp.Cap = 1

		node = opp.To // the node on the far side of the traversed edge
	}
}

// initPotentials computes (R3): phi so that reduced costs on the zero-flow
// graph are non-negative, exploiting that the graph is a DAG from S to T.
// A single topological pass suffices because every edge goes either
// S->first-column innode, innode->outnode in the same column,
// outnode->next-column innode, or last-column outnode->T.
func (e *Engine) initPotentials(lambda, rewardWeight float64) {
	g := e.graph
	phi := e.phi

	phi[flowgraph.NodeS] = 0
	for row := 0; row < g.R; row++ {
		phi[flowgraph.InNode(row, 0, g.R)] = 0
		phi[flowgraph.OutNode(row, 0, g.R)] = -rewardWeight * g.Amplitudes[row][0]
	}

	for col := 0; col < g.C-1; col++ {
		for rp := 0; rp < g.R; rp++ {
			best := infDistance
			for row := 0; row < g.R; row++ {
				lo, hi := flowgraph.NeighborRange(row, g.R, g.W)
				if rp < lo || rp > hi {
					continue
				}
				cost := lambda * g.EmdCost[flowgraph.AbsInt(row-rp)]
				candidate := phi[flowgraph.OutNode(row, col, g.R)] + cost
				if candidate < best {
					best = candidate
				}
			}
			phi[flowgraph.InNode(rp, col+1, g.R)] = best
		}
		for row := 0; row < g.R; row++ {
			phi[flowgraph.OutNode(row, col+1, g.R)] = phi[flowgraph.InNode(row, col+1, g.R)] - rewardWeight*g.Amplitudes[row][col+1]
		}
	}

	best := infDistance
	for row := 0; row < g.R; row++ {
		if v := phi[flowgraph.OutNode(row, g.C-1, g.R)]; v < best {
			best = v
		}
	}
	phi[flowgraph.NodeT] = best
}

// EmdUsed returns the EMD cost achieved by the most recent RunFlow.
func (e *Engine) EmdUsed() int64 { return e.lastEmdUsed }

// AmplitudeSum returns the amplitude sum achieved by the most recent RunFlow.
func (e *Engine) AmplitudeSum() float64 { return e.lastAmplitude }

// Support returns the R×C boolean activation mask from the most recent
// RunFlow.
func (e *Engine) Support() [][]bool { return e.graph.Support() }

// AugmentCount reports how many augmenting paths the most recent RunFlow
// actually pushed (<= target; fewer if T became unreachable early).
func (e *Engine) AugmentCount() int { return e.lastAugmentCount }
