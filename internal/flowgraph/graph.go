// Package flowgraph builds and mutates the layered unit-capacity min-cost
// flow network the solver operates on. Unlike a general-purpose residual
// graph, the topology here is fixed at construction time from R, C, and W:
// every edge and every node id is known in advance, so the graph is a flat,
// reusable array rather than a dynamic adjacency map.
package flowgraph

import "github.com/emdflow/emdflow/pkg/apperror"

// Edge is one directed arc in the flow network. Capacity is always 0 or 1;
// Opposite stores the index of its paired reverse edge explicitly (an
// XOR-pairing trick would work too, but only if edges are allocated in
// strictly consecutive forward/reverse pairs — we keep the explicit index so
// callers never have to reason about pool layout).
type Edge struct {
	From     int32
	To       int32
	Cap      int8
	Cost     float64
	Opposite int32
}

// Graph is the full flow network: S=0, T=1, then an innode/outnode pair per
// cell. Adjacency is a flat edge pool plus, per node, the slice of outgoing
// edge indices into that pool.
type Graph struct {
	R, C int
	W    int // neighborhood width, normalized to [0, R-1]

	// EmdCost[d] is the per-distance transport cost for a vertical jump of d rows.
	EmdCost []float64

	// Amplitudes is the R×C table of |x[r][c]| (or squared, depending on ingest mode).
	Amplitudes [][]float64

	NumNodes int
	Edges    []Edge
	Out      [][]int32 // Out[node] = indices into Edges of its outgoing arcs

	// NodeGateEdge[c][r] indexes each node gate so Support and AmplitudeSum
	// never re-scan the whole pool; transport edges are located per outnode
	// by transportEdgeIndex.
	NodeGateEdge [][]int32 // [c][r] -> edge index of I(r,c)->O(r,c)
}

const (
	NodeS = int32(0)
	NodeT = int32(1)
)

// InNode returns the node id of I(r,c).
func InNode(r, c, R int) int32 {
	return 2 + int32(2*(c*R+r))
}

// OutNode returns the node id of O(r,c).
func OutNode(r, c, R int) int32 {
	return InNode(r, c, R) + 1
}

// Build constructs a Graph from R×C amplitudes, a neighborhood width W
// (already normalized to [0, R-1] by the caller), and a per-distance cost
// table of length W+1. It returns a configuration error — never a partial
// graph — if inputs are inconsistent.
func Build(amplitudes [][]float64, w int, emdCost []float64) (*Graph, error) {
	r := len(amplitudes)
	if r == 0 {
		return nil, apperror.ErrInvalidDimensions
	}
	c := len(amplitudes[0])
	if c == 0 {
		return nil, apperror.ErrInvalidDimensions
	}
	for _, row := range amplitudes {
		if len(row) != c {
			return nil, apperror.New(apperror.CodeInvalidDimensions, "amplitude rows must share the same length")
		}
	}
	if w < 0 || w > r-1 {
		return nil, apperror.ErrInvalidWidth
	}
	if len(emdCost) != w+1 {
		return nil, apperror.ErrInvalidCostTable
	}
	for _, cost := range emdCost {
		if cost < 0 {
			return nil, apperror.New(apperror.CodeInvalidCostTable, "emd_costs entries must be non-negative")
		}
	}

	g := &Graph{
		R:        r,
		C:        c,
		W:        w,
		EmdCost:  append([]float64(nil), emdCost...),
		NumNodes: 2 + 2*r*c,
	}
	g.Amplitudes = make([][]float64, r)
	for i := range amplitudes {
		g.Amplitudes[i] = append([]float64(nil), amplitudes[i]...)
	}

	g.Out = make([][]int32, g.NumNodes)
	g.NodeGateEdge = make([][]int32, c)
	for col := range g.NodeGateEdge {
		g.NodeGateEdge[col] = make([]int32, r)
	}

	// Estimate edge pool capacity to avoid reallocation during the fixed
	// build order below: feeders + drains + gates + transport, each doubled
	// for the paired reverse edge.
	transportCount := 0
	for row := 0; row < r; row++ {
		transportCount += NeighborCount(row, r, w)
	}
	estimate := 2*r + r*c + transportCount*(c-1)
	g.Edges = make([]Edge, 0, 2*estimate)

	// Source feeders: S -> I(r,0).
	for row := 0; row < r; row++ {
		g.addPair(NodeS, InNode(row, 0, r), 0)
	}
	// Sink drains: O(r,C-1) -> T.
	for row := 0; row < r; row++ {
		g.addPair(OutNode(row, c-1, r), NodeT, 0)
	}
	// Node gates: I(r,c) -> O(r,c), cost -|a[r][c]|.
	for col := 0; col < c; col++ {
		for row := 0; row < r; row++ {
			idx := g.addPair(InNode(row, col, r), OutNode(row, col, r), -g.Amplitudes[row][col])
			g.NodeGateEdge[col][row] = idx
		}
	}
	// Transport edges, row-major per source column: O(r,c) -> I(r',c+1).
	for col := 0; col < c-1; col++ {
		for row := 0; row < r; row++ {
			lo, hi := NeighborRange(row, r, w)
			for rp := lo; rp <= hi; rp++ {
				cost := g.EmdCost[AbsInt(row-rp)]
				g.addPair(OutNode(row, col, r), InNode(rp, col+1, r), cost)
			}
		}
	}

	return g, nil
}

// addPair appends a forward edge and its paired reverse edge (capacity 0,
// cost negated), wiring each edge's Opposite index, and returns the forward
// edge's index.
func (g *Graph) addPair(from, to int32, cost float64) int32 {
	fwdIdx := int32(len(g.Edges))
	revIdx := fwdIdx + 1

	g.Edges = append(g.Edges,
		Edge{From: from, To: to, Cap: 1, Cost: cost, Opposite: revIdx},
		Edge{From: to, To: from, Cap: 0, Cost: -cost, Opposite: fwdIdx},
	)

	g.Out[from] = append(g.Out[from], fwdIdx)
	g.Out[to] = append(g.Out[to], revIdx)

	return fwdIdx
}

// ResetCapacities restores the unique flow-free state: every forward edge
// back to capacity 1, every reverse edge to capacity 0. Costs are untouched.
func (g *Graph) ResetCapacities() {
	for i := range g.Edges {
		if i%2 == 0 {
			g.Edges[i].Cap = 1
		} else {
			g.Edges[i].Cap = 0
		}
	}
}

// ApplyLambda rescales every transport edge's cost (and its reverse) by
// lambda. Node-gate and source/sink edge costs are untouched. Transport
// edges are identified as the edges appended after the node gates, i.e.
// those whose endpoints are never S, T, or a same-cell gate; it is simplest
// and cheapest to recompute them directly from row/column rather than scan
// the pool, so ApplyLambda walks the same loop structure Build used.
func (g *Graph) ApplyLambda(lambda float64) {
	for col := 0; col < g.C-1; col++ {
		for row := 0; row < g.R; row++ {
			lo, hi := NeighborRange(row, g.R, g.W)
			for rp := lo; rp <= hi; rp++ {
				base := g.EmdCost[AbsInt(row-rp)]
				fwdIdx := g.transportEdgeIndex(row, col, rp)
				g.Edges[fwdIdx].Cost = lambda * base
				g.Edges[g.Edges[fwdIdx].Opposite].Cost = -lambda * base
			}
		}
	}
}

// ApplyRewardWeight rescales every node-gate edge's cost to -weight*|a[r][c]|
// (and its reverse to weight*|a[r][c]|). Build leaves weight implicitly at 1;
// the only caller that needs a different weight is the feasibility probe
// (Phase A of the lambda search), which sets weight to 0 to ask "what is the
// minimum transport cost achievable while ignoring amplitude reward
// entirely" — a question plain run_flow(lambda) cannot answer because it
// never touches node-gate cost.
func (g *Graph) ApplyRewardWeight(weight float64) {
	for col := 0; col < g.C; col++ {
		for row := 0; row < g.R; row++ {
			idx := g.NodeGateEdge[col][row]
			a := g.Amplitudes[row][col]
			g.Edges[idx].Cost = -weight * a
			g.Edges[g.Edges[idx].Opposite].Cost = weight * a
		}
	}
}

// transportEdgeIndex locates the forward transport edge O(r,c)->I(r',c+1)
// by scanning O(r,c)'s outgoing edges. O(r,c)'s only other outgoing edges
// are the reverse of its own node gate (targeting I(r,c), same column) and,
// on the last column, the sink drain (targeting T) — neither can collide
// with a next-column innode target, so matching on To alone is exact. W is
// small relative to R in the intended workloads, so the scan is cheap.
func (g *Graph) transportEdgeIndex(row, col, rp int) int32 {
	from := OutNode(row, col, g.R)
	to := InNode(rp, col+1, g.R)
	for _, idx := range g.Out[from] {
		if g.Edges[idx].To == to {
			return idx
		}
	}
	panic("flowgraph: transport edge not found")
}

// NeighborRange returns the inclusive [lo, hi] row range reachable from row
// under neighborhood width w, clamped to [0, r-1].
func NeighborRange(row, r, w int) (int, int) {
	lo := row - w
	if lo < 0 {
		lo = 0
	}
	hi := row + w
	if hi > r-1 {
		hi = r - 1
	}
	return lo, hi
}

// NeighborCount returns the number of rows in NeighborRange(row, r, w).
func NeighborCount(row, r, w int) int {
	lo, hi := NeighborRange(row, r, w)
	return hi - lo + 1
}

// AbsInt returns the absolute value of x.
func AbsInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
