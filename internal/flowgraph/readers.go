package flowgraph

import "math"

// Support fills an R×C boolean mask with true exactly where the node gate
// I(r,c)->O(r,c) is saturated (forward capacity 0, i.e. carrying flow).
func (g *Graph) Support() [][]bool {
	support := make([][]bool, g.R)
	for row := range support {
		support[row] = make([]bool, g.C)
	}
	for col := 0; col < g.C; col++ {
		for row := 0; row < g.R; row++ {
			edge := g.Edges[g.NodeGateEdge[col][row]]
			support[row][col] = edge.Cap == 0
		}
	}
	return support
}

// AmplitudeSum sums |a[r][c]| over node-gate edges carrying flow.
func (g *Graph) AmplitudeSum() float64 {
	sum := 0.0
	for col := 0; col < g.C; col++ {
		for row := 0; row < g.R; row++ {
			edge := g.Edges[g.NodeGateEdge[col][row]]
			if edge.Cap == 0 {
				sum += g.Amplitudes[row][col]
			}
		}
	}
	return sum
}

// EmdUsed sums emd_cost[|r-r'|] over transport edges carrying flow, rounded
// to the nearest integer per the public reader's contract: with integer
// emd_cost tables (the common case) the sum is already exact, and fractional
// tables are defined to round.
func (g *Graph) EmdUsed() int64 {
	sum := 0.0
	for col := 0; col < g.C-1; col++ {
		for row := 0; row < g.R; row++ {
			lo, hi := NeighborRange(row, g.R, g.W)
			for rp := lo; rp <= hi; rp++ {
				idx := g.transportEdgeIndex(row, col, rp)
				if g.Edges[idx].Cap == 0 {
					sum += g.EmdCost[AbsInt(row-rp)]
				}
			}
		}
	}
	return int64(math.Round(sum))
}
