package solver

import "container/heap"

// =============================================================================
// Dijkstra's algorithm with node potentials
// =============================================================================
//
// The residual graph built by flowgraph carries negative costs on node gates
// (-|a[r][c]|), so a plain Dijkstra cannot run directly on it. Node
// potentials (maintained by Engine across augmentations) keep every residual
// reduced cost c(u,v)+phi(u)-phi(v) non-negative, which is what lets this
// package use a min-heap instead of Bellman-Ford on every augmenting path.
//
// Time complexity per call: O((V+E) log V) with a binary heap.
// =============================================================================

// pqItem is one entry in the priority queue.
type pqItem struct {
	node     int32
	distance float64
	index    int
}

// priorityQueue is a min-heap keyed by distance, tie-broken by node id for
// deterministic pop order.
type priorityQueue []*pqItem

func (pq priorityQueue) Len() int { return len(pq) }

func (pq priorityQueue) Less(i, j int) bool {
	if pq[i].distance != pq[j].distance {
		return pq[i].distance < pq[j].distance
	}
	return pq[i].node < pq[j].node
}

func (pq priorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}

func (pq *priorityQueue) Push(x any) {
	item := x.(*pqItem)
	item.index = len(*pq)
	*pq = append(*pq, item)
}

func (pq *priorityQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*pq = old[:n-1]
	return item
}

func (pq *priorityQueue) update(item *pqItem, distance float64) {
	item.distance = distance
	heap.Fix(pq, item.index)
}

// dijkstraScratch is the reused working memory for one shortest-path run. It
// is sized once to NumNodes and reset cheaply via a generation stamp instead
// of a full O(V) clear on every augmentation.
type dijkstraScratch struct {
	dist       []float64
	parentEdge []int32 // edge index used to reach node, -1 if none
	gen        []int32
	curGen     int32
	items      []*pqItem
	pq         priorityQueue
}

func newDijkstraScratch(numNodes int) *dijkstraScratch {
	return &dijkstraScratch{
		dist:       make([]float64, numNodes),
		parentEdge: make([]int32, numNodes),
		gen:        make([]int32, numNodes),
		curGen:     0,
		items:      make([]*pqItem, numNodes),
		pq:         make(priorityQueue, 0, numNodes),
	}
}

// reset begins a new round without zeroing dist/parentEdge/items — stale
// entries are simply invisible because their gen stamp is behind curGen.
func (s *dijkstraScratch) reset() {
	s.curGen++
	s.pq = s.pq[:0]
}

const infDistance = 1e18

// run computes shortest reduced-cost distances from S (node 0) to every
// node reachable in the residual graph, using the reduced cost
// cost(u,v) + phi[u] - phi[v], which the caller guarantees is >= 0 for every
// edge with positive residual capacity.
//
// Only edges with Cap > 0 are relaxed. On return, dist[v] holds the
// reduced-cost distance from S to v for every reached v. Because phi was
// already consistent with the true cost function before this call, adding
// phi[v] += dist[v] afterward yields a phi that is consistent with the true
// cost function again (Johnson's technique) — this is exactly the update
// the caller performs.
func (e *Engine) runDijkstra() {
	s := e.scratch
	s.reset()

	source := int32(0)
	s.dist[source] = 0
	s.gen[source] = s.curGen
	s.parentEdge[source] = -1

	startItem := s.items[source]
	if startItem == nil {
		startItem = &pqItem{}
		s.items[source] = startItem
	}
	startItem.node, startItem.distance = source, 0
	heap.Push(&s.pq, startItem)

	for s.pq.Len() > 0 {
		top := heap.Pop(&s.pq).(*pqItem)
		u := top.node

		if s.gen[u] == s.curGen && top.distance > s.dist[u] {
			continue // stale entry
		}
		s.gen[u] = s.curGen

		for _, edgeIdx := range e.graph.Out[u] {
			edge := &e.graph.Edges[edgeIdx]
			if edge.Cap <= 0 {
				continue
			}
			v := edge.To
			reduced := edge.Cost + e.phi[u] - e.phi[v]
			if reduced < 0 {
				if reduced > -epsilon {
					reduced = 0 // clamp floating-point noise
				}
			}
			nd := s.dist[u] + reduced

			if s.gen[v] != s.curGen || nd < s.dist[v] {
				s.dist[v] = nd
				s.gen[v] = s.curGen
				s.parentEdge[v] = edgeIdx
				item := s.items[v]
				if item != nil && item.index >= 0 {
					s.pq.update(item, nd)
				} else {
					if item == nil {
						item = &pqItem{}
						s.items[v] = item
					}
					item.node, item.distance = v, nd
					heap.Push(&s.pq, item)
				}
			}
		}
	}
}

const epsilon = 1e-9
