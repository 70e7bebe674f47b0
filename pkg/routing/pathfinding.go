package routing

import (
	"math"

	"github.com/azybler/openrailsim/pkg/geo"
	"github.com/azybler/openrailsim/pkg/railway"
)

const noPred = int32(-1)

// ShortestPathDistance returns the Dijkstra shortest-path distance, in
// meters, between source and target, or false if either node is absent
// from the graph or no path exists.
func ShortestPathDistance(g *railway.Graph, source, target railway.NodeID) (float64, bool) {
	srcIdx, ok := g.CompactIndexOf(source)
	if !ok {
		return 0, false
	}
	dstIdx, ok := g.CompactIndexOf(target)
	if !ok {
		return 0, false
	}

	dist := runDijkstra(g, srcIdx, dstIdx)
	d := dist[dstIdx]
	if math.IsInf(d, 1) {
		return 0, false
	}
	return d, true
}

// ShortestPathNodes returns the A*-shortest node sequence from start to
// end, including both endpoints, using the great-circle distance to end
// as an admissible heuristic.
func ShortestPathNodes(g *railway.Graph, start, end railway.NodeID) ([]railway.NodeID, bool) {
	startIdx, ok := g.CompactIndexOf(start)
	if !ok {
		return nil, false
	}
	endIdx, ok := g.CompactIndexOf(end)
	if !ok {
		return nil, false
	}

	n := g.NumCompactNodes()
	gScore := make([]float64, n)
	pred := make([]int32, n)
	for i := range gScore {
		gScore[i] = math.Inf(1)
		pred[i] = noPred
	}
	gScore[startIdx] = 0

	endLoc := g.NodeAt(endIdx).Location
	heuristic := func(i int32) float64 {
		return geo.Dist(g.NodeAt(i).Location, endLoc)
	}

	visited := make([]bool, n)
	var pq MinHeap
	pq.Push(startIdx, heuristic(startIdx))

	for pq.Len() > 0 {
		cur := pq.Pop()
		if visited[cur.Node] {
			continue
		}
		visited[cur.Node] = true

		if cur.Node == endIdx {
			break
		}

		for _, nb := range g.NeighborsOf(cur.Node) {
			if visited[nb.To] {
				continue
			}
			edge := g.EdgeAt(nb.Edge)
			cand := gScore[cur.Node] + edge.LengthM
			if cand < gScore[nb.To] {
				gScore[nb.To] = cand
				pred[nb.To] = cur.Node
				pq.Push(nb.To, cand+heuristic(nb.To))
			}
		}
	}

	if math.IsInf(gScore[endIdx], 1) {
		return nil, false
	}

	var path []railway.NodeID
	for i := endIdx; i != noPred; i = pred[i] {
		path = append([]railway.NodeID{g.NodeIDAt(i)}, path...)
		if i == startIdx {
			break
		}
	}
	return path, true
}

// ShortestPathEdges converts the shortest node path from start to end
// into the sequence of edges directly connecting consecutive nodes.
// Returns false if the node sequence has fewer than two nodes.
func ShortestPathEdges(g *railway.Graph, start, end railway.NodeID) ([]railway.EdgeID, bool) {
	nodes, ok := ShortestPathNodes(g, start, end)
	if !ok || len(nodes) < 2 {
		return nil, false
	}

	edges := make([]railway.EdgeID, 0, len(nodes)-1)
	for i := 0; i+1 < len(nodes); i++ {
		e, ok := g.RailwayEdge(nodes[i], nodes[i+1])
		if !ok {
			return nil, false
		}
		edges = append(edges, e.ID)
	}
	return edges, true
}

// ReachableNodes returns every node reachable from source via BFS,
// excluding source itself, in BFS visitation order.
func ReachableNodes(g *railway.Graph, source railway.NodeID) []railway.NodeID {
	srcIdx, ok := g.CompactIndexOf(source)
	if !ok {
		return nil
	}

	visited := make([]bool, g.NumCompactNodes())
	visited[srcIdx] = true
	queue := []int32{srcIdx}

	var order []railway.NodeID
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, nb := range g.NeighborsOf(cur) {
			if visited[nb.To] {
				continue
			}
			visited[nb.To] = true
			order = append(order, g.NodeIDAt(nb.To))
			queue = append(queue, nb.To)
		}
	}
	return order
}

// ReachableEdges returns every edge touched by a BFS from source.
func ReachableEdges(g *railway.Graph, source railway.NodeID) []railway.EdgeID {
	srcIdx, ok := g.CompactIndexOf(source)
	if !ok {
		return nil
	}

	visited := make([]bool, g.NumCompactNodes())
	visited[srcIdx] = true
	queue := []int32{srcIdx}

	seenEdge := make(map[railway.EdgeID]bool)
	var edges []railway.EdgeID
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, nb := range g.NeighborsOf(cur) {
			e := g.EdgeAt(nb.Edge)
			if !seenEdge[e.ID] {
				seenEdge[e.ID] = true
				edges = append(edges, e.ID)
			}
			if visited[nb.To] {
				continue
			}
			visited[nb.To] = true
			queue = append(queue, nb.To)
		}
	}
	return edges
}

// GetNextNode returns the second node of the shortest path from current
// to dst, i.e. the node to move to next, or false if no path exists.
func GetNextNode(g *railway.Graph, current, dst railway.NodeID) (railway.NodeID, bool) {
	path, ok := ShortestPathNodes(g, current, dst)
	if !ok || len(path) < 2 {
		return 0, false
	}
	return path[1], true
}

// runDijkstra computes single-source shortest distances from src to
// every reachable node, by edge length.
func runDijkstra(g *railway.Graph, src, dst int32) []float64 {
	n := g.NumCompactNodes()
	dist := make([]float64, n)
	for i := range dist {
		dist[i] = math.Inf(1)
	}
	dist[src] = 0

	visited := make([]bool, n)
	var pq MinHeap
	pq.Push(src, 0)

	for pq.Len() > 0 {
		cur := pq.Pop()
		if visited[cur.Node] {
			continue
		}
		visited[cur.Node] = true
		if cur.Node == dst {
			return dist
		}

		for _, nb := range g.NeighborsOf(cur.Node) {
			if visited[nb.To] {
				continue
			}
			edge := g.EdgeAt(nb.Edge)
			cand := dist[cur.Node] + edge.LengthM
			if cand < dist[nb.To] {
				dist[nb.To] = cand
				pq.Push(nb.To, cand)
			}
		}
	}
	return dist
}
