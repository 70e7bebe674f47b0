package railway

import (
	"math"
	"sort"

	"github.com/tidwall/rtree"

	"github.com/azybler/openrailsim/pkg/geo"
)

// Graph is an undirected railway network. Internally nodes and edges are
// stored in compact slices and addressed by external NodeID/EdgeID through
// lookup maps; adjacency is a flat CSR-style array pair so traversal
// during pathfinding never allocates.
type Graph struct {
	nodes []Node
	edges []Edge

	nodeIndex map[NodeID]int
	edgeIndex map[EdgeID]int

	// adjFirstOut[i] .. adjFirstOut[i+1] is the half-open range into
	// adjTo/adjEdge holding node i's neighbors, in no particular order.
	adjFirstOut []int32
	adjTo       []int32 // compact node index of the neighbor
	adjEdge     []int32 // index into edges of the connecting edge

	index rtree.RTree[NodeID]
}

// NewGraph builds a Graph from a flat node and edge list. Edges whose
// endpoints are not present in nodes are dropped; edges with Source ==
// Target are dropped (self-loops are disallowed).
func NewGraph(nodes []Node, edges []Edge) *Graph {
	g := &Graph{
		nodeIndex: make(map[NodeID]int, len(nodes)),
		edgeIndex: make(map[EdgeID]int, len(edges)),
	}

	g.nodes = make([]Node, 0, len(nodes))
	for _, n := range nodes {
		if _, exists := g.nodeIndex[n.ID]; exists {
			continue
		}
		g.nodeIndex[n.ID] = len(g.nodes)
		g.nodes = append(g.nodes, n)
		c := n.Location
		g.index.Insert([2]float64{c.Lon, c.Lat}, [2]float64{c.Lon, c.Lat}, n.ID)
	}

	g.edges = make([]Edge, 0, len(edges))
	for _, e := range edges {
		if e.Source == e.Target {
			continue
		}
		if _, ok := g.nodeIndex[e.Source]; !ok {
			continue
		}
		if _, ok := g.nodeIndex[e.Target]; !ok {
			continue
		}
		g.edgeIndex[e.ID] = len(g.edges)
		g.edges = append(g.edges, e)
	}

	g.buildAdjacency()
	return g
}

func (g *Graph) buildAdjacency() {
	n := len(g.nodes)
	degree := make([]int32, n+1)
	for _, e := range g.edges {
		degree[g.nodeIndex[e.Source]]++
		degree[g.nodeIndex[e.Target]]++
	}

	g.adjFirstOut = make([]int32, n+1)
	var sum int32
	for i := 0; i < n; i++ {
		g.adjFirstOut[i] = sum
		sum += degree[i]
	}
	g.adjFirstOut[n] = sum

	g.adjTo = make([]int32, sum)
	g.adjEdge = make([]int32, sum)

	cursor := make([]int32, n)
	copy(cursor, g.adjFirstOut[:n])

	for edgeIdx, e := range g.edges {
		si := int32(g.nodeIndex[e.Source])
		ti := int32(g.nodeIndex[e.Target])

		g.adjTo[cursor[si]] = ti
		g.adjEdge[cursor[si]] = int32(edgeIdx)
		cursor[si]++

		g.adjTo[cursor[ti]] = si
		g.adjEdge[cursor[ti]] = int32(edgeIdx)
		cursor[ti]++
	}
}

// NumNodes returns the number of nodes in the graph.
func (g *Graph) NumNodes() int { return len(g.nodes) }

// NumEdges returns the number of edges in the graph.
func (g *Graph) NumEdges() int { return len(g.edges) }

// GetNodeByID returns the node with the given id, if present.
func (g *Graph) GetNodeByID(id NodeID) (Node, bool) {
	i, ok := g.nodeIndex[id]
	if !ok {
		return Node{}, false
	}
	return g.nodes[i], true
}

// GetEdgeByID returns the edge with the given id, if present.
func (g *Graph) GetEdgeByID(id EdgeID) (Edge, bool) {
	i, ok := g.edgeIndex[id]
	if !ok {
		return Edge{}, false
	}
	return g.edges[i], true
}

// RailwayEdge returns the edge directly connecting a and b, if one exists.
// When more than one edge connects the same pair (a multigraph segment),
// the first one found during adjacency scan is returned; the choice is
// stable for a given graph but otherwise arbitrary.
func (g *Graph) RailwayEdge(a, b NodeID) (Edge, bool) {
	ai, ok := g.nodeIndex[a]
	if !ok {
		return Edge{}, false
	}
	bi, ok := g.nodeIndex[b]
	if !ok {
		return Edge{}, false
	}

	for k := g.adjFirstOut[ai]; k < g.adjFirstOut[ai+1]; k++ {
		if int(g.adjTo[k]) == bi {
			return g.edges[g.adjEdge[k]], true
		}
	}
	return Edge{}, false
}

// TotalLength returns the sum of LengthM across all edges.
func (g *Graph) TotalLength() float64 {
	total := 0.0
	for _, e := range g.edges {
		total += e.LengthM
	}
	return total
}

// BoundingBox returns the minimum and maximum latitude/longitude spanning
// every node in the graph. ok is false for an empty graph.
func (g *Graph) BoundingBox() (min, max geo.Coord, ok bool) {
	if len(g.nodes) == 0 {
		return geo.Coord{}, geo.Coord{}, false
	}
	min = g.nodes[0].Location
	max = g.nodes[0].Location
	for _, n := range g.nodes[1:] {
		if n.Location.Lat < min.Lat {
			min.Lat = n.Location.Lat
		}
		if n.Location.Lon < min.Lon {
			min.Lon = n.Location.Lon
		}
		if n.Location.Lat > max.Lat {
			max.Lat = n.Location.Lat
		}
		if n.Location.Lon > max.Lon {
			max.Lon = n.Location.Lon
		}
	}
	return min, max, true
}

// NearestNode returns the graph node whose location is closest to c. It
// queries the R-tree with an expanding window rather than a single global
// scan, so lookups on large graphs stay close to the index's local
// density instead of degrading to O(n). Candidates are ranked with
// EquirectangularDist rather than Haversine: NearestNode only needs the
// closest node, not an exact distance, and the equirectangular
// approximation is accurate enough at the scale of a search window to
// never change which candidate wins.
func (g *Graph) NearestNode(c geo.Coord) (NodeID, bool) {
	if len(g.nodes) == 0 {
		return 0, false
	}

	// Degrees of latitude per step of the search window, doubling each
	// round until at least one candidate is found or the whole graph's
	// extent has been covered.
	step := 0.01
	var best NodeID
	bestApprox := math.Inf(1)
	found := false

	for round := 0; round < 20; round++ {
		min := [2]float64{c.Lon - step, c.Lat - step}
		max := [2]float64{c.Lon + step, c.Lat + step}

		g.index.Search(min, max, func(_, _ [2]float64, data NodeID) bool {
			node, ok := g.GetNodeByID(data)
			if !ok {
				return true
			}
			d := geo.EquirectangularDist(c.Lat, c.Lon, node.Location.Lat, node.Location.Lon)
			if d < bestApprox {
				bestApprox = d
				best = data
				found = true
			}
			return true
		})

		if found {
			return best, true
		}
		step *= 2
	}

	// Fallback: full scan, guarantees a result for sparse/degenerate graphs.
	for _, n := range g.nodes {
		d := geo.EquirectangularDist(c.Lat, c.Lon, n.Location.Lat, n.Location.Lon)
		if d < bestApprox {
			bestApprox = d
			best = n.ID
			found = true
		}
	}
	return best, found
}

// CompactIndexOf returns the graph's internal compact index for id. The
// routing package uses this to seed a search; the index is only stable
// for the lifetime of this *Graph value.
func (g *Graph) CompactIndexOf(id NodeID) (int32, bool) {
	i, ok := g.nodeIndex[id]
	if !ok {
		return 0, false
	}
	return int32(i), true
}

// NodeIDAt returns the external NodeID for a compact index.
func (g *Graph) NodeIDAt(i int32) NodeID {
	return g.nodes[i].ID
}

// NodeAt returns the Node at a compact index.
func (g *Graph) NodeAt(i int32) Node {
	return g.nodes[i]
}

// NumCompactNodes returns the number of compact node indices, i.e.
// NumNodes(). Exposed separately so routing code reads intent, not a
// coincidence between two otherwise-unrelated counts.
func (g *Graph) NumCompactNodes() int32 { return int32(len(g.nodes)) }

// Neighbor is one adjacency-list entry: the compact index of the other
// endpoint and the edge connecting it to the node being iterated.
type Neighbor struct {
	To   int32
	Edge int32
}

// NeighborsOf returns i's adjacency list, sorted by neighbor compact
// index, for deterministic traversal order during BFS/Dijkstra/A*.
func (g *Graph) NeighborsOf(i int32) []Neighbor {
	lo, hi := g.adjFirstOut[i], g.adjFirstOut[i+1]
	out := make([]Neighbor, hi-lo)
	for k := lo; k < hi; k++ {
		out[k-lo] = Neighbor{To: g.adjTo[k], Edge: g.adjEdge[k]}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].To < out[b].To })
	return out
}

// EdgeAt returns the Edge at a compact edge index (as stored in Neighbor.Edge).
func (g *Graph) EdgeAt(i int32) Edge {
	return g.edges[i]
}
