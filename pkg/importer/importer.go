package importer

import (
	"go.uber.org/zap"

	"github.com/azybler/openrailsim/pkg/geo"
	"github.com/azybler/openrailsim/pkg/railway"
)

// way is a railway=rail element with its node-id path and geometry kept
// together for Phase B/C processing.
type way struct {
	ID       int64
	NodeIDs  []int64
	Geometry geo.Polyline
}

// FromDocument assembles a railway.Graph from a parsed input document,
// per the three-phase algorithm: explicit nodes, implicit junction
// synthesis, then sliding-window edge assembly. Malformed records are
// skipped and logged at debug level; the importer never aborts.
func FromDocument(doc Document, logger *zap.Logger) *railway.Graph {
	if logger == nil {
		logger = zap.NewNop()
	}

	explicit := make(map[int64]geo.Coord)
	var ways []way

	for _, e := range doc.Elements {
		switch e.Type {
		case "node":
			if !isRailwayNode(e) {
				continue
			}
			if e.Lat == nil || e.Lon == nil {
				logger.Debug("skipping node with missing coordinates", zap.Int64("id", e.ID))
				continue
			}
			explicit[e.ID] = geo.Coord{Lat: *e.Lat, Lon: *e.Lon}

		case "way":
			if !isRailwayWay(e) {
				continue
			}
			if len(e.Nodes) < 2 || len(e.Geometry) < 2 {
				logger.Debug("skipping way with insufficient endpoints", zap.Int64("id", e.ID))
				continue
			}
			geomPoly := make(geo.Polyline, len(e.Geometry))
			for i, c := range e.Geometry {
				geomPoly[i] = geo.Coord{Lat: c.Lat, Lon: c.Lon}
			}
			ways = append(ways, way{ID: e.ID, NodeIDs: e.Nodes, Geometry: geomPoly})
		}
	}

	synthesized := synthesizeJunctions(explicit, ways, logger)

	materialized := func(id int64) (geo.Coord, bool) {
		if c, ok := explicit[id]; ok {
			return c, true
		}
		if c, ok := synthesized[id]; ok {
			return c, true
		}
		return geo.Coord{}, false
	}

	nodes := make([]railway.Node, 0, len(explicit)+len(synthesized))
	for id, c := range explicit {
		nodes = append(nodes, railway.Node{ID: railway.NodeID(id), Location: c})
	}
	for id, c := range synthesized {
		nodes = append(nodes, railway.Node{ID: railway.NodeID(id), Location: c})
	}

	edges := assembleEdges(ways, materialized)

	return railway.NewGraph(nodes, edges)
}

// synthesizeJunctions implements Phase B: a node identifier referenced
// by exactly two distinct ways, and with no explicit node, gets a
// synthesized location at whichever of the two ways' geometry vertices
// minimizes the Haversine distance between the pair.
func synthesizeJunctions(explicit map[int64]geo.Coord, ways []way, logger *zap.Logger) map[int64]geo.Coord {
	referencedBy := make(map[int64][]int) // node id -> way indices
	for wi, w := range ways {
		seen := make(map[int64]bool)
		for _, nid := range w.NodeIDs {
			if seen[nid] {
				continue
			}
			seen[nid] = true
			referencedBy[nid] = append(referencedBy[nid], wi)
		}
	}

	synthesized := make(map[int64]geo.Coord)
	for nid, wayIdxs := range referencedBy {
		if _, ok := explicit[nid]; ok {
			continue
		}
		if len(wayIdxs) != 2 {
			continue
		}

		w1, w2 := ways[wayIdxs[0]], ways[wayIdxs[1]]
		c1, _, ok := closestPair(w1.Geometry, w2.Geometry)
		if !ok {
			logger.Debug("skipping junction synthesis with empty geometry",
				zap.Int64("node_id", nid))
			continue
		}

		// c1 and c2 are the closest-approach vertices between the two
		// ways' geometries; either is an acceptable synthesized location
		// since the whole point is that they nearly coincide.
		synthesized[nid] = c1
	}
	return synthesized
}

// closestPair returns the pair of vertices (one from each geometry) that
// minimizes Haversine distance.
func closestPair(g1, g2 geo.Polyline) (geo.Coord, geo.Coord, bool) {
	if len(g1) == 0 || len(g2) == 0 {
		return geo.Coord{}, geo.Coord{}, false
	}
	best1, best2 := g1[0], g2[0]
	bestDist := geo.Dist(best1, best2)
	for _, a := range g1 {
		for _, b := range g2 {
			d := geo.Dist(a, b)
			if d < bestDist {
				bestDist = d
				best1, best2 = a, b
			}
		}
	}
	return best1, best2, true
}

// assembleEdges implements Phase C: a sliding window of consecutive
// node-id pairs per way, materializing an edge wherever both endpoints
// resolve to a graph node. Edge ids are synthesized so that every
// segment of a multi-segment way gets a unique id, while WayID records
// provenance.
func assembleEdges(ways []way, materialized func(int64) (geo.Coord, bool)) []railway.Edge {
	usedIDs := make(map[int64]bool, len(ways))
	for _, w := range ways {
		usedIDs[w.ID] = true
	}
	var nextFallback int64 = 1_000_000_000
	for id := range usedIDs {
		if id >= nextFallback {
			nextFallback = id + 1
		}
	}

	var edges []railway.Edge

	for _, w := range ways {
		segment := 0
		for i := 0; i+1 < len(w.NodeIDs); i++ {
			a, b := w.NodeIDs[i], w.NodeIDs[i+1]
			if a == b {
				continue
			}
			locA, okA := materialized(a)
			locB, okB := materialized(b)
			if !okA || !okB {
				continue
			}

			// geometry carries a vertex per listed node (the Overpass
			// "out geom" convention this importer's input follows), so
			// there are no further vertices strictly between adjacent
			// node positions i and i+1: the segment's path is the
			// straight line between its own endpoints, pinned to the
			// materialized locations so Path[0]/Path[len(Path)-1]
			// exactly equal Source/Target, per the invariant documented
			// on railway.Edge.
			pathSlice := geo.Polyline{locA, locB}
			length := geo.PolylineLength(pathSlice)

			edgeID := w.ID
			if segment > 0 {
				candidate := w.ID*1_000_000 + int64(segment)
				if usedIDs[candidate] {
					candidate = nextFallback
					nextFallback++
				}
				usedIDs[candidate] = true
				edgeID = candidate
			}

			edges = append(edges, railway.Edge{
				ID:      railway.EdgeID(edgeID),
				WayID:   w.ID,
				LengthM: length,
				Path:    pathSlice,
				Source:  railway.NodeID(a),
				Target:  railway.NodeID(b),
			})
			segment++
		}
	}
	return edges
}
