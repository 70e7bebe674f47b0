// Package railway models a railway network as an undirected graph of
// tracks (edges) and junctions/stations (nodes), built from imported
// infrastructure data and queried by the routing and simulation packages.
package railway

import (
	"github.com/azybler/openrailsim/pkg/geo"
)

// NodeID is the external, stable identifier of a railway node, as carried
// by the source infrastructure data. It is distinct from the graph's
// internal compact index, which is never exposed.
type NodeID int64

// EdgeID is the external, stable identifier of a railway edge (track
// segment). Edge ids are synthesized by the importer and are unique
// across the whole graph, even when several edges originate from the
// same Way.
type EdgeID int64

// Node is a junction, station, or other point of interest in the railway
// network.
type Node struct {
	ID       NodeID
	Location geo.Coord
}

// Edge is a track segment connecting two nodes. Path always has at least
// two points; Path[0] is Source's location and Path[len(Path)-1] is
// Target's location.
type Edge struct {
	ID      EdgeID
	WayID   int64
	LengthM float64
	Path    geo.Polyline
	Source  NodeID
	Target  NodeID
}

// OtherEnd returns the node at the opposite end of the edge from n.
// It panics if n is neither endpoint, which would indicate a caller bug.
func (e Edge) OtherEnd(n NodeID) NodeID {
	switch n {
	case e.Source:
		return e.Target
	case e.Target:
		return e.Source
	default:
		panic("railway: node is not an endpoint of edge")
	}
}
