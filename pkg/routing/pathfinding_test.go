package routing

import (
	"testing"

	"github.com/azybler/openrailsim/pkg/geo"
	"github.com/azybler/openrailsim/pkg/railway"
)

// threeNodeChain mirrors the seed fixture: nodes 1, 2, 3 connected by
// ways 4 (1-2) and 5 (2-3); node 4 is absent from the graph.
func threeNodeChain() *railway.Graph {
	nodes := []railway.Node{
		{ID: 1, Location: geo.Coord{Lat: 50.1109, Lon: 8.6821}},
		{ID: 2, Location: geo.Coord{Lat: 50.1209, Lon: 8.6921}},
		{ID: 3, Location: geo.Coord{Lat: 50.1309, Lon: 8.6721}},
	}
	edges := []railway.Edge{
		{
			ID: 4, WayID: 4, Source: 1, Target: 2,
			Path:    geo.Polyline{nodes[0].Location, nodes[1].Location},
			LengthM: geo.Dist(nodes[0].Location, nodes[1].Location),
		},
		{
			ID: 5, WayID: 5, Source: 2, Target: 3,
			Path:    geo.Polyline{nodes[1].Location, nodes[2].Location},
			LengthM: geo.Dist(nodes[1].Location, nodes[2].Location),
		},
	}
	return railway.NewGraph(nodes, edges)
}

func TestShortestPathDistance(t *testing.T) {
	g := threeNodeChain()

	tests := []struct {
		src, dst railway.NodeID
		want     float64
		wantOK   bool
	}{
		{1, 2, 1322.421, true},
		{1, 3, 3134.2, true},
		{2, 3, 1811.801, true},
		{1, 4, 0, false},
	}

	for _, tc := range tests {
		got, ok := ShortestPathDistance(g, tc.src, tc.dst)
		if ok != tc.wantOK {
			t.Fatalf("ShortestPathDistance(%d,%d) ok = %v, want %v", tc.src, tc.dst, ok, tc.wantOK)
		}
		if !tc.wantOK {
			continue
		}
		if diff := got - tc.want; diff > 1 || diff < -1 {
			t.Fatalf("ShortestPathDistance(%d,%d) = %v, want ~%v", tc.src, tc.dst, got, tc.want)
		}
	}
}

func TestShortestPathNodes(t *testing.T) {
	g := threeNodeChain()

	path, ok := ShortestPathNodes(g, 1, 2)
	if !ok || !equalIDs(path, []railway.NodeID{1, 2}) {
		t.Fatalf("ShortestPathNodes(1,2) = %v, %v", path, ok)
	}

	path, ok = ShortestPathNodes(g, 1, 3)
	if !ok || !equalIDs(path, []railway.NodeID{1, 2, 3}) {
		t.Fatalf("ShortestPathNodes(1,3) = %v, %v", path, ok)
	}

	path, ok = ShortestPathNodes(g, 2, 3)
	if !ok || !equalIDs(path, []railway.NodeID{2, 3}) {
		t.Fatalf("ShortestPathNodes(2,3) = %v, %v", path, ok)
	}

	if _, ok := ShortestPathNodes(g, 1, 4); ok {
		t.Fatal("ShortestPathNodes(1,4) should fail: node 4 absent")
	}
}

func TestShortestPathEdges(t *testing.T) {
	g := threeNodeChain()

	edges, ok := ShortestPathEdges(g, 1, 2)
	if !ok || !equalEdgeIDs(edges, []railway.EdgeID{4}) {
		t.Fatalf("ShortestPathEdges(1,2) = %v, %v", edges, ok)
	}

	edges, ok = ShortestPathEdges(g, 1, 3)
	if !ok || !equalEdgeIDs(edges, []railway.EdgeID{4, 5}) {
		t.Fatalf("ShortestPathEdges(1,3) = %v, %v", edges, ok)
	}

	if _, ok := ShortestPathEdges(g, 1, 4); ok {
		t.Fatal("ShortestPathEdges(1,4) should fail: node 4 absent")
	}
}

func TestReachableNodes(t *testing.T) {
	g := threeNodeChain()
	got := ReachableNodes(g, 1)
	if !equalIDs(got, []railway.NodeID{2, 3}) {
		t.Fatalf("ReachableNodes(1) = %v, want [2 3]", got)
	}
	for _, id := range got {
		if id == 1 {
			t.Fatal("ReachableNodes must not contain the source itself")
		}
	}
}

func TestGetNextNode(t *testing.T) {
	g := threeNodeChain()

	tests := []struct {
		cur, dst railway.NodeID
		want     railway.NodeID
		wantOK   bool
	}{
		{1, 2, 2, true},
		{1, 3, 2, true},
		{2, 3, 3, true},
		{1, 4, 0, false},
	}
	for _, tc := range tests {
		got, ok := GetNextNode(g, tc.cur, tc.dst)
		if ok != tc.wantOK || (ok && got != tc.want) {
			t.Fatalf("GetNextNode(%d,%d) = %v, %v, want %v, %v", tc.cur, tc.dst, got, ok, tc.want, tc.wantOK)
		}
	}
}

func equalIDs(a, b []railway.NodeID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func equalEdgeIDs(a, b []railway.EdgeID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
