package railway

import (
	"testing"

	"github.com/azybler/openrailsim/pkg/geo"
)

func planarEdge() Edge {
	poly := geo.Polyline{
		{Lat: 0, Lon: 0},
		{Lat: 0, Lon: 10},
		{Lat: 10, Lon: 10},
		{Lat: 10, Lon: 20},
		{Lat: 20, Lon: 20},
	}
	return Edge{
		ID: 1, Source: 10, Target: 11,
		Path:    poly,
		LengthM: 1500, // declared length, intentionally not reconciled with geometry
	}
}

func TestPositionOnEdgeNoOp(t *testing.T) {
	e := planarEdge()
	p := geo.Coord{Lat: 0, Lon: 5}
	got := e.PositionOnEdge(p, 0, e.Path[len(e.Path)-1])
	if got != p {
		t.Fatalf("PositionOnEdge(p, 0, ...) = %+v, want %+v", got, p)
	}
}

func TestDistanceToEndEqualsLength(t *testing.T) {
	e := planarEdge()
	start := e.Path[0]
	end := e.Path[len(e.Path)-1]
	got := e.DistanceToEnd(start, end)
	want := geo.PolylineLength(e.Path)
	if diff := got - want; diff > 1 || diff < -1 {
		t.Fatalf("DistanceToEnd(path[0], path[last]) = %v, want ~%v", got, want)
	}
}

// PositionOnEdge clamps to directionEndpoint once the requested distance
// meets or exceeds the remaining polyline length. This implementation's
// choice for the out-of-bounds case is implementation-defined; it does not
// extrapolate past the polyline.
func TestPositionOnEdgeClampsAtBounds(t *testing.T) {
	e := planarEdge()
	current := geo.Coord{Lat: 0, Lon: 5}

	farTarget := e.Path[len(e.Path)-1]
	got := e.PositionOnEdge(current, 10_000_000, farTarget)
	if got != farTarget {
		t.Fatalf("PositionOnEdge far beyond bounds = %+v, want clamp to %+v", got, farTarget)
	}

	farSource := e.Path[0]
	got = e.PositionOnEdge(current, 1_000_000, farSource)
	if got != farSource {
		t.Fatalf("PositionOnEdge far beyond bounds (source dir) = %+v, want clamp to %+v", got, farSource)
	}
}

func TestPositionOnEdgeInterpolatesMidSegment(t *testing.T) {
	e := planarEdge()
	current := e.Path[0]
	v1 := e.Path[1]
	target := e.Path[len(e.Path)-1]

	segLen := geo.Dist(current, v1)
	ratio := (segLen / 4) / segLen // quarter of the way into the first segment
	want := geo.Coord{
		Lat: current.Lat + ratio*(v1.Lat-current.Lat),
		Lon: current.Lon + ratio*(v1.Lon-current.Lon),
	}

	got := e.PositionOnEdge(current, segLen/4, target)
	if diffLat := got.Lat - want.Lat; diffLat > 1e-6 || diffLat < -1e-6 {
		t.Fatalf("PositionOnEdge mid-segment lat = %v, want %v", got.Lat, want.Lat)
	}
	if diffLon := got.Lon - want.Lon; diffLon > 1e-6 || diffLon < -1e-6 {
		t.Fatalf("PositionOnEdge mid-segment lon = %v, want %v", got.Lon, want.Lon)
	}
}

func TestDistanceToEndZeroWhenAtDirectionEndpoint(t *testing.T) {
	e := planarEdge()
	end := e.Path[len(e.Path)-1]
	if got := e.DistanceToEnd(end, end); got != 0 {
		t.Fatalf("DistanceToEnd(end, end) = %v, want 0", got)
	}
}
