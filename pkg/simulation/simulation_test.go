package simulation

import (
	"testing"
	"time"

	"github.com/azybler/openrailsim/pkg/agents"
	"github.com/azybler/openrailsim/pkg/geo"
	"github.com/azybler/openrailsim/pkg/objects"
	"github.com/azybler/openrailsim/pkg/railway"
)

func twoNodeGraph() *railway.Graph {
	n1 := railway.Node{ID: 1, Location: geo.Coord{Lat: 0, Lon: 0}}
	n2 := railway.Node{ID: 2, Location: geo.Coord{Lat: 0, Lon: 0.0001}}
	edge := railway.Edge{
		ID: 1, WayID: 1, Source: 1, Target: 2,
		Path:    geo.Polyline{n1.Location, n2.Location},
		LengthM: geo.Dist(n1.Location, n2.Location),
	}
	return railway.NewGraph([]railway.Node{n1, n2}, []railway.Edge{edge})
}

func newTestSimulation() (*Simulation, *objects.Train) {
	g := twoNodeGraph()
	pos := railway.NodeID(1)
	target := railway.NodeID(2)
	loc := geo.Coord{Lat: 0, Lon: 0}

	train := &objects.Train{
		ID: 1, Position: &pos, NextTarget: &target, GeoLocation: &loc,
		Speed: 0, MaxSpeed: 30,
	}

	sim := New(Environment{Graph: g, Objects: map[int64]*objects.Train{}})
	sim.AddObject(1, train, agents.NewForwardUntilTargetAgent(1))
	return sim, train
}

func TestSimulationTickAcceleratesAndMoves(t *testing.T) {
	sim, train := newTestSimulation()
	startLoc := *train.GeoLocation

	sim.Update(time.Second)

	if train.Speed != 20.0/1000*1 {
		t.Fatalf("speed after one tick = %v, want %v", train.Speed, 20.0/1000)
	}

	endNode, _ := sim.Environment.Graph.GetNodeByID(2)
	before := geo.Dist(startLoc, endNode.Location)
	after := geo.Dist(*train.GeoLocation, endNode.Location)
	if after >= before {
		t.Fatalf("geo_location did not move closer to target: before=%v after=%v", before, after)
	}
}

func TestSimulationPausedSkipsUpdate(t *testing.T) {
	sim, train := newTestSimulation()
	sim.IsPaused = true
	sim.Update(time.Second)
	if train.Speed != 0 {
		t.Fatalf("paused simulation must not change speed, got %v", train.Speed)
	}
}

type countingHandler struct {
	count int
}

func (h *countingHandler) Handle(e Event) {
	if _, ok := e.(TargetReachedEvent); ok {
		h.count++
	}
}
func (h *countingHandler) Value() float64 { return float64(h.count) }

func TestTargetReachedEmitsEvent(t *testing.T) {
	sim, train := newTestSimulation()
	train.Speed = train.MaxSpeed // arrive in a single tick

	handler := &countingHandler{}
	sim.RegisterMetricsHandler("TargetReached", handler)

	sim.Update(time.Second)

	if train.Position == nil || *train.Position != 2 {
		t.Fatalf("train.Position = %v, want 2", train.Position)
	}
	if handler.Value() != 1 {
		t.Fatalf("TargetReached handler value = %v, want 1", handler.Value())
	}
}
