package metrics

import (
	"testing"

	"github.com/azybler/openrailsim/pkg/agents"
	"github.com/azybler/openrailsim/pkg/simulation"
)

func TestActionCountHandler(t *testing.T) {
	h := NewActionCountHandler()
	h.Handle(simulation.RailMovableEvent{ObjectID: 1, Action: agents.AccelerateForward{AccelerationMMS2: 20}})
	h.Handle(simulation.RailMovableEvent{ObjectID: 1, Action: agents.Stop{}})
	h.Handle(simulation.TargetReachedEvent{ObjectID: 1})

	if h.Value() != 2 {
		t.Fatalf("Value() = %v, want 2 (TargetReachedEvent must not count)", h.Value())
	}
	if h.CountFor("AccelerateForward") != 1 {
		t.Fatalf("CountFor(AccelerateForward) = %v, want 1", h.CountFor("AccelerateForward"))
	}
	if h.CountFor("Stop") != 1 {
		t.Fatalf("CountFor(Stop) = %v, want 1", h.CountFor("Stop"))
	}
}

func TestTargetReachedHandler(t *testing.T) {
	h := NewTargetReachedHandler()
	h.Handle(simulation.TargetReachedEvent{ObjectID: 1})
	h.Handle(simulation.RailMovableEvent{ObjectID: 1, Action: agents.Stop{}})

	if h.Value() != 1 {
		t.Fatalf("Value() = %v, want 1", h.Value())
	}
}
