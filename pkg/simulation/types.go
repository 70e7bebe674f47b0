// Package simulation owns the railway network and the set of movable
// objects traversing it, and ticks them forward in discrete time steps.
package simulation

import (
	"github.com/azybler/openrailsim/pkg/agents"
	"github.com/azybler/openrailsim/pkg/objects"
	"github.com/azybler/openrailsim/pkg/railway"
)

// Event is the closed set of occurrences a tick can produce. Variants
// implement isEvent to keep the set closed to this package.
type Event interface {
	isEvent()
}

// RailMovableEvent records the action an object took during a tick.
type RailMovableEvent struct {
	ObjectID int64
	Action   agents.Action
}

func (RailMovableEvent) isEvent() {}

// TargetReachedEvent fires when an object arrives at its next target.
type TargetReachedEvent struct {
	ObjectID int64
}

func (TargetReachedEvent) isEvent() {}

// MetricsHandler consumes events and exposes a running scalar value.
// Defined here (rather than in package metrics) so Simulation can hold a
// collection of handlers without importing the package that implements
// them, mirroring the agents.ObservableEnvironment pattern.
type MetricsHandler interface {
	Handle(e Event)
	Value() float64
}

// Environment owns the railway graph and the live object map. The graph
// is immutable for the life of a simulation; objects are mutated only
// from within Simulation.Update.
type Environment struct {
	Graph   *railway.Graph
	Objects map[int64]*objects.Train
}

// GetObject implements agents.ObservableEnvironment.
func (e *Environment) GetObject(id int64) (*objects.Train, bool) {
	o, ok := e.Objects[id]
	return o, ok
}
