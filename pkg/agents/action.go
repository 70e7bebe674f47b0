// Package agents provides decision agents that observe a simulation
// environment and choose the action a train takes on its next tick.
package agents

import "github.com/azybler/openrailsim/pkg/objects"

// Action is the closed set of kinematic actions a decision agent may
// return. Variants implement isAction to keep the set closed to this
// package; callers type-switch on the concrete types.
type Action interface {
	isAction()
}

// Stop brings the object to a halt.
type Stop struct{}

func (Stop) isAction() {}

// AccelerateForward increases speed by AccelerationMMS2 millimeters per
// second squared, capped at the object's max speed.
type AccelerateForward struct {
	AccelerationMMS2 int32
}

func (AccelerateForward) isAction() {}

// AccelerateBackward decreases speed by AccelerationMMS2 millimeters per
// second squared, floored at zero.
type AccelerateBackward struct {
	AccelerationMMS2 int32
}

func (AccelerateBackward) isAction() {}

// ObservableEnvironment is the read-only view of a simulation environment
// an agent needs. simulation.Environment implements it; defining it here
// (rather than depending on package simulation directly) keeps agents a
// leaf package, since simulation depends on agents for Action/DecisionAgent.
type ObservableEnvironment interface {
	GetObject(id int64) (*objects.Train, bool)
}

// DecisionAgent is called once per tick for each object it controls:
// first Observe snapshots relevant environment state into the agent's
// private fields, then NextAction computes the action from that
// snapshot. Implementations must not block.
type DecisionAgent interface {
	Observe(env ObservableEnvironment)
	NextAction() Action
}
