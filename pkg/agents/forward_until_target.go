package agents

import "github.com/azybler/openrailsim/pkg/railway"

// ForwardUntilTargetAgent is the simplest correct agent: it accelerates
// forward until the object's position matches its next target, then
// stops. This is the agent used by the simulation's own tests.
type ForwardUntilTargetAgent struct {
	ObjectID int64

	position *railway.NodeID
	target   *railway.NodeID
}

// NewForwardUntilTargetAgent constructs an agent controlling objectID.
func NewForwardUntilTargetAgent(objectID int64) *ForwardUntilTargetAgent {
	return &ForwardUntilTargetAgent{ObjectID: objectID}
}

func (a *ForwardUntilTargetAgent) Observe(env ObservableEnvironment) {
	obj, ok := env.GetObject(a.ObjectID)
	if !ok {
		return
	}
	a.position = obj.Position
	a.target = obj.NextTarget
}

func (a *ForwardUntilTargetAgent) NextAction() Action {
	if a.targetReached() {
		return Stop{}
	}
	return AccelerateForward{AccelerationMMS2: 20}
}

func (a *ForwardUntilTargetAgent) targetReached() bool {
	if a.position == nil || a.target == nil {
		return a.position == nil && a.target == nil
	}
	return *a.position == *a.target
}
