package simulation

import (
	"sort"
	"time"

	"github.com/azybler/openrailsim/pkg/agents"
	"github.com/azybler/openrailsim/pkg/objects"
)

// Simulation owns an Environment, the agent controlling each object, the
// registered metrics handlers, and the pause/speedup controls the
// executor manipulates between ticks.
type Simulation struct {
	Environment     Environment
	ObjectAgents    map[int64]agents.DecisionAgent
	MetricsHandlers map[string]MetricsHandler

	IsPaused bool
	Speedup  float64
}

// New constructs a Simulation over the given environment with speedup 1
// and no registered agents or handlers.
func New(env Environment) *Simulation {
	return &Simulation{
		Environment:     env,
		ObjectAgents:    make(map[int64]agents.DecisionAgent),
		MetricsHandlers: make(map[string]MetricsHandler),
		Speedup:         1.0,
	}
}

// AddObject registers a movable object and its controlling agent. It
// returns false without effect if an object with that id already exists.
func (s *Simulation) AddObject(id int64, obj *objects.Train, agent agents.DecisionAgent) bool {
	if _, exists := s.Environment.Objects[id]; exists {
		return false
	}
	s.Environment.Objects[id] = obj
	if agent != nil {
		s.ObjectAgents[id] = agent
	}
	return true
}

// RemoveObject removes an object and its agent from the simulation.
func (s *Simulation) RemoveObject(id int64) bool {
	if _, exists := s.Environment.Objects[id]; !exists {
		return false
	}
	delete(s.Environment.Objects, id)
	delete(s.ObjectAgents, id)
	return true
}

// RegisterMetricsHandler adds a handler under the given name, replacing
// any handler previously registered under it.
func (s *Simulation) RegisterMetricsHandler(name string, h MetricsHandler) {
	s.MetricsHandlers[name] = h
}

// Update advances the simulation by one tick of wall-clock duration dt,
// per the four-step algorithm: return immediately if paused; scale by
// speedup; advance every object in deterministic id order; fan events
// out to every registered handler, in emission order.
func (s *Simulation) Update(dt time.Duration) {
	if s.IsPaused {
		return
	}

	effective := time.Duration(float64(dt) * s.Speedup)

	ids := make([]int64, 0, len(s.Environment.Objects))
	for id := range s.Environment.Objects {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var events []Event

	for _, id := range ids {
		obj := s.Environment.Objects[id]
		agent := s.ObjectAgents[id]
		if agent == nil {
			// Agent misconfiguration: advance kinematically only, no
			// action applied.
			s.advanceGeometry(obj, effective, &events, id)
			continue
		}

		agent.Observe(&s.Environment)
		action := agent.NextAction()

		applyKinematics(obj, action, effective)
		s.advanceGeometry(obj, effective, &events, id)

		events = append(events, RailMovableEvent{ObjectID: id, Action: action})
	}

	for _, e := range events {
		for _, h := range s.MetricsHandlers {
			h.Handle(e)
		}
	}
}

// advanceGeometry moves obj along its current edge's polyline by
// speed*dt toward NextTarget, handling arrival: setting Position to
// NextTarget, popping the next queued target, and emitting
// TargetReachedEvent.
func (s *Simulation) advanceGeometry(obj *objects.Train, dt time.Duration, events *[]Event, id int64) {
	if obj.Position == nil || obj.NextTarget == nil || *obj.Position == *obj.NextTarget {
		return
	}
	if obj.GeoLocation == nil {
		return
	}

	edge, ok := s.Environment.Graph.RailwayEdge(*obj.Position, *obj.NextTarget)
	if !ok {
		return
	}

	targetNode, ok := s.Environment.Graph.GetNodeByID(*obj.NextTarget)
	if !ok {
		return
	}
	directionEndpoint := targetNode.Location

	distance := obj.Speed * dt.Seconds()
	remaining := edge.DistanceToEnd(*obj.GeoLocation, directionEndpoint)

	newLoc := edge.PositionOnEdge(*obj.GeoLocation, distance, directionEndpoint)
	obj.GeoLocation = &newLoc

	if distance >= remaining {
		arrived := *obj.NextTarget
		obj.Position = &arrived
		obj.PopNextTarget()
		*events = append(*events, TargetReachedEvent{ObjectID: id})
	}
}

func applyKinematics(obj *objects.Train, action agents.Action, dt time.Duration) {
	secs := dt.Seconds()
	switch a := action.(type) {
	case agents.Stop:
		obj.Speed = 0
		obj.Acceleration = 0
	case agents.AccelerateForward:
		obj.Acceleration = float64(a.AccelerationMMS2) / 1000
		obj.Speed += float64(a.AccelerationMMS2) / 1000 * secs
		if obj.Speed > obj.MaxSpeed {
			obj.Speed = obj.MaxSpeed
		}
	case agents.AccelerateBackward:
		obj.Acceleration = float64(a.AccelerationMMS2) / 1000
		obj.Speed -= float64(a.AccelerationMMS2) / 1000 * secs
		if obj.Speed < 0 {
			obj.Speed = 0
		}
	}
}
