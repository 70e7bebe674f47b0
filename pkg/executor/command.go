package executor

import (
	"fmt"
	"sort"

	"github.com/azybler/openrailsim/pkg/simulation"
)

// Command is the closed set of imperative commands the executor's host
// may issue against a running Simulation. Execute returns a short status
// string and whether the command was recognized/applied.
type Command interface {
	Execute(sim *simulation.Simulation) (string, bool)
}

// Pause toggles the simulation's paused state.
type Pause struct{}

func (Pause) Execute(sim *simulation.Simulation) (string, bool) {
	sim.IsPaused = !sim.IsPaused
	if sim.IsPaused {
		return "Simulation paused", true
	}
	return "Simulation resumed", true
}

// Speedup sets the simulation's time-scaling factor.
type Speedup struct {
	Factor float64
}

func (c Speedup) Execute(sim *simulation.Simulation) (string, bool) {
	sim.Speedup = c.Factor
	return fmt.Sprintf("Speedup set to %v", c.Factor), true
}

// ObjectList lists the ids of every object currently in the simulation.
type ObjectList struct{}

func (ObjectList) Execute(sim *simulation.Simulation) (string, bool) {
	ids := make([]int64, 0, len(sim.Environment.Objects))
	for id := range sim.Environment.Objects {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return fmt.Sprintf("Objects: %v", ids), true
}

// ObjectShow reports detailed state for a single object by id.
type ObjectShow struct {
	ObjectID int64
}

func (c ObjectShow) Execute(sim *simulation.Simulation) (string, bool) {
	obj, ok := sim.Environment.Objects[c.ObjectID]
	if !ok {
		return fmt.Sprintf("Object %d not found", c.ObjectID), false
	}
	return fmt.Sprintf("Object %d: %+v", c.ObjectID, *obj), true
}

// MetricsList lists the names of every registered metrics handler.
type MetricsList struct{}

func (MetricsList) Execute(sim *simulation.Simulation) (string, bool) {
	names := make([]string, 0, len(sim.MetricsHandlers))
	for name := range sim.MetricsHandlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Sprintf("Available metrics: %v", names), true
}

// MetricsGet retrieves the current value of a named metrics handler.
type MetricsGet struct {
	Name string
}

func (c MetricsGet) Execute(sim *simulation.Simulation) (string, bool) {
	h, ok := sim.MetricsHandlers[c.Name]
	if !ok {
		return fmt.Sprintf("Metric '%s' not found", c.Name), false
	}
	return fmt.Sprintf("%s: %v", c.Name, h.Value()), true
}
