// Package metrics provides handlers that consume simulation events and
// expose scalar values by name.
package metrics

import (
	"github.com/azybler/openrailsim/pkg/agents"
	"github.com/azybler/openrailsim/pkg/simulation"
)

// ActionCountHandler counts RailMovableEvent occurrences, keyed by
// action kind, and exposes the running total across all kinds.
type ActionCountHandler struct {
	counts map[string]int64
	total  int64
}

// NewActionCountHandler constructs an empty handler.
func NewActionCountHandler() *ActionCountHandler {
	return &ActionCountHandler{counts: make(map[string]int64)}
}

func (h *ActionCountHandler) Handle(e simulation.Event) {
	ev, ok := e.(simulation.RailMovableEvent)
	if !ok {
		return
	}
	h.counts[actionKind(ev.Action)]++
	h.total++
}

func (h *ActionCountHandler) Value() float64 {
	return float64(h.total)
}

// CountFor returns the count recorded for a specific action kind
// ("Stop", "AccelerateForward", "AccelerateBackward").
func (h *ActionCountHandler) CountFor(kind string) int64 {
	return h.counts[kind]
}

func actionKind(a agents.Action) string {
	switch a.(type) {
	case agents.Stop:
		return "Stop"
	case agents.AccelerateForward:
		return "AccelerateForward"
	case agents.AccelerateBackward:
		return "AccelerateBackward"
	default:
		return "unknown"
	}
}

// TargetReachedHandler counts TargetReachedEvent occurrences.
type TargetReachedHandler struct {
	count int64
}

// NewTargetReachedHandler constructs an empty handler.
func NewTargetReachedHandler() *TargetReachedHandler {
	return &TargetReachedHandler{}
}

func (h *TargetReachedHandler) Handle(e simulation.Event) {
	if _, ok := e.(simulation.TargetReachedEvent); ok {
		h.count++
	}
}

func (h *TargetReachedHandler) Value() float64 {
	return float64(h.count)
}
