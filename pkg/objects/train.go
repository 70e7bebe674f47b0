// Package objects defines the movable entities a simulation tracks.
package objects

import (
	"github.com/azybler/openrailsim/pkg/geo"
	"github.com/azybler/openrailsim/pkg/railway"
)

// Train is a single railway vehicle with kinematic state. Position
// identifies the node the train most recently departed (or currently
// occupies, when stopped); while between nodes, NextTarget is the node
// being approached and GeoLocation tracks the train's point on the
// connecting edge's polyline.
type Train struct {
	ID int64

	Position   *railway.NodeID
	GeoLocation *geo.Coord
	NextTarget *railway.NodeID
	Targets    []railway.NodeID

	Speed        float64 // m/s
	MaxSpeed     float64 // m/s
	Acceleration float64 // m/s², last-applied magnitude (informational)
}

// PopNextTarget advances Targets into NextTarget, returning whether a new
// target was available. When Targets is empty, NextTarget becomes nil.
func (t *Train) PopNextTarget() bool {
	if len(t.Targets) == 0 {
		t.NextTarget = nil
		return false
	}
	next := t.Targets[0]
	t.Targets = t.Targets[1:]
	t.NextTarget = &next
	return true
}

// HasTarget reports whether the train has both a current position and a
// distinct next target to move toward.
func (t *Train) HasTarget() bool {
	return t.Position != nil && t.NextTarget != nil && *t.Position != *t.NextTarget
}
