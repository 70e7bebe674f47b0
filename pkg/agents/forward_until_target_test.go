package agents

import (
	"testing"

	"github.com/azybler/openrailsim/pkg/objects"
	"github.com/azybler/openrailsim/pkg/railway"
)

type fakeEnv struct {
	objs map[int64]*objects.Train
}

func (f *fakeEnv) GetObject(id int64) (*objects.Train, bool) {
	o, ok := f.objs[id]
	return o, ok
}

func TestForwardUntilTargetAgent(t *testing.T) {
	pos := railway.NodeID(0)
	target := railway.NodeID(5)

	train := &objects.Train{ID: 1, Position: &pos, NextTarget: &target}
	env := &fakeEnv{objs: map[int64]*objects.Train{1: train}}

	agent := NewForwardUntilTargetAgent(1)
	agent.Observe(env)

	action := agent.NextAction()
	forward, ok := action.(AccelerateForward)
	if !ok || forward.AccelerationMMS2 != 20 {
		t.Fatalf("NextAction() = %#v, want AccelerateForward{20}", action)
	}

	train.Position = &target
	agent.Observe(env)
	if _, ok := agent.NextAction().(Stop); !ok {
		t.Fatalf("NextAction() after reaching target = %#v, want Stop", agent.NextAction())
	}
}

func TestForwardUntilTargetAgentMissingObject(t *testing.T) {
	env := &fakeEnv{objs: map[int64]*objects.Train{}}
	agent := NewForwardUntilTargetAgent(99)
	agent.Observe(env)
	if _, ok := agent.NextAction().(Stop); !ok {
		t.Fatalf("NextAction() with no observed object = %#v, want Stop", agent.NextAction())
	}
}
