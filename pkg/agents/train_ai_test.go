package agents

import "testing"

func TestBuildActionSpaceSize(t *testing.T) {
	p := HyperParameters{MaxAccelMMS2: 100, StepMMS2: 20}
	actions := buildActionSpace(p)
	want := 1 + 2*(100/20)
	if len(actions) != want {
		t.Fatalf("buildActionSpace size = %d, want %d", len(actions), want)
	}
	if _, ok := actions[0].(Stop); !ok {
		t.Fatalf("actions[0] = %#v, want Stop", actions[0])
	}
}

func TestTrainAgentAILearnsToAccelerate(t *testing.T) {
	agent := NewTrainAgentAI(1, DefaultHyperParameters())
	agent.Train(500)

	s := state{deltaDistanceMM: 10_000, currentSpeedMMS: 0, maxSpeedPercentage: 0}
	best := agent.bestActionIndex(s)

	if _, ok := agent.actions[best].(Stop); ok {
		t.Fatal("after training from a full stop far from target, best action should not be Stop")
	}
}

func TestRewardIncreasesWithSpeedAndProgress(t *testing.T) {
	slow := reward(state{deltaDistanceMM: 5000, maxSpeedPercentage: 10})
	fast := reward(state{deltaDistanceMM: 5000, maxSpeedPercentage: 90})
	if fast <= slow {
		t.Fatalf("reward at 90%% max speed (%v) should exceed reward at 10%% (%v)", fast, slow)
	}
}
